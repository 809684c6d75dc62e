// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Lead status values.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusClosed    = "closed"
)

// ValidLeadStatuses returns all valid lead statuses.
func ValidLeadStatuses() []string {
	return []string{
		LeadStatusNew,
		LeadStatusContacted,
		LeadStatusQualified,
		LeadStatusClosed,
	}
}

// IsValidLeadStatus checks if a status is valid.
func IsValidLeadStatus(status string) bool {
	for _, s := range ValidLeadStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// Lead is an interest form submitted from the public call-to-action form.
type Lead struct {
	ID        int64          `json:"id"`
	UUID      string         `json:"uuid"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     sql.NullString `json:"phone,omitempty"`
	Interest  string         `json:"interest"`
	Message   sql.NullString `json:"message,omitempty"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
