// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including Section, SectionItem, Lead and User structures.
package model

import (
	"database/sql"
	"time"
)

// Well-known section names on the landing page.
const (
	SectionHero          = "hero"
	SectionOpportunities = "opportunities"
	SectionBenefits      = "benefits"
	SectionLeadership    = "leadership"
)

// Section represents a named, editable region of the landing page.
type Section struct {
	ID              int64          `json:"id"`
	SectionName     string         `json:"section_name"`
	Title           string         `json:"title"`
	Subtitle        string         `json:"subtitle"`
	BackgroundImage sql.NullString `json:"background_image,omitempty"`
	FeaturedImage   sql.NullString `json:"featured_image,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// SectionItem is an ordered child record of a Section, e.g. one benefit
// card. Items render ascending by OrderIndex; ties break arbitrarily.
type SectionItem struct {
	ID          int64          `json:"id"`
	SectionID   int64          `json:"section_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	IconName    string         `json:"icon_name"`
	ImageURL    sql.NullString `json:"image_url,omitempty"`
	OrderIndex  int64          `json:"order_index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// SectionPatch holds the editable fields of a Section. Nil pointers mean
// "leave unchanged".
type SectionPatch struct {
	Title           *string
	Subtitle        *string
	BackgroundImage *string
	FeaturedImage   *string
}

// ItemPatch holds the editable fields of a SectionItem. Nil pointers mean
// "leave unchanged".
type ItemPatch struct {
	Title       *string
	Description *string
	IconName    *string
	ImageURL    *string
	OrderIndex  *int64
}
