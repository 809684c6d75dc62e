// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Setting keys used by the site.
const (
	SettingKeySiteName     = "site_name"
	SettingKeyLogoURL      = "logo_url"
	SettingKeyContactEmail = "contact_email"
	SettingKeyContactPhone = "contact_phone"
)

// SiteSetting is a flat key/value entry for global site fields such as the
// company name, logo URL and per-section background overrides.
type SiteSetting struct {
	SettingKey   string    `json:"setting_key"`
	SettingValue string    `json:"setting_value"`
	UpdatedAt    time.Time `json:"updated_at"`
}
