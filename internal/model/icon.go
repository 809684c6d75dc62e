// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Icon names available to section items. The set is closed: writes carrying
// an unknown name are rejected instead of silently rendering nothing.
const (
	IconClock      = "Clock"
	IconCalendar   = "Calendar"
	IconUsers      = "Users"
	IconTrendingUp = "TrendingUp"
	IconAward      = "Award"
	IconTarget     = "Target"
	IconHeart      = "Heart"
	IconShield     = "Shield"
	IconBookOpen   = "BookOpen"
	IconDollarSign = "DollarSign"
	IconStar       = "Star"
	IconBriefcase  = "Briefcase"
)

// ValidIconNames returns all icon names section items may reference.
func ValidIconNames() []string {
	return []string{
		IconClock,
		IconCalendar,
		IconUsers,
		IconTrendingUp,
		IconAward,
		IconTarget,
		IconHeart,
		IconShield,
		IconBookOpen,
		IconDollarSign,
		IconStar,
		IconBriefcase,
	}
}

// IsValidIconName checks if an icon name is part of the closed set.
func IsValidIconName(name string) bool {
	for _, n := range ValidIconNames() {
		if n == name {
			return true
		}
	}
	return false
}
