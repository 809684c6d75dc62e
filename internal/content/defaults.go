// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prosperleaders/prosper-go/internal/model"
	"github.com/prosperleaders/prosper-go/internal/store"
)

// defaultSection is seed content for one landing page section.
type defaultSection struct {
	name            string
	title           string
	subtitle        string
	backgroundImage string
	featuredImage   string
	items           []NewItem
}

// defaultSections holds the content served before an editor has touched
// anything. Pages also fall back to these values per field when a stored
// section is missing.
var defaultSections = []defaultSection{
	{
		name:            model.SectionHero,
		title:           "We Are Growing the Team",
		subtitle:        "Full-time, part-time, twin career or entrepreneurship opportunities in the financial industry",
		backgroundImage: "https://images.unsplash.com/photo-1521737604893-d14cc237f11d?auto=format&fit=crop&w=2084&q=80",
	},
	{
		name:     model.SectionOpportunities,
		title:    "Choose Your Path to Success",
		subtitle: "We offer diverse opportunities to match your lifestyle and career goals in the financial industry",
		items: []NewItem{
			{Title: "Full-Time Positions", Description: "Dedicated career paths with comprehensive benefits and growth opportunities in the financial sector.", IconName: model.IconClock, OrderIndex: 1},
			{Title: "Part-Time Flexibility", Description: "Balance your life while building a rewarding career in financial services with flexible scheduling.", IconName: model.IconCalendar, OrderIndex: 2},
			{Title: "Twin Career Path", Description: "Perfect for couples or partners looking to build complementary careers in the financial industry.", IconName: model.IconUsers, OrderIndex: 3},
			{Title: "Entrepreneurship", Description: "Launch your own financial services business with our proven systems and ongoing support.", IconName: model.IconTrendingUp, OrderIndex: 4},
		},
	},
	{
		name:     model.SectionBenefits,
		title:    "Why Choose Prosperity Leaders?",
		subtitle: "We invest in our people with industry-leading support, training and rewards",
		items: []NewItem{
			{Title: "Industry Recognition", Description: "Join a team recognized for excellence in financial services and client satisfaction.", IconName: model.IconAward, OrderIndex: 1},
			{Title: "Clear Growth Path", Description: "Well-defined career progression with mentorship and leadership development programs.", IconName: model.IconTarget, OrderIndex: 2},
			{Title: "Supportive Culture", Description: "Work in an environment that values collaboration, integrity, and personal growth.", IconName: model.IconHeart, OrderIndex: 3},
			{Title: "Comprehensive Benefits", Description: "Health insurance, retirement planning, and financial protection for you and your family.", IconName: model.IconShield, OrderIndex: 4},
			{Title: "Continuous Learning", Description: "Access to industry training, certifications, and professional development resources.", IconName: model.IconBookOpen, OrderIndex: 5},
			{Title: "Competitive Compensation", Description: "Attractive base salary plus performance-based incentives and bonuses.", IconName: model.IconDollarSign, OrderIndex: 6},
		},
	},
	{
		name:          model.SectionLeadership,
		title:         "Meet Your Leader",
		subtitle:      "Led by industry expert Jenny Rodriguez-Minchala, our team is committed to your success",
		featuredImage: "https://images.unsplash.com/photo-1594736797933-d0d62a0a2fe2?auto=format&fit=crop&w=1974&q=80",
	},
}

// DefaultSection returns the built-in content for the named section, used
// as a render fallback when the store has no row for it.
func DefaultSection(name string) (model.Section, bool) {
	for _, d := range defaultSections {
		if d.name == name {
			return model.Section{
				SectionName:     d.name,
				Title:           d.title,
				Subtitle:        d.subtitle,
				BackgroundImage: nullString(d.backgroundImage),
				FeaturedImage:   nullString(d.featuredImage),
			}, true
		}
	}
	return model.Section{}, false
}

// DefaultItems returns the built-in items for the named section as
// render-ready rows. IDs are zero since nothing is stored.
func DefaultItems(name string) []model.SectionItem {
	for _, d := range defaultSections {
		if d.name == name {
			items := make([]model.SectionItem, 0, len(d.items))
			for _, it := range d.items {
				items = append(items, model.SectionItem{
					Title:       it.Title,
					Description: it.Description,
					IconName:    it.IconName,
					ImageURL:    nullString(it.ImageURL),
					OrderIndex:  it.OrderIndex,
				})
			}
			return items
		}
	}
	return nil
}

// SeedDefaults creates any landing page sections that do not exist yet,
// together with their default items. Existing sections are never touched,
// so editor changes survive restarts.
func SeedDefaults(ctx context.Context, queries *store.Queries, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now().UTC()
	for _, d := range defaultSections {
		_, err := queries.GetSectionByName(ctx, d.name)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("seed: check section %q: %w", d.name, err)
		}

		section, err := queries.CreateSection(ctx, store.CreateSectionParams{
			SectionName:     d.name,
			Title:           d.title,
			Subtitle:        d.subtitle,
			BackgroundImage: nullString(d.backgroundImage),
			FeaturedImage:   nullString(d.featuredImage),
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return fmt.Errorf("seed: create section %q: %w", d.name, err)
		}
		for _, item := range d.items {
			if _, err := queries.CreateItem(ctx, store.CreateItemParams{
				SectionID:   section.ID,
				Title:       item.Title,
				Description: item.Description,
				IconName:    item.IconName,
				ImageURL:    nullString(item.ImageURL),
				OrderIndex:  item.OrderIndex,
				CreatedAt:   now,
				UpdatedAt:   now,
			}); err != nil {
				return fmt.Errorf("seed: create item %q: %w", item.Title, err)
			}
		}
		logger.Info("seeded default section", "section", d.name, "items", len(d.items))
	}
	return nil
}
