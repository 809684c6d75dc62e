// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content is the single source of truth for landing page content.
// All reads and writes of sections, section items and site settings go
// through the Repository, which persists to the store and publishes a
// row-change event for every successful write.
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/prosperleaders/prosper-go/internal/model"
	"github.com/prosperleaders/prosper-go/internal/realtime"
	"github.com/prosperleaders/prosper-go/internal/store"
)

// ErrNotFound is returned when a section, item or setting does not exist.
var ErrNotFound = errors.New("content: not found")

// ErrInvalidIcon is returned when an item write names an icon outside the
// supported set.
var ErrInvalidIcon = errors.New("content: invalid icon name")

// textSanitizer strips all HTML from editor-supplied text fields. Content
// text renders into templates as plain text, so no markup survives.
var textSanitizer = bluemonday.StrictPolicy()

// Repository wraps the store with validation, sanitization and change
// publication.
type Repository struct {
	queries *store.Queries
	pub     realtime.Publisher
	logger  *slog.Logger
}

// NewRepository creates a repository over the given store. Writes publish
// change events through pub.
func NewRepository(queries *store.Queries, pub realtime.Publisher, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{queries: queries, pub: pub, logger: logger}
}

// FetchSection returns the section with the given name.
func (r *Repository) FetchSection(ctx context.Context, name string) (model.Section, error) {
	section, err := r.queries.GetSectionByName(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Section{}, fmt.Errorf("%w: section %q", ErrNotFound, name)
	}
	return section, err
}

// FetchSections returns every section.
func (r *Repository) FetchSections(ctx context.Context) ([]model.Section, error) {
	return r.queries.ListSections(ctx)
}

// FetchItems returns a section's items ordered by order_index.
func (r *Repository) FetchItems(ctx context.Context, sectionID int64) ([]model.SectionItem, error) {
	return r.queries.ListItemsBySection(ctx, sectionID)
}

// UpdateSection applies a patch to the named section. Nil patch fields are
// left unchanged. The published event carries only the patched columns.
func (r *Repository) UpdateSection(ctx context.Context, name string, patch model.SectionPatch) (model.Section, error) {
	cur, err := r.FetchSection(ctx, name)
	if err != nil {
		return model.Section{}, err
	}

	row := map[string]any{"section_name": cur.SectionName}
	arg := store.UpdateSectionParams{
		ID:              cur.ID,
		Title:           cur.Title,
		Subtitle:        cur.Subtitle,
		BackgroundImage: cur.BackgroundImage,
		FeaturedImage:   cur.FeaturedImage,
		UpdatedAt:       time.Now().UTC(),
	}
	if patch.Title != nil {
		arg.Title = sanitize(*patch.Title)
		row["title"] = arg.Title
	}
	if patch.Subtitle != nil {
		arg.Subtitle = sanitize(*patch.Subtitle)
		row["subtitle"] = arg.Subtitle
	}
	if patch.BackgroundImage != nil {
		arg.BackgroundImage = nullString(*patch.BackgroundImage)
		row["background_image"] = arg.BackgroundImage.String
	}
	if patch.FeaturedImage != nil {
		arg.FeaturedImage = nullString(*patch.FeaturedImage)
		row["featured_image"] = arg.FeaturedImage.String
	}

	updated, err := r.queries.UpdateSection(ctx, arg)
	if err != nil {
		return model.Section{}, fmt.Errorf("update section %q: %w", name, err)
	}
	r.publish(realtime.NewEvent(realtime.TableSections, realtime.OpUpdate, updated.ID, row))
	return updated, nil
}

// NewItem holds the fields for inserting a section item.
type NewItem struct {
	Title       string
	Description string
	IconName    string
	ImageURL    string
	OrderIndex  int64
}

// InsertItem adds an item to a section. The icon name must be one of the
// supported icons when set.
func (r *Repository) InsertItem(ctx context.Context, sectionID int64, item NewItem) (model.SectionItem, error) {
	if item.IconName != "" && !model.IsValidIconName(item.IconName) {
		return model.SectionItem{}, fmt.Errorf("%w: %q", ErrInvalidIcon, item.IconName)
	}
	if _, err := r.queries.GetSectionByID(ctx, sectionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SectionItem{}, fmt.Errorf("%w: section %d", ErrNotFound, sectionID)
		}
		return model.SectionItem{}, err
	}

	now := time.Now().UTC()
	created, err := r.queries.CreateItem(ctx, store.CreateItemParams{
		SectionID:   sectionID,
		Title:       sanitize(item.Title),
		Description: sanitize(item.Description),
		IconName:    item.IconName,
		ImageURL:    nullString(item.ImageURL),
		OrderIndex:  item.OrderIndex,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.SectionItem{}, fmt.Errorf("insert item: %w", err)
	}
	r.publish(realtime.NewEvent(realtime.TableItems, realtime.OpInsert, created.ID, map[string]any{
		"section_id":  created.SectionID,
		"title":       created.Title,
		"description": created.Description,
		"icon_name":   created.IconName,
		"image_url":   created.ImageURL.String,
		"order_index": created.OrderIndex,
	}))
	return created, nil
}

// UpdateItem applies a patch to an item. Nil patch fields are left
// unchanged. The published event carries only the patched columns.
func (r *Repository) UpdateItem(ctx context.Context, id int64, patch model.ItemPatch) (model.SectionItem, error) {
	if patch.IconName != nil && *patch.IconName != "" && !model.IsValidIconName(*patch.IconName) {
		return model.SectionItem{}, fmt.Errorf("%w: %q", ErrInvalidIcon, *patch.IconName)
	}
	cur, err := r.queries.GetItemByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SectionItem{}, fmt.Errorf("%w: item %d", ErrNotFound, id)
	}
	if err != nil {
		return model.SectionItem{}, err
	}

	row := map[string]any{"section_id": cur.SectionID}
	arg := store.UpdateItemParams{
		ID:          cur.ID,
		Title:       cur.Title,
		Description: cur.Description,
		IconName:    cur.IconName,
		ImageURL:    cur.ImageURL,
		OrderIndex:  cur.OrderIndex,
		UpdatedAt:   time.Now().UTC(),
	}
	if patch.Title != nil {
		arg.Title = sanitize(*patch.Title)
		row["title"] = arg.Title
	}
	if patch.Description != nil {
		arg.Description = sanitize(*patch.Description)
		row["description"] = arg.Description
	}
	if patch.IconName != nil {
		arg.IconName = *patch.IconName
		row["icon_name"] = arg.IconName
	}
	if patch.ImageURL != nil {
		arg.ImageURL = nullString(*patch.ImageURL)
		row["image_url"] = arg.ImageURL.String
	}
	if patch.OrderIndex != nil {
		arg.OrderIndex = *patch.OrderIndex
		row["order_index"] = arg.OrderIndex
	}

	updated, err := r.queries.UpdateItem(ctx, arg)
	if err != nil {
		return model.SectionItem{}, fmt.Errorf("update item %d: %w", id, err)
	}
	r.publish(realtime.NewEvent(realtime.TableItems, realtime.OpUpdate, updated.ID, row))
	return updated, nil
}

// DeleteItem removes an item.
func (r *Repository) DeleteItem(ctx context.Context, id int64) error {
	cur, err := r.queries.GetItemByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: item %d", ErrNotFound, id)
	}
	if err != nil {
		return err
	}
	if err := r.queries.DeleteItem(ctx, id); err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	r.publish(realtime.NewEvent(realtime.TableItems, realtime.OpDelete, id, map[string]any{
		"section_id": cur.SectionID,
	}))
	return nil
}

// GetSetting returns one site setting.
func (r *Repository) GetSetting(ctx context.Context, key string) (model.SiteSetting, error) {
	setting, err := r.queries.GetSetting(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SiteSetting{}, fmt.Errorf("%w: setting %q", ErrNotFound, key)
	}
	return setting, err
}

// ListSettings returns every site setting.
func (r *Repository) ListSettings(ctx context.Context) ([]model.SiteSetting, error) {
	return r.queries.ListSettings(ctx)
}

// PutSetting creates or replaces a site setting.
func (r *Repository) PutSetting(ctx context.Context, key, value string) (model.SiteSetting, error) {
	setting, err := r.queries.UpsertSetting(ctx, store.UpsertSettingParams{
		SettingKey:   key,
		SettingValue: sanitize(value),
		UpdatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return model.SiteSetting{}, fmt.Errorf("put setting %q: %w", key, err)
	}
	// Settings key on setting_key rather than a numeric ID; RowID stays zero.
	r.publish(realtime.NewEvent(realtime.TableSettings, realtime.OpUpdate, 0, map[string]any{
		"setting_key":   setting.SettingKey,
		"setting_value": setting.SettingValue,
	}))
	return setting, nil
}

func (r *Repository) publish(ev realtime.Event) {
	if r.pub == nil {
		return
	}
	r.pub.Publish(ev)
}

func sanitize(s string) string {
	return textSanitizer.Sanitize(s)
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
