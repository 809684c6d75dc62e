// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

// Package editor drives the admin editing workflow: one open edit at a
// time, drafts that diff against the loaded snapshot so commits touch only
// changed fields, and optimistic saves that report apply and persist
// outcomes separately.
package editor

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/prosperleaders/prosper-go/internal/content"
	"github.com/prosperleaders/prosper-go/internal/model"
)

// Workflow states.
type State string

const (
	StateViewing  State = "viewing"
	StateEditing  State = "editing"
	StateCreating State = "creating"
)

var (
	// ErrEditInProgress is returned when a begin call finds an open edit.
	ErrEditInProgress = errors.New("editor: another edit is in progress")
	// ErrNoOpenEdit is returned when a commit finds no open edit.
	ErrNoOpenEdit = errors.New("editor: no edit in progress")
	// ErrNotConfirmed is returned when a delete arrives without confirmation.
	ErrNotConfirmed = errors.New("editor: delete not confirmed")
)

// CommitResult reports the two distinct outcomes of an optimistic save:
// whether the change was accepted and applied to the working state, and
// whether it reached the store. A save that passes validation but fails to
// persist stays applied; there is no rollback, only the error surfaced to
// the caller.
type CommitResult struct {
	Applied   bool
	Persisted bool
	Err       error
}

// SectionDraft is the editable snapshot of a section.
type SectionDraft struct {
	SectionName     string
	Title           string
	Subtitle        string
	BackgroundImage string
	FeaturedImage   string
}

// ItemDraft is the editable snapshot of a section item.
type ItemDraft struct {
	ID          int64
	SectionID   int64
	Title       string
	Description string
	IconName    string
	ImageURL    string
	OrderIndex  int64
}

type editKind int

const (
	editNone editKind = iota
	editSection
	editItem
	createItem
)

// Workflow serializes admin edits over the content repository.
type Workflow struct {
	repo   *content.Repository
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	kind     editKind
	section  SectionDraft // snapshot at BeginSectionEdit
	item     ItemDraft    // snapshot at BeginItemEdit / zero draft at BeginItemCreate
	targetID int64
}

// NewWorkflow creates a workflow over the given repository.
func NewWorkflow(repo *content.Repository, logger *slog.Logger) *Workflow {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workflow{repo: repo, logger: logger, state: StateViewing}
}

// State returns the current workflow state.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// BeginSectionEdit loads the named section and opens an edit on it.
func (w *Workflow) BeginSectionEdit(ctx context.Context, name string) (SectionDraft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateViewing {
		return SectionDraft{}, ErrEditInProgress
	}

	section, err := w.repo.FetchSection(ctx, name)
	if err != nil {
		return SectionDraft{}, err
	}
	w.section = SectionDraft{
		SectionName:     section.SectionName,
		Title:           section.Title,
		Subtitle:        section.Subtitle,
		BackgroundImage: section.BackgroundImage.String,
		FeaturedImage:   section.FeaturedImage.String,
	}
	w.state = StateEditing
	w.kind = editSection
	return w.section, nil
}

// BeginItemEdit loads an item and opens an edit on it.
func (w *Workflow) BeginItemEdit(ctx context.Context, items []model.SectionItem, id int64) (ItemDraft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateViewing {
		return ItemDraft{}, ErrEditInProgress
	}

	for _, it := range items {
		if it.ID == id {
			w.item = ItemDraft{
				ID:          it.ID,
				SectionID:   it.SectionID,
				Title:       it.Title,
				Description: it.Description,
				IconName:    it.IconName,
				ImageURL:    it.ImageURL.String,
				OrderIndex:  it.OrderIndex,
			}
			w.state = StateEditing
			w.kind = editItem
			w.targetID = id
			return w.item, nil
		}
	}
	return ItemDraft{}, content.ErrNotFound
}

// BeginItemCreate opens a blank draft for a new item in the given section.
func (w *Workflow) BeginItemCreate(sectionID int64, orderIndex int64) (ItemDraft, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateViewing {
		return ItemDraft{}, ErrEditInProgress
	}

	w.item = ItemDraft{SectionID: sectionID, OrderIndex: orderIndex}
	w.state = StateCreating
	w.kind = createItem
	return w.item, nil
}

// Cancel discards the open edit, if any.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reset()
}

// CommitSection saves an edited section draft. Only fields that differ from
// the snapshot reach the store.
func (w *Workflow) CommitSection(ctx context.Context, draft SectionDraft) CommitResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateEditing || w.kind != editSection {
		return CommitResult{Err: ErrNoOpenEdit}
	}
	// A draft naming a different section would diff against the wrong
	// snapshot; the open edit stays open.
	if draft.SectionName != "" && draft.SectionName != w.section.SectionName {
		return CommitResult{Err: ErrNoOpenEdit}
	}

	patch := model.SectionPatch{}
	dirty := false
	if draft.Title != w.section.Title {
		patch.Title = &draft.Title
		dirty = true
	}
	if draft.Subtitle != w.section.Subtitle {
		patch.Subtitle = &draft.Subtitle
		dirty = true
	}
	if draft.BackgroundImage != w.section.BackgroundImage {
		patch.BackgroundImage = &draft.BackgroundImage
		dirty = true
	}
	if draft.FeaturedImage != w.section.FeaturedImage {
		patch.FeaturedImage = &draft.FeaturedImage
		dirty = true
	}

	name := draft.SectionName
	if name == "" {
		name = w.section.SectionName
	}
	w.reset()
	if !dirty {
		return CommitResult{Applied: true, Persisted: true}
	}

	if _, err := w.repo.UpdateSection(ctx, name, patch); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return CommitResult{Err: err}
		}
		w.logger.Error("section save failed", "section", draft.SectionName, "error", err)
		return CommitResult{Applied: true, Err: err}
	}
	return CommitResult{Applied: true, Persisted: true}
}

// CommitItem saves an item draft, inserting or updating depending on how
// the edit was opened.
func (w *Workflow) CommitItem(ctx context.Context, draft ItemDraft) CommitResult {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case w.state == StateCreating && w.kind == createItem:
		sectionID := w.item.SectionID
		w.reset()
		_, err := w.repo.InsertItem(ctx, sectionID, content.NewItem{
			Title:       draft.Title,
			Description: draft.Description,
			IconName:    draft.IconName,
			ImageURL:    draft.ImageURL,
			OrderIndex:  draft.OrderIndex,
		})
		if err != nil {
			if errors.Is(err, content.ErrInvalidIcon) || errors.Is(err, content.ErrNotFound) {
				return CommitResult{Err: err}
			}
			w.logger.Error("item create failed", "section_id", sectionID, "error", err)
			return CommitResult{Applied: true, Err: err}
		}
		return CommitResult{Applied: true, Persisted: true}

	case w.state == StateEditing && w.kind == editItem:
		patch := model.ItemPatch{}
		dirty := false
		if draft.Title != w.item.Title {
			patch.Title = &draft.Title
			dirty = true
		}
		if draft.Description != w.item.Description {
			patch.Description = &draft.Description
			dirty = true
		}
		if draft.IconName != w.item.IconName {
			patch.IconName = &draft.IconName
			dirty = true
		}
		if draft.ImageURL != w.item.ImageURL {
			patch.ImageURL = &draft.ImageURL
			dirty = true
		}
		if draft.OrderIndex != w.item.OrderIndex {
			patch.OrderIndex = &draft.OrderIndex
			dirty = true
		}

		id := w.targetID
		w.reset()
		if !dirty {
			return CommitResult{Applied: true, Persisted: true}
		}
		if _, err := w.repo.UpdateItem(ctx, id, patch); err != nil {
			if errors.Is(err, content.ErrInvalidIcon) || errors.Is(err, content.ErrNotFound) {
				return CommitResult{Err: err}
			}
			w.logger.Error("item save failed", "item_id", id, "error", err)
			return CommitResult{Applied: true, Err: err}
		}
		return CommitResult{Applied: true, Persisted: true}

	default:
		return CommitResult{Err: ErrNoOpenEdit}
	}
}

// DeleteItem removes an item. The call is refused unless the caller has
// confirmed the deletion.
func (w *Workflow) DeleteItem(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	return w.repo.DeleteItem(ctx, id)
}

func (w *Workflow) reset() {
	w.state = StateViewing
	w.kind = editNone
	w.section = SectionDraft{}
	w.item = ItemDraft{}
	w.targetID = 0
}
