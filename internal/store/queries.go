// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/prosperleaders/prosper-go/internal/model"
)

// DBTX is the interface shared by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries provides typed access to the database.
type Queries struct {
	db DBTX
}

// New creates a Queries instance bound to the given database handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries instance bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// -----------------------------------------------------------------------------
// Users
// -----------------------------------------------------------------------------

const userColumns = `id, email, password_hash, role, name, created_at, updated_at, last_login_at`

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Name,
		&u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	return u, err
}

// GetUserByID returns the user with the given ID.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail returns the user with the given email.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// CreateUserParams holds parameters for CreateUser.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Role         string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateUser inserts a new user and returns it with its assigned ID.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, role, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Email, arg.PasswordHash, arg.Role, arg.Name, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return q.GetUserByID(ctx, id)
}

// UpdateUserLastLoginParams holds parameters for UpdateUserLastLogin.
type UpdateUserLastLoginParams struct {
	LastLoginAt sql.NullTime
	ID          int64
}

// UpdateUserLastLogin records the user's last login time.
func (q *Queries) UpdateUserLastLogin(ctx context.Context, arg UpdateUserLastLoginParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, arg.LastLoginAt, arg.ID)
	return err
}

// -----------------------------------------------------------------------------
// Content sections
// -----------------------------------------------------------------------------

const sectionColumns = `id, section_name, title, subtitle, background_image, featured_image, created_at, updated_at`

func scanSectionRow(row *sql.Row) (model.Section, error) {
	var s model.Section
	err := row.Scan(&s.ID, &s.SectionName, &s.Title, &s.Subtitle,
		&s.BackgroundImage, &s.FeaturedImage, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// GetSectionByID returns the content section with the given ID.
func (q *Queries) GetSectionByID(ctx context.Context, id int64) (model.Section, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+sectionColumns+` FROM content_sections WHERE id = ?`, id)
	return scanSectionRow(row)
}

// GetSectionByName returns the content section with the given unique name.
func (q *Queries) GetSectionByName(ctx context.Context, name string) (model.Section, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+sectionColumns+` FROM content_sections WHERE section_name = ?`, name)
	return scanSectionRow(row)
}

// ListSections returns all content sections ordered by section name.
func (q *Queries) ListSections(ctx context.Context) ([]model.Section, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+sectionColumns+` FROM content_sections ORDER BY section_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []model.Section
	for rows.Next() {
		var s model.Section
		if err := rows.Scan(&s.ID, &s.SectionName, &s.Title, &s.Subtitle,
			&s.BackgroundImage, &s.FeaturedImage, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

// CreateSectionParams holds parameters for CreateSection.
type CreateSectionParams struct {
	SectionName     string
	Title           string
	Subtitle        string
	BackgroundImage sql.NullString
	FeaturedImage   sql.NullString
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateSection inserts a content section and returns it with its assigned ID.
func (q *Queries) CreateSection(ctx context.Context, arg CreateSectionParams) (model.Section, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO content_sections (section_name, title, subtitle, background_image, featured_image, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.SectionName, arg.Title, arg.Subtitle, arg.BackgroundImage, arg.FeaturedImage,
		arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Section{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Section{}, err
	}
	return q.GetSectionByID(ctx, id)
}

// UpdateSectionParams holds parameters for UpdateSection.
type UpdateSectionParams struct {
	Title           string
	Subtitle        string
	BackgroundImage sql.NullString
	FeaturedImage   sql.NullString
	UpdatedAt       time.Time
	ID              int64
}

// UpdateSection updates a content section's editable fields.
func (q *Queries) UpdateSection(ctx context.Context, arg UpdateSectionParams) (model.Section, error) {
	_, err := q.db.ExecContext(ctx,
		`UPDATE content_sections
		 SET title = ?, subtitle = ?, background_image = ?, featured_image = ?, updated_at = ?
		 WHERE id = ?`,
		arg.Title, arg.Subtitle, arg.BackgroundImage, arg.FeaturedImage, arg.UpdatedAt, arg.ID)
	if err != nil {
		return model.Section{}, err
	}
	return q.GetSectionByID(ctx, arg.ID)
}

// -----------------------------------------------------------------------------
// Section items
// -----------------------------------------------------------------------------

const itemColumns = `id, section_id, title, description, icon_name, image_url, order_index, created_at, updated_at`

// GetItemByID returns the section item with the given ID.
func (q *Queries) GetItemByID(ctx context.Context, id int64) (model.SectionItem, error) {
	var it model.SectionItem
	err := q.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM section_items WHERE id = ?`, id).
		Scan(&it.ID, &it.SectionID, &it.Title, &it.Description, &it.IconName,
			&it.ImageURL, &it.OrderIndex, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

// ListItemsBySection returns a section's items ordered by order_index ascending.
func (q *Queries) ListItemsBySection(ctx context.Context, sectionID int64) ([]model.SectionItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM section_items WHERE section_id = ? ORDER BY order_index ASC`,
		sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.SectionItem
	for rows.Next() {
		var it model.SectionItem
		if err := rows.Scan(&it.ID, &it.SectionID, &it.Title, &it.Description, &it.IconName,
			&it.ImageURL, &it.OrderIndex, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CreateItemParams holds parameters for CreateItem.
type CreateItemParams struct {
	SectionID   int64
	Title       string
	Description string
	IconName    string
	ImageURL    sql.NullString
	OrderIndex  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateItem inserts a section item and returns it with its assigned ID.
func (q *Queries) CreateItem(ctx context.Context, arg CreateItemParams) (model.SectionItem, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO section_items (section_id, title, description, icon_name, image_url, order_index, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.SectionID, arg.Title, arg.Description, arg.IconName, arg.ImageURL,
		arg.OrderIndex, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.SectionItem{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.SectionItem{}, err
	}
	return q.GetItemByID(ctx, id)
}

// UpdateItemParams holds parameters for UpdateItem.
type UpdateItemParams struct {
	Title       string
	Description string
	IconName    string
	ImageURL    sql.NullString
	OrderIndex  int64
	UpdatedAt   time.Time
	ID          int64
}

// UpdateItem updates a section item's editable fields.
func (q *Queries) UpdateItem(ctx context.Context, arg UpdateItemParams) (model.SectionItem, error) {
	_, err := q.db.ExecContext(ctx,
		`UPDATE section_items
		 SET title = ?, description = ?, icon_name = ?, image_url = ?, order_index = ?, updated_at = ?
		 WHERE id = ?`,
		arg.Title, arg.Description, arg.IconName, arg.ImageURL, arg.OrderIndex,
		arg.UpdatedAt, arg.ID)
	if err != nil {
		return model.SectionItem{}, err
	}
	return q.GetItemByID(ctx, arg.ID)
}

// DeleteItem removes a section item.
func (q *Queries) DeleteItem(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM section_items WHERE id = ?`, id)
	return err
}

// -----------------------------------------------------------------------------
// Site settings
// -----------------------------------------------------------------------------

// GetSetting returns the setting with the given key.
func (q *Queries) GetSetting(ctx context.Context, key string) (model.SiteSetting, error) {
	var s model.SiteSetting
	err := q.db.QueryRowContext(ctx,
		`SELECT setting_key, setting_value, updated_at FROM site_settings WHERE setting_key = ?`, key).
		Scan(&s.SettingKey, &s.SettingValue, &s.UpdatedAt)
	return s, err
}

// ListSettings returns all site settings ordered by key.
func (q *Queries) ListSettings(ctx context.Context) ([]model.SiteSetting, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT setting_key, setting_value, updated_at FROM site_settings ORDER BY setting_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []model.SiteSetting
	for rows.Next() {
		var s model.SiteSetting
		if err := rows.Scan(&s.SettingKey, &s.SettingValue, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// UpsertSettingParams holds parameters for UpsertSetting.
type UpsertSettingParams struct {
	SettingKey   string
	SettingValue string
	UpdatedAt    time.Time
}

// UpsertSetting inserts or replaces a setting by key.
func (q *Queries) UpsertSetting(ctx context.Context, arg UpsertSettingParams) (model.SiteSetting, error) {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO site_settings (setting_key, setting_value, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(setting_key) DO UPDATE SET setting_value = excluded.setting_value, updated_at = excluded.updated_at`,
		arg.SettingKey, arg.SettingValue, arg.UpdatedAt)
	if err != nil {
		return model.SiteSetting{}, err
	}
	return q.GetSetting(ctx, arg.SettingKey)
}

// -----------------------------------------------------------------------------
// Leads
// -----------------------------------------------------------------------------

const leadColumns = `id, uuid, name, email, phone, interest, message, status, created_at, updated_at`

// GetLeadByID returns the lead with the given ID.
func (q *Queries) GetLeadByID(ctx context.Context, id int64) (model.Lead, error) {
	var l model.Lead
	err := q.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = ?`, id).
		Scan(&l.ID, &l.UUID, &l.Name, &l.Email, &l.Phone, &l.Interest, &l.Message,
			&l.Status, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// ListLeads returns all leads, newest first.
func (q *Queries) ListLeads(ctx context.Context) ([]model.Lead, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+leadColumns+` FROM leads ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(&l.ID, &l.UUID, &l.Name, &l.Email, &l.Phone, &l.Interest,
			&l.Message, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

// CreateLeadParams holds parameters for CreateLead.
type CreateLeadParams struct {
	UUID      string
	Name      string
	Email     string
	Phone     sql.NullString
	Interest  string
	Message   sql.NullString
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateLead inserts a lead and returns it with its assigned ID.
func (q *Queries) CreateLead(ctx context.Context, arg CreateLeadParams) (model.Lead, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO leads (uuid, name, email, phone, interest, message, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.UUID, arg.Name, arg.Email, arg.Phone, arg.Interest, arg.Message,
		arg.Status, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Lead{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Lead{}, err
	}
	return q.GetLeadByID(ctx, id)
}

// UpdateLeadStatusParams holds parameters for UpdateLeadStatus.
type UpdateLeadStatusParams struct {
	Status    string
	UpdatedAt time.Time
	ID        int64
}

// UpdateLeadStatus changes a lead's status.
func (q *Queries) UpdateLeadStatus(ctx context.Context, arg UpdateLeadStatusParams) (model.Lead, error) {
	_, err := q.db.ExecContext(ctx,
		`UPDATE leads SET status = ?, updated_at = ? WHERE id = ?`,
		arg.Status, arg.UpdatedAt, arg.ID)
	if err != nil {
		return model.Lead{}, err
	}
	return q.GetLeadByID(ctx, arg.ID)
}

// DeleteLead removes a lead.
func (q *Queries) DeleteLead(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	return err
}

// -----------------------------------------------------------------------------
// Events
// -----------------------------------------------------------------------------

// CreateEventParams holds parameters for CreateEvent.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	UserID    sql.NullInt64
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent inserts an event log entry.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (model.Event, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO events (level, category, message, user_id, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Level, arg.Category, arg.Message, arg.UserID, arg.Metadata, arg.CreatedAt)
	if err != nil {
		return model.Event{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Event{}, err
	}
	return model.Event{
		ID:        id,
		Level:     arg.Level,
		Category:  arg.Category,
		Message:   arg.Message,
		UserID:    arg.UserID,
		Metadata:  arg.Metadata,
		CreatedAt: arg.CreatedAt,
	}, nil
}

// ListRecentEvents returns the most recent events up to limit.
func (q *Queries) ListRecentEvents(ctx context.Context, limit int64) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, level, category, message, user_id, metadata, created_at
		 FROM events ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID,
			&e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// DeleteEventsBefore removes event log entries older than the cutoff.
// Returns the number of rows removed.
func (q *Queries) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
