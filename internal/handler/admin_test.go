// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prosperleaders/prosper-go/internal/auth"
	"github.com/prosperleaders/prosper-go/internal/model"
	"github.com/prosperleaders/prosper-go/internal/store"
)

// loginAsAdmin signs the client in with the demo credential.
func loginAsAdmin(t *testing.T, client *http.Client, baseURL string) {
	t.Helper()
	resp, err := client.PostForm(baseURL+RouteAdminLogin, url.Values{
		"email":    {auth.MockAdminEmail},
		"password": {auth.MockAdminPassword},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestDashboard_ListsSections(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	client := testClient(t)
	loginAsAdmin(t, client, srv.URL)

	resp, err := client.Get(srv.URL + RouteAdmin + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "We Are Growing the Team")
	assert.Contains(t, string(body), "Why Choose Prosperity Leaders?")
	assert.Contains(t, string(body), "Demo Admin")
}

func TestSectionEdit_PersistsTitle(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	client := testClient(t)
	loginAsAdmin(t, client, srv.URL)

	// Opening the form starts the edit; the post commits it.
	resp, err := client.Get(srv.URL + "/admin/sections/hero")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.PostForm(srv.URL+"/admin/sections/hero", url.Values{
		"title":    {"Join the Movement"},
		"subtitle": {"Full-time, part-time, twin career or entrepreneurship opportunities in the financial industry"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	section, err := app.repo.FetchSection(context.Background(), model.SectionHero)
	require.NoError(t, err)
	assert.Equal(t, "Join the Movement", section.Title)
}

func TestSectionEdit_UnknownSection(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	client := testClient(t)
	loginAsAdmin(t, client, srv.URL)

	resp, err := client.Get(srv.URL + "/admin/sections/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestItemCreate_AppendsToSection(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	client := testClient(t)
	loginAsAdmin(t, client, srv.URL)

	resp, err := client.Get(srv.URL + "/admin/sections/benefits/items/new")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.PostForm(srv.URL+"/admin/sections/benefits/items", url.Values{
		"title":       {"Team Events"},
		"description": {"Quarterly retreats and recognition events."},
		"icon_name":   {model.IconStar},
		"order_index": {"7"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	section, err := app.repo.FetchSection(context.Background(), model.SectionBenefits)
	require.NoError(t, err)
	items, err := app.repo.FetchItems(context.Background(), section.ID)
	require.NoError(t, err)
	require.Len(t, items, 7)
	assert.Equal(t, "Team Events", items[6].Title)
}

func TestItemCreate_RejectsUnknownIcon(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	client := testClient(t)
	loginAsAdmin(t, client, srv.URL)

	resp, err := client.Get(srv.URL + "/admin/sections/benefits/items/new")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = client.PostForm(srv.URL+"/admin/sections/benefits/items", url.Values{
		"title":     {"Bad Icon"},
		"icon_name": {"Rocket"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	section, err := app.repo.FetchSection(context.Background(), model.SectionBenefits)
	require.NoError(t, err)
	items, err := app.repo.FetchItems(context.Background(), section.ID)
	require.NoError(t, err)
	assert.Len(t, items, 6)
}

func TestItemDelete_RequiresConfirmation(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	client := testClient(t)
	loginAsAdmin(t, client, srv.URL)

	ctx := context.Background()
	section, err := app.repo.FetchSection(ctx, model.SectionOpportunities)
	require.NoError(t, err)
	items, err := app.repo.FetchItems(ctx, section.ID)
	require.NoError(t, err)
	require.NotEmpty(t, items)
	itemURL := srv.URL + "/admin/items/" + strconv.FormatInt(items[0].ID, 10) + "/delete"

	// Without confirmed=true the item stays.
	resp, err := client.PostForm(itemURL, url.Values{})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	after, err := app.repo.FetchItems(ctx, section.ID)
	require.NoError(t, err)
	assert.Len(t, after, len(items))

	// With confirmation it goes away.
	resp, err = client.PostForm(itemURL, url.Values{"confirmed": {"true"}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	after, err = app.repo.FetchItems(ctx, section.ID)
	require.NoError(t, err)
	assert.Len(t, after, len(items)-1)
}

func TestLeads_StatusAndDelete(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	client := testClient(t)
	loginAsAdmin(t, client, srv.URL)

	ctx := context.Background()
	lead, err := app.queries.CreateLead(ctx, store.CreateLeadParams{
		UUID:     "lead-uuid-1",
		Name:     "Grace Hopper",
		Email:    "grace@example.com",
		Interest: "full-time",
		Status:   model.LeadStatusNew,
	})
	require.NoError(t, err)
	leadBase := srv.URL + "/admin/leads/" + strconv.FormatInt(lead.ID, 10)

	resp, err := client.Get(srv.URL + "/admin/leads")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Grace Hopper")

	resp, err = client.PostForm(leadBase+"/status", url.Values{"status": {model.LeadStatusContacted}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	updated, err := app.queries.GetLeadByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusContacted, updated.Status)

	// Unknown status is refused.
	resp, err = client.PostForm(leadBase+"/status", url.Values{"status": {"archived"}})
	require.NoError(t, err)
	resp.Body.Close()
	updated, err = app.queries.GetLeadByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusContacted, updated.Status)

	// Delete follows the confirmed-flag rule.
	resp, err = client.PostForm(leadBase+"/delete", url.Values{})
	require.NoError(t, err)
	resp.Body.Close()
	_, err = app.queries.GetLeadByID(ctx, lead.ID)
	require.NoError(t, err)

	resp, err = client.PostForm(leadBase+"/delete", url.Values{"confirmed": {"true"}})
	require.NoError(t, err)
	resp.Body.Close()
	_, err = app.queries.GetLeadByID(ctx, lead.ID)
	assert.Error(t, err)
}

func TestSettings_Upsert(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	client := testClient(t)
	loginAsAdmin(t, client, srv.URL)

	resp, err := client.PostForm(srv.URL+"/admin/settings", url.Values{
		"setting_key":   {model.SettingKeySiteName},
		"setting_value": {"Prosperity Leaders NYC"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	setting, err := app.repo.GetSetting(context.Background(), model.SettingKeySiteName)
	require.NoError(t, err)
	assert.Equal(t, "Prosperity Leaders NYC", setting.SettingValue)
}

func TestEventsPage_ShowsLoggedEvents(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	client := testClient(t)
	loginAsAdmin(t, client, srv.URL)

	// The settings save above logs an event; do one here too.
	resp, err := client.PostForm(srv.URL+"/admin/settings", url.Values{
		"setting_key":   {"contact_email"},
		"setting_value": {"team@prosperityleaders.example"},
	})
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = client.Get(srv.URL + "/admin/events")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Setting saved")
}
