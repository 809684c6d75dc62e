// Copyright (c) 2025-2026 Prosperity Leaders
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prosperleaders/prosper-go/internal/auth"
	"github.com/prosperleaders/prosper-go/internal/model"
)

func TestLogin_MockCredentialCreatesMockSession(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	client := testClient(t)
	resp, err := client.PostForm(srv.URL+RouteAdminLogin, url.Values{
		"email":    {auth.MockAdminEmail},
		"password": {auth.MockAdminPassword},
	})
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, RouteAdmin, resp.Header.Get("Location"))

	session, err := app.mockStore.Get()
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, model.RoleAdmin, session.User.Role)
	assert.True(t, session.Mock)

	// The mock session grants access to the admin panel without a users
	// table row.
	resp, err = client.Get(srv.URL + RouteAdmin + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_UnknownCredentialRejected(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	client := testClient(t)
	resp, err := client.PostForm(srv.URL+RouteAdminLogin, url.Values{
		"email":    {"nobody@example.com"},
		"password": {"wrong"},
	})
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, RouteAdminLogin, resp.Header.Get("Location"))

	session, err := app.mockStore.Get()
	require.NoError(t, err)
	assert.Nil(t, session)

	resp, err = client.Get(srv.URL + RouteAdmin + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestLogin_ProviderCredential(t *testing.T) {
	app := newTestApp(t)
	app.createTestUser(t, "manager@example.com", "s3cret-pass", model.RoleManager)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	client := testClient(t)
	resp, err := client.PostForm(srv.URL+RouteAdminLogin, url.Values{
		"email":    {"manager@example.com"},
		"password": {"s3cret-pass"},
	})
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, RouteAdmin, resp.Header.Get("Location"))

	// No mock session is created for real users.
	session, err := app.mockStore.Get()
	require.NoError(t, err)
	assert.Nil(t, session)

	resp, err = client.Get(srv.URL + RouteAdmin + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_UserRoleCannotEnterAdmin(t *testing.T) {
	app := newTestApp(t)
	app.createTestUser(t, "viewer@example.com", "s3cret-pass", model.RoleUser)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	client := testClient(t)
	resp, err := client.PostForm(srv.URL+RouteAdminLogin, url.Values{
		"email":    {"viewer@example.com"},
		"password": {"s3cret-pass"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, err = client.Get(srv.URL + RouteAdmin + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLogout_ClearsMockSession(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	client := testClient(t)
	resp, err := client.PostForm(srv.URL+RouteAdminLogin, url.Values{
		"email":    {auth.MockAdminEmail},
		"password": {auth.MockAdminPassword},
	})
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = client.PostForm(srv.URL+"/admin/logout", url.Values{})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, RouteRoot, resp.Header.Get("Location"))

	session, err := app.mockStore.Get()
	require.NoError(t, err)
	assert.Nil(t, session)

	resp, err = client.Get(srv.URL + RouteAdmin + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestLoginForm_RedirectsAuthenticated(t *testing.T) {
	app := newTestApp(t)
	srv := httptest.NewServer(app.router)
	defer srv.Close()

	client := testClient(t)
	resp, err := client.PostForm(srv.URL+RouteAdminLogin, url.Values{
		"email":    {auth.MockAdminEmail},
		"password": {auth.MockAdminPassword},
	})
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = client.Get(srv.URL + RouteAdminLogin)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, RouteAdmin, resp.Header.Get("Location"))
}
