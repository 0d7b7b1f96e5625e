package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoginSuccess walks the happy path: the username field's first locator
// is deliberately stale, so a passing run proves the fallback chain works.
func TestLoginSuccess(t *testing.T) {
	utc := NewUITestContext(t)
	login := NewLoginPage(utc.Session)

	utc.Step("Navigate to %s", utc.BaseURL)
	require.NoError(t, login.Navigate(utc.BaseURL))
	utc.Screenshot("login_page")

	utc.Step("Login as standard_user")
	require.NoError(t, login.Login(
		utc.Store.GetString("app.username", "config", "standard_user"),
		utc.Store.GetString("app.password", "config", "secret_sauce"),
	))

	inventory := NewInventoryPage(utc.Session)
	title, err := inventory.Text(inventory.Title)
	require.NoError(t, err)
	assert.Equal(t, "Products", title)
	utc.Screenshot("inventory")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	utc := NewUITestContext(t)
	login := NewLoginPage(utc.Session)

	utc.Step("Navigate to %s", utc.BaseURL)
	require.NoError(t, login.Navigate(utc.BaseURL))

	utc.Step("Login with wrong password")
	require.NoError(t, login.Login("standard_user", "wrong_password"))

	message, err := login.ErrorText()
	require.NoError(t, err)
	assert.Contains(t, message, "Username and password do not match")
	utc.Screenshot("login_error")
}

func TestLoginErrorHiddenInitially(t *testing.T) {
	utc := NewUITestContext(t)
	login := NewLoginPage(utc.Session)

	require.NoError(t, login.Navigate(utc.BaseURL))

	visible, err := login.Visible(login.Error)
	require.NoError(t, err)
	assert.False(t, visible, "error banner must not show before a failed login")
}
