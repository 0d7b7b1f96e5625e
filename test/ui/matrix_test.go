package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMatrixLogin runs the login smoke flow once per browser matrix profile,
// each in its own subtest and session.
func TestMatrixLogin(t *testing.T) {
	requireE2E(t)

	matrix, err := newSuiteStore().BrowserMatrix()
	require.NoError(t, err)

	for _, profile := range matrix {
		t.Run(profile.Name, func(t *testing.T) {
			utc := NewUITestContextForProfile(t, profile)
			login := NewLoginPage(utc.Session)

			utc.Step("Login on profile %s (%s)", profile.Name, profile.Browser)
			require.NoError(t, login.Navigate(utc.BaseURL))
			require.NoError(t, login.Login("standard_user", "secret_sauce"))

			inventory := NewInventoryPage(utc.Session)
			title, err := inventory.Text(inventory.Title)
			require.NoError(t, err)
			assert.Equal(t, "Products", title)
			utc.Screenshot("inventory")
		})
	}
}
