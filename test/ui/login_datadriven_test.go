package ui

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/specto/pkg/dataload"
)

// TestLoginDataDriven parametrizes the login flow from a YAML data file.
// Each case gets its own session and subtest.
func TestLoginDataDriven(t *testing.T) {
	requireE2E(t)

	cases, err := dataload.Load(filepath.Join("testdata", "login_cases.yaml"))
	require.NoError(t, err)

	for i, tc := range cases {
		name, _ := tc["name"].(string)
		if name == "" {
			name = fmt.Sprintf("case_%d", i+1)
		}
		t.Run(name, func(t *testing.T) {
			utc := NewUITestContext(t)
			login := NewLoginPage(utc.Session)

			require.NoError(t, login.Navigate(utc.BaseURL))

			username, _ := tc["username"].(string)
			password, _ := tc["password"].(string)
			utc.Step("Login as %s", username)
			require.NoError(t, login.Login(username, password))

			expectError, _ := tc["expect_error"].(string)
			if expectError == "" {
				inventory := NewInventoryPage(utc.Session)
				title, err := inventory.Text(inventory.Title)
				require.NoError(t, err)
				assert.Equal(t, "Products", title)
				return
			}

			message, err := login.ErrorText()
			require.NoError(t, err)
			assert.Contains(t, message, expectError)
			utc.Screenshot("login_rejected")
		})
	}
}
