// uitest_context.go - Shared UI test context and helpers for the example suite
// This provides UITestContext and helper functions used by all UI tests.
// NOTE: This is NOT a test file - it contains shared test infrastructure.

package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ternarybob/specto/pkg/config"
	"github.com/ternarybob/specto/pkg/pages"
	"github.com/ternarybob/specto/pkg/reporting"
	"github.com/ternarybob/specto/pkg/session"
)

var (
	testRunDir     string
	testRunDirErr  error
	testRunDirOnce sync.Once
)

// getOrCreateTestRunDir returns the test run directory, creating it if
// necessary. All screenshots from a single test run share one directory.
// A creation failure is latched so every caller sees it, not just the first.
func getOrCreateTestRunDir() (string, error) {
	testRunDirOnce.Do(func() {
		if envDir := os.Getenv("SPECTO_RESULTS_DIR"); envDir != "" {
			testRunDir = envDir
			return
		}
		timestamp := time.Now().Format("run-2006-01-02-15-04-05")
		testRunDir = filepath.Join("results", timestamp)
		testRunDirErr = os.MkdirAll(testRunDir, 0o755)
	})
	if testRunDirErr != nil {
		return "", fmt.Errorf("failed to create test run directory: %w", testRunDirErr)
	}
	return testRunDir, nil
}

// UITestContext holds shared state for UI tests: the browser session, the
// page-object base, the configuration store and the reporter.
type UITestContext struct {
	T        *testing.T
	Store    *config.Store
	Session  *session.Session
	Page     *pages.BasePage
	BaseURL  string
	Reporter reporting.Reporter

	resultsDir    string
	screenshotNum int
}

// NewUITestContext provisions a browser session for the test. The suite only
// runs when SPECTO_E2E=1; otherwise the test is skipped. The profile comes
// from SPECTO_BROWSER, falling back to the configured default browser.
func NewUITestContext(t *testing.T) *UITestContext {
	requireE2E(t)

	store := newSuiteStore()
	profileName := os.Getenv("SPECTO_BROWSER")
	if profileName == "" {
		profileName = store.DefaultBrowser()
	}
	profile, err := store.BrowserProfile(profileName)
	if err != nil {
		t.Fatalf("Failed to resolve browser profile: %v", err)
	}
	return newUITestContext(t, store, profile)
}

// NewUITestContextForProfile provisions a session for a specific matrix
// profile. Used by matrix iteration tests.
func NewUITestContextForProfile(t *testing.T, profile config.Profile) *UITestContext {
	requireE2E(t)
	return newUITestContext(t, newSuiteStore(), profile)
}

func requireE2E(t *testing.T) {
	t.Helper()
	if os.Getenv("SPECTO_E2E") != "1" {
		t.Skip("Skipping end-to-end UI test: set SPECTO_E2E=1 to run")
	}
}

func newSuiteStore() *config.Store {
	dir := os.Getenv("SPECTO_CONFIG_DIR")
	if dir == "" {
		dir = filepath.Join("..", "..", "config")
	}
	return config.NewStore(dir)
}

func newUITestContext(t *testing.T, store *config.Store, profile config.Profile) *UITestContext {
	t.Helper()

	resultsDir, err := getOrCreateTestRunDir()
	if err != nil {
		t.Fatalf("Failed to create results directory: %v", err)
	}
	if err := reporting.Init(reporting.KindFile, resultsDir); err != nil {
		t.Fatalf("Failed to initialize reporting: %v", err)
	}

	var factoryOpts []session.Option
	if endpoint := os.Getenv("SPECTO_REMOTE_URL"); endpoint != "" {
		factoryOpts = append(factoryOpts, session.WithRemoteEndpoint(endpoint), session.WithRemote())
	}
	factory := session.NewFactory(store, factoryOpts...)

	browserSession, err := factory.CreateFromProfile(profile)
	if err != nil {
		t.Fatalf("Failed to create browser session for profile %q: %v", profile.Name, err)
	}

	utc := &UITestContext{
		T:          t,
		Store:      store,
		Session:    browserSession,
		Page:       pages.NewBasePage(browserSession),
		BaseURL:    store.GetString("app.base_url", "config", "https://www.saucedemo.com"),
		Reporter:   reporting.Active(),
		resultsDir: resultsDir,
	}

	// Capture evidence on failure, then release the session.
	t.Cleanup(func() {
		if t.Failed() {
			utc.Reporter.AttachException(t.Name(), fmt.Errorf("test failed on page %s", utc.Page.URL()))
			utc.Screenshot("failure")
		}
		browserSession.Close()
	})

	utc.Reporter.LogStep(fmt.Sprintf("%s: session ready on profile %q", t.Name(), profile.Name))
	return utc
}

// Screenshot takes a full page screenshot with a sequential number prefix
// and attaches it to the report. Screenshot problems are logged, never fatal.
func (utc *UITestContext) Screenshot(name string) {
	utc.screenshotNum++
	fullName := fmt.Sprintf("%02d_%s", utc.screenshotNum, name)
	path := filepath.Join(utc.resultsDir, fmt.Sprintf("%s_%s.png", utc.T.Name(), fullName))
	if err := utc.Page.Screenshot(path); err != nil {
		utc.T.Logf("Warning: screenshot %s failed: %v", fullName, err)
		return
	}
	utc.Reporter.AttachScreenshot(fullName, path)
}

// Step records a test step in the report and the test log.
func (utc *UITestContext) Step(format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	utc.T.Log(message)
	utc.Reporter.LogStep(message)
}
