package reporting

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitOnce(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	require.NoError(t, Init(KindLog, ""))
	first := Active()

	// second init is a no-op, even with a different kind
	require.NoError(t, Init(KindFile, t.TempDir()))
	assert.Same(t, first, Active())
}

func TestInitUnknownKind(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	err := Init("telepathy", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown reporter kind "telepathy"`)
	assert.False(t, IsInitialized())
}

func TestActiveWithoutInitIsNoop(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	assert.False(t, IsInitialized())
	reporter := Active()
	require.NotNil(t, reporter)

	// all no-op, nothing to assert beyond not panicking
	reporter.LogStep("step")
	reporter.AttachScreenshot("s", "missing.png")
	reporter.AttachText("t", "content")
	reporter.AttachException("e", errors.New("boom"))
	LogInfo("info")
}

func TestReset(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	require.NoError(t, Init(KindLog, ""))
	assert.True(t, IsInitialized())

	Reset()
	assert.False(t, IsInitialized())

	require.NoError(t, Init(KindFile, t.TempDir()))
	assert.True(t, IsInitialized())
}

func TestFileReporterWritesRunReport(t *testing.T) {
	base := t.TempDir()
	reporter, err := newFileReporter(base)
	require.NoError(t, err)

	reporter.LogStep("Navigate to login page")
	reporter.AttachText("page source", "<html></html>")
	reporter.AttachException("login failed", errors.New("all locators failed"))

	markdown, err := os.ReadFile(filepath.Join(reporter.Dir(), "report.md"))
	require.NoError(t, err)
	content := string(markdown)
	assert.Contains(t, content, "# Test Run run-")
	assert.Contains(t, content, "Navigate to login page")
	assert.Contains(t, content, "[page source](page_source.txt)")
	assert.Contains(t, content, "## Failure: login failed")
	assert.Contains(t, content, "all locators failed")

	attached, err := os.ReadFile(filepath.Join(reporter.Dir(), "page_source.txt"))
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(attached))

	html, err := os.ReadFile(filepath.Join(reporter.Dir(), "report.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "<h1>")
}

func TestFileReporterCopiesScreenshot(t *testing.T) {
	base := t.TempDir()
	reporter, err := newFileReporter(base)
	require.NoError(t, err)

	source := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, os.WriteFile(source, []byte("png-bytes"), 0o644))

	reporter.AttachScreenshot("login page", source)

	copied, err := os.ReadFile(filepath.Join(reporter.Dir(), "login_page.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(copied))

	markdown, err := os.ReadFile(filepath.Join(reporter.Dir(), "report.md"))
	require.NoError(t, err)
	assert.Contains(t, string(markdown), "![login page](login_page.png)")
}

func TestFileReporterSwallowsAttachmentErrors(t *testing.T) {
	reporter, err := newFileReporter(t.TempDir())
	require.NoError(t, err)

	// missing source file must not panic or error out
	reporter.AttachScreenshot("gone", filepath.Join(t.TempDir(), "does-not-exist.png"))

	markdown, err := os.ReadFile(filepath.Join(reporter.Dir(), "report.md"))
	require.NoError(t, err)
	assert.NotContains(t, string(markdown), "gone", "failed attachment leaves no dangling link")
}

func TestLogInfoForwardsToActive(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	reporter, err := newFileReporter(t.TempDir())
	require.NoError(t, err)

	managerMu.Lock()
	active = reporter
	managerMu.Unlock()

	LogInfo("matrix resolved with 3 profiles")

	markdown, err := os.ReadFile(filepath.Join(reporter.Dir(), "report.md"))
	require.NoError(t, err)
	assert.Contains(t, string(markdown), "matrix resolved with 3 profiles")
}
