package reporting

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/yuin/goldmark"

	"github.com/ternarybob/specto/internal/common"
)

const defaultResultsDir = "results"

// fileReporter writes a markdown run report into a per-run results
// directory, copies screenshot attachments alongside it, and keeps an HTML
// rendering of the report current.
type fileReporter struct {
	dir    string
	logger arbor.ILogger

	mu     sync.Mutex
	report strings.Builder
}

func newFileReporter(baseDir string) (*fileReporter, error) {
	if baseDir == "" {
		baseDir = defaultResultsDir
	}
	runID := fmt.Sprintf("run-%s-%s", time.Now().Format("20060102-150405"), uuid.New().String()[:8])
	dir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results directory %s: %w", dir, err)
	}

	r := &fileReporter{
		dir:    dir,
		logger: common.GetLogger(),
	}
	r.report.WriteString(fmt.Sprintf("# Test Run %s\n\nStarted %s\n", runID, time.Now().Format(time.RFC3339)))
	r.flushLocked()
	return r, nil
}

// Dir returns the run's results directory.
func (r *fileReporter) Dir() string {
	return r.dir
}

func (r *fileReporter) LogStep(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.WriteString(fmt.Sprintf("\n- `%s` %s\n", time.Now().Format("15:04:05"), message))
	r.flushLocked()
}

func (r *fileReporter) AttachScreenshot(name, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target := filepath.Join(r.dir, sanitizeName(name)+filepath.Ext(path))
	if err := copyFile(path, target); err != nil {
		r.logger.Debug().Str("name", name).Err(err).Msg("Failed to copy screenshot attachment")
		return
	}
	r.report.WriteString(fmt.Sprintf("\n![%s](%s)\n", name, filepath.Base(target)))
	r.flushLocked()
}

func (r *fileReporter) AttachText(name, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target := filepath.Join(r.dir, sanitizeName(name)+".txt")
	if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
		r.logger.Debug().Str("name", name).Err(err).Msg("Failed to write text attachment")
		return
	}
	r.report.WriteString(fmt.Sprintf("\n[%s](%s)\n", name, filepath.Base(target)))
	r.flushLocked()
}

func (r *fileReporter) AttachException(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.WriteString(fmt.Sprintf("\n## Failure: %s\n\n```\n%v\n```\n", name, err))
	r.flushLocked()
}

// flushLocked rewrites report.md and its HTML rendering. Write failures are
// logged and swallowed; reporting never breaks a test.
func (r *fileReporter) flushLocked() {
	markdown := r.report.String()
	if err := os.WriteFile(filepath.Join(r.dir, "report.md"), []byte(markdown), 0o644); err != nil {
		r.logger.Debug().Err(err).Msg("Failed to write markdown report")
		return
	}

	var html bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &html); err != nil {
		r.logger.Debug().Err(err).Msg("Failed to render HTML report")
		return
	}
	if err := os.WriteFile(filepath.Join(r.dir, "report.html"), html.Bytes(), 0o644); err != nil {
		r.logger.Debug().Err(err).Msg("Failed to write HTML report")
	}
}

func sanitizeName(name string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_")
	return replacer.Replace(name)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
