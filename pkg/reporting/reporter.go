// Package reporting is a pluggable facade for test evidence: step logs,
// screenshots, text attachments, failures. Reporting is always best-effort;
// no reporter failure may break a running test.
package reporting

import (
	"fmt"
	"sync"

	"github.com/ternarybob/specto/internal/common"
)

// Reporter receives test evidence. Implementations swallow their own
// errors: a reporting problem is reduced to a debug log, never propagated
// to the test.
type Reporter interface {
	LogStep(message string)
	AttachScreenshot(name, path string)
	AttachText(name, content string)
	AttachException(name string, err error)
}

// Reporter kinds accepted by Init.
const (
	KindLog  = "log"
	KindFile = "file"
)

var (
	managerMu sync.Mutex
	active    Reporter
)

// Init installs the process-wide reporter. The first call wins; subsequent
// calls are no-ops so independent suite setups cannot fight over the
// backend. An unknown kind is an error.
func Init(kind, resultsDir string) error {
	managerMu.Lock()
	defer managerMu.Unlock()

	if active != nil {
		common.GetLogger().Debug().Str("kind", kind).Msg("Reporting already initialized, ignoring")
		return nil
	}

	switch kind {
	case KindLog:
		active = newLogReporter()
	case KindFile:
		reporter, err := newFileReporter(resultsDir)
		if err != nil {
			return err
		}
		active = reporter
	default:
		return fmt.Errorf("unknown reporter kind %q (supported: %s, %s)", kind, KindLog, KindFile)
	}

	common.GetLogger().Info().Str("kind", kind).Msg("Reporting initialized")
	return nil
}

// IsInitialized reports whether a reporter is installed.
func IsInitialized() bool {
	managerMu.Lock()
	defer managerMu.Unlock()
	return active != nil
}

// Active returns the installed reporter, or a no-op reporter when none is
// installed. Callers never need a nil check.
func Active() Reporter {
	managerMu.Lock()
	defer managerMu.Unlock()
	if active == nil {
		return noopReporter{}
	}
	return active
}

// Reset uninstalls the reporter so the next Init takes effect again.
func Reset() {
	managerMu.Lock()
	defer managerMu.Unlock()
	active = nil
}

// LogInfo forwards an informational message to the installed reporter, if
// any. Best-effort.
func LogInfo(message string) {
	Active().LogStep(message)
}

type noopReporter struct{}

func (noopReporter) LogStep(string)                  {}
func (noopReporter) AttachScreenshot(string, string) {}
func (noopReporter) AttachText(string, string)       {}
func (noopReporter) AttachException(string, error)   {}
