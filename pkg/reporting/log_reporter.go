package reporting

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/specto/internal/common"
)

// logReporter writes evidence straight to the structured log. The default
// backend for local runs.
type logReporter struct {
	logger arbor.ILogger
}

func newLogReporter() *logReporter {
	return &logReporter{logger: common.GetLogger()}
}

func (r *logReporter) LogStep(message string) {
	r.logger.Info().Str("report", "step").Msg(message)
}

func (r *logReporter) AttachScreenshot(name, path string) {
	r.logger.Info().Str("report", "screenshot").Str("name", name).Str("path", path).Msg("Screenshot captured")
}

func (r *logReporter) AttachText(name, content string) {
	r.logger.Info().Str("report", "text").Str("name", name).Int("bytes", len(content)).Msg("Text attached")
}

func (r *logReporter) AttachException(name string, err error) {
	r.logger.Error().Str("report", "exception").Str("name", name).Err(err).Msg("Failure recorded")
}
