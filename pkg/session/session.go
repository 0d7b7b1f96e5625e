package session

import (
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/pkg/config"
	"github.com/ternarybob/specto/pkg/locator"
)

// Session is a provisioned browser ready for page interaction. It owns the
// full resource chain (runtime, browser, context, page) and releases it in
// reverse order on Close.
type Session struct {
	ID      string
	Profile config.Profile
	Browser playwright.Browser
	Context playwright.BrowserContext
	Page    playwright.Page

	pw             *playwright.Playwright
	elementTimeout time.Duration
	logger         arbor.ILogger

	closeOnce sync.Once
}

// ElementTimeout is the per-locator wait budget configured for this session.
func (s *Session) ElementTimeout() time.Duration {
	return s.elementTimeout
}

// Finder returns a locator.Finder bound to this session's page.
func (s *Session) Finder() locator.Finder {
	return &pageFinder{page: s.Page}
}

// Resolver returns a locator resolver over this session's page using the
// session element timeout.
func (s *Session) Resolver() *locator.Resolver {
	return locator.NewResolver(s.Finder(), s.elementTimeout)
}

// Close tears the session down: page, context, browser, runtime, in that
// order. Teardown errors are logged and swallowed; a session that reached
// Ready never reports its own cleanup as a failure. Safe to call more than
// once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		logger := s.logger
		if logger == nil {
			logger = common.GetLogger()
		}
		if s.Page != nil {
			if err := s.Page.Close(); err != nil {
				logger.Warn().Str("session", s.ID).Err(err).Msg("Failed to close page")
			}
		}
		if s.Context != nil {
			if err := s.Context.Close(); err != nil {
				logger.Warn().Str("session", s.ID).Err(err).Msg("Failed to close browser context")
			}
		}
		if s.Browser != nil {
			if err := s.Browser.Close(); err != nil {
				logger.Warn().Str("session", s.ID).Err(err).Msg("Failed to close browser")
			}
		}
		if s.pw != nil {
			if err := s.pw.Stop(); err != nil {
				logger.Warn().Str("session", s.ID).Err(err).Msg("Failed to stop playwright runtime")
			}
		}
		logger.Info().Str("session", s.ID).Str("profile", s.Profile.Name).Msg("Session closed")
	})
}
