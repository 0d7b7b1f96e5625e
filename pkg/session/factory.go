package session

import (
	"errors"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/pkg/config"
)

// Configuration keys read from config.yaml, with their built-in defaults.
const (
	configFile = "config"

	keyMaxRetries      = "session.max_retries"
	keyRetryDelay      = "session.retry_delay"
	keyHeadless        = "session.headless"
	keySlowMo          = "session.slow_mo_ms"
	keyLocale          = "session.locale"
	keyTimezone        = "session.timezone"
	keyUserAgent       = "session.user_agent"
	keyPermissions     = "session.permissions"
	keyDefaultTimeout  = "timeouts.default"
	keyPageLoadTimeout = "timeouts.page_load"
	keyElementTimeout  = "timeouts.element"
	keyGridURL         = "remote.grid_url"

	defaultMaxRetries      = 2
	defaultRetryDelay      = 1 * time.Second
	defaultTimeout         = 10 * time.Second
	defaultPageLoadTimeout = 30 * time.Second
	defaultElementTimeout  = 5 * time.Second
)

// Framework fallbacks applied when a profile leaves the field unset.
const (
	DefaultViewportWidth  = 1920
	DefaultViewportHeight = 1080

	defaultLocale = "en-US"
)

// provisionFunc performs one provisioning attempt for a profile. The
// default implementation drives playwright; tests substitute their own.
type provisionFunc func(profile config.Profile) (*Session, error)

// Factory creates browser sessions from profiles, with bounded retry on
// transient provisioning failures. Creation is the only retried phase: a
// session that reached Ready is never recovered automatically.
type Factory struct {
	store    *config.Store
	logger   arbor.ILogger
	endpoint string
	remote   bool

	provision provisionFunc
	sleep     func(time.Duration)
}

// Option customises a Factory.
type Option func(*Factory)

// WithRemoteEndpoint sets the grid endpoint used when a profile does not
// carry its own remote URL.
func WithRemoteEndpoint(url string) Option {
	return func(f *Factory) { f.endpoint = url }
}

// WithRemote forces remote execution for every profile the factory serves,
// regardless of the profile's own remote flag.
func WithRemote() Option {
	return func(f *Factory) { f.remote = true }
}

func withProvision(fn provisionFunc) Option {
	return func(f *Factory) { f.provision = fn }
}

// NewFactory creates a session factory over the given configuration store.
func NewFactory(store *config.Store, opts ...Option) *Factory {
	f := &Factory{
		store:  store,
		logger: common.GetLogger(),
		sleep:  time.Sleep,
	}
	f.provision = f.provisionOnce
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create provisions a session for the named browser profile.
func (f *Factory) Create(profileName string) (*Session, error) {
	profile, err := f.store.BrowserProfile(profileName)
	if err != nil {
		return nil, err
	}
	return f.CreateFromProfile(profile)
}

// CreateFromProfile provisions a session for an already-resolved profile.
//
// The attempt budget is max_retries+1; a fixed retry_delay separates
// attempts. Partial resources from a failed attempt are released before the
// next one. Configuration errors (unsupported browser, missing remote
// endpoint) fail immediately. The terminal failure wraps the last cause in
// a *SessionCreationError.
func (f *Factory) CreateFromProfile(profile config.Profile) (*Session, error) {
	profile = profile.Clone()
	if f.remote {
		profile.Remote = true
	}

	maxRetries := f.store.GetInt(keyMaxRetries, configFile, defaultMaxRetries)
	if maxRetries < 0 {
		maxRetries = 0
	}
	retryDelay := f.store.GetDuration(keyRetryDelay, configFile, defaultRetryDelay)
	attempts := maxRetries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		f.logger.Info().
			Str("profile", profile.Name).
			Str("browser", profile.Browser).
			Int("attempt", attempt).
			Int("max", attempts).
			Bool("remote", profile.Remote).
			Msg("Creating browser session")

		session, err := f.provision(profile)
		if err == nil {
			f.logger.Info().
				Str("session", session.ID).
				Str("profile", profile.Name).
				Msg("Browser session ready")
			return session, nil
		}

		if isConfigurationError(err) {
			return nil, err
		}

		lastErr = err
		f.logger.Warn().
			Str("profile", profile.Name).
			Int("attempt", attempt).
			Err(err).
			Msg("Session attempt failed")
		if attempt < attempts {
			f.sleep(retryDelay)
		}
	}

	return nil, &SessionCreationError{
		Profile:  profile.Name,
		Attempts: attempts,
		Cause:    lastErr,
	}
}

// isConfigurationError reports whether the failure is a fixed configuration
// problem that no retry can repair.
func isConfigurationError(err error) bool {
	var unconfigured *RemoteEndpointUnconfiguredError
	return errors.As(err, &unconfigured)
}
