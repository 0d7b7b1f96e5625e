package session

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/ternarybob/specto/pkg/config"
)

// provisionOnce performs a single provisioning attempt: start the runtime,
// obtain a browser (launch or remote connect), open a context and page, and
// apply the configured timeouts. Any failure releases whatever was already
// acquired before returning.
func (f *Factory) provisionOnce(profile config.Profile) (*Session, error) {
	target, err := resolveEngine(profile.Browser)
	if err != nil {
		return nil, err
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright runtime: %w", err)
	}

	var browser playwright.Browser
	if profile.Remote {
		browser, err = f.connectRemote(pw, profile, target)
	} else {
		browser, err = f.launchLocal(pw, profile, target)
	}
	if err != nil {
		f.stopRuntime(pw)
		return nil, err
	}

	context, err := browser.NewContext(f.contextOptions(profile))
	if err != nil {
		f.closeBrowser(browser)
		f.stopRuntime(pw)
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		f.closeContext(context)
		f.closeBrowser(browser)
		f.stopRuntime(pw)
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	actionTimeout := f.store.GetDuration(keyDefaultTimeout, configFile, defaultTimeout)
	navigationTimeout := f.store.GetDuration(keyPageLoadTimeout, configFile, defaultPageLoadTimeout)
	elementTimeout := f.store.GetDuration(keyElementTimeout, configFile, defaultElementTimeout)
	page.SetDefaultTimeout(float64(actionTimeout.Milliseconds()))
	page.SetDefaultNavigationTimeout(float64(navigationTimeout.Milliseconds()))

	return &Session{
		ID:             uuid.New().String(),
		Profile:        profile,
		Browser:        browser,
		Context:        context,
		Page:           page,
		pw:             pw,
		elementTimeout: elementTimeout,
		logger:         f.logger,
	}, nil
}

func (f *Factory) launchLocal(pw *playwright.Playwright, profile config.Profile, target engineTarget) (playwright.Browser, error) {
	options := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(f.headless(profile)),
	}
	if target.Channel != "" {
		options.Channel = playwright.String(target.Channel)
	}
	if len(profile.Args) > 0 {
		options.Args = profile.Args
	}
	if slowMo := f.store.GetInt(keySlowMo, configFile, 0); slowMo > 0 {
		options.SlowMo = playwright.Float(float64(slowMo))
	}

	browser, err := f.browserType(pw, target.Engine).Launch(options)
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", profile.Browser, err)
	}
	return browser, nil
}

func (f *Factory) connectRemote(pw *playwright.Playwright, profile config.Profile, target engineTarget) (playwright.Browser, error) {
	endpoint := profile.RemoteURL
	if endpoint == "" {
		endpoint = f.endpoint
	}
	if endpoint == "" {
		endpoint = f.store.GetString(keyGridURL, configFile, "")
	}
	if endpoint == "" {
		return nil, &RemoteEndpointUnconfiguredError{Profile: profile.Name}
	}

	wsEndpoint, err := remoteWSEndpoint(endpoint, f.capabilities(profile, target))
	if err != nil {
		return nil, err
	}

	f.logger.Debug().
		Str("profile", profile.Name).
		Str("endpoint", endpoint).
		Msg("Connecting to remote browser")

	browser, err := f.browserType(pw, target.Engine).Connect(wsEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to remote endpoint %s: %w", endpoint, err)
	}
	return browser, nil
}

func (f *Factory) browserType(pw *playwright.Playwright, engine Engine) playwright.BrowserType {
	switch engine {
	case EngineFirefox:
		return pw.Firefox
	case EngineWebKit:
		return pw.WebKit
	default:
		return pw.Chromium
	}
}

// capabilities builds the session request the remote grid receives. Version
// "latest" is the grid default and is omitted.
func (f *Factory) capabilities(profile config.Profile, target engineTarget) map[string]any {
	caps := map[string]any{
		"browserName": string(target.Engine),
		"headless":    f.headless(profile),
	}
	if profile.Version != "" && !strings.EqualFold(profile.Version, "latest") {
		caps["browserVersion"] = profile.Version
	}
	viewport := f.viewport(profile)
	caps["viewport"] = map[string]int{
		"width":  viewport.Width,
		"height": viewport.Height,
	}
	if profile.Platform != "" {
		caps["platformName"] = profile.Platform
	}
	for key, value := range profile.RemoteOptions {
		caps[key] = value
	}
	return caps
}

// remoteWSEndpoint derives the websocket URL for a grid endpoint and
// attaches the serialized capabilities.
func remoteWSEndpoint(endpoint string, caps map[string]any) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid remote endpoint %q: %w", endpoint, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid remote endpoint %q: unsupported scheme %q", endpoint, u.Scheme)
	}

	payload, err := json.Marshal(caps)
	if err != nil {
		return "", fmt.Errorf("failed to serialize capabilities: %w", err)
	}
	query := u.Query()
	query.Set("capabilities", string(payload))
	u.RawQuery = query.Encode()
	return u.String(), nil
}

func (f *Factory) contextOptions(profile config.Profile) playwright.BrowserNewContextOptions {
	viewport := f.viewport(profile)
	options := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  viewport.Width,
			Height: viewport.Height,
		},
		Locale:          playwright.String(f.store.GetString(keyLocale, configFile, defaultLocale)),
		AcceptDownloads: playwright.Bool(true),
	}
	if timezone := f.store.GetString(keyTimezone, configFile, ""); timezone != "" {
		options.TimezoneId = playwright.String(timezone)
	}
	if userAgent := f.store.GetString(keyUserAgent, configFile, ""); userAgent != "" {
		options.UserAgent = playwright.String(userAgent)
	}
	if permissions := f.stringList(keyPermissions); len(permissions) > 0 {
		options.Permissions = permissions
	}
	return options
}

// stringList reads a list of strings at key; non-string entries are skipped.
func (f *Factory) stringList(key string) []string {
	raw, ok := f.store.Get(key, configFile, nil).([]any)
	if !ok {
		return nil
	}
	values := make([]string, 0, len(raw))
	for _, entry := range raw {
		if s, ok := entry.(string); ok {
			values = append(values, s)
		}
	}
	return values
}

func (f *Factory) headless(profile config.Profile) bool {
	if profile.Headless != nil {
		return *profile.Headless
	}
	return f.store.GetBool(keyHeadless, configFile, true)
}

func (f *Factory) viewport(profile config.Profile) config.Viewport {
	if profile.Viewport != nil {
		return *profile.Viewport
	}
	return config.Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
}

func (f *Factory) stopRuntime(pw *playwright.Playwright) {
	if err := pw.Stop(); err != nil {
		f.logger.Warn().Err(err).Msg("Failed to stop playwright runtime during cleanup")
	}
}

func (f *Factory) closeBrowser(browser playwright.Browser) {
	if err := browser.Close(); err != nil {
		f.logger.Warn().Err(err).Msg("Failed to close browser during cleanup")
	}
}

func (f *Factory) closeContext(context playwright.BrowserContext) {
	if err := context.Close(); err != nil {
		f.logger.Warn().Err(err).Msg("Failed to close browser context during cleanup")
	}
}
