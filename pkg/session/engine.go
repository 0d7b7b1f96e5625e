package session

import (
	"fmt"
	"sort"
	"strings"
)

// Engine identifies a Playwright browser engine.
type Engine string

const (
	EngineChromium Engine = "chromium"
	EngineFirefox  Engine = "firefox"
	EngineWebKit   Engine = "webkit"
)

// engineTarget is the resolution of a logical browser name: the engine that
// runs it and, for branded chromium builds, the release channel to request.
type engineTarget struct {
	Engine  Engine
	Channel string
}

// browserEngines maps the logical browser names accepted in profiles to
// their engine targets. Branded chromium builds (chrome, edge) resolve to
// the chromium engine with a channel override.
var browserEngines = map[string]engineTarget{
	"chrome":   {Engine: EngineChromium, Channel: "chrome"},
	"chromium": {Engine: EngineChromium},
	"msedge":   {Engine: EngineChromium, Channel: "msedge"},
	"edge":     {Engine: EngineChromium, Channel: "msedge"},
	"firefox":  {Engine: EngineFirefox},
	"webkit":   {Engine: EngineWebKit},
	"safari":   {Engine: EngineWebKit},
}

// resolveEngine maps a logical browser name to its engine target. Matching
// is case-insensitive.
func resolveEngine(browser string) (engineTarget, error) {
	target, ok := browserEngines[strings.ToLower(browser)]
	if !ok {
		return engineTarget{}, fmt.Errorf("unsupported browser %q (supported: %s)",
			browser, strings.Join(supportedBrowsers(), ", "))
	}
	return target, nil
}

func supportedBrowsers() []string {
	names := make([]string, 0, len(browserEngines))
	for name := range browserEngines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
