package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Viewport is a browser window size in CSS pixels.
type Viewport struct {
	Width  int `yaml:"width" validate:"gt=0"`
	Height int `yaml:"height" validate:"gt=0"`
}

// Profile describes one browser configuration from browsers.yaml.
//
// Browser is the logical browser name ("chrome", "msedge", "firefox", ...);
// the session factory maps it to one of the three engines. A Profile is a
// value object: callers clone it before mutating.
type Profile struct {
	Name          string         `yaml:"name"`
	Browser       string         `yaml:"browserName" validate:"required,oneof=chrome chromium msedge edge firefox webkit safari"`
	Version       string         `yaml:"browserVersion"`
	Headless      *bool          `yaml:"headless"`
	Viewport      *Viewport      `yaml:"viewport"`
	Args          []string       `yaml:"args"`
	Remote        bool           `yaml:"remote"`
	RemoteURL     string         `yaml:"remote_url" validate:"omitempty,url"`
	Platform      string         `yaml:"platform"`
	RemoteOptions map[string]any `yaml:"remote_options"`
}

// Clone returns a deep copy so callers can mutate without sharing state.
func (p Profile) Clone() Profile {
	clone := p

	if p.Headless != nil {
		headless := *p.Headless
		clone.Headless = &headless
	}
	if p.Viewport != nil {
		viewport := *p.Viewport
		clone.Viewport = &viewport
	}
	if len(p.Args) > 0 {
		clone.Args = make([]string, len(p.Args))
		copy(clone.Args, p.Args)
	}
	if len(p.RemoteOptions) > 0 {
		clone.RemoteOptions = make(map[string]any, len(p.RemoteOptions))
		for k, v := range p.RemoteOptions {
			clone.RemoteOptions[k] = v
		}
	}
	return clone
}

var profileValidator = validator.New()

// Validate checks the profile against the struct validation rules.
func (p Profile) Validate() error {
	if err := profileValidator.Struct(p); err != nil {
		return fmt.Errorf("invalid browser profile %q: %w", p.Name, err)
	}
	return nil
}
