package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/specto/internal/common"
)

const (
	// DefaultDir is the configuration directory relative to the working directory
	DefaultDir = "config"

	// DefaultBrowserFallback is used when browsers.yaml carries no default_browser key
	DefaultBrowserFallback = "chrome"

	// browsersFileName is the logical name of the browser configuration file
	browsersFileName = "browsers"
)

// Store loads and caches YAML configuration files from a directory.
//
// Files are addressed by logical name without extension ("config" means
// config.yaml). Parsed contents are cached for the process lifetime;
// Reload and ClearCache invalidate explicitly. All cache access runs under
// one lock so parallel readers and an explicit reload cannot lose updates.
type Store struct {
	dir    string
	logger arbor.ILogger

	mu       sync.RWMutex
	cache    map[string]map[string]any
	browsers *browsersFile
}

// browsersFile mirrors the browsers.yaml document. The legacy browsers
// section is kept as a yaml.Node so synthesis preserves document order.
type browsersFile struct {
	DefaultBrowser string    `yaml:"default_browser"`
	Browsers       yaml.Node `yaml:"browsers"`
	Matrix         []Profile `yaml:"matrix"`
}

// NewStore creates a Store over the given configuration directory.
// An empty dir selects DefaultDir.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	return &Store{
		dir:    dir,
		logger: common.GetLogger(),
		cache:  make(map[string]map[string]any),
	}
}

// Dir returns the configuration directory the store reads from.
func (s *Store) Dir() string {
	return s.dir
}

// Load returns the parsed contents of the named configuration file,
// reading and caching it on first access.
func (s *Store) Load(name string) (map[string]any, error) {
	s.mu.RLock()
	if data, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return data, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have populated the entry while we waited.
	if data, ok := s.cache[name]; ok {
		return data, nil
	}

	data, err := s.readFile(name)
	if err != nil {
		return nil, err
	}
	s.cache[name] = data
	s.logger.Debug().Str("config", name).Msg("Configuration loaded and cached")
	return data, nil
}

func (s *Store) readFile(name string) (map[string]any, error) {
	path := filepath.Join(s.dir, name+".yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	data := make(map[string]any)
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return data, nil
}

// Get returns the value at a dotted key path in the named file, or def when
// any path segment is missing or the file cannot be loaded.
func (s *Store) Get(key, name string, def any) any {
	data, err := s.Load(name)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Str("config", name).Msg("Config lookup failed, returning default")
		return def
	}

	var value any = data
	for _, segment := range strings.Split(key, ".") {
		m, ok := value.(map[string]any)
		if !ok {
			s.logger.Debug().Str("key", key).Str("config", name).Msg("Key not found, returning default")
			return def
		}
		value, ok = m[segment]
		if !ok {
			s.logger.Debug().Str("key", key).Str("config", name).Msg("Key not found, returning default")
			return def
		}
	}
	return value
}

// GetString returns the string value at key, or def when absent or not a string.
func (s *Store) GetString(key, name, def string) string {
	if v, ok := s.Get(key, name, def).(string); ok {
		return v
	}
	return def
}

// GetInt returns the integer value at key, or def when absent or not an int.
func (s *Store) GetInt(key, name string, def int) int {
	switch v := s.Get(key, name, def).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// GetBool returns the boolean value at key, or def when absent or not a bool.
func (s *Store) GetBool(key, name string, def bool) bool {
	if v, ok := s.Get(key, name, def).(bool); ok {
		return v
	}
	return def
}

// GetDuration reads an integer number of seconds at key and returns it as a
// duration, or def when absent.
func (s *Store) GetDuration(key, name string, def time.Duration) time.Duration {
	seconds := s.GetInt(key, name, -1)
	if seconds < 0 {
		return def
	}
	return time.Duration(seconds) * time.Second
}

// GetAll returns the complete parsed contents of the named file.
func (s *Store) GetAll(name string) (map[string]any, error) {
	return s.Load(name)
}

// Reload discards any cached entry for the named file and loads it again.
func (s *Store) Reload(name string) (map[string]any, error) {
	s.mu.Lock()
	delete(s.cache, name)
	if name == browsersFileName {
		s.browsers = nil
	}
	s.mu.Unlock()

	s.logger.Info().Str("config", name).Msg("Configuration reloaded")
	return s.Load(name)
}

// ClearCache discards all cached configuration.
func (s *Store) ClearCache() {
	s.mu.Lock()
	s.cache = make(map[string]map[string]any)
	s.browsers = nil
	s.mu.Unlock()

	s.logger.Info().Msg("Configuration cache cleared")
}

// loadBrowsers parses browsers.yaml into its typed form, caching the result.
func (s *Store) loadBrowsers() (*browsersFile, error) {
	s.mu.RLock()
	if s.browsers != nil {
		b := s.browsers
		s.mu.RUnlock()
		return b, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browsers != nil {
		return s.browsers, nil
	}

	path := filepath.Join(s.dir, browsersFileName+".yaml")
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read browsers config %s: %w", path, err)
	}

	var parsed browsersFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse browsers config %s: %w", path, err)
	}

	s.browsers = &parsed
	return s.browsers, nil
}

// DefaultBrowser returns the default browser profile name.
func (s *Store) DefaultBrowser() string {
	browsers, err := s.loadBrowsers()
	if err != nil || browsers.DefaultBrowser == "" {
		return DefaultBrowserFallback
	}
	return browsers.DefaultBrowser
}

// BrowserProfile returns the named profile, validated. Explicit matrix
// entries are consulted before the legacy browsers section. The error for
// an unknown profile lists the available names.
func (s *Store) BrowserProfile(name string) (Profile, error) {
	browsers, err := s.loadBrowsers()
	if err != nil {
		return Profile{}, err
	}

	profiles := make(map[string]Profile)
	var order []string
	legacyNames, legacyProfiles, err := s.decodeLegacyBrowsers()
	if err != nil {
		return Profile{}, err
	}
	for _, legacyName := range legacyNames {
		profiles[legacyName] = legacyProfiles[legacyName]
		order = append(order, legacyName)
	}
	for _, entry := range browsers.Matrix {
		if _, exists := profiles[entry.Name]; !exists {
			order = append(order, entry.Name)
		}
		profiles[entry.Name] = entry
	}

	profile, ok := profiles[name]
	if !ok {
		sorted := make([]string, len(order))
		copy(sorted, order)
		sort.Strings(sorted)
		return Profile{}, fmt.Errorf("browser profile %q not found, available: %s", name, strings.Join(sorted, ", "))
	}

	if profile.Name == "" {
		profile.Name = name
	}
	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// BrowserMatrix resolves the set of profiles a suite runs against.
//
// An explicit matrix section wins; without one the legacy browsers mapping
// is converted, injecting each mapping key as the profile name, in document
// order. Profile names must be unique within the matrix.
func (s *Store) BrowserMatrix() ([]Profile, error) {
	browsers, err := s.loadBrowsers()
	if err != nil {
		return nil, err
	}

	var matrix []Profile
	if browsers.Matrix != nil {
		if len(browsers.Matrix) == 0 {
			return nil, fmt.Errorf("browser matrix must be a non-empty list")
		}
		matrix = make([]Profile, len(browsers.Matrix))
		copy(matrix, browsers.Matrix)
	} else {
		s.logger.Warn().Msg("No matrix section in browsers.yaml, falling back to legacy browsers section")
		matrix, err = s.legacyMatrix()
		if err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool, len(matrix))
	for i, profile := range matrix {
		if profile.Name == "" {
			return nil, fmt.Errorf("browser matrix entry %d has no name", i+1)
		}
		if seen[profile.Name] {
			return nil, fmt.Errorf("duplicate browser matrix profile name %q", profile.Name)
		}
		seen[profile.Name] = true
		if err := profile.Validate(); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Int("profiles", len(matrix)).Msg("Browser matrix resolved")
	return matrix, nil
}

// legacyMatrix converts the browsers mapping to matrix form, injecting the
// mapping key as the profile name. Document order is preserved.
func (s *Store) legacyMatrix() ([]Profile, error) {
	names, profiles, err := s.decodeLegacyBrowsers()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("browsers.yaml has neither a matrix nor a browsers section")
	}

	matrix := make([]Profile, 0, len(names))
	for _, name := range names {
		profile := profiles[name]
		profile.Name = name
		matrix = append(matrix, profile)
	}

	s.logger.Info().Int("profiles", len(matrix)).Msg("Converted legacy browser profiles to matrix format")
	return matrix, nil
}

// decodeLegacyBrowsers walks the browsers mapping node so key order is kept.
func (s *Store) decodeLegacyBrowsers() ([]string, map[string]Profile, error) {
	browsers, err := s.loadBrowsers()
	if err != nil {
		return nil, nil, err
	}

	node := browsers.Browsers
	if node.Kind == 0 {
		return nil, map[string]Profile{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("browsers section must be a mapping of profile name to profile")
	}

	names := make([]string, 0, len(node.Content)/2)
	profiles := make(map[string]Profile, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var profile Profile
		if err := node.Content[i+1].Decode(&profile); err != nil {
			return nil, nil, fmt.Errorf("failed to decode browser profile %q: %w", name, err)
		}
		names = append(names, name)
		profiles[name] = profile
	}
	return names, profiles, nil
}
