package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/pkg/config"
	"github.com/ternarybob/specto/pkg/session"
)

var (
	// Command-line flags
	configDir    = flag.String("config-dir", "", "Configuration directory (overrides SPECTO_CONFIG_DIR, default \"config\")")
	browserName  = flag.String("browser", "", "Validate a single named browser profile instead of the whole matrix")
	remoteURL    = flag.String("remote", "", "Remote grid endpoint assumed when validating remote profiles (test runs use SPECTO_REMOTE_URL)")
	logLevel     = flag.String("log-level", "", "Log level (overrides config logging.level)")
	validateOnly = flag.Bool("validate", false, "Validate configuration and browser profiles, then exit")
	showMatrix   = flag.Bool("matrix", false, "Print the resolved browser matrix, then exit")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	logger arbor.ILogger
)

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Specto version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config
	// 2. Apply CLI overrides
	// 3. Initialize logger
	// 4. Print banner
	dir := *configDir
	if dir == "" {
		dir = os.Getenv("SPECTO_CONFIG_DIR")
	}
	store := config.NewStore(dir)

	level := *logLevel
	if level == "" {
		level = os.Getenv("SPECTO_LOG_LEVEL")
	}
	if level == "" {
		level = store.GetString("logging.level", "config", "info")
	}
	logger = common.InitLogger(common.LoggerOptions{
		Level:   level,
		Output:  outputTargets(store),
		LogFile: store.GetString("logging.file", "config", ""),
	})

	common.PrintBanner(common.GetVersion())

	switch {
	case *showMatrix:
		os.Exit(printMatrix(store))
	case *validateOnly:
		os.Exit(validateConfiguration(store))
	default:
		// validation is the default action; running tests is go test's job
		os.Exit(validateConfiguration(store))
	}
}

func outputTargets(store *config.Store) []string {
	raw, ok := store.Get("logging.output", "config", []any{"console"}).([]any)
	if !ok {
		return []string{"console"}
	}
	targets := make([]string, 0, len(raw))
	for _, entry := range raw {
		if s, ok := entry.(string); ok {
			targets = append(targets, s)
		}
	}
	if len(targets) == 0 {
		targets = []string{"console"}
	}
	return targets
}

// validateConfiguration checks the framework configuration and every
// profile the suite would run against. Returns a process exit code.
func validateConfiguration(store *config.Store) int {
	failures := 0

	if _, err := store.Load("config"); err != nil {
		logger.Error().Err(err).Msg("Framework configuration is not loadable")
		failures++
	} else {
		logger.Info().Str("dir", store.Dir()).Msg("Framework configuration OK")
	}

	profiles, err := resolveProfiles(store)
	if err != nil {
		logger.Error().Err(err).Msg("Browser configuration is invalid")
		return 1
	}

	for _, profile := range profiles {
		if err := profile.Validate(); err != nil {
			logger.Error().Err(err).Msg("Browser profile is invalid")
			failures++
			continue
		}
		if profile.Remote && profile.RemoteURL == "" && *remoteURL == "" &&
			store.GetString("remote.grid_url", "config", "") == "" {
			logger.Error().
				Str("profile", profile.Name).
				Msg("Remote profile has no endpoint: set remote_url, -remote, or remote.grid_url")
			failures++
			continue
		}
		logger.Info().
			Str("profile", profile.Name).
			Str("browser", profile.Browser).
			Bool("remote", profile.Remote).
			Msg("Browser profile OK")
	}

	if failures > 0 {
		logger.Error().Int("failures", failures).Msg("Configuration validation failed")
		return 1
	}
	logger.Info().Int("profiles", len(profiles)).Msg("Configuration validation passed")
	return 0
}

// printMatrix prints the resolved browser matrix. Returns a process exit code.
func printMatrix(store *config.Store) int {
	profiles, err := resolveProfiles(store)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to resolve browser matrix")
		return 1
	}

	fmt.Printf("Browser matrix (%d profile(s)):\n", len(profiles))
	for _, profile := range profiles {
		mode := "local"
		if profile.Remote {
			mode = "remote"
		}
		viewport := fmt.Sprintf("%dx%d", session.DefaultViewportWidth, session.DefaultViewportHeight)
		if profile.Viewport != nil {
			viewport = fmt.Sprintf("%dx%d", profile.Viewport.Width, profile.Viewport.Height)
		}
		fmt.Printf("  %-20s %-10s %-8s %s\n", profile.Name, profile.Browser, mode, viewport)
	}
	return 0
}

// resolveProfiles applies the -browser override: a named profile collapses
// the matrix to that single entry.
func resolveProfiles(store *config.Store) ([]config.Profile, error) {
	if *browserName != "" {
		profile, err := store.BrowserProfile(*browserName)
		if err != nil {
			return nil, err
		}
		return []config.Profile{profile}, nil
	}
	return store.BrowserMatrix()
}
