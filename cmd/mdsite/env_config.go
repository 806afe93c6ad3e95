package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdsite/internal/config"
)

// envPrefix marks the environment variables read by mdsite.
const envPrefix = "MDSITE_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MDSITE_CONFIG: config name or path
	Style      string        // MDSITE_STYLE: stylesheet name or path
	InputDir   string        // MDSITE_INPUT_DIR: content root
	OutputDir  string        // MDSITE_OUTPUT_DIR: site output directory
	BaseURL    string        // MDSITE_BASE_URL: canonical site URL
	Workers    int           // MDSITE_WORKERS: parallel renderers
	Timeout    time.Duration // MDSITE_TIMEOUT: per-note render timeout
	LogFormat  string        // MDSITE_LOG_FORMAT: console, json, pretty
}

// knownEnvVars lists valid MDSITE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDSITE_CONFIG":     true,
	"MDSITE_STYLE":      true,
	"MDSITE_INPUT_DIR":  true,
	"MDSITE_OUTPUT_DIR": true,
	"MDSITE_BASE_URL":   true,
	"MDSITE_WORKERS":    true,
	"MDSITE_TIMEOUT":    true,
	"MDSITE_LOG_FORMAT": true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed durations and worker counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDSITE_CONFIG"),
		Style:      os.Getenv("MDSITE_STYLE"),
		InputDir:   os.Getenv("MDSITE_INPUT_DIR"),
		OutputDir:  os.Getenv("MDSITE_OUTPUT_DIR"),
		BaseURL:    os.Getenv("MDSITE_BASE_URL"),
		LogFormat:  os.Getenv("MDSITE_LOG_FORMAT"),
	}

	if timeout := os.Getenv("MDSITE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MDSITE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDSITE_* variables.
// Helps catch typos like MDSITE_OUTPUTDIR instead of MDSITE_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config file values with the variables that are set.
// Flags are applied afterwards, giving: flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Style != "" {
		cfg.Style.Name = env.Style
	}
	if env.InputDir != "" {
		cfg.Input.Dir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.BaseURL != "" {
		cfg.Site.BaseURL = env.BaseURL
	}
	if env.Workers > 0 {
		cfg.Build.Workers = env.Workers
	}
	if env.Timeout > 0 {
		cfg.Build.Timeout = env.Timeout
	}
}
