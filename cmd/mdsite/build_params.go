package main

import (
	"errors"
	"fmt"
	"time"

	mdsite "github.com/alnah/go-mdsite"
	"github.com/alnah/go-mdsite/internal/config"
	"github.com/alnah/go-mdsite/internal/logging"
)

// Sentinel errors for CLI param building.
var (
	ErrInvalidTimeout     = errors.New("invalid timeout")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// loadConfig resolves the configuration for a command.
// The config comes from --config, then MDSITE_CONFIG, then the default
// name "site". Only an explicitly named config must exist.
// Environment overrides are applied before returning.
func loadConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}
	explicit := name != ""
	if !explicit {
		name = config.DefaultConfigName
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if explicit || !errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = config.DefaultConfig()
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// mergeSiteFlags merges site flags into config. CLI values override config values.
func mergeSiteFlags(flags siteFlags, cfg *config.Config) {
	if flags.title != "" {
		cfg.Site.Title = flags.title
	}
	if flags.baseURL != "" {
		cfg.Site.BaseURL = flags.baseURL
	}
	if flags.lang != "" {
		cfg.Site.Lang = flags.lang
	}
	if flags.basePath != "" {
		cfg.Notes.BasePath = flags.basePath
	}
	if flags.route != "" {
		cfg.Notes.Route = flags.route
	}
	if flags.dateFormat != "" {
		cfg.Notes.DateFormat = flags.dateFormat
	}
}

// mergeAssetFlags merges asset flags into config.
func mergeAssetFlags(flags assetFlags, cfg *config.Config) {
	if flags.style != "" {
		cfg.Style.Name = flags.style
	}
	if flags.codeStyle != "" {
		cfg.Style.Code = flags.codeStyle
	}
	if flags.assetPath != "" {
		cfg.Assets.BasePath = flags.assetPath
	}
}

// mergeBuildFlags merges build flags into config.
func mergeBuildFlags(flags *buildFlags, cfg *config.Config) error {
	mergeSiteFlags(flags.site, cfg)
	mergeAssetFlags(flags.assets, cfg)

	if flags.output != "" {
		cfg.Output.Dir = flags.output
	}
	if flags.drafts {
		cfg.Notes.Drafts = true
	}
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if flags.workers > 0 {
		cfg.Build.Workers = flags.workers
	}
	return mergeTimeout(flags.timeout, cfg)
}

// mergeRenderFlags merges render flags into config.
func mergeRenderFlags(flags *renderFlags, cfg *config.Config) error {
	mergeSiteFlags(flags.site, cfg)
	mergeAssetFlags(flags.assets, cfg)
	return mergeTimeout(flags.timeout, cfg)
}

func mergeTimeout(value string, cfg *config.Config) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fmt.Errorf("%w: %q (use a positive duration like 30s or 2m)", ErrInvalidTimeout, value)
	}
	cfg.Build.Timeout = d
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}

// rendererOptions translates the resolved config into renderer options.
func rendererOptions(cfg *config.Config, now func() time.Time, logger logging.Logger) []mdsite.Option {
	site := mdsite.Site{
		Title:         cfg.Site.Title,
		TitleTemplate: cfg.Site.TitleTemplate,
		Description:   cfg.Site.Description,
		BaseURL:       cfg.Site.BaseURL,
		Lang:          cfg.Site.Lang,
		Brand:         cfg.Site.Brand,
		BackLabel:     cfg.Site.BackLabel,
	}
	for _, l := range cfg.Site.Footer {
		site.Footer = append(site.Footer, mdsite.Link{Label: l.Label, URL: l.URL})
	}
	if cfg.Site.Analytics.Enabled {
		site.AnalyticsSrc = cfg.Site.Analytics.Src
	}

	opts := []mdsite.Option{
		mdsite.WithSite(site),
		mdsite.WithStyle(cfg.Style.Name),
		mdsite.WithCodeStyle(cfg.Style.Code),
		mdsite.WithElementClasses(cfg.Style.Extra),
		mdsite.WithCodeFallback(cfg.Style.CodeFallback),
		mdsite.WithCodeGuess(cfg.Style.CodeGuess),
		mdsite.WithNoteRoute(cfg.Notes.Route),
		mdsite.WithBasePath(cfg.Notes.BasePath),
		mdsite.WithDrafts(cfg.Notes.Drafts),
		mdsite.WithClock(now),
		mdsite.WithLogger(logger),
	}
	if cfg.Notes.DateFormat != "" {
		opts = append(opts, mdsite.WithDateFormat(cfg.Notes.DateFormat))
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, mdsite.WithAssetPath(cfg.Assets.BasePath))
	}
	if cfg.Build.Timeout > 0 {
		opts = append(opts, mdsite.WithTimeout(cfg.Build.Timeout))
	}
	return opts
}

// newLogger builds the command logger from the common flags.
func newLogger(env *Environment, flags commonFlags, envCfg *envConfig, name string) (logging.Logger, error) {
	format := flags.logFormat
	if format == "" {
		format = envCfg.LogFormat
	}
	logger, err := env.NewLogger(logging.Config{
		Level:  logging.LevelFor(flags.quiet, flags.verbose),
		Format: format,
		Name:   name,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return logger, nil
}
