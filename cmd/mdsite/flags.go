package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
}

// siteFlags override the site and notes sections of the config.
type siteFlags struct {
	title      string
	baseURL    string
	basePath   string
	route      string
	dateFormat string
	lang       string
}

// assetFlags holds asset-related flags (stylesheet, code style, custom asset path).
type assetFlags struct {
	style     string // Name, file path or CSS
	codeStyle string // Chroma style name
	assetPath string // Override asset directory
}

// buildFlags holds all flags for the build command.
type buildFlags struct {
	common  commonFlags
	output  string
	workers int
	timeout string
	drafts  bool
	site    siteFlags
	assets  assetFlags
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common  commonFlags
	output  string
	timeout string
	site    siteFlags
	assets  assetFlags
}

// stylesFlags holds flags for the styles command.
type stylesFlags struct {
	list bool
}

// configFlags holds flags for the config command.
type configFlags struct {
	common commonFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing and debug logs")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console, json, pretty")
}

// addSiteFlags adds site flags to a FlagSet.
func addSiteFlags(fs *flag.FlagSet, f *siteFlags) {
	fs.StringVar(&f.title, "title", "", "site title")
	fs.StringVar(&f.baseURL, "base-url", "", "absolute site URL for canonical links")
	fs.StringVar(&f.basePath, "base-path", "", "path the site is served under (/blog)")
	fs.StringVar(&f.route, "route", "", "route prefix of note pages (/n)")
	fs.StringVar(&f.dateFormat, "date-format", "", "note date format: tokens or preset")
	fs.StringVar(&f.lang, "lang", "", "document language (en, fr-CA)")
}

// addAssetFlags adds asset-related flags to a FlagSet.
func addAssetFlags(fs *flag.FlagSet, f *assetFlags) {
	fs.StringVar(&f.style, "style", "", "stylesheet name or file path")
	fs.StringVar(&f.codeStyle, "code-style", "", "chroma style for code blocks")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// newFlagSet returns a FlagSet that reports errors to the caller only.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

// handleFlagError prints usage for -h/--help and wraps other parse errors
// as usage errors.
func handleFlagError(err error, command string, usage func(io.Writer), env *Environment) error {
	if errors.Is(err, flag.ErrHelp) {
		usage(env.Stdout)
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrUsage, command, err)
}

// parseBuildFlags parses build command flags and returns positional args.
func parseBuildFlags(args []string) (*buildFlags, []string, error) {
	fs := newFlagSet("build")
	f := &buildFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "site output directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renderers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-note render timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.drafts, "drafts", false, "publish draft notes")

	addCommonFlags(fs, &f.common)
	addSiteFlags(fs, &f.site)
	addAssetFlags(fs, &f.assets)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseRenderFlags parses render command flags and returns positional args.
func parseRenderFlags(args []string) (*renderFlags, []string, error) {
	fs := newFlagSet("render")
	f := &renderFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "write the page to a file instead of stdout")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "render timeout (e.g., 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addSiteFlags(fs, &f.site)
	addAssetFlags(fs, &f.assets)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseStylesFlags parses styles command flags and returns positional args.
func parseStylesFlags(args []string) (*stylesFlags, []string, error) {
	fs := newFlagSet("styles")
	f := &stylesFlags{}

	fs.BoolVarP(&f.list, "list", "l", false, "list available styles")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseConfigFlags parses config command flags and returns positional args.
func parseConfigFlags(args []string) (*configFlags, []string, error) {
	fs := newFlagSet("config")
	f := &configFlags{}

	addCommonFlags(fs, &f.common)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
