package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/alnah/go-mdsite/internal/dateutil"
	"github.com/alnah/go-mdsite/internal/mdx"
	"github.com/alnah/go-mdsite/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidConfig   = errors.New("invalid config")
)

// Field length limits.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 500
	MaxURLLength         = 2048 // Browser limit
	MaxLabelLength       = 100
	MaxLangLength        = 35 // BCP 47 practical limit
	MaxClassLength       = 500
	MaxRouteLength       = 100
	MaxWorkers           = 64
)

// ConfigDirName is the directory under os.UserConfigDir searched for named configs.
const ConfigDirName = "go-mdsite"

// Config holds the site configuration.
type Config struct {
	Site   SiteConfig   `yaml:"site"`
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Style  StyleConfig  `yaml:"style"`
	Assets AssetsConfig `yaml:"assets"`
	Notes  NotesConfig  `yaml:"notes"`
	Build  BuildConfig  `yaml:"build"`
}

// SiteConfig defines the root layout metadata.
type SiteConfig struct {
	Title         string          `yaml:"title"`         // Default page title
	TitleTemplate string          `yaml:"titleTemplate"` // "%s | Site"; %s is the page title
	Description   string          `yaml:"description"`
	BaseURL       string          `yaml:"baseURL"` // Absolute site URL for canonical links
	Lang          string          `yaml:"lang"`
	Brand         string          `yaml:"brand"`     // Notes header label, followed by the year
	BackLabel     string          `yaml:"backLabel"` // Notes back-to-home link text
	Footer        []Link          `yaml:"footer"`
	Analytics     AnalyticsConfig `yaml:"analytics"`
}

// Link is a footer link.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// AnalyticsConfig defines the optional analytics script.
type AnalyticsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Src     string `yaml:"src"` // Script URL
}

// InputConfig defines input source options.
type InputConfig struct {
	Dir string `yaml:"dir"` // Content root (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Site output directory
}

// StyleConfig defines styling options.
type StyleConfig struct {
	Name  string            `yaml:"name"`  // Stylesheet name in assets styles/
	Code  string            `yaml:"code"`  // Chroma style for code highlighting
	Extra map[string]string `yaml:"extra"` // Element tag -> classes appended to the base

	CodeFallback string `yaml:"codeFallback"` // Language of code that names none
	CodeGuess    bool   `yaml:"codeGuess"`    // Guess the language when there is no fallback
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// NotesConfig defines note routing and listing options.
type NotesConfig struct {
	Route      string `yaml:"route"`      // Route prefix of note pages
	BasePath   string `yaml:"basePath"`   // Prefix for all internal routes (subdirectory hosting)
	DateFormat string `yaml:"dateFormat"` // Token format or preset name
	Drafts     bool   `yaml:"drafts"`     // Publish notes marked as drafts
}

// BuildConfig defines build execution options.
type BuildConfig struct {
	Workers int           `yaml:"workers"` // 0 = auto
	Timeout time.Duration `yaml:"timeout"` // Per-note render timeout, 0 = renderer default
}

var (
	routePattern = regexp.MustCompile(`^/[A-Za-z0-9._~/-]*$`)
	langPattern  = regexp.MustCompile(`^[A-Za-z]{2,8}(-[A-Za-z0-9]{1,8})*$`)
)

// Validate checks the configuration. Called automatically by LoadConfig, but
// available for consumers who construct Config manually.
func (c *Config) Validate() error {
	if err := c.validateLengths(); err != nil {
		return err
	}

	err := validation.ValidateStruct(&c.Site,
		validation.Field(&c.Site.Title, validation.Required),
		validation.Field(&c.Site.TitleTemplate, validation.By(titleTemplate)),
		validation.Field(&c.Site.BaseURL, validation.By(absoluteURL)),
		validation.Field(&c.Site.Lang, validation.Match(langPattern)),
		validation.Field(&c.Site.Footer, validation.Each(validation.By(footerLink))),
	)
	if err != nil {
		return fmt.Errorf("%w: site: %v", ErrInvalidConfig, err)
	}

	if c.Site.Analytics.Enabled {
		err := validation.ValidateStruct(&c.Site.Analytics,
			validation.Field(&c.Site.Analytics.Src, validation.Required, validation.By(scriptURL)),
		)
		if err != nil {
			return fmt.Errorf("%w: site.analytics: %v", ErrInvalidConfig, err)
		}
	}

	err = validation.ValidateStruct(&c.Notes,
		validation.Field(&c.Notes.Route, validation.Required, validation.Match(routePattern)),
		validation.Field(&c.Notes.BasePath, validation.Match(routePattern)),
		validation.Field(&c.Notes.DateFormat, validation.By(dateFormat)),
	)
	if err != nil {
		return fmt.Errorf("%w: notes: %v", ErrInvalidConfig, err)
	}

	err = validation.ValidateStruct(&c.Build,
		validation.Field(&c.Build.Workers, validation.Min(0), validation.Max(MaxWorkers)),
		validation.Field(&c.Build.Timeout, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return fmt.Errorf("%w: build: %v", ErrInvalidConfig, err)
	}

	if c.Style.CodeFallback != "" && !mdx.KnownLanguage(c.Style.CodeFallback) {
		return fmt.Errorf("%w: style.codeFallback: unknown language %q", ErrInvalidConfig, c.Style.CodeFallback)
	}
	for tag := range c.Style.Extra {
		if _, err := mdx.ParseElementKind(tag); err != nil {
			return fmt.Errorf("%w: style.extra: %v", ErrInvalidConfig, err)
		}
	}

	return nil
}

func (c *Config) validateLengths() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"site.title", c.Site.Title, MaxTitleLength},
		{"site.titleTemplate", c.Site.TitleTemplate, MaxTitleLength},
		{"site.description", c.Site.Description, MaxDescriptionLength},
		{"site.baseURL", c.Site.BaseURL, MaxURLLength},
		{"site.lang", c.Site.Lang, MaxLangLength},
		{"site.brand", c.Site.Brand, MaxLabelLength},
		{"site.backLabel", c.Site.BackLabel, MaxLabelLength},
		{"site.analytics.src", c.Site.Analytics.Src, MaxURLLength},
		{"notes.route", c.Notes.Route, MaxRouteLength},
		{"notes.basePath", c.Notes.BasePath, MaxRouteLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	for i, link := range c.Site.Footer {
		if err := validateFieldLength(fmt.Sprintf("site.footer[%d].label", i), link.Label, MaxLabelLength); err != nil {
			return err
		}
		if err := validateFieldLength(fmt.Sprintf("site.footer[%d].url", i), link.URL, MaxURLLength); err != nil {
			return err
		}
	}
	for tag, class := range c.Style.Extra {
		if err := validateFieldLength("style.extra."+tag, class, MaxClassLength); err != nil {
			return err
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func titleTemplate(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if strings.Count(s, "%s") != 1 || strings.Count(s, "%") != 1 {
		return errors.New("must contain exactly one %s and no other verbs")
	}
	return nil
}

func absoluteURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an absolute http(s) URL")
	}
	return nil
}

// scriptURL accepts absolute http(s) URLs and site-absolute paths.
func scriptURL(value any) error {
	s, _ := value.(string)
	if strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
		return nil
	}
	return absoluteURL(value)
}

func footerLink(value any) error {
	link, ok := value.(Link)
	if !ok {
		return errors.New("must be a link")
	}
	return validation.ValidateStruct(&link,
		validation.Field(&link.Label, validation.Required),
		validation.Field(&link.URL, validation.Required),
	)
}

func dateFormat(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	_, err := dateutil.FormatDate(time.Time{}, s)
	return err
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			Title:         "白羊武士弗拉明戈的修道场",
			TitleTemplate: "%s | 白羊武士弗拉明戈的修道场",
			Description:   "超级个体，大辰教育合作 AI 讲师。深度 Claude code，Codex，Gemini 和 n8n 用户，出海产品持续构建。",
			BaseURL:       "https://arieswarrior.vercel.app",
			Lang:          "en",
			Brand:         "ARIES_WARRIOR",
			BackLabel:     "返回首页",
			Footer: []Link{
				{Label: "@Aries_warrior_f", URL: "https://x.com/Aries_warrior_f"},
			},
		},
		Input:  InputConfig{Dir: ""},
		Output: OutputConfig{Dir: "public"},
		Style: StyleConfig{
			Name:      "default",
			Code:      mdx.DefaultChromaStyle,
			CodeGuess: true,
		},
		Notes: NotesConfig{
			Route:      "/n",
			DateFormat: dateutil.DefaultDateFormat,
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeConfig(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// DefaultConfigName is the config searched when no --config is given.
const DefaultConfigName = "site"

// SearchPaths lists the candidate files of a config name in lookup order.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <UserConfigDir>/go-mdsite/
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, ConfigDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file of SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
