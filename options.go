package mdsite

import (
	"time"
)

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	timeout        time.Duration
	styleInput     string // name, file path or CSS content
	resolvedStyle  string
	codeStyle      string
	elementClasses map[string]string
	assetPath      string
	templateSet    *TemplateSet
	site           Site
	noteRoute      string
	basePath       string
	dateFormat     string
	now            func() time.Time
	highlighter    HighlightFunc
	codeFallback   string
	codeGuess      bool
	drafts         bool
	logger         Logger
}

// Defaults applied by NewRenderer.
const (
	defaultTimeout   = 30 * time.Second
	DefaultNoteRoute = "/n"
)

// HighlightFunc turns a code block into highlighted HTML. Returning an error
// leaves the block escaped but unhighlighted.
type HighlightFunc func(code, language string) (string, error)

// WithTimeout sets the per-render timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdsite: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithStyle sets the site stylesheet: a built-in name ("default"), a file
// path (contains a path separator) or raw CSS (contains "{").
func WithStyle(style string) Option {
	return func(r *Renderer) {
		r.cfg.styleInput = style
	}
}

// WithCodeStyle sets the chroma style whose CSS is appended to the
// stylesheet ("github" by default).
func WithCodeStyle(name string) Option {
	return func(r *Renderer) {
		r.cfg.codeStyle = name
	}
}

// WithElementClasses appends classes to the base classes of element kinds,
// keyed by tag ("h1", "p", "a", "blockquote", ...).
// NewRenderer returns ErrUnknownElement for an unknown tag.
func WithElementClasses(classes map[string]string) Option {
	return func(r *Renderer) {
		r.cfg.elementClasses = classes
	}
}

// WithAssetPath loads styles, scripts and templates from dir, falling back
// to the embedded assets.
func WithAssetPath(dir string) Option {
	return func(r *Renderer) {
		r.cfg.assetPath = dir
	}
}

// WithAssetLoader sets a custom asset loader. It takes precedence over
// WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(r *Renderer) {
		r.loader = loader
	}
}

// WithTemplateSet uses set instead of loading the default template set.
func WithTemplateSet(set *TemplateSet) Option {
	return func(r *Renderer) {
		r.cfg.templateSet = set
	}
}

// WithSite sets the site chrome.
func WithSite(site Site) Option {
	return func(r *Renderer) {
		r.cfg.site = site
	}
}

// WithNoteRoute sets the route prefix of note pages ("/n" by default).
func WithNoteRoute(route string) Option {
	return func(r *Renderer) {
		r.cfg.noteRoute = route
	}
}

// WithBasePath sets the path the site is served under ("/blog"). Internal
// links and rewritten relative paths are prefixed with it.
func WithBasePath(path string) Option {
	return func(r *Renderer) {
		r.cfg.basePath = path
	}
}

// WithDateFormat sets the display format of note dates: tokens
// ("DD/MM/YYYY") or a preset ("iso", "long", ...).
func WithDateFormat(format string) Option {
	return func(r *Renderer) {
		r.cfg.dateFormat = format
	}
}

// WithClock sets the clock used for the year in the notes header.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.cfg.now = now
	}
}

// WithHighlighter replaces the chroma highlighter for fenced code.
func WithHighlighter(fn HighlightFunc) Option {
	return func(r *Renderer) {
		r.cfg.highlighter = fn
	}
}

// WithCodeFallback sets the language of code that names none. NewRenderer
// returns ErrUnknownLanguage when chroma has no lexer for it.
func WithCodeFallback(language string) Option {
	return func(r *Renderer) {
		r.cfg.codeFallback = language
	}
}

// WithCodeGuess lets chroma guess the language of code that names none and
// has no fallback. Enabled by default.
func WithCodeGuess(enabled bool) Option {
	return func(r *Renderer) {
		r.cfg.codeGuess = enabled
	}
}

// WithDrafts lists draft notes in the index.
func WithDrafts(enabled bool) Option {
	return func(r *Renderer) {
		r.cfg.drafts = enabled
	}
}

// Logger receives render diagnostics as a message and key/value pairs.
// *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// WithLogger sets the logger for render diagnostics. Logging is discarded
// by default.
func WithLogger(logger Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.cfg.logger = logger
		}
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
