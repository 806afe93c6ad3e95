package mdx

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter turns code text into highlighted markup. The returned markup is
// written into the page verbatim, so implementations must escape code text.
// language may be empty when the source gives no hint (inline code).
type Highlighter interface {
	Highlight(code, language string) (string, error)
}

// HighlighterFunc adapts a plain function to the Highlighter interface.
type HighlighterFunc func(code, language string) (string, error)

// Highlight implements Highlighter.
func (f HighlighterFunc) Highlight(code, language string) (string, error) {
	return f(code, language)
}

// DefaultChromaStyle is the chroma style used for generated stylesheets.
const DefaultChromaStyle = "github"

// ChromaHighlighter highlights code with chroma, emitting class-based spans
// without a surrounding <pre> so the output fits both inline and block code.
type ChromaHighlighter struct {
	formatter        *chromahtml.Formatter
	fallbackLanguage string
	analyse          bool
}

// ChromaOption configures a ChromaHighlighter.
type ChromaOption func(*ChromaHighlighter)

// WithFallbackLanguage sets the lexer used when no language is given.
func WithFallbackLanguage(language string) ChromaOption {
	return func(h *ChromaHighlighter) {
		h.fallbackLanguage = language
	}
}

// WithAnalysis lets chroma guess the language from the code text when no
// language is given and no fallback matches.
func WithAnalysis(enabled bool) ChromaOption {
	return func(h *ChromaHighlighter) {
		h.analyse = enabled
	}
}

// NewChromaHighlighter creates a ChromaHighlighter.
func NewChromaHighlighter(opts ...ChromaOption) *ChromaHighlighter {
	h := &ChromaHighlighter{
		formatter: chromahtml.New(
			chromahtml.WithClasses(true),
			chromahtml.PreventSurroundingPre(true),
		),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Highlight implements Highlighter.
func (h *ChromaHighlighter) Highlight(code, language string) (string, error) {
	lexer := h.lexerFor(code, language)
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}

	var b strings.Builder
	b.Grow(len(code) * 2)
	if err := h.formatter.Format(&b, styles.Get(DefaultChromaStyle), iterator); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlight, err)
	}
	return b.String(), nil
}

// KnownLanguage reports whether chroma has a lexer for name or alias.
func KnownLanguage(name string) bool {
	return lexers.Get(name) != nil
}

// lexerFor picks a lexer: explicit language, then fallback language, then
// content analysis (if enabled), then plain text.
func (h *ChromaHighlighter) lexerFor(code, language string) chroma.Lexer {
	if language != "" {
		if l := lexers.Get(language); l != nil {
			return l
		}
	}
	if h.fallbackLanguage != "" {
		if l := lexers.Get(h.fallbackLanguage); l != nil {
			return l
		}
	}
	if h.analyse {
		if l := lexers.Analyse(code); l != nil {
			return l
		}
	}
	return lexers.Fallback
}

// ChromaCSS returns the stylesheet matching ChromaHighlighter's class names.
// Unknown style names fall back to chroma's default style.
func ChromaCSS(styleName string) (string, error) {
	if styleName == "" {
		styleName = DefaultChromaStyle
	}
	formatter := chromahtml.New(chromahtml.WithClasses(true))

	var b strings.Builder
	if err := formatter.WriteCSS(&b, styles.Get(styleName)); err != nil {
		return "", fmt.Errorf("writing chroma CSS: %w", err)
	}
	return b.String(), nil
}

// ChromaStyles returns the names of the registered chroma styles, sorted.
func ChromaStyles() []string {
	return styles.Names()
}

// Compile-time interface checks.
var (
	_ Highlighter = (*ChromaHighlighter)(nil)
	_ Highlighter = HighlighterFunc(nil)
)
