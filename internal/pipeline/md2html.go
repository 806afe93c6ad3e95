package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/alnah/go-mdsite/internal/mdx"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

type siteDirKey struct{}

// WithSiteDir returns a context carrying the site directory ("/travel/") that
// relative links and images of the converted note resolve against.
func WithSiteDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, siteDirKey{}, dir)
}

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// GoldmarkConverter converts Markdown to an HTML fragment using goldmark with
// the element overrides of package mdx.
// A single converter is safe for concurrent use.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter. The options configure the
// element overrides (styles, router, highlighter, note route).
func NewGoldmarkConverter(opts ...mdx.Option) *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			mdx.New(opts...),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // Anchor targets for "#section" links
			parser.WithAttribute(),     // "## Title {.class}" caller classes
		),
		// Raw HTML stays disabled. ==highlight== uses placeholders converted
		// after goldmark.
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	var opts []parser.ParseOption
	if dir, _ := ctx.Value(siteDirKey{}).(string); dir != "" {
		pc := parser.NewContext()
		mdx.SetSiteDir(pc, dir)
		opts = append(opts, parser.WithContext(pc))
	}

	done := make(chan result, 1)

	go func() {
		// A panic here would not reach the caller's recover.
		defer func() {
			if rec := recover(); rec != nil {
				done <- result{err: fmt.Errorf("%w: panic: %v", ErrHTMLConversion, rec)}
			}
		}()

		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf, opts...); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: ConvertMarkPlaceholders(buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// Compile-time interface check.
var _ HTMLConverter = (*GoldmarkConverter)(nil)
