package mdsite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alnah/go-mdsite/internal/assets"
	"github.com/alnah/go-mdsite/internal/dateutil"
	"github.com/alnah/go-mdsite/internal/fileutil"
	"github.com/alnah/go-mdsite/internal/layout"
	"github.com/alnah/go-mdsite/internal/mdx"
	"github.com/alnah/go-mdsite/internal/notes"
	"github.com/alnah/go-mdsite/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.NotePreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pipeline.ScriptInjector       = (*pipeline.ScriptInjection)(nil)
)

// Renderer turns note sources into site pages.
// Create with NewRenderer. A Renderer is safe for concurrent use.
type Renderer struct {
	cfg            rendererConfig
	loader         AssetLoader
	internalLoader assets.AssetLoader
	preprocessor   pipeline.MarkdownPreprocessor
	htmlConverter  pipeline.HTMLConverter
	cssInjector    pipeline.CSSInjector
	scriptInjector pipeline.ScriptInjector
	layout         *layout.Layout
	stylesheet     string
	progressScript string
	routerScript   string
}

// publicToInternalAdapter wraps public AssetLoader to internal assets.AssetLoader.
type publicToInternalAdapter struct {
	pub AssetLoader
}

func (a *publicToInternalAdapter) LoadStyle(name string) (string, error) {
	return a.pub.LoadStyle(name)
}

func (a *publicToInternalAdapter) LoadScript(name string) (string, error) {
	return a.pub.LoadScript(name)
}

func (a *publicToInternalAdapter) LoadTemplateSet(name string) (*assets.TemplateSet, error) {
	ts, err := a.pub.LoadTemplateSet(name)
	if err != nil {
		return nil, err
	}
	return toInternalTemplateSet(ts), nil
}

// NewRenderer creates a Renderer with default configuration.
// Use options to customize behavior (e.g., WithSite, WithStyle, WithAssetPath).
// Returns error if option validation, asset loading or template parsing fails.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg: rendererConfig{
			timeout:    defaultTimeout,
			site:       DefaultSite(),
			noteRoute:  DefaultNoteRoute,
			dateFormat: dateutil.DefaultDateFormat,
			codeGuess:  true,
			now:        time.Now,
			logger:     nopLogger{},
		},
		internalLoader: assets.NewEmbeddedLoader(),
		preprocessor:   &pipeline.NotePreprocessor{},
		cssInjector:    &pipeline.CSSInjection{},
		scriptInjector: &pipeline.ScriptInjection{},
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validateConfig(); err != nil {
		return nil, err
	}

	// Handle WithAssetPath: resolve to internal loader
	if r.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(r.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		r.internalLoader = resolver
	}

	// Handle WithAssetLoader (public interface): wrap to internal interface
	if r.loader != nil {
		r.internalLoader = &publicToInternalAdapter{pub: r.loader}
	}

	styles, err := r.styleTable()
	if err != nil {
		return nil, err
	}
	router := mdx.ClientRouter{BasePath: r.cfg.basePath}

	if r.htmlConverter == nil {
		mdxOpts := []mdx.Option{
			mdx.WithStyles(styles),
			mdx.WithRouter(router),
			mdx.WithNoteRoute(r.cfg.noteRoute),
			mdx.WithBasePath(r.cfg.basePath),
		}
		if r.cfg.highlighter != nil {
			mdxOpts = append(mdxOpts, mdx.WithHighlighter(mdx.HighlighterFunc(r.cfg.highlighter)))
		} else {
			mdxOpts = append(mdxOpts, mdx.WithHighlighter(mdx.NewChromaHighlighter(
				mdx.WithFallbackLanguage(r.cfg.codeFallback),
				mdx.WithAnalysis(r.cfg.codeGuess),
			)))
		}
		r.htmlConverter = pipeline.NewGoldmarkConverter(mdxOpts...)
	}

	if err := r.resolveStyle(); err != nil {
		return nil, err
	}
	codeCSS, err := mdx.ChromaCSS(r.cfg.codeStyle)
	if err != nil {
		return nil, err
	}
	r.stylesheet = joinCSS(r.cfg.resolvedStyle, codeCSS)

	if r.progressScript, err = r.loadScript(assets.ProgressScript); err != nil {
		return nil, err
	}
	if r.routerScript, err = r.loadScript(assets.RouterScript); err != nil {
		return nil, err
	}

	// Load template set if not already configured via WithTemplateSet
	set := toInternalTemplateSet(r.cfg.templateSet)
	if set == nil {
		set, err = r.internalLoader.LoadTemplateSet(assets.DefaultTemplateSetName)
		if err != nil {
			return nil, fmt.Errorf("loading default template set: %w", convertAssetError(err))
		}
	}

	r.layout, err = layout.New(set, toLayoutSite(r.cfg.site),
		layout.WithClock(r.cfg.now),
		layout.WithRouter(router),
		layout.WithStyles(styles),
		layout.WithDateFormat(r.cfg.dateFormat),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLayoutRender, err)
	}

	return r, nil
}

// Render runs the full pipeline on a single note and returns the page.
// The context is used for cancellation and timeout.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (r *Renderer) Render(ctx context.Context, input Input) (page *Page, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.timeout)
	defer cancel()

	note, err := notes.Parse(input.SourcePath, []byte(input.Markdown))
	if err != nil {
		return nil, convertNoteError(err)
	}

	// Preprocess markdown
	mdContent := r.preprocessor.PreprocessMarkdown(ctx, string(note.Body))
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Pages are published under the note route, so relative links and images
	// resolve against the site directory of the source file.
	body, err := r.htmlConverter.ToHTML(pipeline.WithSiteDir(ctx, note.Dir()), mdContent)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	headings := pipeline.ExtractHeadings(body)
	if len(headings) > 0 {
		note.ApplyTitleFallback(headings[0].Text)
	} else {
		note.ApplyTitleFallback("")
	}

	route := note.Route(r.cfg.noteRoute)
	var doc strings.Builder
	err = r.layout.RenderNote(&doc, layout.NotePage{
		Title:       note.Title,
		Path:        route,
		Description: note.Summary,
		Date:        note.Date,
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLayoutRender, err)
	}

	htmlContent, err := r.finish(ctx, doc.String())
	if err != nil {
		return nil, err
	}

	r.cfg.logger.Debug("rendered note",
		"source", note.SourcePath, "route", route, "headings", len(headings), "bytes", len(htmlContent))

	return &Page{
		Slug:     note.Slug,
		Route:    route,
		Title:    note.Title,
		Summary:  note.Summary,
		Date:     note.Date,
		Draft:    note.Draft,
		Tags:     note.Tags,
		Headings: toHeadings(headings),
		Body:     body,
		HTML:     []byte(htmlContent),
	}, nil
}

// RenderIndex renders the note listing. Entries are listed newest first;
// drafts are left out unless WithDrafts is set.
func (r *Renderer) RenderIndex(ctx context.Context, entries []NoteEntry) (html []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	listed := make([]NoteEntry, 0, len(entries))
	for _, e := range entries {
		if e.Draft && !r.cfg.drafts {
			continue
		}
		listed = append(listed, e)
	}
	notes.Sort(listed, func(e NoteEntry) notes.Key {
		return notes.Key{Date: e.Date, Title: e.Title, ID: e.Route}
	})

	page := layout.IndexPage{Path: "/"}
	for _, e := range listed {
		page.Entries = append(page.Entries, layout.IndexEntry{
			Title: e.Title,
			Route: e.Route,
			Date:  e.Date,
		})
	}

	var doc strings.Builder
	if err := r.layout.RenderIndex(&doc, page); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLayoutRender, err)
	}

	htmlContent, err := r.finish(ctx, doc.String())
	if err != nil {
		return nil, err
	}

	r.cfg.logger.Debug("rendered index", "entries", len(page.Entries), "skipped", len(entries)-len(page.Entries))

	return []byte(htmlContent), nil
}

// finish embeds the stylesheet and both scripts. Every page carries the
// progress script: the router swaps <main> in place, so a page reached by
// client-side navigation has no scripts of its own.
func (r *Renderer) finish(ctx context.Context, doc string) (string, error) {
	htmlContent := r.cssInjector.InjectCSS(ctx, doc, r.stylesheet)
	htmlContent = r.scriptInjector.InjectScript(ctx, htmlContent, r.progressScript)
	htmlContent = r.scriptInjector.InjectScript(ctx, htmlContent, r.routerScript)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return htmlContent, nil
}

// Stylesheet returns the CSS embedded in every page.
func (r *Renderer) Stylesheet() string {
	return r.stylesheet
}

func (r *Renderer) styleTable() (mdx.StyleTable, error) {
	if len(r.cfg.elementClasses) == 0 {
		return mdx.DefaultStyles(), nil
	}
	extra := make(map[mdx.ElementKind]string, len(r.cfg.elementClasses))
	for tag, class := range r.cfg.elementClasses {
		kind, err := mdx.ParseElementKind(tag)
		if err != nil {
			return mdx.StyleTable{}, fmt.Errorf("%w: %q", ErrUnknownElement, tag)
		}
		extra[kind] = class
	}
	return mdx.NewStyleTable(extra), nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS content.
// Called during NewRenderer after options are applied and asset loader is configured.
func (r *Renderer) resolveStyle() error {
	input := r.cfg.styleInput
	if input == "" {
		input = assets.DefaultStyleName
	}

	// File path? (contains / or \)
	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		r.cfg.resolvedStyle = string(content)
		return nil
	}

	// CSS content? (contains {)
	if strings.Contains(input, "{") {
		r.cfg.resolvedStyle = input
		return nil
	}

	// Style name -> use asset loader
	css, err := r.internalLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, convertAssetError(err))
	}
	r.cfg.resolvedStyle = css
	return nil
}

func (r *Renderer) loadScript(name string) (string, error) {
	script, err := r.internalLoader.LoadScript(name)
	if err != nil {
		return "", fmt.Errorf("loading script %q: %w", name, convertAssetError(err))
	}
	return script, nil
}

// validateConfig checks option values that would otherwise fail late.
func (r *Renderer) validateConfig() error {
	if _, err := dateutil.FormatDate(time.Time{}, r.cfg.dateFormat); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDateFormat, err)
	}
	for _, route := range []string{r.cfg.noteRoute, r.cfg.basePath} {
		if route != "" && !strings.HasPrefix(route, "/") {
			return fmt.Errorf("%w: %q must start with /", ErrInvalidRoute, route)
		}
	}
	if r.cfg.codeFallback != "" && !mdx.KnownLanguage(r.cfg.codeFallback) {
		return fmt.Errorf("%w: %q", ErrUnknownLanguage, r.cfg.codeFallback)
	}
	if strings.Trim(r.cfg.noteRoute, "/") == "" {
		return fmt.Errorf("%w: note route cannot be the site root", ErrInvalidRoute)
	}
	if r.cfg.now == nil {
		r.cfg.now = time.Now
	}
	return nil
}

// validateInput checks that required fields are present.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// The CLI derives SourcePath from the content walk, so both paths converge here.
func validateInput(input Input) error {
	if strings.TrimSpace(input.Markdown) == "" {
		return ErrEmptyMarkdown
	}
	if strings.TrimSpace(input.SourcePath) == "" {
		return ErrEmptySourcePath
	}
	return nil
}

func joinCSS(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}

func convertNoteError(err error) error {
	switch {
	case errors.Is(err, notes.ErrFrontMatter):
		return wrapError(ErrFrontMatter, err)
	case errors.Is(err, notes.ErrInvalidSlug):
		return wrapError(ErrInvalidSlug, err)
	default:
		return err
	}
}

func toHeadings(hs []pipeline.Heading) []Heading {
	if len(hs) == 0 {
		return nil
	}
	out := make([]Heading, len(hs))
	for i, h := range hs {
		out[i] = Heading(h)
	}
	return out
}

func toLayoutSite(s Site) layout.Site {
	footer := make([]layout.Link, len(s.Footer))
	for i, l := range s.Footer {
		footer[i] = layout.Link(l)
	}
	return layout.Site{
		Title:         s.Title,
		TitleTemplate: s.TitleTemplate,
		Description:   s.Description,
		BaseURL:       s.BaseURL,
		Lang:          s.Lang,
		Brand:         s.Brand,
		BackLabel:     s.BackLabel,
		Footer:        footer,
		AnalyticsSrc:  s.AnalyticsSrc,
	}
}
