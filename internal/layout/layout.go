// Package layout renders the site chrome around note bodies: the root
// document, the notes section and the note index.
package layout

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/alnah/go-mdsite/internal/assets"
	"github.com/alnah/go-mdsite/internal/dateutil"
	"github.com/alnah/go-mdsite/internal/mdx"
)

// Sentinel errors for layout operations.
var (
	ErrTemplateParse   = errors.New("failed to parse layout template")
	ErrTemplateExecute = errors.New("failed to execute layout template")
)

// Classes of the links the layouts render themselves.
const (
	FooterLinkClass = "text-gray-400 dark:text-gray-500 hover:text-blue-500 transition-colors duration-200"
	BackLinkClass   = "text-zinc-600 hover:text-amber-700 transition-colors duration-200"
)

// rootTemplate is the name every page is executed under.
const rootTemplate = "root"

// Site is the chrome shared by every page.
type Site struct {
	Title         string // Default page title
	TitleTemplate string // Applied to page titles; one %s verb
	Description   string
	BaseURL       string // Absolute URL; canonical links are omitted when empty
	Lang          string
	Brand         string
	BackLabel     string
	Footer        []Link
	AnalyticsSrc  string // Script URL; empty disables analytics
}

// Link is a labelled site link.
type Link struct {
	Label string
	URL   string
}

// NotePage is a single rendered note.
type NotePage struct {
	Title       string
	Path        string // Site path of the page, e.g. "/n/hello"
	Description string // Falls back to the site description
	Date        time.Time
	Body        string // Trusted HTML fragment
}

// IndexEntry is one note in the index listing.
type IndexEntry struct {
	Title string
	Route string
	Date  time.Time
}

// IndexPage is the note listing.
type IndexPage struct {
	Path    string
	Heading string // Falls back to the site title
	Entries []IndexEntry
}

// Layout executes a template set. Safe for concurrent use.
type Layout struct {
	notes      *template.Template
	index      *template.Template
	site       Site
	footer     []template.HTML
	styles     mdx.StyleTable
	router     mdx.Router
	now        func() time.Time
	dateFormat string
}

// Option configures a Layout.
type Option func(*Layout)

// WithClock sets the clock used for the year label.
func WithClock(now func() time.Time) Option {
	return func(l *Layout) {
		if now != nil {
			l.now = now
		}
	}
}

// WithRouter sets the router for internal links in the chrome.
func WithRouter(r mdx.Router) Option {
	return func(l *Layout) {
		l.router = r
	}
}

// WithStyles sets the style table for index links.
func WithStyles(t mdx.StyleTable) Option {
	return func(l *Layout) {
		l.styles = t
	}
}

// WithDateFormat sets the display format of note dates (tokens or preset).
func WithDateFormat(format string) Option {
	return func(l *Layout) {
		l.dateFormat = format
	}
}

// New parses set and prepares the shared chrome of site.
func New(set *assets.TemplateSet, site Site, opts ...Option) (*Layout, error) {
	if set == nil {
		return nil, fmt.Errorf("%w: nil template set", ErrTemplateParse)
	}

	l := &Layout{
		site:       site,
		styles:     mdx.DefaultStyles(),
		router:     mdx.ClientRouter{},
		now:        time.Now,
		dateFormat: dateutil.DefaultDateFormat,
	}
	for _, opt := range opts {
		opt(l)
	}

	if _, err := dateutil.FormatDate(time.Time{}, l.dateFormat); err != nil {
		return nil, err
	}

	root, err := template.New(rootTemplate).Parse(set.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/root.html: %v", ErrTemplateParse, set.Name, err)
	}
	if l.notes, err = extend(root, set.Notes); err != nil {
		return nil, fmt.Errorf("%w: %s/notes.html: %v", ErrTemplateParse, set.Name, err)
	}
	if l.index, err = extend(root, set.Index); err != nil {
		return nil, fmt.Errorf("%w: %s/index.html: %v", ErrTemplateParse, set.Name, err)
	}

	for _, link := range site.Footer {
		l.footer = append(l.footer, l.anchor(mdx.Link{
			Href:    link.URL,
			Class:   FooterLinkClass,
			Content: link.Label,
		}, mdx.StyleTable{}))
	}

	return l, nil
}

func extend(root *template.Template, text string) (*template.Template, error) {
	clone, err := root.Clone()
	if err != nil {
		return nil, err
	}
	return clone.Parse(text)
}

// pageData is the value every template executes against.
type pageData struct {
	Lang         string
	Title        string
	Description  string
	Canonical    string
	Footer       []template.HTML
	AnalyticsSrc string

	BackLink template.HTML
	Brand    string
	Year     int
	Date     string
	DateISO  string
	Body     template.HTML

	Heading string
	Entries []entryData
}

type entryData struct {
	Link    template.HTML
	Date    string
	DateISO string
}

// RenderNote writes the full document of a note page.
func (l *Layout) RenderNote(w io.Writer, page NotePage) error {
	data := l.base(page.Title, page.Path, page.Description)
	data.BackLink = l.anchor(mdx.Link{
		Href:    "/",
		Class:   BackLinkClass,
		Content: "← " + l.site.BackLabel,
	}, mdx.StyleTable{})
	data.Brand = l.site.Brand
	data.Year = l.now().Year()
	data.Date, data.DateISO = l.formatDate(page.Date)
	data.Body = template.HTML(page.Body) // #nosec G203 -- produced by the Markdown pipeline with raw HTML disabled

	return l.execute(l.notes, w, data)
}

// RenderIndex writes the note listing document.
func (l *Layout) RenderIndex(w io.Writer, page IndexPage) error {
	data := l.base("", page.Path, "")
	data.Heading = page.Heading
	if data.Heading == "" {
		data.Heading = l.site.Title
	}
	for _, e := range page.Entries {
		date, iso := l.formatDate(e.Date)
		data.Entries = append(data.Entries, entryData{
			Link:    l.anchor(mdx.Link{Href: e.Route, Content: e.Title}, l.styles),
			Date:    date,
			DateISO: iso,
		})
	}

	return l.execute(l.index, w, data)
}

// PageTitle applies the title template to title. An empty title yields the
// site title.
func (l *Layout) PageTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return l.site.Title
	}
	if l.site.TitleTemplate == "" {
		return title
	}
	return strings.Replace(l.site.TitleTemplate, "%s", title, 1)
}

// Canonical returns the absolute URL of a site path, or "" without a base URL.
func (l *Layout) Canonical(path string) string {
	base := strings.TrimRight(l.site.BaseURL, "/")
	if base == "" {
		return ""
	}
	if path == "" {
		path = "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func (l *Layout) base(title, path, description string) pageData {
	if description == "" {
		description = l.site.Description
	}
	return pageData{
		Lang:         l.site.Lang,
		Title:        l.PageTitle(title),
		Description:  description,
		Canonical:    l.Canonical(path),
		Footer:       l.footer,
		AnalyticsSrc: l.site.AnalyticsSrc,
	}
}

func (l *Layout) anchor(link mdx.Link, styles mdx.StyleTable) template.HTML {
	var b strings.Builder
	_ = mdx.RenderLink(&b, link, styles, l.router)
	return template.HTML(b.String()) // #nosec G203 -- RenderLink escapes every attribute and the content
}

func (l *Layout) formatDate(t time.Time) (display, iso string) {
	if t.IsZero() {
		return "", ""
	}
	display, err := dateutil.FormatDate(t, l.dateFormat)
	if err != nil {
		return "", ""
	}
	return display, t.Format("2006-01-02")
}

func (l *Layout) execute(t *template.Template, w io.Writer, data pageData) error {
	if err := t.ExecuteTemplate(w, rootTemplate, data); err != nil {
		return fmt.Errorf("%w: %v", ErrTemplateExecute, err)
	}
	return nil
}
