package mdx

import (
	"bytes"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// priority places the overrides above goldmark's HTML renderer (1000) and the
// GFM table renderer (500). Lower values win.
const priority = 100

// Config holds the injected capabilities of the element renderer.
type Config struct {
	Styles      StyleTable
	Router      Router
	Highlighter Highlighter
	NoteRoute   string // route prefix for relative .md links; empty disables rewriting
	BasePath    string // prefix for resolved image sources; links get theirs from Router
}

// Option configures an Extension.
type Option func(*Config)

// WithStyles sets the style table.
func WithStyles(t StyleTable) Option {
	return func(c *Config) {
		c.Styles = t
	}
}

// WithRouter sets the client-side navigation capability for internal links.
func WithRouter(r Router) Option {
	return func(c *Config) {
		c.Router = r
	}
}

// WithHighlighter sets the syntax highlighter for inline and block code.
func WithHighlighter(h Highlighter) Option {
	return func(c *Config) {
		c.Highlighter = h
	}
}

// WithNoteRoute enables rewriting of relative Markdown links to route+"/"+slug.
func WithNoteRoute(route string) Option {
	return func(c *Config) {
		c.NoteRoute = route
	}
}

// WithBasePath sets the site base path prepended to resolved image sources.
func WithBasePath(base string) Option {
	return func(c *Config) {
		c.BasePath = base
	}
}

// Extension is a goldmark.Extender installing the element overrides.
type Extension struct {
	cfg Config
}

// New creates an Extension with the default style table, a ClientRouter and
// a ChromaHighlighter unless overridden.
func New(opts ...Option) *Extension {
	cfg := Config{
		Styles:      DefaultStyles(),
		Router:      ClientRouter{},
		Highlighter: NewChromaHighlighter(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Extension{cfg: cfg}
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithASTTransformers(
			util.Prioritized(&pathTransformer{
				route:     e.cfg.NoteRoute,
				imageBase: strings.TrimRight(e.cfg.BasePath, "/"),
			}, priority),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&nodeRenderer{cfg: e.cfg}, priority),
		),
	)
}

// nodeRenderer dispatches goldmark nodes to the element rules.
type nodeRenderer struct {
	cfg Config
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
	reg.Register(ast.KindParagraph, r.renderParagraph)
	reg.Register(ast.KindList, r.renderList)
	reg.Register(ast.KindListItem, r.renderListItem)
	reg.Register(ast.KindEmphasis, r.renderEmphasis)
	reg.Register(ast.KindCodeSpan, r.renderCodeSpan)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindFencedCodeBlock, r.renderCodeBlock)
	reg.Register(ast.KindImage, r.renderImage)
	reg.Register(ast.KindBlockquote, r.renderBlockquote)
	reg.Register(ast.KindLink, r.renderLink)
	reg.Register(ast.KindAutoLink, r.renderAutoLink)
	reg.Register(extast.KindTable, r.renderTable)
	reg.Register(extast.KindTableHeader, r.renderTableHeader)
	reg.Register(extast.KindTableRow, r.renderTableRow)
	reg.Register(extast.KindTableCell, r.renderTableCell)
}

func (r *nodeRenderer) renderHeading(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	if !entering {
		_, _ = fmt.Fprintf(w, "</h%d>\n", n.Level)
		return ast.WalkContinue, nil
	}

	class := classAttr(n)
	if kind, ok := HeadingKind(n.Level); ok {
		class = r.cfg.Styles.Class(kind, class)
	}
	_, _ = fmt.Fprintf(w, "<h%d", n.Level)
	writeNodeAttrs(w, n)
	writeClass(w, class)
	_ = w.WriteByte('>')
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderParagraph(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<p")
		writeClass(w, r.cfg.Styles.Class(Paragraph, classAttr(node)))
		_ = w.WriteByte('>')
	} else {
		_, _ = w.WriteString("</p>\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderList(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.List)
	tag, kind := "ul", UnorderedList
	if n.IsOrdered() {
		tag, kind = "ol", OrderedList
	}
	if !entering {
		_, _ = w.WriteString("</" + tag + ">\n")
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString("<" + tag)
	if n.IsOrdered() && n.Start != 1 {
		_, _ = w.WriteString(` start="` + strconv.Itoa(n.Start) + `"`)
	}
	writeClass(w, r.cfg.Styles.Class(kind, classAttr(n)))
	_, _ = w.WriteString(">\n")
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderListItem(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</li>\n")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("<li")
	writeClass(w, r.cfg.Styles.Class(ListItem, classAttr(node)))
	_ = w.WriteByte('>')
	if fc := node.FirstChild(); fc != nil {
		if _, ok := fc.(*ast.TextBlock); !ok {
			_ = w.WriteByte('\n')
		}
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderEmphasis(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Emphasis)
	tag, kind := "em", Emphasis
	if n.Level == 2 {
		tag, kind = "strong", Strong
	}
	if entering {
		_, _ = w.WriteString("<" + tag)
		writeClass(w, r.cfg.Styles.Class(kind, classAttr(n)))
		_ = w.WriteByte('>')
	} else {
		_, _ = w.WriteString("</" + tag + ">")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderCodeSpan(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	code := codeSpanText(node, source)
	_, _ = w.WriteString("<code")
	writeClass(w, r.cfg.Styles.Class(InlineCode, classAttr(node)))
	_ = w.WriteByte('>')
	_, _ = w.WriteString(r.highlight(code, ""))
	_, _ = w.WriteString("</code>")
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	var language string
	if fenced, ok := node.(*ast.FencedCodeBlock); ok {
		language = string(fenced.Language(source))
	}
	code := blockLines(node, source)

	if language == TableBlockLanguage {
		if data, err := ParseTableBlock(code); err == nil {
			_ = RenderTable(w, *data, r.cfg.Styles.Class(Table, ""))
			return ast.WalkSkipChildren, nil
		}
	}

	_, _ = w.WriteString("<pre><code")
	if language != "" {
		_, _ = w.WriteString(` class="language-` + html.EscapeString(language) + `"`)
	}
	_ = w.WriteByte('>')
	_, _ = w.WriteString(r.highlight(string(code), language))
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkSkipChildren, nil
}

// highlight delegates to the highlighter and trusts its output. On failure
// the raw code is escaped instead so the page still renders.
func (r *nodeRenderer) highlight(code, language string) string {
	if r.cfg.Highlighter == nil {
		return html.EscapeString(code)
	}
	out, err := r.cfg.Highlighter.Highlight(code, language)
	if err != nil {
		return html.EscapeString(code)
	}
	return out
}

func (r *nodeRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)

	_, _ = w.WriteString(`<img src="`)
	if !gmhtml.IsDangerousURL(n.Destination) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.Destination, true)))
	}
	_, _ = w.WriteString(`" alt="`)
	_, _ = w.Write(util.EscapeHTML(plainText(n, source)))
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		_, _ = w.Write(util.EscapeHTML(n.Title))
		_ = w.WriteByte('"')
	}
	writeClass(w, r.cfg.Styles.Class(Image, classAttr(n)))
	_, _ = w.WriteString(">")
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderBlockquote(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<blockquote")
		writeClass(w, r.cfg.Styles.Class(Blockquote, classAttr(node)))
		_, _ = w.WriteString(">\n")
	} else {
		_, _ = w.WriteString("</blockquote>\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderLink(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</a>")
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Link)

	href := string(n.Destination)
	if gmhtml.IsDangerousURL(n.Destination) {
		href = ""
	}
	anchor := BuildAnchor(Link{
		Href:  href,
		Title: string(n.Title),
		Class: classAttr(n),
	}, r.cfg.Styles, r.cfg.Router)
	_, _ = w.WriteString(anchor.OpenTag())
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderAutoLink(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.AutoLink)

	url := n.URL(source)
	label := n.Label(source)
	if n.AutoLinkType == ast.AutoLinkEmail && !bytes.HasPrefix(bytes.ToLower(url), []byte("mailto:")) {
		url = append([]byte("mailto:"), url...)
	}
	href := string(url)
	if gmhtml.IsDangerousURL(url) {
		href = ""
	}

	err := RenderLink(w, Link{Href: href, Content: string(label)}, r.cfg.Styles, r.cfg.Router)
	return ast.WalkSkipChildren, err
}

func (r *nodeRenderer) renderTable(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<table")
		writeClass(w, r.cfg.Styles.Class(Table, classAttr(node)))
		_, _ = w.WriteString(">\n")
	} else {
		_, _ = w.WriteString("</table>\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderTableHeader(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<thead>\n<tr>\n")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("</tr>\n</thead>\n")
	if node.NextSibling() != nil {
		_, _ = w.WriteString("<tbody>\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderTableRow(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString("<tr>\n")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("</tr>\n")
	if node.Parent().LastChild() == node {
		_, _ = w.WriteString("</tbody>\n")
	}
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderTableCell(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*extast.TableCell)
	tag := "td"
	if _, ok := n.Parent().(*extast.TableHeader); ok {
		tag = "th"
	}
	if !entering {
		_, _ = w.WriteString("</" + tag + ">\n")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("<" + tag)
	if n.Alignment != extast.AlignNone {
		_, _ = w.WriteString(` style="text-align:` + n.Alignment.String() + `"`)
	}
	_ = w.WriteByte('>')
	return ast.WalkContinue, nil
}

// classAttr returns the caller-supplied class of a node (attribute syntax
// such as "## Title {.wide}"), or "".
func classAttr(n ast.Node) string {
	v, ok := n.AttributeString("class")
	if !ok {
		return ""
	}
	return attrValue(v)
}

// writeNodeAttrs writes every node attribute except class, which callers
// merge with the base descriptor.
func writeNodeAttrs(w util.BufWriter, n ast.Node) {
	for _, attr := range n.Attributes() {
		if string(attr.Name) == "class" {
			continue
		}
		_ = w.WriteByte(' ')
		_, _ = w.Write(attr.Name)
		_, _ = w.WriteString(`="`)
		_, _ = w.WriteString(html.EscapeString(attrValue(attr.Value)))
		_ = w.WriteByte('"')
	}
}

func writeClass(w util.BufWriter, class string) {
	if class == "" {
		return
	}
	_, _ = w.WriteString(` class="`)
	_, _ = w.WriteString(html.EscapeString(class))
	_ = w.WriteByte('"')
}

func attrValue(v any) string {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// codeSpanText collects the raw text of a code span. Line endings inside the
// span become spaces, as CommonMark requires.
func codeSpanText(n ast.Node, source []byte) string {
	var b bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			value := t.Segment.Value(source)
			if bytes.HasSuffix(value, []byte("\n")) {
				b.Write(value[:len(value)-1])
				b.WriteByte(' ')
				continue
			}
			b.Write(value)
		case *ast.String:
			b.Write(t.Value)
		}
	}
	return b.String()
}

func blockLines(n ast.Node, source []byte) []byte {
	var b bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(source))
	}
	return b.Bytes()
}

// plainText concatenates the text descendants of n (image alt text).
func plainText(n ast.Node, source []byte) []byte {
	var b bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.Bytes()
}

// Compile-time interface checks.
var (
	_ goldmark.Extender     = (*Extension)(nil)
	_ renderer.NodeRenderer = (*nodeRenderer)(nil)
	_ parser.ASTTransformer = (*pathTransformer)(nil)
)
