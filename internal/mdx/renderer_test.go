package mdx

import (
	"bytes"
	"errors"
	"html"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Notes:
// - Highlighting goes through a fake highlighter so assertions do not depend
//   on chroma's token classes.
// - Rendered output is parsed with x/net/html; class assertions compare the
//   full merged descriptor.

func fakeHighlighter() Highlighter {
	return HighlighterFunc(func(code, language string) (string, error) {
		return `<span data-lang="` + language + `">` + html.EscapeString(code) + `</span>`, nil
	})
}

func render(t *testing.T, src string, opts ...Option) string {
	t.Helper()

	opts = append([]Option{WithHighlighter(fakeHighlighter())}, opts...)
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, New(opts...)),
		goldmark.WithParserOptions(parser.WithAutoHeadingID(), parser.WithAttribute()),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		t.Fatalf("Convert() unexpected error: %v", err)
	}
	return buf.String()
}

func TestRenderer_Headings(t *testing.T) {
	t.Parallel()

	styles := DefaultStyles()
	doc := parseHTML(t, render(t, "# Title\n\n## Second {.wide}\n\n### Third\n\n#### Fourth\n\n##### Fifth {.x}\n"))

	tests := []struct {
		tag  string
		want string
	}{
		{"h1", styles.Base(Heading1)},
		{"h2", styles.Base(Heading2) + " wide"},
		{"h3", styles.Base(Heading3)},
		{"h4", styles.Base(Heading4)},
		{"h5", "x"},
	}
	for _, tt := range tests {
		nodes := findAll(doc, tt.tag)
		if len(nodes) != 1 {
			t.Fatalf("found %d <%s>, want 1", len(nodes), tt.tag)
		}
		if got := attr(nodes[0], "class"); got != tt.want {
			t.Errorf("<%s> class = %q, want %q", tt.tag, got, tt.want)
		}
	}

	if id := attr(findAll(doc, "h1")[0], "id"); id != "title" {
		t.Errorf("<h1> id = %q, want title", id)
	}
}

func TestRenderer_BlockElements(t *testing.T) {
	t.Parallel()

	styles := DefaultStyles()
	src := "Some text.\n\n1. one\n2. two\n\n- a\n- b\n\n> quoted\n"
	doc := parseHTML(t, render(t, src))

	tests := []struct {
		tag   string
		count int
		kind  ElementKind
	}{
		{"ol", 1, OrderedList},
		{"ul", 1, UnorderedList},
		{"li", 4, ListItem},
		{"blockquote", 1, Blockquote},
	}
	for _, tt := range tests {
		nodes := findAll(doc, tt.tag)
		if len(nodes) != tt.count {
			t.Fatalf("found %d <%s>, want %d", len(nodes), tt.tag, tt.count)
		}
		for _, n := range nodes {
			if got := attr(n, "class"); got != styles.Base(tt.kind) {
				t.Errorf("<%s> class = %q, want %q", tt.tag, got, styles.Base(tt.kind))
			}
		}
	}

	// Paragraphs outside and inside the blockquote.
	for _, p := range findAll(doc, "p") {
		if got := attr(p, "class"); got != styles.Base(Paragraph) {
			t.Errorf("<p> class = %q, want %q", got, styles.Base(Paragraph))
		}
	}
}

func TestRenderer_OrderedListStart(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, render(t, "3. three\n4. four\n"))
	ol := findAll(doc, "ol")
	if len(ol) != 1 || attr(ol[0], "start") != "3" {
		t.Errorf("expected <ol start=\"3\">")
	}
}

func TestRenderer_Emphasis(t *testing.T) {
	t.Parallel()

	styles := DefaultStyles()
	doc := parseHTML(t, render(t, "*soft* and **loud**\n"))

	em := findAll(doc, "em")
	strong := findAll(doc, "strong")
	if len(em) != 1 || len(strong) != 1 {
		t.Fatalf("found %d <em> and %d <strong>, want 1 each", len(em), len(strong))
	}
	if got := attr(em[0], "class"); got != styles.Base(Emphasis) {
		t.Errorf("<em> class = %q", got)
	}
	if got := attr(strong[0], "class"); got != styles.Base(Strong) {
		t.Errorf("<strong> class = %q", got)
	}
}

func TestRenderer_Links(t *testing.T) {
	t.Parallel()

	src := "[home](/about) [top](#intro) [ext](https://example.com \"Ex\") <https://auto.example> [bad](javascript:alert(1))\n"
	doc := parseHTML(t, render(t, src))
	links := findAll(doc, "a")
	if len(links) != 5 {
		t.Fatalf("found %d links, want 5", len(links))
	}

	base := DefaultStyles().Base(Hyperlink)
	for _, a := range links {
		if got := attr(a, "class"); got != base {
			t.Errorf("link %q class = %q, want %q", textOf(a), got, base)
		}
	}

	tests := []struct {
		idx        int
		href       string
		external   bool
		routerLink bool
	}{
		{0, "/about", false, true},
		{1, "#intro", false, false},
		{2, "https://example.com", true, false},
		{3, "https://auto.example", true, false},
		{4, "", true, false},
	}
	for _, tt := range tests {
		a := links[tt.idx]
		if got := attr(a, "href"); got != tt.href {
			t.Errorf("link %d href = %q, want %q", tt.idx, got, tt.href)
		}
		if got := attr(a, "target") == "_blank" && attr(a, "rel") == "noopener noreferrer"; got != tt.external {
			t.Errorf("link %d external attrs = %v, want %v", tt.idx, got, tt.external)
		}
		if got := hasAttr(a, RouterLinkAttr); got != tt.routerLink {
			t.Errorf("link %d %s = %v, want %v", tt.idx, RouterLinkAttr, got, tt.routerLink)
		}
	}

	if got := attr(links[2], "title"); got != "Ex" {
		t.Errorf("title = %q, want Ex", got)
	}
	if got := textOf(links[0]); got != "home" {
		t.Errorf("link content = %q, want home", got)
	}
}

func TestRenderer_EmailAutoLink(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, render(t, "<me@example.com>\n"))
	links := findAll(doc, "a")
	if len(links) != 1 {
		t.Fatalf("found %d links, want 1", len(links))
	}
	if got := attr(links[0], "href"); got != "mailto:me@example.com" {
		t.Errorf("href = %q, want mailto:me@example.com", got)
	}
	if got := textOf(links[0]); got != "me@example.com" {
		t.Errorf("content = %q", got)
	}
}

func TestRenderer_NoteLinks(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, render(t, "[next](./second-note.md#part) [img](photo.png)\n", WithNoteRoute("/n")))
	links := findAll(doc, "a")
	if len(links) != 2 {
		t.Fatalf("found %d links, want 2", len(links))
	}
	if got := attr(links[0], "href"); got != "/n/second-note#part" {
		t.Errorf("note link href = %q, want /n/second-note#part", got)
	}
	if !hasAttr(links[0], RouterLinkAttr) {
		t.Errorf("note link should use the router")
	}
	if got := attr(links[1], "href"); got != "photo.png" {
		t.Errorf("non-note link href = %q, want photo.png", got)
	}
}

func TestRenderer_RouterBasePath(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, render(t, "[home](/)\n", WithRouter(ClientRouter{BasePath: "/site"})))
	if got := attr(findAll(doc, "a")[0], "href"); got != "/site/" {
		t.Errorf("href = %q, want /site/", got)
	}
}

func TestRenderer_InlineCode(t *testing.T) {
	t.Parallel()

	out := render(t, "Use `x < y` here.\n")
	want := `<code class="` + DefaultStyles().Base(InlineCode) + `"><span data-lang="">x &lt; y</span></code>`
	if !strings.Contains(out, want) {
		t.Errorf("output missing %s\ngot: %s", want, out)
	}
}

func TestRenderer_CodeBlocks(t *testing.T) {
	t.Parallel()

	t.Run("fenced with language", func(t *testing.T) {
		t.Parallel()

		out := render(t, "```go\nx := 1\n```\n")
		want := `<pre><code class="language-go"><span data-lang="go">x := 1` + "\n" + `</span></code></pre>`
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s\ngot: %s", want, out)
		}
	})

	t.Run("indented", func(t *testing.T) {
		t.Parallel()

		out := render(t, "    a <b>\n")
		want := `<pre><code><span data-lang="">a &lt;b&gt;` + "\n" + `</span></code></pre>`
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s\ngot: %s", want, out)
		}
	})
}

func TestRenderer_HighlighterFailureFallsBack(t *testing.T) {
	t.Parallel()

	failing := HighlighterFunc(func(string, string) (string, error) {
		return "", errors.New("boom")
	})

	out := render(t, "`a <b>`\n\n```go\n<x>\n```\n", WithHighlighter(failing))
	if !strings.Contains(out, `">a &lt;b&gt;</code>`) {
		t.Errorf("inline fallback not escaped: %s", out)
	}
	if !strings.Contains(out, `<pre><code class="language-go">&lt;x&gt;`+"\n</code></pre>") {
		t.Errorf("block fallback not escaped: %s", out)
	}
}

func TestRenderer_TableBlock(t *testing.T) {
	t.Parallel()

	src := "```table\nheaders: [Name, Role]\nrows:\n  - [Ada, Engineer]\n  - [Linus]\n```\n"
	doc := parseHTML(t, render(t, src))

	tables := findAll(doc, "table")
	if len(tables) != 1 {
		t.Fatalf("found %d tables, want 1", len(tables))
	}
	if got := attr(tables[0], "class"); got != DefaultStyles().Base(Table) {
		t.Errorf("table class = %q", got)
	}
	if got := texts(findAll(doc, "th")); strings.Join(got, ",") != "Name,Role" {
		t.Errorf("headers = %v", got)
	}
	if got := len(findAll(doc, "td")); got != 3 {
		t.Errorf("found %d cells, want 3", got)
	}
	if len(findAll(doc, "pre")) != 0 {
		t.Errorf("table block should not render as code")
	}
}

func TestRenderer_InvalidTableBlockRendersAsCode(t *testing.T) {
	t.Parallel()

	out := render(t, "```table\nheaders: []\nrows: []\n```\n")
	if strings.Contains(out, "<table") {
		t.Errorf("invalid table block rendered as table: %s", out)
	}
	if !strings.Contains(out, `<pre><code class="language-table">`) {
		t.Errorf("invalid table block should fall back to code: %s", out)
	}
}

func TestRenderer_PipeTable(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, render(t, "| a | b |\n|:--|--:|\n| 1 | 2 |\n| 3 | 4 |\n"))

	tables := findAll(doc, "table")
	if len(tables) != 1 {
		t.Fatalf("found %d tables, want 1", len(tables))
	}
	if got := attr(tables[0], "class"); got != DefaultStyles().Base(Table) {
		t.Errorf("table class = %q", got)
	}
	th := findAll(doc, "th")
	if len(th) != 2 || len(findAll(doc, "td")) != 4 {
		t.Errorf("found %d th and %d td, want 2 and 4", len(th), len(findAll(doc, "td")))
	}
	if got := attr(th[1], "style"); got != "text-align:right" {
		t.Errorf("th style = %q, want text-align:right", got)
	}
	if len(findAll(doc, "tbody")) != 1 {
		t.Errorf("expected one <tbody>")
	}
}

func TestRenderer_Image(t *testing.T) {
	t.Parallel()

	doc := parseHTML(t, render(t, "![A *nice* view](/img/view.png \"Sunset\")\n"))
	imgs := findAll(doc, "img")
	if len(imgs) != 1 {
		t.Fatalf("found %d images, want 1", len(imgs))
	}

	img := imgs[0]
	checks := map[string]string{
		"src":   "/img/view.png",
		"alt":   "A nice view",
		"title": "Sunset",
		"class": DefaultStyles().Base(Image),
	}
	for key, want := range checks {
		if got := attr(img, key); got != want {
			t.Errorf("img %s = %q, want %q", key, got, want)
		}
	}
}

func TestRenderer_CustomStyles(t *testing.T) {
	t.Parallel()

	styles := NewStyleTable(map[ElementKind]string{Paragraph: "lead"})
	doc := parseHTML(t, render(t, "Hello\n", WithStyles(styles)))

	p := findAll(doc, "p")
	if len(p) != 1 {
		t.Fatalf("found %d paragraphs, want 1", len(p))
	}
	if got, want := attr(p[0], "class"), DefaultStyles().Base(Paragraph)+" lead"; got != want {
		t.Errorf("<p> class = %q, want %q", got, want)
	}
}
