package mdx

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestRenderTable_HeadersAndRowsInOrder(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	data := TableData{
		Headers: []string{"A", "B"},
		Rows:    [][]string{{"1", "2"}, {"3", "4"}},
	}
	if err := RenderTable(&b, data, "tbl"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := parseHTML(t, b.String())
	if got := texts(findAll(doc, "th")); strings.Join(got, ",") != "A,B" {
		t.Errorf("header cells = %v, want [A B]", got)
	}

	tbody := findAll(doc, "tbody")
	if len(tbody) != 1 {
		t.Fatalf("found %d tbody elements, want 1", len(tbody))
	}
	rows := findAll(tbody[0], "tr")
	if len(rows) != 2 {
		t.Fatalf("found %d body rows, want 2", len(rows))
	}
	for i, want := range []string{"1,2", "3,4"} {
		cells := texts(findAll(rows[i], "td"))
		if strings.Join(cells, ",") != want {
			t.Errorf("row %d cells = %v, want %s", i, cells, want)
		}
	}

	if class := attr(findAll(doc, "table")[0], "class"); class != "tbl" {
		t.Errorf("table class = %q, want tbl", class)
	}
}

func TestRenderTable_Permissive(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	data := TableData{
		Headers: []string{"A", "B", "C"},
		Rows:    [][]string{{"1"}, {"2", "3", "4", "5"}},
	}
	if err := RenderTable(&b, data, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := b.String()
	if strings.Contains(out, "class=") {
		t.Errorf("empty class should not emit attribute: %s", out)
	}
	if got := strings.Count(out, "<td>"); got != 5 {
		t.Errorf("rendered %d cells, want 5", got)
	}
}

func TestRenderTable_EscapesCells(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	data := TableData{Headers: []string{"<b>"}, Rows: [][]string{{"a & b"}}}
	if err := RenderTable(&b, data, ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := b.String()
	if !strings.Contains(out, "<th>&lt;b&gt;</th>") || !strings.Contains(out, "<td>a &amp; b</td>") {
		t.Errorf("cells not escaped: %s", out)
	}
}

func TestParseTableBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantHeaders int
		wantRows    int
		wantErr     bool
	}{
		{
			name:        "flow style",
			body:        "headers: [Name, Role]\nrows:\n  - [Ada, Engineer]\n  - [Linus, Maintainer]\n",
			wantHeaders: 2,
			wantRows:    2,
		},
		{
			name:        "headers only",
			body:        "headers: [A]\n",
			wantHeaders: 1,
		},
		{
			name:    "empty body",
			body:    "",
			wantErr: true,
		},
		{
			name:    "no content",
			body:    "headers: []\nrows: []\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := ParseTableBlock([]byte(tt.body))
			if tt.wantErr {
				if !errors.Is(err, ErrTableBlock) {
					t.Errorf("error = %v, want ErrTableBlock", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(data.Headers) != tt.wantHeaders || len(data.Rows) != tt.wantRows {
				t.Errorf("got %d headers, %d rows; want %d, %d",
					len(data.Headers), len(data.Rows), tt.wantHeaders, tt.wantRows)
			}
		})
	}
}

// Helpers for inspecting rendered HTML.

func parseHTML(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func texts(nodes []*html.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = textOf(n)
	}
	return out
}
