package mdx

import (
	"html"
	"io"
	"strings"
)

// LinkKind is the navigation category of a hyperlink target.
type LinkKind int

// Link categories, mutually exclusive.
const (
	// ExternalLink targets leave the site and open in a new browsing context.
	ExternalLink LinkKind = iota
	// InternalLink targets are site routes followed with client-side navigation.
	InternalLink
	// AnchorLink targets jump within the current document.
	AnchorLink
)

// String returns a lowercase name for the kind.
func (k LinkKind) String() string {
	switch k {
	case InternalLink:
		return "internal"
	case AnchorLink:
		return "anchor"
	default:
		return "external"
	}
}

// Safety attributes carried by every external link.
const (
	externalTarget = "_blank"
	externalRel    = "noopener noreferrer"
)

// ClassifyLink decides how a target is navigated. A leading "/" is an
// internal route, a leading "#" an in-page anchor, and anything else,
// including the empty target, is external.
func ClassifyLink(href string) LinkKind {
	switch {
	case strings.HasPrefix(href, "/"):
		return InternalLink
	case strings.HasPrefix(href, "#"):
		return AnchorLink
	default:
		return ExternalLink
	}
}

// Attr is a single HTML attribute. Values are escaped when written.
type Attr struct {
	Key   string
	Value string
}

// Router is the client-side navigation capability used for internal links.
type Router interface {
	// Resolve returns the href to write for an internal target and any extra
	// attributes that hand the click over to client-side navigation.
	Resolve(target string) (href string, attrs []Attr)
}

// ClientRouter prefixes routes with BasePath and marks anchors for the
// embedded navigation script.
type ClientRouter struct {
	BasePath string
}

// RouterLinkAttr marks anchors that the client script navigates without reload.
const RouterLinkAttr = "data-router-link"

// Resolve implements Router.
func (r ClientRouter) Resolve(target string) (string, []Attr) {
	href := target
	if base := strings.TrimRight(r.BasePath, "/"); base != "" {
		href = base + target
	}
	return href, []Attr{{Key: RouterLinkAttr, Value: "true"}}
}

// Link describes a single hyperlink to render.
type Link struct {
	Href    string
	Title   string
	Class   string // caller-supplied classes, appended after the base classes
	Content string // plain text, escaped on render
}

// Anchor is the classified, attribute-resolved form of a Link.
type Anchor struct {
	Kind  LinkKind
	Attrs []Attr
}

// BuildAnchor classifies link and returns the attributes of its <a> element.
// The class is the table's link base merged with link.Class. A nil router
// leaves internal hrefs untouched.
func BuildAnchor(link Link, styles StyleTable, router Router) Anchor {
	kind := ClassifyLink(link.Href)
	class := styles.Class(Hyperlink, link.Class)

	href := link.Href
	var extra []Attr
	if kind == InternalLink && router != nil {
		href, extra = router.Resolve(link.Href)
	}

	attrs := make([]Attr, 0, 6)
	attrs = append(attrs, Attr{Key: "href", Value: href})
	if link.Title != "" {
		attrs = append(attrs, Attr{Key: "title", Value: link.Title})
	}
	if kind == ExternalLink {
		attrs = append(attrs,
			Attr{Key: "target", Value: externalTarget},
			Attr{Key: "rel", Value: externalRel},
		)
	}
	if class != "" {
		attrs = append(attrs, Attr{Key: "class", Value: class})
	}
	attrs = append(attrs, extra...)

	return Anchor{Kind: kind, Attrs: attrs}
}

// OpenTag returns the escaped opening <a ...> tag.
func (a Anchor) OpenTag() string {
	var b strings.Builder
	b.WriteString("<a")
	writeAttrs(&b, a.Attrs)
	b.WriteByte('>')
	return b.String()
}

// Attr returns the value of the named attribute and whether it is present.
func (a Anchor) Attr(key string) (string, bool) {
	for _, attr := range a.Attrs {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// RenderLink writes link as a complete <a> element.
func RenderLink(w io.Writer, link Link, styles StyleTable, router Router) error {
	anchor := BuildAnchor(link, styles, router)
	_, err := io.WriteString(w, anchor.OpenTag()+html.EscapeString(link.Content)+"</a>")
	return err
}

func writeAttrs(b *strings.Builder, attrs []Attr) {
	for _, attr := range attrs {
		b.WriteByte(' ')
		b.WriteString(attr.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attr.Value))
		b.WriteByte('"')
	}
}
