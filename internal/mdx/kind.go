package mdx

import (
	"fmt"
	"strings"
)

// ElementKind identifies a class of document content with its own rendering rule.
type ElementKind int

// Supported element kinds. The zero value is invalid so that an unset kind
// never silently maps to a heading.
const (
	kindInvalid ElementKind = iota
	Heading1
	Heading2
	Heading3
	Heading4
	Paragraph
	OrderedList
	UnorderedList
	ListItem
	Emphasis
	Strong
	InlineCode
	Image
	Table
	Blockquote
	Hyperlink
	kindCount
)

var kindTags = [kindCount]string{
	kindInvalid:   "",
	Heading1:      "h1",
	Heading2:      "h2",
	Heading3:      "h3",
	Heading4:      "h4",
	Paragraph:     "p",
	OrderedList:   "ol",
	UnorderedList: "ul",
	ListItem:      "li",
	Emphasis:      "em",
	Strong:        "strong",
	InlineCode:    "code",
	Image:         "img",
	Table:         "table",
	Blockquote:    "blockquote",
	Hyperlink:     "a",
}

// AllKinds returns every supported element kind in declaration order.
func AllKinds() []ElementKind {
	kinds := make([]ElementKind, 0, int(kindCount)-1)
	for k := Heading1; k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Valid reports whether k is one of the supported kinds.
func (k ElementKind) Valid() bool {
	return k > kindInvalid && k < kindCount
}

// String returns the element tag for k (e.g. "h2", "blockquote").
func (k ElementKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("ElementKind(%d)", int(k))
	}
	return kindTags[k]
}

// ParseElementKind maps an element tag back to its kind (case-insensitive).
func ParseElementKind(tag string) (ElementKind, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for k := Heading1; k < kindCount; k++ {
		if kindTags[k] == tag {
			return k, nil
		}
	}
	return kindInvalid, fmt.Errorf("%w: %q", ErrUnknownElement, tag)
}

// HeadingKind returns the kind for a heading level. Levels outside 1-4 have
// no styling rule and report false.
func HeadingKind(level int) (ElementKind, bool) {
	if level < 1 || level > 4 {
		return kindInvalid, false
	}
	return Heading1 + ElementKind(level-1), true
}
