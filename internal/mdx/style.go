package mdx

import "strings"

// defaultClasses holds the base class descriptor of every element kind.
// Headings shrink with level and scale their vertical rhythm accordingly.
var defaultClasses = [kindCount]string{
	Heading1:      "font-serif text-3xl font-medium tracking-tight text-zinc-900 mt-12 mb-6",
	Heading2:      "font-serif text-2xl font-medium tracking-tight text-zinc-900 mt-10 mb-4",
	Heading3:      "font-serif text-xl font-medium text-zinc-900 mt-8 mb-3",
	Heading4:      "font-serif text-lg font-medium text-zinc-900 mt-6 mb-2",
	Paragraph:     "text-zinc-700 leading-relaxed",
	OrderedList:   "text-zinc-700 list-decimal pl-5 space-y-2",
	UnorderedList: "text-zinc-700 list-disc pl-5 space-y-2",
	ListItem:      "pl-1",
	Emphasis:      "font-medium",
	Strong:        "font-medium",
	InlineCode:    "font-mono text-sm bg-zinc-100 rounded px-1 py-0.5",
	Image:         "rounded-lg border border-zinc-200 shadow-sm my-8",
	Table:         "w-full text-sm border-collapse my-6",
	Blockquote:    "border-l-4 border-amber-200 pl-4 mx-1 italic text-zinc-600",
	Hyperlink:     "text-amber-700 hover:text-amber-900 underline underline-offset-4 decoration-amber-200",
}

// StyleTable maps element kinds to their base class descriptor.
// It is a value type backed by an array, so copies never share state.
type StyleTable struct {
	classes [kindCount]string
}

// DefaultStyles returns the built-in style table.
func DefaultStyles() StyleTable {
	return StyleTable{classes: defaultClasses}
}

// NewStyleTable returns the built-in table with extra classes appended to the
// base descriptor of each listed kind. Extras never replace the base classes.
// Invalid kinds are ignored.
func NewStyleTable(extra map[ElementKind]string) StyleTable {
	t := DefaultStyles()
	for kind, class := range extra {
		if !kind.Valid() {
			continue
		}
		t.classes[kind] = MergeClassName(t.classes[kind], class)
	}
	return t
}

// Base returns the base descriptor for kind, or "" for an invalid kind.
func (t StyleTable) Base(kind ElementKind) string {
	if !kind.Valid() {
		return ""
	}
	return t.classes[kind]
}

// Class returns the base descriptor for kind merged with a caller-supplied
// class. The base always comes first so the caller's classes win on conflict.
func (t StyleTable) Class(kind ElementKind, custom string) string {
	return MergeClassName(t.Base(kind), custom)
}

// MergeClassName joins base and custom with a single space, dropping
// whichever side is empty.
func MergeClassName(base, custom string) string {
	base = strings.TrimSpace(base)
	custom = strings.TrimSpace(custom)
	switch {
	case base == "":
		return custom
	case custom == "":
		return base
	default:
		return base + " " + custom
	}
}
