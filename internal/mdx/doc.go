// Package mdx implements the element rendering overrides used for notes.
//
// The package is organised around a closed set of element kinds:
//
//	ElementKind  - heading levels 1-4, paragraph, lists, emphasis, code, image,
//	               table, blockquote and link
//	StyleTable   - immutable kind -> class descriptor mapping with additive merge
//	ClassifyLink - internal route / same-document anchor / external link
//	Highlighter  - injected syntax highlighter, output trusted verbatim
//	RenderTable  - headers + rows tabular content
//
// Extension wires all of the above into goldmark: a node renderer registered
// above the default HTML renderer dispatches each node kind to its rule, and
// an AST transformer rewrites relative links to Markdown notes into routes.
//
// # Trust boundary
//
// Highlighter output is written into the page without escaping. The default
// ChromaHighlighter escapes token text itself; a custom Highlighter must do the
// same. Do not feed code from untrusted users through a highlighter that has
// not been audited for this.
package mdx
