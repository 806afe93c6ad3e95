// Package pipeline implements the Markdown-to-HTML stages of note rendering.
//
// The stages run in order:
//   - Markdown preprocessing (BOM, line endings, ==highlight== outside code)
//   - Markdown to HTML fragment conversion via goldmark and the mdx overrides,
//     with relative links and images resolved against the note's site directory
//   - Heading extraction (title fallback)
//   - CSS and script injection into the finished page
//
// Page layout is handled by package layout. The pipeline only deals with
// note content and the final document string.
package pipeline
