package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders use Unicode Private Use Area characters.
// They pass through goldmark unchanged (no raw HTML needed) and are turned
// into <mark> tags after conversion.
const (
	MarkStartPlaceholder = "\uE000" // U+E000: Private Use Area start
	MarkEndPlaceholder   = "\uE001" // U+E001: Private Use Area end
)

var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==([^=\n]+?)==`)
	fencePattern       = regexp.MustCompile("^ {0,3}(```+|~~~+)")
	listItemPattern    = regexp.MustCompile(`^ {0,3}([-+*]|\d{1,9}[.)])([ \t]|$)`)
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// NotePreprocessor prepares note bodies for conversion: BOM removal, line
// ending normalization, ==highlight== placeholders outside code and blank
// line compression outside code.
type NotePreprocessor struct{}

// PreprocessMarkdown implements MarkdownPreprocessor.
func (p *NotePreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = strings.TrimPrefix(content, "\uFEFF")
	content = normalizeLineEndings(content)
	return transformOutsideCode(content, func(prose string) string {
		return compressBlankLines(convertHighlights(prose))
	})
}

func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to one.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

func convertHighlights(content string) string {
	return highlightPattern.ReplaceAllStringFunc(content, func(m string) string {
		inner := m[2 : len(m)-2]
		if strings.Contains(inner, "`") {
			return m
		}
		return MarkStartPlaceholder + inner + MarkEndPlaceholder
	})
}

// transformOutsideCode applies fn to every run of lines that is not inside
// a fenced or indented code block. Code lines are kept verbatim.
//
// An indented block starts with a line indented by four spaces or a tab that
// follows a blank line, unless the indentation continues a list item.
func transformOutsideCode(content string, fn func(string) string) string {
	lines := strings.SplitAfter(content, "\n")

	var out, prose strings.Builder
	var fence string // opening marker while inside a fence
	indented := false
	afterBlank := true
	inList := false

	flush := func() {
		if prose.Len() > 0 {
			out.WriteString(fn(prose.String()))
			prose.Reset()
		}
	}

	for _, line := range lines {
		blank := strings.TrimSpace(line) == ""
		if indented && !blank && !isIndented(line) {
			indented = false
		}

		m := fencePattern.FindStringSubmatch(line)
		switch {
		case indented:
			out.WriteString(line)
		case fence == "" && m != nil:
			flush()
			fence = m[1]
			out.WriteString(line)
		case fence != "":
			out.WriteString(line)
			if m != nil && m[1][0] == fence[0] && len(m[1]) >= len(fence) &&
				strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), m[1][:1])) == "" {
				fence = ""
			}
		case !blank && afterBlank && !inList && isIndented(line):
			flush()
			indented = true
			out.WriteString(line)
		default:
			prose.WriteString(line)
			if !blank && !isIndented(line) {
				inList = listItemPattern.MatchString(line)
			}
		}
		afterBlank = blank
	}
	flush()

	return out.String()
}

func isIndented(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

// ConvertMarkPlaceholders converts placeholder markers to <mark> tags.
func ConvertMarkPlaceholders(content string) string {
	return strings.NewReplacer(
		MarkStartPlaceholder, "<mark>",
		MarkEndPlaceholder, "</mark>",
	).Replace(content)
}

// Compile-time interface check.
var _ MarkdownPreprocessor = (*NotePreprocessor)(nil)
