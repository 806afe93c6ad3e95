package pipeline

import (
	"context"
	"strings"
)

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized so it cannot close the style element.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}
	if ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeEmbedded(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	if pos := afterBodyOpen(htmlContent, lowerHTML); pos != -1 {
		return htmlContent[:pos] + styleBlock + htmlContent[pos:]
	}
	return styleBlock + htmlContent
}

// ScriptInjector defines the contract for script injection into HTML.
type ScriptInjector interface {
	InjectScript(ctx context.Context, htmlContent, script string) string
}

// ScriptInjection injects JavaScript as an inline <script> block at the end
// of the document body, so the elements it binds to already exist.
type ScriptInjection struct{}

// InjectScript inserts a <script> block before </body>, or appends it.
func (s *ScriptInjection) InjectScript(ctx context.Context, htmlContent, script string) string {
	if strings.TrimSpace(script) == "" {
		return htmlContent
	}
	if ctx.Err() != nil {
		return htmlContent
	}

	block := "<script>" + sanitizeEmbedded(script) + "</script>"
	if idx := strings.LastIndex(strings.ToLower(htmlContent), "</body>"); idx != -1 {
		return htmlContent[:idx] + block + htmlContent[idx:]
	}
	return htmlContent + block
}

// sanitizeEmbedded escapes sequences that could break out of a <style> or
// <script> block.
func sanitizeEmbedded(content string) string {
	return strings.ReplaceAll(content, "</", `<\/`)
}

// afterBodyOpen returns the position right after the <body ...> tag, or -1.
func afterBodyOpen(htmlContent, lowerHTML string) int {
	idx := strings.Index(lowerHTML, "<body")
	if idx == -1 {
		return -1
	}
	closeIdx := strings.Index(htmlContent[idx:], ">")
	if closeIdx == -1 {
		return -1
	}
	return idx + closeIdx + 1
}

// Compile-time interface checks.
var (
	_ CSSInjector    = (*CSSInjection)(nil)
	_ ScriptInjector = (*ScriptInjection)(nil)
)
