package pipeline

import (
	"context"
	"testing"
)

func TestSanitizeEmbedded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"no escape needed", "body { color: red; }", "body { color: red; }"},
		{"escapes style close", "</style>", `<\/style>`},
		{"escapes script close", "</script>", `<\/script>`},
		{"case variation", "</SCRIPT>", `<\/SCRIPT>`},
		{"multiple occurrences", "</a></b>", `<\/a><\/b>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := sanitizeEmbedded(tt.input); got != tt.expected {
				t.Errorf("sanitizeEmbedded(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		css      string
		expected string
	}{
		{
			name:     "before head close",
			html:     "<html><head><title>x</title></head><body></body></html>",
			css:      "p{}",
			expected: "<html><head><title>x</title><style>p{}</style></head><body></body></html>",
		},
		{
			name:     "uppercase head",
			html:     "<HTML><HEAD></HEAD></HTML>",
			css:      "p{}",
			expected: "<HTML><HEAD><style>p{}</style></HEAD></HTML>",
		},
		{
			name:     "after body open without head",
			html:     `<body class="x"><p>a</p></body>`,
			css:      "p{}",
			expected: `<body class="x"><style>p{}</style><p>a</p></body>`,
		},
		{
			name:     "prepend fragment",
			html:     "<p>a</p>",
			css:      "p{}",
			expected: "<style>p{}</style><p>a</p>",
		},
		{
			name:     "empty css unchanged",
			html:     "<p>a</p>",
			css:      "",
			expected: "<p>a</p>",
		},
		{
			name:     "sanitized",
			html:     "<p>a</p>",
			css:      "</style><script>",
			expected: `<style><\/style><script></style><p>a</p>`,
		},
	}

	injector := &CSSInjection{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := injector.InjectCSS(context.Background(), tt.html, tt.css); got != tt.expected {
				t.Errorf("InjectCSS()\ngot:  %q\nwant: %q", got, tt.expected)
			}
		})
	}
}

func TestInjectCSS_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	html := "<head></head>"
	if got := (&CSSInjection{}).InjectCSS(ctx, html, "p{}"); got != html {
		t.Errorf("InjectCSS() with canceled context = %q, want unchanged", got)
	}
}

func TestInjectScript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		script   string
		expected string
	}{
		{
			name:     "before body close",
			html:     "<body><p>a</p></body></html>",
			script:   "run()",
			expected: "<body><p>a</p><script>run()</script></body></html>",
		},
		{
			name:     "last body close wins",
			html:     "<body><pre>&lt;/body&gt;</pre></BODY>",
			script:   "x",
			expected: "<body><pre>&lt;/body&gt;</pre><script>x</script></BODY>",
		},
		{
			name:     "append to fragment",
			html:     "<p>a</p>",
			script:   "x",
			expected: "<p>a</p><script>x</script>",
		},
		{
			name:     "blank script unchanged",
			html:     "<p>a</p>",
			script:   " \n",
			expected: "<p>a</p>",
		},
		{
			name:     "sanitized",
			html:     "<p>a</p>",
			script:   `s = "</script>"`,
			expected: `<p>a</p><script>s = "<\/script>"</script>`,
		},
	}

	injector := &ScriptInjection{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := injector.InjectScript(context.Background(), tt.html, tt.script); got != tt.expected {
				t.Errorf("InjectScript()\ngot:  %q\nwant: %q", got, tt.expected)
			}
		})
	}
}
