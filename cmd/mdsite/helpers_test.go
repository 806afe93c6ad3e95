package main

// Notes:
// - Test infrastructure shared across command tests: environment with
//   captured output, fake renderer and pool, content tree builder.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	mdsite "github.com/alnah/go-mdsite"
	"github.com/alnah/go-mdsite/internal/logging"
)

// ---------------------------------------------------------------------------
// Environment
// ---------------------------------------------------------------------------

type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv() *testEnv {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &testEnv{
		Environment: &Environment{
			Now:    func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
			Stdout: stdout,
			Stderr: stderr,
			NewLogger: func(logging.Config) (logging.Logger, error) {
				return logging.NoOp(), nil
			},
		},
		stdout: stdout,
		stderr: stderr,
	}
}

// ---------------------------------------------------------------------------
// Content tree
// ---------------------------------------------------------------------------

// writeTree creates files (slash-separated paths) under a temp directory.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

// writeConfig writes a minimal valid config file and returns its path.
func writeConfig(t *testing.T, body string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

// fakeRenderer derives pages from source paths. Sources containing
// "draft: true" are drafts; sources listed in fail return that error.
type fakeRenderer struct {
	fail map[string]error

	mu      sync.Mutex
	entries []mdsite.NoteEntry
	indexed int
}

func (f *fakeRenderer) Render(_ context.Context, in mdsite.Input) (*mdsite.Page, error) {
	if err := f.fail[in.SourcePath]; err != nil {
		return nil, err
	}
	slug := strings.TrimSuffix(path.Base(in.SourcePath), path.Ext(in.SourcePath))
	return &mdsite.Page{
		Slug:  slug,
		Route: "/n/" + slug,
		Title: slug,
		Draft: strings.Contains(in.Markdown, "draft: true"),
		HTML:  []byte("<html>" + slug + "</html>"),
	}, nil
}

func (f *fakeRenderer) RenderIndex(_ context.Context, entries []mdsite.NoteEntry) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = entries
	f.indexed++
	return []byte("<html>index</html>"), nil
}

// fakePool hands out a single shared renderer.
type fakePool struct {
	renderer SiteRenderer
	size     int
	err      error

	mu       sync.Mutex
	acquired int
	released int
}

func (p *fakePool) Acquire(context.Context) (SiteRenderer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	p.acquired++
	return p.renderer, nil
}

func (p *fakePool) Release(SiteRenderer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++
}

func (p *fakePool) Size() int { return p.size }

// readFile returns the content of a file or fails the test.
func readFile(t *testing.T, p string) string {
	t.Helper()

	data, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("reading %s: %v", p, err)
	}
	return string(data)
}
