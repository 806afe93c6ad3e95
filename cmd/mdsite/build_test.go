package main

// Notes:
// - buildSite/renderBatch: exercised with fakeRenderer and fakePool so the
//   output layout, draft handling and failure reporting are tested without
//   goldmark.
// - runBuild: one end-to-end test with the real renderer checks that the
//   pieces fit together.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mdsite "github.com/alnah/go-mdsite"
	"github.com/alnah/go-mdsite/internal/config"
	"github.com/alnah/go-mdsite/internal/logging"
)

// ---------------------------------------------------------------------------
// TestBuildSite - Output layout with a fake renderer
// ---------------------------------------------------------------------------

func TestBuildSite(t *testing.T) {
	t.Parallel()

	content := writeTree(t, map[string]string{
		"hello.md":            "# Hello",
		"travel/kyoto.md":     "# Kyoto",
		"travel/img/gate.png": "PNG",
		"wip.md":              "---\ndraft: true\n---\n# WIP",
	})
	out := filepath.Join(t.TempDir(), "public")

	sources, err := discoverSources(content, out)
	if err != nil {
		t.Fatalf("discoverSources() error: %v", err)
	}

	renderer := &fakeRenderer{}
	pool := &fakePool{renderer: renderer, size: 2}
	env := newTestEnv()
	cfg := config.DefaultConfig()

	err = buildSite(context.Background(), pool, sources, out, cfg, commonFlags{}, logging.NoOp(), env.Environment)
	if err != nil {
		t.Fatalf("buildSite() error: %v", err)
	}

	if got := readFile(t, filepath.Join(out, "n", "hello", "index.html")); got != "<html>hello</html>" {
		t.Errorf("hello page = %q", got)
	}
	if got := readFile(t, filepath.Join(out, "n", "kyoto", "index.html")); got != "<html>kyoto</html>" {
		t.Errorf("kyoto page = %q", got)
	}
	if got := readFile(t, filepath.Join(out, "travel", "img", "gate.png")); got != "PNG" {
		t.Errorf("copied file = %q", got)
	}
	if got := readFile(t, filepath.Join(out, "index.html")); got != "<html>index</html>" {
		t.Errorf("index = %q", got)
	}
	if _, err := os.Stat(filepath.Join(out, "n", "wip")); !os.IsNotExist(err) {
		t.Errorf("draft page written, stat err = %v", err)
	}

	if renderer.indexed != 1 {
		t.Errorf("RenderIndex called %d times, want 1", renderer.indexed)
	}
	if len(renderer.entries) != 2 {
		t.Errorf("index entries = %d, want 2 (draft excluded)", len(renderer.entries))
	}
	if pool.acquired != pool.released {
		t.Errorf("acquired %d renderers, released %d", pool.acquired, pool.released)
	}

	stdout := env.stdout.String()
	if !strings.Contains(stdout, "3 written, 1 drafts skipped, 1 copied, 0 failed") {
		t.Errorf("summary missing from stdout:\n%s", stdout)
	}
}

func TestBuildSite_Drafts(t *testing.T) {
	t.Parallel()

	content := writeTree(t, map[string]string{
		"wip.md": "---\ndraft: true\n---\n# WIP",
	})
	out := filepath.Join(t.TempDir(), "public")
	sources, err := discoverSources(content, out)
	if err != nil {
		t.Fatalf("discoverSources() error: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Notes.Drafts = true
	renderer := &fakeRenderer{}
	env := newTestEnv()

	err = buildSite(context.Background(), &fakePool{renderer: renderer, size: 1}, sources, out, cfg,
		commonFlags{quiet: true}, logging.NoOp(), env.Environment)
	if err != nil {
		t.Fatalf("buildSite() error: %v", err)
	}

	if got := readFile(t, filepath.Join(out, "n", "wip", "index.html")); got != "<html>wip</html>" {
		t.Errorf("draft page = %q", got)
	}
	if env.stdout.Len() != 0 {
		t.Errorf("quiet build wrote to stdout: %q", env.stdout.String())
	}
}

func TestBuildSite_RenderFailureWritesNothing(t *testing.T) {
	t.Parallel()

	content := writeTree(t, map[string]string{
		"good.md": "# Good",
		"bad.md":  "# Bad",
	})
	out := filepath.Join(t.TempDir(), "public")
	sources, err := discoverSources(content, out)
	if err != nil {
		t.Fatalf("discoverSources() error: %v", err)
	}

	renderer := &fakeRenderer{fail: map[string]error{"bad.md": mdsite.ErrFrontMatter}}
	env := newTestEnv()

	err = buildSite(context.Background(), &fakePool{renderer: renderer, size: 2}, sources, out,
		config.DefaultConfig(), commonFlags{}, logging.NoOp(), env.Environment)

	if !errors.Is(err, ErrBuildFailed) {
		t.Fatalf("error = %v, want ErrBuildFailed", err)
	}
	if !errors.Is(err, mdsite.ErrFrontMatter) {
		t.Errorf("error should expose the cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("error = %q, want failure count", err.Error())
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Errorf("output directory created despite failures, stat err = %v", statErr)
	}
	if !strings.Contains(env.stderr.String(), "FAILED") {
		t.Errorf("stderr should report the failed note:\n%s", env.stderr.String())
	}
}

func TestBuildSite_DuplicateSlugs(t *testing.T) {
	t.Parallel()

	content := writeTree(t, map[string]string{
		"a/note.md": "# One",
		"b/note.md": "# Two",
	})
	out := filepath.Join(t.TempDir(), "public")
	sources, err := discoverSources(content, out)
	if err != nil {
		t.Fatalf("discoverSources() error: %v", err)
	}

	err = buildSite(context.Background(), &fakePool{renderer: &fakeRenderer{}, size: 1}, sources, out,
		config.DefaultConfig(), commonFlags{}, logging.NoOp(), newTestEnv().Environment)

	if !errors.Is(err, ErrDuplicateSlugs) {
		t.Fatalf("error = %v, want ErrDuplicateSlugs", err)
	}
	if !strings.Contains(err.Error(), "/n/note") {
		t.Errorf("error = %q, want the clashing route", err.Error())
	}
}

func TestBuildSite_AcquireError(t *testing.T) {
	t.Parallel()

	sources := &siteSources{Notes: []sourceFile{{Path: "x.md", Rel: "x.md"}}}
	pool := &fakePool{err: mdsite.ErrStyleNotFound, size: 1}

	err := buildSite(context.Background(), pool, sources, t.TempDir(), config.DefaultConfig(),
		commonFlags{}, logging.NoOp(), newTestEnv().Environment)

	if !errors.Is(err, mdsite.ErrStyleNotFound) {
		t.Errorf("error = %v, want ErrStyleNotFound", err)
	}
}

// ---------------------------------------------------------------------------
// TestRenderBatch - Concurrency and ordering
// ---------------------------------------------------------------------------

func TestRenderBatch(t *testing.T) {
	t.Parallel()

	content := writeTree(t, map[string]string{
		"a.md": "# A", "b.md": "# B", "c.md": "# C", "d.md": "# D",
	})
	var files []sourceFile
	for _, name := range []string{"a.md", "b.md", "c.md", "d.md"} {
		files = append(files, sourceFile{Path: filepath.Join(content, name), Rel: name})
	}

	pool := &fakePool{renderer: &fakeRenderer{}, size: 3}
	results := renderBatch(context.Background(), pool, files)

	if len(results) != len(files) {
		t.Fatalf("got %d results, want %d", len(results), len(files))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("result %d error: %v", i, r.Err)
			continue
		}
		if r.InputPath != files[i].Path {
			t.Errorf("result %d input = %q, want %q", i, r.InputPath, files[i].Path)
		}
		want := "/n/" + strings.TrimSuffix(files[i].Rel, ".md")
		if r.Page.Route != want {
			t.Errorf("result %d route = %q, want %q", i, r.Page.Route, want)
		}
	}
	if pool.acquired != 3 || pool.released != 3 {
		t.Errorf("acquired/released = %d/%d, want 3/3", pool.acquired, pool.released)
	}
}

func TestRenderBatch_Empty(t *testing.T) {
	t.Parallel()

	if got := renderBatch(context.Background(), &fakePool{size: 2}, nil); got != nil {
		t.Errorf("renderBatch(nil) = %v, want nil", got)
	}
}

func TestRenderBatch_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []sourceFile{{Path: "a.md", Rel: "a.md"}, {Path: "b.md", Rel: "b.md"}}
	results := renderBatch(ctx, &fakePool{renderer: &fakeRenderer{}, size: 1}, files)

	for i, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("result %d error = %v, want context.Canceled", i, r.Err)
		}
	}
}

func TestRenderNote_ReadError(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.md")
	r := renderNote(context.Background(), &fakeRenderer{}, sourceFile{Path: missing, Rel: "missing.md"})

	if !errors.Is(r.Err, ErrReadNote) {
		t.Errorf("error = %v, want ErrReadNote", r.Err)
	}
}

// ---------------------------------------------------------------------------
// TestCheckDuplicateSlugs
// ---------------------------------------------------------------------------

func TestCheckDuplicateSlugs(t *testing.T) {
	t.Parallel()

	page := func(route string) *mdsite.Page { return &mdsite.Page{Route: route} }

	tests := []struct {
		name    string
		results []BuildResult
		wantErr bool
	}{
		{"unique", []BuildResult{{Page: page("/n/a")}, {Page: page("/n/b")}}, false},
		{"failed results ignored", []BuildResult{{Page: page("/n/a")}, {Err: errors.New("x")}}, false},
		{"clash", []BuildResult{{InputPath: "a.md", Page: page("/n/a")}, {InputPath: "x/a.md", Page: page("/n/a")}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := checkDuplicateSlugs(tt.results)
			if tt.wantErr != errors.Is(err, ErrDuplicateSlugs) {
				t.Errorf("checkDuplicateSlugs() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildSite_StaticClash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		file  string
		route string
	}{
		{"root index", "index.html", "index.html"},
		{"note page", "n/hello/index.html", "n/hello/index.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content := writeTree(t, map[string]string{
				"hello.md": "# Hello",
				tt.file:    "STATIC",
			})
			out := filepath.Join(t.TempDir(), "public")
			sources, err := discoverSources(content, out)
			if err != nil {
				t.Fatalf("discoverSources() error: %v", err)
			}

			err = buildSite(context.Background(), &fakePool{renderer: &fakeRenderer{}, size: 1}, sources, out,
				config.DefaultConfig(), commonFlags{}, logging.NoOp(), newTestEnv().Environment)

			if !errors.Is(err, ErrOutputClash) {
				t.Fatalf("error = %v, want ErrOutputClash", err)
			}
			if !strings.Contains(err.Error(), tt.route) {
				t.Errorf("error = %q, want the clashing path %s", err.Error(), tt.route)
			}
			if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
				t.Errorf("output written despite the clash, stat err = %v", statErr)
			}
		})
	}
}

func TestCheckStaticClashes(t *testing.T) {
	t.Parallel()

	page := func(route string, draft bool) BuildResult {
		return BuildResult{InputPath: route + ".md", Page: &mdsite.Page{Route: route, Draft: draft}}
	}
	static := func(rel string) sourceFile { return sourceFile{Path: "/content/" + rel, Rel: rel} }

	tests := []struct {
		name    string
		results []BuildResult
		static  []sourceFile
		drafts  bool
		wantErr bool
	}{
		{"no static files", []BuildResult{page("/n/a", false)}, nil, false, false},
		{"unrelated file", []BuildResult{page("/n/a", false)}, []sourceFile{static("n/a/photo.png")}, false, false},
		{"index", nil, []sourceFile{static("index.html")}, false, true},
		{"note page", []BuildResult{page("/n/a", false)}, []sourceFile{static("n/a/index.html")}, false, true},
		{"skipped draft", []BuildResult{page("/n/a", true)}, []sourceFile{static("n/a/index.html")}, false, false},
		{"written draft", []BuildResult{page("/n/a", true)}, []sourceFile{static("n/a/index.html")}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := checkStaticClashes(tt.results, tt.static, tt.drafts)
			if tt.wantErr != errors.Is(err, ErrOutputClash) {
				t.Errorf("checkStaticClashes() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestPagePath / TestResolveInputDir
// ---------------------------------------------------------------------------

func TestPagePath(t *testing.T) {
	t.Parallel()

	got, err := pagePath("public", "/n/hello")
	if err != nil {
		t.Fatalf("pagePath() error: %v", err)
	}
	if want := filepath.Join("public", "n", "hello", "index.html"); got != want {
		t.Errorf("pagePath() = %q, want %q", got, want)
	}
}

func TestResolveInputDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "note.md")
	if err := os.WriteFile(file, []byte("# x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		cfgDir  string
		want    string
		wantErr error
	}{
		{"argument", []string{dir}, "", dir, nil},
		{"config fallback", nil, dir, dir, nil},
		{"argument wins", []string{dir}, "elsewhere", dir, nil},
		{"nothing", nil, "", "", ErrNoInput},
		{"missing", []string{filepath.Join(dir, "nope")}, "", "", ErrNoInput},
		{"file", []string{file}, "", "", ErrNoInput},
		{"too many", []string{dir, dir}, "", "", ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Input.Dir = tt.cfgDir

			got, err := resolveInputDir(tt.args, cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveInputDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCountResults / TestPrintResults
// ---------------------------------------------------------------------------

func TestCountResults(t *testing.T) {
	t.Parallel()

	results := []BuildResult{
		{OutputPath: "a"},
		{OutputPath: "b"},
		{Skipped: true},
		{Static: true, OutputPath: "img.png"},
		{Err: errors.New("boom")},
	}
	got := countResults(results)
	want := ResultSummary{Written: 2, Skipped: 1, Copied: 1, Failed: 1}
	if got != want {
		t.Errorf("countResults() = %+v, want %+v", got, want)
	}
}

func TestPrintResults(t *testing.T) {
	t.Parallel()

	results := []BuildResult{
		{InputPath: "a.md", OutputPath: "public/n/a/index.html"},
		{InputPath: "img.png", OutputPath: "public/img.png", Static: true},
		{InputPath: "b.md", Err: errors.New("boom")},
	}

	tests := []struct {
		name         string
		quiet        bool
		verbose      bool
		stdoutHas    []string
		stdoutHasNot []string
		stderrHas    string
	}{
		{
			name:         "default",
			stdoutHas:    []string{"Created public/n/a/index.html", "1 written"},
			stdoutHasNot: []string{"img.png"},
			stderrHas:    "FAILED b.md: boom",
		},
		{
			name:      "verbose",
			verbose:   true,
			stdoutHas: []string{"a.md -> public/n/a/index.html", "img.png -> public/img.png"},
			stderrHas: "FAILED b.md",
		},
		{
			name:         "quiet",
			quiet:        true,
			stdoutHasNot: []string{"Created", "written"},
			stderrHas:    "FAILED b.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv()
			printResults(results, tt.quiet, tt.verbose, env.Environment)

			stdout := env.stdout.String()
			for _, s := range tt.stdoutHas {
				if !strings.Contains(stdout, s) {
					t.Errorf("stdout missing %q:\n%s", s, stdout)
				}
			}
			for _, s := range tt.stdoutHasNot {
				if strings.Contains(stdout, s) {
					t.Errorf("stdout should not contain %q:\n%s", s, stdout)
				}
			}
			if !strings.Contains(env.stderr.String(), tt.stderrHas) {
				t.Errorf("stderr missing %q:\n%s", tt.stderrHas, env.stderr.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunBuild - End to end with the real renderer
// ---------------------------------------------------------------------------

func TestRunBuild(t *testing.T) {
	t.Parallel()

	content := writeTree(t, map[string]string{
		"hello.md":            "---\ntitle: Hello World\ndate: 2025-05-01\n---\n\nSee [Kyoto](travel/kyoto.md).\n",
		"travel/kyoto.md":     "# Kyoto\n\n![gate](img/gate.png)\n",
		"travel/img/gate.png": "PNG",
		".git/HEAD":           "ref",
	})
	out := filepath.Join(t.TempDir(), "public")
	cfgPath := writeConfig(t, "site:\n  title: Test Notes\n  titleTemplate: \"%s | Test\"\n")
	env := newTestEnv()

	err := runBuild(context.Background(), []string{content, "-o", out, "-c", cfgPath, "-w", "2"}, env.Environment)
	if err != nil {
		t.Fatalf("runBuild() error: %v\nstderr: %s", err, env.stderr.String())
	}

	hello := readFile(t, filepath.Join(out, "n", "hello", "index.html"))
	if !strings.Contains(hello, "<title>Hello World | Test</title>") {
		t.Errorf("hello page missing title:\n%s", hello)
	}
	if !strings.Contains(hello, `href="/n/kyoto"`) {
		t.Errorf("note link not rewritten to route:\n%s", hello)
	}

	kyoto := readFile(t, filepath.Join(out, "n", "kyoto", "index.html"))
	if !strings.Contains(kyoto, `src="/travel/img/gate.png"`) {
		t.Errorf("image path not rewritten against the note directory:\n%s", kyoto)
	}

	index := readFile(t, filepath.Join(out, "index.html"))
	if !strings.Contains(index, "Hello World") || !strings.Contains(index, "Kyoto") {
		t.Errorf("index missing entries:\n%s", index)
	}

	if got := readFile(t, filepath.Join(out, "travel", "img", "gate.png")); got != "PNG" {
		t.Errorf("static file = %q", got)
	}
	if _, err := os.Stat(filepath.Join(out, ".git")); !os.IsNotExist(err) {
		t.Errorf("hidden directory copied, stat err = %v", err)
	}
}

func TestRunBuild_Errors(t *testing.T) {
	t.Parallel()

	content := writeTree(t, map[string]string{"a.md": "# A"})
	empty := t.TempDir()
	cfgPath := writeConfig(t, "site:\n  title: Test\n")
	badCfg := writeConfig(t, "site:\n  unknownKey: 1\n")

	tests := []struct {
		name     string
		args     []string
		wantErr  error
		wantCode int
	}{
		{"bad flag", []string{"--nope"}, ErrUsage, ExitUsage},
		{"negative workers", []string{content, "-c", cfgPath, "--workers=-1"}, ErrInvalidWorkerCount, ExitUsage},
		{"bad timeout", []string{content, "-c", cfgPath, "-t", "soon"}, ErrInvalidTimeout, ExitUsage},
		{"missing config", []string{content, "-c", filepath.Join(empty, "none.yaml")}, config.ErrConfigNotFound, ExitUsage},
		{"invalid config", []string{content, "-c", badCfg}, config.ErrConfigParse, ExitUsage},
		{"unknown style", []string{content, "-c", cfgPath, "-o", filepath.Join(empty, "out"), "--style", "nope"}, mdsite.ErrStyleNotFound, ExitUsage},
		{"no notes", []string{empty, "-c", cfgPath}, ErrNoNotes, ExitGeneral},
		{"missing dir", []string{filepath.Join(empty, "nope"), "-c", cfgPath}, ErrNoInput, ExitIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := runBuild(context.Background(), tt.args, newTestEnv().Environment)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("runBuild() error = %v, want %v", err, tt.wantErr)
			}
			if code := exitCodeFor(err); code != tt.wantCode {
				t.Errorf("exitCodeFor() = %d, want %d", code, tt.wantCode)
			}
		})
	}
}

func TestRunBuild_Help(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	if err := runBuild(context.Background(), []string{"--help"}, env.Environment); err != nil {
		t.Fatalf("runBuild(--help) error: %v", err)
	}
	if !strings.Contains(env.stdout.String(), "Usage: mdsite build") {
		t.Errorf("help output missing usage:\n%s", env.stdout.String())
	}
}
