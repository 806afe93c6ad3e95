package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	mdsite "github.com/alnah/go-mdsite"
	"github.com/alnah/go-mdsite/internal/config"
	"github.com/alnah/go-mdsite/internal/fileutil"
	"github.com/alnah/go-mdsite/internal/hints"
	"github.com/alnah/go-mdsite/internal/logging"
	"github.com/alnah/go-mdsite/internal/notes"
)

// Output file constants.
const (
	filePermissions = 0o644 // rw-r--r--: pages are meant to be served
	indexFile       = "index.html"
)

// Sentinel errors for build operations.
var (
	ErrNoInput        = errors.New("no content directory")
	ErrReadNote       = errors.New("failed to read note")
	ErrWritePage      = errors.New("failed to write page")
	ErrDuplicateSlugs = errors.New("duplicate note slugs")
	ErrOutputClash    = errors.New("static file would replace a generated page")
	ErrBuildFailed    = errors.New("build failed")
	ErrNoNotes        = errors.New("no notes found")
)

// BuildResult holds the outcome of a single note render or file copy.
type BuildResult struct {
	InputPath  string
	OutputPath string
	Page       *mdsite.Page
	Static     bool
	Skipped    bool // Draft left out of the site
	Err        error
	Duration   time.Duration
}

// buildError reports every failed result. errors.Is and errors.As see the
// individual causes.
type buildError struct {
	failed int
	total  int
	errs   []error
}

func (e *buildError) Error() string {
	return fmt.Sprintf("%v: %d of %d file(s) failed", ErrBuildFailed, e.failed, e.total)
}

func (e *buildError) Unwrap() []error {
	return append([]error{ErrBuildFailed}, e.errs...)
}

// runBuild implements the build command.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseBuildFlags(args)
	if err != nil {
		return handleFlagError(err, "build", printBuildUsage, env)
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	if err := mergeBuildFlags(flags, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputDir, err := resolveInputDir(positional, cfg)
	if err != nil {
		return err
	}
	outputDir := cfg.Output.Dir

	logger, err := newLogger(env, flags.common, envCfg, "build")
	if err != nil {
		return err
	}

	sources, err := discoverSources(inputDir, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(sources.Notes) == 0 {
		return fmt.Errorf("%w in %s", ErrNoNotes, inputDir)
	}

	size := mdsite.ResolvePoolSize(cfg.Build.Workers)
	logger.Debug("starting build", "input", inputDir, "output", outputDir, "notes", len(sources.Notes),
		"files", len(sources.Static), "workers", size)

	rp := mdsite.NewRendererPool(size, rendererOptions(cfg, env.Now, logger)...)
	defer rp.Close()

	return buildSite(ctx, &poolAdapter{pool: rp}, sources, outputDir, cfg, flags.common, logger, env)
}

// buildSite renders the notes, then writes pages, the index and static
// files. Nothing is written when a note fails to render.
func buildSite(ctx context.Context, pool Pool, sources *siteSources, outputDir string,
	cfg *config.Config, common commonFlags, logger logging.Logger, env *Environment,
) error {
	// Fail fast on renderer configuration errors (unknown style, bad template).
	probe, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	pool.Release(probe)

	results := renderBatch(ctx, pool, sources.Notes)
	if failed := failures(results); len(failed) > 0 {
		printResults(results, common.quiet, common.verbose, env)
		return newBuildError(failed, len(results))
	}

	if err := checkDuplicateSlugs(results); err != nil {
		return err
	}
	if err := checkStaticClashes(results, sources.Static, cfg.Notes.Drafts); err != nil {
		return err
	}

	for i := range results {
		writePage(&results[i], outputDir, cfg.Notes.Drafts, logger)
	}

	indexResult := writeIndex(ctx, pool, results, outputDir)
	results = append(results, indexResult)

	for _, f := range sources.Static {
		results = append(results, copyStatic(f, outputDir))
	}

	printResults(results, common.quiet, common.verbose, env)
	if failed := failures(results); len(failed) > 0 {
		return newBuildError(failed, len(results))
	}
	return nil
}

// renderBatch renders notes concurrently using the renderer pool.
// Results keep the order of notes.
func renderBatch(ctx context.Context, pool Pool, files []sourceFile) []BuildResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]BuildResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			renderer, err := pool.Acquire(ctx)
			if err != nil {
				for idx := range jobs {
					results[idx] = BuildResult{InputPath: files[idx].Path, Err: err}
				}
				return
			}
			defer pool.Release(renderer)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = BuildResult{InputPath: files[idx].Path, Err: ctx.Err()}
					continue
				}
				results[idx] = renderNote(ctx, renderer, files[idx])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// renderNote reads and renders a single note.
func renderNote(ctx context.Context, renderer SiteRenderer, f sourceFile) BuildResult {
	start := time.Now()
	result := BuildResult{InputPath: f.Path}

	content, err := os.ReadFile(f.Path) // #nosec G304 -- discovered under the content root
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadNote, err)
		result.Duration = time.Since(start)
		return result
	}

	page, err := renderer.Render(ctx, mdsite.Input{Markdown: string(content), SourcePath: f.Rel})
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	result.Page = page
	result.Duration = time.Since(start)
	return result
}

// checkDuplicateSlugs fails when two notes would be written to the same route.
func checkDuplicateSlugs(results []BuildResult) error {
	var claims []notes.Claim
	for _, r := range results {
		if r.Page != nil {
			claims = append(claims, notes.Claim{Key: r.Page.Route, Name: r.InputPath})
		}
	}
	return clashError(ErrDuplicateSlugs, notes.Clashes(claims))
}

// checkStaticClashes fails when a copied file would land on the index or on
// the page of a note that is written.
func checkStaticClashes(results []BuildResult, static []sourceFile, drafts bool) error {
	claims := []notes.Claim{{Key: indexFile, Name: "(index)"}}
	for _, r := range results {
		if r.Page != nil && (drafts || !r.Page.Draft) {
			claims = append(claims, notes.Claim{Key: pageFile(r.Page.Route), Name: r.InputPath})
		}
	}
	for _, f := range static {
		claims = append(claims, notes.Claim{Key: f.Rel, Name: f.Path})
	}
	return clashError(ErrOutputClash, notes.Clashes(claims))
}

func clashError(sentinel error, clashes []notes.Clash) error {
	if len(clashes) == 0 {
		return nil
	}
	parts := make([]string, len(clashes))
	for i, c := range clashes {
		parts[i] = c.String()
	}
	return fmt.Errorf("%w: %s", sentinel, strings.Join(parts, "; "))
}

// writePage writes the page of a rendered note to <out>/<route>/index.html.
// Drafts are skipped unless drafts is set.
func writePage(r *BuildResult, outputDir string, drafts bool, logger logging.Logger) {
	start := time.Now()
	defer func() { r.Duration += time.Since(start) }()

	if r.Page.Draft && !drafts {
		r.Skipped = true
		logger.Info("skipping draft", "source", r.InputPath, "route", r.Page.Route)
		return
	}

	out, err := pagePath(outputDir, r.Page.Route)
	if err != nil {
		r.Err = fmt.Errorf("%w: %v", ErrWritePage, err)
		return
	}
	if err := fileutil.WriteFileAtomic(out, r.Page.HTML, filePermissions); err != nil {
		r.Err = fmt.Errorf("%w: %s: %v", ErrWritePage, out, err)
		return
	}
	r.OutputPath = out
}

// writeIndex renders the index of the written pages to <out>/index.html.
func writeIndex(ctx context.Context, pool Pool, results []BuildResult, outputDir string) BuildResult {
	start := time.Now()
	out := filepath.Join(outputDir, indexFile)
	result := BuildResult{InputPath: "(index)", OutputPath: out}

	renderer, err := pool.Acquire(ctx)
	if err != nil {
		result.Err = err
		return result
	}
	defer pool.Release(renderer)

	var entries []mdsite.NoteEntry
	for _, r := range results {
		if r.Page != nil && !r.Skipped && r.Err == nil {
			entries = append(entries, r.Page.Entry())
		}
	}

	html, err := renderer.RenderIndex(ctx, entries)
	if err != nil {
		result.Err = err
	} else if err := fileutil.WriteFileAtomic(out, html, filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %s: %v", ErrWritePage, out, err)
	}
	result.Duration = time.Since(start)
	return result
}

// copyStatic copies a non-note file to the same relative path in the output.
func copyStatic(f sourceFile, outputDir string) BuildResult {
	start := time.Now()
	result := BuildResult{InputPath: f.Path, Static: true}

	dst, err := fileutil.JoinInRoot(outputDir, f.Rel)
	if err == nil {
		err = fileutil.CopyFile(f.Path, dst)
	}
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWritePage, err)
	} else {
		result.OutputPath = dst
	}
	result.Duration = time.Since(start)
	return result
}

// pagePath maps a note route to its file under outputDir.
func pagePath(outputDir, route string) (string, error) {
	return fileutil.JoinInRoot(outputDir, pageFile(route))
}

// pageFile is the slash-separated path of a route's page in the output.
func pageFile(route string) string {
	return strings.Trim(route, "/") + "/" + indexFile
}

// resolveInputDir determines the content root from args or config.
func resolveInputDir(args []string, cfg *config.Config) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("%w: build takes one directory, got %d arguments", ErrUsage, len(args))
	}

	dir := cfg.Input.Dir
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		return "", fmt.Errorf("%w%s", ErrNoInput, hints.ForInputDirectory(""))
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v%s", ErrNoInput, err, hints.ForInputDirectory(dir))
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory%s", ErrNoInput, dir, hints.ForInputDirectory(dir))
	}
	return dir, nil
}

func failures(results []BuildResult) []error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

func newBuildError(errs []error, total int) error {
	return &buildError{failed: len(errs), total: total, errs: errs}
}

// ResultSummary holds the count of written, skipped, copied and failed files.
type ResultSummary struct {
	Written int
	Skipped int
	Copied  int
	Failed  int
}

// countResults tallies build results.
func countResults(results []BuildResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Failed++
		case r.Skipped:
			summary.Skipped++
		case r.Static:
			summary.Copied++
		case r.OutputPath != "":
			summary.Written++
		}
	}
	return summary
}

// printResults outputs build results to the environment writers.
func printResults(results []BuildResult, quiet, verbose bool, env *Environment) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}
		if quiet || r.Skipped || r.OutputPath == "" {
			continue
		}

		switch {
		case verbose:
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		case !r.Static:
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet {
		s := countResults(results)
		fmt.Fprintf(env.Stdout, "\n%d written, %d drafts skipped, %d copied, %d failed\n",
			s.Written, s.Skipped, s.Copied, s.Failed)
	}
}
