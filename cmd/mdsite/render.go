package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mdsite "github.com/alnah/go-mdsite"
	"github.com/alnah/go-mdsite/internal/config"
	"github.com/alnah/go-mdsite/internal/fileutil"
	"github.com/alnah/go-mdsite/internal/logging"
)

// runRender implements the render command: one note to a full page.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args)
	if err != nil {
		return handleFlagError(err, "render", printRenderUsage, env)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: render takes exactly one file, got %d", ErrUsage, len(positional))
	}
	input := positional[0]
	if !fileutil.IsMarkdown(input) {
		return fmt.Errorf("%w: %s is not a .md or .markdown file", ErrUsage, input)
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	if err := mergeRenderFlags(flags, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Logs would interleave with the page on stdout.
	logger := logging.NoOp()
	if flags.output != "" {
		if logger, err = newLogger(env, flags.common, envCfg, "render"); err != nil {
			return err
		}
	}

	content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadNote, err)
	}

	renderer, err := mdsite.NewRenderer(rendererOptions(cfg, env.Now, logger)...)
	if err != nil {
		return err
	}

	page, err := renderer.Render(ctx, mdsite.Input{
		Markdown:   string(content),
		SourcePath: sourcePath(input, cfg),
	})
	if err != nil {
		return err
	}

	if flags.output == "" {
		_, err := env.Stdout.Write(page.HTML)
		return err
	}
	if err := fileutil.WriteFileAtomic(flags.output, page.HTML, filePermissions); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWritePage, flags.output, err)
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", flags.output)
	}
	return nil
}

// sourcePath locates file under the configured content root, so relative
// links resolve as they would in a build. Files outside it resolve from the
// site root.
func sourcePath(file string, cfg *config.Config) string {
	if cfg.Input.Dir != "" {
		rel, err := filepath.Rel(cfg.Input.Dir, file)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.Base(file)
}
