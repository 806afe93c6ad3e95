package main

import (
	"errors"
	"os"

	mdsite "github.com/alnah/go-mdsite"
	"github.com/alnah/go-mdsite/internal/config"
	"github.com/alnah/go-mdsite/internal/fileutil"
)

// Exit codes for the mdsite CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful build or render
	ExitGeneral = 1 // General/unexpected error, failed notes
	ExitUsage   = 2 // Invalid flags, config, or assets
	ExitIO      = 3 // File not found, permission denied, write failure
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadNote) ||
		errors.Is(err, ErrWritePage) ||
		errors.Is(err, fileutil.ErrPathNotInRoot) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, mdsite.ErrEmptyMarkdown) ||
		errors.Is(err, mdsite.ErrUnknownElement) ||
		errors.Is(err, mdsite.ErrUnknownLanguage) ||
		errors.Is(err, mdsite.ErrInvalidDateFormat) ||
		errors.Is(err, mdsite.ErrInvalidRoute) ||
		errors.Is(err, mdsite.ErrStyleNotFound) ||
		errors.Is(err, mdsite.ErrScriptNotFound) ||
		errors.Is(err, mdsite.ErrTemplateSetNotFound) ||
		errors.Is(err, mdsite.ErrIncompleteTemplateSet) ||
		errors.Is(err, mdsite.ErrInvalidAssetPath) ||
		errors.Is(err, mdsite.ErrLayoutRender) {
		return ExitUsage
	}

	return ExitGeneral
}
