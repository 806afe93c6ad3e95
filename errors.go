package mdsite

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown   = errors.New("markdown content cannot be empty")
	ErrEmptySourcePath = errors.New("source path cannot be empty")
	ErrHTMLConversion  = errors.New("HTML conversion failed")
	ErrLayoutRender    = errors.New("layout rendering failed")

	// Note parsing errors.
	ErrFrontMatter = errors.New("invalid front matter")
	ErrInvalidSlug = errors.New("invalid slug")

	// Option validation errors.
	ErrUnknownElement    = errors.New("unknown element kind")
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrInvalidRoute      = errors.New("invalid route")
	ErrUnknownLanguage   = errors.New("unknown code language")

	// Asset loading errors.
	ErrStyleNotFound         = errors.New("style not found")
	ErrScriptNotFound        = errors.New("script not found")
	ErrTemplateSetNotFound   = errors.New("template set not found")
	ErrIncompleteTemplateSet = errors.New("template set missing required template")
	ErrInvalidAssetPath      = errors.New("invalid asset path")
)
