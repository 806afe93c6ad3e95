package mdsite

import (
	"errors"

	"github.com/alnah/go-mdsite/internal/assets"
)

// Asset name constants for built-in styles, scripts and templates.
const (
	// DefaultStyle is the name of the built-in CSS style.
	DefaultStyle = assets.DefaultStyleName

	// DefaultTemplateSet is the name of the built-in template set.
	DefaultTemplateSet = assets.DefaultTemplateSetName

	// ProgressScript drives the reading progress bar of note pages.
	ProgressScript = assets.ProgressScript

	// RouterScript navigates between pages without full reloads.
	RouterScript = assets.RouterScript
)

// AssetLoader defines the contract for loading CSS styles, scripts and HTML
// templates. Implementations may load from filesystem, embedded assets, a
// database, etc.
//
// The library provides NewAssetLoader() for filesystem-based loading with
// fallback to embedded defaults. Implement this interface for custom backends.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// LoadScript loads a JavaScript asset by name (without .js extension).
	// Returns ErrScriptNotFound if the script doesn't exist.
	LoadScript(name string) (string, error)

	// LoadTemplateSet loads the root, notes and index layouts by name.
	// Returns ErrTemplateSetNotFound if the template set doesn't exist.
	// Returns ErrIncompleteTemplateSet if required templates are missing.
	LoadTemplateSet(name string) (*TemplateSet, error)
}

// TemplateSet holds the html/template layouts of a site.
// Root declares a "content" block that Notes and Index define.
type TemplateSet struct {
	Name  string // Identifier (name or path)
	Root  string // Document shell: head, main column, footer
	Notes string // Note page content block
	Index string // Index page content block
}

// NewTemplateSet creates a TemplateSet from layout content.
// This is a convenience constructor for users providing templates directly.
func NewTemplateSet(name, root, notes, index string) *TemplateSet {
	return &TemplateSet{
		Name:  name,
		Root:  root,
		Notes: notes,
		Index: index,
	}
}

// EmbeddedStyles lists the built-in style names.
func EmbeddedStyles() []string {
	return assets.EmbeddedStyles()
}

// NewAssetLoader creates an AssetLoader for the given base path.
// If basePath is empty, returns a loader using only embedded assets.
// If basePath is set, custom assets take precedence with fallback to embedded.
//
// The basePath directory should contain:
//   - styles/{name}.css for CSS styles
//   - scripts/{name}.js for scripts
//   - templates/{name}/root.html, notes.html and index.html for template sets
//
// Returns ErrInvalidAssetPath if basePath is set but not a valid, readable directory.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	resolver, err := assets.NewAssetResolver(basePath)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &assetLoaderAdapter{resolver: resolver}, nil
}

// assetLoaderAdapter wraps internal AssetResolver to return public types.
type assetLoaderAdapter struct {
	resolver *assets.AssetResolver
}

func (a *assetLoaderAdapter) LoadStyle(name string) (string, error) {
	content, err := a.resolver.LoadStyle(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

func (a *assetLoaderAdapter) LoadScript(name string) (string, error) {
	content, err := a.resolver.LoadScript(name)
	if err != nil {
		return "", convertAssetError(err)
	}
	return content, nil
}

func (a *assetLoaderAdapter) LoadTemplateSet(name string) (*TemplateSet, error) {
	ts, err := a.resolver.LoadTemplateSet(name)
	if err != nil {
		return nil, convertAssetError(err)
	}
	return &TemplateSet{
		Name:  ts.Name,
		Root:  ts.Root,
		Notes: ts.Notes,
		Index: ts.Index,
	}, nil
}

func toInternalTemplateSet(ts *TemplateSet) *assets.TemplateSet {
	if ts == nil {
		return nil
	}
	return &assets.TemplateSet{
		Name:  ts.Name,
		Root:  ts.Root,
		Notes: ts.Notes,
		Index: ts.Index,
	}
}

// convertAssetError maps internal asset errors to public errors.
// Errors already carrying a public sentinel pass through.
func convertAssetError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, assets.ErrStyleNotFound):
		return wrapError(ErrStyleNotFound, err)
	case errors.Is(err, assets.ErrScriptNotFound):
		return wrapError(ErrScriptNotFound, err)
	case errors.Is(err, assets.ErrTemplateSetNotFound):
		return wrapError(ErrTemplateSetNotFound, err)
	case errors.Is(err, assets.ErrIncompleteTemplateSet):
		return wrapError(ErrIncompleteTemplateSet, err)
	case errors.Is(err, assets.ErrInvalidBasePath):
		return wrapError(ErrInvalidAssetPath, err)
	case errors.Is(err, assets.ErrPathTraversal):
		return wrapError(ErrInvalidAssetPath, err)
	case errors.Is(err, assets.ErrInvalidAssetName):
		return wrapError(ErrStyleNotFound, err) // Invalid name means not found
	default:
		return err
	}
}

// wrapError creates a new error that wraps the original with a public sentinel.
// The resulting error preserves the original message via Error() and supports
// errors.Is() matching against the public sentinel via Unwrap().
func wrapError(sentinel, original error) error {
	return &sentinelError{sentinel: sentinel, original: original}
}

type sentinelError struct {
	sentinel error
	original error
}

func (e *sentinelError) Error() string {
	return e.original.Error()
}

// Unwrap returns the public sentinel for errors.Is() matching.
// Internal errors are not exposed since they're in internal/ packages.
func (e *sentinelError) Unwrap() error {
	return e.sentinel
}
