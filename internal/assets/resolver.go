package assets

import "errors"

// AssetResolver serves assets from a custom directory first and falls back
// to the embedded assets for anything the directory does not provide.
// Only "not found" errors fall back; invalid names and I/O failures are
// returned as is.
type AssetResolver struct {
	custom   AssetLoader // nil without a custom directory
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver. An empty customDir serves the
// embedded assets only.
func NewAssetResolver(customDir string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customDir != "" {
		fsLoader, err := NewFilesystemLoader(customDir)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return withFallback(r, func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

func (r *AssetResolver) LoadScript(name string) (string, error) {
	return withFallback(r, func(l AssetLoader) (string, error) { return l.LoadScript(name) })
}

func (r *AssetResolver) LoadTemplateSet(name string) (*TemplateSet, error) {
	return withFallback(r, func(l AssetLoader) (*TemplateSet, error) { return l.LoadTemplateSet(name) })
}

func withFallback[T any](r *AssetResolver, load func(AssetLoader) (T, error)) (T, error) {
	if r.custom != nil {
		v, err := load(r.custom)
		if err == nil || !isNotFoundError(err) {
			return v, err
		}
	}
	return load(r.embedded)
}

// isNotFoundError reports whether err means the asset does not exist.
// An incomplete template set is not "not found": it was found and is broken.
func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) ||
		errors.Is(err, ErrScriptNotFound) ||
		errors.Is(err, ErrTemplateSetNotFound)
}

var _ AssetLoader = (*AssetResolver)(nil)
