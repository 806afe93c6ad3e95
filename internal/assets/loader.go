package assets

import (
	"errors"
	"fmt"
	"io/fs"
)

// AssetLoader defines the contract for loading stylesheets, layout templates
// and page scripts.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadTemplateSet loads the layout templates of a set by name.
	// Returns ErrTemplateSetNotFound if the set doesn't exist.
	// Returns ErrIncompleteTemplateSet if some of its templates are missing.
	LoadTemplateSet(name string) (*TemplateSet, error)

	// LoadScript loads a page script by name (without .js extension).
	// Returns ErrScriptNotFound if the script doesn't exist.
	LoadScript(name string) (string, error)
}

// readFunc reads a slash-separated path relative to an asset root.
// Missing files are reported with an error wrapping fs.ErrNotExist.
type readFunc func(rel string) ([]byte, error)

// fileKind locates single-file assets under the asset root.
type fileKind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleFile  = fileKind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	scriptFile = fileKind{dir: "scripts", ext: ".js", notFound: ErrScriptNotFound}
)

// reader implements AssetLoader on top of a readFunc. EmbeddedLoader and
// FilesystemLoader differ only in how they read.
type reader struct {
	read readFunc
}

func (r reader) LoadStyle(name string) (string, error) {
	return r.loadFile(styleFile, name)
}

func (r reader) LoadScript(name string) (string, error) {
	return r.loadFile(scriptFile, name)
}

func (r reader) LoadTemplateSet(name string) (*TemplateSet, error) {
	if err := ValidateAssetName(name); err != nil {
		return nil, err
	}
	return readTemplateSet(name, func(file string) ([]byte, error) {
		return r.read("templates/" + name + "/" + file)
	})
}

func (r reader) loadFile(kind fileKind, name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	data, err := r.read(kind.dir + "/" + name + kind.ext)
	switch {
	case err == nil:
		return string(data), nil
	case errors.Is(err, ErrPathTraversal):
		return "", err
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %q", kind.notFound, name)
	default:
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
}
