package assets

import (
	"errors"
	"fmt"
	"io/fs"
)

// TemplateSet holds the layout templates of a site.
// Root defines the document and a "content" block; Notes and Index fill it.
type TemplateSet struct {
	Name  string // Identifier (name or directory path)
	Root  string // root.html
	Notes string // notes.html
	Index string // index.html
}

// DefaultTemplateSetName is the name of the built-in template set.
const DefaultTemplateSetName = "default"

// DefaultStyleName is the name of the built-in CSS style.
const DefaultStyleName = "default"

// Built-in script names.
const (
	ProgressScript = "progress"
	RouterScript   = "router"
)

// templateFiles lists the files a template set directory must contain.
var templateFiles = []string{"root.html", "notes.html", "index.html"}

// readTemplateSet reads every template file of a set through read, which is
// given a file name relative to the set directory.
func readTemplateSet(name string, read func(file string) ([]byte, error)) (*TemplateSet, error) {
	contents := make([]string, len(templateFiles))
	var missing []string

	for i, file := range templateFiles {
		data, err := read(file)
		if err != nil {
			if errors.Is(err, ErrPathTraversal) {
				return nil, err
			}
			if errors.Is(err, fs.ErrNotExist) {
				missing = append(missing, file)
				continue
			}
			return nil, fmt.Errorf("%w: reading %s: %v", ErrAssetRead, file, err)
		}
		contents[i] = string(data)
	}

	if len(missing) == len(templateFiles) {
		return nil, fmt.Errorf("%w: %q", ErrTemplateSetNotFound, name)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %q missing %s", ErrIncompleteTemplateSet, name, missing[0])
	}

	return &TemplateSet{
		Name:  name,
		Root:  contents[0],
		Notes: contents[1],
		Index: contents[2],
	}, nil
}
