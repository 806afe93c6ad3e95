package main

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/alnah/go-mdsite/internal/fileutil"
)

// sourceFile is a file under the content root.
type sourceFile struct {
	Path string // OS path, usable with os.Open
	Rel  string // Slash-separated path relative to the content root
}

// siteSources are the files a build consumes.
type siteSources struct {
	Notes  []sourceFile
	Static []sourceFile
}

// discoverSources walks root in lexical order. Hidden entries, non-regular
// files and the output directory (when nested in root) are skipped.
// Markdown files are notes; every other file is copied as is.
func discoverSources(root, outputDir string) (*siteSources, error) {
	skipDir := ""
	if outputDir != "" {
		if abs, err := filepath.Abs(outputDir); err == nil {
			skipDir = abs
		}
	}

	src := &siteSources{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if fileutil.IsHidden(rel) || isSameDir(path, skipDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if fileutil.IsHidden(rel) || !d.Type().IsRegular() {
			return nil
		}

		f := sourceFile{Path: path, Rel: rel}
		if fileutil.IsMarkdown(path) {
			src.Notes = append(src.Notes, f)
		} else {
			src.Static = append(src.Static, f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return src, nil
}

func isSameDir(path, abs string) bool {
	if abs == "" {
		return false
	}
	p, err := filepath.Abs(path)
	return err == nil && p == abs
}
