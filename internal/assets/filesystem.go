package assets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-mdsite/internal/fileutil"
)

// FilesystemLoader loads assets from a directory on disk. Reads never leave
// the directory, including through symlinks.
type FilesystemLoader struct {
	reader
	root string
}

// NewFilesystemLoader creates a FilesystemLoader rooted at dir.
// Returns ErrInvalidBasePath if dir is not a readable directory.
func NewFilesystemLoader(dir string) (*FilesystemLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	// Containment is checked on resolved paths, so the root is resolved too.
	if real, err := filepath.EvalSymlinks(root); err == nil {
		root = real
	}

	if !fileutil.DirExists(root) {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, root)
	}
	if _, err := os.ReadDir(root); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	l := &FilesystemLoader{root: root}
	l.reader = reader{read: l.readFile}
	return l, nil
}

func (l *FilesystemLoader) readFile(rel string) ([]byte, error) {
	p, err := fileutil.JoinInRoot(l.root, rel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPathTraversal, err)
	}
	if real, err := filepath.EvalSymlinks(p); err == nil && !fileutil.Within(l.root, real) {
		return nil, fmt.Errorf("%w: %s resolves outside %s", ErrPathTraversal, rel, l.root)
	}
	return os.ReadFile(p) // #nosec G304 -- confined to root above
}

var _ AssetLoader = (*FilesystemLoader)(nil)
