package mdx

import (
	"path"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var siteDirKey = parser.NewContextKey()

// SetSiteDir records the site directory ("/" or "/travel/") that relative
// link targets and image sources of the parsed document resolve against.
func SetSiteDir(pc parser.Context, dir string) {
	pc.Set(siteDirKey, dir)
}

func siteDirOf(pc parser.Context) (string, bool) {
	if pc == nil {
		return "", false
	}
	dir, ok := pc.Get(siteDirKey).(string)
	return dir, ok && dir != ""
}

// pathTransformer rewrites link and image destinations before rendering so
// the link rules classify the final target. Relative Markdown links become
// note routes; other relative targets are resolved against the site
// directory of the note.
type pathTransformer struct {
	route     string
	imageBase string
}

// Transform implements parser.ASTTransformer.
func (t *pathTransformer) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	dir, hasDir := siteDirOf(pc)
	if t.route == "" && !hasDir {
		return
	}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Link:
			if dest, ok := NoteRoute(t.route, string(n.Destination)); ok {
				n.Destination = []byte(dest)
			} else if dest, ok := SitePath(dir, string(n.Destination)); hasDir && ok {
				n.Destination = []byte(dest)
			}
		case *ast.Image:
			if dest, ok := SitePath(dir, string(n.Destination)); hasDir && ok {
				n.Destination = []byte(t.imageBase + dest)
			}
		}
		return ast.WalkContinue, nil
	})
}

// NoteRoute maps a relative Markdown link such as "../drafts/My Note.md#intro"
// to "<route>/my-note#intro". It reports false for absolute paths, anchors,
// URLs with a scheme and non-Markdown targets.
func NoteRoute(route, dest string) (string, bool) {
	if route == "" || dest == "" {
		return "", false
	}
	if strings.HasPrefix(dest, "/") || strings.HasPrefix(dest, "#") || hasScheme(dest) {
		return "", false
	}

	target, fragment := dest, ""
	if idx := strings.IndexByte(dest, '#'); idx != -1 {
		target, fragment = dest[:idx], dest[idx:]
	}

	ext := strings.ToLower(path.Ext(target))
	if ext != ".md" && ext != ".markdown" {
		return "", false
	}

	name := strings.TrimSuffix(path.Base(target), path.Ext(target))
	s, err := slug.Normalize(name)
	if err != nil || s == "" {
		return "", false
	}

	return strings.TrimRight(route, "/") + "/" + s + fragment, true
}

// SitePath joins a relative reference onto the site directory dir, keeping
// any query or fragment. It reports false for anchors, queries, absolute
// paths and URLs, and for paths that would climb above the site root.
func SitePath(dir, ref string) (string, bool) {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "/") ||
		strings.HasPrefix(ref, "?") || hasScheme(ref) {
		return "", false
	}

	p, suffix := ref, ""
	if idx := strings.IndexAny(ref, "?#"); idx != -1 {
		p, suffix = ref[:idx], ref[idx:]
	}

	joined := path.Join(strings.Trim(dir, "/"), p)
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return "", false
	}
	if joined == "." {
		joined = ""
	}
	if strings.HasSuffix(p, "/") && joined != "" {
		joined += "/"
	}
	return "/" + joined + suffix, true
}

// hasScheme reports whether dest starts with a URL scheme ("https:", "mailto:").
func hasScheme(dest string) bool {
	colon := strings.IndexByte(dest, ':')
	if colon <= 0 {
		return false
	}
	slash := strings.IndexAny(dest, "/?#")
	return slash == -1 || colon < slash
}
