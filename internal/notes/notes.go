// Package notes parses note sources: YAML front matter, slug, title and date.
package notes

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/goliatone/go-slug"

	"github.com/alnah/go-mdsite/internal/dateutil"
)

// Sentinel errors for note parsing.
var (
	ErrFrontMatter = errors.New("invalid front matter")
	ErrInvalidSlug = errors.New("invalid slug")
)

// Note is a parsed note source.
type Note struct {
	SourcePath string // slash-separated, relative to the content root
	Slug       string
	Title      string
	Summary    string
	Date       time.Time
	Draft      bool
	Tags       []string
	Body       []byte // Markdown without front matter
}

// frontMatter is the YAML header of a note. Unknown keys are ignored.
type frontMatter struct {
	Title   string   `yaml:"title"`
	Slug    string   `yaml:"slug"`
	Summary string   `yaml:"summary"`
	Date    string   `yaml:"date"`
	Draft   bool     `yaml:"draft"`
	Tags    []string `yaml:"tags"`
}

// Parse reads a note source. relPath locates the note under the content
// root and provides the slug and title fallbacks. The title may still be
// empty; see ApplyTitleFallback.
func Parse(relPath string, source []byte) (*Note, error) {
	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFrontMatter, relPath, err)
	}

	relPath = path.Clean(strings.ReplaceAll(relPath, "\\", "/"))

	slugSource := meta.Slug
	if slugSource == "" {
		slugSource = baseName(relPath)
	}
	s, err := Slugify(slugSource)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", relPath, err)
	}

	date, err := dateutil.ParseDate(meta.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFrontMatter, relPath, err)
	}

	return &Note{
		SourcePath: relPath,
		Slug:       s,
		Title:      strings.TrimSpace(meta.Title),
		Summary:    strings.TrimSpace(meta.Summary),
		Date:       date,
		Draft:      meta.Draft,
		Tags:       cleanTags(meta.Tags),
		Body:       body,
	}, nil
}

// Slugify normalizes a name into a URL slug ("Hello World" -> "hello-world").
func Slugify(name string) (string, error) {
	s, err := slug.Normalize(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidSlug, name, err)
	}
	if s == "" {
		return "", fmt.Errorf("%w: %q normalizes to nothing", ErrInvalidSlug, name)
	}
	return s, nil
}

// ApplyTitleFallback fills an empty title with firstHeading, then with the
// file name.
func (n *Note) ApplyTitleFallback(firstHeading string) {
	if n.Title != "" {
		return
	}
	if h := strings.TrimSpace(firstHeading); h != "" {
		n.Title = h
		return
	}
	n.Title = baseName(n.SourcePath)
}

// Dir returns the site directory of the source file, with leading and
// trailing slashes ("/" for the content root).
func (n *Note) Dir() string {
	dir := path.Dir(n.SourcePath)
	if dir == "." || dir == "/" {
		return "/"
	}
	return "/" + strings.Trim(dir, "/") + "/"
}

// Route returns the page route of the note under prefix ("/n/<slug>").
func (n *Note) Route(prefix string) string {
	return strings.TrimRight(prefix, "/") + "/" + n.Slug
}

// Key places a note in the index.
type Key struct {
	Date  time.Time
	Title string
	ID    string // slug or route, the last tie-breaker
}

// Sort orders items newest first by their keys. Items with equal dates are
// ordered by title, then ID. Undated items sort last.
func Sort[T any](items []T, key func(T) Key) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := key(items[i]), key(items[j])
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})
}

// Claim pairs a key, such as a route or an output file, with the name of the
// source that claims it.
type Claim struct {
	Key  string
	Name string
}

// Clash is a key claimed by more than one source.
type Clash struct {
	Key   string
	Names []string
}

func (c Clash) String() string {
	return c.Key + " (" + strings.Join(c.Names, ", ") + ")"
}

// Clashes returns the keys claimed more than once, sorted by key. Names keep
// the order of claims.
func Clashes(claims []Claim) []Clash {
	byKey := make(map[string][]string, len(claims))
	for _, c := range claims {
		byKey[c.Key] = append(byKey[c.Key], c.Name)
	}
	var out []Clash
	for key, names := range byKey {
		if len(names) > 1 {
			out = append(out, Clash{Key: key, Names: names})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func baseName(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

func cleanTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
