package mdsite

import (
	"time"
)

// Input contains the parameters of a single note render.
type Input struct {
	Markdown   string // Note source including optional front matter (required)
	SourcePath string // Slash-separated path under the content root, e.g. "travel/kyoto.md" (required)
}

// Page is a rendered note.
type Page struct {
	Slug     string
	Route    string // Site path of the page, e.g. "/n/kyoto"
	Title    string
	Summary  string
	Date     time.Time
	Draft    bool
	Tags     []string
	Headings []Heading
	Body     string // HTML fragment of the note body
	HTML     []byte // Full document
}

// Entry returns the index entry of the page.
func (p *Page) Entry() NoteEntry {
	return NoteEntry{
		Title: p.Title,
		Route: p.Route,
		Date:  p.Date,
		Draft: p.Draft,
	}
}

// Heading is a section heading of a rendered note.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// NoteEntry is one note in the index page.
type NoteEntry struct {
	Title string
	Route string
	Date  time.Time
	Draft bool
}

// Site configures the chrome shared by every page.
type Site struct {
	Title         string // Default page title
	TitleTemplate string // Applied to note titles; one %s verb, e.g. "%s | Notes"
	Description   string
	BaseURL       string // Absolute URL for canonical links (optional)
	Lang          string
	Brand         string // Notes header label, followed by the year
	BackLabel     string // Notes back-to-home link text
	Footer        []Link
	AnalyticsSrc  string // Deferred analytics script URL (optional)
}

// DefaultSite returns a neutral site configuration.
func DefaultSite() Site {
	return Site{
		Title:     "Notes",
		Lang:      "en",
		Brand:     "NOTES",
		BackLabel: "Home",
	}
}

// Link represents a labelled site link.
type Link struct {
	Label string
	URL   string
}
