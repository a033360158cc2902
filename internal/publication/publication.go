// Package publication classifies publication records and renders them as
// entries for the generated page.
package publication

import (
	"fmt"
	"strings"

	"github.com/ytian/autoscholar/internal/export"
	"github.com/ytian/autoscholar/internal/scholar"
)

// Display defaults for records with missing fields. A record is never
// rejected for being incomplete; it renders with these placeholders.
const (
	NoAuthor = "No Author"
	NoTitle  = "No Title"
	NoVenue  = "No Venue"
)

// Category is the page section a record belongs to.
type Category string

const (
	CategoryJournal    Category = "journal"
	CategoryConference Category = "conference"
)

// Classify buckets a record: journal when the journal field is present,
// conference otherwise. Records with no venue fields at all still land in
// the conference section; only their BibTeX type differs.
func Classify(bib scholar.Bib) Category {
	if bib.IsJournal() {
		return CategoryJournal
	}
	return CategoryConference
}

// Entry is one publication rendered for the page.
type Entry struct {
	Year     string // raw year string used for ordering, "" when unknown
	Category Category
	HTML     string // complete <li> element
	BibTeX   string // raw snippet, also embedded in HTML
}

// Format renders a filled publication as a page entry. n is the record's
// 1-based position in the profile listing; it seeds the citation key
// fallback and the DOM id of the entry's BibTeX block.
func Format(pub scholar.Publication, n int, researcher string) Entry {
	bib := pub.Bib

	authors := bib.Author
	if authors == "" {
		authors = NoAuthor
	}
	title := bib.Title
	if title == "" {
		title = NoTitle
	}
	venue := bib.Venue()
	if venue == "" {
		venue = NoVenue
	}
	venue = cleanVenue(venue, bib.Year)

	pubURL := pub.PubURL
	if pubURL == "" {
		pubURL = "#"
	}

	key := CitationKey(authors, title, bib.Year, n)

	// The snippet carries the same display defaults as the entry text.
	sbib := bib
	sbib.Author = authors
	sbib.Title = title
	snippet := export.Snippet(sbib, key, venue)
	codeID := fmt.Sprintf("code%d", n)
	category := Classify(bib)

	html := fmt.Sprintf(`
    <li>
       %s %s. <i>%s.</i>
        <a href="%s" target="_blank">%s</a>, %s.
        [<button data-copy="%s" class="copy-btn">BibTex</button>]
        <pre id="%s" class="bibtex-source">%s</pre>
    </li>
`, categoryTag(category), FormatAuthors(authors, researcher), title,
		pubURL, venue, bib.Year, codeID, codeID, snippet)

	return Entry{
		Year:     bib.Year,
		Category: category,
		HTML:     html,
		BibTeX:   snippet,
	}
}

// CitationKey builds a BibTeX key from the first word of the author list,
// the year, and the first word of the title, all lowercased. When neither
// names nor title yield a word, the key falls back to "pub{n}".
func CitationKey(authors, title, year string, n int) string {
	authorWords := strings.Fields(authors)
	titleWords := strings.Fields(title)
	if len(authorWords) == 0 || len(titleWords) == 0 {
		return fmt.Sprintf("pub%d", n)
	}

	name := strings.Trim(strings.ToLower(authorWords[0]), ",")
	word := strings.ToLower(titleWords[0])
	return name + year + word
}

// cleanVenue strips a trailing ", {year}" or " {year}" from a venue
// string. Profile-row citation lines embed the year; without this the
// rendered entry would show the year twice.
func cleanVenue(venue, year string) string {
	if year == "" {
		return venue
	}
	if trimmed := strings.TrimSuffix(venue, ", "+year); trimmed != venue {
		return trimmed
	}
	if trimmed := strings.TrimSuffix(venue, " "+year); trimmed != venue {
		return trimmed
	}
	return venue
}

// categoryTag returns the colored badge markup for a section.
func categoryTag(c Category) string {
	switch c {
	case CategoryJournal:
		return `<span class="pub-tag journal"><i class="fas fa-book-open"></i> Journal</span>`
	case CategoryConference:
		return `<span class="pub-tag conference"><i class="fas fa-users"></i> Conference</span>`
	}
	return ""
}
