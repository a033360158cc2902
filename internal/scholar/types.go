// Package scholar provides a client for Google Scholar profile pages.
package scholar

// Author is a researcher profile as listed on Google Scholar.
type Author struct {
	Name         string
	Publications []Publication
}

// Publication is one entry from a profile's publication table.
//
// The profile row carries only the title, the year column, and a link to
// the citation detail page, plus the row's citation line (venue + year as
// one string). The remaining Bib fields are populated by
// Client.FillPublication from the detail page.
type Publication struct {
	DetailPath string // citation-detail link from the profile row, relative to the host
	PubURL     string // public link from the detail page, "" if absent
	Bib        Bib
}

// Bib holds the bibliographic fields for one publication. An empty string
// means the field was absent on the page; callers apply display defaults,
// absence never fails.
//
// Journal and Conference are rarely both set; Journal wins for
// classification. Citation is the profile row's venue line and frequently
// embeds the year as a ", {year}" suffix; venue cleanup happens at format
// time, not here.
type Bib struct {
	Author     string // full author list joined by " and "
	Title      string
	Year       string // publication year, "" when the page has no date
	Journal    string
	Conference string
	Citation   string
	Volume     string
	Number     string
	Pages      string
	Publisher  string
}

// Venue returns the preferred venue string: journal, else conference, else
// the citation line. Empty when the record carries no venue at all.
func (b Bib) Venue() string {
	if b.Journal != "" {
		return b.Journal
	}
	if b.Conference != "" {
		return b.Conference
	}
	return b.Citation
}

// IsJournal reports whether the record was published in a journal. Records
// that are neither journal nor conference still classify as conference for
// grouping and rendering.
func (b Bib) IsJournal() bool {
	return b.Journal != ""
}
