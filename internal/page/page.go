// Package page assembles rendered publication entries into the final HTML
// document.
package page

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ytian/autoscholar/internal/publication"
)

// Section headings, in page order.
const (
	JournalHeading    = "Peer Reviewed Journal Publications"
	ConferenceHeading = "Peer Reviewed Conference Publications"
)

// EmptyContent is rendered when no entry survived processing.
const EmptyContent = "<p>No publications available.</p>"

// Group splits entries into the journal and conference sections,
// preserving input order within each.
func Group(entries []publication.Entry) (journals, conferences []publication.Entry) {
	for _, e := range entries {
		if e.Category == publication.CategoryJournal {
			journals = append(journals, e)
		} else {
			conferences = append(conferences, e)
		}
	}
	return journals, conferences
}

// SortByYearDesc orders entries newest first. The sort is stable, so
// records from the same year keep their profile order. Entries with no
// year sort last.
func SortByYearDesc(entries []publication.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Year > entries[j].Year
	})
}

// Assemble renders the page body: the journal section first, then the
// conference section, each newest first. A section with no entries is
// omitted; a page with no entries at all gets a short notice instead.
func Assemble(entries []publication.Entry) string {
	journals, conferences := Group(entries)
	SortByYearDesc(journals)
	SortByYearDesc(conferences)

	var b strings.Builder
	if len(journals) > 0 {
		b.WriteString(section(JournalHeading, journals))
	}
	if len(conferences) > 0 {
		b.WriteString(section(ConferenceHeading, conferences))
	}
	if b.Len() == 0 {
		return EmptyContent
	}
	return b.String()
}

// section wraps a group of entries in a heading and an ordered list.
func section(heading string, entries []publication.Entry) string {
	items := make([]string, len(entries))
	for i, e := range entries {
		items[i] = e.HTML
	}
	return fmt.Sprintf("<h3 class=\"push-down-4\"><span>%s</span></h3>\n<ol>\n%s\n</ol>\n",
		heading, strings.Join(items, "\n"))
}
