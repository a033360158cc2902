// Package export renders publication records as BibTeX.
package export

import (
	"fmt"
	"strings"

	"github.com/ytian/autoscholar/internal/scholar"
)

// Snippet converts one publication record to a BibTeX entry.
//
// The entry type and venue field follow the record's fields: a journal
// publication becomes @article, a conference publication @inproceedings,
// and anything else @misc (note when only the citation line is known,
// howpublished otherwise). Callers pass display-ready values: bib.Author
// and bib.Title already defaulted, and venue already stripped of a
// trailing year. venue is what lands in the venue field.
func Snippet(bib scholar.Bib, key, venue string) string {
	fields := []string{
		fmt.Sprintf("author = {%s}", bib.Author),
		fmt.Sprintf("title = {%s}", bib.Title),
	}

	switch {
	case bib.Journal != "":
		fields = append(fields, fmt.Sprintf("journal = {%s}", venue))
		if bib.Volume != "" {
			fields = append(fields, fmt.Sprintf("volume = {%s}", bib.Volume))
		}
		if bib.Number != "" {
			fields = append(fields, fmt.Sprintf("number = {%s}", bib.Number))
		}
		if bib.Pages != "" {
			fields = append(fields, fmt.Sprintf("pages = {%s}", bib.Pages))
		}
	case bib.Conference != "":
		fields = append(fields, fmt.Sprintf("booktitle = {%s}", venue))
		if bib.Publisher != "" {
			fields = append(fields, fmt.Sprintf("publisher = {%s}", bib.Publisher))
		}
		if bib.Pages != "" {
			fields = append(fields, fmt.Sprintf("pages = {%s}", bib.Pages))
		}
	case bib.Citation != "":
		fields = append(fields, fmt.Sprintf("note = {%s}", venue))
		if bib.Publisher != "" {
			fields = append(fields, fmt.Sprintf("publisher = {%s}", bib.Publisher))
		}
		if bib.Pages != "" {
			fields = append(fields, fmt.Sprintf("pages = {%s}", bib.Pages))
		}
	default:
		fields = append(fields, fmt.Sprintf("howpublished = {%s}", venue))
	}

	fields = append(fields, fmt.Sprintf("year = {%s}", bib.Year))

	var b strings.Builder
	b.WriteString(entryType(bib))
	b.WriteString("{")
	b.WriteString(key)
	b.WriteString(",\n  ")
	b.WriteString(strings.Join(fields, ",\n  "))
	b.WriteString("\n}")
	return b.String()
}

// SnippetList joins entries into the contents of a .bib file.
func SnippetList(snippets []string) string {
	if len(snippets) == 0 {
		return ""
	}
	return strings.Join(snippets, "\n\n") + "\n"
}

// entryType returns the BibTeX entry type for a record.
func entryType(bib scholar.Bib) string {
	switch {
	case bib.Journal != "":
		return "@article"
	case bib.Conference != "":
		return "@inproceedings"
	default:
		return "@misc"
	}
}
