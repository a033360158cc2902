package publication

import "strings"

// FormatAuthors turns a BibTeX author list ("A and B and C") into display
// form ("A, B and C"), wrapping every author containing the researcher's
// name in <b> tags. An empty list renders as NoAuthor.
func FormatAuthors(authors, researcher string) string {
	if authors == "" {
		return NoAuthor
	}

	var formatted []string
	for _, author := range strings.Split(authors, " and ") {
		author = strings.Trim(strings.TrimSpace(author), ",")
		if author == "" {
			continue
		}
		if researcher != "" && strings.Contains(author, researcher) {
			author = "<b>" + author + "</b>"
		}
		formatted = append(formatted, author)
	}

	switch len(formatted) {
	case 0:
		return NoAuthor
	case 1:
		return formatted[0]
	}
	return strings.Join(formatted[:len(formatted)-1], ", ") + " and " + formatted[len(formatted)-1]
}
