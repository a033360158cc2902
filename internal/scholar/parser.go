package scholar

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parseProfileName extracts the researcher's display name from a profile
// page. An empty name means the profile does not exist (Scholar serves a
// 200 shell for unknown IDs in some regions).
func parseProfileName(doc *goquery.Document) (string, error) {
	name := strings.TrimSpace(doc.Find("#gsc_prf_in").First().Text())
	if name == "" {
		return "", fmt.Errorf("%w: profile has no name", ErrNotFound)
	}
	return name, nil
}

// parseProfileRows extracts the publication rows from a profile page. Each
// row carries the title, the link to its citation detail page, the year
// column, and the two gray lines (author list, then the venue/citation
// line that embeds the year).
func parseProfileRows(doc *goquery.Document) []Publication {
	var pubs []Publication

	doc.Find("#gsc_a_b .gsc_a_tr").Each(func(_ int, row *goquery.Selection) {
		var pub Publication

		link := row.Find("td.gsc_a_t a.gsc_a_at").First()
		pub.Bib.Title = strings.TrimSpace(link.Text())
		if href, ok := link.Attr("href"); ok {
			pub.DetailPath = href
		}
		pub.Bib.Year = strings.TrimSpace(row.Find("td.gsc_a_y span").First().Text())

		gray := row.Find("td.gsc_a_t div.gs_gray")
		if gray.Length() > 0 {
			pub.Bib.Author = joinAuthors(gray.Eq(0).Text())
		}
		if gray.Length() > 1 {
			pub.Bib.Citation = strings.TrimSpace(gray.Eq(1).Text())
		}

		pubs = append(pubs, pub)
	})

	return pubs
}

// parseCitationPage fills a publication's Bib from its detail page. Fields
// already present from the profile row are only overwritten when the
// detail page has a value.
func parseCitationPage(doc *goquery.Document, pub *Publication) error {
	title := doc.Find("#gsc_oci_title").First()
	if t := strings.TrimSpace(title.Text()); t != "" {
		pub.Bib.Title = t
	}
	if href, ok := title.Find("a.gsc_oci_title_link").Attr("href"); ok {
		pub.PubURL = href
	}

	table := doc.Find("#gsc_oci_table div.gs_scl")
	if table.Length() == 0 {
		return fmt.Errorf("%w: citation page has no field table", ErrInvalidResponse)
	}

	table.Each(func(_ int, field *goquery.Selection) {
		label := strings.TrimSpace(field.Find("div.gsc_oci_field").Text())
		value := strings.TrimSpace(field.Find("div.gsc_oci_value").Text())
		if value == "" {
			return
		}

		switch label {
		case "Authors", "Inventors":
			pub.Bib.Author = joinAuthors(value)
		case "Publication date":
			pub.Bib.Year = yearOf(value)
		case "Journal", "Source":
			pub.Bib.Journal = value
		case "Conference":
			pub.Bib.Conference = value
		case "Volume":
			pub.Bib.Volume = value
		case "Issue":
			pub.Bib.Number = value
		case "Pages":
			pub.Bib.Pages = value
		case "Publisher":
			pub.Bib.Publisher = value
		}
	})

	return nil
}

// joinAuthors converts Scholar's comma-separated author line into the
// BibTeX "A and B and C" form.
func joinAuthors(line string) string {
	parts := strings.Split(line, ", ")
	var authors []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			authors = append(authors, p)
		}
	}
	return strings.Join(authors, " and ")
}

// yearOf extracts the year from a Scholar publication date ("2021/3/15").
func yearOf(date string) string {
	if i := strings.IndexByte(date, '/'); i >= 0 {
		return strings.TrimSpace(date[:i])
	}
	return strings.TrimSpace(date)
}

// isCaptchaPage reports whether Scholar served a bot-check interstitial
// instead of content.
func isCaptchaPage(doc *goquery.Document) bool {
	if doc.Find("#gs_captcha_ccl").Length() > 0 {
		return true
	}
	if doc.Find("form#captcha-form").Length() > 0 {
		return true
	}
	return strings.Contains(doc.Find("body").Text(), "unusual traffic from your computer network")
}
