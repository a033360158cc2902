// Package pipeline orchestrates a full page generation run: fetch the
// profile, fill each publication, format entries, assemble the page, and
// write the output files.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/ytian/autoscholar/internal/config"
	"github.com/ytian/autoscholar/internal/export"
	"github.com/ytian/autoscholar/internal/page"
	"github.com/ytian/autoscholar/internal/publication"
	"github.com/ytian/autoscholar/internal/scholar"
)

// ErrNoPublications is returned when the profile exists but lists nothing.
var ErrNoPublications = errors.New("no publications found for this author")

// Source fetches profile data. *scholar.Client satisfies it; tests provide
// a stub.
type Source interface {
	FetchAuthor(ctx context.Context, userID string) (*scholar.Author, error)
	FillPublication(ctx context.Context, pub scholar.Publication) (*scholar.Publication, error)
}

// Options configure one generation run.
type Options struct {
	ScholarID    string
	Researcher   string // name to bold in author lists; "" uses the profile name
	OutputPath   string
	TemplatePath string // "" uses the built-in template
	BibTeXPath   string // "" skips the .bib file
}

// Result summarizes a completed run.
type Result struct {
	Author      string `json:"author"`
	Total       int    `json:"publications"`
	Journals    int    `json:"journal_count"`
	Conferences int    `json:"conference_count"`
	Skipped     int    `json:"skipped,omitempty"`
	OutputPath  string `json:"output"`
	BibTeXPath  string `json:"bibtex,omitempty"`
}

// Runner drives a generation run. Out receives progress lines and Errs
// per-record warnings; either may be nil to silence that stream. Delay
// runs between detail fetches and defaults to DefaultDelay.
type Runner struct {
	Source Source
	Out    io.Writer
	Errs   io.Writer
	Delay  func()
}

// Run generates the publications page.
//
// A profile that cannot be fetched, or one with zero publications, fails
// the run. A publication whose detail page cannot be fetched is skipped
// with a warning; the page is still generated from the rest.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	errs := r.Errs
	if errs == nil {
		errs = io.Discard
	}
	delay := r.Delay
	if delay == nil {
		delay = DefaultDelay
	}

	fmt.Fprintf(out, "Fetching author profile for ID: %s...\n", opts.ScholarID)
	author, err := r.Source.FetchAuthor(ctx, opts.ScholarID)
	if err != nil {
		return nil, fmt.Errorf("could not fetch author profile: %w", err)
	}
	fmt.Fprintf(out, "Found author: %s\n", author.Name)

	pubs := author.Publications
	if len(pubs) == 0 {
		return nil, ErrNoPublications
	}
	fmt.Fprintf(out, "Found %d publications. Fetching details...\n", len(pubs))

	researcher := opts.Researcher
	if researcher == "" {
		researcher = author.Name
	}

	var entries []publication.Entry
	skipped := 0
	for i, pub := range pubs {
		filled, err := r.Source.FillPublication(ctx, pub)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			fmt.Fprintf(errs, "warning: could not process publication %d/%d: %v\n", i+1, len(pubs), err)
			skipped++
			continue
		}

		title := filled.Bib.Title
		if title == "" {
			title = publication.NoTitle
		}
		fmt.Fprintf(out, "  - Processing pub %d/%d: %.30s...\n", i+1, len(pubs), title)

		entries = append(entries, publication.Format(*filled, i+1, researcher))
		delay()
	}

	content := page.Assemble(entries)

	tpl := page.DefaultTemplate
	if opts.TemplatePath != "" {
		fmt.Fprintf(out, "Loading custom template from %s...\n", opts.TemplatePath)
		custom, err := page.LoadTemplate(opts.TemplatePath)
		if err != nil {
			fmt.Fprintf(errs, "warning: using built-in template: %v\n", err)
		} else {
			tpl = custom
		}
	}

	if err := os.WriteFile(opts.OutputPath, []byte(page.Render(tpl, content)), 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", opts.OutputPath, err)
	}

	result := &Result{
		Author:     author.Name,
		Total:      len(entries),
		Skipped:    skipped,
		OutputPath: opts.OutputPath,
	}
	for _, e := range entries {
		if e.Category == publication.CategoryJournal {
			result.Journals++
		} else {
			result.Conferences++
		}
	}

	if opts.BibTeXPath != "" {
		snippets := make([]string, len(entries))
		for i, e := range entries {
			snippets[i] = e.BibTeX
		}
		if err := os.WriteFile(opts.BibTeXPath, []byte(export.SnippetList(snippets)), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", opts.BibTeXPath, err)
		}
		result.BibTeXPath = opts.BibTeXPath
	}

	fmt.Fprintf(out, "Successfully generated %s!\n", opts.OutputPath)
	return result, nil
}

// DelayBetween returns a Delay that sleeps for a uniform random duration
// between min and max seconds.
func DelayBetween(min, max float64) func() {
	if max < min {
		max = min
	}
	return func() {
		seconds := min + rand.Float64()*(max-min)
		time.Sleep(time.Duration(seconds * float64(time.Second)))
	}
}

// DefaultDelay pauses between detail fetches. Scholar blocks clients that
// walk a profile too quickly, so this stays well above the request rate
// limit.
var DefaultDelay = DelayBetween(config.DefaultDelayMin, config.DefaultDelayMax)
