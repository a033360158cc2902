package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ytian/autoscholar/internal/scholar"
)

// stubSource serves canned profile data keyed by detail path.
type stubSource struct {
	author    *scholar.Author
	authorErr error
	filled    map[string]scholar.Publication
	failPaths map[string]bool
	fillCalls int
}

func (s *stubSource) FetchAuthor(ctx context.Context, userID string) (*scholar.Author, error) {
	if s.authorErr != nil {
		return nil, s.authorErr
	}
	return s.author, nil
}

func (s *stubSource) FillPublication(ctx context.Context, pub scholar.Publication) (*scholar.Publication, error) {
	s.fillCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.failPaths[pub.DetailPath] {
		return nil, scholar.ErrInvalidResponse
	}
	if full, ok := s.filled[pub.DetailPath]; ok {
		return &full, nil
	}
	return &pub, nil
}

func testSource() *stubSource {
	return &stubSource{
		author: &scholar.Author{
			Name: "Ada Lovelace",
			Publications: []scholar.Publication{
				{DetailPath: "/p1", Bib: scholar.Bib{Title: "Old journal", Year: "2020"}},
				{DetailPath: "/p2", Bib: scholar.Bib{Title: "Conf paper", Year: "2021"}},
				{DetailPath: "/p3", Bib: scholar.Bib{Title: "New journal", Year: "2022"}},
			},
		},
		filled: map[string]scholar.Publication{
			"/p1": {PubURL: "https://example.org/1", Bib: scholar.Bib{
				Author: "Ada Lovelace and Charles Babbage", Title: "Old journal", Year: "2020", Journal: "J One"}},
			"/p2": {Bib: scholar.Bib{
				Author: "Ada Lovelace", Title: "Conf paper", Year: "2021", Conference: "C One"}},
			"/p3": {Bib: scholar.Bib{
				Author: "Ada Lovelace", Title: "New journal", Year: "2022", Journal: "J Two"}},
		},
	}
}

func testRunner(src Source, out, errs *bytes.Buffer) *Runner {
	return &Runner{
		Source: src,
		Out:    out,
		Errs:   errs,
		Delay:  func() {},
	}
}

func TestRun_GeneratesPage(t *testing.T) {
	src := testSource()
	var out, errs bytes.Buffer
	outputPath := filepath.Join(t.TempDir(), "publications.html")

	result, err := testRunner(src, &out, &errs).Run(context.Background(), Options{
		ScholarID:  "AbC123",
		Researcher: "Ada Lovelace",
		OutputPath: outputPath,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Author != "Ada Lovelace" {
		t.Errorf("result author = %q", result.Author)
	}
	if result.Total != 3 || result.Journals != 2 || result.Conferences != 1 || result.Skipped != 0 {
		t.Errorf("result counts = %+v", result)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}

	headings := doc.Find("h3 span")
	if headings.Length() != 2 {
		t.Fatalf("got %d headings, want 2", headings.Length())
	}
	if got := headings.Eq(0).Text(); got != "Peer Reviewed Journal Publications" {
		t.Errorf("first heading = %q", got)
	}

	// Journal section lists the 2022 paper before the 2020 one.
	journalItems := doc.Find("ol").Eq(0).Find("li")
	if journalItems.Length() != 2 {
		t.Fatalf("journal section has %d items, want 2", journalItems.Length())
	}
	if first := journalItems.Eq(0).Text(); !strings.Contains(first, "New journal") {
		t.Errorf("first journal item = %q, want the 2022 paper", first)
	}

	// The researcher's name is bolded.
	if doc.Find("li b").Length() == 0 {
		t.Error("researcher name not bolded anywhere")
	}

	// Each entry carries its copyable snippet, typed per section.
	snippets := doc.Find("pre.bibtex-source")
	if snippets.Length() != 3 {
		t.Fatalf("got %d snippets, want 3", snippets.Length())
	}
	if got := snippets.Eq(0).Text(); !strings.HasPrefix(got, "@article{") {
		t.Errorf("journal snippet = %q, want @article", got)
	}
	if got := snippets.Eq(2).Text(); !strings.HasPrefix(got, "@inproceedings{") {
		t.Errorf("conference snippet = %q, want @inproceedings", got)
	}

	for _, want := range []string{
		"Fetching author profile for ID: AbC123...",
		"Found author: Ada Lovelace",
		"Found 3 publications. Fetching details...",
		"  - Processing pub 1/3: Old journal...",
		"Successfully generated " + outputPath + "!",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("progress output missing %q, got:\n%s", want, out.String())
		}
	}
	if errs.Len() != 0 {
		t.Errorf("unexpected warnings: %s", errs.String())
	}
}

func TestRun_ProfileError(t *testing.T) {
	src := &stubSource{authorErr: scholar.ErrNotFound}

	_, err := testRunner(src, &bytes.Buffer{}, &bytes.Buffer{}).Run(context.Background(), Options{
		ScholarID:  "missing",
		OutputPath: filepath.Join(t.TempDir(), "out.html"),
	})

	if err == nil {
		t.Fatal("Run() expected error")
	}
	if !strings.Contains(err.Error(), "could not fetch author profile") {
		t.Errorf("error = %v", err)
	}
	if !scholar.IsNotFound(err) {
		t.Errorf("error should preserve ErrNotFound, got %v", err)
	}
}

func TestRun_NoPublications(t *testing.T) {
	src := &stubSource{author: &scholar.Author{Name: "Ada Lovelace"}}
	outputPath := filepath.Join(t.TempDir(), "out.html")

	_, err := testRunner(src, &bytes.Buffer{}, &bytes.Buffer{}).Run(context.Background(), Options{
		ScholarID:  "AbC123",
		OutputPath: outputPath,
	})

	if !errors.Is(err, ErrNoPublications) {
		t.Errorf("Run() error = %v, want ErrNoPublications", err)
	}
	if _, statErr := os.Stat(outputPath); statErr == nil {
		t.Error("output written despite empty profile")
	}
}

func TestRun_SkipsFailedRecords(t *testing.T) {
	src := testSource()
	src.failPaths = map[string]bool{"/p2": true}
	var out, errs bytes.Buffer
	outputPath := filepath.Join(t.TempDir(), "out.html")

	result, err := testRunner(src, &out, &errs).Run(context.Background(), Options{
		ScholarID:  "AbC123",
		Researcher: "Ada Lovelace",
		OutputPath: outputPath,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Total != 2 || result.Skipped != 1 {
		t.Errorf("result = %+v, want 2 kept and 1 skipped", result)
	}
	if !strings.Contains(errs.String(), "warning: could not process publication 2/3") {
		t.Errorf("warning missing, got: %s", errs.String())
	}

	data, _ := os.ReadFile(outputPath)
	if strings.Contains(string(data), "Conf paper") {
		t.Error("skipped publication still rendered")
	}
}

func TestRun_WritesBibTeX(t *testing.T) {
	src := testSource()
	dir := t.TempDir()
	bibPath := filepath.Join(dir, "publications.bib")

	result, err := testRunner(src, &bytes.Buffer{}, &bytes.Buffer{}).Run(context.Background(), Options{
		ScholarID:  "AbC123",
		Researcher: "Ada Lovelace",
		OutputPath: filepath.Join(dir, "out.html"),
		BibTeXPath: bibPath,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.BibTeXPath != bibPath {
		t.Errorf("result bibtex path = %q", result.BibTeXPath)
	}

	data, err := os.ReadFile(bibPath)
	if err != nil {
		t.Fatalf("reading .bib: %v", err)
	}
	bib := string(data)
	if strings.Count(bib, "@") != 3 {
		t.Errorf(".bib has %d entries, want 3:\n%s", strings.Count(bib, "@"), bib)
	}
	if !strings.Contains(bib, "@article{ada2020old,") {
		t.Errorf(".bib missing journal entry:\n%s", bib)
	}
	if !strings.Contains(bib, "}\n\n@") {
		t.Errorf(".bib entries not blank-line separated:\n%s", bib)
	}
}

func TestRun_CustomTemplate(t *testing.T) {
	src := testSource()
	dir := t.TempDir()
	tplPath := filepath.Join(dir, "tpl.html")
	if err := os.WriteFile(tplPath, []byte("<html><body>{content}</body></html>"), 0644); err != nil {
		t.Fatal(err)
	}
	outputPath := filepath.Join(dir, "out.html")

	var out bytes.Buffer
	_, err := testRunner(src, &out, &bytes.Buffer{}).Run(context.Background(), Options{
		ScholarID:    "AbC123",
		Researcher:   "Ada Lovelace",
		OutputPath:   outputPath,
		TemplatePath: tplPath,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, _ := os.ReadFile(outputPath)
	if strings.Contains(string(data), "bootstrap") {
		t.Error("custom template ignored, built-in page shell present")
	}
	if !strings.Contains(string(data), "Peer Reviewed Journal Publications") {
		t.Error("content not rendered into custom template")
	}
	if !strings.Contains(out.String(), "Loading custom template from "+tplPath) {
		t.Errorf("progress output missing template line:\n%s", out.String())
	}
}

func TestRun_TemplateFallback(t *testing.T) {
	src := testSource()
	dir := t.TempDir()
	tplPath := filepath.Join(dir, "broken.html")
	if err := os.WriteFile(tplPath, []byte("<html>no slot</html>"), 0644); err != nil {
		t.Fatal(err)
	}
	outputPath := filepath.Join(dir, "out.html")

	var errs bytes.Buffer
	_, err := testRunner(src, &bytes.Buffer{}, &errs).Run(context.Background(), Options{
		ScholarID:    "AbC123",
		Researcher:   "Ada Lovelace",
		OutputPath:   outputPath,
		TemplatePath: tplPath,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(errs.String(), "warning: using built-in template") {
		t.Errorf("fallback warning missing, got: %s", errs.String())
	}
	data, _ := os.ReadFile(outputPath)
	if !strings.Contains(string(data), "pub-tag") {
		t.Error("built-in template not used for fallback")
	}
}

func TestRun_ResearcherDefaultsToProfileName(t *testing.T) {
	src := testSource()
	outputPath := filepath.Join(t.TempDir(), "out.html")

	_, err := testRunner(src, &bytes.Buffer{}, &bytes.Buffer{}).Run(context.Background(), Options{
		ScholarID:  "AbC123",
		OutputPath: outputPath,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, _ := os.ReadFile(outputPath)
	if !strings.Contains(string(data), "<b>Ada Lovelace</b>") {
		t.Error("profile name not used for bolding when no researcher given")
	}
}

func TestRun_DelayRunsBetweenFetches(t *testing.T) {
	src := testSource()
	delays := 0

	runner := &Runner{
		Source: src,
		Delay:  func() { delays++ },
	}
	_, err := runner.Run(context.Background(), Options{
		ScholarID:  "AbC123",
		Researcher: "Ada Lovelace",
		OutputPath: filepath.Join(t.TempDir(), "out.html"),
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if delays != 3 {
		t.Errorf("delay ran %d times, want 3", delays)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	src := testSource()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outputPath := filepath.Join(t.TempDir(), "out.html")
	_, err := testRunner(src, &bytes.Buffer{}, &bytes.Buffer{}).Run(ctx, Options{
		ScholarID:  "AbC123",
		OutputPath: outputPath,
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if _, statErr := os.Stat(outputPath); statErr == nil {
		t.Error("output written despite cancelled run")
	}
}

func TestDelayBetween(t *testing.T) {
	start := time.Now()
	DelayBetween(0.01, 0.02)()
	elapsed := time.Since(start)

	if elapsed < 10*time.Millisecond {
		t.Errorf("delay returned after %v, want at least 10ms", elapsed)
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("delay took %v, want well under 500ms", elapsed)
	}
}

func TestDelayBetween_SwappedBounds(t *testing.T) {
	// max below min clamps instead of panicking.
	start := time.Now()
	DelayBetween(0.01, 0)()
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("delay took %v", elapsed)
	}
}
