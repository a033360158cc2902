package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ytian/autoscholar/internal/config"
	"github.com/ytian/autoscholar/internal/pipeline"
	"github.com/ytian/autoscholar/internal/scholar"
)

var generateFlags struct {
	id       string
	name     string
	output   string
	template string
	proxy    bool
	bibtex   string
	delayMin float64
	delayMax float64
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateFlags.id, "id", "", "Google Scholar profile ID (e.g. wX4le_QAAAAJ)")
	generateCmd.Flags().StringVar(&generateFlags.name, "name", "", "Researcher name to highlight in author lists")
	generateCmd.Flags().StringVar(&generateFlags.output, "output", "", "Output HTML path (default publications.html)")
	generateCmd.Flags().StringVar(&generateFlags.template, "template", "", "Custom HTML template containing '{content}'")
	generateCmd.Flags().BoolVar(&generateFlags.proxy, "proxy", false, "Route requests through the configured proxy (proxy-url key or AUTOSCHOLAR_PROXY)")
	generateCmd.Flags().StringVar(&generateFlags.bibtex, "bibtex", "", "Also write every BibTeX entry to this .bib file")
	generateCmd.Flags().Float64Var(&generateFlags.delayMin, "delay-min", 0, "Minimum pause between detail fetches, in seconds")
	generateCmd.Flags().Float64Var(&generateFlags.delayMax, "delay-max", 0, "Maximum pause between detail fetches, in seconds")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the publications page for a Scholar profile",
	Long: `Generate fetches a researcher's full publication list from their Google
Scholar profile and writes a publications HTML page.

The profile ID and researcher name come from flags or from the global
config (keys scholar-id and name). The name should match how it appears
in Scholar author lists (usually an abbreviated first name, e.g. "A
Lovelace"), since it is bolded by substring match.

Scholar throttles rapid scraping: a random pause separates detail-page
fetches, tunable with --delay-min/--delay-max. If Scholar blocks you
anyway, configure a proxy and re-run with --proxy.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	id := generateFlags.id
	if id == "" {
		id = cfg.ScholarID
	}
	if id == "" {
		exitWithError(ExitError, "a Scholar profile ID is required (--id or the scholar-id config key)")
	}

	name := generateFlags.name
	if name == "" {
		name = cfg.Name
	}
	if name == "" {
		exitWithError(ExitError, "the researcher name is required (--name or the name config key)")
	}

	output := generateFlags.output
	if output == "" {
		output = cfg.Output
	}
	if output == "" {
		output = config.DefaultOutput
	}

	template := generateFlags.template
	if template == "" {
		template = cfg.Template
	}

	delayMin, delayMax := resolveDelays(cmd, cfg)
	if err := config.ValidateDelays(delayMin, delayMax); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	progress := progressWriter()

	opts := []scholar.ClientOption{}
	if ua := config.GetUserAgent(); ua != "" {
		opts = append(opts, scholar.WithUserAgent(ua))
	}
	if cfg.PageSize > 0 {
		opts = append(opts, scholar.WithPageSize(cfg.PageSize))
	}
	if generateFlags.proxy {
		if opt, ok := proxyOption(progress); ok {
			opts = append(opts, opt)
		}
	} else {
		fmt.Fprintln(progress, "Skipping proxy setup. If you get blocked, re-run with --proxy.")
	}

	runner := &pipeline.Runner{
		Source: scholar.NewClient(opts...),
		Out:    progress,
		Errs:   cmd.ErrOrStderr(),
		Delay:  pipeline.DelayBetween(delayMin, delayMax),
	}

	result, err := runner.Run(cmd.Context(), pipeline.Options{
		ScholarID:    id,
		Researcher:   name,
		OutputPath:   output,
		TemplatePath: template,
		BibTeXPath:   generateFlags.bibtex,
	})
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrNoPublications):
			exitWithError(ExitDataError, "%v", err)
		case scholar.IsNotFound(err):
			exitWithError(ExitDataError, "%v", err)
		case scholar.IsBlocked(err):
			exitWithError(ExitDataError, "%v (configure a proxy and re-run with --proxy)", err)
		default:
			exitWithError(ExitError, "%v", err)
		}
	}

	if !humanOutput {
		return outputJSON(result)
	}
	return nil
}

// resolveDelays merges the politeness delay bounds: explicit flags win,
// then config values, then the defaults.
func resolveDelays(cmd *cobra.Command, cfg *config.GlobalConfig) (float64, float64) {
	min := config.DefaultDelayMin
	if cfg.DelayMin > 0 {
		min = cfg.DelayMin
	}
	if cmd.Flags().Changed("delay-min") {
		min = generateFlags.delayMin
	}

	max := config.DefaultDelayMax
	if cfg.DelayMax > 0 {
		max = cfg.DelayMax
	}
	if cmd.Flags().Changed("delay-max") {
		max = generateFlags.delayMax
	}

	return min, max
}

// proxyOption builds the client option for the configured proxy. A missing
// or unusable proxy degrades to a direct connection with a warning rather
// than failing the run.
func proxyOption(progress io.Writer) (scholar.ClientOption, bool) {
	fmt.Fprintln(progress, "Setting up proxy...")

	proxyURL := config.GetProxyURL()
	if proxyURL == "" {
		warnf("no proxy configured (set the proxy-url config key or AUTOSCHOLAR_PROXY); continuing without one")
		return nil, false
	}

	client, err := scholar.NewProxyClient(proxyURL)
	if err != nil {
		warnf("%v; continuing without a proxy", err)
		return nil, false
	}

	fmt.Fprintln(progress, "Proxy setup complete.")
	return scholar.WithHTTPClient(client), true
}
