package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytian/autoscholar/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  autoscholar config                      # Show all config
  autoscholar config scholar-id           # Get specific value
  autoscholar config scholar-id AbC123    # Set value
  autoscholar config delay-min 2.0        # Slow down detail fetches

Keys:
  scholar-id  Google Scholar profile ID
  name        Researcher name to bold in author lists
  output      Output HTML path
  template    Custom HTML template path
  proxy-url   Proxy for Scholar requests (http, https, or socks5)
  user-agent  User-Agent header override
  page-size   Profile rows fetched per request (max 100)
  delay-min   Politeness delay lower bound, seconds
  delay-max   Politeness delay upper bound, seconds

Values are stored in ` + "`~/.config/autoscholar/config.yml`" + `.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	// No args: show all config
	if len(args) == 0 {
		if humanOutput {
			for _, key := range config.Keys() {
				value, _ := cfg.Get(key)
				fmt.Printf("%-11s %s\n", key+":", value)
			}
			return nil
		}
		values := make(map[string]string, len(config.Keys()))
		for _, key := range config.Keys() {
			values[key], _ = cfg.Get(key)
		}
		return outputJSON(values)
	}

	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		value, err := cfg.Get(key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Println(value)
			return nil
		}
		return outputJSON(map[string]string{key: value})
	}

	// Two args: set value
	value := args[1]
	if err := cfg.Set(key, value); err != nil {
		if errors.Is(err, config.ErrUnknownKey) {
			exitWithError(ExitError, "%v", err)
		}
		exitWithError(ExitConfigError, "%v", err)
	}

	if err := cfg.Save(); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
		return nil
	}
	return outputJSON(UpdateResponse{
		Status: "updated",
		Key:    key,
		Value:  value,
	})
}

// normalizeKey converts key formats (scholar_id, SCHOLAR-ID) to the
// canonical dashed form.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}
