// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-select/internal/dataset"
	"github.com/pdiddy/scholar-select/internal/harvest"
	"github.com/pdiddy/scholar-select/internal/secrets"
)

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Build a paper dump from Semantic Scholar and OpenAlex",
	Long: `Harvest looks up each researcher on Semantic Scholar and OpenAlex, fetches
their works with citation counts and abstracts, merges duplicates across the
two sources, and appends the result to a CSV paper dump that select can read.

A Semantic Scholar API key (.secrets/semantic-scholar-api-key) raises rate
limits; an email in .secrets/openalex-email joins the OpenAlex polite pool.`,
	RunE: runHarvest,
}

var harvestBindings = map[string]string{
	"since":       "harvest.since_year",
	"max-results": "harvest.max_results",
}

func runHarvest(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if err := bindFlags(v, cmd, harvestBindings); err != nil {
		return err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	hc := cfg.Harvest
	if hc.SemanticScholarAPIKey == "" {
		hc.SemanticScholarAPIKey = secrets.Lookup(loadedSecrets, secrets.SemanticScholarAPIKey)
	}
	if hc.OpenAlexEmail == "" {
		hc.OpenAlexEmail = secrets.Lookup(loadedSecrets, secrets.OpenAlexEmail)
	}

	researchers, _ := cmd.Flags().GetStringSlice("researcher")
	output, _ := cmd.Flags().GetString("output")
	if len(researchers) == 0 {
		return fmt.Errorf("at least one --researcher is required")
	}

	client := &http.Client{Timeout: hc.Timeout}
	backends := harvest.Backends(client, hc)

	total := 0
	for i, r := range researchers {
		fmt.Fprintf(os.Stderr, "harvesting researcher %d/%d: %s\n", i+1, len(researchers), r)
		out, err := harvest.Harvest(cmd.Context(), r, backends, hc, os.Stderr)
		if err != nil {
			return fmt.Errorf("harvesting %s: %w", r, err)
		}
		if err := dataset.AppendCSV(output, out.Papers); err != nil {
			return err
		}
		logger.Info("harvested works",
			"researcher", r,
			"papers", len(out.Papers),
			"duplicates_removed", out.DupsRemoved,
			"backend_errors", len(out.BackendErrors))
		total += len(out.Papers)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "appended %d papers to %s\n", total, output)
	return nil
}

func init() {
	harvestCmd.Flags().StringSlice("researcher", nil, "researcher name to harvest (repeatable)")
	harvestCmd.Flags().String("output", "papers.csv", "CSV paper dump to append to")
	harvestCmd.Flags().Int("since", 0, "drop works published before this year (0 = no limit)")
	harvestCmd.Flags().Int("max-results", 100, "maximum works requested per source")

	rootCmd.AddCommand(harvestCmd)
}
