// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-select/internal/dataset"
	"github.com/pdiddy/scholar-select/internal/secrets"
	"github.com/pdiddy/scholar-select/internal/selector"
	"github.com/pdiddy/scholar-select/internal/similarity"
	"github.com/pdiddy/scholar-select/internal/store"
	"github.com/pdiddy/scholar-select/pkg/types"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Select representative recent papers per researcher",
	Long: `Select reads a CSV paper dump and, for each researcher, keeps the papers
they first- or last-authored inside the recency window. Candidates are scored
by recency and citation impact, then picked greedily with a penalty for
similarity to papers already picked.

Researchers default to every distinct value of the dump's researcher column.
The run is recorded in the history database unless --no-history is set.`,
	RunE: runSelect,
}

var selectBindings = map[string]string{
	"n":              "selection.n_papers",
	"alpha":          "selection.alpha",
	"beta":           "selection.beta",
	"penalty-weight": "selection.penalty_weight",
	"window":         "selection.recency_window_years",
	"name-threshold": "selection.name_threshold",
	"similarity":     "similarity.backend",
	"model":          "similarity.model",
	"db":             "store.dir",
}

func runSelect(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if err := bindFlags(v, cmd, selectBindings); err != nil {
		return err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	input, _ := cmd.Flags().GetString("input")
	researchers, _ := cmd.Flags().GetStringSlice("researcher")
	year, _ := cmd.Flags().GetInt("year")
	output, _ := cmd.Flags().GetString("output")
	formatName, _ := cmd.Flags().GetString("format")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	var format dataset.Format
	if formatName != "" {
		if format, err = dataset.ParseFormat(formatName); err != nil {
			return err
		}
	}

	logger.Debug("loading papers", "path", input)
	papers, err := dataset.LoadCSVFile(input)
	if err != nil {
		return err
	}
	if len(researchers) == 0 {
		researchers = dataset.Researchers(papers)
	}
	if len(researchers) == 0 {
		return fmt.Errorf("no researchers: pass --researcher or add a researcher column to %s", input)
	}

	backend, err := similarity.New(cfg.Similarity, secrets.Lookup(loadedSecrets, secrets.OpenAIAPIKey))
	if err != nil {
		return fmt.Errorf("creating similarity backend: %w", err)
	}
	if c, ok := backend.(io.Closer); ok {
		defer c.Close()
	}

	opts := selector.DefaultOptions()
	opts.SelectionConfig = cfg.Selection
	opts.CurrentYear = year
	opts.Similarity = backend
	opts.Logger = logger

	logger.Info("selecting papers",
		"papers", len(papers),
		"researchers", len(researchers),
		"similarity", backend.Name())

	results, err := selector.SelectAll(cmd.Context(), papers, researchers, opts, os.Stderr)
	if err != nil {
		return err
	}
	records := selector.Flatten(results)

	if output != "" {
		if err := dataset.WriteFile(output, format, records); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %d papers to %s\n", len(records), output)
	}

	if !noHistory {
		st, err := store.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		runID, err := st.SaveRun(cmd.Context(), store.Run{
			Input:      input,
			Similarity: backend.Name(),
			Config:     cfg.Selection,
			Records:    records,
		})
		if err != nil {
			return fmt.Errorf("recording run: %w", err)
		}
		fmt.Fprintf(os.Stderr, "recorded run %s\n", runID)
	}

	if jsonOutput {
		return dataset.WriteJSON(cmd.OutOrStdout(), records)
	}
	renderSelections(cmd.OutOrStdout(), results)
	return nil
}

func init() {
	sel := types.DefaultSelectionConfig()

	selectCmd.Flags().String("input", "", "CSV paper dump to select from (required)")
	selectCmd.Flags().StringSlice("researcher", nil, "researcher to select for (repeatable; default: all in the dump)")
	selectCmd.Flags().Int("n", sel.NPapers, "maximum papers per researcher")
	selectCmd.Flags().Float64("alpha", sel.Alpha, "weight of the recency score")
	selectCmd.Flags().Float64("beta", sel.Beta, "weight of the citation score")
	selectCmd.Flags().Float64("penalty-weight", sel.PenaltyWeight, "similarity penalty strength (higher = more diverse)")
	selectCmd.Flags().Int("window", sel.RecencyWindowYears, "recency window in years")
	selectCmd.Flags().Int("name-threshold", sel.NameThreshold, "fuzzy author-name match threshold (0-100)")
	selectCmd.Flags().Int("year", 0, "current year for recency scoring (0 = this year)")
	selectCmd.Flags().String("similarity", string(types.SimilarityTFIDF), "similarity backend: tfidf, fastembed, ollama, or openai")
	selectCmd.Flags().String("model", "", "embedding model for fastembed, ollama, or openai")
	selectCmd.Flags().String("output", "", "write selections to this file")
	selectCmd.Flags().String("format", "", "output file format: csv, json, or yaml (default: from extension)")
	selectCmd.Flags().String("db", defaultStoreDir, "history database directory")
	selectCmd.Flags().Bool("no-history", false, "do not record the run in the history database")
	selectCmd.Flags().Bool("json", false, "print selections as JSON")
	selectCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(selectCmd)
}
