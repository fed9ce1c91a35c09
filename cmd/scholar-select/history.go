// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-select/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "Search and export past selections",
	Long: `History searches the selections recorded by previous select runs. A query
is matched against paper titles and abstracts; --researcher and --run narrow
the results. With --runs it lists the recorded runs instead.

Use --export yaml or --export json to write the matching selections to a
file (default: <db>/export.yaml or <db>/export.json).`,
	RunE: runHistory,
}

var historyBindings = map[string]string{
	"db": "store.dir",
}

func runHistory(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if err := bindFlags(v, cmd, historyBindings); err != nil {
		return err
	}
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}

	st, err := store.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	jsonOutput, _ := cmd.Flags().GetBool("json")
	w := cmd.OutOrStdout()

	if listRuns, _ := cmd.Flags().GetBool("runs"); listRuns {
		runs, err := st.Runs(ctx)
		if err != nil {
			return err
		}
		if jsonOutput {
			return encodeJSON(cmd, runs)
		}
		renderRuns(w, runs)
		return nil
	}

	researcher, _ := cmd.Flags().GetString("researcher")
	runID, _ := cmd.Flags().GetString("run")
	limit, _ := cmd.Flags().GetInt("limit")
	opts := store.QueryOptions{
		Query:      strings.Join(args, " "),
		Researcher: researcher,
		RunID:      runID,
		MaxResults: limit,
	}

	export, _ := cmd.Flags().GetString("export")
	exportPath, _ := cmd.Flags().GetString("export-path")
	switch export {
	case "":
	case "yaml":
		path, err := st.ExportYAML(ctx, opts, exportPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Exported to %s\n", path)
		return nil
	case "json":
		path, err := st.ExportJSON(ctx, opts, exportPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Exported to %s\n", path)
		return nil
	default:
		return fmt.Errorf("unsupported export format %q: use yaml or json", export)
	}

	results, err := st.Retrieve(ctx, opts)
	if err != nil {
		return err
	}
	if jsonOutput {
		if results == nil {
			results = []store.QueryResult{}
		}
		return encodeJSON(cmd, results)
	}
	renderHistory(w, results)
	return nil
}

func encodeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	historyCmd.Flags().String("db", defaultStoreDir, "history database directory")
	historyCmd.Flags().String("researcher", "", "filter by researcher")
	historyCmd.Flags().String("run", "", "filter by run ID")
	historyCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	historyCmd.Flags().Bool("runs", false, "list recorded runs")
	historyCmd.Flags().Bool("json", false, "output results as JSON")
	historyCmd.Flags().String("export", "", "export matching selections: yaml or json")
	historyCmd.Flags().String("export-path", "", "export file path (default: inside --db)")

	rootCmd.AddCommand(historyCmd)
}
