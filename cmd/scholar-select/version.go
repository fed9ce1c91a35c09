package main

import (
	"fmt"
	"runtime"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

type versionInfo struct {
	Version string `json:"version"`
	Go      string `json:"go"`
	SQLite  string `json:"sqlite"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the scholar-select build and runtime versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		sqliteVersion, _, _ := sqlite3.Version()
		info := versionInfo{Version: version, Go: runtime.Version(), SQLite: sqliteVersion}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return encodeJSON(cmd, info)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "scholar-select %s (%s, sqlite %s)\n", info.Version, info.Go, info.SQLite)
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("json", false, "print version information as JSON")
	rootCmd.AddCommand(versionCmd)
}
