// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholar-select/pkg/types"
)

const defaultStoreDir = "history"

// setDefaults registers the default pipeline configuration so config files
// and environment variables only need to name what they change.
func setDefaults(v *viper.Viper) {
	sel := types.DefaultSelectionConfig()
	v.SetDefault("selection.n_papers", sel.NPapers)
	v.SetDefault("selection.alpha", sel.Alpha)
	v.SetDefault("selection.beta", sel.Beta)
	v.SetDefault("selection.penalty_weight", sel.PenaltyWeight)
	v.SetDefault("selection.recency_window_years", sel.RecencyWindowYears)
	v.SetDefault("selection.name_threshold", sel.NameThreshold)

	v.SetDefault("similarity.backend", string(types.SimilarityTFIDF))
	v.SetDefault("similarity.model", "")
	v.SetDefault("similarity.cache_dir", "")
	v.SetDefault("similarity.server_url", "")

	v.SetDefault("harvest.timeout", 30*time.Second)
	v.SetDefault("harvest.user_agent", "scholar-select/"+version)
	v.SetDefault("harvest.max_results", 100)
	v.SetDefault("harvest.since_year", 0)
	v.SetDefault("harvest.semantic_scholar_api_key", "")
	v.SetDefault("harvest.openalex_email", "")

	v.SetDefault("store.dir", defaultStoreDir)
	v.SetDefault("store.max_results", 20)
}

// bindFlags binds the named flags of cmd to viper keys. Binding happens
// when a command runs so commands sharing a key do not override each other.
func bindFlags(v *viper.Viper, cmd *cobra.Command, bindings map[string]string) error {
	for flag, key := range bindings {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			return fmt.Errorf("binding %s: no flag --%s", key, flag)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

// loadConfig returns the pipeline configuration from defaults, the config
// file, the environment, and flags, in increasing precedence.
func loadConfig(v *viper.Viper) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}
