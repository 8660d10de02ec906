// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/venue-engine/internal/history"
	"github.com/pdiddy/venue-engine/internal/search"
	"github.com/pdiddy/venue-engine/internal/secrets"
	"github.com/pdiddy/venue-engine/internal/server"
	"github.com/pdiddy/venue-engine/internal/venue"
	"github.com/pdiddy/venue-engine/pkg/types"
)

func setConfigDefaults() {
	viper.SetDefault("openalex.base_url", search.DefaultBaseURL)
	viper.SetDefault("openalex.timeout", search.DefaultTimeout)
	viper.SetDefault("openalex.user_agent", search.DefaultUserAgent)
	viper.SetDefault("openalex.rate_limit_retries", 0)
	viper.SetDefault("ranking.top_n", venue.DefaultTopN)
	viper.SetDefault("ranking.components", false)
	viper.SetDefault("history.enabled", false)
	viper.SetDefault("history.path", history.DefaultPath)
	viper.SetDefault("server.addr", server.DefaultAddr)
}

// loadConfig assembles the configuration from viper, secrets, and the
// ranking flags of cmd when present.
func loadConfig(cmd *cobra.Command) types.Config {
	cfg := types.Config{
		OpenAlex: types.OpenAlexConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("openalex.timeout"),
				UserAgent: viper.GetString("openalex.user_agent"),
			},
			BaseURL:          viper.GetString("openalex.base_url"),
			Email:            secretDefault(secrets.OpenAlexEmail, viper.GetString("openalex.email")),
			RateLimitRetries: viper.GetInt("openalex.rate_limit_retries"),
		},
		Ranking: types.RankingConfig{
			TopN:       viper.GetInt("ranking.top_n"),
			Components: viper.GetBool("ranking.components"),
		},
		History: types.HistoryConfig{
			Enabled: viper.GetBool("history.enabled"),
			Path:    viper.GetString("history.path"),
		},
		Server: types.ServerConfig{
			Addr:   viper.GetString("server.addr"),
			APIKey: viper.GetString("server.api_key"),
		},
	}

	flags := cmd.Flags()
	if flags.Changed("email") {
		cfg.OpenAlex.Email, _ = flags.GetString("email")
	}
	if flags.Changed("timeout") {
		cfg.OpenAlex.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("top-n") {
		cfg.Ranking.TopN, _ = flags.GetInt("top-n")
	}
	if flags.Changed("components") {
		cfg.Ranking.Components, _ = flags.GetBool("components")
	}
	if flags.Changed("history") {
		cfg.History.Enabled, _ = flags.GetBool("history")
	}
	return cfg
}

// addRankingFlags registers the flags shared by the ranking commands.
func addRankingFlags(cmd *cobra.Command) {
	cmd.Flags().String("email", "", "contact email sent to OpenAlex (overrides openalex.email)")
	cmd.Flags().Duration("timeout", 15*time.Second, "timeout for each OpenAlex call")
	cmd.Flags().Int("top-n", venue.DefaultTopN, "number of journals to recommend")
	cmd.Flags().Bool("components", false, "include the four sub-scores for each journal")
	cmd.Flags().Bool("history", false, "save the run to the history database")
}
