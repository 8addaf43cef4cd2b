// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the civic-search CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/civic-search/internal/logging"
	"github.com/pdiddy/civic-search/internal/secrets"
	"github.com/pdiddy/civic-search/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is the resolved configuration, built in PersistentPreRunE.
var cfg types.Config

// log is the process logger, built in PersistentPreRunE.
var log = zap.NewNop()

// rootCmd is the base command for the civic-search CLI.
var rootCmd = &cobra.Command{
	Use:   "civic-search",
	Short: "Federated search across posts, news, videos and users",
	Long: `civic-search runs one query against several content providers in parallel,
normalizes and scores what they return, and merges everything into a single
regionally prioritized, paginated list.

Providers that are disabled, unconfigured or failing are replaced by synthetic
fallback content, so a search always returns a full page. The same search is
served over HTTP by the serve subcommand.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		l, err := logging.New(c.Log)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		s, err := secrets.Load(".secrets/", l)
		if err != nil {
			return err
		}
		s.Apply(&c)
		if len(s) > 0 {
			l.Debug("Loaded secrets", zap.Int("count", len(s)))
		}
		cfg, log = c, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./civic-search.yaml or ~/.config/civic-search/civic-search.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("civic-search")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "civic-search"))
		}
	}

	setDefaults(types.DefaultConfig())
	bindEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key with viper so that environment variables
// such as CIVIC_SEARCH_NEWS_API_KEY override it without a config file.
func setDefaults(d types.Config) {
	viper.SetDefault("http.timeout", d.HTTP.Timeout)
	viper.SetDefault("http.user_agent", d.HTTP.UserAgent)

	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.development", d.Log.Development)

	viper.SetDefault("server.addr", d.Server.Addr)
	viper.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	viper.SetDefault("store.path", d.Store.Path)
	viper.SetDefault("store.enabled", d.Store.Enabled)

	viper.SetDefault("search.default_page_size", d.Search.DefaultPageSize)
	viper.SetDefault("search.max_page_size", d.Search.MaxPageSize)
	viper.SetDefault("search.max_query_length", d.Search.MaxQueryLength)
	viper.SetDefault("search.provider_timeout", d.Search.ProviderTimeout)
	viper.SetDefault("search.suggestions_per_source", d.Search.SuggestionsPerSource)
	viper.SetDefault("search.language", d.Search.Language)

	viper.SetDefault("region.default", d.Region.Default)
	viper.SetDefault("region.locale_qualifier", d.Region.LocaleQualifier)
	viper.SetDefault("region.country_code", d.Region.CountryCode)
	viper.SetDefault("region.local_indicators", d.Region.LocalIndicators)
	viper.SetDefault("region.regional_indicators", d.Region.RegionalIndicators)
	viper.SetDefault("region.trusted_sources", d.Region.TrustedSources)

	for name, pc := range map[string]types.ProviderConfig{"news": d.News, "video": d.Video} {
		viper.SetDefault(name+".enabled", pc.Enabled)
		viper.SetDefault(name+".base_url", pc.BaseURL)
		viper.SetDefault(name+".api_key", pc.APIKey)
		viper.SetDefault(name+".max_retries", pc.MaxRetries)
		viper.SetDefault(name+".breaker_failures", pc.BreakerFailures)
		viper.SetDefault(name+".breaker_cooldown", pc.BreakerCooldown)
	}

	viper.SetDefault("synthetic.seed", d.Synthetic.Seed)
	viper.SetDefault("synthetic.deterministic", d.Synthetic.Deterministic)
}

// bindEnv maps nested keys to CIVIC_SEARCH_ variables, e.g. search.max_page_size
// to CIVIC_SEARCH_SEARCH_MAX_PAGE_SIZE.
func bindEnv() {
	viper.SetEnvPrefix("CIVIC_SEARCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// loadConfig decodes the merged viper state into a Config.
func loadConfig() (types.Config, error) {
	var c types.Config
	if err := viper.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding config: %w", err)
	}
	return c, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
