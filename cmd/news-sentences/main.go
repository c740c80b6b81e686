// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the news-sentences CLI. It turns a
// folder of news-article JSON files into sentence-level CSV datasets.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/news-sentences/internal/logging"
	"github.com/pdiddy/news-sentences/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the news-sentences CLI.
var rootCmd = &cobra.Command{
	Use:   "news-sentences",
	Short: "Split news-article JSON files into a sentence-level CSV dataset",
	Long: `news-sentences reads every *.json file under a folder, splits the body of
each article ("isi") into sentences, and writes one CSV row per sentence
together with the article title ("judul"). Output is spread across numbered
files of at most max_rows_per_file rows.

Settings come from flags, NEWS_SENTENCES_* environment variables, or
news-sentences.yaml in the working directory or ~/.config/news-sentences/.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./news-sentences.yaml or ~/.config/news-sentences/news-sentences.yaml)")
	flags.String("log-file", logging.DefaultFile, "log file, appended to on every run (empty logs to the console only)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("ledger", "", "SQLite run ledger path (empty disables the ledger)")

	_ = viper.BindPFlag("log_file", flags.Lookup("log-file"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("ledger", flags.Lookup("ledger"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("news-sentences")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "news-sentences"))
		}
	}

	viper.SetEnvPrefix("NEWS_SENTENCES")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// logConfig returns the log settings after flag, env, and file resolution.
func logConfig() types.LogConfig {
	return types.LogConfig{
		File:  viper.GetString("log_file"),
		Level: viper.GetString("log_level"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
