package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BegaDeveloper/datasieve/internal/logger"
	"github.com/BegaDeveloper/datasieve/internal/metrics"
	"github.com/BegaDeveloper/datasieve/internal/pipeline"
	"github.com/BegaDeveloper/datasieve/internal/rules"
	"github.com/BegaDeveloper/datasieve/internal/runtimeconfig"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

// app is the state shared by every subcommand once the root pre-run has
// resolved flags, environment and config files.
type app struct {
	configPath  string
	rulesPath   string
	logLevel    string
	metricsFile string

	settings runtimeconfig.Settings
	rules    rules.Config
	log      zerolog.Logger
}

func newRootCmd() *cobra.Command {
	state := &app{}
	rootCmd := &cobra.Command{
		Use:   "datasieve",
		Short: "Filter and deduplicate JSON / JSONL training datasets",
		Long: "datasieve keeps Java training records, drops records that mention other\n" +
			"languages and removes exact duplicates from JSON array and JSONL datasets.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.prepare(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&state.configPath, "config", "", "runtime config file (default ~/.datasieve/config)")
	flags.StringVar(&state.rulesPath, "rules", "", "YAML rules file (default: nearest "+rules.FileName+")")
	flags.StringVar(&state.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&state.metricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")

	rootCmd.AddCommand(newFilterCmd(state))
	rootCmd.AddCommand(newClassifyCmd(state))
	rootCmd.AddCommand(newDedupCmd(state))
	return rootCmd
}

func (state *app) prepare(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	fileConfig, err := runtimeconfig.Load(state.configPath)
	if err != nil {
		return err
	}
	state.settings = fileConfig.Resolve()

	flags := cmd.Flags()
	if !flags.Changed("log-level") && state.settings.LogLevel != "" {
		state.logLevel = state.settings.LogLevel
	}
	if !flags.Changed("rules") && state.settings.RulesPath != "" {
		state.rulesPath = state.settings.RulesPath
	}
	if !flags.Changed("metrics-file") && state.settings.MetricsFile != "" {
		state.metricsFile = state.settings.MetricsFile
	}

	if cmd.ErrOrStderr() == os.Stderr {
		state.log = logger.New(state.logLevel)
	} else {
		state.log = logger.NewWithWriter(state.logLevel, zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true, TimeFormat: time.RFC3339})
	}

	rulesPath := state.rulesPath
	if rulesPath == "" {
		if workingDir, wdError := os.Getwd(); wdError == nil {
			rulesPath = rules.Find(workingDir)
		}
	}
	state.rules, err = rules.Load(rulesPath)
	if err != nil {
		return err
	}
	if rulesPath != "" {
		state.log.Debug().Str("path", rulesPath).Msg("rules loaded")
	}
	return nil
}

// detectEncoding resolves a per-command --detect-encoding flag against the
// runtime config when the flag was not given.
func (state *app) detectEncoding(cmd *cobra.Command, flagValue bool) bool {
	if !cmd.Flags().Changed("detect-encoding") && state.settings.DetectEncodingSet {
		return state.settings.DetectEncoding
	}
	return flagValue
}

// finish logs the run summary and writes metrics when requested.
func (state *app) finish(command string, stats pipeline.Stats, duplicates int) error {
	stats.Log(&state.log)
	if state.metricsFile == "" {
		return nil
	}
	recorder := metrics.New(command)
	recorder.Observe(stats)
	recorder.ObserveDuplicates(duplicates)
	if err := recorder.WriteTextfile(state.metricsFile); err != nil {
		return err
	}
	state.log.Debug().Str("path", state.metricsFile).Msg("metrics written")
	return nil
}
