// Command cvai manages CVs, reviews, job matches and cover letters from the
// terminal.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cvai-core/internal/bootstrap"
	"cvai-core/internal/shared/config"
)

var rootCmd = &cobra.Command{
	Use:           "cvai",
	Short:         "Local CV review, job match and cover letter tool",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return openApp(cmd)
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if app == nil {
			return nil
		}
		return app.Close()
	},
}

var (
	app *bootstrap.App

	flagEnvFile    string
	flagStorage    string
	flagStorageDir string
	flagSQLitePath string
	flagScorer     string
	flagNoLatency  bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagEnvFile, "env-file", "", "Load configuration from this .env file")
	pf.StringVar(&flagStorage, "storage", "", "Storage backend: memory, file, sqlite, postgres or s3 (overrides STORAGE_BACKEND)")
	pf.StringVar(&flagStorageDir, "storage-dir", "", "Directory for the file backend (overrides STORAGE_DIR)")
	pf.StringVar(&flagSQLitePath, "sqlite-path", "", "SQLite database path (overrides SQLITE_PATH)")
	pf.StringVar(&flagScorer, "scorer", "", "Scoring strategy: baseline, keyword or llm (overrides SCORER)")
	pf.BoolVar(&flagNoLatency, "no-latency", false, "Skip the simulated analysis latency")
}

func openApp(cmd *cobra.Command) error {
	if flagEnvFile != "" {
		if err := config.LoadFile(flagEnvFile); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
	}
	cfg := applyFlags(config.Load())

	var err error
	app, err = bootstrap.BuildCore(cmd.Context(), cfg)
	return err
}

func applyFlags(cfg config.Config) config.Config {
	if flagStorage != "" {
		cfg.StorageBackend = config.NormalizeBackend(flagStorage)
	}
	if flagStorageDir != "" {
		cfg.StorageDir = flagStorageDir
	}
	if flagSQLitePath != "" {
		cfg.SQLitePath = flagSQLitePath
	}
	if flagScorer != "" {
		cfg.Scorer = config.NormalizeScorer(flagScorer)
	}
	if flagNoLatency {
		cfg.ReviewLatency, cfg.MatchLatency, cfg.LetterLatency = 0, 0, 0
	}
	return cfg
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
