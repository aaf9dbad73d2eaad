package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppetrou/thesis-publisher/internal/analyze"
	"github.com/ppetrou/thesis-publisher/internal/history"
	"github.com/ppetrou/thesis-publisher/internal/pipeline"
	"github.com/ppetrou/thesis-publisher/internal/reader"
	"github.com/ppetrou/thesis-publisher/internal/secrets"
	"github.com/ppetrou/thesis-publisher/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "thesis-publisher/0.1"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process thesis PDFs under a folder into website entries",
	Long: `Process recursively discovers PDF files under the base folder, extracts
text and metadata from each, analyzes the content through the Perplexity
API, and writes one Hugo Blox entry per thesis under the output directory.

Per-document failures are recorded and reported at the end of the run
without stopping the remaining documents. The run exits non-zero only when
the configuration is invalid or the API key is rejected up front.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().String("api-key", "", "Perplexity API key (or THESIS_PUBLISHER_API_KEY, or .secrets/perplexity-api-key)")
	processCmd.Flags().String("base-folder", "", "folder containing the thesis PDFs (required)")
	processCmd.Flags().Bool("test", false, "process only the first PDF and stop (for testing)")
	processCmd.Flags().String("out-dir", "", "output directory for entries (default: <base-folder>/out)")
	processCmd.Flags().String("model", "", "summarization model identifier (default sonar-pro)")
	processCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	processCmd.Flags().Int("max-retries", 0, "retries on rate-limited API calls (default 0)")
	processCmd.Flags().String("history-db", "", "SQLite run-ledger path (empty disables recording)")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	baseFolder, _ := cmd.Flags().GetString("base-folder")
	if baseFolder == "" {
		return &types.ConfigurationError{Reason: "--base-folder is required"}
	}
	info, err := os.Stat(baseFolder)
	if err != nil {
		return &types.ConfigurationError{Reason: fmt.Sprintf("base folder %s does not exist", baseFolder)}
	}
	if !info.IsDir() {
		return &types.ConfigurationError{Reason: fmt.Sprintf("%s is not a directory", baseFolder)}
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = viper.GetString("api_key")
	}
	apiKey = secretDefault(secrets.PerplexityAPIKey, apiKey)
	if apiKey == "" {
		return &types.ConfigurationError{Reason: "no API key: use --api-key, THESIS_PUBLISHER_API_KEY, or .secrets/perplexity-api-key"}
	}

	outDir, _ := cmd.Flags().GetString("out-dir")
	if outDir == "" {
		outDir = filepath.Join(baseFolder, "out")
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	model, _ := cmd.Flags().GetString("model")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	testMode, _ := cmd.Flags().GetBool("test")
	historyDB, _ := cmd.Flags().GetString("history-db")

	cfg := types.PipelineConfig{
		BaseFolder: baseFolder,
		OutDir:     outDir,
		TestMode:   testMode,
		HistoryDB:  historyDB,
		Analysis: types.AnalysisConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: defaultUserAgent,
			},
			Model:      model,
			APIKey:     apiKey,
			MaxRetries: maxRetries,
		},
	}

	backend := &analyze.PerplexityBackend{
		APIKey:     cfg.Analysis.APIKey,
		Model:      cfg.Analysis.Model,
		UserAgent:  cfg.Analysis.UserAgent,
		MaxRetries: cfg.Analysis.MaxRetries,
		Client:     &http.Client{Timeout: cfg.Analysis.Timeout},
	}

	runner := &pipeline.Runner{
		Cfg:     cfg,
		Reader:  pipeline.ReaderFunc(reader.Read),
		Backend: backend,
		Out:     os.Stdout,
	}

	if historyDB != "" {
		store, err := history.Open(historyDB)
		if err != nil {
			return err
		}
		defer store.Close()
		runner.History = store
	}

	// A completed run exits zero even when some documents failed; the
	// failures are in the report.
	_, err = runner.Run(context.Background())
	return err
}
