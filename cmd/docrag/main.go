// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/docrag"
	"github.com/poiesic/docrag/config"
	"github.com/poiesic/docrag/ingestion"
	"github.com/poiesic/docrag/reembed"
	"github.com/poiesic/docrag/search"
	"github.com/urfave/cli/v2"
)

// openDatabase is replaced in tests to inject a mock provider.
var openDatabase = docrag.Open

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "docrag",
		Usage:     "Question answering over a directory of PDF documents",
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				Value:   "docrag.yaml",
			},
			&cli.StringFlag{
				Name:  "data-path",
				Usage: "Directory of PDF files (overrides config)",
			},
			&cli.StringFlag{
				Name:  "index-path",
				Usage: "Path to the BadgerDB index directory (overrides config)",
			},
		},
		Before: before,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Load, chunk and index every PDF in the data directory",
				Action: ingestCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "reset",
						Usage: "Clear the index before writing",
					},
					&cli.BoolFlag{
						Name:  "purge",
						Usage: "Remove the index directory before opening it",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Answer a question from the indexed documents",
				ArgsUsage: "<query_text>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "k",
						Usage: "Number of chunks to retrieve (overrides config)",
					},
					&cli.BoolFlag{
						Name:  "show-sources",
						Usage: "Print the retrieved chunks after the response",
					},
				},
			},
			{
				Name:   "reembed",
				Usage:  "Rebuild every stored vector with the configured embedding model",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}
}

func before(c *cli.Context) error {
	// A missing .env file is normal.
	envErr := godotenv.Load()
	if err := setupLogger(c); err != nil {
		return err
	}
	if envErr != nil {
		slog.Debug("no .env file loaded", "err", envErr)
	}
	return nil
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if path := c.String("data-path"); path != "" {
		cfg.DataPath = path
	}
	if path := c.String("index-path"); path != "" {
		cfg.IndexPath = path
	}
	return cfg, nil
}

func ingestCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	var opts []docrag.DatabaseOption
	if c.Bool("purge") {
		opts = append(opts, docrag.WithReset())
	}
	db, err := openDatabase(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	result, err := pipeline.Run(c.Context, ingestion.RunOptions{Reset: c.Bool("reset")})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	w := c.App.ErrWriter
	fmt.Fprintf(w, "Documents: %d\n", result.Documents)
	fmt.Fprintf(w, "Chunks: %d\n", result.Chunks)
	fmt.Fprintf(w, "Added: %d\n", result.Added)
	fmt.Fprintf(w, "Skipped: %d\n", result.Skipped)
	return nil
}

func queryCommand(c *cli.Context) error {
	queryText := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if queryText == "" {
		return fmt.Errorf("query text is required")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("k") {
		cfg.Retrieval.K = c.Int("k")
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer db.Close()

	service, err := db.NewQueryService()
	if err != nil {
		return fmt.Errorf("failed to create query service: %w", err)
	}

	answer, err := service.QueryWithMonitor(c.Context, queryText, search.NewLogMonitor(slog.Default()))
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "\n\nResponse:\n%s\n", answer.Response)
	if c.Bool("show-sources") {
		fmt.Fprintf(c.App.Writer, "\nSources:\n%s\n", search.FormatSources(answer.Results))
	}
	return nil
}

func reembedCommand(c *cli.Context) error {
	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer db.Close()

	reembedder, err := db.NewReembedder(reembedConfig, c.App.ErrWriter)
	if err != nil {
		return fmt.Errorf("failed to create reembedder: %w", err)
	}

	w := c.App.ErrWriter
	fmt.Fprintf(w, "Index: %s\n", cfg.IndexPath)
	fmt.Fprintf(w, "Embedding host: %s\n", cfg.AI.EmbeddingHost)
	fmt.Fprintf(w, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(w)

	if err := reembedder.Run(c.Context); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
