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
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/lexingest/ai"
	"github.com/poiesic/lexingest/ai/openai"
	"github.com/poiesic/lexingest/capability"
	"github.com/poiesic/lexingest/core"
	"github.com/poiesic/lexingest/ingest"
	"github.com/poiesic/lexingest/store"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "lexingest",
		Usage: "Legal document ingestion and chunking pipeline",
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
				Usage:   "Path to YAML configuration file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Usage:     "Extract normalized document records from files",
				ArgsUsage: "FILE [FILE...]",
				Action:    extractCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "cache",
						Usage: "Path to BadgerDB extraction cache directory",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for batch processing (0 = auto)",
					},
					&cli.BoolFlag{
						Name:  "serialize-ocr",
						Usage: "Serialize OCR calls for engines unsafe under concurrency",
					},
				},
			},
			{
				Name:      "chunk",
				Usage:     "Extract files and split them into retrieval-sized chunks",
				ArgsUsage: "FILE [FILE...]",
				Action:    chunkCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "cache",
						Usage: "Path to BadgerDB extraction cache directory",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Worker pool size for batch processing (0 = auto)",
					},
					&cli.BoolFlag{
						Name:  "serialize-ocr",
						Usage: "Serialize OCR calls for engines unsafe under concurrency",
					},
					&cli.Float64Flag{
						Name:  "similarity-threshold",
						Usage: "Cosine similarity threshold for semantic grouping",
					},
					&cli.IntFlag{
						Name:  "max-chunk-size",
						Usage: "Maximum chunk length in characters",
					},
					&cli.IntFlag{
						Name:  "min-chunk-size",
						Usage: "Minimum chunk length in characters",
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Overlap between fixed-window chunks in characters",
					},
				},
			},
			{
				Name:   "capabilities",
				Usage:  "Probe and report the optional extraction capabilities",
				Action: capabilitiesCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "serialize-ocr",
						Usage: "Serialize OCR calls for engines unsafe under concurrency",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// probeSnapshot configures the model-backed capabilities from the provider
// config and probes once.
func probeSnapshot(ctx context.Context, aiConfig *ai.Config, serializeOCR bool) *capability.Snapshot {
	opts := []capability.Option{
		capability.WithEmbedder(func(ctx context.Context) (ai.Embedder, error) {
			return openai.NewEmbedder(aiConfig)
		}),
		capability.WithVisionProvider(func(ctx context.Context) (ai.VisionProvider, error) {
			return openai.NewVisionProvider(aiConfig)
		}),
	}
	if serializeOCR {
		opts = append(opts, capability.WithSerializedOCR())
	}
	return capability.NewRegistry(opts...).Probe(ctx)
}

// buildPipeline assembles a pipeline from the config file and command flags.
func buildPipeline(ctx context.Context, c *cli.Context) (*ingest.Pipeline, *fileConfig, error) {
	fc, err := loadConfig(c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	aiConfig := fc.aiConfig()
	if err := aiConfig.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid provider configuration: %w", err)
	}

	snapshot := probeSnapshot(ctx, aiConfig, c.Bool("serialize-ocr"))

	opts := []ingest.Option{ingest.WithChunkConfig(fc.chunkConfig())}

	poolSize := c.Int("pool-size")
	if poolSize == 0 {
		poolSize = fc.PoolSize
	}
	if poolSize > 0 {
		opts = append(opts, ingest.WithPoolSize(poolSize))
	}

	cachePath := c.String("cache")
	if cachePath == "" {
		cachePath = fc.CachePath
	}
	if cachePath != "" {
		cache, err := store.Open(cachePath, false)
		if err != nil {
			return nil, nil, fmt.Errorf("open extraction cache: %w", err)
		}
		opts = append(opts, ingest.WithCache(cache))
	}

	pipeline, err := ingest.New(snapshot, opts...)
	if err != nil {
		return nil, nil, err
	}
	return pipeline, fc, nil
}

func extractCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file argument is required")
	}
	ctx := context.Background()

	pipeline, _, err := buildPipeline(ctx, c)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	outcomes := pipeline.ExtractBatch(ctx, c.Args().Slice())

	records := make([]*core.DocumentRecord, 0, len(outcomes))
	failures := 0
	for _, outcome := range outcomes {
		if outcome.Failed() {
			failures++
			fmt.Fprintln(os.Stderr, outcome.Err.Error())
			continue
		}
		records = append(records, outcome.Value)
	}

	if err := writeJSON(records); err != nil {
		return err
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, len(outcomes))
	}
	return nil
}

func chunkCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file argument is required")
	}
	ctx := context.Background()

	pipeline, fc, err := buildPipeline(ctx, c)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	cfg := fc.chunkConfig()
	if v := c.Float64("similarity-threshold"); v != 0 {
		cfg.SimilarityThreshold = v
	}
	if v := c.Int("max-chunk-size"); v != 0 {
		cfg.MaxChunkSize = v
	}
	if v := c.Int("min-chunk-size"); v != 0 {
		cfg.MinChunkSize = v
	}
	if v := c.Int("chunk-overlap"); v != 0 {
		cfg.ChunkOverlap = v
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	extracted := pipeline.ExtractBatch(ctx, c.Args().Slice())

	docs := make([]*core.DocumentRecord, 0, len(extracted))
	failures := 0
	for _, outcome := range extracted {
		if outcome.Failed() {
			failures++
			fmt.Fprintln(os.Stderr, outcome.Err.Error())
			continue
		}
		docs = append(docs, outcome.Value)
	}

	var chunks []core.ChunkRecord
	for _, outcome := range pipeline.ChunkBatch(ctx, docs, cfg) {
		if outcome.Failed() {
			failures++
			fmt.Fprintln(os.Stderr, outcome.Err.Error())
			continue
		}
		chunks = append(chunks, outcome.Value...)
	}

	if err := writeJSON(chunks); err != nil {
		return err
	}
	if failures > 0 {
		return fmt.Errorf("%d inputs failed", failures)
	}
	return nil
}

func capabilitiesCommand(c *cli.Context) error {
	ctx := context.Background()

	fc, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	aiConfig := fc.aiConfig()
	if err := aiConfig.Validate(); err != nil {
		return fmt.Errorf("invalid provider configuration: %w", err)
	}

	snapshot := probeSnapshot(ctx, aiConfig, c.Bool("serialize-ocr"))
	return writeJSON(snapshot.Summary())
}

// writeJSON pretty-prints v to stdout.
func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
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
		return fmt.Errorf("invalid log level: %s", levelStr)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}
