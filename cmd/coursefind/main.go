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
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/coursefind"
	"github.com/poiesic/coursefind/ai"
	"github.com/poiesic/coursefind/core"
	"github.com/poiesic/coursefind/index"
	"github.com/poiesic/coursefind/search"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "coursefind",
		Usage: "Semantic course search over a local catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Import a JSON course catalog into the database",
				Action: importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "catalog",
						Aliases:  []string{"c"},
						Usage:    "Path to the JSON catalog file",
						Required: true,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the catalog by meaning",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "embeddinggemma",
					},
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results to return",
						Value:   coursefind.DefaultTopK,
					},
					&cli.StringFlag{
						Name:  "category",
						Usage: "Restrict results to an exact category",
						Value: search.AllCategories,
					},
					&cli.StringFlag{
						Name:  "level",
						Usage: "Restrict results to an exact level",
						Value: search.AllLevels,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of courses to embed in each batch",
						Value: 32,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report indexing progress every N courses",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding calls",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Log every search stage",
					},
				},
			},
			{
				Name:   "featured",
				Usage:  "List the most popular courses by enrollment",
				Action: featuredCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "Number of courses to list",
						Value:   coursefind.DefaultTopK,
					},
				},
			},
			{
				Name:   "facets",
				Usage:  "List the categories and levels present in the catalog",
				Action: facetsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show catalog statistics",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openEngine(c *cli.Context) (*coursefind.Engine, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	// Commands without embedding flags fall back to the defaults.
	var configOpts []ai.ConfigOption
	if host := c.String("embedding-host"); host != "" {
		configOpts = append(configOpts, ai.WithEmbeddingHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		configOpts = append(configOpts, ai.WithEmbeddingModel(model))
	}

	aiConfig := ai.NewConfig(configOpts...)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	engine, err := coursefind.NewEngine(dbPath, coursefind.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return engine, nil
}

func importCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	report, err := engine.ImportFile(ctx, c.String("catalog"))
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	count, err := engine.CourseCount(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d of %d courses (%d rejected)\n", report.Loaded, report.Total, report.Rejected)
	fmt.Printf("Catalog now holds %d courses\n", count)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("usage: coursefind search [flags] <query>")
	}

	// An explicit zero is rejected here; the engine's zero value means
	// "use the default" and would mask the mistake.
	if c.Int("top-k") <= 0 {
		return fmt.Errorf("top-k must be positive, got %d", c.Int("top-k"))
	}

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	count, err := engine.CourseCount(ctx)
	if err != nil {
		return err
	}

	// Embed the catalog up front so progress lands on stderr, not in the
	// middle of the results.
	tracker := index.NewProgressTracker(os.Stderr, count, c.Int("report-interval"))
	err = engine.BuildIndex(ctx,
		index.WithBatchSize(c.Int("batch-size")),
		index.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
		index.WithProgress(tracker),
	)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	opts := coursefind.SearchOptions{
		TopK:     c.Int("top-k"),
		Category: c.String("category"),
		Level:    c.String("level"),
	}
	if c.Bool("verbose") {
		opts.Monitor = &search.SlogMonitor{}
	}

	results, err := engine.Search(ctx, query, opts)
	if err != nil {
		if errors.Is(err, core.ErrCatalogUnavailable) {
			return fmt.Errorf("no catalog imported yet: run 'coursefind import' first")
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No courses matched.")
		return nil
	}

	for i, result := range results {
		printCourse(i+1, result.Course, fmt.Sprintf("score %.4f", result.Score))
	}
	return nil
}

func featuredCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	courses, err := engine.Featured(ctx, c.Int("count"))
	if err != nil {
		return err
	}

	if len(courses) == 0 {
		fmt.Println("No courses in catalog.")
		return nil
	}

	for i, course := range courses {
		printCourse(i+1, course, fmt.Sprintf("%d enrolled", course.EnrollmentCount))
	}
	return nil
}

func facetsCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	facets, err := engine.Facets(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Categories:")
	for _, category := range facets.Categories {
		fmt.Printf("  %s\n", category)
	}
	fmt.Println("Levels:")
	for _, level := range facets.Levels {
		fmt.Printf("  %s\n", level)
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	engine, err := openEngine(c)
	if err != nil {
		return err
	}
	defer engine.Close()

	count, err := engine.CourseCount(ctx)
	if err != nil {
		return err
	}

	facets, err := engine.Facets(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Courses:    %d\n", count)
	fmt.Printf("Categories: %d\n", len(facets.Categories))
	fmt.Printf("Levels:     %d\n", len(facets.Levels))
	return nil
}

func printCourse(rank int, course *core.Course, annotation string) {
	fmt.Printf("%d. %s (%s)\n", rank, course.Title, annotation)
	if course.Category != "" || course.Level != "" {
		fmt.Printf("   %s | %s\n", course.Category, course.Level)
	}
	if course.Instructor != "" {
		fmt.Printf("   Instructor: %s\n", course.Instructor)
	}
	fmt.Printf("   %s | %s\n", course.Price, course.Duration)
	if course.URL != "" {
		fmt.Printf("   %s\n", course.URL)
	}
	fmt.Println()
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
