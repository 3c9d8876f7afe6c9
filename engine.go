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


package coursefind

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/poiesic/coursefind/ai"
	"github.com/poiesic/coursefind/ai/openai"
	"github.com/poiesic/coursefind/catalog"
	"github.com/poiesic/coursefind/core"
	"github.com/poiesic/coursefind/index"
	"github.com/poiesic/coursefind/search"
	"github.com/poiesic/coursefind/storage"
	"github.com/poiesic/coursefind/storage/badger"
)

// DefaultTopK is the number of results returned when SearchOptions
// leaves TopK unset.
const DefaultTopK = 5

// Engine ties the course catalog, the embedding provider, and the
// in-memory similarity index together. Create one with NewEngine and
// pass it around explicitly; there is no package-level instance.
type Engine struct {
	backend    *badger.Backend
	courseRepo storage.CourseRepository
	provider   ai.Provider
	logger     *slog.Logger

	mu       sync.RWMutex
	index    *index.Index
	searcher *search.Searcher
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
	logger   *slog.Logger
}

// WithAIConfig sets the embedding provider configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built AI provider, bypassing the
// OpenAI-compatible default. Useful for tests.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithInMemory stores the catalog in memory instead of on disk.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	// Apply options
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create course repository
	courseRepo, err := badger.NewCourseRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create AI provider with configured settings
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			courseRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Engine{
		backend:    backend,
		courseRepo: courseRepo,
		provider:   provider,
		logger:     options.logger,
	}, nil
}

func (e *Engine) Close() error {
	// Close AI provider first
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}

	// Close repository
	if err := e.courseRepo.Close(); err != nil {
		e.logger.Error("error closing course repository", "err", err)
		return err
	}

	// Close backend
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (e *Engine) CourseRepository() storage.CourseRepository {
	return e.courseRepo
}

// ImportCourses reads a JSON catalog from r, normalizes it, and stores the
// surviving courses. Courses sharing a URL with an already stored course
// replace it in place. The stale index is discarded; the next Search or
// BuildIndex re-embeds the catalog.
func (e *Engine) ImportCourses(ctx context.Context, r io.Reader) (*catalog.Report, error) {
	courses, report, err := catalog.Parse(r)
	if err != nil {
		return nil, err
	}

	if len(courses) > 0 {
		if _, err := e.courseRepo.AddCourses(ctx, courses...); err != nil {
			return nil, err
		}
	}

	e.mu.Lock()
	e.index = nil
	e.searcher = nil
	e.mu.Unlock()

	e.logger.Info("catalog imported",
		"total", report.Total,
		"loaded", report.Loaded,
		"rejected", report.Rejected)
	return report, nil
}

// ImportFile imports a JSON catalog from the given path.
func (e *Engine) ImportFile(ctx context.Context, path string) (*catalog.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return e.ImportCourses(ctx, f)
}

// BuildIndex embeds every stored course and swaps in a fresh searcher.
// Builder options control batching, concurrency, and progress reporting.
func (e *Engine) BuildIndex(ctx context.Context, opts ...index.Option) error {
	courses, err := e.courseRepo.AllCourses(ctx)
	if err != nil {
		return err
	}

	builder, err := index.NewBuilder(e.provider.Embedder(), opts...)
	if err != nil {
		return err
	}

	idx, err := builder.Build(ctx, courses)
	if err != nil {
		return err
	}

	searcher, err := search.NewSearcher(idx, e.provider.Embedder(), search.WithLogger(e.logger))
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.index = idx
	e.searcher = searcher
	e.mu.Unlock()

	e.logger.Info("index built", "courses", idx.Len(), "dimension", idx.Dimension())
	return nil
}

// SearchOptions controls a single Search call. The zero value asks for
// DefaultTopK results with no facet constraints.
type SearchOptions struct {
	// TopK bounds the number of results. Zero means DefaultTopK.
	TopK int
	// Category constrains results to an exact category (case-insensitive).
	// Empty or search.AllCategories means unconstrained.
	Category string
	// Level constrains results to an exact level (case-insensitive).
	// Empty or search.AllLevels means unconstrained.
	Level string
	// Monitor, when set, receives stage callbacks during the search.
	Monitor search.SearchMonitor
}

// Search ranks the indexed catalog against the query and applies facet
// filters to the ranked results. The index is built on first use if
// BuildIndex hasn't been called since the last import.
func (e *Engine) Search(ctx context.Context, query string, opts SearchOptions) ([]*core.SearchResult, error) {
	if opts.TopK == 0 {
		opts.TopK = DefaultTopK
	}

	// Arguments are validated before the lazy index build: a bad query or
	// top-k must never trigger corpus embedding.
	if opts.TopK < 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", core.ErrInvalidArgument, opts.TopK)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query must not be empty", core.ErrInvalidArgument)
	}

	searcher, err := e.ensureSearcher(ctx)
	if err != nil {
		return nil, err
	}

	results, err := searcher.SearchWithMonitor(ctx, query, opts.TopK, opts.Monitor)
	if err != nil {
		return nil, err
	}

	return search.FilterResults(results, opts.Category, opts.Level), nil
}

// Featured returns up to n courses ordered by enrollment count, highest
// first. Courses with equal enrollment keep their catalog order.
func (e *Engine) Featured(ctx context.Context, n int) ([]*core.Course, error) {
	if n <= 0 {
		return nil, nil
	}

	courses, err := e.courseRepo.AllCourses(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].EnrollmentCount > courses[j].EnrollmentCount
	})

	if n > len(courses) {
		n = len(courses)
	}
	return courses[:n], nil
}

// Facets describes the filterable values present in the stored catalog.
type Facets struct {
	Categories []string
	Levels     []string
}

// Facets returns the distinct categories and levels across the stored
// catalog, each sorted alphabetically.
func (e *Engine) Facets(ctx context.Context) (*Facets, error) {
	courses, err := e.courseRepo.AllCourses(ctx)
	if err != nil {
		return nil, err
	}

	categories := make(map[string]struct{})
	levels := make(map[string]struct{})
	for _, course := range courses {
		if course.Category != "" {
			categories[course.Category] = struct{}{}
		}
		if course.Level != "" {
			levels[course.Level] = struct{}{}
		}
	}

	facets := &Facets{
		Categories: make([]string, 0, len(categories)),
		Levels:     make([]string, 0, len(levels)),
	}
	for category := range categories {
		facets.Categories = append(facets.Categories, category)
	}
	for level := range levels {
		facets.Levels = append(facets.Levels, level)
	}
	sort.Strings(facets.Categories)
	sort.Strings(facets.Levels)

	return facets, nil
}

// CourseCount returns the number of stored courses.
func (e *Engine) CourseCount(ctx context.Context) (int, error) {
	return e.courseRepo.Count(ctx)
}

func (e *Engine) ensureSearcher(ctx context.Context) (*search.Searcher, error) {
	e.mu.RLock()
	searcher := e.searcher
	e.mu.RUnlock()
	if searcher != nil {
		return searcher, nil
	}

	if err := e.BuildIndex(ctx); err != nil {
		return nil, err
	}

	e.mu.RLock()
	searcher = e.searcher
	e.mu.RUnlock()
	return searcher, nil
}
