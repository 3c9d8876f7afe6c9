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


package index

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/coursefind/ai"
	"github.com/poiesic/coursefind/core"
)

const (
	defaultBatchSize      = 32
	defaultMaxRetries     = 3
	defaultRetryBaseDelay = 1 * time.Second
)

// Builder constructs an Index by embedding course texts in batches.
// Batches are embedded concurrently on a worker pool; because each course's
// embedding depends only on its own text, parallelism never changes the
// resulting index.
type Builder struct {
	embedder       ai.Embedder
	batchSize      int
	poolSize       int
	maxRetries     int
	retryBaseDelay time.Duration
	progress       *ProgressTracker
	logger         *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithBatchSize sets the number of courses embedded per batch request.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		b.batchSize = size
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent batch embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		b.poolSize = size
		return nil
	}
}

// WithRetry sets the retry policy for embedding API calls.
// Defaults are 3 attempts with a 1s base delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(b *Builder) error {
		if maxAttempts < 1 {
			return ErrInvalidMaxAttempts
		}
		b.maxRetries = maxAttempts
		b.retryBaseDelay = baseDelay
		return nil
	}
}

// WithProgress sets a progress tracker updated as courses are embedded.
func WithProgress(tracker *ProgressTracker) Option {
	return func(b *Builder) error {
		b.progress = tracker
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a new index builder.
func NewBuilder(embedder ai.Embedder, opts ...Option) (*Builder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	b := &Builder{
		embedder:       embedder,
		batchSize:      defaultBatchSize,
		poolSize:       poolSize,
		maxRetries:     defaultMaxRetries,
		retryBaseDelay: defaultRetryBaseDelay,
		logger:         slog.Default().With("component", "index-builder"),
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// Build embeds every course and returns the finished index. The input order
// is preserved exactly: vector i belongs to course i.
//
// An empty course list yields an empty index without error; callers
// distinguish that state through Index.IsEmpty. Any embedding failure aborts
// the whole build, since a half-built index must never serve queries.
func (b *Builder) Build(ctx context.Context, courses []*core.Course) (*Index, error) {
	if len(courses) == 0 {
		b.logger.Info("building empty index: no courses in catalog")
		return &Index{}, nil
	}

	texts := make([]string, len(courses))
	for i, course := range courses {
		texts[i] = course.EmbeddingText()
	}

	b.logger.Info("building index", "courses", len(courses), "batchSize", b.batchSize, "poolSize", b.poolSize)

	pool, err := ants.NewPool(b.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	if b.progress != nil {
		b.progress.Start()
	}

	vectors := make([][]float32, len(courses))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		buildErr error
	)

	for start := 0; start < len(texts); start += b.batchSize {
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		offset, batch := start, texts[start:end]

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			var embedded [][]float32
			err := RetryWithBackoff(ctx, func() error {
				var embErr error
				embedded, embErr = b.embedder.EmbedTexts(ctx, batch)
				return embErr
			}, b.maxRetries, b.retryBaseDelay, b.logger)

			if err == nil && len(embedded) != len(batch) {
				err = fmt.Errorf("embedding result mismatch: expected %d, received %d", len(batch), len(embedded))
			}

			if err != nil {
				mu.Lock()
				if buildErr == nil {
					buildErr = err
				}
				mu.Unlock()
				return
			}

			copy(vectors[offset:], embedded)
			if b.progress != nil {
				b.progress.Increment(len(batch))
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if buildErr == nil {
				buildErr = submitErr
			}
			mu.Unlock()
			break
		}
	}

	wg.Wait()

	if b.progress != nil {
		b.progress.Finish()
	}

	if buildErr != nil {
		b.logger.Error("index build failed", "err", buildErr)
		return nil, fmt.Errorf("%w: %w", core.ErrEncodingFailed, buildErr)
	}

	dim, err := checkDimensions(vectors)
	if err != nil {
		return nil, err
	}

	b.logger.Info("index built", "courses", len(courses), "dimension", dim)

	return &Index{
		courses: courses,
		vectors: vectors,
		dim:     dim,
	}, nil
}

// checkDimensions verifies every vector has the same length and returns it.
// A mismatch means the embedder was used inconsistently, which is a
// construction bug, never something to truncate or pad over.
func checkDimensions(vectors [][]float32) (int, error) {
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return 0, fmt.Errorf("%w: vector %d has %d dimensions, expected %d",
				core.ErrDimensionMismatch, i, len(v), dim)
		}
	}
	return dim, nil
}
