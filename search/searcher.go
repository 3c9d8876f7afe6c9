package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/coursefind/ai"
	"github.com/poiesic/coursefind/core"
	"github.com/poiesic/coursefind/index"
)

// Searcher ranks an immutable corpus index against free-text queries.
// A Searcher is safe for concurrent use as long as its embedder is.
type Searcher struct {
	index    *index.Index
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher over the given index.
func NewSearcher(idx *index.Index, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		index:    idx,
		embedder: embedder,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search ranks the corpus against the query and returns the
// min(topK, corpus size) best matches, ordered by descending relevance.
func (s *Searcher) Search(ctx context.Context, query string, topK int) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, topK, nil)
}

// SearchWithMonitor ranks the corpus against the query with monitoring.
// The monitor receives callbacks at each stage of the search process.
//
// Ties are broken by corpus insertion order, so identical inputs always
// produce identical output. Argument validation happens before any encoding:
// a non-positive topK or an empty query fails with core.ErrInvalidArgument,
// and an empty index fails with core.ErrCatalogUnavailable so callers can
// tell "no data loaded" apart from "no matches".
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, topK int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if topK <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", core.ErrInvalidArgument, topK)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query must not be empty", core.ErrInvalidArgument)
	}
	if s.index.IsEmpty() {
		return nil, core.ErrCatalogUnavailable
	}

	monitor.Start(query)

	// 1. Encode the query
	queryVector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		if !errors.Is(err, core.ErrEncodingFailed) {
			err = fmt.Errorf("%w: %w", core.ErrEncodingFailed, err)
		}
		return nil, err
	}
	monitor.AfterQueryEmbedding(len(queryVector))

	// 2. Score every corpus vector
	scores := make([]float32, s.index.Len())
	for i := range scores {
		score, err := CosineSimilarity(queryVector, s.index.Vector(i))
		if err != nil {
			s.logger.Error("corpus vector has wrong dimensionality", "position", i, "err", err)
			return nil, err
		}
		scores[i] = score
	}
	monitor.AfterScoring(scores)

	// 3. Select top-k, descending by score. The stable sort keeps corpus
	// insertion order among equal scores.
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	k := topK
	if k > len(order) {
		k = len(order)
	}

	results := make([]*core.SearchResult, k)
	for i := 0; i < k; i++ {
		pos := order[i]
		results[i] = &core.SearchResult{
			Course: s.index.Course(pos),
			Score:  scores[pos],
		}
	}
	monitor.Finish(results)

	return results, nil
}
