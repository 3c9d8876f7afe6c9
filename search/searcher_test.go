package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poiesic/coursefind/ai/mock"
	"github.com/poiesic/coursefind/core"
	"github.com/poiesic/coursefind/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// courseCorpus is a small catalog with hand-picked embedding directions:
// the two Python courses point (mostly) along the first axis, the deep
// learning course along the second.
func courseCorpus() []*core.Course {
	return []*core.Course{
		{
			Title:           "Intro to Python",
			Description:     "Learn Python from scratch",
			Category:        "Programming",
			Level:           core.LevelBeginner,
			EnrollmentCount: 500,
		},
		{
			Title:           "Advanced Deep Learning",
			Description:     "Neural networks in depth",
			Category:        "ML",
			Level:           core.LevelAdvanced,
			EnrollmentCount: 50,
		},
		{
			Title:           "Python for Data Analysis",
			Description:     "Pandas and numpy",
			Category:        "Programming",
			Level:           core.LevelIntermediate,
			EnrollmentCount: 200,
		},
	}
}

// keywordVector maps text to a fixed direction so tests control the ranking.
func keywordVector(text string) []float32 {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "data analysis"):
		return []float32{0.9, 0.1, 0}
	case strings.Contains(lower, "python"):
		return []float32{1, 0, 0}
	case strings.Contains(lower, "deep learning"):
		return []float32{0, 1, 0}
	default:
		return []float32{0, 0, 1}
	}
}

func keywordEmbedder() *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return keywordVector(text), nil
	}
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = keywordVector(text)
		}
		return vectors, nil
	}
	return embedder
}

func buildIndex(t *testing.T, embedder *mock.MockEmbedder, courses []*core.Course) *index.Index {
	t.Helper()
	builder, err := index.NewBuilder(embedder)
	require.NoError(t, err)
	idx, err := builder.Build(context.Background(), courses)
	require.NoError(t, err)
	return idx
}

func TestNewSearcher(t *testing.T) {
	embedder := keywordEmbedder()
	idx := buildIndex(t, embedder, courseCorpus())

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(idx, embedder)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(idx, embedder, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil index", func(t *testing.T) {
		_, err := NewSearcher(nil, embedder)
		assert.Equal(t, ErrIndexRequired, err)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewSearcher(idx, nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})
}

func TestSearch_RanksBySimilarity(t *testing.T) {
	embedder := keywordEmbedder()
	idx := buildIndex(t, embedder, courseCorpus())
	searcher, err := NewSearcher(idx, embedder)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "python basics", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Both Python courses rank above the deep learning course.
	assert.Equal(t, "Intro to Python", results[0].Course.Title)
	assert.Equal(t, "Python for Data Analysis", results[1].Course.Title)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearch_Deterministic(t *testing.T) {
	embedder := keywordEmbedder()
	idx := buildIndex(t, embedder, courseCorpus())
	searcher, err := NewSearcher(idx, embedder)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := searcher.Search(ctx, "python basics", 3)
	require.NoError(t, err)
	second, err := searcher.Search(ctx, "python basics", 3)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Same(t, first[i].Course, second[i].Course)
		assert.InDelta(t, first[i].Score, second[i].Score, 1e-6)
	}
}

func TestSearch_ScoresNonIncreasing(t *testing.T) {
	// Use the hash-based default vectors: arbitrary scores, ordering must
	// still be non-increasing.
	embedder := mock.NewMockEmbedder()
	embedder.Dimension = 16
	idx := buildIndex(t, embedder, courseCorpus())
	searcher, err := NewSearcher(idx, embedder)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "anything at all", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestSearch_BoundedOutputSize(t *testing.T) {
	embedder := keywordEmbedder()
	idx := buildIndex(t, embedder, courseCorpus())
	searcher, err := NewSearcher(idx, embedder)
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("top-k below corpus size", func(t *testing.T) {
		results, err := searcher.Search(ctx, "python", 2)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("top-k above corpus size", func(t *testing.T) {
		results, err := searcher.Search(ctx, "python", 50)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})
}

func TestSearch_TieBreakByInsertionOrder(t *testing.T) {
	// Every course embeds to the same vector: all scores tie, so the
	// output must follow corpus insertion order.
	embedder := mock.NewMockEmbedder()
	constant := func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1, 0, 0}
		}
		return vectors, nil
	}
	embedder.EmbedTextsFunc = constant
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}

	courses := courseCorpus()
	idx := buildIndex(t, embedder, courses)
	searcher, err := NewSearcher(idx, embedder)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "anything", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, result := range results {
		assert.Same(t, courses[i], result.Course, "tie at position %d broken out of order", i)
	}
}

func TestSearch_ZeroVectorRanksLast(t *testing.T) {
	// The middle course embeds to a zero vector; its score is defined as 0
	// and it must never beat a genuine match.
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			if strings.Contains(text, "Deep Learning") {
				vectors[i] = []float32{0, 0, 0}
			} else {
				vectors[i] = keywordVector(text)
			}
		}
		return vectors, nil
	}
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return keywordVector(text), nil
	}

	idx := buildIndex(t, embedder, courseCorpus())
	searcher, err := NewSearcher(idx, embedder)
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "python basics", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "Advanced Deep Learning", results[2].Course.Title)
	assert.Equal(t, float32(0), results[2].Score)
}

func TestSearch_InvalidTopK(t *testing.T) {
	embedder := keywordEmbedder()
	idx := buildIndex(t, embedder, courseCorpus())
	searcher, err := NewSearcher(idx, embedder)
	require.NoError(t, err)

	callsBefore := embedder.CallCount()

	for _, topK := range []int{0, -1, -100} {
		_, err := searcher.Search(context.Background(), "python", topK)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	}

	// Validation happens before any encoding.
	assert.Equal(t, callsBefore, embedder.CallCount())
}

func TestSearch_EmptyQuery(t *testing.T) {
	embedder := keywordEmbedder()
	idx := buildIndex(t, embedder, courseCorpus())
	searcher, err := NewSearcher(idx, embedder)
	require.NoError(t, err)

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := searcher.Search(context.Background(), query, 5)
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	}
}

func TestSearch_EmptyIndex(t *testing.T) {
	embedder := keywordEmbedder()
	idx := buildIndex(t, embedder, nil)
	searcher, err := NewSearcher(idx, embedder)
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "python", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrCatalogUnavailable)
}

func TestSearch_EncodingFailure(t *testing.T) {
	embedder := keywordEmbedder()
	idx := buildIndex(t, embedder, courseCorpus())

	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("model unavailable")
	}

	searcher, err := NewSearcher(idx, embedder)
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "python", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEncodingFailed)
}

func TestSearch_QueryDimensionMismatch(t *testing.T) {
	embedder := keywordEmbedder()
	idx := buildIndex(t, embedder, courseCorpus())

	// Corpus vectors have 3 dimensions; the query suddenly has 2.
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}

	searcher, err := NewSearcher(idx, embedder)
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "python", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

// recordingMonitor captures the stages of a search run.
type recordingMonitor struct {
	query     string
	dimension int
	scored    int
	finished  int
}

var _ SearchMonitor = (*recordingMonitor)(nil)

func (m *recordingMonitor) Start(query string)            { m.query = query }
func (m *recordingMonitor) AfterQueryEmbedding(dim int)   { m.dimension = dim }
func (m *recordingMonitor) AfterScoring(scores []float32) { m.scored = len(scores) }
func (m *recordingMonitor) Finish(results []*core.SearchResult) {
	m.finished = len(results)
}

func TestSearchWithMonitor(t *testing.T) {
	embedder := keywordEmbedder()
	idx := buildIndex(t, embedder, courseCorpus())
	searcher, err := NewSearcher(idx, embedder)
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	results, err := searcher.SearchWithMonitor(context.Background(), "python basics", 2, monitor)
	require.NoError(t, err)

	assert.Equal(t, "python basics", monitor.query)
	assert.Equal(t, 3, monitor.dimension)
	assert.Equal(t, 3, monitor.scored)
	assert.Equal(t, len(results), monitor.finished)
}
