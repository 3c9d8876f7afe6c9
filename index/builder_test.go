package index

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/coursefind/ai/mock"
	"github.com/poiesic/coursefind/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCourses() []*core.Course {
	return []*core.Course{
		{
			Title:       "Intro to Python",
			Description: "Learn Python from scratch",
			Category:    "Programming",
			Level:       core.LevelBeginner,
		},
		{
			Title:       "Advanced Deep Learning",
			Description: "Neural networks in depth",
			Category:    "ML",
			Level:       core.LevelAdvanced,
		},
		{
			Title:       "Python for Data Analysis",
			Description: "Pandas and numpy",
			Category:    "Programming",
			Level:       core.LevelIntermediate,
		},
	}
}

func TestNewBuilder(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		builder, err := NewBuilder(mock.NewMockEmbedder())
		require.NoError(t, err)
		assert.NotNil(t, builder)
	})

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewBuilder(nil)
		assert.Equal(t, ErrEmbedderRequired, err)
	})

	t.Run("invalid retry policy", func(t *testing.T) {
		_, err := NewBuilder(mock.NewMockEmbedder(), WithRetry(0, time.Second))
		assert.Equal(t, ErrInvalidMaxAttempts, err)
	})
}

func TestBuild_AlignsVectorsWithCourses(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.Dimension = 8

	builder, err := NewBuilder(embedder)
	require.NoError(t, err)

	courses := testCourses()
	idx, err := builder.Build(context.Background(), courses)
	require.NoError(t, err)

	require.Equal(t, 3, idx.Len())
	assert.False(t, idx.IsEmpty())
	assert.Equal(t, 8, idx.Dimension())

	// Vector i must be the embedding of course i's text.
	ctx := context.Background()
	for i := 0; i < idx.Len(); i++ {
		assert.Same(t, courses[i], idx.Course(i))

		want, err := embedder.EmbedText(ctx, courses[i].EmbeddingText())
		require.NoError(t, err)
		assert.Equal(t, want, idx.Vector(i), "vector %d misaligned", i)
	}
}

func TestBuild_SmallBatchesPreserveOrder(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.Dimension = 8

	// Batch size 1 forces one pool task per course.
	builder, err := NewBuilder(embedder, WithBatchSize(1), WithPoolSize(4))
	require.NoError(t, err)

	courses := testCourses()
	idx, err := builder.Build(context.Background(), courses)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < idx.Len(); i++ {
		want, err := embedder.EmbedText(ctx, courses[i].EmbeddingText())
		require.NoError(t, err)
		assert.Equal(t, want, idx.Vector(i), "vector %d misaligned", i)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.Dimension = 16

	builder, err := NewBuilder(embedder)
	require.NoError(t, err)

	first, err := builder.Build(context.Background(), testCourses())
	require.NoError(t, err)
	second, err := builder.Build(context.Background(), testCourses())
	require.NoError(t, err)

	require.Equal(t, first.Len(), second.Len())
	for i := 0; i < first.Len(); i++ {
		assert.Equal(t, first.Vector(i), second.Vector(i))
	}
}

func TestBuild_EmptyCatalog(t *testing.T) {
	builder, err := NewBuilder(mock.NewMockEmbedder())
	require.NoError(t, err)

	idx, err := builder.Build(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, idx.IsEmpty())
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, idx.Dimension())
}

func TestBuild_EmbedderFailure(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("model unavailable")
	}

	builder, err := NewBuilder(embedder, WithRetry(1, time.Millisecond))
	require.NoError(t, err)

	_, err = builder.Build(context.Background(), testCourses())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEncodingFailed)
}

func TestBuild_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	embedder := mock.NewMockEmbedder()
	fallback := mock.NewMockEmbedder()
	fallback.Dimension = 8
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("transient failure")
		}
		return fallback.EmbedTexts(ctx, texts)
	}

	builder, err := NewBuilder(embedder, WithRetry(3, time.Millisecond))
	require.NoError(t, err)

	idx, err := builder.Build(context.Background(), testCourses()[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, idx.Len())
	assert.GreaterOrEqual(t, attempts, 2)
}

func TestBuild_CountMismatch(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return [][]float32{{1, 0}}, nil // always one vector, whatever was asked
	}

	builder, err := NewBuilder(embedder, WithRetry(1, time.Millisecond))
	require.NoError(t, err)

	_, err = builder.Build(context.Background(), testCourses())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEncodingFailed)
}

func TestBuild_DimensionMismatch(t *testing.T) {
	call := 0
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i := range texts {
			call++
			if call == 2 {
				vectors[i] = []float32{1, 0, 0} // wrong dimensionality
			} else {
				vectors[i] = []float32{1, 0}
			}
		}
		return vectors, nil
	}

	builder, err := NewBuilder(embedder, WithBatchSize(len(testCourses())))
	require.NoError(t, err)

	_, err = builder.Build(context.Background(), testCourses())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}
