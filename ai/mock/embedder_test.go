package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	embedder := NewMockEmbedder()
	ctx := context.Background()

	first, err := embedder.EmbedText(ctx, "python course")
	require.NoError(t, err)
	second, err := embedder.EmbedText(ctx, "python course")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, DefaultDimension)

	other, err := embedder.EmbedText(ctx, "different text")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestMockEmbedder_ConcurrentCallCount(t *testing.T) {
	embedder := NewMockEmbedder()
	embedder.Dimension = 8
	ctx := context.Background()

	// The index builder embeds batches from pool workers, so the counter
	// has to stay exact under parallel use.
	const goroutines = 16
	const callsPer = 10

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < callsPer; i++ {
				_, err := embedder.EmbedTexts(ctx, []string{"a", "b"})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*callsPer, embedder.CallCount())

	embedder.Reset()
	assert.Equal(t, 0, embedder.CallCount())
}
