package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i + 1)
	}
	return out
}

func drain(b *Batcher) [][]int64 {
	var out [][]int64
	for {
		batch, ok := b.Next()
		if !ok {
			return out
		}
		out = append(out, batch)
	}
}

func TestBatcher_Sizes(t *testing.T) {
	for n := 0; n <= 23; n++ {
		for size := 1; size <= 7; size++ {
			ids := seq(n)
			b, err := NewBatcher(ids, size)
			require.NoError(t, err)

			expectedBatches := (n + size - 1) / size
			assert.Equal(t, expectedBatches, b.Batches())

			batches := drain(b)
			require.Len(t, batches, expectedBatches, "n=%d size=%d", n, size)

			var joined []int64
			for i, batch := range batches {
				if i < len(batches)-1 {
					assert.Len(t, batch, size)
				} else {
					last := n % size
					if last == 0 {
						last = size
					}
					assert.Len(t, batch, last)
				}
				joined = append(joined, batch...)
			}
			assert.Equal(t, seq(n), append([]int64{}, joined...))
			assert.Equal(t, 0, b.Remaining())
		}
	}
}

func TestBatcher_Example(t *testing.T) {
	b, err := NewBatcher([]int64{1, 2, 3, 4, 5}, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]int64{{1, 2}, {3, 4}, {5}}, drain(b))
}

func TestBatcher_BatchesAreIsolated(t *testing.T) {
	b, err := NewBatcher([]int64{1, 2, 3, 4}, 2)
	require.NoError(t, err)

	first, _ := b.Next()
	_ = append(first, 99)

	second, ok := b.Next()
	require.True(t, ok)
	assert.Equal(t, []int64{3, 4}, second)
}

func TestNewBatcher_RejectsNonPositiveSize(t *testing.T) {
	_, err := NewBatcher(seq(3), 0)
	assert.Error(t, err)
	_, err = NewBatcher(seq(3), -1)
	assert.Error(t, err)
}
