package audio

import (
	"testing"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter streams samples whose left channel counts up from 1.
func counter(limit int) beep.Streamer {
	next := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if next >= limit {
			return 0, false
		}
		n := min(len(samples), limit-next)
		for i := 0; i < n; i++ {
			next++
			samples[i] = [2]float64{float64(next), 0}
		}
		return n, true
	})
}

func lefts(samples [][2]float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s[0]
	}
	return out
}

func TestTapRecordsRecentSamples(t *testing.T) {
	tap := NewTap(counter(100), 4)
	assert.Nil(t, tap.Snapshot(4), "nothing played yet")

	buf := make([][2]float64, 3)
	n, ok := tap.Stream(buf)
	require.True(t, ok)
	require.Equal(t, 3, n)
	assert.Equal(t, []float64{1, 2, 3}, lefts(tap.Snapshot(10)), "only filled slots are returned")

	tap.Stream(buf)
	assert.Equal(t, []float64{3, 4, 5, 6}, lefts(tap.Snapshot(4)))
	assert.Equal(t, []float64{5, 6}, lefts(tap.Snapshot(2)))
}

func TestTapPassesThroughEnd(t *testing.T) {
	tap := NewTap(counter(2), 8)
	buf := make([][2]float64, 4)

	n, ok := tap.Stream(buf)
	assert.Equal(t, 2, n)
	assert.True(t, ok)

	n, ok = tap.Stream(buf)
	assert.Zero(t, n)
	assert.False(t, ok)
	assert.NoError(t, tap.Err())
	assert.Equal(t, []float64{1, 2}, lefts(tap.Snapshot(8)))
}
