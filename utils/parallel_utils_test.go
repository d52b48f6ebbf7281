package utils

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	getHisto := func(K, Np int) (histo map[int]int) {
		pm := NewPartitionMap(Np, K)
		histo = make(map[int]int)
		for np := 0; np < pm.ParallelDegree; np++ {
			histo[pm.GetBucketDimension(np)]++
		}
		return
	}
	assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
	assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
	assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
	// degree is clamped to the index count, so no bucket is ever empty
	assert.Equal(t, map[int]int{1: 2}, getHisto(2, 32))

	// full coverage with a maximum imbalance of one item
	for n := 1; n < 2000; n++ {
		var (
			pm         = NewPartitionMap(7, n)
			total      = 0
			minB, maxB = n, 0
		)
		for b := 0; b < pm.ParallelDegree; b++ {
			d := pm.GetBucketDimension(b)
			total += d
			if d < minB {
				minB = d
			}
			if d > maxB {
				maxB = d
			}
		}
		assert.Equal(t, n, total)
		assert.LessOrEqual(t, maxB-minB, 1)
	}
}

func TestParallelFor(t *testing.T) {
	// every index visited exactly once; buckets are disjoint so the
	// per-index writes do not race
	{
		hits := make([]int, 500)
		err := ParallelFor(context.Background(), 8, len(hits), func(k int) {
			hits[k]++
		})
		assert.NoError(t, err)
		for k := range hits {
			assert.Equal(t, 1, hits[k])
		}
	}
	// more workers than work
	{
		var count int32
		err := ParallelFor(context.Background(), 64, 3, func(k int) {
			atomic.AddInt32(&count, 1)
		})
		assert.NoError(t, err)
		assert.Equal(t, int32(3), count)
	}
	// empty range is a no-op
	{
		err := ParallelFor(context.Background(), 4, 0, func(k int) {
			t.Error("work called on empty range")
		})
		assert.NoError(t, err)
	}
	// cancellation surfaces as the context error
	{
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := ParallelFor(ctx, 4, 100, func(k int) {})
		assert.ErrorIs(t, err, context.Canceled)
	}
}
