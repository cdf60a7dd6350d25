// pkg/rand/rand_test.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package rand

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeedDeterministic(t *testing.T) {
	a := New(1234)
	b := New(1234)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.Random(), b.Random())
	}
}

func TestSeedDiffersAcrossSeeds(t *testing.T) {
	a := New(1)
	b := New(2)
	same := true
	for i := 0; i < 16; i++ {
		if a.Random() != b.Random() {
			same = false
			break
		}
	}
	require.False(t, same, "two distinct seeds produced identical streams")
}

func TestFloat32Range(t *testing.T) {
	r := New(42)
	for i := 0; i < 10_000; i++ {
		v := r.Float32()
		require.GreaterOrEqual(t, v, float32(0))
		require.Less(t, v, float32(1))
	}
}

func TestUniformRange(t *testing.T) {
	r := New(7)
	for i := 0; i < 10_000; i++ {
		v := r.Uniform(-5, 5)
		require.GreaterOrEqual(t, v, float32(-5))
		require.Less(t, v, float32(5))
	}
}

func TestIntnZeroOrNegativeReturnsZero(t *testing.T) {
	r := New(1)
	require.Equal(t, 0, r.Intn(0))
	require.Equal(t, 0, r.Intn(-3))
}

func TestIntnWithinBound(t *testing.T) {
	r := New(99)
	for i := 0; i < 1000; i++ {
		v := r.Intn(7)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 7)
	}
}

// TestNormalFloat32Distribution checks the Box-Muller output has roughly
// the expected mean/sigma over a large sample, the property that matters
// for the receiver's error-injection model (spec §8).
func TestNormalFloat32Distribution(t *testing.T) {
	r := New(555)
	const n = 50_000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		v := float64(r.NormalFloat32(2.0))
		sum += v
		sumSq += v * v
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	require.InDelta(t, 0, mean, 0.1)
	require.InDelta(t, 4.0, variance, 0.5) // sigma=2 -> variance=4
}

func TestNormalFloat32NoNaN(t *testing.T) {
	r := New(3)
	for i := 0; i < 1000; i++ {
		v := r.NormalFloat32(1)
		require.False(t, math.IsNaN(float64(v)))
	}
}
