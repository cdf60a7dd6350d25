// internal/distortion/distortion_test.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package distortion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkSizeDividesSampleRate(t *testing.T) {
	require.Equal(t, 1470, ChunkSize(44100))
	require.Equal(t, 1500, ChunkSize(48000))
}

func TestTimeQuantumKnownRates(t *testing.T) {
	require.Equal(t, 30, TimeQuantum(44100))
	require.Equal(t, 32, TimeQuantum(48000))
}

func TestProcessAlwaysReturnsRequestedLength(t *testing.T) {
	c := NewContext(44100, 1)
	in := make([]int16, 2000)
	out := c.Process(in, 500)
	require.Len(t, out, 500)

	out2 := c.Process(make([]int16, 200), 300)
	require.Len(t, out2, 300)
}

func TestProcessOutputWithinInt16Range(t *testing.T) {
	c := NewContext(44100, 2)
	in := make([]int16, 4000)
	for i := range in {
		in[i] = math.MaxInt16
	}
	out := c.Process(in, 1000)
	for _, s := range out {
		require.True(t, s >= math.MinInt16 && s <= math.MaxInt16)
	}
}

func TestClearBuffersResetsState(t *testing.T) {
	c := NewContext(44100, 3)
	c.Process(make([]int16, 2000), 500)
	c.ClearBuffers()
	require.Equal(t, 0, c.outFillNominal)
	require.Equal(t, 0, c.outFillActual)
	require.Equal(t, comprMinEnergy, c.comprEnergy)
	require.Equal(t, 0.0, c.rms)
}

func TestRMSLevelTracksNearClipInput(t *testing.T) {
	c := NewContext(44100, 4)
	in := make([]int16, 1470)
	for i := range in {
		in[i] = math.MaxInt16
	}
	require.NotPanics(t, func() {
		c.Process(in, 100)
	})
	require.InDelta(t, 1.0, c.RMSLevel(), 1e-6)
}

func TestRMSLevelZeroForSilence(t *testing.T) {
	c := NewContext(44100, 5)
	c.Process(make([]int16, 1470), 100)
	require.Equal(t, 0.0, c.RMSLevel())
}

func TestSetLoggerAcceptsNil(t *testing.T) {
	c := NewContext(44100, 6)
	require.NotPanics(t, func() {
		c.SetLogger(nil)
		in := make([]int16, 1470)
		for i := range in {
			in[i] = math.MaxInt16
		}
		c.Process(in, 100)
	})
}

func TestSetNoiseLevelAndAmplifyDoNotPanic(t *testing.T) {
	c := NewContext(44100, 7)
	require.NotPanics(t, func() {
		c.SetNoiseLevel(0.1)
		c.SetAmplify(1.5)
		c.Process(make([]int16, 1470), 100)
	})
}
