// internal/receiver/types_test.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package receiver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skiselkov/libradio/internal/navaid"
)

func TestNewRadioInitializesNaNFields(t *testing.T) {
	r := New(TypeVLOC, 0, 1)
	require.True(t, isNaN32(r.Brg))
	require.True(t, isNaN32(r.DME_))
	require.True(t, isNaN32(r.Vdef))
}

func isNaN32(f float32) bool { return f != f }

func TestSyncCandidatesAddsAndDropsOutdated(t *testing.T) {
	var slot []*RadioNavaid
	n1 := &navaid.Navaid{Ident: navaid.Ident{Type: navaid.VOR, ID: "A"}}
	n2 := &navaid.Navaid{Ident: navaid.Ident{Type: navaid.VOR, ID: "B"}}

	SyncCandidates(&slot, []*navaid.Navaid{n1, n2})
	require.Len(t, slot, 2)

	// n2 drops out of the fresh set -> pruned; n1 stays.
	SyncCandidates(&slot, []*navaid.Navaid{n1})
	require.Len(t, slot, 1)
	require.Equal(t, n1, slot[0].Navaid)
}

func TestSyncCandidatesKeepsExistingRadioNavaidIdentity(t *testing.T) {
	var slot []*RadioNavaid
	n1 := &navaid.Navaid{Ident: navaid.Ident{Type: navaid.VOR, ID: "A"}}
	SyncCandidates(&slot, []*navaid.Navaid{n1})
	first := slot[0]
	first.SignalDb = -30

	SyncCandidates(&slot, []*navaid.Navaid{n1})
	require.Same(t, first, slot[0])
	require.Equal(t, float32(-30), slot[0].SignalDb)
}

func TestStrongestAboveFiltersFloor(t *testing.T) {
	a := &RadioNavaid{SignalDb: -90}
	b := &RadioNavaid{SignalDb: -50}
	c := &RadioNavaid{SignalDb: -60}
	best := StrongestAbove([]*RadioNavaid{a, b, c}, -80)
	require.Equal(t, b, best)
}

func TestStrongestAboveNoneQualifies(t *testing.T) {
	a := &RadioNavaid{SignalDb: -90}
	require.Nil(t, StrongestAbove([]*RadioNavaid{a}, -80))
}

func TestSelectPicksWinnerAboveFloor(t *testing.T) {
	a := &RadioNavaid{SignalDb: -40}
	b := &RadioNavaid{SignalDb: -90} // below noise floor, ignored
	winner, coChannel := Select([]*RadioNavaid{a, b})
	require.Equal(t, a, winner)
	require.False(t, coChannel)
}

func TestSelectReturnsNilWhenNoneAboveFloor(t *testing.T) {
	a := &RadioNavaid{SignalDb: -90}
	winner, coChannel := Select([]*RadioNavaid{a})
	require.Nil(t, winner)
	require.False(t, coChannel)
}

func TestSelectRejectsCoChannel(t *testing.T) {
	a := &RadioNavaid{SignalDb: -40}
	b := &RadioNavaid{SignalDb: -45} // within CoChannelRejectDb(16) of a
	winner, coChannel := Select([]*RadioNavaid{a, b})
	require.Nil(t, winner)
	require.True(t, coChannel)
}

func TestSelectAcceptsWhenRunnerUpFarEnoughBelow(t *testing.T) {
	a := &RadioNavaid{SignalDb: -40}
	b := &RadioNavaid{SignalDb: -70} // 30dB below, clear of co-channel reject
	winner, coChannel := Select([]*RadioNavaid{a, b})
	require.Equal(t, a, winner)
	require.False(t, coChannel)
}

func TestUpdateRateIncreasesWithSignal(t *testing.T) {
	low := UpdateRate(1.0, -90)
	high := UpdateRate(1.0, -40)
	require.Greater(t, high, low)
}

func TestAudioChunkCursorAdvancesAndWraps(t *testing.T) {
	var slot []*RadioNavaid
	n := &navaid.Navaid{Ident: navaid.Ident{Type: navaid.VOR, ID: "E"}} // Morse "E" = single dot at chunk 0
	SyncCandidates(&slot, []*navaid.Navaid{n})
	rn := slot[0]

	require.True(t, rn.ChunkOn(0))
	rn.AdvanceCursor(0)
	require.False(t, rn.ChunkOn(0))

	for i := 1; i < len(rn.AudioChunks); i++ {
		rn.AdvanceCursor(0)
	}
	require.True(t, rn.ChunkOn(0)) // wrapped back to chunk 0
}

func TestSyncStreamCursorMirrorsStreamZero(t *testing.T) {
	var slot []*RadioNavaid
	n := &navaid.Navaid{Ident: navaid.Ident{Type: navaid.VOR, ID: "T"}} // Morse "T" = 3-chunk dash
	SyncCandidates(&slot, []*navaid.Navaid{n})
	rn := slot[0]

	rn.AdvanceCursor(0)
	rn.AdvanceCursor(0)
	rn.SyncStreamCursor()
	for i := 1; i < len(rn.cursors); i++ {
		require.Equal(t, rn.cursors[0], rn.cursors[i])
	}
}

func TestSignalQualityMonotonicAndClamped(t *testing.T) {
	require.Less(t, SignalQuality(-90), SignalQuality(-40))
	require.GreaterOrEqual(t, SignalQuality(-200), float32(0))
	require.LessOrEqual(t, SignalQuality(50), float32(1))
}
