// internal/navaid/types_test.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navaid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTypeStringKnownAndUnknown(t *testing.T) {
	require.Equal(t, "VOR", VOR.String())
	require.Equal(t, "LOC", LOC.String())
	require.Equal(t, "UNKNOWN", Type(0).String())
}

func TestPolarization(t *testing.T) {
	require.Equal(t, Horizontal, VOR.Polarization())
	require.Equal(t, Horizontal, LOC.Polarization())
	require.Equal(t, Horizontal, GS.Polarization())
	require.Equal(t, Vertical, DME.Polarization())
	require.Equal(t, Vertical, NDB.Polarization())
}

func TestMarkerUnion(t *testing.T) {
	require.NotZero(t, Marker&MarkerOM)
	require.NotZero(t, Marker&MarkerMM)
	require.NotZero(t, Marker&MarkerIM)
	require.Zero(t, Marker&VOR)
}

func TestIsValidVORFreqEvenTenths(t *testing.T) {
	require.True(t, IsValidVORFreq(108_000_000))  // 108.00
	require.True(t, IsValidVORFreq(108_200_000))  // 108.20
	require.False(t, IsValidVORFreq(108_100_000)) // 108.10 odd tenths -> LOC
	require.False(t, IsValidVORFreq(107_900_000)) // below band
	require.False(t, IsValidVORFreq(118_100_000)) // above band
}

func TestIsValidLOCFreqOddTenths(t *testing.T) {
	require.True(t, IsValidLOCFreq(108_100_000))
	require.True(t, IsValidLOCFreq(111_950_000))
	require.False(t, IsValidLOCFreq(108_000_000))
	require.False(t, IsValidLOCFreq(112_100_000)) // LOC band tops out at 112MHz
}

func TestValidFreqNDBBand(t *testing.T) {
	require.True(t, NDB.ValidFreq(200_000))
	require.False(t, NDB.ValidFreq(100_000))
	require.False(t, NDB.ValidFreq(2_000_000))
}

func TestValidFreqGSMatchesLOC(t *testing.T) {
	require.Equal(t, IsValidLOCFreq(110_100_000), GS.ValidFreq(110_100_000))
}
