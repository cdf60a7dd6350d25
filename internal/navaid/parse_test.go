// internal/navaid/parse_test.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navaid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseVersionOK(t *testing.T) {
	v, err := ParseVersion("I 1100")
	require.NoError(t, err)
	require.Equal(t, 1100, v)
}

func TestParseVersionRejectsBadTag(t *testing.T) {
	_, err := ParseVersion("X 1100")
	require.Error(t, err)
}

func TestParseVersionRejectsUnsupported(t *testing.T) {
	_, err := ParseVersion("I 850")
	require.Error(t, err)
}

func TestParseRecordBlankLine(t *testing.T) {
	n, err := ParseRecord("")
	require.NoError(t, err)
	require.Nil(t, n)
}

func TestParseRecordUnknownCode(t *testing.T) {
	n, err := ParseRecord("999 this is not a real record")
	require.NoError(t, err)
	require.Nil(t, n)
}

func TestParseRecordVOR(t *testing.T) {
	n, err := ParseRecord("3 47.5 -122.3 50 11300 130 -17.5 ABC KSEA K1 SEATTLE VOR")
	require.NoError(t, err)
	require.NotNil(t, n)
	require.Equal(t, VOR, n.Type)
	require.Equal(t, "ABC", n.ID)
	require.Equal(t, "KSEA", n.ICAO)
	require.InDelta(t, -17.5, float64(n.VOR.MagVar), 1e-6)
	require.Equal(t, "SEATTLE VOR", n.Name)
	require.True(t, IsValidVORFreq(n.FreqHz))
}

func TestParseRecordLOC(t *testing.T) {
	n, err := ParseRecord("4 47.6 -122.3 50 11010 18 184.5 ILSX KSEA K1 16L ILS-LOC")
	require.NoError(t, err)
	require.NotNil(t, n)
	require.Equal(t, LOC, n.Type)
	require.InDelta(t, 184.5, float64(n.LOC.Brg), 1e-6)
	require.Equal(t, "16L", n.LOC.Runway)
	require.Equal(t, DefaultRefDatumDist, n.LOC.RefDatumDist)
	require.True(t, IsValidLOCFreq(n.FreqHz))
}

func TestParseRecordLOCRejectsBadBearing(t *testing.T) {
	_, err := ParseRecord("4 47.6 -122.3 50 11010 18 400 ILSX KSEA K1 16L ILS-LOC")
	require.Error(t, err)
}

func TestParseRecordGS(t *testing.T) {
	n, err := ParseRecord("6 47.61 -122.31 60 11010 10 300184.5 GSX KSEA K1 16L GS")
	require.NoError(t, err)
	require.NotNil(t, n)
	require.Equal(t, GS, n.Type)
	require.InDelta(t, 3.0, float64(n.GS.Angle), 1e-6)
	require.InDelta(t, 184.5, float64(n.GS.Brg), 1e-6)
}

func TestParseRecordGSRejectsOutOfRangeAngle(t *testing.T) {
	// angle code 900 -> 9.00 degrees, outside (0,8].
	_, err := ParseRecord("6 47.61 -122.31 60 11010 10 900184.5 GSX KSEA K1 16L GS")
	require.Error(t, err)
}

func TestParseRecordMarker(t *testing.T) {
	n, err := ParseRecord("7 47.55 -122.32 40 0 0 184.5 OM1 KSEA K1 16L X")
	require.NoError(t, err)
	require.NotNil(t, n)
	require.Equal(t, MarkerOM, n.Type)
	require.Equal(t, "16L", n.MRK.Runway)
}

func TestParseRecordDME(t *testing.T) {
	n, err := ParseRecord("12 47.5 -122.3 50 11300 130 0.0 ABC KSEA K1 X DME-STATION")
	require.NoError(t, err)
	require.NotNil(t, n)
	require.Equal(t, DME, n.Type)
	require.Equal(t, "KSEA", n.DME.AirportID)
	require.Equal(t, "DME-STATION", n.Name)
}

func TestParseRecordFPAP(t *testing.T) {
	n, err := ParseRecord("14 47.5 -122.3 50 0 0 184.5 IGNOREDID KSEA K1 16L LPV")
	require.NoError(t, err)
	require.NotNil(t, n)
	require.Equal(t, FPAP, n.Type)
	require.InDelta(t, 184.5, float64(n.GBAS.Course), 1e-6)
}

func TestParseRecordFPAPRejectsUnknownPerfCode(t *testing.T) {
	_, err := ParseRecord("14 47.5 -122.3 50 0 0 184.5 IGNOREDID KSEA K1 16L BOGUS")
	require.Error(t, err)
}

func TestParseRecordLTPWithProvider(t *testing.T) {
	n, err := ParseRecord("16 47.5 -122.3 50 0 0 300184.5 ID1 KSEA K1 16L WAAS")
	require.NoError(t, err)
	require.NotNil(t, n)
	require.Equal(t, LTP, n.Type)
	require.Equal(t, 1, n.GBAS.Provider)
}

func TestParseRecordRejectsShortLine(t *testing.T) {
	_, err := ParseRecord("3 47.5 -122.3")
	require.Error(t, err)
}

func TestParseRecordRejectsOutOfRangePosition(t *testing.T) {
	_, err := ParseRecord("3 200 -122.3 50 11300 130 -17.5 ABC KSEA K1 BAD VOR")
	require.Error(t, err)
}
