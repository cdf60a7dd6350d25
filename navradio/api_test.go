// navradio/api_test.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navradio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skiselkov/libradio/internal/navaid"
	"github.com/skiselkov/libradio/internal/propagation"
	"github.com/skiselkov/libradio/internal/receiver"
)

func poseAt(nowT float64) propagation.Pose {
	return propagation.Pose{NowT: nowT}
}

func TestSetFreqAndGetFreqRoundTrip(t *testing.T) {
	s := newTestSystem(t)
	require.NoError(t, s.SetFreq(receiver.TypeVLOC, 0, 113_000_000))
	hz, err := s.GetFreq(receiver.TypeVLOC, 0)
	require.NoError(t, err)
	require.Equal(t, int64(113_000_000), hz)
}

func TestSetFreqUnknownRadioReturnsErrUnknownRadio(t *testing.T) {
	s := newTestSystem(t)
	require.ErrorIs(t, s.SetFreq(receiver.TypeVLOC, 99, 0), ErrUnknownRadio)
	_, err := s.GetFreq(receiver.TypeVLOC, 99)
	require.ErrorIs(t, err, ErrUnknownRadio)
}

func TestSetFailedGatesSignalQuality(t *testing.T) {
	s := newTestSystem(t)
	require.NoError(t, s.SetFailed(receiver.TypeVLOC, 0, true))
	q, err := s.GetSignalQuality(receiver.TypeVLOC, 0)
	require.NoError(t, err)
	require.Equal(t, float32(0), q)
}

func TestSetOBSUnknownOrdinal(t *testing.T) {
	s := newTestSystem(t)
	require.ErrorIs(t, s.SetOBS(99, 10), ErrUnknownRadio)
	require.NoError(t, s.SetOBS(0, 270))
}

func TestSetADFModeRoundTrip(t *testing.T) {
	s := newTestSystem(t)
	require.NoError(t, s.SetADFMode(0, receiver.ADFModeBFO))
	require.ErrorIs(t, s.SetADFMode(99, receiver.ADFModeAntenna), ErrUnknownRadio)
}

func TestSetBrgOverrideAndGetRoundTrip(t *testing.T) {
	s := newTestSystem(t)
	want := float32(123.4)
	require.NoError(t, s.SetBrgOverride(receiver.TypeVLOC, 0, &want))
	got, err := s.GetBrgOverride(receiver.TypeVLOC, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, want, *got)

	require.NoError(t, s.SetBrgOverride(receiver.TypeVLOC, 0, nil))
	got, err = s.GetBrgOverride(receiver.TypeVLOC, 0)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestGetBearingAndHaveBearingWithNoWinnerIsNaN(t *testing.T) {
	s := newTestSystem(t)
	brg, err := s.GetBearing(receiver.TypeVLOC, 0)
	require.NoError(t, err)
	require.True(t, math.IsNaN(float64(brg)))

	have, err := s.HaveBearing(receiver.TypeVLOC, 0)
	require.NoError(t, err)
	require.False(t, have)
}

func TestGetBearingUnknownRadio(t *testing.T) {
	s := newTestSystem(t)
	_, err := s.GetBearing(receiver.TypeVLOC, 99)
	require.ErrorIs(t, err, ErrUnknownRadio)
	_, err = s.HaveBearing(receiver.TypeVLOC, 99)
	require.ErrorIs(t, err, ErrUnknownRadio)
}

func TestGetRadialWithNoVORWinnerIsNaN(t *testing.T) {
	s := newTestSystem(t)
	radial, err := s.GetRadial(0)
	require.NoError(t, err)
	require.True(t, math.IsNaN(float64(radial)))

	_, err = s.GetRadial(99)
	require.ErrorIs(t, err, ErrUnknownRadio)
}

func TestGetDMEWithNoWinnerIsNaN(t *testing.T) {
	s := newTestSystem(t)
	dme, err := s.GetDME(0)
	require.NoError(t, err)
	require.True(t, math.IsNaN(float64(dme)))

	_, err = s.GetDME(99)
	require.ErrorIs(t, err, ErrUnknownRadio)
}

func TestGetHdefBothSidesReadSameUnderlyingComputation(t *testing.T) {
	s := newTestSystem(t)
	rs := s.findRadio(receiver.TypeVLOC, 0)
	rs.radio.Mu.Lock(s.lg)
	rs.radio.HdefPilot = 2.5
	rs.radio.TofromPilot = true
	rs.radio.HdefCopilot = 2.5
	rs.radio.TofromCopilot = true
	rs.radio.Mu.Unlock(s.lg)

	hdef, tofrom, err := s.GetHdef(0, false)
	require.NoError(t, err)
	require.Equal(t, float32(2.5), hdef)
	require.True(t, tofrom)

	hdef, tofrom, err = s.GetHdef(0, true)
	require.NoError(t, err)
	require.Equal(t, float32(2.5), hdef)
	require.True(t, tofrom)

	_, _, err = s.GetHdef(99, false)
	require.ErrorIs(t, err, ErrUnknownRadio)
}

func TestGetVdefAndVdefRateUnknownRadio(t *testing.T) {
	s := newTestSystem(t)
	_, err := s.GetVdef(99)
	require.ErrorIs(t, err, ErrUnknownRadio)
	_, err = s.GetVdefRate(99)
	require.ErrorIs(t, err, ErrUnknownRadio)
}

func TestGetLocDDMAndGPDDMAndFcrsAndGS(t *testing.T) {
	s := newTestSystem(t)
	rs := s.findRadio(receiver.TypeVLOC, 0)
	rs.radio.Mu.Lock(s.lg)
	rs.radio.LocDDM = 0.05
	rs.radio.GPDDM = -0.02
	rs.radio.LocFcrs = 184.5
	rs.radio.GS_ = 3.0
	rs.radio.Mu.Unlock(s.lg)

	ddm, err := s.GetLocDDM(0)
	require.NoError(t, err)
	require.Equal(t, float32(0.05), ddm)

	gpddm, err := s.GetGPDDM(0)
	require.NoError(t, err)
	require.Equal(t, float32(-0.02), gpddm)

	fcrs, err := s.GetFcrs(0)
	require.NoError(t, err)
	require.Equal(t, float32(184.5), fcrs)

	gs, err := s.GetGS(0)
	require.NoError(t, err)
	require.Equal(t, float32(3.0), gs)
}

func TestIsLOCReflectsTunedFrequency(t *testing.T) {
	s := newTestSystem(t)
	require.NoError(t, s.SetFreq(receiver.TypeVLOC, 0, 110_100_000))
	rs := s.findRadio(receiver.TypeVLOC, 0)
	rs.radio.Mu.Lock(s.lg)
	rs.radio.Freq = rs.radio.NewFreq // floop normally applies NewFreq -> Freq
	rs.radio.Mu.Unlock(s.lg)
	isLOC, err := s.IsLOC(0)
	require.NoError(t, err)
	require.True(t, isLOC)

	_, err = s.IsLOC(99)
	require.ErrorIs(t, err, ErrUnknownRadio)
}

func TestGetIDWithNoCandidatesReturnsFalse(t *testing.T) {
	s := newTestSystem(t)
	id, ok, err := s.GetID(receiver.TypeVLOC, 0)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, id)
}

func TestGetIDWithheldUntilIdentDelayElapses(t *testing.T) {
	s := newTestSystem(t)
	rs := s.findRadio(receiver.TypeVLOC, 0)
	rs.radio.Mu.Lock(s.lg)
	rs.radio.FreqChgT = 10
	rs.radio.IdentDelay = 5
	rs.radio.VORLOC = []*receiver.RadioNavaid{{
		Navaid:   &navaid.Navaid{Ident: navaid.Ident{Type: navaid.VOR, ID: "SEA"}},
		SignalDb: -10,
	}}
	rs.radio.Mu.Unlock(s.lg)

	s.SetPose(poseAt(12))
	id, ok, err := s.GetID(receiver.TypeVLOC, 0)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, id)

	s.SetPose(poseAt(16))
	id, ok, err = s.GetID(receiver.TypeVLOC, 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "SEA", id)
}

func TestGetIDFailedRadioReturnsFalse(t *testing.T) {
	s := newTestSystem(t)
	require.NoError(t, s.SetFailed(receiver.TypeVLOC, 0, true))
	id, ok, err := s.GetID(receiver.TypeVLOC, 0)
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, id)
}

func TestGetAudioBuf2AndDoneAudioAndSyncStreamsUnknownRadio(t *testing.T) {
	s := newTestSystem(t)
	_, err := s.GetAudioBuf2(receiver.TypeVLOC, 99, 1.0, false, false, 0)
	require.ErrorIs(t, err, ErrUnknownRadio)
	require.ErrorIs(t, s.DoneAudio(receiver.TypeVLOC, 99), ErrUnknownRadio)
	require.ErrorIs(t, s.SyncStreams(receiver.TypeVLOC, 99), ErrUnknownRadio)
}

func TestGetAudioBuf2ReturnsBufferForKnownRadio(t *testing.T) {
	s := newTestSystem(t)
	buf, err := s.GetAudioBuf2(receiver.TypeVLOC, 0, 1.0, false, false, 0)
	require.NoError(t, err)
	require.NotEmpty(t, buf)
	require.NoError(t, s.DoneAudio(receiver.TypeVLOC, 0))
	require.NoError(t, s.SyncStreams(receiver.TypeVLOC, 0))
}
