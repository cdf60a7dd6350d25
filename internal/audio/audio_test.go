// internal/audio/audio_test.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package audio

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skiselkov/libradio/internal/receiver"
	"github.com/skiselkov/libradio/pkg/log"
)

func TestVORToneTableIsFullScaleSine(t *testing.T) {
	require.Equal(t, int16(0), vorToneTable[0])
	var maxAbs int16
	for _, s := range vorToneTable {
		if s < 0 {
			s = -s
		}
		if s > maxAbs {
			maxAbs = s
		}
	}
	require.Greater(t, maxAbs, int16(30000))
}

func TestDMEToneTableIsSquareWave(t *testing.T) {
	require.Equal(t, int16(32767), dmeToneTable[0])
	require.Equal(t, int16(-32768), dmeToneTable[DMEToneSamples/2])
}

func TestNewSynthInitializesAllStreams(t *testing.T) {
	r := receiver.New(receiver.TypeVLOC, 0, 1)
	s := NewSynth(r, 99)
	for _, ctx := range s.Ctx {
		require.NotNil(t, ctx)
	}
}

func TestNewSynthLoggedAttachesLogger(t *testing.T) {
	r := receiver.New(receiver.TypeVLOC, 0, 1)
	lg := log.Disabled()
	s := NewSynthLogged(r, 99, lg)
	for _, ctx := range s.Ctx {
		require.NotNil(t, ctx)
	}
}

func TestGetAudioBufReturnsNilWhenFailed(t *testing.T) {
	r := receiver.New(receiver.TypeVLOC, 0, 1)
	r.Failed = true
	s := NewSynth(r, 1)
	require.Nil(t, s.GetAudioBuf(1.0, false, false, 0))
}

func TestGetAudioBufReturnsVORBufLength(t *testing.T) {
	r := receiver.New(receiver.TypeVLOC, 0, 1)
	s := NewSynth(r, 1)
	buf := s.GetAudioBuf(1.0, false, false, 0)
	require.Len(t, buf, VORBufSamples)
}

func TestGetAudioBufReturnsDMEBufLength(t *testing.T) {
	r := receiver.New(receiver.TypeDME, 0, 1)
	s := NewSynth(r, 1)
	buf := s.GetAudioBuf(1.0, false, false, 0)
	require.Len(t, buf, DMEBufSamples)
}

func TestGetAudioBufSquelchesWithNoCandidates(t *testing.T) {
	r := receiver.New(receiver.TypeVLOC, 0, 1)
	s := NewSynth(r, 1)
	require.Nil(t, s.GetAudioBuf(1.0, true, false, 0))
}

func TestSyncStreamsDoesNotPanicWithNoCandidates(t *testing.T) {
	r := receiver.New(receiver.TypeVLOC, 0, 1)
	s := NewSynth(r, 1)
	require.NotPanics(t, func() { s.SyncStreams() })
}

func TestDoneAudioClearsEveryStream(t *testing.T) {
	r := receiver.New(receiver.TypeVLOC, 0, 1)
	s := NewSynth(r, 1)
	s.GetAudioBuf(1.0, false, false, 0)
	require.NotPanics(t, func() { s.DoneAudio() })
}
