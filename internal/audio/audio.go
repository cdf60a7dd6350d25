// internal/audio/audio.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package audio implements the per-stream audio synthesizer of spec
// §4.I: tone mixing over the radio's current candidate set, gated by
// each candidate's Morse cursor, run through the distortion pipeline.
package audio

import (
	"math"

	"github.com/skiselkov/libradio/internal/distortion"
	"github.com/skiselkov/libradio/internal/receiver"
	"github.com/skiselkov/libradio/pkg/log"
)

const (
	MaxStreams = 4

	SampleRate = 48000

	VORBufSamples = 4800 // 100ms @ 48kHz
	DMEBufSamples = 4788 // matches an integer number of 1333Hz square periods

	VORToneSamples = SampleRate / 1000 // one 1kHz sine period
	DMEToneSamples = 36                // one ~1333Hz square period

	NoiseLevelAudioDb = -55.0
	NoiseFloorAudioDb = -80.0
	NoiseFloorNavIDDb = -73.0
)

// vorTone is one period of a 1kHz sine at full scale, used for VLOC/NDB
// station identifiers and the BFO heterodyne carrier.
func vorTone() [VORToneSamples]int16 {
	var t [VORToneSamples]int16
	for i := range t {
		t[i] = int16(math.MaxInt16 * math.Sin(2*math.Pi*float64(i)/float64(VORToneSamples)))
	}
	return t
}

// dmeTone is one period of a ~1333Hz square wave, used for DME station
// identifiers.
func dmeTone() [DMEToneSamples]int16 {
	var t [DMEToneSamples]int16
	for i := range t {
		if i < DMEToneSamples/2 {
			t[i] = math.MaxInt16
		} else {
			t[i] = math.MinInt16
		}
	}
	return t
}

var (
	vorToneTable = vorTone()
	dmeToneTable = dmeTone()
)

// Synth bundles a radio with the per-stream distortion contexts spec §5
// requires ("each stream has its own... distortion context so streams
// are independent").
type Synth struct {
	Radio *receiver.Radio
	Ctx   [MaxStreams]*distortion.Context
}

func NewSynth(r *receiver.Radio, seed uint64) *Synth {
	return NewSynthLogged(r, seed, nil)
}

// NewSynthLogged is NewSynth with an optional diagnostic logger attached
// to every per-stream distortion context (spec §4.C's clip warnings).
func NewSynthLogged(r *receiver.Radio, seed uint64, lg *log.Logger) *Synth {
	s := &Synth{Radio: r}
	for i := range s.Ctx {
		s.Ctx[i] = distortion.NewContext(SampleRate, seed+uint64(i))
		s.Ctx[i].SetLogger(lg)
	}
	return s
}

func (s *Synth) candidates() []*receiver.RadioNavaid {
	switch s.Radio.Type {
	case receiver.TypeVLOC:
		return s.Radio.VORLOC
	case receiver.TypeDME:
		return s.Radio.DME
	case receiver.TypeADF:
		return s.Radio.NDB
	default:
		return nil
	}
}

func toneFor(t receiver.Type) ([]int16, int) {
	if t == receiver.TypeDME {
		return dmeToneTable[:], DMEToneSamples
	}
	return vorToneTable[:], VORToneSamples
}

func numSamplesFor(t receiver.Type) int {
	if t == receiver.TypeDME {
		return DMEBufSamples
	}
	return VORBufSamples
}

// GetAudioBuf implements spec §4.I: locks the radio, mixes tones from
// every candidate whose Morse chunk is currently on, advances cursors,
// and runs the result through distortion. volume and noiseLevel scale
// as volume^2 and (noiseLevel*volume)^2 respectively (spec §4.I step 6).
// Returns nil if squelched or the radio has failed.
func (s *Synth) GetAudioBuf(volume float64, squelch, agc bool, streamID int) []int16 {
	r := s.Radio
	r.Mu.Lock(nil)
	defer r.Mu.Unlock(nil)

	if r.Failed {
		return nil
	}

	n := numSamplesFor(r.Type)
	tone, step := toneFor(r.Type)
	cands := s.candidates()

	maxDb := NoiseLevelAudioDb
	toneDb := NoiseFloorNavIDDb
	maxSignalDb := NoiseFloorAudioDb

	if agc {
		for _, rn := range cands {
			if rn.SignalDb <= NoiseFloorAudioDb {
				continue
			}
			if rn.ChunkOn(streamID) {
				maxDb = math.Max(maxDb, float64(rn.SignalDb))
				toneDb = math.Max(toneDb, float64(rn.SignalDb))
			}
			maxSignalDb = math.Max(maxSignalDb, float64(rn.SignalDb))
		}
	} else {
		// Matches the original's fx_lin_multi over the two-point curve
		// (0,0)-(1,NoiseFloorAudioDb): a plain lerp, clamped at the ends.
		maxSignalDb = clamp(volume, 0, 1) * NoiseFloorAudioDb
	}

	if squelch && toneDb <= NoiseFloorNavIDDb {
		return nil
	}

	var noiseLevelDb float64
	switch {
	case r.Type == receiver.TypeADF && r.ADFMode == receiver.ADFModeAntenna:
		noiseLevelDb = NoiseLevelAudioDb - 10
	case r.Type == receiver.TypeADF:
		noiseLevelDb = NoiseLevelAudioDb
	default:
		noiseLevelDb = NoiseLevelAudioDb - 10
	}

	span := maxDb - NoiseFloorAudioDb
	noiseLevel := (noiseLevelDb - NoiseFloorAudioDb) / span

	buf := make([]int16, n)

	bfoActive := r.Type == receiver.TypeADF && r.ADFMode == receiver.ADFModeBFO
	if bfoActive {
		mixBFO(buf, tone, step, cands, streamID, noiseLevelDb, maxSignalDb)
	} else {
		mixAM(buf, tone, step, cands, streamID, span)
	}

	for _, rn := range cands {
		rn.AdvanceCursor(streamID)
	}

	ctx := s.Ctx[streamID]
	ctx.SetAmplify(volume * volume)
	ctx.SetNoiseLevel(noiseLevel * volume * noiseLevel * volume)
	return ctx.Process(buf, n)
}

func addClamped(buf []int16, i int, v float64) {
	x := float64(buf[i]) + v
	if x > math.MaxInt16 {
		x = math.MaxInt16
	}
	if x < math.MinInt16 {
		x = math.MinInt16
	}
	buf[i] = int16(x)
}

// mixAM implements spec §4.I step 4: each candidate with signal > noise
// floor and an active Morse chunk adds its tone scaled by
// ((signal_db-floor)/span)^3.
func mixAM(buf []int16, tone []int16, step int, cands []*receiver.RadioNavaid, streamID int, span float64) {
	for _, rn := range cands {
		if rn.SignalDb <= NoiseFloorAudioDb || !rn.ChunkOn(streamID) {
			continue
		}
		level := (float64(rn.SignalDb) - NoiseFloorAudioDb) / span
		level = level * level * level
		for i := 0; i+step <= len(buf); i += step {
			for j := 0; j < step; j++ {
				addClamped(buf, i+j, float64(tone[j])*level)
			}
		}
	}
}

// mixBFO implements spec §4.I's BFO mode: a steady heterodyne tone at
// level^6, jumping to full level while any candidate's ID is keying.
func mixBFO(buf []int16, tone []int16, step int, cands []*receiver.RadioNavaid, streamID int, noiseLevelDb, toneDb float64) {
	const noiseFloorTone = -100.0
	noiseSpan := (noiseLevelDb - 20) - noiseFloorTone
	toneSpan := toneDb - noiseFloorTone
	level := 1.0
	if toneSpan != 0 {
		level = clamp(1/(toneSpan/noiseSpan), 0, 1)
	}
	for _, rn := range cands {
		if rn.SignalDb > NoiseFloorAudioDb && rn.ChunkOn(streamID) {
			level = 1
			break
		}
	}
	scale := level * level * level * level * level * level
	for i := 0; i+step <= len(buf); i += step {
		for j := 0; j < step; j++ {
			addClamped(buf, i+j, float64(tone[j])*scale)
		}
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// SyncStreams realigns every candidate's Morse cursor on the other
// streams to stream 0's (spec §4.I / the original's navrad_sync_streams).
func (s *Synth) SyncStreams() {
	r := s.Radio
	r.Mu.Lock(nil)
	defer r.Mu.Unlock(nil)
	for _, rn := range s.candidates() {
		rn.SyncStreamCursor()
	}
}

// DoneAudio clears every stream's distortion buffers, called when a
// caller is done pulling audio for this radio (spec §4.I / the
// original's navrad_done_audio), so the next transmission starts clean.
func (s *Synth) DoneAudio() {
	for _, ctx := range s.Ctx {
		ctx.ClearBuffers()
	}
}
