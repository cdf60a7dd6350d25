// internal/receiver/types.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package receiver implements the per-radio receiver model of spec
// §4.H: station selection under the co-channel rule, and the derived
// bearing/radial/DME/deflection outputs, each filtered and lock-delayed
// per the original's tuning semantics.
package receiver

import (
	"math"
	"time"

	"github.com/skiselkov/libradio/internal/morse"
	"github.com/skiselkov/libradio/internal/navaid"
	"github.com/skiselkov/libradio/pkg/geo"
	"github.com/skiselkov/libradio/pkg/rand"
	navsync "github.com/skiselkov/libradio/pkg/sync"
)

// Type is the radio's receiver kind (spec §3 "Radio state").
type Type int

const (
	TypeVLOC Type = iota
	TypeADF
	TypeDME
)

// ADFMode selects the ADF's demodulation style (spec §4.I).
type ADFMode int

const (
	ADFModeAntenna ADFMode = iota // bearing suppressed, needle parked at 90
	ADFModeBFO
)

const (
	NoiseFloorErrorRateDb = -79.0 // §4.H filtering reference, §6 signal-quality reference
	NoiseFloorTestDb      = -80.0 // station-selection / squelch reference
	CoChannelRejectDb     = 16.0

	LockDelayVLOC = 1 * time.Second
	LockDelayDME  = 200 * time.Millisecond
	LockDelayADF  = 750 * time.Millisecond
)

// RadioNavaid joins a navaid with receiver-relative state (spec §3
// "Radio-navaid"). It is only ever mutated by the radio's owning
// worker/floop under the radio's mutex.
type RadioNavaid struct {
	Navaid *navaid.Navaid

	SignalDbOmni float32 // propagation-loss, filtered toward target
	SignalDb     float32 // after antenna-pattern/service-volume shaping
	SignalDbTgt  float32 // latest raw worker estimate
	Propmode     int

	GndDist        float32 // VOR: ground distance under the aircraft, meters
	SlantAngle     float32 // VOR: elevation angle from the antenna, degrees
	RadialDegT     float32 // VOR: true radial from the station
	EffectiveElevM float32 // GS: blended DB/terrain elevation (spec §4.H "Vertical deflection")

	AudioChunks [morse.NumChunks]bool
	cursors     [4]int // per audio-stream Morse cursor (<=4 streams, spec §5)

	Outdated bool // marked true at the start of every worker pass
}

func newRadioNavaid(n *navaid.Navaid) *RadioNavaid {
	rn := &RadioNavaid{Navaid: n}
	if chunks, err := morse.Encode(n.ID); err == nil {
		rn.AudioChunks = chunks
	}
	return rn
}

// ChunkOn reports whether the current Morse chunk for the given audio
// stream is "on", without advancing the cursor; a synthesis pass may
// need to read this several times (once to gauge agc/squelch levels,
// once to generate tone) before advancing once (spec §4.I step 5).
func (rn *RadioNavaid) ChunkOn(streamID int) bool {
	return rn.AudioChunks[rn.cursors[streamID]]
}

// AdvanceCursor moves the stream's Morse cursor forward one chunk,
// wrapping modulo NumChunks.
func (rn *RadioNavaid) AdvanceCursor(streamID int) {
	rn.cursors[streamID] = (rn.cursors[streamID] + 1) % morse.NumChunks
}

// SyncStreamCursor mirrors stream 0's cursor onto every other stream
// (spec §4.I "SyncStreams" / the original's navrad_sync_streams), used
// when streams have drifted out of phase after being started at
// different times.
func (rn *RadioNavaid) SyncStreamCursor() {
	for i := 1; i < len(rn.cursors); i++ {
		rn.cursors[i] = rn.cursors[0]
	}
}

// Radio is the per-tuned-receiver state of spec §3 "Radio state".
type Radio struct {
	Type    Type
	Ordinal int

	Mu *navsync.LoggingMutex

	Failed      bool
	Freq        int64
	NewFreq     int64 // pending frequency, applied when readable by the host
	FreqChgT    float64
	IdentDelay  float64
	OBS         float32 // VLOC-only, pilot-set course
	ADFMode     ADFMode
	BrgOverride *float32

	VORLOC []*RadioNavaid
	GS     []*RadioNavaid
	DME    []*RadioNavaid
	NDB    []*RadioNavaid

	HdefPilot, HdefCopilot float32
	TofromPilot            bool
	TofromCopilot          bool
	Vdef, VdefRate         float32
	GS_                    float32 // degrees, winner's nominal glide angle
	LocDDM, GPDDM          float32
	Brg                    float32
	DME_                   float32
	SignalDb               float32
	LocFcrs                float32

	Rnd *rand.Rand
}

func New(t Type, ordinal int, seed uint64) *Radio {
	return &Radio{
		Type:    t,
		Ordinal: ordinal,
		Mu:      navsync.New("radio"),
		Brg:     float32(math.NaN()),
		DME_:    float32(math.NaN()),
		Vdef:    float32(math.NaN()),
		Rnd:     rand.New(seed),
	}
}

// CandidateSlots returns the four candidate slices (VOR+LOC, GS, DME,
// NDB) in a fixed order, used by the propagation worker to know which
// set to refresh with which type-filtered subset of a query result.
func (r *Radio) CandidateSlots() []*[]*RadioNavaid {
	return []*[]*RadioNavaid{&r.VORLOC, &r.GS, &r.DME, &r.NDB}
}

func findNavaid(list []*RadioNavaid, n *navaid.Navaid) *RadioNavaid {
	for _, rn := range list {
		if rn.Navaid == n {
			return rn
		}
	}
	return nil
}

// SyncCandidates reconciles one candidate slot against the freshly
// queried navaid list: existing entries are kept (and marked not
// outdated), new ones are created, and any still-outdated entry after
// the pass is dropped (spec §4.G step 3 / §3 "Lifecycle").
func SyncCandidates(slot *[]*RadioNavaid, fresh []*navaid.Navaid) {
	for _, rn := range *slot {
		rn.Outdated = true
	}
	for _, n := range fresh {
		if rn := findNavaid(*slot, n); rn != nil {
			rn.Outdated = false
		} else {
			*slot = append(*slot, newRadioNavaid(n))
		}
	}
	kept := (*slot)[:0]
	for _, rn := range *slot {
		if !rn.Outdated {
			kept = append(kept, rn)
		}
	}
	*slot = kept
}

// StrongestAbove returns the candidate with the highest SignalDb that
// is >= floorDb, or nil if none qualifies.
func StrongestAbove(list []*RadioNavaid, floorDb float32) *RadioNavaid {
	var best *RadioNavaid
	for _, rn := range list {
		if rn.SignalDb < floorDb {
			continue
		}
		if best == nil || rn.SignalDb > best.SignalDb {
			best = rn
		}
	}
	return best
}

// Select implements spec §4.H "Station selection": among candidates
// with signal_db >= -80dB, pick the highest; if the runner-up is
// within CoChannelRejectDb, reject (nil, true) for co-channel
// interference; otherwise return the winner.
func Select(list []*RadioNavaid) (winner *RadioNavaid, coChannel bool) {
	var best, second *RadioNavaid
	for _, rn := range list {
		if rn.SignalDb < NoiseFloorTestDb {
			continue
		}
		switch {
		case best == nil || rn.SignalDb > best.SignalDb:
			second = best
			best = rn
		case second == nil || rn.SignalDb > second.SignalDb:
			second = rn
		}
	}
	if best == nil {
		return nil, false
	}
	if second != nil && best.SignalDb-second.SignalDb < CoChannelRejectDb {
		return nil, true
	}
	return best, false
}

// UpdateRate scales a base filter rate by signal level per spec §4.H
// "Filtering": high SNR tracks fast, low SNR tracks slowly.
func UpdateRate(baseRate, signalDb float32) float32 {
	return baseRate / (1 + 20/float32(math.Pow(10, float64((signalDb-NoiseFloorErrorRateDb)/20))))
}

// SignalQuality implements spec §6's get_signal_quality: 1 -
// 1/10^(Δdb/10), clamped to [0,1], monotonic in signalDb.
func SignalQuality(signalDb float32) float32 {
	delta := signalDb - NoiseFloorErrorRateDb
	div := math.Pow(10, float64(delta)/10)
	return geo.Clamp(float32(1-1/div), 0, 1)
}
