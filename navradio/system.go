// navradio/system.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package navradio is the public receiver API of spec §6: a fixed set
// of VLOC, ADF, and DME radios backed by a shared navaid database, a
// background propagation worker, and per-radio floop/audio state.
package navradio

import (
	"math"
	"sync"
	"time"

	"github.com/skiselkov/libradio/internal/audio"
	"github.com/skiselkov/libradio/internal/clock"
	"github.com/skiselkov/libradio/internal/config"
	"github.com/skiselkov/libradio/internal/itm"
	"github.com/skiselkov/libradio/internal/navaid"
	"github.com/skiselkov/libradio/internal/propagation"
	"github.com/skiselkov/libradio/internal/receiver"
	"github.com/skiselkov/libradio/internal/terrain"
	"github.com/skiselkov/libradio/pkg/geo"
	"github.com/skiselkov/libradio/pkg/log"
)

const NumNavRadios = 2 // nav1/nav2-style VLOC and ADF radio pairs

// radioState bundles one tuned receiver with its floop filter state and
// its per-stream audio synthesizer (spec §5 "each stream has its own...
// distortion context").
type radioState struct {
	radio *receiver.Radio
	loop  *receiver.Loop
	synth *audio.Synth
}

// System is the whole receiver simulation: one navaid database, one
// background worker, and the VLOC/ADF/DME radio arrays spec §6 exposes
// through Init.
type System struct {
	cfg config.Config
	lg  *log.Logger

	db     *navaid.DB
	worker *propagation.Worker

	vloc []*radioState
	adf  []*radioState
	dme  []*radioState

	poseMu sync.RWMutex
	pose   propagation.Pose

	floopTicker *clock.Ticker

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// Init implements spec §6's init(db[, num_dmes]) -> bool: constructs the
// radio arrays and starts the background worker. Returns ErrFatal if db
// is nil (the caller is responsible for having already tried to build
// the navaid database and aborting on its own failure, per spec §7).
// airportDB is optional; pass nil if the host has no runway-alignment
// collaborator available, and LOC antennas are used exactly as declared
// in the navaid file.
func Init(db *navaid.DB, probe terrain.Probe, itmRoutine itm.Routine, airportDB navaid.AirportDB, cfg config.Config, lg *log.Logger) (*System, error) {
	if db == nil {
		return nil, ErrFatal
	}
	cfg.Clamp()

	s := &System{
		cfg: cfg,
		lg:  lg,
		db:  db,
		worker: &propagation.Worker{
			DB:            db,
			Probe:         probe,
			ITM:           itm.Adapter{Routine: itmRoutine},
			AirportDB:     airportDB,
			Lg:            lg,
			SearchRadiusM: float32(cfg.SearchRadiusNM * geo.NMToMeters),
		},
		floopTicker: clock.NewFloopTicker(),
		stopCh:      make(chan struct{}),
	}

	for i := 0; i < NumNavRadios; i++ {
		s.vloc = append(s.vloc, newRadioState(receiver.TypeVLOC, i, lg))
		s.adf = append(s.adf, newRadioState(receiver.TypeADF, i, lg))
	}
	for i := 0; i < cfg.NumDMEs; i++ {
		s.dme = append(s.dme, newRadioState(receiver.TypeDME, i, lg))
	}

	s.wg.Add(1)
	go s.workerLoop()

	return s, nil
}

func newRadioState(t receiver.Type, ordinal int, lg *log.Logger) *radioState {
	seed := uint64(t)<<32 | uint64(ordinal)
	r := receiver.New(t, ordinal, seed)
	return &radioState{
		radio: r,
		loop:  receiver.NewLoop(),
		synth: audio.NewSynthLogged(r, seed^0xa5a5a5a5, lg),
	}
}

// Fini stops the worker and releases every radio (spec §5 "Teardown
// stops the worker (join) before destroying... per-radio state").
func (s *System) Fini() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *System) workerLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.WorkerPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.runWorkerPass()
		}
	}
}

func (s *System) runWorkerPass() {
	pose := s.Pose()
	for _, rs := range s.allRadios() {
		s.worker.Tick(rs.radio, pose)
	}
}

func (s *System) allRadios() []*radioState {
	out := make([]*radioState, 0, 2*len(s.vloc)+len(s.dme))
	out = append(out, s.vloc...)
	out = append(out, s.adf...)
	out = append(out, s.dme...)
	return out
}

// SetPose updates the shared aircraft position/heading/time state that
// both the worker and the floop read (spec §5 "a separate navrad.lock
// protects aircraft position, magnetic variation, and current time").
func (s *System) SetPose(pose propagation.Pose) {
	s.poseMu.Lock()
	s.pose = pose
	s.poseMu.Unlock()
}

func (s *System) Pose() propagation.Pose {
	s.poseMu.RLock()
	defer s.poseMu.RUnlock()
	return s.pose
}

// Floop runs one fast-tick pass over every radio (spec §5 "a host-driven
// floop... target interval 50ms; bailout if Δt < 10ms"). hdg/pitch/roll
// are attitude inputs only the ADF bearing conversion needs.
func (s *System) Floop(hdg, pitch, roll float32) {
	pose := s.Pose()
	run, dt := s.floopTicker.Tick(pose.NowT)
	if !run {
		return
	}
	rp := receiver.Pose{Pos: pose.Pos, MagVar: pose.MagVar, Hdg: hdg, Pitch: pitch, Roll: roll, NowT: pose.NowT}

	for _, rs := range s.allRadios() {
		rs.radio.Mu.Lock(s.lg)
		for _, slot := range rs.radio.CandidateSlots() {
			for _, rn := range *slot {
				propagation.FilterOmni(rn, float32(dt))
				propagation.Shape(s.db, rn, pose.Pos)
			}
		}
		freq := rs.radio.NewFreq
		rs.loop.Tick(rs.radio, freq, rp, float32(dt))
		rs.radio.Mu.Unlock(s.lg)
	}
}

func (s *System) findRadio(t receiver.Type, nr int) *radioState {
	var list []*radioState
	switch t {
	case receiver.TypeVLOC:
		list = s.vloc
	case receiver.TypeADF:
		list = s.adf
	case receiver.TypeDME:
		list = s.dme
	}
	if nr < 0 || nr >= len(list) {
		return nil
	}
	return list[nr]
}

func nan() float32 { return float32(math.NaN()) }
