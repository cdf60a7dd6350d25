// navradio/api.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navradio

import (
	"github.com/skiselkov/libradio/internal/navaid"
	"github.com/skiselkov/libradio/internal/receiver"
)

// SetFreq sets the radio's pending tuned frequency, in Hz, applied at
// the next floop pass (spec §6 set_freq).
func (s *System) SetFreq(t receiver.Type, nr int, hz int64) error {
	rs := s.findRadio(t, nr)
	if rs == nil {
		return ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	rs.radio.NewFreq = hz
	rs.radio.Mu.Unlock(s.lg)
	return nil
}

func (s *System) GetFreq(t receiver.Type, nr int) (int64, error) {
	rs := s.findRadio(t, nr)
	if rs == nil {
		return 0, ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	defer rs.radio.Mu.Unlock(s.lg)
	return rs.radio.Freq, nil
}

// SetFailed marks a radio failed/unfailed (spec §7's "failed" condition):
// a failed radio reports not-available on every accessor until cleared.
func (s *System) SetFailed(t receiver.Type, nr int, failed bool) error {
	rs := s.findRadio(t, nr)
	if rs == nil {
		return ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	rs.radio.Failed = failed
	rs.radio.Mu.Unlock(s.lg)
	return nil
}

// SetOBS sets the VLOC radio's pilot-selected course, in degrees
// magnetic, used by the VOR deflection/to-from computation.
func (s *System) SetOBS(nr int, obsDeg float32) error {
	rs := s.findRadio(receiver.TypeVLOC, nr)
	if rs == nil {
		return ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	rs.radio.OBS = obsDeg
	rs.radio.Mu.Unlock(s.lg)
	return nil
}

// SetADFMode switches an ADF radio between antenna and BFO demodulation
// (spec §4.I).
func (s *System) SetADFMode(nr int, mode receiver.ADFMode) error {
	rs := s.findRadio(receiver.TypeADF, nr)
	if rs == nil {
		return ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	rs.radio.ADFMode = mode
	rs.radio.Mu.Unlock(s.lg)
	return nil
}

// SetBrgOverride forces a radio's reported bearing to a fixed value,
// bypassing the winner-derived computation; pass nil to clear it (spec
// §6's debug/test hook).
func (s *System) SetBrgOverride(t receiver.Type, nr int, deg *float32) error {
	rs := s.findRadio(t, nr)
	if rs == nil {
		return ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	rs.radio.BrgOverride = deg
	rs.radio.Mu.Unlock(s.lg)
	return nil
}

func (s *System) GetBrgOverride(t receiver.Type, nr int) (*float32, error) {
	rs := s.findRadio(t, nr)
	if rs == nil {
		return nil, ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	defer rs.radio.Mu.Unlock(s.lg)
	return rs.radio.BrgOverride, nil
}

// GetSignalQuality implements spec §6's get_signal_quality: a [0,1]
// monotonic function of the radio's currently filtered signal level,
// or 0 when the radio is failed. While the radio has no settled winner
// the floop leaves its signal level NaN, and NaN is returned.
func (s *System) GetSignalQuality(t receiver.Type, nr int) (float32, error) {
	rs := s.findRadio(t, nr)
	if rs == nil {
		return 0, ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	defer rs.radio.Mu.Unlock(s.lg)
	if rs.radio.Failed {
		return 0, nil
	}
	return receiver.SignalQuality(rs.radio.SignalDb), nil
}

func (s *System) GetBearing(t receiver.Type, nr int) (float32, error) {
	rs := s.findRadio(t, nr)
	if rs == nil {
		return nan(), ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	defer rs.radio.Mu.Unlock(s.lg)
	return rs.radio.Brg, nil
}

func (s *System) HaveBearing(t receiver.Type, nr int) (bool, error) {
	rs := s.findRadio(t, nr)
	if rs == nil {
		return false, ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	defer rs.radio.Mu.Unlock(s.lg)
	return rs.radio.HaveBearing(), nil
}

// GetRadial returns the VOR radial the aircraft is currently on,
// derived the same way the VLOC tick derives it (true bearing from the
// station, corrected for the station's magnetic variation).
func (s *System) GetRadial(nr int) (float32, error) {
	rs := s.findRadio(receiver.TypeVLOC, nr)
	if rs == nil {
		return nan(), ErrUnknownRadio
	}
	pos := s.Pose().Pos
	rs.radio.Mu.Lock(s.lg)
	defer rs.radio.Mu.Unlock(s.lg)
	winner, _ := receiver.Select(rs.radio.VORLOC)
	if winner == nil || winner.Navaid.Type != navaid.VOR {
		return nan(), nil
	}
	brgTrue := receiver.BearingFromWinner(pos, winner)
	return receiver.Radial(brgTrue, winner.Navaid.VOR.MagVar), nil
}

func (s *System) GetDME(nr int) (float32, error) {
	rs := s.findRadio(receiver.TypeDME, nr)
	if rs == nil {
		return nan(), ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	defer rs.radio.Mu.Unlock(s.lg)
	return rs.radio.DME_, nil
}

// GetHdef returns horizontal course deviation, in dots, and the to/from
// flag, per spec §6 get_hdef(pilot|copilot). Both sides currently read
// the same underlying VLOC computation (spec §3 "no independent
// pilot/copilot noise paths").
func (s *System) GetHdef(nr int, copilot bool) (hdef float32, tofrom bool, err error) {
	rs := s.findRadio(receiver.TypeVLOC, nr)
	if rs == nil {
		return nan(), false, ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	defer rs.radio.Mu.Unlock(s.lg)
	if copilot {
		return rs.radio.HdefCopilot, rs.radio.TofromCopilot, nil
	}
	return rs.radio.HdefPilot, rs.radio.TofromPilot, nil
}

func (s *System) GetVdef(nr int) (float32, error) {
	rs := s.findRadio(receiver.TypeVLOC, nr)
	if rs == nil {
		return nan(), ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	defer rs.radio.Mu.Unlock(s.lg)
	return rs.radio.Vdef, nil
}

func (s *System) GetVdefRate(nr int) (float32, error) {
	rs := s.findRadio(receiver.TypeVLOC, nr)
	if rs == nil {
		return 0, ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	defer rs.radio.Mu.Unlock(s.lg)
	return rs.radio.VdefRate, nil
}

func (s *System) GetLocDDM(nr int) (float32, error) {
	rs := s.findRadio(receiver.TypeVLOC, nr)
	if rs == nil {
		return nan(), ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	defer rs.radio.Mu.Unlock(s.lg)
	return rs.radio.LocDDM, nil
}

func (s *System) GetGPDDM(nr int) (float32, error) {
	rs := s.findRadio(receiver.TypeVLOC, nr)
	if rs == nil {
		return nan(), ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	defer rs.radio.Mu.Unlock(s.lg)
	return rs.radio.GPDDM, nil
}

func (s *System) GetFcrs(nr int) (float32, error) {
	rs := s.findRadio(receiver.TypeVLOC, nr)
	if rs == nil {
		return nan(), ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	defer rs.radio.Mu.Unlock(s.lg)
	return rs.radio.LocFcrs, nil
}

func (s *System) GetGS(nr int) (float32, error) {
	rs := s.findRadio(receiver.TypeVLOC, nr)
	if rs == nil {
		return nan(), ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	defer rs.radio.Mu.Unlock(s.lg)
	return rs.radio.GS_, nil
}

func (s *System) IsLOC(nr int) (bool, error) {
	rs := s.findRadio(receiver.TypeVLOC, nr)
	if rs == nil {
		return false, ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	defer rs.radio.Mu.Unlock(s.lg)
	return rs.radio.IsLOC(), nil
}

// GetID implements spec §6/§4.H's get_ID: the strongest candidate's
// station identifier, withheld for ident_delay seconds after a
// frequency change to simulate the time it takes a pilot to positively
// identify a newly tuned station (the original's navrad_get_ID).
func (s *System) GetID(t receiver.Type, nr int) (id string, ok bool, err error) {
	rs := s.findRadio(t, nr)
	if rs == nil {
		return "", false, ErrUnknownRadio
	}
	rs.radio.Mu.Lock(s.lg)
	defer rs.radio.Mu.Unlock(s.lg)

	r := rs.radio
	if r.Failed {
		return "", false, nil
	}
	pose := s.Pose()
	if pose.NowT < r.FreqChgT+r.IdentDelay {
		return "", false, nil
	}

	var list []*receiver.RadioNavaid
	switch r.Type {
	case receiver.TypeVLOC:
		list = r.VORLOC
	case receiver.TypeADF:
		list = r.NDB
	case receiver.TypeDME:
		list = r.DME
	}
	winner := receiver.StrongestAbove(list, receiver.NoiseFloorTestDb)
	if winner == nil {
		return "", false, nil
	}
	return winner.Navaid.ID, true, nil
}

// GetAudioBuf2 implements spec §6's audio entry point: volume and
// noiseLevel scale as volume^2/(noiseLevel*volume)^2 inside the
// distortion pass (spec §4.I step 6); squelch/agc select the same
// gating the original's radio panel switches provide.
func (s *System) GetAudioBuf2(t receiver.Type, nr int, volume float64, squelch, agc bool, streamID int) ([]int16, error) {
	rs := s.findRadio(t, nr)
	if rs == nil {
		return nil, ErrUnknownRadio
	}
	return rs.synth.GetAudioBuf(volume, squelch, agc, streamID), nil
}

func (s *System) DoneAudio(t receiver.Type, nr int) error {
	rs := s.findRadio(t, nr)
	if rs == nil {
		return ErrUnknownRadio
	}
	rs.synth.DoneAudio()
	return nil
}

func (s *System) SyncStreams(t receiver.Type, nr int) error {
	rs := s.findRadio(t, nr)
	if rs == nil {
		return ErrUnknownRadio
	}
	rs.synth.SyncStreams()
	return nil
}
