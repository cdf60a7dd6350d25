// internal/propagation/worker.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package propagation implements the background worker of spec §4.G: it
// is the sole mutator of candidate-set membership and of signal_db_tgt.
// Between worker passes, per-radio floop ticks filter signal_db_omni
// toward signal_db_tgt and derive the shaped signal_db from the
// service-volume/directivity curves of curves.go.
package propagation

import (
	"math"

	"github.com/skiselkov/libradio/internal/itm"
	"github.com/skiselkov/libradio/internal/navaid"
	"github.com/skiselkov/libradio/internal/receiver"
	"github.com/skiselkov/libradio/internal/terrain"
	"github.com/skiselkov/libradio/pkg/geo"
	"github.com/skiselkov/libradio/pkg/log"
)

const (
	// DefaultSearchRadiusM is used by callers that construct a Worker
	// without setting SearchRadiusM explicitly (spec §6's default 300 NM).
	DefaultSearchRadiusM = 300 * geo.NMToMeters

	minAircraftAGLM = 3
	minNavaidAGLM   = 10

	baseGainDb = 92

	// Over-water conductivity/dielectric ramp (spec §4.G.b): fresh-to-salt
	// water blend begins at 40 km of over-water path and saturates by
	// 100 km.
	saltRampStartM = 40_000
	saltRampEndM   = 100_000

	// L-band DME transponder frequency range, linearly mapped from the
	// 108-118 MHz VOR/LOC band (spec §4.G step 2.d).
	vhfLo, vhfHi = 108e6, 118e6
	lbandLo, lbandHi = 1041e6, 1150e6

	gsFreqHz = 332e6
)

// Pose is the aircraft state the worker and floop both need: position,
// magnetic variation and the current simulation time, normally guarded
// by a separate lock from any one radio's (spec §5 "a separate
// navrad.lock protects aircraft position...").
type Pose struct {
	Pos    geo.Point2LL
	MagVar float32
	NowT   float64
}

// Worker owns the collaborators the propagation pass needs: the navaid
// database, the terrain probe, and the ITM adapter. AirportDB is
// optional; when set, newly-seen LOC candidates are offered to the
// once-per-LOC runway alignment refinement of spec §4.E.
type Worker struct {
	DB        *navaid.DB
	Probe     terrain.Probe
	ITM       itm.Adapter
	AirportDB navaid.AirportDB
	Lg        *log.Logger

	// SearchRadiusM is the candidate-query radius (spec §6's configurable
	// search_radius_nm); zero means DefaultSearchRadiusM.
	SearchRadiusM float32
}

func (w *Worker) searchRadiusM() float32 {
	if w.SearchRadiusM <= 0 {
		return DefaultSearchRadiusM
	}
	return w.SearchRadiusM
}

// Tick runs one worker pass (spec §4.G steps 1-4) over one radio: refresh
// candidate sets, then recompute signal_db_tgt for every candidate.
func (w *Worker) Tick(r *receiver.Radio, pose Pose) {
	r.Mu.Lock(w.Lg)
	freq := r.Freq
	failed := r.Failed
	r.Mu.Unlock(w.Lg)

	if failed {
		return
	}

	typeMask, ok := candidateTypeMask(r.Type, freq)

	var fresh []*navaid.Navaid
	if ok {
		fresh = w.DB.Query(navaid.Query{
			Center:  pose.Pos,
			RadiusM: w.searchRadiusM(),
			Type:    typeMask,
			HasType: true,
		})
	}

	slots := r.CandidateSlots()
	slotMasks := [4]navaid.Type{navaid.VOR | navaid.LOC, navaid.GS, navaid.DME, navaid.NDB}

	r.Mu.Lock(w.Lg)
	for i, slot := range slots {
		w.refreshSlot(slot, fresh, slotMasks[i], pose)
	}
	r.Mu.Unlock(w.Lg)
}

// candidateTypeMask implements spec §4.G step 2: which navaid types are
// relevant to the radio's current frequency.
func candidateTypeMask(t receiver.Type, freq int64) (navaid.Type, bool) {
	switch t {
	case receiver.TypeVLOC:
		switch {
		case navaid.VOR.ValidFreq(freq):
			return navaid.VOR | navaid.DME, true
		case navaid.LOC.ValidFreq(freq):
			return navaid.LOC | navaid.GS | navaid.DME, true
		}
		return 0, false
	case receiver.TypeADF:
		if navaid.NDB.ValidFreq(freq) {
			return navaid.NDB, true
		}
		return 0, false
	case receiver.TypeDME:
		switch {
		case navaid.LOC.ValidFreq(freq):
			return navaid.LOC | navaid.DME, true
		case navaid.VOR.ValidFreq(freq):
			return navaid.DME, true
		}
		return 0, false
	default:
		return 0, false
	}
}

func (w *Worker) refreshSlot(slot *[]*receiver.RadioNavaid, fresh []*navaid.Navaid, mask navaid.Type, pose Pose) {
	var matching []*navaid.Navaid
	for _, n := range fresh {
		if n.Type&mask != 0 {
			matching = append(matching, n)
		}
	}
	receiver.SyncCandidates(slot, matching)
	for _, rn := range *slot {
		w.computeSignal(rn, pose)
	}
}

// computeSignal implements spec §4.G step 4: terrain profile, ITM
// environment synthesis, antenna height clamping, frequency/polarization
// selection, and the resulting signal_db_tgt and propmode.
func (w *Worker) computeSignal(rn *receiver.RadioNavaid, pose Pose) {
	n := rn.Navaid
	if n.Type == navaid.LOC && w.AirportDB != nil {
		navaid.AlignLocalizer(n, w.AirportDB)
	}
	navPos := n.EffectivePos()

	prof := terrain.Sample(w.Probe, pose.Pos, navPos, false)

	waterFrac := prof.WaterFraction()
	overWaterM := waterFrac * prof.DistM
	saltFrac := geo.Clamp((overWaterM-saltRampStartM)/(saltRampEndM-saltRampStartM), 0, 1)

	dielectric := geo.Lerp(waterFrac, itm.DielectricGroundAvg, itm.DielectricWaterFresh)
	conductivity := geo.Lerp(waterFrac, itm.ConductivityGroundAvg, geo.Lerp(saltFrac, itm.ConductivityWaterFresh, itm.ConductivityWaterSalt))

	distNM := float64(prof.DistM) * geo.MetersToNM
	ht1 := math.Max(minAircraftAGLM, float64(pose.Pos.Elev-prof.ElevM[0]))
	navAGL := math.Max(minNavaidAGLM, distNM/4)

	navElevM := n.Pos.Elev
	if navElevM == 0 {
		// The navaid file omits elevation for some records; fall back to
		// a terrain probe under the antenna, cached per-navaid since it
		// never changes across worker passes (spec §4.E "xp_elev cache").
		navElevM = w.DB.GetElev(n, func(p geo.Point2LL) float32 {
			return terrain.Sample(w.Probe, p, p, false).ElevM[0]
		})
	}
	ht2 := math.Max(navAGL, float64(navElevM-prof.ElevM[len(prof.ElevM)-1]))

	pol := itmPolarization(n.Type)
	freqMHz := propFreqMHz(n)

	elevProfile := append([]float32(nil), prof.ElevM...)
	res := w.ITM.PointToPointMDH(elevProfile, float64(prof.DistM), ht1, ht2,
		dielectric, conductivity, itm.SurfaceRefractivityAvg, freqMHz, pol)

	rn.SignalDbTgt = baseGainDb - float32(res.DbLoss)
	rn.Propmode = int(res.Propmode)
	rn.GndDist = prof.DistM

	if n.Type == navaid.GS {
		rn.EffectiveElevM = effectiveGSElev(n, prof.ElevM[len(prof.ElevM)-1], prof.DistM)
	}
}

// effectiveGSElev uses the navaid database's declared elevation for the
// glideslope antenna beyond 30km and blends it linearly toward the
// terrain-probed elevation as the aircraft closes inside 30km, fully
// switching to the terrain elevation by 20km so the indicated glide
// path agrees with the scenery runway surface near touchdown (spec
// §4.H "effective antenna elevation... blend... between 20 and 30 km").
func effectiveGSElev(n *navaid.Navaid, terrainElevM, distM float32) float32 {
	const blendFar, blendNear = 30_000, 20_000
	t := geo.Clamp((distM-blendNear)/(blendFar-blendNear), 0, 1)
	return geo.Lerp(t, terrainElevM, n.Pos.Elev)
}

func itmPolarization(t navaid.Type) itm.Polarization {
	if t.Polarization() == navaid.Horizontal {
		return itm.Horizontal
	}
	return itm.Vertical
}

// propFreqMHz implements spec §4.G step 2.d's frequency substitution: DME
// riding a VOR/LOC channel transmits in L-band, GS is fixed at 332 MHz,
// everything else uses its own tuned frequency.
func propFreqMHz(n *navaid.Navaid) float64 {
	switch n.Type {
	case navaid.DME:
		hz := float64(n.FreqHz)
		t := (hz - vhfLo) / (vhfHi - vhfLo)
		return geo.Lerp(float32(geo.Clamp(t, 0, 1)), float32(lbandLo), float32(lbandHi)) / 1e6
	case navaid.GS:
		return gsFreqHz / 1e6
	default:
		return float64(n.FreqHz) / 1e6
	}
}
