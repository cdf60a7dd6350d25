// internal/navaid/types.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package navaid implements the navaid database: parsing the textual
// navaid file, deduplicating conflicting records, and answering bounded
// spatial/frequency queries (spec §3, §4.E, §4.F).
package navaid

import "github.com/skiselkov/libradio/pkg/geo"

// Type is the navaid kind, encoded as a bitmask so that a query's type
// filter can request any union of kinds in one pass.
type Type uint32

const (
	NDB Type = 1 << iota
	VOR
	LOC
	GS
	MarkerOM
	MarkerMM
	MarkerIM
	DME
	FPAP
	LTP
	GLS
)

// Marker is the union of the three fan-marker kinds, for callers that
// don't care which one they got.
const Marker = MarkerOM | MarkerMM | MarkerIM

func (t Type) String() string {
	switch t {
	case NDB:
		return "NDB"
	case VOR:
		return "VOR"
	case LOC:
		return "LOC"
	case GS:
		return "GS"
	case MarkerOM:
		return "OM"
	case MarkerMM:
		return "MM"
	case MarkerIM:
		return "IM"
	case DME:
		return "DME"
	case FPAP:
		return "FPAP"
	case LTP:
		return "LTP"
	case GLS:
		return "GLS"
	default:
		return "UNKNOWN"
	}
}

// Polarization mirrors the ITM adapter's notion of antenna polarization;
// VOR/LOC/GS use horizontal, DME/NDB use vertical (§4.B).
type Polarization int

const (
	Horizontal Polarization = iota
	Vertical
)

func (t Type) Polarization() Polarization {
	switch t {
	case VOR, LOC, GS:
		return Horizontal
	default:
		return Vertical
	}
}

// Ident is the four-part identity key records are deduplicated and
// indexed on: (type, region, icao, id).
type Ident struct {
	Type   Type
	Region string
	ICAO   string
	ID     string
}

// VORFields holds the VOR-specific payload of the type-specific union.
type VORFields struct {
	MagVar float32 // degrees, east positive
}

// LOCFields holds localizer-specific fields, including the
// runway-alignment refinement state (spec §4.E "Localizer runway
// alignment").
type LOCFields struct {
	Brg          float32 // true front-course bearing, degrees
	MagBrg       float32 // embedded magnetic front course, degrees
	Runway       string
	RefDatumDist float32 // meters, >= 1017
	CorrPos      geo.Point2LL
	aligned      bool // set once runway-alignment has been attempted
	corrected    bool // set if alignment actually replaced Brg/CorrPos
}

const DefaultRefDatumDist = 2450.0
const MinRefDatumDist = 1017.0

// GSFields holds glideslope-specific fields.
type GSFields struct {
	Brg    float32 // true bearing, degrees
	Angle  float32 // nominal glide-slope angle, degrees, (0,8]
	Runway string
}

// MarkerFields holds fan-marker fields (OM/MM/IM share a shape).
type MarkerFields struct {
	Brg    float32
	Runway string
}

// DMEFields holds DME-specific fields.
type DMEFields struct {
	RangeBias float32 // meters; negative = subtracted
	AirportID string
}

// GBASFields covers FPAP/LTP/GLS, the GBAS/LPV approach reference points.
type GBASFields struct {
	ProcedureID string
	Runway      string
	Course      float32
	GlideSlope  float32 // only meaningful for GLS
	Provider    int
}

// Navaid is a tagged record keyed by Ident. Exactly one of the
// type-specific field blocks is populated, selected by Ident.Type; this
// is Go's idiom for a sum type (spec §9 "tagged unions").
type Navaid struct {
	Ident

	Pos    geo.Point2LL // lat/lon/elev(m)
	FreqHz int64
	RangeM float32
	Name   string

	VOR  VORFields
	LOC  LOCFields
	GS   GSFields
	MRK  MarkerFields
	DME  DMEFields
	GBAS GBASFields

	// xpElev is the lazily-populated terrain-probed elevation cache
	// (spec: "a per-navaid xp_elev cache field is lazily populated and
	// is the only writable state reachable from the query path").
	xpElevValid bool
	xpElevM     float32
}

func (n *Navaid) cachedElev() (float32, bool) { return n.xpElevM, n.xpElevValid }
func (n *Navaid) setCachedElev(m float32) {
	n.xpElevM = m
	n.xpElevValid = true
}

// ValidFreq reports whether hz (integer Hz, scaled per spec §3/§4.E) falls
// inside the format-validated band for the navaid's type. VOR and LOC
// share the 108-112 MHz sub-band; they are told apart by the channel's
// first decimal digit (even tenths are VOR, odd tenths are LOC), the
// same convention the worker uses to pick a candidate type set from a
// tuned frequency (spec §4.G step 2).
func (t Type) ValidFreq(hz int64) bool {
	const mhz = 1_000_000
	switch t {
	case NDB:
		return hz >= 190_000 && hz <= 1_750_000
	case VOR, DME:
		return IsValidVORFreq(hz) || (hz >= 112*mhz && hz <= 118*mhz)
	case LOC, GS:
		return IsValidLOCFreq(hz)
	default:
		return true
	}
}

// IsValidVORFreq reports whether hz falls in the 108.00-117.95 MHz band
// on an even-tenths channel (the VOR/enroute allocation).
func IsValidVORFreq(hz int64) bool {
	const mhz = 1_000_000
	if hz < 108*mhz || hz >= 118*mhz {
		return false
	}
	tenths := (hz / 100_000) % 10
	return tenths%2 == 0
}

// IsValidLOCFreq reports whether hz falls in the 108.10-111.95 MHz band
// on an odd-tenths channel (the localizer allocation).
func IsValidLOCFreq(hz int64) bool {
	const mhz = 1_000_000
	if hz < 108*mhz || hz > 112*mhz {
		return false
	}
	tenths := (hz / 100_000) % 10
	return tenths%2 == 1
}
