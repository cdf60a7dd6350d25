// internal/navaid/parse.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navaid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/skiselkov/libradio/pkg/geo"
)

// ParseError is a single malformed-line failure; line loading collects
// these into an ErrorLogger rather than aborting (spec §4.E "Failure").
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Msg) }

const (
	minVersion = 1100
	maxVersion = 1100
)

// ParseVersion validates the "I <version>" header line (spec §4.E).
func ParseVersion(header string) (int, error) {
	var tag string
	var version int
	n, err := fmt.Sscanf(header, "%s %d", &tag, &version)
	if err != nil || n != 2 || tag != "I" {
		return 0, fmt.Errorf("malformed version header %q", header)
	}
	if version < minVersion || version > maxVersion {
		return 0, fmt.Errorf("unsupported navaid file version %d", version)
	}
	return version, nil
}

// ParseRecord decodes one whitespace-tokenized data line into a Navaid.
// Blank lines and unknown kind codes both return (nil, nil) — they
// are skipped without being an error. A line with a known kind code but
// a field that fails validation returns a non-nil error; the caller
// skips the record and keeps reading (spec §4.E "a record failing
// field-validity checks is silently dropped but does not abort").
func ParseRecord(line string) (*Navaid, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}
	code, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, nil
	}

	switch code {
	case 2:
		return parseCommonAndFinish(fields, NDB, 11, finishNDB)
	case 3:
		return parseCommonAndFinish(fields, VOR, 11, finishVOR)
	case 4, 5:
		return parseCommonAndFinish(fields, LOC, 12, finishLOC)
	case 6:
		return parseCommonAndFinish(fields, GS, 12, finishGS)
	case 7, 8, 9:
		mrk := []Type{MarkerOM, MarkerMM, MarkerIM}[code-7]
		return parseCommonAndFinish(fields, mrk, 12, finishMarker)
	case 12, 13:
		return parseCommonAndFinish(fields, DME, 12, finishDME)
	case 14:
		return parseCommonAndFinish(fields, FPAP, 12, finishFPAP)
	case 15:
		return parseCommonAndFinish(fields, GLS, 12, finishGBASGlide)
	case 16:
		return parseCommonAndFinish(fields, LTP, 12, finishGBASGlide)
	default:
		return nil, nil
	}
}

type finisher func(n *Navaid, f []string) error

func parseCommonAndFinish(f []string, t Type, minFields int, fn finisher) (*Navaid, error) {
	if len(f) < minFields {
		return nil, fmt.Errorf("%s record needs >= %d fields, got %d", t, minFields, len(f))
	}

	lat, err1 := strconv.ParseFloat(f[1], 32)
	lon, err2 := strconv.ParseFloat(f[2], 32)
	elevFt, err3 := strconv.Atoi(f[3])
	if err1 != nil || err2 != nil || err3 != nil {
		return nil, fmt.Errorf("%s: malformed position fields", t)
	}

	n := &Navaid{Ident: Ident{Type: t}}
	n.Pos = geo.NewPoint2LL(float32(lat), float32(lon), float32(elevFt)*geo.FeetToMeters)
	if !n.Pos.Valid() {
		return nil, fmt.Errorf("%s: position out of range", t)
	}

	freqField, err := strconv.ParseFloat(f[4], 64)
	if err != nil {
		return nil, fmt.Errorf("%s: malformed freq field", t)
	}
	switch t {
	case NDB:
		n.FreqHz = int64(freqField * 1000)
	default:
		n.FreqHz = int64(freqField * 10000)
	}
	if !t.ValidFreq(n.FreqHz) {
		return nil, fmt.Errorf("%s: freq %d Hz out of band", t, n.FreqHz)
	}

	rangeNM, err := strconv.ParseFloat(f[5], 32)
	if err != nil {
		return nil, fmt.Errorf("%s: malformed range field", t)
	}
	n.RangeM = float32(rangeNM) * geo.NMToMeters

	if t != FPAP && t != LTP && t != GLS {
		n.ID = f[7]
	}
	n.ICAO = f[8]
	n.Region = f[9]

	if err := fn(n, f); err != nil {
		return nil, err
	}
	return n, nil
}

func finishNDB(n *Navaid, f []string) error {
	n.Name = strings.Join(f[10:], " ")
	return nil
}

func finishVOR(n *Navaid, f []string) error {
	magvar, err := strconv.ParseFloat(f[6], 32)
	if err != nil {
		return fmt.Errorf("VOR: malformed magvar")
	}
	n.VOR.MagVar = float32(magvar)
	n.Name = strings.Join(f[10:], " ")
	return nil
}

func finishLOC(n *Navaid, f []string) error {
	brg, err := strconv.ParseFloat(f[6], 32)
	if err != nil || brg < 0 || brg >= 360 {
		return fmt.Errorf("LOC: malformed or invalid bearing")
	}
	n.LOC.Brg = float32(brg)
	n.LOC.RefDatumDist = DefaultRefDatumDist
	n.LOC.Runway = f[10]
	n.Name = strings.Join(f[11:], " ")
	return nil
}

func finishGS(n *Navaid, f []string) error {
	brg, angle, err := parsePackedAngleBearing(f[6])
	if err != nil {
		return fmt.Errorf("GS: %w", err)
	}
	if angle <= 0 || angle > 8 {
		return fmt.Errorf("GS: glide angle %.2f out of (0,8]", angle)
	}
	n.GS.Brg = brg
	n.GS.Angle = angle
	n.GS.Runway = f[10]
	n.Name = strings.Join(f[11:], " ")
	return nil
}

func finishMarker(n *Navaid, f []string) error {
	brg, err := strconv.ParseFloat(f[6], 32)
	if err != nil {
		return fmt.Errorf("marker: malformed bearing")
	}
	n.MRK.Brg = float32(brg)
	n.MRK.Runway = f[10]
	return nil
}

func finishDME(n *Navaid, f []string) error {
	bias, err := strconv.ParseFloat(f[6], 32)
	if err != nil {
		return fmt.Errorf("DME: malformed bias")
	}
	n.DME.RangeBias = float32(bias)
	n.DME.AirportID = n.ICAO
	n.Name = strings.Join(f[11:], " ")
	return nil
}

func finishFPAP(n *Navaid, f []string) error {
	crs, err := strconv.ParseFloat(f[6], 32)
	if err != nil || crs < 0 || crs >= 360 {
		return fmt.Errorf("FPAP: malformed course")
	}
	switch f[11] {
	case "LP", "LPV", "APV-II", "GLS":
	default:
		return fmt.Errorf("FPAP: unknown performance code %q", f[11])
	}
	n.GBAS.ProcedureID = n.ID
	n.ID = ""
	n.GBAS.Course = float32(crs)
	n.GBAS.Runway = f[10]
	return nil
}

// finishGBASGlide handles both GLS and LTP (code 15/16), whose field 6
// packs glide-slope angle and bearing as "DDDbbb" (first 3 digits are
// angle*100, remainder is the bearing), matching the original's
// handling of the GS record's field 6.
func finishGBASGlide(n *Navaid, f []string) error {
	brg, angle, err := parsePackedAngleBearing(f[6])
	if err != nil {
		return err
	}
	if angle <= 0 || angle > 8 {
		return fmt.Errorf("GBAS glide angle %.2f out of (0,8]", angle)
	}
	n.GBAS.ProcedureID = n.ID
	n.ID = ""
	n.GBAS.Course = brg
	n.GBAS.GlideSlope = angle
	n.GBAS.Runway = f[10]
	if n.Type == LTP {
		if len(f) > 11 {
			switch f[11] {
			case "WAAS":
				n.GBAS.Provider = 1
			case "EGNOS":
				n.GBAS.Provider = 2
			case "MSAS":
				n.GBAS.Provider = 3
			case "GP":
				n.GBAS.Provider = 4
			default:
				return fmt.Errorf("LTP: unknown provider %q", f[11])
			}
		}
	}
	return nil
}

// parsePackedAngleBearing decodes the "DDDbbb[.b]" glide-slope field
// used by GS/GLS/LTP records: the first three characters are the
// glide-slope angle times 100, the rest is the true bearing.
func parsePackedAngleBearing(field string) (brg, angle float32, err error) {
	if len(field) <= 3 {
		return 0, 0, fmt.Errorf("packed field %q too short", field)
	}
	angleCode, err := strconv.Atoi(field[:3])
	if err != nil {
		return 0, 0, fmt.Errorf("packed field %q: malformed angle digits", field)
	}
	brgVal, err := strconv.ParseFloat(field[3:], 32)
	if err != nil {
		return 0, 0, fmt.Errorf("packed field %q: malformed bearing", field)
	}
	return float32(brgVal), float32(angleCode) / 100.0, nil
}
