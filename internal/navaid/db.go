// internal/navaid/db.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navaid

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/skiselkov/libradio/pkg/geo"
	"github.com/skiselkov/libradio/pkg/log"
)

// Source identifies one of the four load-order tiers of spec §3
// "Inter-source precedence": earlier tiers win on exact duplicates;
// Vendor is special-cased to overwrite a matching record's frequency.
type Source int

const (
	SourceUser Source = iota
	SourceGlobalAirports
	SourceVendorCustom
	SourceDefault
)

// DB is the navaid database: an insertion-ordered list plus the four
// ordered indexes described in spec §3 ("by latitude, by longitude, by
// identity tuple, and a multimap keyed by (type, icao)"). It is
// immutable after Load returns, except for each Navaid's lazily
// populated elevation cache (spec §5).
type DB struct {
	mu   sync.RWMutex
	all  []*Navaid
	ByID map[Ident]*Navaid

	byLat []*Navaid // sorted ascending by Pos.Lat
	byLon []*Navaid // sorted ascending by Pos.Lon

	byAirport map[airportKey][]*Navaid

	exactLat map[exactKey]bool
	exactLon map[exactKey]bool

	lg *log.Logger
}

type airportKey struct {
	Type Type
	ICAO string
}

type exactKey struct {
	bits uint32
	typ  Type
	id   string
	freq int64
}

func New(lg *log.Logger) *DB {
	return &DB{
		ByID:      make(map[Ident]*Navaid),
		byAirport: make(map[airportKey][]*Navaid),
		exactLat:  make(map[exactKey]bool),
		exactLon:  make(map[exactKey]bool),
		lg:        lg,
	}
}

// Create loads the navaid database from the given source files in
// precedence order (index 0 = highest precedence), matching spec §4.E's
// "create(xpdir, airport_db) -> db | null" contract: if no source
// yields any usable record, Create returns an error and a nil DB.
func Create(lg *log.Logger, sources map[Source]string) (*DB, error) {
	db := New(lg)
	errlog := &ErrorLogger{}
	anyLoaded := false

	for _, src := range []Source{SourceUser, SourceGlobalAirports, SourceVendorCustom, SourceDefault} {
		path, ok := sources[src]
		if !ok || path == "" {
			continue
		}
		n, err := db.loadFile(path, src, errlog)
		if err != nil {
			lg.Warnf("navaid source %v (%s) unavailable: %v", src, path, err)
			continue
		}
		if n > 0 {
			anyLoaded = true
		}
	}
	if errlog.HaveErrors() {
		errlog.PrintErrors(lg)
	}
	if !anyLoaded {
		return nil, fmt.Errorf("navaid: no usable source produced any record")
	}

	db.dedupePerAirport()
	return db, nil
}

// loadFile parses one navaid file and inserts its records, applying the
// within-load dedup rule (spec §4.E "Load order & deduplication").
// Returns the number of records accepted.
func (db *DB) loadFile(path string, src Source, errlog *ErrorLogger) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	errlog.Push(path)
	defer errlog.Pop()

	var r io.Reader = f
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return 0, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	if !sc.Scan() {
		return 0, fmt.Errorf("empty file")
	}
	if _, err := ParseVersion(sc.Text()); err != nil {
		return 0, err
	}

	lineNr := 1
	accepted := 0
	for sc.Scan() {
		lineNr++
		line := sc.Text()
		nav, err := ParseRecord(line)
		if err != nil {
			errlog.Errorf("line %d: %v", lineNr, err)
			continue
		}
		if nav == nil {
			continue
		}
		if db.insert(nav, src) {
			accepted++
		}
	}
	return accepted, sc.Err()
}

func latKey(n *Navaid) exactKey {
	return exactKey{bits: math.Float32bits(n.Pos.Lat), typ: n.Type, id: n.ID, freq: n.FreqHz}
}
func lonKey(n *Navaid) exactKey {
	return exactKey{bits: math.Float32bits(n.Pos.Lon), typ: n.Type, id: n.ID, freq: n.FreqHz}
}

// insert applies the within-load duplicate rule: a record is dropped if
// one with the same identity tuple, or the same (lat,type)/(lon,type)
// plus id/freq tiebreakers, is already present. A SourceVendorCustom
// duplicate instead rewrites the existing record's frequency (spec
// §3's "workaround for hand-placed LOC lists with stale frequencies").
func (db *DB) insert(nav *Navaid, src Source) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	if existing, ok := db.ByID[nav.Ident]; ok {
		if src == SourceVendorCustom {
			existing.FreqHz = nav.FreqHz
		}
		return false
	}
	if db.exactLat[latKey(nav)] || db.exactLon[lonKey(nav)] {
		if src == SourceVendorCustom {
			// Best-reading of the ambiguous vendor/user interaction
			// (spec §9 Open Questions): only rewrite frequency, never
			// displace the winning record's other fields.
			for _, e := range db.all {
				if latKey(e) == latKey(nav) || lonKey(e) == lonKey(nav) {
					e.FreqHz = nav.FreqHz
					break
				}
			}
		}
		return false
	}

	db.all = append(db.all, nav)
	db.ByID[nav.Ident] = nav
	db.exactLat[latKey(nav)] = true
	db.exactLon[lonKey(nav)] = true

	db.byLat = insertSorted(db.byLat, nav, func(a, b *Navaid) bool { return a.Pos.Lat < b.Pos.Lat })
	db.byLon = insertSorted(db.byLon, nav, func(a, b *Navaid) bool { return a.Pos.Lon < b.Pos.Lon })

	ak := airportKey{Type: nav.Type, ICAO: nav.ICAO}
	db.byAirport[ak] = append(db.byAirport[ak], nav)

	return true
}

func insertSorted(s []*Navaid, n *Navaid, less func(a, b *Navaid) bool) []*Navaid {
	i := sort.Search(len(s), func(i int) bool { return !less(s[i], n) })
	s = append(s, nil)
	copy(s[i+1:], s[i:])
	s[i] = n
	return s
}

// dedupePerAirport applies the distance/bearing conflict predicate of
// spec §3: within one airport ICAO, two records of identical type and
// frequency that are "conflicting" collapse to the later-loaded one.
func (db *DB) dedupePerAirport() {
	db.mu.Lock()
	defer db.mu.Unlock()

	dropped := make(map[*Navaid]bool)
	for _, list := range db.byAirport {
		for i := 0; i < len(list); i++ {
			if dropped[list[i]] {
				continue
			}
			for j := i + 1; j < len(list); j++ {
				if dropped[list[j]] {
					continue
				}
				if conflicts(list[i], list[j]) {
					dropped[list[i]] = true
					break
				}
			}
		}
	}
	if len(dropped) == 0 {
		return
	}
	db.removeAll(dropped)
}

func (db *DB) removeAll(dropped map[*Navaid]bool) {
	keep := func(list []*Navaid) []*Navaid {
		out := list[:0]
		for _, n := range list {
			if !dropped[n] {
				out = append(out, n)
			}
		}
		return out
	}
	db.all = keep(append([]*Navaid{}, db.all...))
	db.byLat = keep(append([]*Navaid{}, db.byLat...))
	db.byLon = keep(append([]*Navaid{}, db.byLon...))
	for n := range dropped {
		delete(db.ByID, n.Ident)
	}
	for k, list := range db.byAirport {
		db.byAirport[k] = keep(append([]*Navaid{}, list...))
	}
}

// conflicts implements spec §3's duplicate-suppression predicate; a and
// b are assumed same type/airport already (grouping key).
func conflicts(a, b *Navaid) bool {
	if a.FreqHz != b.FreqHz {
		return false
	}
	distM := float64(geo.DistanceM(a.Pos, b.Pos))
	switch a.Type {
	case LOC:
		return distM <= 1000 && angDelta(a.LOC.Brg, b.LOC.Brg) < 10
	case GS:
		return distM <= 750 && angDelta(a.GS.Brg, b.GS.Brg) < 10
	case DME:
		return distM <= 500
	default:
		return false
	}
}

func angDelta(a, b float32) float32 {
	d := a - b
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	if d < 0 {
		d = -d
	}
	return d
}

// All returns every loaded navaid; used by tests and the bench CLI.
func (db *DB) All() []*Navaid {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]*Navaid, len(db.all))
	copy(out, db.all)
	return out
}

func (db *DB) Count() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.all)
}

// PairedLOC implements the worker's "paired LOC" lookup (spec §4.G: "if
// a paired LOC with the same id/icao is present" for a DME riding a LOC
// channel): the LOC record sharing this DME's icao and id, if any.
func (db *DB) PairedLOC(dme *Navaid) *Navaid {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, n := range db.byAirport[airportKey{Type: LOC, ICAO: dme.ICAO}] {
		if n.ID == dme.ID {
			return n
		}
	}
	return nil
}

// HasOpposingLOC implements the "back-course suppression" refinement
// (spec §4.G: "a narrower no-back-course curve if a conflicting opposing
// LOC exists at the same airport"): true if another LOC at the same
// airport points within 10 degrees of loc's reciprocal course, meaning
// that runway's far end is independently served and loc's own back
// course should not be treated as a usable approach course.
func (db *DB) HasOpposingLOC(loc *Navaid) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	recip := loc.LOC.Brg + 180
	for recip >= 360 {
		recip -= 360
	}
	for _, n := range db.byAirport[airportKey{Type: LOC, ICAO: loc.ICAO}] {
		if n == loc {
			continue
		}
		if angDelta(n.LOC.Brg, recip) < 10 {
			return true
		}
	}
	return false
}
