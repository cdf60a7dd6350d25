// cmd/navradio-bench/main.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// navradio-bench drives a navradio.System against a synthetic flight
// path and prints the VLOC/ADF/DME readouts once a second, using a flat
// built-in terrain/ITM stand-in so the demo runs without any real
// scenery or propagation-model collaborator wired in.
package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/skiselkov/libradio/internal/config"
	"github.com/skiselkov/libradio/internal/itm"
	"github.com/skiselkov/libradio/internal/navaid"
	"github.com/skiselkov/libradio/internal/propagation"
	"github.com/skiselkov/libradio/internal/receiver"
	"github.com/skiselkov/libradio/internal/terrain"
	"github.com/skiselkov/libradio/navradio"
	"github.com/skiselkov/libradio/pkg/geo"
	"github.com/skiselkov/libradio/pkg/log"
)

var (
	navDataPath  = pflag.StringP("navdata", "n", "", "path to an earth_nav.dat-style navaid file (required)")
	startLat     = pflag.Float64("lat", 0, "aircraft start latitude, degrees")
	startLon     = pflag.Float64("lon", 0, "aircraft start longitude, degrees")
	startElevM   = pflag.Float64("elev", 3000, "aircraft start elevation, meters MSL")
	vlocFreqMHz  = pflag.Float64("vloc-freq", 0, "nav1 frequency in MHz")
	adfFreqKHz   = pflag.Float64("adf-freq", 0, "adf1 frequency in kHz")
	runSeconds   = pflag.Int("seconds", 30, "how long to run the simulated flight, in seconds")
	logLevel     = pflag.String("loglevel", "warn", "logging level: debug, info, warn, error")
	logDir       = pflag.String("logdir", "", "log file directory (default: OS config dir)")
	help         = pflag.BoolP("help", "h", false, "show usage")
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: navradio-bench -n <navdata> [flags]\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if *help || *navDataPath == "" {
		pflag.Usage()
		if *navDataPath == "" {
			os.Exit(1)
		}
		return
	}

	lg := log.New(*logLevel, *logDir)
	db, err := navaid.Create(lg, map[navaid.Source]string{navaid.SourceUser: *navDataPath})
	if err != nil {
		fmt.Fprintf(os.Stderr, "navdata: %v\n", err)
		os.Exit(1)
	}
	lg.Infof("loaded %d navaids from %s", db.Count(), *navDataPath)

	cfg := config.Default()
	cfg.LogLevel, cfg.LogDir = *logLevel, *logDir

	sys, err := navradio.Init(db, flatProbe{}, freeSpaceITM{}, nil, cfg, lg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "navradio.Init: %v\n", err)
		os.Exit(1)
	}
	defer sys.Fini()

	if *vlocFreqMHz > 0 {
		_ = sys.SetFreq(receiver.TypeVLOC, 0, int64(*vlocFreqMHz*1_000_000))
	}
	if *adfFreqKHz > 0 {
		_ = sys.SetFreq(receiver.TypeADF, 0, int64(*adfFreqKHz*1_000))
	}
	_ = sys.SetFreq(receiver.TypeDME, 0, int64(*vlocFreqMHz*1_000_000))

	start := time.Now()
	pos := geo.Point2LL{Lat: float32(*startLat), Lon: float32(*startLon), Elev: float32(*startElevM)}
	hdg := float32(90)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	report := time.NewTicker(time.Second)
	defer report.Stop()

	deadline := start.Add(time.Duration(*runSeconds) * time.Second)
	for now := range ticker.C {
		if now.After(deadline) {
			break
		}
		t := now.Sub(start).Seconds()
		pos = geo.Offset(pos, hdg, 120*0.05) // ~120 m/s ground track

		sys.SetPose(propagation.Pose{Pos: pos, MagVar: 0, NowT: t})
		sys.Floop(hdg, 0, 0)

		select {
		case <-report.C:
			printReadout(sys)
		default:
		}
	}
}

func printReadout(sys *navradio.System) {
	q, _ := sys.GetSignalQuality(receiver.TypeVLOC, 0)
	brg, _ := sys.GetBearing(receiver.TypeVLOC, 0)
	radial, _ := sys.GetRadial(0)
	hdef, tofrom, _ := sys.GetHdef(0, false)
	dme, _ := sys.GetDME(0)
	id, ok, _ := sys.GetID(receiver.TypeVLOC, 0)

	fmt.Printf("quality=%.2f brg=%.1f radial=%.1f hdef=%.2f tofrom=%v dme=%.2fnm id=%q(%v)\n",
		q, brg, radial, hdef, tofrom, dme*geo.MetersToNM, id, ok)
}

// flatProbe is a built-in terrain stand-in: sea level everywhere, no
// water, used only so the demo runs without a real scenery collaborator.
type flatProbe struct{}

func (flatProbe) Sample(pts []geo.Point2LL, filterLinear bool) (elevM, water []float32) {
	elevM = make([]float32, len(pts))
	water = make([]float32, len(pts))
	return elevM, water
}

var _ terrain.Probe = flatProbe{}

// freeSpaceITM is a built-in ITM stand-in using plain free-space path
// loss, used only so the demo runs without the real Longley-Rice
// collaborator; it always reports line-of-sight propagation.
type freeSpaceITM struct{}

func (freeSpaceITM) PointToPointMDH(elevM []float32, distM, ht1M, ht2M,
	dielectric, conductivity, surfaceRefractivity, freqMHz float64,
	climate itm.Climate, pol itm.Polarization,
	timeAccur, locAccur, confAccur float64) itm.Result {
	if distM < 1 {
		distM = 1
	}
	lossDb := 32.4 + 20*math.Log10(freqMHz) + 20*math.Log10(distM/1000)
	return itm.Result{DbLoss: lossDb, Propmode: itm.PropmodeLOS, Code: itm.ResultOK}
}

var _ itm.Routine = freeSpaceITM{}
