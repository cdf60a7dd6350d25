// internal/distortion/distortion.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package distortion implements the 16-bit PCM band-pass/compressor/
// noise pipeline of spec §4.C: a peak-following compressor, then a
// chunked FFT band-pass EQ with additive noise and crossfaded overlap,
// then an output queue.
package distortion

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/skiselkov/libradio/pkg/geo"
	"github.com/skiselkov/libradio/pkg/log"
	"github.com/skiselkov/libradio/pkg/rand"
)

const clipWarnThreshold = 0.98 // normalized RMS level considered sustained clipping

const (
	EdgeBlend = 600 // samples, overlap between adjacent chunks

	comprTarget    = 0.7
	comprMinEnergy = 0.2
	comprRmsTau    = 2000.0
	comprFastTau   = 20.0
	comprSlowTau   = 2000.0

	noiseRandRate = 2.0

	lowAmplify    = 1.4
	centerAmplify = 1.6
)

// ChunkSize returns srate/timeQuantum (spec §4.C: time_quantum is 30 at
// 44.1kHz, 32 at 48kHz, so the chunk size evenly divides the rate).
func ChunkSize(srate int) int {
	return srate / TimeQuantum(srate)
}

func TimeQuantum(srate int) int {
	switch srate {
	case 44100:
		return 30
	case 48000:
		return 32
	default:
		// Any other rate the host offers still needs an integer
		// quantum; fall back to the 48kHz quantum's ratio.
		return srate / 1500
	}
}

// Context owns the scratch FFT buffers and persistent filter state for
// one audio stream (spec §9 "FFT/DSP state... allocate once per
// context, not per buffer").
type Context struct {
	srate     int
	chunkSz   int
	fft       *fourier.CmplxFFT
	clampCurve [][2]float32

	inbuf  []int16
	outbuf []int16
	outFillNominal int
	outFillActual  int

	chunkAB bool

	rms          float64
	comprEnergy  float64
	noiseLevel       float64
	noiseLevelCur    float64
	amplify          float64

	rmsScratch []float64
	lastRMS    float64

	rnd *rand.Rand
	lg  *log.Logger
}

// SetLogger attaches an optional diagnostic logger; a nil Context.lg (the
// default) silently skips the clip warnings below.
func (c *Context) SetLogger(lg *log.Logger) { c.lg = lg }

// RMSLevel returns the normalized (0-1) RMS level of the most recently
// compressed input chunk, per spec §4.C's compressor bookkeeping.
func (c *Context) RMSLevel() float64 { return c.lastRMS }

func NewContext(srate int, seed uint64) *Context {
	chunkSz := ChunkSize(srate)
	return &Context{
		srate:       srate,
		chunkSz:     chunkSz,
		fft:         fourier.NewCmplxFFT(chunkSz),
		clampCurve:  bandCurve(srate, chunkSz),
		comprEnergy: comprMinEnergy,
		amplify:     1.0,
		rnd:         rand.New(seed),
	}
}

// bandCurve builds the 12-point piecewise-linear EQ gain curve of spec
// §4.C (240/300/1700/3000/3500 Hz control points, mirrored around
// Nyquist for the conjugate half of the spectrum), in FFT-bin units.
func bandCurve(srate, n int) [][2]float32 {
	hz2slot := func(hz float64) float32 { return float32(hz/float64(srate)) * float32(n) }
	return [][2]float32{
		{hz2slot(0), 0},
		{hz2slot(240), 0},
		{hz2slot(300), lowAmplify},
		{hz2slot(1700), centerAmplify},
		{hz2slot(3000), 1.0},
		{hz2slot(3500), 0},
		{float32(n) - hz2slot(3500), 0},
		{float32(n) - hz2slot(3000), 1.0},
		{float32(n) - hz2slot(1700), centerAmplify},
		{float32(n) - hz2slot(300), lowAmplify},
		{float32(n) - hz2slot(240), 0},
		{float32(n), 0},
	}
}

// ClearBuffers resets fill pointers and RMS/energy state; always called
// between unrelated transmissions (spec §4.C).
func (c *Context) ClearBuffers() {
	c.inbuf = c.inbuf[:0]
	c.outbuf = c.outbuf[:0]
	c.outFillNominal = 0
	c.outFillActual = 0
	c.chunkAB = false
	c.rms = 0
	c.comprEnergy = comprMinEnergy
	c.noiseLevel = 0
	c.noiseLevelCur = 0
}

// SetNoiseLevel sets the target additive-noise amplitude for subsequent
// Process calls (a fraction of INT16_MAX).
func (c *Context) SetNoiseLevel(level float64) { c.noiseLevel = level }

// SetAmplify sets the output gain applied to samples entering the EQ
// stage (spec §4.I step 6 passes volume² here).
func (c *Context) SetAmplify(amplify float64) { c.amplify = amplify }

// Process appends in to the pending input, runs the compressor and
// chunked EQ over whatever full chunks have accumulated, and returns
// the next n samples of output, padding with leading silence if not
// enough output has been produced yet (spec §4.C stage 3). The returned
// slice always has length n and every sample's magnitude is <=
// math.MaxInt16 (spec §8).
func (c *Context) Process(in []int16, n int) []int16 {
	c.inbuf = append(c.inbuf, in...)
	c.compress(len(c.inbuf) - len(in))
	c.runChunks()
	return c.drain(n)
}

func (c *Context) compress(fromIdx int) {
	n := len(c.inbuf) - fromIdx
	if n <= 0 {
		return
	}
	if cap(c.rmsScratch) < n {
		c.rmsScratch = make([]float64, n)
	}
	c.rmsScratch = c.rmsScratch[:n]
	for i, s := range c.inbuf[fromIdx:] {
		c.rmsScratch[i] = float64(s) / math.MaxInt16
	}
	c.lastRMS = floats.Norm(c.rmsScratch, 2) / math.Sqrt(float64(n))
	if c.lastRMS >= clipWarnThreshold {
		c.lg.Warnf("distortion: sustained near-clip input, rms=%.3f", c.lastRMS)
	}

	for i := fromIdx; i < len(c.inbuf); i++ {
		e := math.Abs(float64(c.inbuf[i])) / (float64(math.MaxInt16) * comprTarget)
		if e > c.rms {
			c.rms = e
		}
		c.rms = filterIn(c.rms, 0, 1.0, comprRmsTau)

		if c.rms >= c.comprEnergy {
			c.comprEnergy = filterIn(c.comprEnergy, c.rms, 1.0, comprFastTau)
		} else {
			c.comprEnergy = filterIn(c.comprEnergy, c.rms, 1.0, comprSlowTau)
		}
		if c.comprEnergy < comprMinEnergy {
			c.comprEnergy = comprMinEnergy
		}
		c.inbuf[i] = clampInt16(float64(c.inbuf[i]) / c.comprEnergy)
	}
}

func filterIn(old, new, dT, lag float64) float64 {
	if lag <= 0 {
		return new
	}
	alpha := dT / lag
	if alpha > 1 {
		alpha = 1
	}
	return old + (new-old)*alpha
}

func clampInt16(x float64) int16 {
	if x > math.MaxInt16 {
		return math.MaxInt16
	}
	if x < math.MinInt16 {
		return math.MinInt16
	}
	return int16(x)
}

// runChunks steps through c.inbuf EdgeBlend-overlapped chunksz windows,
// running the FFT EQ and crossfading into the output buffer.
func (c *Context) runChunks() {
	consumed := 0
	for consumed+c.chunkSz <= len(c.inbuf) {
		chunk := c.inbuf[consumed : consumed+c.chunkSz]

		if !c.chunkAB {
			c.randomizeNoise()
		}
		tmp := c.eq(chunk)

		if c.outFillActual != 0 {
			for i := 0; i < EdgeBlend && i < len(tmp); i++ {
				old := c.outbuf[c.outFillNominal+i]
				tmp[i] = int16(geo.Wavg(float32(old), float32(tmp[i]), float32(i)/float32(EdgeBlend)))
			}
		}

		need := c.outFillNominal + c.chunkSz
		for len(c.outbuf) < need {
			c.outbuf = append(c.outbuf, 0)
		}
		copy(c.outbuf[c.outFillNominal:], tmp)
		c.outFillNominal += c.chunkSz - EdgeBlend
		c.outFillActual = c.outFillNominal + EdgeBlend

		c.chunkAB = !c.chunkAB
		consumed += c.chunkSz - EdgeBlend
	}
	if consumed > 0 {
		c.inbuf = append(c.inbuf[:0], c.inbuf[consumed:]...)
	}
}

// randomizeNoise re-randomizes the noise level 0.5x-1.5x once every two
// chunks (spec §4.C stage 2), filtered toward the new target.
func (c *Context) randomizeNoise() {
	jitter := 1 + (c.rnd.Float64() - 0.5)
	target := c.noiseLevel * jitter
	c.noiseLevelCur = filterIn(c.noiseLevelCur, target, float64(c.chunkSz), float64(c.chunkSz)*noiseRandRate)
}

// eq runs one chunk through the noise-add -> FFT -> band-gain ->
// inverse-FFT -> clamp pipeline (spec §4.C stage 2).
func (c *Context) eq(chunk []int16) []int16 {
	n := len(chunk)
	fin := make([]complex128, n)
	for i, s := range chunk {
		noise := (c.rnd.Float64()*2 - 1) * math.MaxInt16
		fin[i] = complex(c.amplify*float64(s)+noise*c.noiseLevelCur, 0)
	}

	fout := c.fft.Coefficients(nil, fin)

	for i := range fout {
		scale := float64(geo.LerpPiecewise(float32(i), c.clampCurve))
		fout[i] = complex(real(fout[i])*scale, imag(fout[i])*scale)
	}

	// gonum's Sequence already normalizes the inverse transform by 1/n.
	back := c.fft.Sequence(nil, fout)
	out := make([]int16, n)
	for i := range out {
		out[i] = clampInt16(real(back[i]))
	}
	return out
}

// drain returns n samples of output, padding leading silence and
// shifting the remainder forward if not enough has accumulated yet.
func (c *Context) drain(n int) []int16 {
	out := make([]int16, n)
	avail := c.outFillNominal
	if avail >= n {
		copy(out, c.outbuf[:n])
		remaining := avail - n
		copy(c.outbuf, c.outbuf[n:avail])
		c.outFillNominal = remaining
		c.outFillActual -= n
		if c.outFillActual < 0 {
			c.outFillActual = 0
		}
		return out
	}
	// Not enough output yet: lead with silence, place what we have at
	// the end, matching spec §4.C stage 3.
	copy(out[n-avail:], c.outbuf[:avail])
	c.outFillNominal = 0
	c.outFillActual = 0
	return out
}
