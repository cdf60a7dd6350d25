// internal/receiver/filter.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package receiver

// IIRFilter is a first-order low-pass filter whose rate is rescaled by
// signal level via UpdateRate (spec §4.H "Filtering").
type IIRFilter struct {
	Value float32
	init  bool
}

// Step advances the filter toward target over dt seconds at baseRate,
// scaled by the current signalDb.
func (f *IIRFilter) Step(target, baseRate, signalDb, dt float32) float32 {
	if !f.init {
		f.Value = target
		f.init = true
		return f.Value
	}
	rate := UpdateRate(baseRate, signalDb)
	alpha := rate * dt
	if alpha > 1 {
		alpha = 1
	}
	if alpha < 0 {
		alpha = 0
	}
	f.Value += (target - f.Value) * alpha
	return f.Value
}

// LockDelay suppresses output updates for `hold` seconds after any
// candidate change for a given output (spec §4.H "Lock/relock delays"):
// it tracks the identity of the last-seen winner and the time at which
// it changed.
type LockDelay struct {
	lastWinner interface{}
	changedAt  float64
	hold       float64
}

func NewLockDelay(holdSeconds float64) *LockDelay {
	return &LockDelay{hold: holdSeconds}
}

// Update records a (possibly new) winner identity at time t and reports
// whether the lock delay has elapsed since the last change.
func (l *LockDelay) Update(winner interface{}, t float64) (settled bool) {
	if winner != l.lastWinner {
		l.lastWinner = winner
		l.changedAt = t
	}
	return t-l.changedAt >= l.hold
}
