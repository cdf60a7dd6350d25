// pkg/sync/sync.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

// Package sync provides the single non-reentrant mutex each radio uses to
// protect its mutable state and candidate sets (spec §5), instrumented so
// that a stuck worker or a long-held lock shows up in the logs instead of
// as an unexplained stall.
package sync

import (
	"log/slog"
	gomath "math"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/skiselkov/libradio/pkg/log"
)

var heldMutexesMutex sync.Mutex
var heldMutexes = make(map[*LoggingMutex]struct{})

// LoggingMutex wraps sync.Mutex with acquire/release logging and a
// contention timeout warning. Each radio owns exactly one; it is not
// reentrant, matching the original's `radio->lock`.
type LoggingMutex struct {
	sync.Mutex
	name     string
	acq      time.Time
	acqStack []log.StackFrame
}

func New(name string) *LoggingMutex { return &LoggingMutex{name: name} }

func (l *LoggingMutex) Lock(lg *log.Logger) {
	tryTime := time.Now()

	if !l.Mutex.TryLock() {
		locked := make(chan struct{}, 1)
		go func() {
			l.Mutex.Lock()
			locked <- struct{}{}
		}()

		select {
		case <-locked:
		case <-time.After(10 * time.Second):
			lg.Error("unable to acquire radio mutex after 10 seconds",
				slog.Any("mutex", l), slog.Any("held_mutexes", heldMutexNames()))

			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			usage, _ := cpu.Percent(time.Second, false)
			cpuPct := 0.0
			if len(usage) > 0 {
				cpuPct = usage[0]
			}
			lg.Errorf("cpu: %d%% alloc: %dMB sys: %dMB goroutines: %d",
				int(gomath.Round(cpuPct)), m.Alloc/(1024*1024), m.Sys/(1024*1024),
				runtime.NumGoroutine())
			<-locked
		}
	}

	heldMutexesMutex.Lock()
	heldMutexes[l] = struct{}{}
	heldMutexesMutex.Unlock()

	l.acq = time.Now()
	l.acqStack = log.Callstack(l.acqStack)
	if w := l.acq.Sub(tryTime); w > time.Second {
		lg.Warn("long wait to acquire radio mutex", slog.Any("mutex", l), slog.Duration("wait", w))
	}
}

func (l *LoggingMutex) Unlock(lg *log.Logger) {
	heldMutexesMutex.Lock()
	defer heldMutexesMutex.Unlock()

	if _, ok := heldMutexes[l]; !ok {
		lg.Error("radio mutex not held at unlock", slog.String("mutex", l.name))
	}
	delete(heldMutexes, l)

	if d := time.Since(l.acq); d > time.Second {
		lg.Warn("radio mutex held for over 1 second", slog.Any("mutex", l), slog.Duration("held", d))
	}

	l.acq = time.Time{}
	l.acqStack = nil
	l.Mutex.Unlock()
}

func (l *LoggingMutex) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", l.name),
		slog.Time("acq", l.acq),
		slog.Duration("held", time.Since(l.acq)),
		slog.Any("acq_stack", l.acqStack))
}

func heldMutexNames() []string {
	names := make([]string, 0, len(heldMutexes))
	for m := range heldMutexes {
		names = append(names, m.name)
	}
	return names
}
