// internal/navaid/errlog.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navaid

import (
	"fmt"
	"strings"

	"github.com/skiselkov/libradio/pkg/log"
)

// ErrorLogger accumulates per-line parse failures during a Load so a
// single call can report every malformed line it skipped without
// aborting the load (spec §4.E "logged, skipped, file proceeds").
type ErrorLogger struct {
	hierarchy []string
	errors    []string
}

func (e *ErrorLogger) Push(s string) { e.hierarchy = append(e.hierarchy, s) }
func (e *ErrorLogger) Pop()          { e.hierarchy = e.hierarchy[:len(e.hierarchy)-1] }

func (e *ErrorLogger) Errorf(format string, args ...interface{}) {
	e.errors = append(e.errors, strings.Join(e.hierarchy, " / ")+": "+fmt.Sprintf(format, args...))
}

func (e *ErrorLogger) HaveErrors() bool { return len(e.errors) > 0 }

func (e *ErrorLogger) PrintErrors(lg *log.Logger) {
	for _, msg := range e.errors {
		lg.Warn(msg)
	}
}

func (e *ErrorLogger) Errors() []string { return e.errors }
