// internal/navaid/errlog_test.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navaid

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skiselkov/libradio/pkg/log"
)

func TestErrorLoggerAccumulatesWithHierarchy(t *testing.T) {
	e := &ErrorLogger{}
	require.False(t, e.HaveErrors())

	e.Push("earth_nav.dat")
	e.Errorf("line %d: %s", 3, "bad bearing")
	e.Pop()

	require.True(t, e.HaveErrors())
	require.Equal(t, []string{"earth_nav.dat: line 3: bad bearing"}, e.Errors())
}

func TestErrorLoggerPrintErrorsDoesNotPanicWithDisabledLogger(t *testing.T) {
	e := &ErrorLogger{}
	e.Push("f.dat")
	e.Errorf("boom")
	e.Pop()

	require.NotPanics(t, func() {
		e.PrintErrors(log.Disabled())
	})
}
