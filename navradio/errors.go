// navradio/errors.go
// Copyright(c) 2024 libradio contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navradio

import "errors"

// The error taxonomy of spec §7. Configuration errors are logged and
// skipped at load time (see internal/navaid's ErrorLogger) and never
// reach this package; Not-available and Transient conditions are
// reported to callers as sentinel errors or as NaN/false/silence per
// the accessor, never as a panic or a process abort.
var (
	// ErrNotAvailable covers "no candidate exceeds noise floor",
	// "co-channel interference", and "frequency invalid": the radio is
	// tuned but has nothing usable right now.
	ErrNotAvailable = errors.New("navradio: not available")

	// ErrTransient covers a collaborator (terrain, ITM) not yet ready;
	// retried automatically on the next worker pass.
	ErrTransient = errors.New("navradio: transient, retry next pass")

	// ErrFatal covers "navaid db cannot be constructed from any
	// source": Init returns this and the caller must abort startup.
	ErrFatal = errors.New("navradio: fatal initialization error")

	ErrUnknownRadio = errors.New("navradio: unknown radio type/ordinal")
)
