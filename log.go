// SPDX-License-Identifier: GPL-3.0
// Copyright 2024 Pete Heist

package ssa

import (
	"os"

	"github.com/rs/zerolog"
)

// defaultLogger is the base logger every SamplingContext's logger is
// derived from: Builder.Build applies the level set with
// Builder.WithDebugLevel to it. It is silent by default; hosts that want
// diagnostics raise the level.
var defaultLogger = zerolog.New(os.Stderr).Level(zerolog.Disabled)

// logf emits a structured diagnostic message tagged with a clock key and
// simulation time. It mirrors the teacher's logf(now, id, format, a...)
// helper, generalized from a fixed nodeID/Clock pair to any comparable
// key and ordered time.
func logf[K comparable, T Time](l zerolog.Logger, now T, key K, format string, a ...any) {
	l.Debug().
		Interface("key", key).
		Float64("t", float64(now)).
		Msgf(format, a...)
}
