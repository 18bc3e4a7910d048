// SPDX-License-Identifier: BSD-3-Clause

package log

import (
	"log/slog"
	"os"

	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

// New creates a structured logger that writes human-readable, timestamped
// lines to stderr via zerolog's console writer, bridged through log/slog so
// the rest of the daemon only ever depends on the standard library logging
// interface.
func New(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	zeroLogger := zerolog.
		New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().
		Timestamp().
		Logger()

	return slog.New(slogzerolog.Option{Level: level, Logger: &zeroLogger}.NewZerologHandler())
}
