// SPDX-License-Identifier: BSD-3-Clause

// Package log provides the daemon's single structured-logging entry point:
// a log/slog.Logger backed by zerolog's console writer. Every other package
// takes a *slog.Logger (or nothing, falling back to slog.Default()) rather
// than importing this package directly, so tests can substitute any slog
// handler they like.
package log
