// Package frequency computes when a recurring agent run should next fire.
//
// # Overview
//
// A Config describes one of three recurrence shapes:
//
//   - interval: a fixed spacing in minutes, optionally jittered, optionally
//     constrained to a recurring daily window ("every 2h, but only between
//     08:00 and 20:00").
//   - daily: once per day at a random instant inside an HH:mm window.
//   - weekly: like daily, but only on an allowed set of weekdays.
//
// Windows may cross midnight: "22:00"-"06:00" spans into the next civil
// day. All window and weekday arithmetic happens in the Scheduler's
// timezone, not UTC, because daily/weekly are civil-calendar concepts and
// the zone may observe DST.
//
// # Purity
//
// The package performs no I/O and holds no shared state. Every function
// is a transformation of its inputs; the only nondeterminism is the
// Scheduler's random source, which callers can inject for testing.
//
// # Validation
//
// Validate accumulates every problem it finds and never panics, so a
// caller can surface all of them at once. Scheduler.NextRun runs the
// same checks and instead fails with a single *ConfigError joining the
// messages: there is no sensible partial result to return.
package frequency
