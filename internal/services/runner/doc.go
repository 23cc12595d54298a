// Package runner executes data-agent probes on their configured
// recurrence.
//
// Each agent gets a trigger loop goroutine: it asks the agent's Trigger
// for the next firing instant, sleeps on a timer, then enqueues a probe
// onto a shared worker pool. Two trigger flavors exist: frequency
// triggers (the declarative interval/daily/weekly model) and raw cron
// expressions.
//
// Completed runs land in a bounded in-memory history ring and, when a
// store is attached, in persistent run history. The next-run instant is
// persisted too, so a restart resumes the pending schedule instead of
// firing everything at boot.
//
// The Service can be started/stopped at runtime (config hot reload);
// Apply replaces the agent set and restarts the trigger loops.
package runner
