// Package actions executes the individual actions of a setup step.
//
// A [Runner] dispatches on the action kind: it checks for administrative
// privilege, launches external processes and copies, moves or deletes paths.
// File operations fan out across their entries and deletes are retried with
// a fixed pause. Every outcome comes back as a [Result] with one
// [EntryResult] per path, so callers decide how faults are reported.
//
// Jumps are not handled here: they move the sequencer and belong to the
// engine.
package actions
