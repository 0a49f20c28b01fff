// Package engine drives a setup sequence.
//
// A [Sequencer] owns the position within the steps and the transitions
// between them: advance, jump and skip. The [Engine] wraps it with a single
// loop goroutine that receives user intents, runs the action list of the
// current step one action at a time through an [ActionRunner], and publishes
// a [Snapshot] after every change. Diagnostics flow through an [Observer].
//
// Every action, and the check for an exhausted list, is preceded by a
// settling delay. Intents arriving while a list runs are ignored.
package engine
