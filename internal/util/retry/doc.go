// Package retry repeats an operation that may fail transiently.
//
// [Do] runs the operation, then retries it after a pause until it succeeds,
// the retry budget is spent, or the context ends. The defaults match the
// delete policy of the action runner: ten retries one second apart.
package retry
