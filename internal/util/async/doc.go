// Package async runs independent operations concurrently and collects
// their errors.
//
// [RunParallel] is used by the action runner to process the entries of a
// copy, move or delete action at the same time.
package async
