// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - StepBuilder: Fluent builder for setup document steps
//   - Workspace: A temporary work dir with helpers to seed and inspect files
//   - MockRunner: Shared action runner recording calls with canned results
//
// Usage:
//
//	steps := []config.Step{
//	    testing.NewStep("copy").WithActions(testing.Copy("a.txt", "b/a.txt")).Build(),
//	    testing.NewStep("done").Build(),
//	}
//
//	ws := testing.NewWorkspace(t).WithFile("a.txt", "payload")
package testing
