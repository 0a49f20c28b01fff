// Package config defines the setup document model and its loader.
//
// A setup document is an ordered list of [Step] records. Each step carries
// the text shown to the user and the [Action] lists run when the user
// confirms the step or answers a yes/no branch. [Load] reads a document from
// disk, synthesizing and persisting the demo document from [DemoSteps] when
// the file does not exist yet. [Save] writes a document back using the same
// field names.
//
// Documents ending in ".json" are encoded as JSON, everything else as YAML.
// Runtime tunables that are not part of the document (settling delay, delete
// retry budget, fault policy) live in [Settings].
package config
