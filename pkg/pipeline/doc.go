// Package pipeline provides a hierarchical step execution engine.
//
// A pipeline is an ordered list of steps. A step is either a leaf, running a
// single function over a shared Context, or a group, running its children in
// order. Steps execute strictly one after the other, depth first, on the
// goroutine calling Run.
//
// Every step records its diagnostics in Context.StepMeta under its name: the
// fingerprint of its inputs, its status, its error message and its duration.
// A step created with WithFingerprint hashes the named context fields before
// running. When the hash matches the one of its last successful execution the
// step is skipped entirely, its body is not run and its diagnostics are left
// untouched. The cache lives in the Context, so it only spans one run. Step
// names are the cache keys: two steps sharing a name share their diagnostics.
//
// Steps steer the run through the context signal:
//   - SkipRestOfPass stops the remaining steps of the current pass.
//   - StartAnotherPass asks for a new pass once the current one is over.
//   - AbortPipeline stops the run right away.
//
// After each child, a group stops iterating its children unless the signal is
// Continue. StartAnotherPass does not stop the pass, so once a top-level step
// requests another pass, every later group of that pass stops after its first
// child; the next pass runs them in full. The signal is reset at the start of
// every pass, and a run requesting more passes than allowed fails with a
// *PassLimitError.
//
// A step error is recorded in the step diagnostics and returned unchanged to
// the caller. Nothing is retried automatically: the only repetition is a new
// pass explicitly requested by a step.
package pipeline
