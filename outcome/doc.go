// Package outcome records the decisions taken during one resolution session
// and answers questions about them.
//
// A Recorder is fed every module and capability result as it is produced:
//
//	rec := outcome.NewRecorder("runtimeClasspath")
//	err := handler.ResolveNext(func(r modules.Result) {
//	    rec.RecordModule(r)
//	})
//	out := rec.Outcome()
//
// The resulting Outcome supports:
//
//   - Explaining why a module or capability ended up with its winner
//   - Diffing two outcomes, e.g. to check that identical inputs resolve
//     identically
//   - Serializing to JSON, Graphviz DOT and human-readable text
package outcome
