// Package pipeline provides composable, pull-based data pipeline operators.
//
// Pipelines are lazy. No work happens until values are pulled via Drain or
// Iter. Each stage pulls from the previous stage on demand,
// so a source is never read further than the consumer has asked for.
//
// All operators run on the caller's goroutine. Errors returned by stage
// functions are propagated unchanged to the consumer and end the stream.
//
// # Operators
//
//   - Map: transform each value
//   - Flatten: concatenate a stream of iterators one level deep
//   - FlatMap: transform each value into an iterator, then Flatten
//   - Tap: side-effect without altering the value (logging, metrics)
//   - Execute: apply same-typed stages left to right
//
// # Usage
//
//	src := pipeline.FromSlice([]string{"a", "b"})
//	pages := pipeline.FlatMap(src, planPages)
//	records := pipeline.FlatMap(pages, fetchPage)
//	rows := pipeline.Map(records, project)
//	err := pipeline.Drain(rows, sink.Write).Run(ctx)
package pipeline
