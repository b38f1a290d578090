// Package extract drives an extraction run.
//
// For each configured category, in order, the extractor asks the API for
// the category's record count, plans the pages that cover it, fetches each
// page on demand and projects every record into a spot.Record:
//
//	categories -> count -> plan -> fetch -> project -> sink
//
// The stream is pull-based. A page is requested only when the consumer
// needs its first record, and the first failure ends the run.
//
//	e := extract.New(client, cfg.Categories)
//	summary, err := e.Run(ctx, tsv.NewWriter(os.Stdout))
package extract
