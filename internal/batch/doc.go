// Package batch runs a set of source images through the thumbnail pipeline.
//
// A Dispatcher fans items out to a fixed pool of workers over one shared FIFO
// queue, each worker running EXIF extraction and the transform engine per
// item. Results are drained by a single collector, so progress callbacks are
// serialised and monotonic. One failing item never aborts the batch; if every
// item of a parallel pass fails, the whole set is retried once on a single
// goroutine.
//
// Cancellation is cooperative: the context is checked each time a worker
// takes the next item, items already taken run to completion, and their
// results are kept in the returned Outcome.
package batch
