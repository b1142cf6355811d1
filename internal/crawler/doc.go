// Package crawler implements the graph-expansion crawl over the
// show/writer network: the frontier queues, the dedup bookkeeping, and
// the driver loop that decides what to fetch next and when to stop.
//
// The driver is strictly sequential. One request is in flight at a time,
// with a fixed politeness delay between requests, so the frontier and
// trackers are deliberately not safe for concurrent use.
package crawler
