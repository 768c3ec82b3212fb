// Package swrcache provides a stale-while-revalidate cache for a single
// expensive value shared by many goroutines.
//
// The value is produced by a caller-supplied [ComputeFunc]. Callers never
// each pay for the computation: one computation at a time refreshes the
// shared data, everyone else reads what is cached. Data older than the TTL
// is cleared on the next [Cache.Get], which then waits, bounded by MaxWait,
// for a fresh value:
//
//	c := swrcache.New(func(ctx context.Context) (map[int64]int64, error) {
//		return loadTotals(ctx)
//	}, swrcache.WithTTL(2*time.Minute))
//
//	totals := c.Get(ctx)
//
// Get never returns an error. If no data arrives in time, or the
// computation fails while the cache is empty, it logs the condition and
// returns an empty map. A computation that outlives a waiting caller keeps
// running and fills the cache for later callers.
//
// Failures never discard cached data. They are logged, reported to the
// [Observer] and available from [Cache.LastError].
package swrcache
