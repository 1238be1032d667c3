// Package prefetch warms and verifies album media by fetching every asset of
// an album through a bounded worker pool.
//
// Example usage:
//
//	checker := prefetch.NewChecker(upstreamClient, prefetch.DefaultConfig())
//	jobs := prefetch.JobsForAlbum(a, media.KindThumbnail)
//	results, err := checker.Run(ctx, jobs)
//	summary := prefetch.Summarize(results)
//
// The checker:
//   - Queues one job per (asset, kind) pair, skipping videos
//   - Runs a fixed number of workers (default 4)
//   - Bounds every fetch with its own timeout
//   - Records per-job failures instead of aborting the run
//   - Returns results in job order
//
// It is used by the operator CLI, never on the request path.
package prefetch
