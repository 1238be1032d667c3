package prefetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/album-proxy/pkg/album"
	"github.com/Sternrassler/album-proxy/pkg/identifier"
	"github.com/Sternrassler/album-proxy/pkg/media"
	"github.com/Sternrassler/album-proxy/pkg/upstream"
)

// Config holds checker configuration.
type Config struct {
	// MaxConcurrency is the number of parallel upstream requests.
	MaxConcurrency int

	// Timeout bounds each fetch.
	Timeout time.Duration
}

// DefaultConfig returns a configuration gentle enough for a home server.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        30 * time.Second,
	}
}

// MediaFetcher is the upstream dependency of the checker.
type MediaFetcher interface {
	FetchMedia(ctx context.Context, kind media.Kind, id identifier.ID, size media.Size) (*upstream.Media, error)
}

// Job is one asset fetch.
type Job struct {
	AssetID identifier.ID
	Kind    media.Kind
	Size    media.Size
}

// Result is the outcome of a Job.
type Result struct {
	Job
	Bytes       int
	ContentType string
	Duration    time.Duration
	Err         error
}

// OK reports whether the fetch succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

type indexedJob struct {
	index int
	job   Job
}

// Checker fetches jobs in parallel.
type Checker struct {
	fetcher MediaFetcher
	config  Config
}

// NewChecker creates a new checker.
func NewChecker(fetcher MediaFetcher, config Config) *Checker {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &Checker{
		fetcher: fetcher,
		config:  config,
	}
}

// JobsForAlbum builds one job per image asset and kind. Videos are skipped.
// Assets whose id is not a valid identifier are skipped as well.
func JobsForAlbum(a *album.Album, kinds ...media.Kind) []Job {
	if len(kinds) == 0 {
		kinds = []media.Kind{media.KindThumbnail}
	}

	images := album.Images(a.Assets)
	jobs := make([]Job, 0, len(images)*len(kinds))
	for _, asset := range images {
		id, err := identifier.Parse(asset.ID)
		if err != nil {
			log.Warn().Str("asset_id", asset.ID).Msg("Skipping asset with invalid id")
			continue
		}
		for _, kind := range kinds {
			job := Job{AssetID: id, Kind: kind}
			if kind == media.KindThumbnail {
				job.Size = media.SizeThumbnail
			}
			jobs = append(jobs, job)
		}
	}
	return jobs
}

// Run executes jobs and returns one result per job, in job order. Individual
// failures are recorded in the results. The returned error is non-nil when
// ctx ends during the run; jobs that never ran carry ctx's error.
func (c *Checker) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	start := time.Now()
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}

	workers := c.config.MaxConcurrency
	if workers > len(jobs) {
		workers = len(jobs)
	}

	log.Info().
		Int("jobs", len(jobs)).
		Int("workers", workers).
		Msg("Starting media check")

	queue := make(chan indexedJob)
	go func() {
		defer close(queue)
		for i, job := range jobs {
			select {
			case queue <- indexedJob{index: i, job: job}:
			case <-ctx.Done():
				return
			}
		}
	}()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			processed := 0
			for item := range queue {
				results[item.index] = c.fetch(ctx, item.job)
				processed++

				mu.Lock()
				done++
				if done%50 == 0 {
					log.Info().
						Int("done", done).
						Int("total", len(jobs)).
						Float64("progress_pct", float64(done)/float64(len(jobs))*100).
						Msg("Check progress")
				}
				mu.Unlock()
			}
			log.Debug().
				Int("worker_id", workerID).
				Int("jobs_processed", processed).
				Msg("Worker finished")
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		for i := range results {
			if results[i].Job == (Job{}) {
				results[i] = Result{Job: jobs[i], Err: err}
			}
		}
		return results, fmt.Errorf("check interrupted (%d/%d jobs): %w", done, len(jobs), err)
	}

	log.Info().
		Int("jobs", len(jobs)).
		Dur("duration", time.Since(start)).
		Msg("Media check complete")

	return results, nil
}

// fetch runs one job with its own timeout.
func (c *Checker) fetch(ctx context.Context, job Job) Result {
	jobCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	start := time.Now()
	m, err := c.fetcher.FetchMedia(jobCtx, job.Kind, job.AssetID, job.Size)
	result := Result{Job: job, Duration: time.Since(start), Err: err}
	if err != nil {
		log.Warn().
			Err(err).
			Str("kind", string(job.Kind)).
			Str("id", job.AssetID.String()).
			Msg("Media fetch failed")
		return result
	}

	result.Bytes = len(m.Data)
	result.ContentType = m.ContentType
	return result
}

// Summary aggregates a run.
type Summary struct {
	Total  int
	OK     int
	Failed int
	Bytes  int64
}

// Summarize counts successes, failures and transferred bytes.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.OK() {
			s.OK++
			s.Bytes += int64(r.Bytes)
		} else {
			s.Failed++
		}
	}
	return s
}
