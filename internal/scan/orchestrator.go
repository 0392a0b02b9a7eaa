// Package scan runs source adapters together and persists what they find.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc/panics"
	"golang.org/x/sync/errgroup"

	"leadscout/internal/model"
	"leadscout/internal/source"
	"leadscout/internal/storage"
)

// Mode names a scan variant.
type Mode string

const (
	ModeQuick         Mode = "quick"
	ModeComprehensive Mode = "comprehensive"
	ModeSource        Mode = "source"
	ModeSearch        Mode = "search"
)

// QuickPlatforms are the always-available sources.
var QuickPlatforms = []model.Platform{model.PlatformReddit, model.PlatformHackerNews}

// Publisher receives every newly stored signal.
type Publisher interface {
	Publish(ctx context.Context, s model.Signal) error
}

// Result aggregates one scan. PerSource is keyed by platform key and always
// lists every platform of the scan, failed ones with 0.
type Result struct {
	Mode         Mode              `json:"mode"`
	PerSource    map[string]int    `json:"perSourceCounts"`
	Total        int               `json:"total"`
	HighPriority int               `json:"highPriorityCount"`
	Duplicates   int               `json:"duplicates"`
	Failed       map[string]string `json:"failed,omitempty"`
	Signals      []model.Signal    `json:"-"`
	Duration     time.Duration     `json:"-"`
}

// Count returns the stored count for p.
func (r Result) Count(p model.Platform) int { return r.PerSource[p.Key()] }

// Orchestrator fans out over adapters and settles all of them before aggregating.
type Orchestrator struct {
	adapters map[model.Platform]source.Adapter
	store    storage.Store
	dedup    storage.Deduper
	pub      Publisher
	logger   *slog.Logger
	timeout  time.Duration
}

type Option func(*Orchestrator)

// WithDeduper drops signals whose dedup key was already claimed.
func WithDeduper(d storage.Deduper) Option { return func(o *Orchestrator) { o.dedup = d } }

func WithPublisher(p Publisher) Option { return func(o *Orchestrator) { o.pub = p } }

func WithLogger(l *slog.Logger) Option { return func(o *Orchestrator) { o.logger = l } }

// WithTimeout bounds the fetch phase of one scan.
func WithTimeout(d time.Duration) Option { return func(o *Orchestrator) { o.timeout = d } }

func New(store storage.Store, adapters []source.Adapter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		adapters: make(map[model.Platform]source.Adapter, len(adapters)),
		store:    store,
		logger:   slog.Default(),
	}
	for _, a := range adapters {
		o.adapters[a.Platform()] = a
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Adapter returns the registered adapter for p.
func (o *Orchestrator) Adapter(p model.Platform) (source.Adapter, bool) {
	a, ok := o.adapters[p]
	return a, ok
}

// Quick scans the forum and the news aggregator.
func (o *Orchestrator) Quick(ctx context.Context) Result {
	return o.run(ctx, ModeQuick, o.fetchJobs(QuickPlatforms))
}

// Comprehensive scans every platform.
func (o *Orchestrator) Comprehensive(ctx context.Context) Result {
	return o.run(ctx, ModeComprehensive, o.fetchJobs(model.Platforms))
}

// Source scans a single platform.
func (o *Orchestrator) Source(ctx context.Context, p model.Platform) Result {
	return o.run(ctx, ModeSource, o.fetchJobs([]model.Platform{p}))
}

// Search runs a keyword search on the given platforms whose adapters support it.
func (o *Orchestrator) Search(ctx context.Context, terms []string, platforms ...model.Platform) Result {
	jobs := make([]job, 0, len(platforms))
	for _, p := range platforms {
		s, ok := o.adapters[p].(source.Searcher)
		if !ok {
			continue
		}
		jobs = append(jobs, job{platform: p, fetch: func(ctx context.Context) ([]model.Signal, error) {
			return s.Search(ctx, terms)
		}})
	}
	return o.run(ctx, ModeSearch, jobs)
}

type job struct {
	platform model.Platform
	fetch    func(ctx context.Context) ([]model.Signal, error)
}

type outcome struct {
	platform model.Platform
	signals  []model.Signal
	err      error
}

func (o *Orchestrator) fetchJobs(platforms []model.Platform) []job {
	jobs := make([]job, 0, len(platforms))
	for _, p := range platforms {
		a, ok := o.adapters[p]
		if !ok {
			jobs = append(jobs, job{platform: p, fetch: func(context.Context) ([]model.Signal, error) {
				return nil, fmt.Errorf("%s: %w", p.Key(), source.ErrSourceDisabled)
			}})
			continue
		}
		jobs = append(jobs, job{platform: p, fetch: a.Fetch})
	}
	return jobs
}

func (o *Orchestrator) run(ctx context.Context, mode Mode, jobs []job) Result {
	start := time.Now()
	res := Result{
		Mode:      mode,
		PerSource: make(map[string]int, len(jobs)),
		Failed:    map[string]string{},
	}
	outcomes := o.settle(ctx, jobs)
	for _, oc := range outcomes {
		key := oc.platform.Key()
		res.PerSource[key] = 0
		if oc.err != nil {
			res.Failed[key] = oc.err.Error()
			o.logger.Warn("scan: source failed", "source", key, "mode", mode, "err", oc.err)
			continue
		}
		for _, sig := range oc.signals {
			stored, dup := o.persist(ctx, sig)
			if dup {
				res.Duplicates++
				continue
			}
			if stored == nil {
				continue
			}
			res.PerSource[key]++
			res.Total++
			if stored.Priority.IsHigh() {
				res.HighPriority++
			}
			res.Signals = append(res.Signals, *stored)
		}
	}
	res.Duration = time.Since(start)
	o.logger.Info("scan: done",
		"mode", mode,
		"total", res.Total,
		"high_priority", res.HighPriority,
		"duplicates", res.Duplicates,
		"failed", len(res.Failed),
		"took", res.Duration.Round(time.Millisecond),
	)
	return res
}

// settle runs every job concurrently and waits for all of them. A job's
// error or panic is recorded in its own outcome and never cancels the others.
func (o *Orchestrator) settle(ctx context.Context, jobs []job) []outcome {
	fetchCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	outcomes := make([]outcome, len(jobs))
	var g errgroup.Group
	for i, j := range jobs {
		g.Go(func() error {
			outcomes[i] = runJob(fetchCtx, j)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func runJob(ctx context.Context, j job) outcome {
	oc := outcome{platform: j.platform}
	var pc panics.Catcher
	pc.Try(func() {
		oc.signals, oc.err = j.fetch(ctx)
	})
	if r := pc.Recovered(); r != nil {
		oc.signals, oc.err = nil, fmt.Errorf("%s: adapter panicked: %w", j.platform.Key(), r.AsError())
	}
	return oc
}

// persist stores one signal. It returns (nil, true) for duplicates and
// (nil, false) when the insert failed.
func (o *Orchestrator) persist(ctx context.Context, sig model.Signal) (*model.Signal, bool) {
	claimed := false
	if o.dedup != nil {
		fresh, err := o.dedup.Claim(ctx, sig.DedupKey())
		if err != nil {
			o.logger.Warn("scan: dedup check failed, storing anyway", "key", sig.DedupKey(), "err", err)
		} else if !fresh {
			return nil, true
		}
		claimed = err == nil
	}
	if _, err := o.store.Insert(ctx, &sig); err != nil {
		o.logger.Error("scan: insert failed", "source", sig.Platform.Key(), "external_id", sig.ExternalID, "err", err)
		if claimed {
			// the next scan must see the post as new
			if err := o.dedup.Release(ctx, sig.DedupKey()); err != nil {
				o.logger.Warn("scan: release dedup claim failed", "key", sig.DedupKey(), "err", err)
			}
		}
		return nil, false
	}
	if o.pub != nil {
		if err := o.pub.Publish(ctx, sig); err != nil {
			o.logger.Warn("scan: publish failed", "id", sig.ID, "err", err)
		}
	}
	return &sig, false
}
