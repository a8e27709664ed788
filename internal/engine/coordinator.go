// Package engine runs one resumable crawl: a navigation worker feeding a
// pool of listing workers, with periodic checkpoints of everything pending.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"relentless-househunter/internal/checkpoint"
	"relentless-househunter/internal/crawler"
	"relentless-househunter/internal/fetch"
	"relentless-househunter/internal/logging"
	"relentless-househunter/internal/metrics"
	"relentless-househunter/internal/models"
	"relentless-househunter/internal/pacing"
	"relentless-househunter/internal/queue"
	"relentless-househunter/internal/store"
)

// Phase is the coordinator lifecycle state.
type Phase string

const (
	PhaseSeeding    Phase = "SEEDING"
	PhaseRunning    Phase = "RUNNING"
	PhaseDraining   Phase = "DRAINING"
	PhaseTerminated Phase = "TERMINATED"
)

var allPhases = []string{string(PhaseSeeding), string(PhaseRunning), string(PhaseDraining), string(PhaseTerminated)}

// Deps are the collaborators of a run. Failures, Status, Robots and Metrics
// are optional.
type Deps struct {
	Sessions    crawler.SessionFactory
	Extractor   crawler.PageExtractor
	Fetcher     *fetch.Fetcher
	Checkpoints *checkpoint.Manager
	Sink        crawler.Sink
	Failures    crawler.FailurePublisher
	Status      store.StatusStore
	Robots      *fetch.RobotsRules
	Metrics     *metrics.Metrics
	Logger      logging.Logger
}

// Options tune a run. Zero durations disable the corresponding pause.
type Options struct {
	RunID              string
	IndexURL           string
	ListingWorkers     int
	PopTimeout         time.Duration
	CheckpointInterval time.Duration
	CheckpointPermits  int
	NavigationDelay    pacing.Range
	ListingDelay       pacing.Tiers
	FinalFlushTimeout  time.Duration
	// SessionAttempts bounds browser opens per worker before it gives up.
	SessionAttempts   int
	SessionRetryDelay pacing.Range
}

// Coordinator owns the queues, the buffer and the lifecycle of one run.
type Coordinator struct {
	deps   Deps
	opts   Options
	logger logging.Logger

	nav      *queue.NavigationQueue
	listings *queue.ListingQueue
	buffer   *queue.RecordBuffer
	permits  *queue.Permits

	navigationDone atomic.Bool
	listingDone    atomic.Bool

	// serializes checkpoints
	cpMu sync.Mutex

	mu          sync.RWMutex
	phase       Phase
	restored    bool
	flushed     int
	checkpoints int
	startedAt   time.Time
}

// New builds a coordinator for a single Run.
func New(deps Deps, opts Options) *Coordinator {
	if opts.ListingWorkers < 1 {
		opts.ListingWorkers = 1
	}
	if opts.PopTimeout <= 0 {
		opts.PopTimeout = 500 * time.Second
	}
	if opts.FinalFlushTimeout <= 0 {
		opts.FinalFlushTimeout = 30 * time.Second
	}
	if opts.SessionAttempts < 1 {
		opts.SessionAttempts = 3
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Coordinator{
		deps:     deps,
		opts:     opts,
		logger:   logger.WithField("run_id", opts.RunID),
		nav:      queue.NewNavigationQueue(),
		listings: queue.NewListingQueue(),
		buffer:   queue.NewRecordBuffer(),
		permits:  queue.NewPermits(opts.CheckpointPermits),
	}
}

// Run restores or seeds the crawl, runs the workers until both queues are
// exhausted or ctx is cancelled, then performs a final checkpoint and flush.
// An empty seeds list means discovery from Options.IndexURL.
func (c *Coordinator) Run(ctx context.Context, seeds []string) (err error) {
	c.mu.Lock()
	c.startedAt = time.Now().UTC()
	c.mu.Unlock()
	c.setPhase(ctx, PhaseSeeding)

	state, restored, err := c.deps.Checkpoints.Restore(ctx)
	if err != nil {
		c.setPhase(ctx, PhaseTerminated)
		return fmt.Errorf("restore checkpoint: %w", err)
	}

	defer func() {
		c.setPhase(context.WithoutCancel(ctx), PhaseDraining)
		finalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.FinalFlushTimeout)
		defer cancel()
		if ferr := c.checkpoint(finalCtx, "final"); ferr != nil {
			err = errors.Join(err, fmt.Errorf("final checkpoint: %w", ferr))
		}
		c.setPhase(finalCtx, PhaseTerminated)
		c.logger.WithFields(logging.Fields{
			"records_flushed": c.Status().RecordsFlushed,
			"navigation_done": c.navigationDone.Load(),
			"listing_done":    c.listingDone.Load(),
		}).Info("crawl terminated")
	}()

	if restored {
		c.restore(state)
	} else if err := c.seed(ctx, seeds); err != nil {
		return err
	}

	navWork := c.nav.Len() > 0
	listWork := c.listings.Len() > 0
	if !navWork {
		c.finishNavigation()
	}
	if !navWork && !listWork {
		c.listingDone.Store(true)
		c.logger.Info("nothing to crawl")
		return ctx.Err()
	}

	c.setPhase(ctx, PhaseRunning)
	workers, wctx := errgroup.WithContext(ctx)
	if navWork {
		workers.Go(func() error { return c.runNavigation(wctx) })
	}
	workers.Go(func() error { return c.runListingPool(wctx) })

	stop := make(chan struct{})
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		c.checkpointLoop(wctx, stop)
	}()

	err = workers.Wait()
	close(stop)
	<-loopDone
	if err != nil {
		return err
	}
	return ctx.Err()
}

func (c *Coordinator) restore(state models.CrawlState) {
	for _, task := range state.NavigationQueue {
		c.nav.Push(task)
	}
	c.listings.Push(state.ListingQueue...)
	c.buffer.Append(state.CollectedRecords...)

	c.mu.Lock()
	c.restored = true
	c.mu.Unlock()
	c.logger.WithFields(logging.Fields{
		"navigation": len(state.NavigationQueue),
		"listings":   len(state.ListingQueue),
		"records":    len(state.CollectedRecords),
	}).Info("resuming from checkpoint")
}

func (c *Coordinator) seed(ctx context.Context, seeds []string) error {
	if len(seeds) > 0 {
		for i, url := range seeds {
			c.nav.Push(models.NavigationTask{Priority: i, URL: url})
		}
		c.logger.WithField("seeds", len(seeds)).Info("seeded from url list")
		return nil
	}
	if c.opts.IndexURL == "" {
		return crawler.ErrNoSeeds
	}
	regions, err := c.discover(ctx)
	if err != nil {
		return err
	}
	for _, region := range regions {
		c.nav.Push(models.NavigationTask{Priority: region.ListingCount, URL: region.URL})
	}
	c.logger.WithField("regions", len(regions)).Info("seeded from site index")
	return nil
}

// discover lists the regions of the site index. A failed index page yields
// no regions.
func (c *Coordinator) discover(ctx context.Context) ([]models.Region, error) {
	session := c.openSession(ctx, c.logger.WithField("worker", "discovery"))
	if session == nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.New("open discovery session: no browser session available")
	}
	defer c.closeSession(session)

	indexURL := c.opts.IndexURL
	out := fetch.Attempt(ctx, c.deps.Fetcher, session, indexURL, func(ctx context.Context) ([]models.Region, error) {
		return c.deps.Extractor.ExtractRegions(ctx, session, indexURL)
	})
	c.deps.Metrics.TaskOutcome(models.TaskKindDiscovery, out.Status.String())
	switch out.Status {
	case fetch.Found:
		return out.Value, nil
	case fetch.Cancelled:
		return nil, ctx.Err()
	default:
		c.fail(ctx, models.TaskKindDiscovery, indexURL, 0, out.Status, out.Err)
		return nil, nil
	}
}

func (c *Coordinator) finishNavigation() {
	c.navigationDone.Store(true)
	c.listings.Seal()
}

// Status reports live progress.
func (c *Coordinator) Status() models.CrawlStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return models.CrawlStatus{
		RunID:             c.opts.RunID,
		Phase:             string(c.phase),
		Restored:          c.restored,
		PendingNavigation: c.nav.Len() + c.nav.InFlight(),
		PendingListings:   c.listings.Len() + c.listings.InFlight(),
		BufferedRecords:   c.buffer.Len(),
		RecordsFlushed:    c.flushed,
		Checkpoints:       c.checkpoints,
		NavigationDone:    c.navigationDone.Load(),
		ListingDone:       c.listingDone.Load(),
		StartedAt:         c.startedAt,
		UpdatedAt:         time.Now().UTC(),
	}
}

// Phase returns the current lifecycle state.
func (c *Coordinator) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

func (c *Coordinator) setPhase(ctx context.Context, p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
	c.deps.Metrics.Phase(string(p), allPhases...)
	c.logger.WithField("phase", p).Info("phase changed")
	c.publishStatus(ctx)
}

func (c *Coordinator) publishStatus(ctx context.Context) {
	if c.deps.Status == nil {
		return
	}
	if err := c.deps.Status.SetStatus(context.WithoutCancel(ctx), c.Status()); err != nil {
		c.logger.WithError(err).Warn("failed to persist run status")
	}
}

// fail logs a dropped task and sends it to the dead-letter publisher.
func (c *Coordinator) fail(ctx context.Context, kind, url string, priority int, outcome fmt.Stringer, cause error) {
	fields := logging.Fields{"kind": kind, "url": url, "outcome": outcome.String()}
	if kind == models.TaskKindNavigation {
		fields["priority"] = priority
	}
	entry := c.logger.WithFields(fields)
	if cause != nil {
		entry = entry.WithError(cause)
	}
	entry.Warn("task dropped")

	if c.deps.Failures == nil {
		return
	}
	failure := models.CrawlFailure{
		RunID:    c.opts.RunID,
		Kind:     kind,
		URL:      url,
		Priority: priority,
		Outcome:  outcome.String(),
		FailedAt: time.Now().UTC(),
	}
	if cause != nil {
		failure.Error = cause.Error()
	}
	if err := c.deps.Failures.PublishFailure(context.WithoutCancel(ctx), failure); err != nil {
		c.logger.WithError(err).WithField("url", url).Warn("failed to publish dropped task")
	}
}

func (c *Coordinator) closeSession(session crawler.Session) {
	if err := session.Close(); err != nil {
		c.logger.WithError(err).Debug("session close error")
	}
}

// outcomeLabel names outcomes that are not fetch statuses.
type outcomeLabel string

func (o outcomeLabel) String() string { return string(o) }

const (
	outcomeDisallowed outcomeLabel = "disallowed"
	outcomePanic      outcomeLabel = "panic"
)
