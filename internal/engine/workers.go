package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"relentless-househunter/internal/crawler"
	"relentless-househunter/internal/fetch"
	"relentless-househunter/internal/logging"
	"relentless-househunter/internal/models"
	"relentless-househunter/internal/pacing"
	"relentless-househunter/internal/queue"
)

// runNavigation drains the navigation queue with a single session, feeding
// listing tasks and next pages back into the queues. When the queue is
// empty, navigation is done and the listing queue is sealed. A worker that
// cannot get a browser stops alone: its page goes back to the queue and the
// listing queue is sealed so the pool can drain what it already has.
func (c *Coordinator) runNavigation(ctx context.Context) error {
	logger := c.logger.WithField("worker", "navigation")
	var session crawler.Session
	defer func() {
		if session != nil {
			c.closeSession(session)
		}
	}()

	for {
		if err := c.permits.Acquire(ctx); err != nil {
			return nil
		}
		ticket, task, ok := c.nav.Pop()
		if !ok {
			c.permits.Release()
			c.finishNavigation()
			logger.Info("navigation queue exhausted")
			return nil
		}

		if session == nil {
			if session = c.openSession(ctx, logger); session == nil {
				if ctx.Err() != nil {
					return nil
				}
				c.nav.Push(task)
				c.nav.Done(ticket)
				c.permits.Release()
				c.listings.Seal()
				logger.WithField("pending", c.nav.Len()).Error("navigation worker stopped without a browser session")
				return nil
			}
		}
		if reset := c.handleNavigation(ctx, session, ticket, task); reset {
			c.closeSession(session)
			session = nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// openSession opens a browser session, pausing between attempts. It returns
// nil once SessionAttempts are spent or ctx is done.
func (c *Coordinator) openSession(ctx context.Context, logger logging.Logger) crawler.Session {
	for attempt := 1; attempt <= c.opts.SessionAttempts; attempt++ {
		session, err := c.deps.Sessions.NewSession(ctx)
		if err == nil {
			return session
		}
		logger.WithError(err).WithField("attempt", attempt).Error("failed to open browser session")
		if attempt == c.opts.SessionAttempts {
			break
		}
		if pacing.Sleep(ctx, c.opts.SessionRetryDelay.Draw()) != nil {
			break
		}
	}
	return nil
}

// handleNavigation processes one page. reset reports that the session
// should be replaced before the next task.
func (c *Coordinator) handleNavigation(ctx context.Context, session crawler.Session, ticket queue.Ticket, task models.NavigationTask) (reset bool) {
	defer func() {
		if r := recover(); r != nil {
			reset = true
			c.logger.WithFields(logging.Fields{
				"url":   task.URL,
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("navigation task panicked")
			c.deps.Metrics.TaskOutcome(models.TaskKindNavigation, outcomePanic.String())
			c.fail(ctx, models.TaskKindNavigation, task.URL, task.Priority, outcomePanic, fmt.Errorf("panic: %v", r))
			c.nav.Done(ticket)
		}
	}()

	if !c.deps.Robots.AllowedURL(task.URL) {
		c.deps.Metrics.TaskOutcome(models.TaskKindNavigation, outcomeDisallowed.String())
		c.fail(ctx, models.TaskKindNavigation, task.URL, task.Priority, outcomeDisallowed, nil)
		c.nav.Done(ticket)
		return false
	}

	if pacing.Sleep(ctx, c.opts.NavigationDelay.Draw()) != nil {
		return false
	}
	out := fetch.Attempt(ctx, c.deps.Fetcher, session, task.URL, func(ctx context.Context) (models.NavigationPage, error) {
		return c.deps.Extractor.ExtractNavigationPage(ctx, session, task.URL)
	})
	if out.Status == fetch.Cancelled {
		// stays in flight, so the next checkpoint keeps it
		return false
	}
	c.deps.Metrics.TaskOutcome(models.TaskKindNavigation, out.Status.String())

	if out.Status == fetch.Found {
		page := out.Value
		tasks := make([]models.ListingTask, 0, len(page.ListingURLs))
		for _, url := range page.ListingURLs {
			tasks = append(tasks, models.ListingTask{URL: url})
		}
		c.listings.Push(tasks...)
		if page.NextPageURL != "" {
			c.nav.Push(models.NavigationTask{Priority: task.Priority, URL: page.NextPageURL})
		}
		c.logger.WithFields(logging.Fields{
			"url":       task.URL,
			"listings":  len(tasks),
			"next_page": page.NextPageURL != "",
		}).Info("navigation page crawled")
	} else {
		c.fail(ctx, models.TaskKindNavigation, task.URL, task.Priority, out.Status, out.Err)
	}
	c.nav.Done(ticket)

	_ = pacing.Sleep(ctx, c.opts.NavigationDelay.Draw())
	return out.Status == fetch.Failed
}

// runListingPool runs ListingWorkers workers until the listing queue is
// sealed and empty, or a pop times out after navigation finished.
func (c *Coordinator) runListingPool(ctx context.Context) error {
	pool, pctx := errgroup.WithContext(ctx)
	for i := 0; i < c.opts.ListingWorkers; i++ {
		worker := i
		pool.Go(func() error { return c.runListingWorker(pctx, worker) })
	}
	if err := pool.Wait(); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	pending := c.listings.Len() + c.listings.InFlight()
	if pending > 0 || !c.navigationDone.Load() {
		c.logger.WithField("pending", pending).Error("listing workers stopped before the crawl finished")
		return nil
	}
	c.listingDone.Store(true)
	c.logger.Info("listing queue exhausted")
	return nil
}

func (c *Coordinator) runListingWorker(ctx context.Context, worker int) error {
	logger := c.logger.WithField("worker", worker)
	var session crawler.Session
	defer func() {
		if session != nil {
			c.closeSession(session)
		}
	}()

	for {
		if err := c.permits.Acquire(ctx); err != nil {
			return nil
		}
		ticket, task, err := c.listings.Pop(ctx, c.opts.PopTimeout)
		switch {
		case errors.Is(err, queue.ErrTimeout):
			c.permits.Release()
			if c.navigationDone.Load() {
				logger.Info("no listing arrived in time, worker exiting")
				return nil
			}
			continue
		case err != nil:
			c.permits.Release()
			return nil
		}

		if session == nil {
			if session = c.openSession(ctx, logger); session == nil {
				if ctx.Err() != nil {
					return nil
				}
				// another worker may still have a browser
				c.listings.Push(task)
				c.listings.Done(ticket)
				c.permits.Release()
				logger.Error("listing worker stopped without a browser session")
				return nil
			}
		}
		if reset := c.handleListing(ctx, logger, session, ticket, task); reset {
			c.closeSession(session)
			session = nil
		}
		if pacing.Sleep(ctx, c.opts.ListingDelay.Draw()) != nil {
			return nil
		}
	}
}

func (c *Coordinator) handleListing(ctx context.Context, logger logging.Logger, session crawler.Session, ticket queue.Ticket, task models.ListingTask) (reset bool) {
	defer func() {
		if r := recover(); r != nil {
			reset = true
			logger.WithFields(logging.Fields{
				"url":   task.URL,
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("listing task panicked")
			c.deps.Metrics.TaskOutcome(models.TaskKindListing, outcomePanic.String())
			c.fail(ctx, models.TaskKindListing, task.URL, 0, outcomePanic, fmt.Errorf("panic: %v", r))
			c.listings.Done(ticket)
		}
	}()

	if !c.deps.Robots.AllowedURL(task.URL) {
		c.deps.Metrics.TaskOutcome(models.TaskKindListing, outcomeDisallowed.String())
		c.fail(ctx, models.TaskKindListing, task.URL, 0, outcomeDisallowed, nil)
		c.listings.Done(ticket)
		return false
	}

	out := fetch.Attempt(ctx, c.deps.Fetcher, session, task.URL, func(ctx context.Context) (models.ListingRecord, error) {
		return c.deps.Extractor.ExtractListing(ctx, session, task.URL)
	})
	if out.Status == fetch.Cancelled {
		return false
	}
	c.deps.Metrics.TaskOutcome(models.TaskKindListing, out.Status.String())

	if out.Status == fetch.Found {
		c.buffer.Append(out.Value)
		logger.WithFields(logging.Fields{"url": task.URL, "id": out.Value.ID}).Debug("listing extracted")
	} else {
		c.fail(ctx, models.TaskKindListing, task.URL, 0, out.Status, out.Err)
	}
	c.listings.Done(ticket)
	return out.Status == fetch.Failed
}
