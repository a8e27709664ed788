package engine

import (
	"context"
	"time"

	"relentless-househunter/internal/logging"
	"relentless-househunter/internal/models"
)

// checkpointLoop checkpoints on the interval ticker and whenever the workers
// run out of permits. It returns when stop is closed or ctx is done.
func (c *Coordinator) checkpointLoop(ctx context.Context, stop <-chan struct{}) {
	var tick <-chan time.Time
	if c.opts.CheckpointInterval > 0 {
		ticker := time.NewTicker(c.opts.CheckpointInterval)
		defer ticker.Stop()
		tick = ticker.C
	}
	for {
		var trigger string
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-tick:
			trigger = "interval"
		case <-c.permits.Signal():
			trigger = "permits"
		}
		if err := c.checkpoint(ctx, trigger); err != nil {
			c.logger.WithError(err).WithField("trigger", trigger).Error("checkpoint failed, records kept in buffer")
		}
	}
}

// checkpoint persists the pending work and the buffered records, then
// flushes the records to the sink and clears them from the checkpoint.
// An empty buffer skips the sink write, so a run that collected nothing
// never calls Sink.Write, not even on the final checkpoint.
// On any failure the drained records go back to the front of the buffer.
// Permits are replenished whatever the result so workers never stall.
func (c *Coordinator) checkpoint(ctx context.Context, trigger string) (err error) {
	c.cpMu.Lock()
	defer c.cpMu.Unlock()

	started := time.Now()
	var batch []models.ListingRecord
	defer func() {
		if err != nil && len(batch) > 0 {
			c.buffer.Requeue(batch)
		}
		c.permits.Replenish()
		c.deps.Metrics.Checkpoint(trigger, err, time.Since(started), flushedOn(err, batch))
		c.deps.Metrics.Queues(c.nav.Len()+c.nav.InFlight(), c.listings.Len()+c.listings.InFlight(), c.buffer.Len())
		if err == nil {
			c.mu.Lock()
			c.checkpoints++
			c.flushed += len(batch)
			c.mu.Unlock()
		}
		c.publishStatus(ctx)
	}()

	// Queue snapshots are taken before the drain: a worker appends its
	// record before releasing its task, so nothing falls between the two.
	navigation := c.nav.Snapshot()
	listings := c.listings.Snapshot()
	batch = c.buffer.Drain()

	state := models.CrawlState{
		NavigationQueue:  navigation,
		ListingQueue:     listings,
		CollectedRecords: batch,
		NavigationDone:   c.navigationDone.Load(),
		ListingDone:      c.listingDone.Load(),
	}
	if err := c.deps.Checkpoints.Snapshot(ctx, state); err != nil {
		return err
	}
	if len(batch) > 0 {
		if err := c.deps.Sink.Write(ctx, batch); err != nil {
			return err
		}
		if err := c.deps.Checkpoints.SaveRecords(ctx, nil); err != nil {
			c.logger.WithError(err).Warn("records flushed but checkpoint not cleared, they may be written again on resume")
		}
	}

	c.logger.WithFields(logging.Fields{
		"trigger":    trigger,
		"navigation": len(navigation),
		"listings":   len(listings),
		"flushed":    len(batch),
		"took":       time.Since(started).String(),
	}).Info("checkpoint saved")
	return nil
}

func flushedOn(err error, batch []models.ListingRecord) int {
	if err != nil {
		return 0
	}
	return len(batch)
}
