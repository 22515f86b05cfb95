package tagger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"bookapp-ai-be/internal/pkg/logger"

	"github.com/panjf2000/ants/v2"
)

var ErrRetryInProgress = errors.New("tagging retry already in progress")

// Retagger re-classifies one stored book, usually with a stronger model.
type Retagger interface {
	Retag(ctx context.Context, isbn string) error
}

type RetryConfig struct {
	TriggerThreshold int
	Concurrency      int
	// OnBatchComplete, if set, is called after every batch with its totals.
	OnBatchComplete func(BatchReport)
}

type BatchReport struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// RetryCoordinator collects ISBNs whose tagging fell back to rules and
// re-tags them in batches. At most one batch runs at a time.
type RetryCoordinator struct {
	mu         sync.Mutex
	idle       *sync.Cond
	pending    map[string]struct{}
	inProgress bool

	threshold  int
	onComplete func(BatchReport)
	pool       *ants.Pool
	retagger   Retagger
	logger     logger.ILogger
}

func NewRetryCoordinator(cfg RetryConfig, retagger Retagger, log logger.ILogger) (*RetryCoordinator, error) {
	if cfg.TriggerThreshold < 1 {
		cfg.TriggerThreshold = 1
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}

	pool, err := ants.NewPool(cfg.Concurrency, ants.WithPanicHandler(func(p interface{}) {
		log.Error("RetryCoordinator", "Retag worker panicked", map[string]interface{}{
			"panic": fmt.Sprint(p),
		})
	}))
	if err != nil {
		return nil, fmt.Errorf("create retag pool: %w", err)
	}

	c := &RetryCoordinator{
		pending:    make(map[string]struct{}),
		threshold:  cfg.TriggerThreshold,
		onComplete: cfg.OnBatchComplete,
		pool:       pool,
		retagger:   retagger,
		logger:     log,
	}
	c.idle = sync.NewCond(&c.mu)
	return c, nil
}

// RecordFailure registers isbn for a retry and starts a batch once the
// registry reaches the trigger threshold.
func (c *RetryCoordinator) RecordFailure(isbn string) {
	if isbn == "" {
		return
	}

	c.mu.Lock()
	c.pending[isbn] = struct{}{}
	if c.inProgress || len(c.pending) < c.threshold {
		c.mu.Unlock()
		return
	}
	c.inProgress = true
	batch := c.drainLocked()
	c.mu.Unlock()

	c.logger.Info("RetryCoordinator", "Retry threshold reached, starting batch", map[string]interface{}{
		"size": len(batch),
	})
	go c.run(context.Background(), batch)
}

// DrainAndRetry re-tags everything currently registered. It returns
// ErrRetryInProgress instead of starting a second batch.
func (c *RetryCoordinator) DrainAndRetry(ctx context.Context) (BatchReport, error) {
	c.mu.Lock()
	if c.inProgress {
		c.mu.Unlock()
		return BatchReport{}, ErrRetryInProgress
	}
	c.inProgress = true
	batch := c.drainLocked()
	c.mu.Unlock()

	return c.run(ctx, batch), nil
}

// Flush waits for a running batch and then drains what is left, whatever
// its size.
func (c *RetryCoordinator) Flush(ctx context.Context) BatchReport {
	c.mu.Lock()
	for c.inProgress {
		c.idle.Wait()
	}
	c.inProgress = true
	batch := c.drainLocked()
	c.mu.Unlock()

	return c.run(ctx, batch)
}

// Wait blocks until no batch is running.
func (c *RetryCoordinator) Wait() {
	c.mu.Lock()
	for c.inProgress {
		c.idle.Wait()
	}
	c.mu.Unlock()
}

func (c *RetryCoordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *RetryCoordinator) InProgress() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inProgress
}

// Close waits for the running batch and stops the worker pool.
func (c *RetryCoordinator) Close() {
	c.Wait()
	c.pool.Release()
}

// drainLocked swaps the registry for an empty one. c.mu must be held.
func (c *RetryCoordinator) drainLocked() []string {
	batch := make([]string, 0, len(c.pending))
	for isbn := range c.pending {
		batch = append(batch, isbn)
	}
	sort.Strings(batch)
	c.pending = make(map[string]struct{})
	return batch
}

// run owns the in-progress flag until it returns. It keeps draining while
// new failures pile up past the threshold.
func (c *RetryCoordinator) run(ctx context.Context, batch []string) BatchReport {
	var report BatchReport
	for {
		c.retagAll(ctx, batch, &report)

		c.mu.Lock()
		if len(c.pending) < c.threshold || ctx.Err() != nil {
			c.inProgress = false
			c.idle.Broadcast()
			c.mu.Unlock()
			break
		}
		batch = c.drainLocked()
		c.mu.Unlock()
	}

	c.logger.Info("RetryCoordinator", "Retry batch finished", map[string]interface{}{
		"attempted": report.Attempted,
		"succeeded": report.Succeeded,
		"failed":    report.Failed,
	})
	if c.onComplete != nil && report.Attempted > 0 {
		c.onComplete(report)
	}
	return report
}

func (c *RetryCoordinator) retagAll(ctx context.Context, batch []string, report *BatchReport) {
	if len(batch) == 0 {
		return
	}

	var (
		wg        sync.WaitGroup
		succeeded int64
		failed    int64
	)

	for _, isbn := range batch {
		isbn := isbn
		wg.Add(1)
		err := c.pool.Submit(func() {
			defer wg.Done()
			if err := c.retagger.Retag(ctx, isbn); err != nil {
				atomic.AddInt64(&failed, 1)
				c.logger.Warn("RetryCoordinator", "Retag failed", map[string]interface{}{
					"isbn":  isbn,
					"error": err.Error(),
				})
				return
			}
			atomic.AddInt64(&succeeded, 1)
		})
		if err != nil {
			wg.Done()
			atomic.AddInt64(&failed, 1)
			c.logger.Error("RetryCoordinator", "Failed to submit retag task", map[string]interface{}{
				"isbn":  isbn,
				"error": err.Error(),
			})
		}
	}
	wg.Wait()

	report.Attempted += len(batch)
	report.Succeeded += int(succeeded)
	report.Failed += int(failed)
}
