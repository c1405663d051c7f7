package logtail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

// Sink receives newly merged rows in order. Append is called from the
// poller goroutine and must not block.
type Sink interface {
	Append(rows []Row)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(rows []Row)

// Append calls f(rows).
func (f SinkFunc) Append(rows []Row) { f(rows) }

// PollObserver is told the outcome of every poll.
type PollObserver interface {
	ObservePoll(d time.Duration, err error)
}

type fetchResult struct {
	rows []Row
	err  error
}

// Poller follows the log at a fixed interval. Failed polls are logged and
// retried on the next tick.
type Poller struct {
	cfg      Config
	sync     *Synchronizer
	sink     Sink
	logger   *slog.Logger
	observer PollObserver
}

// NewPoller creates a Poller. Config defaults are applied automatically.
func NewPoller(cfg Config, sync *Synchronizer, sink Sink, logger *slog.Logger) *Poller {
	cfg.ApplyDefaults()
	if sink == nil {
		sink = SinkFunc(func([]Row) {})
	}
	return &Poller{
		cfg:    cfg,
		sync:   sync,
		sink:   sink,
		logger: logger.With("component", "logtail"),
	}
}

// SetObserver registers o to be told about every poll.
// SetObserver must be called before Run; it is not safe for concurrent use.
func (p *Poller) SetObserver(o PollObserver) {
	p.observer = o
}

// Run polls until ctx is cancelled. The first poll starts immediately and
// at most one poll is in flight.
func (p *Poller) Run(ctx context.Context) error {
	if p.sync == nil {
		return errors.New("logtail: synchronizer is nil")
	}

	p.logger.Info("log tail started",
		"interval", p.cfg.Interval,
		"cursor", int64(p.sync.Cursor()),
	)

	results := make(chan fetchResult, 1)
	inFlight := false
	start := func() {
		inFlight = true
		since := p.sync.Cursor()
		go func() {
			began := time.Now()
			rows, err := p.sync.Fetch(ctx, since)
			if p.observer != nil && ctx.Err() == nil {
				p.observer.ObservePoll(time.Since(began), err)
			}
			results <- fetchResult{rows: rows, err: err}
		}()
	}

	start()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if inFlight {
				<-results
			}
			p.logger.Info("log tail stopped", "cursor", int64(p.sync.Cursor()))
			return ctx.Err()

		case <-ticker.C:
			if inFlight {
				p.logger.Debug("poll still in flight, skipping tick")
				continue
			}
			start()

		case res := <-results:
			inFlight = false
			if res.err != nil {
				if ctx.Err() == nil {
					p.logger.Debug("log poll failed", "error", res.err)
				}
				continue
			}
			rows := p.sync.Merge(res.rows)
			if len(rows) == 0 {
				continue
			}
			p.logger.Debug("new log rows",
				"count", len(rows),
				"cursor", int64(p.sync.Cursor()),
			)
			if err := p.safeAppend(rows); err != nil {
				p.logger.Error("sink failed", "error", err)
			}
		}
	}
}

func (p *Poller) safeAppend(rows []Row) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("sink panicked: %v\n%s", v, debug.Stack())
		}
	}()
	p.sink.Append(rows)
	return nil
}
