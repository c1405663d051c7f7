package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/plexsphere/weftctl/internal/api"
)

// StatsSource fetches the dashboard's counter snapshot.
type StatsSource interface {
	Stats(ctx context.Context) (*api.StatsResponse, error)
}

// Sink receives every display change, both poll results and animation
// frames. Render is called from the poller goroutine and must not block.
type Sink interface {
	Render(d Display)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(d Display)

// Render calls f(d).
func (f SinkFunc) Render(d Display) { f(d) }

// PollObserver is told the outcome of every poll.
type PollObserver interface {
	ObservePoll(d time.Duration, err error)
}

type pollResult struct {
	seq  uint64
	snap Snapshot
	err  error
}

// Poller polls /stats at a fixed interval and drives the headline
// animation. All display mutation happens on the goroutine running Run.
type Poller struct {
	cfg       Config
	source    StatsSource
	rec       *Reconciler
	sink      Sink
	logger    *slog.Logger
	observer  PollObserver
	triggerCh chan struct{}
}

// NewPoller creates a Poller. Config defaults are applied automatically.
// A nil sink discards display updates.
func NewPoller(cfg Config, source StatsSource, rec *Reconciler, sink Sink, logger *slog.Logger) *Poller {
	cfg.ApplyDefaults()
	if sink == nil {
		sink = SinkFunc(func(Display) {})
	}
	return &Poller{
		cfg:       cfg,
		source:    source,
		rec:       rec,
		sink:      sink,
		logger:    logger.With("component", "telemetry"),
		triggerCh: make(chan struct{}, 1),
	}
}

// SetObserver registers o to be told about every poll.
// SetObserver must be called before Run; it is not safe for concurrent use.
func (p *Poller) SetObserver(o PollObserver) {
	p.observer = o
}

// Trigger requests an immediate poll. Rapid calls are coalesced and a
// trigger arriving while a poll is in flight is dropped.
func (p *Poller) Trigger() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
	}
}

// Run polls until ctx is cancelled. The first poll starts immediately. At
// most one poll is in flight; ticks that fire meanwhile are skipped.
func (p *Poller) Run(ctx context.Context) error {
	if p.source == nil {
		return errors.New("telemetry: source is nil")
	}
	if p.rec == nil {
		return errors.New("telemetry: reconciler is nil")
	}

	p.logger.Info("telemetry poller started", "interval", p.cfg.Interval)

	results := make(chan pollResult, 1)
	var seq uint64
	inFlight := false
	start := func() {
		seq++
		inFlight = true
		go p.poll(ctx, seq, results)
	}

	// anim is the only live animation ticker; animC is nil while idle.
	var anim *time.Ticker
	var animC <-chan time.Time
	stopAnim := func() {
		if anim != nil {
			anim.Stop()
			anim, animC = nil, nil
		}
	}
	defer stopAnim()

	start()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if inFlight {
				<-results
			}
			p.logger.Info("telemetry poller stopped")
			return ctx.Err()

		case <-ticker.C:
			if inFlight {
				p.logger.Debug("poll still in flight, skipping tick")
				continue
			}
			start()

		case <-p.triggerCh:
			if inFlight {
				continue
			}
			start()
			ticker.Reset(p.cfg.Interval)

		case res := <-results:
			inFlight = false
			d, applied := p.apply(ctx, res)
			if !applied {
				p.logger.Debug("dropping stale poll result", "seq", res.seq)
				continue
			}
			stopAnim()
			p.render(d)
			if p.rec.Animating() {
				anim = time.NewTicker(p.cfg.AnimationTick)
				animC = anim.C
			}

		case <-animC:
			d, running := p.rec.Step()
			p.render(d)
			if !running {
				stopAnim()
			}
		}
	}
}

func (p *Poller) poll(ctx context.Context, seq uint64, results chan<- pollResult) {
	start := time.Now()
	resp, err := p.source.Stats(ctx)
	if p.observer != nil && ctx.Err() == nil {
		p.observer.ObservePoll(time.Since(start), err)
	}
	res := pollResult{seq: seq, err: err}
	if err == nil {
		res.snap = SnapshotFromStats(resp)
	}
	results <- res
}

func (p *Poller) apply(ctx context.Context, res pollResult) (Display, bool) {
	if res.err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("stats poll failed", "seq", res.seq, "error", res.err)
		}
		return p.rec.ApplyFailure(res.seq)
	}
	p.logger.Debug("stats poll",
		"seq", res.seq,
		"total", res.snap.Total,
		"pps", res.snap.PacketsPerSecond,
		"dos_state", res.snap.State.String(),
	)
	return p.rec.Apply(res.seq, res.snap)
}

// render calls the sink with panic recovery.
func (p *Poller) render(d Display) {
	if err := p.safeRender(d); err != nil {
		p.logger.Error("sink failed", "error", err)
	}
}

func (p *Poller) safeRender(d Display) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("sink panicked: %v\n%s", v, debug.Stack())
		}
	}()
	p.sink.Render(d)
	return nil
}
