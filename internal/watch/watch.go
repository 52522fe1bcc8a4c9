// Package watch detects settled changes of a set of files by polling.
//
// A change fires only after the observed state has stayed the same for
// the settle delay, so a file that is still being transferred does not
// trigger a reload of half written data.
package watch

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// ProbeFunc returns a fingerprint of the watched state. Equal fingerprints
// mean nothing changed.
type ProbeFunc func(ctx context.Context) (string, error)

// Options configures a Poller.
type Options struct {
	Interval    time.Duration // poll period
	Settle      time.Duration // quiet time before firing
	MinInterval time.Duration // minimum time between two fires, zero for none
	Logger      *slog.Logger
}

// Poller polls a ProbeFunc and fires on settled changes.
type Poller struct {
	probe   ProbeFunc
	opts    Options
	limiter *rate.Limiter
}

// New creates a Poller.
func New(probe ProbeFunc, opts Options) *Poller {
	limit := rate.Inf
	if opts.MinInterval > 0 {
		limit = rate.Every(opts.MinInterval)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Poller{
		probe:   probe,
		opts:    opts,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Run polls until ctx is done and calls onChange synchronously for every
// settled change. It returns ctx.Err().
func (p *Poller) Run(ctx context.Context, onChange func(ctx context.Context)) error {
	baseline, err := p.probe(ctx)
	if err != nil {
		p.opts.Logger.WarnContext(ctx, "initial probe failed", "error", err)
	}

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	last := baseline
	pending := false
	var changedAt time.Time

	for {
		var now time.Time
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now = <-ticker.C:
		}

		cur, err := p.probe(ctx)
		if err != nil {
			p.opts.Logger.WarnContext(ctx, "probe failed", "error", err)
			continue
		}
		if cur != last {
			last = cur
			changedAt = now
			pending = cur != baseline
			continue
		}
		if !pending || now.Sub(changedAt) < p.opts.Settle {
			continue
		}

		if err := p.limiter.Wait(ctx); err != nil {
			return ctx.Err()
		}
		pending = false
		baseline = cur
		onChange(ctx)
	}
}
