package poller

import (
	"context"
	"log"
	"time"
)

// Cycle is one collection pass. *collector.Collector satisfies it.
type Cycle interface {
	Collect(ctx context.Context) error
}

// ScrapeObserver receives the duration of every finished cycle.
type ScrapeObserver interface {
	ObserveScrape(d time.Duration, finished time.Time)
}

// Poller runs a Cycle, records how long it took and sleeps for the
// interval before starting the next one. Cycles never overlap.
type Poller struct {
	cycle    Cycle
	observer ScrapeObserver
	interval time.Duration
	now      func() time.Time
}

func New(cycle Cycle, observer ScrapeObserver, interval time.Duration) *Poller {
	return &Poller{
		cycle:    cycle,
		observer: observer,
		interval: interval,
		now:      time.Now,
	}
}

// Run loops until ctx is cancelled. A failing cycle is logged and the loop
// moves on to the sleep as usual.
func (p *Poller) Run(ctx context.Context) error {
	for {
		p.RunOnce(ctx)
		log.Printf("Metrics collected. Next collection in %s.", p.interval)

		if err := sleep(ctx, p.interval); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RunOnce performs a single timed cycle.
func (p *Poller) RunOnce(ctx context.Context) {
	start := p.now()
	if err := p.cycle.Collect(ctx); err != nil {
		log.Printf("Collection cycle failed: %v", err)
	}
	finished := p.now()
	p.observer.ObserveScrape(finished.Sub(start), finished)
}
