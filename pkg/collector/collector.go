package collector

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/harrisonrobin/todoist-exporter/pkg/index"
	"github.com/harrisonrobin/todoist-exporter/pkg/metrics"
	"github.com/harrisonrobin/todoist-exporter/pkg/overdue"
)

// ErrNoProjects is returned when a cycle found no projects and left every
// metric untouched.
var ErrNoProjects = errors.New("no projects collected")

type Options struct {
	CompletedDays  int
	CompletedHours int
	// Now defaults to time.Now.
	Now func() time.Time
}

// Collector runs collection cycles against the Todoist API and publishes
// the outcome to a metrics registry. Cycles must not run concurrently.
type Collector struct {
	api     API
	metrics *metrics.Registry
	opts    Options
}

func New(api API, reg *metrics.Registry, opts Options) *Collector {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CompletedDays <= 0 {
		opts.CompletedDays = 7
	}
	if opts.CompletedHours <= 0 {
		opts.CompletedHours = 24
	}
	return &Collector{api: api, metrics: reg, opts: opts}
}

// Collect runs one full cycle. Individual fetch failures are counted and
// logged but do not fail the cycle; only an empty project listing does.
func (c *Collector) Collect(ctx context.Context) error {
	idx, err := index.Build(ctx, c.api)
	if err != nil {
		c.report(Result{Endpoint: EndpointProjects, Err: err})
	}
	if idx.Len() == 0 {
		return ErrNoProjects
	}

	c.report(CollectTasks(ctx, c.api, idx))
	c.report(CollectCollaborators(ctx, c.api, idx))
	c.report(CollectSections(ctx, c.api, idx))
	c.report(CollectComments(ctx, c.api, idx))

	now := c.opts.Now()
	windows := Windows(now, c.opts.CompletedDays, c.opts.CompletedHours)
	completed, res := CollectCompleted(ctx, c.api, idx, windows, now)
	c.report(res)

	labels, res := CollectLabels(ctx, c.api)
	c.report(res)

	today := overdue.Today(now)
	snap := metrics.Snapshot{Labels: labels}
	for _, p := range idx.Projects() {
		stats := Summarize(p, today)
		stats.Completed = completed[p.ID]
		snap.Projects = append(snap.Projects, stats)
	}
	c.metrics.Publish(snap)

	log.Printf("Collected %d projects", idx.Len())
	return nil
}

func (c *Collector) report(res Result) {
	if res.OK() {
		return
	}
	log.Printf("Error in %s", res)
	for i := 0; i < res.Failures(); i++ {
		c.metrics.RecordAPIError(res.Endpoint)
	}
}
