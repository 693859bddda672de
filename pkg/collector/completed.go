package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/harrisonrobin/todoist-exporter/pkg/index"
	"github.com/harrisonrobin/todoist-exporter/pkg/metrics"
	"github.com/harrisonrobin/todoist-exporter/pkg/overdue"
)

// Window is one completed-task history query.
type Window struct {
	Timeframe metrics.Timeframe
	Since     time.Time
}

// Windows returns the today, trailing days and trailing hours windows
// ending at now.
func Windows(now time.Time, days, hours int) []Window {
	return []Window{
		{Timeframe: metrics.Today, Since: overdue.StartOfDay(now)},
		{Timeframe: metrics.Week, Since: now.AddDate(0, 0, -days)},
		{Timeframe: metrics.Hours, Since: now.Add(-time.Duration(hours) * time.Hour)},
	}
}

// CompletedCounts maps project id to completions per timeframe.
type CompletedCounts map[string]map[metrics.Timeframe]int

// CollectCompleted queries every window once. Each indexed project gets a
// count for each window, zero when the window had no completions for it or
// when the query failed.
func CollectCompleted(ctx context.Context, api CompletedLister, idx *index.ProjectIndex, windows []Window, until time.Time) (CompletedCounts, Result) {
	res := newResult(EndpointCompleted)
	counts := make(CompletedCounts, idx.Len())
	for _, p := range idx.Projects() {
		counts[p.ID] = make(map[metrics.Timeframe]int, len(windows))
		for _, w := range windows {
			counts[p.ID][w.Timeframe] = 0
		}
	}

	for _, w := range windows {
		items, err := api.GetCompletedTasks(ctx, w.Since, until)
		if err != nil {
			res.fail(string(w.Timeframe), fmt.Errorf("failed to fetch completed tasks for %s: %w", w.Timeframe, err))
			continue
		}
		for _, item := range items {
			if perProject, ok := counts[item.ProjectID]; ok {
				perProject[w.Timeframe]++
			}
		}
	}
	return counts, res
}
