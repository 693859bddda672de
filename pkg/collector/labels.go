package collector

import (
	"context"
	"fmt"
)

// CollectLabels counts every (task, label) pair across the account. It
// does its own task fetch and ignores projects entirely.
func CollectLabels(ctx context.Context, api TaskLister) (map[string]int, Result) {
	res := newResult(EndpointTasks)
	tasks, err := api.GetTasks(ctx)
	if err != nil {
		res.Err = fmt.Errorf("failed to fetch tasks for labels: %w", err)
		return map[string]int{}, res
	}

	counts := make(map[string]int)
	for _, task := range tasks {
		for _, label := range task.Labels {
			counts[label]++
		}
	}
	return counts, res
}
