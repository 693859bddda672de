package collector

import (
	"github.com/harrisonrobin/todoist-exporter/pkg/metrics"
	"github.com/harrisonrobin/todoist-exporter/pkg/model"
	"github.com/harrisonrobin/todoist-exporter/pkg/overdue"
)

// Summarize derives the published numbers of one project. today is the
// current UTC date as YYYY-MM-DD.
func Summarize(p *model.Project, today string) metrics.ProjectStats {
	stats := metrics.ProjectStats{
		ID:            p.ID,
		Name:          p.Name,
		Tasks:         len(p.Tasks),
		Collaborators: len(p.Collaborators),
		SectionCount:  len(p.Sections),
		Comments:      len(p.Comments),
	}

	perSection := make(map[string]int)
	for _, task := range p.Tasks {
		if task.Priority >= 1 && task.Priority <= 4 {
			stats.Priorities[task.Priority-1]++
		}

		switch overdue.Classify(task, today) {
		case overdue.Overdue:
			stats.Overdue++
		case overdue.DueToday:
			stats.DueToday++
		}
		if task.HasDueDate() {
			stats.WithDueDate++
			if task.Due.IsRecurring {
				stats.Recurring++
			}
		}

		if task.SectionID != "" {
			perSection[task.SectionID]++
		}
	}

	// Sections are reported in listing order; a repeated section id is
	// reported once.
	seen := make(map[string]bool, len(p.Sections))
	for _, s := range p.Sections {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		stats.Sections = append(stats.Sections, metrics.SectionStats{
			ID:    s.ID,
			Name:  s.Name,
			Tasks: perSection[s.ID],
		})
	}
	return stats
}
