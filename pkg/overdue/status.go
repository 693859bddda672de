package overdue

import (
	"time"

	"github.com/harrisonrobin/todoist-exporter/pkg/todoist"
)

type Status int

const (
	NoDueDate Status = iota
	Upcoming
	DueToday
	Overdue
)

// Today returns the UTC calendar date of now in the form Todoist uses for
// due dates.
func Today(now time.Time) string {
	return now.UTC().Format(todoist.DateLayout)
}

// StartOfDay returns midnight UTC of the day now falls on.
func StartOfDay(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Classify compares the due date of a task with today. Both are ISO 8601
// calendar dates, so plain string ordering matches date ordering.
func Classify(task todoist.Task, today string) Status {
	if !task.HasDueDate() {
		return NoDueDate
	}
	switch date := task.Due.Date; {
	case date < today:
		return Overdue
	case date == today:
		return DueToday
	default:
		return Upcoming
	}
}
