package todoist

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date form Todoist uses for due dates.
const DateLayout = "2006-01-02"

// CustomTime accepts the timestamp shapes returned by the Sync API, which
// sometimes omits the zone offset and sometimes carries fractional seconds.
type CustomTime struct {
	time.Time
}

var completedTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON implements the json.Unmarshaler interface for CustomTime.
func (ct *CustomTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		ct.Time = time.Time{}
		return nil
	}

	for _, layout := range completedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ct.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("failed to parse Todoist time string '%s'", s)
}

// MarshalJSON implements the json.Marshaler interface for CustomTime.
func (ct CustomTime) MarshalJSON() ([]byte, error) {
	if ct.Time.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + ct.Time.UTC().Format(time.RFC3339Nano) + `"`), nil
}

type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Due is the optional due block of a task. Date is always a calendar date,
// even for tasks due at a specific time.
type Due struct {
	Date        string `json:"date"`
	IsRecurring bool   `json:"is_recurring"`
}

type Task struct {
	ID        string   `json:"id"`
	ProjectID string   `json:"project_id"`
	SectionID string   `json:"section_id,omitempty"`
	Priority  int      `json:"priority"`
	Labels    []string `json:"labels,omitempty"`
	Due       *Due     `json:"due,omitempty"`
}

// HasDueDate reports whether the task carries a usable due date.
func (t Task) HasDueDate() bool {
	return t.Due != nil && t.Due.Date != ""
}

type Section struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
}

type Collaborator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Comment struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id,omitempty"`
}

// CompletedItem is one entry of the Sync API completed-task history.
type CompletedItem struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"project_id"`
	CompletedAt CustomTime `json:"completed_at"`
}

type completedResponse struct {
	Items []CompletedItem `json:"items"`
}
