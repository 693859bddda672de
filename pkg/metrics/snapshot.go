package metrics

// Timeframe names one completed-task history window.
type Timeframe string

const (
	Today Timeframe = "today"
	Week  Timeframe = "week"
	Hours Timeframe = "hours"
)

// Timeframes lists the windows in query order.
var Timeframes = []Timeframe{Today, Week, Hours}

// Snapshot is the full result of one collection cycle. It is built without
// touching the registry and handed to Publish in one piece.
type Snapshot struct {
	Projects []ProjectStats
	// Labels counts (task, label) pairs per label name across the account.
	Labels map[string]int
}

type ProjectStats struct {
	ID   string
	Name string

	Tasks       int
	Overdue     int
	DueToday    int
	WithDueDate int
	Recurring   int
	// Priorities holds the task count of priority i+1 at index i.
	Priorities [4]int
	Sections   []SectionStats

	Collaborators int
	SectionCount  int
	Comments      int

	Completed map[Timeframe]int
}

type SectionStats struct {
	ID    string
	Name  string
	Tasks int
}
