package collector

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harrisonrobin/todoist-exporter/pkg/index"
	"github.com/harrisonrobin/todoist-exporter/pkg/todoist"
)

// Endpoint names used as the endpoint label of the API error counter.
const (
	EndpointProjects      = "get_projects"
	EndpointTasks         = "get_tasks"
	EndpointCollaborators = "get_collaborators"
	EndpointSections      = "get_sections"
	EndpointComments      = "get_comments"
	EndpointCompleted     = "get_completed_tasks"
)

type TaskLister interface {
	GetTasks(ctx context.Context) ([]todoist.Task, error)
}

type SectionLister interface {
	GetSections(ctx context.Context) ([]todoist.Section, error)
}

type CollaboratorLister interface {
	GetCollaborators(ctx context.Context, projectID string) ([]todoist.Collaborator, error)
}

type CommentLister interface {
	GetComments(ctx context.Context, projectID string) ([]todoist.Comment, error)
}

type CompletedLister interface {
	GetCompletedTasks(ctx context.Context, since, until time.Time) ([]todoist.CompletedItem, error)
}

// API is everything one collection cycle reads. *todoist.Client satisfies it.
type API interface {
	index.ProjectLister
	TaskLister
	SectionLister
	CollaboratorLister
	CommentLister
	CompletedLister
}

// Result describes how one collector fared. Err is set when an account-wide
// fetch failed; Failed holds isolated failures keyed by project id, or by
// timeframe for the completed-task collector. Whatever data was fetched is
// already in the index.
type Result struct {
	Endpoint string
	Err      error
	Failed   map[string]error
}

func newResult(endpoint string) Result {
	return Result{Endpoint: endpoint}
}

func (r *Result) fail(key string, err error) {
	if r.Failed == nil {
		r.Failed = make(map[string]error)
	}
	r.Failed[key] = err
}

// Failures is the number of failed requests behind this result.
func (r Result) Failures() int {
	n := len(r.Failed)
	if r.Err != nil {
		n++
	}
	return n
}

func (r Result) OK() bool {
	return r.Failures() == 0
}

func (r Result) String() string {
	if r.OK() {
		return r.Endpoint + ": ok"
	}
	var parts []string
	if r.Err != nil {
		parts = append(parts, r.Err.Error())
	}
	for _, key := range r.failedKeys() {
		parts = append(parts, fmt.Sprintf("%s: %v", key, r.Failed[key]))
	}
	return r.Endpoint + ": " + strings.Join(parts, "; ")
}

func (r Result) failedKeys() []string {
	keys := make([]string, 0, len(r.Failed))
	for k := range r.Failed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
