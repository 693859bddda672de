package index

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/todoist-exporter/pkg/model"
	"github.com/harrisonrobin/todoist-exporter/pkg/todoist"
)

// ProjectLister is the part of the Todoist API the index needs.
type ProjectLister interface {
	GetProjects(ctx context.Context) ([]todoist.Project, error)
}

// ProjectIndex maps project ids to their aggregation records and remembers
// the order the API listed them in. It is owned by a single collection cycle.
type ProjectIndex struct {
	Mappings map[string]*model.Project
	order    []string
}

func NewProjectIndex(projects []todoist.Project) *ProjectIndex {
	idx := &ProjectIndex{
		Mappings: make(map[string]*model.Project, len(projects)),
	}
	for _, p := range projects {
		idx.Add(p)
	}
	return idx
}

// Build lists all projects and indexes them. On failure the returned index
// is empty, never nil.
func Build(ctx context.Context, api ProjectLister) (*ProjectIndex, error) {
	projects, err := api.GetProjects(ctx)
	if err != nil {
		return NewProjectIndex(nil), fmt.Errorf("failed to fetch projects: %w", err)
	}
	return NewProjectIndex(projects), nil
}

// Add indexes a project. A repeated id keeps its first position but takes
// the latest name.
func (idx *ProjectIndex) Add(p todoist.Project) {
	if existing, ok := idx.Mappings[p.ID]; ok {
		existing.Name = p.Name
		return
	}
	idx.Mappings[p.ID] = model.NewProject(p)
	idx.order = append(idx.order, p.ID)
}

func (idx *ProjectIndex) Get(projectID string) *model.Project {
	return idx.Mappings[projectID]
}

func (idx *ProjectIndex) Len() int {
	return len(idx.order)
}

// Projects returns the records in listing order.
func (idx *ProjectIndex) Projects() []*model.Project {
	out := make([]*model.Project, 0, len(idx.order))
	for _, id := range idx.order {
		out = append(out, idx.Mappings[id])
	}
	return out
}
