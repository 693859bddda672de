package model

import "github.com/harrisonrobin/todoist-exporter/pkg/todoist"

// Project is the per-cycle aggregation record of one Todoist project. The
// collectors fill its slices; nothing survives past the cycle that built it.
type Project struct {
	ID            string
	Name          string
	Tasks         []todoist.Task
	Collaborators []todoist.Collaborator
	Sections      []todoist.Section
	Comments      []todoist.Comment
}

func NewProject(p todoist.Project) *Project {
	return &Project{ID: p.ID, Name: p.Name}
}

