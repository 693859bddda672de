package collector

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/todoist-exporter/pkg/index"
)

// CollectTasks fetches all active tasks and files each under its project.
// Tasks of projects missing from the index are dropped.
func CollectTasks(ctx context.Context, api TaskLister, idx *index.ProjectIndex) Result {
	res := newResult(EndpointTasks)
	tasks, err := api.GetTasks(ctx)
	if err != nil {
		res.Err = fmt.Errorf("failed to fetch tasks: %w", err)
		return res
	}
	for _, task := range tasks {
		if p := idx.Get(task.ProjectID); p != nil {
			p.Tasks = append(p.Tasks, task)
		}
	}
	return res
}

// CollectSections fetches all sections and files each under its project.
func CollectSections(ctx context.Context, api SectionLister, idx *index.ProjectIndex) Result {
	res := newResult(EndpointSections)
	sections, err := api.GetSections(ctx)
	if err != nil {
		res.Err = fmt.Errorf("failed to fetch sections: %w", err)
		return res
	}
	for _, section := range sections {
		if p := idx.Get(section.ProjectID); p != nil {
			p.Sections = append(p.Sections, section)
		}
	}
	return res
}

// CollectCollaborators fetches collaborators project by project. A failing
// project keeps an empty list and does not stop the others.
func CollectCollaborators(ctx context.Context, api CollaboratorLister, idx *index.ProjectIndex) Result {
	res := newResult(EndpointCollaborators)
	for _, p := range idx.Projects() {
		collaborators, err := api.GetCollaborators(ctx, p.ID)
		if err != nil {
			res.fail(p.ID, fmt.Errorf("failed to fetch collaborators for project %s: %w", p.ID, err))
			continue
		}
		p.Collaborators = collaborators
	}
	return res
}

// CollectComments fetches project comments project by project, isolated the
// same way as CollectCollaborators.
func CollectComments(ctx context.Context, api CommentLister, idx *index.ProjectIndex) Result {
	res := newResult(EndpointComments)
	for _, p := range idx.Projects() {
		comments, err := api.GetComments(ctx, p.ID)
		if err != nil {
			res.fail(p.ID, fmt.Errorf("failed to fetch comments for project %s: %w", p.ID, err))
			continue
		}
		p.Comments = comments
	}
	return res
}
