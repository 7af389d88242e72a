package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/sitebook/internal/app"
	"github.com/alexanderramin/sitebook/internal/domain"
)

// resolveProject accepts a full project id or an unambiguous id prefix.
func resolveProject(ctx context.Context, a *app.App, input string) (*domain.Project, error) {
	if input == "" {
		return nil, fmt.Errorf("project ID is required")
	}
	projects, err := a.Projects.List(ctx, true)
	if err != nil {
		return nil, err
	}

	var matches []*domain.Project
	for _, p := range projects {
		if p.ID == input {
			return p, nil
		}
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveTask finds a task by id or by code.
func resolveTask(ctx context.Context, a *app.App, projectID, input string) (*domain.Task, error) {
	if input == "" {
		return nil, fmt.Errorf("task reference is required")
	}
	tasks, err := a.Tasks.ListOrdered(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ID == input || t.Code == input {
			return t, nil
		}
	}
	return nil, fmt.Errorf("task not found: %q", input)
}
