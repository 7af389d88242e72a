package contract

import (
	"time"

	"github.com/alexanderramin/sitebook/internal/domain"
)

type Project struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Address     string  `json:"address,omitempty"`
	Status      string  `json:"status"`
	ArchivedAt  *string `json:"archived_at"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func FromProject(p *domain.Project) Project {
	out := Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Address:     p.Address,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.ArchivedAt != nil {
		s := p.ArchivedAt.UTC().Format(time.RFC3339)
		out.ArchivedAt = &s
	}
	return out
}

func FromProjects(projects []*domain.Project) []Project {
	out := make([]Project, len(projects))
	for i, p := range projects {
		out[i] = FromProject(p)
	}
	return out
}
