package domain

import "time"

type Project struct {
	ID          string
	Name        string
	Description string
	Address     string
	Status      ProjectStatus
	ArchivedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsArchived reports whether the project is hidden from non-admin callers.
func (p *Project) IsArchived() bool {
	return p.Status == ProjectArchived || p.ArchivedAt != nil
}

// DisplayID returns the first 8 characters of the project id.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
