package domain

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)

// Role is the caller capability forwarded by the auth gateway.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// IsAdmin reports whether r unlocks admin-only operations.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Anchor selects where a new or moved task lands relative to another task.
type Anchor string

const (
	AnchorEnd    Anchor = "end"
	AnchorBefore Anchor = "before"
	AnchorAfter  Anchor = "after"
)
