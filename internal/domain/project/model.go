package project

import (
	"time"

	"github.com/rpggio/planboard/internal/domain/access"
)

// DefaultColumns seed every new project's board.
var DefaultColumns = []string{"To Do", "In Progress", "Done"}

// Project owns a Kanban board and its members.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	TeamID      *string   `json:"team_id,omitempty"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProjectSummary is a lightweight representation for listing
type ProjectSummary struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	TeamID      *string     `json:"team_id,omitempty"`
	Role        access.Role `json:"role"`
	TaskCount   int         `json:"task_count"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Member is a user's direct role on a project.
type Member struct {
	ProjectID string      `json:"project_id"`
	UserID    string      `json:"user_id"`
	Role      access.Role `json:"role"`
	AddedAt   time.Time   `json:"added_at"`
}
