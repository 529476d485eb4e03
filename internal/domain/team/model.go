package team

import (
	"time"

	"github.com/rpggio/planboard/internal/domain/access"
)

// Team groups users whose roles extend to the team's projects.
type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Member is a user's role within a team.
type Member struct {
	TeamID  string      `json:"team_id"`
	UserID  string      `json:"user_id"`
	Role    access.Role `json:"role"`
	AddedAt time.Time   `json:"added_at"`
}
