package board

import (
	"time"

	"github.com/rpggio/planboard/internal/domain/task"
)

// Column is a Kanban column. Position is its 0-based rank within the project.
type Column struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	WIPLimit  int       `json:"wip_limit"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// OverLimit reports whether count tasks exceed the column's WIP limit. A zero
// limit means unlimited.
func (c *Column) OverLimit(count int) bool {
	return c.WIPLimit > 0 && count > c.WIPLimit
}

// ColumnView is a column with its tasks in position order.
type ColumnView struct {
	Column
	Tasks     []task.Task `json:"tasks"`
	OverLimit bool        `json:"over_limit"`
}

// Board is a project's columns in position order.
type Board struct {
	ProjectID string       `json:"project_id"`
	Columns   []ColumnView `json:"columns"`
}
