package report

import (
	"time"

	"github.com/rpggio/planboard/internal/domain/task"
)

// ColumnCount is the number of tasks in one column.
type ColumnCount struct {
	ColumnID  string `json:"column_id"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
	WIPLimit  int    `json:"wip_limit"`
	OverLimit bool   `json:"over_limit"`
}

// AssigneeCount is the number of tasks assigned to one user.
type AssigneeCount struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Count       int    `json:"count"`
}

// Report summarizes a project's board.
type Report struct {
	ProjectID    string                `json:"project_id"`
	TotalTasks   int                   `json:"total_tasks"`
	Unassigned   int                   `json:"unassigned"`
	ByColumn     []ColumnCount         `json:"by_column"`
	ByPriority   map[task.Priority]int `json:"by_priority"`
	ByAssignee   []AssigneeCount       `json:"by_assignee"`
	OverdueTasks []task.Task           `json:"overdue_tasks"`
	GeneratedAt  time.Time             `json:"generated_at"`
}
