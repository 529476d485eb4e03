package activity

import "time"

// Type represents the type of activity event
type Type string

const (
	TypeProjectCreated   Type = "project_created"
	TypeProjectUpdated   Type = "project_updated"
	TypeMemberAdded      Type = "member_added"
	TypeMemberRemoved    Type = "member_removed"
	TypeColumnCreated    Type = "column_created"
	TypeColumnUpdated    Type = "column_updated"
	TypeColumnDeleted    Type = "column_deleted"
	TypeColumnMoved      Type = "column_moved"
	TypeColumnsReordered Type = "columns_reordered"
	TypeTaskCreated      Type = "task_created"
	TypeTaskUpdated      Type = "task_updated"
	TypeTaskMoved        Type = "task_moved"
	TypeTaskDeleted      Type = "task_deleted"
	TypeTasksReordered   Type = "tasks_reordered"
)

// Entry represents an event in a project's activity log
type Entry struct {
	ID        int64     `json:"id"`
	ProjectID string    `json:"project_id"`
	ActorID   string    `json:"actor_id"`
	TaskID    *string   `json:"task_id,omitempty"`
	ColumnID  *string   `json:"column_id,omitempty"`
	Type      Type      `json:"type"`
	Summary   string    `json:"summary"`
	Details   string    `json:"details,omitempty"` // JSON string
	CreatedAt time.Time `json:"created_at"`
}
