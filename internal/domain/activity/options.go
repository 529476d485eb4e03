package activity

// DefaultListLimit caps GetRecentActivity when no limit is given.
const DefaultListLimit = 50

// ListOptions provides filtering options for listing activity.
type ListOptions struct {
	ProjectID string
	TaskID    *string
	Type      *Type
	Limit     int
	Offset    int
}
