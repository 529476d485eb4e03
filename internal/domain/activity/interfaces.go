package activity

import "context"

// Repository provides persistence operations for activity entries.
type Repository interface {
	Log(ctx context.Context, entry *Entry) error
	List(ctx context.Context, opts ListOptions) ([]Entry, error)
}

// Broadcaster receives entries after they are stored.
type Broadcaster interface {
	Publish(entry Entry)
}
