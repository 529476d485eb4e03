package ordering

import "context"

// Entry is a record's rank within its group.
type Entry struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// Placement is where a record ended up after a move.
type Placement struct {
	ParentKey string `json:"parent_key"`
	Position  int    `json:"position"`
}

// Store persists group membership and positions.
//
// InTx runs fn in one isolated, all-or-nothing transaction; the other methods
// join that transaction when called with the context passed to fn. Two InTx
// calls touching the same group must not interleave.
type Store interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	GroupExists(ctx context.Context, parentKey string) (bool, error)
	// ReadGroup returns the group's members in ascending position order.
	ReadGroup(ctx context.Context, parentKey string) ([]Entry, error)
	ParentOf(ctx context.Context, id string) (string, error)
	// WritePositions sets parent and position for every entry.
	WritePositions(ctx context.Context, parentKey string, entries []Entry) error
	Delete(ctx context.Context, id string) error
}

// Guard answers whether an actor may mutate a group.
type Guard interface {
	CanMutate(ctx context.Context, actor, parentKey string) (bool, error)
}
