package task

// SearchOptions provides paging for Search.
type SearchOptions struct {
	Limit  int
	Offset int
}

// DefaultSearchLimit caps Search when no limit is given.
const DefaultSearchLimit = 20
