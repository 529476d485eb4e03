package ordering

import (
	"fmt"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// validateOrder checks that ordered names every current member exactly once.
func validateOrder(current []Entry, ordered []string) error {
	if len(ordered) == 0 && len(current) > 0 {
		return fmt.Errorf("%w: empty order for a group with %d members", ErrInvalidOrderSet, len(current))
	}

	want := mapset.NewThreadUnsafeSetWithSize[string](len(ordered))
	for _, id := range ordered {
		if !want.Add(id) {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidOrderSet, id)
		}
	}

	have := mapset.NewThreadUnsafeSetWithSize[string](len(current))
	for _, entry := range current {
		have.Add(entry.ID)
	}

	if missing := have.Difference(want); missing.Cardinality() > 0 {
		return fmt.Errorf("%w: missing ids %s", ErrInvalidOrderSet, joinSorted(missing))
	}
	if foreign := want.Difference(have); foreign.Cardinality() > 0 {
		return fmt.Errorf("%w: ids not in group %s", ErrInvalidOrderSet, joinSorted(foreign))
	}
	return nil
}

func joinSorted(set mapset.Set[string]) string {
	ids := set.ToSlice()
	slices.Sort(ids)
	return strings.Join(ids, ", ")
}

// renumber assigns positions 0..n-1 in slice order.
func renumber(ids []string) []Entry {
	entries := make([]Entry, len(ids))
	for i, id := range ids {
		entries[i] = Entry{ID: id, Position: i}
	}
	return entries
}

func idsOf(entries []Entry) []string {
	ids := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}
	return ids
}

func clamp(index, size int) int {
	if index < 0 {
		return 0
	}
	if index > size {
		return size
	}
	return index
}
