// Package ordering holds the dense-order bookkeeping for items of one parent.
//
// Every function works on a snapshot and returns the new sequence of ids; the
// index of an id in that sequence is its order. Callers persist only the items
// reported by Diff.
package ordering

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var (
	ErrInvalidPermutation = errors.New("orders must be a permutation of 0..n-1")
	ErrDuplicateID        = errors.New("id appears more than once")
	ErrUnknownID          = errors.New("id does not belong to the collection")
)

// Item is one id with its persisted order.
type Item struct {
	ID    string
	Order int
}

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Sequence returns the ids sorted by order. Equal orders, which only exist in
// data written before the unique index, fall back to id order.
func Sequence(items []Item) []string {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	ids := make([]string, len(sorted))
	for i, item := range sorted {
		ids[i] = item.ID
	}
	return ids
}

// Append puts id last, i.e. at max order + 1, or 0 for an empty collection.
func Append(ids []string, id string) []string {
	return append(slices.Clone(ids), id)
}

// InsertAt puts id at position, shifting everything at or after it by one.
// Positions past the end are clamped so the sequence never gets a gap.
func InsertAt(ids []string, id string, position int) []string {
	position = clamp(position, len(ids))
	return slices.Insert(slices.Clone(ids), position, id)
}

// Remove drops id and compacts the rest.
func Remove(ids []string, id string) []string {
	return slices.DeleteFunc(slices.Clone(ids), func(s string) bool { return s == id })
}

// MoveTo relocates an existing id to position, clamped to the last slot.
func MoveTo(ids []string, id string, position int) ([]string, error) {
	from := slices.Index(ids, id)
	if from < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownID, id)
	}

	rest := slices.Delete(slices.Clone(ids), from, from+1)
	return slices.Insert(rest, clamp(position, len(rest)), id), nil
}

// Swap exchanges id with its neighbour in direction. Moving the first item up
// or the last item down leaves the sequence untouched and reports false.
func Swap(ids []string, id string, direction Direction) ([]string, bool, error) {
	from := slices.Index(ids, id)
	if from < 0 {
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownID, id)
	}

	to := from + 1
	if direction == Up {
		to = from - 1
	}
	if to < 0 || to >= len(ids) {
		return ids, false, nil
	}

	swapped := slices.Clone(ids)
	swapped[from], swapped[to] = swapped[to], swapped[from]
	return swapped, true, nil
}

// Reassign applies caller supplied orders on top of current. Items not named in
// assignments keep their order. The result must be exactly 0..n-1.
func Reassign(current []Item, assignments []Item) ([]string, error) {
	orders := make(map[string]int, len(current))
	for _, item := range current {
		orders[item.ID] = item.Order
	}

	seen := make(map[string]struct{}, len(assignments))
	for _, a := range assignments {
		if _, dup := seen[a.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, a.ID)
		}
		seen[a.ID] = struct{}{}

		if _, ok := orders[a.ID]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownID, a.ID)
		}
		orders[a.ID] = a.Order
	}

	slots := make([]string, len(orders))
	for id, order := range orders {
		if order < 0 || order >= len(slots) {
			return nil, fmt.Errorf("%w: %s has order %d with %d items", ErrInvalidPermutation, id, order, len(slots))
		}
		if slots[order] != "" {
			return nil, fmt.Errorf("%w: order %d used by %s and %s", ErrInvalidPermutation, order, slots[order], id)
		}
		slots[order] = id
	}
	return slots, nil
}

// Diff lists the items of current whose order differs from their index in ids.
// Ids missing from current (a freshly inserted item) are skipped.
func Diff(current []Item, ids []string) []Item {
	orders := make(map[string]int, len(current))
	for _, item := range current {
		orders[item.ID] = item.Order
	}

	var changed []Item
	for i, id := range ids {
		if order, ok := orders[id]; ok && order != i {
			changed = append(changed, Item{ID: id, Order: i})
		}
	}
	return changed
}

// IsDense reports whether the orders of items are exactly 0..n-1.
func IsDense(items []Item) bool {
	seen := make([]bool, len(items))
	for _, item := range items {
		if item.Order < 0 || item.Order >= len(items) || seen[item.Order] {
			return false
		}
		seen[item.Order] = true
	}
	return true
}

func clamp(position, length int) int {
	return max(0, min(position, length))
}
