package ordering

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(ids ...string) []Item {
	out := make([]Item, len(ids))
	for i, id := range ids {
		out[i] = Item{ID: id, Order: i}
	}
	return out
}

func toItems(ids []string) []Item {
	return items(ids...)
}

func TestSequence_SortsByOrder(t *testing.T) {
	got := Sequence([]Item{{ID: "c", Order: 2}, {ID: "a", Order: 0}, {ID: "b", Order: 1}})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestSequence_TiesFallBackToID(t *testing.T) {
	got := Sequence([]Item{{ID: "b", Order: 1}, {ID: "a", Order: 1}, {ID: "z", Order: 0}})
	assert.Equal(t, []string{"z", "a", "b"}, got)
}

func TestAppend_FromEmptyIsDense(t *testing.T) {
	var ids []string
	for k := 1; k <= 10; k++ {
		ids = Append(ids, fmt.Sprintf("s%d", k))
		assert.True(t, IsDense(toItems(ids)))
		assert.Len(t, ids, k)
		assert.Equal(t, fmt.Sprintf("s%d", k), ids[k-1])
	}
}

func TestInsertAt_KeepsDensityForEveryValidPosition(t *testing.T) {
	base := []string{"a", "b", "c", "d"}
	for pos := 0; pos <= len(base); pos++ {
		got := InsertAt(base, "new", pos)

		require.Len(t, got, len(base)+1)
		assert.Equal(t, "new", got[pos])
		assert.True(t, IsDense(toItems(got)))
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, base, "input must not be mutated")
}

func TestInsertAt_Scenario(t *testing.T) {
	got := InsertAt([]string{"A", "B"}, "D", 1)
	assert.Equal(t, []string{"A", "D", "B"}, got)
}

func TestInsertAt_ClampsOutOfRange(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "new"}, InsertAt([]string{"a", "b"}, "new", 99))
	assert.Equal(t, []string{"new", "a", "b"}, InsertAt([]string{"a", "b"}, "new", -3))
}

func TestRemove_Compacts(t *testing.T) {
	got := Remove([]string{"A", "B", "C"}, "B")
	assert.Equal(t, []string{"A", "C"}, got)
	assert.True(t, IsDense(toItems(got)))
}

func TestRemove_CompactsSparseInput(t *testing.T) {
	sparse := []Item{{ID: "a", Order: 3}, {ID: "b", Order: 7}, {ID: "c", Order: 12}}
	got := Remove(Sequence(sparse), "b")

	assert.Equal(t, []string{"a", "c"}, got)
	assert.ElementsMatch(t, []Item{{ID: "a", Order: 0}, {ID: "c", Order: 1}}, Diff(sparse, got))
}

func TestMoveTo(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}

	got, err := MoveTo(ids, "a", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a", "d"}, got)

	got, err = MoveTo(ids, "d", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "a", "b", "c"}, got)

	got, err = MoveTo(ids, "b", 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "d", "b"}, got)

	_, err = MoveTo(ids, "x", 1)
	assert.ErrorIs(t, err, ErrUnknownID)
}

func TestSwap(t *testing.T) {
	ids := []string{"a", "b", "c"}

	got, changed, err := Swap(ids, "b", Up)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"b", "a", "c"}, got)

	got, changed, err = Swap(ids, "b", Down)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"a", "c", "b"}, got)
}

func TestSwap_AtBoundaryIsNoop(t *testing.T) {
	ids := []string{"a", "b"}

	got, changed, err := Swap(ids, "a", Up)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, ids, got)

	_, changed, err = Swap(ids, "b", Down)
	require.NoError(t, err)
	assert.False(t, changed)

	_, _, err = Swap(ids, "nope", Down)
	assert.ErrorIs(t, err, ErrUnknownID)
}

func TestReassign_Scenario(t *testing.T) {
	current := items("A", "B", "C")

	got, err := Reassign(current, []Item{{ID: "A", Order: 2}, {ID: "B", Order: 0}, {ID: "C", Order: 1}})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A"}, got)
}

func TestReassign_PartialSwap(t *testing.T) {
	current := items("A", "B", "C")

	got, err := Reassign(current, []Item{{ID: "A", Order: 1}, {ID: "B", Order: 0}})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A", "C"}, got)
}

func TestReassign_Rejects(t *testing.T) {
	current := items("A", "B", "C")

	cases := map[string]struct {
		assignments []Item
		want        error
	}{
		"duplicate order":    {[]Item{{ID: "A", Order: 0}, {ID: "B", Order: 0}, {ID: "C", Order: 1}}, ErrInvalidPermutation},
		"sparse order":       {[]Item{{ID: "A", Order: 0}, {ID: "B", Order: 1}, {ID: "C", Order: 5}}, ErrInvalidPermutation},
		"negative order":     {[]Item{{ID: "A", Order: -1}}, ErrInvalidPermutation},
		"collides with rest": {[]Item{{ID: "A", Order: 2}}, ErrInvalidPermutation},
		"duplicate id":       {[]Item{{ID: "A", Order: 1}, {ID: "A", Order: 0}}, ErrDuplicateID},
		"id from other page": {[]Item{{ID: "Z", Order: 0}}, ErrUnknownID},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Reassign(current, tc.assignments)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDiff_OnlyChangedItems(t *testing.T) {
	current := items("A", "B", "C", "D")

	changed := Diff(current, []string{"A", "C", "B", "D"})
	assert.Equal(t, []Item{{ID: "C", Order: 1}, {ID: "B", Order: 2}}, changed)

	assert.Empty(t, Diff(current, []string{"A", "B", "C", "D"}))
}

func TestDiff_SkipsNewIDs(t *testing.T) {
	current := items("A", "B")

	changed := Diff(current, InsertAt([]string{"A", "B"}, "D", 1))
	assert.Equal(t, []Item{{ID: "B", Order: 2}}, changed)
}

func TestIsDense(t *testing.T) {
	assert.True(t, IsDense(nil))
	assert.True(t, IsDense([]Item{{ID: "b", Order: 1}, {ID: "a", Order: 0}}))
	assert.False(t, IsDense([]Item{{ID: "a", Order: 0}, {ID: "b", Order: 0}}))
	assert.False(t, IsDense([]Item{{ID: "a", Order: 1}}))
}
