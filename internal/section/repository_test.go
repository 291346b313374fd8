package section

import (
	"context"
	"errors"
	"fmt"
	"news-cms/internal/db/dbtest"
	"news-cms/internal/domain"
	"news-cms/internal/ordering"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fixture struct {
	t      *testing.T
	db     *gorm.DB
	repo   SectionRepository
	page   *domain.Page
	ids    map[string]string
	labels map[string]string
}

func newFixture(t *testing.T) *fixture {
	db := dbtest.Open(t)
	return &fixture{
		t:      t,
		db:     db,
		repo:   NewRepository(db),
		page:   dbtest.CreatePage(t, db, "home", domain.PageStatusPublished),
		ids:    map[string]string{},
		labels: map[string]string{},
	}
}

func intPtr(v int) *int { return &v }

func (f *fixture) add(label string, position *int) *domain.Section {
	f.t.Helper()

	section := &domain.Section{
		PageID:  f.page.ID,
		Type:    domain.SectionText,
		Content: datatypes.JSON(fmt.Sprintf(`{"label":%q}`, label)),
	}
	require.NoError(f.t, f.repo.Create(context.Background(), section, position))
	f.ids[label] = section.ID
	f.labels[section.ID] = label
	return section
}

// sequence returns the labels in stored order and checks the orders are dense.
func (f *fixture) sequence() []string {
	f.t.Helper()

	sections, err := f.repo.ListByPage(context.Background(), f.page.ID)
	require.NoError(f.t, err)

	labels := make([]string, len(sections))
	for i, s := range sections {
		assert.Equal(f.t, i, s.Position, "order of %s", f.labels[s.ID])
		labels[i] = f.labels[s.ID]
	}
	return labels
}

func TestCreate_AppendsFromZero(t *testing.T) {
	f := newFixture(t)

	var want []string
	for k := 0; k < 6; k++ {
		label := fmt.Sprintf("S%d", k)
		section := f.add(label, nil)
		want = append(want, label)

		assert.Equal(t, k, section.Position)
		assert.Equal(t, want, f.sequence())
	}
}

func TestCreate_InsertAtShiftsSiblings(t *testing.T) {
	f := newFixture(t)
	f.add("A", nil)
	f.add("B", nil)

	d := f.add("D", intPtr(1))

	assert.Equal(t, 1, d.Position)
	assert.Equal(t, []string{"A", "D", "B"}, f.sequence())
}

func TestCreate_InsertAtEveryPositionStaysDense(t *testing.T) {
	for pos := 0; pos <= 3; pos++ {
		t.Run(fmt.Sprintf("position %d", pos), func(t *testing.T) {
			f := newFixture(t)
			f.add("A", nil)
			f.add("B", nil)
			f.add("C", nil)

			f.add("N", intPtr(pos))

			got := f.sequence()
			require.Len(t, got, 4)
			assert.Equal(t, "N", got[pos])
		})
	}
}

func TestCreate_PositionPastEndAppends(t *testing.T) {
	f := newFixture(t)
	f.add("A", nil)

	n := f.add("N", intPtr(40))

	assert.Equal(t, 1, n.Position)
	assert.Equal(t, []string{"A", "N"}, f.sequence())
}

func TestCreate_UnknownPage(t *testing.T) {
	f := newFixture(t)

	err := f.repo.Create(context.Background(), &domain.Section{
		PageID: uuid.NewString(),
		Type:   domain.SectionHero,
	}, nil)

	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestCreate_ConcurrentAppendsStayDense(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- f.repo.Create(context.Background(), &domain.Section{
				PageID:  f.page.ID,
				Type:    domain.SectionText,
				Content: datatypes.JSON(`{}`),
			}, intPtr(0))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	sections, err := f.repo.ListByPage(context.Background(), f.page.ID)
	require.NoError(t, err)
	require.Len(t, sections, 20)
	for i, s := range sections {
		assert.Equal(t, i, s.Position)
	}
}

func TestDelete_CompactsSiblings(t *testing.T) {
	f := newFixture(t)
	f.add("A", nil)
	f.add("B", nil)
	f.add("C", nil)

	deleted, err := f.repo.Delete(context.Background(), f.ids["B"])
	require.NoError(t, err)

	assert.Equal(t, f.page.ID, deleted.PageID)
	assert.Equal(t, []string{"A", "C"}, f.sequence())
}

func TestDelete_CompactsSparseLegacyOrders(t *testing.T) {
	f := newFixture(t)
	for label, position := range map[string]int{"A": 3, "B": 7, "C": 12} {
		id := uuid.NewString()
		f.ids[label] = id
		f.labels[id] = label
		require.NoError(t, f.db.Create(&domain.Section{
			ID:       id,
			PageID:   f.page.ID,
			Type:     domain.SectionText,
			Position: position,
		}).Error)
	}

	_, err := f.repo.Delete(context.Background(), f.ids["B"])
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "C"}, f.sequence())
}

func TestDelete_EveryPositionLeavesDenseOrders(t *testing.T) {
	for _, victim := range []string{"A", "B", "C", "D"} {
		t.Run(victim, func(t *testing.T) {
			f := newFixture(t)
			for _, label := range []string{"A", "B", "C", "D"} {
				f.add(label, nil)
			}

			_, err := f.repo.Delete(context.Background(), f.ids[victim])
			require.NoError(t, err)

			got := f.sequence()
			assert.Len(t, got, 3)
			assert.NotContains(t, got, victim)
		})
	}
}

func TestDelete_Missing(t *testing.T) {
	f := newFixture(t)

	_, err := f.repo.Delete(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestUpdate_MovesSection(t *testing.T) {
	f := newFixture(t)
	for _, label := range []string{"A", "B", "C", "D"} {
		f.add(label, nil)
	}

	updated, err := f.repo.Update(context.Background(), f.ids["B"], Changes{Position: intPtr(3)})
	require.NoError(t, err)

	assert.Equal(t, 3, updated.Position)
	assert.Equal(t, []string{"A", "C", "D", "B"}, f.sequence())

	updated, err = f.repo.Update(context.Background(), f.ids["D"], Changes{Position: intPtr(0)})
	require.NoError(t, err)

	assert.Equal(t, 0, updated.Position)
	assert.Equal(t, []string{"D", "A", "C", "B"}, f.sequence())
}

func TestUpdate_PositionPastEndClamps(t *testing.T) {
	f := newFixture(t)
	f.add("A", nil)
	f.add("B", nil)

	updated, err := f.repo.Update(context.Background(), f.ids["A"], Changes{Position: intPtr(10)})
	require.NoError(t, err)

	assert.Equal(t, 1, updated.Position)
	assert.Equal(t, []string{"B", "A"}, f.sequence())
}

func TestUpdate_ContentAndType(t *testing.T) {
	f := newFixture(t)
	f.add("A", nil)

	hero := domain.SectionHero
	updated, err := f.repo.Update(context.Background(), f.ids["A"], Changes{
		Type:    &hero,
		Content: datatypes.JSON(`{"label":"A","heading":"Welcome"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SectionHero, updated.Type)
	assert.JSONEq(t, `{"label":"A","heading":"Welcome"}`, string(updated.Content))
	assert.Equal(t, 0, updated.Position)
}

func TestUpdate_Missing(t *testing.T) {
	f := newFixture(t)

	_, err := f.repo.Update(context.Background(), uuid.NewString(), Changes{Position: intPtr(0)})
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestReorder_AppliesPermutation(t *testing.T) {
	f := newFixture(t)
	f.add("A", nil)
	f.add("B", nil)
	f.add("C", nil)

	pageID, err := f.repo.Reorder(context.Background(), []ordering.Item{
		{ID: f.ids["A"], Order: 2},
		{ID: f.ids["B"], Order: 0},
		{ID: f.ids["C"], Order: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, f.page.ID, pageID)
	assert.Equal(t, []string{"B", "C", "A"}, f.sequence())
}

func TestReorder_RejectsInvalidPermutation(t *testing.T) {
	f := newFixture(t)
	f.add("A", nil)
	f.add("B", nil)
	f.add("C", nil)

	_, err := f.repo.Reorder(context.Background(), []ordering.Item{
		{ID: f.ids["A"], Order: 0},
		{ID: f.ids["B"], Order: 0},
		{ID: f.ids["C"], Order: 4},
	})

	assert.ErrorIs(t, err, ordering.ErrInvalidPermutation)
	assert.Equal(t, []string{"A", "B", "C"}, f.sequence())
}

func TestReorder_UnknownSection(t *testing.T) {
	f := newFixture(t)
	f.add("A", nil)

	_, err := f.repo.Reorder(context.Background(), []ordering.Item{
		{ID: f.ids["A"], Order: 0},
		{ID: uuid.NewString(), Order: 1},
	})

	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestReorder_SectionsFromDifferentPages(t *testing.T) {
	f := newFixture(t)
	f.add("A", nil)

	other := dbtest.CreatePage(t, f.db, "about", domain.PageStatusPublished)
	foreign := &domain.Section{PageID: other.ID, Type: domain.SectionText}
	require.NoError(t, f.repo.Create(context.Background(), foreign, nil))

	_, err := f.repo.Reorder(context.Background(), []ordering.Item{
		{ID: f.ids["A"], Order: 0},
		{ID: foreign.ID, Order: 0},
	})

	assert.ErrorIs(t, err, ErrPageMismatch)
}

func TestReorder_IsAtomic(t *testing.T) {
	f := newFixture(t)
	f.add("A", nil)
	f.add("B", nil)
	f.add("C", nil)

	errBoom := errors.New("disk full")
	updates := 0
	require.NoError(t, f.db.Callback().Update().Before("gorm:update").Register("test:fail_second_update", func(tx *gorm.DB) {
		updates++
		if updates == 2 {
			tx.AddError(errBoom)
		}
	}))

	_, err := f.repo.Reorder(context.Background(), []ordering.Item{
		{ID: f.ids["A"], Order: 2},
		{ID: f.ids["B"], Order: 0},
		{ID: f.ids["C"], Order: 1},
	})

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, []string{"A", "B", "C"}, f.sequence())
}

func TestMove_SwapsNeighbours(t *testing.T) {
	f := newFixture(t)
	f.add("A", nil)
	f.add("B", nil)
	f.add("C", nil)

	pageID, err := f.repo.Move(context.Background(), f.ids["C"], ordering.Up)
	require.NoError(t, err)
	assert.Equal(t, f.page.ID, pageID)
	assert.Equal(t, []string{"A", "C", "B"}, f.sequence())

	_, err = f.repo.Move(context.Background(), f.ids["A"], ordering.Down)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A", "B"}, f.sequence())
}

func TestMove_AtBoundaryIsNoop(t *testing.T) {
	f := newFixture(t)
	f.add("A", nil)
	f.add("B", nil)

	_, err := f.repo.Move(context.Background(), f.ids["A"], ordering.Up)
	require.NoError(t, err)
	_, err = f.repo.Move(context.Background(), f.ids["B"], ordering.Down)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, f.sequence())
}

func TestFindByID(t *testing.T) {
	f := newFixture(t)
	created := f.add("A", nil)

	found, err := f.repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.PageID, found.PageID)
	assert.JSONEq(t, `{"label":"A"}`, string(found.Content))

	_, err = f.repo.FindByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrSectionNotFound)
}
