package section

import (
	"context"
	"errors"
	"fmt"
	"news-cms/internal/domain"
	"news-cms/internal/ordering"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPageNotFound    = errors.New("page not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrPageMismatch    = errors.New("sections belong to different pages")
)

// Changes is a partial update; nil fields are left untouched.
type Changes struct {
	Type     *string
	Content  datatypes.JSON
	Position *int
}

type SectionRepository interface {
	Create(ctx context.Context, section *domain.Section, position *int) error
	Update(ctx context.Context, id string, changes Changes) (*domain.Section, error)
	Delete(ctx context.Context, id string) (*domain.Section, error)
	Reorder(ctx context.Context, assignments []ordering.Item) (string, error)
	Move(ctx context.Context, id string, direction ordering.Direction) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Section, error)
	ListByPage(ctx context.Context, pageID string) ([]domain.Section, error)
}

type SectionRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new section repository
func NewRepository(db *gorm.DB) SectionRepository {
	return &SectionRepositoryImpl{db: db}
}

// Create stores section at position, or last when position is nil. Siblings at
// or after position move down by one in the same transaction.
func (r *SectionRepositoryImpl) Create(ctx context.Context, section *domain.Section, position *int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPage(tx, section.PageID); err != nil {
			return err
		}

		current, err := siblings(tx, section.PageID)
		if err != nil {
			return err
		}

		if section.ID == "" {
			section.ID = uuid.NewString()
		}

		ids := ordering.Sequence(current)
		if position == nil {
			ids = ordering.Append(ids, section.ID)
		} else {
			ids = ordering.InsertAt(ids, section.ID, *position)
		}

		if err := applyOrder(tx, section.PageID, current, ids); err != nil {
			return err
		}

		now := time.Now().UTC()
		section.Position = slices.Index(ids, section.ID)
		section.CreatedAt = now
		section.UpdatedAt = now
		if err := tx.Create(section).Error; err != nil {
			return err
		}

		return touchPage(tx, section.PageID, now)
	})
}

func (r *SectionRepositoryImpl) Update(ctx context.Context, id string, changes Changes) (*domain.Section, error) {
	var section domain.Section

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findLocked(tx, id, &section); err != nil {
			return err
		}

		if changes.Position != nil && *changes.Position != section.Position {
			current, err := siblings(tx, section.PageID)
			if err != nil {
				return err
			}

			ids, err := ordering.MoveTo(ordering.Sequence(current), id, *changes.Position)
			if err != nil {
				return err
			}
			if err := applyOrder(tx, section.PageID, current, ids); err != nil {
				return err
			}
		}

		fields := map[string]interface{}{}
		if changes.Type != nil {
			fields["type"] = *changes.Type
		}
		if changes.Content != nil {
			fields["content"] = changes.Content
		}
		if len(fields) > 0 {
			if err := tx.Model(&domain.Section{}).Where("id = ?", id).Updates(fields).Error; err != nil {
				return err
			}
		}

		if err := touchPage(tx, section.PageID, time.Now().UTC()); err != nil {
			return err
		}
		return tx.First(&section, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	return &section, nil
}

// Delete removes the section and renumbers its siblings to 0..n-1.
func (r *SectionRepositoryImpl) Delete(ctx context.Context, id string) (*domain.Section, error) {
	var section domain.Section

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findLocked(tx, id, &section); err != nil {
			return err
		}

		current, err := siblings(tx, section.PageID)
		if err != nil {
			return err
		}

		if err := tx.Delete(&domain.Section{}, "id = ?", id).Error; err != nil {
			return err
		}

		ids := ordering.Remove(ordering.Sequence(current), id)
		if err := applyOrder(tx, section.PageID, current, ids); err != nil {
			return err
		}

		return touchPage(tx, section.PageID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}

	return &section, nil
}

// Reorder applies assignments all-or-nothing and returns the page they belong to.
// Every id must exist, all of them must share one page, and the resulting
// orders must be a permutation of 0..n-1.
func (r *SectionRepositoryImpl) Reorder(ctx context.Context, assignments []ordering.Item) (string, error) {
	var pageID string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]string, 0, len(assignments))
		for _, a := range assignments {
			if !slices.Contains(ids, a.ID) {
				ids = append(ids, a.ID)
			}
		}
		if len(ids) == 0 {
			return nil
		}

		var rows []domain.Section
		if err := tx.Select("id", "page_id").Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) != len(ids) {
			return fmt.Errorf("%w: %s", ErrSectionNotFound, firstMissing(ids, rows))
		}

		pageID = rows[0].PageID
		for _, row := range rows[1:] {
			if row.PageID != pageID {
				return ErrPageMismatch
			}
		}

		if err := lockPage(tx, pageID); err != nil {
			return err
		}

		current, err := siblings(tx, pageID)
		if err != nil {
			return err
		}

		sequence, err := ordering.Reassign(current, assignments)
		if err != nil {
			return err
		}
		if err := applyOrder(tx, pageID, current, sequence); err != nil {
			return err
		}

		return touchPage(tx, pageID, time.Now().UTC())
	})
	if err != nil {
		return "", err
	}

	return pageID, nil
}

// Move swaps a section with its neighbour in one transaction. Moving past
// either end changes nothing.
func (r *SectionRepositoryImpl) Move(ctx context.Context, id string, direction ordering.Direction) (string, error) {
	var section domain.Section

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findLocked(tx, id, &section); err != nil {
			return err
		}

		current, err := siblings(tx, section.PageID)
		if err != nil {
			return err
		}

		ids, changed, err := ordering.Swap(ordering.Sequence(current), id, direction)
		if err != nil || !changed {
			return err
		}
		if err := applyOrder(tx, section.PageID, current, ids); err != nil {
			return err
		}

		return touchPage(tx, section.PageID, time.Now().UTC())
	})
	if err != nil {
		return "", err
	}

	return section.PageID, nil
}

func (r *SectionRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Section, error) {
	var section domain.Section
	err := r.db.WithContext(ctx).First(&section, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *SectionRepositoryImpl) ListByPage(ctx context.Context, pageID string) ([]domain.Section, error) {
	sections := []domain.Section{}
	err := r.db.WithContext(ctx).
		Where("page_id = ?", pageID).
		Order("position ASC").
		Find(&sections).Error
	return sections, err
}

// lockPage serializes ordering writes per page. Postgres takes a row lock held
// until the transaction ends; SQLite already serializes writers.
func lockPage(tx *gorm.DB, pageID string) error {
	query := tx.Select("id")
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var page domain.Page
	err := query.Take(&page, "id = ?", pageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPageNotFound
	}
	return err
}

// findLocked loads a section after locking its page, so the row read is the
// one every other writer of that page will see.
func findLocked(tx *gorm.DB, id string, section *domain.Section) error {
	var owner domain.Section
	err := tx.Select("id", "page_id").Take(&owner, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSectionNotFound
	}
	if err != nil {
		return err
	}

	if err := lockPage(tx, owner.PageID); err != nil {
		return err
	}

	err = tx.First(section, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSectionNotFound
	}
	return err
}

func siblings(tx *gorm.DB, pageID string) ([]ordering.Item, error) {
	var rows []domain.Section
	err := tx.Select("id", "position").
		Where("page_id = ?", pageID).
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]ordering.Item, len(rows))
	for i, row := range rows {
		items[i] = ordering.Item{ID: row.ID, Order: row.Position}
	}
	return items, nil
}

// applyOrder persists ids as the new sequence of pageID. Changed rows first
// move to -(order+1), then flip back in one statement, so the unique
// (page_id, position) index never sees two rows on the same slot.
func applyOrder(tx *gorm.DB, pageID string, current []ordering.Item, ids []string) error {
	changed := ordering.Diff(current, ids)
	if len(changed) == 0 {
		return nil
	}

	for _, item := range changed {
		err := tx.Model(&domain.Section{}).
			Where("id = ?", item.ID).
			Update("position", -(item.Order + 1)).Error
		if err != nil {
			return err
		}
	}

	return tx.Model(&domain.Section{}).
		Where("page_id = ? AND position < 0", pageID).
		Update("position", gorm.Expr("-position - 1")).Error
}

func touchPage(tx *gorm.DB, pageID string, now time.Time) error {
	return tx.Model(&domain.Page{}).Where("id = ?", pageID).UpdateColumn("updated_at", now).Error
}

func firstMissing(ids []string, rows []domain.Section) string {
	for _, id := range ids {
		if !slices.ContainsFunc(rows, func(s domain.Section) bool { return s.ID == id }) {
			return id
		}
	}
	return ""
}
