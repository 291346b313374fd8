package page

import (
	"context"
	"news-cms/internal/domain"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PageRepository interface {
	Create(ctx context.Context, page *domain.Page) error
	FindByID(ctx context.Context, id string) (*domain.Page, error)
	FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*domain.Page, error)
	List(ctx context.Context, includeDrafts bool, page, pageSize int) ([]domain.Page, PagesMeta, error)
}

type PageRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new page repository
func NewRepository(db *gorm.DB) PageRepository {
	return &PageRepositoryImpl{db: db}
}

func orderedSections(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *PageRepositoryImpl) Create(ctx context.Context, page *domain.Page) error {
	if page.ID == "" {
		page.ID = uuid.NewString()
	}
	page.CreatedAt = time.Now().UTC()
	page.UpdatedAt = page.CreatedAt
	return r.db.WithContext(ctx).Omit("Sections").Create(page).Error
}

func (r *PageRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.Page, error) {
	var page domain.Page
	err := r.db.WithContext(ctx).
		Preload("Sections", orderedSections).
		First(&page, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *PageRepositoryImpl) FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*domain.Page, error) {
	query := r.db.WithContext(ctx).
		Preload("Sections", orderedSections).
		Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("status = ?", domain.PageStatusPublished)
	}

	var page domain.Page
	if err := query.First(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

type PagesMeta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPage   int   `json:"total_page"`
}

func (r *PageRepositoryImpl) List(ctx context.Context, includeDrafts bool, page, pageSize int) ([]domain.Page, PagesMeta, error) {
	pages := []domain.Page{}
	var totalRecords int64

	scope := func(db *gorm.DB) *gorm.DB {
		if !includeDrafts {
			return db.Where("status = ?", domain.PageStatusPublished)
		}
		return db
	}

	// Count total records
	if err := r.db.WithContext(ctx).Model(&domain.Page{}).Scopes(scope).Count(&totalRecords).Error; err != nil {
		return pages, PagesMeta{}, err
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Sections", orderedSections).
		Order("updated_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&pages).Error

	totalPages := int((totalRecords + int64(pageSize) - 1) / int64(pageSize))

	return pages, PagesMeta{
		Total:       totalRecords,
		PerPage:     pageSize,
		TotalPage:   totalPages,
		CurrentPage: page,
	}, err
}
