package page

import (
	"context"
	defError "errors"
	"fmt"
	"news-cms/internal/domain"
	"news-cms/internal/errors"
	"news-cms/redis"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PublicVersionKey versions every cached public page. Any page or section
// write increments it.
const PublicVersionKey = "pages:public:version"

type Service interface {
	CreatePage(ctx context.Context, page *domain.Page) error
	ListPages(ctx context.Context, includeDrafts bool, page, pageSize int) (*PaginatedPages, error)
	GetPageByID(ctx context.Context, id string) (*domain.Page, error)
	GetPublicPage(ctx context.Context, slug string) (*domain.Page, error)
	InvalidatePublicCache(ctx context.Context)
}

type ChangeNotifier interface {
	PageChanged(page *domain.Page)
}

type DefaultService struct {
	repository PageRepository
	cache      *redis.Cache
	cacheTTL   time.Duration
	notifier   ChangeNotifier
}

func NewService(repository PageRepository, cache *redis.Cache, cacheTTL time.Duration, notifier ChangeNotifier) Service {
	return &DefaultService{
		repository: repository,
		cache:      cache,
		cacheTTL:   cacheTTL,
		notifier:   notifier,
	}
}

func (s *DefaultService) CreatePage(ctx context.Context, page *domain.Page) error {
	_, err := s.repository.FindBySlug(ctx, page.Slug, false)
	if err == nil {
		return errors.Conflict("Page with this slug already exists", nil)
	}
	if !defError.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if page.Status == "" {
		page.Status = domain.PageStatusDraft
	}
	page.Sections = []domain.Section{}

	if err := s.repository.Create(ctx, page); err != nil {
		if defError.Is(err, gorm.ErrDuplicatedKey) {
			return errors.Conflict("Page with this slug already exists", err)
		}
		return err
	}

	s.InvalidatePublicCache(ctx)
	s.notifier.PageChanged(page)
	return nil
}

type PaginatedPages struct {
	Data []domain.Page `json:"data"`
	Meta PagesMeta     `json:"meta"`
}

func (s *DefaultService) ListPages(ctx context.Context, includeDrafts bool, page, pageSize int) (*PaginatedPages, error) {
	pages, meta, err := s.repository.List(ctx, includeDrafts, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &PaginatedPages{Data: pages, Meta: meta}, nil
}

func (s *DefaultService) GetPageByID(ctx context.Context, id string) (*domain.Page, error) {
	page, err := s.repository.FindByID(ctx, id)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Page not found", err)
		}
		return nil, err
	}
	return page, nil
}

func (s *DefaultService) GetPublicPage(ctx context.Context, slug string) (*domain.Page, error) {
	v := s.cache.GetVersion(ctx, PublicVersionKey)
	cacheKey := fmt.Sprintf("pages:public:v:%d:slug:%s", v, slug)

	var cached domain.Page
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("cache read failed")
	}
	if found {
		return &cached, nil
	}

	page, err := s.repository.FindBySlug(ctx, slug, true)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Page not found", err)
		}
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, page, s.cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("cache write failed")
	}
	return page, nil
}

func (s *DefaultService) InvalidatePublicCache(ctx context.Context) {
	s.cache.IncrementVersion(ctx, PublicVersionKey)
}
