package section

import (
	"context"
	defError "errors"
	"news-cms/internal/domain"
	"news-cms/internal/errors"
	"news-cms/internal/ordering"

	"github.com/rs/zerolog/log"
)

type Service interface {
	CreateSection(ctx context.Context, section *domain.Section, position *int) error
	GetSection(ctx context.Context, id string) (*domain.Section, error)
	ListPageSections(ctx context.Context, pageID string) ([]domain.Section, error)
	UpdateSection(ctx context.Context, id string, changes Changes) (*domain.Section, error)
	DeleteSection(ctx context.Context, id string) error
	ReorderSections(ctx context.Context, assignments []ordering.Item) error
	MoveSection(ctx context.Context, id string, direction ordering.Direction) ([]domain.Section, error)
}

type PageProvider interface {
	GetPageByID(ctx context.Context, id string) (*domain.Page, error)
	InvalidatePublicCache(ctx context.Context)
}

type ChangeNotifier interface {
	PageChanged(page *domain.Page)
}

type DefaultService struct {
	repository   SectionRepository
	pageProvider PageProvider
	notifier     ChangeNotifier
}

func NewService(repository SectionRepository, pageProvider PageProvider, notifier ChangeNotifier) Service {
	return &DefaultService{
		repository:   repository,
		pageProvider: pageProvider,
		notifier:     notifier,
	}
}

func (s *DefaultService) CreateSection(ctx context.Context, section *domain.Section, position *int) error {
	if err := s.repository.Create(ctx, section, position); err != nil {
		return translate(err)
	}

	s.pageChanged(ctx, section.PageID)
	return nil
}

func (s *DefaultService) GetSection(ctx context.Context, id string) (*domain.Section, error) {
	section, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return section, nil
}

func (s *DefaultService) ListPageSections(ctx context.Context, pageID string) ([]domain.Section, error) {
	if _, err := s.pageProvider.GetPageByID(ctx, pageID); err != nil {
		return nil, err
	}
	return s.repository.ListByPage(ctx, pageID)
}

func (s *DefaultService) UpdateSection(ctx context.Context, id string, changes Changes) (*domain.Section, error) {
	section, err := s.repository.Update(ctx, id, changes)
	if err != nil {
		return nil, translate(err)
	}

	s.pageChanged(ctx, section.PageID)
	return section, nil
}

func (s *DefaultService) DeleteSection(ctx context.Context, id string) error {
	section, err := s.repository.Delete(ctx, id)
	if err != nil {
		return translate(err)
	}

	s.pageChanged(ctx, section.PageID)
	return nil
}

func (s *DefaultService) ReorderSections(ctx context.Context, assignments []ordering.Item) error {
	if len(assignments) == 0 {
		return errors.UnprocessableEntity("No sections to reorder", nil)
	}

	pageID, err := s.repository.Reorder(ctx, assignments)
	if err != nil {
		return translate(err)
	}

	s.pageChanged(ctx, pageID)
	return nil
}

// MoveSection swaps the section with its neighbour and returns the page's sections
// in their new order.
func (s *DefaultService) MoveSection(ctx context.Context, id string, direction ordering.Direction) ([]domain.Section, error) {
	pageID, err := s.repository.Move(ctx, id, direction)
	if err != nil {
		return nil, translate(err)
	}

	s.pageChanged(ctx, pageID)
	return s.repository.ListByPage(ctx, pageID)
}

// pageChanged drops cached public pages and asks the renderer to rebuild the page.
func (s *DefaultService) pageChanged(ctx context.Context, pageID string) {
	s.pageProvider.InvalidatePublicCache(ctx)

	page, err := s.pageProvider.GetPageByID(ctx, pageID)
	if err != nil {
		log.Warn().Err(err).Str("page_id", pageID).Msg("skipping revalidation, page lookup failed")
		return
	}
	s.notifier.PageChanged(page)
}

func translate(err error) error {
	switch {
	case defError.Is(err, ErrPageNotFound):
		return errors.NotFound("Page not found", err)
	case defError.Is(err, ErrSectionNotFound), defError.Is(err, ordering.ErrUnknownID):
		return errors.NotFound("Section not found", err)
	case defError.Is(err, ErrPageMismatch):
		return errors.UnprocessableEntity("Sections belong to different pages", err)
	case defError.Is(err, ordering.ErrDuplicateID):
		return errors.UnprocessableEntity("Section listed more than once", err)
	case defError.Is(err, ordering.ErrInvalidPermutation):
		return errors.UnprocessableEntity("Invalid permutation", err)
	}
	return err
}
