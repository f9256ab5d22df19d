package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/fmht/buzon-service/internal/access"
	"github.com/fmht/buzon-service/internal/domain"
	"github.com/fmht/buzon-service/internal/repository"
	"github.com/fmht/buzon-service/internal/textnorm"
	apperrors "github.com/fmht/buzon-service/pkg/util/errorutil"
)

// CatalogService manages statuses and categories and answers named lookups.
type CatalogService struct {
	statuses   repository.StatusRepository
	categories repository.CategoryRepository
	cache      repository.CatalogCache
	logger     *zap.Logger
}

// CatalogDependencies bundles catalog collaborators.
type CatalogDependencies struct {
	StatusRepo   repository.StatusRepository
	CategoryRepo repository.CategoryRepository
	Cache        repository.CatalogCache
	Logger       *zap.Logger
}

// NewCatalogService constructs the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	cache := deps.Cache
	if cache == nil {
		cache = repository.NoopCatalogCache{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		statuses:   deps.StatusRepo,
		categories: deps.CategoryRepo,
		cache:      cache,
		logger:     logger,
	}
}

// ListStatuses returns every status, from cache when possible.
func (s *CatalogService) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	cached, err := s.cache.Statuses(ctx)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, repository.ErrCacheMiss) {
		s.logger.Warn("catalog cache read failed", zap.String("catalog", "estados"), zap.Error(err))
	}

	statuses, err := s.statuses.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.cache.SetStatuses(ctx, statuses); err != nil {
		s.logger.Warn("catalog cache write failed", zap.String("catalog", "estados"), zap.Error(err))
	}
	return statuses, nil
}

// ListCategories returns every category, from cache when possible.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	cached, err := s.cache.Categories(ctx)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, repository.ErrCacheMiss) {
		s.logger.Warn("catalog cache read failed", zap.String("catalog", "categorias"), zap.Error(err))
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.cache.SetCategories(ctx, categories); err != nil {
		s.logger.Warn("catalog cache write failed", zap.String("catalog", "categorias"), zap.Error(err))
	}
	return categories, nil
}

// GetStatus fetches one status.
func (s *CatalogService) GetStatus(ctx context.Context, id int64) (*domain.Status, error) {
	st, err := s.statuses.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "status", id)
	}
	return st, nil
}

// GetCategory fetches one category.
func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "category", id)
	}
	return c, nil
}

// PendingStatus finds the initial status by name. found is false when none is configured.
func (s *CatalogService) PendingStatus(ctx context.Context) (domain.Status, bool, error) {
	statuses, err := s.ListStatuses(ctx)
	if err != nil {
		return domain.Status{}, false, err
	}
	st, ok := domain.FindPendingStatus(statuses)
	return st, ok, nil
}

// StatusName resolves a status id to its configured name.
func (s *CatalogService) StatusName(ctx context.Context, id int64) (string, error) {
	statuses, err := s.ListStatuses(ctx)
	if err != nil {
		return "", err
	}
	for _, st := range statuses {
		if st.ID == id {
			return st.Name, nil
		}
	}
	return "", apperrors.NewNotFound("status", map[string]any{"id": id})
}

// CategoryName resolves a category id to its display name.
func (s *CatalogService) CategoryName(ctx context.Context, id int64) (string, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range categories {
		if c.ID == id {
			return c.Name, nil
		}
	}
	return "", apperrors.NewNotFound("category", map[string]any{"id": id})
}

// CreateStatus adds a status.
func (s *CatalogService) CreateStatus(ctx context.Context, actor domain.Actor, name string) (*domain.Status, error) {
	if err := access.AuthorizeManage(actor); err != nil {
		return nil, err
	}
	name, err := catalogName(name)
	if err != nil {
		return nil, err
	}
	st := &domain.Status{Name: name}
	if err := s.statuses.Create(ctx, st); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidate(ctx)
	return st, nil
}

// UpdateStatus renames a status.
func (s *CatalogService) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, name string) (*domain.Status, error) {
	if err := access.AuthorizeManage(actor); err != nil {
		return nil, err
	}
	name, err := catalogName(name)
	if err != nil {
		return nil, err
	}
	st := &domain.Status{ID: id, Name: name}
	if err := s.statuses.Update(ctx, st); err != nil {
		return nil, lookupErr(err, "status", id)
	}
	s.invalidate(ctx)
	return st, nil
}

// DeleteStatus removes a status not referenced by any tracking record.
func (s *CatalogService) DeleteStatus(ctx context.Context, actor domain.Actor, id int64) error {
	if err := access.AuthorizeDelete(actor); err != nil {
		return err
	}
	if err := s.statuses.Delete(ctx, id); err != nil {
		return lookupErr(err, "status", id)
	}
	s.invalidate(ctx)
	return nil
}

// CreateCategory adds a category.
func (s *CatalogService) CreateCategory(ctx context.Context, actor domain.Actor, name, description string) (*domain.Category, error) {
	if err := access.AuthorizeManage(actor); err != nil {
		return nil, err
	}
	name, err := catalogName(name)
	if err != nil {
		return nil, err
	}
	c := &domain.Category{Name: name, Description: textnorm.Clean(description)}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidate(ctx)
	return c, nil
}

// UpdateCategory replaces name and description.
func (s *CatalogService) UpdateCategory(ctx context.Context, actor domain.Actor, id int64, name, description string) (*domain.Category, error) {
	if err := access.AuthorizeManage(actor); err != nil {
		return nil, err
	}
	name, err := catalogName(name)
	if err != nil {
		return nil, err
	}
	c := &domain.Category{ID: id, Name: name, Description: textnorm.Clean(description)}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, lookupErr(err, "category", id)
	}
	s.invalidate(ctx)
	return c, nil
}

// DeleteCategory removes a category; communications keep a null reference.
func (s *CatalogService) DeleteCategory(ctx context.Context, actor domain.Actor, id int64) error {
	if err := access.AuthorizeDelete(actor); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return lookupErr(err, "category", id)
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

func catalogName(raw string) (string, error) {
	name := strings.TrimSpace(textnorm.Clean(raw))
	if name == "" {
		return "", apperrors.NewValidationError("nombre is required", map[string]any{"field": "nombre"})
	}
	return name, nil
}
