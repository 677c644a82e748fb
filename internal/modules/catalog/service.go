package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"servicebook/internal/cache"
	"servicebook/internal/domain"
	"servicebook/internal/events"
	"servicebook/internal/repository"

	"go.uber.org/zap"
)

const viewCacheKey = "catalog:view"

type Service struct {
	store Store
	view  ViewReader
	cache cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewService(store Store, view ViewReader, c cache.Cache, ttl time.Duration, log *zap.Logger) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, view: view, cache: c, ttl: ttl, log: log}
}

/* ---------- CATEGORIES & SERVICES ---------- */

func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.store.ListActiveCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, actor domain.Actor, req CreateCategoryRequest) (*domain.Category, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	c := &domain.Category{Name: name, Description: strings.TrimSpace(req.Description), IsActive: true}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateCategory
		}
		return nil, err
	}
	s.Invalidate(ctx)
	return c, nil
}

func (s *Service) ListServices(ctx context.Context, categoryID int64) ([]domain.Service, error) {
	return s.store.ListActiveServices(ctx, categoryID)
}

func (s *Service) CreateService(ctx context.Context, actor domain.Actor, req CreateServiceRequest) (*domain.Service, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if req.BasePrice <= 0 {
		return nil, fmt.Errorf("%w: base_price must be positive", ErrValidation)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if _, err := s.store.GetCategory(ctx, req.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown category %d", ErrValidation, req.CategoryID)
		}
		return nil, err
	}

	svc := &domain.Service{
		CategoryID:  req.CategoryID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		BasePrice:   req.BasePrice,
		IsActive:    true,
	}
	if err := s.store.CreateService(ctx, svc); err != nil {
		return nil, err
	}
	s.Invalidate(ctx)
	return svc, nil
}

/* ---------- OFFERINGS ---------- */

// AddOffering lets a professional offer an active service, optionally at a
// custom price.
func (s *Service) AddOffering(ctx context.Context, actor domain.Actor, req AddOfferingRequest) (*domain.Offering, error) {
	if actor.ProfessionalID <= 0 {
		return nil, ErrForbidden
	}
	if req.CustomPrice != nil && *req.CustomPrice <= 0 {
		return nil, fmt.Errorf("%w: custom_price must be positive", ErrValidation)
	}

	svc, err := s.store.GetService(ctx, req.ServiceID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, ErrServiceInactive
	}

	o := &domain.Offering{ProfessionalID: actor.ProfessionalID, ServiceID: svc.ID, CustomPrice: req.CustomPrice}
	if err := s.store.CreateOffering(ctx, o); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateOffering
		}
		return nil, err
	}
	s.Invalidate(ctx)
	return o, nil
}

func (s *Service) RemoveOffering(ctx context.Context, actor domain.Actor, serviceID int64) error {
	if actor.ProfessionalID <= 0 {
		return ErrForbidden
	}
	if err := s.store.DeleteOffering(ctx, actor.ProfessionalID, serviceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.Invalidate(ctx)
	return nil
}

func (s *Service) ListOfferings(ctx context.Context, actor domain.Actor) ([]repository.OfferingRow, error) {
	if actor.ProfessionalID <= 0 {
		return nil, ErrForbidden
	}
	return s.store.ListOfferings(ctx, actor.ProfessionalID)
}

func (s *Service) BookableOfferings(ctx context.Context) ([]repository.OfferingRow, error) {
	return s.store.BookableOfferings(ctx)
}

/* ---------- CATALOG VIEW ---------- */

// View returns the public catalog, optionally limited to one category name.
// The unfiltered view is cached and filtered in memory.
func (s *Service) View(ctx context.Context, categoryName string) ([]repository.CatalogRow, error) {
	rows, err := s.cachedView(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(categoryName)
	if name == "" {
		return rows, nil
	}
	out := make([]repository.CatalogRow, 0, len(rows))
	for _, r := range rows {
		if r.CategoryName == name {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Service) cachedView(ctx context.Context) ([]repository.CatalogRow, error) {
	if b, err := s.cache.Get(ctx, viewCacheKey); err == nil {
		var rows []repository.CatalogRow
		if err := json.Unmarshal(b, &rows); err == nil {
			return rows, nil
		}
		s.log.Warn("discarding corrupt catalog cache entry")
	} else if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn("catalog cache read failed", zap.Error(err))
	}

	rows, err := s.view.ServiceCatalog(ctx, "")
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.CatalogRow{}
	}

	if b, err := json.Marshal(rows); err == nil {
		if err := s.cache.Set(ctx, viewCacheKey, b, s.ttl); err != nil {
			s.log.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return rows, nil
}

// Invalidate drops the cached catalog view.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, viewCacheKey); err != nil {
		s.log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}

// Publish drops the cached view when an event changes the rating rollup.
func (s *Service) Publish(ctx context.Context, e events.Event) error {
	switch e.Type {
	case events.ReviewSubmitted, events.ReservationDeleted:
		s.Invalidate(ctx)
	}
	return nil
}
