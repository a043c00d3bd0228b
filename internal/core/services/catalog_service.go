package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/ports"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/platform/apierr"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/platform/logger"
)

// CatalogService reads and edits an event's requirement catalog
type CatalogService struct {
	api             ports.RequirementAPI
	cache           ports.CatalogCache
	log             *logger.Logger
	offlineFallback bool
}

// NewCatalogService creates a new catalog service. cache may be nil.
func NewCatalogService(api ports.RequirementAPI, cache ports.CatalogCache, log *logger.Logger, offlineFallback bool) *CatalogService {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogService{
		api:             api,
		cache:           cache,
		log:             log.With("service", "CatalogService"),
		offlineFallback: offlineFallback,
	}
}

// CatalogResponse is an event's catalog in processing order
type CatalogResponse struct {
	EventID      int64
	Requirements []domain.AssetRequirement
	FromCache    bool
}

// Fetch returns the catalog sorted by sortOrder. A successful fetch refreshes
// the local snapshot; an unreachable backend falls back to it when allowed.
func (s *CatalogService) Fetch(ctx context.Context, eventID int64) (*CatalogResponse, error) {
	reqs, err := s.api.ListRequirements(ctx, eventID)
	if err != nil {
		if cached, ok := s.fallback(ctx, eventID, err); ok {
			return &CatalogResponse{EventID: eventID, Requirements: domain.SortCatalog(cached), FromCache: true}, nil
		}
		return nil, fmt.Errorf("failed to fetch requirements: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, eventID, reqs); err != nil {
			s.log.Warn("failed to save catalog snapshot", "event_id", eventID, "error", err)
		}
	}

	return &CatalogResponse{EventID: eventID, Requirements: domain.SortCatalog(reqs)}, nil
}

func (s *CatalogService) fallback(ctx context.Context, eventID int64, cause error) ([]domain.AssetRequirement, bool) {
	if !s.offlineFallback || s.cache == nil || !apierr.IsUnavailable(cause) {
		return nil, false
	}
	cached, err := s.cache.Get(ctx, eventID)
	if err != nil {
		s.log.Debug("no catalog snapshot to fall back to", "event_id", eventID, "error", err)
		return nil, false
	}
	s.log.Warn("backend unavailable, using cached catalog", "event_id", eventID, "error", cause)
	return cached, true
}

// Find returns one requirement of the event's catalog
func (s *CatalogService) Find(ctx context.Context, eventID, requirementID int64) (domain.AssetRequirement, error) {
	resp, err := s.Fetch(ctx, eventID)
	if err != nil {
		return domain.AssetRequirement{}, err
	}
	req, ok := domain.FindRequirement(resp.Requirements, requirementID)
	if !ok {
		return domain.AssetRequirement{}, fmt.Errorf("%w: %d in event %d", domain.ErrRequirementNotFound, requirementID, eventID)
	}
	return req, nil
}

// Create validates and adds a requirement. A zero SortOrder appends it after
// the current last item.
func (s *CatalogService) Create(ctx context.Context, eventID int64, req domain.AssetRequirement) (*domain.AssetRequirement, error) {
	if err := domain.ValidateRequirement(&req); err != nil {
		return nil, err
	}

	if req.SortOrder == 0 {
		if resp, err := s.Fetch(ctx, eventID); err == nil && len(resp.Requirements) > 0 {
			req.SortOrder = resp.Requirements[len(resp.Requirements)-1].SortOrder + 1
		}
	}

	created, err := s.api.CreateRequirement(ctx, eventID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create requirement: %w", err)
	}
	s.log.Info("requirement created", "event_id", eventID, "requirement_id", created.ID)
	s.invalidate(ctx, eventID)
	return created, nil
}

// Update validates and replaces a requirement's mutable fields
func (s *CatalogService) Update(ctx context.Context, req domain.AssetRequirement) (*domain.AssetRequirement, error) {
	if req.ID == 0 {
		return nil, fmt.Errorf("%w: missing id", domain.ErrInvalidRequirement)
	}
	if err := domain.ValidateRequirement(&req); err != nil {
		return nil, err
	}

	updated, err := s.api.UpdateRequirement(ctx, req)
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %d", domain.ErrRequirementNotFound, req.ID)
		}
		return nil, fmt.Errorf("failed to update requirement: %w", err)
	}
	s.log.Info("requirement updated", "requirement_id", updated.ID)
	s.invalidate(ctx, updated.EventID)
	return updated, nil
}

// Delete removes a requirement. Existing submissions for it become orphans.
func (s *CatalogService) Delete(ctx context.Context, eventID, requirementID int64) error {
	if err := s.api.DeleteRequirement(ctx, requirementID); err != nil {
		if apierr.IsNotFound(err) {
			return fmt.Errorf("%w: %d", domain.ErrRequirementNotFound, requirementID)
		}
		return fmt.Errorf("failed to delete requirement: %w", err)
	}
	s.log.Info("requirement deleted", "event_id", eventID, "requirement_id", requirementID)
	s.invalidate(ctx, eventID)
	return nil
}

// invalidate refreshes the snapshot after a write
func (s *CatalogService) invalidate(ctx context.Context, eventID int64) {
	if s.cache == nil || eventID == 0 {
		return
	}
	if _, err := s.Fetch(ctx, eventID); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Debug("catalog refresh after write failed", "event_id", eventID, "error", err)
	}
}
