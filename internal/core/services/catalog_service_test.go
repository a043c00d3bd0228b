package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/ports/mocks"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/platform/apierr"
	"github.com/TambongStercy/stageassets-frontend-sub000/internal/platform/logger"
)

func seedCatalog(b *mocks.MockBackend, eventID int64) {
	b.AddRequirement(domain.AssetRequirement{ID: 1, EventID: eventID, AssetType: domain.AssetHeadshot, Label: "Headshot", IsRequired: true, SortOrder: 2})
	b.AddRequirement(domain.AssetRequirement{ID: 2, EventID: eventID, AssetType: domain.AssetBio, Label: "Bio", IsRequired: true, SortOrder: 1})
	b.AddRequirement(domain.AssetRequirement{ID: 3, EventID: eventID, AssetType: domain.AssetLogo, Label: "Logo", SortOrder: 3})
	b.AddRequirement(domain.AssetRequirement{ID: 9, EventID: eventID + 1, AssetType: domain.AssetOther, Label: "Elsewhere", SortOrder: 1})
}

func TestCatalogService_Fetch(t *testing.T) {
	transportErr := apierr.New(0, apierr.CodeTransport, errors.New("connection refused"))

	tests := []struct {
		name          string
		fallback      bool
		setupMocks    func(*mocks.MockBackend, *mocks.MockCatalogCache)
		expectError   bool
		expectCached  bool
		expectedOrder []int64
	}{
		{
			name: "sorted by sort order",
			setupMocks: func(b *mocks.MockBackend, c *mocks.MockCatalogCache) {
				seedCatalog(b, 1)
			},
			expectedOrder: []int64{2, 1, 3},
		},
		{
			name:          "empty catalog",
			setupMocks:    func(b *mocks.MockBackend, c *mocks.MockCatalogCache) {},
			expectedOrder: nil,
		},
		{
			name:     "unreachable backend falls back to snapshot",
			fallback: true,
			setupMocks: func(b *mocks.MockBackend, c *mocks.MockCatalogCache) {
				c.Save(context.Background(), 1, []domain.AssetRequirement{
					{ID: 5, Label: "Later", SortOrder: 2},
					{ID: 4, Label: "First", SortOrder: 1},
				})
				b.Err = transportErr
			},
			expectCached:  true,
			expectedOrder: []int64{4, 5},
		},
		{
			name:     "server error falls back to snapshot",
			fallback: true,
			setupMocks: func(b *mocks.MockBackend, c *mocks.MockCatalogCache) {
				c.Save(context.Background(), 1, []domain.AssetRequirement{{ID: 4, Label: "First"}})
				b.Err = apierr.New(http.StatusBadGateway, "bad_gateway", nil)
			},
			expectCached:  true,
			expectedOrder: []int64{4},
		},
		{
			name:     "fallback disabled",
			fallback: false,
			setupMocks: func(b *mocks.MockBackend, c *mocks.MockCatalogCache) {
				c.Save(context.Background(), 1, []domain.AssetRequirement{{ID: 4, Label: "First"}})
				b.Err = transportErr
			},
			expectError: true,
		},
		{
			name:     "unauthorized never falls back",
			fallback: true,
			setupMocks: func(b *mocks.MockBackend, c *mocks.MockCatalogCache) {
				c.Save(context.Background(), 1, []domain.AssetRequirement{{ID: 4, Label: "First"}})
				b.Err = apierr.New(http.StatusUnauthorized, "unauthorized", nil)
			},
			expectError: true,
		},
		{
			name:     "no snapshot to fall back to",
			fallback: true,
			setupMocks: func(b *mocks.MockBackend, c *mocks.MockCatalogCache) {
				b.Err = transportErr
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := mocks.NewMockBackend()
			cache := mocks.NewMockCatalogCache()
			tt.setupMocks(backend, cache)

			svc := NewCatalogService(backend, cache, logger.Nop(), tt.fallback)
			resp, err := svc.Fetch(context.Background(), 1)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.FromCache != tt.expectCached {
				t.Errorf("FromCache = %v, want %v", resp.FromCache, tt.expectCached)
			}
			if len(resp.Requirements) != len(tt.expectedOrder) {
				t.Fatalf("got %d requirements, want %d", len(resp.Requirements), len(tt.expectedOrder))
			}
			for i, id := range tt.expectedOrder {
				if resp.Requirements[i].ID != id {
					t.Errorf("requirement[%d] = %d, want %d", i, resp.Requirements[i].ID, id)
				}
			}
		})
	}
}

func TestCatalogService_FetchRefreshesSnapshot(t *testing.T) {
	backend := mocks.NewMockBackend()
	cache := mocks.NewMockCatalogCache()
	seedCatalog(backend, 1)

	svc := NewCatalogService(backend, cache, logger.Nop(), true)
	if _, err := svc.Fetch(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cached, err := cache.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("snapshot not saved: %v", err)
	}
	if len(cached) != 3 {
		t.Errorf("snapshot holds %d requirements, want 3", len(cached))
	}
}

func TestCatalogService_SnapshotFailureIsNotFatal(t *testing.T) {
	backend := mocks.NewMockBackend()
	cache := mocks.NewMockCatalogCache()
	cache.SaveErr = errors.New("disk full")
	seedCatalog(backend, 1)

	svc := NewCatalogService(backend, cache, logger.Nop(), true)
	if _, err := svc.Fetch(context.Background(), 1); err != nil {
		t.Errorf("snapshot failure should not fail the fetch: %v", err)
	}
}

func TestCatalogService_Find(t *testing.T) {
	backend := mocks.NewMockBackend()
	seedCatalog(backend, 1)
	svc := NewCatalogService(backend, nil, logger.Nop(), false)

	req, err := svc.Find(context.Background(), 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Label != "Logo" {
		t.Errorf("Find() label = %q, want Logo", req.Label)
	}

	// requirement 9 belongs to another event
	if _, err := svc.Find(context.Background(), 1, 9); !errors.Is(err, domain.ErrRequirementNotFound) {
		t.Errorf("expected ErrRequirementNotFound, got %v", err)
	}
}

func TestCatalogService_Create(t *testing.T) {
	tests := []struct {
		name          string
		request       domain.AssetRequirement
		setupMocks    func(*mocks.MockBackend)
		expectError   error
		expectedOrder int
	}{
		{
			name:    "zero sort order appends",
			request: domain.AssetRequirement{AssetType: domain.AssetPresentation, Label: "Slides"},
			setupMocks: func(b *mocks.MockBackend) {
				seedCatalog(b, 1)
			},
			expectedOrder: 4,
		},
		{
			name:          "first requirement keeps zero",
			request:       domain.AssetRequirement{AssetType: domain.AssetPresentation, Label: "Slides"},
			setupMocks:    func(b *mocks.MockBackend) {},
			expectedOrder: 0,
		},
		{
			name:    "explicit sort order kept",
			request: domain.AssetRequirement{AssetType: domain.AssetBio, Label: "Bio", SortOrder: 7},
			setupMocks: func(b *mocks.MockBackend) {
				seedCatalog(b, 1)
			},
			expectedOrder: 7,
		},
		{
			name:        "empty label rejected",
			request:     domain.AssetRequirement{AssetType: domain.AssetBio, Label: "  "},
			setupMocks:  func(b *mocks.MockBackend) {},
			expectError: domain.ErrInvalidRequirement,
		},
		{
			name:        "unknown type rejected",
			request:     domain.AssetRequirement{AssetType: "poster", Label: "Poster"},
			setupMocks:  func(b *mocks.MockBackend) {},
			expectError: domain.ErrInvalidRequirement,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := mocks.NewMockBackend()
			tt.setupMocks(backend)
			svc := NewCatalogService(backend, mocks.NewMockCatalogCache(), logger.Nop(), false)

			created, err := svc.Create(context.Background(), 1, tt.request)
			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected %v, got %v", tt.expectError, err)
				}
				if backend.CallCount("CreateRequirement") != 0 {
					t.Error("invalid requirement reached the backend")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if created.ID == 0 || created.EventID != 1 {
				t.Errorf("unexpected created requirement: %+v", created)
			}
			if created.SortOrder != tt.expectedOrder {
				t.Errorf("SortOrder = %d, want %d", created.SortOrder, tt.expectedOrder)
			}
		})
	}
}

func TestCatalogService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("update normalizes accepted types", func(t *testing.T) {
		backend := mocks.NewMockBackend()
		seedCatalog(backend, 1)
		svc := NewCatalogService(backend, nil, logger.Nop(), false)

		updated, err := svc.Update(ctx, domain.AssetRequirement{
			ID:                1,
			AssetType:         domain.AssetHeadshot,
			Label:             "Headshot",
			AcceptedFileTypes: []string{" .JPG", ".jpg", "image/*"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := updated.GetAcceptedString(); got != ".jpg, image/*" {
			t.Errorf("accepted types = %q", got)
		}
	})

	t.Run("update without id", func(t *testing.T) {
		svc := NewCatalogService(mocks.NewMockBackend(), nil, logger.Nop(), false)
		_, err := svc.Update(ctx, domain.AssetRequirement{AssetType: domain.AssetBio, Label: "Bio"})
		if !errors.Is(err, domain.ErrInvalidRequirement) {
			t.Errorf("expected ErrInvalidRequirement, got %v", err)
		}
	})

	t.Run("update of missing requirement", func(t *testing.T) {
		backend := mocks.NewMockBackend()
		backend.Err = apierr.New(http.StatusNotFound, "not_found", nil)
		svc := NewCatalogService(backend, nil, logger.Nop(), false)
		_, err := svc.Update(ctx, domain.AssetRequirement{ID: 42, AssetType: domain.AssetBio, Label: "Bio"})
		if !errors.Is(err, domain.ErrRequirementNotFound) {
			t.Errorf("expected ErrRequirementNotFound, got %v", err)
		}
	})

	t.Run("delete removes requirement", func(t *testing.T) {
		backend := mocks.NewMockBackend()
		seedCatalog(backend, 1)
		svc := NewCatalogService(backend, mocks.NewMockCatalogCache(), logger.Nop(), false)

		if err := svc.Delete(ctx, 1, 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp, err := svc.Fetch(ctx, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := domain.FindRequirement(resp.Requirements, 3); ok {
			t.Error("requirement still listed after delete")
		}
	})

	t.Run("delete of missing requirement", func(t *testing.T) {
		backend := mocks.NewMockBackend()
		backend.Err = apierr.New(http.StatusNotFound, "not_found", nil)
		svc := NewCatalogService(backend, nil, logger.Nop(), false)
		if err := svc.Delete(ctx, 1, 42); !errors.Is(err, domain.ErrRequirementNotFound) {
			t.Errorf("expected ErrRequirementNotFound, got %v", err)
		}
	})
}
