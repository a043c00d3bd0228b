package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TambongStercy/stageassets-frontend-sub000/internal/core/domain"
	"github.com/TambongStercy/stageassets-frontend-sub000/pkg/workspace"
)

func newTestWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	base := t.TempDir()
	return &workspace.Workspace{
		RootPath:  base,
		CachePath: filepath.Join(base, "cache"),
	}
}

func intPtr(v int) *int { return &v }

func TestFileCatalogCache_MissingEvent(t *testing.T) {
	cache := NewFileCatalogCache(newTestWorkspace(t))

	_, err := cache.Get(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileCatalogCache_SaveAndReload(t *testing.T) {
	ws := newTestWorkspace(t)
	ctx := context.Background()

	reqs := []domain.AssetRequirement{
		{ID: 1, EventID: 5, AssetType: domain.AssetHeadshot, Label: "Headshot", IsRequired: true,
			AcceptedFileTypes: []string{"image/*"}, MaxFileSizeMB: intPtr(5), MinImageWidth: intPtr(800)},
		{ID: 2, EventID: 5, AssetType: domain.AssetBio, Label: "Bio", SortOrder: 1},
	}
	require.NoError(t, NewFileCatalogCache(ws).Save(ctx, 5, reqs))

	// a fresh cache must read what the first one wrote
	fresh := NewFileCatalogCache(ws)
	got, err := fresh.Get(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Headshot", got[0].Label)
	require.NotNil(t, got[0].MaxFileSizeMB)
	assert.Equal(t, 5, *got[0].MaxFileSizeMB)
	assert.Nil(t, got[1].MinImageWidth)

	savedAt, err := fresh.SavedAt(ctx, 5)
	require.NoError(t, err)
	assert.False(t, savedAt.IsZero())
}

func TestFileCatalogCache_GetReturnsCopy(t *testing.T) {
	cache := NewFileCatalogCache(newTestWorkspace(t))
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, 1, []domain.AssetRequirement{{ID: 1, Label: "Logo"}}))

	got, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	got[0].Label = "changed"

	again, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Logo", again[0].Label)
}

func TestFileCatalogCache_CorruptSnapshot(t *testing.T) {
	ws := newTestWorkspace(t)
	path := ws.CatalogSnapshotPath(3)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewFileCatalogCache(ws).Get(context.Background(), 3)
	require.Error(t, err)
	assert.False(t, errors.Is(err, os.ErrNotExist))
}
