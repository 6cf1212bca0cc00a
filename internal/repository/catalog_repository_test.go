package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/baniere/baniere-api/pkg/config"
)

func writeCatalog(t *testing.T, path, payload string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))
}

const catalogPayload = `{
	"success": true,
	"totalCount": 1,
	"data": [
		{
			"id": 1,
			"term": "202510",
			"courseReferenceNumber": "10001",
			"subject": "MATE",
			"subjectCourse": "MATE1203",
			"sequenceNumber": "1",
			"courseTitle": "CALCULO DIFERENCIAL",
			"creditHourLow": 3,
			"openSection": true
		}
	]
}`

func TestCatalogRepositoryLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.json")
	writeCatalog(t, path, catalogPayload)

	repo := NewCatalogRepository(config.CatalogConfig{Path: path, TTL: time.Hour}, zap.NewNop())
	defer repo.Close() //nolint:errcheck

	snapshot, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Data, 1)
	assert.Equal(t, "MATE1203", snapshot.Data[0].SubjectCourse)
}

func TestCatalogRepositoryCachesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.json")
	writeCatalog(t, path, catalogPayload)

	repo := NewCatalogRepository(config.CatalogConfig{Path: path, TTL: time.Hour}, zap.NewNop())
	defer repo.Close() //nolint:errcheck

	first, err := repo.Load(context.Background())
	require.NoError(t, err)

	// Rewriting the file without invalidation keeps serving the snapshot.
	writeCatalog(t, path, `{"success": true, "totalCount": 0, "data": []}`)
	second, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestCatalogRepositoryInvalidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.json")
	writeCatalog(t, path, catalogPayload)

	repo := NewCatalogRepository(config.CatalogConfig{Path: path, TTL: time.Hour}, zap.NewNop())
	defer repo.Close() //nolint:errcheck

	_, err := repo.Load(context.Background())
	require.NoError(t, err)

	writeCatalog(t, path, `{"success": true, "totalCount": 0, "data": []}`)
	repo.Invalidate()

	reloaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reloaded.Data)
}

func TestCatalogRepositoryMissingFile(t *testing.T) {
	repo := NewCatalogRepository(config.CatalogConfig{Path: filepath.Join(t.TempDir(), "missing.json"), TTL: time.Hour}, zap.NewNop())
	defer repo.Close() //nolint:errcheck

	_, err := repo.Load(context.Background())
	require.Error(t, err)
}

func TestCatalogRepositoryBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.json")
	writeCatalog(t, path, `{"success": tru`)

	repo := NewCatalogRepository(config.CatalogConfig{Path: path, TTL: time.Hour}, zap.NewNop())
	defer repo.Close() //nolint:errcheck

	_, err := repo.Load(context.Background())
	require.Error(t, err)
}
