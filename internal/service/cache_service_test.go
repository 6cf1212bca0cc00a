package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/baniere/baniere-api/pkg/errors"
)

type cacheRepoStub struct {
	store map[string][]byte
	ttls  map[string]time.Duration
}

func newCacheRepoStub() *cacheRepoStub {
	return &cacheRepoStub{store: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (r *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := r.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (r *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.store[key] = raw
	r.ttls[key] = ttl
	return nil
}

func (r *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	r.store = make(map[string][]byte)
	return nil
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newCacheRepoStub()
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)

	require.NoError(t, svc.Set(context.Background(), "k", map[string]int{"n": 7}, 0))

	var out map[string]int
	hit, err := svc.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 7, out["n"])
	assert.Equal(t, time.Minute, repo.ttls["k"], "zero TTL falls back to the default")
}

func TestCacheServiceMiss(t *testing.T) {
	svc := NewCacheService(newCacheRepoStub(), nil, time.Minute, zap.NewNop(), true)

	var out map[string]int
	hit, err := svc.Get(context.Background(), "absent", &out)
	require.NoError(t, err, "a miss is not an error")
	assert.False(t, hit)
}

func TestCacheServiceDisabled(t *testing.T) {
	repo := newCacheRepoStub()
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), false)

	require.NoError(t, svc.Set(context.Background(), "k", "v", 0))
	assert.Empty(t, repo.store, "disabled service never touches the repository")

	var out string
	hit, err := svc.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCacheServiceNilRepo(t *testing.T) {
	svc := NewCacheService(nil, nil, time.Minute, zap.NewNop(), true)

	assert.False(t, svc.Enabled())
	hit, err := svc.GetResult(context.Background(), "k", nil)
	require.NoError(t, err)
	assert.False(t, hit)
	require.NoError(t, svc.SetResult(context.Background(), "k", "v"))
}
