package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/baniere/baniere-api/internal/models"
	"github.com/baniere/baniere-api/pkg/config"
)

// CatalogRepository owns the raw Banner course dump: a timestamped snapshot
// read from disk, refreshed when the TTL expires or the file changes.
type CatalogRepository struct {
	path   string
	ttl    time.Duration
	logger *zap.Logger

	mu       sync.RWMutex
	snapshot *models.BannerResponse
	loadedAt time.Time

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewCatalogRepository constructs a repository over the configured dump file.
func NewCatalogRepository(cfg config.CatalogConfig, logger *zap.Logger) *CatalogRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CatalogRepository{
		path:   cfg.Path,
		ttl:    ttl,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Load returns the current catalog snapshot, re-reading the file when the
// cached copy has expired. Concurrent callers share one snapshot.
func (r *CatalogRepository) Load(ctx context.Context) (*models.BannerResponse, error) {
	r.mu.RLock()
	if r.snapshot != nil && time.Since(r.loadedAt) < r.ttl {
		snap := r.snapshot
		r.mu.RUnlock()
		return snap, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snapshot != nil && time.Since(r.loadedAt) < r.ttl {
		return r.snapshot, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", r.path, err)
	}

	snapshot := &models.BannerResponse{}
	if err := json.Unmarshal(raw, snapshot); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", r.path, err)
	}

	r.snapshot = snapshot
	r.loadedAt = time.Now()
	r.logger.Info("catalog snapshot loaded",
		zap.String("path", r.path),
		zap.Int("courses", len(snapshot.Data)),
	)

	return snapshot, nil
}

// Invalidate drops the snapshot so the next Load re-reads the file.
func (r *CatalogRepository) Invalidate() {
	r.mu.Lock()
	r.snapshot = nil
	r.mu.Unlock()
}

// Watch invalidates the snapshot whenever the dump file is rewritten on
// disk, so operators can refresh the catalog without waiting out the TTL.
func (r *CatalogRepository) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create catalog watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(r.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch catalog dir: %w", err)
	}
	r.watcher = watcher

	go func() {
		base := filepath.Base(r.path)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				r.logger.Info("catalog file changed, invalidating snapshot",
					zap.String("event", event.Op.String()))
				r.Invalidate()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.logger.Warn("catalog watcher error", zap.Error(err))
			case <-r.done:
				return
			}
		}
	}()

	return nil
}

// Close stops the file watcher if one is running.
func (r *CatalogRepository) Close() error {
	close(r.done)
	if r.watcher != nil {
		return r.watcher.Close()
	}
	return nil
}
