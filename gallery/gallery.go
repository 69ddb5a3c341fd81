// Package gallery wires the sync core together behind one embeddable facade:
// hydration from the gateway, upload submission, bulk operations over the
// current selection and the display projection.
package gallery

import (
	"context"
	"sync"

	"github.com/monumenta/mediasync/bulk"
	"github.com/monumenta/mediasync/cache"
	"github.com/monumenta/mediasync/gateway"
	"github.com/monumenta/mediasync/projection"
	"github.com/monumenta/mediasync/shared/config"
	"github.com/monumenta/mediasync/shared/domain"
	"github.com/monumenta/mediasync/shared/logger"
	"github.com/monumenta/mediasync/shared/validation"
	"github.com/monumenta/mediasync/upload"
)

// Gateway is the full remote surface the gallery consumes.
type Gateway interface {
	upload.Uploader
	bulk.Gateway
	ListAssets(ctx context.Context, siteId domain.SiteId) ([]domain.RawAssetRecord, error)
	ListFolders(ctx context.Context, siteId domain.SiteId) []domain.Folder
}

// Ensure the HTTP client implements the interface at compile time.
var _ Gateway = (*gateway.Client)(nil)

type Gallery struct {
	siteId      domain.SiteId
	gateway     Gateway
	cache       *cache.Cache
	pipeline    *upload.Pipeline
	coordinator *bulk.Coordinator
	projector   *projection.Projector
	selection   *Selection

	mu      sync.RWMutex
	folders []domain.Folder
}

// New builds a gallery for one site. uploadedBy is the display name recorded
// as provenance on provisional uploads.
func New(cfg *config.Config, gw Gateway, siteId domain.SiteId, uploadedBy string) *Gallery {
	c := cache.New()
	limits := validation.Limits{
		MaxFileSizeBytes: cfg.Limits.MaxFileSizeBytes,
		MaxAssetsPerSite: cfg.Limits.MaxAssetsPerSite,
	}

	return &Gallery{
		siteId:      siteId,
		gateway:     gw,
		cache:       c,
		pipeline:    upload.New(gw, c, cfg.AllowedMimes(), limits, uploadedBy),
		coordinator: bulk.New(gw, c),
		projector:   projection.New(),
		selection:   NewSelection(),
	}
}

// Refresh rehydrates the cache from the server of record. Records without a
// usable id are dropped. Folder listing failure is non-fatal and leaves the
// previous folder list in place.
func (g *Gallery) Refresh(ctx context.Context) error {
	records, err := g.gateway.ListAssets(ctx, g.siteId)
	if err != nil {
		return err
	}

	assets := make([]*domain.Asset, 0, len(records))
	dropped := 0
	for _, raw := range records {
		asset := domain.Normalize(raw)
		if asset == nil {
			dropped++
			continue
		}
		assets = append(assets, asset)
	}
	if dropped > 0 {
		logger.Log.Warn("dropped unusable gateway records", "site", g.siteId, "count", dropped)
	}

	g.cache.ReplaceAll(assets)

	if folders := g.gateway.ListFolders(ctx, g.siteId); folders != nil {
		g.mu.Lock()
		g.folders = folders
		g.mu.Unlock()
	}

	logger.Log.Info("gallery hydrated", "site", g.siteId, "assets", len(assets))
	return nil
}

// Submit validates and uploads a batch of local files. See upload.Pipeline.
func (g *Gallery) Submit(ctx context.Context, files []domain.LocalFile, folderId *domain.FolderId) *upload.Receipt {
	return g.pipeline.Submit(ctx, files, folderId)
}

// ApplyToSelection runs a bulk operation over the current selection and then
// clears it, whatever the per-item outcome, so failed items never stay stuck
// in a selected state. A payload validation error means nothing ran; the
// selection survives for a corrected retry. An empty selection is a no-op.
func (g *Gallery) ApplyToSelection(ctx context.Context, op bulk.Operation) (domain.BulkResult, error) {
	op.Ids = g.selection.Ids()
	if len(op.Ids) == 0 {
		return domain.BulkResult{Succeeded: domain.NewIdSet(), Failed: domain.NewIdSet()}, nil
	}

	result, err := g.coordinator.Apply(ctx, op)
	if err != nil {
		return result, err
	}

	g.selection.Clear()
	return result, nil
}

// View projects the current cache contents for rendering.
func (g *Gallery) View(filter projection.Filter, key projection.SortKey) []projection.DisplayAsset {
	return g.projector.Project(g.cache.Snapshot(), filter, key)
}

func (g *Gallery) Selection() *Selection {
	return g.selection
}

// Folders returns the last known folder list.
func (g *Gallery) Folders() []domain.Folder {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]domain.Folder(nil), g.folders...)
}

// Assets exposes the cache snapshot for callers that need raw entries.
func (g *Gallery) Assets() []*domain.Asset {
	return g.cache.Snapshot()
}

// Close releases every local preview resource. Call on view unmount.
func (g *Gallery) Close() {
	g.cache.ReplaceAll(nil)
	g.selection.Clear()
}
