// Package bulk applies one operation to a set of selected assets against the
// gateway, with per-item accounting and cache reconciliation that tolerates
// partial failure.
package bulk

import (
	"context"
	"errors"
	"sync"

	"github.com/monumenta/mediasync/cache"
	"github.com/monumenta/mediasync/metrics"
	"github.com/monumenta/mediasync/shared/domain"
	"github.com/monumenta/mediasync/shared/logger"
)

// Gateway is the slice of the remote store the coordinator needs.
type Gateway interface {
	DeleteAsset(ctx context.Context, id domain.AssetId) error
	PatchAsset(ctx context.Context, id domain.AssetId, patch domain.MetadataPatch) (domain.RawAssetRecord, error)
	MoveAsset(ctx context.Context, id domain.AssetId, folderId domain.FolderId) error
}

type Kind string

const (
	KindDelete       Kind = "delete"
	KindRecategorize Kind = "recategorize"
	KindAddTag       Kind = "add_tag"
	KindMove         Kind = "move"
)

// Operation is one bulk gesture over a selection. Exactly one payload field
// is meaningful, depending on Kind.
type Operation struct {
	Kind     Kind
	Ids      domain.IdSet
	Category domain.Category  // KindRecategorize
	Tag      string           // KindAddTag
	FolderId *domain.FolderId // KindMove
}

var (
	ErrNoDestination   = errors.New("move requires a destination folder")
	ErrInvalidCategory = errors.New("invalid category")
	ErrEmptyTag        = errors.New("tag must not be empty")
	ErrUnknownKind     = errors.New("unknown bulk operation")
)

type Coordinator struct {
	gateway Gateway
	cache   *cache.Cache
}

func New(gateway Gateway, c *cache.Cache) *Coordinator {
	return &Coordinator{gateway: gateway, cache: c}
}

// Apply runs the operation. Per-id gateway calls fire concurrently and
// reconcile independently; the result is a join over all of them, never a
// thrown error. The returned error covers payload validation only and is
// produced before any network call.
func (co *Coordinator) Apply(ctx context.Context, op Operation) (domain.BulkResult, error) {
	switch op.Kind {
	case KindDelete:
	case KindRecategorize:
		if !op.Category.Valid() {
			return domain.BulkResult{}, ErrInvalidCategory
		}
	case KindAddTag:
		if op.Tag == "" {
			return domain.BulkResult{}, ErrEmptyTag
		}
	case KindMove:
		if op.FolderId == nil || *op.FolderId == "" {
			return domain.BulkResult{}, ErrNoDestination
		}
	default:
		return domain.BulkResult{}, ErrUnknownKind
	}

	join := newJoin()
	for _, id := range op.Ids.Slice() {
		join.wg.Add(1)
		go func(id domain.AssetId) {
			defer join.wg.Done()
			join.record(id, co.applyOne(ctx, op, id))
		}(id)
	}
	join.wg.Wait()

	result := join.result()
	outcome := outcomeLabel(result)
	metrics.BulkOperationsTotal.WithLabelValues(string(op.Kind), outcome).Inc()
	logger.Log.Info("bulk operation finished",
		"kind", op.Kind, "outcome", outcome,
		"succeeded", len(result.Succeeded), "failed", len(result.Failed))

	return result, nil
}

func (co *Coordinator) applyOne(ctx context.Context, op Operation, id domain.AssetId) error {
	var err error
	switch op.Kind {
	case KindDelete:
		err = co.deleteOne(ctx, id)
	case KindRecategorize:
		err = co.recategorizeOne(ctx, id, op.Category)
	case KindAddTag:
		err = co.addTagOne(ctx, id, op.Tag)
	case KindMove:
		err = co.moveOne(ctx, id, *op.FolderId)
	}

	if err != nil {
		metrics.BulkItemsTotal.WithLabelValues(string(op.Kind), "error").Inc()
		logger.Log.Error("bulk item failed", "kind", op.Kind, "asset_id", id, "error", err)
	} else {
		metrics.BulkItemsTotal.WithLabelValues(string(op.Kind), "ok").Inc()
	}
	return err
}

// deleteOne removes the cache entry only on confirmed gateway success.
// Optimistic removal with rollback is deliberately not used: reinserting a
// removed asset would resurrect it with possibly stale metadata.
func (co *Coordinator) deleteOne(ctx context.Context, id domain.AssetId) error {
	if err := co.gateway.DeleteAsset(ctx, id); err != nil {
		return err
	}
	co.cache.Remove(id)
	return nil
}

// recategorizeOne applies the new category optimistically, then confirms with
// the gateway. On failure only this asset's category reverts to its
// pre-operation value.
func (co *Coordinator) recategorizeOne(ctx context.Context, id domain.AssetId, category domain.Category) error {
	asset, ok := co.cache.Get(id)
	if !ok {
		return errors.New("asset not tracked")
	}
	prior := asset.Category

	co.mutate(id, func(a *domain.Asset) { a.Category = category })

	if _, err := co.gateway.PatchAsset(ctx, id, domain.MetadataPatch{Category: &category}); err != nil {
		co.mutate(id, func(a *domain.Asset) { a.Category = prior })
		return err
	}
	return nil
}

// addTagOne appends the tag optimistically and reverts this asset's tag set
// on gateway failure.
func (co *Coordinator) addTagOne(ctx context.Context, id domain.AssetId, tag string) error {
	asset, ok := co.cache.Get(id)
	if !ok {
		return errors.New("asset not tracked")
	}
	if asset.HasTag(tag) {
		return nil // tags are a set; nothing to do, nothing to confirm
	}
	prior := append([]string(nil), asset.Tags...)
	next := append(append([]string(nil), asset.Tags...), tag)

	co.mutate(id, func(a *domain.Asset) { a.Tags = next })

	if _, err := co.gateway.PatchAsset(ctx, id, domain.MetadataPatch{Tags: next}); err != nil {
		co.mutate(id, func(a *domain.Asset) { a.Tags = prior })
		return err
	}
	return nil
}

// moveOne is not optimistic: folderId changes only after the gateway accepts
// the move.
func (co *Coordinator) moveOne(ctx context.Context, id domain.AssetId, folderId domain.FolderId) error {
	if err := co.gateway.MoveAsset(ctx, id, folderId); err != nil {
		return err
	}
	co.mutate(id, func(a *domain.Asset) {
		f := folderId
		a.FolderId = &f
	})
	return nil
}

// mutate clones the current entry, applies fn and writes it back. Clone keeps
// snapshot readers safe; when two overlapping operations race on one field,
// the last gateway completion wins.
func (co *Coordinator) mutate(id domain.AssetId, fn func(*domain.Asset)) {
	current, ok := co.cache.Get(id)
	if !ok {
		return
	}
	next := current.Clone()
	fn(next)
	co.cache.Upsert(next)
}

// join collects per-id verdicts from concurrent goroutines.
type join struct {
	wg        sync.WaitGroup
	mu        sync.Mutex
	succeeded domain.IdSet
	failed    domain.IdSet
}

func newJoin() *join {
	return &join{succeeded: domain.NewIdSet(), failed: domain.NewIdSet()}
}

func (j *join) record(id domain.AssetId, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err != nil {
		j.failed.Add(id)
	} else {
		j.succeeded.Add(id)
	}
}

func (j *join) result() domain.BulkResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	return domain.BulkResult{Succeeded: j.succeeded, Failed: j.failed}
}

func outcomeLabel(r domain.BulkResult) string {
	switch r.Outcome() {
	case domain.OutcomeAllSucceeded:
		return "success"
	case domain.OutcomeAllFailed:
		return "failure"
	}
	return "partial"
}
