// Package upload turns user-selected files into tracked cache entries and
// reconciles each with the gateway.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/monumenta/mediasync/cache"
	"github.com/monumenta/mediasync/metrics"
	"github.com/monumenta/mediasync/preview"
	"github.com/monumenta/mediasync/shared/domain"
	"github.com/monumenta/mediasync/shared/logger"
	"github.com/monumenta/mediasync/shared/validation"
)

// Uploader is the slice of the gateway the pipeline needs.
type Uploader interface {
	UploadAsset(ctx context.Context, req domain.UploadRequest) (domain.RawAssetRecord, error)
}

type Pipeline struct {
	uploader     Uploader
	cache        *cache.Cache
	allowedMimes map[string]bool
	limits       validation.Limits
	uploadedBy   string

	// localSeq keeps provisional ids unique across batches submitted within
	// the same millisecond.
	localSeq atomic.Int64
}

func New(uploader Uploader, c *cache.Cache, allowedMimes map[string]bool, limits validation.Limits, uploadedBy string) *Pipeline {
	return &Pipeline{
		uploader:     uploader,
		cache:        c,
		allowedMimes: allowedMimes,
		limits:       limits,
		uploadedBy:   uploadedBy,
	}
}

// Receipt reports the synchronous part of a submission: which files were
// rejected at validation and the provisional ids of the accepted ones, in
// selection order. Wait blocks until every dispatched upload has reconciled.
type Receipt struct {
	BatchId  string
	Accepted []domain.AssetId
	Rejected []validation.Rejection

	wg *sync.WaitGroup
}

func (r *Receipt) Wait() {
	r.wg.Wait()
}

// Submit validates the batch, inserts provisional assets synchronously so the
// gallery shows pending uploads immediately, then dispatches one concurrent
// upload per accepted file. Failure of one upload never blocks or rolls back
// a sibling. There is no automatic retry; retry is a user re-submission.
func (p *Pipeline) Submit(ctx context.Context, files []domain.LocalFile, folderId *domain.FolderId) *Receipt {
	accepted, rejected := validation.ValidateFiles(files, p.allowedMimes, p.limits, p.cache.Len())

	receipt := &Receipt{
		BatchId:  uuid.NewString(),
		Rejected: rejected,
		wg:       &sync.WaitGroup{},
	}
	for _, rej := range rejected {
		metrics.UploadsTotal.WithLabelValues("rejected").Inc()
		logger.Log.Info("file rejected at validation",
			"batch_id", receipt.BatchId, "file", rej.File.Name, "reason", rej.Err.Error())
	}

	now := time.Now()
	for _, file := range accepted {
		localId := fmt.Sprintf("local-%d-%d", now.UnixMilli(), p.localSeq.Add(1))
		blob := preview.ForFile(file)

		provisional := &domain.Asset{
			Id:         localId,
			Name:       file.Name,
			SizeBytes:  file.SizeBytes,
			MimeType:   file.MimeType,
			Category:   domain.CategoryForMime(file.MimeType),
			State:      domain.StateUploading,
			UploadedAt: now,
			UploadedBy: p.uploadedBy,
		}
		if folderId != nil {
			id := *folderId
			provisional.FolderId = &id
		}
		if blob != nil {
			provisional.Preview = blob
			provisional.PreviewSource = blob.URI()
		}

		p.cache.Upsert(provisional)
		receipt.Accepted = append(receipt.Accepted, localId)

		receipt.wg.Add(1)
		go func(file domain.LocalFile, localId domain.AssetId) {
			defer receipt.wg.Done()
			p.dispatch(ctx, receipt.BatchId, localId, file, folderId)
		}(file, localId)
	}

	return receipt
}

// dispatch uploads one file and reconciles the provisional cache entry with
// the gateway's verdict.
func (p *Pipeline) dispatch(ctx context.Context, batchId string, localId domain.AssetId, file domain.LocalFile, folderId *domain.FolderId) {
	record, err := p.uploader.UploadAsset(ctx, domain.UploadRequest{
		FileName:  file.Name,
		MimeType:  file.MimeType,
		SizeBytes: file.SizeBytes,
		Category:  domain.CategoryForMime(file.MimeType),
		FolderId:  folderId,
		Content:   bytes.NewReader(file.Content),
	})
	if err != nil {
		p.fail(batchId, localId, file.Name, err)
		return
	}

	confirmed := domain.Normalize(record)
	if confirmed == nil {
		p.fail(batchId, localId, file.Name, fmt.Errorf("gateway returned a record without an id"))
		return
	}
	confirmed.State = domain.StateCompleted
	confirmed.ErrorDetail = ""

	// Keep local provenance when the server omits it.
	if provisional, ok := p.cache.Get(localId); ok {
		if confirmed.UploadedAt.IsZero() {
			confirmed.UploadedAt = provisional.UploadedAt
		}
		if confirmed.UploadedBy == "" {
			confirmed.UploadedBy = provisional.UploadedBy
		}
		if confirmed.FolderId == nil {
			confirmed.FolderId = provisional.FolderId
		}
	}

	// Same slot, server id supersedes the local one, local preview released.
	p.cache.Supersede(localId, confirmed)

	metrics.UploadsTotal.WithLabelValues("completed").Inc()
	metrics.UploadBytesTotal.Add(float64(file.SizeBytes))
	logger.Log.Info("upload confirmed",
		"batch_id", batchId, "local_id", localId, "asset_id", confirmed.Id, "file", file.Name)
}

// fail transitions the provisional asset to the error state. The entry stays
// visible so the user can retry or remove it.
func (p *Pipeline) fail(batchId string, localId domain.AssetId, fileName string, err error) {
	if current, ok := p.cache.Get(localId); ok {
		failed := current.Clone()
		failed.State = domain.StateError
		failed.ErrorDetail = err.Error()
		p.cache.Upsert(failed)
	}

	metrics.UploadsTotal.WithLabelValues("error").Inc()
	logger.Log.Error("upload failed",
		"batch_id", batchId, "local_id", localId, "file", fileName, "error", err)
}
