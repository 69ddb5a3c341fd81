package domain

import (
	"strings"
	"time"
)

// Fallbacks used when a raw record omits descriptive metadata. The cache must
// never hold empty name/mime fields, whatever shape the record arrived in.
const (
	DefaultName     = "Unknown File"
	DefaultMimeType = "application/octet-stream"

	unknownErrorDetail = "unknown error"
)

// RawAssetRecord is the loose shape produced by the gateway's response schema
// or by local file selection, before normalization. Every field except Id is
// optional.
type RawAssetRecord struct {
	Id            string
	Name          string
	SizeBytes     int64
	MimeType      string
	Category      string
	FolderId      *string
	Tags          []string
	Description   string
	PreviewSource string
	State         string
	ErrorDetail   string
	UploadedAt    time.Time
	UploadedBy    string
}

// Normalize converts a raw record into a canonical Asset. It is pure and
// idempotent: feeding the result back through (via Asset.Raw) changes nothing.
// Returns nil only when the record has no usable identifier; the caller drops
// such records.
func Normalize(raw RawAssetRecord) *Asset {
	id := strings.TrimSpace(raw.Id)
	if id == "" {
		return nil
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = DefaultName
	}

	size := raw.SizeBytes
	if size < 0 {
		size = 0
	}

	mimeType := strings.TrimSpace(raw.MimeType)
	if mimeType == "" {
		mimeType = DefaultMimeType
	}

	category := Category(raw.Category)
	if !category.Valid() {
		category = CategoryForMime(mimeType)
	}

	state := LifecycleState(raw.State)
	if !state.Valid() {
		// Records hydrated from the server of record are persisted uploads.
		state = StateCompleted
	}

	detail := raw.ErrorDetail
	if state == StateError && detail == "" {
		detail = unknownErrorDetail
	}
	if state != StateError {
		detail = ""
	}

	var folderId *FolderId
	if raw.FolderId != nil && *raw.FolderId != "" {
		id := *raw.FolderId
		folderId = &id
	}

	return &Asset{
		Id:            id,
		Name:          name,
		SizeBytes:     size,
		MimeType:      mimeType,
		Category:      category,
		FolderId:      folderId,
		Tags:          dedupeTags(raw.Tags),
		Description:   raw.Description,
		PreviewSource: raw.PreviewSource,
		State:         state,
		ErrorDetail:   detail,
		UploadedAt:    raw.UploadedAt,
		UploadedBy:    raw.UploadedBy,
	}
}

// Raw converts an asset back to the loose record shape. Normalize(a.Raw()) is
// equal to a for any normalized asset.
func (a *Asset) Raw() RawAssetRecord {
	var folderId *string
	if a.FolderId != nil {
		id := *a.FolderId
		folderId = &id
	}
	return RawAssetRecord{
		Id:            a.Id,
		Name:          a.Name,
		SizeBytes:     a.SizeBytes,
		MimeType:      a.MimeType,
		Category:      string(a.Category),
		FolderId:      folderId,
		Tags:          append([]string(nil), a.Tags...),
		Description:   a.Description,
		PreviewSource: a.PreviewSource,
		State:         string(a.State),
		ErrorDetail:   a.ErrorDetail,
		UploadedAt:    a.UploadedAt,
		UploadedBy:    a.UploadedBy,
	}
}

// dedupeTags drops empty and duplicate tags, keeping first occurrence order.
func dedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
