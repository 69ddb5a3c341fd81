package domain

import (
	"strings"
	"time"
)

type (
	AssetId  = string
	FolderId = string
	SiteId   = string
)

// Category is the fixed gallery grouping an asset belongs to.
type Category string

const (
	CategoryHero      Category = "hero"
	CategoryPrimary   Category = "primary"
	CategoryPhotos    Category = "photos"
	CategoryVideos    Category = "videos"
	CategoryDocuments Category = "documents"
	CategoryArchive   Category = "archive"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryHero, CategoryPrimary, CategoryPhotos, CategoryVideos, CategoryDocuments, CategoryArchive:
		return true
	}
	return false
}

// CategoryForMime derives the default category from a MIME type.
func CategoryForMime(mimeType string) Category {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return CategoryPhotos
	case strings.HasPrefix(mimeType, "video/"):
		return CategoryVideos
	case mimeType == "application/pdf",
		strings.Contains(mimeType, "document"),
		strings.HasPrefix(mimeType, "text/"):
		return CategoryDocuments
	}
	return CategoryArchive
}

// LifecycleState is the tri-state upload status of an asset.
type LifecycleState string

const (
	StateUploading LifecycleState = "uploading"
	StateCompleted LifecycleState = "completed"
	StateError     LifecycleState = "error"
)

func (s LifecycleState) Valid() bool {
	switch s {
	case StateUploading, StateCompleted, StateError:
		return true
	}
	return false
}

// Releaser frees a local preview resource. Implementations must tolerate
// being called at most once per handle; callers must not release twice.
type Releaser interface {
	Release()
}

// Asset is the canonical unit tracked by the cache. Ids start out local
// (local-<timestamp>-<index>) and are superseded by the server id once the
// gateway confirms the upload.
type Asset struct {
	Id            AssetId
	Name          string
	SizeBytes     int64
	MimeType      string
	Category      Category
	FolderId      *FolderId
	Tags          []string
	Description   string
	PreviewSource string
	Preview       Releaser // non-nil only while the preview is a local blob
	State         LifecycleState
	ErrorDetail   string
	UploadedAt    time.Time
	UploadedBy    string
}

// Clone returns a deep enough copy for optimistic mutation: scalar fields,
// the tag slice and the folder pointer are detached, the preview handle is
// shared (there is exactly one live handle per local resource).
func (a *Asset) Clone() *Asset {
	c := *a
	if a.FolderId != nil {
		id := *a.FolderId
		c.FolderId = &id
	}
	if a.Tags != nil {
		c.Tags = append([]string(nil), a.Tags...)
	}
	return &c
}

func (a *Asset) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Folder is an external grouping entity assets may optionally belong to.
type Folder struct {
	Id          FolderId
	Name        string
	Description string
}
