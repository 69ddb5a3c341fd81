package domain

import (
	"io"
	"time"
)

// LocalFile is a user-selected file before validation. Content is fully in
// memory: gallery uploads are bounded by the configured size cap.
type LocalFile struct {
	Name      string
	SizeBytes int64
	MimeType  string
	Content   []byte
}

// UploadRequest is the gateway's multipart upload contract.
type UploadRequest struct {
	FileName    string
	MimeType    string
	SizeBytes   int64
	Description string
	Category    Category
	IsPublic    bool
	FolderId    *FolderId
	Content     io.Reader
}

// MetadataPatch carries the partial fields of a metadata patch call. Nil
// means "leave unchanged".
type MetadataPatch struct {
	Description  *string
	Category     *Category
	Tags         []string
	DateTaken    *time.Time
	Photographer *string
	IsPublic     *bool
}
