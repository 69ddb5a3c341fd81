package gateway

import (
	"time"

	"github.com/monumenta/mediasync/shared/domain"
)

// assetRecord is the gateway's wire schema for one asset.
type assetRecord struct {
	Id          string    `json:"id"`
	FileName    string    `json:"fileName"`
	FileSize    int64     `json:"fileSize"`
	FileType    string    `json:"fileType"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	FolderId    *string   `json:"folderId"`
	Tags        []string  `json:"tags"`
	DownloadUrl string    `json:"downloadUrl"`
	UploadedAt  time.Time `json:"uploadedAt"`
	UploadedBy  string    `json:"uploadedBy"`
}

// raw converts a wire record to the normalizer's input shape. A missing
// download URL is derived from the id, so every persisted asset has a
// server-backed preview source.
func (c *Client) raw(r assetRecord) domain.RawAssetRecord {
	preview := r.DownloadUrl
	if preview == "" && r.Id != "" {
		preview = c.DownloadURL(r.Id)
	}
	return domain.RawAssetRecord{
		Id:            r.Id,
		Name:          r.FileName,
		SizeBytes:     r.FileSize,
		MimeType:      r.FileType,
		Category:      r.Category,
		FolderId:      r.FolderId,
		Tags:          r.Tags,
		Description:   r.Description,
		PreviewSource: preview,
		UploadedAt:    r.UploadedAt,
		UploadedBy:    r.UploadedBy,
	}
}

type folderRecord struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type patchPayload struct {
	Description  *string    `json:"description,omitempty"`
	Category     *string    `json:"category,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	DateTaken    *time.Time `json:"dateTaken,omitempty"`
	Photographer *string    `json:"photographer,omitempty"`
	IsPublic     *bool      `json:"isPublic,omitempty"`
}

type movePayload struct {
	FolderId string `json:"folderId"`
}
