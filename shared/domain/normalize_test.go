package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_MissingId(t *testing.T) {
	assert.Nil(t, Normalize(RawAssetRecord{}))
	assert.Nil(t, Normalize(RawAssetRecord{Id: "   ", Name: "a.jpg"}))
}

func TestNormalize_Defaults(t *testing.T) {
	asset := Normalize(RawAssetRecord{Id: "42"})
	require.NotNil(t, asset)

	assert.Equal(t, "42", asset.Id)
	assert.Equal(t, DefaultName, asset.Name)
	assert.Equal(t, int64(0), asset.SizeBytes)
	assert.Equal(t, DefaultMimeType, asset.MimeType)
	assert.Equal(t, CategoryArchive, asset.Category)
	assert.Equal(t, StateCompleted, asset.State)
	assert.Empty(t, asset.ErrorDetail)
	assert.Nil(t, asset.FolderId)
	assert.Nil(t, asset.Tags)
}

func TestNormalize_NegativeSizeClamped(t *testing.T) {
	asset := Normalize(RawAssetRecord{Id: "1", SizeBytes: -100})
	require.NotNil(t, asset)
	assert.Equal(t, int64(0), asset.SizeBytes)
}

func TestNormalize_CategoryDerivation(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		category string
		want     Category
	}{
		{"explicit category wins", "image/png", "hero", CategoryHero},
		{"invalid category falls back to mime", "image/png", "selfies", CategoryPhotos},
		{"image", "image/jpeg", "", CategoryPhotos},
		{"video", "video/mp4", "", CategoryVideos},
		{"pdf", "application/pdf", "", CategoryDocuments},
		{"word document", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "", CategoryDocuments},
		{"plain text", "text/plain", "", CategoryDocuments},
		{"anything else", "application/zip", "", CategoryArchive},
		{"no mime at all", "", "", CategoryArchive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asset := Normalize(RawAssetRecord{Id: "1", MimeType: tt.mimeType, Category: tt.category})
			require.NotNil(t, asset)
			assert.Equal(t, tt.want, asset.Category)
		})
	}
}

func TestNormalize_TagsDeduplicated(t *testing.T) {
	asset := Normalize(RawAssetRecord{Id: "1", Tags: []string{"ruin", "", "unesco", "ruin", "  "}})
	require.NotNil(t, asset)
	assert.Equal(t, []string{"ruin", "unesco"}, asset.Tags)
}

func TestNormalize_LifecycleErrorPairing(t *testing.T) {
	t.Run("error state gets a detail", func(t *testing.T) {
		asset := Normalize(RawAssetRecord{Id: "1", State: "error"})
		require.NotNil(t, asset)
		assert.Equal(t, StateError, asset.State)
		assert.NotEmpty(t, asset.ErrorDetail)
	})

	t.Run("non-error state drops stray detail", func(t *testing.T) {
		asset := Normalize(RawAssetRecord{Id: "1", State: "completed", ErrorDetail: "stale"})
		require.NotNil(t, asset)
		assert.Empty(t, asset.ErrorDetail)
	})

	t.Run("unknown state treated as completed", func(t *testing.T) {
		asset := Normalize(RawAssetRecord{Id: "1", State: "pending"})
		require.NotNil(t, asset)
		assert.Equal(t, StateCompleted, asset.State)
	})
}

func TestNormalize_EmptyFolderIdIsRoot(t *testing.T) {
	empty := ""
	asset := Normalize(RawAssetRecord{Id: "1", FolderId: &empty})
	require.NotNil(t, asset)
	assert.Nil(t, asset.FolderId)
}

func TestNormalize_Idempotent(t *testing.T) {
	folder := "f-9"
	records := []RawAssetRecord{
		{Id: "1"},
		{Id: "2", Name: "chapel.jpg", SizeBytes: 2048, MimeType: "image/jpeg", Category: "hero",
			FolderId: &folder, Tags: []string{"b", "a", "b"}, Description: "west *facade*",
			PreviewSource: "https://gw/assets/2/download", State: "completed",
			UploadedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), UploadedBy: "curator"},
		{Id: "3", State: "error", MimeType: "video/mp4"},
	}

	for _, raw := range records {
		once := Normalize(raw)
		require.NotNil(t, once)
		twice := Normalize(once.Raw())
		require.NotNil(t, twice)
		assert.Equal(t, once, twice)
	}
}

func TestAsset_Clone(t *testing.T) {
	folder := "f-1"
	original := Normalize(RawAssetRecord{Id: "1", FolderId: &folder, Tags: []string{"x"}})
	require.NotNil(t, original)

	clone := original.Clone()
	clone.Tags = append(clone.Tags, "y")
	*clone.FolderId = "f-2"

	assert.Equal(t, []string{"x"}, original.Tags)
	assert.Equal(t, "f-1", *original.FolderId)
}
