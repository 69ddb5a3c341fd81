package preview

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monumenta/mediasync/shared/domain"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestForFile_Image(t *testing.T) {
	blob := ForFile(domain.LocalFile{Name: "a.png", MimeType: "image/png", Content: pngBytes(t, 3, 2)})
	require.NotNil(t, blob)

	w, h := blob.Dimensions()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
	assert.NotEmpty(t, blob.Data())
	assert.Contains(t, blob.URI(), "blob:mediasync/")
}

func TestForFile_UndecodableImage(t *testing.T) {
	blob := ForFile(domain.LocalFile{Name: "a.png", MimeType: "image/png", Content: []byte("not an image")})
	require.NotNil(t, blob)

	w, h := blob.Dimensions()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestForFile_Video(t *testing.T) {
	blob := ForFile(domain.LocalFile{Name: "v.mp4", MimeType: "video/mp4", Content: []byte{0, 1, 2}})
	require.NotNil(t, blob)
	assert.Equal(t, "video/mp4", blob.MimeType())
}

func TestForFile_NoPreviewForDocuments(t *testing.T) {
	assert.Nil(t, ForFile(domain.LocalFile{Name: "d.pdf", MimeType: "application/pdf"}))
}

func TestBlob_ReleaseIdempotent(t *testing.T) {
	blob := ForFile(domain.LocalFile{Name: "v.mp4", MimeType: "video/mp4", Content: []byte{1}})
	require.NotNil(t, blob)
	assert.False(t, blob.Released())

	blob.Release()
	assert.True(t, blob.Released())
	assert.Nil(t, blob.Data())

	blob.Release() // second release is a no-op
	assert.True(t, blob.Released())
}

func TestBlob_UniqueURIs(t *testing.T) {
	a := ForFile(domain.LocalFile{MimeType: "video/mp4", Content: []byte{1}})
	b := ForFile(domain.LocalFile{MimeType: "video/mp4", Content: []byte{1}})
	assert.NotEqual(t, a.URI(), b.URI())
}
