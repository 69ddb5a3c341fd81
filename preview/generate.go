package preview

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/monumenta/mediasync/shared/domain"
)

// ForFile builds a local preview blob for a freshly accepted file.
//
// Images are decoded for dimensions and kept as displayable bytes. Videos
// keep their raw bytes so the viewer can seek the opening frame; extracting a
// poster frame proper would need a transcoder this library does not carry.
// Everything else renders as a type icon upstream and gets no blob.
func ForFile(file domain.LocalFile) *Blob {
	switch {
	case strings.HasPrefix(file.MimeType, "image/"):
		cfg, _, err := image.DecodeConfig(bytes.NewReader(file.Content))
		if err != nil {
			// Claimed to be an image but does not decode. Still displayable
			// as a generic blob, just without dimensions.
			return newBlob(file.Content, file.MimeType, 0, 0)
		}
		return newBlob(file.Content, file.MimeType, cfg.Width, cfg.Height)
	case strings.HasPrefix(file.MimeType, "video/"):
		return newBlob(file.Content, file.MimeType, 0, 0)
	}
	return nil
}
