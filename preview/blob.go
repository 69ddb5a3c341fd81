// Package preview manages local preview resources for assets that are not
// yet (or never were) persisted on the gateway. A Blob is the library's
// analogue of a browser object URL: it owns a chunk of decoded bytes and an
// addressable URI, and must be released exactly once when the owning asset
// leaves the cache or gains a server-backed preview.
package preview

import (
	"fmt"
	"sync"
	"sync/atomic"
)

var blobSeq atomic.Int64

type Blob struct {
	uri      string
	mimeType string
	width    int
	height   int

	mu       sync.Mutex
	data     []byte
	released bool
}

func newBlob(data []byte, mimeType string, width, height int) *Blob {
	return &Blob{
		uri:      fmt.Sprintf("blob:mediasync/%d", blobSeq.Add(1)),
		mimeType: mimeType,
		width:    width,
		height:   height,
		data:     data,
	}
}

// URI is the displayable address of the blob. It stays stable after release
// so stale references fail to resolve instead of pointing elsewhere.
func (b *Blob) URI() string { return b.uri }

func (b *Blob) MimeType() string { return b.mimeType }

// Dimensions returns pixel width and height, zero when unknown.
func (b *Blob) Dimensions() (int, int) { return b.width, b.height }

// Data returns the preview bytes, or nil once the blob has been released.
func (b *Blob) Data() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

// Release frees the preview bytes. Releasing twice is a no-op, so the cache
// can stay the single release point without defensive bookkeeping elsewhere.
func (b *Blob) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = nil
	b.released = true
}

func (b *Blob) Released() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.released
}
