package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monumenta/mediasync/shared/domain"
)

// countingReleaser stands in for a preview blob and counts releases.
type countingReleaser struct {
	mu       sync.Mutex
	released int
}

func (r *countingReleaser) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.released++
}

func (r *countingReleaser) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}

func asset(id string) *domain.Asset {
	return &domain.Asset{Id: id, Name: id, MimeType: "image/jpeg", Category: domain.CategoryPhotos, State: domain.StateCompleted}
}

func TestCache_UpsertUnique(t *testing.T) {
	c := New()

	c.Upsert(asset("a"))
	c.Upsert(asset("b"))
	c.Upsert(asset("a")) // replace, not duplicate

	snapshot := c.Snapshot()
	require.Len(t, snapshot, 2)

	seen := map[string]int{}
	for _, a := range snapshot {
		seen[a.Id]++
	}
	assert.Equal(t, 1, seen["a"])
	assert.Equal(t, 1, seen["b"])
}

func TestCache_LastWriterWins(t *testing.T) {
	c := New()

	first := asset("a")
	first.Name = "first.jpg"
	second := asset("a")
	second.Name = "second.jpg"

	c.Upsert(first)
	c.Upsert(second)

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "second.jpg", got.Name)
}

func TestCache_SnapshotKeepsInsertionOrder(t *testing.T) {
	c := New()
	c.Upsert(asset("c"))
	c.Upsert(asset("a"))
	c.Upsert(asset("b"))
	c.Upsert(asset("a")) // replacement keeps its slot

	var ids []string
	for _, a := range c.Snapshot() {
		ids = append(ids, a.Id)
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestCache_RemoveReleasesPreviewOnce(t *testing.T) {
	c := New()
	r := &countingReleaser{}
	a := asset("a")
	a.Preview = r
	c.Upsert(a)

	assert.True(t, c.Remove("a"))
	assert.Equal(t, 1, r.count())

	assert.False(t, c.Remove("a"))
	assert.Equal(t, 1, r.count())
}

func TestCache_UpsertReleasesSupersededPreview(t *testing.T) {
	c := New()
	r := &countingReleaser{}
	local := asset("a")
	local.State = domain.StateUploading
	local.Preview = r
	c.Upsert(local)

	// Server-backed replacement has no local preview.
	c.Upsert(asset("a"))
	assert.Equal(t, 1, r.count())
}

func TestCache_SupersedeKeepsSlot(t *testing.T) {
	c := New()
	r := &countingReleaser{}
	local := asset("local-1-0")
	local.State = domain.StateUploading
	local.Preview = r

	c.Upsert(asset("x"))
	c.Upsert(local)
	c.Upsert(asset("y"))

	confirmed := asset("srv-9")
	c.Supersede("local-1-0", confirmed)

	var ids []string
	for _, a := range c.Snapshot() {
		ids = append(ids, a.Id)
	}
	assert.Equal(t, []string{"x", "srv-9", "y"}, ids)

	_, ok := c.Get("local-1-0")
	assert.False(t, ok)
	assert.Equal(t, 1, r.count())
}

func TestCache_SupersedeOntoExistingId(t *testing.T) {
	// A refresh can hydrate the confirmed id before the completion lands, and
	// a re-uploaded file can come back deduplicated to an id already tracked.
	// The provisional slot must collapse into the existing one, never leave
	// the same id in two slots.
	c := New()
	hydrated := asset("srv-1")
	hydrated.Name = "hydrated.jpg"
	c.Upsert(hydrated)

	local := asset("local-1-0")
	local.State = domain.StateUploading
	c.Upsert(local)
	c.Upsert(asset("y"))

	confirmed := asset("srv-1")
	confirmed.Name = "confirmed.jpg"
	c.Supersede("local-1-0", confirmed)

	var ids []string
	for _, a := range c.Snapshot() {
		ids = append(ids, a.Id)
	}
	assert.Equal(t, []string{"srv-1", "y"}, ids)
	assert.Equal(t, c.Len(), len(c.Snapshot()))

	got, ok := c.Get("srv-1")
	require.True(t, ok)
	assert.Equal(t, "confirmed.jpg", got.Name)
}

func TestCache_SupersedeReleasesDisplacedPreview(t *testing.T) {
	c := New()

	localPreview := &countingReleaser{}
	local := asset("local-1-0")
	local.State = domain.StateUploading
	local.Preview = localPreview

	displacedPreview := &countingReleaser{}
	displaced := asset("srv-1")
	displaced.Preview = displacedPreview

	c.Upsert(displaced)
	c.Upsert(local)

	c.Supersede("local-1-0", asset("srv-1"))

	assert.Equal(t, 1, localPreview.count())
	assert.Equal(t, 1, displacedPreview.count())
}

func TestCache_SupersedeMissingIdDegradesToUpsert(t *testing.T) {
	c := New()
	c.Supersede("gone", asset("srv-1"))

	_, ok := c.Get("srv-1")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestCache_ReplaceAll(t *testing.T) {
	c := New()
	r := &countingReleaser{}
	old := asset("old")
	old.Preview = r
	c.Upsert(old)
	c.Upsert(asset("kept"))

	kept := asset("kept")
	fresh := asset("fresh")
	c.ReplaceAll([]*domain.Asset{kept, fresh})

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("old")
	assert.False(t, ok)
	assert.Equal(t, 1, r.count())
}

func TestCache_SanitizesLifecyclePairing(t *testing.T) {
	c := New()

	broken := asset("a")
	broken.State = domain.StateError
	c.Upsert(broken)
	got, _ := c.Get("a")
	assert.NotEmpty(t, got.ErrorDetail)

	stray := asset("b")
	stray.ErrorDetail = "leftover"
	c.Upsert(stray)
	got, _ = c.Get("b")
	assert.Empty(t, got.ErrorDetail)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("a-%d", i)
			c.Upsert(asset(id))
			c.Snapshot()
			if i%2 == 0 {
				c.Remove(id)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, c.Len())
}
