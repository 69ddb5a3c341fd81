// Package projection derives the display-ready asset list from a cache
// snapshot. It is a pure function of its input: no cached view state, so a
// filter can never go stale.
package projection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/monumenta/mediasync/shared/domain"
)

// FolderScope selects how the folder filter applies.
type FolderScope int

const (
	FolderAny  FolderScope = iota // ignore folders
	FolderRoot                    // ungrouped assets only
	FolderOnly                    // assets in Filter.FolderId
)

type Filter struct {
	Category    *domain.Category
	State       *domain.LifecycleState
	Tag         string
	Query       string // case-insensitive substring of the name
	FolderScope FolderScope
	FolderId    domain.FolderId // read when FolderScope is FolderOnly
}

type SortKey string

const (
	SortNewest  SortKey = "newest" // default
	SortName    SortKey = "name"
	SortLargest SortKey = "largest"
)

// DisplayAsset decorates an asset with render-ready fields.
type DisplayAsset struct {
	*domain.Asset
	SizeLabel       string
	DescriptionHTML string
}

// Project filters, sorts and decorates a snapshot.
func (p *Projector) Project(assets []*domain.Asset, filter Filter, key SortKey) []DisplayAsset {
	matched := make([]*domain.Asset, 0, len(assets))
	for _, a := range assets {
		if matches(a, filter) {
			matched = append(matched, a)
		}
	}

	switch key {
	case SortName:
		sort.SliceStable(matched, func(i, j int) bool {
			return strings.ToLower(matched[i].Name) < strings.ToLower(matched[j].Name)
		})
	case SortLargest:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].SizeBytes > matched[j].SizeBytes
		})
	default:
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].UploadedAt.After(matched[j].UploadedAt)
		})
	}

	result := make([]DisplayAsset, 0, len(matched))
	for _, a := range matched {
		result = append(result, DisplayAsset{
			Asset:           a,
			SizeLabel:       sizeLabel(a.SizeBytes),
			DescriptionHTML: p.DescriptionHTML(a.Description),
		})
	}
	return result
}

func matches(a *domain.Asset, f Filter) bool {
	if f.Category != nil && a.Category != *f.Category {
		return false
	}
	if f.State != nil && a.State != *f.State {
		return false
	}
	if f.Tag != "" && !a.HasTag(f.Tag) {
		return false
	}
	if f.Query != "" && !strings.Contains(strings.ToLower(a.Name), strings.ToLower(f.Query)) {
		return false
	}
	switch f.FolderScope {
	case FolderRoot:
		if a.FolderId != nil {
			return false
		}
	case FolderOnly:
		if a.FolderId == nil || *a.FolderId != f.FolderId {
			return false
		}
	}
	return true
}

func sizeLabel(bytes int64) string {
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(bytes)/(1<<10))
	}
	return fmt.Sprintf("%d B", bytes)
}
