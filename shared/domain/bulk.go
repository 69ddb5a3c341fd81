package domain

import "sort"

// IdSet is a set of asset ids.
type IdSet map[AssetId]struct{}

func NewIdSet(ids ...AssetId) IdSet {
	s := make(IdSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IdSet) Add(id AssetId) {
	s[id] = struct{}{}
}

func (s IdSet) Has(id AssetId) bool {
	_, ok := s[id]
	return ok
}

// Slice returns the ids in sorted order, for stable logs and tests.
func (s IdSet) Slice() []AssetId {
	ids := make([]AssetId, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// BulkResult is the per-item accounting of one bulk operation. Every selected
// id ends up in exactly one of the two sets.
type BulkResult struct {
	Succeeded IdSet
	Failed    IdSet
}

// BulkOutcome is the aggregate, user-facing classification of a BulkResult.
// Partial failure is a distinct outcome, not a flavor of failure.
type BulkOutcome int

const (
	OutcomeAllSucceeded BulkOutcome = iota
	OutcomeAllFailed
	OutcomePartial
)

func (r BulkResult) Outcome() BulkOutcome {
	switch {
	case len(r.Failed) == 0:
		return OutcomeAllSucceeded
	case len(r.Succeeded) == 0:
		return OutcomeAllFailed
	}
	return OutcomePartial
}
