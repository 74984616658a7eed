package tags

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mwantia/imagekeeper/pkg/db/models"
)

// Store is the part of the metadata repository reconciliation needs.
type Store interface {
	FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error)
	ListAssetTagIDs(ctx context.Context, assetID uint) ([]uint, error)
	AddAssetTag(ctx context.Context, assetID, tagID uint) error
	RemoveAssetTag(ctx context.Context, assetID, tagID uint) error
}

// Result lists the tag ids whose associations were changed.
type Result struct {
	Added   []uint
	Removed []uint
}

// Changed reports whether any association was written.
func (r *Result) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}

// Normalize trims names, drops empty ones and removes duplicates while
// keeping the first occurrence order.
func Normalize(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// ParseList splits a comma separated tag entry into normalized names.
func ParseList(raw string) []string {
	return Normalize(strings.Split(raw, ","))
}

// Reconcile makes the tag associations of assetID equal to the desired
// names. Missing tags are created. All removals are applied before any
// addition, and nothing is written when the sets already match.
func Reconcile(ctx context.Context, st Store, assetID uint, desired []string) (*Result, error) {
	want := make(map[uint]bool)
	for _, name := range Normalize(desired) {
		tag, err := st.FindOrCreateTag(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve tag '%s': %w", name, err)
		}
		want[tag.ID] = true
	}

	currentIDs, err := st.ListAssetTagIDs(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags of asset %d: %w", assetID, err)
	}
	current := make(map[uint]bool, len(currentIDs))
	for _, id := range currentIDs {
		current[id] = true
	}

	result := &Result{
		Added:   difference(want, current),
		Removed: difference(current, want),
	}

	for _, id := range result.Removed {
		if err := st.RemoveAssetTag(ctx, assetID, id); err != nil {
			return nil, fmt.Errorf("failed to remove tag %d from asset %d: %w", id, assetID, err)
		}
	}
	for _, id := range result.Added {
		if err := st.AddAssetTag(ctx, assetID, id); err != nil {
			return nil, fmt.Errorf("failed to add tag %d to asset %d: %w", id, assetID, err)
		}
	}

	return result, nil
}

// difference returns the sorted ids in a that are not in b.
func difference(a, b map[uint]bool) []uint {
	var out []uint
	for id := range a {
		if !b[id] {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
