package news

import "sort"

// Merge folds a new batch into an existing feed. Articles whose id is
// already present are dropped, new ones come first, and the result is cut to
// limit when limit > 0. It returns the merged feed and how many were new.
func Merge(existing, batch []Article, limit int) ([]Article, int) {
	seen := make(map[string]struct{}, len(existing))
	for _, a := range existing {
		seen[a.ID] = struct{}{}
	}

	fresh := make([]Article, 0, len(batch))
	for _, a := range batch {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		fresh = append(fresh, a)
	}
	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].SortTimestamp > fresh[j].SortTimestamp
	})

	merged := make([]Article, 0, len(fresh)+len(existing))
	merged = append(merged, fresh...)
	merged = append(merged, existing...)
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, len(fresh)
}
