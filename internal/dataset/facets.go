package dataset

import "sort"

// BuildFacets derives per-column filter options: for each header, the sorted
// distinct string-coerced values across all rows. A column qualifies only
// when its distinct count is above zero and strictly below ceiling; columns
// at or past the ceiling are treated as free-form and dropped. Collection
// stops early once a column hits the ceiling.
func BuildFacets(rows []Row, headers []string, ceiling int) map[string][]string {
	facets := make(map[string][]string)
	for _, h := range headers {
		seen := make(map[string]struct{})
		exceeded := false
		for _, row := range rows {
			s, ok := cellString(row[h])
			if !ok {
				continue
			}
			seen[s] = struct{}{}
			if len(seen) >= ceiling {
				exceeded = true
				break
			}
		}
		if exceeded || len(seen) == 0 {
			continue
		}
		values := make([]string, 0, len(seen))
		for v := range seen {
			values = append(values, v)
		}
		sort.Strings(values)
		facets[h] = values
	}
	return facets
}
