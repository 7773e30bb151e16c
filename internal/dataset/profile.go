package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ColumnProfile captures inferred shape and statistics for one column,
// used to give the model a compact view of the dataset alongside raw rows.
type ColumnProfile struct {
	Name    string
	Kind    string // numeric|categorical|text
	NonNull int
	Unique  int
	// Numeric stats, valid only when Kind is numeric.
	Min  float64
	Max  float64
	Mean float64
	// Top categorical values by frequency, capped at three.
	TopValues []string
}

// Profile summarizes each column in header order. A column is numeric when
// over half its populated cells parse as numbers, categorical when its
// distinct count stays under a fifth of its populated count, text otherwise.
func Profile(rows []Row, headers []string) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, len(headers))
	for _, h := range headers {
		p := ColumnProfile{Name: h}
		counts := make(map[string]int)
		var sum, min, max float64
		numeric := 0
		min = math.Inf(1)
		max = math.Inf(-1)
		for _, row := range rows {
			s, ok := cellString(row[h])
			if !ok || s == "" {
				continue
			}
			p.NonNull++
			counts[s]++
			if f, ok := cellNumber(row[h]); ok {
				numeric++
				sum += f
				if f < min {
					min = f
				}
				if f > max {
					max = f
				}
			}
		}
		p.Unique = len(counts)
		switch {
		case p.NonNull > 0 && numeric*2 > p.NonNull:
			p.Kind = "numeric"
			p.Min = min
			p.Max = max
			p.Mean = sum / float64(numeric)
		case p.NonNull > 0 && p.Unique*5 < p.NonNull:
			p.Kind = "categorical"
			p.TopValues = topValues(counts, 3)
		default:
			p.Kind = "text"
		}
		profiles = append(profiles, p)
	}
	return profiles
}

func topValues(counts map[string]int, n int) []string {
	type vc struct {
		v string
		c int
	}
	all := make([]vc, 0, len(counts))
	for v, c := range counts {
		all = append(all, vc{v, c})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].c != all[j].c {
			return all[i].c > all[j].c
		}
		return all[i].v < all[j].v
	})
	if len(all) > n {
		all = all[:n]
	}
	out := make([]string, len(all))
	for i, e := range all {
		out[i] = e.v
	}
	return out
}

// RenderProfile formats column profiles as a bracket-tagged block suitable
// for inclusion in a model prompt.
func RenderProfile(rows []Row, headers []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[DATASET PROFILE] rows=%d columns=%d\n", len(rows), len(headers))
	for _, p := range Profile(rows, headers) {
		switch p.Kind {
		case "numeric":
			fmt.Fprintf(&b, "[COLUMN] %s kind=numeric non_null=%d min=%g max=%g mean=%.2f\n",
				p.Name, p.NonNull, p.Min, p.Max, p.Mean)
		case "categorical":
			fmt.Fprintf(&b, "[COLUMN] %s kind=categorical non_null=%d unique=%d top=%s\n",
				p.Name, p.NonNull, p.Unique, strings.Join(p.TopValues, "|"))
		default:
			fmt.Fprintf(&b, "[COLUMN] %s kind=text non_null=%d unique=%d\n", p.Name, p.NonNull, p.Unique)
		}
	}
	return b.String()
}
