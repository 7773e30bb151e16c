package dataset

import "strings"

// Filters maps column name to the exact value a visible row must carry.
// Multiple entries are conjunctive.
type Filters map[string]string

// Match reports whether the row satisfies every filter. Cell values are
// compared through their string coercion, so a JSON number 100 matches the
// filter value "100". Absent cells compare as empty string.
func (f Filters) Match(row Row) bool {
	for col, want := range f {
		got, _ := cellString(row[col])
		if got != want {
			return false
		}
	}
	return true
}

// Apply returns the rows matching every filter, preserving order. The input
// slice is never mutated and the result is always freshly allocated.
func Apply(rows []Row, f Filters) []Row {
	out := []Row{}
	for _, row := range rows {
		if f.Match(row) {
			out = append(out, row)
		}
	}
	return out
}

// ToCSV serializes rows back into delimited text: one header line, then each
// row's cells in header order. Every value is quoted with embedded quotes
// doubled, so emitted text survives a further Parse round trip.
func ToCSV(rows []Row, headers []string) string {
	var b strings.Builder
	b.WriteString(strings.Join(headers, ","))
	for _, row := range rows {
		b.WriteByte('\n')
		for i, h := range headers {
			if i > 0 {
				b.WriteByte(',')
			}
			s, _ := cellString(row[h])
			b.WriteString(quoteField(s))
		}
	}
	return b.String()
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
