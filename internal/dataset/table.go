package dataset

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Row is one record of an ingested dataset, keyed by column name. Cells hold
// the scalar types JSON produces (string, float64) plus whatever a delimited
// file yields (always string). Absent cells read as empty string.
type Row map[string]any

// Kind discriminates how a table was recognized from raw text.
type Kind int

const (
	// KindEmpty means no rows could be recovered from the input.
	KindEmpty Kind = iota
	// KindJSON means the input parsed as a JSON array, or an envelope object
	// wrapping one.
	KindJSON
	// KindDelimited means the input was split as comma-delimited text.
	KindDelimited
)

// Table is the parsed row/column model. Headers keep first-seen order and are
// stable for the lifetime of one loaded dataset; every row's keys are a
// subset of Headers (rows may carry extra keys the header-driven view never
// shows, which is accepted, not corrected).
type Table struct {
	Kind    Kind
	Headers []string
	Rows    []Row
}

// Parse turns raw file text into a Table. It never fails: malformed input
// degrades to an empty table and the cause is logged as a non-fatal warning.
func Parse(text string, log *zap.Logger) Table {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Table{Kind: KindEmpty, Headers: []string{}, Rows: []Row{}}
	}
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		if t, ok := parseJSON([]byte(trimmed)); ok {
			return t
		}
		if log != nil {
			log.Warn("input looked like JSON but did not parse, falling back to delimited text")
		}
	}
	return parseDelimited(trimmed)
}

// parseJSON accepts either a top-level array of row objects or an envelope
// object whose first array-valued property (in document order) is the row set.
func parseJSON(data []byte) (Table, bool) {
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Table{}, false
	}

	var arr []any
	switch v := decoded.(type) {
	case []any:
		arr = v
	case map[string]any:
		key, ok := firstArrayKey(data)
		if !ok {
			return Table{}, false
		}
		arr, _ = v[key].([]any)
	default:
		return Table{}, false
	}

	rows := make([]Row, 0, len(arr))
	for _, e := range arr {
		if m, ok := e.(map[string]any); ok {
			rows = append(rows, Row(m))
		}
	}
	headers := firstArrayObjectKeys(data)
	if len(rows) == 0 {
		headers = []string{}
	}
	return Table{Kind: KindJSON, Headers: headers, Rows: rows}, true
}

// firstArrayKey scans the top-level object for its first array-valued
// property in document order. Map iteration would lose that order.
func firstArrayKey(data []byte) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	depth := 0
	expectKey := false
	lastKey := ""
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", false
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{':
				depth++
				if depth == 1 {
					expectKey = true
					continue
				}
			case '[':
				if depth == 1 && !expectKey {
					return lastKey, true
				}
				depth++
			case '}', ']':
				depth--
				if depth == 0 {
					return "", false
				}
			}
			if depth == 1 {
				expectKey = true
			}
			continue
		}
		if depth == 1 {
			if expectKey {
				if s, ok := tok.(string); ok {
					lastKey = s
				}
				expectKey = false
			} else {
				expectKey = true
			}
		}
	}
}

// firstArrayObjectKeys returns the key order of the first object found inside
// an array, i.e. the first row. Header order mirrors the document, matching
// the key order of the first record.
func firstArrayObjectKeys(data []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(data))
	keys := []string{}
	depth := 0
	arrays := 0
	rowDepth := -1
	expectKey := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '[':
				arrays++
				depth++
			case ']':
				arrays--
				depth--
				if rowDepth > 0 && depth == rowDepth {
					expectKey = true
				}
			case '{':
				depth++
				if rowDepth < 0 && arrays > 0 {
					rowDepth = depth
					expectKey = true
				}
			case '}':
				if rowDepth > 0 && depth == rowDepth {
					return keys
				}
				depth--
				if rowDepth > 0 && depth == rowDepth {
					expectKey = true
				}
			}
			continue
		}
		if rowDepth > 0 && depth == rowDepth {
			if expectKey {
				if s, ok := tok.(string); ok {
					keys = append(keys, s)
				}
				expectKey = false
			} else {
				expectKey = true
			}
		}
	}
}

// parseDelimited splits comma-delimited text: first line is the header list,
// each later non-empty line becomes a row zipped against the headers.
func parseDelimited(text string) Table {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	headers := splitCSVLine(lines[0])
	if len(headers) == 1 && headers[0] == "" {
		return Table{Kind: KindEmpty, Headers: []string{}, Rows: []Row{}}
	}
	rows := []Row{}
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitCSVLine(line)
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(fields) {
				row[h] = fields[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return Table{Kind: KindDelimited, Headers: headers, Rows: rows}
}

// splitCSVLine splits on commas that sit outside quoted fields: a comma is a
// delimiter only when an even number of quote characters remain after it.
func splitCSVLine(line string) []string {
	total := strings.Count(line, `"`)
	seen := 0
	fields := []string{}
	var cur strings.Builder
	for _, r := range line {
		switch r {
		case '"':
			seen++
			cur.WriteRune(r)
		case ',':
			if (total-seen)%2 == 0 {
				fields = append(fields, unquoteField(cur.String()))
				cur.Reset()
			} else {
				cur.WriteRune(r)
			}
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, unquoteField(cur.String()))
	return fields
}

func unquoteField(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = strings.ReplaceAll(s[1:len(s)-1], `""`, `"`)
	}
	return s
}

// cellString coerces a scalar cell to its display string. Non-scalar cells
// (nested objects, arrays) and nil report false.
func cellString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case nil:
		return "", false
	default:
		return "", false
	}
}

// cellNumber parses a cell as a finite number if possible.
func cellNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return 0, false
		}
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
