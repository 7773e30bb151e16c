package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseDelimited(t *testing.T) {
	table := Parse("region,revenue\nEast,100\nWest,200\n", zap.NewNop())
	require.Equal(t, KindDelimited, table.Kind)
	assert.Equal(t, []string{"region", "revenue"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "East", table.Rows[0]["region"])
	assert.Equal(t, "200", table.Rows[1]["revenue"])
}

func TestParseDelimitedQuotedComma(t *testing.T) {
	table := Parse("name,city\n\"Smith, John\",Boston\n", zap.NewNop())
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Smith, John", table.Rows[0]["name"])
	assert.Equal(t, "Boston", table.Rows[0]["city"])
}

func TestParseDelimitedEscapedQuote(t *testing.T) {
	table := Parse("note\n\"say \"\"hi\"\", then leave\"\n", zap.NewNop())
	require.Len(t, table.Rows, 1)
	assert.Equal(t, `say "hi", then leave`, table.Rows[0]["note"])
}

func TestParseDelimitedRaggedRows(t *testing.T) {
	table := Parse("a,b,c\n1,2\n1,2,3,4\n", zap.NewNop())
	require.Len(t, table.Rows, 2)
	// short row pads with empty, long row drops the extra cell
	assert.Equal(t, "", table.Rows[0]["c"])
	assert.Equal(t, "3", table.Rows[1]["c"])
}

func TestParseHeaderOnly(t *testing.T) {
	table := Parse("a,b,c\n", zap.NewNop())
	assert.Equal(t, KindDelimited, table.Kind)
	assert.Equal(t, []string{"a", "b", "c"}, table.Headers)
	assert.Empty(t, table.Rows)
}

func TestParseEmptyInput(t *testing.T) {
	table := Parse("   \n  ", zap.NewNop())
	assert.Equal(t, KindEmpty, table.Kind)
	assert.Empty(t, table.Headers)
	assert.Empty(t, table.Rows)
}

func TestParseJSONArray(t *testing.T) {
	table := Parse(`[{"region":"East","revenue":100},{"region":"West","revenue":200}]`, zap.NewNop())
	require.Equal(t, KindJSON, table.Kind)
	assert.Equal(t, []string{"region", "revenue"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, float64(100), table.Rows[0]["revenue"])
}

func TestParseJSONHeaderOrderFollowsDocument(t *testing.T) {
	table := Parse(`[{"zeta":1,"alpha":2,"mid":3}]`, zap.NewNop())
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, table.Headers)
}

func TestParseJSONEnvelope(t *testing.T) {
	raw := `{"meta":{"source":"export"},"count":2,"records":[{"id":1,"name":"a"},{"id":2,"name":"b"}],"extra":[{"x":9}]}`
	table := Parse(raw, zap.NewNop())
	require.Equal(t, KindJSON, table.Kind)
	assert.Equal(t, []string{"id", "name"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "b", table.Rows[1]["name"])
}

func TestParseJSONEnvelopeWithoutArrayFallsBack(t *testing.T) {
	table := Parse(`{"just":"an object"}`, zap.NewNop())
	// no array property, so the text is treated as a one-column delimited blob
	assert.Equal(t, KindDelimited, table.Kind)
}

func TestParseMalformedJSONFallsBack(t *testing.T) {
	table := Parse("[not json\nEast,100", zap.NewNop())
	assert.Equal(t, KindDelimited, table.Kind)
}

func TestParseJSONRowsKeepExtraKeys(t *testing.T) {
	table := Parse(`[{"a":1},{"a":2,"surprise":"kept"}]`, zap.NewNop())
	assert.Equal(t, []string{"a"}, table.Headers)
	assert.Equal(t, "kept", table.Rows[1]["surprise"])
}

func TestToCSVRoundTrip(t *testing.T) {
	orig := Parse("name,note\n\"Smith, John\",\"said \"\"ok\"\"\"\nPlain,fine\n", zap.NewNop())
	out := ToCSV(orig.Rows, orig.Headers)
	again := Parse(out, zap.NewNop())
	require.Equal(t, orig.Headers, again.Headers)
	require.Len(t, again.Rows, len(orig.Rows))
	for i := range orig.Rows {
		for _, h := range orig.Headers {
			assert.Equal(t, orig.Rows[i][h], again.Rows[i][h])
		}
	}
}

func TestApplyFiltersConjunctive(t *testing.T) {
	table := Parse("region,tier\nEast,gold\nEast,silver\nWest,gold\n", zap.NewNop())
	got := Apply(table.Rows, Filters{"region": "East", "tier": "gold"})
	require.Len(t, got, 1)
	assert.Equal(t, "gold", got[0]["tier"])

	// filters never mutate the source rows
	assert.Len(t, table.Rows, 3)
}

func TestFilterMatchesJSONNumberAsString(t *testing.T) {
	table := Parse(`[{"qty":100},{"qty":200}]`, zap.NewNop())
	got := Apply(table.Rows, Filters{"qty": "100"})
	require.Len(t, got, 1)
}

func TestApplyNoMatches(t *testing.T) {
	table := Parse("a\n1\n2\n", zap.NewNop())
	got := Apply(table.Rows, Filters{"a": "3"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBuildFacets(t *testing.T) {
	table := Parse("region,revenue\nWest,1\nEast,2\nEast,3\n", zap.NewNop())
	facets := BuildFacets(table.Rows, table.Headers, 100)
	assert.Equal(t, []string{"East", "West"}, facets["region"])
	assert.Equal(t, []string{"1", "2", "3"}, facets["revenue"])
}

func TestBuildFacetsCeiling(t *testing.T) {
	rows := make([]Row, 0, 6)
	for _, v := range []string{"a", "b", "c", "d", "e", "f"} {
		rows = append(rows, Row{"id": v, "bucket": "one"})
	}
	facets := BuildFacets(rows, []string{"id", "bucket"}, 5)
	_, ok := facets["id"]
	assert.False(t, ok, "column at the cardinality ceiling must not become a facet")
	assert.Equal(t, []string{"one"}, facets["bucket"])
}

func TestBuildFacetsSkipsNonScalars(t *testing.T) {
	rows := []Row{
		{"tags": []any{"x"}, "name": "a"},
		{"tags": map[string]any{"k": "v"}, "name": "b"},
	}
	facets := BuildFacets(rows, []string{"tags", "name"}, 100)
	_, ok := facets["tags"]
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, facets["name"])
}
