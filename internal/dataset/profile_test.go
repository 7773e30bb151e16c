package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileKinds(t *testing.T) {
	rows := []Row{
		{"amount": "10", "note": "alpha"},
		{"amount": "20", "note": "beta"},
		{"amount": "30", "note": "gamma"},
	}
	ps := Profile(rows, []string{"amount", "note"})
	require.Len(t, ps, 2)
	assert.Equal(t, "numeric", ps[0].Kind)
	assert.Equal(t, 10.0, ps[0].Min)
	assert.Equal(t, 30.0, ps[0].Max)
	assert.Equal(t, 20.0, ps[0].Mean)
	assert.Equal(t, "text", ps[1].Kind)
}

func TestProfileNonFiniteCellsAreNotNumeric(t *testing.T) {
	rows := []Row{{"v": "100"}, {"v": "Inf"}, {"v": "NaN"}}
	ps := Profile(rows, []string{"v"})
	require.Len(t, ps, 1)
	// one finite cell out of three populated is under the numeric bar
	assert.Equal(t, "text", ps[0].Kind)
	assert.Equal(t, 3, ps[0].NonNull)
}
