package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberGrouping(t *testing.T) {
	n, err := CompileNumber("#,##0.00", ",", ".")
	require.NoError(t, err)

	canon, err := n.Parse("1,234.50")
	require.NoError(t, err)
	assert.Equal(t, "1234.50", canon)

	_, err = n.Parse("1234.5")
	assert.Error(t, err)

	_, err = n.Parse("1,,234")
	assert.Error(t, err)
}

// TestNumberGroupingSecondaryMatchesPrimary covers a pattern with a
// single groupChar: secondary grouping must equal primary, not the
// length of the pattern's leading "#" segment.
func TestNumberGroupingSecondaryMatchesPrimary(t *testing.T) {
	n, err := CompileNumber("#,##0.00", ",", ".")
	require.NoError(t, err)

	canon, err := n.Parse("1,234,567.00")
	require.NoError(t, err)
	assert.Equal(t, "1234567.00", canon)
}

func TestNumberPercent(t *testing.T) {
	n, err := CompileNumber("#0.0%", ",", ".")
	require.NoError(t, err)

	canon, err := n.Parse("12.5%")
	require.NoError(t, err)
	assert.Equal(t, "0.125", canon)
}

func TestNumberNaNInf(t *testing.T) {
	n, err := CompileNumber("0.0", ",", ".")
	require.NoError(t, err)

	for _, v := range []string{"NaN", "INF", "-INF"} {
		canon, err := n.Parse(v)
		require.NoError(t, err)
		assert.Equal(t, v, canon)
	}
}

func TestNumberEuropeanSeparators(t *testing.T) {
	n, err := CompileNumber("#.##0,00", ".", ",")
	require.NoError(t, err)

	canon, err := n.Parse("1.234,50")
	require.NoError(t, err)
	assert.Equal(t, "1234.50", canon)
}
