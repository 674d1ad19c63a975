package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUSFormat(t *testing.T) {
	dt, err := CompileDateTime("M/d/yyyy")
	require.NoError(t, err)

	canon, err := dt.Parse("1/5/2015")
	require.NoError(t, err)
	assert.Equal(t, "2015-01-05", canon)

	_, err = dt.Parse("13/1/2015")
	assert.Error(t, err)
}

func TestDateISOFormat(t *testing.T) {
	dt, err := CompileDateTime("yyyy-MM-dd")
	require.NoError(t, err)

	canon, err := dt.Parse("2015-01-05")
	require.NoError(t, err)
	assert.Equal(t, "2015-01-05", canon)
}

func TestTimeWithFraction(t *testing.T) {
	dt, err := CompileDateTime("HH:mm:ss.S")
	require.NoError(t, err)

	canon, err := dt.Parse("13:04:05.5")
	require.NoError(t, err)
	assert.Equal(t, "13:04:05.5", canon)
}

func TestDateTimeWithTimezone(t *testing.T) {
	dt, err := CompileDateTime("yyyy-MM-ddTHH:mm:ssXXX")
	require.NoError(t, err)

	canon, err := dt.Parse("2015-01-05T13:04:05+02:00")
	require.NoError(t, err)
	assert.Equal(t, "2015-01-05T13:04:05+02:00", canon)
}

func TestShortYearExpansion(t *testing.T) {
	dt, err := CompileDateTime("d-M-y")
	require.NoError(t, err)

	canon, err := dt.Parse("5-1-15")
	require.NoError(t, err)
	assert.Equal(t, "2015-01-05", canon)
}
