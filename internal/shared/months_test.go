package shared

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	rng, err := ParseMonth("2025-07")
	require.NoError(t, err)
	require.NotNil(t, rng)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), rng.Start)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), rng.End)
	assert.Equal(t, "2025-07", rng.Key())

	assert.True(t, rng.Contains(time.Date(2025, 7, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, rng.Contains(time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, rng.Contains(time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC)))
}

func TestParseMonthDecemberRollsYear(t *testing.T) {
	rng, err := ParseMonth("2024-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), rng.End)
}

func TestParseMonthEmptyMeansNoFilter(t *testing.T) {
	for _, v := range []string{"", "  ", "all", "ALL"} {
		rng, err := ParseMonth(v)
		require.NoError(t, err)
		assert.Nil(t, rng)
		start, end := rng.Bounds()
		assert.Nil(t, start)
		assert.Nil(t, end)
		assert.Equal(t, "all", rng.Key())
	}
}

func TestParseMonthRejectsMalformed(t *testing.T) {
	for _, v := range []string{"2025-13", "07", "2025/07", "July"} {
		_, err := ParseMonth(v)
		require.Error(t, err, v)
		assert.True(t, errors.Is(err, ErrValidation))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "month")
	}
}

func TestMonthOf(t *testing.T) {
	rng := MonthOf(time.Date(2025, 3, 17, 10, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-03", rng.Key())
}
