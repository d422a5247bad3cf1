package prep_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/chartlib/prep"
)

func TestDaysBetween_Layouts(t *testing.T) {
	d, err := prep.DaysBetween("2020-03-01", "2020-03-11")
	require.NoError(t, err)
	assert.Equal(t, 10, d)

	// US-style month-day-year parses too, mixed with ISO.
	d, err = prep.DaysBetween("01-15-2020", "2020-01-20")
	require.NoError(t, err)
	assert.Equal(t, 5, d)

	d, err = prep.DaysBetween("2020-01-20", "2020-01-10")
	require.NoError(t, err)
	assert.Equal(t, -10, d)

	_, err = prep.DaysBetween("not-a-date", "2020-01-01")
	assert.ErrorIs(t, err, prep.ErrBadDate)
}
