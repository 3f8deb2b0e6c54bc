package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DATE columns scan back anchored at UTC while request dates are parsed in
// the application timezone. ToDate must put both on the same footing so a
// check-in on the first available day is not skewed by the offset.
func TestToDate_NormalizesAcrossTimezones(t *testing.T) {
	previous := appLocation

	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	appLocation = loc

	t.Cleanup(func() { appLocation = previous })

	dbDate := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	parsed, err := Parse("2006-01-02", "2026-06-01")
	require.NoError(t, err)

	// Raw instants disagree even though both carry the same calendar date.
	assert.True(t, parsed.Before(dbDate))

	assert.True(t, ToDate(parsed).Equal(ToDate(dbDate)))
	assert.False(t, ToDate(parsed).Before(ToDate(dbDate)))
}

func TestToDate_KeepsCalendarDate(t *testing.T) {
	previous := appLocation
	appLocation = time.UTC

	t.Cleanup(func() { appLocation = previous })

	got := ToDate(time.Date(2026, 6, 15, 13, 45, 12, 0, time.UTC))

	assert.Equal(t, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), got)
}
