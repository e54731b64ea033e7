package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDayKey(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)

	// 01:30 on Jan 2 in UTC+7 is still Jan 1 in UTC.
	local := time.Date(2023, 1, 2, 1, 30, 0, 0, loc)
	require.Equal(t, "2023-01-01", DayKey(local))
	require.Equal(t, "2023-01-01", DayKey(local.UTC()))
}

func TestLastNDays(t *testing.T) {
	now := time.Date(2023, 3, 10, 15, 4, 5, 0, time.UTC)
	begin := LastNDays(now, 7)
	require.Equal(t, time.Date(2023, 3, 4, 0, 0, 0, 0, time.UTC), begin)
}

func TestCurrentWeek(t *testing.T) {
	// 2023-03-10 is a Friday, its week begins on Monday 2023-03-06.
	now := time.Date(2023, 3, 10, 15, 4, 5, 0, time.UTC)
	require.Equal(t, time.Date(2023, 3, 6, 0, 0, 0, 0, time.UTC), CurrentWeek(now))

	// Sunday belongs to the same week as the previous Monday.
	sunday := time.Date(2023, 3, 12, 1, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2023, 3, 6, 0, 0, 0, 0, time.UTC), CurrentWeek(sunday))
}
