package daily

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_StableWithinUTCDay(t *testing.T) {
	start := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	want, err := Index(start, 167)
	require.NoError(t, err)

	for _, off := range []time.Duration{time.Second, time.Hour, 12 * time.Hour, 23*time.Hour + 59*time.Minute + 59*time.Second} {
		got, err := Index(start.Add(off), 167)
		require.NoError(t, err)
		assert.Equal(t, want, got, "offset %s", off)
	}

	next, err := Index(start.Add(24*time.Hour), 167)
	require.NoError(t, err)
	assert.Equal(t, (want+1)%167, next)
}

func TestIndex_IgnoresCallerZone(t *testing.T) {
	// 2024-03-14T23:30 in UTC-05 is already 2024-03-15 in UTC.
	zone := time.FixedZone("EST", -5*3600)
	local := time.Date(2024, 3, 14, 23, 30, 0, 0, zone)
	utc := time.Date(2024, 3, 15, 4, 30, 0, 0, time.UTC)

	a, err := Index(local, 10)
	require.NoError(t, err)
	b, err := Index(utc, 10)
	require.NoError(t, err)
	assert.Equal(t, b, a)
	assert.Equal(t, "2024-03-15", DateKey(local))
}

func TestIndex_Range(t *testing.T) {
	base := time.Date(1965, 1, 1, 6, 0, 0, 0, time.UTC)
	for d := 0; d < 40000; d += 97 {
		ts := base.AddDate(0, 0, d)
		for _, n := range []int{1, 2, 7, 160} {
			i, err := Index(ts, n)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, i, 0)
			assert.Less(t, i, n)
		}
	}
}

func TestIndex_KnownValue(t *testing.T) {
	// 2024-01-01 is day 19723 since the epoch.
	ts := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, int64(19723), DayNumber(ts))
	i, err := Index(ts, 100)
	require.NoError(t, err)
	assert.Equal(t, 23, i)
}

func TestIndex_BeforeEpoch(t *testing.T) {
	ts := time.Date(1969, 12, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, int64(-1), DayNumber(ts))
	i, err := Index(ts, 7)
	require.NoError(t, err)
	assert.Equal(t, 6, i)
}

func TestIndex_EmptyDataset(t *testing.T) {
	for _, n := range []int{0, -3} {
		_, err := Index(time.Now(), n)
		assert.ErrorIs(t, err, ErrEmptyDataset)
	}
}

func TestNextMidnight(t *testing.T) {
	ts := time.Date(2024, 2, 28, 17, 45, 0, 0, time.FixedZone("X", 2*3600))
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), NextMidnight(ts))
}
