package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestOfferSkipsExcludedWeekday(t *testing.T) {
	loc := mustLocation(t, "Asia/Tashkent")
	r := DateRules{Location: loc, Excluded: time.Sunday, Offers: 5}

	// Saturday: the next day is the excluded Sunday, so offers start Monday.
	saturday := time.Date(2026, 8, 29, 10, 0, 0, 0, loc)
	require.Equal(t, time.Saturday, saturday.Weekday())

	dates := r.Offer(saturday)
	require.Len(t, dates, 5)
	assert.Equal(t, []string{
		"2026-08-31", "2026-09-01", "2026-09-02", "2026-09-03", "2026-09-04",
	}, dates)

	for _, d := range dates {
		day, err := time.ParseInLocation("2006-01-02", d, loc)
		require.NoError(t, err)
		assert.NotEqual(t, time.Sunday, day.Weekday())
	}
}

func TestOfferStartsTomorrow(t *testing.T) {
	r := DateRules{Excluded: time.Sunday, Offers: 3}
	wednesday := time.Date(2026, 8, 26, 23, 59, 0, 0, time.UTC)
	require.Equal(t, time.Wednesday, wednesday.Weekday())

	dates := r.Offer(wednesday)
	assert.Equal(t, []string{"2026-08-27", "2026-08-28", "2026-08-29"}, dates)
}

func TestOfferAscendingAndExactCount(t *testing.T) {
	r := DateRules{Excluded: time.Sunday, Offers: 8}
	dates := r.Offer(time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC))
	require.Len(t, dates, 8)
	for i := 1; i < len(dates); i++ {
		assert.Less(t, dates[i-1], dates[i])
	}
}

func TestOfferDeterministicWithinDay(t *testing.T) {
	// The offer only depends on the calendar day in the reference zone, so a
	// back re-render later the same day reproduces the original list.
	loc := mustLocation(t, "Asia/Tashkent")
	r := DateRules{Location: loc, Excluded: time.Sunday}

	morning := time.Date(2026, 8, 28, 8, 0, 0, 0, loc)
	evening := time.Date(2026, 8, 28, 22, 30, 0, 0, loc)
	assert.Equal(t, r.Offer(morning), r.Offer(evening))
}

func TestOfferZeroConfigDefaults(t *testing.T) {
	var r DateRules
	dates := r.Offer(time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC))
	assert.Len(t, dates, defaultDateOffers)
}
