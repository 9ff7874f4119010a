package flow

import "time"

// dateLayout is the canonical delivery date format used in prompts, callback
// tokens, and the order record.
const dateLayout = "2006-01-02"

// defaultDateOffers is the number of candidate dates offered to the customer.
const defaultDateOffers = 5

// DateRules configures delivery-date offer generation.
type DateRules struct {
	// Location is the fixed reference time zone; UTC when nil.
	Location *time.Location
	// Excluded is the weekday on which no delivery happens.
	Excluded time.Weekday
	// Offers is the number of candidate dates; defaults to 5.
	Offers int
}

// Offer generates the candidate delivery dates: starting the day after now in
// the reference zone, skipping the excluded weekday, exactly Offers ascending
// dates. The result is pure and deterministic given now, so a back
// re-render on the same day reproduces the original offer byte for byte.
func (r DateRules) Offer(now time.Time) []string {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	n := r.Offers
	if n <= 0 {
		n = defaultDateOffers
	}
	dates := make([]string, 0, n)
	day := now.In(loc)
	for len(dates) < n {
		day = day.AddDate(0, 0, 1)
		if day.Weekday() == r.Excluded {
			continue
		}
		dates = append(dates, day.Format(dateLayout))
	}
	return dates
}
