package model

import "time"

const nightDuration = 24 * time.Hour

// Stay is a half-open date range [CheckIn, CheckOut): the check-out day
// itself is not occupied, which permits same-day turnover.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Valid reports whether the stay covers at least one night.
func (s Stay) Valid() bool {
	return s.CheckOut.After(s.CheckIn)
}

func (s Stay) Nights() int {
	return int(s.CheckOut.Sub(s.CheckIn) / nightDuration)
}

// Cost is the stay's total at the given nightly price.
func (s Stay) Cost(pricePerNight float64) float64 {
	return float64(s.Nights()) * pricePerNight
}

// Overlaps applies the canonical half-open interval test: [a, b) and [c, d)
// overlap iff a < d and c < b. Two stays that merely touch at a boundary
// (one checks out the day the other checks in) do not overlap.
func (s Stay) Overlaps(other Stay) bool {
	return s.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(s.CheckOut)
}

// Conflicts reports whether the stay overlaps any non-terminal booking in
// the given set. Read-only; safe to call concurrently.
func Conflicts(stay Stay, bookings []Booking) bool {
	for _, booking := range bookings {
		if booking.Status.Terminal() {
			continue
		}

		if stay.Overlaps(booking.Stay()) {
			return true
		}
	}

	return false
}
