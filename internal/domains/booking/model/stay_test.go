package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"innkeeper/internal/domains/booking/model"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func stay(checkIn, checkOut int) model.Stay {
	return model.Stay{CheckIn: day(checkIn), CheckOut: day(checkOut)}
}

func TestStay_Valid(t *testing.T) {
	assert.True(t, stay(1, 2).Valid())
	assert.False(t, stay(2, 2).Valid())
	assert.False(t, stay(3, 2).Valid())
}

func TestStay_Nights(t *testing.T) {
	assert.Equal(t, 1, stay(1, 2).Nights())
	assert.Equal(t, 3, stay(10, 13).Nights())
}

func TestStay_Cost(t *testing.T) {
	assert.Equal(t, 300.0, stay(10, 13).Cost(100))
	assert.Equal(t, 150.5, stay(1, 2).Cost(150.5))
}

func TestStay_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a    model.Stay
		b    model.Stay
		want bool
	}{
		{name: "identical ranges", a: stay(1, 5), b: stay(1, 5), want: true},
		{name: "partial overlap", a: stay(1, 5), b: stay(3, 8), want: true},
		{name: "contained range", a: stay(1, 10), b: stay(4, 6), want: true},
		{name: "single shared night", a: stay(1, 5), b: stay(4, 8), want: true},
		{name: "disjoint ranges", a: stay(1, 3), b: stay(10, 12), want: false},
		{name: "adjacent ranges do not overlap", a: stay(1, 5), b: stay(5, 8), want: false},
		{name: "adjacent ranges reversed", a: stay(5, 8), b: stay(1, 5), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestConflicts(t *testing.T) {
	booking := func(checkIn, checkOut int, status model.Status) model.Booking {
		return model.Booking{
			CheckInDate:  day(checkIn),
			CheckOutDate: day(checkOut),
			Status:       status,
		}
	}

	tests := []struct {
		name     string
		stay     model.Stay
		bookings []model.Booking
		want     bool
	}{
		{
			name:     "no bookings",
			stay:     stay(1, 5),
			bookings: nil,
			want:     false,
		},
		{
			name: "overlapping pending booking",
			stay: stay(1, 5),
			bookings: []model.Booking{
				booking(3, 8, model.StatusPending),
			},
			want: true,
		},
		{
			name: "cancelled bookings never block",
			stay: stay(1, 5),
			bookings: []model.Booking{
				booking(1, 5, model.StatusCancelled),
				booking(2, 6, model.StatusCompleted),
			},
			want: false,
		},
		{
			name: "adjacent checked in booking",
			stay: stay(5, 8),
			bookings: []model.Booking{
				booking(1, 5, model.StatusCheckedIn),
			},
			want: false,
		},
		{
			name: "one live conflict among terminal bookings",
			stay: stay(1, 5),
			bookings: []model.Booking{
				booking(1, 5, model.StatusCancelled),
				booking(2, 4, model.StatusConfirmed),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.Conflicts(tt.stay, tt.bookings))
		})
	}
}
