package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bookinn/internal/domains/reservation/model"
)

func day(d int) time.Time {
	return time.Date(2026, time.September, d, 0, 0, 0, 0, time.UTC)
}

func TestReservation_Overlaps(t *testing.T) {
	// Existing stay occupies the nights of the 10th through the 14th.
	existing := model.Reservation{
		CheckInDate:  day(10),
		CheckOutDate: day(15),
	}

	tests := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     bool
	}{
		{name: "identical window", checkIn: day(10), checkOut: day(15), want: true},
		{name: "contained window", checkIn: day(11), checkOut: day(13), want: true},
		{name: "surrounding window", checkIn: day(8), checkOut: day(20), want: true},
		{name: "overlapping start", checkIn: day(8), checkOut: day(11), want: true},
		{name: "overlapping end", checkIn: day(14), checkOut: day(18), want: true},
		{name: "check-in on existing check-out", checkIn: day(15), checkOut: day(18), want: false},
		{name: "check-out on existing check-in", checkIn: day(7), checkOut: day(10), want: false},
		{name: "entirely before", checkIn: day(1), checkOut: day(5), want: false},
		{name: "entirely after", checkIn: day(20), checkOut: day(25), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, existing.Overlaps(tt.checkIn, tt.checkOut))
		})
	}
}

func TestReservation_Nights(t *testing.T) {
	res := model.Reservation{
		CheckInDate:  day(10),
		CheckOutDate: day(15),
	}

	assert.Equal(t, 5, res.Nights())
}
