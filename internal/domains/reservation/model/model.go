package model

import (
	"time"

	"bookinn/shared/model"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID              = "id"
	FieldUserID          = "user_id"
	FieldAccommodationID = "accommodation_id"
	FieldGuestNumber     = "guest_number"
	FieldCheckInDate     = "check_in_date"
	FieldCheckOutDate    = "check_out_date"
	FieldStatus          = "status"
	FieldEmailSent       = "email_sent"
)

type Reservation struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	AccommodationID string    `db:"accommodation_id"`
	GuestNumber     int       `db:"guest_number"`
	CheckInDate     time.Time `db:"check_in_date"`
	CheckOutDate    time.Time `db:"check_out_date"`
	Status          Status    `db:"status"`
	EmailSent       bool      `db:"email_sent"`
	model.Metadata
}

// Nights returns the stay length of the half-open window
// [CheckInDate, CheckOutDate).
func (r *Reservation) Nights() int {
	return int(r.CheckOutDate.Sub(r.CheckInDate).Hours() / 24)
}

// Overlaps reports whether two half-open stay windows intersect. A
// reservation checking out on the day another checks in does not overlap.
func (r *Reservation) Overlaps(checkIn, checkOut time.Time) bool {
	return r.CheckInDate.Before(checkOut) && r.CheckOutDate.After(checkIn)
}
