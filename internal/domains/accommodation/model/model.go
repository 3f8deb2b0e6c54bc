package model

import (
	"time"

	"bookinn/shared/model"
)

const (
	TableName  = "accommodations"
	EntityName = "accommodation"

	FieldID            = "id"
	FieldName          = "name"
	FieldDescription   = "description"
	FieldLocation      = "location"
	FieldPrice         = "price"
	FieldGuestNumber   = "guest_number"
	FieldPetFriendly   = "pet_friendly"
	FieldImageURL      = "image_url"
	FieldCheckInTime   = "check_in_time"
	FieldCheckOutTime  = "check_out_time"
	FieldAvailableFrom = "available_from"
	FieldAvailableTo   = "available_to"
	FieldManagedBy     = "managed_by"
)

type Accommodation struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	Location      string    `db:"location"`
	Price         float64   `db:"price"`
	GuestNumber   int       `db:"guest_number"`
	PetFriendly   bool      `db:"pet_friendly"`
	ImageURL      string    `db:"image_url"`
	CheckInTime   string    `db:"check_in_time"`
	CheckOutTime  string    `db:"check_out_time"`
	AvailableFrom time.Time `db:"available_from"`
	AvailableTo   time.Time `db:"available_to"`
	ManagedBy     string    `db:"managed_by"`
	model.Metadata
}
