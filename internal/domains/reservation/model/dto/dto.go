package dto

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"bookinn/internal/domains/reservation/model"
	"bookinn/shared"
	"bookinn/shared/constant"
	gDto "bookinn/shared/dto"
	"bookinn/shared/failure"
	gModel "bookinn/shared/model"
	"bookinn/shared/timezone"
)

// TimeScope narrows a reservation listing relative to today.
type TimeScope string

const (
	TimeScopeAll    TimeScope = "ALL"
	TimeScopePast   TimeScope = "PAST"
	TimeScopeFuture TimeScope = "FUTURE"
)

// ParseTimeScope normalizes the time query parameter, defaulting to ALL.
func ParseTimeScope(value string) (TimeScope, error) {
	if value == "" {
		return TimeScopeAll, nil
	}

	switch scope := TimeScope(value); scope {
	case TimeScopeAll, TimeScopePast, TimeScopeFuture:
		return scope, nil
	default:
		return "", failure.BadRequestFromString("time must be one of ALL, PAST, FUTURE") //nolint:wrapcheck
	}
}

type CreateReservationRequest struct {
	GuestNumber  int    `json:"guest_number"   validate:"required,min=1"`
	CheckInDate  string `json:"check_in_date"  validate:"required"`
	CheckOutDate string `json:"check_out_date" validate:"required"`
}

func (c *CreateReservationRequest) ToModel(user, accommodationID string) (model.Reservation, error) {
	checkIn, err := timezone.Parse(constant.DateOnlyFormat, c.CheckInDate)
	if err != nil {
		return model.Reservation{}, failure.BadRequestFromString("check_in_date must be a date in YYYY-MM-DD format") //nolint:wrapcheck
	}

	checkOut, err := timezone.Parse(constant.DateOnlyFormat, c.CheckOutDate)
	if err != nil {
		return model.Reservation{}, failure.BadRequestFromString("check_out_date must be a date in YYYY-MM-DD format") //nolint:wrapcheck
	}

	return model.Reservation{
		ID:              uuid.NewString(),
		UserID:          user,
		AccommodationID: accommodationID,
		GuestNumber:     c.GuestNumber,
		CheckInDate:     checkIn,
		CheckOutDate:    checkOut,
		Status:          model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}, nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=CONFIRMED CANCELLED"`
}

// RebookReservationRequest replaces the dates or party size of an existing
// reservation.
type RebookReservationRequest struct {
	GuestNumber  int    `json:"guest_number"   validate:"required,min=1"`
	CheckInDate  string `json:"check_in_date"  validate:"required"`
	CheckOutDate string `json:"check_out_date" validate:"required"`
}

type ReservationResponse struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	AccommodationID string `json:"accommodation_id"`
	GuestNumber     int    `json:"guest_number"`
	CheckInDate     string `json:"check_in_date"`
	CheckOutDate    string `json:"check_out_date"`
	Status          string `json:"status"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(model model.Reservation) {
	r.ID = model.ID
	r.UserID = model.UserID
	r.AccommodationID = model.AccommodationID
	r.GuestNumber = model.GuestNumber
	r.CheckInDate = model.CheckInDate.Format(constant.DateOnlyFormat)
	r.CheckOutDate = model.CheckOutDate.Format(constant.DateOnlyFormat)
	r.Status = model.Status.String()
	r.Metadata.FromModel(model.Metadata)
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

// RebookReservationResponse summarizes what changed when a reservation was
// rebooked.
type RebookReservationResponse struct {
	Reservation ReservationResponse `json:"reservation"`
	Previous    ReservationResponse `json:"previous"`
	Message     string              `json:"message"`
}

// Summarize fills Message with a readable description of the differences
// between the cancelled reservation and its replacement.
func (r *RebookReservationResponse) Summarize() {
	var changes []string

	if r.Previous.CheckInDate != r.Reservation.CheckInDate {
		changes = append(changes, fmt.Sprintf("check-in moved from %s to %s", r.Previous.CheckInDate, r.Reservation.CheckInDate))
	}

	if r.Previous.CheckOutDate != r.Reservation.CheckOutDate {
		changes = append(changes, fmt.Sprintf("check-out moved from %s to %s", r.Previous.CheckOutDate, r.Reservation.CheckOutDate))
	}

	if r.Previous.GuestNumber != r.Reservation.GuestNumber {
		changes = append(changes, fmt.Sprintf("guest number changed from %d to %d", r.Previous.GuestNumber, r.Reservation.GuestNumber))
	}

	if len(changes) == 0 {
		r.Message = "reservation rebooked with unchanged dates and guest number"

		return
	}

	r.Message = "reservation rebooked: " + strings.Join(changes, ", ")
}
