package service

import (
	"context"
	"fmt"
	"strings"

	accommodationModel "bookinn/internal/domains/accommodation/model"
	"bookinn/internal/domains/reservation/model"
	"bookinn/shared/constant"
	"bookinn/shared/failure"
	"bookinn/shared/timezone"
)

// Admission failures for a new reservation. Date, window and capacity
// problems are client mistakes; ownership and overlap problems are conflicts
// with existing state.
var (
	errInvalidDateRange = failure.BadRequestFromString("check-in date must not be in the past and must be before check-out date")
	errSelfBooking      = failure.Conflict("owners cannot reserve their own accommodation")
	errUnavailable      = failure.BadRequestFromString("requested dates fall outside the accommodation availability window")
	errCapacityExceeded = failure.BadRequestFromString("guest number exceeds accommodation capacity")
	errStayOverlap      = failure.Conflict("reservation dates overlap an existing reservation")

	errAlreadyCancelled  = failure.Conflict("reservation is already cancelled")
	errNotCancellable    = failure.Conflict("only pending or confirmed reservations can be cancelled")
	errAlreadyStarted    = failure.Conflict("reservation stay has already started")
	errIllegalTransition = failure.Conflict("illegal reservation status transition")
)

// validateNewReservation runs the admission checks in order and stops at the
// first failure. The excludeID parameter lets rebooking ignore the
// reservation being replaced in the overlap checks.
func (s *serviceImpl) validateNewReservation(ctx context.Context, res model.Reservation, accommodation accommodationModel.Accommodation, excludeID string) error {
	today := timezone.Today()
	checkIn := timezone.ToDate(res.CheckInDate)
	checkOut := timezone.ToDate(res.CheckOutDate)

	if checkIn.Before(today) || !checkIn.Before(checkOut) {
		return errInvalidDateRange
	}

	if res.UserID == accommodation.ManagedBy {
		return errSelfBooking
	}

	// The stay window is half-open, so the last night ends the day before
	// check-out. The availability bounds themselves are inclusive.
	lastNight := checkOut.AddDate(0, 0, -1)
	if checkIn.Before(timezone.ToDate(accommodation.AvailableFrom)) || lastNight.After(timezone.ToDate(accommodation.AvailableTo)) {
		return errUnavailable
	}

	if res.GuestNumber > accommodation.GuestNumber {
		return errCapacityExceeded
	}

	conflicts, err := s.repo.FindOverlappingByUser(ctx, res.UserID, checkIn, checkOut, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check user overlap: %w", err)
	}

	if len(conflicts) > 0 {
		return userOverlapFailure(conflicts)
	}

	stayOverlap, err := s.repo.HasOverlapByAccommodation(ctx, res.AccommodationID, checkIn, checkOut, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check accommodation overlap: %w", err)
	}

	if stayOverlap {
		return errStayOverlap
	}

	return nil
}

// userOverlapFailure names the caller's conflicting stays so the client can
// see which reservations block the requested dates.
func userOverlapFailure(conflicts []model.Reservation) error {
	stays := make([]string, len(conflicts))
	for i, conflict := range conflicts {
		stays[i] = fmt.Sprintf("%s (%s to %s)",
			conflict.ID,
			conflict.CheckInDate.Format(constant.DateOnlyFormat),
			conflict.CheckOutDate.Format(constant.DateOnlyFormat),
		)
	}

	return failure.Conflict("user already holds a reservation overlapping the requested dates: " + strings.Join(stays, ", ")) //nolint:wrapcheck
}

// validateCancellable decides whether a guest may still cancel.
func validateCancellable(res model.Reservation) error {
	if res.Status == model.StatusCancelled {
		return errAlreadyCancelled
	}

	if res.Status != model.StatusPending && res.Status != model.StatusConfirmed {
		return errNotCancellable
	}

	if timezone.ToDate(res.CheckInDate).Before(timezone.Today()) {
		return errAlreadyStarted
	}

	return nil
}
