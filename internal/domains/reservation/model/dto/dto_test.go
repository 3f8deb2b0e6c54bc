package dto_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"bookinn/internal/domains/reservation/model"
	"bookinn/internal/domains/reservation/model/dto"
	"bookinn/shared/failure"
)

func TestParseTimeScope(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    dto.TimeScope
		wantErr bool
	}{
		{name: "empty defaults to all", input: "", want: dto.TimeScopeAll},
		{name: "all", input: "ALL", want: dto.TimeScopeAll},
		{name: "past", input: "PAST", want: dto.TimeScopePast},
		{name: "future", input: "FUTURE", want: dto.TimeScopeFuture},
		{name: "unknown scope", input: "YESTERDAY", wantErr: true},
		{name: "lowercase is not accepted", input: "past", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := dto.ParseTimeScope(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateReservationRequest_ToModel(t *testing.T) {
	t.Run("new reservation starts pending", func(t *testing.T) {
		req := dto.CreateReservationRequest{
			GuestNumber:  2,
			CheckInDate:  "2026-09-10",
			CheckOutDate: "2026-09-15",
		}

		res, err := req.ToModel("user-id-123", "accommodation-id-789")
		assert.NoError(t, err)
		assert.Equal(t, model.StatusPending, res.Status)
		assert.Equal(t, "user-id-123", res.UserID)
		assert.Equal(t, "accommodation-id-789", res.AccommodationID)
		assert.NotEmpty(t, res.ID)
		assert.Equal(t, 5, res.Nights())
	})

	t.Run("malformed check-in date", func(t *testing.T) {
		req := dto.CreateReservationRequest{
			GuestNumber:  2,
			CheckInDate:  "10/09/2026",
			CheckOutDate: "2026-09-15",
		}

		_, err := req.ToModel("user-id-123", "accommodation-id-789")
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("malformed check-out date", func(t *testing.T) {
		req := dto.CreateReservationRequest{
			GuestNumber:  2,
			CheckInDate:  "2026-09-10",
			CheckOutDate: "someday",
		}

		_, err := req.ToModel("user-id-123", "accommodation-id-789")
		assert.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestRebookReservationResponse_Summarize(t *testing.T) {
	base := dto.ReservationResponse{
		CheckInDate:  "2026-09-10",
		CheckOutDate: "2026-09-15",
		GuestNumber:  2,
	}

	tests := []struct {
		name        string
		replacement dto.ReservationResponse
		wantMessage string
	}{
		{
			name: "dates and guest number changed",
			replacement: dto.ReservationResponse{
				CheckInDate:  "2026-09-12",
				CheckOutDate: "2026-09-16",
				GuestNumber:  4,
			},
			wantMessage: "reservation rebooked: check-in moved from 2026-09-10 to 2026-09-12, check-out moved from 2026-09-15 to 2026-09-16, guest number changed from 2 to 4",
		},
		{
			name: "only guest number changed",
			replacement: dto.ReservationResponse{
				CheckInDate:  "2026-09-10",
				CheckOutDate: "2026-09-15",
				GuestNumber:  3,
			},
			wantMessage: "reservation rebooked: guest number changed from 2 to 3",
		},
		{
			name:        "nothing changed",
			replacement: base,
			wantMessage: "reservation rebooked with unchanged dates and guest number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := dto.RebookReservationResponse{
				Reservation: tt.replacement,
				Previous:    base,
			}

			res.Summarize()

			assert.Equal(t, tt.wantMessage, res.Message)
		})
	}
}
