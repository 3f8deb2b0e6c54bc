package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"bookinn/config"
	"bookinn/infras/otel/mocks"
	accommodationMocks "bookinn/internal/domains/accommodation/mocks"
	accommodationModel "bookinn/internal/domains/accommodation/model"
	reservationMocks "bookinn/internal/domains/reservation/mocks"
	"bookinn/internal/domains/reservation/model"
	"bookinn/internal/domains/reservation/model/dto"
	"bookinn/internal/domains/reservation/service"
	userMocks "bookinn/internal/domains/user/mocks"
	userModel "bookinn/internal/domains/user/model"
	"bookinn/internal/notification"
	notificationMocks "bookinn/internal/notification/mocks"
	cacheMocks "bookinn/shared/cache/mocks"
	"bookinn/shared/constant"
	"bookinn/shared/failure"
	gModel "bookinn/shared/model"
	"bookinn/shared/timezone"
)

const (
	guestID = "guest-id-123"
	ownerID = "owner-id-456"
)

func authedCtx(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func dateStr(daysFromToday int) string {
	return timezone.Today().AddDate(0, 0, daysFromToday).Format(constant.DateOnlyFormat)
}

func testAccommodation() accommodationModel.Accommodation {
	return accommodationModel.Accommodation{
		ID:            "accommodation-id-789",
		Name:          "Seaside Cabin",
		Price:         120,
		GuestNumber:   4,
		AvailableFrom: timezone.Today(),
		AvailableTo:   timezone.Today().AddDate(0, 0, 30),
		ManagedBy:     ownerID,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  ownerID,
			ModifiedBy: ownerID,
		},
	}
}

func testReservation(status model.Status) model.Reservation {
	return model.Reservation{
		ID:              "reservation-id-001",
		UserID:          guestID,
		AccommodationID: "accommodation-id-789",
		GuestNumber:     2,
		CheckInDate:     timezone.Today().AddDate(0, 0, 5),
		CheckOutDate:    timezone.Today().AddDate(0, 0, 8),
		Status:          status,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  guestID,
			ModifiedBy: guestID,
		},
	}
}

func TestReservationService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reservationMocks.NewMockReservation(ctrl)
	mockAccommodationRepo := accommodationMocks.NewMockAccommodation(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockDispatcher := notificationMocks.NewMockDispatcher(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockAccommodationRepo, mockUserRepo, mockDispatcher, cfg, mockCache, mockOtel)

	accommodation := testAccommodation()
	owner := userModel.User{ID: ownerID, Email: "owner@example.com", Name: "Owner"}

	// Notification and cache invalidation run on goroutines after the
	// operation returns, so their expectations stay permissive.
	allowAsyncSideEffects := func() {
		mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(owner, nil).AnyTimes()
		mockDispatcher.EXPECT().Send(gomock.Any(), gomock.Any()).AnyTimes()
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	}

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.CreateReservationRequest
		setupMock func()
		wantErr   bool
		wantCode  int
		wantMsg   string
	}{
		{
			name: "successful reservation starts pending",
			ctx:  authedCtx(guestID, constant.RoleUser),
			req: dto.CreateReservationRequest{
				GuestNumber:  2,
				CheckInDate:  dateStr(5),
				CheckOutDate: dateStr(8),
			},
			setupMock: func() {
				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)

				mockRepo.EXPECT().
					FindOverlappingByUser(gomock.Any(), guestID, gomock.Any(), gomock.Any(), constant.Empty).
					Return(nil, nil)

				mockRepo.EXPECT().
					HasOverlapByAccommodation(gomock.Any(), accommodation.ID, gomock.Any(), gomock.Any(), constant.Empty).
					Return(false, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, res model.Reservation) error {
						assert.Equal(t, model.StatusPending, res.Status)
						assert.Equal(t, guestID, res.UserID)

						return nil
					})

				allowAsyncSideEffects()
			},
			wantErr: false,
		},
		{
			name: "accommodation not found",
			ctx:  authedCtx(guestID, constant.RoleUser),
			req: dto.CreateReservationRequest{
				GuestNumber:  2,
				CheckInDate:  dateStr(5),
				CheckOutDate: dateStr(8),
			},
			setupMock: func() {
				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodationModel.Accommodation{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
		{
			name: "check-in in the past is rejected",
			ctx:  authedCtx(guestID, constant.RoleUser),
			req: dto.CreateReservationRequest{
				GuestNumber:  2,
				CheckInDate:  dateStr(-1),
				CheckOutDate: dateStr(3),
			},
			setupMock: func() {
				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "check-out must be after check-in",
			ctx:  authedCtx(guestID, constant.RoleUser),
			req: dto.CreateReservationRequest{
				GuestNumber:  2,
				CheckInDate:  dateStr(5),
				CheckOutDate: dateStr(5),
			},
			setupMock: func() {
				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "owner cannot reserve own accommodation",
			ctx:  authedCtx(ownerID, constant.RoleUser),
			req: dto.CreateReservationRequest{
				GuestNumber:  2,
				CheckInDate:  dateStr(5),
				CheckOutDate: dateStr(8),
			},
			setupMock: func() {
				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "dates outside availability window",
			ctx:  authedCtx(guestID, constant.RoleUser),
			req: dto.CreateReservationRequest{
				GuestNumber:  2,
				CheckInDate:  dateStr(28),
				CheckOutDate: dateStr(35),
			},
			setupMock: func() {
				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "stay ending on the window edge is allowed",
			ctx:  authedCtx(guestID, constant.RoleUser),
			req: dto.CreateReservationRequest{
				GuestNumber: 2,
				CheckInDate: dateStr(28),
				// Last night is day 30, the inclusive end of the window.
				CheckOutDate: dateStr(31),
			},
			setupMock: func() {
				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)

				mockRepo.EXPECT().
					FindOverlappingByUser(gomock.Any(), guestID, gomock.Any(), gomock.Any(), constant.Empty).
					Return(nil, nil)

				mockRepo.EXPECT().
					HasOverlapByAccommodation(gomock.Any(), accommodation.ID, gomock.Any(), gomock.Any(), constant.Empty).
					Return(false, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)

				allowAsyncSideEffects()
			},
			wantErr: false,
		},
		{
			name: "guest number exceeds capacity",
			ctx:  authedCtx(guestID, constant.RoleUser),
			req: dto.CreateReservationRequest{
				GuestNumber:  5,
				CheckInDate:  dateStr(5),
				CheckOutDate: dateStr(8),
			},
			setupMock: func() {
				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "guest already holds an overlapping reservation",
			ctx:  authedCtx(guestID, constant.RoleUser),
			req: dto.CreateReservationRequest{
				GuestNumber:  2,
				CheckInDate:  dateStr(5),
				CheckOutDate: dateStr(8),
			},
			setupMock: func() {
				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)

				mockRepo.EXPECT().
					FindOverlappingByUser(gomock.Any(), guestID, gomock.Any(), gomock.Any(), constant.Empty).
					Return([]model.Reservation{testReservation(model.StatusConfirmed)}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
			// The conflict names the blocking reservation.
			wantMsg: "reservation-id-001",
		},
		{
			name: "dates overlap an existing reservation",
			ctx:  authedCtx(guestID, constant.RoleUser),
			req: dto.CreateReservationRequest{
				GuestNumber:  2,
				CheckInDate:  dateStr(5),
				CheckOutDate: dateStr(8),
			},
			setupMock: func() {
				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)

				mockRepo.EXPECT().
					FindOverlappingByUser(gomock.Any(), guestID, gomock.Any(), gomock.Any(), constant.Empty).
					Return(nil, nil)

				mockRepo.EXPECT().
					HasOverlapByAccommodation(gomock.Any(), accommodation.ID, gomock.Any(), gomock.Any(), constant.Empty).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "insert failure is surfaced",
			ctx:  authedCtx(guestID, constant.RoleUser),
			req: dto.CreateReservationRequest{
				GuestNumber:  2,
				CheckInDate:  dateStr(5),
				CheckOutDate: dateStr(8),
			},
			setupMock: func() {
				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)

				mockRepo.EXPECT().
					FindOverlappingByUser(gomock.Any(), guestID, gomock.Any(), gomock.Any(), constant.Empty).
					Return(nil, nil)

				mockRepo.EXPECT().
					HasOverlapByAccommodation(gomock.Any(), accommodation.ID, gomock.Any(), gomock.Any(), constant.Empty).
					Return(false, nil)

				mockRepo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("insert failed"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Create(tt.ctx, tt.req, accommodation.ID)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				if tt.wantMsg != "" {
					assert.Contains(t, err.Error(), tt.wantMsg)
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.StatusPending.String(), res.Status)
			assert.Equal(t, guestID, res.UserID)
		})
	}
}

func TestReservationService_Cancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reservationMocks.NewMockReservation(ctrl)
	mockAccommodationRepo := accommodationMocks.NewMockAccommodation(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockDispatcher := notificationMocks.NewMockDispatcher(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockAccommodationRepo, mockUserRepo, mockDispatcher, cfg, mockCache, mockOtel)

	accommodation := testAccommodation()
	guest := userModel.User{ID: guestID, Email: "guest@example.com", Name: "Guest"}

	allowAsyncSideEffects := func() {
		mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest, nil).AnyTimes()
		mockDispatcher.EXPECT().Send(gomock.Any(), gomock.Any()).AnyTimes()
		mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	}

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "guest cancels a pending reservation",
			ctx:  authedCtx(guestID, constant.RoleUser),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testReservation(model.StatusPending), nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)

				allowAsyncSideEffects()
			},
			wantErr: false,
		},
		{
			name: "confirmed reservation can still be cancelled",
			ctx:  authedCtx(guestID, constant.RoleUser),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testReservation(model.StatusConfirmed), nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)

				allowAsyncSideEffects()
			},
			wantErr: false,
		},
		{
			name: "already cancelled reservation conflicts",
			ctx:  authedCtx(guestID, constant.RoleUser),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testReservation(model.StatusCancelled), nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "completed reservation cannot be cancelled",
			ctx:  authedCtx(guestID, constant.RoleUser),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testReservation(model.StatusCompleted), nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "started stay cannot be cancelled",
			ctx:  authedCtx(guestID, constant.RoleUser),
			setupMock: func() {
				started := testReservation(model.StatusConfirmed)
				started.CheckInDate = timezone.Today().AddDate(0, 0, -1)

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(started, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "only the reservation holder may cancel",
			ctx:  authedCtx("someone-else", constant.RoleUser),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testReservation(model.StatusPending), nil)
			},
			wantErr:  true,
			wantCode: http.StatusForbidden,
		},
		{
			name: "admin may cancel on behalf of the guest",
			ctx:  authedCtx("admin-id", constant.RoleAdmin),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testReservation(model.StatusPending), nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)

				allowAsyncSideEffects()
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Cancel(tt.ctx, "reservation-id-001")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, model.StatusCancelled.String(), res.Status)
		})
	}
}

func TestReservationService_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reservationMocks.NewMockReservation(ctrl)
	mockAccommodationRepo := accommodationMocks.NewMockAccommodation(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockDispatcher := notificationMocks.NewMockDispatcher(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockAccommodationRepo, mockUserRepo, mockDispatcher, cfg, mockCache, mockOtel)

	accommodation := testAccommodation()
	guest := userModel.User{ID: guestID, Email: "guest@example.com", Name: "Guest"}

	allowAsyncSideEffects := func() {
		mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest, nil).AnyTimes()
		mockDispatcher.EXPECT().Send(gomock.Any(), gomock.Any()).AnyTimes()
		mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	}

	tests := []struct {
		name       string
		ctx        context.Context
		current    model.Status
		target     string
		setupMock  func(current model.Status)
		wantErr    bool
		wantCode   int
		wantStatus string
	}{
		{
			name:    "owner confirms a pending reservation",
			ctx:     authedCtx(ownerID, constant.RoleUser),
			current: model.StatusPending,
			target:  "CONFIRMED",
			setupMock: func(current model.Status) {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testReservation(current), nil)

				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)

				mockRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()

				allowAsyncSideEffects()
			},
			wantStatus: "CONFIRMED",
		},
		{
			name:    "completed cannot be set through a status update",
			ctx:     authedCtx(ownerID, constant.RoleUser),
			current: model.StatusConfirmed,
			target:  "COMPLETED",
			setupMock: func(current model.Status) {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testReservation(current), nil)

				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name:    "pending cannot jump to completed",
			ctx:     authedCtx(ownerID, constant.RoleUser),
			current: model.StatusPending,
			target:  "COMPLETED",
			setupMock: func(current model.Status) {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testReservation(current), nil)

				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name:    "cancelled is terminal",
			ctx:     authedCtx(ownerID, constant.RoleUser),
			current: model.StatusCancelled,
			target:  "CONFIRMED",
			setupMock: func(current model.Status) {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testReservation(current), nil)

				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name:      "unknown status is a bad request",
			ctx:       authedCtx(ownerID, constant.RoleUser),
			current:   model.StatusPending,
			target:    "ARCHIVED",
			setupMock: func(current model.Status) {},
			wantErr:   true,
			wantCode:  http.StatusBadRequest,
		},
		{
			name:    "guest cannot change reservation status",
			ctx:     authedCtx(guestID, constant.RoleUser),
			current: model.StatusPending,
			target:  "CONFIRMED",
			setupMock: func(current model.Status) {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testReservation(current), nil)

				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)
			},
			wantErr:  true,
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock(tt.current)

			res, err := svc.UpdateStatus(tt.ctx, "reservation-id-001", dto.UpdateStatusRequest{Status: tt.target})

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
		})
	}
}

func TestReservationService_UpdateStatus_OwnerCancelTemplate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reservationMocks.NewMockReservation(ctrl)
	mockAccommodationRepo := accommodationMocks.NewMockAccommodation(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockDispatcher := notificationMocks.NewMockDispatcher(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockAccommodationRepo, mockUserRepo, mockDispatcher, cfg, mockCache, mockOtel)

	accommodation := testAccommodation()
	guest := userModel.User{ID: guestID, Email: "guest@example.com", Name: "Guest"}

	mockRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(testReservation(model.StatusPending), nil)

	mockAccommodationRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(accommodation, nil)

	mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockUserRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(guest, nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	sent := make(chan notification.Event, 1)

	mockDispatcher.EXPECT().
		Send(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, event notification.Event) {
			select {
			case sent <- event:
			default:
			}
		}).
		AnyTimes()

	res, err := svc.UpdateStatus(authedCtx(ownerID, constant.RoleUser), "reservation-id-001", dto.UpdateStatusRequest{Status: "CANCELLED"})
	assert.NoError(t, err)
	assert.Equal(t, model.StatusCancelled.String(), res.Status)

	// The guest gets the owner-cancellation template, not the one used when
	// they cancel themselves.
	select {
	case event := <-sent:
		assert.Equal(t, notification.TemplateReservationCancelledByOwner, event.Template)
		assert.Equal(t, guest.Email, event.RecipientEmail)
	case <-time.After(time.Second):
		t.Fatal("no notification dispatched")
	}
}

func TestReservationService_Rebook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reservationMocks.NewMockReservation(ctrl)
	mockAccommodationRepo := accommodationMocks.NewMockAccommodation(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockDispatcher := notificationMocks.NewMockDispatcher(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockAccommodationRepo, mockUserRepo, mockDispatcher, cfg, mockCache, mockOtel)

	accommodation := testAccommodation()
	current := testReservation(model.StatusConfirmed)

	tests := []struct {
		name      string
		ctx       context.Context
		req       dto.RebookReservationRequest
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "cancelled reservation cannot be rebooked",
			ctx:  authedCtx(guestID, constant.RoleUser),
			req: dto.RebookReservationRequest{
				GuestNumber:  2,
				CheckInDate:  dateStr(10),
				CheckOutDate: dateStr(12),
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(testReservation(model.StatusCancelled), nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "replacement must pass admission again",
			ctx:  authedCtx(guestID, constant.RoleUser),
			req: dto.RebookReservationRequest{
				GuestNumber:  10,
				CheckInDate:  dateStr(10),
				CheckOutDate: dateStr(12),
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(current, nil)

				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)
			},
			wantErr:  true,
			wantCode: http.StatusBadRequest,
		},
		{
			name: "overlap check excludes the reservation being replaced",
			ctx:  authedCtx(guestID, constant.RoleUser),
			req: dto.RebookReservationRequest{
				GuestNumber:  2,
				CheckInDate:  dateStr(10),
				CheckOutDate: dateStr(12),
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(current, nil)

				mockAccommodationRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)

				mockRepo.EXPECT().
					FindOverlappingByUser(gomock.Any(), guestID, gomock.Any(), gomock.Any(), current.ID).
					Return(nil, nil)

				mockRepo.EXPECT().
					HasOverlapByAccommodation(gomock.Any(), accommodation.ID, gomock.Any(), gomock.Any(), current.ID).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "only the reservation holder may rebook",
			ctx:  authedCtx("someone-else", constant.RoleUser),
			req: dto.RebookReservationRequest{
				GuestNumber:  2,
				CheckInDate:  dateStr(10),
				CheckOutDate: dateStr(12),
			},
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(current, nil)
			},
			wantErr:  true,
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			_, err := svc.Rebook(tt.ctx, current.ID, tt.req)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestReservationService_DeleteByAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := reservationMocks.NewMockReservation(ctrl)
	mockAccommodationRepo := accommodationMocks.NewMockAccommodation(ctrl)
	mockUserRepo := userMocks.NewMockUser(ctrl)
	mockDispatcher := notificationMocks.NewMockDispatcher(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockAccommodationRepo, mockUserRepo, mockDispatcher, cfg, mockCache, mockOtel)

	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	t.Run("deletes an existing reservation", func(t *testing.T) {
		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(true, nil)

		mockRepo.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			Return(nil)

		err := svc.DeleteByAdmin(authedCtx("admin-id", constant.RoleAdmin), "reservation-id-001")
		assert.NoError(t, err)
	})

	t.Run("missing reservation is not found", func(t *testing.T) {
		mockRepo.EXPECT().
			Exist(gomock.Any(), gomock.Any()).
			Return(false, nil)

		err := svc.DeleteByAdmin(authedCtx("admin-id", constant.RoleAdmin), "missing-id")
		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}
