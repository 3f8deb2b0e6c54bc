package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"bookinn/config"
	"bookinn/infras/otel/mocks"
	s3Mocks "bookinn/infras/s3/mocks"
	accommodationMocks "bookinn/internal/domains/accommodation/mocks"
	"bookinn/internal/domains/accommodation/model"
	"bookinn/internal/domains/accommodation/model/dto"
	"bookinn/internal/domains/accommodation/service"
	reservationMocks "bookinn/internal/domains/reservation/mocks"
	cacheMocks "bookinn/shared/cache/mocks"
	"bookinn/shared/constant"
	"bookinn/shared/failure"
	gModel "bookinn/shared/model"
	"bookinn/shared/timezone"
)

const managerID = "manager-id-123"

func authedCtx(userID, role string) context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, userID)

	return context.WithValue(ctx, constant.ContextKeyUserRole, role)
}

func updateRequestWithPrice(price *float64) dto.UpdateAccommodationRequest {
	return dto.UpdateAccommodationRequest{Price: price}
}

func testAccommodation() model.Accommodation {
	return model.Accommodation{
		ID:            "accommodation-id-789",
		Name:          "Seaside Cabin",
		Price:         120,
		GuestNumber:   4,
		AvailableFrom: timezone.Today(),
		AvailableTo:   timezone.Today().AddDate(0, 0, 30),
		ManagedBy:     managerID,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  managerID,
			ModifiedBy: managerID,
		},
	}
}

func TestAccommodationService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := accommodationMocks.NewMockAccommodation(ctrl)
	mockReservationRepo := reservationMocks.NewMockReservation(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockReservationRepo, cfg, mockCache, mockOtel, mockS3)

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	t.Run("cache miss falls through to the repository", func(t *testing.T) {
		accommodation := testAccommodation()

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(accommodation, nil)

		res, err := svc.Get(context.Background(), accommodation.ID)
		assert.NoError(t, err)
		assert.Equal(t, accommodation.Name, res.Name)
	})

	t.Run("missing accommodation is not found", func(t *testing.T) {
		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Accommodation{}, nil)

		_, err := svc.Get(context.Background(), "missing-id")
		assert.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestAccommodationService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := accommodationMocks.NewMockAccommodation(ctrl)
	mockReservationRepo := reservationMocks.NewMockReservation(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockReservationRepo, cfg, mockCache, mockOtel, mockS3)

	// Cache invalidation runs on a goroutine after the operation returns.
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	accommodation := testAccommodation()

	tests := []struct {
		name      string
		ctx       context.Context
		setupMock func()
		wantErr   bool
		wantCode  int
	}{
		{
			name: "manager deletes an idle accommodation",
			ctx:  authedCtx(managerID, constant.RoleUser),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)

				mockReservationRepo.EXPECT().
					ExistsActiveByAccommodation(gomock.Any(), accommodation.ID).
					Return(false, nil)

				mockRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "stored image is removed alongside the row",
			ctx:  authedCtx(managerID, constant.RoleUser),
			setupMock: func() {
				withImage := accommodation
				withImage.ImageURL = "https://bucket.example.com/accommodation/object.png"

				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(withImage, nil)

				mockReservationRepo.EXPECT().
					ExistsActiveByAccommodation(gomock.Any(), accommodation.ID).
					Return(false, nil)

				mockRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)

				mockS3.EXPECT().
					GetObjectNameFromURL(gomock.Any(), withImage.ImageURL).
					Return("object.png")

				mockS3.EXPECT().
					DeleteFile(gomock.Any(), gomock.Any(), model.EntityName, "object.png").
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "active reservations block deletion",
			ctx:  authedCtx(managerID, constant.RoleUser),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)

				mockReservationRepo.EXPECT().
					ExistsActiveByAccommodation(gomock.Any(), accommodation.ID).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: http.StatusConflict,
		},
		{
			name: "only the manager may delete",
			ctx:  authedCtx("someone-else", constant.RoleUser),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)
			},
			wantErr:  true,
			wantCode: http.StatusForbidden,
		},
		{
			name: "admin may delete any accommodation",
			ctx:  authedCtx("admin-id", constant.RoleAdmin),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(accommodation, nil)

				mockReservationRepo.EXPECT().
					ExistsActiveByAccommodation(gomock.Any(), accommodation.ID).
					Return(false, nil)

				mockRepo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "missing accommodation is not found",
			ctx:  authedCtx(managerID, constant.RoleUser),
			setupMock: func() {
				mockRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Accommodation{}, nil)
			},
			wantErr:  true,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Delete(tt.ctx, accommodation.ID)

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

func TestAccommodationService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := accommodationMocks.NewMockAccommodation(ctrl)
	mockReservationRepo := reservationMocks.NewMockReservation(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockRepo, mockReservationRepo, cfg, mockCache, mockOtel, mockS3)

	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	accommodation := testAccommodation()
	newPrice := 150.0

	t.Run("manager updates price", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(accommodation, nil)

		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ any) error {
				assert.Equal(t, &newPrice, fields[model.FieldPrice])

				return nil
			})

		err := svc.Update(authedCtx(managerID, constant.RoleUser), updateRequestWithPrice(&newPrice), accommodation.ID)
		assert.NoError(t, err)
	})

	t.Run("non-manager is forbidden", func(t *testing.T) {
		mockRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(accommodation, nil)

		err := svc.Update(authedCtx("someone-else", constant.RoleUser), updateRequestWithPrice(&newPrice), accommodation.ID)
		assert.Error(t, err)
		assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
	})
}
