package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"bookinn/infras/otel"
	"bookinn/infras/postgres"
	"bookinn/internal/domains/reservation/model"
	"bookinn/shared/constant"
	gDto "bookinn/shared/dto"
	"bookinn/shared/failure"
	gRepo "bookinn/shared/repository"
)

type Reservation interface {
	Insert(ctx context.Context, model model.Reservation) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
	HasOverlapByAccommodation(ctx context.Context, accommodationID string, checkIn, checkOut time.Time, excludeID string) (bool, error)
	FindOverlappingByUser(ctx context.Context, userID string, checkIn, checkOut time.Time, excludeID string) ([]model.Reservation, error)
	ExistsActiveByAccommodation(ctx context.Context, accommodationID string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, mod model.Reservation) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.Insert", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	return mapConstraintViolation(r.Repository.Insert(ctx, mod))
}

func (r *repositoryImpl) InsertTx(ctx context.Context, sqltx *sqlx.Tx, mod model.Reservation) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.InsertTx", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	return mapConstraintViolation(r.Repository.InsertTx(ctx, sqltx, mod))
}

// mapConstraintViolation translates the range-exclusion constraint raised by
// two concurrent overlapping inserts into a conflict the handler can return
// as 409.
func mapConstraintViolation(err error) error {
	var pqErr *pq.Error

	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case constant.PqErrorCodeExclusionViolation:
			return failure.Conflict("reservation dates overlap an existing reservation") //nolint:wrapcheck
		case constant.PqErrorCodeFkViolation:
			return failure.NotFound("accommodation") //nolint:wrapcheck
		}
	}

	return err //nolint:wrapcheck
}

// overlapFilter matches non-cancelled reservations whose half-open stay
// window [check_in_date, check_out_date) intersects [checkIn, checkOut).
// Back-to-back stays sharing a boundary date do not match.
func overlapFilter(field, value string, checkIn, checkOut time.Time, excludeID string) gDto.FilterGroup {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorNotEq,
				Value:    model.StatusCancelled,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "new_check_out",
				Field:    model.FieldCheckInDate,
				Operator: gDto.FilterOperatorLess,
				Value:    checkOut.Format(constant.DateOnlyFormat),
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "new_check_in",
				Field:    model.FieldCheckOutDate,
				Operator: gDto.FilterOperatorGreater,
				Value:    checkIn.Format(constant.DateOnlyFormat),
				Table:    model.TableName,
			},
		},
	}

	if excludeID != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "exclude_id",
			Field:    model.FieldID,
			Operator: gDto.FilterOperatorNotEq,
			Value:    excludeID,
			Table:    model.TableName,
		})
	}

	return filter
}

func (r *repositoryImpl) HasOverlapByAccommodation(ctx context.Context, accommodationID string, checkIn, checkOut time.Time, excludeID string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.HasOverlapByAccommodation", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	return r.Exist(ctx, overlapFilter(model.FieldAccommodationID, accommodationID, checkIn, checkOut, excludeID)) //nolint:wrapcheck
}

// FindOverlappingByUser returns the caller's stays colliding with the
// requested window, so the admission failure can name them.
func (r *repositoryImpl) FindOverlappingByUser(ctx context.Context, userID string, checkIn, checkOut time.Time, excludeID string) ([]model.Reservation, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.FindOverlappingByUser", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	return r.GetAll(ctx, gDto.QueryParams{}, overlapFilter(model.FieldUserID, userID, checkIn, checkOut, excludeID)) //nolint:wrapcheck
}

func (r *repositoryImpl) ExistsActiveByAccommodation(ctx context.Context, accommodationID string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.ExistsActiveByAccommodation", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldAccommodationID,
				Operator: gDto.FilterOperatorEq,
				Value:    accommodationID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Operator: gDto.FilterOperatorNotEq,
				Value:    model.StatusCancelled,
				Table:    model.TableName,
			},
		},
	}

	return r.Exist(ctx, filter) //nolint:wrapcheck
}
