package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"bookinn/config"
	"bookinn/infras/otel"
	accommodationModel "bookinn/internal/domains/accommodation/model"
	accommodationRepo "bookinn/internal/domains/accommodation/repository"
	"bookinn/internal/domains/reservation/model"
	"bookinn/internal/domains/reservation/model/dto"
	"bookinn/internal/domains/reservation/repository"
	userModel "bookinn/internal/domains/user/model"
	userRepo "bookinn/internal/domains/user/repository"
	"bookinn/internal/notification"
	"bookinn/shared"
	"bookinn/shared/cache"
	"bookinn/shared/constant"
	gDto "bookinn/shared/dto"
	"bookinn/shared/failure"
	"bookinn/shared/timezone"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest, accommodationID string) (dto.ReservationResponse, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, scope dto.TimeScope) (dto.GetReservationsResponse, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (dto.ReservationResponse, error)
	Cancel(ctx context.Context, id string) (dto.ReservationResponse, error)
	Rebook(ctx context.Context, id string, req dto.RebookReservationRequest) (dto.RebookReservationResponse, error)
	DeleteByAdmin(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo              repository.Reservation
	accommodationRepo accommodationRepo.Accommodation
	userRepo          userRepo.User
	dispatcher        notification.Dispatcher
	cfg               *config.Config
	cache             cache.RedisCache
	otel              otel.Otel
}

func New(
	repo repository.Reservation,
	accommodationRepo accommodationRepo.Accommodation,
	userRepo userRepo.User,
	dispatcher notification.Dispatcher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:              repo,
		accommodationRepo: accommodationRepo,
		userRepo:          userRepo,
		dispatcher:        dispatcher,
		cfg:               cfg,
		cache:             cache,
		otel:              otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest, accommodationID string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	accommodation, err := s.loadAccommodation(ctx, accommodationID)
	if err != nil {
		return res, err
	}

	reservation, err := req.ToModel(user, accommodationID)
	if err != nil {
		return res, err
	}

	if err = s.validateNewReservation(ctx, reservation, accommodation, constant.Empty); err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, reservation); err != nil {
		log.Error().Err(err).Msg("failed to insert reservation")

		return res, err
	}

	s.notifyAsync(ctx, reservation, accommodation, notification.TemplateReservationRequested, accommodation.ManagedBy)
	s.invalidateListCaches(ctx)

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetReservation, id)

	reservation, err := s.loadReservation(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.guardViewer(ctx, reservation); err != nil {
		return res, err
	}

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservation")

		return res, nil
	}

	res.FromModel(reservation)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservation to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, scope dto.TimeScope) (res dto.GetReservationsResponse, err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := timeScopedFilter(user, scope)

	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(cacheGetAllReservation, user), params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

// timeScopedFilter narrows the caller's reservations to past or future stays.
// A stay in progress today counts as future until its check-out date passes.
func timeScopedFilter(user string, scope dto.TimeScope) gDto.FilterGroup {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    user,
				Table:    model.TableName,
			},
		},
	}

	switch scope {
	case dto.TimeScopePast:
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "today",
			Field:    model.FieldCheckOutDate,
			Operator: gDto.FilterOperatorLessEq,
			Value:    timezone.Today().Format(constant.DateOnlyFormat),
			Table:    model.TableName,
		})
	case dto.TimeScopeFuture:
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  "today",
			Field:    model.FieldCheckOutDate,
			Operator: gDto.FilterOperatorGreater,
			Value:    timezone.Today().Format(constant.DateOnlyFormat),
			Table:    model.TableName,
		})
	case dto.TimeScopeAll:
	}

	return filter
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	target, err := model.ParseStatus(req.Status)
	if err != nil {
		return res, failure.BadRequest(err) //nolint:wrapcheck
	}

	reservation, err := s.loadReservation(ctx, id)
	if err != nil {
		return res, err
	}

	accommodation, err := s.loadAccommodation(ctx, reservation.AccommodationID)
	if err != nil {
		return res, err
	}

	if err = s.guardOwner(ctx, accommodation); err != nil {
		return res, err
	}

	if !reservation.Status.CanTransitionTo(target) {
		return res, errIllegalTransition
	}

	if err = s.persistStatus(ctx, &reservation, target); err != nil {
		return res, err
	}

	switch target {
	case model.StatusConfirmed:
		s.notifyAsync(ctx, reservation, accommodation, notification.TemplateReservationConfirmed, reservation.UserID)
	case model.StatusCancelled:
		s.notifyAsync(ctx, reservation, accommodation, notification.TemplateReservationCancelledByOwner, reservation.UserID)
	case model.StatusPending, model.StatusCompleted:
	}

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	reservation, err := s.loadReservation(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.guardGuest(ctx, reservation); err != nil {
		return res, err
	}

	if err = validateCancellable(reservation); err != nil {
		return res, err
	}

	if err = s.persistStatus(ctx, &reservation, model.StatusCancelled); err != nil {
		return res, err
	}

	accommodation, err := s.loadAccommodation(ctx, reservation.AccommodationID)
	if err == nil {
		s.notifyAsync(ctx, reservation, accommodation, notification.TemplateReservationCancelled, reservation.UserID)
		s.notifyAsync(ctx, reservation, accommodation, notification.TemplateReservationCancelled, accommodation.ManagedBy)
	}

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) Rebook(ctx context.Context, id string, req dto.RebookReservationRequest) (res dto.RebookReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Rebook")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.loadReservation(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.guardGuest(ctx, current); err != nil {
		return res, err
	}

	if err = validateCancellable(current); err != nil {
		return res, err
	}

	accommodation, err := s.loadAccommodation(ctx, current.AccommodationID)
	if err != nil {
		return res, err
	}

	createReq := dto.CreateReservationRequest{
		GuestNumber:  req.GuestNumber,
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
	}

	replacement, err := createReq.ToModel(user, current.AccommodationID)
	if err != nil {
		return res, err
	}

	// The replacement must pass full admission again; only the reservation
	// being replaced is exempt from the overlap checks.
	if err = s.validateNewReservation(ctx, replacement, accommodation, current.ID); err != nil {
		return res, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return res, err
	}

	cancelFields := map[string]any{
		model.FieldStatus:        model.StatusCancelled,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.UpdateTx(ctx, tx, cancelFields, shared.FilterByID(current.ID, model.FieldID, model.TableName)); err != nil {
		_ = tx.Rollback()

		return res, err
	}

	if err = s.repo.InsertTx(ctx, tx, replacement); err != nil {
		_ = tx.Rollback()

		return res, err
	}

	if err = tx.Commit(); err != nil {
		log.Error().Err(err).Msg("failed to commit rebook transaction")

		return res, fmt.Errorf("failed to commit rebook transaction: %w", err)
	}

	current.Status = model.StatusCancelled

	s.notifyAsync(ctx, replacement, accommodation, notification.TemplateReservationRebooked, replacement.UserID)
	s.notifyAsync(ctx, replacement, accommodation, notification.TemplateReservationRebooked, accommodation.ManagedBy)
	s.invalidateReservationCaches(ctx, current.ID)

	res.Reservation.FromModel(replacement)
	res.Previous.FromModel(current)
	res.Summarize()

	return res, nil
}

func (s *serviceImpl) DeleteByAdmin(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteByAdmin")
	defer scope.End()
	defer scope.TraceIfError(err)

	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if reservation exists")

		return fmt.Errorf("failed to check if reservation exists: %w", err)
	}

	if !exist {
		return failure.NotFound(model.EntityName) //nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to delete reservation")

		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	s.invalidateReservationCaches(ctx, id)

	return nil
}

func (s *serviceImpl) loadReservation(ctx context.Context, id string) (model.Reservation, error) {
	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return reservation, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return reservation, failure.NotFound(model.EntityName) //nolint:wrapcheck
	}

	return reservation, nil
}

func (s *serviceImpl) loadAccommodation(ctx context.Context, id string) (accommodationModel.Accommodation, error) {
	accommodation, err := s.accommodationRepo.Get(ctx, shared.FilterByID(id, accommodationModel.FieldID, accommodationModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get accommodation")

		return accommodation, fmt.Errorf("failed to get accommodation: %w", err)
	}

	if accommodation.ID == constant.Empty {
		return accommodation, failure.NotFound(accommodationModel.EntityName) //nolint:wrapcheck
	}

	return accommodation, nil
}

func (s *serviceImpl) persistStatus(ctx context.Context, reservation *model.Reservation, target model.Status) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	fields := map[string]any{
		model.FieldStatus:        target,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.Update(ctx, fields, shared.FilterByID(reservation.ID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update reservation status")

		return fmt.Errorf("failed to update reservation status: %w", err)
	}

	reservation.Status = target

	s.invalidateReservationCaches(ctx, reservation.ID)

	return nil
}

// notifyAsync dispatches a notification to the given user and marks the
// reservation's email flag, both outside the request transaction. Failures
// are logged and never surfaced.
func (s *serviceImpl) notifyAsync(ctx context.Context, reservation model.Reservation, accommodation accommodationModel.Accommodation, template notification.TemplateKind, recipientID string) {
	c := context.WithoutCancel(ctx)

	go func() {
		recipient, err := s.userRepo.Get(c, shared.FilterByID(recipientID, userModel.FieldID, userModel.TableName))
		if err != nil || recipient.ID == constant.Empty {
			log.Error().Err(err).Str("userID", recipientID).Msg("failed to load notification recipient")

			return
		}

		s.dispatcher.Send(c, notification.Event{
			Template:          template,
			ReservationID:     reservation.ID,
			AccommodationName: accommodation.Name,
			RecipientEmail:    recipient.Email,
			RecipientName:     recipient.Name,
			CheckInDate:       reservation.CheckInDate.Format(constant.DateOnlyFormat),
			CheckOutDate:      reservation.CheckOutDate.Format(constant.DateOnlyFormat),
		})

		fields := map[string]any{
			model.FieldEmailSent: true,
		}

		if err := s.repo.Update(c, fields, shared.FilterByID(reservation.ID, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Str("reservationID", reservation.ID).Msg("failed to mark reservation email flag")
		}
	}()
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
	}()
}

func (s *serviceImpl) invalidateReservationCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetReservation, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete reservation cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
	}()
}

// guardGuest allows only the reservation's guest or an admin.
func (s *serviceImpl) guardGuest(ctx context.Context, reservation model.Reservation) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role != constant.RoleAdmin && reservation.UserID != user {
		return failure.Forbidden("only the reservation holder may perform this action") //nolint:wrapcheck
	}

	return nil
}

// guardOwner allows only the accommodation's managing user or an admin.
func (s *serviceImpl) guardOwner(ctx context.Context, accommodation accommodationModel.Accommodation) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role != constant.RoleAdmin && accommodation.ManagedBy != user {
		return failure.Forbidden("only the accommodation owner may perform this action") //nolint:wrapcheck
	}

	return nil
}

// guardViewer allows the guest, the accommodation owner, or an admin to view
// a reservation.
func (s *serviceImpl) guardViewer(ctx context.Context, reservation model.Reservation) error {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if role == constant.RoleAdmin || reservation.UserID == user {
		return nil
	}

	accommodation, err := s.loadAccommodation(ctx, reservation.AccommodationID)
	if err == nil && accommodation.ManagedBy == user {
		return nil
	}

	return failure.Forbidden("not allowed to view this reservation") //nolint:wrapcheck
}
