package notification

//go:generate go run go.uber.org/mock/mockgen -source=./notification.go -destination=./mocks/notification_mock.go -package=mocks

import (
	"context"

	"github.com/rs/zerolog/log"

	"bookinn/config"
	"bookinn/infras/kafka"
	"bookinn/infras/otel"
	"bookinn/shared/constant"
)

// TemplateKind selects the email template rendered by the downstream
// notification worker.
type TemplateKind string

const (
	TemplateReservationRequested        TemplateKind = "RESERVATION_REQUESTED"
	TemplateReservationConfirmed        TemplateKind = "RESERVATION_CONFIRMED"
	TemplateReservationCancelled        TemplateKind = "RESERVATION_CANCELLED"
	TemplateReservationCancelledByOwner TemplateKind = "RESERVATION_CANCELLED_BY_OWNER"
	TemplateReservationRebooked         TemplateKind = "RESERVATION_REBOOKED"
)

// Event is the payload published for each reservation notification.
type Event struct {
	Template          TemplateKind `json:"template"`
	ReservationID     string       `json:"reservation_id"`
	AccommodationName string       `json:"accommodation_name"`
	RecipientEmail    string       `json:"recipient_email"`
	RecipientName     string       `json:"recipient_name"`
	CheckInDate       string       `json:"check_in_date"`
	CheckOutDate      string       `json:"check_out_date"`
}

// Dispatcher publishes reservation notifications. Delivery is best effort; a
// failed publish never fails the reservation operation that triggered it.
type Dispatcher interface {
	Send(ctx context.Context, event Event)
}

type dispatcherImpl struct {
	client kafka.Client
	cfg    *config.Config
	otel   otel.Otel
}

func New(client kafka.Client, cfg *config.Config, otel otel.Otel) Dispatcher {
	return &dispatcherImpl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}

func (d *dispatcherImpl) Send(ctx context.Context, event Event) {
	ctx, scope := d.otel.NewScope(ctx, constant.OtelDispatchScopeName, constant.OtelDispatchScopeName+".Send")
	defer scope.End()

	message := kafka.Message{
		Key:   event.ReservationID,
		Value: event,
	}

	if err := d.client.SendMessages(ctx, d.cfg.Kafka.Topics.Notifications, message); err != nil {
		log.Error().
			Err(err).
			Str("template", string(event.Template)).
			Str("reservationID", event.ReservationID).
			Msg("failed to publish notification")
		scope.TraceError(err)
	}
}
