package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Type string

const (
	ReservationBooked        Type = "reservation.booked"
	ReservationStatusChanged Type = "reservation.status_changed"
	ReservationDeleted       Type = "reservation.deleted"
	PaymentRecorded          Type = "payment.recorded"
	ReviewSubmitted          Type = "review.submitted"
)

type Event struct {
	ID             string    `json:"id"`
	Type           Type      `json:"type"`
	ReservationID  int64     `json:"reservation_id"`
	UserID         int64     `json:"user_id"`
	ProfessionalID int64     `json:"professional_id"`
	Status         string    `json:"status,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func New(t Type, reservationID, userID, professionalID int64, status string) Event {
	return Event{
		ID:             uuid.NewString(),
		Type:           t,
		ReservationID:  reservationID,
		UserID:         userID,
		ProfessionalID: professionalID,
		Status:         status,
		OccurredAt:     time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Fanout delivers each event to every publisher. Failures are logged and
// never returned, so a broken sink cannot fail the request that emitted it.
type Fanout struct {
	log  *zap.Logger
	subs []Publisher
}

func NewFanout(log *zap.Logger, subs ...Publisher) *Fanout {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fanout{log: log, subs: subs}
}

func (f *Fanout) Publish(ctx context.Context, e Event) error {
	for _, p := range f.subs {
		if err := p.Publish(ctx, e); err != nil {
			f.log.Warn("event publish failed",
				zap.String("event_id", e.ID),
				zap.String("type", string(e.Type)),
				zap.Int64("reservation_id", e.ReservationID),
				zap.Error(err),
			)
		}
	}
	return nil
}
