package notify

import (
	"context"
	"fmt"

	"github.com/diagnosis/luxury-stays/internal/platform/mailer"
	"github.com/diagnosis/luxury-stays/pkg/events"
	"github.com/diagnosis/luxury-stays/pkg/logger"
)

// Notifier mails the operations inbox about new reservations and inquiries.
type Notifier struct {
	mail mailer.Service
	to   string
	site string
}

func New(mail mailer.Service, opsEmail, site string) *Notifier {
	return &Notifier{mail: mail, to: opsEmail, site: site}
}

func (n *Notifier) NotifyInquiry(ctx context.Context, e events.InquiryReceivedEvent) error {
	return n.send(ctx, mailer.InquiryMessage(n.site, e))
}

func (n *Notifier) NotifyReservation(ctx context.Context, e events.ReservationConfirmedEvent) error {
	return n.send(ctx, mailer.ReservationMessage(n.site, e))
}

func (n *Notifier) send(ctx context.Context, msg mailer.Message) error {
	if n.to == "" {
		logger.WarnContext(ctx, "OPS_EMAIL not set, skipping notification", "subject", msg.Subject)
		return nil
	}
	msg.To, msg.ToName = n.to, n.site
	id, err := n.mail.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	logger.InfoContext(ctx, "Notification sent", "message_id", id, "subject", msg.Subject)
	return nil
}

// Subscribe wires the notifier to the event bus. A queue group keeps each
// event to one mail when several workers run.
func (n *Notifier) Subscribe(bus events.Subscriber, queue string) error {
	if err := bus.QueueSubscribe(events.ReservationConfirmed, queue, func(msg *events.Message) {
		var e events.ReservationConfirmedEvent
		n.handle(msg, &e, func(ctx context.Context) error { return n.NotifyReservation(ctx, e) })
	}); err != nil {
		return fmt.Errorf("subscribe %s: %w", events.ReservationConfirmed, err)
	}
	if err := bus.QueueSubscribe(events.InquiryReceived, queue, func(msg *events.Message) {
		var e events.InquiryReceivedEvent
		n.handle(msg, &e, func(ctx context.Context) error { return n.NotifyInquiry(ctx, e) })
	}); err != nil {
		return fmt.Errorf("subscribe %s: %w", events.InquiryReceived, err)
	}
	return nil
}

func (n *Notifier) handle(msg *events.Message, into interface{}, fn func(ctx context.Context) error) {
	ctx := context.WithValue(context.Background(), logger.RequestIDKey, msg.ID)
	if err := msg.Decode(into); err != nil {
		logger.ErrorContext(ctx, "Dropping malformed event", "subject", msg.Subject, "error", err)
		return
	}
	if err := fn(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to handle event", "subject", msg.Subject, "error", err)
	}
}

// DirectPublisher hands events straight to a Notifier. The web process uses
// it when no NATS server is configured.
type DirectPublisher struct {
	n *Notifier
}

func NewDirectPublisher(n *Notifier) *DirectPublisher {
	return &DirectPublisher{n: n}
}

func (p *DirectPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	switch e := data.(type) {
	case events.ReservationConfirmedEvent:
		return p.n.NotifyReservation(ctx, e)
	case events.InquiryReceivedEvent:
		return p.n.NotifyInquiry(ctx, e)
	default:
		logger.DebugContext(ctx, "No direct handler for event", "subject", subject)
		return nil
	}
}

func (p *DirectPublisher) Close() error { return nil }
