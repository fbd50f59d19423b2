package inquiry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/diagnosis/luxury-stays/internal/domain"
	"github.com/diagnosis/luxury-stays/internal/utils"
	"github.com/diagnosis/luxury-stays/pkg/events"
	"github.com/diagnosis/luxury-stays/pkg/logger"
)

// FieldError is a form problem tied to one input.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

// Store persists inquiries.
type Store interface {
	Create(ctx context.Context, in *domain.Inquiry) (*domain.Inquiry, error)
}

type Service interface {
	Submit(ctx context.Context, kind domain.InquiryKind, req domain.InquiryReq) (*domain.Inquiry, error)
}

type service struct {
	store Store
	bus   events.Publisher
	now   func() time.Time
}

// NewService wires inquiry intake. A nil store keeps inquiries only in the
// outgoing event.
func NewService(store Store, bus events.Publisher) Service {
	return &service{store: store, bus: bus, now: time.Now}
}

func Validate(kind domain.InquiryKind, req domain.InquiryReq) (*domain.Inquiry, error) {
	name := utils.NormalizeString(req.Name)
	if name == "" {
		name = strings.TrimSpace(utils.NormalizeString(req.FirstName) + " " + utils.NormalizeString(req.LastName))
	}
	in := &domain.Inquiry{
		Kind:            kind,
		Name:            name,
		Email:           utils.NormalizeEmail(req.Email),
		Phone:           utils.NormalizeString(req.Phone),
		Subject:         utils.NormalizeString(req.Subject),
		Message:         strings.TrimSpace(req.Message),
		PropertyAddress: utils.NormalizeString(req.PropertyAddress),
		Bedrooms:        req.Bedrooms,
	}

	switch {
	case kind != domain.InquiryContact && kind != domain.InquiryOwner:
		return nil, &FieldError{Field: "kind", Message: "Unknown inquiry type"}
	case in.Name == "":
		return nil, &FieldError{Field: "name", Message: "Name is required"}
	case len([]rune(in.Name)) > domain.MaxInquiryNameLen:
		return nil, &FieldError{Field: "name", Message: "Name is too long"}
	case in.Email == "":
		return nil, &FieldError{Field: "email", Message: "Email is required"}
	case !utils.IsValidEmail(in.Email):
		return nil, &FieldError{Field: "email", Message: "Please enter a valid email address"}
	case in.Phone != "" && !utils.IsValidPhone(in.Phone):
		return nil, &FieldError{Field: "phone", Message: "Please enter a valid phone number"}
	case kind == domain.InquiryContact && in.Message == "":
		return nil, &FieldError{Field: "message", Message: "Message is required"}
	case kind == domain.InquiryOwner && in.PropertyAddress == "":
		return nil, &FieldError{Field: "property_address", Message: "Property address is required"}
	case len([]rune(in.Message)) > domain.MaxInquiryMessageLen:
		return nil, &FieldError{Field: "message", Message: fmt.Sprintf("Message must be at most %d characters", domain.MaxInquiryMessageLen)}
	case in.Bedrooms < 0:
		return nil, &FieldError{Field: "bedrooms", Message: "Bedrooms cannot be negative"}
	}
	return in, nil
}

func (s *service) Submit(ctx context.Context, kind domain.InquiryKind, req domain.InquiryReq) (*domain.Inquiry, error) {
	in, err := Validate(kind, req)
	if err != nil {
		return nil, err
	}
	in.ID = uuid.NewString()
	in.CreatedAt = s.now().UTC()

	if s.store != nil {
		saved, err := s.store.Create(ctx, in)
		if err != nil {
			logger.ErrorContext(ctx, "Failed to store inquiry", "kind", string(kind), "error", err)
			return nil, fmt.Errorf("store inquiry: %w", err)
		}
		in = saved
	}

	evt := events.InquiryReceivedEvent{
		InquiryID: in.ID,
		Kind:      string(in.Kind),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Subject:   in.Subject,
		Message:   in.Message,
		Address:   in.PropertyAddress,
		CreatedAt: in.CreatedAt,
	}
	if s.bus == nil {
		logger.WarnContext(ctx, "No event bus configured, inquiry not forwarded", "inquiry_id", in.ID)
	} else if err := s.bus.Publish(ctx, events.InquiryReceived, evt); err != nil {
		// The inquiry is already accepted; a lost notification is logged only.
		logger.WarnContext(ctx, "Failed to publish inquiry event", "inquiry_id", in.ID, "error", err)
	}

	logger.InfoContext(ctx, "Inquiry received", "inquiry_id", in.ID, "kind", string(in.Kind))
	return in, nil
}
