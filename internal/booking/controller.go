package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diagnosis/luxury-stays/internal/domain"
	"github.com/diagnosis/luxury-stays/internal/platform/payments"
	"github.com/diagnosis/luxury-stays/internal/utils"
	"github.com/diagnosis/luxury-stays/pkg/logger"
)

// DataProvider is the part of the booking-data API the flow needs.
type DataProvider interface {
	CreateQuote(ctx context.Context, req domain.QuoteRequest) (*domain.RawQuote, error)
	CreateInstantReservation(ctx context.Context, req domain.InstantReservationRequest) (*domain.Reservation, error)
}

// Tokenizer turns card-widget state into a payment token.
type Tokenizer interface {
	CreatePaymentMethod(ctx context.Context, card domain.CardWidget, billing domain.BillingDetails) (string, error)
}

// SubmissionGuard serializes payment submissions per quote. Acquire reports
// false when another submission for the quote holds the guard.
type SubmissionGuard interface {
	Acquire(ctx context.Context, quoteID string) (bool, error)
	Release(ctx context.Context, quoteID string) error
}

type Controller struct {
	provider  DataProvider
	tokenizer Tokenizer
	guard     SubmissionGuard
	loc       *time.Location
	now       func() time.Time
}

// NewController wires the flow to its collaborators. guard may be nil, in
// which case duplicate submissions are not blocked.
func NewController(provider DataProvider, tokenizer Tokenizer, guard SubmissionGuard, loc *time.Location) *Controller {
	if loc == nil {
		loc = time.UTC
	}
	return &Controller{
		provider:  provider,
		tokenizer: tokenizer,
		guard:     guard,
		loc:       loc,
		now:       time.Now,
	}
}

// WithClock overrides the time source.
func (c *Controller) WithClock(now func() time.Time) *Controller {
	c.now = now
	return c
}

// today is local midnight in the property time zone, expressed as a UTC
// calendar date so it compares directly with parsed form dates.
func (c *Controller) today() time.Time {
	y, m, d := c.now().In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateDates runs the checks that need neither the listing nor the
// provider.
func (c *Controller) ValidateDates(dates DateRange, occ Occupancy) error {
	if dates.CheckIn == "" || dates.CheckOut == "" {
		return invalid("dates", "Please select check-in and check-out dates")
	}
	in, out, err := dates.parse()
	if err != nil {
		return invalid("dates", "Please enter dates as YYYY-MM-DD")
	}
	if !out.After(in) {
		return invalid("checkOut", "Check-out date must be after check-in date")
	}
	if in.Before(c.today()) {
		return invalid("checkIn", "Check-in date cannot be in the past")
	}
	if daysBetween(in, out) < 1 {
		return invalid("dates", "Your stay must be at least one night")
	}
	if occ.Guests < 1 {
		return invalid("guests", "Please select at least 1 guest")
	}
	return nil
}

// ValidateStay runs every local check, including the listing's guest limit.
func (c *Controller) ValidateStay(f *Flow, dates DateRange, occ Occupancy) error {
	if err := c.ValidateDates(dates, occ); err != nil {
		return err
	}
	if max := f.maxGuests(); occ.Guests > max {
		return invalid("guests", fmt.Sprintf("This property accommodates a maximum of %d guests", max))
	}
	return nil
}

// RequestQuote validates the stay locally and, only when it passes, asks
// the provider for a quote.
func (c *Controller) RequestQuote(ctx context.Context, f *Flow, dates DateRange, occ Occupancy) error {
	if err := c.ValidateStay(f, dates, occ); err != nil {
		f.Message = UserMessage(err)
		logger.DebugContext(ctx, "Quote request rejected locally", "listing_id", f.Listing.ID, "reason", err.Error())
		return err
	}

	f.Dates = dates
	f.Occupancy = occ
	f.Quote = nil
	f.Message = ""
	f.State = StateQuoteRequested

	raw, err := c.provider.CreateQuote(ctx, domain.QuoteRequest{
		ListingID: f.Listing.ID,
		CheckIn:   dates.CheckIn,
		CheckOut:  dates.CheckOut,
		Guests:    occ.Guests,
	})
	if err != nil {
		category := Categorize(err)
		logger.ErrorContext(ctx, "Quote request failed",
			"listing_id", f.Listing.ID,
			"category", string(category),
			"error", err,
		)
		rErr := &RemoteError{Category: category, Message: CategoryMessage(category), Err: err}
		f.State = StateQuoteFailed
		f.Message = rErr.Message
		return rErr
	}

	quote := NormalizeQuote(raw)
	f.Quote = &quote
	f.State = StateQuotePresented
	return nil
}

// ExpireCheck blocks a stale quote. It never fetches a fresh one; the guest
// is sent back to request a new quote.
func (c *Controller) ExpireCheck(f *Flow) error {
	if f.Quote == nil {
		return ErrNoQuote
	}
	if f.Quote.Expired(c.now()) {
		f.State = StateSelectingDates
		f.Message = QuoteExpiredMessage
		return ErrQuoteExpired
	}
	return nil
}

// OpenCheckout moves a presented quote to the checkout form.
func (c *Controller) OpenCheckout(f *Flow) error {
	if f.Quote == nil || f.State != StateQuotePresented {
		return ErrNoQuote
	}
	f.State = StateCheckoutFormOpen
	f.Message = ""
	return nil
}

// ValidateCheckout checks the form in the order the guest sees the fields.
func ValidateCheckout(g GuestDetails, card domain.CardWidget, consents Consents) error {
	g = g.Normalized()
	switch {
	case g.FirstName == "":
		return invalid("firstName", "First name is required")
	case g.LastName == "":
		return invalid("lastName", "Last name is required")
	case g.Email == "":
		return invalid("email", "Email is required")
	case !utils.IsValidEmail(g.Email):
		return invalid("email", "Please enter a valid email address")
	case g.Phone == "":
		return invalid("phone", "Phone number is required")
	case g.Country == "":
		return invalid("country", "Country is required")
	case !card.Complete:
		return invalid("card", "Please enter valid card details")
	case !consents.Terms:
		return invalid("acceptTerms", "You must accept the Terms & Conditions")
	case !consents.Privacy:
		return invalid("acceptPrivacy", "You must accept the Privacy Policy")
	}
	return nil
}

// SubmitPayment tokenizes the card and books the quote. Any failure leaves
// the flow in PaymentFailed with the form untouched; nothing partial is kept,
// so a retry starts from scratch.
func (c *Controller) SubmitPayment(ctx context.Context, f *Flow, guest GuestDetails, card domain.CardWidget, consents Consents) error {
	if err := c.ExpireCheck(f); err != nil {
		return err
	}
	if err := ValidateCheckout(guest, card, consents); err != nil {
		f.Message = UserMessage(err)
		return err
	}
	guest = guest.Normalized()

	if c.guard != nil {
		ok, err := c.guard.Acquire(ctx, f.Quote.ID)
		if err != nil {
			// An unreachable guard must not block a paying guest.
			logger.WarnContext(ctx, "Submission guard unavailable", "quote_id", f.Quote.ID, "error", err)
		} else if !ok {
			f.Message = SubmissionInProgressMessage
			return ErrSubmissionInProgress
		}
	}

	f.State = StateSubmittingPayment
	f.Message = ""

	reservation, err := c.submit(ctx, f, guest, card)
	if err != nil {
		if c.guard != nil {
			if relErr := c.guard.Release(ctx, f.Quote.ID); relErr != nil {
				logger.WarnContext(ctx, "Failed to release submission guard", "quote_id", f.Quote.ID, "error", relErr)
			}
		}
		f.State = StatePaymentFailed
		f.Message = UserMessage(err)
		return err
	}

	f.Reservation = reservation
	f.State = StateConfirmed
	logger.InfoContext(ctx, "Reservation confirmed",
		"listing_id", f.Listing.ID,
		"quote_id", f.Quote.ID,
		"reservation_id", reservation.ReservationID,
	)
	return nil
}

func (c *Controller) submit(ctx context.Context, f *Flow, guest GuestDetails, card domain.CardWidget) (*domain.Reservation, error) {
	token, err := c.tokenizer.CreatePaymentMethod(ctx, card, domain.BillingDetails{
		Name:  guest.FullName(),
		Email: guest.Email,
		Phone: guest.Phone,
	})
	if err != nil {
		msg := PaymentFallbackMessage
		var decline *payments.DeclineError
		if errors.As(err, &decline) && decline.Message != "" {
			msg = decline.Message
		}
		logger.WarnContext(ctx, "Payment tokenization failed", "quote_id", f.Quote.ID, "error", err)
		return nil, &PaymentError{Message: msg, Err: err}
	}

	reservation, err := c.provider.CreateInstantReservation(ctx, domain.InstantReservationRequest{
		QuoteID: f.Quote.ID,
		Guest: domain.Guest{
			FirstName: guest.FirstName,
			LastName:  guest.LastName,
			Email:     guest.Email,
			Phone:     guest.Phone,
			Country:   guest.Country,
		},
		PaymentMethodID: token,
	})
	if err != nil {
		category := Categorize(err)
		logger.ErrorContext(ctx, "Instant reservation failed",
			"listing_id", f.Listing.ID,
			"quote_id", f.Quote.ID,
			"category", string(category),
			"error", err,
		)
		msg := CategoryMessage(category)
		if category == CategoryGeneric {
			msg = reservationGenericMessage
		}
		return nil, &RemoteError{Category: category, Message: msg, Err: err}
	}
	if reservation == nil {
		reservation = &domain.Reservation{}
	}
	return reservation, nil
}
