package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/luxury-stays/internal/booking"
	"github.com/diagnosis/luxury-stays/internal/domain"
	"github.com/diagnosis/luxury-stays/internal/http/response"
	"github.com/diagnosis/luxury-stays/pkg/auth"
	"github.com/diagnosis/luxury-stays/pkg/events"
	"github.com/diagnosis/luxury-stays/pkg/logger"
)

// ListingFetcher loads the listing a booking is for.
type ListingFetcher interface {
	GetListing(ctx context.Context, listingID string) (*domain.Listing, error)
}

// NavigationConfig signs the state passed between booking views.
type NavigationConfig struct {
	Secret string
	TTL    time.Duration
}

type BookingHandler struct {
	listings       ListingFetcher
	ctrl           *booking.Controller
	bus            events.Publisher
	nav            NavigationConfig
	publishableKey string
	now            func() time.Time
}

// NewBookingHandler wires the booking views. bus may be nil.
func NewBookingHandler(listings ListingFetcher, ctrl *booking.Controller, bus events.Publisher, nav NavigationConfig, publishableKey string) *BookingHandler {
	if nav.TTL <= 0 {
		nav.TTL = time.Hour
	}
	return &BookingHandler{
		listings:       listings,
		ctrl:           ctrl,
		bus:            bus,
		nav:            nav,
		publishableKey: publishableKey,
		now:            time.Now,
	}
}

type quoteRequest struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Guests   int    `json:"guests"`
}

type checkoutRequest struct {
	booking.GuestDetails
	booking.Consents
	Card domain.CardWidget `json:"card"`
}

// Quote runs requestQuote for the detail view and, on success, hands back
// the checkout state.
func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var in quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	dates := booking.DateRange{CheckIn: in.CheckIn, CheckOut: in.CheckOut}
	occ := booking.Occupancy{Guests: in.Guests}
	if err := h.ctrl.ValidateDates(dates, occ); err != nil {
		logger.DebugContext(r.Context(), "Quote request rejected locally", "listing_id", id, "reason", err.Error())
		writeFlowError(w, err)
		return
	}

	l, err := h.listings.GetListing(r.Context(), id)
	if err != nil {
		writeUpstreamError(r.Context(), w, err, "Failed to load property. Please try again.")
		return
	}

	flow := booking.NewFlow(l.Summary())
	if err := h.ctrl.RequestQuote(r.Context(), flow, dates, occ); err != nil {
		writeFlowError(w, err)
		return
	}

	state := CheckoutState{Listing: flow.Listing, Dates: flow.Dates, Occupancy: flow.Occupancy, Quote: *flow.Quote}
	tok, err := auth.NewNavigationToken(auth.KindCheckout, id, state, h.nav.Secret, h.nav.TTL)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to sign checkout state", "listing_id", id, "error", err)
		response.InternalError(w, "Failed to prepare checkout")
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"state":         flow.State,
		"quote":         flow.Quote,
		"nights":        flow.Dates.Nights(),
		"checkoutState": tok,
		"checkoutUrl":   withState(checkoutPath(id), tok),
	})
}

// checkoutState decodes the checkout token or redirects back to the
// property page.
func (h *BookingHandler) checkoutState(w http.ResponseWriter, r *http.Request) (CheckoutState, bool) {
	id := chi.URLParam(r, "id")
	var state CheckoutState
	if err := auth.ParseNavigation(stateToken(r), auth.KindCheckout, id, h.nav.Secret, &state); err != nil {
		logger.DebugContext(r.Context(), "Checkout without navigation state", "listing_id", id, "reason", err.Error())
		http.Redirect(w, r, "/property/"+id, http.StatusSeeOther)
		return state, false
	}
	return state, true
}

func (h *BookingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	state, ok := h.checkoutState(w, r)
	if !ok {
		return
	}

	flow := booking.ResumeCheckout(state.Listing, state.Dates, state.Occupancy, state.Quote)
	expired := errors.Is(h.ctrl.ExpireCheck(flow), booking.ErrQuoteExpired)

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"state":                flow.State,
		"listing":              state.Listing,
		"dates":                state.Dates,
		"occupancy":            state.Occupancy,
		"nights":               state.Dates.Nights(),
		"quote":                state.Quote,
		"expired":              expired,
		"message":              flow.Message,
		"stripePublishableKey": h.publishableKey,
	})
}

// Book runs submitPayment.
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	state, ok := h.checkoutState(w, r)
	if !ok {
		return
	}
	var in checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	flow := booking.ResumeCheckout(state.Listing, state.Dates, state.Occupancy, state.Quote)
	if err := h.ctrl.SubmitPayment(r.Context(), flow, in.GuestDetails, in.Card, in.Consents); err != nil {
		writeFlowError(w, err)
		return
	}

	res := *flow.Reservation
	resID := res.ReservationID
	if resID == "" {
		resID = res.DisplayCode()
	}
	if resID == "" {
		resID = flow.Quote.ID
	}
	guest := in.GuestDetails.Normalized()
	h.publishConfirmed(r.Context(), flow, res, resID, guest.FullName(), guest.Email)

	confirm := ConfirmationState{
		Reservation: res,
		Listing:     flow.Listing,
		Dates:       flow.Dates,
		Occupancy:   flow.Occupancy,
		Quote:       *flow.Quote,
		GuestName:   guest.FullName(),
		GuestEmail:  guest.Email,
	}
	tok, err := auth.NewNavigationToken(auth.KindConfirmation, resID, confirm, h.nav.Secret, h.nav.TTL)
	if err != nil {
		// The booking went through; the guest still gets the reservation.
		logger.ErrorContext(r.Context(), "Failed to sign confirmation state", "reservation_id", resID, "error", err)
		response.WriteJSON(w, http.StatusCreated, map[string]any{"state": flow.State, "reservation": res})
		return
	}

	response.WriteJSON(w, http.StatusCreated, map[string]any{
		"state":             flow.State,
		"reservation":       res,
		"confirmationState": tok,
		"confirmationUrl":   withState(confirmationPath(resID), tok),
	})
}

func (h *BookingHandler) publishConfirmed(ctx context.Context, flow *booking.Flow, res domain.Reservation, resID, guestName, guestEmail string) {
	if h.bus == nil {
		return
	}
	total := res.TotalPrice.Float()
	if total == 0 {
		total = flow.Quote.Total
	}
	currency := res.Currency
	if currency == "" {
		currency = flow.Quote.Currency
	}
	evt := events.ReservationConfirmedEvent{
		ReservationID:    resID,
		ConfirmationCode: res.DisplayCode(),
		ListingID:        flow.Listing.ID,
		ListingName:      flow.Listing.Name,
		CheckIn:          flow.Dates.CheckIn,
		CheckOut:         flow.Dates.CheckOut,
		Guests:           flow.Occupancy.Guests,
		GuestName:        guestName,
		GuestEmail:       guestEmail,
		Total:            total,
		Currency:         currency,
		ConfirmedAt:      h.now().UTC(),
	}
	if err := h.bus.Publish(ctx, events.ReservationConfirmed, evt); err != nil {
		logger.WarnContext(ctx, "Failed to publish reservation event", "reservation_id", resID, "error", err)
	}
}

// Confirmation renders the booked stay from the confirmation token.
func (h *BookingHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reservationId")
	var state ConfirmationState
	if err := auth.ParseNavigation(stateToken(r), auth.KindConfirmation, id, h.nav.Secret, &state); err != nil {
		logger.DebugContext(r.Context(), "Confirmation without navigation state", "reservation_id", id, "reason", err.Error())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	res := state.Reservation
	response.WriteJSON(w, http.StatusOK, map[string]any{
		"reservation":      res,
		"confirmationCode": res.DisplayCode(),
		"status":           res.DisplayStatus(),
		"currency":         res.DisplayCurrency(),
		"listing":          state.Listing,
		"dates":            state.Dates,
		"nights":           state.Dates.Nights(),
		"occupancy":        state.Occupancy,
		"quote":            state.Quote,
		"guestName":        state.GuestName,
		"guestEmail":       state.GuestEmail,
	})
}

var categoryStatus = map[booking.Category]int{
	booking.CategoryAvailability: http.StatusConflict,
	booking.CategoryRateLimited:  http.StatusTooManyRequests,
	booking.CategoryMalformed:    http.StatusBadRequest,
	booking.CategoryNotFound:     http.StatusNotFound,
	booking.CategoryGeneric:      http.StatusBadGateway,
}

var categoryCode = map[booking.Category]string{
	booking.CategoryAvailability: response.CodeDatesUnavailable,
	booking.CategoryRateLimited:  response.CodeRateLimit,
	booking.CategoryMalformed:    response.CodeInvalidInput,
	booking.CategoryNotFound:     response.CodeNotFound,
	booking.CategoryGeneric:      response.CodeUpstreamError,
}

// writeFlowError maps a booking flow failure to its HTTP answer. The body
// always carries the guest-facing message.
func writeFlowError(w http.ResponseWriter, err error) {
	var (
		vErr *booking.ValidationError
		rErr *booking.RemoteError
		pErr *booking.PaymentError
	)
	msg := booking.UserMessage(err)
	switch {
	case errors.As(err, &vErr):
		response.Validation(w, vErr.Field, vErr.Message)
	case errors.Is(err, booking.ErrQuoteExpired):
		response.WriteError(w, http.StatusGone, msg, response.CodeQuoteExpired)
	case errors.Is(err, booking.ErrSubmissionInProgress):
		response.WriteError(w, http.StatusConflict, msg, response.CodeSubmissionInProgress)
	case errors.Is(err, booking.ErrNoQuote):
		response.WriteError(w, http.StatusBadRequest, msg, response.CodeNoQuote)
	case errors.As(err, &pErr):
		response.WriteError(w, http.StatusPaymentRequired, msg, response.CodePaymentFailed)
	case errors.As(err, &rErr):
		status, ok := categoryStatus[rErr.Category]
		if !ok {
			status = http.StatusBadGateway
		}
		response.WriteErrorWithDetails(w, status, msg, categoryCode[rErr.Category], string(rErr.Category))
	default:
		response.InternalError(w, msg)
	}
}
