package handlers

import (
	"net/http"
	"net/url"

	"github.com/diagnosis/luxury-stays/internal/booking"
	"github.com/diagnosis/luxury-stays/internal/domain"
)

// StateHeader carries navigation state between views; the state query
// parameter is accepted for plain links.
const StateHeader = "X-Navigation-State"

// CheckoutState is what the detail view hands to checkout.
type CheckoutState struct {
	Listing   domain.ListingSummary `json:"listing"`
	Dates     booking.DateRange     `json:"dates"`
	Occupancy booking.Occupancy     `json:"occupancy"`
	Quote     booking.Quote         `json:"quote"`
}

// ConfirmationState is what checkout hands to the confirmation view.
type ConfirmationState struct {
	Reservation domain.Reservation    `json:"reservation"`
	Listing     domain.ListingSummary `json:"listing"`
	Dates       booking.DateRange     `json:"dates"`
	Occupancy   booking.Occupancy     `json:"occupancy"`
	Quote       booking.Quote         `json:"quote"`
	GuestName   string                `json:"guestName"`
	GuestEmail  string                `json:"guestEmail"`
}

func stateToken(r *http.Request) string {
	if tok := r.Header.Get(StateHeader); tok != "" {
		return tok
	}
	return r.URL.Query().Get("state")
}

func withState(path, token string) string {
	return path + "?state=" + url.QueryEscape(token)
}

func checkoutPath(listingID string) string {
	return "/property/" + url.PathEscape(listingID) + "/book"
}

func confirmationPath(reservationID string) string {
	return "/booking/confirm/" + url.PathEscape(reservationID)
}
