package booking

import (
	"strings"
	"time"

	"github.com/diagnosis/luxury-stays/internal/domain"
	"github.com/diagnosis/luxury-stays/internal/utils"
)

type State string

const (
	StateSelectingDates    State = "selecting_dates"
	StateQuoteRequested    State = "quote_requested"
	StateQuotePresented    State = "quote_presented"
	StateQuoteFailed       State = "quote_failed"
	StateCheckoutFormOpen  State = "checkout_form_open"
	StateSubmittingPayment State = "submitting_payment"
	StateConfirmed         State = "confirmed"
	StatePaymentFailed     State = "payment_failed"
)

const (
	DateLayout = "2006-01-02"

	// DefaultMaxGuests applies when the provider does not report a capacity.
	DefaultMaxGuests = 10
)

// DateRange holds calendar dates as entered, YYYY-MM-DD in the property's
// time zone.
type DateRange struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

// Nights counts the nights between the two dates, or 0 when either is
// missing or malformed.
func (d DateRange) Nights() int {
	in, out, err := d.parse()
	if err != nil {
		return 0
	}
	return daysBetween(in, out)
}

func (d DateRange) parse() (time.Time, time.Time, error) {
	in, err := time.Parse(DateLayout, strings.TrimSpace(d.CheckIn))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := time.Parse(DateLayout, strings.TrimSpace(d.CheckOut))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in, out, nil
}

// daysBetween works on UTC calendar dates so DST shifts never skew it.
func daysBetween(in, out time.Time) int {
	return int(out.Sub(in).Hours() / 24)
}

type Occupancy struct {
	Guests int `json:"guests"`
}

// GuestDetails is the checkout form.
type GuestDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
}

func (g GuestDetails) Normalized() GuestDetails {
	return GuestDetails{
		FirstName: utils.NormalizeString(g.FirstName),
		LastName:  utils.NormalizeString(g.LastName),
		Email:     utils.NormalizeString(g.Email),
		Phone:     utils.NormalizeString(g.Phone),
		Country:   utils.NormalizeString(g.Country),
	}
}

func (g GuestDetails) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

// Consents records the two legal checkboxes on the checkout form.
type Consents struct {
	Terms   bool `json:"acceptTerms"`
	Privacy bool `json:"acceptPrivacy"`
}

// Flow is the view state of one booking attempt. It lives only for the
// current screen; between screens it travels as signed navigation state.
type Flow struct {
	State       State                 `json:"state"`
	Listing     domain.ListingSummary `json:"listing"`
	Dates       DateRange             `json:"dates"`
	Occupancy   Occupancy             `json:"occupancy"`
	Quote       *Quote                `json:"quote,omitempty"`
	Reservation *domain.Reservation   `json:"reservation,omitempty"`
	Message     string                `json:"message,omitempty"`
}

func NewFlow(listing domain.ListingSummary) *Flow {
	return &Flow{State: StateSelectingDates, Listing: listing}
}

// ResumeCheckout rebuilds the flow the checkout view works on from the
// state carried over from the detail view.
func ResumeCheckout(listing domain.ListingSummary, dates DateRange, occ Occupancy, quote Quote) *Flow {
	return &Flow{
		State:     StateCheckoutFormOpen,
		Listing:   listing,
		Dates:     dates,
		Occupancy: occ,
		Quote:     &quote,
	}
}

func (f *Flow) maxGuests() int {
	if f.Listing.Accommodates > 0 {
		return f.Listing.Accommodates
	}
	return DefaultMaxGuests
}
