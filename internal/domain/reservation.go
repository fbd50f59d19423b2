package domain

// Guest is the lead guest submitted with an instant reservation.
type Guest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
}

// InstantReservationRequest is the body of
// POST /reservations/quotes/{quoteId}/instant.
type InstantReservationRequest struct {
	QuoteID         string `json:"quoteId"`
	Guest           Guest  `json:"guest"`
	PaymentMethodID string `json:"paymentMethodId"`
}

// Reservation is the provider's answer to a successful instant booking.
// It is rendered downstream and never stored by this service.
type Reservation struct {
	ReservationID    string         `json:"reservationId"`
	ConfirmationCode string         `json:"confirmationCode,omitempty"`
	Status           string         `json:"status,omitempty"`
	TotalPrice       Amount         `json:"totalPrice,omitempty"`
	Currency         string         `json:"currency,omitempty"`
	Guest            *ReservedGuest `json:"guest,omitempty"`
}

type ReservedGuest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// DisplayCode is the confirmation code shown to the guest, falling back to
// the reservation id.
func (r *Reservation) DisplayCode() string {
	if r.ConfirmationCode != "" {
		return r.ConfirmationCode
	}
	return r.ReservationID
}

// DisplayStatus defaults to "Confirmed" when the provider omits a status.
func (r *Reservation) DisplayStatus() string {
	if r.Status != "" {
		return r.Status
	}
	return "Confirmed"
}

func (r *Reservation) DisplayCurrency() string {
	if r.Currency != "" {
		return r.Currency
	}
	return "USD"
}
