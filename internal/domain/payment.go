package domain

// CardWidget is what the browser's card-entry widget reports: whether the
// entered card is complete and the single-use card token it produced.
type CardWidget struct {
	Complete bool   `json:"complete"`
	Token    string `json:"token"`
}

type BillingDetails struct {
	Name  string
	Email string
	Phone string
}
