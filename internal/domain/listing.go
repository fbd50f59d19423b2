package domain

// Listing is a rentable property as served by the booking-data provider.
// Everything except ID is optional on the wire.
type Listing struct {
	ID                string             `json:"_id"`
	Title             string             `json:"title,omitempty"`
	Nickname          string             `json:"nickname,omitempty"`
	PublicDescription *PublicDescription `json:"publicDescription,omitempty"`
	Picture           *Picture           `json:"picture,omitempty"`
	Pictures          []Picture          `json:"pictures,omitempty"`
	Address           *Address           `json:"address,omitempty"`
	Accommodates      Amount             `json:"accommodates,omitempty"`
	Bedrooms          Amount             `json:"bedrooms,omitempty"`
	Beds              Amount             `json:"beds,omitempty"`
	Bathrooms         Amount             `json:"bathrooms,omitempty"`
	PropertyType      string             `json:"propertyType,omitempty"`
	RoomType          string             `json:"roomType,omitempty"`
	Amenities         []string           `json:"amenities,omitempty"`
	Prices            *Prices            `json:"prices,omitempty"`
	Tags              []string           `json:"tags,omitempty"`
	Active            *bool              `json:"active,omitempty"`
}

type PublicDescription struct {
	Summary      string `json:"summary,omitempty"`
	Space        string `json:"space,omitempty"`
	Access       string `json:"access,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	Transit      string `json:"transit,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type Picture struct {
	ID        string `json:"_id,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Regular   string `json:"regular,omitempty"`
	Large     string `json:"large,omitempty"`
	Original  string `json:"original,omitempty"`
	Caption   string `json:"caption,omitempty"`
}

type Address struct {
	Full    string  `json:"full,omitempty"`
	Street  string  `json:"street,omitempty"`
	City    string  `json:"city,omitempty"`
	State   string  `json:"state,omitempty"`
	Country string  `json:"country,omitempty"`
	Zipcode string  `json:"zipcode,omitempty"`
	Lat     Amount  `json:"lat,omitempty"`
	Lng     Amount  `json:"lng,omitempty"`
}

type Prices struct {
	BasePrice          Amount  `json:"basePrice,omitempty"`
	Currency           string  `json:"currency,omitempty"`
	WeeklyPriceFactor  Amount  `json:"weeklyPriceFactor,omitempty"`
	MonthlyPriceFactor Amount  `json:"monthlyPriceFactor,omitempty"`
}

type ListingsPage struct {
	Results []Listing `json:"results"`
	Count   int       `json:"count"`
	Limit   int       `json:"limit"`
	Skip    int       `json:"skip"`
}

type AvailabilityStatus string

const (
	DayAvailable   AvailabilityStatus = "available"
	DayUnavailable AvailabilityStatus = "unavailable"
	DayBooked      AvailabilityStatus = "booked"
)

type AvailabilityDay struct {
	Date      string             `json:"date"`
	Status    AvailabilityStatus `json:"status"`
	Price     Amount             `json:"price,omitempty"`
	MinNights int                `json:"minNights,omitempty"`
}

type City struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Count   int    `json:"count"`
}

// DisplayName picks the title, then the nickname, then a generic label.
func (l *Listing) DisplayName() string {
	switch {
	case l.Title != "":
		return l.Title
	case l.Nickname != "":
		return l.Nickname
	default:
		return "Luxury Property"
	}
}

// City returns the listing's city or "".
func (l *Listing) City() string {
	if l.Address == nil {
		return ""
	}
	return l.Address.City
}

// Images returns the gallery, falling back to the single cover picture.
func (l *Listing) Images() []Picture {
	if len(l.Pictures) > 0 {
		return l.Pictures
	}
	if l.Picture != nil {
		return []Picture{*l.Picture}
	}
	return nil
}

// ListingSummary is the slice of a listing carried between booking views.
type ListingSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	Accommodates int    `json:"accommodates,omitempty"`
	Image        string `json:"image,omitempty"`
}

func (l *Listing) Summary() ListingSummary {
	s := ListingSummary{
		ID:           l.ID,
		Name:         l.DisplayName(),
		City:         l.City(),
		Accommodates: l.Accommodates.Int(),
	}
	if a := l.Address; a != nil {
		s.Address = a.Full
		if s.Address == "" && a.City != "" {
			s.Address = a.City + ", " + a.State + " " + a.Zipcode
		}
	}
	if imgs := l.Images(); len(imgs) > 0 {
		s.Image = imgs[0].Original
		if s.Image == "" {
			s.Image = imgs[0].Large
		}
	}
	return s
}
