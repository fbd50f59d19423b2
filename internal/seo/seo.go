// Package seo builds the page metadata the browser writes into <head>.
package seo

import (
	"fmt"
	"strings"

	"github.com/diagnosis/luxury-stays/internal/domain"
	"github.com/diagnosis/luxury-stays/internal/utils"
)

const descriptionLimit = 160

// Meta is the title, description and Open Graph data for one page.
type Meta struct {
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	OGTitle        string         `json:"ogTitle"`
	OGDescription  string         `json:"ogDescription"`
	OGImage        string         `json:"ogImage,omitempty"`
	Canonical      string         `json:"canonical,omitempty"`
	StructuredData map[string]any `json:"structuredData,omitempty"`
}

type Builder struct {
	site    string
	baseURL string
	region  string
}

// NewBuilder makes page metadata for site. region is the state or area
// named in property descriptions.
func NewBuilder(site, baseURL, region string) *Builder {
	return &Builder{site: site, baseURL: strings.TrimRight(baseURL, "/"), region: region}
}

// PageTitle is "{title} | {site}".
func (b *Builder) PageTitle(title string) string {
	if title == "" {
		return b.site
	}
	return fmt.Sprintf("%s | %s", title, b.site)
}

func PropertyTitle(name, city string) string {
	if city == "" {
		return name + " - Luxury Vacation Rental"
	}
	return fmt.Sprintf("%s - Luxury Vacation Rental in %s", name, city)
}

func (b *Builder) PropertyDescription(name string, bedrooms, bathrooms float64, guests int, city string) string {
	where := city
	if b.region != "" {
		if where != "" {
			where += ", " + b.region
		} else {
			where = b.region
		}
	}
	lead := "Book " + name
	if where != "" {
		lead += " in " + where
	}
	return fmt.Sprintf("%s. Stunning %s bedroom, %s bathroom luxury vacation rental accommodating up to %d guests. Premium amenities, 5-star service, best rates guaranteed.",
		lead, trimFloat(bedrooms), trimFloat(bathrooms), guests)
}

func (b *Builder) Home() Meta {
	title := b.PageTitle("Luxury Vacation Rentals")
	desc := fmt.Sprintf("Discover hand-picked luxury vacation homes with %s. Book direct for the best rates.", b.site)
	return Meta{
		Title:         title,
		Description:   desc,
		OGTitle:       title,
		OGDescription: desc,
		Canonical:     b.url("/"),
		StructuredData: map[string]any{
			"@context": "https://schema.org",
			"@type":    "LodgingBusiness",
			"name":     b.site,
			"url":      b.url("/"),
		},
	}
}

func (b *Builder) Property(l *domain.Listing) Meta {
	name := l.DisplayName()
	city := l.City()
	title := b.PageTitle(PropertyTitle(name, city))
	desc := b.PropertyDescription(name, l.Bedrooms.Float(), l.Bathrooms.Float(), l.Accommodates.Int(), city)

	m := Meta{
		Title:         title,
		Description:   truncate(desc, descriptionLimit),
		OGTitle:       title,
		OGDescription: desc,
		Canonical:     b.url("/property/" + l.ID),
	}

	images := l.Images()
	var imageURLs []string
	for _, p := range images {
		if u := pictureURL(p); u != "" {
			imageURLs = append(imageURLs, u)
		}
	}
	if len(imageURLs) > 0 {
		m.OGImage = imageURLs[0]
	}

	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "VacationRental",
		"name":        name,
		"description": desc,
		"url":         m.Canonical,
		"identifier":  l.ID,
	}
	if len(imageURLs) > 0 {
		data["image"] = imageURLs
	}
	if l.Accommodates > 0 {
		data["containsPlace"] = map[string]any{
			"@type":                  "Accommodation",
			"occupancy":              map[string]any{"@type": "QuantitativeValue", "value": l.Accommodates.Int()},
			"numberOfBedrooms":       l.Bedrooms.Float(),
			"numberOfBathroomsTotal": l.Bathrooms.Float(),
		}
	}
	if a := l.Address; a != nil {
		data["address"] = map[string]any{
			"@type":           "PostalAddress",
			"streetAddress":   a.Street,
			"addressLocality": a.City,
			"addressRegion":   a.State,
			"postalCode":      a.Zipcode,
			"addressCountry":  a.Country,
		}
		if a.Lat != 0 || a.Lng != 0 {
			data["geo"] = map[string]any{"@type": "GeoCoordinates", "latitude": a.Lat.Float(), "longitude": a.Lng.Float()}
		}
	}
	if len(l.Amenities) > 0 {
		features := make([]map[string]any, 0, len(l.Amenities))
		for _, am := range l.Amenities {
			features = append(features, map[string]any{"@type": "LocationFeatureSpecification", "name": am, "value": true})
		}
		data["amenityFeature"] = features
	}
	m.StructuredData = data
	return m
}

// Page is plain metadata for static pages such as checkout and contact.
func (b *Builder) Page(title, description, path string) Meta {
	t := b.PageTitle(title)
	return Meta{
		Title:         t,
		Description:   description,
		OGTitle:       t,
		OGDescription: description,
		Canonical:     b.url(path),
	}
}

func (b *Builder) url(path string) string {
	if b.baseURL == "" {
		return ""
	}
	return b.baseURL + path
}

func pictureURL(p domain.Picture) string {
	for _, u := range []string{p.Large, p.Original, p.Regular, p.Thumbnail} {
		if u != "" {
			return u
		}
	}
	return ""
}

func trimFloat(f float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", f), "0"), ".")
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	cut := utils.Truncate(s, n-1)
	if i := strings.LastIndex(cut, " "); i > n/2 {
		cut = cut[:i]
	}
	return cut + "…"
}
