package domain

import (
	"encoding/json"
	"testing"
)

func TestListing_TolerantNumbers(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"integer", `{"_id": "l1", "accommodates": 4}`, 4},
		{"float", `{"_id": "l1", "accommodates": 4.0}`, 4},
		{"string", `{"_id": "l1", "accommodates": "4"}`, 4},
		{"junk", `{"_id": "l1", "accommodates": {"max": 4}}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l Listing
			if err := json.Unmarshal([]byte(tt.body), &l); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if l.ID != "l1" {
				t.Errorf("ID = %q", l.ID)
			}
			if got := l.Summary().Accommodates; got != tt.want {
				t.Errorf("accommodates = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestListing_StringCoordinatesAndBeds(t *testing.T) {
	var l Listing
	body := `{"_id": "l1", "beds": "3", "address": {"city": "Park City", "lat": "40.64", "lng": -111.49}}`
	if err := json.Unmarshal([]byte(body), &l); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if l.Beds.Int() != 3 || l.Address.Lat.Float() != 40.64 || l.Address.Lng.Float() != -111.49 {
		t.Errorf("unexpected listing: beds=%v lat=%v lng=%v", l.Beds, l.Address.Lat, l.Address.Lng)
	}
}
