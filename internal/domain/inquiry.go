package domain

import "time"

type InquiryKind string

const (
	InquiryContact InquiryKind = "contact"
	InquiryOwner   InquiryKind = "owner"
)

// Inquiry is a message left through the contact or property-management form.
type Inquiry struct {
	ID              string      `json:"id"`
	Kind            InquiryKind `json:"kind"`
	Name            string      `json:"name"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone,omitempty"`
	Subject         string      `json:"subject,omitempty"`
	Message         string      `json:"message"`
	PropertyAddress string      `json:"property_address,omitempty"`
	Bedrooms        int         `json:"bedrooms,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

// InquiryReq is the submitted form. The forms ask for first and last name
// separately; Name is accepted for clients that send one field.
type InquiryReq struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Subject         string `json:"subject"`
	Message         string `json:"message"`
	PropertyAddress string `json:"property_address"`
	Bedrooms        int    `json:"bedrooms"`
}

// Limits for inquiry fields.
const (
	MaxInquiryMessageLen = 5000
	MaxInquiryNameLen    = 200
)
