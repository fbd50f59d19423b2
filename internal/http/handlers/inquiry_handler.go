package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diagnosis/luxury-stays/internal/domain"
	"github.com/diagnosis/luxury-stays/internal/http/response"
	"github.com/diagnosis/luxury-stays/internal/inquiry"
)

type InquiryHandler struct {
	svc inquiry.Service
}

func NewInquiryHandler(svc inquiry.Service) *InquiryHandler {
	return &InquiryHandler{svc: svc}
}

func (h *InquiryHandler) Contact(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, domain.InquiryContact, "Thank you for reaching out. We will get back to you shortly.")
}

func (h *InquiryHandler) PropertyManagement(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, domain.InquiryOwner, "Thank you for your interest. Our team will contact you about your property soon.")
}

func (h *InquiryHandler) submit(w http.ResponseWriter, r *http.Request, kind domain.InquiryKind, thanks string) {
	var in domain.InquiryReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	saved, err := h.svc.Submit(r.Context(), kind, in)
	if err != nil {
		var fe *inquiry.FieldError
		if errors.As(err, &fe) {
			response.Validation(w, fe.Field, fe.Message)
			return
		}
		response.InternalError(w, "Failed to send your message. Please try again.")
		return
	}

	response.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":      saved.ID,
		"message": thanks,
	})
}
