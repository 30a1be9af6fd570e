package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"caribbean_kitchen/internal/app"
	"caribbean_kitchen/internal/domain"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	Catalog      *app.TypeCatalog
	Payments     *app.PaymentService
	Reservations *app.ReservationService
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/health", h.health)
	s.mux.Get("/reservation/types", h.getReservationTypes)
	s.mux.Post("/payment/create", h.createPayment)
	s.mux.Post("/reservation/success", h.reservationSuccess)
}

// ---- response envelopes ----

type errorBody struct {
	Error     string `json:"error"`
	Details   string `json:"details"`
	Timestamp string `json:"timestamp"`
}

type paymentResponse struct {
	Success      bool    `json:"success"`
	CheckoutURL  string  `json:"checkoutUrl"`
	SessionID    *string `json:"sessionId"`
	ErrorMessage *string `json:"errorMessage"`
	Timestamp    string  `json:"timestamp"`
}

type reservationDetails struct {
	FirstName            string  `json:"firstName"`
	LastName             string  `json:"lastName"`
	ReservationType      string  `json:"reservationType"`
	ReservationTypeLabel string  `json:"reservationTypeLabel"`
	ReservationDate      string  `json:"reservationDate"`
	ReservationTime      string  `json:"reservationTime"`
	PartySize            int     `json:"partySize"`
	Notes                string  `json:"notes"`
	DepositAmount        int64   `json:"depositAmount"`
	PaymentStatus        string  `json:"paymentStatus"`
	StripeSessionID      *string `json:"stripeSessionId"`
}

type reservationResponse struct {
	Success            bool               `json:"success"`
	Message            string             `json:"message"`
	ReservationID      string             `json:"reservationId"`
	IsDuplicate        bool               `json:"isDuplicate"`
	ReservationDetails reservationDetails `json:"reservationDetails"`
	Timestamp          string             `json:"timestamp"`
}

func nowISO() string { return time.Now().UTC().Format(time.RFC3339) }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, errMsg, details string) {
	writeJSON(w, status, errorBody{Error: errMsg, Details: details, Timestamp: nowISO()})
}

// readBody returns the request body, trimmed, and whether it was non-empty.
func readBody(r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, false
	}
	body = bytes.TrimSpace(body)
	return body, len(body) > 0
}

// ---- handlers ----

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "API is healthy and running",
		"service":   "c-kitchen-api",
		"status":    "Healthy",
		"version":   "1.0.0",
		"timestamp": nowISO(),
	})
}

func (h *Handlers) getReservationTypes(w http.ResponseWriter, r *http.Request) {
	types := h.Catalog.ListActiveTypes(r.Context())
	if len(types) == 0 {
		writeError(w, http.StatusNotFound,
			"No reservation types found",
			"No reservation types are currently configured")
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (h *Handlers) createPayment(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(r)
	if !ok {
		writeError(w, http.StatusBadRequest,
			"Request body is required",
			"Payment request data must be provided in the request body")
		return
	}

	var req app.PaymentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format", err.Error())
		return
	}

	url, err := h.Payments.CreateCheckoutSession(r.Context(), req)
	if errors.Is(err, app.ErrInvalidPayment) {
		writeError(w, http.StatusBadRequest,
			"Invalid payment data",
			"Product name and amount are required")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError,
			"Payment session creation failed",
			"Unable to create Stripe checkout session")
		return
	}

	writeJSON(w, http.StatusOK, paymentResponse{
		Success:     true,
		CheckoutURL: url,
		Timestamp:   nowISO(),
	})
}

func (h *Handlers) reservationSuccess(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(r)
	if !ok {
		writeError(w, http.StatusBadRequest,
			"Request body is required",
			"Reservation data must be provided in the request body")
		return
	}

	var req domain.ReservationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format", err.Error())
		return
	}

	res, err := h.Reservations.Save(r.Context(), req)
	if errors.Is(err, app.ErrValidation) {
		writeError(w, http.StatusBadRequest,
			"Missing required reservation data",
			"First name, last name, date, and time are required")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError,
			"Failed to save reservation",
			"Unable to append reservation to spreadsheet")
		return
	}

	message := "Reservation saved successfully"
	if res.IsDuplicate {
		message = "Reservation details retrieved (duplicate payment session)"
	}
	rec := res.Record
	writeJSON(w, http.StatusOK, reservationResponse{
		Success:       true,
		Message:       message,
		ReservationID: res.ReservationID,
		IsDuplicate:   res.IsDuplicate,
		ReservationDetails: reservationDetails{
			FirstName:            rec.FirstName,
			LastName:             rec.LastName,
			ReservationType:      rec.ReservationType,
			ReservationTypeLabel: rec.ReservationTypeLabel,
			ReservationDate:      rec.ReservationDate,
			ReservationTime:      rec.ReservationTime,
			PartySize:            rec.PartySize,
			Notes:                rec.Notes,
			DepositAmount:        rec.DepositAmount,
			PaymentStatus:        rec.PaymentStatus,
			StripeSessionID:      optional(rec.StripeSessionID),
		},
		Timestamp: nowISO(),
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
