package domain

import "time"

// Payment status values persisted with every reservation.
const (
	PaymentStatusPaid      = "Paid"
	PaymentStatusNoDeposit = "No Deposit Required"
)

// ReservationType is one bookable option configured in the types sheet.
// The JSON field names are PascalCase because that is what the booking
// frontend consumes.
type ReservationType struct {
	Label         string `json:"Label"`
	Value         string `json:"Value"`
	Description   string `json:"Description"`
	DepositAmount int64  `json:"DepositAmount"` // pence per person
	IsActive      bool   `json:"IsActive"`
}

// ReservationRequest is the client-submitted body for saving a reservation.
// Every field is optional; pointers distinguish an omitted field (defaulted)
// from an explicitly empty one (rejected by validation).
type ReservationRequest struct {
	FirstName       *string `json:"firstName"`
	LastName        *string `json:"lastName"`
	ReservationType *string `json:"reservationType"`
	ReservationDate *string `json:"reservationDate"`
	ReservationTime *string `json:"reservationTime"`
	PartySize       *int    `json:"partySize"`
	Notes           *string `json:"notes"`
	DepositAmount   *int64  `json:"depositAmount"`
	StripeSessionID string  `json:"stripeSessionId"`
}

// HasSession reports whether the request references a completed checkout
// session, which selects the paid branch of reconciliation.
func (r ReservationRequest) HasSession() bool { return r.StripeSessionID != "" }

// ReservationRecord is the canonical reservation produced by reconciliation.
// It is appended to the store exactly once and never mutated.
type ReservationRecord struct {
	FirstName            string
	LastName             string
	ReservationType      string
	ReservationTypeLabel string
	ReservationDate      string // dd/mm/yyyy
	ReservationTime      string
	PartySize            int
	Notes                string
	DepositAmount        int64 // pence
	PaymentStatus        string
	StripeSessionID      string
	CreatedAt            time.Time
}

// SaveResult is what a reconciliation call hands back to the HTTP boundary.
// Record is populated even for duplicates so the caller can still render the
// reservation details.
type SaveResult struct {
	ReservationID string
	IsDuplicate   bool
	Record        ReservationRecord
}
