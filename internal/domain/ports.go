package domain

import "context"

// TabularStore is the spreadsheet-backed row store. Ranges use sheet
// notation, e.g. "Reservations!A2:L".
type TabularStore interface {
	// ReadRows returns every row in the range, cells as trimmed strings.
	ReadRows(ctx context.Context, rng string) ([][]string, error)

	// RowExists reports whether value appears in any cell within the first
	// searchCols columns of a row. searchCols <= 0 scans whole rows.
	RowExists(ctx context.Context, rng, value string, searchCols int) (bool, error)

	// AppendRow appends a single row after the existing data in the range.
	AppendRow(ctx context.Context, rng string, row []any) error
}

// PaymentGateway creates and retrieves hosted checkout sessions.
type PaymentGateway interface {
	// CreateCheckoutSession returns the URL the customer is redirected to.
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error)

	// GetSessionDetails retrieves the metadata and paid total of a session.
	GetSessionDetails(ctx context.Context, sessionID string) (SessionDetails, error)
}

type LineItem struct {
	Name       string
	UnitAmount int64 // minor units
	Quantity   int64
}

type CheckoutParams struct {
	Items      []LineItem
	Currency   string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// SessionDetails is the slice of a checkout session the reconciler needs.
// Metadata may be nil and AmountTotal absent when the provider returned a
// partial session.
type SessionDetails struct {
	Metadata    map[string]string
	AmountTotal *int64 // minor units
}
