package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpserver "caribbean_kitchen/internal/adapters/http_server"
	"caribbean_kitchen/internal/app"
	"caribbean_kitchen/internal/domain"
)

// ---- fakes ----

type fakeStore struct {
	rows      [][]string
	readErr   error
	appendErr error
}

func (f *fakeStore) ReadRows(ctx context.Context, rng string) ([][]string, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return f.rows, nil
}

func (f *fakeStore) RowExists(ctx context.Context, rng, value string, searchCols int) (bool, error) {
	if f.readErr != nil {
		return false, f.readErr
	}
	for _, row := range f.rows {
		for _, cell := range row {
			if cell == value {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeStore) AppendRow(ctx context.Context, rng string, row []any) error {
	return f.appendErr
}

type fakeGateway struct {
	url       string
	createErr error
	details   domain.SessionDetails
	getErr    error
}

func (f *fakeGateway) CreateCheckoutSession(ctx context.Context, p domain.CheckoutParams) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.url, nil
}

func (f *fakeGateway) GetSessionDetails(ctx context.Context, sessionID string) (domain.SessionDetails, error) {
	if f.getErr != nil {
		return domain.SessionDetails{}, f.getErr
	}
	return f.details, nil
}

func newTestServer(store *fakeStore, gw *fakeGateway) *httptest.Server {
	srv := httpserver.New()
	srv.MountHandlers(&httpserver.Handlers{
		Catalog:      app.NewTypeCatalog(store, "ReservationTypes!A:F"),
		Payments:     app.NewPaymentService(gw, "GBP", "https://example.com/success", "https://example.com/cancel"),
		Reservations: app.NewReservationService(store, gw, "Reservations!A2:L"),
	})
	return httptest.NewServer(srv.Mux())
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

type errBody struct {
	Error     string `json:"error"`
	Details   string `json:"details"`
	Timestamp string `json:"timestamp"`
}

// ---- tests ----

func TestGetReservationTypes_DefaultsWhenStoreDown(t *testing.T) {
	ts := newTestServer(&fakeStore{readErr: errors.New("unreachable")}, &fakeGateway{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/reservation/types")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("CORS origin header = %q", got)
	}

	types := decode[[]domain.ReservationType](t, resp)
	if len(types) != 1 || types[0].Value != "regular" || types[0].Label != "Regular Dining" {
		t.Fatalf("types = %+v", types)
	}
}

func TestGetReservationTypes_FromSheet(t *testing.T) {
	ts := newTestServer(&fakeStore{rows: [][]string{
		{"Label", "Value", "Description", "Deposit", "Active"},
		{"All You Can Eat (AYCE)", "ayce", "Deposit per person", "1500", "TRUE"},
	}}, &fakeGateway{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/reservation/types")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body := decode[[]map[string]any](t, resp)
	if len(body) != 1 {
		t.Fatalf("body = %+v", body)
	}
	// frontend consumes PascalCase keys
	if body[0]["Value"] != "ayce" || body[0]["DepositAmount"] != float64(1500) {
		t.Fatalf("body = %+v", body[0])
	}
}

func TestCreatePayment_EmptyBody(t *testing.T) {
	ts := newTestServer(&fakeStore{}, &fakeGateway{})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/payment/create", "application/json", strings.NewReader(""))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
	e := decode[errBody](t, resp)
	if e.Error != "Request body is required" || e.Timestamp == "" {
		t.Fatalf("error body = %+v", e)
	}
}

func TestCreatePayment_BadJSON(t *testing.T) {
	ts := newTestServer(&fakeStore{}, &fakeGateway{})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/payment/create", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if e := decode[errBody](t, resp); e.Error != "Invalid JSON format" {
		t.Fatalf("error body = %+v", e)
	}
}

func TestCreatePayment_InvalidData(t *testing.T) {
	ts := newTestServer(&fakeStore{}, &fakeGateway{})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/payment/create", "application/json",
		strings.NewReader(`{"productName":"","amountInPence":0,"quantity":1}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if e := decode[errBody](t, resp); e.Error != "Invalid payment data" {
		t.Fatalf("error body = %+v", e)
	}
}

func TestCreatePayment_Success(t *testing.T) {
	ts := newTestServer(&fakeStore{}, &fakeGateway{url: "https://checkout.stripe.com/c/pay/cs_1"})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/payment/create", "application/json",
		strings.NewReader(`{"productName":"Dinner Deposit","amountInPence":1500,"quantity":1}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}

	body := decode[map[string]any](t, resp)
	if body["success"] != true || body["checkoutUrl"] != "https://checkout.stripe.com/c/pay/cs_1" {
		t.Fatalf("body = %+v", body)
	}
	if body["sessionId"] != nil {
		t.Fatalf("sessionId = %v, want null", body["sessionId"])
	}
}

func TestCreatePayment_GatewayFailure(t *testing.T) {
	ts := newTestServer(&fakeStore{}, &fakeGateway{createErr: errors.New("stripe 502")})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/payment/create", "application/json",
		strings.NewReader(`{"productName":"Dinner Deposit","amountInPence":1500,"quantity":1}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if e := decode[errBody](t, resp); e.Error != "Payment session creation failed" {
		t.Fatalf("error body = %+v", e)
	}
}

func TestReservationSuccess_MissingRequired(t *testing.T) {
	ts := newTestServer(&fakeStore{}, &fakeGateway{})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/reservation/success", "application/json",
		strings.NewReader(`{"firstName":"","lastName":"Doe","reservationDate":"15/06/2025","reservationTime":"19:30"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if e := decode[errBody](t, resp); e.Error != "Missing required reservation data" {
		t.Fatalf("error body = %+v", e)
	}
}

func TestReservationSuccess_PersistenceFailure(t *testing.T) {
	ts := newTestServer(&fakeStore{appendErr: errors.New("quota exceeded")}, &fakeGateway{})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/reservation/success", "application/json",
		strings.NewReader(`{"firstName":"Jane","lastName":"Doe","reservationDate":"15/06/2025","reservationTime":"19:30"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if e := decode[errBody](t, resp); e.Error != "Failed to save reservation" {
		t.Fatalf("error body = %+v", e)
	}
}

func TestPreflightShortCircuits(t *testing.T) {
	// append fails: proves OPTIONS never reaches the core
	ts := newTestServer(&fakeStore{appendErr: errors.New("boom")}, &fakeGateway{})
	defer ts.Close()

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/reservation/success", nil)
	req.Header.Set("Origin", "https://restaurant.example")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); !strings.Contains(got, "POST") {
		t.Fatalf("allow-methods = %q", got)
	}
	if got := resp.Header.Get("Access-Control-Max-Age"); got != "86400" {
		t.Fatalf("max-age = %q", got)
	}
}
