package gsheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"caribbean_kitchen/internal/adapters/observability"
)

// Store is the Sheets-backed TabularStore. All calls go through a
// client-side rate limiter; the Sheets API quota is per-minute and a burst
// of reservation traffic would otherwise trip it.
type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	rl            *rate.Limiter
}

func New(ctx context.Context, spreadsheetID, credentialsJSON string, rps int) (*Store, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if rps <= 0 {
		rps = 1
	}
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Store{svc: svc, spreadsheetID: spreadsheetID, rl: rate.NewLimiter(rate.Limit(rps), rps)}, nil
}

// NewWithService wires an already-built Sheets service; tests use it with a
// stub server.
func NewWithService(svc *sheets.Service, spreadsheetID string) *Store {
	return &Store{svc: svc, spreadsheetID: spreadsheetID, rl: rate.NewLimiter(rate.Limit(100), 100)}
}

func (s *Store) ReadRows(ctx context.Context, rng string) ([][]string, error) {
	if err := s.rl.Wait(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	observability.ObserveExternal("sheets", "values_get", statusOf(err), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("sheets: read %s: %w", rng, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, strings.TrimSpace(fmt.Sprint(cell)))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// RowExists reports whether value appears in any cell within the first
// searchCols columns of a row in the range.
func (s *Store) RowExists(ctx context.Context, rng, value string, searchCols int) (bool, error) {
	rows, err := s.ReadRows(ctx, rng)
	if err != nil {
		return false, err
	}
	return cellMatch(rows, value, searchCols), nil
}

func cellMatch(rows [][]string, value string, searchCols int) bool {
	if value == "" {
		return false
	}
	for _, row := range rows {
		n := len(row)
		if searchCols > 0 && n > searchCols {
			n = searchCols
		}
		for i := 0; i < n; i++ {
			if row[i] == value {
				return true
			}
		}
	}
	return false
}

func (s *Store) AppendRow(ctx context.Context, rng string, row []any) error {
	if err := s.rl.Wait(ctx); err != nil {
		return err
	}
	vr := &sheets.ValueRange{Values: [][]any{row}}
	start := time.Now()
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	observability.ObserveExternal("sheets", "values_append", statusOf(err), time.Since(start))
	if err != nil {
		return fmt.Errorf("sheets: append to %s: %w", rng, err)
	}
	return nil
}

func statusOf(err error) int {
	if err == nil {
		return 200
	}
	var ge *googleapi.Error
	if errors.As(err, &ge) {
		return ge.Code
	}
	return 0
}
