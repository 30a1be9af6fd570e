package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"caribbean_kitchen/internal/domain"
)

// Positional columns of the reservation types sheet.
const (
	typeColLabel = iota
	typeColValue
	typeColDescription
	typeColDeposit
	typeColActive
)

// TypeCatalog reads the configured reservation types from the store. Types
// are read fresh on every call; the staleness window is one request.
type TypeCatalog struct {
	store domain.TabularStore
	rng   string
}

func NewTypeCatalog(store domain.TabularStore, rng string) *TypeCatalog {
	return &TypeCatalog{store: store, rng: rng}
}

// ListActiveTypes returns the active configured types, degrading to the
// built-in default when the sheet is unreachable, empty, or yields no valid
// rows. It never fails.
func (c *TypeCatalog) ListActiveTypes(ctx context.Context) []domain.ReservationType {
	rows, err := c.store.ReadRows(ctx, c.rng)
	if err != nil {
		log.Error().Err(err).Msg("read reservation types failed, serving defaults")
		return defaultTypes()
	}
	if len(rows) <= 1 { // header row only, or nothing at all
		log.Warn().Msg("reservation types sheet has no data rows, serving defaults")
		return defaultTypes()
	}

	out := make([]domain.ReservationType, 0, len(rows)-1)
	for i, row := range rows[1:] {
		t := parseTypeRow(row)
		if !t.IsActive || t.Label == "" || t.Value == "" {
			log.Warn().
				Int("row", i+1).
				Str("label", t.Label).
				Str("value", t.Value).
				Bool("active", t.IsActive).
				Msg("skipping reservation type row")
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		log.Warn().Msg("no valid reservation types parsed, serving defaults")
		return defaultTypes()
	}
	return out
}

// parseTypeRow maps a positional row onto a type. Missing columns fall back
// per column: deposit to 0, active to true.
func parseTypeRow(row []string) domain.ReservationType {
	t := domain.ReservationType{IsActive: true}
	if len(row) > typeColLabel {
		t.Label = strings.TrimSpace(row[typeColLabel])
	}
	if len(row) > typeColValue {
		t.Value = strings.TrimSpace(row[typeColValue])
	}
	if len(row) > typeColDescription {
		t.Description = strings.TrimSpace(row[typeColDescription])
	}
	if len(row) > typeColDeposit {
		if f, err := strconv.ParseFloat(strings.TrimSpace(row[typeColDeposit]), 64); err == nil {
			t.DepositAmount = int64(f)
		}
	}
	if len(row) > typeColActive {
		if b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(row[typeColActive]))); err == nil {
			t.IsActive = b
		}
	}
	return t
}

func defaultTypes() []domain.ReservationType {
	return []domain.ReservationType{{
		Label:       "Regular Dining",
		Value:       "regular",
		Description: "No deposit required",
		IsActive:    true,
	}}
}
