package app_test

import (
	"context"
	"errors"
	"testing"

	"caribbean_kitchen/internal/app"
)

func listTypes(t *testing.T, store *fakeStore) []string {
	t.Helper()
	cat := app.NewTypeCatalog(store, "ReservationTypes!A:F")
	types := cat.ListActiveTypes(context.Background())
	values := make([]string, 0, len(types))
	for _, rt := range types {
		values = append(values, rt.Value)
	}
	return values
}

func TestListActiveTypes_ParsesRows(t *testing.T) {
	store := &fakeStore{rows: [][]string{
		{"Label", "Value", "Description", "Deposit", "Active"},
		{"Regular Dining", "regular", "No deposit required", "0", "TRUE"},
		{"All You Can Eat (AYCE)", "ayce", "Deposit per person", "1500", "TRUE"},
		{"Christmas Menu", "christmas", "Seasonal", "3000", "FALSE"},
		{"", "orphan", "missing label", "0", "TRUE"},
		{"No Value", "", "missing value", "0", "TRUE"},
	}}
	cat := app.NewTypeCatalog(store, "ReservationTypes!A:F")

	types := cat.ListActiveTypes(context.Background())
	if len(types) != 2 {
		t.Fatalf("got %d types: %+v", len(types), types)
	}
	if types[0].Value != "regular" || types[1].Value != "ayce" {
		t.Fatalf("unexpected values: %+v", types)
	}
	if types[1].DepositAmount != 1500 {
		t.Fatalf("ayce deposit = %d", types[1].DepositAmount)
	}
	if !types[0].IsActive || !types[1].IsActive {
		t.Fatalf("inactive types returned: %+v", types)
	}
}

func TestListActiveTypes_MissingColumnsDefault(t *testing.T) {
	// isActive column absent entirely and deposit unparsable
	store := &fakeStore{rows: [][]string{
		{"Label", "Value"},
		{"Regular Dining", "regular", "", "n/a"},
	}}
	cat := app.NewTypeCatalog(store, "ReservationTypes!A:F")

	types := cat.ListActiveTypes(context.Background())
	if len(types) != 1 {
		t.Fatalf("got %d types", len(types))
	}
	if !types[0].IsActive {
		t.Fatal("missing isActive should default to true")
	}
	if types[0].DepositAmount != 0 {
		t.Fatalf("unparsable deposit should default to 0, got %d", types[0].DepositAmount)
	}
}

func TestListActiveTypes_HeaderOnlyServesDefault(t *testing.T) {
	store := &fakeStore{rows: [][]string{{"Label", "Value", "Description", "Deposit", "Active"}}}
	values := listTypes(t, store)
	if len(values) != 1 || values[0] != "regular" {
		t.Fatalf("values = %v, want the built-in default", values)
	}
}

func TestListActiveTypes_StoreErrorServesDefault(t *testing.T) {
	store := &fakeStore{readErr: errors.New("store unreachable")}
	values := listTypes(t, store)
	if len(values) != 1 || values[0] != "regular" {
		t.Fatalf("values = %v, want the built-in default", values)
	}
}

func TestListActiveTypes_AllRowsInvalidServesDefault(t *testing.T) {
	store := &fakeStore{rows: [][]string{
		{"Label", "Value", "Description", "Deposit", "Active"},
		{"Closed", "closed", "", "0", "FALSE"},
		{"", "", "", "", ""},
	}}
	values := listTypes(t, store)
	if len(values) != 1 || values[0] != "regular" {
		t.Fatalf("values = %v, want the built-in default", values)
	}
}
