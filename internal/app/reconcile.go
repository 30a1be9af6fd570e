package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"caribbean_kitchen/internal/domain"
)

// ErrValidation marks client input the reconciler refuses to persist.
var ErrValidation = errors.New("missing required reservation data")

// DuplicateReservationID is returned instead of a fresh id when the
// reservation already exists in the store.
const DuplicateReservationID = "DUPLICATE"

// Column layout of the reservations sheet (A..L).
const (
	colTimestamp = iota
	colFirstName
	colLastName
	colTypeLabel
	colDate
	colTime
	colPartySize
	colNotes
	colDeposit
	colStatus
	colSessionID
	colFullName
)

// duplicateSearchCols bounds the per-row cell scan for session-id duplicates.
// It covers the whole row so the session id column is always reached.
const duplicateSearchCols = colFullName + 1

const (
	dateLayout      = "02/01/2006"
	timestampLayout = "02/01/2006 15:04:05"
)

// ReservationService reconciles a submitted reservation (direct or backed by
// a checkout session) into one canonical record and persists it, at most
// once, into the reservations sheet.
type ReservationService struct {
	store domain.TabularStore
	gw    domain.PaymentGateway
	rng   string
}

func NewReservationService(store domain.TabularStore, gw domain.PaymentGateway, rng string) *ReservationService {
	return &ReservationService{store: store, gw: gw, rng: rng}
}

// Save resolves the request into a record, validates it, checks the store
// for duplicates and appends a row when the reservation is new.
//
// The duplicate-check-then-append sequence is not transactional; two
// concurrent submissions for the same key can both append.
func (s *ReservationService) Save(ctx context.Context, req domain.ReservationRequest) (domain.SaveResult, error) {
	rec := s.resolve(ctx, req)

	if rec.FirstName == "" || rec.LastName == "" || rec.ReservationDate == "" || rec.ReservationTime == "" {
		return domain.SaveResult{}, ErrValidation
	}

	dup, err := s.isDuplicate(ctx, rec)
	if err != nil {
		return domain.SaveResult{}, err
	}
	if dup {
		log.Warn().
			Str("session_id", rec.StripeSessionID).
			Str("date", rec.ReservationDate).
			Str("time", rec.ReservationTime).
			Msg("duplicate reservation, skipping append")
		return domain.SaveResult{ReservationID: DuplicateReservationID, IsDuplicate: true, Record: rec}, nil
	}

	if err := s.append(ctx, rec); err != nil {
		return domain.SaveResult{}, err
	}
	log.Info().
		Str("first_name", rec.FirstName).
		Str("last_name", rec.LastName).
		Str("date", rec.ReservationDate).
		Str("time", rec.ReservationTime).
		Msg("reservation saved")
	return domain.SaveResult{ReservationID: uuid.NewString(), Record: rec}, nil
}

// resolve runs the reconciliation branch. Direct bookings are built straight
// from the request; paid bookings prefer the checkout session's metadata
// field by field and fall back to the submitted data when the gateway is
// unavailable. A gateway failure is never surfaced: once a session id is
// present the payment is presumed to have succeeded.
func (s *ReservationService) resolve(ctx context.Context, req domain.ReservationRequest) domain.ReservationRecord {
	if !req.HasSession() {
		return s.fromRequest(req)
	}

	details, err := s.gw.GetSessionDetails(ctx, req.StripeSessionID)
	if err != nil || details.Metadata == nil {
		if err != nil {
			log.Warn().Err(err).
				Str("session_id", req.StripeSessionID).
				Msg("checkout session lookup failed, using submitted data")
		} else {
			log.Warn().
				Str("session_id", req.StripeSessionID).
				Msg("checkout session has no metadata, using submitted data")
		}
		rec := s.fromRequest(req)
		rec.PaymentStatus = domain.PaymentStatusPaid
		return rec
	}

	md := details.Metadata
	typ := mdOr(md, "reservationType", strOr(req.ReservationType, "regular"))
	return domain.ReservationRecord{
		FirstName:            mdOr(md, "firstName", strOr(req.FirstName, "Unknown")),
		LastName:             mdOr(md, "lastName", strOr(req.LastName, "Guest")),
		ReservationType:      typ,
		ReservationTypeLabel: LabelFor(typ),
		ReservationDate:      mdOr(md, "reservationDate", strOr(req.ReservationDate, time.Now().UTC().Format(dateLayout))),
		ReservationTime:      mdOr(md, "reservationTime", strOr(req.ReservationTime, "Not specified")),
		PartySize:            parsePartySize(md, req.PartySize),
		Notes:                mdOr(md, "notes", strOr(req.Notes, "")),
		DepositAmount:        depositOf(details.AmountTotal, req.DepositAmount),
		PaymentStatus:        domain.PaymentStatusPaid,
		StripeSessionID:      req.StripeSessionID,
		CreatedAt:            time.Now().UTC(),
	}
}

// fromRequest builds a record from the submitted fields alone, applying the
// documented default for anything the client omitted.
func (s *ReservationService) fromRequest(req domain.ReservationRequest) domain.ReservationRecord {
	typ := strOr(req.ReservationType, "regular")
	status := domain.PaymentStatusNoDeposit
	if req.DepositAmount != nil && *req.DepositAmount > 0 {
		status = domain.PaymentStatusPaid
	}
	return domain.ReservationRecord{
		FirstName:            strOr(req.FirstName, "Unknown"),
		LastName:             strOr(req.LastName, "Guest"),
		ReservationType:      typ,
		ReservationTypeLabel: LabelFor(typ),
		ReservationDate:      strOr(req.ReservationDate, time.Now().UTC().Format(dateLayout)),
		ReservationTime:      strOr(req.ReservationTime, "Not specified"),
		PartySize:            intOr(req.PartySize, 2),
		Notes:                strOr(req.Notes, ""),
		DepositAmount:        int64Or(req.DepositAmount, 0),
		PaymentStatus:        status,
		StripeSessionID:      req.StripeSessionID,
		CreatedAt:            time.Now().UTC(),
	}
}

// isDuplicate checks the store before persisting. Paid reservations are keyed
// by session id; direct reservations by the guest/slot composite. A failed
// read on the direct path lets the booking through rather than blocking it.
func (s *ReservationService) isDuplicate(ctx context.Context, rec domain.ReservationRecord) (bool, error) {
	if rec.StripeSessionID != "" {
		dup, err := s.store.RowExists(ctx, s.rng, rec.StripeSessionID, duplicateSearchCols)
		if err != nil {
			return false, fmt.Errorf("duplicate check: %w", err)
		}
		return dup, nil
	}

	rows, err := s.store.ReadRows(ctx, s.rng)
	if err != nil {
		log.Error().Err(err).Msg("direct duplicate check failed, allowing reservation")
		return false, nil
	}
	key := compositeKey(rec.FirstName, rec.LastName, rec.ReservationDate, rec.ReservationTime)
	for _, row := range rows {
		if len(row) <= colTime {
			continue
		}
		if compositeKey(row[colFirstName], row[colLastName], row[colDate], row[colTime]) == key {
			return true, nil
		}
	}
	return false, nil
}

func (s *ReservationService) append(ctx context.Context, rec domain.ReservationRecord) error {
	row := []any{
		rec.CreatedAt.Format(timestampLayout),
		rec.FirstName,
		rec.LastName,
		rec.ReservationTypeLabel,
		rec.ReservationDate,
		rec.ReservationTime,
		rec.PartySize,
		rec.Notes,
		FormatDeposit(rec.DepositAmount),
		rec.PaymentStatus,
		rec.StripeSessionID,
		rec.FirstName + " " + rec.LastName,
	}
	if err := s.store.AppendRow(ctx, s.rng, row); err != nil {
		log.Error().Err(err).Msg("append reservation failed")
		return fmt.Errorf("append reservation: %w", err)
	}
	return nil
}

// FormatDeposit renders pence as the pound amount stored in the sheet.
func FormatDeposit(pence int64) string {
	return fmt.Sprintf("£%.2f", float64(pence)/100)
}

// compositeKey is the direct-booking duplicate key. Party size and notes are
// deliberately excluded: the same guest re-booking the same slot counts as a
// duplicate even if those differ.
func compositeKey(first, last, date, tm string) string {
	return first + "_" + last + "_" + date + "_" + tm
}

// mdOr returns the metadata value when the key is present (even if empty),
// otherwise the fallback.
func mdOr(md map[string]string, key, fallback string) string {
	if v, ok := md[key]; ok {
		return v
	}
	return fallback
}

func parsePartySize(md map[string]string, reqSize *int) int {
	fallback := "2"
	if reqSize != nil {
		fallback = strconv.Itoa(*reqSize)
	}
	n, err := strconv.Atoi(strings.TrimSpace(mdOr(md, "partySize", fallback)))
	if err != nil {
		return 2
	}
	return n
}

func depositOf(amountTotal *int64, reqDeposit *int64) int64 {
	if amountTotal != nil {
		return *amountTotal
	}
	return int64Or(reqDeposit, 0)
}

func strOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func int64Or(p *int64, def int64) int64 {
	if p == nil {
		return def
	}
	return *p
}
