package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jvale/takeaway/internal/database/repository"
)

// Document kinds and operations reported through the change hook.
const (
	KindReservation = "reservation"
	KindMenuItem    = "menu_item"
	KindPrepayment  = "prepayment"

	OpUpsert = "upsert"
	OpDelete = "delete"
)

// ReservationService owns reservation and prepayment workflows.
type ReservationService struct {
	Reservations *repository.ReservationRepo
	Menu         *repository.MenuRepo
	Prepayments  *repository.PrepaymentRepo

	// OnChange, when set, is invoked after every successful local write so
	// the realtime sync layer can broadcast the document. doc is the row
	// that changed (zero value for deletes).
	OnChange func(kind, op, id string, doc interface{})
}

// Totals summarizes the money state of one reservation.
type Totals struct {
	ItemsCents   int64
	PrepaidCents int64
	BalanceCents int64
}

// Create registers a new pending reservation.
func (s *ReservationService) Create(ctx context.Context, customer, phone string, pickupAt time.Time, notes string) (repository.Reservation, error) {
	customer = strings.TrimSpace(customer)
	if customer == "" {
		return repository.Reservation{}, fmt.Errorf("customer name is required")
	}
	if pickupAt.IsZero() {
		return repository.Reservation{}, fmt.Errorf("pickup time is required")
	}
	res := repository.Reservation{
		ID:           uuid.NewString(),
		CustomerName: customer,
		Phone:        strings.TrimSpace(phone),
		PickupAt:     pickupAt,
		Notes:        notes,
		Status:       repository.StatusPending,
	}
	if err := s.Reservations.Insert(ctx, res); err != nil {
		return repository.Reservation{}, fmt.Errorf("insert reservation: %w", err)
	}
	s.notify(KindReservation, OpUpsert, res.ID, res)
	return res, nil
}

// Update rewrites the editable fields of a reservation.
func (s *ReservationService) Update(ctx context.Context, res repository.Reservation) error {
	if strings.TrimSpace(res.CustomerName) == "" {
		return fmt.Errorf("customer name is required")
	}
	if err := s.Reservations.Update(ctx, res); err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	s.notify(KindReservation, OpUpsert, res.ID, res)
	return nil
}

// Delete removes a reservation and its dependent rows.
func (s *ReservationService) Delete(ctx context.Context, id string) error {
	if err := s.Reservations.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	s.notify(KindReservation, OpDelete, id, nil)
	return nil
}

// SetItem sets the quantity of one menu item on a reservation, capturing the
// menu price at reservation time. Quantity 0 removes the line.
func (s *ReservationService) SetItem(ctx context.Context, reservationID, menuItemID string, quantity int) error {
	item, err := s.Menu.Get(ctx, menuItemID)
	if err != nil {
		return fmt.Errorf("menu item: %w", err)
	}
	line := repository.ReservationItem{
		ReservationID:  reservationID,
		MenuItemID:     menuItemID,
		Quantity:       quantity,
		UnitPriceCents: item.PriceCents,
	}
	if err := s.Reservations.SetItem(ctx, line); err != nil {
		return fmt.Errorf("set item: %w", err)
	}
	res, err := s.Reservations.Get(ctx, reservationID)
	if err == nil {
		s.notify(KindReservation, OpUpsert, reservationID, res)
	}
	return nil
}

// RecordPrepayment takes money against a reservation before pickup.
func (s *ReservationService) RecordPrepayment(ctx context.Context, reservationID string, amountCents int64, method string) (repository.Prepayment, error) {
	if amountCents <= 0 {
		return repository.Prepayment{}, fmt.Errorf("amount must be positive")
	}
	switch method {
	case repository.MethodCash, repository.MethodCard, repository.MethodTransfer:
	default:
		return repository.Prepayment{}, fmt.Errorf("unknown payment method %q", method)
	}
	p := repository.Prepayment{
		ID:            uuid.NewString(),
		ReservationID: reservationID,
		AmountCents:   amountCents,
		Method:        method,
		Status:        repository.PrepaymentRecorded,
		PaidAt:        time.Now().UTC(),
	}
	if err := s.Prepayments.Insert(ctx, p); err != nil {
		return repository.Prepayment{}, fmt.Errorf("insert prepayment: %w", err)
	}
	s.notify(KindPrepayment, OpUpsert, p.ID, p)
	return p, nil
}

// RefundPrepayment flags a prepayment as refunded; the row is kept for the
// audit trail.
func (s *ReservationService) RefundPrepayment(ctx context.Context, id string) error {
	if err := s.Prepayments.UpdateStatus(ctx, id, repository.PrepaymentRefunded); err != nil {
		return fmt.Errorf("refund prepayment: %w", err)
	}
	if p, err := s.Prepayments.Get(ctx, id); err == nil {
		s.notify(KindPrepayment, OpUpsert, id, p)
	}
	return nil
}

// Totals computes the items total, prepaid total and balance due.
func (s *ReservationService) Totals(ctx context.Context, reservationID string) (Totals, error) {
	res, err := s.Reservations.Get(ctx, reservationID)
	if err != nil {
		return Totals{}, err
	}
	prepaid, err := s.Prepayments.PrepaidTotal(ctx, reservationID)
	if err != nil {
		return Totals{}, err
	}
	t := Totals{ItemsCents: ItemsTotal(res.Items), PrepaidCents: prepaid}
	t.BalanceCents = t.ItemsCents - t.PrepaidCents
	return t, nil
}

// Transition moves a reservation to a new status, rejecting moves the pickup
// workflow does not allow.
func (s *ReservationService) Transition(ctx context.Context, id, to string) error {
	res, err := s.Reservations.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(res.Status, to) {
		return fmt.Errorf("cannot move reservation from %s to %s", res.Status, to)
	}
	if err := s.Reservations.UpdateStatus(ctx, id, to); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	res.Status = to
	s.notify(KindReservation, OpUpsert, id, res)
	return nil
}

func (s *ReservationService) notify(kind, op, id string, doc interface{}) {
	if s.OnChange != nil {
		s.OnChange(kind, op, id, doc)
	}
}

// ItemsTotal sums the line totals of a reservation.
func ItemsTotal(items []repository.ReservationItem) int64 {
	var total int64
	for _, it := range items {
		total += int64(it.Quantity) * it.UnitPriceCents
	}
	return total
}

// CanTransition reports whether a status move is allowed. Cancellation is
// allowed from every live status; collected and cancelled are terminal.
func CanTransition(from, to string) bool {
	if from == to {
		return false
	}
	switch from {
	case repository.StatusPending:
		return to == repository.StatusConfirmed || to == repository.StatusCancelled
	case repository.StatusConfirmed:
		return to == repository.StatusReady || to == repository.StatusCancelled
	case repository.StatusReady:
		return to == repository.StatusCollected || to == repository.StatusCancelled
	default:
		return false
	}
}
