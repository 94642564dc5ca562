package syncstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jvale/takeaway/internal/database/repository"
)

// Applier writes remote document events into the local database.
type Applier struct {
	Reservations *repository.ReservationRepo
	Menu         *repository.MenuRepo
	Prepayments  *repository.PrepaymentRepo
}

// Apply reconciles one remote event. Unknown kinds are rejected; a delete
// for a row that is already gone is a no-op.
func (a *Applier) Apply(ctx context.Context, ev DocumentEvent) error {
	switch ev.Kind {
	case "reservation":
		return a.applyReservation(ctx, ev)
	case "menu_item":
		return a.applyMenuItem(ctx, ev)
	case "prepayment":
		return a.applyPrepayment(ctx, ev)
	default:
		return fmt.Errorf("unknown document kind %q", ev.Kind)
	}
}

func (a *Applier) applyReservation(ctx context.Context, ev DocumentEvent) error {
	if ev.Op == "delete" {
		return a.Reservations.Delete(ctx, ev.ID)
	}
	var res repository.Reservation
	if err := json.Unmarshal(ev.Payload, &res); err != nil {
		return fmt.Errorf("decode reservation: %w", err)
	}
	return a.Reservations.Replace(ctx, res)
}

func (a *Applier) applyMenuItem(ctx context.Context, ev DocumentEvent) error {
	if ev.Op == "delete" {
		return a.Menu.Delete(ctx, ev.ID)
	}
	var item repository.MenuItem
	if err := json.Unmarshal(ev.Payload, &item); err != nil {
		return fmt.Errorf("decode menu item: %w", err)
	}
	return a.Menu.Upsert(ctx, item)
}

func (a *Applier) applyPrepayment(ctx context.Context, ev DocumentEvent) error {
	if ev.Op == "delete" {
		// Prepayments are never deleted: refunds keep the row for the audit
		// trail and reservation deletes cascade through the schema.
		return fmt.Errorf("prepayment documents cannot be deleted")
	}
	var p repository.Prepayment
	if err := json.Unmarshal(ev.Payload, &p); err != nil {
		return fmt.Errorf("decode prepayment: %w", err)
	}
	existing, err := a.Prepayments.ListForReservation(ctx, p.ReservationID)
	if err != nil {
		return err
	}
	for _, have := range existing {
		if have.ID == p.ID {
			return a.Prepayments.UpdateStatus(ctx, p.ID, p.Status)
		}
	}
	return a.Prepayments.Insert(ctx, p)
}
