package syncstore

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jvale/takeaway/internal/database"
	"github.com/jvale/takeaway/internal/database/repository"
)

func TestSubjectNaming(t *testing.T) {
	if got := Subject("takeaway", "reservation"); got != "takeaway.reservations" {
		t.Fatalf("subject = %q", got)
	}
	if got := Subject("takeaway", "menu_item"); got != "takeaway.menu_items" {
		t.Fatalf("subject = %q", got)
	}
}

func TestEventCodecRoundTrip(t *testing.T) {
	payload, _ := json.Marshal(repository.MenuItem{ID: "m1", Name: "Pad Thai", PriceCents: 1650})
	in := DocumentEvent{
		Kind: "menu_item", Op: "upsert", ID: "m1",
		Payload: payload, Origin: "client-a", At: time.Now().UTC().Truncate(time.Second),
	}
	data, err := encodeEvent(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := decodeEvent(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Kind != in.Kind || out.Op != in.Op || out.ID != in.ID || out.Origin != in.Origin {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestDecodeRejectsIncompleteEvents(t *testing.T) {
	cases := []string{
		`{}`,
		`{"kind":"reservation"}`,
		`{"kind":"reservation","op":"upsert"}`,
		`not json`,
	}
	for _, c := range cases {
		if _, err := decodeEvent([]byte(c)); err == nil {
			t.Fatalf("decode accepted %q", c)
		}
	}
}

func newTestApplier(t *testing.T) (context.Context, *Applier) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Bootstrap(db); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return context.Background(), &Applier{
		Reservations: repository.NewReservationRepo(db),
		Menu:         repository.NewMenuRepo(db),
		Prepayments:  repository.NewPrepaymentRepo(db),
	}
}

func event(t *testing.T, kind, op, id string, doc interface{}) DocumentEvent {
	t.Helper()
	ev := DocumentEvent{Kind: kind, Op: op, ID: id, Origin: "remote", At: time.Now().UTC()}
	if doc != nil {
		payload, err := json.Marshal(doc)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		ev.Payload = payload
	}
	return ev
}

func TestApplierUpsertsAndDeletesReservations(t *testing.T) {
	ctx, a := newTestApplier(t)

	res := repository.Reservation{
		ID: "r1", CustomerName: "Mai", PickupAt: time.Now().UTC(), Status: repository.StatusPending,
	}
	if err := a.Apply(ctx, event(t, "reservation", "upsert", "r1", res)); err != nil {
		t.Fatalf("apply insert: %v", err)
	}

	res.Status = repository.StatusConfirmed
	res.Notes = "no peanuts"
	if err := a.Apply(ctx, event(t, "reservation", "upsert", "r1", res)); err != nil {
		t.Fatalf("apply update: %v", err)
	}
	got, err := a.Reservations.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != repository.StatusConfirmed || got.Notes != "no peanuts" {
		t.Fatalf("row = %+v", got)
	}

	if err := a.Apply(ctx, event(t, "reservation", "delete", "r1", nil)); err != nil {
		t.Fatalf("apply delete: %v", err)
	}
	if _, err := a.Reservations.Get(ctx, "r1"); err != repository.ErrNotFound {
		t.Fatalf("row survived delete: %v", err)
	}
}

func TestApplierPrepaymentIsIdempotent(t *testing.T) {
	ctx, a := newTestApplier(t)

	res := repository.Reservation{ID: "r1", CustomerName: "Mai", PickupAt: time.Now().UTC(), Status: repository.StatusPending}
	if err := a.Apply(ctx, event(t, "reservation", "upsert", "r1", res)); err != nil {
		t.Fatalf("reservation: %v", err)
	}

	p := repository.Prepayment{
		ID: "p1", ReservationID: "r1", AmountCents: 1000,
		Method: repository.MethodCard, Status: repository.PrepaymentRecorded, PaidAt: time.Now().UTC(),
	}
	if err := a.Apply(ctx, event(t, "prepayment", "upsert", "p1", p)); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	p.Status = repository.PrepaymentRefunded
	if err := a.Apply(ctx, event(t, "prepayment", "upsert", "p1", p)); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	rows, err := a.Prepayments.ListForReservation(ctx, "r1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].Status != repository.PrepaymentRefunded {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestApplierRejectsPrepaymentDelete(t *testing.T) {
	ctx, a := newTestApplier(t)
	if err := a.Apply(ctx, event(t, "prepayment", "delete", "p1", nil)); err == nil {
		t.Fatalf("prepayment delete accepted")
	}
}

func TestApplierRejectsUnknownKind(t *testing.T) {
	ctx, a := newTestApplier(t)
	if err := a.Apply(ctx, event(t, "invoice", "upsert", "x", nil)); err == nil {
		t.Fatalf("unknown kind accepted")
	}
}
