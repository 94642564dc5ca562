package service

import (
	"testing"
	"time"

	"github.com/jvale/takeaway/internal/database/repository"
)

func TestSaveMenuItemCreatesAndUpdates(t *testing.T) {
	ctx, svc, _ := newTestService(t)

	var changes []string
	svc.OnChange = func(kind, op, id string, _ interface{}) {
		changes = append(changes, kind+":"+op)
	}

	item, err := svc.SaveMenuItem(ctx, repository.MenuItem{Name: "  Pad Thai ", PriceCents: 1650})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.ID == "" || item.Name != "Pad Thai" || !item.Available {
		t.Fatalf("created item = %+v", item)
	}

	item.PriceCents = 1750
	if _, err := svc.SaveMenuItem(ctx, item); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := svc.Menu.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PriceCents != 1750 {
		t.Fatalf("price = %d, want 1750", got.PriceCents)
	}
	if len(changes) != 2 || changes[0] != "menu_item:upsert" {
		t.Fatalf("changes = %v", changes)
	}
}

func TestSaveMenuItemValidation(t *testing.T) {
	ctx, svc, _ := newTestService(t)
	if _, err := svc.SaveMenuItem(ctx, repository.MenuItem{Name: "  "}); err == nil {
		t.Fatalf("empty name accepted")
	}
	if _, err := svc.SaveMenuItem(ctx, repository.MenuItem{Name: "x", PriceCents: -1}); err == nil {
		t.Fatalf("negative price accepted")
	}
}

func TestSetMenuAvailabilityAndImage(t *testing.T) {
	ctx, svc, _ := newTestService(t)
	item, err := svc.SaveMenuItem(ctx, repository.MenuItem{Name: "Laksa", PriceCents: 1500})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.SetMenuAvailability(ctx, item.ID, false); err != nil {
		t.Fatalf("availability: %v", err)
	}
	if err := svc.SetMenuImage(ctx, item.ID, "https://img.example/laksa.jpg"); err != nil {
		t.Fatalf("image: %v", err)
	}

	got, err := svc.Menu.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Available || got.ImageURL != "https://img.example/laksa.jpg" {
		t.Fatalf("item = %+v", got)
	}
}

func TestDeleteMenuItem(t *testing.T) {
	ctx, svc, _ := newTestService(t)
	item, err := svc.SaveMenuItem(ctx, repository.MenuItem{Name: "Spring Rolls", PriceCents: 800})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteMenuItem(ctx, item.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Menu.Get(ctx, item.ID); err != repository.ErrNotFound {
		t.Fatalf("item survived delete: %v", err)
	}
}

func TestDeleteMenuItemReferencedByReservation(t *testing.T) {
	ctx, svc, _ := newTestService(t)
	item, err := svc.SaveMenuItem(ctx, repository.MenuItem{Name: "Pho", PriceCents: 1400})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	res, err := svc.Create(ctx, "Mai", "", time.Now().UTC().Add(time.Hour), "")
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	if err := svc.SetItem(ctx, res.ID, item.ID, 1); err != nil {
		t.Fatalf("set item: %v", err)
	}
	if err := svc.DeleteMenuItem(ctx, item.ID); err == nil {
		t.Fatalf("referenced item deleted")
	}
}
