package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jvale/takeaway/internal/database/repository"
)

// SaveMenuItem creates or updates a menu item. An empty ID means create.
func (s *ReservationService) SaveMenuItem(ctx context.Context, item repository.MenuItem) (repository.MenuItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return repository.MenuItem{}, fmt.Errorf("item name is required")
	}
	if item.PriceCents < 0 {
		return repository.MenuItem{}, fmt.Errorf("price cannot be negative")
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
		item.Available = true
	}
	if err := s.Menu.Upsert(ctx, item); err != nil {
		return repository.MenuItem{}, fmt.Errorf("save menu item: %w", err)
	}
	s.notify(KindMenuItem, OpUpsert, item.ID, item)
	return item, nil
}

// SetMenuAvailability marks an item sellable or not without deleting it.
func (s *ReservationService) SetMenuAvailability(ctx context.Context, id string, available bool) error {
	if err := s.Menu.SetAvailability(ctx, id, available); err != nil {
		return fmt.Errorf("set availability: %w", err)
	}
	if item, err := s.Menu.Get(ctx, id); err == nil {
		s.notify(KindMenuItem, OpUpsert, id, item)
	}
	return nil
}

// SetMenuImage records the hosted image URL for an item.
func (s *ReservationService) SetMenuImage(ctx context.Context, id, url string) error {
	if err := s.Menu.SetImageURL(ctx, id, url); err != nil {
		return fmt.Errorf("set image url: %w", err)
	}
	if item, err := s.Menu.Get(ctx, id); err == nil {
		s.notify(KindMenuItem, OpUpsert, id, item)
	}
	return nil
}

// DeleteMenuItem removes an item from the menu. Items referenced by existing
// reservation lines are protected by the schema; mark those unavailable
// instead of deleting.
func (s *ReservationService) DeleteMenuItem(ctx context.Context, id string) error {
	if err := s.Menu.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	s.notify(KindMenuItem, OpDelete, id, nil)
	return nil
}
