package service

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/jvale/takeaway/internal/database/repository"
)

// menuFile is the top-level TOML structure of a menu catalog file.
type menuFile struct {
	Item []menuEntry `toml:"item"`
}

type menuEntry struct {
	Name      string  `toml:"name"`
	Category  string  `toml:"category"`
	Price     float64 `toml:"price"` // dollars
	ImageURL  string  `toml:"image_url"`
	Available *bool   `toml:"available"` // defaults to true when omitted
}

// ParseMenuTOML parses a menu catalog. Item ids are derived from the name so
// re-importing an edited file updates rows instead of duplicating them.
func ParseMenuTOML(data []byte) ([]repository.MenuItem, error) {
	var f menuFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}
	if len(f.Item) == 0 {
		return nil, fmt.Errorf("no items defined in menu file")
	}
	items := make([]repository.MenuItem, 0, len(f.Item))
	for i, e := range f.Item {
		if e.Name == "" {
			return nil, fmt.Errorf("item[%d]: name is required", i)
		}
		if e.Price <= 0 {
			return nil, fmt.Errorf("item[%d] %q: price must be positive", i, e.Name)
		}
		available := true
		if e.Available != nil {
			available = *e.Available
		}
		items = append(items, repository.MenuItem{
			ID:         uuid.NewSHA1(uuid.NameSpaceOID, []byte("menu:"+e.Name)).String(),
			Name:       e.Name,
			Category:   e.Category,
			PriceCents: int64(math.Round(e.Price * 100)),
			ImageURL:   e.ImageURL,
			Available:  available,
		})
	}
	return items, nil
}

// ImportMenu loads a TOML menu catalog into the database.
func (s *ReservationService) ImportMenu(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read menu file: %w", err)
	}
	items, err := ParseMenuTOML(data)
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		if err := s.Menu.Upsert(ctx, item); err != nil {
			return 0, fmt.Errorf("upsert %q: %w", item.Name, err)
		}
		s.notify(KindMenuItem, OpUpsert, item.ID, item)
	}
	return len(items), nil
}
