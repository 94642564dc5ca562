package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jvale/takeaway/internal/database/repository"
)

// SeedDefaults ensures a starter menu exists for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	menu := repository.NewMenuRepo(db)
	existing, err := menu.List(ctx, repository.MenuFilters{})
	if err != nil || len(existing) > 0 {
		return err
	}
	starters := []repository.MenuItem{
		{Name: "Pad Thai", Category: "Mains", PriceCents: 1650},
		{Name: "Green Curry", Category: "Mains", PriceCents: 1750},
		{Name: "Spring Rolls", Category: "Sides", PriceCents: 850},
		{Name: "Jasmine Rice", Category: "Sides", PriceCents: 400},
		{Name: "Thai Iced Tea", Category: "Drinks", PriceCents: 550},
		{Name: "Mango Sticky Rice", Category: "Desserts", PriceCents: 950},
	}
	for _, item := range starters {
		item.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte("menu:"+item.Name)).String()
		item.Available = true
		if err := menu.Upsert(ctx, item); err != nil {
			return err
		}
	}
	return nil
}
