package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// MenuFilters defines list filters for menu items.
type MenuFilters struct {
	Category      string
	OnlyAvailable bool
	Search        string
}

// MenuRepo handles menu items.
type MenuRepo struct {
	db *sql.DB
}

func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{db: db} }

func (r *MenuRepo) Upsert(ctx context.Context, m MenuItem) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO menu_items(id, name, category, price_cents, image_url, available, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name = excluded.name, category = excluded.category, price_cents = excluded.price_cents,
	 image_url = excluded.image_url, available = excluded.available, updated_at = CURRENT_TIMESTAMP`,
		m.ID, m.Name, m.Category, m.PriceCents, m.ImageURL, m.Available)
	return err
}

func (r *MenuRepo) SetAvailability(ctx context.Context, id string, available bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE menu_items SET available = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, available, id)
	return err
}

func (r *MenuRepo) SetImageURL(ctx context.Context, id, url string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE menu_items SET image_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, url, id)
	return err
}

func (r *MenuRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	return err
}

func (r *MenuRepo) Get(ctx context.Context, id string) (MenuItem, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, name, category, price_cents, image_url, available, created_at, updated_at
	FROM menu_items WHERE id = ?`, id)
	var m MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Category, &m.PriceCents, &m.ImageURL, &m.Available, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return MenuItem{}, ErrNotFound
	}
	return m, err
}

func (r *MenuRepo) List(ctx context.Context, f MenuFilters) ([]MenuItem, error) {
	var where []string
	var args []interface{}

	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if f.OnlyAvailable {
		where = append(where, "available = 1")
	}
	if f.Search != "" {
		where = append(where, "name LIKE ?")
		args = append(args, "%"+f.Search+"%")
	}

	query := "SELECT id, name, category, price_cents, image_url, available, created_at, updated_at FROM menu_items"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY category ASC, name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MenuItem
	for rows.Next() {
		var m MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.PriceCents, &m.ImageURL, &m.Available, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
