package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// ReservationFilters defines list filters.
type ReservationFilters struct {
	Status string
	Day    time.Time // any time within the wanted day; zero = no day filter
	Search string    // substring match on customer name or phone
}

// ReservationRepo handles reservations and their items.
type ReservationRepo struct {
	db *sql.DB
}

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

func (r *ReservationRepo) Insert(ctx context.Context, res Reservation) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO reservations(id, customer_name, phone, pickup_at, notes, status, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, res.ID, res.CustomerName, res.Phone, res.PickupAt, res.Notes, res.Status)
	return err
}

func (r *ReservationRepo) Update(ctx context.Context, res Reservation) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE reservations
	SET customer_name = ?, phone = ?, pickup_at = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`,
		res.CustomerName, res.Phone, res.PickupAt, res.Notes, res.ID)
	return err
}

func (r *ReservationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	return err
}

func (r *ReservationRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	return err
}

// SetItem upserts one line on a reservation; quantity 0 removes the line.
func (r *ReservationRepo) SetItem(ctx context.Context, item ReservationItem) error {
	if item.Quantity <= 0 {
		_, err := r.db.ExecContext(ctx,
			`DELETE FROM reservation_items WHERE reservation_id = ? AND menu_item_id = ?`,
			item.ReservationID, item.MenuItemID)
		return err
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO reservation_items(reservation_id, menu_item_id, quantity, unit_price_cents)
	VALUES(?, ?, ?, ?)
	ON CONFLICT(reservation_id, menu_item_id)
	DO UPDATE SET quantity = excluded.quantity, unit_price_cents = excluded.unit_price_cents`,
		item.ReservationID, item.MenuItemID, item.Quantity, item.UnitPriceCents)
	return err
}

// Replace writes a full reservation document, row plus item lines, in one
// transaction. The stored lines are made to match res.Items exactly, so a
// synced document never lands half applied.
func (r *ReservationRepo) Replace(ctx context.Context, res Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
	UPDATE reservations
	SET customer_name = ?, phone = ?, pickup_at = ?, notes = ?, status = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`,
		res.CustomerName, res.Phone, res.PickupAt, res.Notes, res.Status, res.ID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO reservations(id, customer_name, phone, pickup_at, notes, status, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
			res.ID, res.CustomerName, res.Phone, res.PickupAt, res.Notes, res.Status); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM reservation_items WHERE reservation_id = ?`, res.ID); err != nil {
		return err
	}
	for _, it := range res.Items {
		if it.Quantity <= 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO reservation_items(reservation_id, menu_item_id, quantity, unit_price_cents)
		VALUES(?, ?, ?, ?)`, res.ID, it.MenuItemID, it.Quantity, it.UnitPriceCents); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *ReservationRepo) Get(ctx context.Context, id string) (Reservation, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, customer_name, phone, pickup_at, notes, status, created_at, updated_at
	FROM reservations WHERE id = ?`, id)
	res, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Reservation{}, ErrNotFound
	}
	if err != nil {
		return Reservation{}, err
	}
	res.Items, err = r.fetchItems(ctx, res.ID)
	return res, err
}

func (r *ReservationRepo) List(ctx context.Context, f ReservationFilters) ([]Reservation, error) {
	var where []string
	var args []interface{}

	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if !f.Day.IsZero() {
		start := time.Date(f.Day.Year(), f.Day.Month(), f.Day.Day(), 0, 0, 0, 0, f.Day.Location())
		end := start.AddDate(0, 0, 1)
		where = append(where, "pickup_at >= ? AND pickup_at < ?")
		args = append(args, start, end)
	}
	if f.Search != "" {
		where = append(where, "(customer_name LIKE ? OR phone LIKE ?)")
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}

	query := "SELECT id, customer_name, phone, pickup_at, notes, status, created_at, updated_at FROM reservations"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY pickup_at ASC, created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := r.fetchItems(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *ReservationRepo) fetchItems(ctx context.Context, reservationID string) ([]ReservationItem, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT reservation_id, menu_item_id, quantity, unit_price_cents
	FROM reservation_items WHERE reservation_id = ?`, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ReservationItem
	for rows.Next() {
		var it ReservationItem
		if err := rows.Scan(&it.ReservationID, &it.MenuItemID, &it.Quantity, &it.UnitPriceCents); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (Reservation, error) {
	var res Reservation
	err := row.Scan(&res.ID, &res.CustomerName, &res.Phone, &res.PickupAt,
		&res.Notes, &res.Status, &res.CreatedAt, &res.UpdatedAt)
	return res, err
}
