package repository

import (
	"context"
	"database/sql"
	"errors"
)

// PrepaymentRepo handles prepayments.
type PrepaymentRepo struct {
	db *sql.DB
}

func NewPrepaymentRepo(db *sql.DB) *PrepaymentRepo { return &PrepaymentRepo{db: db} }

func (r *PrepaymentRepo) Insert(ctx context.Context, p Prepayment) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO prepayments(id, reservation_id, amount_cents, method, status, paid_at)
	VALUES(?, ?, ?, ?, ?, ?)`,
		p.ID, p.ReservationID, p.AmountCents, p.Method, p.Status, p.PaidAt)
	return err
}

func (r *PrepaymentRepo) Get(ctx context.Context, id string) (Prepayment, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, reservation_id, amount_cents, method, status, paid_at
	FROM prepayments WHERE id = ?`, id)
	var p Prepayment
	err := row.Scan(&p.ID, &p.ReservationID, &p.AmountCents, &p.Method, &p.Status, &p.PaidAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Prepayment{}, ErrNotFound
	}
	return p, err
}

func (r *PrepaymentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE prepayments SET status = ? WHERE id = ?`, status, id)
	return err
}

func (r *PrepaymentRepo) ListForReservation(ctx context.Context, reservationID string) ([]Prepayment, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, reservation_id, amount_cents, method, status, paid_at
	FROM prepayments WHERE reservation_id = ? ORDER BY paid_at ASC`, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPrepayments(rows)
}

func (r *PrepaymentRepo) ListRecent(ctx context.Context, limit int) ([]Prepayment, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, reservation_id, amount_cents, method, status, paid_at
	FROM prepayments ORDER BY paid_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPrepayments(rows)
}

// PrepaidTotal returns the sum of recorded (not refunded) prepayments.
func (r *PrepaymentRepo) PrepaidTotal(ctx context.Context, reservationID string) (int64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
	SELECT SUM(amount_cents) FROM prepayments
	WHERE reservation_id = ? AND status = ?`, reservationID, PrepaymentRecorded).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}

func scanPrepayments(rows *sql.Rows) ([]Prepayment, error) {
	var out []Prepayment
	for rows.Next() {
		var p Prepayment
		if err := rows.Scan(&p.ID, &p.ReservationID, &p.AmountCents, &p.Method, &p.Status, &p.PaidAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
