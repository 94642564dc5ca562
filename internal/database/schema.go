package database

import "database/sql"

// bootstrapSchema mirrors the current head of the migrations tree. Applied
// directly when no migrations directory is available.
const bootstrapSchema = `
CREATE TABLE IF NOT EXISTS menu_items (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	price_cents INTEGER NOT NULL,
	image_url TEXT NOT NULL DEFAULT '',
	available INTEGER NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS reservations (
	id TEXT PRIMARY KEY,
	customer_name TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT '',
	pickup_at TIMESTAMP NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS reservation_items (
	reservation_id TEXT NOT NULL REFERENCES reservations(id) ON DELETE CASCADE,
	menu_item_id TEXT NOT NULL REFERENCES menu_items(id),
	quantity INTEGER NOT NULL DEFAULT 1,
	unit_price_cents INTEGER NOT NULL,
	PRIMARY KEY (reservation_id, menu_item_id)
);

CREATE TABLE IF NOT EXISTS prepayments (
	id TEXT PRIMARY KEY,
	reservation_id TEXT NOT NULL REFERENCES reservations(id) ON DELETE CASCADE,
	amount_cents INTEGER NOT NULL,
	method TEXT NOT NULL DEFAULT 'cash',
	status TEXT NOT NULL DEFAULT 'recorded',
	paid_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_reservations_pickup ON reservations(pickup_at);
CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(status);
CREATE INDEX IF NOT EXISTS idx_prepayments_reservation ON prepayments(reservation_id);
`

// Bootstrap creates the schema on a fresh database. Idempotent.
func Bootstrap(db *sql.DB) error {
	_, err := db.Exec(bootstrapSchema)
	return err
}
