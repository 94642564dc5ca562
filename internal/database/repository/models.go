package repository

import "time"

// Reservation statuses, in the order pickups move through them.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusReady     = "ready"
	StatusCollected = "collected"
	StatusCancelled = "cancelled"
)

// Prepayment methods and statuses.
const (
	MethodCash     = "cash"
	MethodCard     = "card"
	MethodTransfer = "transfer"

	PrepaymentRecorded = "recorded"
	PrepaymentRefunded = "refunded"
)

// MenuItem represents a menu item row.
type MenuItem struct {
	ID         string
	Name       string
	Category   string
	PriceCents int64
	ImageURL   string
	Available  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Reservation represents a take-out reservation row.
type Reservation struct {
	ID           string
	CustomerName string
	Phone        string
	PickupAt     time.Time
	Notes        string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Items        []ReservationItem
}

// ReservationItem is one ordered line on a reservation. UnitPriceCents is
// captured at reservation time so later menu edits do not change past orders.
type ReservationItem struct {
	ReservationID  string
	MenuItemID     string
	Quantity       int
	UnitPriceCents int64
}

// Prepayment represents money taken against a reservation before pickup.
type Prepayment struct {
	ID            string
	ReservationID string
	AmountCents   int64
	Method        string
	Status        string
	PaidAt        time.Time
}
