package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/jvale/takeaway/internal/database/repository"
)

// ExportDayCSV writes all reservations picked up on the given day as CSV:
// id, customer, phone, pickup time, status, items total, prepaid, balance.
func (s *ReservationService) ExportDayCSV(ctx context.Context, w io.Writer, day time.Time) (int, error) {
	rows, err := s.Reservations.List(ctx, repository.ReservationFilters{Day: day})
	if err != nil {
		return 0, fmt.Errorf("list reservations: %w", err)
	}

	cw := csv.NewWriter(w)
	header := []string{"id", "customer", "phone", "pickup_at", "status", "items_total", "prepaid", "balance"}
	if err := cw.Write(header); err != nil {
		return 0, err
	}
	for _, res := range rows {
		prepaid, err := s.Prepayments.PrepaidTotal(ctx, res.ID)
		if err != nil {
			return 0, fmt.Errorf("prepaid total for %s: %w", res.ID, err)
		}
		items := ItemsTotal(res.Items)
		rec := []string{
			res.ID,
			res.CustomerName,
			res.Phone,
			res.PickupAt.Format(time.RFC3339),
			res.Status,
			centsToDollars(items),
			centsToDollars(prepaid),
			centsToDollars(items - prepaid),
		}
		if err := cw.Write(rec); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	return len(rows), cw.Error()
}

func centsToDollars(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
