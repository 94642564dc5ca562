package service

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jvale/takeaway/internal/database/repository"
)

// maxLookupDistance is the normalized edit distance above which a candidate
// is considered unrelated to the query.
const maxLookupDistance = 0.6

// RankCustomers orders reservations by how well their customer matches the
// query: exact substring hits first, then fuzzy matches by edit distance.
// Reservations that match neither way are dropped.
func RankCustomers(query string, rows []repository.Reservation) []repository.Reservation {
	type scored struct {
		row  repository.Reservation
		dist float64
	}
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return rows
	}
	var hits []scored
	for _, row := range rows {
		name := strings.ToUpper(row.CustomerName)
		d, ok := matchDistance(q, name)
		if !ok && row.Phone != "" && strings.Contains(row.Phone, query) {
			d, ok = 0, true
		}
		if ok {
			hits = append(hits, scored{row: row, dist: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
	out := make([]repository.Reservation, len(hits))
	for i, h := range hits {
		out[i] = h.row
	}
	return out
}

// RankMenu orders menu items by how well their name matches the query.
func RankMenu(query string, items []repository.MenuItem) []repository.MenuItem {
	type scored struct {
		item repository.MenuItem
		dist float64
	}
	q := strings.ToUpper(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	var hits []scored
	for _, item := range items {
		if d, ok := matchDistance(q, strings.ToUpper(item.Name)); ok {
			hits = append(hits, scored{item: item, dist: d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
	out := make([]repository.MenuItem, len(hits))
	for i, h := range hits {
		out[i] = h.item
	}
	return out
}

// matchDistance returns a normalized distance in [0,1): 0 for substring hits,
// otherwise the edit distance scaled by the longer string. ok is false when
// the candidate is too far from the query to count as a match.
func matchDistance(query, candidate string) (float64, bool) {
	if strings.Contains(candidate, query) {
		return 0, true
	}
	dist := levenshtein.ComputeDistance(query, candidate)
	maxlen := len(candidate)
	if len(query) > maxlen {
		maxlen = len(query)
	}
	if maxlen == 0 {
		return 0, false
	}
	norm := float64(dist) / float64(maxlen)
	return norm, norm < maxLookupDistance
}
