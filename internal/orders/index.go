// Package orders derives the order views both roles see: the user index,
// the conjunctive filter engine, day grouping and dashboard aggregation,
// optimistic status transitions, and the export projection.
package orders

import "github.com/codespace555/arya-co/internal/models"

// UnknownUser is the display fallback for orders whose user cannot be
// resolved from the index.
const UnknownUser = "Unknown User"

// BuildUserIndex maps user id to user record for O(1) enrichment lookups.
// Records without an id are skipped; the result is rebuilt wholesale on every
// user-collection change and never mutated in place.
func BuildUserIndex(users []models.User) map[string]models.User {
	index := make(map[string]models.User, len(users))
	for _, u := range users {
		if u.ID == "" {
			continue
		}
		index[u.ID] = u
	}
	return index
}

// DisplayName resolves the customer name for an order, degrading to
// UnknownUser for orphaned orders.
func DisplayName(index map[string]models.User, userID string) string {
	if u, ok := index[userID]; ok && u.Name != "" {
		return u.Name
	}
	return UnknownUser
}
