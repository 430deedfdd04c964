package orders

import (
	"strings"
	"time"

	"github.com/codespace555/arya-co/internal/models"
)

// Filter is the active filter state of an order list view. Zero values mean
// "dimension inactive"; active dimensions combine with AND semantics.
type Filter struct {
	Status       models.OrderStatus
	UserID       string
	DeliveryDate *time.Time
	Search       string
}

// Active reports whether any dimension constrains the view.
func (f Filter) Active() bool {
	return f.Status != "" || f.UserID != "" || f.DeliveryDate != nil ||
		strings.TrimSpace(f.Search) != ""
}

// Apply returns the orders satisfying every active dimension. With no active
// dimension the input is returned unchanged. Orders referencing a user absent
// from the index still pass the search dimension on product name alone; their
// missing name/phone match as empty strings, not as automatic rejections.
func (f Filter) Apply(list []models.Order, index map[string]models.User) []models.Order {
	if !f.Active() {
		return list
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.Order, 0, len(list))
	for _, o := range list {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.DeliveryDate != nil && !models.SameDay(o.DeliveryDate, *f.DeliveryDate) {
			continue
		}
		if search != "" && !matchesSearch(o, index, search) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func matchesSearch(o models.Order, index map[string]models.User, search string) bool {
	u := index[o.UserID]
	return strings.Contains(strings.ToLower(u.Name), search) ||
		strings.Contains(strings.ToLower(u.Phone), search) ||
		strings.Contains(strings.ToLower(o.ProductName), search)
}
