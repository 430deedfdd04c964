package orders

import (
	"sync"

	"github.com/codespace555/arya-co/internal/models"
)

// View owns one screen's order list, user index and filter state. Snapshots
// from the fetcher are applied in arrival order under a single lock, which
// stands in for the client's single event loop.
type View struct {
	mu     sync.Mutex
	orders []models.Order
	index  map[string]models.User
	filter Filter
}

func NewView() *View {
	return &View{index: map[string]models.User{}}
}

// Replace swaps in a fresh order snapshot. Callers that fail to fetch simply
// never call Replace, keeping stale-but-available state.
func (v *View) Replace(orders []models.Order) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.orders = append([]models.Order(nil), orders...)
}

// SetUsers rebuilds the user index from a fresh user snapshot.
func (v *View) SetUsers(users []models.User) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.index = BuildUserIndex(users)
}

func (v *View) SetFilter(f Filter) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = f
}

func (v *View) Filter() Filter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// Visible returns the filtered order list.
func (v *View) Visible() []models.Order {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter.Apply(append([]models.Order(nil), v.orders...), v.index)
}

// Index returns the current user index. Consumers treat it as read-only.
func (v *View) Index() map[string]models.User {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.index
}

// Snapshot deep-copies the full (unfiltered) order list for rollback.
func (v *View) Snapshot() []models.Order {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]models.Order(nil), v.orders...)
}

// Restore replaces the order list with a previously taken snapshot.
func (v *View) Restore(snapshot []models.Order) {
	v.Replace(snapshot)
}

// Get finds an order by id in the unfiltered list.
func (v *View) Get(id string) (models.Order, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, o := range v.orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.Order{}, false
}

// SetStatus mutates one order's status in place and reports whether the
// order was present.
func (v *View) SetStatus(id string, st models.OrderStatus) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.orders {
		if v.orders[i].ID == id {
			v.orders[i].Status = st
			return true
		}
	}
	return false
}
