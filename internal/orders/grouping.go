package orders

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codespace555/arya-co/internal/models"
)

// DayLayout formats a calendar day for bucket keys and display labels alike.
const DayLayout = "02 Jan 2006"

// DayBucket holds the orders placed on one calendar day.
type DayBucket struct {
	Label  string         `json:"label"`
	Day    time.Time      `json:"day"`
	Orders []models.Order `json:"orders"`
}

// GroupByOrderDate partitions orders into buckets by placement day, newest
// bucket first. Every order lands in exactly one bucket; the first bucket is
// the default selection for the invoice-by-date view.
func GroupByOrderDate(list []models.Order) []DayBucket {
	byDay := make(map[string]*DayBucket)
	for _, o := range list {
		key := o.OrderedAt.Format(DayLayout)
		b, ok := byDay[key]
		if !ok {
			b = &DayBucket{Label: key, Day: models.Day(o.OrderedAt)}
			byDay[key] = b
		}
		b.Orders = append(b.Orders, o)
	}
	buckets := make([]DayBucket, 0, len(byDay))
	for _, b := range byDay {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Day.After(buckets[j].Day)
	})
	return buckets
}

// Summary aggregates the admin dashboard numbers over the full order set.
type Summary struct {
	TotalOrders     int     `json:"totalOrders"`
	Revenue         float64 `json:"revenue"`
	OrdersToday     int     `json:"ordersToday"`
	DeliveriesToday int     `json:"deliveriesToday"`
}

// Summarize recomputes the dashboard aggregation. "Today" is the calendar day
// of now, so callers re-run this on every underlying change rather than
// caching. Revenue accumulates in decimals to avoid visible drift at
// two-decimal display.
func Summarize(list []models.Order, now time.Time) Summary {
	revenue := decimal.Zero
	s := Summary{TotalOrders: len(list)}
	for _, o := range list {
		revenue = revenue.Add(decimal.NewFromFloat(o.TotalPrice))
		if models.SameDay(o.OrderedAt, now) {
			s.OrdersToday++
		}
		if models.SameDay(o.DeliveryDate, now) {
			s.DeliveriesToday++
		}
	}
	s.Revenue, _ = revenue.Round(2).Float64()
	return s
}
