package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codespace555/arya-co/internal/orders"
	"github.com/codespace555/arya-co/internal/store"
)

// dashboard serves the admin stat grid. With a live aggregator bound, the
// numbers were already recomputed on the last data change; otherwise they are
// computed fresh for this request. "Today" is the day the computation ran.
func (s *Server) dashboard(c *gin.Context) {
	if s.stats != nil {
		if snapshot, ok := s.stats.Current(); ok {
			c.JSON(200, snapshot)
			return
		}
	}
	products, users, err := s.backend.Catalog(c.Request.Context())
	if err != nil {
		s.fetchFailed(c, err, "catalog")
		return
	}
	list, err := s.backend.Orders(c.Request.Context(), store.Query{})
	if err != nil {
		s.fetchFailed(c, err, "orders")
		return
	}
	summary := orders.Summarize(list, time.Now())
	c.JSON(200, gin.H{
		"totalProducts":   len(products),
		"totalUsers":      len(users),
		"totalOrders":     summary.TotalOrders,
		"revenue":         summary.Revenue,
		"ordersToday":     summary.OrdersToday,
		"deliveriesToday": summary.DeliveriesToday,
	})
}
