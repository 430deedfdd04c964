package httpapi

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codespace555/arya-co/internal/auth"
	"github.com/codespace555/arya-co/internal/export"
	"github.com/codespace555/arya-co/internal/invoice"
	"github.com/codespace555/arya-co/internal/models"
	"github.com/codespace555/arya-co/internal/notify"
	"github.com/codespace555/arya-co/internal/orders"
	"github.com/codespace555/arya-co/internal/store"
)

const dateParamLayout = "2006-01-02"

// orderRow is an order enriched with the resolved customer for display.
type orderRow struct {
	models.Order
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
}

func enrich(list []models.Order, index map[string]models.User) []orderRow {
	rows := make([]orderRow, 0, len(list))
	for _, o := range list {
		u := index[o.UserID]
		rows = append(rows, orderRow{
			Order:         o,
			CustomerName:  orders.DisplayName(index, o.UserID),
			CustomerPhone: u.Phone,
		})
	}
	return rows
}

func parseFilter(c *gin.Context) (orders.Filter, error) {
	f := orders.Filter{
		UserID: c.Query("userId"),
		Search: c.Query("q"),
	}
	if raw := c.Query("status"); raw != "" {
		st, err := models.ParseStatus(raw)
		if err != nil {
			return f, err
		}
		f.Status = st
	}
	if raw := c.Query("deliveryDate"); raw != "" {
		d, err := time.Parse(dateParamLayout, raw)
		if err != nil {
			return f, fmt.Errorf("deliveryDate must be %s", dateParamLayout)
		}
		f.DeliveryDate = &d
	}
	return f, nil
}

// adminView assembles the admin orders view: full order set sorted like the
// orders screen, user index, and the request's filter state.
func (s *Server) adminView(c *gin.Context) (*orders.View, bool) {
	f, err := parseFilter(c)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return nil, false
	}
	list, err := s.backend.Orders(c.Request.Context(), store.Query{OrderBy: "deliveryDate", Desc: true})
	if err != nil {
		s.fetchFailed(c, err, "orders")
		return nil, false
	}
	users, err := s.backend.Users(c.Request.Context())
	if err != nil {
		s.fetchFailed(c, err, "users")
		return nil, false
	}
	view := orders.NewView()
	view.Replace(list)
	view.SetUsers(users)
	view.SetFilter(f)
	return view, true
}

func (s *Server) listAllOrders(c *gin.Context) {
	view, ok := s.adminView(c)
	if !ok {
		return
	}
	c.JSON(200, enrich(view.Visible(), view.Index()))
}

type statusRequest struct {
	Status string `json:"status"`
}

// updateOrderStatus persists a confirmed transition. The request naming the
// exact target status is the confirmation; nothing transitions silently.
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	next, err := models.ParseStatus(req.Status)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	list, err := s.backend.Orders(c.Request.Context(), store.Query{})
	if err != nil {
		s.fetchFailed(c, err, "orders")
		return
	}
	view := orders.NewView()
	view.Replace(list)

	id := c.Param("orderId")
	switch err := s.transitions.Transition(c.Request.Context(), view, id, next); err {
	case nil:
		updated, _ := view.Get(id)
		c.JSON(200, updated)
	case orders.ErrOrderMissing:
		c.JSON(404, gin.H{"error": "order not found"})
	case orders.ErrSameStatus:
		c.JSON(409, gin.H{"error": "order already has that status"})
	case orders.ErrUpdateInFlight:
		c.JSON(409, gin.H{"error": "update already in flight"})
	default:
		c.JSON(502, gin.H{"error": "failed to update status"})
	}
}

// exportOrders returns the currently filtered view as a workbook. An empty
// view is a no-op signal, never an empty file.
func (s *Server) exportOrders(c *gin.Context) {
	view, ok := s.adminView(c)
	if !ok {
		return
	}
	rows, err := orders.Project(view.Visible(), view.Index())
	if err == orders.ErrNothingToExport {
		s.notifier.Notify(notify.Info, "No data to export.")
		c.Status(204)
		return
	}
	if err != nil {
		c.JSON(502, gin.H{"error": "export failed"})
		return
	}
	book, err := export.Orders(rows)
	if err != nil {
		s.log.WithError(err).Warn("workbook encoding failed")
		s.notifier.Notify(notify.Error, "Export Failed")
		c.JSON(502, gin.H{"error": "export failed"})
		return
	}
	filename := fmt.Sprintf("orders-%s.xlsx", uuid.NewString())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", book)
}

type placeOrderRequest struct {
	UserID       string `json:"userId"`
	ProductID    string `json:"productId"`
	Quantity     int    `json:"quantity"`
	DeliveryDate string `json:"deliveryDate"`
}

// submitOrder validates everything before any write; no partial order is
// ever created.
func (s *Server) submitOrder(c *gin.Context, userID string, req placeOrderRequest) {
	if req.ProductID == "" {
		c.JSON(400, gin.H{"error": "please select a product"})
		return
	}
	deliveryDate, err := time.Parse(dateParamLayout, req.DeliveryDate)
	if err != nil {
		c.JSON(400, gin.H{"error": "deliveryDate must be " + dateParamLayout})
		return
	}
	product, err := s.backend.GetProduct(c.Request.Context(), req.ProductID)
	if err == store.ErrNotFound {
		c.JSON(400, gin.H{"error": "product not found"})
		return
	}
	if err != nil {
		s.fetchFailed(c, err, "product")
		return
	}
	order, err := models.NewOrder(userID, product, req.Quantity, deliveryDate, time.Now())
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	created, err := s.backend.CreateOrder(c.Request.Context(), order)
	if err != nil {
		s.log.WithError(err).Warn("create order failed")
		s.notifier.Notify(notify.Error, "Failed to place order")
		c.JSON(502, gin.H{"error": "failed to place order"})
		return
	}
	s.notifier.Notify(notify.Success, "Order placed successfully!")
	c.JSON(201, created)
}

func (s *Server) placeOwnOrder(c *gin.Context) {
	session, _ := auth.FromContext(c)
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	s.submitOrder(c, session.UserID, req)
}

// placeOrderForUser places an order on behalf of the customer named in the
// request body.
func (s *Server) placeOrderForUser(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	if req.UserID == "" {
		c.JSON(400, gin.H{"error": "please select a customer"})
		return
	}
	s.submitOrder(c, req.UserID, req)
}

func (s *Server) listOwnOrders(c *gin.Context) {
	session, _ := auth.FromContext(c)
	s.groupedOrdersForUser(c, session.UserID)
}

// groupedOrdersForUser renders the invoice-by-date view: day buckets of the
// user's orders, newest day first.
func (s *Server) groupedOrdersForUser(c *gin.Context, userID string) {
	list, err := s.backend.Orders(c.Request.Context(), store.Query{EqField: "userId", EqValue: userID})
	if err != nil {
		s.fetchFailed(c, err, "orders")
		return
	}
	buckets := orders.GroupByOrderDate(list)
	selected := ""
	if len(buckets) > 0 {
		selected = buckets[0].Label
	}
	c.JSON(200, gin.H{"days": buckets, "selectedDay": selected})
}

func (s *Server) orderInvoice(c *gin.Context) {
	session, _ := auth.FromContext(c)
	order, err := s.backend.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err == store.ErrNotFound || (err == nil && order.UserID != session.UserID) {
		c.JSON(404, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		s.fetchFailed(c, err, "order")
		return
	}
	name := ""
	if u, err := s.backend.GetUser(c.Request.Context(), session.UserID); err == nil {
		name = u.Name
	}
	doc, err := invoice.Render(invoice.Data{CustomerName: name, Order: order})
	if err != nil {
		s.log.WithError(err).Warn("invoice render failed")
		c.JSON(502, gin.H{"error": "failed to generate invoice"})
		return
	}
	c.Data(200, "text/html; charset=utf-8", doc)
}
