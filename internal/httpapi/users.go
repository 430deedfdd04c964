package httpapi

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codespace555/arya-co/internal/auth"
	"github.com/codespace555/arya-co/internal/models"
	"github.com/codespace555/arya-co/internal/notify"
	"github.com/codespace555/arya-co/internal/store"
)

type registerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// register writes the caller's own user record, keyed by the authenticated
// subject id so the record id always equals the auth uid. Re-registering
// merges profile fields but never changes the role.
func (s *Server) register(c *gin.Context) {
	session, _ := auth.FromContext(c)
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "invalid input"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(400, gin.H{"error": "please enter your name"})
		return
	}
	user := models.User{
		ID:        session.UserID,
		Name:      strings.TrimSpace(req.Name),
		Phone:     session.Phone,
		Email:     req.Email,
		Address:   req.Address,
		Role:      models.RoleCustomer,
		CreatedAt: time.Now(),
	}
	if err := s.backend.PutUser(c.Request.Context(), user); err != nil {
		s.log.WithError(err).Warn("register failed")
		c.JSON(502, gin.H{"error": "registration failed"})
		return
	}
	s.notifier.Notify(notify.Success, "Welcome to Arya & Co!")
	c.JSON(201, user)
}

func (s *Server) profile(c *gin.Context) {
	session, _ := auth.FromContext(c)
	user, err := s.backend.GetUser(c.Request.Context(), session.UserID)
	if err == store.ErrNotFound {
		// Authenticated but not yet registered; degrade to the auth record.
		user = models.User{ID: session.UserID, Phone: session.Phone, Role: session.Role}
	} else if err != nil {
		s.fetchFailed(c, err, "profile")
		return
	}
	count, err := s.backend.CountOrdersByUser(c.Request.Context(), session.UserID)
	if err != nil {
		s.fetchFailed(c, err, "order count")
		return
	}
	c.JSON(200, gin.H{"user": user, "totalOrders": count})
}

// listUsers serves the admin customer list with the screen's name/phone
// search. Records without an id never reach the client.
func (s *Server) listUsers(c *gin.Context) {
	users, err := s.backend.Users(c.Request.Context())
	if err != nil {
		s.fetchFailed(c, err, "users")
		return
	}
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.ID == "" {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(u.Name), q) &&
			!strings.Contains(strings.ToLower(u.Phone), q) {
			continue
		}
		out = append(out, u)
	}
	c.JSON(200, out)
}

// listUserOrders is the admin's per-customer history, grouped like the
// customer's own invoice view.
func (s *Server) listUserOrders(c *gin.Context) {
	s.groupedOrdersForUser(c, c.Param("userId"))
}
