// Package httpapi wires the storefront flows onto Gin routes: admin catalog
// and order management, customer ordering and invoices.
package httpapi

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/codespace555/arya-co/internal/auth"
	"github.com/codespace555/arya-co/internal/models"
	"github.com/codespace555/arya-co/internal/notify"
	"github.com/codespace555/arya-co/internal/orders"
	"github.com/codespace555/arya-co/internal/stats"
	"github.com/codespace555/arya-co/internal/store"
)

// Backend is the data-access collaborator. *store.Store satisfies it; tests
// substitute an in-memory fake.
type Backend interface {
	Products(ctx context.Context) ([]models.Product, error)
	Users(ctx context.Context) ([]models.User, error)
	Orders(ctx context.Context, q store.Query) ([]models.Order, error)
	Catalog(ctx context.Context) ([]models.Product, []models.User, error)

	GetUser(ctx context.Context, id string) (models.User, error)
	PutUser(ctx context.Context, u models.User) error

	GetProduct(ctx context.Context, id string) (models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, p models.Product) error
	DeleteProduct(ctx context.Context, id string) error

	CreateOrder(ctx context.Context, o models.Order) (models.Order, error)
	GetOrder(ctx context.Context, id string) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, st models.OrderStatus) error
	CountOrdersByUser(ctx context.Context, userID string) (int64, error)
}

type Server struct {
	backend     Backend
	log         *logrus.Logger
	notifier    notify.Notifier
	secret      []byte
	transitions *orders.TransitionController
	stats       *stats.Aggregator
}

// WithStats serves the dashboard from a live aggregator instead of
// per-request fetches whenever the aggregator has a snapshot.
func (s *Server) WithStats(a *stats.Aggregator) *Server {
	s.stats = a
	return s
}

func New(backend Backend, log *logrus.Logger, notifier notify.Notifier, jwtSecret []byte) *Server {
	return &Server{
		backend:     backend,
		log:         log,
		notifier:    notifier,
		secret:      jwtSecret,
		transitions: orders.NewTransitionController(backend, notifier, log),
	}
}

// Router builds the full route tree.
func (s *Server) Router(corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Catalog browsing is public.
	r.GET("/api/products", s.listProducts)

	authed := r.Group("/api", auth.Middleware(s.secret))
	{
		authed.POST("/register", s.register)
		authed.GET("/me", s.profile)

		authed.POST("/orders", s.placeOwnOrder)
		authed.GET("/orders", s.listOwnOrders)
		authed.GET("/orders/:orderId/invoice", s.orderInvoice)
	}

	admin := r.Group("/api/admin", auth.Middleware(s.secret), auth.RequireAdmin())
	{
		admin.POST("/products", s.createProduct)
		admin.PUT("/products/:productId", s.updateProduct)
		admin.DELETE("/products/:productId", s.deleteProduct)

		admin.GET("/orders", s.listAllOrders)
		admin.POST("/orders", s.placeOrderForUser)
		admin.PATCH("/orders/:orderId/status", s.updateOrderStatus)
		admin.GET("/orders/export", s.exportOrders)

		admin.GET("/dashboard", s.dashboard)
		admin.GET("/users", s.listUsers)
		admin.GET("/users/:userId/orders", s.listUserOrders)
	}

	return r
}

// fetchFailed reports a transient backend failure. Nothing already served is
// affected; the client keeps its prior state and retries on its own.
func (s *Server) fetchFailed(c *gin.Context, err error, what string) {
	s.log.WithError(err).Warnf("failed to load %s", what)
	s.notifier.Notify(notify.Error, "Failed to load data.")
	c.JSON(502, gin.H{"error": "failed to load " + what})
}
