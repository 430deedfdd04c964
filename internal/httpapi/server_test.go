package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/codespace555/arya-co/internal/auth"
	"github.com/codespace555/arya-co/internal/models"
	"github.com/codespace555/arya-co/internal/notify"
	"github.com/codespace555/arya-co/internal/store"
)

var testSecret = []byte("test-secret")

// fakeBackend is an in-memory Backend. failNext makes the next call of the
// named operation fail, to drive the rollback and stale-state paths.
type fakeBackend struct {
	products map[string]models.Product
	users    map[string]models.User
	orders   map[string]models.Order
	seq      int
	failNext map[string]error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		products: map[string]models.Product{},
		users:    map[string]models.User{},
		orders:   map[string]models.Order{},
		failNext: map[string]error{},
	}
}

func (f *fakeBackend) fail(op string) error {
	if err, ok := f.failNext[op]; ok {
		delete(f.failNext, op)
		return err
	}
	return nil
}

func (f *fakeBackend) nextID() string {
	f.seq++
	return string(rune('a'+f.seq-1)) + "-id"
}

func (f *fakeBackend) Products(ctx context.Context) ([]models.Product, error) {
	if err := f.fail("Products"); err != nil {
		return nil, err
	}
	out := []models.Product{}
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeBackend) Users(ctx context.Context) ([]models.User, error) {
	if err := f.fail("Users"); err != nil {
		return nil, err
	}
	out := []models.User{}
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeBackend) Orders(ctx context.Context, q store.Query) ([]models.Order, error) {
	if err := f.fail("Orders"); err != nil {
		return nil, err
	}
	out := []models.Order{}
	for _, o := range f.orders {
		if q.EqField == "userId" && o.UserID != q.EqValue {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeBackend) Catalog(ctx context.Context) ([]models.Product, []models.User, error) {
	products, err := f.Products(ctx)
	if err != nil {
		return nil, nil, err
	}
	users, err := f.Users(ctx)
	if err != nil {
		return nil, nil, err
	}
	return products, users, nil
}

func (f *fakeBackend) GetUser(ctx context.Context, id string) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeBackend) PutUser(ctx context.Context, u models.User) error {
	if err := f.fail("PutUser"); err != nil {
		return err
	}
	if existing, ok := f.users[u.ID]; ok {
		u.Role = existing.Role
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeBackend) GetProduct(ctx context.Context, id string) (models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return models.Product{}, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeBackend) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	if err := f.fail("CreateProduct"); err != nil {
		return models.Product{}, err
	}
	p.ID = f.nextID()
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeBackend) UpdateProduct(ctx context.Context, id string, p models.Product) error {
	existing, ok := f.products[id]
	if !ok {
		return store.ErrNotFound
	}
	if p.Name != "" {
		existing.Name = p.Name
	}
	if p.Price > 0 {
		existing.Price = p.Price
	}
	if p.Description != "" {
		existing.Description = p.Description
	}
	f.products[id] = existing
	return nil
}

func (f *fakeBackend) DeleteProduct(ctx context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func (f *fakeBackend) CreateOrder(ctx context.Context, o models.Order) (models.Order, error) {
	if err := f.fail("CreateOrder"); err != nil {
		return models.Order{}, err
	}
	o.ID = f.nextID()
	f.orders[o.ID] = o
	return o, nil
}

func (f *fakeBackend) GetOrder(ctx context.Context, id string) (models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return models.Order{}, store.ErrNotFound
	}
	return o, nil
}

func (f *fakeBackend) UpdateOrderStatus(ctx context.Context, id string, st models.OrderStatus) error {
	if err := f.fail("UpdateOrderStatus"); err != nil {
		return err
	}
	o, ok := f.orders[id]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = st
	f.orders[id] = o
	return nil
}

func (f *fakeBackend) CountOrdersByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	for _, o := range f.orders {
		if o.UserID == userID {
			n++
		}
	}
	return n, nil
}

var errBackendDown = errors.New("backend unavailable")

type fixture struct {
	backend  *fakeBackend
	recorder *notify.Recorder
	router   *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	backend := newFakeBackend()
	recorder := &notify.Recorder{}
	server := New(backend, log, recorder, testSecret)
	return &fixture{
		backend:  backend,
		recorder: recorder,
		router:   server.Router([]string{"https://app.aryandco.in"}),
	}
}

func (fx *fixture) token(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := auth.Token(testSecret, auth.Session{UserID: userID, Phone: "9000000000", Role: role}, time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func (fx *fixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func (fx *fixture) seed() {
	fx.backend.products["p1"] = models.Product{ID: "p1", Name: "Basmati Rice", Price: 25, Unit: models.UnitKg, Quantity: 100}
	fx.backend.users["u1"] = models.User{ID: "u1", Name: "Asha Verma", Phone: "9876543210", Role: models.RoleCustomer}
	fx.backend.users["a1"] = models.User{ID: "a1", Name: "Admin", Phone: "9000000000", Role: models.RoleAdmin}
	fx.backend.orders["o1"] = models.Order{
		ID: "o1", UserID: "u1", ProductID: "p1", ProductName: "Basmati Rice",
		Unit: models.UnitKg, Price: 25, Quantity: 10, TotalPrice: 250,
		Status:       models.StatusPending,
		OrderedAt:    time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		DeliveryDate: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
	}
	fx.backend.orders["o2"] = models.Order{
		ID: "o2", UserID: "ghost", ProductID: "p1", ProductName: "Basmati Rice",
		Unit: models.UnitKg, Price: 25, Quantity: 2, TotalPrice: 50,
		Status:       models.StatusShipped,
		OrderedAt:    time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC),
		DeliveryDate: time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC),
	}
}
