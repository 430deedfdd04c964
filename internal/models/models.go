package models

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Unit of sale for a product.
const (
	UnitKg  = "kg"
	UnitPcs = "pcs"
)

// User roles.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// OrderStatus is one of the five fulfillment stages. Delivered and cancelled
// are conventionally final; the transition controller does not hard-block
// leaving them.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Statuses lists every valid status in fulfillment order.
var Statuses = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

var (
	ErrBadStatus       = errors.New("unknown order status")
	ErrBadQuantity     = errors.New("quantity must be a positive integer")
	ErrBadDeliveryDate = errors.New("delivery date must be at least the day after placement")
	ErrNoProduct       = errors.New("no product selected")
	ErrNoUser          = errors.New("no customer selected")
)

// ParseStatus validates a raw status string from a request or document.
func ParseStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Statuses {
		if st == v {
			return st, nil
		}
	}
	return "", errors.Wrapf(ErrBadStatus, "%q", s)
}

// Terminal reports whether st is a conventionally final status.
func (st OrderStatus) Terminal() bool {
	return st == StatusDelivered || st == StatusCancelled
}

func (st OrderStatus) String() string { return string(st) }

type Product struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Price       float64   `bson:"price" json:"price"`
	Description string    `bson:"description" json:"description"`
	Quantity    int       `bson:"quantity" json:"quantity"`
	Unit        string    `bson:"unit" json:"unit"`
	ImageURL    string    `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	PublicID    string    `bson:"publicId,omitempty" json:"publicId,omitempty"`
	Category    string    `bson:"category,omitempty" json:"category,omitempty"`
	CreatedAt   time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt   time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Phone     string    `bson:"phone" json:"phone"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Role      string    `bson:"role" json:"role"`
	Address   string    `bson:"address,omitempty" json:"address,omitempty"`
	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// Order snapshots the product's name, unit and price at placement time so
// later catalog edits never alter historical orders. Only Status is ever
// mutated after creation.
type Order struct {
	ID           string      `bson:"_id,omitempty" json:"id"`
	UserID       string      `bson:"userId" json:"userId"`
	ProductID    string      `bson:"productId" json:"productId"`
	ProductName  string      `bson:"productName" json:"productName"`
	Unit         string      `bson:"unit" json:"unit"`
	Price        float64     `bson:"price" json:"price"`
	Quantity     int         `bson:"quantity" json:"quantity"`
	TotalPrice   float64     `bson:"totalPrice" json:"totalPrice"`
	Status       OrderStatus `bson:"status" json:"status"`
	OrderedAt    time.Time   `bson:"orderedAt" json:"orderedAt"`
	DeliveryDate time.Time   `bson:"deliveryDate" json:"deliveryDate"`
}

// Total recomputes quantity × unit price with decimal arithmetic.
func (o Order) Total() decimal.Decimal {
	return decimal.NewFromFloat(o.Price).Mul(decimal.NewFromInt(int64(o.Quantity)))
}

// NewOrder builds an order for userID from a product snapshot. The total is
// computed here and nowhere else, and every validation runs before any
// persistence call can happen.
func NewOrder(userID string, p Product, quantity int, deliveryDate time.Time, now time.Time) (Order, error) {
	if userID == "" {
		return Order{}, ErrNoUser
	}
	if p.ID == "" {
		return Order{}, ErrNoProduct
	}
	if quantity <= 0 {
		return Order{}, ErrBadQuantity
	}
	if beforeDay(deliveryDate, now.AddDate(0, 0, 1)) {
		return Order{}, ErrBadDeliveryDate
	}
	total, _ := decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(quantity))).Float64()
	return Order{
		UserID:       userID,
		ProductID:    p.ID,
		ProductName:  p.Name,
		Unit:         p.Unit,
		Price:        p.Price,
		Quantity:     quantity,
		TotalPrice:   total,
		Status:       StatusPending,
		OrderedAt:    now,
		DeliveryDate: deliveryDate,
	}, nil
}

// Day truncates t to calendar-day granularity in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports calendar-day equality, ignoring time of day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// beforeDay reports whether a's calendar day falls before b's. Like SameDay
// it compares date tuples, so times carrying different locations cannot
// shift the comparison.
func beforeDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}
