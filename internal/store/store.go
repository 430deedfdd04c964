// Package store is the service's record fetcher over the MongoDB backend:
// one-shot collection reads, live change-stream subscriptions, and the
// create/merge/field-update writes the flows need.
package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/codespace555/arya-co/internal/models"
)

// Collection names. Field names inside documents are fixed by the backend's
// rules and indexes; they live on the model bson tags.
const (
	CollProducts = "products"
	CollUsers    = "users"
	CollOrders   = "orders"
)

var ErrNotFound = errors.New("document not found")

type Store struct {
	db  *mongo.Database
	log *logrus.Logger
}

// Connect dials MongoDB and pings it before returning a Store.
func Connect(ctx context.Context, uri, database string, log *logrus.Logger) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "ping mongo")
	}
	return &Store{db: client.Database(database), log: log}, nil
}

// Query narrows a one-shot fetch. Only single-field equality and single-field
// ordering are supported; richer filtering is client-side by design.
type Query struct {
	EqField string
	EqValue interface{}
	OrderBy string
	Desc    bool
}

func (q Query) filter() bson.M {
	if q.EqField == "" {
		return bson.M{}
	}
	return bson.M{q.EqField: q.EqValue}
}

func (q Query) options() *mongooptions.FindOptions {
	opts := mongooptions.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	return opts
}

func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	cur, err := s.db.Collection(CollProducts).Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "fetch products")
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}

func (s *Store) Users(ctx context.Context) ([]models.User, error) {
	cur, err := s.db.Collection(CollUsers).Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "fetch users")
	}
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}
	return users, nil
}

func (s *Store) Orders(ctx context.Context, q Query) ([]models.Order, error) {
	cur, err := s.db.Collection(CollOrders).Find(ctx, q.filter(), q.options())
	if err != nil {
		return nil, errors.Wrap(err, "fetch orders")
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return orders, nil
}

// Catalog fetches products and users together for the order placement view.
func (s *Store) Catalog(ctx context.Context) ([]models.Product, []models.User, error) {
	var (
		products []models.Product
		users    []models.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.Products(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.Users(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return products, users, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := s.db.Collection(CollUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, errors.Wrap(err, "fetch user")
	}
	return u, nil
}

// PutUser writes a user document keyed by its own id with merge semantics.
// Registration relies on the id being the auth subject id.
func (s *Store) PutUser(ctx context.Context, u models.User) error {
	if u.ID == "" {
		return errors.New("user id required")
	}
	update := bson.M{"$set": bson.M{
		"name":      u.Name,
		"phone":     u.Phone,
		"email":     u.Email,
		"address":   u.Address,
		"createdAt": u.CreatedAt,
	}, "$setOnInsert": bson.M{
		"role": u.Role,
	}}
	_, err := s.db.Collection(CollUsers).UpdateOne(
		ctx, bson.M{"_id": u.ID}, update, mongooptions.Update().SetUpsert(true))
	return errors.Wrap(err, "put user")
}

func (s *Store) CreateProduct(ctx context.Context, p models.Product) (models.Product, error) {
	p.ID = primitive.NewObjectID().Hex()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.db.Collection(CollProducts).InsertOne(ctx, p); err != nil {
		return models.Product{}, errors.Wrap(err, "create product")
	}
	return p, nil
}

// UpdateProduct applies a partial update; zero-valued fields are left as they
// are, matching the catalog's merge-edit semantics.
func (s *Store) UpdateProduct(ctx context.Context, id string, p models.Product) error {
	set := bson.M{"updatedAt": time.Now()}
	if p.Name != "" {
		set["name"] = p.Name
	}
	if p.Price > 0 {
		set["price"] = p.Price
	}
	if p.Description != "" {
		set["description"] = p.Description
	}
	if p.Quantity > 0 {
		set["quantity"] = p.Quantity
	}
	if p.Unit != "" {
		set["unit"] = p.Unit
	}
	if p.ImageURL != "" {
		set["imageUrl"] = p.ImageURL
		set["publicId"] = p.PublicID
	}
	if p.Category != "" {
		set["category"] = p.Category
	}
	res, err := s.db.Collection(CollProducts).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return errors.Wrap(err, "update product")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	err := s.db.Collection(CollProducts).FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, errors.Wrap(err, "fetch product")
	}
	return p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.Collection(CollProducts).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "delete product")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateOrder(ctx context.Context, o models.Order) (models.Order, error) {
	o.ID = primitive.NewObjectID().Hex()
	if _, err := s.db.Collection(CollOrders).InsertOne(ctx, o); err != nil {
		return models.Order{}, errors.Wrap(err, "create order")
	}
	return o, nil
}

func (s *Store) GetOrder(ctx context.Context, id string) (models.Order, error) {
	var o models.Order
	err := s.db.Collection(CollOrders).FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, errors.Wrap(err, "fetch order")
	}
	return o, nil
}

// UpdateOrderStatus writes only the status field. A missing document reports
// the same failure path as any other write error, per the transition
// controller's contract.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, st models.OrderStatus) error {
	res, err := s.db.Collection(CollOrders).UpdateOne(
		ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": st}})
	if err != nil {
		return errors.Wrap(err, "update order status")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountOrdersByUser(ctx context.Context, userID string) (int64, error) {
	n, err := s.db.Collection(CollOrders).CountDocuments(ctx, bson.M{"userId": userID})
	return n, errors.Wrap(err, "count orders")
}
