// Package stats keeps the admin dashboard numbers current by recomputing
// them on every change the backend's live subscriptions report.
package stats

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/codespace555/arya-co/internal/models"
	"github.com/codespace555/arya-co/internal/orders"
	"github.com/codespace555/arya-co/internal/store"
)

// Stats is one dashboard snapshot.
type Stats struct {
	TotalProducts int `json:"totalProducts"`
	TotalUsers    int `json:"totalUsers"`
	orders.Summary
}

// Source provides the collections the dashboard aggregates.
type Source interface {
	Catalog(ctx context.Context) ([]models.Product, []models.User, error)
	Orders(ctx context.Context, q store.Query) ([]models.Order, error)
}

// Watcher opens live subscriptions on collections.
type Watcher interface {
	Watch(ctx context.Context, collection string, fn func(store.Change)) (*store.Subscription, error)
}

type Aggregator struct {
	source Source
	log    *logrus.Logger

	mu      sync.Mutex
	current Stats
	ready   bool
}

func New(source Source, log *logrus.Logger) *Aggregator {
	return &Aggregator{source: source, log: log}
}

// Refresh refetches everything and recomputes against the current calendar
// day. A failed refresh keeps the previous snapshot.
func (a *Aggregator) Refresh(ctx context.Context) error {
	products, users, err := a.source.Catalog(ctx)
	if err != nil {
		return err
	}
	list, err := a.source.Orders(ctx, store.Query{})
	if err != nil {
		return err
	}
	next := Stats{
		TotalProducts: len(products),
		TotalUsers:    len(users),
		Summary:       orders.Summarize(list, time.Now()),
	}
	a.mu.Lock()
	a.current = next
	a.ready = true
	a.mu.Unlock()
	return nil
}

// Current returns the latest snapshot; ok is false until the first
// successful Refresh.
func (a *Aggregator) Current() (Stats, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current, a.ready
}

// OnChange is the subscription callback: any change on any watched
// collection triggers a recompute.
func (a *Aggregator) OnChange(ctx context.Context) func(store.Change) {
	return func(ch store.Change) {
		if err := a.Refresh(ctx); err != nil {
			a.log.WithError(err).WithField("collection", ch.Collection).
				Warn("dashboard refresh failed, keeping previous snapshot")
		}
	}
}

// Bind subscribes to the three collections and refreshes once up front. The
// returned handles stop the subscriptions; they are idempotent.
func (a *Aggregator) Bind(ctx context.Context, w Watcher) ([]*store.Subscription, error) {
	if err := a.Refresh(ctx); err != nil {
		return nil, err
	}
	var subs []*store.Subscription
	for _, coll := range []string{store.CollProducts, store.CollUsers, store.CollOrders} {
		sub, err := w.Watch(ctx, coll, a.OnChange(ctx))
		if err != nil {
			for _, s := range subs {
				s.Unsubscribe()
			}
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
