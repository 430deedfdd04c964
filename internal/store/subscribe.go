package store

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

// Change is one live-subscription event from a watched collection.
type Change struct {
	Collection string
	Operation  string
	DocumentID string
}

// Subscription is the unsubscribe handle returned by Watch. Unsubscribe stops
// further callback invocations and is safe to call any number of times.
type Subscription struct {
	once   sync.Once
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}

// Done closes once the delivery goroutine has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Watch opens a change stream on the named collection and invokes fn once per
// change, in the order the backend emits them. Delivery runs on a single
// goroutine, so fn never runs concurrently with itself.
func (s *Store) Watch(ctx context.Context, collection string, fn func(Change)) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	stream, err := s.db.Collection(collection).Watch(ctx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, errors.Wrapf(err, "watch %s", collection)
	}
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(sub.done)
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			var ev struct {
				OperationType string `bson:"operationType"`
				DocumentKey   struct {
					ID interface{} `bson:"_id"`
				} `bson:"documentKey"`
			}
			if err := stream.Decode(&ev); err != nil {
				s.log.WithError(err).WithField("collection", collection).
					Warn("change stream decode failed")
				continue
			}
			id, _ := ev.DocumentKey.ID.(string)
			fn(Change{Collection: collection, Operation: ev.OperationType, DocumentID: id})
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			s.log.WithError(err).WithField("collection", collection).
				Warn("change stream terminated")
		}
	}()
	return sub, nil
}
