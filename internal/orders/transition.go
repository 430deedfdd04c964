package orders

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/codespace555/arya-co/internal/models"
	"github.com/codespace555/arya-co/internal/notify"
)

var (
	ErrOrderMissing   = errors.New("order not in view")
	ErrSameStatus     = errors.New("order already has that status")
	ErrUpdateInFlight = errors.New("a status update for this order is already in flight")
)

// StatusWriter persists a single order's status field.
type StatusWriter interface {
	UpdateOrderStatus(ctx context.Context, id string, st models.OrderStatus) error
}

// TransitionController applies confirmed status changes optimistically:
// snapshot the whole list, mutate locally, persist, and restore the snapshot
// if persistence fails. Exactly one notification fires per attempt. Callers
// are responsible for having confirmed the specific target status with the
// user before invoking Transition.
type TransitionController struct {
	writer   StatusWriter
	notifier notify.Notifier
	log      *logrus.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewTransitionController(w StatusWriter, n notify.Notifier, log *logrus.Logger) *TransitionController {
	return &TransitionController{
		writer:   w,
		notifier: n,
		log:      log,
		inFlight: make(map[string]struct{}),
	}
}

func (c *TransitionController) acquire(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[id]; busy {
		return false
	}
	c.inFlight[id] = struct{}{}
	return true
}

func (c *TransitionController) release(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, id)
}

// Transition moves the order identified by id to next. Any old/new pair with
// old != new is accepted, including exits from terminal states; blocking
// those is a presentation convention, not an engine rule.
func (c *TransitionController) Transition(ctx context.Context, view *View, id string, next models.OrderStatus) error {
	current, ok := view.Get(id)
	if !ok {
		return ErrOrderMissing
	}
	if current.Status == next {
		return ErrSameStatus
	}
	if !c.acquire(id) {
		return ErrUpdateInFlight
	}
	defer c.release(id)

	snapshot := view.Snapshot()
	view.SetStatus(id, next)

	if err := c.writer.UpdateOrderStatus(ctx, id, next); err != nil {
		view.Restore(snapshot)
		c.log.WithError(err).WithFields(logrus.Fields{
			"order": id, "from": current.Status, "to": next,
		}).Warn("status update failed, rolled back")
		c.notifier.Notify(notify.Error, "Update failed.")
		return errors.Wrap(err, "persist status")
	}

	c.notifier.Notify(notify.Success, fmt.Sprintf("Status updated to %s!", next))
	return nil
}
