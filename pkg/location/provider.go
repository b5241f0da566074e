package location

import (
	"context"
	"sync"

	"github.com/chargepilot/chargepilot/pkg/datastructure"
)

// Handler receives position samples in order, one at a time. A handler must
// return before the next sample is delivered.
type Handler func(sample *datastructure.GPSSample)

// Provider is the device location stream contract.
type Provider interface {
	Subscribe(ctx context.Context, handler Handler) (Subscription, error)
}

// Subscription is a live location stream. Unsubscribe is idempotent.
type Subscription interface {
	Unsubscribe()
}

type subscription struct {
	once   sync.Once
	cancel context.CancelFunc
}

func newSubscription(cancel context.CancelFunc) *subscription {
	return &subscription{cancel: cancel}
}

func (s *subscription) Unsubscribe() {
	s.once.Do(s.cancel)
}
