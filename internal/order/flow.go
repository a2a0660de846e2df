// Package order implements the one-shot checkout flow.
package order

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateConfirmed
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateConfirmed:
		return "confirmed"
	default:
		return "idle"
	}
}

// ErrSubmitInFlight is returned when Submit is called while a settlement
// is already running. Within one submitting window repeat submits have no
// additional effect.
var ErrSubmitInFlight = errors.New("order submission already in progress")

// Flow is the per-session order state machine: idle → submitting →
// confirmed. A confirmed flow re-arms, so the session can place another
// order later. The simulated settlement cannot fail; a real payment
// gateway would need a failed state with user-visible retry here.
type Flow struct {
	mu    sync.Mutex
	state State
	delay time.Duration
}

// NewFlow creates an idle flow whose simulated settlement takes delay.
func NewFlow(delay time.Duration) *Flow {
	return &Flow{state: StateIdle, delay: delay}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submit runs the simulated settlement, then calls settle with the
// generated order number and enters confirmed. The settle callback is
// where the caller clears its cart and switches views, so clearing and
// confirmation are a single step. The caller is responsible for not
// submitting an empty cart. The order number is display-only and not
// guaranteed unique; nothing in this deployment looks orders up again.
func (f *Flow) Submit(ctx context.Context, settle func(orderNumber string)) (string, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return "", ErrSubmitInFlight
	}
	f.state = StateSubmitting
	f.mu.Unlock()

	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		f.mu.Lock()
		f.state = StateIdle
		f.mu.Unlock()
		return "", ctx.Err()
	}

	number := fmt.Sprintf("ORD-%d", rand.Intn(90000)+10000)

	f.mu.Lock()
	settle(number)
	f.state = StateConfirmed
	f.mu.Unlock()
	return number, nil
}
