package service

import (
	"context"
	"sync"
	"time"

	"fleettrack/internal/models"
)

// SelectionState describes the controller's position in its per-session
// state machine.
type SelectionState int

const (
	// SelectionIdle means no selection is active.
	SelectionIdle SelectionState = iota
	// SelectionFetching means a fetch for the current token is outstanding.
	SelectionFetching
	// SelectionSettled means the current token's result was delivered.
	SelectionSettled
)

// RouteFetcher performs the asynchronous work behind a selection: a single
// vehicle's route or the all-vehicle live position set.
type RouteFetcher interface {
	Route(ctx context.Context, vehicleID string, from, to time.Time) (*models.Route, error)
	Fleet(ctx context.Context) ([]models.LocationPing, error)
}

// SelectionUpdate is delivered to the consumer when the current selection's
// fetch completes. Exactly one of Route, Fleet or Err is set.
type SelectionUpdate struct {
	Token     uint64
	VehicleID *string
	Route     *models.Route
	Fleet     []models.LocationPing
	Err       error
}

// SelectionController serializes a changing vehicle selection against
// asynchronous fetches. Each Select bumps a monotonic token; a completing
// fetch is delivered only when its token still matches, so a superseded
// fetch can run to completion and be discarded without any transport-level
// cancellation. Token bump and compare-and-settle are each one critical
// section on a single mutex; notify runs inside it, so the sink must not
// call back into Select.
type SelectionController struct {
	fetcher RouteFetcher
	window  time.Duration
	notify  func(SelectionUpdate)
	now     func() time.Time

	mu      sync.Mutex
	current uint64
	state   SelectionState
}

// NewSelectionController returns a controller for one consumer session.
// window is the trailing time span fetched for single-vehicle selections.
func NewSelectionController(fetcher RouteFetcher, window time.Duration, notify func(SelectionUpdate)) *SelectionController {
	return &SelectionController{
		fetcher: fetcher,
		window:  window,
		notify:  notify,
		now:     time.Now,
		state:   SelectionIdle,
	}
}

// Select switches the session to a new selection and starts its fetch in the
// background. A nil vehicleID selects the all-vehicle live view. Returns the
// token allocated for this selection.
func (c *SelectionController) Select(ctx context.Context, vehicleID *string) uint64 {
	c.mu.Lock()
	c.current++
	token := c.current
	c.state = SelectionFetching
	c.mu.Unlock()

	go c.fetch(ctx, token, vehicleID)
	return token
}

// State returns the current state and token.
func (c *SelectionController) State() (SelectionState, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.current
}

func (c *SelectionController) fetch(ctx context.Context, token uint64, vehicleID *string) {
	update := SelectionUpdate{Token: token, VehicleID: vehicleID}
	if vehicleID == nil {
		update.Fleet, update.Err = c.fetcher.Fleet(ctx)
	} else {
		to := c.now().UTC()
		update.Route, update.Err = c.fetcher.Route(ctx, *vehicleID, to.Add(-c.window), to)
	}
	c.settle(token, update)
}

// settle delivers the update if its token is still current. Results and
// errors of superseded tokens are dropped without notification.
func (c *SelectionController) settle(token uint64, update SelectionUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token != c.current {
		return
	}
	if update.Err != nil {
		c.state = SelectionIdle
	} else {
		c.state = SelectionSettled
	}
	if c.notify != nil {
		c.notify(update)
	}
}
