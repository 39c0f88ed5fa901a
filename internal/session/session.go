// Package session keeps per-user conversation state: which step of a flow
// the user is in and the data accumulated so far. State is ephemeral and
// expires after an idle timeout.
package session

import (
	"sync"
	"time"
)

// Waypoint names the step a user is currently in. It decides which inbound
// shapes the dispatcher will accept for that user.
type Waypoint string

const (
	WaypointCartQuantity    Waypoint = "cart_quantity"
	WaypointCheckoutPhone   Waypoint = "checkout_phone"
	WaypointCheckoutArea    Waypoint = "checkout_area"
	WaypointCheckoutComment Waypoint = "checkout_comment"
	WaypointFeedback        Waypoint = "feedback"
	WaypointSearch          Waypoint = "search"

	WaypointAcceptMessage Waypoint = "order_accept_message"
	WaypointRejectReason  Waypoint = "order_reject_reason"

	WaypointCityName   Waypoint = "city_name"
	WaypointCityCopy   Waypoint = "city_copy"
	WaypointCityRename Waypoint = "city_rename"

	WaypointProductCities      Waypoint = "product_cities"
	WaypointProductPhoto       Waypoint = "product_photo"
	WaypointProductName        Waypoint = "product_name"
	WaypointProductDescription Waypoint = "product_description"
	WaypointProductPrice       Waypoint = "product_price"
	WaypointProductField       Waypoint = "product_field"
	WaypointProductValue       Waypoint = "product_value"
	WaypointProductDelete      Waypoint = "product_delete_cities"

	WaypointTermsContent Waypoint = "terms_content"
)

// State is one step of a flow. Each concrete state carries exactly the
// fields its step requires, so a handler never reaches into an untyped bag.
type State interface {
	Waypoint() Waypoint
}

const DefaultTTL = 30 * time.Minute

type entry struct {
	state    State
	deadline time.Time
}

// Store holds sessions keyed by user id. Reads past the idle deadline
// behave as if the session never existed.
type Store struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time
	m   map[int64]entry
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl: ttl,
		now: time.Now,
		m:   make(map[int64]entry),
	}
}

// Get returns the user's current state, or nil when the user is idle or the
// session has expired. Expired entries are evicted on read.
func (s *Store) Get(userID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.m[userID]
	if !ok {
		return nil
	}
	if s.now().After(e.deadline) {
		delete(s.m, userID)
		return nil
	}
	return e.state
}

// Set replaces the user's state and refreshes the idle deadline. Starting an
// unrelated flow simply overwrites whatever was pending.
func (s *Store) Set(userID int64, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[userID] = entry{state: st, deadline: s.now().Add(s.ttl)}
}

func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
}

// Current reports the user's waypoint, empty when idle.
func (s *Store) Current(userID int64) Waypoint {
	if st := s.Get(userID); st != nil {
		return st.Waypoint()
	}
	return ""
}
