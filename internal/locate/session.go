package locate

import (
	"context"
	"errors"
	"sync"

	"github.com/Mahikagarg09/Crime-Hotspot-Mapping/internal/domain"
)

// Locator is the resolver surface a Session needs.
type Locator interface {
	Forward(ctx context.Context, text string) (domain.ResolvedLocation, error)
	Reverse(ctx context.Context, p domain.LatLng) (domain.ResolvedLocation, error)
}

// State is a pick-session state.
type State int

const (
	Idle State = iota
	Picking
	Resolving
	Resolved
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Picking:
		return "picking"
	case Resolving:
		return "resolving"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

var (
	// ErrSessionIdle is returned when a point is picked before Begin.
	ErrSessionIdle = errors.New("pick session not started")

	// ErrSuperseded is returned to a lookup whose result was discarded
	// because a newer pick, search, or cancel was issued after it.
	ErrSuperseded = errors.New("location lookup superseded")

	// ErrNotResolved is returned by Confirm when no location is selected.
	ErrNotResolved = errors.New("no location resolved")
)

// Session is the pick-and-refine workflow behind the location dialog.
//
// Every Pick, Search, Begin, or Cancel bumps a sequence number and cancels
// the lookup in flight. A lookup only commits its result when its sequence
// number is still the latest, so the most recently issued lookup wins even
// if an older one returns later. Session is safe for concurrent use.
type Session struct {
	locator Locator

	mu       sync.Mutex
	state    State
	seq      uint64
	cancel   context.CancelFunc
	selected *domain.ResolvedLocation
}

// NewSession creates an idle session.
func NewSession(locator Locator) *Session {
	return &Session{locator: locator}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Begin opens the session for picking, discarding any previous selection.
func (s *Session) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersedeLocked()
	s.selected = nil
	s.state = Picking
}

// Pick reverse-geocodes a clicked or dragged point and commits the result
// unless a newer lookup was issued meanwhile, in which case the result is
// returned with ErrSuperseded and not committed.
func (s *Session) Pick(ctx context.Context, p domain.LatLng) (domain.ResolvedLocation, error) {
	if !p.Valid() {
		return domain.ResolvedLocation{}, &domain.ValidationError{Field: "location", Message: "Please select a location"}
	}

	s.mu.Lock()
	if s.state == Idle {
		s.mu.Unlock()
		return domain.ResolvedLocation{}, ErrSessionIdle
	}
	ctx, seq := s.startLocked(ctx)
	s.selected = nil
	s.mu.Unlock()

	loc, err := s.locator.Reverse(ctx, p)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return loc, ErrSuperseded
	}
	s.finishLocked()
	if err != nil {
		s.state = Picking
		return domain.ResolvedLocation{}, err
	}
	s.selected = &loc
	s.state = Resolved
	return loc, nil
}

// Search forward-geocodes an address typed into the dialog. On failure the
// session returns to where it was, keeping any earlier selection.
func (s *Session) Search(ctx context.Context, text string) (domain.ResolvedLocation, error) {
	s.mu.Lock()
	if s.state == Idle {
		s.mu.Unlock()
		return domain.ResolvedLocation{}, ErrSessionIdle
	}
	ctx, seq := s.startLocked(ctx)
	s.mu.Unlock()

	loc, err := s.locator.Forward(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		if err == nil {
			err = ErrSuperseded
		}
		return loc, err
	}
	s.finishLocked()
	if err != nil {
		if s.selected != nil {
			s.state = Resolved
		} else {
			s.state = Picking
		}
		return domain.ResolvedLocation{}, err
	}
	s.selected = &loc
	s.state = Resolved
	return loc, nil
}

// Selected returns the committed location, if any.
func (s *Session) Selected() (domain.ResolvedLocation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Resolved || s.selected == nil {
		return domain.ResolvedLocation{}, false
	}
	return *s.selected, true
}

// Confirm hands the committed location to the caller and closes the session.
func (s *Session) Confirm() (domain.ResolvedLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Resolved || s.selected == nil {
		return domain.ResolvedLocation{}, ErrNotResolved
	}
	loc := *s.selected
	s.supersedeLocked()
	s.selected = nil
	s.state = Idle
	return loc, nil
}

// Cancel abandons the session. In-flight lookups are cancelled and their
// results ignored; nothing selected so far is kept.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersedeLocked()
	s.selected = nil
	s.state = Idle
}

// startLocked supersedes the current lookup and registers a new one.
func (s *Session) startLocked(parent context.Context) (context.Context, uint64) {
	s.supersedeLocked()
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.state = Resolving
	return ctx, s.seq
}

func (s *Session) supersedeLocked() {
	s.seq++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Session) finishLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
