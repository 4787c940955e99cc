package dashboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultDays is the horizon shown in the input of a new session
const DefaultDays = 1

const (
	msgPredictionUnavailable = "Previsão indisponível"
	msgInvalidHorizon        = "Informe um número inteiro de dias entre 1 e 3650."
)

// State of the presentation for one session
type State int

const (
	StateIdle State = iota
	StateDisplaying
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDisplaying:
		return "displaying"
	}
	return "unknown"
}

// Event drives the session state machine
type Event interface {
	event()
}

// InputChanged records a new horizon in the input without recomputing anything
type InputChanged struct {
	Days int
}

// Triggered captures the horizon and runs a new prediction
type Triggered struct {
	Days int
}

func (InputChanged) event() {}
func (Triggered) event()    {}

// Session is the per browser state of the dashboard. The result survives every re-render until
// the next trigger.
type Session struct {
	ID string

	mu         sync.Mutex
	state      State
	days       int
	result     *Forecast
	message    string
	generation uint64

	// unix nanoseconds of the last request, read without holding mu
	lastSeen atomic.Int64
}

// View is a consistent snapshot of a session used to render a response
type View struct {
	ID         string
	State      State
	Days       int
	Result     *Forecast
	Message    string
	Generation uint64
}

// Displaying reports whether the view has a result to show
func (v View) Displaying() bool {
	return v.State == StateDisplaying && v.Result != nil
}

func NewSession(id string, now time.Time) *Session {
	s := &Session{
		ID:    id,
		state: StateIdle,
		days:  DefaultDays,
	}
	s.touch(now)
	return s
}

// Handle applies an event to the session. A failed trigger resets the session to idle and
// records a message for the user.
func (s *Session) Handle(ctx context.Context, ev Event, inv *Invoker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := ev.(type) {
	case InputChanged:
		if validDays(e.Days) {
			s.days = e.Days
		}
		return nil
	case Triggered:
		if validDays(e.Days) {
			s.days = e.Days
		}
		fc, err := inv.Forecast(ctx, e.Days)
		if err != nil {
			s.state = StateIdle
			s.result = nil
			s.message = messageFor(err)
			return err
		}
		s.state = StateDisplaying
		s.result = fc
		s.message = ""
		s.generation++
		return nil
	}
	return nil
}

// View returns a snapshot of the session
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		ID:         s.ID,
		State:      s.state,
		Days:       s.days,
		Result:     s.result,
		Message:    s.message,
		Generation: s.generation,
	}
}

// ClearMessage drops the message once it was shown
func (s *Session) ClearMessage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = ""
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

func validDays(days int) bool {
	return days >= 1 && days <= MaxDays
}

func messageFor(err error) string {
	if errors.Is(err, ErrInvalidHorizon) {
		return msgInvalidHorizon
	}
	return msgPredictionUnavailable
}
