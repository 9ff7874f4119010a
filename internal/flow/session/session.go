// Package session provides the per-chat conversation record and a
// concurrency-safe store with per-session serialization.
package session

import "github.com/m3rciful/suvbot/internal/locale"

// State identifies a step of the ordering dialog.
type State string

const (
	StateLanguage     State = "language"
	StatePersonType   State = "person_type"
	StatePhone        State = "phone"
	StateName         State = "name"
	StateQuantity     State = "quantity"
	StateComment      State = "comment"
	StateCommentInput State = "comment_input"
	StateArea         State = "area"
	StateDistrict     State = "district"
	StateAddress      State = "address"
	StateLocation     State = "location"
	StateDeliveryDate State = "delivery_date"
	StatePayment      State = "payment"
	StateConfirm      State = "confirm"
)

// MinQuantity is the lowest quantity a session may hold.
const MinQuantity = 2

// AreaChoice selects the delivery area branch.
type AreaChoice string

const (
	AreaCity     AreaChoice = "city"
	AreaProvince AreaChoice = "province"
)

// Payment enumerates accepted payment methods.
type Payment string

const (
	PaymentCard Payment = "card"
	PaymentCash Payment = "cash"
)

// Geo is a shared latitude/longitude pair.
type Geo struct {
	Lat float64
	Lon float64
}

// Session is the mutable per-chat conversation record. It is owned by the
// Store; the flow engine is its only writer and always mutates it under the
// store's per-session lock.
type Session struct {
	ChatID   int64
	State    State
	History  []State
	Language locale.Language

	PersonType   string
	Phone        string
	Name         string
	Quantity     int
	Comment      string
	Area         AreaChoice
	District     string
	Address      string
	Location     *Geo
	DeliveryDate string
	Payment      Payment

	// LastStepperRender keeps the byte representation of the last dispatched
	// quantity render so identical re-renders are suppressed.
	LastStepperRender string
}

// New returns a fresh session positioned at the language-selection step.
func New(chatID int64) *Session {
	return &Session{
		ChatID:   chatID,
		State:    StateLanguage,
		Quantity: MinQuantity,
	}
}

// Reset clears all collected fields and empties the history stack, keeping
// only the chat id. The session returns to the language-selection step.
func (s *Session) Reset() {
	*s = *New(s.ChatID)
}

// Push records a completed forward transition.
func (s *Session) Push(st State) {
	s.History = append(s.History, st)
}

// Pop removes and returns the most recent history entry. The second return
// value is false when the stack is empty.
func (s *Session) Pop() (State, bool) {
	if len(s.History) == 0 {
		return "", false
	}
	st := s.History[len(s.History)-1]
	s.History = s.History[:len(s.History)-1]
	return st, true
}

// Depth reports the current history depth.
func (s *Session) Depth() int {
	return len(s.History)
}
