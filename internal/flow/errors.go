package flow

import "fmt"

// ValidationError marks malformed user input (unparseable phone, empty name,
// missing location, quantity below floor). It is recovered locally by
// re-prompting the same state and never propagates past the engine.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation: " + e.Reason }

// Code identifies the error class for handler summary logs.
func (e *ValidationError) Code() string { return "VALIDATION" }

// UIUpdateError marks a rejected message edit (other than "content
// unchanged"). The session continues unaffected; one best-effort attempt is
// made, no retry beyond the dispatcher's.
type UIUpdateError struct {
	Err error
}

func (e *UIUpdateError) Error() string { return fmt.Sprintf("ui update: %v", e.Err) }

func (e *UIUpdateError) Unwrap() error { return e.Err }

// Code identifies the error class for handler summary logs.
func (e *UIUpdateError) Code() string { return "UI_UPDATE" }

// DeliveryError marks an order-forwarding or notification failure. It is
// logged and never rolls back already-committed session state.
type DeliveryError struct {
	Op  string
	Err error
}

func (e *DeliveryError) Error() string { return fmt.Sprintf("delivery %s: %v", e.Op, e.Err) }

func (e *DeliveryError) Unwrap() error { return e.Err }

// Code identifies the error class for handler summary logs.
func (e *DeliveryError) Code() string { return "DELIVERY" }
