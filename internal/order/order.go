// Package order defines the immutable order record, the pure assembler that
// projects a completed session into it, and the delivery/archive ports.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/m3rciful/suvbot/internal/flow/session"
)

// Record is a denormalized, read-only snapshot of a completed session.
// Optional fields are zero-valued when the customer skipped them; absence is
// a valid state, not an error.
type Record struct {
	Name       string
	Phone      string
	PersonType string
	Quantity   int
	UnitPrice  int64
	Total      int64
	Currency   string

	DeliveryDate string
	Payment      session.Payment

	Comment  string
	Area     session.AreaChoice
	District string
	Address  string
	Location *session.Geo

	CreatedAt time.Time
}

// Assemble projects session fields into a Record. It is pure and
// side-effect-free: the total is always recomputed from the current quantity
// and unit price, never taken from an earlier render.
func Assemble(s *session.Session, unitPrice int64, currency string, now time.Time) Record {
	rec := Record{
		Name:         s.Name,
		Phone:        s.Phone,
		PersonType:   s.PersonType,
		Quantity:     s.Quantity,
		UnitPrice:    unitPrice,
		Total:        unitPrice * int64(s.Quantity),
		Currency:     currency,
		DeliveryDate: s.DeliveryDate,
		Payment:      s.Payment,
		Comment:      s.Comment,
		Area:         s.Area,
		District:     s.District,
		Address:      s.Address,
		CreatedAt:    now,
	}
	if s.Location != nil {
		loc := *s.Location
		rec.Location = &loc
	}
	return rec
}

// Placer forwards an assembled order to a fulfillment destination.
type Placer interface {
	Place(ctx context.Context, rec Record) error
}

// PlacerFunc adapts a bare function to the Placer interface.
type PlacerFunc func(ctx context.Context, rec Record) error

// Place executes the underlying function.
func (f PlacerFunc) Place(ctx context.Context, rec Record) error {
	return f(ctx, rec)
}

// Fanout delivers the record to every placer and joins the failures. A
// failing destination never prevents the others from receiving the order.
func Fanout(placers ...Placer) Placer {
	return PlacerFunc(func(ctx context.Context, rec Record) error {
		var errs []error
		for _, p := range placers {
			if p == nil {
				continue
			}
			if err := p.Place(ctx, rec); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
