package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/suvbot/internal/flow/session"
)

func completedSession() *session.Session {
	s := session.New(10)
	s.Language = "ru"
	s.PersonType = "👤 Физическое лицо"
	s.Phone = "+998901234567"
	s.Name = "Alisher"
	s.Quantity = 4
	s.Comment = "domofon 12"
	s.Area = session.AreaCity
	s.District = "Chilonzor"
	s.Address = "Bunyodkor 7"
	s.Location = &session.Geo{Lat: 41.31, Lon: 69.24}
	s.DeliveryDate = "2026-09-01"
	s.Payment = session.PaymentCash
	return s
}

func TestAssembleRecomputesTotal(t *testing.T) {
	s := completedSession()
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	rec := Assemble(s, 7000, "UZS", now)

	assert.Equal(t, 4, rec.Quantity)
	assert.Equal(t, int64(7000), rec.UnitPrice)
	assert.Equal(t, int64(28000), rec.Total)
	assert.Equal(t, "UZS", rec.Currency)
	assert.Equal(t, now, rec.CreatedAt)
	assert.Equal(t, "2026-09-01", rec.DeliveryDate)
	assert.Equal(t, session.PaymentCash, rec.Payment)
}

func TestAssembleCopiesLocation(t *testing.T) {
	s := completedSession()
	rec := Assemble(s, 7000, "UZS", time.Now())

	require.NotNil(t, rec.Location)
	assert.NotSame(t, s.Location, rec.Location)

	s.Location.Lat = 0
	assert.Equal(t, 41.31, rec.Location.Lat)
}

func TestAssembleOptionalFieldsAbsent(t *testing.T) {
	s := completedSession()
	s.Comment = ""
	s.District = ""
	s.Location = nil

	rec := Assemble(s, 7000, "UZS", time.Now())

	assert.Empty(t, rec.Comment)
	assert.Empty(t, rec.District)
	assert.Nil(t, rec.Location)
}

func TestFanoutDeliversToAll(t *testing.T) {
	var got []string
	mk := func(name string, err error) Placer {
		return PlacerFunc(func(_ context.Context, _ Record) error {
			got = append(got, name)
			return err
		})
	}

	failure := errors.New("chat unreachable")
	p := Fanout(mk("a", nil), nil, mk("b", failure), mk("c", nil))

	err := p.Place(context.Background(), Record{})
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	// A failing destination never blocks the rest.
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestFanoutNoFailures(t *testing.T) {
	p := Fanout(PlacerFunc(func(context.Context, Record) error { return nil }))
	assert.NoError(t, p.Place(context.Background(), Record{}))
}
