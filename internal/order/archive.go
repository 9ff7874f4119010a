package order

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"log/slog"

	"github.com/m3rciful/suvbot/core/logger"
)

// Archive persists completed orders to Postgres. It is an optional secondary
// destination; in-flight sessions are never persisted.
type Archive struct {
	db *sqlx.DB
}

// NewArchive wraps an open database handle.
func NewArchive(db *sqlx.DB) *Archive {
	return &Archive{db: db}
}

type orderRow struct {
	Name         string    `db:"name"`
	Phone        string    `db:"phone"`
	PersonType   string    `db:"person_type"`
	Quantity     int       `db:"quantity"`
	UnitPrice    int64     `db:"unit_price"`
	Total        int64     `db:"total"`
	Currency     string    `db:"currency"`
	DeliveryDate string    `db:"delivery_date"`
	Payment      string    `db:"payment"`
	Comment      *string   `db:"comment"`
	Area         *string   `db:"area"`
	District     *string   `db:"district"`
	Address      *string   `db:"address"`
	Lat          *float64  `db:"lat"`
	Lon          *float64  `db:"lon"`
	CreatedAt    time.Time `db:"created_at"`
}

const insertOrder = `
	INSERT INTO orders (
		name, phone, person_type, quantity, unit_price, total, currency,
		delivery_date, payment, comment, area, district, address, lat, lon, created_at
	) VALUES (
		:name, :phone, :person_type, :quantity, :unit_price, :total, :currency,
		:delivery_date, :payment, :comment, :area, :district, :address, :lat, :lon, :created_at
	)`

// Place stores the record. Failures are reported to the caller, which treats
// them as non-fatal delivery errors.
func (a *Archive) Place(ctx context.Context, rec Record) error {
	row := orderRow{
		Name:         rec.Name,
		Phone:        rec.Phone,
		PersonType:   rec.PersonType,
		Quantity:     rec.Quantity,
		UnitPrice:    rec.UnitPrice,
		Total:        rec.Total,
		Currency:     rec.Currency,
		DeliveryDate: rec.DeliveryDate,
		Payment:      string(rec.Payment),
		CreatedAt:    rec.CreatedAt.UTC(),
	}
	if rec.Comment != "" {
		row.Comment = &rec.Comment
	}
	if rec.Area != "" {
		area := string(rec.Area)
		row.Area = &area
	}
	if rec.District != "" {
		row.District = &rec.District
	}
	if rec.Address != "" {
		row.Address = &rec.Address
	}
	if rec.Location != nil {
		row.Lat = &rec.Location.Lat
		row.Lon = &rec.Location.Lon
	}

	start := time.Now()
	if _, err := a.db.NamedExecContext(ctx, insertOrder, row); err != nil {
		return fmt.Errorf("order archive insert: %w", err)
	}
	logger.Debug(ctx, "service.orders", "archive.insert",
		slog.String("status", "ok"),
		slog.Int("qty", rec.Quantity),
		slog.Duration("duration", logger.Took(start)),
	)
	return nil
}
