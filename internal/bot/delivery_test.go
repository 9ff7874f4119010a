package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m3rciful/suvbot/internal/flow/session"
	"github.com/m3rciful/suvbot/internal/order"
)

func sampleRecord() order.Record {
	return order.Record{
		Name:         "Alisher",
		Phone:        "+998901234567",
		PersonType:   "👤 Физическое лицо",
		Quantity:     4,
		UnitPrice:    7000,
		Total:        28000,
		Currency:     "UZS",
		DeliveryDate: "2026-09-01",
		Payment:      session.PaymentCash,
		Comment:      "domofon 12",
		Area:         session.AreaCity,
		District:     "Chilonzor",
		Address:      "Bunyodkor 7",
		Location:     &session.Geo{Lat: 41.31, Lon: 69.24},
		CreatedAt:    time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}
}

func TestFormatOrderIncludesAllFields(t *testing.T) {
	text := formatOrder(sampleRecord())

	assert.Contains(t, text, "Alisher")
	assert.Contains(t, text, "+998901234567")
	assert.Contains(t, text, "28000 UZS")
	assert.Contains(t, text, "*Зона:* Город")
	assert.Contains(t, text, "Chilonzor")
	assert.Contains(t, text, "Bunyodkor 7")
	assert.Contains(t, text, "https://maps.google.com/?q=41.31")
	assert.Contains(t, text, "2026-09-01")
	assert.Contains(t, text, "domofon 12")
}

func TestFormatOrderOmitsAbsentFields(t *testing.T) {
	rec := sampleRecord()
	rec.Comment = ""
	rec.Area = session.AreaProvince
	rec.District = ""
	rec.Location = nil

	text := formatOrder(rec)

	assert.NotContains(t, text, "Комментарий")
	assert.NotContains(t, text, "Район")
	assert.NotContains(t, text, "maps.google.com")
	assert.Contains(t, text, "*Зона:* Область")
}

func TestFormatOrderEscapesUserInput(t *testing.T) {
	rec := sampleRecord()
	rec.Name = "Ali*sher_[x]"

	text := formatOrder(rec)
	assert.NotContains(t, text, "Ali*sher_[x]")
	assert.Contains(t, text, "Ali")
}

func TestAreaLabel(t *testing.T) {
	assert.Equal(t, "Город", areaLabel(session.AreaCity))
	assert.Equal(t, "Область", areaLabel(session.AreaProvince))
	assert.Equal(t, "other", areaLabel(session.AreaChoice("other")))
}
