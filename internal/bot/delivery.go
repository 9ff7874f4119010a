package bot

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/suvbot/core/telegram/format"
	"github.com/m3rciful/suvbot/internal/flow/session"
	"github.com/m3rciful/suvbot/internal/order"
)

// TargetDeliverer forwards placed orders to the operator chat. The bot handle
// only exists once the runtime is up, so it is bound late via Bind.
type TargetDeliverer struct {
	bot    atomic.Pointer[tele.Bot]
	chatID int64
}

// NewTargetDeliverer prepares a deliverer for the given operator chat.
func NewTargetDeliverer(chatID int64) *TargetDeliverer {
	return &TargetDeliverer{chatID: chatID}
}

// Bind attaches the live bot handle. Safe to call once at startup.
func (d *TargetDeliverer) Bind(bot *tele.Bot) {
	d.bot.Store(bot)
}

var _ order.Placer = (*TargetDeliverer)(nil)

// Place formats the order summary and sends it to the operator chat.
func (d *TargetDeliverer) Place(_ context.Context, rec order.Record) error {
	bot := d.bot.Load()
	if bot == nil {
		return fmt.Errorf("delivery: bot not bound")
	}
	if d.chatID == 0 {
		return fmt.Errorf("delivery: target chat not configured")
	}
	text := formatOrder(rec)
	_, err := bot.Send(&tele.Chat{ID: d.chatID}, text, tele.ModeMarkdown)
	return err
}

// formatOrder builds the operator-facing summary. User-supplied fields are
// escaped so free-form input cannot break the markup.
func formatOrder(rec order.Record) string {
	var b strings.Builder
	b.WriteString("*Новый заказ*\n\n")
	writeField(&b, "Имя", rec.Name)
	writeField(&b, "Телефон", rec.Phone)
	writeField(&b, "Тип клиента", rec.PersonType)
	fmt.Fprintf(&b, "*Количество:* %d\n", rec.Quantity)
	fmt.Fprintf(&b, "*Сумма:* %d %s\n", rec.Total, rec.Currency)
	if rec.Comment != "" {
		writeField(&b, "Комментарий", rec.Comment)
	}
	if rec.Area != "" {
		writeField(&b, "Зона", areaLabel(rec.Area))
	}
	if rec.District != "" {
		writeField(&b, "Район", rec.District)
	}
	if rec.Address != "" {
		writeField(&b, "Адрес", rec.Address)
	}
	if rec.Location != nil {
		fmt.Fprintf(&b, "*Локация:* https://maps.google.com/?q=%f,%f\n",
			rec.Location.Lat, rec.Location.Lon)
	}
	writeField(&b, "Дата доставки", rec.DeliveryDate)
	writeField(&b, "Оплата", string(rec.Payment))
	return b.String()
}

func areaLabel(a session.AreaChoice) string {
	switch a {
	case session.AreaCity:
		return "Город"
	case session.AreaProvince:
		return "Область"
	}
	return string(a)
}

func writeField(b *strings.Builder, label, value string) {
	escaped, err := format.EscapeMarkdown(value, format.MarkdownV1, "")
	if err != nil {
		escaped = value
	}
	fmt.Fprintf(b, "*%s:* %s\n", label, escaped)
}
