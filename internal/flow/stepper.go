package flow

import (
	"strconv"

	"github.com/m3rciful/suvbot/internal/flow/session"
	"github.com/m3rciful/suvbot/internal/locale"
)

// StepOp is one quantity stepper operation.
type StepOp int

const (
	// StepNoop leaves the count unchanged (the count button itself).
	StepNoop StepOp = iota
	// StepIncrement raises the count by one, unbounded above.
	StepIncrement
	// StepDecrement lowers the count by one, saturating at the floor.
	StepDecrement
)

// ApplyStep returns the new count after op. Decrement saturates at
// session.MinQuantity and a count below the floor is lifted back onto it.
func ApplyStep(count int, op StepOp) int {
	if count < session.MinQuantity {
		count = session.MinQuantity
	}
	switch op {
	case StepIncrement:
		return count + 1
	case StepDecrement:
		if count > session.MinQuantity {
			return count - 1
		}
		return session.MinQuantity
	default:
		return count
	}
}

// Pricing holds the unit price applied to every order.
type Pricing struct {
	UnitPrice int64
	Currency  string
}

// PriceLine renders the localized unit/total price caption for a quantity.
func (p Pricing) PriceLine(lang locale.Language, qty int) string {
	return locale.Render(lang, locale.KeyPriceLine, locale.Vars{
		"unit":     strconv.FormatInt(p.UnitPrice, 10),
		"total":    strconv.FormatInt(p.UnitPrice*int64(qty), 10),
		"currency": p.Currency,
	})
}

// stepperPrompt renders the quantity selector. It is a pure function of
// (count, language, pricing): identical inputs yield byte-identical output,
// which the engine relies on to suppress redundant edits.
func stepperPrompt(lang locale.Language, qty int, pricing Pricing, photo bool) Prompt {
	text := locale.Text(lang, locale.KeyAskQuantity) + "\n\n" + pricing.PriceLine(lang, qty)
	return Prompt{
		Text:  text,
		Photo: photo,
		Keyboard: Keyboard{
			Inline: [][]InlineButton{
				{
					{Label: locale.Text(lang, locale.KeyMinus), Token: TokenQtyDecr},
					{Label: strconv.Itoa(qty), Token: TokenQtyCount},
					{Label: locale.Text(lang, locale.KeyPlus), Token: TokenQtyIncr},
				},
				{
					{Label: locale.Text(lang, locale.KeyContinue), Token: TokenQtyContinue},
				},
			},
		},
	}
}
