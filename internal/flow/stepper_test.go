package flow

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m3rciful/suvbot/internal/flow/session"
	"github.com/m3rciful/suvbot/internal/locale"
)

func TestApplyStepFloor(t *testing.T) {
	assert.Equal(t, 3, ApplyStep(2, StepIncrement))
	assert.Equal(t, 2, ApplyStep(3, StepDecrement))
	assert.Equal(t, 2, ApplyStep(2, StepDecrement))
	assert.Equal(t, 5, ApplyStep(5, StepNoop))

	// Counts below the floor are lifted back onto it before the op applies.
	assert.Equal(t, 2, ApplyStep(0, StepDecrement))
	assert.Equal(t, 3, ApplyStep(-4, StepIncrement))
}

func TestApplyStepSequenceInvariant(t *testing.T) {
	// After any mix of operations the count is max(floor, floor+incr-decr)
	// when every decrement below the floor saturates.
	ops := []StepOp{
		StepDecrement, StepDecrement, StepIncrement, StepIncrement,
		StepIncrement, StepDecrement, StepNoop, StepIncrement,
	}
	count := session.MinQuantity
	for _, op := range ops {
		count = ApplyStep(count, op)
		assert.GreaterOrEqual(t, count, session.MinQuantity)
	}
	assert.Equal(t, 5, count)
}

func TestPriceLine(t *testing.T) {
	p := Pricing{UnitPrice: 7000, Currency: "UZS"}
	line := p.PriceLine(locale.LangEn, 3)
	assert.Contains(t, line, "7000 UZS")
	assert.Contains(t, line, "21000 UZS")
}

func TestStepperPromptFingerprintStability(t *testing.T) {
	p := Pricing{UnitPrice: 7000, Currency: "UZS"}

	a := stepperPrompt(locale.LangRu, 3, p, false)
	b := stepperPrompt(locale.LangRu, 3, p, false)
	assert.Equal(t, a.fingerprint(), b.fingerprint())

	c := stepperPrompt(locale.LangRu, 4, p, false)
	assert.NotEqual(t, a.fingerprint(), c.fingerprint())

	d := stepperPrompt(locale.LangEn, 3, p, false)
	assert.NotEqual(t, a.fingerprint(), d.fingerprint())
}

func TestStepperPromptShowsCount(t *testing.T) {
	p := Pricing{UnitPrice: 7000, Currency: "UZS"}
	prompt := stepperPrompt(locale.LangUz, 6, p, false)

	var labels []string
	for _, row := range prompt.Keyboard.Inline {
		for _, btn := range row {
			labels = append(labels, btn.Label)
		}
	}
	assert.Contains(t, labels, strconv.Itoa(6))
}
