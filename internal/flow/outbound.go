package flow

import (
	"context"
	"strings"
)

// ReplyButton is one button of a persistent reply keyboard. A button may
// request the contact or location permission.
type ReplyButton struct {
	Label           string
	RequestContact  bool
	RequestLocation bool
}

// InlineButton is one (label, opaque callback token) pair.
type InlineButton struct {
	Label string
	Token string
}

// Keyboard is the transport-agnostic keyboard specification: either a reply
// keyboard, an inline keyboard, a removal marker, or nothing.
type Keyboard struct {
	Reply  [][]ReplyButton
	Inline [][]InlineButton
	Remove bool
}

// Prompt is one outbound render: text (or photo caption) plus keyboard.
// Photo asks the transport to attach the product image when one is loaded.
type Prompt struct {
	Text     string
	Keyboard Keyboard
	Photo    bool
}

// fingerprint returns a stable byte representation of the prompt used for
// idempotent re-render suppression: two prompts with equal fingerprints
// produce byte-identical messages.
func (p Prompt) fingerprint() string {
	var b strings.Builder
	b.WriteString(p.Text)
	for _, row := range p.Keyboard.Inline {
		b.WriteByte('\x1e')
		for _, btn := range row {
			b.WriteString("\x1f")
			b.WriteString(btn.Label)
			b.WriteString("\x1f")
			b.WriteString(btn.Token)
		}
	}
	for _, row := range p.Keyboard.Reply {
		b.WriteByte('\x1e')
		for _, btn := range row {
			b.WriteString("\x1f")
			b.WriteString(btn.Label)
		}
	}
	return b.String()
}

// Outbound is the narrow transport port the engine renders through. Edit
// targets the message the current callback event originated from and must
// treat the provider's "content not modified" rejection as success.
type Outbound interface {
	SendText(ctx context.Context, chatID int64, text string, kb Keyboard) error
	SendPhoto(ctx context.Context, chatID int64, caption string, kb Keyboard) error
	Edit(ctx context.Context, chatID int64, text string, kb Keyboard) error
	SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error
}
