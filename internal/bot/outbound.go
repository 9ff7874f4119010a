package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/suvbot/core/telegram/helpers"
	"github.com/m3rciful/suvbot/core/telegram/keyboard"
	"github.com/m3rciful/suvbot/internal/assets"
	"github.com/m3rciful/suvbot/internal/flow"
)

type teleCtxKey struct{}

// withTeleCtx stashes the update's telebot context so the transport can send
// through the same update it is answering.
func withTeleCtx(ctx context.Context, c tele.Context) context.Context {
	return context.WithValue(ctx, teleCtxKey{}, c)
}

func teleCtxFrom(ctx context.Context) (tele.Context, bool) {
	c, ok := ctx.Value(teleCtxKey{}).(tele.Context)
	return c, ok
}

// Transport renders flow prompts through telebot. Text and photo sends go
// through the shared async dispatcher; edits run synchronously because the
// engine needs their outcome.
type Transport struct {
	assets *assets.Bundle
}

// NewTransport builds the transport over the loaded asset bundle.
func NewTransport(bundle *assets.Bundle) *Transport {
	return &Transport{assets: bundle}
}

var _ flow.Outbound = (*Transport)(nil)

// SendText sends a plain text message with the prompt's keyboard.
func (t *Transport) SendText(ctx context.Context, chatID int64, text string, kb flow.Keyboard) error {
	c, ok := teleCtxFrom(ctx)
	if !ok {
		return fmt.Errorf("transport: no update context for chat %d", chatID)
	}
	opts := sendOptions(kb)
	return helpers.Async(c, "send.text", "sendMessage", func() error {
		if opts != nil {
			return c.Send(text, opts)
		}
		return c.Send(text)
	})
}

// SendPhoto sends the product photo with a caption, degrading to plain text
// when no photo is loaded.
func (t *Transport) SendPhoto(ctx context.Context, chatID int64, caption string, kb flow.Keyboard) error {
	if !t.assets.HasImage() {
		return t.SendText(ctx, chatID, caption, kb)
	}
	c, ok := teleCtxFrom(ctx)
	if !ok {
		return fmt.Errorf("transport: no update context for chat %d", chatID)
	}
	opts := sendOptions(kb)
	return helpers.Async(c, "send.photo", "sendPhoto", func() error {
		photo := &tele.Photo{
			File:    tele.FromReader(bytes.NewReader(t.assets.Image)),
			Caption: caption,
		}
		if opts != nil {
			return c.Send(photo, opts)
		}
		return c.Send(photo)
	})
}

// Edit rewrites the message the current callback originated from. Media
// messages carry their text as a caption, so they go through editMessageCaption
// instead of editMessageText. Telegram's "message is not modified" rejection
// counts as success.
func (t *Transport) Edit(ctx context.Context, chatID int64, text string, kb flow.Keyboard) error {
	c, ok := teleCtxFrom(ctx)
	if !ok {
		return fmt.Errorf("transport: no update context for chat %d", chatID)
	}
	opts := sendOptions(kb)
	var err error
	if msg := c.Message(); msg != nil && msg.Photo != nil {
		if opts != nil {
			err = c.EditCaption(text, opts)
		} else {
			err = c.EditCaption(text)
		}
	} else if opts != nil {
		err = c.Edit(text, opts)
	} else {
		err = c.Edit(text)
	}
	if err == nil || errors.Is(err, tele.ErrSameMessageContent) {
		return nil
	}
	if strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	return err
}

// SendDocument sends a file attachment, used for the policy document.
func (t *Transport) SendDocument(ctx context.Context, chatID int64, filename string, data []byte) error {
	c, ok := teleCtxFrom(ctx)
	if !ok {
		return fmt.Errorf("transport: no update context for chat %d", chatID)
	}
	return helpers.Async(c, "send.document", "sendDocument", func() error {
		doc := &tele.Document{
			File:     tele.FromReader(bytes.NewReader(data)),
			FileName: filename,
		}
		return c.Send(doc)
	})
}

// sendOptions converts a flow keyboard to telebot send options; nil means no
// markup at all.
func sendOptions(kb flow.Keyboard) *tele.SendOptions {
	m := toMarkup(kb)
	if m == nil {
		return nil
	}
	return &tele.SendOptions{ReplyMarkup: m}
}

func toMarkup(kb flow.Keyboard) *tele.ReplyMarkup {
	switch {
	case kb.Remove:
		return keyboard.RemoveKeyboard()
	case len(kb.Inline) > 0:
		rows := make([][]keyboard.InlineBtn, 0, len(kb.Inline))
		for _, row := range kb.Inline {
			r := make([]keyboard.InlineBtn, 0, len(row))
			for _, btn := range row {
				unique, payload := splitToken(btn.Token)
				r = append(r, keyboard.InlineBtn{Text: btn.Label, Unique: unique, Data: payload})
			}
			rows = append(rows, r)
		}
		return keyboard.InlineButtonsRows(rows...)
	case len(kb.Reply) > 0:
		rows := make([][]keyboard.ReplyRequestButton, 0, len(kb.Reply))
		for _, row := range kb.Reply {
			r := make([]keyboard.ReplyRequestButton, 0, len(row))
			for _, btn := range row {
				r = append(r, keyboard.ReplyRequestButton{
					Text:     btn.Label,
					Contact:  btn.RequestContact,
					Location: btn.RequestLocation,
				})
			}
			rows = append(rows, r)
		}
		return keyboard.ReplyRequestButtons(rows...)
	}
	return nil
}
