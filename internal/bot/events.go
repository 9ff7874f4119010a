// Package bot adapts the Telegram transport to the conversation flow engine:
// it classifies inbound updates into flow events, renders flow prompts back
// through telebot, and forwards placed orders to the operator chat.
package bot

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/suvbot/core/telegram/callbacks"
	"github.com/m3rciful/suvbot/internal/flow"
	"github.com/m3rciful/suvbot/internal/flow/session"
)

// classifyMessage maps a message-style update (text, contact, location) to a
// flow event. The second result is false for updates the flow has no use for.
func classifyMessage(c tele.Context) (flow.Event, bool) {
	msg := c.Message()
	if msg == nil {
		return flow.Event{}, false
	}
	switch {
	case msg.Contact != nil:
		return flow.Event{Kind: flow.KindContact, Phone: msg.Contact.PhoneNumber}, true
	case msg.Location != nil:
		return flow.Event{
			Kind: flow.KindLocation,
			Location: &session.Geo{
				Lat: float64(msg.Location.Lat),
				Lon: float64(msg.Location.Lng),
			},
		}, true
	case msg.Text != "":
		return flow.Event{Kind: flow.KindText, Text: msg.Text}, true
	}
	return flow.Event{}, false
}

// classifyCallback maps a callback update to a flow event, reassembling the
// flow token from telebot's unique/payload encoding.
func classifyCallback(c tele.Context) (flow.Event, bool) {
	if c.Callback() == nil {
		return flow.Event{}, false
	}
	key := callbacks.CallbackKey(c)
	if key == "" {
		return flow.Event{}, false
	}
	if payload := callbacks.CallbackPayload(c); payload != "" {
		key = key + "|" + payload
	}
	return flow.Event{Kind: flow.KindCallback, Token: key}, true
}

// splitToken divides a flow token into telebot's unique and payload halves.
func splitToken(token string) (unique, payload string) {
	if i := strings.Index(token, "|"); i >= 0 {
		return token[:i], token[i+1:]
	}
	return token, ""
}
