package flow

import "github.com/m3rciful/suvbot/internal/flow/session"

// Kind classifies an inbound update for the flow engine.
type Kind int

const (
	// KindText is a plain text message.
	KindText Kind = iota
	// KindContact is a shared contact card.
	KindContact
	// KindLocation is a shared geolocation.
	KindLocation
	// KindCallback is an inline keyboard button press.
	KindCallback
)

// Event is one classified inbound update for a single chat.
type Event struct {
	Kind     Kind
	Text     string
	Phone    string
	Location *session.Geo
	Token    string
}

// Callback tokens attached to inline keyboard buttons. Tokens with a payload
// use the form "<prefix>|<payload>".
const (
	TokenBack        = "back"
	TokenQtyIncr     = "qty_incr"
	TokenQtyDecr     = "qty_decr"
	TokenQtyCount    = "qty_count"
	TokenQtyContinue = "qty_continue"
	TokenCommentYes  = "comment_yes"
	TokenCommentNo   = "comment_no"
	TokenAreaCity    = "area_city"
	TokenAreaProv    = "area_province"
	TokenPlaceOrder  = "place_order"

	// Key halves of the payload-carrying tokens, exported for transport
	// callback registration.
	TokenDateKey     = "date"
	TokenDistrictKey = "district"
	TokenPayKey      = "pay"

	tokenDatePrefix     = TokenDateKey + "|"
	tokenDistrictPrefix = TokenDistrictKey + "|"
	tokenPayPrefix      = TokenPayKey + "|"
)

// knownToken reports whether the callback token belongs to the flow's
// vocabulary. Unknown tokens degrade to the initial render instead of
// raising.
func knownToken(token string) bool {
	switch token {
	case TokenBack, TokenQtyIncr, TokenQtyDecr, TokenQtyCount, TokenQtyContinue,
		TokenCommentYes, TokenCommentNo, TokenAreaCity, TokenAreaProv, TokenPlaceOrder:
		return true
	}
	for _, prefix := range []string{tokenDatePrefix, tokenDistrictPrefix, tokenPayPrefix} {
		if len(token) > len(prefix) && token[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
