package bot

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/suvbot/core/telegram/helpers"
	"github.com/m3rciful/suvbot/internal/flow"
)

// Manager bridges the router's FSM hooks to the flow engine. Every private
// chat is a conversation, so the manager always claims the update.
type Manager struct {
	engine *flow.Engine
}

// NewManager wraps the engine for router wiring.
func NewManager(engine *flow.Engine) *Manager {
	return &Manager{engine: engine}
}

// InProgress reports whether the user has an active conversation. The dialog
// is the bot's only surface, so this always holds.
func (m *Manager) InProgress(int64) bool { return true }

// ManagerHandler classifies the update and applies it to the user's session.
func (m *Manager) ManagerHandler(c tele.Context) error {
	ev, ok := classifyMessage(c)
	if !ok {
		return nil
	}
	ctx := withTeleCtx(helpers.BuildContext(c), c)
	return m.engine.HandleEvent(ctx, c.Chat().ID, ev)
}

// CallbackHandler applies a callback update to the user's session. It is
// registered once per flow token key.
func (m *Manager) CallbackHandler(c tele.Context) error {
	ev, ok := classifyCallback(c)
	if !ok {
		return nil
	}
	ctx := withTeleCtx(helpers.BuildContext(c), c)
	return m.engine.HandleEvent(ctx, c.Chat().ID, ev)
}

// UnknownCallbackHandler restarts the conversation when a stale or foreign
// callback key arrives, for example from a keyboard left over from an older
// build.
func (m *Manager) UnknownCallbackHandler(c tele.Context) error {
	if c.Callback() == nil {
		return nil
	}
	ctx := withTeleCtx(helpers.BuildContext(c), c)
	return m.engine.Restart(ctx, c.Chat().ID)
}

// callbackKeys lists every callback key the dialog keyboards emit. Prefixed
// tokens register under their key half.
func callbackKeys() []string {
	return []string{
		flow.TokenBack,
		flow.TokenQtyIncr,
		flow.TokenQtyDecr,
		flow.TokenQtyCount,
		flow.TokenQtyContinue,
		flow.TokenCommentYes,
		flow.TokenCommentNo,
		flow.TokenAreaCity,
		flow.TokenAreaProv,
		flow.TokenPlaceOrder,
		flow.TokenDateKey,
		flow.TokenDistrictKey,
		flow.TokenPayKey,
	}
}
