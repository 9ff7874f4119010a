package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/suvbot/core/buildinfo"
	tg "github.com/m3rciful/suvbot/core/telegram"
	"github.com/m3rciful/suvbot/core/telegram/commands"
	"github.com/m3rciful/suvbot/core/telegram/helpers"
	"github.com/m3rciful/suvbot/internal/assets"
	"github.com/m3rciful/suvbot/internal/flow"
	"github.com/m3rciful/suvbot/internal/flow/session"
)

const policyFilename = "policy.pdf"

// CommandDeps carries everything the command handlers reach into.
type CommandDeps struct {
	Engine    *flow.Engine
	Transport *Transport
	Store     *session.Store
	Assets    *assets.Bundle
	// SendErrors reports the outbound dispatcher's cumulative failure count.
	SendErrors func() uint64
}

// RegisterCommands wires the bot commands and the dialog callbacks into the
// registry.
func RegisterCommands(reg *tg.Registry, mgr *Manager, deps CommandDeps) {
	reg.RegisterCommand("/start", commands.Command{
		Description: "Start or restart the order dialog",
		Handler: func(c tele.Context) error {
			ctx := withTeleCtx(helpers.BuildContext(c), c)
			return deps.Engine.Restart(ctx, c.Chat().ID)
		},
	})

	reg.RegisterCommand("/policy", commands.Command{
		Description: "Privacy policy document",
		Handler: func(c tele.Context) error {
			if !deps.Assets.HasPolicy() {
				return helpers.SendText(c, "Policy document is not available.")
			}
			ctx := withTeleCtx(helpers.BuildContext(c), c)
			return deps.Transport.SendDocument(ctx, c.Chat().ID, policyFilename, deps.Assets.Policy)
		},
	})

	reg.RegisterCommand("/version", commands.Command{
		Description: "Build version",
		Hidden:      true,
		Handler: func(c tele.Context) error {
			return helpers.SendText(c, fmt.Sprintf("version %s (%s)", buildinfo.Version, buildinfo.Commit))
		},
	})

	reg.RegisterCommand("/stats", commands.Command{
		Description: "Runtime counters",
		AdminOnly:   true,
		Hidden:      true,
		Handler: func(c tele.Context) error {
			var sendErrors uint64
			if deps.SendErrors != nil {
				sendErrors = deps.SendErrors()
			}
			return helpers.SendText(c, fmt.Sprintf("sessions: %d\nsend errors: %d",
				deps.Store.Len(), sendErrors))
		},
	})

	for _, key := range callbackKeys() {
		_ = reg.RegisterCallback(key, mgr.CallbackHandler)
	}
	reg.SetCallbackNotFound(mgr.UnknownCallbackHandler)
	reg.SetTextFallback(mgr.ManagerHandler)
}
