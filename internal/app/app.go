// Package app composes the water delivery bot: configuration, infrastructure
// bootstrap, flow engine, and Telegram wiring.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/m3rciful/suvbot/core/bootstrap"
	corecmd "github.com/m3rciful/suvbot/core/cmd"
	tg "github.com/m3rciful/suvbot/core/telegram"
	"github.com/m3rciful/suvbot/core/telegram/router"
	"github.com/m3rciful/suvbot/core/telegram/sender"
	"github.com/m3rciful/suvbot/internal/assets"
	"github.com/m3rciful/suvbot/internal/bot"
	"github.com/m3rciful/suvbot/internal/flow"
	"github.com/m3rciful/suvbot/internal/flow/session"
	"github.com/m3rciful/suvbot/internal/order"
)

// App holds the assembled runtime pieces.
type App struct {
	cfg        *Config
	registry   *tg.Registry
	manager    *bot.Manager
	deliverer  *bot.TargetDeliverer
	dispatcher *sender.Dispatcher
}

// LoadConfig adapts Load to the runner's ConfigCarrier contract.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	return Load(path)
}

// Bootstrap initializes infrastructure and assembles the application.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	bundle := assets.Load(ctx, cfg.Assets.ImagePath, cfg.Assets.PolicyPath)

	store := session.NewStore()
	transport := bot.NewTransport(bundle)
	deliverer := bot.NewTargetDeliverer(cfg.Order.TargetChatID)

	placers := []order.Placer{deliverer}
	if res.DB != nil {
		placers = append(placers, order.NewArchive(res.DB))
	}

	loc, err := time.LoadLocation(cfg.Order.Timezone)
	if err != nil {
		return nil, fmt.Errorf("app: load timezone: %w", err)
	}
	weekday, _ := parseWeekday(cfg.Order.ExcludedWeekday)

	engine := flow.New(store, transport, order.Fanout(placers...), flow.Config{
		Pricing: flow.Pricing{
			UnitPrice: cfg.Order.UnitPrice,
			Currency:  cfg.Order.Currency,
		},
		Dates: flow.DateRules{
			Location: loc,
			Excluded: weekday,
			Offers:   cfg.Order.DateOffers,
		},
		HasImage: bundle.HasImage(),
	})

	manager := bot.NewManager(engine)
	dispatcher := sender.NewDispatcher(sender.Options{})

	registry := tg.NewRegistry()
	bot.RegisterCommands(registry, manager, bot.CommandDeps{
		Engine:     engine,
		Transport:  transport,
		Store:      store,
		Assets:     bundle,
		SendErrors: dispatcher.ErrorCount,
	})

	return &App{
		cfg:        cfg,
		registry:   registry,
		manager:    manager,
		deliverer:  deliverer,
		dispatcher: dispatcher,
	}, nil
}

// TelegramRunOptions builds the runtime wiring for the core runner.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	core := a.cfg.CoreConfig()

	routes := router.TextRoutes(a.manager, a.registry, router.TextOptions{})
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{}))
	routes = append(routes, router.CommandRoutes(a.registry, router.CommandRouteOptions{
		AdminID: core.Telegram.AdminID,
	})...)

	return tg.RunOptions{
		Config:      core,
		Registry:    a.registry,
		Dispatcher:  a.dispatcher,
		Middlewares: tg.DefaultMiddlewares(core, nil),
		Routes:      routes,
		OnStart: func(_ context.Context, rt tg.Runtime) error {
			a.deliverer.Bind(rt.Bot)
			return nil
		},
	}, nil
}
