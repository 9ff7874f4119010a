// Package flow implements the conversation flow engine for the ordering
// dialog: a per-chat state machine with a back-navigation history stack, a
// quantity-stepper sub-protocol, and pure state renders.
package flow

import (
	"context"
	"regexp"
	"strings"
	"time"

	"log/slog"

	"github.com/m3rciful/suvbot/core/logger"
	"github.com/m3rciful/suvbot/internal/flow/session"
	"github.com/m3rciful/suvbot/internal/locale"
	"github.com/m3rciful/suvbot/internal/order"
)

const flowComponent = "service.flow"

// Config carries the engine's static parameters.
type Config struct {
	Pricing  Pricing
	Dates    DateRules
	HasImage bool
	// Now overrides the clock; time.Now when nil.
	Now func() time.Time
}

// Engine executes guarded transitions between dialog states. All session
// mutation happens inside Store.Dispatch, so events for one chat are applied
// strictly in arrival order.
type Engine struct {
	store  *session.Store
	out    Outbound
	orders order.Placer
	cfg    Config
}

// New constructs the engine.
func New(store *session.Store, out Outbound, orders order.Placer, cfg Config) *Engine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Dates.Offers <= 0 {
		cfg.Dates.Offers = defaultDateOffers
	}
	return &Engine{store: store, out: out, orders: orders, cfg: cfg}
}

func (e *Engine) now() time.Time { return e.cfg.Now() }

// HandleEvent applies one classified inbound event to the chat's session.
func (e *Engine) HandleEvent(ctx context.Context, chatID int64, ev Event) error {
	// The lock only covers state mutation and render computation. A placed
	// order's delivery and notification block on the network, so they run
	// after the session's lock is released.
	var placed *placedOrder
	err := e.store.Dispatch(chatID, func(s *session.Session) error {
		return e.handle(ctx, s, ev, &placed)
	})
	if err != nil {
		return err
	}
	if placed != nil {
		return e.finishOrder(ctx, chatID, *placed)
	}
	return nil
}

// Restart resets the chat's session and renders the entry prompt. It backs
// the /start command and the home button.
func (e *Engine) Restart(ctx context.Context, chatID int64) error {
	return e.store.Dispatch(chatID, func(s *session.Session) error {
		s.Reset()
		return e.renderCurrent(ctx, s)
	})
}

func (e *Engine) handle(ctx context.Context, s *session.Session, ev Event, placed **placedOrder) error {
	// Global triggers first: home restarts from scratch, back pops history.
	switch ev.Kind {
	case KindText:
		if locale.IsHome(ev.Text) {
			s.Reset()
			return e.renderCurrent(ctx, s)
		}
		if s.Language != "" && locale.IsBack(s.Language, ev.Text) {
			return e.back(ctx, s)
		}
	case KindCallback:
		if ev.Token == TokenBack {
			return e.back(ctx, s)
		}
		if !knownToken(ev.Token) {
			logger.Warn(ctx, flowComponent, "callback.unknown",
				slog.String("status", "skip"),
				slog.String("cb_key", logger.SanitizeLimit(ev.Token, 64)),
			)
			s.Reset()
			return e.renderCurrent(ctx, s)
		}
	}

	switch s.State {
	case session.StateLanguage:
		return e.onLanguage(ctx, s, ev)
	case session.StatePersonType:
		return e.onPersonType(ctx, s, ev)
	case session.StatePhone:
		return e.onPhone(ctx, s, ev)
	case session.StateName:
		return e.onName(ctx, s, ev)
	case session.StateQuantity:
		return e.onQuantity(ctx, s, ev)
	case session.StateComment:
		return e.onComment(ctx, s, ev)
	case session.StateCommentInput:
		return e.onCommentInput(ctx, s, ev)
	case session.StateArea:
		return e.onArea(ctx, s, ev)
	case session.StateDistrict:
		return e.onDistrict(ctx, s, ev)
	case session.StateAddress:
		return e.onAddress(ctx, s, ev)
	case session.StateLocation:
		return e.onLocation(ctx, s, ev)
	case session.StateDeliveryDate:
		return e.onDeliveryDate(ctx, s, ev)
	case session.StatePayment:
		return e.onPayment(ctx, s, ev)
	case session.StateConfirm:
		return e.onConfirm(ctx, s, ev, placed)
	}

	// A session holding an unknown state degrades to the entry prompt.
	s.Reset()
	return e.renderCurrent(ctx, s)
}

// advance commits a forward transition: push the completed state, move on,
// render the new state's prompt.
func (e *Engine) advance(ctx context.Context, s *session.Session, to session.State) error {
	from := s.State
	s.Push(from)
	s.State = to
	logger.Debug(ctx, flowComponent, "flow.advance",
		slog.String("status", "ok"),
		slog.String("prev_state", string(from)),
		slog.String("state", string(to)),
		slog.Int("depth", s.Depth()),
	)
	return e.renderCurrent(ctx, s)
}

// back pops the history stack and re-renders the prior state. An empty stack
// resolves to the entry prompt; that is a defined fallback, not an error.
func (e *Engine) back(ctx context.Context, s *session.Session) error {
	prev, ok := s.Pop()
	if !ok {
		s.State = session.StateLanguage
	} else {
		s.State = prev
	}
	logger.Debug(ctx, flowComponent, "flow.back",
		slog.String("status", "ok"),
		slog.String("state", string(s.State)),
		slog.Int("depth", s.Depth()),
	)
	return e.renderCurrent(ctx, s)
}

// renderCurrent dispatches the prompt of the session's current state. For the
// quantity step the fingerprint of the dispatched render is recorded so later
// identical stepper edits are suppressed.
func (e *Engine) renderCurrent(ctx context.Context, s *session.Session) error {
	p := e.promptFor(s.State, s)
	if s.State == session.StateQuantity {
		s.LastStepperRender = p.fingerprint()
	}
	return e.dispatch(ctx, s.ChatID, p)
}

// reprompt re-renders the current state after a validation failure. History
// and collected fields stay untouched: local recovery, not a transition.
func (e *Engine) reprompt(ctx context.Context, s *session.Session, verr *ValidationError) error {
	logger.Debug(ctx, flowComponent, "flow.validation",
		slog.String("status", "retry"),
		slog.String("state", string(s.State)),
		slog.String("err", verr.Error()),
		slog.String("err_code", verr.Code()),
	)
	return e.renderCurrent(ctx, s)
}

func (e *Engine) dispatch(ctx context.Context, chatID int64, p Prompt) error {
	if p.Photo {
		return e.out.SendPhoto(ctx, chatID, p.Text, p.Keyboard)
	}
	return e.out.SendText(ctx, chatID, p.Text, p.Keyboard)
}

// --- per-state handlers ---

func (e *Engine) onLanguage(ctx context.Context, s *session.Session, ev Event) error {
	if ev.Kind != KindText {
		return nil
	}
	s.Language = locale.Detect(ev.Text)
	return e.advance(ctx, s, session.StatePersonType)
}

func (e *Engine) onPersonType(ctx context.Context, s *session.Session, ev Event) error {
	if ev.Kind != KindText {
		return nil
	}
	s.PersonType = strings.TrimSpace(ev.Text)
	return e.advance(ctx, s, session.StatePhone)
}

var phoneJunkRe = regexp.MustCompile(`[^\d+]`)

// normalizePhone strips everything but digits and '+' and requires at least
// six digits.
func normalizePhone(text string) (string, bool) {
	cleaned := phoneJunkRe.ReplaceAllString(text, "")
	digits := 0
	for _, r := range cleaned {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 6 {
		return "", false
	}
	return cleaned, true
}

func (e *Engine) onPhone(ctx context.Context, s *session.Session, ev Event) error {
	var phone string
	switch ev.Kind {
	case KindContact:
		phone = strings.TrimSpace(ev.Phone)
	case KindText:
		phone, _ = normalizePhone(ev.Text)
	default:
		return nil
	}
	if phone == "" {
		return e.reprompt(ctx, s, &ValidationError{Reason: "unparseable phone"})
	}
	s.Phone = phone
	return e.advance(ctx, s, session.StateName)
}

func (e *Engine) onName(ctx context.Context, s *session.Session, ev Event) error {
	if ev.Kind != KindText {
		return nil
	}
	name := strings.TrimSpace(ev.Text)
	if name == "" {
		return e.reprompt(ctx, s, &ValidationError{Reason: "empty name"})
	}
	s.Name = name
	if s.Quantity < session.MinQuantity {
		s.Quantity = session.MinQuantity
	}
	return e.advance(ctx, s, session.StateQuantity)
}

func (e *Engine) onQuantity(ctx context.Context, s *session.Session, ev Event) error {
	if ev.Kind != KindCallback {
		return nil
	}
	switch ev.Token {
	case TokenQtyIncr:
		return e.stepQuantity(ctx, s, StepIncrement)
	case TokenQtyDecr:
		return e.stepQuantity(ctx, s, StepDecrement)
	case TokenQtyCount:
		return nil
	case TokenQtyContinue:
		// The floor makes this unreachable from the keyboard, but the
		// invariant is still checked before leaving the step.
		if s.Quantity < session.MinQuantity {
			return e.reprompt(ctx, s, &ValidationError{Reason: "quantity below floor"})
		}
		return e.advance(ctx, s, session.StateComment)
	}
	return nil
}

// stepQuantity applies one stepper operation and edits the stepper message in
// place. When the freshly computed render equals the last dispatched one the
// edit is suppressed as a no-op.
func (e *Engine) stepQuantity(ctx context.Context, s *session.Session, op StepOp) error {
	s.Quantity = ApplyStep(s.Quantity, op)
	p := stepperPrompt(e.lang(s), s.Quantity, e.cfg.Pricing, e.cfg.HasImage)
	fp := p.fingerprint()
	if fp == s.LastStepperRender {
		logger.Debug(ctx, flowComponent, "stepper.unchanged",
			slog.String("status", "skip"),
			slog.Int("qty", s.Quantity),
		)
		return nil
	}
	s.LastStepperRender = fp
	if err := e.out.Edit(ctx, s.ChatID, p.Text, p.Keyboard); err != nil {
		uiErr := &UIUpdateError{Err: err}
		logger.Warn(ctx, flowComponent, "stepper.edit",
			slog.String("status", "fail"),
			slog.Int("qty", s.Quantity),
			slog.String("err", uiErr.Error()),
			slog.String("err_code", uiErr.Code()),
		)
	}
	return nil
}

func (e *Engine) onComment(ctx context.Context, s *session.Session, ev Event) error {
	if ev.Kind != KindCallback {
		return nil
	}
	switch ev.Token {
	case TokenCommentYes:
		return e.advance(ctx, s, session.StateCommentInput)
	case TokenCommentNo:
		return e.advance(ctx, s, session.StateArea)
	}
	return nil
}

func (e *Engine) onCommentInput(ctx context.Context, s *session.Session, ev Event) error {
	if ev.Kind != KindText {
		return nil
	}
	s.Comment = strings.TrimSpace(ev.Text)
	return e.advance(ctx, s, session.StateArea)
}

func (e *Engine) onArea(ctx context.Context, s *session.Session, ev Event) error {
	if ev.Kind != KindCallback {
		return nil
	}
	switch ev.Token {
	case TokenAreaCity:
		s.Area = session.AreaCity
		return e.advance(ctx, s, session.StateDistrict)
	case TokenAreaProv:
		s.Area = session.AreaProvince
		return e.advance(ctx, s, session.StateAddress)
	}
	return nil
}

func (e *Engine) onDistrict(ctx context.Context, s *session.Session, ev Event) error {
	if ev.Kind != KindCallback || !strings.HasPrefix(ev.Token, tokenDistrictPrefix) {
		return nil
	}
	name := ev.Token[len(tokenDistrictPrefix):]
	for _, d := range locale.Options(e.lang(s), locale.OptDistricts) {
		if d == name {
			s.District = name
			return e.advance(ctx, s, session.StateAddress)
		}
	}
	return e.reprompt(ctx, s, &ValidationError{Reason: "unknown district"})
}

func (e *Engine) onAddress(ctx context.Context, s *session.Session, ev Event) error {
	if ev.Kind != KindText {
		return nil
	}
	addr := strings.TrimSpace(ev.Text)
	if addr == "" {
		return e.reprompt(ctx, s, &ValidationError{Reason: "empty address"})
	}
	s.Address = addr
	return e.advance(ctx, s, session.StateLocation)
}

func (e *Engine) onLocation(ctx context.Context, s *session.Session, ev Event) error {
	switch ev.Kind {
	case KindLocation:
		if ev.Location == nil {
			return e.reprompt(ctx, s, &ValidationError{Reason: "missing location"})
		}
		loc := *ev.Location
		s.Location = &loc
		return e.advance(ctx, s, session.StateDeliveryDate)
	case KindText:
		// Text without a location payload re-prompts, as in the source flow.
		return e.reprompt(ctx, s, &ValidationError{Reason: "missing location"})
	}
	return nil
}

func (e *Engine) onDeliveryDate(ctx context.Context, s *session.Session, ev Event) error {
	if ev.Kind != KindCallback || !strings.HasPrefix(ev.Token, tokenDatePrefix) {
		return nil
	}
	raw := ev.Token[len(tokenDatePrefix):]
	if _, err := time.Parse(dateLayout, raw); err != nil {
		return e.reprompt(ctx, s, &ValidationError{Reason: "malformed date"})
	}
	// Only currently offered dates are accepted: a stale or forged token for
	// a past day or the excluded weekday re-prompts with fresh offers.
	offered := false
	for _, d := range e.cfg.Dates.Offer(e.now()) {
		if d == raw {
			offered = true
			break
		}
	}
	if !offered {
		return e.reprompt(ctx, s, &ValidationError{Reason: "date not offered"})
	}
	s.DeliveryDate = raw
	return e.advance(ctx, s, session.StatePayment)
}

func (e *Engine) onPayment(ctx context.Context, s *session.Session, ev Event) error {
	if ev.Kind != KindCallback || !strings.HasPrefix(ev.Token, tokenPayPrefix) {
		return nil
	}
	switch session.Payment(ev.Token[len(tokenPayPrefix):]) {
	case session.PaymentCard:
		s.Payment = session.PaymentCard
	case session.PaymentCash:
		s.Payment = session.PaymentCash
	default:
		return e.reprompt(ctx, s, &ValidationError{Reason: "unknown payment method"})
	}
	return e.advance(ctx, s, session.StateConfirm)
}

// placedOrder carries a committed order out of the session lock so delivery
// and customer notification happen without blocking the session.
type placedOrder struct {
	rec  order.Record
	lang locale.Language
}

// onConfirm executes the terminal place-order leaf. It is not a history
// entry: the session is reset (committed) under the lock before any external
// dispatch, and dispatch failures never roll it back. The blocking delivery
// work itself is deferred to finishOrder.
func (e *Engine) onConfirm(ctx context.Context, s *session.Session, ev Event, placed **placedOrder) error {
	if ev.Kind != KindCallback || ev.Token != TokenPlaceOrder {
		return nil
	}

	rec := order.Assemble(s, e.cfg.Pricing.UnitPrice, e.cfg.Pricing.Currency, e.now())
	lang := e.lang(s)
	s.Reset()
	*placed = &placedOrder{rec: rec, lang: lang}
	return nil
}

// finishOrder forwards the committed order and notifies the customer. It runs
// after Dispatch returned, so the session is free to accept new events while
// the network calls are in flight.
func (e *Engine) finishOrder(ctx context.Context, chatID int64, p placedOrder) error {
	rec := p.rec
	lang := p.lang

	if e.orders != nil {
		if err := e.orders.Place(ctx, rec); err != nil {
			dErr := &DeliveryError{Op: "forward", Err: err}
			logger.Error(ctx, "service.orders", "order.deliver",
				slog.String("status", "fail"),
				slog.Int("qty", rec.Quantity),
				slog.Int64("total", rec.Total),
				slog.String("err", dErr.Error()),
				slog.String("err_code", dErr.Code()),
			)
		} else {
			logger.Info(ctx, "service.orders", "order.deliver",
				slog.String("status", "ok"),
				slog.Int("qty", rec.Quantity),
				slog.Int64("total", rec.Total),
				slog.String("delivery_date", rec.DeliveryDate),
			)
		}
	}

	// Thank the customer by rewriting the confirm message in place; fall
	// back to a fresh message when the edit is rejected. The order is
	// already committed either way.
	thanks := locale.Text(lang, locale.KeyThanks)
	if err := e.out.Edit(ctx, chatID, thanks, Keyboard{}); err != nil {
		dErr := &DeliveryError{Op: "thanks", Err: err}
		logger.Warn(ctx, "service.orders", "order.notify",
			slog.String("status", "retry"),
			slog.String("err", dErr.Error()),
			slog.String("err_code", dErr.Code()),
		)
		if err := e.out.SendText(ctx, chatID, thanks, Keyboard{}); err != nil {
			dErr := &DeliveryError{Op: "thanks", Err: err}
			logger.Warn(ctx, "service.orders", "order.notify",
				slog.String("status", "fail"),
				slog.String("err", dErr.Error()),
				slog.String("err_code", dErr.Code()),
			)
		}
	}

	return e.dispatch(ctx, chatID, restartPrompt(lang))
}

func (e *Engine) lang(s *session.Session) locale.Language {
	if s.Language == "" {
		return locale.Default
	}
	return s.Language
}
