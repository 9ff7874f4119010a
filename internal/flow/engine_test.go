package flow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/suvbot/internal/flow/session"
	"github.com/m3rciful/suvbot/internal/locale"
	"github.com/m3rciful/suvbot/internal/order"
)

type sentMessage struct {
	op   string // "text", "photo", "edit", "document"
	text string
	kb   Keyboard
}

type fakeOutbound struct {
	sent    []sentMessage
	editErr error
}

func (f *fakeOutbound) SendText(_ context.Context, _ int64, text string, kb Keyboard) error {
	f.sent = append(f.sent, sentMessage{op: "text", text: text, kb: kb})
	return nil
}

func (f *fakeOutbound) SendPhoto(_ context.Context, _ int64, caption string, kb Keyboard) error {
	f.sent = append(f.sent, sentMessage{op: "photo", text: caption, kb: kb})
	return nil
}

func (f *fakeOutbound) Edit(_ context.Context, _ int64, text string, kb Keyboard) error {
	f.sent = append(f.sent, sentMessage{op: "edit", text: text, kb: kb})
	return f.editErr
}

func (f *fakeOutbound) SendDocument(_ context.Context, _ int64, _ string, _ []byte) error {
	f.sent = append(f.sent, sentMessage{op: "document"})
	return nil
}

func (f *fakeOutbound) last() sentMessage {
	if len(f.sent) == 0 {
		return sentMessage{}
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeOutbound) edits() int {
	n := 0
	for _, m := range f.sent {
		if m.op == "edit" {
			n++
		}
	}
	return n
}

type fakePlacer struct {
	records []order.Record
	err     error
}

func (p *fakePlacer) Place(_ context.Context, rec order.Record) error {
	p.records = append(p.records, rec)
	return p.err
}

func testClock() func() time.Time {
	fixed := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return fixed }
}

func newTestEngine(out *fakeOutbound, placer order.Placer) (*Engine, *session.Store) {
	store := session.NewStore()
	eng := New(store, out, placer, Config{
		Pricing: Pricing{UnitPrice: 7000, Currency: "UZS"},
		Dates:   DateRules{Excluded: time.Sunday, Offers: 5},
		Now:     testClock(),
	})
	return eng, store
}

func textEv(text string) Event     { return Event{Kind: KindText, Text: text} }
func cbEv(token string) Event      { return Event{Kind: KindCallback, Token: token} }
func contactEv(phone string) Event { return Event{Kind: KindContact, Phone: phone} }

func locationEv(lat, lon float64) Event {
	return Event{Kind: KindLocation, Location: &session.Geo{Lat: lat, Lon: lon}}
}

func stateOf(t *testing.T, store *session.Store, chatID int64) *session.Session {
	t.Helper()
	var snap session.Session
	require.NoError(t, store.Dispatch(chatID, func(s *session.Session) error {
		snap = *s
		return nil
	}))
	return &snap
}

func drive(t *testing.T, eng *Engine, chatID int64, events ...Event) {
	t.Helper()
	ctx := context.Background()
	for _, ev := range events {
		require.NoError(t, eng.HandleEvent(ctx, chatID, ev))
	}
}

// cityPath walks a complete city-branch order up to the confirm step.
func cityPath(t *testing.T, eng *Engine, chatID int64) {
	t.Helper()
	drive(t, eng, chatID,
		textEv("Русский"),
		textEv("👤 Физическое лицо"),
		contactEv("+998901234567"),
		textEv("Alisher"),
		cbEv(TokenQtyIncr),
		cbEv(TokenQtyIncr),
		cbEv(TokenQtyContinue),
		cbEv(TokenCommentNo),
		cbEv(TokenAreaCity),
		cbEv("district|Chilonzor"),
		textEv("Bunyodkor 7"),
		locationEv(41.31, 69.24),
		cbEv("date|2026-09-01"),
		cbEv("pay|cash"),
	)
}

func TestFullCityOrder(t *testing.T) {
	out := &fakeOutbound{}
	placer := &fakePlacer{}
	eng, store := newTestEngine(out, placer)

	cityPath(t, eng, 1)

	s := stateOf(t, store, 1)
	assert.Equal(t, session.StateConfirm, s.State)
	assert.Equal(t, locale.LangRu, s.Language)
	assert.Equal(t, "+998901234567", s.Phone)
	assert.Equal(t, "Alisher", s.Name)
	assert.Equal(t, 4, s.Quantity)
	assert.Equal(t, session.AreaCity, s.Area)
	assert.Equal(t, "Chilonzor", s.District)
	assert.Equal(t, "2026-09-01", s.DeliveryDate)
	assert.Equal(t, session.PaymentCash, s.Payment)

	drive(t, eng, 1, cbEv(TokenPlaceOrder))

	require.Len(t, placer.records, 1)
	rec := placer.records[0]
	assert.Equal(t, 4, rec.Quantity)
	assert.Equal(t, int64(28000), rec.Total)
	assert.Equal(t, "Chilonzor", rec.District)
	require.NotNil(t, rec.Location)
	assert.Equal(t, 41.31, rec.Location.Lat)

	// The confirm leaf is terminal: session committed back to the start.
	s = stateOf(t, store, 1)
	assert.Equal(t, session.StateLanguage, s.State)
	assert.Zero(t, s.Depth())
	assert.Equal(t, session.MinQuantity, s.Quantity)
	assert.Empty(t, s.Name)
}

func TestProvinceBranchSkipsDistrict(t *testing.T) {
	out := &fakeOutbound{}
	eng, store := newTestEngine(out, &fakePlacer{})

	drive(t, eng, 2,
		textEv("uzbek"),
		textEv("🏢 Yuridik shaxs"),
		textEv("+998 (93) 555-44-33"),
		textEv("Bobur"),
		cbEv(TokenQtyContinue),
		cbEv(TokenCommentYes),
		textEv("eshik oldiga qo'ying"),
		cbEv(TokenAreaProv),
	)

	s := stateOf(t, store, 2)
	assert.Equal(t, session.StateAddress, s.State)
	assert.Equal(t, session.AreaProvince, s.Area)
	assert.Equal(t, "eshik oldiga qo'ying", s.Comment)
	assert.Empty(t, s.District)
	assert.Equal(t, "+998935554433", s.Phone)
}

func TestBackPopsHistory(t *testing.T) {
	out := &fakeOutbound{}
	eng, store := newTestEngine(out, &fakePlacer{})

	drive(t, eng, 3,
		textEv("English"),
		textEv("👤 Individual"),
	)
	s := stateOf(t, store, 3)
	require.Equal(t, session.StatePhone, s.State)
	require.Equal(t, 2, s.Depth())

	forward := out.last()

	drive(t, eng, 3, cbEv(TokenBack))
	s = stateOf(t, store, 3)
	assert.Equal(t, session.StatePersonType, s.State)
	assert.Equal(t, 1, s.Depth())

	// Collected fields survive back navigation.
	assert.Equal(t, "👤 Individual", s.PersonType)

	// Returning forward reproduces the same prompt the first visit rendered.
	drive(t, eng, 3, textEv("👤 Individual"))
	assert.Equal(t, forward.text, out.last().text)
	assert.Equal(t, forward.kb, out.last().kb)
}

func TestBackOnEmptyHistoryGoesToStart(t *testing.T) {
	out := &fakeOutbound{}
	eng, store := newTestEngine(out, &fakePlacer{})

	drive(t, eng, 4, textEv("ru"))
	s := stateOf(t, store, 4)
	require.Equal(t, 1, s.Depth())

	drive(t, eng, 4, cbEv(TokenBack), cbEv(TokenBack), cbEv(TokenBack))
	s = stateOf(t, store, 4)
	assert.Equal(t, session.StateLanguage, s.State)
	assert.Zero(t, s.Depth())
}

func TestHomeResetsMidFlow(t *testing.T) {
	out := &fakeOutbound{}
	eng, store := newTestEngine(out, &fakePlacer{})

	drive(t, eng, 5,
		textEv("ru"),
		textEv("👤 Физическое лицо"),
		textEv("🏠 Главная"),
	)
	s := stateOf(t, store, 5)
	assert.Equal(t, session.StateLanguage, s.State)
	assert.Zero(t, s.Depth())
	assert.Empty(t, s.PersonType)
}

func TestValidationRepromptsWithoutTransition(t *testing.T) {
	out := &fakeOutbound{}
	eng, store := newTestEngine(out, &fakePlacer{})

	drive(t, eng, 6, textEv("en"), textEv("👤 Individual"))

	// Too few digits: stays on the phone step.
	drive(t, eng, 6, textEv("call me"))
	s := stateOf(t, store, 6)
	assert.Equal(t, session.StatePhone, s.State)
	assert.Equal(t, 2, s.Depth())
	assert.Equal(t, locale.Text(locale.LangEn, locale.KeyAskPhone), out.last().text)

	drive(t, eng, 6, textEv("901234567"), textEv("   "))
	s = stateOf(t, store, 6)
	assert.Equal(t, session.StateName, s.State)
	assert.Empty(t, s.Name)
}

func TestStepperSuppressesIdenticalRender(t *testing.T) {
	out := &fakeOutbound{}
	eng, store := newTestEngine(out, &fakePlacer{})

	drive(t, eng, 7, textEv("en"), textEv("👤 Individual"),
		contactEv("+998900000000"), textEv("Ali"))
	s := stateOf(t, store, 7)
	require.Equal(t, session.StateQuantity, s.State)
	require.Equal(t, session.MinQuantity, s.Quantity)

	// Decrement at the floor changes nothing: no edit goes out.
	drive(t, eng, 7, cbEv(TokenQtyDecr))
	assert.Zero(t, out.edits())

	drive(t, eng, 7, cbEv(TokenQtyIncr))
	assert.Equal(t, 1, out.edits())

	// Increment then decrement lands back on the same render; only the two
	// changing steps produce edits.
	drive(t, eng, 7, cbEv(TokenQtyDecr))
	assert.Equal(t, 2, out.edits())
	drive(t, eng, 7, cbEv(TokenQtyDecr))
	assert.Equal(t, 2, out.edits())

	// The count button is always a no-op.
	drive(t, eng, 7, cbEv(TokenQtyCount))
	assert.Equal(t, 2, out.edits())
}

func TestStepperEditFailureKeepsCount(t *testing.T) {
	out := &fakeOutbound{editErr: errors.New("bad request")}
	eng, store := newTestEngine(out, &fakePlacer{})

	drive(t, eng, 8, textEv("en"), textEv("👤 Individual"),
		contactEv("+998900000000"), textEv("Ali"),
		cbEv(TokenQtyIncr))

	// A failed edit is logged, not fatal: the count still advanced.
	s := stateOf(t, store, 8)
	assert.Equal(t, 3, s.Quantity)
}

func TestUnknownCallbackDegradesToStart(t *testing.T) {
	out := &fakeOutbound{}
	eng, store := newTestEngine(out, &fakePlacer{})

	drive(t, eng, 9, textEv("ru"), textEv("👤 Физическое лицо"))
	drive(t, eng, 9, cbEv("legacy_button"))

	s := stateOf(t, store, 9)
	assert.Equal(t, session.StateLanguage, s.State)
	assert.Zero(t, s.Depth())
}

func TestKnownTokenWrongStateIgnored(t *testing.T) {
	out := &fakeOutbound{}
	eng, store := newTestEngine(out, &fakePlacer{})

	drive(t, eng, 10, textEv("ru"))
	before := len(out.sent)

	// A stepper press while on the person-type step is silently dropped.
	drive(t, eng, 10, cbEv(TokenQtyIncr))
	s := stateOf(t, store, 10)
	assert.Equal(t, session.StatePersonType, s.State)
	assert.Equal(t, before, len(out.sent))
}

func TestUnknownDistrictReprompts(t *testing.T) {
	out := &fakeOutbound{}
	eng, store := newTestEngine(out, &fakePlacer{})

	drive(t, eng, 11,
		textEv("ru"), textEv("👤 Физическое лицо"),
		contactEv("+998900000000"), textEv("Ali"),
		cbEv(TokenQtyContinue), cbEv(TokenCommentNo), cbEv(TokenAreaCity),
		cbEv("district|Atlantis"),
	)
	s := stateOf(t, store, 11)
	assert.Equal(t, session.StateDistrict, s.State)
	assert.Empty(t, s.District)
}

func TestMalformedDateReprompts(t *testing.T) {
	out := &fakeOutbound{}
	eng, store := newTestEngine(out, &fakePlacer{})

	drive(t, eng, 12,
		textEv("ru"), textEv("👤 Физическое лицо"),
		contactEv("+998900000000"), textEv("Ali"),
		cbEv(TokenQtyContinue), cbEv(TokenCommentNo), cbEv(TokenAreaProv),
		textEv("Qibray, 5"), locationEv(41.0, 69.0),
		cbEv("date|tomorrowish"),
	)
	s := stateOf(t, store, 12)
	assert.Equal(t, session.StateDeliveryDate, s.State)
	assert.Empty(t, s.DeliveryDate)
}

func TestDeliveryFailureNeverRollsBack(t *testing.T) {
	out := &fakeOutbound{}
	placer := &fakePlacer{err: errors.New("operator chat unreachable")}
	eng, store := newTestEngine(out, placer)

	cityPath(t, eng, 13)
	drive(t, eng, 13, cbEv(TokenPlaceOrder))

	// The session was committed before dispatch; the failure is logged only.
	require.Len(t, placer.records, 1)
	s := stateOf(t, store, 13)
	assert.Equal(t, session.StateLanguage, s.State)
	assert.Zero(t, s.Depth())

	// The customer still got the thanks message and the restart keyboard.
	require.GreaterOrEqual(t, len(out.sent), 2)
	thanks := out.sent[len(out.sent)-2]
	assert.Equal(t, "edit", thanks.op)
	assert.Equal(t, locale.Text(locale.LangRu, locale.KeyThanks), thanks.text)
	assert.Equal(t, locale.Text(locale.LangRu, locale.KeyRestart), out.last().text)
}

func TestPhotoStepperEditsInPlace(t *testing.T) {
	out := &fakeOutbound{}
	store := session.NewStore()
	eng := New(store, out, &fakePlacer{}, Config{
		Pricing:  Pricing{UnitPrice: 7000, Currency: "UZS"},
		Dates:    DateRules{Excluded: time.Sunday, Offers: 5},
		HasImage: true,
		Now:      testClock(),
	})

	drive(t, eng, 20, textEv("en"), textEv("👤 Individual"),
		contactEv("+998900000000"), textEv("Ali"))

	// With the product image configured the stepper arrives as a photo with
	// a caption.
	require.Equal(t, "photo", out.last().op)

	// Taps still edit the live message; the floor tap is still suppressed.
	drive(t, eng, 20, cbEv(TokenQtyIncr))
	assert.Equal(t, 1, out.edits())
	assert.Contains(t, out.last().text, "21000")

	drive(t, eng, 20, cbEv(TokenQtyDecr))
	assert.Equal(t, 2, out.edits())
	drive(t, eng, 20, cbEv(TokenQtyDecr))
	assert.Equal(t, 2, out.edits())
}

func TestDeliveryRunsOutsideSessionLock(t *testing.T) {
	out := &fakeOutbound{}
	store := session.NewStore()

	// The placer re-enters the store for the same chat. If the terminal leaf
	// still held the session lock during delivery this would deadlock, so the
	// test passing at all proves delivery runs after the lock is released.
	var stateDuringDelivery session.State
	placer := order.PlacerFunc(func(context.Context, order.Record) error {
		return store.Dispatch(21, func(s *session.Session) error {
			stateDuringDelivery = s.State
			return nil
		})
	})

	eng := New(store, out, placer, Config{
		Pricing: Pricing{UnitPrice: 7000, Currency: "UZS"},
		Dates:   DateRules{Excluded: time.Sunday, Offers: 5},
		Now:     testClock(),
	})

	cityPath(t, eng, 21)
	drive(t, eng, 21, cbEv(TokenPlaceOrder))

	// The reset was committed before delivery started.
	assert.Equal(t, session.StateLanguage, stateDuringDelivery)
}

func TestDateOutsideOffersReprompts(t *testing.T) {
	out := &fakeOutbound{}
	eng, store := newTestEngine(out, &fakePlacer{})

	drive(t, eng, 22,
		textEv("ru"), textEv("👤 Физическое лицо"),
		contactEv("+998900000000"), textEv("Ali"),
		cbEv(TokenQtyContinue), cbEv(TokenCommentNo), cbEv(TokenAreaProv),
		textEv("Qibray, 5"), locationEv(41.0, 69.0),
	)
	s := stateOf(t, store, 22)
	require.Equal(t, session.StateDeliveryDate, s.State)

	// Well-formed but forged: the excluded Sunday.
	drive(t, eng, 22, cbEv("date|2026-08-30"))
	s = stateOf(t, store, 22)
	assert.Equal(t, session.StateDeliveryDate, s.State)
	assert.Empty(t, s.DeliveryDate)

	// Well-formed but stale: a date long gone from the offer window.
	drive(t, eng, 22, cbEv("date|2026-01-01"))
	s = stateOf(t, store, 22)
	assert.Equal(t, session.StateDeliveryDate, s.State)
	assert.Empty(t, s.DeliveryDate)

	// The first genuinely offered date goes through.
	drive(t, eng, 22, cbEv("date|2026-08-29"))
	s = stateOf(t, store, 22)
	assert.Equal(t, session.StatePayment, s.State)
	assert.Equal(t, "2026-08-29", s.DeliveryDate)
}

func TestThanksFallsBackToFreshMessage(t *testing.T) {
	out := &fakeOutbound{editErr: errors.New("message to edit not found")}
	eng, _ := newTestEngine(out, &fakePlacer{})

	cityPath(t, eng, 16)
	drive(t, eng, 16, cbEv(TokenPlaceOrder))

	// Edit rejected, so the thanks arrives as a fresh message before the
	// restart keyboard.
	require.GreaterOrEqual(t, len(out.sent), 2)
	thanks := out.sent[len(out.sent)-2]
	assert.Equal(t, "text", thanks.op)
	assert.Equal(t, locale.Text(locale.LangRu, locale.KeyThanks), thanks.text)
	assert.Equal(t, locale.Text(locale.LangRu, locale.KeyRestart), out.last().text)
}

func TestTextIgnoredOnCallbackStates(t *testing.T) {
	out := &fakeOutbound{}
	eng, store := newTestEngine(out, &fakePlacer{})

	drive(t, eng, 14,
		textEv("ru"), textEv("👤 Физическое лицо"),
		contactEv("+998900000000"), textEv("Ali"),
	)
	before := len(out.sent)

	// Free text on the quantity step does not move the flow.
	drive(t, eng, 14, textEv("three please"))
	s := stateOf(t, store, 14)
	assert.Equal(t, session.StateQuantity, s.State)
	assert.Equal(t, before, len(out.sent))
}

func TestRestart(t *testing.T) {
	out := &fakeOutbound{}
	eng, store := newTestEngine(out, &fakePlacer{})

	drive(t, eng, 15, textEv("ru"), textEv("👤 Физическое лицо"))
	require.NoError(t, eng.Restart(context.Background(), 15))

	s := stateOf(t, store, 15)
	assert.Equal(t, session.StateLanguage, s.State)
	assert.Zero(t, s.Depth())
	assert.Equal(t, locale.Text(locale.Default, locale.KeyWelcome), out.last().text)
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"+998 (90) 123-45-67", "+998901234567", true},
		{"90 123 45 67", "901234567", true},
		{"12345", "", false},
		{"call me maybe", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := normalizePhone(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}
