package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/suvbot/internal/assets"
	"github.com/m3rciful/suvbot/internal/flow"
)

// fakeAPI records which Bot API methods the transport invoked.
type fakeAPI struct {
	srv     *httptest.Server
	methods []string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(r.URL.Path, "/")
		f.methods = append(f.methods, parts[len(parts)-1])
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
			"result": map[string]any{
				"message_id": 1,
				"chat":       map[string]any{"id": 1},
			},
		})
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func newOfflineBot(t *testing.T, api *fakeAPI) *tele.Bot {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{
		Token:   "test",
		URL:     api.srv.URL,
		Offline: true,
	})
	require.NoError(t, err)
	return b
}

func callbackContext(b *tele.Bot, msg *tele.Message) tele.Context {
	return b.NewContext(tele.Update{
		Callback: &tele.Callback{
			ID:      "cb1",
			Message: msg,
			Sender:  &tele.User{ID: 1},
		},
	})
}

func TestEditUsesCaptionForMediaMessages(t *testing.T) {
	api := newFakeAPI(t)
	b := newOfflineBot(t, api)
	tr := NewTransport(&assets.Bundle{Image: []byte("img")})

	msg := &tele.Message{
		ID:      5,
		Chat:    &tele.Chat{ID: 1},
		Photo:   &tele.Photo{},
		Caption: "old caption",
	}
	ctx := withTeleCtx(context.Background(), callbackContext(b, msg))

	kb := flow.Keyboard{Inline: [][]flow.InlineButton{{{Label: "+", Token: "qty_incr"}}}}
	err := tr.Edit(ctx, 1, "new caption", kb)
	require.NoError(t, err)

	require.NotEmpty(t, api.methods)
	assert.Contains(t, api.methods, "editMessageCaption")
	assert.NotContains(t, api.methods, "editMessageText")
}

func TestEditUsesTextForPlainMessages(t *testing.T) {
	api := newFakeAPI(t)
	b := newOfflineBot(t, api)
	tr := NewTransport(&assets.Bundle{})

	msg := &tele.Message{
		ID:   6,
		Chat: &tele.Chat{ID: 1},
		Text: "old text",
	}
	ctx := withTeleCtx(context.Background(), callbackContext(b, msg))

	err := tr.Edit(ctx, 1, "new text", flow.Keyboard{})
	require.NoError(t, err)

	require.NotEmpty(t, api.methods)
	assert.Contains(t, api.methods, "editMessageText")
	assert.NotContains(t, api.methods, "editMessageCaption")
}
