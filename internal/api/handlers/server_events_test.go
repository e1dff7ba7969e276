package handlers_test

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoparts.dev/storefront/internal/api/handlers"
	"autoparts.dev/storefront/internal/domain"
	"autoparts.dev/storefront/internal/locale"
)

func TestLocale_SetAndTranslations(t *testing.T) {
	env := newTestEnv(t)
	c := env.client(t)

	lv := decode[handlers.LocaleView](t, c.do(http.MethodGet, "/api/v1/locale", nil))
	assert.Equal(t, locale.Arabic, lv.Lang)
	assert.False(t, lv.Stored)

	w := c.do(http.MethodPut, "/api/v1/locale", map[string]string{"lang": "fr"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "LOCALE_INVALID", decode[errorBody](t, w).Code)

	w = c.do(http.MethodPut, "/api/v1/locale", map[string]string{"lang": "en"})
	require.Equal(t, http.StatusOK, w.Code)
	lv = decode[handlers.LocaleView](t, c.do(http.MethodGet, "/api/v1/locale", nil))
	assert.Equal(t, locale.English, lv.Lang)
	assert.Equal(t, "ltr", lv.Direction)
	assert.True(t, lv.Stored)

	st := decode[handlers.StateView](t, c.do(http.MethodGet, "/api/v1/state", nil))
	assert.Equal(t, "/en/", st.URL)

	type table struct {
		Lang      locale.Lang       `json:"lang"`
		Direction string            `json:"direction"`
		Strings   map[string]string `json:"strings"`
	}
	tr := decode[table](t, c.do(http.MethodGet, "/api/v1/i18n/ar", nil))
	assert.Equal(t, "rtl", tr.Direction)
	assert.NotEmpty(t, tr.Strings)

	w = c.do(http.MethodGet, "/api/v1/i18n/de", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEvents_StreamsChangesOfTheContext(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	c := env.client(t)
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/state", nil).Code)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	req.AddCookie(c.cookie)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	lines := make(chan string, 64)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()
	waitFor := func(want string) {
		t.Helper()
		timeout := time.After(3 * time.Second)
		for {
			select {
			case line, ok := <-lines:
				require.True(t, ok, "stream closed before %q", want)
				if line == want {
					return
				}
			case <-timeout:
				t.Fatalf("no %q on the event stream", want)
			}
		}
	}

	waitFor("event:connected")

	// A context that is not ours changes nothing on this stream.
	other := env.client(t)
	require.Equal(t, http.StatusOK, other.do(http.MethodPost, "/api/v1/cart/items", map[string]any{"product_id": "1"}).Code)

	require.Equal(t, http.StatusOK, c.do(http.MethodPut, "/api/v1/locale", map[string]string{"lang": "en"}).Code)
	waitFor("event:" + string(domain.EventLocaleChanged))
}

func TestWebSocket_StreamsChangesOfTheContext(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	c := env.client(t)
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/v1/state", nil).Code)

	header := http.Header{}
	header.Set("Cookie", c.cookie.Name+"="+c.cookie.Value)
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/v1/ws", header)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	// The subscription is made after the upgrade; repeat the write until an
	// event arrives.
	var ev domain.ContextEvent
	received := make(chan error, 1)
	go func() {
		_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		received <- conn.ReadJSON(&ev)
	}()
	got := false
	for deadline := time.Now().Add(3 * time.Second); !got && time.Now().Before(deadline); {
		c.do(http.MethodPost, "/api/v1/wishlist/items", map[string]string{"product_id": "2"})
		c.do(http.MethodDelete, "/api/v1/wishlist/items/2", nil)
		select {
		case err := <-received:
			require.NoError(t, err)
			got = true
		case <-time.After(50 * time.Millisecond):
		}
	}
	require.True(t, got, "no event on the websocket")

	assert.Equal(t, domain.EventWishlistChanged, ev.Type)
	state := decode[handlers.StateView](t, c.do(http.MethodGet, "/api/v1/state", nil))
	assert.Equal(t, state.ContextID, ev.ContextID)
}
