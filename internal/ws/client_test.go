package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/reveal"
)

type recordingHandler struct {
	mu     sync.Mutex
	scroll []float64
	menu   []bool
}

func (h *recordingHandler) HandleScroll(y float64) {
	h.mu.Lock()
	h.scroll = append(h.scroll, y)
	h.mu.Unlock()
}

func (h *recordingHandler) HandleMenu(open bool) {
	h.mu.Lock()
	h.menu = append(h.menu, open)
	h.mu.Unlock()
}

func (h *recordingHandler) snapshot() ([]float64, []bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]float64(nil), h.scroll...), append([]bool(nil), h.menu...)
}

type harness struct {
	server  *httptest.Server
	browser *websocket.Conn
	client  *Client
	hub     *Hub
	handler *recordingHandler
	done    chan struct{}
	stopHub context.CancelFunc
	hubDone chan struct{}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger.Discard()

	h := &harness{
		hub:     NewHub(),
		handler: &recordingHandler{},
		done:    make(chan struct{}),
		hubDone: make(chan struct{}),
	}
	ctx, cancel := context.WithCancel(context.Background())
	h.stopHub = cancel
	go func() {
		_ = h.hub.Run(ctx)
		close(h.hubDone)
	}()

	clients := make(chan *Client, 1)
	upgrader := websocket.Upgrader{}
	h.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := NewClient(conn, h.hub, uuid.New(), h.handler)
		h.hub.Register(c)
		clients <- c
		c.Run(context.Background())
		close(h.done)
	}))

	url := "ws" + strings.TrimPrefix(h.server.URL, "http")
	browser, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	h.browser = browser

	select {
	case h.client = <-clients:
	case <-time.After(2 * time.Second):
		t.Fatal("server never accepted the connection")
	}
	return h
}

func (h *harness) close(t *testing.T) {
	t.Helper()
	_ = h.browser.Close()
	select {
	case <-h.done:
	case <-time.After(2 * time.Second):
		t.Fatal("client did not stop")
	}
	h.stopHub()
	<-h.hubDone
	h.server.Close()
}

func (h *harness) read(t *testing.T) Envelope {
	t.Helper()
	require.NoError(t, h.browser.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env Envelope
	require.NoError(t, h.browser.ReadJSON(&env))
	return env
}

func (h *harness) write(t *testing.T, typ string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, h.browser.WriteJSON(Envelope{Type: typ, Data: raw}))
}

func TestClientEmit(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := newHarness(t)
	defer h.close(t)

	h.client.Emit("role", map[string]any{"index": 1, "label": "AI Engineer"})

	env := h.read(t)
	assert.Equal(t, "role", env.Type)
	assert.JSONEq(t, `{"index":1,"label":"AI Engineer"}`, string(env.Data))
}

func TestClientObserveRoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := newHarness(t)
	defer h.close(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	entries, err := h.client.Observe(ctx, []string{"about"}, reveal.Options{Threshold: 0.1, RootMargin: "-50px"})
	require.NoError(t, err)

	env := h.read(t)
	require.Equal(t, TypeObserve, env.Type)
	var obs ObserveMessage
	require.NoError(t, json.Unmarshal(env.Data, &obs))
	assert.Equal(t, []string{"about"}, obs.Targets)
	assert.Equal(t, 0.1, obs.Threshold)
	assert.Equal(t, "-50px", obs.RootMargin)

	h.write(t, TypeIntersect, IntersectMessage{
		ID:      obs.ID,
		Entries: []reveal.Entry{{Target: "about", Ratio: 0.4, Intersecting: true}},
	})

	select {
	case batch := <-entries:
		assert.Equal(t, []reveal.Entry{{Target: "about", Ratio: 0.4, Intersecting: true}}, batch)
	case <-time.After(2 * time.Second):
		t.Fatal("no entries delivered")
	}

	cancel()
	env = h.read(t)
	assert.Equal(t, TypeUnobserve, env.Type)
	assert.JSONEq(t, `{"id":"`+obs.ID+`"}`, string(env.Data))

	_, open := <-entries
	assert.False(t, open)
}

func TestClientObserveValidation(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := newHarness(t)

	_, err := h.client.Observe(context.Background(), nil, reveal.Options{})
	assert.ErrorIs(t, err, reveal.ErrNoTarget)

	h.close(t)
	_, err = h.client.Observe(context.Background(), []string{"about"}, reveal.Options{})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestClientRoutesPageEvents(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := newHarness(t)
	defer h.close(t)

	h.write(t, TypeScroll, ScrollMessage{Y: 120})
	h.write(t, TypeMenu, MenuMessage{Open: true})
	require.NoError(t, h.browser.WriteMessage(websocket.TextMessage, []byte(`{"type":"bogus"}`)))
	require.NoError(t, h.browser.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	h.write(t, TypeScroll, ScrollMessage{Y: 0})

	assert.Eventually(t, func() bool {
		scroll, _ := h.handler.snapshot()
		return len(scroll) == 2
	}, 2*time.Second, 5*time.Millisecond)

	scroll, menu := h.handler.snapshot()
	assert.Equal(t, []float64{120, 0}, scroll)
	assert.Equal(t, []bool{true}, menu)
}

func TestClientCloseReleasesObservations(t *testing.T) {
	defer goleak.VerifyNone(t)
	h := newHarness(t)

	entries, err := h.client.Observe(context.Background(), []string{"skills"}, reveal.Options{Threshold: 0.1})
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return h.hub.Count() == 1 }, time.Second, 5*time.Millisecond)

	h.close(t)

	select {
	case _, open := <-entries:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("observation not released")
	}
}

func TestClientObserveWaitsForSendBuffer(t *testing.T) {
	defer goleak.VerifyNone(t)
	logger.Discard()

	c := NewClient(nil, nil, uuid.New(), nil)
	for i := 0; i < sendBuffer; i++ {
		c.Emit(TypeUnobserve, UnobserveMessage{ID: "filler"})
	}
	require.Len(t, c.send, sendBuffer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type observed struct {
		ch  <-chan []reveal.Entry
		err error
	}
	result := make(chan observed, 1)
	go func() {
		ch, err := c.Observe(ctx, []string{"about"}, reveal.Options{Threshold: 0.1})
		result <- observed{ch, err}
	}()

	select {
	case <-result:
		t.Fatal("observe returned while the send buffer was full")
	case <-time.After(50 * time.Millisecond):
	}

	<-c.send
	var got observed
	select {
	case got = <-result:
	case <-time.After(2 * time.Second):
		t.Fatal("observe never queued its request")
	}
	require.NoError(t, got.err)
	require.NotNil(t, got.ch)

	var last []byte
	for len(c.send) > 0 {
		last = <-c.send
	}
	var env Envelope
	require.NoError(t, json.Unmarshal(last, &env))
	assert.Equal(t, TypeObserve, env.Type)

	cancel()
	_, ok := <-got.ch
	assert.False(t, ok)
}

func TestClientObserveGivesUpWhenContextEnds(t *testing.T) {
	defer goleak.VerifyNone(t)
	logger.Discard()

	c := NewClient(nil, nil, uuid.New(), nil)
	for i := 0; i < sendBuffer; i++ {
		c.Emit(TypeUnobserve, UnobserveMessage{ID: "filler"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ch, err := c.Observe(ctx, []string{"about"}, reveal.Options{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, ch)

	c.mu.Lock()
	assert.Empty(t, c.subs)
	c.mu.Unlock()
}
