package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/Zachkp/portfolio/internal/goroutine"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/reveal"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024
	sendBuffer     = 64
	entryBuffer    = 16
)

// Message types.
const (
	TypeObserve   = "observe"
	TypeUnobserve = "unobserve"
	TypeIntersect = "intersect"
	TypeScroll    = "scroll"
	TypeMenu      = "menu"
)

// ErrClosed is returned by Observe on a closed connection.
var ErrClosed = errors.New("ws: connection closed")

// Envelope is every message on the wire in both directions.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ObserveMessage asks the browser to watch targets.
type ObserveMessage struct {
	ID         string   `json:"id"`
	Targets    []string `json:"targets"`
	Threshold  float64  `json:"threshold"`
	RootMargin string   `json:"root_margin,omitempty"`
}

type UnobserveMessage struct {
	ID string `json:"id"`
}

// IntersectMessage carries the entries the browser saw for one observation.
type IntersectMessage struct {
	ID      string         `json:"id"`
	Entries []reveal.Entry `json:"entries"`
}

type ScrollMessage struct {
	Y float64 `json:"y"`
}

type MenuMessage struct {
	Open bool `json:"open"`
}

// Handler receives the page events a browser reports.
type Handler interface {
	HandleScroll(y float64)
	HandleMenu(open bool)
}

type subscription struct {
	targets []string
	ch      chan []reveal.Entry
}

// Client is one browser connection of a page session. It implements
// reveal.Observer by forwarding observations to the browser.
type Client struct {
	conn      *websocket.Conn
	hub       *Hub
	sessionID uuid.UUID
	handler   Handler
	send      chan []byte

	mu     sync.Mutex
	subs   map[string]*subscription
	nextID int

	closeOnce sync.Once
	closed    chan struct{}
}

func NewClient(conn *websocket.Conn, hub *Hub, sessionID uuid.UUID, handler Handler) *Client {
	return &Client{
		conn:      conn,
		hub:       hub,
		sessionID: sessionID,
		handler:   handler,
		send:      make(chan []byte, sendBuffer),
		subs:      make(map[string]*subscription),
		closed:    make(chan struct{}),
	}
}

func (c *Client) SessionID() uuid.UUID {
	return c.sessionID
}

// Run pumps messages until the browser goes away or ctx is done.
func (c *Client) Run(ctx context.Context) {
	goroutine.SafeGo(c.writePump)
	goroutine.SafeGo(func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-c.closed:
		}
	})
	c.readPump()
	c.Close()
	if c.hub != nil {
		c.hub.Unregister(c)
	}
}

// Close shuts the connection. Pending observations are closed.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.conn.Close()
	})
}

// Closed is closed once the connection is gone.
func (c *Client) Closed() <-chan struct{} {
	return c.closed
}

func encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("ws: encode %s: %w", event, err)
	}
	return json.Marshal(Envelope{Type: event, Data: raw})
}

// Emit queues an event for the browser. Events are dropped when the browser
// cannot keep up.
func (c *Client) Emit(event string, data any) {
	payload, err := encode(event, data)
	if err != nil {
		logger.Log.WithError(err).WithField("type", event).Error("Failed to encode page event")
		return
	}

	select {
	case <-c.closed:
		return
	default:
	}
	select {
	case c.send <- payload:
	default:
		logger.Log.WithFields(logrus.Fields{
			"session_id": c.sessionID,
			"type":       event,
		}).Warn("Dropping page event, send buffer full")
	}
}

// deliver queues a message that must reach the browser, waiting for room in
// the send buffer until ctx is done or the connection closes.
func (c *Client) deliver(ctx context.Context, event string, data any) error {
	payload, err := encode(event, data)
	if err != nil {
		return err
	}
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}
	select {
	case c.send <- payload:
		return nil
	case <-c.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Observe asks the browser to watch targets and delivers its reports until ctx
// is done or the connection closes. The request itself is never dropped: it
// waits for the send buffer to drain.
func (c *Client) Observe(ctx context.Context, targets []string, opts reveal.Options) (<-chan []reveal.Entry, error) {
	if len(targets) == 0 {
		return nil, reveal.ErrNoTarget
	}

	c.mu.Lock()
	select {
	case <-c.closed:
		c.mu.Unlock()
		return nil, ErrClosed
	default:
	}
	c.nextID++
	id := "o" + strconv.Itoa(c.nextID)
	sub := &subscription{
		targets: slices.Clone(targets),
		ch:      make(chan []reveal.Entry, entryBuffer),
	}
	c.subs[id] = sub
	c.mu.Unlock()

	err := c.deliver(ctx, TypeObserve, ObserveMessage{
		ID:         id,
		Targets:    sub.targets,
		Threshold:  opts.Threshold,
		RootMargin: opts.RootMargin,
	})
	if err != nil {
		c.release(id)
		return nil, err
	}

	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		select {
		case <-ctx.Done():
			c.release(id)
			c.Emit(TypeUnobserve, UnobserveMessage{ID: id})
		case <-c.closed:
			c.release(id)
		}
	})
	return sub.ch, nil
}

func (c *Client) release(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sub, ok := c.subs[id]; ok {
		delete(c.subs, id)
		close(sub.ch)
	}
}

// dispatch hands entries to their observation without blocking the read loop.
func (c *Client) dispatch(msg IntersectMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	sub, ok := c.subs[msg.ID]
	if !ok || len(msg.Entries) == 0 {
		return
	}
	select {
	case sub.ch <- msg.Entries:
	default:
		logger.Log.WithFields(logrus.Fields{
			"session_id":     c.sessionID,
			"observation_id": msg.ID,
		}).Warn("Dropping intersection report, observer is behind")
	}
}

func (c *Client) handle(raw []byte) error {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("ws: decode envelope: %w", err)
	}

	switch env.Type {
	case TypeIntersect:
		var msg IntersectMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			return fmt.Errorf("ws: decode %s: %w", env.Type, err)
		}
		c.dispatch(msg)
	case TypeScroll:
		var msg ScrollMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			return fmt.Errorf("ws: decode %s: %w", env.Type, err)
		}
		if c.handler != nil {
			c.handler.HandleScroll(msg.Y)
		}
	case TypeMenu:
		var msg MenuMessage
		if err := json.Unmarshal(env.Data, &msg); err != nil {
			return fmt.Errorf("ws: decode %s: %w", env.Type, err)
		}
		if c.handler != nil {
			c.handler.HandleMenu(msg.Open)
		}
	default:
		return fmt.Errorf("ws: unknown message type %q", env.Type)
	}
	return nil
}

func (c *Client) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.WithError(err).WithField("session_id", c.sessionID).Debug("Page connection closed unexpectedly")
			}
			return
		}
		if err := c.handle(raw); err != nil {
			logger.Log.WithError(err).WithField("session_id", c.sessionID).Debug("Ignoring page message")
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.closed:
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
