// Package broadcast pushes parcel lifecycle events to live websocket
// subscribers: tracking pages following one parcel and back-office dashboards
// following everything.
package broadcast

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"parcelflow/internal/notifications"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds one write to a subscriber socket.
	writeWait = 10 * time.Second

	// sendBuffer is the per-subscriber queue; a subscriber that falls this
	// far behind is dropped rather than slowing the fan-out.
	sendBuffer = 16
)

// eventMessage is the wire shape pushed to subscribers.
type eventMessage struct {
	Kind           string    `json:"kind"`
	TrackingNumber string    `json:"trackingNumber"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previousStatus,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// subscriber is one connected websocket client, optionally filtered to a
// single tracking number.
type subscriber struct {
	conn           *websocket.Conn
	send           chan []byte
	trackingNumber string
}

// Hub implements notifications.Broadcaster over websocket connections.
// Subscribers register through Serve; Broadcast fans a committed event out to
// every subscriber whose filter matches. Delivery is best-effort per
// subscriber, matching the rest of the notification fan-out.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

// NewHub creates an empty broadcast hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "broadcast")),
	}
}

// Serve upgrades the request to a websocket subscription. An empty
// trackingNumber subscribes to every event; otherwise only events for that
// tracking number are delivered. Serve returns once the upgrade is done; the
// connection lives on its own goroutines until the peer disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, trackingNumber string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	sub := &subscriber{
		conn:           conn,
		send:           make(chan []byte, sendBuffer),
		trackingNumber: trackingNumber,
	}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	go h.writePump(sub)
	go h.readPump(sub)
	return nil
}

// Broadcast fans the event out to every matching subscriber. Subscribers with
// a full queue are dropped; Broadcast itself never blocks on a slow peer.
func (h *Hub) Broadcast(_ context.Context, event notifications.ParcelEvent) error {
	payload, err := json.Marshal(eventMessage{
		Kind:           event.Kind,
		TrackingNumber: event.TrackingNumber,
		Status:         event.Status,
		PreviousStatus: event.PreviousStatus,
		OccurredAt:     event.OccurredAt,
	})
	if err != nil {
		return err
	}

	h.mu.RLock()
	var stalled []*subscriber
	for sub := range h.subscribers {
		if sub.trackingNumber != "" && sub.trackingNumber != event.TrackingNumber {
			continue
		}
		select {
		case sub.send <- payload:
		default:
			stalled = append(stalled, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range stalled {
		h.logger.Warn("dropping stalled subscriber",
			slog.String("remote_addr", sub.conn.RemoteAddr().String()))
		h.remove(sub)
	}

	return nil
}

// SubscriberCount returns the number of live subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		h.remove(sub)
	}
}

func (h *Hub) writePump(sub *subscriber) {
	for payload := range sub.send {
		_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := sub.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(sub)
			return
		}
	}
}

func (h *Hub) readPump(sub *subscriber) {
	// Subscribers never send application data; the read loop exists to
	// notice the peer closing.
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			h.remove(sub)
			return
		}
	}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[sub]
	if ok {
		delete(h.subscribers, sub)
		close(sub.send)
	}
	h.mu.Unlock()

	if ok {
		_ = sub.conn.Close()
	}
}
