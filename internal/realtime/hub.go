package realtime

import (
	"context"
	"encoding/json"
	"studyforge_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const pubsubChannel = "artifact_events"

// Hub fans artifact events out to the owning user's connected websocket
// clients. With redis configured, events travel through pub/sub so every
// instance behind a load balancer sees them; without it the hub delivers
// in-process only.
type Hub struct {
	clients    map[uint]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	events     chan ArtifactEvent
	rdb        *redis.Client
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewHub(rdb *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uint]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan ArtifactEvent, 64),
		rdb:        rdb,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// PublishArtifact routes an event to subscribers. Through redis when
// available, otherwise straight into the local delivery loop. Delivery is
// best-effort: a lost event only delays the client view until the next one.
func (h *Hub) PublishArtifact(ev ArtifactEvent) {
	if h.rdb != nil {
		data, err := json.Marshal(ev)
		if err != nil {
			logger.Log.Error("event marshal error", zap.Error(err))
			return
		}
		if err := h.rdb.Publish(h.ctx, pubsubChannel, data).Err(); err != nil {
			logger.Log.Error("event publish error", zap.Error(err))
		}
		return
	}

	select {
	case h.events <- ev:
	case <-h.ctx.Done():
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		pubsub := h.rdb.Subscribe(h.ctx, pubsubChannel)
		go func() {
			defer pubsub.Close()
			ch := pubsub.Channel()
			for msg := range ch {
				var ev ArtifactEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					logger.Log.Error("event unmarshal error", zap.Error(err))
					continue
				}
				select {
				case h.events <- ev:
				case <-h.ctx.Done():
					return
				}
			}
		}()
	}

	for {
		select {
		case client := <-h.register:
			conns, ok := h.clients[client.userID]
			if !ok {
				conns = make(map[*Client]bool)
				h.clients[client.userID] = conns
			}
			conns[client] = true

		case client := <-h.unregister:
			if conns, ok := h.clients[client.userID]; ok {
				if conns[client] {
					delete(conns, client)
					close(client.send)
					if len(conns) == 0 {
						delete(h.clients, client.userID)
					}
				}
			}

		case ev := <-h.events:
			h.deliver(ev)

		case <-h.ctx.Done():
			for _, conns := range h.clients {
				for client := range conns {
					close(client.send)
				}
			}
			return
		}
	}
}

func (h *Hub) Stop() {
	h.cancel()
}

func (h *Hub) deliver(ev ArtifactEvent) {
	if ev.Record == nil {
		return
	}
	conns, ok := h.clients[ev.Record.OwnerID]
	if !ok {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Log.Error("event marshal error", zap.Error(err))
		return
	}
	for client := range conns {
		select {
		case client.send <- data:
		default:
			// Slow consumer; drop it rather than blocking the loop.
			delete(conns, client)
			close(client.send)
		}
	}
}
