package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"workspace-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

type HubOption func(*Hub)

// WithConnectionHooks lets callers track connection counts.
func WithConnectionHooks(onConnect, onDisconnect func()) HubOption {
	return func(h *Hub) {
		h.onConnect = onConnect
		h.onDisconnect = onDisconnect
	}
}

// Hub fans serialized events out to every connected client. With Redis
// configured, broadcasts are relayed to the other instances as well.
type Hub struct {
	clients map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	// done is closed once Run returns.
	done chan struct{}

	mu sync.RWMutex

	// rdb is nil for single-instance deployments.
	rdb        *redis.Client
	instanceId string

	onConnect    func()
	onDisconnect func()

	logger logger.ILogger
}

type clusterMessage struct {
	Origin  string          `json:"origin"`
	Message json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger, opts ...HubOption) *Hub {
	h := &Hub{
		clients:      make(map[*Client]struct{}),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		done:         make(chan struct{}),
		rdb:          rdb,
		instanceId:   uuid.NewString(),
		onConnect:    func() {},
		onDisconnect: func() {},
		logger:       log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
			h.onConnect()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserId})

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.clients[client]
			if ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			if ok {
				h.onDisconnect()
				h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"user_id": client.UserId})
			}

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// add hands c to the run loop. It reports false once the hub has stopped.
func (h *Hub) add(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) remove(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast delivers data to local clients and relays it to other instances.
func (h *Hub) Broadcast(data []byte) {
	h.deliverLocal(data)

	if h.rdb != nil {
		payload, err := json.Marshal(clusterMessage{Origin: h.instanceId, Message: data})
		if err != nil {
			h.logger.Error("Hub", "Failed to encode cluster message", map[string]interface{}{"error": err})
			return
		}
		if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to relay broadcast", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) deliverLocal(data []byte) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients {
		select {
		case client.Send <- data:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range slow {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": client.UserId})
		go h.remove(client)
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleClusterPayload([]byte(msg.Payload))
		}
	}
}

func (h *Hub) handleClusterPayload(raw []byte) {
	var payload clusterMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		h.logger.Warn("Hub", "Malformed cluster message", map[string]interface{}{"error": err.Error()})
		return
	}
	if payload.Origin == h.instanceId {
		return
	}
	h.deliverLocal(payload.Message)
}
