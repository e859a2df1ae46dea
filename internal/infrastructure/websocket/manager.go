package websocket

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"campuscloset/internal/usecase"
	"campuscloset/pkg/logger"
)

// Client is one authenticated WebSocket connection. Each joined conversation
// holds a live-feed subscription; all of them are cancelled when the
// connection goes away.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	mu         sync.Mutex
	sendClosed bool
	convSub    *usecase.Subscription
	msgSubs    map[string]*usecase.Subscription
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID:  userID,
		Conn:    conn,
		Send:    make(chan []byte, 64),
		msgSubs: make(map[string]*usecase.Subscription),
	}
}

// enqueue hands a payload to WritePump. It reports false when the send
// buffer is full. A cancelled feed subscription can still fire one last
// callback after disconnect, so the send and the close of the channel are
// both serialized under mu; once closed, payloads are dropped quietly.
func (c *Client) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sendClosed {
		return true
	}

	select {
	case c.Send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sendClosed {
		return
	}
	c.sendClosed = true
	close(c.Send)
}

func (c *Client) trackMessageSub(conversationID string, sub *usecase.Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.msgSubs[conversationID]; ok {
		old.Cancel()
	}
	c.msgSubs[conversationID] = sub
}

func (c *Client) dropMessageSub(conversationID string) {
	c.mu.Lock()
	sub, ok := c.msgSubs[conversationID]
	delete(c.msgSubs, conversationID)
	c.mu.Unlock()

	if ok {
		sub.Cancel()
	}
}

func (c *Client) cancelAll() {
	c.mu.Lock()
	subs := make([]*usecase.Subscription, 0, len(c.msgSubs)+1)
	if c.convSub != nil {
		subs = append(subs, c.convSub)
		c.convSub = nil
	}
	for _, sub := range c.msgSubs {
		subs = append(subs, sub)
	}
	c.msgSubs = make(map[string]*usecase.Subscription)
	c.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}

// Manager tracks active connections and conversation room membership. Live
// message delivery flows from storage snapshots through the messaging
// use case into each joined client; the manager itself never pushes on send.
type Manager struct {
	messaging *usecase.MessagingUseCase

	clients map[string]*Client
	rooms   map[string]map[string]bool
	mutex   sync.RWMutex
}

func NewManager(messaging *usecase.MessagingUseCase) *Manager {
	return &Manager{
		messaging: messaging,
		clients:   make(map[string]*Client),
		rooms:     make(map[string]map[string]bool),
	}
}

// RegisterClient adds the connection and opens the user's conversation feed
// so their inbox updates in real time.
func (m *Manager) RegisterClient(ctx context.Context, client *Client) {
	m.mutex.Lock()
	if old, ok := m.clients[client.UserID]; ok {
		old.cancelAll()
		old.closeSend()
	}
	m.clients[client.UserID] = client
	m.mutex.Unlock()

	sub, err := m.messaging.SubscribeToConversations(ctx, client.UserID, func(conv *usecase.ConversationResponse) {
		m.sendFrame(client, Frame{Type: FrameConversationUpdate, Data: conv})
	})
	if err != nil {
		logger.Warn("WebSocket: conversation feed unavailable for %s: %v", client.UserID, err)
	} else {
		client.mu.Lock()
		client.convSub = sub
		client.mu.Unlock()
	}

	logger.Info("WebSocket: client registered: %s", client.UserID)
}

func (m *Manager) UnregisterClient(client *Client) {
	client.cancelAll()

	m.mutex.Lock()
	if current, ok := m.clients[client.UserID]; ok && current == client {
		delete(m.clients, client.UserID)
	}
	for _, members := range m.rooms {
		delete(members, client.UserID)
	}
	m.mutex.Unlock()

	client.closeSend()

	logger.Info("WebSocket: client unregistered: %s", client.UserID)
}

func (m *Manager) addToRoom(conversationID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.rooms[conversationID] == nil {
		m.rooms[conversationID] = make(map[string]bool)
	}
	m.rooms[conversationID][userID] = true
}

func (m *Manager) removeFromRoom(conversationID, userID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.rooms[conversationID], userID)
}

// broadcastToRoomExcept fans a frame out to every room member but the
// originator. Used for typing indicators and read receipts.
func (m *Manager) broadcastToRoomExcept(conversationID, exceptUserID string, frame Frame) {
	m.mutex.RLock()
	var targets []*Client
	for userID := range m.rooms[conversationID] {
		if userID == exceptUserID {
			continue
		}
		if client, ok := m.clients[userID]; ok {
			targets = append(targets, client)
		}
	}
	m.mutex.RUnlock()

	for _, client := range targets {
		m.sendFrame(client, frame)
	}
}

// ReadPump reads frames from the connection until it closes.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.UnregisterClient(c)
		c.Conn.Close()
	}()

	for {
		_, payload, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket: read error from %s: %v", c.UserID, err)
			}
			break
		}

		m.HandleClientFrame(c, payload)
	}
}

// WritePump drains the send channel onto the connection.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		payload, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Warn("WebSocket: write error to %s: %v", c.UserID, err)
			return
		}
	}
}
