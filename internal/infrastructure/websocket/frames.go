package websocket

import (
	"context"
	"encoding/json"
	"time"

	"campuscloset/internal/usecase"
	"campuscloset/pkg/logger"
)

const (
	FramePing               = "ping"
	FramePong               = "pong"
	FrameJoinRoom           = "join_room"
	FrameLeaveRoom          = "leave_room"
	FrameNewMessage         = "new_message"
	FrameConversationUpdate = "conversation_update"
	FrameTyping             = "typing"
	FrameMarkRead           = "mark_read"
	FrameReadReceipt        = "read_receipt"
	FrameError              = "error"
)

type Frame struct {
	Type           string      `json:"type"`
	ConversationID string      `json:"conversation_id,omitempty"`
	Data           interface{} `json:"data,omitempty"`
	Timestamp      string      `json:"timestamp,omitempty"`
}

type TypingData struct {
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
	Typing         bool   `json:"typing"`
}

type ReadReceiptData struct {
	ConversationID string `json:"conversation_id"`
	ReaderID       string `json:"reader_id"`
	ReadAt         string `json:"read_at"`
}

// HandleClientFrame dispatches one inbound frame. Message sending is not a
// socket concern; clients post through the REST API and receive the result
// here via the live feed.
func (m *Manager) HandleClientFrame(client *Client, payload []byte) {
	var frame Frame
	if err := json.Unmarshal(payload, &frame); err != nil {
		logger.Warn("WebSocket: bad frame from %s: %v", client.UserID, err)
		m.sendError(client, "Invalid frame format")
		return
	}

	switch frame.Type {
	case FramePing:
		m.sendFrame(client, Frame{Type: FramePong})

	case FrameJoinRoom:
		m.handleJoinRoom(client, frame)

	case FrameLeaveRoom:
		m.handleLeaveRoom(client, frame)

	case FrameTyping:
		m.handleTyping(client, frame)

	case FrameMarkRead:
		m.handleMarkRead(client, frame)

	default:
		logger.Warn("WebSocket: unknown frame type %q from %s", frame.Type, client.UserID)
		m.sendError(client, "Unknown frame type")
	}
}

// handleJoinRoom verifies the caller can see the conversation, then opens a
// message feed scoped to this connection. Joining again replaces the old
// feed.
func (m *Manager) handleJoinRoom(client *Client, frame Frame) {
	if frame.ConversationID == "" {
		m.sendError(client, "Missing conversation_id")
		return
	}

	ctx := context.Background()
	if _, err := m.messaging.GetConversation(ctx, client.UserID, frame.ConversationID); err != nil {
		logger.Warn("WebSocket: %s cannot join conversation %s: %v", client.UserID, frame.ConversationID, err)
		m.sendError(client, "Conversation not found")
		return
	}

	conversationID := frame.ConversationID
	sub, err := m.messaging.SubscribeToMessages(ctx, conversationID, func(message *usecase.MessageResponse) {
		m.sendFrame(client, Frame{
			Type:           FrameNewMessage,
			ConversationID: conversationID,
			Data:           message,
		})
	})
	if err != nil {
		m.sendError(client, "Could not open message feed")
		return
	}

	client.trackMessageSub(conversationID, sub)
	m.addToRoom(conversationID, client.UserID)

	logger.Info("WebSocket: %s joined conversation %s", client.UserID, conversationID)
}

func (m *Manager) handleLeaveRoom(client *Client, frame Frame) {
	if frame.ConversationID == "" {
		m.sendError(client, "Missing conversation_id")
		return
	}

	client.dropMessageSub(frame.ConversationID)
	m.removeFromRoom(frame.ConversationID, client.UserID)

	logger.Info("WebSocket: %s left conversation %s", client.UserID, frame.ConversationID)
}

// handleTyping relays a typing indicator to the other room members. Purely
// ephemeral; nothing is stored.
func (m *Manager) handleTyping(client *Client, frame Frame) {
	if frame.ConversationID == "" {
		m.sendError(client, "Missing conversation_id")
		return
	}

	typing := true
	if data, ok := frame.Data.(map[string]interface{}); ok {
		if v, ok := data["typing"].(bool); ok {
			typing = v
		}
	}

	m.broadcastToRoomExcept(frame.ConversationID, client.UserID, Frame{
		Type:           FrameTyping,
		ConversationID: frame.ConversationID,
		Data: TypingData{
			ConversationID: frame.ConversationID,
			UserID:         client.UserID,
			Typing:         typing,
		},
	})
}

// handleMarkRead advances the caller's read pointer and tells the other
// room members about it.
func (m *Manager) handleMarkRead(client *Client, frame Frame) {
	if frame.ConversationID == "" {
		m.sendError(client, "Missing conversation_id")
		return
	}

	if err := m.messaging.MarkAsRead(context.Background(), client.UserID, frame.ConversationID); err != nil {
		logger.Warn("WebSocket: mark_read failed for %s in %s: %v", client.UserID, frame.ConversationID, err)
		m.sendError(client, "Could not mark conversation as read")
		return
	}

	m.broadcastToRoomExcept(frame.ConversationID, client.UserID, Frame{
		Type:           FrameReadReceipt,
		ConversationID: frame.ConversationID,
		Data: ReadReceiptData{
			ConversationID: frame.ConversationID,
			ReaderID:       client.UserID,
			ReadAt:         time.Now().Format(time.RFC3339),
		},
	})
}

func (m *Manager) sendFrame(client *Client, frame Frame) {
	if frame.Timestamp == "" {
		frame.Timestamp = time.Now().Format(time.RFC3339)
	}

	payload, err := json.Marshal(frame)
	if err != nil {
		logger.Error("WebSocket: failed to marshal frame for %s: %v", client.UserID, err)
		return
	}

	if !client.enqueue(payload) {
		logger.Warn("WebSocket: send buffer full for %s, dropping connection", client.UserID)
		m.UnregisterClient(client)
	}
}

func (m *Manager) sendError(client *Client, message string) {
	m.sendFrame(client, Frame{
		Type: FrameError,
		Data: map[string]string{"error": message},
	})
}
