package entity

import "time"

const (
	MessageTypeText          = "text"
	MessageTypeSystem        = "system"
	MessageTypeRentalRequest = "rental_request"
	MessageTypeRentalUpdate  = "rental_update"
)

type Message struct {
	ID             string                 `json:"id" firestore:"id"`
	ConversationID string                 `json:"conversation_id" firestore:"conversationId"`
	SenderID       string                 `json:"sender_id" firestore:"senderId"`
	Content        string                 `json:"content" firestore:"content"`
	Type           string                 `json:"type" firestore:"type"`
	Metadata       map[string]interface{} `json:"metadata,omitempty" firestore:"metadata,omitempty"`
	ReadBy         map[string]bool        `json:"read_by" firestore:"readBy"`
	CreatedAt      time.Time              `json:"created_at" firestore:"createdAt"`
}
