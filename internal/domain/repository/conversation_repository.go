package repository

import (
	"context"
	"time"

	"campuscloset/internal/domain/entity"
)

// CancelFunc stops a live feed and releases its channel. Safe to call more
// than once.
type CancelFunc func()

type ConversationRepository interface {
	// Create persists the conversation and both participant rows in one
	// atomic unit. Returns a CONFLICT error when the (item, owner, renter)
	// triple already has a thread.
	Create(ctx context.Context, conv *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	// ListByUserID returns conversations where the user is owner or renter,
	// most recent activity first.
	ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error)
	Delete(ctx context.Context, id string) error
	// DeleteByItemID removes every conversation referencing the item,
	// including messages and participant rows. Part of the item-delete cascade.
	DeleteByItemID(ctx context.Context, itemID string) error

	// CreateMessage persists the message and advances the parent
	// conversation's lastMessageAt/updatedAt in the same atomic unit.
	CreateMessage(ctx context.Context, message *entity.Message) error
	GetMessageByID(ctx context.Context, conversationID, messageID string) (*entity.Message, error)
	UpdateMessage(ctx context.Context, message *entity.Message) error
	// ListMessages returns the transcript in ascending creation-time order.
	ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error)
	LatestMessage(ctx context.Context, conversationID string) (*entity.Message, error)
	// CountUnread counts messages authored by someone other than userID and
	// created after the given read pointer.
	CountUnread(ctx context.Context, conversationID, userID string, after time.Time) (int, error)

	GetParticipant(ctx context.Context, conversationID, userID string) (*entity.ConversationParticipant, error)
	SetParticipantLastRead(ctx context.Context, conversationID, userID string, at time.Time) error

	// ListenMessages invokes fn for every message inserted into the
	// conversation until the returned CancelFunc is called.
	ListenMessages(ctx context.Context, conversationID string, fn func(*entity.Message)) (CancelFunc, error)
	// ListenUserConversations invokes fn for every insert or update of a
	// conversation the user participates in.
	ListenUserConversations(ctx context.Context, userID string, fn func(*entity.Conversation)) (CancelFunc, error)
}
