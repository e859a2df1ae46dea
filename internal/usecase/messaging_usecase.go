package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"campuscloset/internal/domain/entity"
	"campuscloset/internal/domain/repository"
	"campuscloset/internal/domain/service"
	"campuscloset/pkg/errors"
	"campuscloset/pkg/logger"
)

// MessagingUseCase mediates conversation lookup/creation, message send/fetch,
// read tracking and live feeds. It is constructed once in main and passed to
// its consumers; Cleanup releases every live feed it still holds.
type MessagingUseCase struct {
	convRepo repository.ConversationRepository
	userRepo repository.UserRepository
	itemRepo repository.ItemRepository
	policy   *service.AccessPolicy

	mu   sync.Mutex
	subs map[string]repository.CancelFunc
}

func NewMessagingUseCase(
	convRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	itemRepo repository.ItemRepository,
	policy *service.AccessPolicy,
) *MessagingUseCase {
	return &MessagingUseCase{
		convRepo: convRepo,
		userRepo: userRepo,
		itemRepo: itemRepo,
		policy:   policy,
		subs:     make(map[string]repository.CancelFunc),
	}
}

type GetOrCreateConversationInput struct {
	ItemID   string
	RenterID string // defaults to the caller when empty
}

type SendMessageInput struct {
	ConversationID string
	Content        string
	Type           string // "text", "system", "rental_request", "rental_update"
	Metadata       map[string]interface{}
}

type ConversationResponse struct {
	*entity.Conversation
	Item        *entity.ClothingItem `json:"item,omitempty"`
	OtherUser   *entity.User         `json:"other_user,omitempty"`
	LastMessage *MessageResponse     `json:"last_message,omitempty"`
	UnreadCount int                  `json:"unread_count"`
}

type MessageResponse struct {
	*entity.Message
	Sender *entity.User `json:"sender,omitempty"`
}

// Subscription is a live-feed handle. Cancel stops delivery and releases the
// underlying channel; it is safe to call more than once.
type Subscription struct {
	id     string
	cancel func()
}

func (s *Subscription) Cancel() {
	s.cancel()
}

// GetOrCreateConversation resolves the unique thread for the item between its
// owner and the renter, creating it on first contact. Safe under concurrent
// calls by both parties: the storage key is the final arbiter, and a
// duplicate-create is resolved by re-fetching, never surfaced as a failure.
func (uc *MessagingUseCase) GetOrCreateConversation(ctx context.Context, userID string, input GetOrCreateConversationInput) (*ConversationResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, input.ItemID)
	if err != nil {
		logger.Error("GetOrCreateConversation: item %s not found: %v", input.ItemID, err)
		return nil, errors.NotFound("Item", err)
	}

	renterID := input.RenterID
	if renterID == "" {
		renterID = userID
	}
	if renterID == item.OwnerID {
		return nil, errors.BadRequest("You cannot open a conversation about your own item", nil)
	}

	conv := &entity.Conversation{
		ID:       entity.ConversationKey(item.ID, item.OwnerID, renterID),
		ItemID:   item.ID,
		OwnerID:  item.OwnerID,
		RenterID: renterID,
	}

	if !uc.policy.Allow(userID, conv, service.ActionCreate) {
		return nil, errors.Forbidden("You are not a party to this conversation", nil)
	}

	existing, err := uc.convRepo.GetByID(ctx, conv.ID)
	if err == nil {
		return uc.hydrateConversation(ctx, existing, userID), nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		logger.Error("GetOrCreateConversation: lookup failed for %s: %v", conv.ID, err)
		return nil, err
	}

	if err := uc.convRepo.Create(ctx, conv); err != nil {
		// The other party won the race; their row is ours too.
		if errors.Is(err, "CONFLICT") {
			existing, ferr := uc.convRepo.GetByID(ctx, conv.ID)
			if ferr != nil {
				logger.Error("GetOrCreateConversation: re-fetch after conflict failed for %s: %v", conv.ID, ferr)
				return nil, ferr
			}
			return uc.hydrateConversation(ctx, existing, userID), nil
		}
		logger.Error("GetOrCreateConversation: create failed for %s: %v", conv.ID, err)
		return nil, err
	}

	return uc.hydrateConversation(ctx, conv, userID), nil
}

// GetUserConversations lists the caller's threads, most recent activity
// first, each enriched with the latest message, the counterparty, the item
// and an unread count. A transport failure degrades to an empty list with a
// logged diagnostic instead of an error.
func (uc *MessagingUseCase) GetUserConversations(ctx context.Context, userID string) ([]*ConversationResponse, error) {
	convs, err := uc.convRepo.ListByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, "SERVICE_UNAVAILABLE") {
			logger.Warn("GetUserConversations: storage unavailable for user %s: %v", userID, err)
			return []*ConversationResponse{}, nil
		}
		logger.Error("GetUserConversations: failed for user %s: %v", userID, err)
		return nil, err
	}

	responses := make([]*ConversationResponse, 0, len(convs))
	for _, conv := range convs {
		responses = append(responses, uc.hydrateConversation(ctx, conv, userID))
	}

	return responses, nil
}

// GetMessages returns the full transcript in ascending creation-time order.
// A caller who is not a participant observes the same NOT_FOUND as a thread
// that does not exist.
func (uc *MessagingUseCase) GetMessages(ctx context.Context, userID, conversationID string) ([]*MessageResponse, error) {
	conv, err := uc.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if !uc.policy.Allow(userID, service.MessageResource{Conversation: conv}, service.ActionRead) {
		return nil, errors.NotFound("Conversation", nil)
	}

	messages, err := uc.convRepo.ListMessages(ctx, conversationID)
	if err != nil {
		logger.Error("GetMessages: failed for conversation %s: %v", conversationID, err)
		return nil, err
	}

	responses := make([]*MessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, uc.hydrateMessage(ctx, message))
	}

	return responses, nil
}

func (uc *MessagingUseCase) GetConversation(ctx context.Context, userID, conversationID string) (*ConversationResponse, error) {
	conv, err := uc.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if !uc.policy.Allow(userID, conv, service.ActionRead) {
		return nil, errors.NotFound("Conversation", nil)
	}

	return uc.hydrateConversation(ctx, conv, userID), nil
}

// SendMessage inserts a message; the parent conversation's activity
// timestamps advance in the same atomic unit at the storage layer.
func (uc *MessagingUseCase) SendMessage(ctx context.Context, userID string, input SendMessageInput) (*MessageResponse, error) {
	conv, err := uc.convRepo.GetByID(ctx, input.ConversationID)
	if err != nil {
		logger.Error("SendMessage: conversation %s not found: %v", input.ConversationID, err)
		return nil, err
	}

	messageType := input.Type
	if messageType == "" {
		messageType = entity.MessageTypeText
	}

	message := &entity.Message{
		ConversationID: input.ConversationID,
		SenderID:       userID,
		Content:        input.Content,
		Type:           messageType,
		Metadata:       input.Metadata,
		ReadBy:         map[string]bool{userID: true},
		CreatedAt:      time.Now(),
	}

	if !uc.policy.Allow(userID, service.MessageResource{Conversation: conv, Message: message}, service.ActionCreate) {
		logger.Warn("SendMessage: user %s is not a participant in conversation %s", userID, input.ConversationID)
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}

	if err := uc.convRepo.CreateMessage(ctx, message); err != nil {
		logger.Error("SendMessage: failed to persist message in conversation %s: %v", input.ConversationID, err)
		return nil, err
	}

	return uc.hydrateMessage(ctx, message), nil
}

// EditMessage replaces the content of a message. Only the original sender
// may edit; no edit history is retained.
func (uc *MessagingUseCase) EditMessage(ctx context.Context, userID, conversationID, messageID, content string) (*MessageResponse, error) {
	conv, err := uc.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !uc.policy.Allow(userID, conv, service.ActionRead) {
		return nil, errors.NotFound("Conversation", nil)
	}

	message, err := uc.convRepo.GetMessageByID(ctx, conversationID, messageID)
	if err != nil {
		return nil, err
	}

	if !uc.policy.Allow(userID, service.MessageResource{Conversation: conv, Message: message}, service.ActionUpdate) {
		return nil, errors.Forbidden("Only the sender can edit a message", nil)
	}

	message.Content = content
	if err := uc.convRepo.UpdateMessage(ctx, message); err != nil {
		logger.Error("EditMessage: failed to update message %s: %v", messageID, err)
		return nil, err
	}

	return uc.hydrateMessage(ctx, message), nil
}

// MarkAsRead advances the caller's read pointer to now. Idempotent; the
// pointer never moves backward because the current time is always supplied.
func (uc *MessagingUseCase) MarkAsRead(ctx context.Context, userID, conversationID string) error {
	conv, err := uc.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}

	if !uc.policy.Allow(userID, service.ParticipantResource{Conversation: conv, UserID: userID}, service.ActionUpdate) {
		return errors.Forbidden("You cannot update another user's read state", nil)
	}

	if err := uc.convRepo.SetParticipantLastRead(ctx, conversationID, userID, time.Now()); err != nil {
		logger.Error("MarkAsRead: failed for user %s in conversation %s: %v", userID, conversationID, err)
		return err
	}

	return nil
}

// SubscribeToMessages opens a live feed of new messages in the conversation.
// The callback receives each message hydrated with its sender, asynchronously
// with respect to the insert. Live delivery and a concurrent transcript fetch
// may overlap; consumers de-duplicate by message ID.
func (uc *MessagingUseCase) SubscribeToMessages(ctx context.Context, conversationID string, callback func(*MessageResponse)) (*Subscription, error) {
	cancel, err := uc.convRepo.ListenMessages(ctx, conversationID, func(message *entity.Message) {
		callback(uc.hydrateMessage(ctx, message))
	})
	if err != nil {
		logger.Error("SubscribeToMessages: failed for conversation %s: %v", conversationID, err)
		return nil, err
	}

	return uc.register(cancel), nil
}

// SubscribeToConversations opens a live feed of conversation inserts and
// updates for threads the user participates in.
func (uc *MessagingUseCase) SubscribeToConversations(ctx context.Context, userID string, callback func(*ConversationResponse)) (*Subscription, error) {
	cancel, err := uc.convRepo.ListenUserConversations(ctx, userID, func(conv *entity.Conversation) {
		callback(uc.hydrateConversation(ctx, conv, userID))
	})
	if err != nil {
		logger.Error("SubscribeToConversations: failed for user %s: %v", userID, err)
		return nil, err
	}

	return uc.register(cancel), nil
}

// Cleanup cancels every live feed still held by this instance. Safe to call
// repeatedly.
func (uc *MessagingUseCase) Cleanup() {
	uc.mu.Lock()
	subs := uc.subs
	uc.subs = make(map[string]repository.CancelFunc)
	uc.mu.Unlock()

	for _, cancel := range subs {
		cancel()
	}
}

func (uc *MessagingUseCase) register(cancel repository.CancelFunc) *Subscription {
	id := uuid.New().String()

	uc.mu.Lock()
	uc.subs[id] = cancel
	uc.mu.Unlock()

	return &Subscription{
		id: id,
		cancel: func() {
			uc.mu.Lock()
			stored, ok := uc.subs[id]
			delete(uc.subs, id)
			uc.mu.Unlock()
			if ok {
				stored()
			}
		},
	}
}

func (uc *MessagingUseCase) hydrateMessage(ctx context.Context, message *entity.Message) *MessageResponse {
	resp := &MessageResponse{Message: message}

	if message.SenderID != "" {
		sender, err := uc.userRepo.GetByID(ctx, message.SenderID)
		if err == nil {
			resp.Sender = sender
		} else {
			logger.Warn("hydrateMessage: sender %s not found for message %s: %v", message.SenderID, message.ID, err)
		}
	}

	return resp
}

func (uc *MessagingUseCase) hydrateConversation(ctx context.Context, conv *entity.Conversation, viewerID string) *ConversationResponse {
	resp := &ConversationResponse{Conversation: conv}

	if item, err := uc.itemRepo.GetByID(ctx, conv.ItemID); err == nil {
		resp.Item = item
	} else {
		logger.Warn("hydrateConversation: item %s not found for conversation %s: %v", conv.ItemID, conv.ID, err)
	}

	otherID := conv.OwnerID
	if viewerID == conv.OwnerID {
		otherID = conv.RenterID
	}
	if other, err := uc.userRepo.GetByID(ctx, otherID); err == nil {
		resp.OtherUser = other
	} else {
		logger.Warn("hydrateConversation: user %s not found for conversation %s: %v", otherID, conv.ID, err)
	}

	if latest, err := uc.convRepo.LatestMessage(ctx, conv.ID); err == nil && latest != nil {
		resp.LastMessage = uc.hydrateMessage(ctx, latest)
	}

	participant, err := uc.convRepo.GetParticipant(ctx, conv.ID, viewerID)
	if err != nil {
		logger.Warn("hydrateConversation: participant %s missing in conversation %s: %v", viewerID, conv.ID, err)
		return resp
	}

	unread, err := uc.convRepo.CountUnread(ctx, conv.ID, viewerID, participant.LastReadAt)
	if err != nil {
		logger.Warn("hydrateConversation: unread count failed for conversation %s: %v", conv.ID, err)
		return resp
	}
	resp.UnreadCount = unread

	return resp
}
