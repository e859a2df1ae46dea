package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"campuscloset/internal/domain/entity"
	"campuscloset/internal/domain/repository"
	"campuscloset/pkg/errors"
)

// In-memory repositories with the same contracts as the Firestore ones:
// conversation create is atomic and conflicts on a duplicate key, message
// create advances lastMessageAt, listeners fire on inserts.

type fakeConversationRepo struct {
	mu            sync.Mutex
	convs         map[string]*entity.Conversation
	participants  map[string]*entity.ConversationParticipant
	messages      map[string][]*entity.Message
	msgListeners  map[string]map[string]func(*entity.Message)
	convListeners map[string]map[string]func(*entity.Conversation)

	listErr error
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		convs:         make(map[string]*entity.Conversation),
		participants:  make(map[string]*entity.ConversationParticipant),
		messages:      make(map[string][]*entity.Message),
		msgListeners:  make(map[string]map[string]func(*entity.Message)),
		convListeners: make(map[string]map[string]func(*entity.Conversation)),
	}
}

func participantKey(conversationID, userID string) string {
	return conversationID + "/" + userID
}

func (r *fakeConversationRepo) Create(ctx context.Context, conv *entity.Conversation) error {
	if conv.ID == "" {
		conv.ID = entity.ConversationKey(conv.ItemID, conv.OwnerID, conv.RenterID)
	}

	r.mu.Lock()
	if _, exists := r.convs[conv.ID]; exists {
		r.mu.Unlock()
		return errors.Conflict("Conversation already exists", nil)
	}

	now := time.Now()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	if conv.LastMessageAt.IsZero() {
		conv.LastMessageAt = now
	}
	conv.Participants = []string{conv.OwnerID, conv.RenterID}
	r.convs[conv.ID] = conv
	for _, userID := range conv.Participants {
		r.participants[participantKey(conv.ID, userID)] = &entity.ConversationParticipant{
			ConversationID: conv.ID,
			UserID:         userID,
			JoinedAt:       now,
			LastReadAt:     now,
		}
	}
	r.mu.Unlock()

	r.notifyConversation(conv)
	return nil
}

func (r *fakeConversationRepo) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.convs[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	copied := *conv
	return &copied, nil
}

func (r *fakeConversationRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.listErr != nil {
		return nil, r.listErr
	}

	var convs []*entity.Conversation
	for _, conv := range r.convs {
		if conv.OwnerID == userID || conv.RenterID == userID {
			copied := *conv
			convs = append(convs, &copied)
		}
	}
	sort.Slice(convs, func(i, j int) bool {
		return convs[i].LastMessageAt.After(convs[j].LastMessageAt)
	})
	return convs, nil
}

func (r *fakeConversationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.convs, id)
	delete(r.messages, id)
	for key := range r.participants {
		if r.participants[key].ConversationID == id {
			delete(r.participants, key)
		}
	}
	return nil
}

func (r *fakeConversationRepo) DeleteByItemID(ctx context.Context, itemID string) error {
	r.mu.Lock()
	var ids []string
	for id, conv := range r.convs {
		if conv.ItemID == itemID {
			ids = append(ids, id)
		}
	}
	r.mu.Unlock()

	for _, id := range ids {
		if err := r.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeConversationRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	if message.ReadBy == nil {
		message.ReadBy = map[string]bool{}
	}

	r.mu.Lock()
	conv, ok := r.convs[message.ConversationID]
	if !ok {
		r.mu.Unlock()
		return errors.NotFound("Conversation", nil)
	}
	r.messages[message.ConversationID] = append(r.messages[message.ConversationID], message)
	conv.LastMessageAt = message.CreatedAt
	conv.UpdatedAt = message.CreatedAt
	r.mu.Unlock()

	r.notifyMessage(message)
	r.notifyConversation(conv)
	return nil
}

func (r *fakeConversationRepo) GetMessageByID(ctx context.Context, conversationID, messageID string) (*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, message := range r.messages[conversationID] {
		if message.ID == messageID {
			copied := *message
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Message", nil)
}

func (r *fakeConversationRepo) UpdateMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.messages[message.ConversationID] {
		if existing.ID == message.ID {
			copied := *message
			r.messages[message.ConversationID][i] = &copied
			return nil
		}
	}
	return errors.NotFound("Message", nil)
}

func (r *fakeConversationRepo) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	messages := make([]*entity.Message, len(r.messages[conversationID]))
	for i, message := range r.messages[conversationID] {
		copied := *message
		messages[i] = &copied
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}

func (r *fakeConversationRepo) LatestMessage(ctx context.Context, conversationID string) (*entity.Message, error) {
	messages, err := r.ListMessages(ctx, conversationID)
	if err != nil || len(messages) == 0 {
		return nil, err
	}
	return messages[len(messages)-1], nil
}

func (r *fakeConversationRepo) CountUnread(ctx context.Context, conversationID, userID string, after time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, message := range r.messages[conversationID] {
		if message.SenderID != userID && message.CreatedAt.After(after) {
			count++
		}
	}
	return count, nil
}

func (r *fakeConversationRepo) GetParticipant(ctx context.Context, conversationID, userID string) (*entity.ConversationParticipant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	participant, ok := r.participants[participantKey(conversationID, userID)]
	if !ok {
		return nil, errors.NotFound("Participant", nil)
	}
	copied := *participant
	return &copied, nil
}

func (r *fakeConversationRepo) SetParticipantLastRead(ctx context.Context, conversationID, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	participant, ok := r.participants[participantKey(conversationID, userID)]
	if !ok {
		return errors.NotFound("Participant", nil)
	}
	participant.LastReadAt = at
	return nil
}

func (r *fakeConversationRepo) ListenMessages(ctx context.Context, conversationID string, fn func(*entity.Message)) (repository.CancelFunc, error) {
	id := uuid.New().String()

	r.mu.Lock()
	if r.msgListeners[conversationID] == nil {
		r.msgListeners[conversationID] = make(map[string]func(*entity.Message))
	}
	r.msgListeners[conversationID][id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.msgListeners[conversationID], id)
		r.mu.Unlock()
	}, nil
}

func (r *fakeConversationRepo) ListenUserConversations(ctx context.Context, userID string, fn func(*entity.Conversation)) (repository.CancelFunc, error) {
	id := uuid.New().String()

	r.mu.Lock()
	if r.convListeners[userID] == nil {
		r.convListeners[userID] = make(map[string]func(*entity.Conversation))
	}
	r.convListeners[userID][id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.convListeners[userID], id)
		r.mu.Unlock()
	}, nil
}

func (r *fakeConversationRepo) notifyMessage(message *entity.Message) {
	r.mu.Lock()
	var fns []func(*entity.Message)
	for _, fn := range r.msgListeners[message.ConversationID] {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		copied := *message
		fn(&copied)
	}
}

func (r *fakeConversationRepo) notifyConversation(conv *entity.Conversation) {
	r.mu.Lock()
	var fns []func(*entity.Conversation)
	for _, userID := range conv.Participants {
		for _, fn := range r.convListeners[userID] {
			fns = append(fns, fn)
		}
	}
	r.mu.Unlock()

	for _, fn := range fns {
		copied := *conv
		fn(&copied)
	}
}

type fakeItemRepo struct {
	mu    sync.Mutex
	items map[string]*entity.ClothingItem
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[string]*entity.ClothingItem)}
}

func (r *fakeItemRepo) Create(ctx context.Context, item *entity.ClothingItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeItemRepo) GetByID(ctx context.Context, id string) (*entity.ClothingItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, errors.NotFound("Item", nil)
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.ClothingItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []*entity.ClothingItem
	for _, item := range r.items {
		if owner, ok := filter["ownerId"]; ok && item.OwnerID != owner {
			continue
		}
		if category, ok := filter["category"]; ok && item.Category != category {
			continue
		}
		copied := *item
		items = append(items, &copied)
	}
	return items, int64(len(items)), nil
}

func (r *fakeItemRepo) ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*entity.ClothingItem, int64, error) {
	return r.List(ctx, map[string]interface{}{"ownerId": ownerID}, limit, offset)
}

func (r *fakeItemRepo) Update(ctx context.Context, item *entity.ClothingItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return errors.NotFound("Item", nil)
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeItemRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}

type fakeRentalRepo struct {
	mu      sync.Mutex
	rentals map[string]*entity.Rental
}

func newFakeRentalRepo() *fakeRentalRepo {
	return &fakeRentalRepo{rentals: make(map[string]*entity.Rental)}
}

func (r *fakeRentalRepo) Create(ctx context.Context, rental *entity.Rental) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rental.ID == "" {
		rental.ID = uuid.New().String()
	}
	rental.CreatedAt = time.Now()
	copied := *rental
	r.rentals[rental.ID] = &copied
	return nil
}

func (r *fakeRentalRepo) GetByID(ctx context.Context, id string) (*entity.Rental, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rental, ok := r.rentals[id]
	if !ok {
		return nil, errors.NotFound("Rental", nil)
	}
	copied := *rental
	return &copied, nil
}

func (r *fakeRentalRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Rental, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rentals []*entity.Rental
	for _, rental := range r.rentals {
		if rental.RenterID == userID || rental.OwnerID == userID {
			copied := *rental
			rentals = append(rentals, &copied)
		}
	}
	sort.Slice(rentals, func(i, j int) bool {
		return rentals[i].CreatedAt.After(rentals[j].CreatedAt)
	})
	return rentals, int64(len(rentals)), nil
}

func (r *fakeRentalRepo) UpdateStatus(ctx context.Context, id string, status entity.RentalStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rental, ok := r.rentals[id]
	if !ok {
		return errors.NotFound("Rental", nil)
	}
	rental.Status = status
	return nil
}

func (r *fakeRentalRepo) DeleteByItemID(ctx context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, rental := range r.rentals {
		if rental.ItemID == itemID {
			delete(r.rentals, id)
		}
	}
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) EnsureProfile(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return nil
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

type fakeFileService struct {
	mu      sync.Mutex
	deleted []string
}

func (s *fakeFileService) UploadFile(ctx context.Context, file io.Reader, contentType, folder string) (string, error) {
	return fmt.Sprintf("https://storage.example.com/%s/%s", folder, uuid.New().String()), nil
}

func (s *fakeFileService) DeleteFile(ctx context.Context, fileURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, fileURL)
	return nil
}

func (s *fakeFileService) Close() error { return nil }
