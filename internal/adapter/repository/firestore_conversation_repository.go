package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campuscloset/internal/domain/entity"
	"campuscloset/internal/domain/repository"
	"campuscloset/pkg/errors"
)

type firestoreConversationRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
	}
}

func (r *firestoreConversationRepository) convRef(id string) *firestore.DocumentRef {
	return r.client.Collection("conversations").Doc(id)
}

// Create writes the conversation and both participant rows atomically.
// The document ID is the (item, owner, renter) key, so a concurrent create
// of the same triple fails with AlreadyExists and is classified CONFLICT.
func (r *firestoreConversationRepository) Create(ctx context.Context, conv *entity.Conversation) error {
	if conv.ID == "" {
		conv.ID = entity.ConversationKey(conv.ItemID, conv.OwnerID, conv.RenterID)
	}

	now := time.Now()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	if conv.LastMessageAt.IsZero() {
		conv.LastMessageAt = now
	}
	conv.Participants = []string{conv.OwnerID, conv.RenterID}

	convRef := r.convRef(conv.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(convRef, conv); err != nil {
			return err
		}
		// Participant docs are keyed by user ID: re-adding the same
		// (conversation, user) pair overwrites the identical row instead of
		// erroring.
		for _, userID := range conv.Participants {
			participant := &entity.ConversationParticipant{
				ConversationID: conv.ID,
				UserID:         userID,
				JoinedAt:       now,
				LastReadAt:     now,
			}
			if err := tx.Set(convRef.Collection("participants").Doc(userID), participant); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return classify(err, "Conversation")
	}

	return nil
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.convRef(id).Get(ctx)
	if err != nil {
		return nil, classify(err, "Conversation")
	}

	var conv entity.Conversation
	if err := doc.DataTo(&conv); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}

	return &conv, nil
}

func (r *firestoreConversationRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	query := r.client.Collection("conversations").
		Where("participants", "array-contains", userID).
		OrderBy("lastMessageAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, classify(err, "Conversations")
	}

	var convs []*entity.Conversation
	for _, doc := range docs {
		var conv entity.Conversation
		if err := doc.DataTo(&conv); err != nil {
			log.Printf("Error parsing conversation data for user %s: %v", userID, err)
			continue
		}
		convs = append(convs, &conv)
	}

	return convs, nil
}

func (r *firestoreConversationRepository) Delete(ctx context.Context, id string) error {
	convRef := r.convRef(id)

	bw := r.client.BulkWriter(ctx)
	for _, sub := range []string{"messages", "participants"} {
		iter := convRef.Collection(sub).Documents(ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				bw.End()
				return classify(err, "Conversation")
			}
			if _, err := bw.Delete(doc.Ref); err != nil {
				bw.End()
				return errors.Internal("Failed to delete conversation contents", err)
			}
		}
	}
	if _, err := bw.Delete(convRef); err != nil {
		bw.End()
		return errors.Internal("Failed to delete conversation", err)
	}
	bw.End()

	return nil
}

func (r *firestoreConversationRepository) DeleteByItemID(ctx context.Context, itemID string) error {
	docs, err := r.client.Collection("conversations").
		Where("itemId", "==", itemID).
		Documents(ctx).GetAll()
	if err != nil {
		return classify(err, "Conversations")
	}

	for _, doc := range docs {
		if err := r.Delete(ctx, doc.Ref.ID); err != nil {
			return err
		}
	}

	return nil
}

// CreateMessage inserts the message and advances the parent conversation's
// activity timestamps in one transaction, so no reader observes a message
// whose conversation still carries a stale lastMessageAt.
func (r *firestoreConversationRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	if message.ReadBy == nil {
		message.ReadBy = map[string]bool{}
	}

	convRef := r.convRef(message.ConversationID)
	msgRef := convRef.Collection("messages").Doc(message.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// Referential check: a message against a nonexistent conversation
		// fails atomically with no partial write.
		if _, err := tx.Get(convRef); err != nil {
			return err
		}
		if err := tx.Create(msgRef, message); err != nil {
			return err
		}
		return tx.Update(convRef, []firestore.Update{
			{Path: "lastMessageAt", Value: message.CreatedAt},
			{Path: "updatedAt", Value: message.CreatedAt},
		})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Conversation", err)
		}
		return classify(err, "Message")
	}

	return nil
}

func (r *firestoreConversationRepository) GetMessageByID(ctx context.Context, conversationID, messageID string) (*entity.Message, error) {
	doc, err := r.convRef(conversationID).Collection("messages").Doc(messageID).Get(ctx)
	if err != nil {
		return nil, classify(err, "Message")
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}

	return &message, nil
}

func (r *firestoreConversationRepository) UpdateMessage(ctx context.Context, message *entity.Message) error {
	ref := r.convRef(message.ConversationID).Collection("messages").Doc(message.ID)
	if _, err := ref.Set(ctx, message); err != nil {
		return classify(err, "Message")
	}
	return nil
}

func (r *firestoreConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	iter := r.convRef(conversationID).Collection("messages").
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)

	var messages []*entity.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify(err, "Messages")
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			log.Printf("Error parsing message data for conversation %s: %v", conversationID, err)
			continue
		}
		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreConversationRepository) LatestMessage(ctx context.Context, conversationID string) (*entity.Message, error) {
	iter := r.convRef(conversationID).Collection("messages").
		OrderBy("createdAt", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err, "Message")
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}

	return &message, nil
}

func (r *firestoreConversationRepository) CountUnread(ctx context.Context, conversationID, userID string, after time.Time) (int, error) {
	// Firestore cannot combine an inequality on createdAt with one on
	// senderId, so the sender filter happens in memory.
	docs, err := r.convRef(conversationID).Collection("messages").
		Where("createdAt", ">", after).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, classify(err, "Messages")
	}

	count := 0
	for _, doc := range docs {
		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			continue
		}
		if message.SenderID != userID {
			count++
		}
	}

	return count, nil
}

func (r *firestoreConversationRepository) GetParticipant(ctx context.Context, conversationID, userID string) (*entity.ConversationParticipant, error) {
	doc, err := r.convRef(conversationID).Collection("participants").Doc(userID).Get(ctx)
	if err != nil {
		return nil, classify(err, "Participant")
	}

	var participant entity.ConversationParticipant
	if err := doc.DataTo(&participant); err != nil {
		return nil, errors.Internal("Failed to parse participant data", err)
	}

	return &participant, nil
}

func (r *firestoreConversationRepository) SetParticipantLastRead(ctx context.Context, conversationID, userID string, at time.Time) error {
	ref := r.convRef(conversationID).Collection("participants").Doc(userID)
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "lastReadAt", Value: at},
	})
	if err != nil {
		return classify(err, "Participant")
	}
	return nil
}

func (r *firestoreConversationRepository) ListenMessages(ctx context.Context, conversationID string, fn func(*entity.Message)) (repository.CancelFunc, error) {
	lctx, cancel := context.WithCancel(ctx)

	snaps := r.convRef(conversationID).Collection("messages").
		OrderBy("createdAt", firestore.Asc).
		Snapshots(lctx)

	go func() {
		defer snaps.Stop()
		backlog := true
		for {
			snap, err := snaps.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("Message listener for conversation %s stopped: %v", conversationID, err)
				}
				return
			}
			for _, change := range snap.Changes {
				if change.Kind != firestore.DocumentAdded || backlog {
					continue
				}
				var message entity.Message
				if err := change.Doc.DataTo(&message); err != nil {
					log.Printf("Error parsing streamed message for conversation %s: %v", conversationID, err)
					continue
				}
				fn(&message)
			}
			// The first snapshot replays the existing transcript; only
			// changes after it are new inserts.
			backlog = false
		}
	}()

	return repository.CancelFunc(cancel), nil
}

func (r *firestoreConversationRepository) ListenUserConversations(ctx context.Context, userID string, fn func(*entity.Conversation)) (repository.CancelFunc, error) {
	lctx, cancel := context.WithCancel(ctx)

	snaps := r.client.Collection("conversations").
		Where("participants", "array-contains", userID).
		Snapshots(lctx)

	go func() {
		defer snaps.Stop()
		backlog := true
		for {
			snap, err := snaps.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("Conversation listener for user %s stopped: %v", userID, err)
				}
				return
			}
			for _, change := range snap.Changes {
				if change.Kind == firestore.DocumentRemoved || backlog {
					continue
				}
				var conv entity.Conversation
				if err := change.Doc.DataTo(&conv); err != nil {
					log.Printf("Error parsing streamed conversation for user %s: %v", userID, err)
					continue
				}
				fn(&conv)
			}
			backlog = false
		}
	}()

	return repository.CancelFunc(cancel), nil
}
