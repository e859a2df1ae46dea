package entity

import "time"

// Conversation is a messaging thread scoped to one (item, owner, renter)
// triple. Its ID is the deterministic composite of the three references, so
// the storage layer itself arbitrates uniqueness of the triple.
type Conversation struct {
	ID            string    `json:"id" firestore:"id"`
	ItemID        string    `json:"item_id" firestore:"itemId"`
	OwnerID       string    `json:"owner_id" firestore:"ownerId"`
	RenterID      string    `json:"renter_id" firestore:"renterId"`
	RentalID      string    `json:"rental_id,omitempty" firestore:"rentalId,omitempty"`
	Participants  []string  `json:"participants" firestore:"participants"`
	LastMessageAt time.Time `json:"last_message_at" firestore:"lastMessageAt"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ConversationKey derives the storage identifier for the thread on item
// itemID between ownerID and renterID. Both parties computing the same key
// is what makes concurrent get-or-create converge on a single row.
func ConversationKey(itemID, ownerID, renterID string) string {
	return itemID + "_" + ownerID + "_" + renterID
}

// ConversationParticipant tracks a user's standing in a conversation plus
// their read pointer. Exactly the item owner and the renter are participants;
// rows are created with the conversation and never removed.
type ConversationParticipant struct {
	ConversationID string    `json:"conversation_id" firestore:"conversationId"`
	UserID         string    `json:"user_id" firestore:"userId"`
	JoinedAt       time.Time `json:"joined_at" firestore:"joinedAt"`
	LastReadAt     time.Time `json:"last_read_at" firestore:"lastReadAt"`
}
