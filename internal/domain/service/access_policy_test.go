package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campuscloset/internal/domain/entity"
)

func testConversation() *entity.Conversation {
	return &entity.Conversation{
		ID:           "item1_owner1_renter1",
		ItemID:       "item1",
		OwnerID:      "owner1",
		RenterID:     "renter1",
		Participants: []string{"owner1", "renter1"},
	}
}

func TestConversationAccess(t *testing.T) {
	policy := NewAccessPolicy()
	conv := testConversation()

	tests := []struct {
		name      string
		principal string
		action    Action
		want      bool
	}{
		{"owner reads", "owner1", ActionRead, true},
		{"renter reads", "renter1", ActionRead, true},
		{"outsider reads", "stranger", ActionRead, false},
		{"owner creates", "owner1", ActionCreate, true},
		{"renter creates", "renter1", ActionCreate, true},
		{"outsider creates", "stranger", ActionCreate, false},
		{"renter updates", "renter1", ActionUpdate, true},
		{"outsider updates", "stranger", ActionUpdate, false},
		{"empty principal", "", ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Allow(tt.principal, conv, tt.action))
		})
	}
}

func TestMessageAccess(t *testing.T) {
	policy := NewAccessPolicy()
	conv := testConversation()
	msg := &entity.Message{ID: "m1", ConversationID: conv.ID, SenderID: "renter1"}

	res := MessageResource{Conversation: conv, Message: msg}

	assert.True(t, policy.Allow("owner1", res, ActionRead))
	assert.True(t, policy.Allow("renter1", res, ActionRead))
	assert.False(t, policy.Allow("stranger", res, ActionRead))

	// create requires sender identity and participant standing
	assert.True(t, policy.Allow("renter1", res, ActionCreate))
	assert.False(t, policy.Allow("owner1", res, ActionCreate))
	assert.False(t, policy.Allow("stranger", MessageResource{
		Conversation: conv,
		Message:      &entity.Message{SenderID: "stranger"},
	}, ActionCreate))

	// update is sender-only
	assert.True(t, policy.Allow("renter1", res, ActionUpdate))
	assert.False(t, policy.Allow("owner1", res, ActionUpdate))
}

func TestParticipantAccess(t *testing.T) {
	policy := NewAccessPolicy()
	conv := testConversation()

	own := ParticipantResource{Conversation: conv, UserID: "renter1"}
	assert.True(t, policy.Allow("renter1", own, ActionRead))
	assert.True(t, policy.Allow("renter1", own, ActionUpdate))
	assert.True(t, policy.Allow("renter1", own, ActionCreate))

	// a participant cannot touch the other party's row
	assert.False(t, policy.Allow("owner1", own, ActionRead))
	assert.False(t, policy.Allow("owner1", own, ActionUpdate))

	// outsiders cannot self-insert into a thread they are not named on
	outsider := ParticipantResource{Conversation: conv, UserID: "stranger"}
	assert.False(t, policy.Allow("stranger", outsider, ActionCreate))
}

func TestUnknownResourceDenied(t *testing.T) {
	policy := NewAccessPolicy()
	assert.False(t, policy.Allow("owner1", "bogus", ActionRead))
	assert.False(t, policy.Allow("owner1", nil, ActionRead))
}
