package service

import (
	"campuscloset/internal/domain/entity"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
)

// MessageResource pairs a message with its parent conversation; message
// access is always decided against the parent's participant set.
type MessageResource struct {
	Conversation *entity.Conversation
	Message      *entity.Message
}

// ParticipantResource identifies one participant row of a conversation.
type ParticipantResource struct {
	Conversation *entity.Conversation
	UserID       string
}

// AccessPolicy evaluates row-level authorization predicates against the
// authenticated principal, prior to and independent of any data access.
// Every messaging operation calls Allow before touching storage; the client
// cannot bypass it by omitting a check elsewhere.
type AccessPolicy struct{}

func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// Allow returns whether principal may perform action on resource. Unknown
// resources and actions are denied.
func (p *AccessPolicy) Allow(principal string, resource interface{}, action Action) bool {
	if principal == "" {
		return false
	}

	switch r := resource.(type) {
	case *entity.Conversation:
		if r == nil {
			return false
		}
		switch action {
		case ActionRead, ActionCreate, ActionUpdate:
			return principal == r.OwnerID || principal == r.RenterID
		}

	case MessageResource:
		if r.Conversation == nil {
			return false
		}
		isParticipant := principal == r.Conversation.OwnerID || principal == r.Conversation.RenterID
		switch action {
		case ActionRead:
			return isParticipant
		case ActionCreate:
			return r.Message != nil && principal == r.Message.SenderID && isParticipant
		case ActionUpdate:
			return r.Message != nil && principal == r.Message.SenderID
		}

	case ParticipantResource:
		if r.Conversation == nil {
			return false
		}
		switch action {
		case ActionRead, ActionUpdate:
			return principal == r.UserID
		case ActionCreate:
			return principal == r.UserID &&
				(principal == r.Conversation.OwnerID || principal == r.Conversation.RenterID)
		}
	}

	return false
}
