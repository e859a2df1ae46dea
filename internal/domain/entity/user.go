package entity

import "time"

// User is a read-only projection of the Firebase Auth record. Lifecycle is
// owned by the auth subsystem; the application only mirrors profile fields.
type User struct {
	ID          string    `json:"id" firestore:"id"`
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"display_name" firestore:"displayName"`
	Phone       string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty" firestore:"avatarURL,omitempty"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
}
