package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

// AuthClient wraps the Firebase Admin auth client. Identity lives entirely
// in Firebase; the backend only verifies tokens and reads basic profile
// attributes.
type AuthClient struct {
	client *auth.Client
}

func NewAuthClient(client *auth.Client) *AuthClient {
	return &AuthClient{
		client: client,
	}
}

// VerifyToken checks an ID token and returns the caller's UID.
func (f *AuthClient) VerifyToken(ctx context.Context, token string) (string, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return "", err
	}

	return result.UID, nil
}

// GetUser fetches the identity record so the profile projection can be
// seeded with email and display name on first sign-in.
func (f *AuthClient) GetUser(ctx context.Context, uid string) (*auth.UserRecord, error) {
	return f.client.GetUser(ctx, uid)
}
