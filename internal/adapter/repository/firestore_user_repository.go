package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campuscloset/internal/domain/entity"
	"campuscloset/internal/domain/repository"
	"campuscloset/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		return nil, classify(err, "User")
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}

	return &user, nil
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	iter := r.client.Collection("users").Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("User", nil)
	}
	if err != nil {
		return nil, classify(err, "User")
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}

	return &user, nil
}

func (r *firestoreUserRepository) EnsureProfile(ctx context.Context, user *entity.User) error {
	ref := r.client.Collection("users").Doc(user.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(ref)
		if err == nil {
			return nil // projection already mirrored
		}
		if status.Code(err) != codes.NotFound {
			return err
		}
		return tx.Create(ref, user)
	})
	if err != nil {
		return classify(err, "User")
	}

	return nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	if _, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user); err != nil {
		return classify(err, "User")
	}
	return nil
}
