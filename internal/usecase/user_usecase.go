package usecase

import (
	"context"
	"time"

	"campuscloset/internal/domain/entity"
	"campuscloset/internal/domain/repository"
	"campuscloset/pkg/logger"
)

// UserUseCase keeps a Firestore projection of each authenticated user so
// conversations and messages can be hydrated with display names without
// round-tripping to the identity provider.
type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

type UpdateProfileInput struct {
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
	AvatarURL   string `json:"avatar_url"`
}

func (uc *UserUseCase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// EnsureProfile creates the projection row on first authenticated request.
// Idempotent; an existing row is left untouched.
func (uc *UserUseCase) EnsureProfile(ctx context.Context, userID, email, displayName string) (*entity.User, error) {
	user := &entity.User{
		ID:          userID,
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   time.Now(),
	}

	if err := uc.userRepo.EnsureProfile(ctx, user); err != nil {
		logger.Error("EnsureProfile: failed for user %s: %v", userID, err)
		return nil, err
	}

	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != "" {
		user.DisplayName = input.DisplayName
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		logger.Error("UpdateProfile: failed for user %s: %v", userID, err)
		return nil, err
	}

	return user, nil
}
