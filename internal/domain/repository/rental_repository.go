package repository

import (
	"context"

	"campuscloset/internal/domain/entity"
)

type RentalRepository interface {
	Create(ctx context.Context, rental *entity.Rental) error
	GetByID(ctx context.Context, id string) (*entity.Rental, error)
	// ListByUserID returns rentals where the user is renter or owner,
	// newest first.
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Rental, int64, error)
	UpdateStatus(ctx context.Context, id string, status entity.RentalStatus) error
	// DeleteByItemID removes every rental referencing the item. Part of the
	// item-delete cascade.
	DeleteByItemID(ctx context.Context, itemID string) error
}
