package repository

import (
	"context"

	"campuscloset/internal/domain/entity"
)

type ItemRepository interface {
	Create(ctx context.Context, item *entity.ClothingItem) error
	GetByID(ctx context.Context, id string) (*entity.ClothingItem, error)
	List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.ClothingItem, int64, error)
	ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*entity.ClothingItem, int64, error)
	Update(ctx context.Context, item *entity.ClothingItem) error
	Delete(ctx context.Context, id string) error
}
