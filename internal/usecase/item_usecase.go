package usecase

import (
	"context"
	"time"

	"campuscloset/internal/domain/entity"
	"campuscloset/internal/domain/repository"
	"campuscloset/internal/domain/service"
	"campuscloset/pkg/errors"
	"campuscloset/pkg/logger"
)

// ItemUseCase manages clothing listings. Deleting a listing also removes its
// conversations, rentals and stored photos, since the storage layer has no
// cascading deletes of its own.
type ItemUseCase struct {
	itemRepo   repository.ItemRepository
	convRepo   repository.ConversationRepository
	rentalRepo repository.RentalRepository
	files      service.FileUploadService
}

func NewItemUseCase(
	itemRepo repository.ItemRepository,
	convRepo repository.ConversationRepository,
	rentalRepo repository.RentalRepository,
	files service.FileUploadService,
) *ItemUseCase {
	return &ItemUseCase{
		itemRepo:   itemRepo,
		convRepo:   convRepo,
		rentalRepo: rentalRepo,
		files:      files,
	}
}

type CreateItemInput struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"required"`
	Size        string   `json:"size"`
	PricePerDay float64  `json:"price_per_day" validate:"required,gt=0"`
	Images      []string `json:"images"`
}

type UpdateItemInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Size        string   `json:"size"`
	PricePerDay float64  `json:"price_per_day" validate:"omitempty,gt=0"`
	Images      []string `json:"images"`
	Available   *bool    `json:"available"`
}

func (uc *ItemUseCase) CreateItem(ctx context.Context, ownerID string, input CreateItemInput) (*entity.ClothingItem, error) {
	item := &entity.ClothingItem{
		OwnerID:     ownerID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Size:        input.Size,
		PricePerDay: input.PricePerDay,
		Images:      input.Images,
		Available:   true,
	}

	if err := uc.itemRepo.Create(ctx, item); err != nil {
		logger.Error("CreateItem: failed for owner %s: %v", ownerID, err)
		return nil, err
	}

	return item, nil
}

func (uc *ItemUseCase) GetItem(ctx context.Context, itemID string) (*entity.ClothingItem, error) {
	return uc.itemRepo.GetByID(ctx, itemID)
}

func (uc *ItemUseCase) ListItems(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.ClothingItem, int64, error) {
	items, total, err := uc.itemRepo.List(ctx, filter, limit, offset)
	if err != nil {
		logger.Error("ListItems: failed: %v", err)
		return nil, 0, err
	}
	return items, total, nil
}

func (uc *ItemUseCase) ListMyItems(ctx context.Context, ownerID string, limit, offset int) ([]*entity.ClothingItem, int64, error) {
	return uc.itemRepo.ListByOwnerID(ctx, ownerID, limit, offset)
}

func (uc *ItemUseCase) UpdateItem(ctx context.Context, userID, itemID string, input UpdateItemInput) (*entity.ClothingItem, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, errors.Forbidden("Only the owner can update a listing", nil)
	}

	if input.Title != "" {
		item.Title = input.Title
	}
	if input.Description != "" {
		item.Description = input.Description
	}
	if input.Category != "" {
		item.Category = input.Category
	}
	if input.Size != "" {
		item.Size = input.Size
	}
	if input.PricePerDay > 0 {
		item.PricePerDay = input.PricePerDay
	}
	if input.Images != nil {
		item.Images = input.Images
	}
	if input.Available != nil {
		item.Available = *input.Available
	}
	item.UpdatedAt = time.Now()

	if err := uc.itemRepo.Update(ctx, item); err != nil {
		logger.Error("UpdateItem: failed for item %s: %v", itemID, err)
		return nil, err
	}

	return item, nil
}

// DeleteItem removes the listing and everything hanging off it. Photo
// deletion is best-effort; an orphaned object in the bucket is acceptable,
// a dangling conversation or rental is not.
func (uc *ItemUseCase) DeleteItem(ctx context.Context, userID, itemID string) error {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.OwnerID != userID {
		return errors.Forbidden("Only the owner can delete a listing", nil)
	}

	if err := uc.convRepo.DeleteByItemID(ctx, itemID); err != nil {
		logger.Error("DeleteItem: failed to delete conversations for item %s: %v", itemID, err)
		return err
	}
	if err := uc.rentalRepo.DeleteByItemID(ctx, itemID); err != nil {
		logger.Error("DeleteItem: failed to delete rentals for item %s: %v", itemID, err)
		return err
	}
	if err := uc.itemRepo.Delete(ctx, itemID); err != nil {
		logger.Error("DeleteItem: failed for item %s: %v", itemID, err)
		return err
	}

	if uc.files != nil {
		for _, url := range item.Images {
			if err := uc.files.DeleteFile(ctx, url); err != nil {
				logger.Warn("DeleteItem: could not delete photo %s: %v", url, err)
			}
		}
	}

	return nil
}
