package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"campuscloset/internal/domain/entity"
	"campuscloset/internal/domain/repository"
	"campuscloset/pkg/errors"
)

type firestoreItemRepository struct {
	client *firestore.Client
}

func NewFirestoreItemRepository(client *firestore.Client) repository.ItemRepository {
	return &firestoreItemRepository{
		client: client,
	}
}

func (r *firestoreItemRepository) Create(ctx context.Context, item *entity.ClothingItem) error {
	if item.ID == "" {
		item.ID = r.client.Collection("items").NewDoc().ID
	}

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Images == nil {
		item.Images = []string{}
	}

	if _, err := r.client.Collection("items").Doc(item.ID).Set(ctx, item); err != nil {
		return classify(err, "Item")
	}

	return nil
}

func (r *firestoreItemRepository) GetByID(ctx context.Context, id string) (*entity.ClothingItem, error) {
	doc, err := r.client.Collection("items").Doc(id).Get(ctx)
	if err != nil {
		return nil, classify(err, "Item")
	}

	var item entity.ClothingItem
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse item data", err)
	}

	return &item, nil
}

func (r *firestoreItemRepository) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.ClothingItem, int64, error) {
	query := r.client.Collection("items").Query
	for key, value := range filter {
		query = query.Where(key, "==", value)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, classify(err, "Items")
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var items []*entity.ClothingItem
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, classify(err, "Items")
		}

		var item entity.ClothingItem
		if err := doc.DataTo(&item); err != nil {
			log.Printf("Error parsing item data: %v", err)
			continue
		}
		items = append(items, &item)
	}

	return items, total, nil
}

func (r *firestoreItemRepository) ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*entity.ClothingItem, int64, error) {
	return r.List(ctx, map[string]interface{}{"ownerId": ownerID}, limit, offset)
}

func (r *firestoreItemRepository) Update(ctx context.Context, item *entity.ClothingItem) error {
	item.UpdatedAt = time.Now()

	if _, err := r.client.Collection("items").Doc(item.ID).Set(ctx, item); err != nil {
		return classify(err, "Item")
	}

	return nil
}

func (r *firestoreItemRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Collection("items").Doc(id).Delete(ctx); err != nil {
		return classify(err, "Item")
	}
	return nil
}
