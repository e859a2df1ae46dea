package repository

import (
	"context"
	"log"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"campuscloset/internal/domain/entity"
	"campuscloset/internal/domain/repository"
	"campuscloset/pkg/errors"
)

type firestoreRentalRepository struct {
	client *firestore.Client
}

func NewFirestoreRentalRepository(client *firestore.Client) repository.RentalRepository {
	return &firestoreRentalRepository{
		client: client,
	}
}

func (r *firestoreRentalRepository) Create(ctx context.Context, rental *entity.Rental) error {
	if rental.ID == "" {
		rental.ID = uuid.New().String()
	}
	rental.CreatedAt = time.Now()

	if _, err := r.client.Collection("rentals").Doc(rental.ID).Set(ctx, rental); err != nil {
		return classify(err, "Rental")
	}

	return nil
}

func (r *firestoreRentalRepository) GetByID(ctx context.Context, id string) (*entity.Rental, error) {
	doc, err := r.client.Collection("rentals").Doc(id).Get(ctx)
	if err != nil {
		return nil, classify(err, "Rental")
	}

	var rental entity.Rental
	if err := doc.DataTo(&rental); err != nil {
		return nil, errors.Internal("Failed to parse rental data", err)
	}

	return &rental, nil
}

func (r *firestoreRentalRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Rental, int64, error) {
	// A rental names the user as either renter or owner; two equality
	// queries are merged and sorted in memory.
	var rentals []*entity.Rental
	seen := map[string]bool{}

	for _, field := range []string{"renterId", "ownerId"} {
		docs, err := r.client.Collection("rentals").
			Where(field, "==", userID).
			Documents(ctx).GetAll()
		if err != nil {
			return nil, 0, classify(err, "Rentals")
		}
		for _, doc := range docs {
			if seen[doc.Ref.ID] {
				continue
			}
			seen[doc.Ref.ID] = true

			var rental entity.Rental
			if err := doc.DataTo(&rental); err != nil {
				log.Printf("Error parsing rental data for user %s: %v", userID, err)
				continue
			}
			rentals = append(rentals, &rental)
		}
	}

	sort.Slice(rentals, func(i, j int) bool {
		return rentals[i].CreatedAt.After(rentals[j].CreatedAt)
	})

	total := int64(len(rentals))
	if offset > len(rentals) {
		offset = len(rentals)
	}
	end := len(rentals)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return rentals[offset:end], total, nil
}

func (r *firestoreRentalRepository) UpdateStatus(ctx context.Context, id string, status entity.RentalStatus) error {
	_, err := r.client.Collection("rentals").Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: status},
	})
	if err != nil {
		return classify(err, "Rental")
	}
	return nil
}

func (r *firestoreRentalRepository) DeleteByItemID(ctx context.Context, itemID string) error {
	docs, err := r.client.Collection("rentals").
		Where("itemId", "==", itemID).
		Documents(ctx).GetAll()
	if err != nil {
		return classify(err, "Rentals")
	}

	bw := r.client.BulkWriter(ctx)
	for _, doc := range docs {
		if _, err := bw.Delete(doc.Ref); err != nil {
			bw.End()
			return errors.Internal("Failed to delete rentals for item", err)
		}
	}
	bw.End()

	return nil
}
