package usecase

import (
	"context"
	"fmt"
	"time"

	"campuscloset/internal/domain/entity"
	"campuscloset/internal/domain/repository"
	"campuscloset/pkg/errors"
	"campuscloset/pkg/logger"
)

// RentalUseCase handles the booking lifecycle. Chat notifications around
// bookings are best-effort: a messaging failure is logged and the booking
// stands.
type RentalUseCase struct {
	rentalRepo repository.RentalRepository
	itemRepo   repository.ItemRepository
	messaging  *MessagingUseCase
}

func NewRentalUseCase(
	rentalRepo repository.RentalRepository,
	itemRepo repository.ItemRepository,
	messaging *MessagingUseCase,
) *RentalUseCase {
	return &RentalUseCase{
		rentalRepo: rentalRepo,
		itemRepo:   itemRepo,
		messaging:  messaging,
	}
}

type CreateRentalInput struct {
	ItemID    string    `json:"item_id" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

type UpdateRentalStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// CreateRental books an item for the caller. The total price is the per-day
// price times the span between the start and end dates, with a minimum
// charge of one day for same-day bookings.
func (uc *RentalUseCase) CreateRental(ctx context.Context, renterID string, input CreateRentalInput) (*entity.Rental, error) {
	item, err := uc.itemRepo.GetByID(ctx, input.ItemID)
	if err != nil {
		logger.Error("CreateRental: item %s not found: %v", input.ItemID, err)
		return nil, errors.NotFound("Item", err)
	}

	if item.OwnerID == renterID {
		return nil, errors.BadRequest("You cannot rent your own item", nil)
	}
	if !item.Available {
		return nil, errors.BadRequest("Item is not available for rent", nil)
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, errors.BadRequest("End date must not be before start date", nil)
	}

	days := int(input.EndDate.Sub(input.StartDate).Hours() / 24)
	if days < 1 {
		days = 1
	}

	rental := &entity.Rental{
		ItemID:     item.ID,
		RenterID:   renterID,
		OwnerID:    item.OwnerID,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		TotalPrice: float64(days) * item.PricePerDay,
		Status:     entity.RentalPending,
	}

	if err := uc.rentalRepo.Create(ctx, rental); err != nil {
		logger.Error("CreateRental: failed to persist rental for item %s: %v", item.ID, err)
		return nil, err
	}

	uc.notifyRentalRequest(ctx, rental, item)

	return rental, nil
}

// notifyRentalRequest drops a structured request card into the thread
// between renter and owner, opening the thread first if needed.
func (uc *RentalUseCase) notifyRentalRequest(ctx context.Context, rental *entity.Rental, item *entity.ClothingItem) {
	conv, err := uc.messaging.GetOrCreateConversation(ctx, rental.RenterID, GetOrCreateConversationInput{
		ItemID: rental.ItemID,
	})
	if err != nil {
		logger.Warn("CreateRental: could not open conversation for rental %s: %v", rental.ID, err)
		return
	}

	_, err = uc.messaging.SendMessage(ctx, rental.RenterID, SendMessageInput{
		ConversationID: conv.ID,
		Content:        fmt.Sprintf("Rental request for %s", item.Title),
		Type:           entity.MessageTypeRentalRequest,
		Metadata: map[string]interface{}{
			"rental_id":   rental.ID,
			"start_date":  rental.StartDate.Format(time.RFC3339),
			"end_date":    rental.EndDate.Format(time.RFC3339),
			"total_price": rental.TotalPrice,
		},
	})
	if err != nil {
		logger.Warn("CreateRental: could not send rental request message for rental %s: %v", rental.ID, err)
	}
}

// UpdateRentalStatus moves a rental along its lifecycle. Only the two
// parties may act, cancellation is open to both, every other step belongs to
// the owner, and illegal jumps are rejected.
func (uc *RentalUseCase) UpdateRentalStatus(ctx context.Context, userID, rentalID string, input UpdateRentalStatusInput) (*entity.Rental, error) {
	rental, err := uc.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	if userID != rental.OwnerID && userID != rental.RenterID {
		return nil, errors.NotFound("Rental", nil)
	}

	next := entity.RentalStatus(input.Status)
	if !next.IsValid() {
		return nil, errors.BadRequest(fmt.Sprintf("Unknown rental status: %s", input.Status), nil)
	}
	if !rental.Status.CanTransitionTo(next) {
		return nil, errors.BadRequest(fmt.Sprintf("Cannot move rental from %s to %s", rental.Status, next), nil)
	}
	if next != entity.RentalCancelled && userID != rental.OwnerID {
		return nil, errors.Forbidden("Only the item owner can perform this step", nil)
	}

	if err := uc.rentalRepo.UpdateStatus(ctx, rentalID, next); err != nil {
		logger.Error("UpdateRentalStatus: failed for rental %s: %v", rentalID, err)
		return nil, err
	}
	rental.Status = next

	uc.notifyRentalUpdate(ctx, userID, rental)

	return rental, nil
}

func (uc *RentalUseCase) notifyRentalUpdate(ctx context.Context, userID string, rental *entity.Rental) {
	convID := entity.ConversationKey(rental.ItemID, rental.OwnerID, rental.RenterID)

	_, err := uc.messaging.SendMessage(ctx, userID, SendMessageInput{
		ConversationID: convID,
		Content:        fmt.Sprintf("Rental marked %s", rental.Status),
		Type:           entity.MessageTypeRentalUpdate,
		Metadata: map[string]interface{}{
			"rental_id": rental.ID,
			"status":    string(rental.Status),
		},
	})
	if err != nil {
		logger.Warn("UpdateRentalStatus: could not send status message for rental %s: %v", rental.ID, err)
	}
}

func (uc *RentalUseCase) GetRental(ctx context.Context, userID, rentalID string) (*entity.Rental, error) {
	rental, err := uc.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if userID != rental.OwnerID && userID != rental.RenterID {
		return nil, errors.NotFound("Rental", nil)
	}
	return rental, nil
}

// ListUserRentals returns every rental where the caller is renter or owner,
// newest first.
func (uc *RentalUseCase) ListUserRentals(ctx context.Context, userID string, limit, offset int) ([]*entity.Rental, int64, error) {
	rentals, total, err := uc.rentalRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		logger.Error("ListUserRentals: failed for user %s: %v", userID, err)
		return nil, 0, err
	}
	return rentals, total, nil
}
