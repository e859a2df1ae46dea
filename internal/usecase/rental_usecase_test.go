package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campuscloset/internal/domain/entity"
	"campuscloset/internal/domain/service"
	"campuscloset/pkg/errors"
)

type rentalFixture struct {
	uc         *RentalUseCase
	messaging  *MessagingUseCase
	convRepo   *fakeConversationRepo
	rentalRepo *fakeRentalRepo
	item       *entity.ClothingItem
}

func newRentalFixture(t *testing.T) *rentalFixture {
	t.Helper()

	convRepo := newFakeConversationRepo()
	itemRepo := newFakeItemRepo()
	rentalRepo := newFakeRentalRepo()
	userRepo := newFakeUserRepo(
		&entity.User{ID: ownerID, Email: "alice@uni.edu", DisplayName: "Alice"},
		&entity.User{ID: renterUserID, Email: "bob@uni.edu", DisplayName: "Bob"},
	)

	item := &entity.ClothingItem{
		OwnerID:     ownerID,
		Title:       "Black blazer",
		Category:    "formal",
		PricePerDay: 100,
		Available:   true,
	}
	require.NoError(t, itemRepo.Create(context.Background(), item))

	messaging := NewMessagingUseCase(convRepo, userRepo, itemRepo, service.NewAccessPolicy())
	uc := NewRentalUseCase(rentalRepo, itemRepo, messaging)
	return &rentalFixture{uc: uc, messaging: messaging, convRepo: convRepo, rentalRepo: rentalRepo, item: item}
}

func (f *rentalFixture) createRental(t *testing.T) *entity.Rental {
	t.Helper()

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	rental, err := f.uc.CreateRental(context.Background(), renterUserID, CreateRentalInput{
		ItemID:    f.item.ID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 1),
	})
	require.NoError(t, err)
	return rental
}

func TestCreateRentalPricesByDaySpan(t *testing.T) {
	f := newRentalFixture(t)

	// Two days between the dates at 100 per day.
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rental, err := f.uc.CreateRental(context.Background(), renterUserID, CreateRentalInput{
		ItemID:    f.item.ID,
		StartDate: start,
		EndDate:   time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, 200.0, rental.TotalPrice)
	assert.Equal(t, entity.RentalPending, rental.Status)
	assert.Equal(t, ownerID, rental.OwnerID)
	assert.Equal(t, renterUserID, rental.RenterID)
}

func TestCreateRentalSameDayChargesOneDay(t *testing.T) {
	f := newRentalFixture(t)

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rental, err := f.uc.CreateRental(context.Background(), renterUserID, CreateRentalInput{
		ItemID:    f.item.ID,
		StartDate: day,
		EndDate:   day,
	})
	require.NoError(t, err)

	assert.Equal(t, 100.0, rental.TotalPrice)
}

func TestCreateRentalOpensConversationWithRequestCard(t *testing.T) {
	f := newRentalFixture(t)
	ctx := context.Background()

	rental := f.createRental(t)

	convID := entity.ConversationKey(f.item.ID, ownerID, renterUserID)
	messages, err := f.messaging.GetMessages(ctx, ownerID, convID)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	card := messages[0]
	assert.Equal(t, entity.MessageTypeRentalRequest, card.Type)
	assert.Equal(t, renterUserID, card.SenderID)
	assert.Equal(t, rental.ID, card.Metadata["rental_id"])
	assert.Equal(t, rental.TotalPrice, card.Metadata["total_price"])

	// The requester has read their own message; the owner has not.
	forRenter, err := f.messaging.GetConversation(ctx, renterUserID, convID)
	require.NoError(t, err)
	assert.Equal(t, 0, forRenter.UnreadCount)

	forOwner, err := f.messaging.GetConversation(ctx, ownerID, convID)
	require.NoError(t, err)
	assert.Equal(t, 1, forOwner.UnreadCount)
}

func TestCreateRentalValidation(t *testing.T) {
	f := newRentalFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.CreateRental(ctx, ownerID, CreateRentalInput{
		ItemID:    f.item.ID,
		StartDate: start,
		EndDate:   start,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = f.uc.CreateRental(ctx, renterUserID, CreateRentalInput{
		ItemID:    f.item.ID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, -1),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	f.item.Available = false
	require.NoError(t, f.uc.itemRepo.Update(ctx, f.item))
	_, err = f.uc.CreateRental(ctx, renterUserID, CreateRentalInput{
		ItemID:    f.item.ID,
		StartDate: start,
		EndDate:   start,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestUpdateRentalStatusFollowsLifecycle(t *testing.T) {
	f := newRentalFixture(t)
	ctx := context.Background()
	rental := f.createRental(t)

	for _, next := range []entity.RentalStatus{entity.RentalConfirmed, entity.RentalActive, entity.RentalCompleted} {
		updated, err := f.uc.UpdateRentalStatus(ctx, ownerID, rental.ID, UpdateRentalStatusInput{Status: string(next)})
		require.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	// Completed is terminal.
	_, err := f.uc.UpdateRentalStatus(ctx, ownerID, rental.ID, UpdateRentalStatusInput{Status: string(entity.RentalCancelled)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestUpdateRentalStatusRejectsIllegalJump(t *testing.T) {
	f := newRentalFixture(t)
	rental := f.createRental(t)

	_, err := f.uc.UpdateRentalStatus(context.Background(), ownerID, rental.ID, UpdateRentalStatusInput{
		Status: string(entity.RentalCompleted),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = f.uc.UpdateRentalStatus(context.Background(), ownerID, rental.ID, UpdateRentalStatusInput{
		Status: "returned",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestUpdateRentalStatusRoles(t *testing.T) {
	f := newRentalFixture(t)
	ctx := context.Background()
	rental := f.createRental(t)

	// The renter cannot confirm their own request.
	_, err := f.uc.UpdateRentalStatus(ctx, renterUserID, rental.ID, UpdateRentalStatusInput{
		Status: string(entity.RentalConfirmed),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	// A stranger sees nothing at all.
	_, err = f.uc.UpdateRentalStatus(ctx, "mallory", rental.ID, UpdateRentalStatusInput{
		Status: string(entity.RentalConfirmed),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	// Either party may cancel while pending.
	updated, err := f.uc.UpdateRentalStatus(ctx, renterUserID, rental.ID, UpdateRentalStatusInput{
		Status: string(entity.RentalCancelled),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RentalCancelled, updated.Status)
}

func TestUpdateRentalStatusPostsUpdateCard(t *testing.T) {
	f := newRentalFixture(t)
	ctx := context.Background()
	rental := f.createRental(t)

	_, err := f.uc.UpdateRentalStatus(ctx, ownerID, rental.ID, UpdateRentalStatusInput{
		Status: string(entity.RentalConfirmed),
	})
	require.NoError(t, err)

	convID := entity.ConversationKey(f.item.ID, ownerID, renterUserID)
	messages, err := f.messaging.GetMessages(ctx, ownerID, convID)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	card := messages[1]
	assert.Equal(t, entity.MessageTypeRentalUpdate, card.Type)
	assert.Equal(t, string(entity.RentalConfirmed), card.Metadata["status"])
}

func TestRentalSurvivesMessagingFailure(t *testing.T) {
	f := newRentalFixture(t)

	// Knock out the item lookup the conversation path depends on after
	// rental creation has read it, by pointing messaging at an empty item
	// repo.
	f.uc.messaging = NewMessagingUseCase(f.convRepo, newFakeUserRepo(), newFakeItemRepo(), service.NewAccessPolicy())

	rental := f.createRental(t)
	assert.Equal(t, entity.RentalPending, rental.Status)

	stored, err := f.rentalRepo.GetByID(context.Background(), rental.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RentalPending, stored.Status)
}

func TestListUserRentals(t *testing.T) {
	f := newRentalFixture(t)

	rental := f.createRental(t)

	for _, userID := range []string{ownerID, renterUserID} {
		rentals, total, err := f.uc.ListUserRentals(context.Background(), userID, 20, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, rentals, 1)
		assert.Equal(t, rental.ID, rentals[0].ID)
	}

	rentals, total, err := f.uc.ListUserRentals(context.Background(), "mallory", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, rentals)
}
