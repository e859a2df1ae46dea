package entity

import "time"

type RentalStatus string

const (
	RentalPending   RentalStatus = "pending"
	RentalConfirmed RentalStatus = "confirmed"
	RentalActive    RentalStatus = "active"
	RentalCompleted RentalStatus = "completed"
	RentalCancelled RentalStatus = "cancelled"
)

// rentalTransitions is the legal status graph:
// pending -> confirmed -> active -> completed, with cancellation possible
// from pending or confirmed only.
var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalPending:   {RentalConfirmed, RentalCancelled},
	RentalConfirmed: {RentalActive, RentalCancelled},
	RentalActive:    {RentalCompleted},
}

func (s RentalStatus) IsValid() bool {
	switch s {
	case RentalPending, RentalConfirmed, RentalActive, RentalCompleted, RentalCancelled:
		return true
	}
	return false
}

func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	for _, allowed := range rentalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Rental struct {
	ID         string       `json:"id" firestore:"id"`
	ItemID     string       `json:"item_id" firestore:"itemId"`
	RenterID   string       `json:"renter_id" firestore:"renterId"`
	OwnerID    string       `json:"owner_id" firestore:"ownerId"`
	StartDate  time.Time    `json:"start_date" firestore:"startDate"`
	EndDate    time.Time    `json:"end_date" firestore:"endDate"`
	TotalPrice float64      `json:"total_price" firestore:"totalPrice"`
	Status     RentalStatus `json:"status" firestore:"status"`
	CreatedAt  time.Time    `json:"created_at" firestore:"createdAt"`
}
