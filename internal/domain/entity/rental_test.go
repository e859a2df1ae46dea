package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRentalStatusTransitions(t *testing.T) {
	tests := []struct {
		from    RentalStatus
		to      RentalStatus
		allowed bool
	}{
		{RentalPending, RentalConfirmed, true},
		{RentalPending, RentalCancelled, true},
		{RentalPending, RentalActive, false},
		{RentalPending, RentalCompleted, false},
		{RentalConfirmed, RentalActive, true},
		{RentalConfirmed, RentalCancelled, true},
		{RentalConfirmed, RentalCompleted, false},
		{RentalActive, RentalCompleted, true},
		{RentalActive, RentalCancelled, false},
		{RentalCompleted, RentalPending, false},
		{RentalCancelled, RentalPending, false},
		{RentalCancelled, RentalConfirmed, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestRentalStatusIsValid(t *testing.T) {
	for _, s := range []RentalStatus{RentalPending, RentalConfirmed, RentalActive, RentalCompleted, RentalCancelled} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, RentalStatus("returned").IsValid())
	assert.False(t, RentalStatus("").IsValid())
}
