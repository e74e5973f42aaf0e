package models_test

import (
	"testing"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{models.StatusPending, models.StatusProcessing, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusProcessing, models.StatusShipped, true},
		{models.StatusProcessing, models.StatusCancelled, true},
		{models.StatusShipped, models.StatusDelivered, true},
		{models.StatusPending, models.StatusShipped, false},
		{models.StatusShipped, models.StatusCancelled, false},
		{models.StatusDelivered, models.StatusPending, false},
		{models.StatusCancelled, models.StatusProcessing, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}
