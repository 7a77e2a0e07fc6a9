package order

import (
	"testing"

	"louma_back_end/internal/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.OrderStatus
		want     bool
	}{
		{models.OrderStatusPending, models.OrderStatusProcessing, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusProcessing, models.OrderStatusDelivered, true},
		{models.OrderStatusProcessing, models.OrderStatusDisputed, true},
		{models.OrderStatusDelivered, models.OrderStatusDisputed, true},

		// Jamais de retour en arrière
		{models.OrderStatusDelivered, models.OrderStatusProcessing, false},
		{models.OrderStatusCancelled, models.OrderStatusProcessing, false},
		{models.OrderStatusDisputed, models.OrderStatusDelivered, false},
		{models.OrderStatusPending, models.OrderStatusDelivered, false},
	}

	for _, tc := range cases {
		if got := canTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("canTransition(%s, %s) = %v, attendu %v", tc.from, tc.to, got, tc.want)
		}
	}
}
