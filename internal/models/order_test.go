package models

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderDraft, OrderConfirmed, true},
		{OrderDraft, OrderCancelled, true},
		{OrderDraft, OrderInPreparation, false},
		{OrderDraft, OrderDelivered, false},

		{OrderConfirmed, OrderInPreparation, true},
		{OrderConfirmed, OrderCancelled, true},
		{OrderConfirmed, OrderDraft, false},
		{OrderConfirmed, OrderDelivered, false},

		{OrderInPreparation, OrderDelivered, true},
		{OrderInPreparation, OrderCancelled, true},
		{OrderInPreparation, OrderDraft, false},
		{OrderInPreparation, OrderConfirmed, false},

		// Terminal states allow nothing out.
		{OrderDelivered, OrderDraft, false},
		{OrderDelivered, OrderConfirmed, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderCancelled, OrderDraft, false},
		{OrderCancelled, OrderConfirmed, false},
		{OrderCancelled, OrderDelivered, false},

		{OrderStatus("BOGUS"), OrderConfirmed, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
