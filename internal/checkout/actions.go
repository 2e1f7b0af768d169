package checkout

import (
	"context"
	"sync"

	"pos-terminal/internal/backend"
)

type orderActionClient interface {
	VoidOrder(ctx context.Context, id int64, reason string) (*backend.DetailOrder, error)
	RefundOrder(ctx context.Context, id int64, payments []backend.RefundPayment) (int64, error)
}

// Actions runs void and refund requests under a single-flight guard
// keyed by order id: while one request for an order is outstanding, any
// further void or refund for that order is rejected outright. This
// replaces the busy-flag approach where a second call path could still
// race past a disabled button.
type Actions struct {
	mu       sync.Mutex
	inflight map[int64]struct{}
}

// NewActions returns an empty action guard.
func NewActions() *Actions {
	return &Actions{inflight: make(map[int64]struct{})}
}

func (a *Actions) begin(orderID int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, busy := a.inflight[orderID]; busy {
		return false
	}
	a.inflight[orderID] = struct{}{}
	return true
}

func (a *Actions) end(orderID int64) {
	a.mu.Lock()
	delete(a.inflight, orderID)
	a.mu.Unlock()
}

// Void voids a paid order with an optional reason. The caller must only
// apply the returned order's status; local state is never flipped to
// "void" ahead of server confirmation.
func (a *Actions) Void(ctx context.Context, client orderActionClient, orderID int64, reason string) (*backend.DetailOrder, error) {
	if !a.begin(orderID) {
		return nil, ErrActionInFlight
	}
	defer a.end(orderID)

	return client.VoidOrder(ctx, orderID, reason)
}

// Refund refunds a paid order. The refund total must equal the order
// subtotal; a mismatch is rejected before any network call. Returns the
// id of the refund order created by the backend.
func (a *Actions) Refund(ctx context.Context, client orderActionClient, orderID, subtotalCents int64, payments []backend.RefundPayment) (int64, error) {
	var total int64
	for _, p := range payments {
		total += p.AmountCents
	}
	if total != subtotalCents {
		return 0, ErrRefundMismatch
	}

	if !a.begin(orderID) {
		return 0, ErrActionInFlight
	}
	defer a.end(orderID)

	return client.RefundOrder(ctx, orderID, payments)
}
