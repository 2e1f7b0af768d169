// Package checkout drives order submission and the server-delegated
// void/refund actions. The submission flow is an explicit state machine;
// validation guards run client-side as a fast-fail convenience while the
// backend stays the authority on final pricing and consistency.
package checkout

import (
	"context"
	"errors"
	"sync"

	"pos-terminal/internal/backend"
	"pos-terminal/internal/register"
)

// State of the checkout flow for one session.
type State int

const (
	StateIdle State = iota
	StateSummaryOpen
	StateSubmitting
)

// Guard violations, surfaced to the operator verbatim. Checked in this
// order by OpenSummary.
var (
	ErrNoLines             = errors.New("No items in the order.")
	ErrNoPayment           = errors.New("Add at least one payment.")
	ErrInsufficientPayment = errors.New("Payment must cover the subtotal.")
)

var (
	// ErrNoSummary means Confirm was called without an open summary.
	ErrNoSummary = errors.New("no payment summary open")
	// ErrSubmitInFlight rejects a duplicate Confirm while one request
	// is outstanding.
	ErrSubmitInFlight = errors.New("submission already in progress")
	// ErrActionInFlight rejects a duplicate void/refund for an order
	// that already has one outstanding.
	ErrActionInFlight = errors.New("another action for this order is in progress")
	// ErrRefundMismatch rejects a refund whose total differs from the
	// order subtotal.
	ErrRefundMismatch = errors.New("Refund must match subtotal.")
)

type submitter interface {
	SubmitOrder(ctx context.Context, req backend.SubmitOrderRequest) (*backend.Order, error)
}

// Flow is the per-session checkout state machine.
type Flow struct {
	mu    sync.Mutex
	state State
	reg   *register.Register
}

// NewFlow binds a flow to the session's register.
func NewFlow(reg *register.Register) *Flow {
	return &Flow{reg: reg}
}

// State returns the current flow state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// OpenSummary runs the entry guards and, if all pass, opens the payment
// summary. The first failing guard is returned and the flow stays idle.
// No network call is made here.
func (f *Flow) OpenSummary() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateSubmitting {
		return ErrSubmitInFlight
	}

	totals := f.reg.Totals()
	paid := f.reg.TotalPaid()

	if totals.Qty == 0 {
		f.state = StateIdle
		return ErrNoLines
	}
	if len(f.reg.Payments()) == 0 || paid <= 0 {
		f.state = StateIdle
		return ErrNoPayment
	}
	if paid < totals.SubtotalCents {
		f.state = StateIdle
		return ErrInsufficientPayment
	}

	f.state = StateSummaryOpen
	return nil
}

// Back closes the summary without submitting.
func (f *Flow) Back() {
	f.mu.Lock()
	if f.state == StateSummaryOpen {
		f.state = StateIdle
	}
	f.mu.Unlock()
}

// Confirm submits the order. Exactly one request is issued; a concurrent
// Confirm is rejected rather than queued. On success the cart and
// payments are cleared atomically and the confirmed order becomes the
// ticket snapshot. On failure the cart is left untouched and the summary
// stays open for retry.
func (f *Flow) Confirm(ctx context.Context, client submitter) (*register.LastOrder, error) {
	f.mu.Lock()
	switch f.state {
	case StateSubmitting:
		f.mu.Unlock()
		return nil, ErrSubmitInFlight
	case StateIdle:
		f.mu.Unlock()
		return nil, ErrNoSummary
	}
	f.state = StateSubmitting

	lines := f.reg.Lines()
	payments := f.reg.Payments()
	f.mu.Unlock()

	req := backend.SubmitOrderRequest{
		Lines:    make([]backend.SubmitLine, 0, len(lines)),
		Payments: make([]backend.SubmitPayment, 0, len(payments)),
	}
	for _, l := range lines {
		req.Lines = append(req.Lines, backend.SubmitLine{
			ProductID:      l.ProductID,
			Name:           l.Name,
			Qty:            l.Qty,
			PriceCents:     l.PriceCents,
			ListPriceCents: l.ListPriceCents,
			Comment:        l.Comment,
		})
	}
	for _, p := range payments {
		req.Payments = append(req.Payments, backend.SubmitPayment{
			MethodID:    p.MethodID,
			AmountCents: p.AmountCents,
		})
	}

	order, err := client.SubmitOrder(ctx, req)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateSummaryOpen
		return nil, err
	}

	last := lastOrderFromBackend(order)
	f.reg.CompleteOrder(last)
	f.state = StateIdle
	return last, nil
}

func lastOrderFromBackend(o *backend.Order) *register.LastOrder {
	last := &register.LastOrder{
		ID:             o.ID,
		CreatedAt:      o.CreatedAt,
		SubtotalCents:  o.SubtotalCents,
		TotalPaidCents: o.TotalPaidCents,
		ChangeCents:    o.ChangeCents,
	}
	for _, l := range o.Lines {
		last.Lines = append(last.Lines, register.LastOrderLine{
			ID:             l.ID,
			ProductID:      l.ProductID,
			Name:           l.Name,
			Qty:            l.Qty,
			UnitPriceCents: l.UnitPriceCents,
			LineTotalCents: l.LineTotalCents,
			Comment:        l.Comment,
		})
	}
	for _, p := range o.Payments {
		last.Payments = append(last.Payments, register.LastOrderPayment{
			ID:          p.ID,
			MethodID:    p.MethodID,
			MethodName:  p.MethodName,
			AmountCents: p.AmountCents,
		})
	}
	return last
}

// Change is the amount returned to the customer; never negative.
func Change(paidCents, subtotalCents int64) int64 {
	if paidCents > subtotalCents {
		return paidCents - subtotalCents
	}
	return 0
}

// Due is the amount still owed; never negative.
func Due(paidCents, subtotalCents int64) int64 {
	if subtotalCents > paidCents {
		return subtotalCents - paidCents
	}
	return 0
}
