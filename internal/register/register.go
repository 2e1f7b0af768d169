// Package register holds the live, not-yet-submitted order for one
// terminal session: order lines, split payments, and the snapshot of the
// last completed order shown on the ticket page.
//
// Totals are never stored; they are recomputed from the line and payment
// collections on every call so a total can never drift from its inputs.
// All amounts are integer cents. Every operation is synchronous and
// total: invalid input is a no-op, never a panic.
package register

import (
	"fmt"
	"sync"

	"pos-terminal/internal/money"
)

// Product is the catalog snapshot consumed by AddProduct. ListPrice is
// the catalog dollar price as it arrives from the backend; it is
// converted to cents exactly once, when a line is created.
type Product struct {
	ID        int64
	Name      string
	Alias     string
	Category  string
	ImageURL  string
	ListPrice float64
}

// Line is one product's presence in the cart. ListPriceCents is fixed at
// add time and kept as the reference for discount display; PriceCents is
// the effective sale price and may be edited per line.
type Line struct {
	ProductID      int64
	Name           string
	Alias          string
	Category       string
	ImageURL       string
	ListPriceCents int64
	PriceCents     int64
	Qty            int64
	Comment        string
	LineTotalCents int64
}

// Payment is one tender applied toward the current order. The ID is only
// meaningful within this session.
type Payment struct {
	ID          string
	MethodID    int64
	MethodName  string
	AmountCents int64
}

// Totals is the derived summary of the cart lines.
type Totals struct {
	SubtotalCents int64
	Qty           int64
}

// LastOrder is the server-confirmed order kept for the ticket view after
// a successful checkout. All amounts are fixed by the backend.
type LastOrder struct {
	ID             int64
	CreatedAt      string
	SubtotalCents  int64
	TotalPaidCents int64
	ChangeCents    int64
	Lines          []LastOrderLine
	Payments       []LastOrderPayment
}

type LastOrderLine struct {
	ID             int64
	ProductID      int64
	Name           string
	Qty            int64
	UnitPriceCents int64
	LineTotalCents int64
	Comment        string
}

type LastOrderPayment struct {
	ID          int64
	MethodID    int64
	MethodName  string
	AmountCents int64
}

// Register is the mutable order state for one session. It is safe for
// concurrent use; handlers for the same session may overlap.
type Register struct {
	mu        sync.Mutex
	lines     []Line
	payments  []Payment
	lastOrder *LastOrder
	paySeq    int64
}

// New returns an empty register.
func New() *Register {
	return &Register{}
}

// AddProduct adds one unit of the product. An existing line is bumped by
// one and retotaled at its current sale price, so a manual price edit
// survives quantity increases. A new line starts at qty 1 with sale
// price equal to the list price.
func (r *Register) AddProduct(p Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.lines {
		if r.lines[i].ProductID == p.ID {
			r.lines[i].Qty++
			r.lines[i].LineTotalCents = r.lines[i].Qty * r.lines[i].PriceCents
			return
		}
	}

	listCents := money.FromFloat(p.ListPrice)
	r.lines = append(r.lines, Line{
		ProductID:      p.ID,
		Name:           p.Name,
		Alias:          p.Alias,
		Category:       p.Category,
		ImageURL:       p.ImageURL,
		ListPriceCents: listCents,
		PriceCents:     listCents,
		Qty:            1,
		LineTotalCents: listCents,
	})
}

// RemoveOne decrements the line's quantity by one, deleting the line
// when the quantity reaches zero. No-op if the line is absent.
func (r *Register) RemoveOne(productID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.lines {
		if r.lines[i].ProductID != productID {
			continue
		}
		if r.lines[i].Qty <= 1 {
			r.lines = append(r.lines[:i], r.lines[i+1:]...)
			return
		}
		r.lines[i].Qty--
		r.lines[i].LineTotalCents = r.lines[i].Qty * r.lines[i].PriceCents
		return
	}
}

// IncrementByID bumps an existing line's quantity by one. Unlike
// AddProduct it never creates a line.
func (r *Register) IncrementByID(productID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.lines {
		if r.lines[i].ProductID == productID {
			r.lines[i].Qty++
			r.lines[i].LineTotalCents = r.lines[i].Qty * r.lines[i].PriceCents
			return
		}
	}
}

// DeleteLine removes the line regardless of quantity.
func (r *Register) DeleteLine(productID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.lines {
		if r.lines[i].ProductID == productID {
			r.lines = append(r.lines[:i], r.lines[i+1:]...)
			return
		}
	}
}

// SetLinePrice overwrites the line's sale price and retotals. Negative
// prices are ignored. The list price is never touched.
func (r *Register) SetLinePrice(productID, cents int64) {
	if cents < 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.lines {
		if r.lines[i].ProductID == productID {
			r.lines[i].PriceCents = cents
			r.lines[i].LineTotalCents = r.lines[i].Qty * cents
			return
		}
	}
}

// SetLineComment overwrites the line's free-text comment.
func (r *Register) SetLineComment(productID int64, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.lines {
		if r.lines[i].ProductID == productID {
			r.lines[i].Comment = text
			return
		}
	}
}

// Clear empties the line collection.
func (r *Register) Clear() {
	r.mu.Lock()
	r.lines = nil
	r.mu.Unlock()
}

// Lines returns a copy of the order lines in insertion order.
func (r *Register) Lines() []Line {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Line, len(r.lines))
	copy(out, r.lines)
	return out
}

// Totals recomputes the cart summary from scratch.
func (r *Register) Totals() Totals {
	r.mu.Lock()
	defer r.mu.Unlock()
	var t Totals
	for i := range r.lines {
		t.SubtotalCents += r.lines[i].LineTotalCents
		t.Qty += r.lines[i].Qty
	}
	return t
}

// AddPaymentMethod appends a zero-amount payment for the method and
// returns it. Duplicate method checks are the caller's job.
func (r *Register) AddPaymentMethod(methodID int64, methodName string) Payment {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.paySeq++
	p := Payment{
		ID:         fmt.Sprintf("pay-%d", r.paySeq),
		MethodID:   methodID,
		MethodName: methodName,
	}
	r.payments = append(r.payments, p)
	return p
}

// SetPaymentAmount overwrites a payment's amount. Negative amounts are
// ignored.
func (r *Register) SetPaymentAmount(paymentID string, cents int64) {
	if cents < 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.payments {
		if r.payments[i].ID == paymentID {
			r.payments[i].AmountCents = cents
			return
		}
	}
}

// RemovePayment drops the payment with the given id.
func (r *Register) RemovePayment(paymentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.payments {
		if r.payments[i].ID == paymentID {
			r.payments = append(r.payments[:i], r.payments[i+1:]...)
			return
		}
	}
}

// Payments returns a copy of the current payments.
func (r *Register) Payments() []Payment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Payment, len(r.payments))
	copy(out, r.payments)
	return out
}

// HasPaymentMethod reports whether a payment for the method already
// exists.
func (r *Register) HasPaymentMethod(methodID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.payments {
		if r.payments[i].MethodID == methodID {
			return true
		}
	}
	return false
}

// TotalPaid recomputes the payment total from scratch.
func (r *Register) TotalPaid() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for i := range r.payments {
		total += r.payments[i].AmountCents
	}
	return total
}

// ClearPayments empties the payment collection.
func (r *Register) ClearPayments() {
	r.mu.Lock()
	r.payments = nil
	r.mu.Unlock()
}

// CompleteOrder atomically installs the server-confirmed order as the
// ticket snapshot and clears the live cart and payments.
func (r *Register) CompleteOrder(o *LastOrder) {
	r.mu.Lock()
	r.lastOrder = o
	r.lines = nil
	r.payments = nil
	r.mu.Unlock()
}

// SetLastOrder installs the ticket snapshot without touching the cart.
func (r *Register) SetLastOrder(o *LastOrder) {
	r.mu.Lock()
	r.lastOrder = o
	r.mu.Unlock()
}

// LastOrder returns the ticket snapshot, or nil if none is held.
func (r *Register) LastOrder() *LastOrder {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastOrder
}

// ClearLastOrder drops the ticket snapshot.
func (r *Register) ClearLastOrder() {
	r.mu.Lock()
	r.lastOrder = nil
	r.mu.Unlock()
}

// Reset returns the register to its initial empty state. Called at
// logout so no order state leaks across operators.
func (r *Register) Reset() {
	r.mu.Lock()
	r.lines = nil
	r.payments = nil
	r.lastOrder = nil
	r.mu.Unlock()
}
