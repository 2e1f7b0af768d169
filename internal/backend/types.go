package backend

// User is the authenticated operator returned by the session check.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Product is a sellable catalog entry. ListPrice is in dollars as served
// by the backend; conversion to cents happens at add-to-cart time.
type Product struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Alias     string  `json:"alias"`
	Category  string  `json:"category"`
	ListPrice float64 `json:"listPrice"`
	ImageURL  string  `json:"imageUrl"`
	IsActive  bool    `json:"isActive"`
}

// PaymentMethod is an available tender type.
type PaymentMethod struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SubmitLine is one cart line in the checkout request body.
type SubmitLine struct {
	ProductID      int64  `json:"productId"`
	Name           string `json:"name"`
	Qty            int64  `json:"qty"`
	PriceCents     int64  `json:"priceCents"`
	ListPriceCents int64  `json:"listPriceCents"`
	Comment        string `json:"comment,omitempty"`
}

// SubmitPayment is one tender in the checkout request body.
type SubmitPayment struct {
	MethodID    int64 `json:"methodId"`
	AmountCents int64 `json:"amountCents"`
}

// SubmitOrderRequest is the POST /api/orders body.
type SubmitOrderRequest struct {
	Lines    []SubmitLine    `json:"lines"`
	Payments []SubmitPayment `json:"payments"`
}

// Order is the confirmed order returned by checkout, used for the
// ticket view.
type Order struct {
	ID             int64          `json:"id"`
	SubtotalCents  int64          `json:"subtotalCents"`
	TotalPaidCents int64          `json:"totalPaidCents"`
	ChangeCents    int64          `json:"changeCents"`
	CreatedAt      string         `json:"createdAt"`
	Lines          []OrderLine    `json:"lines"`
	Payments       []OrderPayment `json:"payments"`
}

type OrderLine struct {
	ID             int64  `json:"id"`
	ProductID      int64  `json:"productId"`
	Name           string `json:"name"`
	Qty            int64  `json:"qty"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	LineTotalCents int64  `json:"lineTotalCents"`
	Comment        string `json:"comment"`
}

type OrderPayment struct {
	ID          int64  `json:"id"`
	MethodID    int64  `json:"methodId"`
	MethodName  string `json:"methodName"`
	AmountCents int64  `json:"amountCents"`
}

// HistoryOrder is one row of the order history listing. The history and
// detail endpoints use snake_case fields, unlike checkout.
type HistoryOrder struct {
	ID             int64        `json:"id"`
	CreatedAt      string       `json:"created_at"`
	Status         string       `json:"status"`
	SubtotalCents  int64        `json:"subtotal_cents"`
	TotalPaidCents int64        `json:"total_paid_cents"`
	User           *HistoryUser `json:"user,omitempty"`
}

type HistoryUser struct {
	Username string `json:"username"`
}

// OrdersQuery filters the history listing. Dates are YYYY-MM-DD.
type OrdersQuery struct {
	StartDate string
	EndDate   string
	Status    string
	Search    string
}

// OrderDetail is the full read-only view of a confirmed order.
type OrderDetail struct {
	Order    DetailOrder     `json:"order"`
	Lines    []DetailLine    `json:"lines"`
	Payments []DetailPayment `json:"payments"`
}

type DetailOrder struct {
	ID             int64  `json:"id"`
	Status         string `json:"status"`
	SubtotalCents  int64  `json:"subtotal_cents"`
	TotalPaidCents int64  `json:"total_paid_cents"`
	ChangeCents    int64  `json:"change_cents"`
	CreatedAt      string `json:"created_at"`
	VoidedAt       string `json:"voided_at,omitempty"`
	VoidReason     string `json:"void_reason,omitempty"`
}

type DetailLine struct {
	Name           string `json:"name"`
	Qty            int64  `json:"qty"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	LineTotalCents int64  `json:"line_total_cents"`
	Comment        string `json:"comment"`
}

type DetailPayment struct {
	PaymentMethodID int64  `json:"payment_method_id"`
	MethodName      string `json:"method_name"`
	AmountCents     int64  `json:"amount_cents"`
}

// RefundPayment is one tender of a refund request.
type RefundPayment struct {
	PaymentMethodID int64 `json:"payment_method_id"`
	AmountCents     int64 `json:"amount_cents"`
}

// ReportRow is one line of the product sales report.
type ReportRow struct {
	ProductID      int64  `json:"product_id"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Qty            int64  `json:"qty"`
	TotalCents     int64  `json:"total_cents"`
}

// ZReport aggregates sales and tenders over a date range.
type ZReport struct {
	Totals           ZTotals       `json:"totals"`
	PaymentsByMethod []MethodTotal `json:"payments_by_method"`
}

type ZTotals struct {
	OrdersCount   int64 `json:"orders_count"`
	SubtotalCents int64 `json:"subtotal_cents"`
	PaidCents     int64 `json:"paid_cents"`
	ChangeCents   int64 `json:"change_cents"`
}

type MethodTotal struct {
	Method      string `json:"method"`
	AmountCents int64  `json:"amount_cents"`
}
