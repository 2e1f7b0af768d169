// Package backend is the HTTP+JSON client for the POS REST backend. It
// owns no durable state; every call round-trips to the server. Each
// terminal session gets its own Client so the backend's auth cookie
// stays scoped to that session.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// ErrNetwork wraps transport-level failures; callers surface it as a
// generic "Network error" message rather than the raw transport detail.
var ErrNetwork = errors.New("network error")

// APIError is a non-2xx response whose body carried an error message.
// The message is shown to the operator verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to one backend on behalf of one session.
type Client struct {
	base *url.URL
	http *http.Client
}

// New builds a Client with its own cookie jar and an explicit request
// timeout.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("init cookie jar: %w", err)
	}
	return &Client{
		base: base,
		http: &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

// do performs one request. A non-2xx response yields an *APIError with
// the body's error message, or fallback when the body is unparsable.
// Transport failures yield ErrNetwork unless the context was cancelled.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, fallback string) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := fallback
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && strings.TrimSpace(apiErr.Error) != "" {
			msg = apiErr.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Me returns the current operator, or (nil, nil) when the session is not
// authenticated. Only transport failures are reported as errors.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/api/me", nil, nil, &out, "session check failed")
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, nil
		}
		return nil, err
	}
	return out.User, nil
}

// Register creates an operator account. The backend also logs the new
// account in, setting its session cookie on this client's jar.
func (c *Client) Register(ctx context.Context, username, password, confirmation string) error {
	body := map[string]string{
		"username":     username,
		"password":     password,
		"confirmation": confirmation,
	}
	return c.do(ctx, http.MethodPost, "/api/register", nil, body, nil, "Register failed")
}

// Login authenticates the operator, setting the backend session cookie.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{
		"username": username,
		"password": password,
	}
	return c.do(ctx, http.MethodPost, "/api/login", nil, body, nil, "Login failed")
}

// Logout clears the backend session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil, nil, "Logout failed")
}

// ListProducts fetches the sellable catalog.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var out struct {
		Products []Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products", nil, nil, &out, "Failed to load products"); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// ListPaymentMethods fetches the available tender types.
func (c *Client) ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	var out struct {
		Methods []PaymentMethod `json:"methods"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/payment-methods", nil, nil, &out, "Failed to load payment methods"); err != nil {
		return nil, err
	}
	return out.Methods, nil
}

// SubmitOrder posts the full line and payment collections and returns
// the confirmed order. The backend is the authority on final pricing.
func (c *Client) SubmitOrder(ctx context.Context, req SubmitOrderRequest) (*Order, error) {
	var out struct {
		Order *Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/orders", nil, req, &out, "Checkout failed"); err != nil {
		return nil, err
	}
	if out.Order == nil {
		return nil, &APIError{Status: http.StatusOK, Message: "Checkout failed"}
	}
	return out.Order, nil
}

// ListOrders queries the order history.
func (c *Client) ListOrders(ctx context.Context, q OrdersQuery) ([]HistoryOrder, error) {
	params := url.Values{}
	if q.StartDate != "" {
		params.Set("start_date", q.StartDate)
	}
	if q.EndDate != "" {
		params.Set("end_date", q.EndDate)
	}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		params.Set("q", s)
	}
	var out struct {
		Orders []HistoryOrder `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/orders", params, nil, &out, "Failed to load orders"); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// GetOrder fetches one confirmed order with its lines and payments.
func (c *Client) GetOrder(ctx context.Context, id int64) (*OrderDetail, error) {
	var out OrderDetail
	path := fmt.Sprintf("/api/orders/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out, "Failed to load order"); err != nil {
		return nil, err
	}
	return &out, nil
}

// VoidOrder voids a paid order. The returned order carries the
// server-confirmed status and void metadata.
func (c *Client) VoidOrder(ctx context.Context, id int64, reason string) (*DetailOrder, error) {
	var out struct {
		Order *DetailOrder `json:"order"`
	}
	path := fmt.Sprintf("/api/orders/%d/void", id)
	body := map[string]string{"reason": reason}
	if err := c.do(ctx, http.MethodPost, path, nil, body, &out, "Failed to void"); err != nil {
		return nil, err
	}
	if out.Order == nil {
		return nil, &APIError{Status: http.StatusOK, Message: "Failed to void"}
	}
	return out.Order, nil
}

// RefundOrder refunds a paid order and returns the id of the refund
// order created by the backend.
func (c *Client) RefundOrder(ctx context.Context, id int64, payments []RefundPayment) (int64, error) {
	var out struct {
		RefundOrderID int64 `json:"refund_order_id"`
	}
	path := fmt.Sprintf("/api/orders/%d/refund", id)
	body := map[string]interface{}{"payments": payments}
	if err := c.do(ctx, http.MethodPost, path, nil, body, &out, "Refund failed"); err != nil {
		return 0, err
	}
	return out.RefundOrderID, nil
}

// ProductReport fetches per-product sales rows for the date range.
func (c *Client) ProductReport(ctx context.Context, startDate, endDate string) ([]ReportRow, error) {
	params := url.Values{}
	if startDate != "" {
		params.Set("start_date", startDate)
	}
	if endDate != "" {
		params.Set("end_date", endDate)
	}
	var out struct {
		Rows []ReportRow `json:"rows"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/reports/products", params, nil, &out, "Failed to load report"); err != nil {
		return nil, err
	}
	return out.Rows, nil
}

// ZReport fetches the tender and sales summary for the date range.
func (c *Client) ZReport(ctx context.Context, startDate, endDate string) (*ZReport, error) {
	params := url.Values{}
	if startDate != "" {
		params.Set("start_date", startDate)
	}
	if endDate != "" {
		params.Set("end_date", endDate)
	}
	var out ZReport
	if err := c.do(ctx, http.MethodGet, "/api/reports/z", params, nil, &out, "Failed to load report"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health pings the backend health endpoint; used by the readiness probe.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil, nil, "backend unavailable")
}
