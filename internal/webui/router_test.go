package webui

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"pos-terminal/internal/backend"
	"pos-terminal/internal/catalog"
	"pos-terminal/internal/session"
)

// stubBackend imitates the REST backend: cookie auth, a two-product
// catalog, and an order counter for checkout.
func stubBackend(t *testing.T) *httptest.Server {
	t.Helper()

	loggedIn := func(r *http.Request) bool {
		c, err := r.Cookie("sid")
		return err == nil && c.Value == "1"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Username != "bill" || body.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "1", Path: "/"})
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/me", func(w http.ResponseWriter, r *http.Request) {
		if !loggedIn(r) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "not logged in"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"user": map[string]any{"id": 1, "username": "bill"}})
	})
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"products": []map[string]any{
			{"id": 1, "name": "Coffee", "category": "drinks", "listPrice": 3.5},
			{"id": 2, "name": "Bagel", "category": "food", "listPrice": 2.0},
		}})
	})
	mux.HandleFunc("GET /api/payment-methods", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"methods": []map[string]any{
			{"id": 1, "name": "Cash"},
			{"id": 2, "name": "Card"},
		}})
	})
	mux.HandleFunc("POST /api/orders", func(w http.ResponseWriter, r *http.Request) {
		var req backend.SubmitOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var subtotal, paid int64
		lines := make([]backend.OrderLine, 0, len(req.Lines))
		for i, l := range req.Lines {
			total := l.PriceCents * l.Qty
			subtotal += total
			lines = append(lines, backend.OrderLine{
				ID:             int64(i + 1),
				ProductID:      l.ProductID,
				Name:           l.Name,
				Qty:            l.Qty,
				UnitPriceCents: l.PriceCents,
				LineTotalCents: total,
				Comment:        l.Comment,
			})
		}
		payments := make([]backend.OrderPayment, 0, len(req.Payments))
		for i, p := range req.Payments {
			paid += p.AmountCents
			payments = append(payments, backend.OrderPayment{
				ID:          int64(i + 1),
				MethodID:    p.MethodID,
				MethodName:  "Cash",
				AmountCents: p.AmountCents,
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"order": backend.Order{
			ID:             41,
			SubtotalCents:  subtotal,
			TotalPaidCents: paid,
			ChangeCents:    paid - subtotal,
			CreatedAt:      "2026-08-30T10:00:00Z",
			Lines:          lines,
			Payments:       payments,
		}})
	})
	mux.HandleFunc("GET /api/orders", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"orders": []map[string]any{
			{"id": 41, "created_at": "2026-08-30T10:00:00Z", "status": "paid",
				"subtotal_cents": 700, "total_paid_cents": 700,
				"user": map[string]any{"username": "bill"}},
		}})
	})
	mux.HandleFunc("GET /api/orders/41", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"order": map[string]any{"id": 41, "status": "paid", "subtotal_cents": 700,
				"total_paid_cents": 700, "change_cents": 0, "created_at": "2026-08-30T10:00:00Z"},
			"lines": []map[string]any{
				{"name": "Coffee", "qty": 2, "unit_price_cents": 350, "line_total_cents": 700, "comment": ""},
			},
			"payments": []map[string]any{
				{"payment_method_id": 1, "method_name": "Cash", "amount_cents": 700},
			},
		})
	})
	mux.HandleFunc("POST /api/orders/41/void", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"order": map[string]any{
			"id": 41, "status": "void", "subtotal_cents": 700, "total_paid_cents": 700,
			"created_at": "2026-08-30T10:00:00Z", "voided_at": "2026-08-30T11:00:00Z",
		}})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	be := stubBackend(t)

	sessions := session.NewStore(time.Hour, func() (*backend.Client, error) {
		return backend.New(be.URL, 2*time.Second)
	})
	probe, err := backend.New(be.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("probe client: %v", err)
	}

	logger := log.New(&strings.Builder{}, "", 0)
	router, err := buildRouter(logger, Deps{
		Sessions:       sessions,
		Catalog:        catalog.New(catalog.NewMemoryCache(), time.Minute),
		Probe:          probe,
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}

	app := httptest.NewServer(router)
	t.Cleanup(app.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return app, client
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.Post(target, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("POST %s: %v", target, err)
	}
	resp.Body.Close()
	return resp
}

func get(t *testing.T, client *http.Client, target string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(target)
	if err != nil {
		t.Fatalf("GET %s: %v", target, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func login(t *testing.T, client *http.Client, base string) {
	t.Helper()
	resp := postForm(t, client, base+"/login", url.Values{
		"username": {"bill"},
		"password": {"secret"},
	})
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/orders" {
		t.Fatalf("expected redirect to /orders, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestAuthGateRedirectsToLogin(t *testing.T) {
	app, client := newTestApp(t)

	resp, _ := get(t, client, app.URL+"/orders")
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app, client := newTestApp(t)

	resp := postForm(t, client, app.URL+"/login", url.Values{
		"username": {"bill"},
		"password": {"wrong"},
	})
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if !strings.Contains(loc, "err=") || !strings.HasPrefix(loc, "/login") {
		t.Fatalf("expected /login with error, got %q", loc)
	}
}

func TestOrdersPageShowsCatalog(t *testing.T) {
	app, client := newTestApp(t)
	login(t, client, app.URL)

	resp, body := get(t, client, app.URL+"/orders")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Coffee") || !strings.Contains(body, "Bagel") {
		t.Fatalf("expected products in page, got: %.200s", body)
	}
}

func TestCartAddAndOverridePrice(t *testing.T) {
	app, client := newTestApp(t)
	login(t, client, app.URL)

	postForm(t, client, app.URL+"/cart/add", url.Values{"productId": {"1"}})
	postForm(t, client, app.URL+"/cart/add", url.Values{"productId": {"1"}})
	postForm(t, client, app.URL+"/cart/line/1/price", url.Values{"price": {"3.00"}})

	_, body := get(t, client, app.URL+"/orders")
	// 2 x 3.00 after the override.
	if !strings.Contains(body, "6.00") {
		t.Fatalf("expected overridden line total 6.00 in page")
	}
	if !strings.Contains(body, "3.50") {
		t.Fatalf("expected list price 3.50 still shown")
	}
}

func TestCartInvalidPriceLeavesLineUnchanged(t *testing.T) {
	app, client := newTestApp(t)
	login(t, client, app.URL)

	postForm(t, client, app.URL+"/cart/add", url.Values{"productId": {"1"}})
	resp := postForm(t, client, app.URL+"/cart/line/1/price", url.Values{"price": {"abc"}})
	if !strings.Contains(resp.Header.Get("Location"), "err=") {
		t.Fatalf("expected error redirect, got %q", resp.Header.Get("Location"))
	}

	_, body := get(t, client, app.URL+"/orders")
	if !strings.Contains(body, "3.50") {
		t.Fatalf("expected price still 3.50")
	}
}

func TestCheckoutGuardEmptyCart(t *testing.T) {
	app, client := newTestApp(t)
	login(t, client, app.URL)

	resp := postForm(t, client, app.URL+"/checkout/open", nil)
	loc := resp.Header.Get("Location")
	if !strings.Contains(loc, url.QueryEscape("No items in the order.")) {
		t.Fatalf("expected no-items guard, got %q", loc)
	}
}

func TestCheckoutFlowToTicket(t *testing.T) {
	app, client := newTestApp(t)
	login(t, client, app.URL)

	postForm(t, client, app.URL+"/cart/add", url.Values{"productId": {"1"}})
	postForm(t, client, app.URL+"/cart/add", url.Values{"productId": {"1"}})
	postForm(t, client, app.URL+"/checkout/payments", url.Values{"methodId": {"1"}})
	postForm(t, client, app.URL+"/checkout/payments/pay-1/amount", url.Values{"amount": {"10.00"}})

	resp := postForm(t, client, app.URL+"/checkout/open", nil)
	if loc := resp.Header.Get("Location"); loc != "/checkout/summary" {
		t.Fatalf("expected summary redirect, got %q", loc)
	}

	resp = postForm(t, client, app.URL+"/checkout/confirm", nil)
	if loc := resp.Header.Get("Location"); loc != "/ticket/41" {
		t.Fatalf("expected ticket redirect, got %q", loc)
	}

	_, body := get(t, client, app.URL+"/ticket/41")
	if !strings.Contains(body, "Receipt #41") {
		t.Fatalf("expected receipt page")
	}
	if !strings.Contains(body, "3.00") {
		t.Fatalf("expected change 3.00 on receipt")
	}

	// Finishing the ticket clears the cart for the next order.
	postForm(t, client, app.URL+"/ticket/finish", nil)
	_, body = get(t, client, app.URL+"/orders")
	if !strings.Contains(body, "No items yet.") {
		t.Fatalf("expected empty cart after finish")
	}
}

func TestSummaryRequiresOpenState(t *testing.T) {
	app, client := newTestApp(t)
	login(t, client, app.URL)

	resp, _ := get(t, client, app.URL+"/checkout/summary")
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/checkout" {
		t.Fatalf("expected redirect to /checkout, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestOrderDetailAndVoid(t *testing.T) {
	app, client := newTestApp(t)
	login(t, client, app.URL)

	resp, body := get(t, client, app.URL+"/orders/41")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Order #41") || !strings.Contains(body, "paid") {
		t.Fatalf("expected paid order detail")
	}

	resp = postForm(t, client, app.URL+"/orders/41/void", url.Values{"reason": {"test error"}})
	if loc := resp.Header.Get("Location"); loc != "/orders/41" {
		t.Fatalf("expected redirect back to detail, got %q", loc)
	}
}

func TestHistoryPage(t *testing.T) {
	app, client := newTestApp(t)
	login(t, client, app.URL)

	resp, body := get(t, client, app.URL+"/history")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "#41") || !strings.Contains(body, "bill") {
		t.Fatalf("expected history row for order 41")
	}
}

func TestHealthz(t *testing.T) {
	app, client := newTestApp(t)

	resp, body := get(t, client, app.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "ok") {
		t.Fatalf("expected healthy, got %d %s", resp.StatusCode, body)
	}
}
