package webui

import (
	"net/http"
	"time"

	"pos-terminal/internal/backend"
	"pos-terminal/internal/money"

	"github.com/gin-gonic/gin"
)

type historyPageData struct {
	User   *backend.User
	Orders []backend.HistoryOrder
	Query  backend.OrdersQuery
	Error  string
}

func (h *handlers) historyPage(c *gin.Context) {
	sess := currentSession(c)

	today := time.Now().Format("2006-01-02")
	query := backend.OrdersQuery{
		StartDate: c.DefaultQuery("start_date", today),
		EndDate:   c.DefaultQuery("end_date", today),
		Status:    c.DefaultQuery("status", "all"),
		Search:    c.Query("q"),
	}

	orders, err := sess.Client.ListOrders(c.Request.Context(), query)

	data := historyPageData{
		User:   sess.User(),
		Orders: orders,
		Query:  query,
		Error:  flashError(c),
	}
	if err != nil {
		data.Error = userError(err, "Failed to load orders")
	}
	h.render(c, http.StatusOK, "history", data)
}

type detailPageData struct {
	User   *backend.User
	Detail *backend.OrderDetail
	Error  string
}

func (h *handlers) orderDetailPage(c *gin.Context) {
	sess := currentSession(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		redirectErr(c, "/history", "Unknown order")
		return
	}

	detail, err := sess.Client.GetOrder(c.Request.Context(), id)
	if err != nil {
		redirectErr(c, "/history", userError(err, "Failed to load order"))
		return
	}
	h.render(c, http.StatusOK, "detail", detailPageData{
		User:   sess.User(),
		Detail: detail,
		Error:  flashError(c),
	})
}

func (h *handlers) voidOrder(c *gin.Context) {
	sess := currentSession(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		redirectErr(c, "/history", "Unknown order")
		return
	}
	back := "/orders/" + formatID(id)

	// Status flips only on the server's say-so; the redirect re-reads it.
	if _, err := sess.Actions.Void(c.Request.Context(), sess.Client, id, c.PostForm("reason")); err != nil {
		redirectErr(c, back, userError(err, "Failed to void"))
		return
	}
	c.Redirect(http.StatusFound, back)
}

func (h *handlers) refundOrder(c *gin.Context) {
	sess := currentSession(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		redirectErr(c, "/history", "Unknown order")
		return
	}
	back := "/orders/" + formatID(id)

	detail, err := sess.Client.GetOrder(c.Request.Context(), id)
	if err != nil {
		redirectErr(c, back, userError(err, "Failed to load order"))
		return
	}

	// One amount field per tender of the original order.
	payments := make([]backend.RefundPayment, 0, len(detail.Payments))
	for _, p := range detail.Payments {
		raw := c.PostForm("amount_" + formatID(p.PaymentMethodID))
		if raw == "" {
			continue
		}
		cents, err := money.ParseAmount(raw)
		if err != nil {
			redirectErr(c, back, "Invalid amount")
			return
		}
		if cents == 0 {
			continue
		}
		payments = append(payments, backend.RefundPayment{
			PaymentMethodID: p.PaymentMethodID,
			AmountCents:     cents,
		})
	}

	refundID, err := sess.Actions.Refund(c.Request.Context(), sess.Client, id, detail.Order.SubtotalCents, payments)
	if err != nil {
		redirectErr(c, back, userError(err, "Failed to refund"))
		return
	}
	c.Redirect(http.StatusFound, "/orders/"+formatID(refundID))
}
