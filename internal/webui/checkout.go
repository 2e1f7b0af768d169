package webui

import (
	"net/http"

	"pos-terminal/internal/backend"
	"pos-terminal/internal/checkout"
	"pos-terminal/internal/money"
	"pos-terminal/internal/register"

	"github.com/gin-gonic/gin"
)

type checkoutPageData struct {
	User     *backend.User
	Methods  []backend.PaymentMethod
	Lines    []register.Line
	Totals   register.Totals
	Payments []register.Payment
	Paid     int64
	Change   int64
	Due      int64
	Error    string
}

func (h *handlers) checkoutData(c *gin.Context, errMsg string) checkoutPageData {
	sess := currentSession(c)

	methods, err := h.deps.Catalog.PaymentMethods(c.Request.Context(), sess.Client, false)
	if err != nil && errMsg == "" {
		errMsg = userError(err, "Failed to load payment methods")
	}

	totals := sess.Register.Totals()
	paid := sess.Register.TotalPaid()
	return checkoutPageData{
		User:     sess.User(),
		Methods:  methods,
		Lines:    sess.Register.Lines(),
		Totals:   totals,
		Payments: sess.Register.Payments(),
		Paid:     paid,
		Change:   checkout.Change(paid, totals.SubtotalCents),
		Due:      checkout.Due(paid, totals.SubtotalCents),
		Error:    errMsg,
	}
}

func (h *handlers) checkoutPage(c *gin.Context) {
	h.render(c, http.StatusOK, "checkout", h.checkoutData(c, flashError(c)))
}

func (h *handlers) paymentAdd(c *gin.Context) {
	sess := currentSession(c)

	methodID, err := parseID(c.PostForm("methodId"))
	if err != nil {
		redirectErr(c, "/checkout", "Unknown payment method")
		return
	}
	if sess.Register.HasPaymentMethod(methodID) {
		// One payment line per method.
		c.Redirect(http.StatusFound, "/checkout")
		return
	}

	methods, err := h.deps.Catalog.PaymentMethods(c.Request.Context(), sess.Client, false)
	if err != nil {
		redirectErr(c, "/checkout", userError(err, "Failed to load payment methods"))
		return
	}
	for _, m := range methods {
		if m.ID == methodID {
			sess.Register.AddPaymentMethod(m.ID, m.Name)
			c.Redirect(http.StatusFound, "/checkout")
			return
		}
	}
	redirectErr(c, "/checkout", "Unknown payment method")
}

func (h *handlers) paymentSetAmount(c *gin.Context) {
	paymentID := c.Param("paymentID")
	cents, err := money.ParseAmount(c.PostForm("amount"))
	if err != nil {
		redirectErr(c, "/checkout", "Invalid amount")
		return
	}
	currentSession(c).Register.SetPaymentAmount(paymentID, cents)
	c.Redirect(http.StatusFound, "/checkout")
}

func (h *handlers) paymentRemove(c *gin.Context) {
	currentSession(c).Register.RemovePayment(c.Param("paymentID"))
	c.Redirect(http.StatusFound, "/checkout")
}

func (h *handlers) checkoutOpen(c *gin.Context) {
	if err := currentSession(c).Flow.OpenSummary(); err != nil {
		redirectErr(c, "/checkout", err.Error())
		return
	}
	c.Redirect(http.StatusFound, "/checkout/summary")
}

func (h *handlers) summaryPage(c *gin.Context) {
	sess := currentSession(c)
	if sess.Flow.State() != checkout.StateSummaryOpen {
		c.Redirect(http.StatusFound, "/checkout")
		return
	}
	h.render(c, http.StatusOK, "summary", h.checkoutData(c, flashError(c)))
}

func (h *handlers) checkoutBack(c *gin.Context) {
	currentSession(c).Flow.Back()
	c.Redirect(http.StatusFound, "/checkout")
}

func (h *handlers) checkoutConfirm(c *gin.Context) {
	sess := currentSession(c)

	order, err := sess.Flow.Confirm(c.Request.Context(), sess.Client)
	if err != nil {
		redirectErr(c, "/checkout/summary", userError(err, "Checkout failed"))
		return
	}
	c.Redirect(http.StatusFound, "/ticket/"+formatID(order.ID))
}

type ticketPageData struct {
	User  *backend.User
	Order *register.LastOrder
	Error string
}

func (h *handlers) ticketPage(c *gin.Context) {
	sess := currentSession(c)

	order := sess.Register.LastOrder()
	if order == nil {
		c.Redirect(http.StatusFound, "/orders")
		return
	}
	h.render(c, http.StatusOK, "ticket", ticketPageData{
		User:  sess.User(),
		Order: order,
		Error: flashError(c),
	})
}

func (h *handlers) ticketFinish(c *gin.Context) {
	currentSession(c).Register.ClearLastOrder()
	c.Redirect(http.StatusFound, "/orders")
}
