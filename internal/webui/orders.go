package webui

import (
	"net/http"

	"pos-terminal/internal/backend"
	"pos-terminal/internal/money"
	"pos-terminal/internal/register"

	"github.com/gin-gonic/gin"
)

type ordersPageData struct {
	User     *backend.User
	Products []backend.Product
	Lines    []register.Line
	Totals   register.Totals
	Error    string
}

func (h *handlers) ordersPage(c *gin.Context) {
	sess := currentSession(c)

	force := c.Query("refresh") == "1"
	products, err := h.deps.Catalog.Products(c.Request.Context(), sess.Client, force)

	data := ordersPageData{
		User:     sess.User(),
		Products: products,
		Lines:    sess.Register.Lines(),
		Totals:   sess.Register.Totals(),
		Error:    flashError(c),
	}
	if err != nil {
		data.Error = userError(err, "Failed to load products")
	}
	h.render(c, http.StatusOK, "orders", data)
}

func (h *handlers) cartAdd(c *gin.Context) {
	sess := currentSession(c)

	productID, err := parseID(c.PostForm("productId"))
	if err != nil {
		redirectErr(c, "/orders", "Unknown product")
		return
	}

	products, err := h.deps.Catalog.Products(c.Request.Context(), sess.Client, false)
	if err != nil {
		redirectErr(c, "/orders", userError(err, "Failed to load products"))
		return
	}

	for _, p := range products {
		if p.ID == productID {
			sess.Register.AddProduct(register.Product{
				ID:        p.ID,
				Name:      p.Name,
				Alias:     p.Alias,
				Category:  p.Category,
				ImageURL:  p.ImageURL,
				ListPrice: p.ListPrice,
			})
			c.Redirect(http.StatusFound, "/orders")
			return
		}
	}
	redirectErr(c, "/orders", "Unknown product")
}

func (h *handlers) cartClear(c *gin.Context) {
	currentSession(c).Register.Clear()
	c.Redirect(http.StatusFound, "/orders")
}

func (h *handlers) cartIncrement(c *gin.Context) {
	if id, err := parseID(c.Param("productID")); err == nil {
		currentSession(c).Register.IncrementByID(id)
	}
	c.Redirect(http.StatusFound, "/orders")
}

func (h *handlers) cartRemoveOne(c *gin.Context) {
	if id, err := parseID(c.Param("productID")); err == nil {
		currentSession(c).Register.RemoveOne(id)
	}
	c.Redirect(http.StatusFound, "/orders")
}

func (h *handlers) cartDelete(c *gin.Context) {
	if id, err := parseID(c.Param("productID")); err == nil {
		currentSession(c).Register.DeleteLine(id)
	}
	c.Redirect(http.StatusFound, "/orders")
}

func (h *handlers) cartSetPrice(c *gin.Context) {
	id, err := parseID(c.Param("productID"))
	if err != nil {
		c.Redirect(http.StatusFound, "/orders")
		return
	}
	cents, err := money.ParseAmount(c.PostForm("price"))
	if err != nil {
		// Invalid input leaves the line unchanged.
		redirectErr(c, "/orders", "Invalid price")
		return
	}
	currentSession(c).Register.SetLinePrice(id, cents)
	c.Redirect(http.StatusFound, "/orders")
}

func (h *handlers) cartSetComment(c *gin.Context) {
	if id, err := parseID(c.Param("productID")); err == nil {
		currentSession(c).Register.SetLineComment(id, c.PostForm("comment"))
	}
	c.Redirect(http.StatusFound, "/orders")
}
