package webui

import (
	"net/http"
	"strings"

	"pos-terminal/internal/backend"

	"github.com/gin-gonic/gin"
)

type authPageData struct {
	User  *backend.User
	Error string
}

func (h *handlers) loginPage(c *gin.Context) {
	if sess := currentSession(c); sess != nil && sess.User() != nil {
		c.Redirect(http.StatusFound, "/orders")
		return
	}
	h.render(c, http.StatusOK, "login", authPageData{Error: flashError(c)})
}

func (h *handlers) login(c *gin.Context) {
	sess := currentSession(c)
	if sess == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if err := sess.Client.Login(c.Request.Context(), username, password); err != nil {
		redirectErr(c, "/login", userError(err, "Login failed"))
		return
	}

	user, err := sess.Client.Me(c.Request.Context())
	if err != nil || user == nil {
		redirectErr(c, "/login", "Login failed")
		return
	}
	sess.SetUser(user)
	c.Redirect(http.StatusFound, "/orders")
}

func (h *handlers) registerPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register", authPageData{Error: flashError(c)})
}

func (h *handlers) registerUser(c *gin.Context) {
	sess := currentSession(c)
	if sess == nil {
		c.Redirect(http.StatusFound, "/register")
		return
	}

	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	confirmation := c.PostForm("confirmation")

	if err := sess.Client.Register(c.Request.Context(), username, password, confirmation); err != nil {
		redirectErr(c, "/register", userError(err, "Register failed"))
		return
	}

	// Registering also logs the account in backend-side.
	user, err := sess.Client.Me(c.Request.Context())
	if err != nil || user == nil {
		redirectErr(c, "/login", "Register failed")
		return
	}
	sess.SetUser(user)
	c.Redirect(http.StatusFound, "/orders")
}

func (h *handlers) logout(c *gin.Context) {
	if sess := currentSession(c); sess != nil {
		_ = sess.Client.Logout(c.Request.Context())
		h.deps.Sessions.Destroy(sess.Token)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/login")
}

func (h *handlers) rootRedirect(c *gin.Context) {
	c.Redirect(http.StatusFound, "/orders")
}
