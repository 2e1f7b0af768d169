package webui

import (
	"log"
	"net/http"
	"time"

	"pos-terminal/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const sessionCookie = "pos_session"

const (
	ctxSession = "webui.session"
)

// buildRouter wires all pages and actions for the front-end.
func buildRouter(logger *log.Logger, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Probe))

	h := &handlers{deps: deps, logger: logger}

	router.Use(sessionMiddleware(deps.Sessions))

	router.GET("/login", h.loginPage)
	router.POST("/login", h.login)
	router.GET("/register", h.registerPage)
	router.POST("/register", h.registerUser)
	router.POST("/logout", h.logout)

	authed := router.Group("/", authRequired())
	{
		authed.GET("/", h.rootRedirect)

		authed.GET("/orders", h.ordersPage)
		authed.GET("/orders/:id", h.orderDetailPage)
		authed.POST("/orders/:id/void", h.voidOrder)
		authed.POST("/orders/:id/refund", h.refundOrder)

		authed.POST("/cart/add", h.cartAdd)
		authed.POST("/cart/clear", h.cartClear)
		authed.POST("/cart/line/:productID/increment", h.cartIncrement)
		authed.POST("/cart/line/:productID/remove-one", h.cartRemoveOne)
		authed.POST("/cart/line/:productID/delete", h.cartDelete)
		authed.POST("/cart/line/:productID/price", h.cartSetPrice)
		authed.POST("/cart/line/:productID/comment", h.cartSetComment)

		authed.GET("/checkout", h.checkoutPage)
		authed.POST("/checkout/payments", h.paymentAdd)
		authed.POST("/checkout/payments/:paymentID/amount", h.paymentSetAmount)
		authed.POST("/checkout/payments/:paymentID/remove", h.paymentRemove)
		authed.POST("/checkout/open", h.checkoutOpen)
		authed.GET("/checkout/summary", h.summaryPage)
		authed.POST("/checkout/back", h.checkoutBack)
		authed.POST("/checkout/confirm", h.checkoutConfirm)

		authed.GET("/ticket/:id", h.ticketPage)
		authed.POST("/ticket/finish", h.ticketFinish)

		authed.GET("/history", h.historyPage)
		authed.GET("/reports/products", h.productReportPage)
		authed.GET("/reports/z", h.zReportPage)
	}

	return router, nil
}

// sessionMiddleware resolves the terminal session from its cookie,
// creating a fresh session (and cookie) when none exists.
func sessionMiddleware(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(sessionCookie); err == nil {
			if sess, ok := store.Lookup(token); ok {
				c.Set(ctxSession, sess)
				c.Next()
				return
			}
		}

		sess, err := store.Create()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
			return
		}
		c.SetCookie(sessionCookie, sess.Token, 0, "/", "", false, true)
		c.Set(ctxSession, sess)
		c.Next()
	}
}

// authRequired gates pages behind a backend-confirmed operator. An
// unknown user triggers one session check against the backend; failure
// routes to login rather than erroring.
func authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if sess == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if sess.User() != nil {
			c.Next()
			return
		}

		user, err := sess.Client.Me(c.Request.Context())
		if err != nil || user == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		sess.SetUser(user)
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(ctxSession)
	if !ok {
		return nil
	}
	sess, ok := v.(*session.Session)
	if !ok {
		return nil
	}
	return sess
}
