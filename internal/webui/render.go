package webui

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"pos-terminal/internal/backend"
	"pos-terminal/internal/money"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var pageNames = []string{
	"login", "register", "orders", "checkout", "summary",
	"ticket", "history", "detail", "report_products", "report_z",
}

var pages = mustParsePages()

func mustParsePages() map[string]*template.Template {
	funcs := template.FuncMap{
		"money": money.Format,
	}
	out := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		out[name] = template.Must(
			template.New("layout.tmpl").Funcs(funcs).ParseFS(templatesFS, "templates/layout.tmpl", "templates/"+name+".tmpl"),
		)
	}
	return out
}

// handlers binds the page and action handlers to their collaborators.
type handlers struct {
	deps   Deps
	logger *log.Logger
}

func (h *handlers) render(c *gin.Context, status int, page string, data interface{}) {
	tmpl, ok := pages[page]
	if !ok {
		h.logger.Printf("render: unknown page %q", page)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(c.Writer, "layout.tmpl", data); err != nil {
		h.logger.Printf("render %s: %v", page, err)
	}
}

// redirectErr redirects carrying a user-facing error message in the
// query string, the SSR replacement for in-page error state.
func redirectErr(c *gin.Context, path, msg string) {
	c.Redirect(http.StatusFound, path+"?err="+url.QueryEscape(msg))
}

// flashError pulls the error message set by a previous redirect.
func flashError(c *gin.Context) string {
	return c.Query("err")
}

// userError maps a client error to the message shown to the operator:
// backend messages verbatim, transport failures as a generic line.
func userError(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if isNetworkError(err) {
		return "Network error"
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

func isNetworkError(err error) bool {
	return errors.Is(err, backend.ErrNetwork) || errors.Is(err, context.DeadlineExceeded)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
