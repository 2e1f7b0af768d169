package webui

import (
	"net/http"
	"time"

	"pos-terminal/internal/backend"

	"github.com/gin-gonic/gin"
)

type productReportData struct {
	User      *backend.User
	StartDate string
	EndDate   string
	Rows      []backend.ReportRow
	Error     string
}

func (h *handlers) productReportPage(c *gin.Context) {
	sess := currentSession(c)

	today := time.Now().Format("2006-01-02")
	start := c.DefaultQuery("start_date", today)
	end := c.DefaultQuery("end_date", today)

	rows, err := sess.Client.ProductReport(c.Request.Context(), start, end)

	data := productReportData{
		User:      sess.User(),
		StartDate: start,
		EndDate:   end,
		Rows:      rows,
		Error:     flashError(c),
	}
	if err != nil {
		data.Error = userError(err, "Failed to load report")
	}
	h.render(c, http.StatusOK, "report_products", data)
}

type zReportData struct {
	User      *backend.User
	StartDate string
	EndDate   string
	Report    *backend.ZReport
	Error     string
}

func (h *handlers) zReportPage(c *gin.Context) {
	sess := currentSession(c)

	today := time.Now().Format("2006-01-02")
	start := c.DefaultQuery("start_date", today)
	end := c.DefaultQuery("end_date", today)

	report, err := sess.Client.ZReport(c.Request.Context(), start, end)

	data := zReportData{
		User:      sess.User(),
		StartDate: start,
		EndDate:   end,
		Report:    report,
		Error:     flashError(c),
	}
	if err != nil {
		data.Error = userError(err, "Failed to load report")
	}
	h.render(c, http.StatusOK, "report_z", data)
}
