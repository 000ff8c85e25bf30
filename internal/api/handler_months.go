package api

import (
	"bytes"
	"fmt"
	"net/http"

	"fjacquet/finance-peres/internal/dateutils"
	"fjacquet/finance-peres/internal/insights"
	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/report"
	"fjacquet/finance-peres/internal/store"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type monthHandler struct {
	store    *store.Store
	exporter *report.Exporter
	insights *insights.Service
	symbol   string
	logger   logging.Logger
}

func newMonthHandler(deps Dependencies) *monthHandler {
	symbol := deps.CurrencySymbol
	if symbol == "" {
		symbol = "R$"
	}
	return &monthHandler{
		store:    deps.Store,
		exporter: deps.Exporter,
		insights: deps.Insights,
		symbol:   symbol,
		logger:   deps.Logger,
	}
}

func registerMonthRoutes(rg *gin.RouterGroup, deps Dependencies) {
	h := newMonthHandler(deps)
	m := rg.Group("/months/:year/:month")
	{
		m.POST("/copy-previous", h.copyPrevious)
		m.GET("/summary", h.summary)
		m.GET("/export.csv", h.exportCSV)
		m.GET("/export.xlsx", h.exportXLSX)
		m.GET("/report", h.report)
		m.GET("/insights", h.insights)
	}
}

func (h *monthHandler) copyPrevious(c *gin.Context) {
	logger := loggerFrom(c, h.logger)
	year, month, err := monthParams(c)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	fromYear, fromMonth := dateutils.PreviousMonth(year, month)
	copies, err := h.store.CopyPreviousMonth(c.Request.Context(), fromYear, fromMonth, year, month)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"copied": len(copies), "transactions": copies})
}

func (h *monthHandler) summary(c *gin.Context) {
	year, month, err := monthParams(c)
	if err != nil {
		writeError(c, loggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusOK, report.Summarize(h.store.FilterByMonth(year, month), year, month))
}

func (h *monthHandler) exportCSV(c *gin.Context) {
	logger := loggerFrom(c, h.logger)
	year, month, err := monthParams(c)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.WriteCSV(&buf, h.store.FilterByMonth(year, month)); err != nil {
		writeError(c, logger, err)
		return
	}
	c.Header("Content-Disposition", attachment(year, int(month), "csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *monthHandler) exportXLSX(c *gin.Context) {
	logger := loggerFrom(c, h.logger)
	year, month, err := monthParams(c)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	records := h.store.FilterByMonth(year, month)
	var buf bytes.Buffer
	err = h.exporter.WriteXLSX(&buf, records, report.Summarize(records, year, month),
		dateutils.MonthLabel(year, month))
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.Header("Content-Disposition", attachment(year, int(month), "xlsx"))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// report renders the shareable text summary. ?hide=true masks amounts.
func (h *monthHandler) report(c *gin.Context) {
	year, month, err := monthParams(c)
	if err != nil {
		writeError(c, loggerFrom(c, h.logger), err)
		return
	}
	hide := c.Query("hide") == "true" || c.Query("hide") == "1"
	text := report.ShareText(dateutils.MonthLabel(year, month),
		report.Summarize(h.store.FilterByMonth(year, month), year, month), h.symbol, hide)
	c.String(http.StatusOK, text)
}

func (h *monthHandler) insights(c *gin.Context) {
	logger := loggerFrom(c, h.logger)
	year, month, err := monthParams(c)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	insight, err := h.insights.Insights(c.Request.Context(), dateutils.MonthLabel(year, month),
		h.store.FilterByMonth(year, month), year, month)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, insight)
}

func attachment(year, month int, ext string) string {
	return fmt.Sprintf(`attachment; filename="financas-%04d-%02d.%s"`, year, month, ext)
}
