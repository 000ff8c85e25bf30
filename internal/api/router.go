// Package api exposes the transaction store and its reports over HTTP.
package api

import (
	"net/http"
	"strconv"
	"time"

	"fjacquet/finance-peres/internal/catalog"
	"fjacquet/finance-peres/internal/insights"
	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/report"
	"fjacquet/finance-peres/internal/store"
	"fjacquet/finance-peres/internal/syncerror"

	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators the handlers use.
type Dependencies struct {
	Store          *store.Store
	Catalog        *catalog.Catalog
	Insights       *insights.Service
	Exporter       *report.Exporter
	Logger         logging.Logger
	AllowedOrigins []string
	CurrencySymbol string
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = logging.NewDiscardLogger()
	}
	if deps.Catalog == nil {
		deps.Catalog = catalog.Default()
	}
	if deps.Exporter == nil {
		deps.Exporter = report.NewExporter(';', true, deps.Logger)
	}
	if deps.Insights == nil {
		deps.Insights = insights.NewService(nil, 1, 0, deps.Logger)
	}

	r := gin.New()
	r.Use(RequestLogger(deps.Logger), gin.Recovery(), corsMiddleware(deps.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	rg := r.Group("/api")
	registerStatusRoutes(rg, deps)
	registerTransactionRoutes(rg, deps)
	registerMonthRoutes(rg, deps)
	registerCategoryRoutes(rg, deps)
	return r
}

// monthParams reads :year and :month path parameters.
func monthParams(c *gin.Context) (int, time.Month, error) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1900 || year > 9999 {
		return 0, 0, &syncerror.ValidationError{Field: "year", Reason: "must be a four-digit year"}
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, &syncerror.ValidationError{Field: "month", Reason: "must be between 1 and 12"}
	}
	return year, time.Month(month), nil
}
