package api

import (
	"fmt"
	"net/http"

	"fjacquet/finance-peres/internal/dateutils"
	"fjacquet/finance-peres/internal/logging"
	"fjacquet/finance-peres/internal/models"
	"fjacquet/finance-peres/internal/store"
	"fjacquet/finance-peres/internal/syncerror"
	"fjacquet/finance-peres/internal/validation"

	"github.com/gin-gonic/gin"
)

type transactionHandler struct {
	store  *store.Store
	logger logging.Logger
}

func newTransactionHandler(deps Dependencies) *transactionHandler {
	return &transactionHandler{store: deps.Store, logger: deps.Logger}
}

func registerTransactionRoutes(rg *gin.RouterGroup, deps Dependencies) {
	h := newTransactionHandler(deps)
	tx := rg.Group("/transactions")
	{
		tx.GET("", h.list)
		tx.POST("", h.create)
		tx.GET("/:id", h.get)
		tx.PUT("/:id", h.update)
		tx.DELETE("/:id", h.remove)
		tx.POST("/:id/toggle", h.toggle)
	}
}

// list returns every transaction, optionally narrowed by ?month=YYYY-MM and ?kind=.
func (h *transactionHandler) list(c *gin.Context) {
	logger := loggerFrom(c, h.logger)
	records := h.store.Snapshot()

	if month := c.Query("month"); month != "" {
		year, m, err := dateutils.ParseYearMonth(month)
		if err != nil {
			writeError(c, logger, &syncerror.ValidationError{Field: "month", Reason: "must be YYYY-MM"})
			return
		}
		records = store.FilterByMonth(records, year, m)
	}

	if kindParam := c.Query("kind"); kindParam != "" {
		kind, err := validation.ParseKind(kindParam)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		filtered := make([]models.Transaction, 0, len(records))
		for _, t := range records {
			if t.Kind == kind {
				filtered = append(filtered, t)
			}
		}
		records = filtered
	}

	if records == nil {
		records = []models.Transaction{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *transactionHandler) get(c *gin.Context) {
	record, err := h.store.Get(c.Param("id"))
	if err != nil {
		writeError(c, loggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *transactionHandler) create(c *gin.Context) {
	logger := loggerFrom(c, h.logger)
	var record models.Transaction
	if err := c.ShouldBindJSON(&record); err != nil {
		writeError(c, logger, fmt.Errorf("%w: invalid request body: %v", syncerror.ErrValidation, err))
		return
	}

	created, err := h.store.Add(c.Request.Context(), record)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *transactionHandler) update(c *gin.Context) {
	logger := loggerFrom(c, h.logger)
	var record models.Transaction
	if err := c.ShouldBindJSON(&record); err != nil {
		writeError(c, logger, fmt.Errorf("%w: invalid request body: %v", syncerror.ErrValidation, err))
		return
	}
	record.ID = c.Param("id")

	updated, err := h.store.Update(c.Request.Context(), record)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *transactionHandler) remove(c *gin.Context) {
	if err := h.store.Remove(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, loggerFrom(c, h.logger), err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *transactionHandler) toggle(c *gin.Context) {
	toggled, err := h.store.ToggleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, loggerFrom(c, h.logger), err)
		return
	}
	c.JSON(http.StatusOK, toggled)
}
