package handler

import (
	"net/http"
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatementHandler struct {
	statementService service.StatementService
}

func NewStatementHandler(statementService service.StatementService) *StatementHandler {
	return &StatementHandler{statementService: statementService}
}

func (h *StatementHandler) RegisterRoutes(router *gin.RouterGroup) {
	statements := router.Group("/api/statements")
	statements.Use(middleware.RequireRole(model.RoleAdmin, model.RoleAccountant, model.RoleAssistant))
	{
		statements.GET("/trial-balance", h.TrialBalance)
		statements.GET("/balance-sheet", h.BalanceSheet)
		statements.GET("/income-statement", h.IncomeStatement)
		statements.GET("/cash-flow", h.CashFlowStatement)
	}

	mappings := router.Group("/api/cash-flow-mappings")
	mappings.Use(middleware.RequireRole(model.RoleAdmin, model.RoleAccountant))
	{
		mappings.GET("", h.ListCashFlowMappings)
		mappings.PUT("", h.SetCashFlowMapping)
	}
}

// TrialBalance returns period movement and ending balances per account
// @Summary      Trial balance
// @Tags         statements
// @Security     BearerAuth
// @Produce      json
// @Param        mode  query  string  false  "detail or summary (default detail)"
// @Param        from  query  string  true   "Start date YYYY-MM-DD"
// @Param        to    query  string  true   "End date YYYY-MM-DD"
// @Success      200   {object}  response.Response{data=model.TrialBalanceReport}
// @Router       /api/statements/trial-balance [get]
func (h *StatementHandler) TrialBalance(c *gin.Context) {
	mode := c.DefaultQuery("mode", model.TrialBalanceDetail)
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	report, err := h.statementService.TrialBalance(c.Request.Context(), mode, from, to)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// BalanceSheet returns assets/liabilities/equity as of a date
func (h *StatementHandler) BalanceSheet(c *gin.Context) {
	asOf, err := time.Parse("2006-01-02", c.DefaultQuery("as_of", time.Now().Format("2006-01-02")))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid as_of date (expected YYYY-MM-DD)"))
		return
	}

	report, err := h.statementService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// IncomeStatement returns income vs expenses for a period
func (h *StatementHandler) IncomeStatement(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	report, err := h.statementService.IncomeStatement(c.Request.Context(), from, to)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// CashFlowStatement returns the three category totals for a period
func (h *StatementHandler) CashFlowStatement(c *gin.Context) {
	from, to, ok := parseRange(c)
	if !ok {
		return
	}

	report, err := h.statementService.CashFlowStatement(c.Request.Context(), from, to)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}

// SetCashFlowMapping assigns an account to a cash flow category
func (h *StatementHandler) SetCashFlowMapping(c *gin.Context) {
	var req service.SetCashFlowMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.statementService.SetCashFlowMapping(c.Request.Context(), currentUserID(c), req); err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, req))
}

// ListCashFlowMappings returns the configured account-to-category assignments
func (h *StatementHandler) ListCashFlowMappings(c *gin.Context) {
	mappings, err := h.statementService.ListCashFlowMappings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, mappings))
}

// parseRange reads the from/to query params; on failure it writes the error
// response and returns ok=false.
func parseRange(c *gin.Context) (from, to time.Time, ok bool) {
	var err error
	from, err = time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid from date (expected YYYY-MM-DD)"))
		return time.Time{}, time.Time{}, false
	}
	to, err = time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid to date (expected YYYY-MM-DD)"))
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
