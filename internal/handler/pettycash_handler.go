package handler

import (
	"context"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type PettyCashHandler struct {
	pettyCashService service.PettyCashService
}

func NewPettyCashHandler(pettyCashService service.PettyCashService) *PettyCashHandler {
	return &PettyCashHandler{pettyCashService: pettyCashService}
}

func (h *PettyCashHandler) RegisterRoutes(router *gin.RouterGroup) {
	funds := router.Group("/api/petty-cash")
	funds.Use(middleware.RequireRole(model.RoleAdmin, model.RoleAccountant, model.RoleAssistant))
	{
		funds.GET("", h.ListFunds)
		funds.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleAccountant), h.CreateFund)
		funds.POST("/:id/replenish", h.Replenish)
		funds.POST("/:id/spend", h.Spend)
		funds.GET("/:id/movements", h.ListMovements)
	}
}

// CreateFund opens a new petty cash fund
func (h *PettyCashHandler) CreateFund(c *gin.Context) {
	var req service.CreateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	fund, err := h.pettyCashService.CreateFund(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, fund))
}

// ListFunds returns all petty cash funds with balances
func (h *PettyCashHandler) ListFunds(c *gin.Context) {
	funds, err := h.pettyCashService.ListFunds(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, funds))
}

// Replenish adds cash to a fund
func (h *PettyCashHandler) Replenish(c *gin.Context) {
	h.move(c, h.pettyCashService.Replenish)
}

// Spend records an expense against a fund
func (h *PettyCashHandler) Spend(c *gin.Context) {
	h.move(c, h.pettyCashService.Spend)
}

func (h *PettyCashHandler) move(c *gin.Context, fn func(ctx context.Context, userID, fundID string, req service.FundMovementRequest) (service.FundResponse, error)) {
	var req service.FundMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	fund, err := fn(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, fund))
}

// ListMovements returns paginated fund movements, newest first
func (h *PettyCashHandler) ListMovements(c *gin.Context) {
	params := pagination.Parse(c)

	movements, total, err := h.pettyCashService.ListMovements(c.Request.Context(), c.Param("id"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, movements, params.Meta(total)))
}
