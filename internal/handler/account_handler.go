package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accountService service.AccountService
}

func NewAccountHandler(accountService service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

func (h *AccountHandler) RegisterRoutes(router *gin.RouterGroup) {
	accounts := router.Group("/api/accounts")
	accounts.Use(middleware.RequireRole(model.RoleAdmin, model.RoleAccountant, model.RoleAssistant))
	{
		accounts.GET("", h.ListAccounts)
		accounts.GET("/:code", h.GetAccount)
		accounts.POST("", h.CreateAccount)
		accounts.PATCH("/:code", h.UpdateAccount)
	}

	// Lives outside /api/accounts so the static segment cannot collide with :code.
	router.GET("/api/ledger/integrity",
		middleware.RequireRole(model.RoleAdmin, model.RoleAccountant), h.CheckIntegrity)
}

// ListAccounts returns the full chart of accounts with cached balances
// @Summary      List chart of accounts
// @Tags         accounts
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.AccountResponse}
// @Router       /api/accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, accounts))
}

// GetAccount returns one account by code
func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.accountService.GetAccountByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, account))
}

// CreateAccount adds an account to the chart
// @Summary      Create account
// @Tags         accounts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      service.CreateAccountRequest  true  "Account payload"
// @Success      201      {object}  response.Response{data=service.AccountResponse}
// @Router       /api/accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req service.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, account))
}

// UpdateAccount renames or (de)activates an account
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	var req service.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), currentUserID(c), c.Param("code"), req)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, account))
}

// CheckIntegrity verifies the cached group balances against their descendants
func (h *AccountHandler) CheckIntegrity(c *gin.Context) {
	if err := h.accountService.CheckIntegrity(c.Request.Context()); err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"status": "consistent"}))
}
