package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type JournalHandler struct {
	postingService service.PostingService
}

func NewJournalHandler(postingService service.PostingService) *JournalHandler {
	return &JournalHandler{postingService: postingService}
}

func (h *JournalHandler) RegisterRoutes(router *gin.RouterGroup) {
	entries := router.Group("/api/journal-entries")
	entries.Use(middleware.RequireRole(model.RoleAdmin, model.RoleAccountant, model.RoleAssistant))
	{
		entries.GET("", h.ListEntries)
		entries.GET("/:id", h.GetEntry)
		entries.POST("", h.PostEntry)
		entries.POST("/:id/reverse", middleware.RequireRole(model.RoleAdmin, model.RoleAccountant), h.ReverseEntry)
	}
}

// PostEntry validates and posts a balanced journal entry
// @Summary      Post journal entry
// @Tags         journal
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      service.PostEntryRequest  true  "Entry payload"
// @Success      201      {object}  response.Response{data=service.JournalEntryResponse}
// @Router       /api/journal-entries [post]
func (h *JournalHandler) PostEntry(c *gin.Context) {
	var req service.PostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	entry, err := h.postingService.PostEntry(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

// ReverseEntry creates a linked inverse entry and marks the original REVERSED
func (h *JournalHandler) ReverseEntry(c *gin.Context) {
	entry, err := h.postingService.ReverseEntry(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, entry))
}

// GetEntry returns one journal entry with its lines
func (h *JournalHandler) GetEntry(c *gin.Context) {
	entry, err := h.postingService.GetEntry(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// ListEntries returns paginated journal entries, newest first
func (h *JournalHandler) ListEntries(c *gin.Context) {
	params := pagination.Parse(c)

	entries, total, err := h.postingService.ListEntries(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, entries, params.Meta(total)))
}
