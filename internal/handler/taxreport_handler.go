package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaxReportHandler struct {
	taxReportService service.TaxReportService
}

func NewTaxReportHandler(taxReportService service.TaxReportService) *TaxReportHandler {
	return &TaxReportHandler{taxReportService: taxReportService}
}

func (h *TaxReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	tax := router.Group("/api/tax-reports")
	tax.Use(middleware.RequireRole(model.RoleAdmin, model.RoleAccountant))
	{
		tax.POST("/itbis-proportionality", h.ComputeProportionality)
	}
}

// ComputeProportionality computes the ITBIS apportionment for a period.
// The sales/purchase aggregates come from the invoicing side; this endpoint
// only runs the calculation.
// @Summary      ITBIS proportionality
// @Tags         tax-reports
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      service.TaxProportionalityRequest  true  "Period aggregates"
// @Success      200      {object}  response.Response{data=model.TaxProportionalityReport}
// @Router       /api/tax-reports/itbis-proportionality [post]
func (h *TaxReportHandler) ComputeProportionality(c *gin.Context) {
	var req service.TaxProportionalityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	report, err := h.taxReportService.ComputeProportionality(req)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
