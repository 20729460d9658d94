package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medequity/pharmarisk/internal/application/analysis"
	"github.com/medequity/pharmarisk/pkg/errors"
)

// AnalysisHandler serves the per-company analytics endpoints.
type AnalysisHandler struct {
	svc analysis.Service
}

// NewAnalysisHandler constructs an AnalysisHandler.
func NewAnalysisHandler(svc analysis.Service) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

func ticker(c *gin.Context) (string, bool) {
	t := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	if t == "" {
		respondError(c, errors.NewValidation("ticker is required"))
		return "", false
	}
	return t, true
}

// GetRisk handles GET /api/v1/companies/:ticker/risk.
func (h *AnalysisHandler) GetRisk(c *gin.Context) {
	t, ok := ticker(c)
	if !ok {
		return
	}
	out, err := h.svc.AnalyzeRisk(c.Request.Context(), t)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, out)
}

// GetApprovals handles GET /api/v1/companies/:ticker/approvals.
func (h *AnalysisHandler) GetApprovals(c *gin.Context) {
	t, ok := ticker(c)
	if !ok {
		return
	}
	out, err := h.svc.PredictApprovals(c.Request.Context(), t)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, out)
}

// GetPatentCliffs handles GET /api/v1/companies/:ticker/patent-cliffs.
func (h *AnalysisHandler) GetPatentCliffs(c *gin.Context) {
	t, ok := ticker(c)
	if !ok {
		return
	}
	out, err := h.svc.AnalyzePatentCliffs(c.Request.Context(), t)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, out)
}

// GetImpact handles GET /api/v1/companies/:ticker/impact.
func (h *AnalysisHandler) GetImpact(c *gin.Context) {
	t, ok := ticker(c)
	if !ok {
		return
	}
	out, err := h.svc.ProjectImpact(c.Request.Context(), t)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, out)
}

// GetAlerts handles GET /api/v1/companies/:ticker/alerts.
func (h *AnalysisHandler) GetAlerts(c *gin.Context) {
	t, ok := ticker(c)
	if !ok {
		return
	}
	out, err := h.svc.GenerateAlerts(c.Request.Context(), t)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, out)
}

// GetDashboard handles GET /api/v1/companies/:ticker/dashboard.
func (h *AnalysisHandler) GetDashboard(c *gin.Context) {
	t, ok := ticker(c)
	if !ok {
		return
	}
	out, err := h.svc.GetDashboard(c.Request.Context(), t)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, out)
}
