package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"skyview-backend/services"
	"skyview-backend/utils"
)

type DashboardService interface {
	Overview(ctx context.Context) (*services.DashboardOverview, error)
}

type DashboardController struct {
	dashboard DashboardService
	log       Logger
}

func NewDashboardController(dashboard DashboardService, log Logger) *DashboardController {
	return &DashboardController{dashboard: dashboard, log: log}
}

func (dc *DashboardController) GetDashboardOverview(c *gin.Context) {
	overview, err := dc.dashboard.Overview(c.Request.Context())
	if err != nil {
		dc.log.Error("Failed to build dashboard overview: %v", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "dashboard": overview})
}
