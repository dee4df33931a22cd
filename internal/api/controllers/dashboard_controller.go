package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"angido/internal/config"
	"angido/internal/services"
	"angido/pkg/utils"
)

type DashboardController struct {
	dashboardService services.DashboardService
	currency         string
}

func NewDashboardController(dashboardService services.DashboardService, cfg *config.Config) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		currency:         cfg.DefaultCurrency,
	}
}

// GetDashboard godoc
// @Summary Get dashboard report
// @Description Fetch KPI blocks, revenue/new users/subscriptions/AI series, plan mix, top places and provinces, and recent payments
// @Tags Admin
// @Accept json
// @Produce json
// @Param start     query string false "RFC3339 start (e.g. 2025-10-01T00:00:00Z)"
// @Param end       query string false "RFC3339 end   (e.g. 2025-10-19T23:59:59Z)"
// @Param last_days query int    false "Relative lookback in days (mutually exclusive with start/end). Default 30"
// @Param interval  query string false "Bucket size: day | week | month (default: day)"
// @Param tz        query string false "IANA timezone for bucketing (default: Asia/Ho_Chi_Minh)"
// @Param currency  query string false "ISO 4217 currency code for labeling (default: VND)"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/dashboard/stats [get]
func (p *DashboardController) GetDashboard(c *gin.Context) {
	rng, err := services.ParseDashboardRange(
		c.Query("last_days"),
		c.Query("start"),
		c.Query("end"),
		c.Query("interval"),
		c.Query("tz"),
	)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	currency := strings.ToUpper(c.DefaultQuery("currency", p.currency))
	if currency == "" {
		currency = "VND"
	}

	report, err := p.dashboardService.BuildDashboard(c.Request.Context(), rng, currency)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, report, "Dashboard data fetched successfully")
}
