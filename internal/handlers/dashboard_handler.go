package handlers

import (
	"net/http"

	"jobboard_backend/internal/middleware"
	"jobboard_backend/internal/services"
	"jobboard_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	*BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(base *BaseHandler, dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      base,
		dashboardService: dashboardService,
	}
}

func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	dashboard := rg.Group("/dashboard")
	dashboard.Use(middleware.AuthMiddleware())
	{
		dashboard.GET("", h.GetDashboard)
		dashboard.GET("/stats", h.GetStats)
	}
}

func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	resp, err := h.dashboardService.Get(c.Request.Context(), h.GetDB(c), caller)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DashboardHandler) GetStats(c *gin.Context) {
	caller, ok := h.GetCaller(c)
	if !ok {
		return
	}

	var query dto.StatsQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	stats, err := h.dashboardService.Stats(c.Request.Context(), h.GetDB(c), caller, query.Days)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
