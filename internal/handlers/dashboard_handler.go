package handlers

import (
	"fleetops/internal/database"
	"fleetops/internal/middleware"
	"fleetops/internal/services"
	"fleetops/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	service *services.DashboardService
}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{
		service: services.NewDashboardService(database.GetDB()),
	}
}

// GetOverview 工作台总览
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	overview, err := h.service.GetOverview(sess)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, overview)
}
