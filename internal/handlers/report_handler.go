package handlers

import (
	"errors"
	"strconv"
	"time"

	"fleetops/internal/authz"
	"fleetops/internal/database"
	"fleetops/internal/middleware"
	"fleetops/internal/services"
	"fleetops/pkg/pagination"
	"fleetops/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SubmitReportRequest struct {
	VoyageID   uint      `json:"voyage_id" binding:"required"`
	Type       string    `json:"type" binding:"required"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	SpeedKnots float64   `json:"speed_knots"`
	FuelMT     float64   `json:"fuel_mt"`
	Remarks    string    `json:"remarks"`
	ReportedAt time.Time `json:"reported_at"`
}

type ReportHandler struct {
	service *services.ReportService
}

func NewReportHandler() *ReportHandler {
	return &ReportHandler{
		service: services.NewReportService(database.GetDB()),
	}
}

// Submit 提交动态报告
func (h *ReportHandler) Submit(c *gin.Context) {
	var req SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	report, err := h.service.Submit(sess, req.VoyageID, req.Type, req.Latitude, req.Longitude, req.SpeedKnots, req.FuelMT, req.Remarks, req.ReportedAt)
	if err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			response.Forbidden(c, "当前账号未关联公司")
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "航次不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, report)
}

// GetByID 获取报告
func (h *ReportHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	report, err := h.service.GetByID(sess, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "报告不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, report)
}

// List 获取报告列表（分页）
func (h *ReportHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	reportType := c.Query("type")

	var voyageID *uint
	if v := c.Query("voyage_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			response.BadRequest(c, "voyage_id格式错误")
			return
		}
		vid := uint(id)
		voyageID = &vid
	}

	sess := middleware.SessionFromContext(c)
	reports, total, err := h.service.GetWithFiltersAndPage(sess, voyageID, reportType, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, reports, pageInfo)
}

// Delete 删除报告
func (h *ReportHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	if err := h.service.Delete(sess, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "报告不存在")
			return
		}
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
