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

type CreateVoyageRequest struct {
	VesselID      uint       `json:"vessel_id" binding:"required"`
	VoyageNo      string     `json:"voyage_no" binding:"required"`
	DeparturePort string     `json:"departure_port"`
	ArrivalPort   string     `json:"arrival_port"`
	CargoSummary  string     `json:"cargo_summary"`
	ETD           *time.Time `json:"etd"`
	ETA           *time.Time `json:"eta"`
}

type UpdateVoyageRequest struct {
	DeparturePort string     `json:"departure_port"`
	ArrivalPort   string     `json:"arrival_port"`
	CargoSummary  string     `json:"cargo_summary"`
	ETD           *time.Time `json:"etd"`
	ETA           *time.Time `json:"eta"`
}

type UpdateVoyageStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type VoyageHandler struct {
	service *services.VoyageService
}

func NewVoyageHandler() *VoyageHandler {
	return &VoyageHandler{
		service: services.NewVoyageService(database.GetDB()),
	}
}

// Create 创建航次
func (h *VoyageHandler) Create(c *gin.Context) {
	var req CreateVoyageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	voyage, err := h.service.Create(sess, req.VesselID, req.VoyageNo, req.DeparturePort, req.ArrivalPort, req.CargoSummary, req.ETD, req.ETA)
	if err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			response.Forbidden(c, "当前账号未关联公司")
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "船舶不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, voyage)
}

// GetByID 获取航次
func (h *VoyageHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	voyage, err := h.service.GetByID(sess, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "航次不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, voyage)
}

// List 获取航次列表（分页）
func (h *VoyageHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	status := c.Query("status")
	keyword := c.Query("keyword")

	var vesselID *uint
	if v := c.Query("vessel_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			response.BadRequest(c, "vessel_id格式错误")
			return
		}
		vid := uint(id)
		vesselID = &vid
	}

	sess := middleware.SessionFromContext(c)
	voyages, total, err := h.service.GetWithFiltersAndPage(sess, vesselID, status, keyword, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, voyages, pageInfo)
}

// Update 更新航次
func (h *VoyageHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateVoyageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	voyage, err := h.service.Update(sess, uint(id), req.DeparturePort, req.ArrivalPort, req.CargoSummary, req.ETD, req.ETA)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "航次不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, voyage)
}

// UpdateStatus 变更航次状态
func (h *VoyageHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateVoyageStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	voyage, err := h.service.UpdateStatus(sess, uint(id), req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "航次不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, voyage)
}

// Delete 删除航次
func (h *VoyageHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	if err := h.service.Delete(sess, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "航次不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// GetStats 航次统计
func (h *VoyageHandler) GetStats(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	stats, err := h.service.GetStats(sess)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, stats)
}
