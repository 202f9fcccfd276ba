package handlers

import (
	"errors"
	"strconv"

	"fleetops/internal/authz"
	"fleetops/internal/database"
	"fleetops/internal/middleware"
	"fleetops/internal/services"
	"fleetops/pkg/pagination"
	"fleetops/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateVesselRequest struct {
	CompanyID uint   `json:"company_id"`
	Name      string `json:"name" binding:"required"`
	IMONumber string `json:"imo_number" binding:"required,imo"`
	CallSign  string `json:"call_sign"`
	Type      string `json:"type"`
	Flag      string `json:"flag"`
	GrossTon  int    `json:"gross_ton"`
	BuiltYear int    `json:"built_year"`
}

type UpdateVesselRequest struct {
	Name      string `json:"name" binding:"required"`
	CallSign  string `json:"call_sign"`
	Type      string `json:"type"`
	Flag      string `json:"flag"`
	Status    string `json:"status" binding:"required"`
	GrossTon  int    `json:"gross_ton"`
	BuiltYear int    `json:"built_year"`
}

type VesselHandler struct {
	service *services.VesselService
}

func NewVesselHandler() *VesselHandler {
	return &VesselHandler{
		service: services.NewVesselService(database.GetDB()),
	}
}

// Create 创建船舶
func (h *VesselHandler) Create(c *gin.Context) {
	var req CreateVesselRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	sess := middleware.SessionFromContext(c)

	// 普通用户不传company_id时默认落到本公司
	companyID := req.CompanyID
	if companyID == 0 && sess != nil && sess.CompanyID != nil {
		companyID = *sess.CompanyID
	}

	vessel, err := h.service.Create(sess, companyID, req.Name, req.IMONumber, req.CallSign, req.Type, req.Flag, req.GrossTon, req.BuiltYear)
	if err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			response.Forbidden(c, "当前账号未关联公司")
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "公司不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, vessel)
}

// GetByID 获取船舶
func (h *VesselHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	vessel, err := h.service.GetByID(sess, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "船舶不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, vessel)
}

// List 获取船舶列表（分页）
func (h *VesselHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	status := c.Query("status")
	keyword := c.Query("keyword")

	var companyID *uint
	if v := c.Query("company_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			response.BadRequest(c, "company_id格式错误")
			return
		}
		cid := uint(id)
		companyID = &cid
	}

	sess := middleware.SessionFromContext(c)
	vessels, total, err := h.service.GetWithFiltersAndPage(sess, companyID, status, keyword, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, vessels, pageInfo)
}

// Update 更新船舶
func (h *VesselHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateVesselRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	vessel, err := h.service.Update(sess, uint(id), req.Name, req.CallSign, req.Type, req.Flag, req.Status, req.GrossTon, req.BuiltYear)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "船舶不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, vessel)
}

// Delete 删除船舶
func (h *VesselHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	if err := h.service.Delete(sess, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "船舶不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// GetStats 船舶统计
func (h *VesselHandler) GetStats(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	stats, err := h.service.GetStats(sess, nil)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, stats)
}
