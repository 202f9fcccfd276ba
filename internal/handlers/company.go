package handlers

import (
	"errors"
	"strconv"

	"fleetops/internal/database"
	"fleetops/internal/services"
	"fleetops/pkg/pagination"
	"fleetops/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateCompanyRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
}

type UpdateCompanyRequest struct {
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Status      string `json:"status" binding:"required"`
}

type CompanyHandler struct {
	service *services.CompanyService
}

func NewCompanyHandler() *CompanyHandler {
	return &CompanyHandler{
		service: services.NewCompanyService(database.GetDB()),
	}
}

// Create 创建公司
func (h *CompanyHandler) Create(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	company, err := h.service.Create(req.Name, req.Code, req.ContactName, req.Email)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, company)
}

// GetByID 获取公司
func (h *CompanyHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	company, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "公司不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, company)
}

// List 获取公司列表（分页）
func (h *CompanyHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	status := c.Query("status")
	keyword := c.Query("keyword")

	companies, total, err := h.service.GetWithFiltersAndPage(status, keyword, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, companies, pageInfo)
}

// Update 更新公司
func (h *CompanyHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	company, err := h.service.Update(uint(id), req.Name, req.ContactName, req.Email, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "公司不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, company)
}

// Delete 删除公司（软删除，名下用户随即无法通过鉴权）
func (h *CompanyHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "公司不存在")
			return
		}
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// Activate 激活公司
func (h *CompanyHandler) Activate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	company, err := h.service.Activate(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "公司不存在")
			return
		}
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, company)
}

// Deactivate 停用公司（名下用户会话立即失效）
func (h *CompanyHandler) Deactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	company, err := h.service.Deactivate(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "公司不存在")
			return
		}
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, company)
}

// GetStats 公司统计
func (h *CompanyHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats()
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, stats)
}
