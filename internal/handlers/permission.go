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

type CreatePermissionRequest struct {
	Slug        string `json:"slug" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Group       string `json:"group" binding:"required"`
}

type UpdatePermissionRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status" binding:"required"`
}

type PermissionHandler struct {
	service *services.PermissionService
}

func NewPermissionHandler() *PermissionHandler {
	return &PermissionHandler{
		service: services.NewPermissionService(database.GetDB()),
	}
}

// List 获取权限列表（分页）
func (h *PermissionHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	group := c.Query("group")
	assignableOnly := c.Query("assignable") == "true"

	permissions, total, err := h.service.GetWithPage(group, assignableOnly, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, permissions, pageInfo)
}

// GetGrouped 按分组获取权限目录
func (h *PermissionHandler) GetGrouped(c *gin.Context) {
	assignableOnly := c.Query("assignable") == "true"

	grouped, err := h.service.GetGrouped(assignableOnly)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, grouped)
}

// GetByID 获取权限
func (h *PermissionHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	permission, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "权限不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, permission)
}

// Create 创建权限
func (h *PermissionHandler) Create(c *gin.Context) {
	var req CreatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	permission, err := h.service.Create(req.Slug, req.Name, req.Description, req.Group)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, permission)
}

// Update 更新权限（slug不可变更）
func (h *PermissionHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	permission, err := h.service.Update(uint(id), req.Name, req.Description, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "权限不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, permission)
}
