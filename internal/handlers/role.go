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

type CreateRoleRequest struct {
	Name           string `json:"name" binding:"required"`
	Description    string `json:"description"`
	OwnRecordsOnly bool   `json:"own_records_only"`
}

type UpdateRoleRequest struct {
	Description    string `json:"description"`
	Status         string `json:"status" binding:"required"`
	OwnRecordsOnly bool   `json:"own_records_only"`
}

type AssignPermissionsRequest struct {
	PermissionIDs []uint `json:"permission_ids"`
}

type RoleHandler struct {
	service *services.RoleService
}

func NewRoleHandler() *RoleHandler {
	return &RoleHandler{
		service: services.NewRoleService(database.GetDB()),
	}
}

// Create 创建角色
func (h *RoleHandler) Create(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	role, err := h.service.Create(req.Name, req.Description, req.OwnRecordsOnly)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, role)
}

// GetByID 获取角色
func (h *RoleHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	role, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "角色不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, role)
}

// List 获取角色列表（分页）
func (h *RoleHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	status := c.Query("status")

	roles, total, err := h.service.GetWithPage(status, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, roles, pageInfo)
}

// Update 更新角色
func (h *RoleHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	role, err := h.service.Update(uint(id), req.Description, req.Status, req.OwnRecordsOnly)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "角色不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, role)
}

// Delete 删除角色
func (h *RoleHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.Delete(uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "角色不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// AssignPermissions 为角色分配权限
func (h *RoleHandler) AssignPermissions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req AssignPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if err := h.service.AssignPermissions(uint(id), req.PermissionIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "角色不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "权限分配成功", nil)
}

// GetPermissions 获取角色的权限列表
func (h *RoleHandler) GetPermissions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	permissions, err := h.service.GetRolePermissions(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "角色不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, permissions)
}
