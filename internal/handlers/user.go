package handlers

import (
	"errors"
	"strconv"
	"strings"

	"fleetops/internal/authz"
	"fleetops/internal/database"
	"fleetops/internal/middleware"
	"fleetops/internal/models"
	"fleetops/internal/services"
	"fleetops/pkg/pagination"
	"fleetops/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	CompanyID *uint   `json:"company_id"`
	RoleID    *uint   `json:"role_id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Name      string  `json:"name"`
	Phone     *string `json:"phone"`
}

type UpdateUserRequest struct {
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  *string `json:"phone"`
	Status string  `json:"status"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

type SetRoleRequest struct {
	RoleID *uint `json:"role_id"`
}

type SetOverridesRequest struct {
	AdditionalPermissions []string `json:"additional_permissions"`
	ExcludedPermissions   []string `json:"excluded_permissions"`
}

type UserHandler struct {
	service *services.UserService
}

func NewUserHandler() *UserHandler {
	return &UserHandler{
		service: services.NewUserService(database.GetDB()),
	}
}

// ========== 基础CRUD方法 ==========

// Create 创建用户
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	// 非超级管理员只能在本公司下建用户
	sess := middleware.SessionFromContext(c)
	if sess != nil && !sess.IsSuperAdmin() {
		req.CompanyID = sess.CompanyID
	}

	user, err := h.service.Create(req.CompanyID, req.RoleID, req.Username, req.Email, req.Password, req.Name, req.Phone)
	if err != nil {
		errMsg := err.Error()

		// 参数验证和业务逻辑错误 -> 400
		if strings.Contains(errMsg, "长度") ||
			strings.Contains(errMsg, "格式") ||
			strings.Contains(errMsg, "已存在") ||
			strings.Contains(errMsg, "不存在") {
			response.BadRequest(c, errMsg)
			return
		}

		response.ServerError(c, "创建失败")
		return
	}

	response.Success(c, user)
}

// GetByID 获取用户
func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	user, err := h.service.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	// 越权访问按不存在处理
	sess := middleware.SessionFromContext(c)
	if sess != nil && !sess.IsSuperAdmin() {
		if sess.CompanyID == nil || user.CompanyID == nil || *user.CompanyID != *sess.CompanyID {
			response.NotFound(c, "用户不存在")
			return
		}
	}

	response.Success(c, user)
}

// List 获取用户列表（分页）
func (h *UserHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	status := c.Query("status")
	keyword := c.Query("keyword")

	// 公司过滤：超级管理员可指定，普通用户锁定本公司
	sess := middleware.SessionFromContext(c)
	var companyID *uint
	if sess != nil && sess.IsSuperAdmin() {
		if v := c.Query("company_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				response.BadRequest(c, "company_id格式错误")
				return
			}
			cid := uint(id)
			companyID = &cid
		}
	} else if sess != nil {
		companyID = sess.CompanyID
		if companyID == nil {
			// 未划归公司，看不到任何用户
			response.SuccessWithPage(c, []interface{}{}, pagination.NewPageInfo(params.Page, params.PageSize, 0))
			return
		}
	}

	users, total, err := h.service.GetWithFiltersAndPage(companyID, status, keyword, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, users, pageInfo)
}

// Update 更新用户
func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	user, err := h.service.Update(middleware.SessionFromContext(c), uint(id), req.Name, req.Email, req.Phone, req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, user)
}

// Delete 删除用户
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	if err := h.service.Delete(middleware.SessionFromContext(c), uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// ========== 角色与权限覆盖 ==========

// SetRole 设置用户角色
func (h *UserHandler) SetRole(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	user, err := h.service.SetRole(middleware.SessionFromContext(c), uint(id), req.RoleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, user)
}

// SetOverrides 设置用户的附加/排除权限
func (h *UserHandler) SetOverrides(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req SetOverridesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	user, err := h.service.SetOverrides(middleware.SessionFromContext(c), uint(id), req.AdditionalPermissions, req.ExcludedPermissions)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, user)
}

// ========== 状态管理 ==========

// Activate 激活用户
func (h *UserHandler) Activate(c *gin.Context) {
	h.setStatus(c, h.service.Activate)
}

// Deactivate 停用用户
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setStatus(c, h.service.Deactivate)
}

// Lock 锁定用户
func (h *UserHandler) Lock(c *gin.Context) {
	h.setStatus(c, h.service.Lock)
}

func (h *UserHandler) setStatus(c *gin.Context, fn func(*authz.Session, uint) (*models.User, error)) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	user, err := fn(middleware.SessionFromContext(c), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, user)
}

// ResetPassword 重置用户密码
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if _, err := h.service.ResetPassword(middleware.SessionFromContext(c), uint(id), req.NewPassword); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "用户不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.SuccessWithMessage(c, "密码重置成功", nil)
}

// GetStats 用户统计
func (h *UserHandler) GetStats(c *gin.Context) {
	sess := middleware.SessionFromContext(c)

	stats, err := h.service.GetStats(sess, nil)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, stats)
}
