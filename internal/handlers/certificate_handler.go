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

type CreateCertificateRequest struct {
	VesselID      uint       `json:"vessel_id" binding:"required"`
	Name          string     `json:"name" binding:"required"`
	Category      string     `json:"category"`
	CertificateNo string     `json:"certificate_no"`
	IssuedBy      string     `json:"issued_by"`
	IssuedAt      *time.Time `json:"issued_at"`
	ExpiresAt     *time.Time `json:"expires_at"`
	FileName      string     `json:"file_name"`
	FilePath      string     `json:"file_path"`
}

type UpdateCertificateRequest struct {
	Name          string     `json:"name" binding:"required"`
	Category      string     `json:"category"`
	CertificateNo string     `json:"certificate_no"`
	IssuedBy      string     `json:"issued_by"`
	IssuedAt      *time.Time `json:"issued_at"`
	ExpiresAt     *time.Time `json:"expires_at"`
	FileName      string     `json:"file_name"`
	FilePath      string     `json:"file_path"`
}

type CertificateHandler struct {
	service *services.CertificateService
}

func NewCertificateHandler() *CertificateHandler {
	return &CertificateHandler{
		service: services.NewCertificateService(database.GetDB()),
	}
}

// Create 创建证书
func (h *CertificateHandler) Create(c *gin.Context) {
	var req CreateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	cert, err := h.service.Create(sess, req.VesselID, req.Name, req.Category, req.CertificateNo, req.IssuedBy, req.FileName, req.FilePath, req.IssuedAt, req.ExpiresAt)
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

	response.Success(c, cert)
}

// GetByID 获取证书
func (h *CertificateHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	cert, err := h.service.GetByID(sess, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "证书不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, cert)
}

// List 获取证书列表（分页）
func (h *CertificateHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	category := c.Query("category")
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
	certs, total, err := h.service.GetWithFiltersAndPage(sess, vesselID, category, status, keyword, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, certs, pageInfo)
}

// Update 更新证书
func (h *CertificateHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	cert, err := h.service.Update(sess, uint(id), req.Name, req.Category, req.CertificateNo, req.IssuedBy, req.FileName, req.FilePath, req.IssuedAt, req.ExpiresAt)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "证书不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, cert)
}

// Delete 删除证书
func (h *CertificateHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	if err := h.service.Delete(sess, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "证书不存在")
			return
		}
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// GetExpiring 获取即将到期的证书
func (h *CertificateHandler) GetExpiring(c *gin.Context) {
	days := 30
	if v := c.Query("days"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d <= 0 || d > 365 {
			response.BadRequest(c, "days参数错误")
			return
		}
		days = d
	}

	sess := middleware.SessionFromContext(c)
	certs, err := h.service.GetExpiring(sess, days)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, certs)
}
