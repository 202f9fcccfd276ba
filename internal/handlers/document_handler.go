package handlers

import (
	"errors"
	"strconv"

	"fleetops/internal/authz"
	"fleetops/internal/database"
	"fleetops/internal/middleware"
	"fleetops/internal/services"
	"fleetops/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AddDocumentFromCertificateRequest struct {
	CertificateID uint   `json:"certificate_id" binding:"required"`
	Note          string `json:"note"`
}

type AddManualDocumentRequest struct {
	Name          string `json:"name" binding:"required"`
	Category      string `json:"category"`
	CertificateNo string `json:"certificate_no"`
	Note          string `json:"note"`
}

type UpdateDocumentStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

type DocumentHandler struct {
	service *services.DocumentService
}

func NewDocumentHandler() *DocumentHandler {
	return &DocumentHandler{
		service: services.NewDocumentService(database.GetDB()),
	}
}

// ListByVoyage 获取航次文书清单（水合后）
func (h *DocumentHandler) ListByVoyage(c *gin.Context) {
	voyageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	documents, err := h.service.ListByVoyage(sess, uint(voyageID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "航次不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, documents)
}

// AddFromCertificate 从证书库添加文书条目
func (h *DocumentHandler) AddFromCertificate(c *gin.Context) {
	voyageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req AddDocumentFromCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	doc, err := h.service.AddFromCertificate(sess, uint(voyageID), req.CertificateID, req.Note)
	if err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			response.Forbidden(c, "当前账号未关联公司")
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "航次或证书不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, doc)
}

// AddManual 手工添加文书条目
func (h *DocumentHandler) AddManual(c *gin.Context) {
	voyageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req AddManualDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	doc, err := h.service.AddManual(sess, uint(voyageID), req.Name, req.Category, req.CertificateNo, req.Note)
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

	response.Success(c, doc)
}

// UpdateStatus 更新文书收集状态
func (h *DocumentHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateDocumentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	doc, err := h.service.UpdateStatus(sess, uint(id), req.Status, req.Note)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "文书不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, doc)
}

// Delete 删除文书条目
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	if err := h.service.Delete(sess, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "文书不存在")
			return
		}
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
