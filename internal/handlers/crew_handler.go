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

type CreateCrewApplicationRequest struct {
	CompanyID     uint       `json:"company_id"`
	VesselID      *uint      `json:"vessel_id"`
	ApplicantName string     `json:"applicant_name" binding:"required"`
	Rank          string     `json:"rank" binding:"required"`
	Nationality   string     `json:"nationality"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	AvailableFrom *time.Time `json:"available_from"`
}

type ReviewCrewApplicationRequest struct {
	Approve    *bool  `json:"approve" binding:"required"`
	ReviewNote string `json:"review_note"`
}

type CrewHandler struct {
	service *services.CrewService
}

func NewCrewHandler() *CrewHandler {
	return &CrewHandler{
		service: services.NewCrewService(database.GetDB()),
	}
}

// Create 登记船员申请
func (h *CrewHandler) Create(c *gin.Context) {
	var req CreateCrewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	sess := middleware.SessionFromContext(c)

	companyID := req.CompanyID
	if companyID == 0 && sess != nil && sess.CompanyID != nil {
		companyID = *sess.CompanyID
	}

	application, err := h.service.Create(sess, companyID, req.VesselID, req.ApplicantName, req.Rank, req.Nationality, req.Email, req.Phone, req.AvailableFrom)
	if err != nil {
		if errors.Is(err, authz.ErrForbidden) {
			response.Forbidden(c, "当前账号未关联公司")
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "目标船舶不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, application)
}

// GetByID 获取船员申请
func (h *CrewHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	application, err := h.service.GetByID(sess, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "申请不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, application)
}

// List 获取船员申请列表（分页）
func (h *CrewHandler) List(c *gin.Context) {
	params := pagination.ParsePageParams(c)
	status := c.Query("status")
	rank := c.Query("rank")
	keyword := c.Query("keyword")

	sess := middleware.SessionFromContext(c)
	applications, total, err := h.service.GetWithFiltersAndPage(sess, status, rank, keyword, params.Page, params.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(params.Page, params.PageSize, total)
	response.SuccessWithPage(c, applications, pageInfo)
}

// Review 审核船员申请
func (h *CrewHandler) Review(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req ReviewCrewApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	application, err := h.service.Review(sess, uint(id), *req.Approve, req.ReviewNote)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "申请不存在")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, application)
}

// Delete 删除船员申请
func (h *CrewHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	sess := middleware.SessionFromContext(c)
	if err := h.service.Delete(sess, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "申请不存在")
			return
		}
		response.ServerError(c, "删除失败")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
