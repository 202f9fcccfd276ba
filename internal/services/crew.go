package services

import (
	"fmt"
	"time"

	"fleetops/internal/authz"
	"fleetops/internal/models"
	"fleetops/pkg/pagination"

	"gorm.io/gorm"
)

type CrewService struct {
	db *gorm.DB
}

func NewCrewService(db *gorm.DB) *CrewService {
	return &CrewService{db: db}
}

// GetWithFiltersAndPage 组合查询（分页版本，按会话租户范围过滤）
func (s *CrewService) GetWithFiltersAndPage(sess *authz.Session, status, rank, keyword string, page, pageSize int) ([]*models.CrewApplication, int64, error) {
	var applications []*models.CrewApplication
	var total int64

	query := s.db.Model(&models.CrewApplication{}).Scopes(authz.CompanyScope(sess, nil), authz.OwnRecords(sess))

	// 添加过滤条件
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if rank != "" {
		query = query.Where("rank = ?", rank)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("applicant_name LIKE ? OR email LIKE ?", searchPattern, searchPattern)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	err := query.Preload("Vessel").Scopes(pagination.Paginate(page, pageSize)).Order("id DESC").Find(&applications).Error
	if err != nil {
		return nil, 0, err
	}

	return applications, total, nil
}

// Create 创建船员申请
func (s *CrewService) Create(sess *authz.Session, companyID uint, vesselID *uint, applicantName, rank, nationality, email, phone string, availableFrom *time.Time) (*models.CrewApplication, error) {
	if err := authz.RequireCompany(sess); err != nil {
		return nil, err
	}
	// 非超级管理员只能在本公司下登记申请
	if !sess.IsSuperAdmin() && *sess.CompanyID != companyID {
		return nil, gorm.ErrRecordNotFound
	}

	if err := s.ValidateCreateParams(applicantName, rank); err != nil {
		return nil, err
	}

	// 目标船舶必须归属同一公司
	if vesselID != nil {
		var vessel models.Vessel
		if err := s.db.Where("company_id = ?", companyID).First(&vessel, *vesselID).Error; err != nil {
			return nil, err
		}
	}

	application := &models.CrewApplication{
		CompanyID:     companyID,
		VesselID:      vesselID,
		ApplicantName: applicantName,
		Rank:          rank,
		Nationality:   nationality,
		Email:         email,
		Phone:         phone,
		AvailableFrom: availableFrom,
		Status:        models.CrewStatusPending,
		CreatedBy:     sess.UserID,
	}

	err := s.db.Create(application).Error
	return application, err
}

// GetByID 根据ID获取船员申请（租户范围内）
func (s *CrewService) GetByID(sess *authz.Session, id uint) (*models.CrewApplication, error) {
	var application models.CrewApplication
	err := s.db.Scopes(authz.CompanyScope(sess, nil), authz.OwnRecords(sess)).
		Preload("Vessel").
		First(&application, id).Error
	return &application, err
}

// Review 审核船员申请
func (s *CrewService) Review(sess *authz.Session, id uint, approve bool, reviewNote string) (*models.CrewApplication, error) {
	var application models.CrewApplication
	err := s.db.Scopes(authz.CompanyScope(sess, nil)).First(&application, id).Error
	if err != nil {
		return nil, err
	}

	if application.Status != models.CrewStatusPending {
		return nil, fmt.Errorf("该申请已审核，不能重复审核")
	}

	if approve {
		application.Status = models.CrewStatusApproved
	} else {
		application.Status = models.CrewStatusRejected
	}
	application.ReviewNote = reviewNote
	reviewerID := sess.UserID
	application.ReviewedBy = &reviewerID

	err = s.db.Save(&application).Error
	return &application, err
}

// Delete 删除船员申请
func (s *CrewService) Delete(sess *authz.Session, id uint) error {
	var application models.CrewApplication
	err := s.db.Scopes(authz.CompanyScope(sess, nil), authz.OwnRecords(sess)).First(&application, id).Error
	if err != nil {
		return err
	}

	return s.db.Delete(&application).Error
}

// ========== 验证方法 ==========

// ValidateApplicantName 验证申请人姓名
func (s *CrewService) ValidateApplicantName(name string) bool {
	return len(name) >= 2 && len(name) <= 100
}

// ValidateRank 验证职级
func (s *CrewService) ValidateRank(rank string) bool {
	return len(rank) >= 2 && len(rank) <= 50
}

// ValidateCreateParams 验证创建船员申请的参数
func (s *CrewService) ValidateCreateParams(applicantName, rank string) error {
	if !s.ValidateApplicantName(applicantName) {
		return fmt.Errorf("申请人姓名长度必须在2-100个字符之间")
	}
	if !s.ValidateRank(rank) {
		return fmt.Errorf("职级长度必须在2-50个字符之间")
	}
	return nil
}
