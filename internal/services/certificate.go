package services

import (
	"fmt"
	"time"

	"fleetops/internal/authz"
	"fleetops/internal/models"
	"fleetops/pkg/pagination"

	"gorm.io/gorm"
)

type CertificateService struct {
	db *gorm.DB
}

func NewCertificateService(db *gorm.DB) *CertificateService {
	return &CertificateService{db: db}
}

// GetWithFiltersAndPage 组合查询（分页版本，按会话租户范围过滤）
func (s *CertificateService) GetWithFiltersAndPage(sess *authz.Session, vesselID *uint, category, status, keyword string, page, pageSize int) ([]*models.VesselCertificate, int64, error) {
	scope, err := authz.VesselScope(s.db, sess, nil)
	if err != nil {
		return nil, 0, err
	}

	var certs []*models.VesselCertificate
	var total int64

	query := s.db.Model(&models.VesselCertificate{}).Scopes(scope)

	// 添加过滤条件
	if vesselID != nil {
		query = query.Where("vessel_id = ?", *vesselID)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("name LIKE ? OR certificate_no LIKE ?", searchPattern, searchPattern)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	err = query.Scopes(pagination.Paginate(page, pageSize)).Order("expires_at ASC").Find(&certs).Error
	if err != nil {
		return nil, 0, err
	}

	return certs, total, nil
}

// Create 创建证书
func (s *CertificateService) Create(sess *authz.Session, vesselID uint, name, category, certificateNo, issuedBy, fileName, filePath string, issuedAt, expiresAt *time.Time) (*models.VesselCertificate, error) {
	if err := authz.RequireCompany(sess); err != nil {
		return nil, err
	}
	// 船舶必须在会话租户范围内
	var vessel models.Vessel
	if err := s.db.Scopes(authz.CompanyScope(sess, nil)).First(&vessel, vesselID).Error; err != nil {
		return nil, err
	}

	if err := s.ValidateCreateParams(name, category); err != nil {
		return nil, err
	}

	cert := &models.VesselCertificate{
		VesselID:      vesselID,
		Name:          name,
		Category:      category,
		CertificateNo: certificateNo,
		IssuedBy:      issuedBy,
		IssuedAt:      issuedAt,
		ExpiresAt:     expiresAt,
		FileName:      fileName,
		FilePath:      filePath,
		Status:        models.CertificateStatusValid,
		CreatedBy:     sess.UserID,
		UpdatedBy:     sess.UserID,
	}

	// 入库即判断是否已过期
	if expiresAt != nil && expiresAt.Before(time.Now()) {
		cert.Status = models.CertificateStatusExpired
	}

	err := s.db.Create(cert).Error
	return cert, err
}

// GetByID 根据ID获取证书（租户范围内）
func (s *CertificateService) GetByID(sess *authz.Session, id uint) (*models.VesselCertificate, error) {
	scope, err := authz.VesselScope(s.db, sess, nil)
	if err != nil {
		return nil, err
	}

	var cert models.VesselCertificate
	err = s.db.Scopes(scope).First(&cert, id).Error
	return &cert, err
}

// Update 更新证书
func (s *CertificateService) Update(sess *authz.Session, id uint, name, category, certificateNo, issuedBy, fileName, filePath string, issuedAt, expiresAt *time.Time) (*models.VesselCertificate, error) {
	scope, err := authz.VesselScope(s.db, sess, nil)
	if err != nil {
		return nil, err
	}

	var cert models.VesselCertificate
	if err := s.db.Scopes(scope).First(&cert, id).Error; err != nil {
		return nil, err
	}

	if err := s.ValidateCreateParams(name, category); err != nil {
		return nil, err
	}

	cert.Name = name
	cert.Category = category
	cert.CertificateNo = certificateNo
	cert.IssuedBy = issuedBy
	cert.IssuedAt = issuedAt
	cert.ExpiresAt = expiresAt
	cert.FileName = fileName
	cert.FilePath = filePath
	cert.UpdatedBy = sess.UserID

	if expiresAt != nil && expiresAt.Before(time.Now()) {
		cert.Status = models.CertificateStatusExpired
	} else {
		cert.Status = models.CertificateStatusValid
	}

	err = s.db.Save(&cert).Error
	return &cert, err
}

// Delete 删除证书
// 航次文书对该证书的指针引用保留，水合时回退到快照
func (s *CertificateService) Delete(sess *authz.Session, id uint) error {
	scope, err := authz.VesselScope(s.db, sess, nil)
	if err != nil {
		return err
	}

	var cert models.VesselCertificate
	if err := s.db.Scopes(scope).First(&cert, id).Error; err != nil {
		return err
	}

	return s.db.Delete(&cert).Error
}

// GetExpiring 获取即将过期的证书（租户范围内，days 天内到期）
func (s *CertificateService) GetExpiring(sess *authz.Session, days int) ([]*models.VesselCertificate, error) {
	scope, err := authz.VesselScope(s.db, sess, nil)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().AddDate(0, 0, days)

	var certs []*models.VesselCertificate
	err = s.db.Scopes(scope).
		Where("expires_at IS NOT NULL AND expires_at <= ?", deadline).
		Order("expires_at ASC").
		Find(&certs).Error
	return certs, err
}

// SweepExpired 将已过期但状态仍为valid的证书标记为expired
// 由定时任务调用，返回更新数量
func (s *CertificateService) SweepExpired() (int64, error) {
	result := s.db.Model(&models.VesselCertificate{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", models.CertificateStatusValid, time.Now()).
		Update("status", models.CertificateStatusExpired)
	return result.RowsAffected, result.Error
}

// ========== 验证方法 ==========

// ValidateName 验证证书名称
func (s *CertificateService) ValidateName(name string) bool {
	return len(name) >= 2 && len(name) <= 100
}

// ValidateCategory 验证证书类别
func (s *CertificateService) ValidateCategory(category string) bool {
	return category == "" || category == "class" || category == "statutory" || category == "trading"
}

// ValidateCreateParams 验证创建证书的参数
func (s *CertificateService) ValidateCreateParams(name, category string) error {
	if !s.ValidateName(name) {
		return fmt.Errorf("证书名称长度必须在2-100个字符之间")
	}
	if !s.ValidateCategory(category) {
		return fmt.Errorf("证书类别只能是class、statutory或trading")
	}
	return nil
}
