package services

import (
	"fmt"

	"fleetops/internal/authz"
	"fleetops/internal/models"
	"fleetops/pkg/pagination"

	"gorm.io/gorm"
)

type VesselService struct {
	db *gorm.DB
}

// VesselStats 船舶统计信息
type VesselStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
	LaidUp int64 `json:"laid_up"`
	Sold   int64 `json:"sold"`
}

func NewVesselService(db *gorm.DB) *VesselService {
	return &VesselService{db: db}
}

// GetWithFiltersAndPage 组合查询（分页版本，按会话租户范围过滤）
func (s *VesselService) GetWithFiltersAndPage(sess *authz.Session, companyID *uint, status, keyword string, page, pageSize int) ([]*models.Vessel, int64, error) {
	var vessels []*models.Vessel
	var total int64

	query := s.db.Model(&models.Vessel{}).Scopes(authz.CompanyScope(sess, companyID))

	// 添加过滤条件
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("name LIKE ? OR imo_number LIKE ? OR call_sign LIKE ?", searchPattern, searchPattern, searchPattern)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	err := query.Preload("Company").Scopes(pagination.Paginate(page, pageSize)).Order("id DESC").Find(&vessels).Error
	if err != nil {
		return nil, 0, err
	}

	return vessels, total, nil
}

// Create 创建船舶
func (s *VesselService) Create(sess *authz.Session, companyID uint, name, imoNumber, callSign, vesselType, flag string, grossTon, builtYear int) (*models.Vessel, error) {
	if err := authz.RequireCompany(sess); err != nil {
		return nil, err
	}
	// 非超级管理员只能在本公司下创建
	if !sess.IsSuperAdmin() {
		if sess.CompanyID == nil || *sess.CompanyID != companyID {
			return nil, gorm.ErrRecordNotFound
		}
	}

	if err := s.ValidateCreateParams(name, imoNumber); err != nil {
		return nil, err
	}

	// 检查同公司下船名是否重复
	var count int64
	s.db.Model(&models.Vessel{}).Where("company_id = ? AND name = ?", companyID, name).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("该公司下已存在同名船舶")
	}

	// 检查IMO编号是否重复
	s.db.Model(&models.Vessel{}).Where("imo_number = ?", imoNumber).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("IMO编号已存在")
	}

	vessel := &models.Vessel{
		CompanyID: companyID,
		Name:      name,
		IMONumber: imoNumber,
		CallSign:  callSign,
		Type:      vesselType,
		Flag:      flag,
		GrossTon:  grossTon,
		BuiltYear: builtYear,
		Status:    models.VesselStatusActive,
		CreatedBy: sess.UserID,
		UpdatedBy: sess.UserID,
	}

	err := s.db.Create(vessel).Error
	return vessel, err
}

// GetByID 根据ID获取船舶（租户范围内）
func (s *VesselService) GetByID(sess *authz.Session, id uint) (*models.Vessel, error) {
	var vessel models.Vessel
	err := s.db.Scopes(authz.CompanyScope(sess, nil)).
		Preload("Company").Preload("Certificates").
		First(&vessel, id).Error
	return &vessel, err
}

// Update 更新船舶
func (s *VesselService) Update(sess *authz.Session, id uint, name, callSign, vesselType, flag, status string, grossTon, builtYear int) (*models.Vessel, error) {
	var vessel models.Vessel
	err := s.db.Scopes(authz.CompanyScope(sess, nil)).First(&vessel, id).Error
	if err != nil {
		return nil, err
	}

	if !s.ValidateName(name) {
		return nil, fmt.Errorf("船舶名称长度必须在2-100个字符之间")
	}
	if !models.IsValidVesselStatus(status) {
		return nil, fmt.Errorf("无效的船舶状态")
	}

	// 同公司下改名不得与其他船舶重复
	var count int64
	s.db.Model(&models.Vessel{}).Where("company_id = ? AND name = ? AND id != ?", vessel.CompanyID, name, id).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("该公司下已存在同名船舶")
	}

	vessel.Name = name
	vessel.CallSign = callSign
	vessel.Type = vesselType
	vessel.Flag = flag
	vessel.Status = status
	vessel.GrossTon = grossTon
	vessel.BuiltYear = builtYear
	vessel.UpdatedBy = sess.UserID

	err = s.db.Save(&vessel).Error
	return &vessel, err
}

// Delete 删除船舶
func (s *VesselService) Delete(sess *authz.Session, id uint) error {
	var vessel models.Vessel
	err := s.db.Scopes(authz.CompanyScope(sess, nil)).First(&vessel, id).Error
	if err != nil {
		return err
	}

	// 检查是否还有航次
	var voyageCount int64
	s.db.Model(&models.Voyage{}).Where("vessel_id = ?", id).Count(&voyageCount)
	if voyageCount > 0 {
		return fmt.Errorf("该船舶下仍有 %d 个航次，无法删除", voyageCount)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// 先删除船舶证书
		if err := tx.Where("vessel_id = ?", id).Delete(&models.VesselCertificate{}).Error; err != nil {
			return err
		}
		return tx.Delete(&vessel).Error
	})
}

// GetStats 获取船舶统计（租户范围内）
func (s *VesselService) GetStats(sess *authz.Session, companyID *uint) (*VesselStats, error) {
	stats := &VesselStats{}

	base := func() *gorm.DB {
		return s.db.Model(&models.Vessel{}).Scopes(authz.CompanyScope(sess, companyID))
	}

	base().Count(&stats.Total)
	base().Where("status = ?", models.VesselStatusActive).Count(&stats.Active)
	base().Where("status = ?", models.VesselStatusLaidUp).Count(&stats.LaidUp)
	base().Where("status = ?", models.VesselStatusSold).Count(&stats.Sold)

	return stats, nil
}

// ========== 验证方法 ==========

// ValidateName 验证船舶名称
func (s *VesselService) ValidateName(name string) bool {
	return len(name) >= 2 && len(name) <= 100
}

// ValidateIMONumber 验证IMO编号（7位数字，末位为校验位）
func (s *VesselService) ValidateIMONumber(imo string) bool {
	if len(imo) != 7 {
		return false
	}
	sum := 0
	for i := 0; i < 6; i++ {
		if imo[i] < '0' || imo[i] > '9' {
			return false
		}
		sum += int(imo[i]-'0') * (7 - i)
	}
	if imo[6] < '0' || imo[6] > '9' {
		return false
	}
	return sum%10 == int(imo[6]-'0')
}

// ValidateCreateParams 验证创建船舶的参数
func (s *VesselService) ValidateCreateParams(name, imoNumber string) error {
	if !s.ValidateName(name) {
		return fmt.Errorf("船舶名称长度必须在2-100个字符之间")
	}
	if !s.ValidateIMONumber(imoNumber) {
		return fmt.Errorf("IMO编号格式不正确")
	}
	return nil
}
