package services

import (
	"fmt"
	"unicode/utf8"

	"fleetops/internal/models"

	"gorm.io/gorm"
)

type CompanyService struct {
	db *gorm.DB
}

// CompanyStats 公司统计信息
type CompanyStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

func NewCompanyService(db *gorm.DB) *CompanyService {
	return &CompanyService{db: db}
}

// GetWithFiltersAndPage 组合查询（分页版本）
func (s *CompanyService) GetWithFiltersAndPage(status, keyword string, page, pageSize int) ([]*models.Company, int64, error) {
	var companies []*models.Company
	var total int64

	query := s.db.Model(&models.Company{})

	// 添加过滤条件
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("name LIKE ? OR code LIKE ?", searchPattern, searchPattern)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Find(&companies).Error
	if err != nil {
		return nil, 0, err
	}

	// 统计每家公司的船舶数量
	for i := range companies {
		var vesselCount int64
		s.db.Model(&models.Vessel{}).Where("company_id = ?", companies[i].ID).Count(&vesselCount)
		companies[i].VesselCount = int(vesselCount)
	}

	return companies, total, nil
}

// Create 创建公司
func (s *CompanyService) Create(name, code, contactName, email string) (*models.Company, error) {
	// 验证参数
	if err := s.ValidateCreateParams(name, code); err != nil {
		return nil, err
	}

	// 检查代码是否重复
	var count int64
	s.db.Model(&models.Company{}).Where("code = ?", code).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("公司代码已存在")
	}

	company := &models.Company{
		Name:        name,
		Code:        code,
		ContactName: contactName,
		Email:       email,
		Status:      models.CompanyStatusActive,
	}

	err := s.db.Create(company).Error
	return company, err
}

// GetByID 根据ID获取公司
func (s *CompanyService) GetByID(id uint) (*models.Company, error) {
	var company models.Company
	err := s.db.First(&company, id).Error
	return &company, err
}

// Update 更新公司
func (s *CompanyService) Update(id uint, name, contactName, email, status string) (*models.Company, error) {
	if !s.ValidateName(name) {
		return nil, fmt.Errorf("公司名称长度必须在2-100个字符之间")
	}
	if status != models.CompanyStatusActive && status != models.CompanyStatusInactive {
		return nil, fmt.Errorf("状态只能是active或inactive")
	}

	var company models.Company
	err := s.db.First(&company, id).Error
	if err != nil {
		return nil, err
	}

	company.Name = name
	company.ContactName = contactName
	company.Email = email
	company.Status = status

	err = s.db.Save(&company).Error
	return &company, err
}

// Delete 删除公司（软删除）
// 注销后该公司用户的会话在下一次鉴权即失效
func (s *CompanyService) Delete(id uint) error {
	var company models.Company
	err := s.db.First(&company, id).Error
	if err != nil {
		return err
	}

	return s.db.Delete(&company).Error
}

// Activate 激活公司
func (s *CompanyService) Activate(id uint) (*models.Company, error) {
	return s.setStatus(id, models.CompanyStatusActive)
}

// Deactivate 停用公司
func (s *CompanyService) Deactivate(id uint) (*models.Company, error) {
	return s.setStatus(id, models.CompanyStatusInactive)
}

func (s *CompanyService) setStatus(id uint, status string) (*models.Company, error) {
	var company models.Company
	err := s.db.First(&company, id).Error
	if err != nil {
		return nil, err
	}

	company.Status = status
	err = s.db.Save(&company).Error
	return &company, err
}

// GetStats 获取公司统计
func (s *CompanyService) GetStats() (*CompanyStats, error) {
	stats := &CompanyStats{}

	s.db.Model(&models.Company{}).Count(&stats.Total)
	s.db.Model(&models.Company{}).Where("status = ?", models.CompanyStatusActive).Count(&stats.Active)
	s.db.Model(&models.Company{}).Where("status = ?", models.CompanyStatusInactive).Count(&stats.Inactive)

	return stats, nil
}

// ========== 验证方法 ==========

// ValidateName 验证公司名称
func (s *CompanyService) ValidateName(name string) bool {
	runeCount := utf8.RuneCountInString(name)
	return runeCount >= 2 && runeCount <= 100
}

// ValidateCode 验证公司代码
func (s *CompanyService) ValidateCode(code string) bool {
	if len(code) < 2 || len(code) > 50 {
		return false
	}
	for _, r := range code {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return false
		}
	}
	return true
}

// ValidateCreateParams 验证创建公司的参数
func (s *CompanyService) ValidateCreateParams(name, code string) error {
	if !s.ValidateName(name) {
		return fmt.Errorf("公司名称长度必须在2-100个字符之间")
	}
	if !s.ValidateCode(code) {
		return fmt.Errorf("公司代码长度必须在2-50个字符之间，且只能包含字母、数字、下划线和连字符")
	}
	return nil
}
