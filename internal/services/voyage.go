package services

import (
	"fmt"
	"time"

	"fleetops/internal/authz"
	"fleetops/internal/models"
	"fleetops/pkg/pagination"

	"gorm.io/gorm"
)

type VoyageService struct {
	db *gorm.DB
}

// VoyageStats 航次统计信息
type VoyageStats struct {
	Total     int64 `json:"total"`
	Planned   int64 `json:"planned"`
	Underway  int64 `json:"underway"`
	Completed int64 `json:"completed"`
}

func NewVoyageService(db *gorm.DB) *VoyageService {
	return &VoyageService{db: db}
}

// GetWithFiltersAndPage 组合查询（分页版本，按会话租户范围过滤）
func (s *VoyageService) GetWithFiltersAndPage(sess *authz.Session, vesselID *uint, status, keyword string, page, pageSize int) ([]*models.Voyage, int64, error) {
	scope, err := authz.VesselScope(s.db, sess, nil)
	if err != nil {
		return nil, 0, err
	}

	var voyages []*models.Voyage
	var total int64

	query := s.db.Model(&models.Voyage{}).Scopes(scope, authz.OwnRecords(sess))

	// 添加过滤条件
	if vesselID != nil {
		query = query.Where("vessel_id = ?", *vesselID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("voyage_no LIKE ? OR departure_port LIKE ? OR arrival_port LIKE ?", searchPattern, searchPattern, searchPattern)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	err = query.Preload("Vessel").Scopes(pagination.Paginate(page, pageSize)).Order("id DESC").Find(&voyages).Error
	if err != nil {
		return nil, 0, err
	}

	return voyages, total, nil
}

// Create 创建航次
func (s *VoyageService) Create(sess *authz.Session, vesselID uint, voyageNo, departurePort, arrivalPort, cargoSummary string, etd, eta *time.Time) (*models.Voyage, error) {
	if err := authz.RequireCompany(sess); err != nil {
		return nil, err
	}
	// 船舶必须在会话租户范围内
	var vessel models.Vessel
	if err := s.db.Scopes(authz.CompanyScope(sess, nil)).First(&vessel, vesselID).Error; err != nil {
		return nil, err
	}

	if !s.ValidateVoyageNo(voyageNo) {
		return nil, fmt.Errorf("航次号长度必须在2-50个字符之间")
	}

	// 同船下航次号不得重复
	var count int64
	s.db.Model(&models.Voyage{}).Where("vessel_id = ? AND voyage_no = ?", vesselID, voyageNo).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("该船舶下已存在相同航次号")
	}

	voyage := &models.Voyage{
		VesselID:      vesselID,
		VoyageNo:      voyageNo,
		DeparturePort: departurePort,
		ArrivalPort:   arrivalPort,
		CargoSummary:  cargoSummary,
		ETD:           etd,
		ETA:           eta,
		Status:        models.VoyageStatusPlanned,
		CreatedBy:     sess.UserID,
		UpdatedBy:     sess.UserID,
	}

	err := s.db.Create(voyage).Error
	return voyage, err
}

// GetByID 根据ID获取航次（租户范围内）
func (s *VoyageService) GetByID(sess *authz.Session, id uint) (*models.Voyage, error) {
	scope, err := authz.VesselScope(s.db, sess, nil)
	if err != nil {
		return nil, err
	}

	var voyage models.Voyage
	err = s.db.Scopes(scope, authz.OwnRecords(sess)).
		Preload("Vessel").
		First(&voyage, id).Error
	return &voyage, err
}

// Update 更新航次
func (s *VoyageService) Update(sess *authz.Session, id uint, departurePort, arrivalPort, cargoSummary string, etd, eta *time.Time) (*models.Voyage, error) {
	scope, err := authz.VesselScope(s.db, sess, nil)
	if err != nil {
		return nil, err
	}

	var voyage models.Voyage
	if err := s.db.Scopes(scope, authz.OwnRecords(sess)).First(&voyage, id).Error; err != nil {
		return nil, err
	}

	voyage.DeparturePort = departurePort
	voyage.ArrivalPort = arrivalPort
	voyage.CargoSummary = cargoSummary
	voyage.ETD = etd
	voyage.ETA = eta
	voyage.UpdatedBy = sess.UserID

	err = s.db.Save(&voyage).Error
	return &voyage, err
}

// UpdateStatus 更新航次状态
// 状态只能顺序前进：planned → underway → completed
func (s *VoyageService) UpdateStatus(sess *authz.Session, id uint, status string) (*models.Voyage, error) {
	scope, err := authz.VesselScope(s.db, sess, nil)
	if err != nil {
		return nil, err
	}

	var voyage models.Voyage
	if err := s.db.Scopes(scope, authz.OwnRecords(sess)).First(&voyage, id).Error; err != nil {
		return nil, err
	}

	if !s.canTransition(voyage.Status, status) {
		return nil, fmt.Errorf("航次状态不能从 %s 变更为 %s", voyage.Status, status)
	}

	voyage.Status = status
	voyage.UpdatedBy = sess.UserID
	err = s.db.Save(&voyage).Error
	return &voyage, err
}

// Delete 删除航次
func (s *VoyageService) Delete(sess *authz.Session, id uint) error {
	scope, err := authz.VesselScope(s.db, sess, nil)
	if err != nil {
		return err
	}

	var voyage models.Voyage
	if err := s.db.Scopes(scope, authz.OwnRecords(sess)).First(&voyage, id).Error; err != nil {
		return err
	}

	if voyage.Status == models.VoyageStatusUnderway {
		return fmt.Errorf("进行中的航次无法删除")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		// 级联删除航次下的报告和文书清单
		if err := tx.Where("voyage_id = ?", id).Delete(&models.VoyageReport{}).Error; err != nil {
			return err
		}
		if err := tx.Where("voyage_id = ?", id).Delete(&models.VoyageDocument{}).Error; err != nil {
			return err
		}
		return tx.Delete(&voyage).Error
	})
}

// GetStats 获取航次统计（租户范围内）
func (s *VoyageService) GetStats(sess *authz.Session) (*VoyageStats, error) {
	scope, err := authz.VesselScope(s.db, sess, nil)
	if err != nil {
		return nil, err
	}

	stats := &VoyageStats{}
	base := func() *gorm.DB {
		return s.db.Model(&models.Voyage{}).Scopes(scope, authz.OwnRecords(sess))
	}

	base().Count(&stats.Total)
	base().Where("status = ?", models.VoyageStatusPlanned).Count(&stats.Planned)
	base().Where("status = ?", models.VoyageStatusUnderway).Count(&stats.Underway)
	base().Where("status = ?", models.VoyageStatusCompleted).Count(&stats.Completed)

	return stats, nil
}

// ========== 验证方法 ==========

// ValidateVoyageNo 验证航次号
func (s *VoyageService) ValidateVoyageNo(voyageNo string) bool {
	return len(voyageNo) >= 2 && len(voyageNo) <= 50
}

func (s *VoyageService) canTransition(from, to string) bool {
	switch from {
	case models.VoyageStatusPlanned:
		return to == models.VoyageStatusUnderway
	case models.VoyageStatusUnderway:
		return to == models.VoyageStatusCompleted
	default:
		return false
	}
}
