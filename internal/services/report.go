package services

import (
	"fmt"
	"strings"
	"time"

	"fleetops/internal/authz"
	"fleetops/internal/database"
	"fleetops/internal/models"
	"fleetops/pkg/logger"
	"fleetops/pkg/pagination"
	"fleetops/pkg/queue"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// GetWithFiltersAndPage 组合查询（分页版本，按会话租户范围过滤）
func (s *ReportService) GetWithFiltersAndPage(sess *authz.Session, voyageID *uint, reportType string, page, pageSize int) ([]*models.VoyageReport, int64, error) {
	scope, err := authz.VesselScope(s.db, sess, nil)
	if err != nil {
		return nil, 0, err
	}

	var reports []*models.VoyageReport
	var total int64

	query := s.db.Model(&models.VoyageReport{}).Scopes(scope, authz.OwnRecords(sess))

	// 添加过滤条件
	if voyageID != nil {
		query = query.Where("voyage_id = ?", *voyageID)
	}
	if reportType != "" {
		query = query.Where("type = ?", reportType)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	err = query.Preload("Voyage").Scopes(pagination.Paginate(page, pageSize)).Order("reported_at DESC").Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

// Submit 提交报告
func (s *ReportService) Submit(sess *authz.Session, voyageID uint, reportType string, latitude, longitude, speedKnots, fuelMT float64, remarks string, reportedAt time.Time) (*models.VoyageReport, error) {
	if err := authz.RequireCompany(sess); err != nil {
		return nil, err
	}
	if !models.IsValidReportType(reportType) {
		return nil, fmt.Errorf("无效的报告类型")
	}

	// 航次必须在会话租户范围内
	scope, err := authz.VesselScope(s.db, sess, nil)
	if err != nil {
		return nil, err
	}
	var voyage models.Voyage
	if err := s.db.Scopes(scope).First(&voyage, voyageID).Error; err != nil {
		return nil, err
	}

	if voyage.Status == models.VoyageStatusCompleted {
		return nil, fmt.Errorf("已完成的航次不能再提交报告")
	}

	if reportedAt.IsZero() {
		reportedAt = time.Now()
	}

	report := &models.VoyageReport{
		VoyageID:   voyageID,
		VesselID:   voyage.VesselID,
		Type:       reportType,
		ReportNo:   s.generateReportNo(reportType),
		Latitude:   latitude,
		Longitude:  longitude,
		SpeedKnots: speedKnots,
		FuelMT:     fuelMT,
		Remarks:    remarks,
		ReportedAt: reportedAt,
		CreatedBy:  sess.UserID,
	}

	if err := s.db.Create(report).Error; err != nil {
		return nil, err
	}

	// 发布事件通知（失败不影响主流程）
	s.publishEvent(sess, &voyage, report)

	return report, nil
}

// GetByID 根据ID获取报告（租户范围内）
func (s *ReportService) GetByID(sess *authz.Session, id uint) (*models.VoyageReport, error) {
	scope, err := authz.VesselScope(s.db, sess, nil)
	if err != nil {
		return nil, err
	}

	var report models.VoyageReport
	err = s.db.Scopes(scope, authz.OwnRecords(sess)).
		Preload("Voyage").
		First(&report, id).Error
	return &report, err
}

// Delete 删除报告
func (s *ReportService) Delete(sess *authz.Session, id uint) error {
	scope, err := authz.VesselScope(s.db, sess, nil)
	if err != nil {
		return err
	}

	var report models.VoyageReport
	if err := s.db.Scopes(scope, authz.OwnRecords(sess)).First(&report, id).Error; err != nil {
		return err
	}

	return s.db.Delete(&report).Error
}

// generateReportNo 生成报告编号，如 NOON-20260831-A1B2C3D4
func (s *ReportService) generateReportNo(reportType string) string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", strings.ToUpper(reportType), time.Now().Format("20060102"), short)
}

func (s *ReportService) publishEvent(sess *authz.Session, voyage *models.Voyage, report *models.VoyageReport) {
	redisQueue := database.GetRedisQueue()
	if redisQueue == nil {
		return
	}

	var companyID uint
	if sess.CompanyID != nil {
		companyID = *sess.CompanyID
	} else {
		// 超级管理员代提交时取船舶归属公司
		var vessel models.Vessel
		if err := s.db.First(&vessel, voyage.VesselID).Error; err == nil {
			companyID = vessel.CompanyID
		}
	}

	event := &queue.EventMessage{
		EventID:   uuid.New().String(),
		EventType: "report.submitted",
		CompanyID: companyID,
		VesselID:  voyage.VesselID,
		UserID:    sess.UserID,
		Username:  sess.Username,
		Payload: map[string]interface{}{
			"report_id":   report.ID,
			"report_no":   report.ReportNo,
			"report_type": report.Type,
			"voyage_id":   voyage.ID,
			"voyage_no":   voyage.VoyageNo,
		},
	}

	if err := redisQueue.Publish(event); err != nil {
		logger.GetLogger().WithError(err).Warn("报告事件发布失败")
	}
}
