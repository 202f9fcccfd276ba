package services

import (
	"sync"
	"time"

	"fleetops/internal/authz"
	"fleetops/internal/models"

	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

// DashboardOverview 工作台总览数据
type DashboardOverview struct {
	VesselTotal      int64 `json:"vessel_total"`
	VesselActive     int64 `json:"vessel_active"`
	VoyageUnderway   int64 `json:"voyage_underway"`
	VoyagePlanned    int64 `json:"voyage_planned"`
	CertExpiring30   int64 `json:"cert_expiring_30"` // 30天内到期的证书数
	CertExpired      int64 `json:"cert_expired"`
	DocumentPending  int64 `json:"document_pending"`
	CrewPending      int64 `json:"crew_pending"`
	ReportCount7Days int64 `json:"report_count_7_days"`
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// GetOverview 获取工作台总览（各项统计并发执行，均先套租户范围）
func (s *DashboardService) GetOverview(sess *authz.Session) (*DashboardOverview, error) {
	vesselScope, err := authz.VesselScope(s.db, sess, nil)
	if err != nil {
		return nil, err
	}

	overview := &DashboardOverview{}
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	count := func(dst *int64, build func() *gorm.DB) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := build().Count(dst).Error; err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}()
	}

	count(&overview.VesselTotal, func() *gorm.DB {
		return s.db.Model(&models.Vessel{}).Scopes(authz.CompanyScope(sess, nil))
	})
	count(&overview.VesselActive, func() *gorm.DB {
		return s.db.Model(&models.Vessel{}).Scopes(authz.CompanyScope(sess, nil)).
			Where("status = ?", models.VesselStatusActive)
	})
	count(&overview.VoyageUnderway, func() *gorm.DB {
		return s.db.Model(&models.Voyage{}).Scopes(vesselScope, authz.OwnRecords(sess)).
			Where("status = ?", models.VoyageStatusUnderway)
	})
	count(&overview.VoyagePlanned, func() *gorm.DB {
		return s.db.Model(&models.Voyage{}).Scopes(vesselScope, authz.OwnRecords(sess)).
			Where("status = ?", models.VoyageStatusPlanned)
	})
	count(&overview.CertExpiring30, func() *gorm.DB {
		deadline := time.Now().AddDate(0, 0, 30)
		return s.db.Model(&models.VesselCertificate{}).Scopes(vesselScope).
			Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", models.CertificateStatusValid, deadline)
	})
	count(&overview.CertExpired, func() *gorm.DB {
		return s.db.Model(&models.VesselCertificate{}).Scopes(vesselScope).
			Where("status = ?", models.CertificateStatusExpired)
	})
	count(&overview.DocumentPending, func() *gorm.DB {
		return s.db.Model(&models.VoyageDocument{}).
			Where("voyage_id IN (?)", s.db.Model(&models.Voyage{}).Select("id").Scopes(vesselScope)).
			Where("status = ?", models.DocumentStatusPending)
	})
	count(&overview.CrewPending, func() *gorm.DB {
		return s.db.Model(&models.CrewApplication{}).Scopes(authz.CompanyScope(sess, nil)).
			Where("status = ?", models.CrewStatusPending)
	})
	count(&overview.ReportCount7Days, func() *gorm.DB {
		since := time.Now().AddDate(0, 0, -7)
		return s.db.Model(&models.VoyageReport{}).Scopes(vesselScope, authz.OwnRecords(sess)).
			Where("reported_at >= ?", since)
	})

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return overview, nil
}
