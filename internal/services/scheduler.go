package services

import (
	"fmt"
	"time"

	"fleetops/internal/models"
	"fleetops/pkg/logger"
	"fleetops/pkg/queue"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// CertificateScheduler 证书到期巡检调度器
// 定时把过期证书标记为expired，并对30天内到期的证书按公司发布提醒事件
type CertificateScheduler struct {
	db      *gorm.DB
	queue   *queue.RedisQueue
	cron    *cron.Cron
	spec    string
	running bool
}

// NewCertificateScheduler 创建证书到期巡检调度器
func NewCertificateScheduler(db *gorm.DB, queue *queue.RedisQueue, spec string) *CertificateScheduler {
	if spec == "" {
		spec = "0 2 * * *" // 默认每天凌晨2点
	}
	return &CertificateScheduler{
		db:    db,
		queue: queue,
		cron:  cron.New(),
		spec:  spec,
	}
}

// Start 启动调度器
func (s *CertificateScheduler) Start() error {
	if s.running {
		return fmt.Errorf("调度器已经在运行")
	}

	logger.GetLogger().Info("启动证书到期巡检调度器")

	if _, err := s.cron.AddFunc(s.spec, s.runSweep); err != nil {
		return fmt.Errorf("添加定时任务失败: %v", err)
	}

	s.cron.Start()
	s.running = true

	logger.GetLogger().Infof("证书到期巡检调度器启动成功，cron: %s", s.spec)
	return nil
}

// Stop 停止调度器
func (s *CertificateScheduler) Stop() {
	if !s.running {
		return
	}

	logger.GetLogger().Info("停止证书到期巡检调度器")
	s.cron.Stop()
	s.running = false
}

// RunOnce 立即执行一次巡检
func (s *CertificateScheduler) RunOnce() {
	s.runSweep()
}

func (s *CertificateScheduler) runSweep() {
	log := logger.GetLogger()

	// 标记已过期的证书
	result := s.db.Model(&models.VesselCertificate{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", models.CertificateStatusValid, time.Now()).
		Update("status", models.CertificateStatusExpired)
	if result.Error != nil {
		log.Errorf("证书过期扫描失败: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Infof("证书过期扫描完成，标记 %d 本证书为已过期", result.RowsAffected)
	}

	// 按公司发布到期提醒
	s.notifyExpiring()
}

// expiringRow 到期提醒的查询结果行
type expiringRow struct {
	CertID    uint
	CertName  string
	ExpiresAt time.Time
	VesselID  uint
	CompanyID uint
}

func (s *CertificateScheduler) notifyExpiring() {
	if s.queue == nil {
		return
	}
	log := logger.GetLogger()

	deadline := time.Now().AddDate(0, 0, 30)

	var rows []expiringRow
	err := s.db.Model(&models.VesselCertificate{}).
		Select("vessel_certificates.id AS cert_id, vessel_certificates.name AS cert_name, vessel_certificates.expires_at, vessels.id AS vessel_id, vessels.company_id").
		Joins("JOIN vessels ON vessels.id = vessel_certificates.vessel_id").
		Where("vessel_certificates.status = ? AND vessel_certificates.expires_at IS NOT NULL AND vessel_certificates.expires_at <= ?",
			models.CertificateStatusValid, deadline).
		Scan(&rows).Error
	if err != nil {
		log.Errorf("查询临期证书失败: %v", err)
		return
	}

	for _, row := range rows {
		event := &queue.EventMessage{
			EventID:   uuid.New().String(),
			EventType: "certificate.expiring",
			CompanyID: row.CompanyID,
			VesselID:  row.VesselID,
			Payload: map[string]interface{}{
				"certificate_id":   row.CertID,
				"certificate_name": row.CertName,
				"expires_at":       row.ExpiresAt.Format(time.RFC3339),
			},
		}
		if err := s.queue.Publish(event); err != nil {
			log.Warnf("证书到期提醒发布失败: %v", err)
		}
	}

	if len(rows) > 0 {
		log.Infof("已发布 %d 条证书到期提醒", len(rows))
	}
}
