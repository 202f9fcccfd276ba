package services

import (
	"fmt"

	"fleetops/internal/authz"
	"fleetops/internal/database"
	"fleetops/internal/models"
	"fleetops/pkg/logger"
	"fleetops/pkg/queue"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentService struct {
	db *gorm.DB
}

func NewDocumentService(db *gorm.DB) *DocumentService {
	return &DocumentService{db: db}
}

// ListByVoyage 获取航次的到港文书清单（水合后返回）
func (s *DocumentService) ListByVoyage(sess *authz.Session, voyageID uint) ([]*models.VoyageDocument, error) {
	voyage, err := s.findVoyage(sess, voyageID)
	if err != nil {
		return nil, err
	}

	var documents []*models.VoyageDocument
	err = s.db.Where("voyage_id = ?", voyage.ID).Order("id ASC").Find(&documents).Error
	if err != nil {
		return nil, err
	}

	if err := s.hydrate(documents); err != nil {
		return nil, err
	}

	return documents, nil
}

// hydrate 文书水合：指针仍指向存活证书的条目合并实时字段并刷新快照，
// 悬空指针回退到快照，Live置false
func (s *DocumentService) hydrate(documents []*models.VoyageDocument) error {
	// 收集存活指针
	certIDs := make([]uint, 0, len(documents))
	for _, doc := range documents {
		if doc.CertificateID != nil {
			certIDs = append(certIDs, *doc.CertificateID)
		}
	}
	if len(certIDs) == 0 {
		return nil
	}

	// 批量取回存活证书
	var certs []models.VesselCertificate
	if err := s.db.Where("id IN ?", certIDs).Find(&certs).Error; err != nil {
		return err
	}
	certMap := make(map[uint]*models.VesselCertificate, len(certs))
	for i := range certs {
		certMap[certs[i].ID] = &certs[i]
	}

	for _, doc := range documents {
		if doc.CertificateID == nil {
			continue
		}
		cert, ok := certMap[*doc.CertificateID]
		if !ok {
			// 悬空指针：证书已删除，保留快照
			continue
		}

		doc.Live = true

		// 实时字段覆盖快照，有变化则写回
		if doc.Name != cert.Name || doc.Category != cert.Category ||
			doc.CertificateNo != cert.CertificateNo ||
			doc.FileName != cert.FileName || doc.FilePath != cert.FilePath {
			doc.Name = cert.Name
			doc.Category = cert.Category
			doc.CertificateNo = cert.CertificateNo
			doc.FileName = cert.FileName
			doc.FilePath = cert.FilePath
			if err := s.db.Model(&models.VoyageDocument{}).Where("id = ?", doc.ID).Updates(map[string]interface{}{
				"name":           cert.Name,
				"category":       cert.Category,
				"certificate_no": cert.CertificateNo,
				"file_name":      cert.FileName,
				"file_path":      cert.FilePath,
			}).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// AddFromCertificate 从船舶证书库添加文书条目（指针引用+快照）
func (s *DocumentService) AddFromCertificate(sess *authz.Session, voyageID, certificateID uint, note string) (*models.VoyageDocument, error) {
	if err := authz.RequireCompany(sess); err != nil {
		return nil, err
	}

	voyage, err := s.findVoyage(sess, voyageID)
	if err != nil {
		return nil, err
	}

	// 证书必须归属同一船舶
	var cert models.VesselCertificate
	if err := s.db.Where("vessel_id = ?", voyage.VesselID).First(&cert, certificateID).Error; err != nil {
		return nil, err
	}

	// 同一证书在同一航次下只加一次
	var count int64
	s.db.Model(&models.VoyageDocument{}).Where("voyage_id = ? AND certificate_id = ?", voyageID, certificateID).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("该证书已在本航次文书清单中")
	}

	certID := cert.ID
	doc := &models.VoyageDocument{
		VoyageID:      voyageID,
		CertificateID: &certID,
		Name:          cert.Name,
		Category:      cert.Category,
		CertificateNo: cert.CertificateNo,
		FileName:      cert.FileName,
		FilePath:      cert.FilePath,
		Status:        models.DocumentStatusPending,
		Note:          note,
		CreatedBy:     sess.UserID,
		UpdatedBy:     sess.UserID,
		Live:          true,
	}

	err = s.db.Create(doc).Error
	return doc, err
}

// AddManual 手工添加文书条目（无证书指针）
func (s *DocumentService) AddManual(sess *authz.Session, voyageID uint, name, category, certificateNo, note string) (*models.VoyageDocument, error) {
	if err := authz.RequireCompany(sess); err != nil {
		return nil, err
	}
	if len(name) < 2 || len(name) > 100 {
		return nil, fmt.Errorf("文书名称长度必须在2-100个字符之间")
	}

	voyage, err := s.findVoyage(sess, voyageID)
	if err != nil {
		return nil, err
	}

	doc := &models.VoyageDocument{
		VoyageID:      voyage.ID,
		Name:          name,
		Category:      category,
		CertificateNo: certificateNo,
		Status:        models.DocumentStatusPending,
		Note:          note,
		CreatedBy:     sess.UserID,
		UpdatedBy:     sess.UserID,
	}

	err = s.db.Create(doc).Error
	return doc, err
}

// UpdateStatus 更新文书收集状态
func (s *DocumentService) UpdateStatus(sess *authz.Session, id uint, status, note string) (*models.VoyageDocument, error) {
	if status != models.DocumentStatusPending && status != models.DocumentStatusCollected && status != models.DocumentStatusWaived {
		return nil, fmt.Errorf("文书状态只能是pending、collected或waived")
	}

	doc, err := s.findDocument(sess, id)
	if err != nil {
		return nil, err
	}

	doc.Status = status
	doc.Note = note
	doc.UpdatedBy = sess.UserID

	if err := s.db.Save(doc).Error; err != nil {
		return nil, err
	}

	s.publishEvent(sess, doc)

	return doc, nil
}

// Delete 删除文书条目
func (s *DocumentService) Delete(sess *authz.Session, id uint) error {
	doc, err := s.findDocument(sess, id)
	if err != nil {
		return err
	}

	return s.db.Delete(doc).Error
}

// findVoyage 取回航次并校验租户范围
func (s *DocumentService) findVoyage(sess *authz.Session, voyageID uint) (*models.Voyage, error) {
	scope, err := authz.VesselScope(s.db, sess, nil)
	if err != nil {
		return nil, err
	}

	var voyage models.Voyage
	err = s.db.Scopes(scope).First(&voyage, voyageID).Error
	if err != nil {
		return nil, err
	}
	return &voyage, nil
}

// findDocument 取回文书条目并校验所属航次在租户范围内
func (s *DocumentService) findDocument(sess *authz.Session, id uint) (*models.VoyageDocument, error) {
	var doc models.VoyageDocument
	if err := s.db.First(&doc, id).Error; err != nil {
		return nil, err
	}

	// 经由航次校验租户范围，越权按不存在处理
	if _, err := s.findVoyage(sess, doc.VoyageID); err != nil {
		return nil, err
	}

	return &doc, nil
}

func (s *DocumentService) publishEvent(sess *authz.Session, doc *models.VoyageDocument) {
	redisQueue := database.GetRedisQueue()
	if redisQueue == nil {
		return
	}

	var voyage models.Voyage
	if err := s.db.First(&voyage, doc.VoyageID).Error; err != nil {
		return
	}
	var vessel models.Vessel
	if err := s.db.First(&vessel, voyage.VesselID).Error; err != nil {
		return
	}

	event := &queue.EventMessage{
		EventID:   uuid.New().String(),
		EventType: "document.updated",
		CompanyID: vessel.CompanyID,
		VesselID:  vessel.ID,
		UserID:    sess.UserID,
		Username:  sess.Username,
		Payload: map[string]interface{}{
			"document_id": doc.ID,
			"voyage_id":   doc.VoyageID,
			"name":        doc.Name,
			"status":      doc.Status,
		},
	}

	if err := redisQueue.Publish(event); err != nil {
		logger.GetLogger().WithError(err).Warn("文书事件发布失败")
	}
}
