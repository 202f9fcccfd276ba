package services

import (
	"testing"

	"fleetops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAddFromCertificateSnapshots(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	vessel := seedVessel(t, db, company.ID, "海王星", "9074729")
	voyage := seedVoyage(t, db, vessel.ID, "V001")

	certSvc := NewCertificateService(db)
	docSvc := NewDocumentService(db)
	sess := companySession(7, company.ID)

	cert, err := certSvc.Create(sess, vessel.ID, "Safety Management Certificate", "statutory", "SMC-001", "CCS", "smc.pdf", "/files/smc.pdf", nil, nil)
	require.NoError(t, err)

	doc, err := docSvc.AddFromCertificate(sess, voyage.ID, cert.ID, "")
	require.NoError(t, err)

	require.NotNil(t, doc.CertificateID)
	assert.Equal(t, cert.ID, *doc.CertificateID)
	assert.Equal(t, "Safety Management Certificate", doc.Name)
	assert.Equal(t, "SMC-001", doc.CertificateNo)
	assert.Equal(t, models.DocumentStatusPending, doc.Status)

	// 同一证书不能重复加入同一航次
	_, err = docSvc.AddFromCertificate(sess, voyage.ID, cert.ID, "")
	assert.Error(t, err)
}

// 证书更新后，水合把实时字段合并进清单并刷新快照
func TestHydrationMergesLiveCertificate(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	vessel := seedVessel(t, db, company.ID, "海王星", "9074729")
	voyage := seedVoyage(t, db, vessel.ID, "V001")

	certSvc := NewCertificateService(db)
	docSvc := NewDocumentService(db)
	sess := companySession(7, company.ID)

	cert, err := certSvc.Create(sess, vessel.ID, "Class Certificate", "class", "CC-001", "CCS", "cc.pdf", "/files/cc.pdf", nil, nil)
	require.NoError(t, err)
	_, err = docSvc.AddFromCertificate(sess, voyage.ID, cert.ID, "")
	require.NoError(t, err)

	// 换证：编号与文件都变了
	_, err = certSvc.Update(sess, cert.ID, "Class Certificate", "class", "CC-002", "CCS", "cc-renewed.pdf", "/files/cc-renewed.pdf", nil, nil)
	require.NoError(t, err)

	docs, err := docSvc.ListByVoyage(sess, voyage.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.True(t, docs[0].Live)
	assert.Equal(t, "CC-002", docs[0].CertificateNo)
	assert.Equal(t, "cc-renewed.pdf", docs[0].FileName)

	// 快照已写回数据库
	var stored models.VoyageDocument
	require.NoError(t, db.First(&stored, docs[0].ID).Error)
	assert.Equal(t, "CC-002", stored.CertificateNo)
}

// 证书删除后指针悬空，水合回退到最近一次快照
func TestHydrationDanglingPointerFallsBackToSnapshot(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	vessel := seedVessel(t, db, company.ID, "海王星", "9074729")
	voyage := seedVoyage(t, db, vessel.ID, "V001")

	certSvc := NewCertificateService(db)
	docSvc := NewDocumentService(db)
	sess := companySession(7, company.ID)

	cert, err := certSvc.Create(sess, vessel.ID, "Trading Certificate", "trading", "TC-001", "MSA", "tc.pdf", "/files/tc.pdf", nil, nil)
	require.NoError(t, err)
	_, err = docSvc.AddFromCertificate(sess, voyage.ID, cert.ID, "")
	require.NoError(t, err)

	require.NoError(t, certSvc.Delete(sess, cert.ID))

	docs, err := docSvc.ListByVoyage(sess, voyage.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	assert.False(t, docs[0].Live)
	assert.Equal(t, "Trading Certificate", docs[0].Name)
	assert.Equal(t, "TC-001", docs[0].CertificateNo)
	assert.Equal(t, "tc.pdf", docs[0].FileName)
}

func TestAddManualDocument(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	vessel := seedVessel(t, db, company.ID, "海王星", "9074729")
	voyage := seedVoyage(t, db, vessel.ID, "V001")

	docSvc := NewDocumentService(db)
	sess := companySession(7, company.ID)

	doc, err := docSvc.AddManual(sess, voyage.ID, "Crew List", "", "", "抵港前更新")
	require.NoError(t, err)
	assert.Nil(t, doc.CertificateID)

	docs, err := docSvc.ListByVoyage(sess, voyage.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.False(t, docs[0].Live)
}

// 他公司用户访问航次文书按不存在处理
func TestDocumentCrossCompanyIsolation(t *testing.T) {
	db := setupTestDB(t)
	companyA := seedCompany(t, db, "远洋航运", "ocean")
	companyB := seedCompany(t, db, "沿海航运", "coastal")
	vessel := seedVessel(t, db, companyA.ID, "海王星", "9074729")
	voyage := seedVoyage(t, db, vessel.ID, "V001")

	docSvc := NewDocumentService(db)

	_, err := docSvc.ListByVoyage(companySession(9, companyB.ID), voyage.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = docSvc.AddManual(companySession(9, companyB.ID), voyage.ID, "Crew List", "", "", "")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
