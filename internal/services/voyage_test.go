package services

import (
	"testing"

	"fleetops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestVoyageCreateAndDuplicateNo(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	vessel := seedVessel(t, db, company.ID, "远望一号", "9074729")
	svc := NewVoyageService(db)
	sess := companySession(10, company.ID)

	voyage, err := svc.Create(sess, vessel.ID, "V2026-001", "上海", "新加坡", "集装箱", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, models.VoyageStatusPlanned, voyage.Status)
	assert.Equal(t, sess.UserID, voyage.CreatedBy)

	_, err = svc.Create(sess, vessel.ID, "V2026-001", "上海", "宁波", "", nil, nil)
	assert.Error(t, err)
}

// 航次状态只允许 planned→underway→completed 单向流转
func TestVoyageStatusTransitions(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	vessel := seedVessel(t, db, company.ID, "远望一号", "9074729")
	voyage := seedVoyage(t, db, vessel.ID, "V2026-001")
	svc := NewVoyageService(db)
	sess := companySession(10, company.ID)

	// planned 不能直接 completed
	_, err := svc.UpdateStatus(sess, voyage.ID, models.VoyageStatusCompleted)
	assert.Error(t, err)

	updated, err := svc.UpdateStatus(sess, voyage.ID, models.VoyageStatusUnderway)
	require.NoError(t, err)
	assert.Equal(t, models.VoyageStatusUnderway, updated.Status)

	// 不能回退
	_, err = svc.UpdateStatus(sess, voyage.ID, models.VoyageStatusPlanned)
	assert.Error(t, err)

	updated, err = svc.UpdateStatus(sess, voyage.ID, models.VoyageStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.VoyageStatusCompleted, updated.Status)

	// 终态之后不再流转
	_, err = svc.UpdateStatus(sess, voyage.ID, models.VoyageStatusUnderway)
	assert.Error(t, err)
}

// 跨公司访问按不存在处理
func TestVoyageCrossCompanyIsolation(t *testing.T) {
	db := setupTestDB(t)
	companyA := seedCompany(t, db, "远洋航运", "ocean")
	companyB := seedCompany(t, db, "内河航运", "river")
	vessel := seedVessel(t, db, companyA.ID, "远望一号", "9074729")
	voyage := seedVoyage(t, db, vessel.ID, "V2026-001")
	svc := NewVoyageService(db)

	_, err := svc.GetByID(companySession(20, companyB.ID), voyage.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// 向他人船舶创建航次同样按不存在处理
	_, err = svc.Create(companySession(20, companyB.ID), vessel.ID, "V2026-002", "武汉", "上海", "", nil, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// 超级管理员不受限
	got, err := svc.GetByID(adminSession(), voyage.ID)
	require.NoError(t, err)
	assert.Equal(t, voyage.ID, got.ID)
}

func TestVoyageDeleteRules(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	vessel := seedVessel(t, db, company.ID, "远望一号", "9074729")
	voyage := seedVoyage(t, db, vessel.ID, "V2026-001")
	svc := NewVoyageService(db)
	sess := companySession(10, company.ID)

	_, err := svc.UpdateStatus(sess, voyage.ID, models.VoyageStatusUnderway)
	require.NoError(t, err)

	// 在航航次不允许删除
	err = svc.Delete(sess, voyage.ID)
	assert.Error(t, err)

	_, err = svc.UpdateStatus(sess, voyage.ID, models.VoyageStatusCompleted)
	require.NoError(t, err)

	// 删除级联清理报告与文书
	report := &models.VoyageReport{VoyageID: voyage.ID, VesselID: vessel.ID, ReportNo: "NOON-20260101-DEADBEEF", Type: models.ReportTypeNoon, CreatedBy: sess.UserID}
	require.NoError(t, db.Create(report).Error)
	doc := &models.VoyageDocument{VoyageID: voyage.ID, Name: "船级证书", Status: models.DocumentStatusPending}
	require.NoError(t, db.Create(doc).Error)

	require.NoError(t, svc.Delete(sess, voyage.ID))

	var count int64
	db.Model(&models.VoyageReport{}).Where("voyage_id = ?", voyage.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.VoyageDocument{}).Where("voyage_id = ?", voyage.ID).Count(&count)
	assert.Zero(t, count)
}
