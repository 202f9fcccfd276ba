package services

import (
	"testing"

	"fleetops/internal/authz"
	"fleetops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestValidateIMONumber(t *testing.T) {
	svc := NewVesselService(setupTestDB(t))

	assert.True(t, svc.ValidateIMONumber("9074729"))
	assert.True(t, svc.ValidateIMONumber("9148843"))
	assert.False(t, svc.ValidateIMONumber("9074728")) // 校验位错误
	assert.False(t, svc.ValidateIMONumber("907472"))  // 位数不够
	assert.False(t, svc.ValidateIMONumber("907472A"))
	assert.False(t, svc.ValidateIMONumber(""))
}

func TestVesselCreate(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	svc := NewVesselService(db)
	sess := companySession(10, company.ID)

	vessel, err := svc.Create(sess, company.ID, "远望一号", "9074729", "BXYZ", "bulk_carrier", "CN", 52000, 2015)
	require.NoError(t, err)
	assert.Equal(t, models.VesselStatusActive, vessel.Status)

	// 同公司船名不能重复
	_, err = svc.Create(sess, company.ID, "远望一号", "9148843", "", "", "", 0, 0)
	assert.Error(t, err)

	// IMO校验失败
	_, err = svc.Create(sess, company.ID, "远望二号", "1234567", "", "", "", 0, 0)
	assert.Error(t, err)
}

// 未关联公司的普通用户写操作显式拒绝，不走查无此数据
func TestVesselCreateNoCompanyForbidden(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	svc := NewVesselService(db)

	orphan := &authz.Session{UserID: 30, Username: "orphan"}
	_, err := svc.Create(orphan, company.ID, "远望一号", "9074729", "", "", "", 0, 0)
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestVesselCreateForeignCompany(t *testing.T) {
	db := setupTestDB(t)
	companyA := seedCompany(t, db, "远洋航运", "ocean")
	companyB := seedCompany(t, db, "内河航运", "river")
	svc := NewVesselService(db)

	// 普通用户不能往别家公司挂船
	_, err := svc.Create(companySession(10, companyA.ID), companyB.ID, "江申一号", "9148843", "", "", "", 0, 0)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// 超级管理员可以
	vessel, err := svc.Create(adminSession(), companyB.ID, "江申一号", "9148843", "", "", "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, companyB.ID, vessel.CompanyID)
}

func TestVesselDeleteRules(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	vessel := seedVessel(t, db, company.ID, "远望一号", "9074729")
	svc := NewVesselService(db)
	sess := companySession(10, company.ID)

	seedVoyage(t, db, vessel.ID, "V2026-001")

	// 尚有航次的船舶不允许删除
	err := svc.Delete(sess, vessel.ID)
	assert.Error(t, err)

	require.NoError(t, db.Unscoped().Where("vessel_id = ?", vessel.ID).Delete(&models.Voyage{}).Error)

	// 删除级联清理证书
	cert := &models.VesselCertificate{VesselID: vessel.ID, Name: "Class Certificate", Status: models.CertificateStatusValid}
	require.NoError(t, db.Create(cert).Error)

	require.NoError(t, svc.Delete(sess, vessel.ID))

	var count int64
	db.Model(&models.VesselCertificate{}).Where("vessel_id = ?", vessel.ID).Count(&count)
	assert.Zero(t, count)
}
