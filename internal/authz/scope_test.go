package authz

import (
	"testing"

	"fleetops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyScopeRegularUser(t *testing.T) {
	db := setupTestDB(t)
	companyA := seedCompany(t, db, "远洋航运", "ocean")
	companyB := seedCompany(t, db, "沿海航运", "coastal")
	seedVessel(t, db, companyA.ID, "海王星", "9074729")
	seedVessel(t, db, companyB.ID, "北极星", "9074731")

	sess := &Session{UserID: 1, CompanyID: &companyA.ID}

	var vessels []models.Vessel
	require.NoError(t, db.Scopes(CompanyScope(sess, nil)).Find(&vessels).Error)

	require.Len(t, vessels, 1)
	assert.Equal(t, "海王星", vessels[0].Name)
}

// 未划归公司的普通用户看不到任何行（fail closed）
func TestCompanyScopeNoCompanyYieldsNothing(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	seedVessel(t, db, company.ID, "海王星", "9074729")

	sess := &Session{UserID: 1, CompanyID: nil}

	var vessels []models.Vessel
	require.NoError(t, db.Scopes(CompanyScope(sess, nil)).Find(&vessels).Error)
	assert.Empty(t, vessels)

	var count int64
	require.NoError(t, db.Model(&models.Vessel{}).Scopes(CompanyScope(sess, nil)).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCompanyScopeSuperAdmin(t *testing.T) {
	db := setupTestDB(t)
	companyA := seedCompany(t, db, "远洋航运", "ocean")
	companyB := seedCompany(t, db, "沿海航运", "coastal")
	seedVessel(t, db, companyA.ID, "海王星", "9074729")
	seedVessel(t, db, companyB.ID, "北极星", "9074731")

	sess := &Session{UserID: 1, Perms: PermissionSet{SuperAdmin: true}}

	// 默认不受限
	var vessels []models.Vessel
	require.NoError(t, db.Scopes(CompanyScope(sess, nil)).Find(&vessels).Error)
	assert.Len(t, vessels, 2)

	// 显式选择公司后收窄
	vessels = nil
	require.NoError(t, db.Scopes(CompanyScope(sess, &companyB.ID)).Find(&vessels).Error)
	require.Len(t, vessels, 1)
	assert.Equal(t, "北极星", vessels[0].Name)
}

// 航次不带company_id，经由船舶两段式过滤
func TestVesselScopeTwoPhase(t *testing.T) {
	db := setupTestDB(t)
	companyA := seedCompany(t, db, "远洋航运", "ocean")
	companyB := seedCompany(t, db, "沿海航运", "coastal")
	vesselA := seedVessel(t, db, companyA.ID, "海王星", "9074729")
	vesselB := seedVessel(t, db, companyB.ID, "北极星", "9074731")

	require.NoError(t, db.Create(&models.Voyage{VesselID: vesselA.ID, VoyageNo: "V001", Status: models.VoyageStatusPlanned}).Error)
	require.NoError(t, db.Create(&models.Voyage{VesselID: vesselB.ID, VoyageNo: "V002", Status: models.VoyageStatusPlanned}).Error)

	sess := &Session{UserID: 1, CompanyID: &companyA.ID}
	scope, err := VesselScope(db, sess, nil)
	require.NoError(t, err)

	var voyages []models.Voyage
	require.NoError(t, db.Scopes(scope).Find(&voyages).Error)
	require.Len(t, voyages, 1)
	assert.Equal(t, "V001", voyages[0].VoyageNo)
}

// 公司名下没有船舶时，IN子集为空，必须得到零行而不是全量
func TestVesselScopeEmptyFleet(t *testing.T) {
	db := setupTestDB(t)
	companyA := seedCompany(t, db, "远洋航运", "ocean")
	companyB := seedCompany(t, db, "沿海航运", "coastal")
	vesselB := seedVessel(t, db, companyB.ID, "北极星", "9074731")
	require.NoError(t, db.Create(&models.Voyage{VesselID: vesselB.ID, VoyageNo: "V002", Status: models.VoyageStatusPlanned}).Error)

	sess := &Session{UserID: 1, CompanyID: &companyA.ID}
	scope, err := VesselScope(db, sess, nil)
	require.NoError(t, err)

	var voyages []models.Voyage
	require.NoError(t, db.Scopes(scope).Find(&voyages).Error)
	assert.Empty(t, voyages)
}

func TestVesselScopeSuperAdminUnrestricted(t *testing.T) {
	db := setupTestDB(t)
	companyA := seedCompany(t, db, "远洋航运", "ocean")
	companyB := seedCompany(t, db, "沿海航运", "coastal")
	vesselA := seedVessel(t, db, companyA.ID, "海王星", "9074729")
	vesselB := seedVessel(t, db, companyB.ID, "北极星", "9074731")
	require.NoError(t, db.Create(&models.Voyage{VesselID: vesselA.ID, VoyageNo: "V001", Status: models.VoyageStatusPlanned}).Error)
	require.NoError(t, db.Create(&models.Voyage{VesselID: vesselB.ID, VoyageNo: "V002", Status: models.VoyageStatusPlanned}).Error)

	sess := &Session{UserID: 1, Perms: PermissionSet{SuperAdmin: true}}
	scope, err := VesselScope(db, sess, nil)
	require.NoError(t, err)

	var voyages []models.Voyage
	require.NoError(t, db.Scopes(scope).Find(&voyages).Error)
	assert.Len(t, voyages, 2)
}

// OwnRecords叠加在公司域之上
func TestOwnRecordsLayersOnCompanyScope(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	vessel := seedVessel(t, db, company.ID, "海王星", "9074729")

	require.NoError(t, db.Create(&models.Voyage{VesselID: vessel.ID, VoyageNo: "V001", Status: models.VoyageStatusPlanned, CreatedBy: 7}).Error)
	require.NoError(t, db.Create(&models.Voyage{VesselID: vessel.ID, VoyageNo: "V002", Status: models.VoyageStatusPlanned, CreatedBy: 8}).Error)

	sess := &Session{UserID: 7, CompanyID: &company.ID, OwnRecordsOnly: true}
	scope, err := VesselScope(db, sess, nil)
	require.NoError(t, err)

	var voyages []models.Voyage
	require.NoError(t, db.Scopes(scope, OwnRecords(sess)).Find(&voyages).Error)
	require.Len(t, voyages, 1)
	assert.Equal(t, "V001", voyages[0].VoyageNo)

	// 非受限角色看到全部
	full := &Session{UserID: 7, CompanyID: &company.ID}
	var all []models.Voyage
	require.NoError(t, db.Scopes(scope, OwnRecords(full)).Find(&all).Error)
	assert.Len(t, all, 2)
}
