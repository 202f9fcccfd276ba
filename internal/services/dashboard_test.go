package services

import (
	"testing"

	"fleetops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 总览各项统计均先套租户范围
func TestDashboardOverviewScopedToCompany(t *testing.T) {
	db := setupTestDB(t)
	companyA := seedCompany(t, db, "远洋航运", "ocean")
	companyB := seedCompany(t, db, "内河航运", "river")
	vesselA := seedVessel(t, db, companyA.ID, "远望号", "9074729")
	vesselB := seedVessel(t, db, companyB.ID, "江河号", "9148843")

	underway := seedVoyage(t, db, vesselA.ID, "VA-001")
	require.NoError(t, db.Model(underway).Update("status", models.VoyageStatusUnderway).Error)
	seedVoyage(t, db, vesselA.ID, "VA-002")
	seedVoyage(t, db, vesselB.ID, "VB-001")

	svc := NewDashboardService(db)

	overview, err := svc.GetOverview(companySession(1, companyA.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(1), overview.VesselTotal)
	assert.Equal(t, int64(1), overview.VesselActive)
	assert.Equal(t, int64(1), overview.VoyageUnderway)
	assert.Equal(t, int64(1), overview.VoyagePlanned)

	all, err := svc.GetOverview(adminSession())
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.VesselTotal)
	assert.Equal(t, int64(2), all.VoyagePlanned)
}

// 任一统计查询失败时整体返回错误，而不是带着零值装作成功
func TestDashboardOverviewPropagatesQueryError(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	svc := NewDashboardService(db)

	require.NoError(t, db.Migrator().DropTable(&models.CrewApplication{}))

	_, err := svc.GetOverview(companySession(1, company.ID))
	assert.Error(t, err)
}
