package services

import (
	"strings"
	"testing"
	"time"

	"fleetops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestReportSubmit(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	vessel := seedVessel(t, db, company.ID, "远望一号", "9074729")
	voyage := seedVoyage(t, db, vessel.ID, "V2026-001")
	svc := NewReportService(db)
	sess := companySession(10, company.ID)

	report, err := svc.Submit(sess, voyage.ID, models.ReportTypeNoon, 31.23, 121.47, 12.5, 380.0, "正常航行", time.Now())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(report.ReportNo, "NOON-"))
	assert.Equal(t, vessel.ID, report.VesselID)
	assert.Equal(t, sess.UserID, report.CreatedBy)

	_, err = svc.Submit(sess, voyage.ID, "weekly", 0, 0, 0, 0, "", time.Now())
	assert.Error(t, err)
}

func TestReportSubmitRejectsCompletedVoyage(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	vessel := seedVessel(t, db, company.ID, "远望一号", "9074729")
	voyage := seedVoyage(t, db, vessel.ID, "V2026-001")
	require.NoError(t, db.Model(voyage).Update("status", models.VoyageStatusCompleted).Error)

	svc := NewReportService(db)
	_, err := svc.Submit(companySession(10, company.ID), voyage.ID, models.ReportTypeArrival, 0, 0, 0, 0, "", time.Now())
	assert.Error(t, err)
}

func TestReportCrossCompanyIsolation(t *testing.T) {
	db := setupTestDB(t)
	companyA := seedCompany(t, db, "远洋航运", "ocean")
	companyB := seedCompany(t, db, "内河航运", "river")
	vessel := seedVessel(t, db, companyA.ID, "远望一号", "9074729")
	voyage := seedVoyage(t, db, vessel.ID, "V2026-001")
	svc := NewReportService(db)

	_, err := svc.Submit(companySession(20, companyB.ID), voyage.ID, models.ReportTypeNoon, 0, 0, 0, 0, "", time.Now())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// 受限角色只能看到自己提交的报告
func TestReportOwnRecordsOnly(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	vessel := seedVessel(t, db, company.ID, "远望一号", "9074729")
	voyage := seedVoyage(t, db, vessel.ID, "V2026-001")
	svc := NewReportService(db)

	mine, err := svc.Submit(companySession(10, company.ID), voyage.ID, models.ReportTypeNoon, 0, 0, 0, 0, "", time.Now())
	require.NoError(t, err)
	theirs, err := svc.Submit(companySession(11, company.ID), voyage.ID, models.ReportTypeNoon, 0, 0, 0, 0, "", time.Now())
	require.NoError(t, err)

	restricted := companySession(10, company.ID)
	restricted.OwnRecordsOnly = true

	got, err := svc.GetByID(restricted, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, got.ID)

	_, err = svc.GetByID(restricted, theirs.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// 不受限同事两条都能看
	reports, total, err := svc.GetWithFiltersAndPage(companySession(12, company.ID), nil, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, reports, 2)
}
