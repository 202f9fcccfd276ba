package services

import (
	"testing"

	"fleetops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCrewReviewOnce(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	svc := NewCrewService(db)
	sess := companySession(10, company.ID)

	app, err := svc.Create(sess, company.ID, nil, "王五", "master", "CN", "wangwu@test.local", "", nil)
	require.NoError(t, err)
	assert.Equal(t, models.CrewStatusPending, app.Status)

	reviewer := companySession(11, company.ID)
	reviewed, err := svc.Review(reviewer, app.ID, true, "资历符合")
	require.NoError(t, err)
	assert.Equal(t, models.CrewStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, reviewer.UserID, *reviewed.ReviewedBy)

	// 已审核的申请不能再审
	_, err = svc.Review(reviewer, app.ID, false, "改主意了")
	assert.Error(t, err)
}

func TestCrewReviewCrossCompany(t *testing.T) {
	db := setupTestDB(t)
	companyA := seedCompany(t, db, "远洋航运", "ocean")
	companyB := seedCompany(t, db, "内河航运", "river")
	svc := NewCrewService(db)

	app, err := svc.Create(companySession(10, companyA.ID), companyA.ID, nil, "王五", "master", "CN", "", "", nil)
	require.NoError(t, err)

	_, err = svc.Review(companySession(20, companyB.ID), app.ID, true, "")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

// 审核不叠加本人记录限制：公司内其他人提交的申请也能审
func TestCrewReviewIgnoresOwnRecordsRestriction(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	svc := NewCrewService(db)

	app, err := svc.Create(companySession(10, company.ID), company.ID, nil, "王五", "chief_officer", "CN", "", "", nil)
	require.NoError(t, err)

	restricted := companySession(30, company.ID)
	restricted.OwnRecordsOnly = true

	// 受限用户列表里看不到别人的申请
	_, err = svc.GetByID(restricted, app.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// 但审核按公司范围走
	_, err = svc.Review(restricted, app.ID, false, "岗位已满")
	require.NoError(t, err)
}

func TestCrewCreateRejectsForeignVessel(t *testing.T) {
	db := setupTestDB(t)
	companyA := seedCompany(t, db, "远洋航运", "ocean")
	companyB := seedCompany(t, db, "内河航运", "river")
	vesselB := seedVessel(t, db, companyB.ID, "江申一号", "9148843")
	svc := NewCrewService(db)

	_, err := svc.Create(companySession(10, companyA.ID), companyA.ID, &vesselB.ID, "王五", "master", "CN", "", "", nil)
	assert.Error(t, err)
}
