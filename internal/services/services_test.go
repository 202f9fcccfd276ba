package services

import (
	"testing"

	"fleetops/internal/authz"
	"fleetops/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 创建内存SQLite测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "创建测试数据库失败")

	err = db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Permission{},
		&models.Role{},
		&models.RolePermission{},
		&models.Vessel{},
		&models.VesselCertificate{},
		&models.Voyage{},
		&models.VoyageReport{},
		&models.VoyageDocument{},
		&models.CrewApplication{},
	)
	require.NoError(t, err, "迁移测试数据库失败")

	return db
}

// seedCompany 创建测试公司
func seedCompany(t *testing.T, db *gorm.DB, name, code string) *models.Company {
	t.Helper()
	company := &models.Company{Name: name, Code: code, Status: models.CompanyStatusActive}
	require.NoError(t, db.Create(company).Error)
	return company
}

// seedVessel 创建测试船舶
func seedVessel(t *testing.T, db *gorm.DB, companyID uint, name, imo string) *models.Vessel {
	t.Helper()
	vessel := &models.Vessel{
		CompanyID: companyID,
		Name:      name,
		IMONumber: imo,
		Status:    models.VesselStatusActive,
	}
	require.NoError(t, db.Create(vessel).Error)
	return vessel
}

// seedVoyage 创建测试航次
func seedVoyage(t *testing.T, db *gorm.DB, vesselID uint, voyageNo string) *models.Voyage {
	t.Helper()
	voyage := &models.Voyage{
		VesselID: vesselID,
		VoyageNo: voyageNo,
		Status:   models.VoyageStatusPlanned,
	}
	require.NoError(t, db.Create(voyage).Error)
	return voyage
}

// companySession 指定公司的普通用户会话
func companySession(userID uint, companyID uint) *authz.Session {
	return &authz.Session{UserID: userID, Username: "tester", CompanyID: &companyID}
}

// adminSession 超级管理员会话
func adminSession() *authz.Session {
	return &authz.Session{UserID: 1, Username: "admin", Perms: authz.PermissionSet{SuperAdmin: true}}
}
