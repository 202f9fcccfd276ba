package authz

import (
	"testing"

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

// seedRole 创建测试角色并挂接权限
func seedRole(t *testing.T, db *gorm.DB, name string, ownRecordsOnly bool, slugs ...string) *models.Role {
	t.Helper()
	role := &models.Role{Name: name, Status: models.RoleStatusActive, OwnRecordsOnly: ownRecordsOnly}
	for _, slug := range slugs {
		var perm models.Permission
		err := db.Where("slug = ?", slug).First(&perm).Error
		if err == gorm.ErrRecordNotFound {
			perm = models.Permission{Slug: slug, Name: slug, Group: "test", Status: models.PermissionStatusActive}
			require.NoError(t, db.Create(&perm).Error)
		} else {
			require.NoError(t, err)
		}
		role.Permissions = append(role.Permissions, perm)
	}
	require.NoError(t, db.Create(role).Error)
	return role
}

// seedUser 创建测试用户
func seedUser(t *testing.T, db *gorm.DB, username string, companyID, roleID *uint) *models.User {
	t.Helper()
	user := &models.User{
		Username:  username,
		Email:     username + "@test.local",
		Name:      username,
		Status:    models.UserStatusActive,
		CompanyID: companyID,
		RoleID:    roleID,
	}
	require.NoError(t, user.SetPassword("Test@123"))
	require.NoError(t, db.Create(user).Error)
	return user
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
