package authz

import (
	"testing"

	"fleetops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializeBuildsSession(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	role := seedRole(t, db, "fleet-manager", false, "voyage.list", "voyage.edit")
	user := seedUser(t, db, "manager", &company.ID, &role.ID)

	sess, err := Materialize(db, user.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, sess.UserID)
	assert.Equal(t, "manager", sess.Username)
	assert.Equal(t, "fleet-manager", sess.RoleName)
	require.NotNil(t, sess.CompanyID)
	assert.Equal(t, company.ID, *sess.CompanyID)
	assert.False(t, sess.IsSuperAdmin())
	assert.True(t, sess.Can("voyage.edit"))
	assert.False(t, sess.Can("users.delete"))
}

func TestMaterializeUnknownUser(t *testing.T) {
	db := setupTestDB(t)

	_, err := Materialize(db, 9999)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

// 停用的账号即使持有有效令牌也在下一次请求被拦下
func TestMaterializeInactiveUser(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	role := seedRole(t, db, "fleet-manager", false, "voyage.list")
	user := seedUser(t, db, "manager", &company.ID, &role.ID)

	require.NoError(t, db.Model(user).Update("status", models.UserStatusInactive).Error)

	_, err := Materialize(db, user.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

// 公司停用后名下用户立即失去访问能力
func TestMaterializeDeadCompany(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	role := seedRole(t, db, "fleet-manager", false, "voyage.list")
	user := seedUser(t, db, "manager", &company.ID, &role.ID)

	require.NoError(t, db.Model(company).Update("status", models.CompanyStatusInactive).Error)

	_, err := Materialize(db, user.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

// 公司注销（软删除）与停用同样失败
func TestMaterializeDeletedCompany(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	role := seedRole(t, db, "fleet-manager", false, "voyage.list")
	user := seedUser(t, db, "manager", &company.ID, &role.ID)

	require.NoError(t, db.Delete(company).Error)

	_, err := Materialize(db, user.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

// 未划归公司的普通用户可以通过认证，数据范围由Scope兜底
func TestMaterializeNoCompany(t *testing.T) {
	db := setupTestDB(t)
	role := seedRole(t, db, "fleet-manager", false, "voyage.list")
	user := seedUser(t, db, "drifter", nil, &role.ID)

	sess, err := Materialize(db, user.ID)
	require.NoError(t, err)
	assert.Nil(t, sess.CompanyID)
}

// 超级管理员不要求公司存活
func TestMaterializeSuperAdminIgnoresCompany(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	role := seedRole(t, db, "super-admin", false)
	user := seedUser(t, db, "admin", &company.ID, &role.ID)

	require.NoError(t, db.Model(company).Update("status", models.CompanyStatusInactive).Error)

	sess, err := Materialize(db, user.ID)
	require.NoError(t, err)
	assert.True(t, sess.IsSuperAdmin())
}

// 角色权限调整后的下一次请求立即生效，无需重新登录
func TestMaterializeReflectsRoleEdits(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	role := seedRole(t, db, "operations", true, "report.create")
	user := seedUser(t, db, "ops", &company.ID, &role.ID)

	sess, err := Materialize(db, user.ID)
	require.NoError(t, err)
	assert.True(t, sess.Can("report.create"))
	assert.False(t, sess.Can("report.delete"))

	// 给角色追加权限
	perm := models.Permission{Slug: "report.delete", Name: "删除报告", Group: "report", Status: models.PermissionStatusActive}
	require.NoError(t, db.Create(&perm).Error)
	require.NoError(t, db.Create(&models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}).Error)

	sess, err = Materialize(db, user.ID)
	require.NoError(t, err)
	assert.True(t, sess.Can("report.delete"))
}

// 用户级覆盖清单参与解析，剔除生效
func TestMaterializeAppliesOverrides(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	role := seedRole(t, db, "fleet-manager", false, "voyage.list", "voyage.delete")
	user := seedUser(t, db, "manager", &company.ID, &role.ID)

	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"additional_permissions": models.EncodeSlugList([]string{"users.create"}),
		"excluded_permissions":   models.EncodeSlugList([]string{"voyage.delete"}),
	}).Error)

	sess, err := Materialize(db, user.ID)
	require.NoError(t, err)
	assert.True(t, sess.Can("voyage.list"))
	assert.True(t, sess.Can("users.create"))
	assert.False(t, sess.Can("voyage.delete"))
}

func TestAuthorize(t *testing.T) {
	db := setupTestDB(t)
	company := seedCompany(t, db, "远洋航运", "ocean")
	role := seedRole(t, db, "operations", true, "report.create")
	user := seedUser(t, db, "ops", &company.ID, &role.ID)

	sess, err := Materialize(db, user.ID)
	require.NoError(t, err)

	assert.NoError(t, Authorize(sess, "report.create"))
	assert.ErrorIs(t, Authorize(sess, "report.delete"), ErrForbidden)
	assert.ErrorIs(t, Authorize(nil, "report.create"), ErrUnauthenticated)
}

// 超级管理员最先短路，路由引用任何slug都放行
func TestAuthorizeSuperAdminShortCircuit(t *testing.T) {
	db := setupTestDB(t)
	role := seedRole(t, db, "super-admin", false)
	user := seedUser(t, db, "admin", nil, &role.ID)

	sess, err := Materialize(db, user.ID)
	require.NoError(t, err)

	assert.NoError(t, Authorize(sess, "voyage.edit"))
	assert.NoError(t, Authorize(sess, "slug.not.in.catalog"))
}

// 运营专员的完整链路：角色权限+覆盖清单+租户范围一次走通
func TestOperationsUserEndToEnd(t *testing.T) {
	db := setupTestDB(t)
	companyA := seedCompany(t, db, "远洋航运", "ocean")
	companyB := seedCompany(t, db, "内河航运", "river")
	role := seedRole(t, db, "operations", true, "voyage.create", "voyage.list", "report.create")
	user := seedUser(t, db, "ops", &companyA.ID, &role.ID)

	// 管理员给该用户追加证书查看、剔除航次创建
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"additional_permissions": models.EncodeSlugList([]string{"certificate.view"}),
		"excluded_permissions":   models.EncodeSlugList([]string{"voyage.create"}),
	}).Error)

	sess, err := Materialize(db, user.ID)
	require.NoError(t, err)
	assert.True(t, sess.OwnRecordsOnly)

	assert.NoError(t, Authorize(sess, "voyage.list"))
	assert.NoError(t, Authorize(sess, "certificate.view"))
	assert.ErrorIs(t, Authorize(sess, "voyage.create"), ErrForbidden)
	assert.ErrorIs(t, Authorize(sess, "users.create"), ErrForbidden)

	// 租户范围：只见本公司船舶
	seedVessel(t, db, companyA.ID, "远望一号", "9074729")
	seedVessel(t, db, companyB.ID, "江申一号", "9148843")

	var vessels []models.Vessel
	require.NoError(t, db.Scopes(CompanyScope(sess, nil)).Find(&vessels).Error)
	require.Len(t, vessels, 1)
	assert.Equal(t, companyA.ID, vessels[0].CompanyID)
}
