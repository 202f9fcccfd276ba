package services

import (
	"testing"

	"fleetops/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleCreateAndDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRoleService(db)

	role, err := svc.Create("dispatcher", "调度员", false)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStatusActive, role.Status)
	assert.False(t, role.IsSystem)

	_, err = svc.Create("dispatcher", "重复", false)
	assert.Error(t, err)
}

func TestRoleCreateRejectsBadName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRoleService(db)

	_, err := svc.Create("a", "", false)
	assert.Error(t, err)

	_, err = svc.Create("bad name!", "", false)
	assert.Error(t, err)
}

// 仍被用户引用的角色不允许删除
func TestRoleDeleteRejectsInUse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRoleService(db)

	role, err := svc.Create("dispatcher", "", false)
	require.NoError(t, err)

	user := &models.User{Username: "u1", Email: "u1@test.local", Name: "u1", Status: models.UserStatusActive, RoleID: &role.ID}
	require.NoError(t, user.SetPassword("Test@123"))
	require.NoError(t, db.Create(user).Error)

	err = svc.Delete(role.ID)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "仍被")

	// 解除引用后可以删除
	require.NoError(t, db.Model(user).Update("role_id", nil).Error)
	assert.NoError(t, svc.Delete(role.ID))
}

func TestRoleDeleteRejectsSystemRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRoleService(db)

	role := &models.Role{Name: "super-admin", IsSystem: true, Status: models.RoleStatusActive}
	require.NoError(t, db.Create(role).Error)

	assert.Error(t, svc.Delete(role.ID))
}

// 只有active状态的权限可被新分配
func TestAssignPermissionsRejectsDeprecated(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRoleService(db)

	role, err := svc.Create("dispatcher", "", false)
	require.NoError(t, err)

	active := models.Permission{Slug: "voyage.list", Name: "航次列表", Group: "voyage", Status: models.PermissionStatusActive}
	deprecated := models.Permission{Slug: "voyage.legacy", Name: "旧权限", Group: "voyage", Status: models.PermissionStatusDeprecated}
	require.NoError(t, db.Create(&active).Error)
	require.NoError(t, db.Create(&deprecated).Error)

	assert.NoError(t, svc.AssignPermissions(role.ID, []uint{active.ID}))
	assert.Error(t, svc.AssignPermissions(role.ID, []uint{active.ID, deprecated.ID}))

	perms, err := svc.GetRolePermissions(role.ID)
	require.NoError(t, err)
	require.Len(t, perms, 1)
	assert.Equal(t, "voyage.list", perms[0].Slug)
}

func TestRoleUpdateRejectsSystemRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRoleService(db)

	role := &models.Role{Name: "operations", IsSystem: true, Status: models.RoleStatusActive}
	require.NoError(t, db.Create(role).Error)

	_, err := svc.Update(role.ID, "改描述", models.RoleStatusActive, true)
	assert.Error(t, err)
}
