package authz

import (
	"testing"

	"fleetops/internal/models"

	"github.com/stretchr/testify/assert"
)

func roleWithPerms(name string, slugs ...string) *models.Role {
	role := &models.Role{
		Name:   name,
		Status: models.RoleStatusActive,
	}
	for _, slug := range slugs {
		role.Permissions = append(role.Permissions, models.Permission{Slug: slug})
	}
	return role
}

func TestResolveRoleUnionAdditional(t *testing.T) {
	role := roleWithPerms("fleet-manager", "voyage.list", "voyage.view")

	set := Resolve(role, []string{"voyage.edit"}, nil)

	assert.True(t, set.Has("voyage.list"))
	assert.True(t, set.Has("voyage.view"))
	assert.True(t, set.Has("voyage.edit"))
	assert.False(t, set.Has("voyage.delete"))
	assert.Equal(t, 3, set.Len())
}

func TestResolveExcludedRemovesRolePermission(t *testing.T) {
	role := roleWithPerms("fleet-manager", "voyage.list", "voyage.delete")

	set := Resolve(role, nil, []string{"voyage.delete"})

	assert.True(t, set.Has("voyage.list"))
	assert.False(t, set.Has("voyage.delete"))
}

// 同一slug同时出现在追加和剔除清单时，剔除生效
func TestResolveExclusionWinsOverAdditional(t *testing.T) {
	role := roleWithPerms("operations", "report.list")

	set := Resolve(role, []string{"report.delete"}, []string{"report.delete"})

	assert.False(t, set.Has("report.delete"))
	assert.True(t, set.Has("report.list"))
}

func TestResolveNilRole(t *testing.T) {
	set := Resolve(nil, []string{"dashboard.view"}, nil)

	assert.False(t, set.SuperAdmin)
	assert.True(t, set.Has("dashboard.view"))
	assert.Equal(t, 1, set.Len())
}

// 停用的角色按空集处理，但覆盖清单仍然生效
func TestResolveInactiveRole(t *testing.T) {
	role := roleWithPerms("fleet-manager", "voyage.list")
	role.Status = models.RoleStatusInactive

	set := Resolve(role, []string{"dashboard.view"}, nil)

	assert.False(t, set.Has("voyage.list"))
	assert.True(t, set.Has("dashboard.view"))
}

func TestResolveSuperAdminBypass(t *testing.T) {
	role := roleWithPerms("super-admin")

	set := Resolve(role, nil, nil)

	assert.True(t, set.SuperAdmin)
	// 旁路不物化权限集合，任何slug都放行
	assert.True(t, set.Has("voyage.edit"))
	assert.True(t, set.Has("whatever.future.permission"))
	assert.Empty(t, set.Slugs())
}

// 角色名大小写不敏感
func TestResolveSuperAdminCaseInsensitive(t *testing.T) {
	for _, name := range []string{"Super-Admin", "SUPER-ADMIN", "super-admin"} {
		set := Resolve(roleWithPerms(name), nil, nil)
		assert.True(t, set.SuperAdmin, "角色名 %s 应识别为超级管理员", name)
	}
}

// 超级管理员的剔除清单不生效
func TestResolveSuperAdminIgnoresOverrides(t *testing.T) {
	role := roleWithPerms("super-admin")

	set := Resolve(role, nil, []string{"voyage.edit"})

	assert.True(t, set.Has("voyage.edit"))
}

func TestResolveEmptyEverything(t *testing.T) {
	set := Resolve(nil, nil, nil)

	assert.False(t, set.SuperAdmin)
	assert.Equal(t, 0, set.Len())
	assert.False(t, set.Has("voyage.list"))
}
