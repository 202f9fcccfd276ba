package authz

import (
	"fleetops/internal/models"
)

// PermissionSet 有效权限集
// SuperAdmin是显式的旁路标记：权限目录独立演进、随时扩张，
// 超级管理员永远不物化成"全量slug集合"
type PermissionSet struct {
	slugs      map[string]struct{}
	SuperAdmin bool
}

// Has 检查权限集是否包含指定slug
func (s PermissionSet) Has(slug string) bool {
	if s.SuperAdmin {
		return true
	}
	_, ok := s.slugs[slug]
	return ok
}

// Slugs 返回权限集中的所有slug（超级管理员返回空切片）
func (s PermissionSet) Slugs() []string {
	slugs := make([]string, 0, len(s.slugs))
	for slug := range s.slugs {
		slugs = append(slugs, slug)
	}
	return slugs
}

// Len 权限集大小
func (s PermissionSet) Len() int {
	return len(s.slugs)
}

// Resolve 计算有效权限集：(角色权限 ∪ 追加清单) \ 剔除清单
// 角色为空或停用时按空集处理；角色名为super-admin（大小写不敏感）时
// 直接返回旁路标记，覆盖清单不再参与计算。
// 同一slug同时出现在追加和剔除清单时，剔除生效。
func Resolve(role *models.Role, additional, excluded []string) PermissionSet {
	if role != nil && role.IsSuperAdmin() {
		return PermissionSet{SuperAdmin: true}
	}

	set := make(map[string]struct{})
	if role != nil && role.Status == models.RoleStatusActive {
		for _, perm := range role.Permissions {
			set[perm.Slug] = struct{}{}
		}
	}
	for _, slug := range additional {
		set[slug] = struct{}{}
	}
	for _, slug := range excluded {
		delete(set, slug)
	}

	return PermissionSet{slugs: set}
}
