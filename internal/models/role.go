package models

import (
	"strings"
	"time"
)

// Role 角色模型
type Role struct {
	BaseModel
	Name           string `gorm:"uniqueIndex;size:100;not null" json:"name"`        // 角色名称，如 "fleet-manager"
	Description    string `gorm:"size:255" json:"description"`                      // 角色描述
	IsSystem       bool   `gorm:"default:false" json:"is_system"`                   // 是否系统角色（不可删除）
	OwnRecordsOnly bool   `gorm:"default:false" json:"own_records_only"`            // 受限角色只能看到自己创建的记录
	Status         string `gorm:"size:20;default:'active'" json:"status"`           // 状态：active, inactive

	// 关联关系
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
}

// 角色状态常量
const (
	RoleStatusActive   = "active"
	RoleStatusInactive = "inactive"
)

// 系统预定义角色常量
const (
	RoleSuperAdmin   = "super-admin"   // 超级管理员，绕过一切权限检查
	RoleFleetManager = "fleet-manager" // 船队经理
	RoleOperations   = "operations"    // 运营专员（仅限本人创建的记录）
)

// IsSuperAdmin 判断角色名是否为超级管理员（大小写不敏感）
func (r *Role) IsSuperAdmin() bool {
	return strings.EqualFold(r.Name, RoleSuperAdmin)
}

// RolePermission 角色权限关联表
type RolePermission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RoleID       uint      `gorm:"not null;index" json:"role_id"`
	PermissionID uint      `gorm:"not null;index" json:"permission_id"`
	CreatedAt    time.Time `json:"created_at"`
}
