package models

// Permission 权限模型
// Slug一经创建不可变更；废弃的权限对已持有它的角色仍然有效，
// 但不再出现在可分配列表中
type Permission struct {
	BaseModel
	Slug        string `gorm:"uniqueIndex;size:100;not null" json:"slug"` // 权限标识，如 "voyage.edit"
	Name        string `gorm:"size:100;not null" json:"name"`             // 权限名称，如 "编辑航次"
	Description string `gorm:"size:255" json:"description"`               // 权限描述
	Group       string `gorm:"size:50;not null;index" json:"group"`       // 所属资源组，如 "voyage", "vessel"
	Status      string `gorm:"size:20;default:'active'" json:"status"`    // 状态：active, deprecated
}

// 权限状态常量
const (
	PermissionStatusActive     = "active"
	PermissionStatusDeprecated = "deprecated"
)

// 权限资源组常量
const (
	GroupCompany     = "company"     // 公司管理
	GroupUser        = "users"       // 用户管理
	GroupRole        = "role"        // 角色管理
	GroupPermission  = "permission"  // 权限目录
	GroupVessel      = "vessel"      // 船舶管理
	GroupCertificate = "certificate" // 船舶证书
	GroupVoyage      = "voyage"      // 航次管理
	GroupReport      = "report"      // 船舶动态报告
	GroupCrew        = "crew"        // 船员申请
	GroupDocument    = "document"    // 到港文书
	GroupDashboard   = "dashboard"   // 看板
)
