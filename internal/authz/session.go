package authz

import (
	"errors"

	"fleetops/internal/models"

	"gorm.io/gorm"
)

// 鉴权错误
// 对外只区分"未登录"和"无权限"两类，不暴露具体原因
var (
	ErrUnauthenticated = errors.New("未认证")
	ErrForbidden       = errors.New("无权限")
)

// Session 请求期授权上下文
// 每次请求从数据库重建，不跨请求缓存：角色调整、停用账号立即生效
type Session struct {
	UserID         uint
	Username       string
	RoleName       string
	CompanyID      *uint // 为空表示未划归任何公司
	OwnRecordsOnly bool  // 受限角色只能看到自己创建的记录
	Perms          PermissionSet
}

// IsSuperAdmin 是否超级管理员
func (s *Session) IsSuperAdmin() bool {
	return s.Perms.SuperAdmin
}

// Can 检查会话是否持有指定权限
func (s *Session) Can(slug string) bool {
	return s.Perms.Has(slug)
}

// Materialize 从数据库重建授权上下文
// 失败一律按未认证处理（fail closed）：用户不存在、已停用，
// 或非超级管理员名下公司缺失、停用、已注销
func Materialize(db *gorm.DB, userID uint) (*Session, error) {
	var user models.User
	err := db.Preload("Role.Permissions").Preload("Company").First(&user, userID).Error
	if err != nil {
		return nil, ErrUnauthenticated
	}

	if user.Status != models.UserStatusActive {
		return nil, ErrUnauthenticated
	}

	perms := Resolve(user.Role, user.AdditionalList(), user.ExcludedList())

	// 非超级管理员若划归了公司，公司必须存活
	// Preload不会带出软删除的公司，缺失与注销同样失败
	if !perms.SuperAdmin && user.CompanyID != nil {
		if user.Company == nil || user.Company.Status != models.CompanyStatusActive {
			return nil, ErrUnauthenticated
		}
	}

	sess := &Session{
		UserID:    user.ID,
		Username:  user.Username,
		CompanyID: user.CompanyID,
		Perms:     perms,
	}
	if user.Role != nil {
		sess.RoleName = user.Role.Name
		sess.OwnRecordsOnly = user.Role.OwnRecordsOnly
	}

	return sess, nil
}

// Authorize 请求鉴权
// 超级管理员最先短路放行（其账号可能根本没有角色权限记录），
// 其余按有效权限集判定；路由引用了目录中不存在的slug时自然拒绝
func Authorize(sess *Session, slug string) error {
	if sess == nil {
		return ErrUnauthenticated
	}
	if sess.Perms.SuperAdmin {
		return nil
	}
	if sess.Perms.Has(slug) {
		return nil
	}
	return ErrForbidden
}

// RequireCompany 写操作的租户前置校验
// 读路径对无公司用户收敛为空结果，写路径必须显式拒绝
func RequireCompany(sess *Session) error {
	if sess == nil {
		return ErrUnauthenticated
	}
	if sess.Perms.SuperAdmin {
		return nil
	}
	if sess.CompanyID == nil {
		return ErrForbidden
	}
	return nil
}
