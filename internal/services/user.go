package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"fleetops/internal/authz"
	"fleetops/internal/models"

	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

// UserStats 用户统计信息
type UserStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
	Locked   int64 `json:"locked"`
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// ========== 基础CRUD方法 ==========

// Create 创建用户
func (s *UserService) Create(companyID, roleID *uint, username, email, password, name string, phone *string) (*models.User, error) {
	// 验证参数
	if err := s.ValidateCreateParams(username, email, password, name); err != nil {
		return nil, err
	}

	// 检查公司是否存在
	if companyID != nil {
		var companyCount int64
		s.db.Model(&models.Company{}).Where("id = ?", *companyID).Count(&companyCount)
		if companyCount == 0 {
			return nil, fmt.Errorf("公司不存在")
		}
	}

	// 检查角色是否存在
	if roleID != nil {
		var roleCount int64
		s.db.Model(&models.Role{}).Where("id = ?", *roleID).Count(&roleCount)
		if roleCount == 0 {
			return nil, fmt.Errorf("角色不存在")
		}
	}

	// 检查用户名是否重复
	var usernameCount int64
	s.db.Model(&models.User{}).Where("username = ?", username).Count(&usernameCount)
	if usernameCount > 0 {
		return nil, fmt.Errorf("用户名已存在")
	}

	// 检查邮箱是否重复
	var emailCount int64
	s.db.Model(&models.User{}).Where("email = ?", email).Count(&emailCount)
	if emailCount > 0 {
		return nil, fmt.Errorf("邮箱已存在")
	}

	user := &models.User{
		CompanyID:             companyID,
		RoleID:                roleID,
		Username:              username,
		Email:                 email,
		Name:                  name,
		Phone:                 phone,
		Status:                models.UserStatusActive,
		AdditionalPermissions: models.EncodeSlugList(nil),
		ExcludedPermissions:   models.EncodeSlugList(nil),
	}

	// 设置密码
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("密码加密失败: %v", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}

	// 重新加载数据（包含关联）
	if err := s.db.Preload("Company").Preload("Role").First(user, user.ID).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// GetByID 根据ID获取用户
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Company").Preload("Role.Permissions").First(&user, id).Error
	return &user, err
}

// GetByUsername 根据用户名获取用户
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Company").Preload("Role").Where("username = ?", username).First(&user).Error
	return &user, err
}

// GetWithFiltersAndPage 组合查询（分页版本）
func (s *UserService) GetWithFiltersAndPage(companyID *uint, status, keyword string, page, pageSize int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := s.db.Model(&models.User{})

	// 添加过滤条件
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("username LIKE ? OR email LIKE ? OR name LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Preload("Company").Preload("Role").Offset(offset).Limit(pageSize).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// findScoped 在调用方的租户范围内查找用户，越权访问按不存在处理
func (s *UserService) findScoped(sess *authz.Session, id uint) (*models.User, error) {
	if sess == nil {
		return nil, authz.ErrUnauthenticated
	}
	var user models.User
	if err := s.db.Scopes(authz.CompanyScope(sess, nil)).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update 更新用户
func (s *UserService) Update(sess *authz.Session, id uint, name, email string, phone *string, status string) (*models.User, error) {
	// 验证参数
	if err := s.ValidateUpdateParams(name, email, status); err != nil {
		return nil, err
	}

	user, err := s.findScoped(sess, id)
	if err != nil {
		return nil, err
	}

	// 如果邮箱变更，检查是否重复
	if user.Email != email {
		var emailCount int64
		s.db.Model(&models.User{}).Where("email = ? AND id != ?", email, id).Count(&emailCount)
		if emailCount > 0 {
			return nil, fmt.Errorf("邮箱已存在")
		}
	}

	user.Name = name
	user.Email = email
	user.Phone = phone
	user.Status = status

	err = s.db.Save(user).Error
	return user, err
}

// Delete 删除用户（租户范围内）
func (s *UserService) Delete(sess *authz.Session, id uint) error {
	user, err := s.findScoped(sess, id)
	if err != nil {
		return err
	}
	return s.db.Delete(user).Error
}

// ========== 角色与权限覆盖 ==========

// SetRole 设置用户角色
func (s *UserService) SetRole(sess *authz.Session, userID uint, roleID *uint) (*models.User, error) {
	user, err := s.findScoped(sess, userID)
	if err != nil {
		return nil, err
	}

	if roleID != nil {
		var role models.Role
		if err := s.db.First(&role, *roleID).Error; err != nil {
			return nil, fmt.Errorf("角色不存在")
		}
	}

	user.RoleID = roleID
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("Role.Permissions").First(user, userID).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// SetOverrides 设置用户的追加/剔除权限清单
// 同一slug同时出现在两个清单属于矛盾的管理配置，这里不做拦截，
// 运行期解析按"剔除生效"处理
func (s *UserService) SetOverrides(sess *authz.Session, userID uint, additional, excluded []string) (*models.User, error) {
	user, err := s.findScoped(sess, userID)
	if err != nil {
		return nil, err
	}

	// 清单中的slug必须存在于权限目录（废弃的仍然合法）
	for _, slug := range append(append([]string{}, additional...), excluded...) {
		var count int64
		s.db.Model(&models.Permission{}).Where("slug = ?", slug).Count(&count)
		if count == 0 {
			return nil, fmt.Errorf("权限 %s 不存在", slug)
		}
	}

	user.AdditionalPermissions = models.EncodeSlugList(additional)
	user.ExcludedPermissions = models.EncodeSlugList(excluded)

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// ========== 快捷操作方法 ==========

// Activate 激活用户
func (s *UserService) Activate(sess *authz.Session, id uint) (*models.User, error) {
	return s.setStatus(sess, id, models.UserStatusActive)
}

// Deactivate 停用用户
// 生效的是下一次鉴权：会话每次请求重建，无需等令牌过期
func (s *UserService) Deactivate(sess *authz.Session, id uint) (*models.User, error) {
	return s.setStatus(sess, id, models.UserStatusInactive)
}

// Lock 锁定用户
func (s *UserService) Lock(sess *authz.Session, id uint) (*models.User, error) {
	return s.setStatus(sess, id, models.UserStatusLocked)
}

func (s *UserService) setStatus(sess *authz.Session, id uint, status string) (*models.User, error) {
	user, err := s.findScoped(sess, id)
	if err != nil {
		return nil, err
	}

	user.Status = status
	err = s.db.Save(user).Error
	return user, err
}

// ResetPassword 重置密码
func (s *UserService) ResetPassword(sess *authz.Session, id uint, newPassword string) (*models.User, error) {
	if err := s.ValidatePassword(newPassword); err != nil {
		return nil, err
	}

	user, err := s.findScoped(sess, id)
	if err != nil {
		return nil, err
	}

	if err := user.SetPassword(newPassword); err != nil {
		return nil, fmt.Errorf("密码加密失败: %v", err)
	}

	err = s.db.Save(user).Error
	return user, err
}

// UpdateLastLogin 更新最后登录时间
func (s *UserService) UpdateLastLogin(id uint) error {
	now := time.Now()
	return s.db.Model(&models.User{}).Where("id = ?", id).Update("last_login_at", now).Error
}

// IsActive 检查用户是否激活
func (s *UserService) IsActive(user *models.User) bool {
	return user.Status == models.UserStatusActive
}

// ========== 统计相关方法 ==========

// GetStats 获取用户统计
// 非超级管理员强制按自身公司统计，未关联公司时直接返回零值
func (s *UserService) GetStats(sess *authz.Session, companyID *uint) (*UserStats, error) {
	stats := &UserStats{}

	if sess == nil {
		return nil, authz.ErrUnauthenticated
	}
	if !sess.Perms.SuperAdmin {
		if sess.CompanyID == nil {
			return stats, nil
		}
		companyID = sess.CompanyID
	}

	query := func() *gorm.DB {
		q := s.db.Model(&models.User{})
		if companyID != nil {
			q = q.Where("company_id = ?", *companyID)
		}
		return q
	}

	query().Count(&stats.Total)
	query().Where("status = ?", models.UserStatusActive).Count(&stats.Active)
	query().Where("status = ?", models.UserStatusInactive).Count(&stats.Inactive)
	query().Where("status = ?", models.UserStatusLocked).Count(&stats.Locked)

	return stats, nil
}

// ========== 验证相关方法 ==========

// ValidateUsername 验证用户名
func (s *UserService) ValidateUsername(username string) bool {
	if len(username) < 3 || len(username) > 50 {
		return false
	}
	// 检查是否只包含字母、数字和下划线
	for _, r := range username {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_') {
			return false
		}
	}
	return true
}

// ValidateEmail 验证邮箱
func (s *UserService) ValidateEmail(email string) bool {
	return strings.Contains(email, "@") && strings.Contains(email, ".") && len(email) >= 5 && len(email) <= 100
}

// ValidatePassword 验证密码
func (s *UserService) ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("密码长度不能少于6位")
	}
	if len(password) > 50 {
		return fmt.Errorf("密码长度不能超过50位")
	}
	return nil
}

// ValidateName 验证姓名
func (s *UserService) ValidateName(name string) bool {
	runeCount := utf8.RuneCountInString(name)
	return runeCount >= 2 && runeCount <= 50
}

// IsValidStatus 检查用户状态是否有效
func (s *UserService) IsValidStatus(status string) bool {
	switch status {
	case models.UserStatusActive, models.UserStatusInactive, models.UserStatusLocked:
		return true
	default:
		return false
	}
}

// ValidateCreateParams 验证创建用户的参数
func (s *UserService) ValidateCreateParams(username, email, password, name string) error {
	if !s.ValidateUsername(username) {
		return fmt.Errorf("用户名长度必须在3-50个字符之间，且只能包含字母、数字和下划线")
	}
	if !s.ValidateEmail(email) {
		return fmt.Errorf("邮箱格式不正确")
	}
	if err := s.ValidatePassword(password); err != nil {
		return err
	}
	if !s.ValidateName(name) {
		return fmt.Errorf("姓名长度必须在2-50个字符之间")
	}
	return nil
}

// ValidateUpdateParams 验证更新用户的参数
func (s *UserService) ValidateUpdateParams(name, email, status string) error {
	if !s.ValidateName(name) {
		return fmt.Errorf("姓名长度必须在2-50个字符之间")
	}
	if !s.ValidateEmail(email) {
		return fmt.Errorf("邮箱格式不正确")
	}
	if !s.IsValidStatus(status) {
		return fmt.Errorf("状态只能是active、inactive或locked")
	}
	return nil
}
