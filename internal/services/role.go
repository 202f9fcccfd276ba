package services

import (
	"fmt"
	"unicode/utf8"

	"fleetops/internal/models"

	"gorm.io/gorm"
)

type RoleService struct {
	db *gorm.DB
}

func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{db: db}
}

// ========== 基础CRUD方法 ==========

// Create 创建角色
func (s *RoleService) Create(name, description string, ownRecordsOnly bool) (*models.Role, error) {
	// 验证参数
	if err := s.ValidateCreateParams(name); err != nil {
		return nil, err
	}

	// 检查角色名是否重复
	var count int64
	s.db.Model(&models.Role{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("角色名称已存在")
	}

	role := &models.Role{
		Name:           name,
		Description:    description,
		OwnRecordsOnly: ownRecordsOnly,
		Status:         models.RoleStatusActive,
		IsSystem:       false,
	}

	err := s.db.Create(role).Error
	return role, err
}

// GetByID 根据ID获取角色
func (s *RoleService) GetByID(id uint) (*models.Role, error) {
	var role models.Role
	err := s.db.Preload("Permissions").First(&role, id).Error
	return &role, err
}

// GetWithPage 分页获取角色
func (s *RoleService) GetWithPage(status string, page, pageSize int) ([]*models.Role, int64, error) {
	var roles []*models.Role
	var total int64

	query := s.db.Model(&models.Role{})

	// 按状态筛选
	if status != "" {
		query = query.Where("status = ?", status)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Preload("Permissions").Offset(offset).Limit(pageSize).Find(&roles).Error
	if err != nil {
		return nil, 0, err
	}

	return roles, total, nil
}

// Update 更新角色
func (s *RoleService) Update(id uint, description, status string, ownRecordsOnly bool) (*models.Role, error) {
	if !s.ValidateStatus(status) {
		return nil, fmt.Errorf("状态只能是active或inactive")
	}

	var role models.Role
	err := s.db.First(&role, id).Error
	if err != nil {
		return nil, err
	}

	// 系统角色不能修改
	if role.IsSystem {
		return nil, fmt.Errorf("系统角色不允许修改")
	}

	// 角色名不可变更：用户的有效权限按名字识别super-admin，改名等同换角色
	role.Description = description
	role.Status = status
	role.OwnRecordsOnly = ownRecordsOnly

	err = s.db.Save(&role).Error
	return &role, err
}

// Delete 删除角色
// 仍有用户引用的角色不允许删除
func (s *RoleService) Delete(id uint) error {
	var role models.Role
	err := s.db.First(&role, id).Error
	if err != nil {
		return err
	}

	// 系统角色不能删除
	if role.IsSystem {
		return fmt.Errorf("系统角色不允许删除")
	}

	// 检查是否仍被用户引用
	var userCount int64
	s.db.Model(&models.User{}).Where("role_id = ?", id).Count(&userCount)
	if userCount > 0 {
		return fmt.Errorf("角色仍被 %d 个用户使用，不允许删除", userCount)
	}

	return s.db.Delete(&role).Error
}

// ========== 权限管理方法 ==========

// AssignPermissions 为角色分配权限
// 只有active状态的权限可被新分配；已持有的废弃权限在重新分配时被清掉
func (s *RoleService) AssignPermissions(roleID uint, permissionIDs []uint) error {
	var role models.Role
	err := s.db.First(&role, roleID).Error
	if err != nil {
		return err
	}

	// 获取权限（只接受active状态）
	var permissions []models.Permission
	err = s.db.Where("id IN ? AND status = ?", permissionIDs, models.PermissionStatusActive).Find(&permissions).Error
	if err != nil {
		return err
	}

	if len(permissions) != len(permissionIDs) {
		return fmt.Errorf("部分权限不存在或已废弃")
	}

	// 清除现有权限，重新分配
	err = s.db.Model(&role).Association("Permissions").Replace(permissions)
	return err
}

// GetRolePermissions 获取角色的权限
func (s *RoleService) GetRolePermissions(roleID uint) ([]models.Permission, error) {
	var role models.Role
	err := s.db.Preload("Permissions").First(&role, roleID).Error
	if err != nil {
		return nil, err
	}
	return role.Permissions, nil
}

// ========== 验证方法 ==========

// ValidateName 验证角色名称
func (s *RoleService) ValidateName(name string) bool {
	runeCount := utf8.RuneCountInString(name)
	if runeCount < 2 || runeCount > 50 {
		return false
	}
	// 只允许字母、数字、下划线和连字符
	for _, r := range name {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return false
		}
	}
	return true
}

// ValidateStatus 验证角色状态
func (s *RoleService) ValidateStatus(status string) bool {
	return status == models.RoleStatusActive || status == models.RoleStatusInactive
}

// ValidateCreateParams 验证创建角色的参数
func (s *RoleService) ValidateCreateParams(name string) error {
	if !s.ValidateName(name) {
		return fmt.Errorf("角色名称长度必须在2-50个字符之间，且只能包含字母、数字、下划线和连字符")
	}
	return nil
}
