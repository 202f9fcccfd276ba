package services

import (
	"fmt"

	"fleetops/internal/models"

	"gorm.io/gorm"
)

type PermissionService struct {
	db *gorm.DB
}

func NewPermissionService(db *gorm.DB) *PermissionService {
	return &PermissionService{db: db}
}

// ========== 基础CRUD方法 ==========

// GetWithPage 分页获取权限
// assignableOnly为true时只返回active状态（供角色分配界面使用），
// 废弃的权限对已持有它的角色仍然有效
func (s *PermissionService) GetWithPage(group string, assignableOnly bool, page, pageSize int) ([]*models.Permission, int64, error) {
	var permissions []*models.Permission
	var total int64

	query := s.db.Model(&models.Permission{})

	// 按资源组筛选
	if group != "" {
		query = query.Where("\"group\" = ?", group)
	}
	if assignableOnly {
		query = query.Where("status = ?", models.PermissionStatusActive)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Find(&permissions).Error
	if err != nil {
		return nil, 0, err
	}

	return permissions, total, nil
}

// GetByID 根据ID获取权限
func (s *PermissionService) GetByID(id uint) (*models.Permission, error) {
	var permission models.Permission
	err := s.db.First(&permission, id).Error
	return &permission, err
}

// Create 创建权限（系统级操作，一般预设）
func (s *PermissionService) Create(slug, name, description, group string) (*models.Permission, error) {
	var count int64
	s.db.Model(&models.Permission{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		return nil, fmt.Errorf("权限标识已存在")
	}

	permission := &models.Permission{
		Slug:        slug,
		Name:        name,
		Description: description,
		Group:       group,
		Status:      models.PermissionStatusActive,
	}

	err := s.db.Create(permission).Error
	return permission, err
}

// Update 更新权限
// Slug一经创建不可变更，只允许调整展示信息与状态
func (s *PermissionService) Update(id uint, name, description, status string) (*models.Permission, error) {
	if status != models.PermissionStatusActive && status != models.PermissionStatusDeprecated {
		return nil, fmt.Errorf("状态只能是active或deprecated")
	}

	var permission models.Permission
	if err := s.db.First(&permission, id).Error; err != nil {
		return nil, err
	}

	permission.Name = name
	permission.Description = description
	permission.Status = status

	err := s.db.Save(&permission).Error
	return &permission, err
}

// GetGrouped 按资源组返回权限目录
func (s *PermissionService) GetGrouped(assignableOnly bool) (map[string][]*models.Permission, error) {
	var permissions []*models.Permission

	query := s.db.Model(&models.Permission{}).Order("\"group\", slug")
	if assignableOnly {
		query = query.Where("status = ?", models.PermissionStatusActive)
	}
	if err := query.Find(&permissions).Error; err != nil {
		return nil, err
	}

	grouped := make(map[string][]*models.Permission)
	for _, perm := range permissions {
		grouped[perm.Group] = append(grouped[perm.Group], perm)
	}
	return grouped, nil
}
