package main

import (
	"fmt"

	"fleetops/internal/database"
	"fleetops/internal/models"
	"fleetops/pkg/logger"

	"gorm.io/gorm"
)

// seedData 初始化种子数据
func seedData() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting seed data initialization...")

	db := database.GetDB()

	// 1. 创建默认公司
	if err := createDefaultCompany(db); err != nil {
		return fmt.Errorf("创建默认公司失败: %v", err)
	}

	// 2. 初始化权限目录
	if err := initializePermissions(db); err != nil {
		return fmt.Errorf("初始化权限失败: %v", err)
	}

	// 3. 创建系统角色
	if err := createSystemRoles(db); err != nil {
		return fmt.Errorf("创建系统角色失败: %v", err)
	}

	// 4. 创建默认管理员用户
	if err := createDefaultAdmin(db); err != nil {
		return fmt.Errorf("创建默认管理员失败: %v", err)
	}

	appLogger.Info("Seed data initialization completed successfully")
	return nil
}

// createDefaultCompany 创建默认公司
func createDefaultCompany(db *gorm.DB) error {
	var count int64
	db.Model(&models.Company{}).Where("code = ?", "default").Count(&count)
	if count > 0 {
		logger.GetLogger().Info("默认公司已存在，跳过创建")
		return nil
	}

	company := &models.Company{
		Name:   "默认船公司",
		Code:   "default",
		Status: models.CompanyStatusActive,
	}

	if err := db.Create(company).Error; err != nil {
		return err
	}

	logger.GetLogger().Info("默认公司创建成功")
	return nil
}

// initializePermissions 初始化权限目录
func initializePermissions(db *gorm.DB) error {
	// 定义默认权限
	defaultPermissions := []models.Permission{
		// 公司管理权限
		{Slug: "company.create", Name: "创建公司", Group: models.GroupCompany, Description: "创建新公司"},
		{Slug: "company.list", Name: "公司列表", Group: models.GroupCompany, Description: "查看公司列表"},
		{Slug: "company.view", Name: "查看公司", Group: models.GroupCompany, Description: "查看公司详情"},
		{Slug: "company.edit", Name: "编辑公司", Group: models.GroupCompany, Description: "更新公司信息与状态"},
		{Slug: "company.delete", Name: "删除公司", Group: models.GroupCompany, Description: "注销公司"},

		// 用户管理权限
		{Slug: "users.create", Name: "创建用户", Group: models.GroupUser, Description: "创建新用户"},
		{Slug: "users.list", Name: "用户列表", Group: models.GroupUser, Description: "查看用户列表"},
		{Slug: "users.view", Name: "查看用户", Group: models.GroupUser, Description: "查看用户详情"},
		{Slug: "users.edit", Name: "编辑用户", Group: models.GroupUser, Description: "更新用户信息与状态"},
		{Slug: "users.delete", Name: "删除用户", Group: models.GroupUser, Description: "删除用户"},

		// 角色管理权限
		{Slug: "role.create", Name: "创建角色", Group: models.GroupRole, Description: "创建新角色"},
		{Slug: "role.list", Name: "角色列表", Group: models.GroupRole, Description: "查看角色列表"},
		{Slug: "role.view", Name: "查看角色", Group: models.GroupRole, Description: "查看角色详情"},
		{Slug: "role.edit", Name: "编辑角色", Group: models.GroupRole, Description: "更新角色并分配权限"},
		{Slug: "role.delete", Name: "删除角色", Group: models.GroupRole, Description: "删除角色"},

		// 权限目录权限
		{Slug: "permission.list", Name: "权限列表", Group: models.GroupPermission, Description: "浏览权限目录"},

		// 船舶管理权限
		{Slug: "vessel.create", Name: "创建船舶", Group: models.GroupVessel, Description: "登记新船舶"},
		{Slug: "vessel.list", Name: "船舶列表", Group: models.GroupVessel, Description: "查看船舶列表"},
		{Slug: "vessel.view", Name: "查看船舶", Group: models.GroupVessel, Description: "查看船舶详情"},
		{Slug: "vessel.edit", Name: "编辑船舶", Group: models.GroupVessel, Description: "更新船舶信息"},
		{Slug: "vessel.delete", Name: "删除船舶", Group: models.GroupVessel, Description: "删除船舶"},

		// 船舶证书权限
		{Slug: "certificate.create", Name: "创建证书", Group: models.GroupCertificate, Description: "登记船舶证书"},
		{Slug: "certificate.list", Name: "证书列表", Group: models.GroupCertificate, Description: "查看证书列表"},
		{Slug: "certificate.view", Name: "查看证书", Group: models.GroupCertificate, Description: "查看证书详情"},
		{Slug: "certificate.edit", Name: "编辑证书", Group: models.GroupCertificate, Description: "更新证书信息"},
		{Slug: "certificate.delete", Name: "删除证书", Group: models.GroupCertificate, Description: "删除证书"},

		// 航次管理权限
		{Slug: "voyage.create", Name: "创建航次", Group: models.GroupVoyage, Description: "创建新航次"},
		{Slug: "voyage.list", Name: "航次列表", Group: models.GroupVoyage, Description: "查看航次列表"},
		{Slug: "voyage.view", Name: "查看航次", Group: models.GroupVoyage, Description: "查看航次详情"},
		{Slug: "voyage.edit", Name: "编辑航次", Group: models.GroupVoyage, Description: "更新航次与状态流转"},
		{Slug: "voyage.delete", Name: "删除航次", Group: models.GroupVoyage, Description: "删除航次"},

		// 动态报告权限
		{Slug: "report.create", Name: "提交报告", Group: models.GroupReport, Description: "提交船舶动态报告"},
		{Slug: "report.list", Name: "报告列表", Group: models.GroupReport, Description: "查看报告列表"},
		{Slug: "report.view", Name: "查看报告", Group: models.GroupReport, Description: "查看报告详情"},
		{Slug: "report.delete", Name: "删除报告", Group: models.GroupReport, Description: "删除报告"},

		// 到港文书权限
		{Slug: "document.list", Name: "文书列表", Group: models.GroupDocument, Description: "查看到港文书清单"},
		{Slug: "document.edit", Name: "维护文书", Group: models.GroupDocument, Description: "添加条目与更新收集状态"},

		// 船员申请权限
		{Slug: "crew.create", Name: "登记申请", Group: models.GroupCrew, Description: "登记船员申请"},
		{Slug: "crew.list", Name: "申请列表", Group: models.GroupCrew, Description: "查看船员申请列表"},
		{Slug: "crew.view", Name: "查看申请", Group: models.GroupCrew, Description: "查看船员申请详情"},
		{Slug: "crew.review", Name: "审核申请", Group: models.GroupCrew, Description: "审核船员申请"},
		{Slug: "crew.delete", Name: "删除申请", Group: models.GroupCrew, Description: "删除船员申请"},

		// 看板权限
		{Slug: "dashboard.view", Name: "查看工作台", Group: models.GroupDashboard, Description: "查看工作台总览与事件流"},
	}

	created := 0
	for _, perm := range defaultPermissions {
		var count int64
		db.Model(&models.Permission{}).Where("slug = ?", perm.Slug).Count(&count)
		if count > 0 {
			continue
		}

		perm.Status = models.PermissionStatusActive
		if err := db.Create(&perm).Error; err != nil {
			return err
		}
		created++
	}

	if created > 0 {
		logger.GetLogger().Infof("权限目录初始化完成，新增 %d 项", created)
	} else {
		logger.GetLogger().Info("权限目录已是最新，跳过创建")
	}
	return nil
}

// createSystemRoles 创建系统角色
func createSystemRoles(db *gorm.DB) error {
	// 超级管理员：按角色名识别，绕过一切权限检查，不挂权限
	if err := ensureRole(db, &models.Role{
		Name:        models.RoleSuperAdmin,
		Description: "超级管理员，绕过一切权限检查",
		IsSystem:    true,
	}, nil); err != nil {
		return err
	}

	// 船队经理：本公司全量业务权限
	fleetManagerSlugs := []string{
		"users.create", "users.list", "users.view", "users.edit", "users.delete",
		"vessel.create", "vessel.list", "vessel.view", "vessel.edit", "vessel.delete",
		"certificate.create", "certificate.list", "certificate.view", "certificate.edit", "certificate.delete",
		"voyage.create", "voyage.list", "voyage.view", "voyage.edit", "voyage.delete",
		"report.create", "report.list", "report.view", "report.delete",
		"document.list", "document.edit",
		"crew.create", "crew.list", "crew.view", "crew.review", "crew.delete",
		"role.list", "role.view", "permission.list",
		"dashboard.view",
	}
	if err := ensureRole(db, &models.Role{
		Name:        models.RoleFleetManager,
		Description: "船队经理，本公司全量业务权限",
		IsSystem:    true,
	}, fleetManagerSlugs); err != nil {
		return err
	}

	// 运营专员：日常操作权限，且只能看到自己创建的记录
	operationsSlugs := []string{
		"vessel.list", "vessel.view",
		"certificate.list", "certificate.view",
		"voyage.create", "voyage.list", "voyage.view", "voyage.edit",
		"report.create", "report.list", "report.view",
		"document.list", "document.edit",
		"crew.create", "crew.list", "crew.view",
		"dashboard.view",
	}
	if err := ensureRole(db, &models.Role{
		Name:           models.RoleOperations,
		Description:    "运营专员，仅限本人创建的记录",
		IsSystem:       true,
		OwnRecordsOnly: true,
	}, operationsSlugs); err != nil {
		return err
	}

	return nil
}

// ensureRole 幂等创建角色并挂接权限
func ensureRole(db *gorm.DB, role *models.Role, slugs []string) error {
	var existing models.Role
	err := db.Where("name = ?", role.Name).First(&existing).Error
	if err == nil {
		logger.GetLogger().Infof("角色 %s 已存在，跳过创建", role.Name)
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	role.Status = models.RoleStatusActive
	if err := db.Create(role).Error; err != nil {
		return err
	}

	if len(slugs) > 0 {
		var permissions []models.Permission
		if err := db.Where("slug IN ?", slugs).Find(&permissions).Error; err != nil {
			return err
		}
		if err := db.Model(role).Association("Permissions").Replace(permissions); err != nil {
			return err
		}
	}

	logger.GetLogger().Infof("角色 %s 创建成功", role.Name)
	return nil
}

// createDefaultAdmin 创建默认管理员用户
func createDefaultAdmin(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		logger.GetLogger().Info("默认管理员已存在，跳过创建")
		return nil
	}

	var superAdminRole models.Role
	if err := db.Where("name = ?", models.RoleSuperAdmin).First(&superAdminRole).Error; err != nil {
		return err
	}

	admin := &models.User{
		Username: "admin",
		Email:    "admin@fleetops.local",
		Name:     "系统管理员",
		Status:   models.UserStatusActive,
		RoleID:   &superAdminRole.ID,
		// 超级管理员不划归公司，CompanyID留空
	}
	if err := admin.SetPassword("Admin@123"); err != nil {
		return err
	}

	if err := db.Create(admin).Error; err != nil {
		return err
	}

	logger.GetLogger().Info("默认管理员创建成功（用户名: admin，请尽快修改初始密码）")
	return nil
}
