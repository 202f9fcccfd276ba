package database

import (
	"fleetops/internal/models"
	"fleetops/pkg/logger"
)

// Migrate 执行数据库迁移
func Migrate() error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting database migration...")

	err := db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Permission{},
		&models.Role{},
		&models.RolePermission{},
		&models.Vessel{},
		&models.VesselCertificate{},
		&models.Voyage{},
		&models.VoyageReport{},
		&models.VoyageDocument{},
		&models.CrewApplication{},
	)

	if err != nil {
		appLogger.Errorf("Database migration failed: %v", err)
		return err
	}

	appLogger.Info("Database migration completed successfully")
	return nil
}
