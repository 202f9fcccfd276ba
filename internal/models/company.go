package models

import "gorm.io/gorm"

// Company 公司（租户）模型 - 贫血模型，只包含数据结构
// 所有船舶、航次、报告数据都直接或经由船舶归属到唯一一家公司
type Company struct {
	BaseModel
	Name        string         `json:"name" gorm:"not null;size:100"`
	Code        string         `json:"code" gorm:"unique;not null;size:50;index"`
	ContactName string         `json:"contact_name" gorm:"size:100"`
	Email       string         `json:"email" gorm:"size:100"`
	Status      string         `json:"status" gorm:"default:'active';size:20"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	VesselCount int `json:"vessel_count" gorm:"-"` // 船舶数量，不存储在数据库中
}

// TableName 表名
func (c *Company) TableName() string {
	return "companies"
}

// 公司状态常量
const (
	CompanyStatusActive   = "active"
	CompanyStatusInactive = "inactive"
)
