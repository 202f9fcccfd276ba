package models

import "time"

// VesselCertificate 船级证书模型 - 船舶级主证书库
// 航次文书清单以指针引用这里的记录，不复制文件元数据
type VesselCertificate struct {
	BaseModel
	VesselID uint `gorm:"not null;index" json:"vessel_id"`

	Name          string     `gorm:"size:100;not null" json:"name"`     // 证书名称，如 "Safety Management Certificate"
	Category      string     `gorm:"size:50" json:"category"`           // 类别：class/statutory/trading
	CertificateNo string     `gorm:"size:100" json:"certificate_no"`    // 证书编号
	IssuedBy      string     `gorm:"size:100" json:"issued_by"`         // 签发机构
	IssuedAt      *time.Time `json:"issued_at"`
	ExpiresAt     *time.Time `json:"expires_at"`
	FileName      string     `gorm:"size:255" json:"file_name"`
	FilePath      string     `gorm:"size:500" json:"file_path"`
	Status        string     `gorm:"size:20;default:'valid'" json:"status"` // valid/expired

	// 审计字段
	CreatedBy uint `json:"created_by"`
	UpdatedBy uint `json:"updated_by"`
}

// 证书状态常量
const (
	CertificateStatusValid   = "valid"
	CertificateStatusExpired = "expired"
)
