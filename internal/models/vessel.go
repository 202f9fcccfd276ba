package models

// Vessel 船舶模型
type Vessel struct {
	BaseModel
	CompanyID uint `gorm:"not null;index;uniqueIndex:idx_company_vessel" json:"company_id"`

	// 核心字段
	Name      string `gorm:"size:100;not null;uniqueIndex:idx_company_vessel" json:"name"`
	IMONumber string `gorm:"size:10;not null;uniqueIndex" json:"imo_number"` // IMO编号，7位数字
	CallSign  string `gorm:"size:20" json:"call_sign"`
	Type      string `gorm:"size:50" json:"type"` // bulk/container/tanker/general
	Flag      string `gorm:"size:50" json:"flag"` // 船旗国
	GrossTon  int    `json:"gross_ton"`
	BuiltYear int    `json:"built_year"`

	// 状态
	Status string `gorm:"size:20;default:'active'" json:"status"` // active/laid_up/sold

	// 审计字段
	CreatedBy uint `json:"created_by"`
	UpdatedBy uint `json:"updated_by"`

	// 关联
	Company      *Company            `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Certificates []VesselCertificate `gorm:"foreignKey:VesselID" json:"certificates,omitempty"`
}

// 船舶状态常量
const (
	VesselStatusActive = "active"
	VesselStatusLaidUp = "laid_up"
	VesselStatusSold   = "sold"
)

// IsValidVesselStatus 检查船舶状态是否有效
func IsValidVesselStatus(status string) bool {
	return status == VesselStatusActive || status == VesselStatusLaidUp || status == VesselStatusSold
}
