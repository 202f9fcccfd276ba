package models

import "time"

// CrewApplication 船员申请模型
type CrewApplication struct {
	BaseModel
	CompanyID uint  `gorm:"not null;index" json:"company_id"`
	VesselID  *uint `gorm:"index" json:"vessel_id"` // 目标船舶，可为空（待分配）

	ApplicantName string     `gorm:"size:100;not null" json:"applicant_name"`
	Rank          string     `gorm:"size:50;not null" json:"rank"` // master/chief_officer/chief_engineer/...
	Nationality   string     `gorm:"size:50" json:"nationality"`
	Email         string     `gorm:"size:100" json:"email"`
	Phone         string     `gorm:"size:20" json:"phone"`
	AvailableFrom *time.Time `json:"available_from"`
	Status        string     `gorm:"size:20;default:'pending'" json:"status"` // pending/approved/rejected
	ReviewNote    string     `gorm:"size:500" json:"review_note"`

	// 审计字段
	CreatedBy  uint  `json:"created_by"`
	ReviewedBy *uint `json:"reviewed_by"`

	// 关联
	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Vessel  *Vessel  `gorm:"foreignKey:VesselID" json:"vessel,omitempty"`
}

// 船员申请状态常量
const (
	CrewStatusPending  = "pending"
	CrewStatusApproved = "approved"
	CrewStatusRejected = "rejected"
)
