package models

import "time"

// Voyage 航次模型
// 航次不直接存公司字段，经由船舶归属公司
type Voyage struct {
	BaseModel
	VesselID uint `gorm:"not null;index;uniqueIndex:idx_vessel_voyage" json:"vessel_id"`

	VoyageNo      string     `gorm:"size:50;not null;uniqueIndex:idx_vessel_voyage" json:"voyage_no"`
	DeparturePort string     `gorm:"size:100" json:"departure_port"`
	ArrivalPort   string     `gorm:"size:100" json:"arrival_port"`
	CargoSummary  string     `gorm:"size:255" json:"cargo_summary"`
	ETD           *time.Time `json:"etd"`
	ETA           *time.Time `json:"eta"`
	Status        string     `gorm:"size:20;default:'planned'" json:"status"` // planned/underway/completed

	// 审计字段
	CreatedBy uint `json:"created_by"`
	UpdatedBy uint `json:"updated_by"`

	// 关联
	Vessel    *Vessel          `gorm:"foreignKey:VesselID" json:"vessel,omitempty"`
	Documents []VoyageDocument `gorm:"foreignKey:VoyageID" json:"documents,omitempty"`
}

// 航次状态常量
const (
	VoyageStatusPlanned   = "planned"
	VoyageStatusUnderway  = "underway"
	VoyageStatusCompleted = "completed"
)
