package models

import "time"

// VoyageReport 船舶动态报告模型
// 正午报、离港报、抵港报、NOR共用一张表，按Type区分
// VesselID冗余存储，租户过滤无需再联查航次
type VoyageReport struct {
	BaseModel
	VoyageID uint `gorm:"not null;index" json:"voyage_id"`
	VesselID uint `gorm:"not null;index" json:"vessel_id"`

	Type       string    `gorm:"size:20;not null;index" json:"type"` // noon/departure/arrival/nor
	ReportNo   string    `gorm:"size:50;uniqueIndex" json:"report_no"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	SpeedKnots float64   `json:"speed_knots"`
	FuelMT     float64   `json:"fuel_mt"` // 燃油存量（公吨）
	Remarks    string    `gorm:"size:1000" json:"remarks"`
	ReportedAt time.Time `json:"reported_at"`

	// 审计字段
	CreatedBy uint `json:"created_by"`

	// 关联
	Voyage *Voyage `gorm:"foreignKey:VoyageID" json:"voyage,omitempty"`
}

// 报告类型常量
const (
	ReportTypeNoon      = "noon"
	ReportTypeDeparture = "departure"
	ReportTypeArrival   = "arrival"
	ReportTypeNOR       = "nor" // Notice of Readiness
)

// IsValidReportType 检查报告类型是否有效
func IsValidReportType(t string) bool {
	switch t {
	case ReportTypeNoon, ReportTypeDeparture, ReportTypeArrival, ReportTypeNOR:
		return true
	default:
		return false
	}
}
