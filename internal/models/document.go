package models

// VoyageDocument 到港文书清单条目
// CertificateID指向船舶级证书库；快照字段缓存最近一次水合结果，
// 证书被删除（悬空指针）时回退到快照
type VoyageDocument struct {
	BaseModel
	VoyageID      uint  `gorm:"not null;index" json:"voyage_id"`
	CertificateID *uint `gorm:"index" json:"certificate_id"`

	// 快照字段
	Name          string `gorm:"size:100;not null" json:"name"`
	Category      string `gorm:"size:50" json:"category"`
	CertificateNo string `gorm:"size:100" json:"certificate_no"`
	FileName      string `gorm:"size:255" json:"file_name"`
	FilePath      string `gorm:"size:500" json:"file_path"`

	Status string `gorm:"size:20;default:'pending'" json:"status"` // pending/collected/waived
	Note   string `gorm:"size:500" json:"note"`

	// 审计字段
	CreatedBy uint `json:"created_by"`
	UpdatedBy uint `json:"updated_by"`

	// 水合标记：指针仍指向存活证书时为true，不落库
	Live bool `gorm:"-" json:"live"`
}

// 文书状态常量
const (
	DocumentStatusPending   = "pending"
	DocumentStatusCollected = "collected"
	DocumentStatusWaived    = "waived"
)
