package models

import (
	"encoding/json"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// User 用户模型
// 一个用户绑定单个角色，另带两组按人覆盖的权限清单：
// AdditionalPermissions 在角色之上追加，ExcludedPermissions 从角色中剔除
type User struct {
	BaseModel
	Username     string     `json:"username" gorm:"unique;not null;size:50;index"`
	Email        string     `json:"email" gorm:"unique;not null;size:100;index"`
	PasswordHash string     `json:"-" gorm:"not null;size:255"`
	Name         string     `json:"name" gorm:"not null;size:100"`
	Phone        *string    `json:"phone" gorm:"size:20"`
	Status       string     `json:"status" gorm:"default:'active';size:20"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	RoleID    *uint `json:"role_id" gorm:"index"`
	CompanyID *uint `json:"company_id" gorm:"index"` // 为空表示未划归任何公司

	AdditionalPermissions datatypes.JSON `json:"additional_permissions" gorm:"type:json"` // 追加权限清单 ["voyage.edit", ...]
	ExcludedPermissions   datatypes.JSON `json:"excluded_permissions" gorm:"type:json"`   // 剔除权限清单

	// 关联
	Role    *Role    `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// TableName 表名
func (u *User) TableName() string {
	return "users"
}

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusLocked   = "locked"
)

// SetPassword 设置密码 - 数据操作方法
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码 - 数据操作方法
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// AdditionalList 解析追加权限清单
func (u *User) AdditionalList() []string {
	return decodeSlugList(u.AdditionalPermissions)
}

// ExcludedList 解析剔除权限清单
func (u *User) ExcludedList() []string {
	return decodeSlugList(u.ExcludedPermissions)
}

// decodeSlugList JSON列解析为字符串切片，解析失败按空清单处理
func decodeSlugList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var slugs []string
	if err := json.Unmarshal(raw, &slugs); err != nil {
		return nil
	}
	return slugs
}

// EncodeSlugList 字符串切片编码为JSON列
func EncodeSlugList(slugs []string) datatypes.JSON {
	if slugs == nil {
		slugs = []string{}
	}
	data, _ := json.Marshal(slugs)
	return datatypes.JSON(data)
}
