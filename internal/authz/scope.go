package authz

import (
	"fleetops/internal/models"

	"gorm.io/gorm"
)

// CompanyScope 公司域过滤，用于带company_id列的记录
// 超级管理员默认不受限，可通过显式的公司选择参数收窄（绝不隐式）；
// 普通用户固定限定在自己公司；未划归公司时返回恒假条件（fail closed）
func CompanyScope(sess *Session, explicitCompanyID *uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if sess.IsSuperAdmin() {
			if explicitCompanyID != nil {
				return db.Where("company_id = ?", *explicitCompanyID)
			}
			return db
		}
		if sess.CompanyID == nil {
			return db.Where("1 = 0")
		}
		return db.Where("company_id = ?", *sess.CompanyID)
	}
}

// OwnedVesselIDs 解析会话可见的船舶ID集合
// 返回unrestricted=true表示完全不受限（超级管理员且未显式选择公司）
func OwnedVesselIDs(db *gorm.DB, sess *Session, explicitCompanyID *uint) ([]uint, bool, error) {
	var companyID uint
	if sess.IsSuperAdmin() {
		if explicitCompanyID == nil {
			return nil, true, nil
		}
		companyID = *explicitCompanyID
	} else {
		if sess.CompanyID == nil {
			return nil, false, nil
		}
		companyID = *sess.CompanyID
	}

	var ids []uint
	err := db.Model(&models.Vessel{}).Where("company_id = ?", companyID).Pluck("id", &ids).Error
	if err != nil {
		return nil, false, err
	}
	return ids, false, nil
}

// VesselScope 船舶域过滤，用于航次、报告、文书等只带vessel_id的记录
// 公司字段不落在这些叶子记录上，必须两段式计算：
// 先解析公司名下船舶ID集合，再以IN子集过滤
func VesselScope(db *gorm.DB, sess *Session, explicitCompanyID *uint) (func(*gorm.DB) *gorm.DB, error) {
	ids, unrestricted, err := OwnedVesselIDs(db, sess, explicitCompanyID)
	if err != nil {
		return nil, err
	}
	return func(q *gorm.DB) *gorm.DB {
		if unrestricted {
			return q
		}
		if len(ids) == 0 {
			return q.Where("1 = 0")
		}
		return q.Where("vessel_id IN ?", ids)
	}, nil
}

// OwnRecords 受限角色叠加过滤：只能看到自己创建的记录
// 叠加在公司域之上，不替代公司域
func OwnRecords(sess *Session) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if sess.OwnRecordsOnly {
			return db.Where("created_by = ?", sess.UserID)
		}
		return db
	}
}
