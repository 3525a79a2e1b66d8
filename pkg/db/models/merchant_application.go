package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jiahaoliu/minimall-backend/pkg/enums"
)

// MerchantApplication is the onboarding request a user files to open a store.
type MerchantApplication struct {
	ID              uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	StoreName       string                  `gorm:"column:store_name;not null"`
	ContactName     string                  `gorm:"column:contact_name;not null"`
	ContactPhone    string                  `gorm:"column:contact_phone;not null"`
	StoreAddress    string                  `gorm:"column:store_address;not null"`
	Category        string                  `gorm:"column:category;not null"`
	BusinessLicense *string                 `gorm:"column:business_license"`
	Description     *string                 `gorm:"column:description"`
	Status          enums.ApplicationStatus `gorm:"column:status;not null;default:'pending';index"`
	ReviewedBy      *uuid.UUID              `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt      *time.Time              `gorm:"column:reviewed_at"`
	RejectReason    *string                 `gorm:"column:reject_reason"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
