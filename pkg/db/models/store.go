package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jiahaoliu/minimall-backend/pkg/enums"
)

// Store is the storefront record created when a merchant application is approved.
type Store struct {
	ID        uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string            `gorm:"column:name;not null"`
	OwnerID   uuid.UUID         `gorm:"column:owner_id;type:uuid;not null;uniqueIndex"`
	LogoURL   *string           `gorm:"column:logo_url"`
	Address   string            `gorm:"column:address;not null"`
	Phone     *string           `gorm:"column:phone"`
	Rating    decimal.Decimal   `gorm:"column:rating;type:numeric(3,1);not null"`
	Status    enums.StoreStatus `gorm:"column:status;not null;default:'active'"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
