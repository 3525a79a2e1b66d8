package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MerchantLedger holds the per-store commission and sales accounting state.
//
// CommissionRatePercent is a cached derived value: it must always equal what
// commission.ResolveRate returns for the row's (month_sales, early-adopter)
// state. Mutations go through the commission service or the monthly reset
// sweep, never through ad-hoc writes.
type MerchantLedger struct {
	ID                    uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID               uuid.UUID       `gorm:"column:store_id;type:uuid;not null;uniqueIndex"`
	UserID                uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	CommissionRatePercent decimal.Decimal `gorm:"column:commission_rate_percent;type:numeric(5,2);not null"`
	IsEarlyAdopter        bool            `gorm:"column:is_early_adopter;not null;default:false"`
	EarlyAdopterExpiresAt *time.Time      `gorm:"column:early_adopter_expires_at"`
	MonthSales            decimal.Decimal `gorm:"column:month_sales;type:numeric(14,2);not null"`
	TotalSales            decimal.Decimal `gorm:"column:total_sales;type:numeric(14,2);not null"`
	TotalCommission       decimal.Decimal `gorm:"column:total_commission;type:numeric(14,2);not null"`
	Balance               decimal.Decimal `gorm:"column:balance;type:numeric(14,2);not null"`
	FrozenBalance         decimal.Decimal `gorm:"column:frozen_balance;type:numeric(14,2);not null"`
	Deposit               decimal.Decimal `gorm:"column:deposit;type:numeric(14,2);not null"`
	CreatedAt             time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
