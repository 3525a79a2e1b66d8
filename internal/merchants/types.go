package merchants

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jiahaoliu/minimall-backend/pkg/db/models"
	"github.com/jiahaoliu/minimall-backend/pkg/enums"
	"github.com/jiahaoliu/minimall-backend/pkg/pagination"
)

// ApplyInput is the data a user submits to open a store.
type ApplyInput struct {
	UserID          uuid.UUID `json:"-"`
	StoreName       string    `json:"store_name" validate:"required,min=2,max=100"`
	ContactName     string    `json:"contact_name" validate:"required,min=2,max=50"`
	ContactPhone    string    `json:"contact_phone" validate:"required,min=5,max=20"`
	StoreAddress    string    `json:"store_address" validate:"required,min=5,max=200"`
	Category        string    `json:"category" validate:"required,min=2,max=50"`
	BusinessLicense *string   `json:"business_license,omitempty"`
	Description     *string   `json:"description,omitempty"`
}

// ReviewInput captures an admin decision on a pending application.
type ReviewInput struct {
	ApplicationID uuid.UUID `json:"-"`
	ReviewerID    uuid.UUID `json:"-"`
	Approve       bool      `json:"approve"`
	RejectReason  string    `json:"reject_reason,omitempty"`
}

// ReviewResult describes what an approval produced.
type ReviewResult struct {
	Application  *models.MerchantApplication `json:"application"`
	Store        *models.Store               `json:"store,omitempty"`
	EarlyAdopter bool                        `json:"early_adopter"`
}

// MerchantInfoDTO is the merchant dashboard view of a store and its ledger.
type MerchantInfoDTO struct {
	Store                 *models.Store   `json:"store"`
	CommissionRatePercent decimal.Decimal `json:"commission_rate_percent"`
	IsEarlyAdopter        bool            `json:"is_early_adopter"`
	EarlyAdopterExpiresAt *time.Time      `json:"early_adopter_expires_at,omitempty"`
	MonthSales            decimal.Decimal `json:"month_sales"`
	TotalSales            decimal.Decimal `json:"total_sales"`
	TotalCommission       decimal.Decimal `json:"total_commission"`
	Balance               decimal.Decimal `json:"balance"`
	FrozenBalance         decimal.Decimal `json:"frozen_balance"`
	Deposit               decimal.Decimal `json:"deposit"`
}

// ApplicationsPageDTO is a page of applications for the admin review queue.
type ApplicationsPageDTO struct {
	Items      []models.MerchantApplication `json:"items"`
	Pagination pagination.Meta              `json:"pagination"`
}

// SlotsDTO reports early-adopter slot usage.
type SlotsDTO struct {
	Capacity  int `json:"capacity"`
	Claimed   int `json:"claimed"`
	Remaining int `json:"remaining"`
}

func applicationFromInput(input ApplyInput) *models.MerchantApplication {
	return &models.MerchantApplication{
		UserID:          input.UserID,
		StoreName:       input.StoreName,
		ContactName:     input.ContactName,
		ContactPhone:    input.ContactPhone,
		StoreAddress:    input.StoreAddress,
		Category:        input.Category,
		BusinessLicense: input.BusinessLicense,
		Description:     input.Description,
		Status:          enums.ApplicationStatusPending,
	}
}
