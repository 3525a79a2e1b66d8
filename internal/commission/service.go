package commission

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jiahaoliu/minimall-backend/pkg/db/models"
	pkgerrors "github.com/jiahaoliu/minimall-backend/pkg/errors"
	"github.com/jiahaoliu/minimall-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the commission operations exposed to controllers and jobs.
type Service interface {
	ApplySale(ctx context.Context, storeID uuid.UUID, amount decimal.Decimal) (*ApplySaleResult, error)
	GetLedger(ctx context.Context, storeID uuid.UUID) (*models.MerchantLedger, error)
	Tiers(ctx context.Context) []Tier
}

// ApplySaleResult reports what a single sale did to a merchant's ledger.
type ApplySaleResult struct {
	StoreID            uuid.UUID       `json:"store_id"`
	Amount             decimal.Decimal `json:"amount"`
	ChargedRatePercent decimal.Decimal `json:"charged_rate_percent"`
	Commission         decimal.Decimal `json:"commission"`
	NetAmount          decimal.Decimal `json:"net_amount"`
	RatePercent        decimal.Decimal `json:"rate_percent"`
	RateChanged        bool            `json:"rate_changed"`
}

// ServiceParams groups dependencies for the commission service.
type ServiceParams struct {
	Repo   Repository
	DB     txRunner
	Logger *logger.Logger
	Now    func() time.Time
}

type service struct {
	repo Repository
	db   txRunner
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds a commission service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "commission repo is required")
	}
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo: params.Repo,
		db:   params.DB,
		logg: params.Logger,
		now:  now,
	}, nil
}

// ApplySale charges commission on a completed sale and rolls the proceeds
// into the merchant's ledger.
//
// The sale is charged at the rate the ledger carried before the sale; the
// rate is then re-resolved from the updated month sales so the next sale
// sees the new band. Both happen inside one transaction against a locked
// ledger row.
func (s *service) ApplySale(ctx context.Context, storeID uuid.UUID, amount decimal.Decimal) (*ApplySaleResult, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale amount must be positive")
	}

	var result *ApplySaleResult
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		ledger, err := repo.FindLedgerByStoreIDForUpdate(ctx, storeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "merchant ledger not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant ledger")
		}

		chargedRate := ledger.CommissionRatePercent
		commission := amount.Mul(chargedRate).Div(decimal.NewFromInt(100)).Round(2)
		net := amount.Sub(commission)

		monthSales := ledger.MonthSales.Add(amount)
		columns := map[string]any{
			"month_sales":      monthSales,
			"total_sales":      ledger.TotalSales.Add(amount),
			"total_commission": ledger.TotalCommission.Add(commission),
			"balance":          ledger.Balance.Add(net),
		}

		newRate := ResolveRate(monthSales, ledger.IsEarlyAdopter, ledger.EarlyAdopterExpiresAt, s.now())
		rateChanged := !newRate.Equal(chargedRate)
		if rateChanged {
			columns["commission_rate_percent"] = newRate
		}

		if err := repo.UpdateLedger(ctx, ledger, columns); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update merchant ledger")
		}

		if rateChanged {
			s.logg.Info(s.logg.WithFields(ctx, map[string]any{
				"store_id":  storeID,
				"old_rate":  chargedRate.String(),
				"new_rate":  newRate.String(),
				"month_sum": monthSales.String(),
			}), "commission rate moved to a new band")
		}

		result = &ApplySaleResult{
			StoreID:            storeID,
			Amount:             amount,
			ChargedRatePercent: chargedRate,
			Commission:         commission,
			NetAmount:          net,
			RatePercent:        newRate,
			RateChanged:        rateChanged,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetLedger returns the ledger for a store.
func (s *service) GetLedger(ctx context.Context, storeID uuid.UUID) (*models.MerchantLedger, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	ledger, err := s.repo.FindLedgerByStoreID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "merchant ledger not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load merchant ledger")
	}
	return ledger, nil
}

// Tiers returns the public commission schedule.
func (s *service) Tiers(_ context.Context) []Tier {
	return Tiers()
}
