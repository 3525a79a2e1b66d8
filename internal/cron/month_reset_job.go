package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/jiahaoliu/minimall-backend/internal/commission"
	"github.com/jiahaoliu/minimall-backend/pkg/db/models"
	"github.com/jiahaoliu/minimall-backend/pkg/logger"
)

const (
	monthResetJobName     = "merchant-month-reset"
	defaultResetBatchSize = 200
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// MonthResetJobParams configure the monthly ledger sweep.
type MonthResetJobParams struct {
	Repo      commission.Repository
	DB        txRunner
	Logger    *logger.Logger
	BatchSize int
	Now       func() time.Time
}

// MonthResetJob zeroes every merchant's month sales and re-resolves their
// commission rate for the new month. Each ledger is swept in its own
// transaction so one bad row cannot stall the rest.
type MonthResetJob struct {
	repo      commission.Repository
	db        txRunner
	logg      *logger.Logger
	batchSize int
	now       func() time.Time
}

// NewMonthResetJob builds the monthly sweep job.
func NewMonthResetJob(params MonthResetJobParams) (*MonthResetJob, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("commission repo required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = defaultResetBatchSize
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &MonthResetJob{
		repo:      params.Repo,
		db:        params.DB,
		logg:      params.Logger,
		batchSize: batchSize,
		now:       now,
	}, nil
}

// Name identifies the job in logs and metrics.
func (j *MonthResetJob) Name() string {
	return monthResetJobName
}

// Run sweeps all ledgers. Per-ledger failures are logged and collected; the
// sweep keeps going so a single broken row never blocks the month rollover.
func (j *MonthResetJob) Run(ctx context.Context) error {
	var (
		swept  int
		failed int
		errs   error
	)

	offset := 0
	for {
		ledgers, err := j.repo.ListLedgers(ctx, offset, j.batchSize)
		if err != nil {
			return fmt.Errorf("list ledgers: %w", err)
		}
		if len(ledgers) == 0 {
			break
		}

		for i := range ledgers {
			ledger := &ledgers[i]
			if err := j.resetLedger(ctx, ledger); err != nil {
				failed++
				errs = multierr.Append(errs, fmt.Errorf("ledger %s: %w", ledger.ID, err))
				j.logg.Error(j.logg.WithField(ctx, "store_id", ledger.StoreID), "month reset failed for ledger", err)
				continue
			}
			swept++
		}

		if len(ledgers) < j.batchSize {
			break
		}
		offset += j.batchSize
	}

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"swept":  swept,
		"failed": failed,
	}), "month reset sweep finished")
	return errs
}

func (j *MonthResetJob) resetLedger(ctx context.Context, ledger *models.MerchantLedger) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := j.repo.WithTx(tx)

		locked, err := repo.FindLedgerByStoreIDForUpdate(ctx, ledger.StoreID)
		if err != nil {
			return fmt.Errorf("lock ledger: %w", err)
		}

		columns := map[string]any{
			"month_sales": decimal.Zero,
		}
		newRate := commission.ResolveRate(decimal.Zero, locked.IsEarlyAdopter, locked.EarlyAdopterExpiresAt, j.now())
		if !newRate.Equal(locked.CommissionRatePercent) {
			columns["commission_rate_percent"] = newRate
		}

		if err := repo.UpdateLedger(ctx, locked, columns); err != nil {
			return fmt.Errorf("update ledger: %w", err)
		}
		return nil
	})
}
