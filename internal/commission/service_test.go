package commission

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jiahaoliu/minimall-backend/pkg/db/models"
	pkgerrors "github.com/jiahaoliu/minimall-backend/pkg/errors"
	"github.com/jiahaoliu/minimall-backend/pkg/logger"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeRepository struct {
	ledger    *models.MerchantLedger
	findErr   error
	updateErr error
	updated   map[string]any
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) FindLedgerByStoreID(ctx context.Context, storeID uuid.UUID) (*models.MerchantLedger, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.ledger, nil
}

func (f *fakeRepository) FindLedgerByStoreIDForUpdate(ctx context.Context, storeID uuid.UUID) (*models.MerchantLedger, error) {
	return f.FindLedgerByStoreID(ctx, storeID)
}

func (f *fakeRepository) UpdateLedger(ctx context.Context, ledger *models.MerchantLedger, columns map[string]any) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = columns
	return nil
}

func (f *fakeRepository) ListLedgers(ctx context.Context, offset, limit int) ([]models.MerchantLedger, error) {
	return nil, nil
}

func (f *fakeRepository) CountLedgers(ctx context.Context) (int64, error) { return 0, nil }

func newTestService(t *testing.T, repo Repository, now time.Time) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:   repo,
		DB:     stubTxRunner{},
		Logger: logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel}),
		Now:    func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func TestApplySaleChargesPreSaleRate(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	storeID := uuid.New()
	repo := &fakeRepository{
		ledger: &models.MerchantLedger{
			StoreID:               storeID,
			CommissionRatePercent: decimal.NewFromFloat(5.0),
			MonthSales:            decimal.NewFromInt(9000),
			TotalSales:            decimal.NewFromInt(9000),
		},
	}
	svc := newTestService(t, repo, now)

	// 2000 crosses the 10000 boundary but the sale itself pays 5%.
	result, err := svc.ApplySale(context.Background(), storeID, decimal.NewFromInt(2000))
	if err != nil {
		t.Fatalf("ApplySale error: %v", err)
	}
	if !result.ChargedRatePercent.Equal(decimal.NewFromFloat(5.0)) {
		t.Fatalf("charged rate = %s, want 5", result.ChargedRatePercent)
	}
	if !result.Commission.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("commission = %s, want 100", result.Commission)
	}
	if !result.NetAmount.Equal(decimal.NewFromInt(1900)) {
		t.Fatalf("net = %s, want 1900", result.NetAmount)
	}
	if !result.RateChanged || !result.RatePercent.Equal(decimal.NewFromFloat(4.0)) {
		t.Fatalf("expected rate to move to 4, got changed=%v rate=%s", result.RateChanged, result.RatePercent)
	}
	if _, ok := repo.updated["commission_rate_percent"]; !ok {
		t.Fatal("expected the new rate to be persisted")
	}
	if got := repo.updated["month_sales"].(decimal.Decimal); !got.Equal(decimal.NewFromInt(11000)) {
		t.Fatalf("month_sales = %s, want 11000", got)
	}
}

func TestApplySaleKeepsRateWithinBand(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	storeID := uuid.New()
	repo := &fakeRepository{
		ledger: &models.MerchantLedger{
			StoreID:               storeID,
			CommissionRatePercent: decimal.NewFromFloat(5.0),
			MonthSales:            decimal.NewFromInt(1000),
		},
	}
	svc := newTestService(t, repo, now)

	result, err := svc.ApplySale(context.Background(), storeID, decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("ApplySale error: %v", err)
	}
	if result.RateChanged {
		t.Fatal("rate should not change inside the same band")
	}
	if _, ok := repo.updated["commission_rate_percent"]; ok {
		t.Fatal("unchanged rate must not be written back")
	}
}

func TestApplySaleEarlyAdopterFreeWindow(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	expiry := now.AddDate(0, 2, 0)
	storeID := uuid.New()
	repo := &fakeRepository{
		ledger: &models.MerchantLedger{
			StoreID:               storeID,
			CommissionRatePercent: decimal.Zero,
			IsEarlyAdopter:        true,
			EarlyAdopterExpiresAt: &expiry,
			MonthSales:            decimal.NewFromInt(500000),
		},
	}
	svc := newTestService(t, repo, now)

	result, err := svc.ApplySale(context.Background(), storeID, decimal.NewFromInt(10000))
	if err != nil {
		t.Fatalf("ApplySale error: %v", err)
	}
	if !result.Commission.IsZero() {
		t.Fatalf("commission inside free window = %s, want 0", result.Commission)
	}
	if !result.NetAmount.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("net = %s, want full amount", result.NetAmount)
	}
	if result.RateChanged {
		t.Fatal("rate should stay at 0 inside the free window")
	}
}

func TestApplySaleValidation(t *testing.T) {
	now := time.Now()
	repo := &fakeRepository{}
	svc := newTestService(t, repo, now)

	if _, err := svc.ApplySale(context.Background(), uuid.Nil, decimal.NewFromInt(10)); err == nil {
		t.Fatal("expected error for nil store id")
	}
	if _, err := svc.ApplySale(context.Background(), uuid.New(), decimal.Zero); err == nil {
		t.Fatal("expected error for non-positive amount")
	}
	if _, err := svc.ApplySale(context.Background(), uuid.New(), decimal.NewFromInt(-5)); err == nil {
		t.Fatal("expected error for negative amount")
	}
}

func TestApplySaleLedgerNotFound(t *testing.T) {
	repo := &fakeRepository{findErr: gorm.ErrRecordNotFound}
	svc := newTestService(t, repo, time.Now())

	_, err := svc.ApplySale(context.Background(), uuid.New(), decimal.NewFromInt(100))
	if err == nil {
		t.Fatal("expected not found error")
	}
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected CodeNotFound, got %v", err)
	}
}
