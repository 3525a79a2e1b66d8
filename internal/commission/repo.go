package commission

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jiahaoliu/minimall-backend/pkg/db/models"
)

// Repository manages persistence for merchant commission ledgers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindLedgerByStoreID(ctx context.Context, storeID uuid.UUID) (*models.MerchantLedger, error)
	FindLedgerByStoreIDForUpdate(ctx context.Context, storeID uuid.UUID) (*models.MerchantLedger, error)
	UpdateLedger(ctx context.Context, ledger *models.MerchantLedger, columns map[string]any) error
	ListLedgers(ctx context.Context, offset, limit int) ([]models.MerchantLedger, error)
	CountLedgers(ctx context.Context) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a commission repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindLedgerByStoreID(ctx context.Context, storeID uuid.UUID) (*models.MerchantLedger, error) {
	var ledger models.MerchantLedger
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		First(&ledger).Error; err != nil {
		return nil, err
	}
	return &ledger, nil
}

// FindLedgerByStoreIDForUpdate loads the ledger row with a row lock so
// concurrent sales against the same store serialize.
func (r *repository) FindLedgerByStoreIDForUpdate(ctx context.Context, storeID uuid.UUID) (*models.MerchantLedger, error) {
	var ledger models.MerchantLedger
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ?", storeID).
		First(&ledger).Error; err != nil {
		return nil, err
	}
	return &ledger, nil
}

func (r *repository) UpdateLedger(ctx context.Context, ledger *models.MerchantLedger, columns map[string]any) error {
	return r.db.WithContext(ctx).
		Model(ledger).
		Updates(columns).Error
}

func (r *repository) ListLedgers(ctx context.Context, offset, limit int) ([]models.MerchantLedger, error) {
	var ledgers []models.MerchantLedger
	query := r.db.WithContext(ctx).
		Order("created_at ASC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&ledgers).Error; err != nil {
		return nil, err
	}
	return ledgers, nil
}

func (r *repository) CountLedgers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MerchantLedger{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
