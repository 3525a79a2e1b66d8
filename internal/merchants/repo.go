package merchants

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jiahaoliu/minimall-backend/pkg/db/models"
	"github.com/jiahaoliu/minimall-backend/pkg/enums"
)

// Repository manages persistence for merchant onboarding and stores.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateApplication(ctx context.Context, application *models.MerchantApplication) error
	FindApplicationByID(ctx context.Context, id uuid.UUID) (*models.MerchantApplication, error)
	FindLatestApplicationByUserID(ctx context.Context, userID uuid.UUID) (*models.MerchantApplication, error)
	HasPendingApplication(ctx context.Context, userID uuid.UUID) (bool, error)
	UpdateApplication(ctx context.Context, application *models.MerchantApplication, columns map[string]any) error
	ListApplicationsByStatus(ctx context.Context, status enums.ApplicationStatus, offset, limit int) ([]models.MerchantApplication, error)
	CountApplicationsByStatus(ctx context.Context, status enums.ApplicationStatus) (int64, error)

	CreateStore(ctx context.Context, store *models.Store) error
	FindStoreByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindStoreByOwnerID(ctx context.Context, ownerID uuid.UUID) (*models.Store, error)

	CreateLedger(ctx context.Context, ledger *models.MerchantLedger) error

	ClaimEarlyAdopterSlot(ctx context.Context) (bool, error)
	GetEarlyAdopterSlots(ctx context.Context) (*models.EarlyAdopterSlots, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a merchants repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateApplication(ctx context.Context, application *models.MerchantApplication) error {
	return r.db.WithContext(ctx).Create(application).Error
}

func (r *repository) FindApplicationByID(ctx context.Context, id uuid.UUID) (*models.MerchantApplication, error) {
	var application models.MerchantApplication
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&application).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *repository) FindLatestApplicationByUserID(ctx context.Context, userID uuid.UUID) (*models.MerchantApplication, error) {
	var application models.MerchantApplication
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&application).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *repository) HasPendingApplication(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MerchantApplication{}).
		Where("user_id = ? AND status = ?", userID, enums.ApplicationStatusPending).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) UpdateApplication(ctx context.Context, application *models.MerchantApplication, columns map[string]any) error {
	return r.db.WithContext(ctx).
		Model(application).
		Updates(columns).Error
}

func (r *repository) ListApplicationsByStatus(ctx context.Context, status enums.ApplicationStatus, offset, limit int) ([]models.MerchantApplication, error) {
	var applications []models.MerchantApplication
	query := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (r *repository) CountApplicationsByStatus(ctx context.Context, status enums.ApplicationStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.MerchantApplication{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CreateStore(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *repository) FindStoreByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *repository) FindStoreByOwnerID(ctx context.Context, ownerID uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *repository) CreateLedger(ctx context.Context, ledger *models.MerchantLedger) error {
	return r.db.WithContext(ctx).Create(ledger).Error
}

// ClaimEarlyAdopterSlot bumps the claimed counter only while capacity remains.
// The conditional UPDATE makes concurrent approvals race-safe: whoever loses
// the race simply sees zero rows affected.
func (r *repository) ClaimEarlyAdopterSlot(ctx context.Context) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.EarlyAdopterSlots{}).
		Where("id = ? AND claimed < capacity", 1).
		Update("claimed", gorm.Expr("claimed + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) GetEarlyAdopterSlots(ctx context.Context) (*models.EarlyAdopterSlots, error) {
	var slots models.EarlyAdopterSlots
	if err := r.db.WithContext(ctx).
		Where("id = ?", 1).
		First(&slots).Error; err != nil {
		return nil, err
	}
	return &slots, nil
}
