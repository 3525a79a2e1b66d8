package social

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jiahaoliu/minimall-backend/pkg/db/models"
	"github.com/jiahaoliu/minimall-backend/pkg/enums"
)

// Repository manages persistence for the follow graph.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateFollow(ctx context.Context, follow *models.Follow) error
	DeleteFollow(ctx context.Context, followerID uuid.UUID, targetType enums.FollowTargetType, targetID uuid.UUID) (bool, error)
	FollowExists(ctx context.Context, followerID uuid.UUID, targetType enums.FollowTargetType, targetID uuid.UUID) (bool, error)

	ListFollowedTargets(ctx context.Context, followerID uuid.UUID, targetType enums.FollowTargetType, offset, limit int) ([]models.Follow, error)
	CountFollowedTargets(ctx context.Context, followerID uuid.UUID, targetType enums.FollowTargetType) (int64, error)
	ListFollowersOfUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Follow, error)
	CountFollowersOfUser(ctx context.Context, userID uuid.UUID) (int64, error)

	UserExists(ctx context.Context, userID uuid.UUID) (bool, error)
	StoreExists(ctx context.Context, storeID uuid.UUID) (bool, error)
	FindUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error)
	FindStoresByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Store, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a social repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateFollow(ctx context.Context, follow *models.Follow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

func (r *repository) DeleteFollow(ctx context.Context, followerID uuid.UUID, targetType enums.FollowTargetType, targetID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("follower_user_id = ? AND target_type = ? AND target_id = ?", followerID, targetType, targetID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) FollowExists(ctx context.Context, followerID uuid.UUID, targetType enums.FollowTargetType, targetID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_user_id = ? AND target_type = ? AND target_id = ?", followerID, targetType, targetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListFollowedTargets(ctx context.Context, followerID uuid.UUID, targetType enums.FollowTargetType, offset, limit int) ([]models.Follow, error) {
	var follows []models.Follow
	query := r.db.WithContext(ctx).
		Where("follower_user_id = ? AND target_type = ?", followerID, targetType).
		Order("created_at DESC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&follows).Error; err != nil {
		return nil, err
	}
	return follows, nil
}

func (r *repository) CountFollowedTargets(ctx context.Context, followerID uuid.UUID, targetType enums.FollowTargetType) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_user_id = ? AND target_type = ?", followerID, targetType).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) ListFollowersOfUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Follow, error) {
	var follows []models.Follow
	query := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", enums.FollowTargetUser, userID).
		Order("created_at DESC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&follows).Error; err != nil {
		return nil, err
	}
	return follows, nil
}

func (r *repository) CountFollowersOfUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("target_type = ? AND target_id = ?", enums.FollowTargetUser, userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) StoreExists(ctx context.Context, storeID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", storeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) FindUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) FindStoresByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Store, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var stores []models.Store
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}
