package social

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jiahaoliu/minimall-backend/pkg/db/models"
)

// Stat counter columns on user_social_stats.
const (
	StatFollowing = "following_count"
	StatFollowers = "follower_count"
	StatLikes     = "like_count"
	StatPosts     = "post_count"
)

// StatsRepository maintains the denormalized per-user social counters. It is
// shared with the posts package so post and comment mutations can bump the
// author's counters inside their own transactions.
type StatsRepository interface {
	WithTx(tx *gorm.DB) StatsRepository
	Ensure(ctx context.Context, userID uuid.UUID) error
	Find(ctx context.Context, userID uuid.UUID) (*models.UserSocialStats, error)
	Increment(ctx context.Context, userID uuid.UUID, column string) error
	// DecrementFloored lowers a counter but never below zero, so repeated
	// deletes cannot drive the cached value negative.
	DecrementFloored(ctx context.Context, userID uuid.UUID, column string) error
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository returns a stats repository bound to the provided database.
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) WithTx(tx *gorm.DB) StatsRepository {
	if tx == nil {
		return r
	}
	return &statsRepository{db: tx}
}

// Ensure creates the zeroed stats row if the user does not have one yet.
func (r *statsRepository) Ensure(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO user_social_stats (user_id) VALUES (?) ON CONFLICT (user_id) DO NOTHING`, userID).
		Error
}

func (r *statsRepository) Find(ctx context.Context, userID uuid.UUID) (*models.UserSocialStats, error) {
	var stats models.UserSocialStats
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *statsRepository) Increment(ctx context.Context, userID uuid.UUID, column string) error {
	if err := r.Ensure(ctx, userID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.UserSocialStats{}).
		Where("user_id = ?", userID).
		Update(column, gorm.Expr(column+" + 1")).Error
}

func (r *statsRepository) DecrementFloored(ctx context.Context, userID uuid.UUID, column string) error {
	if err := r.Ensure(ctx, userID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.UserSocialStats{}).
		Where("user_id = ? AND "+column+" > 0", userID).
		Update(column, gorm.Expr(column+" - 1")).Error
}
