package models

import (
	"time"

	"github.com/google/uuid"
)

// UserSocialStats caches per-user social counters. Each counter mirrors a
// count over the underlying relation rows (follows, post likes, published
// posts) and is maintained inside the same transaction that mutates those
// rows. Rows are created lazily on the first social action.
type UserSocialStats struct {
	UserID         uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	FollowingCount int       `gorm:"column:following_count;not null;default:0"`
	FollowerCount  int       `gorm:"column:follower_count;not null;default:0"`
	LikeCount      int       `gorm:"column:like_count;not null;default:0"`
	PostCount      int       `gorm:"column:post_count;not null;default:0"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
