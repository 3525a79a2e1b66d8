package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jiahaoliu/minimall-backend/pkg/enums"
)

// Post is a feed entry. Deletion is a soft status transition so the
// like/collect/comment history stays attached.
type Post struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	Content      *string          `gorm:"column:content"`
	Images       pq.StringArray   `gorm:"column:images;type:text[]"`
	Tags         pq.StringArray   `gorm:"column:tags;type:text[]"`
	Location     *string          `gorm:"column:location"`
	Status       enums.PostStatus `gorm:"column:status;not null;default:'published';index"`
	LikeCount    int              `gorm:"column:like_count;not null;default:0"`
	CommentCount int              `gorm:"column:comment_count;not null;default:0"`
	CollectCount int              `gorm:"column:collect_count;not null;default:0"`
	ViewCount    int              `gorm:"column:view_count;not null;default:0"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
