package models

import (
	"time"

	"github.com/google/uuid"
)

// PostComment is a comment (or threaded reply) on a post.
//
// LikeCount here has no backing relation rows: comment likes are bare counter
// bumps inherited from the legacy API. See the posts service for the caveats.
type PostComment struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PostID          uuid.UUID  `gorm:"column:post_id;type:uuid;not null;index"`
	UserID          uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	Content         string     `gorm:"column:content;not null"`
	ParentCommentID *uuid.UUID `gorm:"column:parent_comment_id;type:uuid;index"`
	LikeCount       int        `gorm:"column:like_count;not null;default:0"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
