package models

import (
	"time"

	"github.com/google/uuid"
)

// PostLike marks that a user liked a post; the pair is unique.
type PostLike struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PostID    uuid.UUID `gorm:"column:post_id;type:uuid;not null;uniqueIndex:idx_post_likes_pair;index"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_post_likes_pair"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
