package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jiahaoliu/minimall-backend/pkg/enums"
)

// Follow is one edge of the social graph: a user following a user or a store.
// The (follower, target type, target) triple is unique; rows are only ever
// created or deleted.
type Follow struct {
	ID             uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	FollowerUserID uuid.UUID              `gorm:"column:follower_user_id;type:uuid;not null;uniqueIndex:idx_follows_triple;index"`
	TargetType     enums.FollowTargetType `gorm:"column:target_type;not null;uniqueIndex:idx_follows_triple"`
	TargetID       uuid.UUID              `gorm:"column:target_id;type:uuid;not null;uniqueIndex:idx_follows_triple;index"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
}
