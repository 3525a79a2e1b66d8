package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/jiahaoliu/minimall-backend/pkg/enums"
)

// User is the minimal account record the social and merchant flows hang off.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Nickname  string         `gorm:"column:nickname;not null"`
	AvatarURL *string        `gorm:"column:avatar_url"`
	Phone     *string        `gorm:"column:phone"`
	Role      enums.UserRole `gorm:"column:role;not null;default:member"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
