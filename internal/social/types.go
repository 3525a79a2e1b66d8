package social

import (
	"time"

	"github.com/google/uuid"

	"github.com/jiahaoliu/minimall-backend/pkg/db/models"
	"github.com/jiahaoliu/minimall-backend/pkg/pagination"
)

// UserStatsDTO is the public view of a user's social counters.
type UserStatsDTO struct {
	UserID         uuid.UUID `json:"user_id"`
	FollowingCount int       `json:"following_count"`
	FollowerCount  int       `json:"follower_count"`
	LikeCount      int       `json:"like_count"`
	PostCount      int       `json:"post_count"`
}

// FollowedUserDTO is one row of a following/followers listing.
type FollowedUserDTO struct {
	UserID     uuid.UUID `json:"user_id"`
	Nickname   string    `json:"nickname"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	FollowedAt time.Time `json:"followed_at"`
}

// FollowedStoreDTO is one row of a followed-stores listing.
type FollowedStoreDTO struct {
	StoreID    uuid.UUID `json:"store_id"`
	Name       string    `json:"name"`
	LogoURL    *string   `json:"logo_url,omitempty"`
	FollowedAt time.Time `json:"followed_at"`
}

// FollowedUsersPageDTO is a page of followed or following users.
type FollowedUsersPageDTO struct {
	Items      []FollowedUserDTO `json:"items"`
	Pagination pagination.Meta   `json:"pagination"`
}

// FollowedStoresPageDTO is a page of followed stores.
type FollowedStoresPageDTO struct {
	Items      []FollowedStoreDTO `json:"items"`
	Pagination pagination.Meta    `json:"pagination"`
}

func statsToDTO(stats *models.UserSocialStats) *UserStatsDTO {
	return &UserStatsDTO{
		UserID:         stats.UserID,
		FollowingCount: stats.FollowingCount,
		FollowerCount:  stats.FollowerCount,
		LikeCount:      stats.LikeCount,
		PostCount:      stats.PostCount,
	}
}
