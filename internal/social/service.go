package social

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jiahaoliu/minimall-backend/pkg/db"
	"github.com/jiahaoliu/minimall-backend/pkg/db/models"
	"github.com/jiahaoliu/minimall-backend/pkg/enums"
	pkgerrors "github.com/jiahaoliu/minimall-backend/pkg/errors"
	"github.com/jiahaoliu/minimall-backend/pkg/logger"
	"github.com/jiahaoliu/minimall-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines follow-graph and social-stats operations.
type Service interface {
	Follow(ctx context.Context, followerID uuid.UUID, targetType enums.FollowTargetType, targetID uuid.UUID) error
	Unfollow(ctx context.Context, followerID uuid.UUID, targetType enums.FollowTargetType, targetID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID uuid.UUID, targetType enums.FollowTargetType, targetID uuid.UUID) (bool, error)
	GetUserStats(ctx context.Context, userID uuid.UUID) (*UserStatsDTO, error)
	ListFollowingUsers(ctx context.Context, followerID uuid.UUID, params pagination.Params) (*FollowedUsersPageDTO, error)
	ListFollowingStores(ctx context.Context, followerID uuid.UUID, params pagination.Params) (*FollowedStoresPageDTO, error)
	ListFollowers(ctx context.Context, userID uuid.UUID, params pagination.Params) (*FollowedUsersPageDTO, error)
}

// ServiceParams groups dependencies for the social service.
type ServiceParams struct {
	Repo      Repository
	StatsRepo StatsRepository
	DB        txRunner
	Logger    *logger.Logger
}

type service struct {
	repo      Repository
	statsRepo StatsRepository
	db        txRunner
	logg      *logger.Logger
}

// NewService builds a social service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "social repo is required")
	}
	if params.StatsRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stats repo is required")
	}
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:      params.Repo,
		statsRepo: params.StatsRepo,
		db:        params.DB,
		logg:      params.Logger,
	}, nil
}

// Follow creates a follow edge and bumps the cached counters in the same
// transaction. Following yourself is rejected; following twice is a conflict.
func (s *service) Follow(ctx context.Context, followerID uuid.UUID, targetType enums.FollowTargetType, targetID uuid.UUID) error {
	if err := validateFollowInput(followerID, targetType, targetID); err != nil {
		return err
	}
	if targetType == enums.FollowTargetUser && followerID == targetID {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot follow yourself")
	}

	if err := s.ensureTargetExists(ctx, targetType, targetID); err != nil {
		return err
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		statsRepo := s.statsRepo.WithTx(tx)

		exists, err := repo.FollowExists(ctx, followerID, targetType, targetID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check follow")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "already following")
		}

		follow := &models.Follow{
			FollowerUserID: followerID,
			TargetType:     targetType,
			TargetID:       targetID,
		}
		if err := repo.CreateFollow(ctx, follow); err != nil {
			if db.IsUniqueViolation(err, "idx_follows_triple") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "already following")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create follow")
		}

		if err := statsRepo.Increment(ctx, followerID, StatFollowing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump following count")
		}
		if targetType == enums.FollowTargetUser {
			if err := statsRepo.Increment(ctx, targetID, StatFollowers); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump follower count")
			}
		}
		return nil
	})
}

// Unfollow removes the follow edge and lowers the cached counters. Removing
// an edge that does not exist is an input error, not a no-op.
func (s *service) Unfollow(ctx context.Context, followerID uuid.UUID, targetType enums.FollowTargetType, targetID uuid.UUID) error {
	if err := validateFollowInput(followerID, targetType, targetID); err != nil {
		return err
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		statsRepo := s.statsRepo.WithTx(tx)

		deleted, err := repo.DeleteFollow(ctx, followerID, targetType, targetID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete follow")
		}
		if !deleted {
			return pkgerrors.New(pkgerrors.CodeValidation, "not following")
		}

		if err := statsRepo.DecrementFloored(ctx, followerID, StatFollowing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lower following count")
		}
		if targetType == enums.FollowTargetUser {
			if err := statsRepo.DecrementFloored(ctx, targetID, StatFollowers); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lower follower count")
			}
		}
		return nil
	})
}

// IsFollowing reports whether the follow edge exists.
func (s *service) IsFollowing(ctx context.Context, followerID uuid.UUID, targetType enums.FollowTargetType, targetID uuid.UUID) (bool, error) {
	if err := validateFollowInput(followerID, targetType, targetID); err != nil {
		return false, err
	}
	exists, err := s.repo.FollowExists(ctx, followerID, targetType, targetID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check follow")
	}
	return exists, nil
}

// GetUserStats returns the user's counters, creating the zeroed row on first
// access.
func (s *service) GetUserStats(ctx context.Context, userID uuid.UUID) (*UserStatsDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	stats, err := s.statsRepo.Find(ctx, userID)
	if err == nil {
		return statsToDTO(stats), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user stats")
	}

	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	if err := s.statsRepo.Ensure(ctx, userID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user stats")
	}
	stats, err = s.statsRepo.Find(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user stats")
	}
	return statsToDTO(stats), nil
}

// ListFollowingUsers returns the users the follower is following, newest first.
func (s *service) ListFollowingUsers(ctx context.Context, followerID uuid.UUID, params pagination.Params) (*FollowedUsersPageDTO, error) {
	if followerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	normalized := params.Normalize()

	follows, err := s.repo.ListFollowedTargets(ctx, followerID, enums.FollowTargetUser, normalized.Offset(), normalized.PageSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list followed users")
	}
	total, err := s.repo.CountFollowedTargets(ctx, followerID, enums.FollowTargetUser)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count followed users")
	}

	items, err := s.followedUserRows(ctx, follows, func(f models.Follow) uuid.UUID { return f.TargetID })
	if err != nil {
		return nil, err
	}
	return &FollowedUsersPageDTO{
		Items:      items,
		Pagination: pagination.NewMeta(normalized, total),
	}, nil
}

// ListFollowingStores returns the stores the follower is following, newest first.
func (s *service) ListFollowingStores(ctx context.Context, followerID uuid.UUID, params pagination.Params) (*FollowedStoresPageDTO, error) {
	if followerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	normalized := params.Normalize()

	follows, err := s.repo.ListFollowedTargets(ctx, followerID, enums.FollowTargetStore, normalized.Offset(), normalized.PageSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list followed stores")
	}
	total, err := s.repo.CountFollowedTargets(ctx, followerID, enums.FollowTargetStore)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count followed stores")
	}

	ids := make([]uuid.UUID, 0, len(follows))
	followedAt := make(map[uuid.UUID]models.Follow, len(follows))
	for _, follow := range follows {
		ids = append(ids, follow.TargetID)
		followedAt[follow.TargetID] = follow
	}
	stores, err := s.repo.FindStoresByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stores")
	}
	byID := make(map[uuid.UUID]models.Store, len(stores))
	for _, store := range stores {
		byID[store.ID] = store
	}

	items := make([]FollowedStoreDTO, 0, len(follows))
	for _, follow := range follows {
		store, ok := byID[follow.TargetID]
		if !ok {
			continue
		}
		items = append(items, FollowedStoreDTO{
			StoreID:    store.ID,
			Name:       store.Name,
			LogoURL:    store.LogoURL,
			FollowedAt: follow.CreatedAt,
		})
	}
	return &FollowedStoresPageDTO{
		Items:      items,
		Pagination: pagination.NewMeta(normalized, total),
	}, nil
}

// ListFollowers returns the users following the given user, newest first.
func (s *service) ListFollowers(ctx context.Context, userID uuid.UUID, params pagination.Params) (*FollowedUsersPageDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	normalized := params.Normalize()

	follows, err := s.repo.ListFollowersOfUser(ctx, userID, normalized.Offset(), normalized.PageSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list followers")
	}
	total, err := s.repo.CountFollowersOfUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count followers")
	}

	items, err := s.followedUserRows(ctx, follows, func(f models.Follow) uuid.UUID { return f.FollowerUserID })
	if err != nil {
		return nil, err
	}
	return &FollowedUsersPageDTO{
		Items:      items,
		Pagination: pagination.NewMeta(normalized, total),
	}, nil
}

func (s *service) followedUserRows(ctx context.Context, follows []models.Follow, pick func(models.Follow) uuid.UUID) ([]FollowedUserDTO, error) {
	ids := make([]uuid.UUID, 0, len(follows))
	for _, follow := range follows {
		ids = append(ids, pick(follow))
	}
	users, err := s.repo.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load users")
	}
	byID := make(map[uuid.UUID]models.User, len(users))
	for _, user := range users {
		byID[user.ID] = user
	}

	items := make([]FollowedUserDTO, 0, len(follows))
	for _, follow := range follows {
		user, ok := byID[pick(follow)]
		if !ok {
			continue
		}
		items = append(items, FollowedUserDTO{
			UserID:     user.ID,
			Nickname:   user.Nickname,
			AvatarURL:  user.AvatarURL,
			FollowedAt: follow.CreatedAt,
		})
	}
	return items, nil
}

func (s *service) ensureTargetExists(ctx context.Context, targetType enums.FollowTargetType, targetID uuid.UUID) error {
	var (
		exists bool
		err    error
	)
	switch targetType {
	case enums.FollowTargetUser:
		exists, err = s.repo.UserExists(ctx, targetID)
	case enums.FollowTargetStore:
		exists, err = s.repo.StoreExists(ctx, targetID)
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load follow target")
	}
	if !exists {
		return pkgerrors.New(pkgerrors.CodeNotFound, "follow target not found")
	}
	return nil
}

func validateFollowInput(followerID uuid.UUID, targetType enums.FollowTargetType, targetID uuid.UUID) error {
	if followerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "follower id is required")
	}
	if targetID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "target id is required")
	}
	if !targetType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid follow target type")
	}
	return nil
}
