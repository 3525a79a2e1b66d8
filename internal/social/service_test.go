package social

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jiahaoliu/minimall-backend/pkg/db/models"
	"github.com/jiahaoliu/minimall-backend/pkg/enums"
	pkgerrors "github.com/jiahaoliu/minimall-backend/pkg/errors"
	"github.com/jiahaoliu/minimall-backend/pkg/logger"
	"github.com/jiahaoliu/minimall-backend/pkg/pagination"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeRepository struct {
	followExists bool
	deleteResult bool
	userExists   bool
	storeExists  bool
	created      *models.Follow
	follows      []models.Follow
	users        []models.User
	stores       []models.Store
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) CreateFollow(ctx context.Context, follow *models.Follow) error {
	f.created = follow
	return nil
}

func (f *fakeRepository) DeleteFollow(ctx context.Context, followerID uuid.UUID, targetType enums.FollowTargetType, targetID uuid.UUID) (bool, error) {
	return f.deleteResult, nil
}

func (f *fakeRepository) FollowExists(ctx context.Context, followerID uuid.UUID, targetType enums.FollowTargetType, targetID uuid.UUID) (bool, error) {
	return f.followExists, nil
}

func (f *fakeRepository) ListFollowedTargets(ctx context.Context, followerID uuid.UUID, targetType enums.FollowTargetType, offset, limit int) ([]models.Follow, error) {
	return f.follows, nil
}

func (f *fakeRepository) CountFollowedTargets(ctx context.Context, followerID uuid.UUID, targetType enums.FollowTargetType) (int64, error) {
	return int64(len(f.follows)), nil
}

func (f *fakeRepository) ListFollowersOfUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Follow, error) {
	return f.follows, nil
}

func (f *fakeRepository) CountFollowersOfUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(f.follows)), nil
}

func (f *fakeRepository) UserExists(ctx context.Context, userID uuid.UUID) (bool, error) {
	return f.userExists, nil
}

func (f *fakeRepository) StoreExists(ctx context.Context, storeID uuid.UUID) (bool, error) {
	return f.storeExists, nil
}

func (f *fakeRepository) FindUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.User, error) {
	return f.users, nil
}

func (f *fakeRepository) FindStoresByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Store, error) {
	return f.stores, nil
}

type statsCall struct {
	userID uuid.UUID
	column string
	delta  int
}

type fakeStatsRepo struct {
	stats *models.UserSocialStats
	calls []statsCall
}

func (f *fakeStatsRepo) WithTx(tx *gorm.DB) StatsRepository { return f }

func (f *fakeStatsRepo) Ensure(ctx context.Context, userID uuid.UUID) error {
	if f.stats == nil {
		f.stats = &models.UserSocialStats{UserID: userID}
	}
	return nil
}

func (f *fakeStatsRepo) Find(ctx context.Context, userID uuid.UUID) (*models.UserSocialStats, error) {
	if f.stats == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.stats, nil
}

func (f *fakeStatsRepo) Increment(ctx context.Context, userID uuid.UUID, column string) error {
	f.calls = append(f.calls, statsCall{userID: userID, column: column, delta: 1})
	return nil
}

func (f *fakeStatsRepo) DecrementFloored(ctx context.Context, userID uuid.UUID, column string) error {
	f.calls = append(f.calls, statsCall{userID: userID, column: column, delta: -1})
	return nil
}

func newTestService(t *testing.T, repo Repository, stats StatsRepository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:      repo,
		StatsRepo: stats,
		DB:        stubTxRunner{},
		Logger:    logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel}),
	})
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc
}

func TestFollowUserBumpsBothCounters(t *testing.T) {
	repo := &fakeRepository{userExists: true}
	stats := &fakeStatsRepo{}
	svc := newTestService(t, repo, stats)

	follower := uuid.New()
	target := uuid.New()
	if err := svc.Follow(context.Background(), follower, enums.FollowTargetUser, target); err != nil {
		t.Fatalf("Follow error: %v", err)
	}
	if repo.created == nil || repo.created.TargetID != target {
		t.Fatal("follow row was not created")
	}
	if len(stats.calls) != 2 {
		t.Fatalf("expected 2 counter bumps, got %d", len(stats.calls))
	}
	if stats.calls[0] != (statsCall{userID: follower, column: StatFollowing, delta: 1}) {
		t.Fatalf("unexpected first bump: %+v", stats.calls[0])
	}
	if stats.calls[1] != (statsCall{userID: target, column: StatFollowers, delta: 1}) {
		t.Fatalf("unexpected second bump: %+v", stats.calls[1])
	}
}

func TestFollowStoreBumpsOnlyFollowing(t *testing.T) {
	repo := &fakeRepository{storeExists: true}
	stats := &fakeStatsRepo{}
	svc := newTestService(t, repo, stats)

	if err := svc.Follow(context.Background(), uuid.New(), enums.FollowTargetStore, uuid.New()); err != nil {
		t.Fatalf("Follow error: %v", err)
	}
	if len(stats.calls) != 1 || stats.calls[0].column != StatFollowing {
		t.Fatalf("store follow should only bump following_count: %+v", stats.calls)
	}
}

func TestFollowSelfRejected(t *testing.T) {
	repo := &fakeRepository{userExists: true}
	svc := newTestService(t, repo, &fakeStatsRepo{})

	userID := uuid.New()
	err := svc.Follow(context.Background(), userID, enums.FollowTargetUser, userID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected CodeValidation, got %v", err)
	}
}

func TestFollowMissingTarget(t *testing.T) {
	repo := &fakeRepository{userExists: false}
	svc := newTestService(t, repo, &fakeStatsRepo{})

	err := svc.Follow(context.Background(), uuid.New(), enums.FollowTargetUser, uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected CodeNotFound, got %v", err)
	}
}

func TestFollowDuplicate(t *testing.T) {
	repo := &fakeRepository{userExists: true, followExists: true}
	stats := &fakeStatsRepo{}
	svc := newTestService(t, repo, stats)

	err := svc.Follow(context.Background(), uuid.New(), enums.FollowTargetUser, uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CodeConflict, got %v", err)
	}
	if len(stats.calls) != 0 {
		t.Fatal("duplicate follow must not touch counters")
	}
}

func TestUnfollowMissingEdge(t *testing.T) {
	repo := &fakeRepository{deleteResult: false}
	stats := &fakeStatsRepo{}
	svc := newTestService(t, repo, stats)

	err := svc.Unfollow(context.Background(), uuid.New(), enums.FollowTargetUser, uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected CodeValidation, got %v", err)
	}
	if len(stats.calls) != 0 {
		t.Fatal("failed unfollow must not touch counters")
	}
}

func TestUnfollowLowersCounters(t *testing.T) {
	repo := &fakeRepository{deleteResult: true}
	stats := &fakeStatsRepo{}
	svc := newTestService(t, repo, stats)

	follower := uuid.New()
	target := uuid.New()
	if err := svc.Unfollow(context.Background(), follower, enums.FollowTargetUser, target); err != nil {
		t.Fatalf("Unfollow error: %v", err)
	}
	if len(stats.calls) != 2 {
		t.Fatalf("expected 2 counter drops, got %d", len(stats.calls))
	}
	for _, call := range stats.calls {
		if call.delta != -1 {
			t.Fatalf("expected floored decrement, got %+v", call)
		}
	}
}

func TestGetUserStatsLazyCreate(t *testing.T) {
	repo := &fakeRepository{userExists: true}
	stats := &fakeStatsRepo{}
	svc := newTestService(t, repo, stats)

	userID := uuid.New()
	// first Find misses, Ensure creates the zeroed row, second Find returns it
	dto, err := svc.GetUserStats(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetUserStats error: %v", err)
	}
	if dto.UserID != userID || dto.FollowerCount != 0 || dto.FollowingCount != 0 {
		t.Fatalf("expected zeroed stats, got %+v", dto)
	}
}

func TestGetUserStatsUnknownUser(t *testing.T) {
	repo := &fakeRepository{userExists: false}
	svc := newTestService(t, repo, &fakeStatsRepo{})

	_, err := svc.GetUserStats(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected CodeNotFound, got %v", err)
	}
}

func TestListFollowingStores(t *testing.T) {
	storeID := uuid.New()
	repo := &fakeRepository{
		follows: []models.Follow{{FollowerUserID: uuid.New(), TargetType: enums.FollowTargetStore, TargetID: storeID}},
		stores:  []models.Store{{ID: storeID, Name: "Sunrise Grocery"}},
	}
	svc := newTestService(t, repo, &fakeStatsRepo{})

	page, err := svc.ListFollowingStores(context.Background(), uuid.New(), pagination.Params{})
	if err != nil {
		t.Fatalf("ListFollowingStores error: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].Name != "Sunrise Grocery" {
		t.Fatalf("unexpected page: %+v", page.Items)
	}
}
