package social

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStatsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	stats := `
CREATE TABLE IF NOT EXISTS user_social_stats (
  user_id TEXT PRIMARY KEY,
  following_count INTEGER NOT NULL DEFAULT 0,
  follower_count INTEGER NOT NULL DEFAULT 0,
  like_count INTEGER NOT NULL DEFAULT 0,
  post_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(stats).Error)
	return db
}

func TestEnsureIsIdempotent(t *testing.T) {
	db := setupStatsTestDB(t)
	repo := NewStatsRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, repo.Ensure(ctx, userID))
	require.NoError(t, repo.Increment(ctx, userID, StatPosts))
	// a second Ensure must not reset the counters
	require.NoError(t, repo.Ensure(ctx, userID))

	stats, err := repo.Find(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PostCount)
}

func TestIncrementCreatesRowOnDemand(t *testing.T) {
	db := setupStatsTestDB(t)
	repo := NewStatsRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, repo.Increment(ctx, userID, StatFollowers))
	require.NoError(t, repo.Increment(ctx, userID, StatFollowers))

	stats, err := repo.Find(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FollowerCount)
	assert.Zero(t, stats.FollowingCount)
}

func TestDecrementFlooredStopsAtZero(t *testing.T) {
	db := setupStatsTestDB(t)
	repo := NewStatsRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	require.NoError(t, repo.Increment(ctx, userID, StatLikes))

	require.NoError(t, repo.DecrementFloored(ctx, userID, StatLikes))
	require.NoError(t, repo.DecrementFloored(ctx, userID, StatLikes))
	require.NoError(t, repo.DecrementFloored(ctx, userID, StatLikes))

	stats, err := repo.Find(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, stats.LikeCount)
}
