package posts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jiahaoliu/minimall-backend/internal/social"
	"github.com/jiahaoliu/minimall-backend/pkg/db/models"
	"github.com/jiahaoliu/minimall-backend/pkg/enums"
	pkgerrors "github.com/jiahaoliu/minimall-backend/pkg/errors"
	"github.com/jiahaoliu/minimall-backend/pkg/logger"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type counterCall struct {
	column string
	delta  int
}

type fakePostsRepo struct {
	post          *models.Post
	comment       *models.PostComment
	likeExists    bool
	collectExists bool
	deleteLike    bool
	deleteCollect bool
	createdPost   *models.Post
	createdLike   *models.PostLike
	statusSet     *enums.PostStatus
	counters      []counterCall
	commentLikes  []int
}

func (f *fakePostsRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakePostsRepo) CreatePost(ctx context.Context, post *models.Post) error {
	f.createdPost = post
	return nil
}

func (f *fakePostsRepo) FindPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	if f.post == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.post, nil
}

func (f *fakePostsRepo) UpdatePostStatus(ctx context.Context, id uuid.UUID, status enums.PostStatus) error {
	f.statusSet = &status
	return nil
}

func (f *fakePostsRepo) IncrementPostCounter(ctx context.Context, id uuid.UUID, column string) error {
	f.counters = append(f.counters, counterCall{column: column, delta: 1})
	return nil
}

func (f *fakePostsRepo) DecrementPostCounterFloored(ctx context.Context, id uuid.UUID, column string) error {
	f.counters = append(f.counters, counterCall{column: column, delta: -1})
	return nil
}

func (f *fakePostsRepo) ListPublishedPosts(ctx context.Context, offset, limit int) ([]models.Post, error) {
	return nil, nil
}

func (f *fakePostsRepo) CountPublishedPosts(ctx context.Context) (int64, error) { return 0, nil }

func (f *fakePostsRepo) ListPublishedPostsByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Post, error) {
	return nil, nil
}

func (f *fakePostsRepo) CountPublishedPostsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakePostsRepo) CreateLike(ctx context.Context, like *models.PostLike) error {
	f.createdLike = like
	return nil
}

func (f *fakePostsRepo) DeleteLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	return f.deleteLike, nil
}

func (f *fakePostsRepo) LikeExists(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	return f.likeExists, nil
}

func (f *fakePostsRepo) CreateCollect(ctx context.Context, collect *models.PostCollect) error {
	return nil
}

func (f *fakePostsRepo) DeleteCollect(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	return f.deleteCollect, nil
}

func (f *fakePostsRepo) CollectExists(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	return f.collectExists, nil
}

func (f *fakePostsRepo) CreateComment(ctx context.Context, comment *models.PostComment) error {
	return nil
}

func (f *fakePostsRepo) FindCommentByID(ctx context.Context, id uuid.UUID) (*models.PostComment, error) {
	if f.comment == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.comment, nil
}

func (f *fakePostsRepo) IncrementCommentLikes(ctx context.Context, id uuid.UUID) error {
	f.commentLikes = append(f.commentLikes, 1)
	return nil
}

func (f *fakePostsRepo) DecrementCommentLikesFloored(ctx context.Context, id uuid.UUID) error {
	f.commentLikes = append(f.commentLikes, -1)
	return nil
}

func (f *fakePostsRepo) ListCommentsByPost(ctx context.Context, postID uuid.UUID, offset, limit int) ([]models.PostComment, error) {
	return nil, nil
}

func (f *fakePostsRepo) CountCommentsByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	return 0, nil
}

type statsCall struct {
	userID uuid.UUID
	column string
	delta  int
}

type fakeStatsRepo struct {
	calls []statsCall
}

func (f *fakeStatsRepo) WithTx(tx *gorm.DB) social.StatsRepository { return f }

func (f *fakeStatsRepo) Ensure(ctx context.Context, userID uuid.UUID) error { return nil }

func (f *fakeStatsRepo) Find(ctx context.Context, userID uuid.UUID) (*models.UserSocialStats, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStatsRepo) Increment(ctx context.Context, userID uuid.UUID, column string) error {
	f.calls = append(f.calls, statsCall{userID: userID, column: column, delta: 1})
	return nil
}

func (f *fakeStatsRepo) DecrementFloored(ctx context.Context, userID uuid.UUID, column string) error {
	f.calls = append(f.calls, statsCall{userID: userID, column: column, delta: -1})
	return nil
}

func newTestService(t *testing.T, repo Repository, stats social.StatsRepository) Service {
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

func strPtr(s string) *string { return &s }

func TestCreatePostPublishedBumpsPostCount(t *testing.T) {
	repo := &fakePostsRepo{}
	stats := &fakeStatsRepo{}
	svc := newTestService(t, repo, stats)

	userID := uuid.New()
	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:  userID,
		Content: strPtr("hello"),
	})
	if err != nil {
		t.Fatalf("CreatePost error: %v", err)
	}
	if post.Status != enums.PostStatusPublished {
		t.Fatalf("status = %s, want published", post.Status)
	}
	if len(stats.calls) != 1 || stats.calls[0].column != social.StatPosts || stats.calls[0].delta != 1 {
		t.Fatalf("expected post count bump, got %+v", stats.calls)
	}
}

func TestCreatePostDraftSkipsPostCount(t *testing.T) {
	repo := &fakePostsRepo{}
	stats := &fakeStatsRepo{}
	svc := newTestService(t, repo, stats)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:  uuid.New(),
		Content: strPtr("draft"),
		Draft:   true,
	})
	if err != nil {
		t.Fatalf("CreatePost error: %v", err)
	}
	if post.Status != enums.PostStatusDraft {
		t.Fatalf("status = %s, want draft", post.Status)
	}
	if len(stats.calls) != 0 {
		t.Fatal("draft must not bump the post counter")
	}
}

func TestCreatePostNeedsContentOrImages(t *testing.T) {
	svc := newTestService(t, &fakePostsRepo{}, &fakeStatsRepo{})

	_, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: uuid.New()})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected CodeValidation, got %v", err)
	}
}

func TestDeletePostAuthorOnly(t *testing.T) {
	author := uuid.New()
	repo := &fakePostsRepo{
		post: &models.Post{ID: uuid.New(), UserID: author, Status: enums.PostStatusPublished},
	}
	stats := &fakeStatsRepo{}
	svc := newTestService(t, repo, stats)

	err := svc.DeletePost(context.Background(), repo.post.ID, uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected CodeForbidden, got %v", err)
	}
	if repo.statusSet != nil {
		t.Fatal("post must not be touched by a non-author")
	}

	if err := svc.DeletePost(context.Background(), repo.post.ID, author); err != nil {
		t.Fatalf("DeletePost error: %v", err)
	}
	if repo.statusSet == nil || *repo.statusSet != enums.PostStatusDeleted {
		t.Fatal("post should be soft-deleted")
	}
	if len(stats.calls) != 1 || stats.calls[0].delta != -1 {
		t.Fatalf("expected post count drop, got %+v", stats.calls)
	}
}

func TestLikePostMovesAllThreeCounters(t *testing.T) {
	author := uuid.New()
	repo := &fakePostsRepo{
		post: &models.Post{ID: uuid.New(), UserID: author, Status: enums.PostStatusPublished},
	}
	stats := &fakeStatsRepo{}
	svc := newTestService(t, repo, stats)

	if err := svc.LikePost(context.Background(), repo.post.ID, uuid.New()); err != nil {
		t.Fatalf("LikePost error: %v", err)
	}
	if repo.createdLike == nil {
		t.Fatal("like row was not created")
	}
	if len(repo.counters) != 1 || repo.counters[0] != (counterCall{column: counterLikes, delta: 1}) {
		t.Fatalf("expected post like bump, got %+v", repo.counters)
	}
	if len(stats.calls) != 1 || stats.calls[0] != (statsCall{userID: author, column: social.StatLikes, delta: 1}) {
		t.Fatalf("expected author like bump, got %+v", stats.calls)
	}
}

func TestLikePostDuplicate(t *testing.T) {
	repo := &fakePostsRepo{
		post:       &models.Post{ID: uuid.New(), UserID: uuid.New(), Status: enums.PostStatusPublished},
		likeExists: true,
	}
	svc := newTestService(t, repo, &fakeStatsRepo{})

	err := svc.LikePost(context.Background(), repo.post.ID, uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected CodeConflict, got %v", err)
	}
}

func TestUnlikePostWithoutLike(t *testing.T) {
	repo := &fakePostsRepo{
		post:       &models.Post{ID: uuid.New(), UserID: uuid.New(), Status: enums.PostStatusPublished},
		deleteLike: false,
	}
	svc := newTestService(t, repo, &fakeStatsRepo{})

	err := svc.UnlikePost(context.Background(), repo.post.ID, uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected CodeValidation, got %v", err)
	}
}

func TestDeletedPostIsHidden(t *testing.T) {
	repo := &fakePostsRepo{
		post: &models.Post{ID: uuid.New(), UserID: uuid.New(), Status: enums.PostStatusDeleted},
	}
	svc := newTestService(t, repo, &fakeStatsRepo{})

	_, err := svc.GetPost(context.Background(), repo.post.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected CodeNotFound, got %v", err)
	}

	err = svc.LikePost(context.Background(), repo.post.ID, uuid.New())
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected CodeNotFound, got %v", err)
	}
}

func TestCreateCommentBumpsCommentCount(t *testing.T) {
	repo := &fakePostsRepo{
		post: &models.Post{ID: uuid.New(), UserID: uuid.New(), Status: enums.PostStatusPublished},
	}
	svc := newTestService(t, repo, &fakeStatsRepo{})

	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		PostID:  repo.post.ID,
		UserID:  uuid.New(),
		Content: "nice",
	})
	if err != nil {
		t.Fatalf("CreateComment error: %v", err)
	}
	if comment.Content != "nice" {
		t.Fatalf("unexpected comment: %+v", comment)
	}
	if len(repo.counters) != 1 || repo.counters[0] != (counterCall{column: counterComments, delta: 1}) {
		t.Fatalf("expected comment count bump, got %+v", repo.counters)
	}
}

func TestCreateCommentParentMismatch(t *testing.T) {
	postID := uuid.New()
	parentID := uuid.New()
	repo := &fakePostsRepo{
		post:    &models.Post{ID: postID, UserID: uuid.New(), Status: enums.PostStatusPublished},
		comment: &models.PostComment{ID: parentID, PostID: uuid.New()},
	}
	svc := newTestService(t, repo, &fakeStatsRepo{})

	_, err := svc.CreateComment(context.Background(), CreateCommentInput{
		PostID:          postID,
		UserID:          uuid.New(),
		Content:         "reply",
		ParentCommentID: &parentID,
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected CodeValidation, got %v", err)
	}
}

func TestCommentLikesAreBareCounters(t *testing.T) {
	repo := &fakePostsRepo{
		comment: &models.PostComment{ID: uuid.New(), PostID: uuid.New()},
	}
	svc := newTestService(t, repo, &fakeStatsRepo{})

	// same caller twice: both succeed, there is no relation row to dedupe on
	if err := svc.LikeComment(context.Background(), repo.comment.ID); err != nil {
		t.Fatalf("LikeComment error: %v", err)
	}
	if err := svc.LikeComment(context.Background(), repo.comment.ID); err != nil {
		t.Fatalf("second LikeComment error: %v", err)
	}
	if err := svc.UnlikeComment(context.Background(), repo.comment.ID); err != nil {
		t.Fatalf("UnlikeComment error: %v", err)
	}
	if len(repo.commentLikes) != 3 {
		t.Fatalf("expected 3 counter moves, got %d", len(repo.commentLikes))
	}
}
