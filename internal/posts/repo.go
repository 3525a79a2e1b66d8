package posts

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jiahaoliu/minimall-backend/pkg/db/models"
	"github.com/jiahaoliu/minimall-backend/pkg/enums"
)

// Post counter columns bumped alongside relation-row mutations.
const (
	counterLikes    = "like_count"
	counterComments = "comment_count"
	counterCollects = "collect_count"
	counterViews    = "view_count"
)

// Repository manages persistence for posts and their interactions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreatePost(ctx context.Context, post *models.Post) error
	FindPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	UpdatePostStatus(ctx context.Context, id uuid.UUID, status enums.PostStatus) error
	IncrementPostCounter(ctx context.Context, id uuid.UUID, column string) error
	DecrementPostCounterFloored(ctx context.Context, id uuid.UUID, column string) error
	ListPublishedPosts(ctx context.Context, offset, limit int) ([]models.Post, error)
	CountPublishedPosts(ctx context.Context) (int64, error)
	ListPublishedPostsByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Post, error)
	CountPublishedPostsByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	CreateLike(ctx context.Context, like *models.PostLike) error
	DeleteLike(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	LikeExists(ctx context.Context, postID, userID uuid.UUID) (bool, error)

	CreateCollect(ctx context.Context, collect *models.PostCollect) error
	DeleteCollect(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	CollectExists(ctx context.Context, postID, userID uuid.UUID) (bool, error)

	CreateComment(ctx context.Context, comment *models.PostComment) error
	FindCommentByID(ctx context.Context, id uuid.UUID) (*models.PostComment, error)
	IncrementCommentLikes(ctx context.Context, id uuid.UUID) error
	DecrementCommentLikesFloored(ctx context.Context, id uuid.UUID) error
	ListCommentsByPost(ctx context.Context, postID uuid.UUID, offset, limit int) ([]models.PostComment, error)
	CountCommentsByPost(ctx context.Context, postID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a posts repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *repository) FindPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *repository) UpdatePostStatus(ctx context.Context, id uuid.UUID, status enums.PostStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) IncrementPostCounter(ctx context.Context, id uuid.UUID, column string) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update(column, gorm.Expr(column+" + 1")).Error
}

func (r *repository) DecrementPostCounterFloored(ctx context.Context, id uuid.UUID, column string) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND "+column+" > 0", id).
		Update(column, gorm.Expr(column+" - 1")).Error
}

func (r *repository) ListPublishedPosts(ctx context.Context, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	query := r.db.WithContext(ctx).
		Where("status = ?", enums.PostStatusPublished).
		Order("created_at DESC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *repository) CountPublishedPosts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("status = ?", enums.PostStatusPublished).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) ListPublishedPostsByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, enums.PostStatusPublished).
		Order("created_at DESC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *repository) CountPublishedPostsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("user_id = ? AND status = ?", userID, enums.PostStatusPublished).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) CreateLike(ctx context.Context, like *models.PostLike) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *repository) DeleteLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostLike{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) LikeExists(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateCollect(ctx context.Context, collect *models.PostCollect) error {
	return r.db.WithContext(ctx).Create(collect).Error
}

func (r *repository) DeleteCollect(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.PostCollect{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) CollectExists(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PostCollect{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreateComment(ctx context.Context, comment *models.PostComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *repository) FindCommentByID(ctx context.Context, id uuid.UUID) (*models.PostComment, error) {
	var comment models.PostComment
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *repository) IncrementCommentLikes(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.PostComment{}).
		Where("id = ?", id).
		Update("like_count", gorm.Expr("like_count + 1")).Error
}

func (r *repository) DecrementCommentLikesFloored(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.PostComment{}).
		Where("id = ? AND like_count > 0", id).
		Update("like_count", gorm.Expr("like_count - 1")).Error
}

func (r *repository) ListCommentsByPost(ctx context.Context, postID uuid.UUID, offset, limit int) ([]models.PostComment, error) {
	var comments []models.PostComment
	query := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *repository) CountCommentsByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PostComment{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
