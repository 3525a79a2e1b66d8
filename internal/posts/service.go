package posts

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/jiahaoliu/minimall-backend/internal/social"
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

// Service defines post and interaction operations.
type Service interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*models.Post, error)
	GetPost(ctx context.Context, postID uuid.UUID) (*models.Post, error)
	DeletePost(ctx context.Context, postID, userID uuid.UUID) error
	ListFeed(ctx context.Context, params pagination.Params) (*PostsPageDTO, error)
	ListUserPosts(ctx context.Context, userID uuid.UUID, params pagination.Params) (*PostsPageDTO, error)

	LikePost(ctx context.Context, postID, userID uuid.UUID) error
	UnlikePost(ctx context.Context, postID, userID uuid.UUID) error
	CollectPost(ctx context.Context, postID, userID uuid.UUID) error
	UncollectPost(ctx context.Context, postID, userID uuid.UUID) error

	CreateComment(ctx context.Context, input CreateCommentInput) (*models.PostComment, error)
	ListComments(ctx context.Context, postID uuid.UUID, params pagination.Params) (*CommentsPageDTO, error)
	LikeComment(ctx context.Context, commentID uuid.UUID) error
	UnlikeComment(ctx context.Context, commentID uuid.UUID) error
}

// ServiceParams groups dependencies for the posts service.
type ServiceParams struct {
	Repo      Repository
	StatsRepo social.StatsRepository
	DB        txRunner
	Logger    *logger.Logger
}

type service struct {
	repo      Repository
	statsRepo social.StatsRepository
	db        txRunner
	logg      *logger.Logger
}

// NewService builds a posts service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "posts repo is required")
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

// CreatePost stores a new post. Only published posts count toward the
// author's post counter; drafts join it when they go live.
func (s *service) CreatePost(ctx context.Context, input CreatePostInput) (*models.Post, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	hasContent := input.Content != nil && *input.Content != ""
	if !hasContent && len(input.Images) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post needs content or images")
	}

	status := enums.PostStatusPublished
	if input.Draft {
		status = enums.PostStatusDraft
	}
	post := &models.Post{
		UserID:   input.UserID,
		Content:  input.Content,
		Images:   pq.StringArray(input.Images),
		Tags:     pq.StringArray(input.Tags),
		Location: input.Location,
		Status:   status,
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreatePost(ctx, post); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create post")
		}
		if status == enums.PostStatusPublished {
			if err := s.statsRepo.WithTx(tx).Increment(ctx, input.UserID, social.StatPosts); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump post count")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost returns a post and records the view. Deleted posts are hidden.
func (s *service) GetPost(ctx context.Context, postID uuid.UUID) (*models.Post, error) {
	post, err := s.loadVisiblePost(ctx, s.repo, postID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.IncrementPostCounter(ctx, postID, counterViews); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump view count")
	}
	post.ViewCount++
	return post, nil
}

// DeletePost soft-deletes the author's own post and lowers their post counter.
func (s *service) DeletePost(ctx context.Context, postID, userID uuid.UUID) error {
	if postID == uuid.Nil || userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "post id and user id are required")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		post, err := s.loadVisiblePost(ctx, repo, postID)
		if err != nil {
			return err
		}
		if post.UserID != userID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the author can delete a post")
		}

		wasPublished := post.Status == enums.PostStatusPublished
		if err := repo.UpdatePostStatus(ctx, postID, enums.PostStatusDeleted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete post")
		}
		if wasPublished {
			if err := s.statsRepo.WithTx(tx).DecrementFloored(ctx, userID, social.StatPosts); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lower post count")
			}
		}
		return nil
	})
}

// ListFeed returns published posts, newest first.
func (s *service) ListFeed(ctx context.Context, params pagination.Params) (*PostsPageDTO, error) {
	normalized := params.Normalize()
	items, err := s.repo.ListPublishedPosts(ctx, normalized.Offset(), normalized.PageSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list posts")
	}
	total, err := s.repo.CountPublishedPosts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count posts")
	}
	return &PostsPageDTO{Items: items, Pagination: pagination.NewMeta(normalized, total)}, nil
}

// ListUserPosts returns a user's published posts, newest first.
func (s *service) ListUserPosts(ctx context.Context, userID uuid.UUID, params pagination.Params) (*PostsPageDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	normalized := params.Normalize()
	items, err := s.repo.ListPublishedPostsByUser(ctx, userID, normalized.Offset(), normalized.PageSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list posts")
	}
	total, err := s.repo.CountPublishedPostsByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count posts")
	}
	return &PostsPageDTO{Items: items, Pagination: pagination.NewMeta(normalized, total)}, nil
}

// LikePost records a like: one relation row, the post's counter, and the
// author's received-likes counter move together.
func (s *service) LikePost(ctx context.Context, postID, userID uuid.UUID) error {
	if postID == uuid.Nil || userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "post id and user id are required")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		post, err := s.loadVisiblePost(ctx, repo, postID)
		if err != nil {
			return err
		}

		exists, err := repo.LikeExists(ctx, postID, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check like")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "already liked")
		}

		if err := repo.CreateLike(ctx, &models.PostLike{PostID: postID, UserID: userID}); err != nil {
			if db.IsUniqueViolation(err, "idx_post_likes_pair") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "already liked")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create like")
		}
		if err := repo.IncrementPostCounter(ctx, postID, counterLikes); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump like count")
		}
		if err := s.statsRepo.WithTx(tx).Increment(ctx, post.UserID, social.StatLikes); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump author like count")
		}
		return nil
	})
}

// UnlikePost removes a like. Unliking something never liked is an input error.
func (s *service) UnlikePost(ctx context.Context, postID, userID uuid.UUID) error {
	if postID == uuid.Nil || userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "post id and user id are required")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		post, err := s.loadVisiblePost(ctx, repo, postID)
		if err != nil {
			return err
		}

		deleted, err := repo.DeleteLike(ctx, postID, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete like")
		}
		if !deleted {
			return pkgerrors.New(pkgerrors.CodeValidation, "not liked")
		}

		if err := repo.DecrementPostCounterFloored(ctx, postID, counterLikes); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lower like count")
		}
		if err := s.statsRepo.WithTx(tx).DecrementFloored(ctx, post.UserID, social.StatLikes); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lower author like count")
		}
		return nil
	})
}

// CollectPost bookmarks a post.
func (s *service) CollectPost(ctx context.Context, postID, userID uuid.UUID) error {
	if postID == uuid.Nil || userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "post id and user id are required")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := s.loadVisiblePost(ctx, repo, postID); err != nil {
			return err
		}

		exists, err := repo.CollectExists(ctx, postID, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check collect")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "already collected")
		}

		if err := repo.CreateCollect(ctx, &models.PostCollect{PostID: postID, UserID: userID}); err != nil {
			if db.IsUniqueViolation(err, "idx_post_collects_pair") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "already collected")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create collect")
		}
		if err := repo.IncrementPostCounter(ctx, postID, counterCollects); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump collect count")
		}
		return nil
	})
}

// UncollectPost removes a bookmark. Removing an absent one is an input error.
func (s *service) UncollectPost(ctx context.Context, postID, userID uuid.UUID) error {
	if postID == uuid.Nil || userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "post id and user id are required")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := s.loadVisiblePost(ctx, repo, postID); err != nil {
			return err
		}

		deleted, err := repo.DeleteCollect(ctx, postID, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete collect")
		}
		if !deleted {
			return pkgerrors.New(pkgerrors.CodeValidation, "not collected")
		}
		if err := repo.DecrementPostCounterFloored(ctx, postID, counterCollects); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lower collect count")
		}
		return nil
	})
}

// CreateComment adds a comment (or a reply) and bumps the post's counter.
func (s *service) CreateComment(ctx context.Context, input CreateCommentInput) (*models.PostComment, error) {
	if input.PostID == uuid.Nil || input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post id and user id are required")
	}
	if input.Content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment content is required")
	}

	comment := &models.PostComment{
		PostID:          input.PostID,
		UserID:          input.UserID,
		Content:         input.Content,
		ParentCommentID: input.ParentCommentID,
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := s.loadVisiblePost(ctx, repo, input.PostID); err != nil {
			return err
		}

		if input.ParentCommentID != nil {
			parent, err := repo.FindCommentByID(ctx, *input.ParentCommentID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "parent comment not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load parent comment")
			}
			if parent.PostID != input.PostID {
				return pkgerrors.New(pkgerrors.CodeValidation, "parent comment belongs to another post")
			}
		}

		if err := repo.CreateComment(ctx, comment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create comment")
		}
		if err := repo.IncrementPostCounter(ctx, input.PostID, counterComments); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump comment count")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// ListComments returns a post's comments, oldest first.
func (s *service) ListComments(ctx context.Context, postID uuid.UUID, params pagination.Params) (*CommentsPageDTO, error) {
	if postID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post id is required")
	}
	normalized := params.Normalize()
	items, err := s.repo.ListCommentsByPost(ctx, postID, normalized.Offset(), normalized.PageSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list comments")
	}
	total, err := s.repo.CountCommentsByPost(ctx, postID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count comments")
	}
	return &CommentsPageDTO{Items: items, Pagination: pagination.NewMeta(normalized, total)}, nil
}

// LikeComment bumps the comment's like counter. Comment likes carry no
// relation rows, so the same user can like a comment repeatedly; the mobile
// clients have always relied on this behavior.
func (s *service) LikeComment(ctx context.Context, commentID uuid.UUID) error {
	if commentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "comment id is required")
	}
	if _, err := s.repo.FindCommentByID(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "comment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load comment")
	}
	if err := s.repo.IncrementCommentLikes(ctx, commentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bump comment likes")
	}
	return nil
}

// UnlikeComment lowers the comment's like counter, never below zero.
func (s *service) UnlikeComment(ctx context.Context, commentID uuid.UUID) error {
	if commentID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "comment id is required")
	}
	if _, err := s.repo.FindCommentByID(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "comment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load comment")
	}
	if err := s.repo.DecrementCommentLikesFloored(ctx, commentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lower comment likes")
	}
	return nil
}

func (s *service) loadVisiblePost(ctx context.Context, repo Repository, postID uuid.UUID) (*models.Post, error) {
	post, err := repo.FindPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load post")
	}
	if post.Status == enums.PostStatusDeleted {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
	}
	return post, nil
}
