package posts

import (
	"github.com/google/uuid"

	"github.com/jiahaoliu/minimall-backend/pkg/db/models"
	"github.com/jiahaoliu/minimall-backend/pkg/pagination"
)

// CreatePostInput is the payload for publishing a new post.
type CreatePostInput struct {
	UserID   uuid.UUID `json:"-"`
	Content  *string   `json:"content,omitempty" validate:"omitempty,max=5000"`
	Images   []string  `json:"images,omitempty" validate:"max=9,dive,url"`
	Tags     []string  `json:"tags,omitempty" validate:"max=10,dive,min=1,max=30"`
	Location *string   `json:"location,omitempty" validate:"omitempty,max=100"`
	Draft    bool      `json:"draft"`
}

// CreateCommentInput is the payload for commenting on a post.
type CreateCommentInput struct {
	PostID          uuid.UUID  `json:"-"`
	UserID          uuid.UUID  `json:"-"`
	Content         string     `json:"content" validate:"required,min=1,max=1000"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id,omitempty"`
}

// PostsPageDTO is a page of feed or profile posts.
type PostsPageDTO struct {
	Items      []models.Post   `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}

// CommentsPageDTO is a page of comments under a post.
type CommentsPageDTO struct {
	Items      []models.PostComment `json:"items"`
	Pagination pagination.Meta      `json:"pagination"`
}
