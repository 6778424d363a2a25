package dto

import (
	"time"

	"github.com/ecoshare/backend/internal/app/models"
)

// CreatePostRequest is the body of a new blog post. Image is an optional
// remote URL; multipart requests may instead send an image file.
type CreatePostRequest struct {
	Title   string `json:"title" form:"title" binding:"required,notblank,max=200" example:"Composting at home"`
	Content string `json:"content" form:"content" binding:"required,notblank" example:"Start with a small bin..."`
	Image   string `json:"image" form:"image" binding:"omitempty,url" example:"https://example.com/compost.jpg"`
}

// AddCommentRequest is the body of a new comment.
type AddCommentRequest struct {
	Text string `json:"text" binding:"required,notblank,max=2000" example:"Great tips!"`
}

// CommentResponse is a single comment on a post
type CommentResponse struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// PostResponse is the public representation of a blog post
type PostResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Author    string            `json:"author"`
	Image     string            `json:"image,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	Comments  []CommentResponse `json:"comments"`
}

// CommentsResponse wraps the full comment sequence of a post
type CommentsResponse struct {
	Comments []CommentResponse `json:"comments"`
}

// DeletePostResponse reports the outcome of both deletion steps.
type DeletePostResponse struct {
	ID            string `json:"id"`
	ImageReleased bool   `json:"imageReleased"`
}

// NewCommentListResponse converts embedded comments, never returning nil.
func NewCommentListResponse(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentResponse{
			ID:        c.ID,
			User:      c.UserID,
			Text:      c.Text,
			Timestamp: c.Timestamp,
		})
	}
	return out
}

// NewPostResponse converts a post model.
func NewPostResponse(p *models.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.AuthorID,
		Image:     p.Image,
		CreatedAt: p.CreatedAt,
		Comments:  NewCommentListResponse(p.Comments),
	}
}

// NewPostListResponse converts a list of posts.
func NewPostListResponse(posts []*models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, NewPostResponse(p))
	}
	return out
}
