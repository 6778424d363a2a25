package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	appauth "github.com/ecoshare/backend/internal/app/auth"
	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/app/models/dto"
	"github.com/ecoshare/backend/internal/app/repositories"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
	"github.com/ecoshare/backend/internal/pkg/imagehost"
)

const (
	msgPostNotFound    = "Blog post not found"
	msgCommentNotFound = "Comment not found"
)

// BlogService handles posts and comments
type BlogService struct {
	postRepo  repositories.IPostRepository
	imageHost imagehost.Host
	policy    *appauth.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewBlogService creates a new BlogService
func NewBlogService(
	postRepo repositories.IPostRepository,
	imageHost imagehost.Host,
	policy *appauth.Policy,
	logger zerolog.Logger,
) *BlogService {
	return &BlogService{
		postRepo:  postRepo,
		imageHost: imageHost,
		policy:    policy,
		logger:    logger,
		now:       utcNow,
	}
}

// CreatePost stores a post by author. The image may be an uploaded file or,
// when file is nil, the remote URL in the request; either way it is re-hosted.
func (s *BlogService) CreatePost(ctx context.Context, author *models.User, req *dto.CreatePostRequest, file *imagehost.Source) (*dto.PostResponse, error) {
	if author == nil || author.ID == "" {
		return nil, apperrors.NewUnauthenticatedError("Not authorized")
	}
	if blank(req.Title) || blank(req.Content) {
		return nil, apperrors.NewValidationError("Title and content are required")
	}

	post := &models.Post{
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		AuthorID:  author.ID,
		CreatedAt: s.now(),
		Comments:  []models.Comment{},
	}

	src := file
	if src == nil && !blank(req.Image) {
		src = &imagehost.Source{URL: strings.TrimSpace(req.Image)}
	}

	var hosted *imagehost.Image
	if src != nil {
		var err error
		hosted, err = s.imageHost.Upload(ctx, *src, imagehost.FolderBlogs)
		if err != nil {
			s.logger.Warn().Err(err).Str("authorID", author.ID).Msg("Blog image upload failed")
			return nil, imageError(err)
		}
		post.Image = hosted.URL
		post.ImageID = hosted.PublicID
	}

	created, err := s.postRepo.Insert(ctx, post)
	if err != nil {
		s.logger.Error().Err(err).Str("authorID", author.ID).Msg("Failed to insert post")
		if hosted != nil {
			s.releaseImage(ctx, hosted.PublicID)
		}
		return nil, storeError(err, "Failed to create blog post")
	}

	s.logger.Info().Str("postID", created.ID).Str("authorID", author.ID).Msg("Post created")
	resp := dto.NewPostResponse(created)
	return &resp, nil
}

// ListPosts returns posts newest first
func (s *BlogService) ListPosts(ctx context.Context) ([]dto.PostResponse, error) {
	posts, err := s.postRepo.FindAllSorted(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list posts")
		return nil, storeError(err, "Failed to fetch blog posts")
	}
	return dto.NewPostListResponse(posts), nil
}

// GetPost returns a single post with its comments
func (s *BlogService) GetPost(ctx context.Context, id string) (*dto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, msgPostNotFound, "Failed to fetch blog post")
	}
	resp := dto.NewPostResponse(post)
	return &resp, nil
}

// AddComment appends a comment by commenter and returns the full updated list
func (s *BlogService) AddComment(ctx context.Context, postID string, commenter *models.User, text string) ([]dto.CommentResponse, error) {
	if commenter == nil || commenter.ID == "" {
		return nil, apperrors.NewValidationError("Comment author is required")
	}
	if blank(text) {
		return nil, apperrors.NewValidationError("Comment text is required")
	}

	comments, err := s.postRepo.AppendComment(ctx, postID, models.Comment{
		UserID:    commenter.ID,
		Text:      strings.TrimSpace(text),
		Timestamp: s.now(),
	})
	if err != nil {
		return nil, lookupError(err, msgPostNotFound, "Failed to add comment")
	}

	s.logger.Debug().Str("postID", postID).Str("userID", commenter.ID).Msg("Comment added")
	return dto.NewCommentListResponse(comments), nil
}

// RemoveComment deletes a comment. Only its author may remove it.
func (s *BlogService) RemoveComment(ctx context.Context, caller *models.User, postID, commentID string) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return lookupError(err, msgPostNotFound, "Failed to delete comment")
	}

	comment, _ := post.FindComment(commentID)
	if comment == nil {
		return apperrors.NewResourceNotFoundError(msgCommentNotFound)
	}
	if err := s.policy.Authorize(caller, appauth.ActionDeleteComment, comment); err != nil {
		return err
	}

	removed, err := s.postRepo.RemoveComment(ctx, postID, commentID)
	if err != nil {
		return lookupError(err, msgPostNotFound, "Failed to delete comment")
	}
	if !removed {
		return apperrors.NewResourceNotFoundError(msgCommentNotFound)
	}

	s.logger.Debug().Str("postID", postID).Str("commentID", commentID).Msg("Comment removed")
	return nil
}

// DeletePost removes a post, then releases its hosted image. The post stays
// deleted even if the release fails; ImageReleased reports the outcome.
func (s *BlogService) DeletePost(ctx context.Context, caller *models.User, postID string) (*dto.DeletePostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, lookupError(err, msgPostNotFound, "Failed to delete blog post")
	}

	if err := s.policy.Authorize(caller, appauth.ActionDeletePost, post); err != nil {
		return nil, err
	}

	deleted, err := s.postRepo.DeleteByID(ctx, postID)
	if err != nil {
		s.logger.Error().Err(err).Str("postID", postID).Msg("Failed to delete post")
		return nil, storeError(err, "Failed to delete blog post")
	}
	if !deleted {
		return nil, apperrors.NewResourceNotFoundError(msgPostNotFound)
	}

	released := true
	if post.ImageID != "" {
		released = s.releaseImage(ctx, post.ImageID)
	}

	s.logger.Info().Str("postID", postID).Bool("imageReleased", released).Msg("Post deleted")
	return &dto.DeletePostResponse{ID: postID, ImageReleased: released}, nil
}

func (s *BlogService) releaseImage(ctx context.Context, publicID string) bool {
	if err := s.imageHost.Delete(ctx, publicID); err != nil {
		s.logger.Warn().Err(err).Str("imageID", publicID).Msg("Failed to release blog image")
		return false
	}
	return true
}
