package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/ecoshare/backend/internal/app/models/dto"
	"github.com/ecoshare/backend/internal/app/services"
	"github.com/ecoshare/backend/internal/middleware"
)

// BlogController handles blog post and comment endpoints
type BlogController struct {
	blogService *services.BlogService
	logger      zerolog.Logger
}

// NewBlogController creates a new BlogController
func NewBlogController(blogService *services.BlogService, logger zerolog.Logger) *BlogController {
	return &BlogController{
		blogService: blogService,
		logger:      logger,
	}
}

// CreatePost creates a blog post
// @Summary Create a blog post
// @Description JSON with an optional image URL, or multipart/form-data with an optional image file
// @Tags blogs
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePostRequest true "Post"
// @Success 201 {object} dto.APIResponse{data=dto.PostResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Failure 502 {object} dto.ErrorResponse "Image host or store failure"
// @Router /blogs [post]
func (c *BlogController) CreatePost(ctx *gin.Context) {
	author, err := middleware.CurrentUser(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreatePostRequest
	image, release, err := bindWithImage(ctx, &req, "image")
	if err != nil {
		c.logger.Debug().Err(err).Msg("Invalid post payload")
		middleware.HandleBindingError(ctx, err)
		return
	}
	defer release()

	resp, err := c.blogService.CreatePost(ctx.Request.Context(), author, &req, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Blog post created successfully"))
}

// ListPosts lists posts newest first
// @Summary List blog posts
// @Tags blogs
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.PostResponse}
// @Router /blogs [get]
func (c *BlogController) ListPosts(ctx *gin.Context) {
	posts, err := c.blogService.ListPosts(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(posts, ""))
}

// GetPost returns a single post
// @Summary Get a blog post
// @Tags blogs
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.PostResponse}
// @Failure 400 {object} dto.ErrorResponse "Malformed id"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /blogs/{id} [get]
func (c *BlogController) GetPost(ctx *gin.Context) {
	post, err := c.blogService.GetPost(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(post, ""))
}

// AddComment comments on a post as the caller
// @Summary Comment on a blog post
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body dto.AddCommentRequest true "Comment"
// @Success 201 {object} dto.APIResponse{data=dto.CommentsResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 404 {object} dto.ErrorResponse "Post not found"
// @Router /blogs/{id}/comments [post]
func (c *BlogController) AddComment(ctx *gin.Context) {
	commenter, err := middleware.CurrentUser(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.AddCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	comments, err := c.blogService.AddComment(ctx.Request.Context(), ctx.Param("id"), commenter, req.Text)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.CommentsResponse{Comments: comments}, "Comment added"))
}

// RemoveComment deletes one of the caller's comments
// @Summary Delete a comment
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param commentId path string true "Comment ID"
// @Success 200 {object} dto.APIResponse
// @Failure 403 {object} dto.ErrorResponse "Not the comment author"
// @Failure 404 {object} dto.ErrorResponse "Post or comment not found"
// @Router /blogs/{id}/comments/{commentId} [delete]
func (c *BlogController) RemoveComment(ctx *gin.Context) {
	caller, err := middleware.CurrentUser(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.blogService.RemoveComment(ctx.Request.Context(), caller, ctx.Param("id"), ctx.Param("commentId")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Comment deleted"))
}

// DeletePost deletes a post as its author or an admin
// @Summary Delete a blog post
// @Description The post is removed first; imageReleased reports whether its hosted image was released too
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeletePostResponse}
// @Failure 403 {object} dto.ErrorResponse "Neither author nor admin"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /blogs/{id} [delete]
func (c *BlogController) DeletePost(ctx *gin.Context) {
	caller, err := middleware.CurrentUser(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.blogService.DeletePost(ctx.Request.Context(), caller, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Blog post deleted"))
}
