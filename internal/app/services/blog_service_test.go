package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/app/models/dto"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
)

func TestBlogService_CreatePostValidation(t *testing.T) {
	f := newFixture(t)
	author := newUser(models.RoleUser)

	_, err := f.svc.BlogService.CreatePost(context.Background(), author, &dto.CreatePostRequest{Title: " ", Content: "body"}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.BlogService.CreatePost(context.Background(), author, &dto.CreatePostRequest{Title: "title", Content: ""}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestBlogService_CreatePostRehostsImageURL(t *testing.T) {
	f := newFixture(t)
	author := newUser(models.RoleUser)

	post, err := f.svc.BlogService.CreatePost(context.Background(), author,
		&dto.CreatePostRequest{Title: "Compost", Content: "How to", Image: "https://example.com/a.png"}, nil)
	require.NoError(t, err)

	assert.Equal(t, author.ID, post.Author)
	assert.Contains(t, post.Image, "https://img.test/blogs/")
	require.Len(t, f.host.uploads, 1)
	assert.Equal(t, "https://example.com/a.png", f.host.uploads[0].URL)
	assert.NotNil(t, post.Comments)
}

func TestBlogService_ListPostsNewestFirst(t *testing.T) {
	f := newFixture(t)
	author := newUser(models.RoleUser)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, title := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Minute)
		f.svc.BlogService.now = func() time.Time { return at }
		_, err := f.svc.BlogService.CreatePost(context.Background(), author, &dto.CreatePostRequest{Title: title, Content: "c"}, nil)
		require.NoError(t, err)
	}

	posts, err := f.svc.BlogService.ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []string{"third", "second", "first"}, []string{posts[0].Title, posts[1].Title, posts[2].Title})
}

func TestBlogService_GetPost(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.BlogService.GetPost(context.Background(), "bogus")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.svc.BlogService.GetPost(context.Background(), "3d2c1b0a-9f8e-4d7c-8b6a-504132231405")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestBlogService_Comments(t *testing.T) {
	f := newFixture(t)
	author, alice, bob := newUser(models.RoleUser), newUser(models.RoleUser), newUser(models.RoleUser)
	admin := newUser(models.RoleAdmin)

	post, err := f.svc.BlogService.CreatePost(context.Background(), author, &dto.CreatePostRequest{Title: "t", Content: "c"}, nil)
	require.NoError(t, err)

	_, err = f.svc.BlogService.AddComment(context.Background(), post.ID, alice, "  ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = f.svc.BlogService.AddComment(context.Background(), post.ID, &models.User{}, "hello")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	_, err = f.svc.BlogService.AddComment(context.Background(), "3d2c1b0a-9f8e-4d7c-8b6a-504132231405", alice, "hello")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)

	var comments []dto.CommentResponse
	for i, who := range []*models.User{alice, bob, alice} {
		comments, err = f.svc.BlogService.AddComment(context.Background(), post.ID, who, []string{"one", "two", "three"}[i])
		require.NoError(t, err)
	}
	require.Len(t, comments, 3)
	assert.Equal(t, bob.ID, comments[1].User)

	middle := comments[1].ID
	for _, intruder := range []*models.User{alice, author, admin} {
		err = f.svc.BlogService.RemoveComment(context.Background(), intruder, post.ID, middle)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	}

	require.NoError(t, f.svc.BlogService.RemoveComment(context.Background(), bob, post.ID, middle))

	got, err := f.svc.BlogService.GetPost(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "one", got.Comments[0].Text)
	assert.Equal(t, "three", got.Comments[1].Text)

	err = f.svc.BlogService.RemoveComment(context.Background(), bob, post.ID, middle)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestBlogService_DeletePost(t *testing.T) {
	f := newFixture(t)
	author, other, admin := newUser(models.RoleUser), newUser(models.RoleUser), newUser(models.RoleAdmin)

	mine, err := f.svc.BlogService.CreatePost(context.Background(), author, &dto.CreatePostRequest{Title: "a", Content: "c"}, nil)
	require.NoError(t, err)
	theirs, err := f.svc.BlogService.CreatePost(context.Background(), author, &dto.CreatePostRequest{Title: "b", Content: "c"}, nil)
	require.NoError(t, err)

	_, err = f.svc.BlogService.DeletePost(context.Background(), other, mine.ID)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	res, err := f.svc.BlogService.DeletePost(context.Background(), author, mine.ID)
	require.NoError(t, err)
	assert.True(t, res.ImageReleased)

	res, err = f.svc.BlogService.DeletePost(context.Background(), admin, theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, theirs.ID, res.ID)

	for _, id := range []string{mine.ID, theirs.ID} {
		_, err = f.svc.BlogService.GetPost(context.Background(), id)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	}
}

func TestBlogService_DeletePostImageReleaseFailure(t *testing.T) {
	f := newFixture(t)
	author := newUser(models.RoleUser)

	post, err := f.svc.BlogService.CreatePost(context.Background(), author,
		&dto.CreatePostRequest{Title: "a", Content: "c", Image: "https://example.com/a.png"}, nil)
	require.NoError(t, err)

	f.host.deleteErr = errors.New("host unavailable")
	res, err := f.svc.BlogService.DeletePost(context.Background(), author, post.ID)
	require.NoError(t, err)
	assert.False(t, res.ImageReleased)
	assert.Len(t, f.host.deletes, 1)

	_, err = f.svc.BlogService.GetPost(context.Background(), post.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
