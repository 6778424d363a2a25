package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
)

var postColumns = []string{"id", "title", "content", "author_id", "image", "image_id", "created_at", "comments"}

// PostRepository handles posts rows. Comments live in a JSONB array column.
type PostRepository struct {
	db DBTX
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

func scanPost(row pgx.Row) (*models.Post, error) {
	var p models.Post
	var comments []byte
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.Image, &p.ImageID, &p.CreatedAt, &comments); err != nil {
		return nil, err
	}
	list, err := decodeComments(comments)
	if err != nil {
		return nil, err
	}
	p.Comments = list
	return &p, nil
}

func decodeComments(raw []byte) ([]models.Comment, error) {
	out := make([]models.Comment, 0)
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("error decoding comments: %w", err)
	}
	return out, nil
}

// Insert stores a new post
func (r *PostRepository) Insert(ctx context.Context, post *models.Post) (*models.Post, error) {
	stored := *post
	stored.ID = uuid.New().String()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	if stored.Comments == nil {
		stored.Comments = []models.Comment{}
	}
	comments, err := json.Marshal(stored.Comments)
	if err != nil {
		return nil, fmt.Errorf("error encoding comments: %w", err)
	}

	sql, args, err := psql.Insert("posts").
		Columns(postColumns...).
		Values(stored.ID, stored.Title, stored.Content, stored.AuthorID, stored.Image, stored.ImageID, stored.CreatedAt, string(comments)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building insert post SQL: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return nil, fmt.Errorf("error inserting post: %w", err)
	}
	return &stored, nil
}

// FindAllSorted lists posts newest first
func (r *PostRepository) FindAllSorted(ctx context.Context) ([]*models.Post, error) {
	sql, args, err := psql.Select(postColumns...).From("posts").OrderBy("created_at DESC", "seq DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building list posts SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning post: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return out, nil
}

// FindByID retrieves a post
func (r *PostRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	sql, args, err := psql.Select(postColumns...).From("posts").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building find post SQL: %w", err)
	}

	p, err := scanPost(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error finding post: %w", err)
	}
	return p, nil
}

// AppendComment appends to the JSONB array in a single UPDATE
func (r *PostRepository) AppendComment(ctx context.Context, postID string, comment models.Comment) ([]models.Comment, error) {
	if err := checkID(postID); err != nil {
		return nil, err
	}
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	encoded, err := json.Marshal(comment)
	if err != nil {
		return nil, fmt.Errorf("error encoding comment: %w", err)
	}

	sql, args, err := psql.Update("posts").
		Set("comments", squirrel.Expr("comments || jsonb_build_array(?::jsonb)", string(encoded))).
		Where(squirrel.Eq{"id": postID}).
		Suffix("RETURNING comments").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building append comment SQL: %w", err)
	}

	var raw []byte
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error appending comment: %w", err)
	}
	return decodeComments(raw)
}

// RemoveComment rebuilds the array without the comment, keeping element order
func (r *PostRepository) RemoveComment(ctx context.Context, postID, commentID string) (bool, error) {
	if err := checkID(postID); err != nil {
		return false, err
	}

	sql, args, err := psql.Update("posts").
		Set("comments", squirrel.Expr(
			"(SELECT COALESCE(jsonb_agg(elem ORDER BY ord), '[]'::jsonb) "+
				"FROM jsonb_array_elements(comments) WITH ORDINALITY AS t(elem, ord) "+
				"WHERE elem->>'id' <> ?)", commentID)).
		Where(squirrel.Eq{"id": postID}).
		Where(squirrel.Expr("comments @> jsonb_build_array(jsonb_build_object('id', ?::text))", commentID)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("error building remove comment SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("error removing comment: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking post: %w", err)
	}
	if !exists {
		return false, apperrors.ErrResourceNotFound
	}
	return false, nil
}

// DeleteByID removes a post, reporting whether it existed
func (r *PostRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	if err := checkID(id); err != nil {
		return false, err
	}
	sql, args, err := psql.Delete("posts").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("error building delete post SQL: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("error deleting post: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
