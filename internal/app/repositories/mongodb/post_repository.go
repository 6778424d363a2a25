package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
)

// PostRepository stores blog posts with their comments embedded.
type PostRepository struct {
	coll *mongo.Collection
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{coll: db.Collection(PostsCollection)}
}

// Insert stores a new post
func (r *PostRepository) Insert(ctx context.Context, post *models.Post) (*models.Post, error) {
	author, err := parseRef(post.AuthorID)
	if err != nil {
		return nil, err
	}
	doc := postDocument{
		ID:        primitive.NewObjectID(),
		Title:     post.Title,
		Content:   post.Content,
		Author:    author,
		Image:     post.Image,
		ImageID:   post.ImageID,
		CreatedAt: post.CreatedAt,
		Comments:  []commentDocument{},
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	for _, c := range post.Comments {
		cd, err := newCommentDocument(c)
		if err != nil {
			return nil, err
		}
		doc.Comments = append(doc.Comments, cd)
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("error inserting post: %w", err)
	}
	return doc.toModel(), nil
}

// FindAllSorted lists posts newest first
func (r *PostRepository) FindAllSorted(ctx context.Context) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []postDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding posts: %w", err)
	}
	out := make([]*models.Post, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toModel())
	}
	return out, nil
}

// FindByID retrieves a post
func (r *PostRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var doc postDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error finding post: %w", err)
	}
	return doc.toModel(), nil
}

// AppendComment pushes a comment and returns the updated sequence
func (r *PostRepository) AppendComment(ctx context.Context, postID string, comment models.Comment) ([]models.Comment, error) {
	oid, err := parseID(postID)
	if err != nil {
		return nil, err
	}
	cd, err := newCommentDocument(comment)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"comments": 1})

	var doc postDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$push": bson.M{"comments": cd}}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error appending comment: %w", err)
	}
	return commentsToModel(doc.Comments), nil
}

// RemoveComment pulls a comment. It reports false when the post has no such comment.
func (r *PostRepository) RemoveComment(ctx context.Context, postID, commentID string) (bool, error) {
	oid, err := parseID(postID)
	if err != nil {
		return false, err
	}

	cid, err := primitive.ObjectIDFromHex(commentID)
	if err == nil {
		res, err := r.coll.UpdateOne(ctx,
			bson.M{"_id": oid, "comments._id": cid},
			bson.M{"$pull": bson.M{"comments": bson.M{"_id": cid}}},
		)
		if err != nil {
			return false, fmt.Errorf("error removing comment: %w", err)
		}
		if res.ModifiedCount > 0 {
			return true, nil
		}
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking post: %w", err)
	}
	if n == 0 {
		return false, apperrors.ErrResourceNotFound
	}
	return false, nil
}

// DeleteByID removes a post, reporting whether it existed
func (r *PostRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("error deleting post: %w", err)
	}
	return res.DeletedCount > 0, nil
}
