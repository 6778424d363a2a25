package memory

import (
	"context"
	"sort"

	"github.com/ecoshare/backend/internal/app/models"
	"github.com/ecoshare/backend/internal/pkg/apperrors"
)

// PostRepository is the in-memory IPostRepository.
type PostRepository struct {
	s *Store
}

// NewPostRepository creates a PostRepository over s.
func NewPostRepository(s *Store) *PostRepository {
	return &PostRepository{s: s}
}

func (r *PostRepository) Insert(_ context.Context, post *models.Post) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := copyPost(post)
	stored.ID = newID()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.s.now()
	}
	r.s.posts[stored.ID] = stored
	r.s.postOrder = append(r.s.postOrder, stored.ID)
	return copyPost(stored), nil
}

func (r *PostRepository) FindAllSorted(_ context.Context) ([]*models.Post, error) {
	r.s.mu.RLock()
	out := make([]*models.Post, 0, len(r.s.postOrder))
	for _, id := range r.s.postOrder {
		out = append(out, copyPost(r.s.posts[id]))
	}
	r.s.mu.RUnlock()

	// newest insert first on equal timestamps
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PostRepository) FindByID(_ context.Context, id string) (*models.Post, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return copyPost(p), nil
}

func (r *PostRepository) AppendComment(_ context.Context, postID string, comment models.Comment) ([]models.Comment, error) {
	if err := checkID(postID); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[postID]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if comment.ID == "" {
		comment.ID = newID()
	}
	p.Comments = append(p.Comments, comment)
	return copyComments(p.Comments), nil
}

func (r *PostRepository) RemoveComment(_ context.Context, postID, commentID string) (bool, error) {
	if err := checkID(postID); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[postID]
	if !ok {
		return false, apperrors.ErrResourceNotFound
	}
	_, idx := p.FindComment(commentID)
	if idx < 0 {
		return false, nil
	}
	p.Comments = append(p.Comments[:idx:idx], p.Comments[idx+1:]...)
	return true, nil
}

func (r *PostRepository) DeleteByID(_ context.Context, id string) (bool, error) {
	if err := checkID(id); err != nil {
		return false, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return false, nil
	}
	delete(r.s.posts, id)
	r.s.postOrder = removeID(r.s.postOrder, id)
	return true, nil
}
