package models

import "time"

// Post is a blog entry with an embedded, ordered list of comments.
type Post struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	AuthorID  string    `json:"author" db:"author_id"`
	Image     string    `json:"image,omitempty" db:"image"`
	ImageID   string    `json:"-" db:"image_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	Comments  []Comment `json:"comments" db:"comments"`
}

// Comment lives inside a Post document.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// FindComment returns the comment with the given id and its position.
func (p *Post) FindComment(commentID string) (*Comment, int) {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i], i
		}
	}
	return nil, -1
}
