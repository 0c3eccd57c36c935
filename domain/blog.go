package domain

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus controls blog post visibility.
type PostStatus string

const (
	PostDraft     PostStatus = "Draft"
	PostPublished PostStatus = "Published"
)

// BlogPost is an article on the blog page.
type BlogPost struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Slug     string     `json:"slug"`
	Excerpt  string     `json:"excerpt"`
	Content  string     `json:"content"`
	Image    string     `json:"image"`
	Date     string     `json:"date"`
	Author   string     `json:"author"`
	Category string     `json:"category"`
	Status   PostStatus `json:"status"`
}

// EnsureID resolves a placeholder id and stamps the creation date once.
// Date is free text on the wire; only an empty one is filled in.
func (b *BlogPost) EnsureID() {
	if b == nil {
		return
	}
	if isPlaceholder(b.ID) {
		b.ID = uuid.NewString()
	}
	if b.Date == "" {
		b.Date = time.Now().UTC().Format(DateLayout)
	}
}

// IsPublished reports whether the post is visible on the public blog.
func (b *BlogPost) IsPublished() bool {
	return b != nil && b.Status == PostPublished
}
