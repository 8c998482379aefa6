package domain

import "time"

// CreationType enumerates the kinds of generated content.
type CreationType string

const (
	CreationTypeArticle      CreationType = "article"
	CreationTypeBlogTitle    CreationType = "blog-title"
	CreationTypeImage        CreationType = "image"
	CreationTypeResumeReview CreationType = "resume-review"
)

// Creation records one generation event. Only Likes changes after insert.
type Creation struct {
	ID        string
	UserID    string
	Prompt    string
	Content   string
	Type      CreationType
	Publish   bool
	Likes     []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LikedBy reports whether userID is in the likes list.
func (c *Creation) LikedBy(userID string) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
