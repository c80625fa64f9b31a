package models

import (
	"strings"
	"time"

	"github.com/JerryLinyx/pilotts/internal/articletext"
)

// Article is a blog post owned by a single user. Rows are hard-deleted, so
// there is no gorm.DeletedAt column.
type Article struct {
	ID          uint          `gorm:"primarykey" json:"id"`
	UserID      uint          `gorm:"not null;index" json:"user_id"`
	Title       string        `gorm:"type:varchar(255)" json:"title"`
	HTMLBody    string        `gorm:"column:html_body;type:text" json:"html_body"`
	Status      ArticleStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	PublishedAt *time.Time    `gorm:"index" json:"published_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (a *Article) IsDraft() bool     { return a.Status == StatusDraft }
func (a *Article) IsPublished() bool { return a.Status == StatusPublished }
func (a *Article) IsArchived() bool  { return a.Status == StatusArchived }

// Validate checks the fields required by every validated write.
func (a *Article) Validate() error {
	var invalid ValidationError
	if strings.TrimSpace(a.Title) == "" {
		invalid.Add("Title can't be blank")
	}
	if strings.TrimSpace(a.HTMLBody) == "" {
		invalid.Add("Html body can't be blank")
	}
	if !a.Status.Valid() {
		invalid.Add("Status is not included in the list")
	}
	return invalid.OrNil()
}

// Excerpt is computed from the body on every call and never stored.
func (a *Article) Excerpt(sentences int) string {
	return articletext.Excerpt(a.HTMLBody, sentences)
}

func (a *Article) ReadingTime() string {
	return articletext.ReadingTime(a.HTMLBody)
}

// DisplayYear is the year an article is listed under on the public index.
func (a *Article) DisplayYear() int {
	if a.PublishedAt != nil {
		return a.PublishedAt.Year()
	}
	return a.CreatedAt.Year()
}
