package models

import "time"

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
	StatusArchived  ArticleStatus = "archived"
)

func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

func (s ArticleStatus) String() string { return string(s) }

// ParseArticleStatus rejects anything outside draft/published/archived.
// Values are matched exactly: no trimming or case folding.
func ParseArticleStatus(raw string) (ArticleStatus, error) {
	status := ArticleStatus(raw)
	if !status.Valid() {
		return "", &ValidationError{Messages: []string{"Status is not included in the list"}}
	}
	return status, nil
}

// TransitionStatus returns the published_at value that results from moving
// to requested. Re-publishing keeps the original timestamp.
func TransitionStatus(publishedAt *time.Time, requested ArticleStatus, now time.Time) *time.Time {
	if requested != StatusPublished {
		return nil
	}
	if publishedAt != nil {
		return publishedAt
	}
	ts := now
	return &ts
}

// ApplyStatus moves the article to requested and maintains PublishedAt.
// It reports false and leaves the article untouched when the status is unchanged.
func (a *Article) ApplyStatus(requested ArticleStatus, now time.Time) bool {
	if a.Status == requested {
		return false
	}
	a.PublishedAt = TransitionStatus(a.PublishedAt, requested, now)
	a.Status = requested
	return true
}

// NextToggleStatus flips between published and draft. Archived articles publish.
func NextToggleStatus(current ArticleStatus) ArticleStatus {
	if current == StatusPublished {
		return StatusDraft
	}
	return StatusPublished
}

// NextArchiveStatus flips between archived and draft.
func NextArchiveStatus(current ArticleStatus) ArticleStatus {
	if current == StatusArchived {
		return StatusDraft
	}
	return StatusArchived
}
