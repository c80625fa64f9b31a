package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/JerryLinyx/pilotts/models"
	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

const (
	PublicPageSize     = 10
	SearchLimit        = 20
	MaxAdminListLimit  = 100
	UntitledTitle      = "Untitled"
	PlaceholderBody    = "<p><br></p>"
	lastSavedLayout    = "03:04 PM"
	publishedOrderExpr = "published_at DESC, created_at DESC"
)

// ArticleInput is a partial edit. Nil fields are left untouched.
type ArticleInput struct {
	Title    *string `json:"title"`
	HTMLBody *string `json:"html_body"`
	Status   *string `json:"status"`
}

// ListQuery drives the admin dashboard listing.
type ListQuery struct {
	Filter string
	Search string
	Page   int
	Limit  int
}

type ArticleStats struct {
	Published int64 `json:"published"`
	Drafts    int64 `json:"drafts"`
	Archived  int64 `json:"archived"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type ListResult struct {
	Articles   []models.Article
	Stats      ArticleStats
	Filter     string
	Pagination Pagination
}

type AutosaveResult struct {
	Persisted bool
	LastSaved string
}

// YearGroup holds the published articles listed under one year.
type YearGroup struct {
	Year     int
	Articles []models.Article
}

type PublishedPage struct {
	Years      []YearGroup
	Page       int
	PerPage    int
	Total      int64
	TotalPages int
}

// ArticleService owns article persistence and the status rules applied on
// every write. Each operation is a single-row read-modify-write.
type ArticleService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewArticleService(db *gorm.DB) *ArticleService {
	return &ArticleService{db: db, now: time.Now}
}

// WithClock replaces the time source used for published_at and last_saved.
func (s *ArticleService) WithClock(now func() time.Time) *ArticleService {
	s.now = now
	return s
}

func (s *ArticleService) find(ctx context.Context, userID, id uint) (*models.Article, error) {
	var article models.Article
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load article %d: %w", id, err)
	}
	return &article, nil
}

// apply merges in onto article, running the status rule and full validation.
func (s *ArticleService) apply(article *models.Article, in ArticleInput) error {
	var invalid models.ValidationError
	if in.Title != nil {
		article.Title = *in.Title
	}
	if in.HTMLBody != nil {
		article.HTMLBody = *in.HTMLBody
	}
	if in.Status != nil {
		status, err := models.ParseArticleStatus(*in.Status)
		if err != nil {
			invalid.Merge(err)
		} else {
			article.ApplyStatus(status, s.now())
		}
	}
	if err := article.Validate(); err != nil {
		invalid.Merge(err)
	}
	return invalid.OrNil()
}

func (s *ArticleService) save(ctx context.Context, article *models.Article) error {
	if err := s.db.WithContext(ctx).Save(article).Error; err != nil {
		return fmt.Errorf("save article %d: %w", article.ID, err)
	}
	return nil
}

// NewDraft creates a placeholder draft for the editor to open.
func (s *ArticleService) NewDraft(ctx context.Context, userID uint) (*models.Article, error) {
	title, body := UntitledTitle, PlaceholderBody
	return s.Create(ctx, userID, ArticleInput{Title: &title, HTMLBody: &body})
}

// Create inserts a validated article. A missing status means draft.
func (s *ArticleService) Create(ctx context.Context, userID uint, in ArticleInput) (*models.Article, error) {
	article := &models.Article{UserID: userID, Status: models.StatusDraft}
	if err := s.apply(article, in); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(article).Error; err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return article, nil
}

func (s *ArticleService) Get(ctx context.Context, userID, id uint) (*models.Article, error) {
	return s.find(ctx, userID, id)
}

// Update applies a validated partial edit. Nothing is written on failure.
func (s *ArticleService) Update(ctx context.Context, userID, id uint, in ArticleInput) (*models.Article, error) {
	article, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(article, in); err != nil {
		return nil, err
	}
	if err := s.save(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Autosave merges in without validation and persists only when the merged
// article is a draft. Edits that leave the article in any other status,
// including an unrecognised one, are dropped.
func (s *ArticleService) Autosave(ctx context.Context, userID, id uint, in ArticleInput) (AutosaveResult, error) {
	article, err := s.find(ctx, userID, id)
	if err != nil {
		return AutosaveResult{}, err
	}

	now := s.now()
	result := AutosaveResult{LastSaved: now.Format(lastSavedLayout)}

	if in.Title != nil {
		article.Title = *in.Title
	}
	if in.HTMLBody != nil {
		article.HTMLBody = *in.HTMLBody
	}
	if in.Status != nil {
		status, err := models.ParseArticleStatus(*in.Status)
		if err != nil {
			return result, nil
		}
		article.ApplyStatus(status, now)
	}

	if !article.IsDraft() {
		return result, nil
	}
	if err := s.save(ctx, article); err != nil {
		return AutosaveResult{}, err
	}
	result.Persisted = true
	return result, nil
}

// ToggleStatus flips between published and draft.
func (s *ArticleService) ToggleStatus(ctx context.Context, userID, id uint) (*models.Article, error) {
	return s.transition(ctx, userID, id, models.NextToggleStatus)
}

// ToggleArchive flips between archived and draft.
func (s *ArticleService) ToggleArchive(ctx context.Context, userID, id uint) (*models.Article, error) {
	return s.transition(ctx, userID, id, models.NextArchiveStatus)
}

func (s *ArticleService) transition(ctx context.Context, userID, id uint, next func(models.ArticleStatus) models.ArticleStatus) (*models.Article, error) {
	article, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	status := string(next(article.Status))
	if err := s.apply(article, ArticleInput{Status: &status}); err != nil {
		return nil, err
	}
	if err := s.save(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Destroy hard-deletes the article.
func (s *ArticleService) Destroy(ctx context.Context, userID, id uint) error {
	article, err := s.find(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.Article{}, article.ID).Error; err != nil {
		return fmt.Errorf("delete article %d: %w", id, err)
	}
	return nil
}

func normalizeFilter(filter string) (string, *models.ArticleStatus) {
	var status models.ArticleStatus
	switch filter {
	case "published":
		status = models.StatusPublished
	case "drafts":
		status = models.StatusDraft
	case "archived":
		status = models.StatusArchived
	default:
		return "all", nil
	}
	return filter, &status
}

func titleLike(db *gorm.DB, q string) *gorm.DB {
	return db.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q)+"%")
}

// clampPage keeps page at least 1 and small enough that the row offset
// fits in a 32-bit integer on every supported database.
func clampPage(page, limit int) int {
	if page < 1 {
		return 1
	}
	if maxPage := math.MaxInt32/limit + 1; page > maxPage {
		return maxPage
	}
	return page
}

// List returns one page of the owner's articles plus dashboard counters.
func (s *ArticleService) List(ctx context.Context, userID uint, q ListQuery) (ListResult, error) {
	filter, status := normalizeFilter(q.Filter)

	limit := q.Limit
	if limit < 1 || limit > MaxAdminListLimit {
		limit = MaxAdminListLimit
	}
	page := clampPage(q.Page, limit)

	tx := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != nil {
		tx = tx.Where("status = ?", *status)
	}
	if strings.TrimSpace(q.Search) != "" {
		tx = titleLike(tx, strings.TrimSpace(q.Search))
	}

	var list []models.Article
	if err := tx.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error; err != nil {
		return ListResult{}, fmt.Errorf("list articles: %w", err)
	}

	stats, err := s.Stats(ctx, userID)
	if err != nil {
		return ListResult{}, err
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Article{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return ListResult{}, fmt.Errorf("count articles: %w", err)
	}

	return ListResult{
		Articles:   list,
		Stats:      stats,
		Filter:     filter,
		Pagination: Pagination{Page: page, Limit: limit, Total: total},
	}, nil
}

// Stats counts the owner's articles per status in one grouped query.
func (s *ArticleService) Stats(ctx context.Context, userID uint) (ArticleStats, error) {
	query, args, err := sq.Select("status", "COUNT(*) AS total").
		From("articles").
		Where(sq.Eq{"user_id": userID}).
		GroupBy("status").
		ToSql()
	if err != nil {
		return ArticleStats{}, fmt.Errorf("build stats query: %w", err)
	}

	var rows []struct {
		Status string
		Total  int64
	}
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return ArticleStats{}, fmt.Errorf("count articles by status: %w", err)
	}

	var stats ArticleStats
	for _, row := range rows {
		switch models.ArticleStatus(row.Status) {
		case models.StatusPublished:
			stats.Published = row.Total
		case models.StatusDraft:
			stats.Drafts = row.Total
		case models.StatusArchived:
			stats.Archived = row.Total
		}
	}
	return stats, nil
}

// Search matches the owner's article titles case-insensitively.
func (s *ArticleService) Search(ctx context.Context, userID uint, q string) ([]models.Article, error) {
	var found []models.Article
	tx := titleLike(s.db.WithContext(ctx).Where("user_id = ?", userID), q)
	if err := tx.Order("created_at DESC").Limit(SearchLimit).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("search articles: %w", err)
	}
	return found, nil
}

func (s *ArticleService) published(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Where("status = ?", models.StatusPublished)
}

// ListPublished returns one public page grouped by year, newest first.
func (s *ArticleService) ListPublished(ctx context.Context, page int) (PublishedPage, error) {
	page = clampPage(page, PublicPageSize)

	var total int64
	if err := s.published(ctx).Model(&models.Article{}).Count(&total).Error; err != nil {
		return PublishedPage{}, fmt.Errorf("count published articles: %w", err)
	}

	result := PublishedPage{
		Years:      []YearGroup{},
		Page:       page,
		PerPage:    PublicPageSize,
		Total:      total,
		TotalPages: int((total + PublicPageSize - 1) / PublicPageSize),
	}
	if page > result.TotalPages {
		return result, nil
	}

	var list []models.Article
	err := s.published(ctx).
		Order(publishedOrderExpr).
		Limit(PublicPageSize).
		Offset((page - 1) * PublicPageSize).
		Find(&list).Error
	if err != nil {
		return PublishedPage{}, fmt.Errorf("list published articles: %w", err)
	}

	result.Years = GroupByYear(list)
	return result, nil
}

// GroupByYear buckets articles by DisplayYear, keeping first-seen order.
func GroupByYear(list []models.Article) []YearGroup {
	groups := []YearGroup{}
	index := map[int]int{}
	for _, article := range list {
		year := article.DisplayYear()
		i, ok := index[year]
		if !ok {
			i = len(groups)
			index[year] = i
			groups = append(groups, YearGroup{Year: year})
		}
		groups[i].Articles = append(groups[i].Articles, article)
	}
	return groups
}

// GetPublished loads a published article; drafts and archived ones are
// reported as not found.
func (s *ArticleService) GetPublished(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	err := s.published(ctx).Where("id = ?", id).First(&article).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load published article %d: %w", id, err)
	}
	return &article, nil
}

func (s *ArticleService) SearchPublished(ctx context.Context, q string) ([]models.Article, error) {
	var found []models.Article
	if err := titleLike(s.published(ctx), q).Order("created_at DESC").Limit(SearchLimit).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("search published articles: %w", err)
	}
	return found, nil
}
