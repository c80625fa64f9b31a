package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/JerryLinyx/pilotts/models"
	"gorm.io/gorm"
)

// SettingInput is a partial settings edit.
type SettingInput struct {
	BlogName     *string `json:"blog_name"`
	ContactEmail *string `json:"contact_email"`
	TwitterURL   *string `json:"twitter_url"`
	LinkedinURL  *string `json:"linkedin_url"`
	Bio          *string `json:"bio"`
}

// SettingService keeps the singleton Setting row in memory. Load must run
// once at startup before Current is used.
type SettingService struct {
	db       *gorm.DB
	defaults models.Setting

	mu      sync.RWMutex
	current *models.Setting
}

func NewSettingService(db *gorm.DB, defaults models.Setting) *SettingService {
	defaults.ID = 0
	return &SettingService{db: db, defaults: defaults}
}

// Load fetches the setting row, creating it from defaults if the table is
// empty. Calling it again re-reads the row.
func (s *SettingService) Load(ctx context.Context) (models.Setting, error) {
	var setting models.Setting
	err := s.db.WithContext(ctx).
		Order("id").
		Attrs(s.defaults).
		FirstOrCreate(&setting).Error
	if err != nil {
		return models.Setting{}, fmt.Errorf("load settings: %w", err)
	}

	s.mu.Lock()
	s.current = &setting
	s.mu.Unlock()
	return setting, nil
}

func (s *SettingService) Current() (models.Setting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.Setting{}, ErrSettingsNotLoaded
	}
	return *s.current, nil
}

// Update validates and persists the edit, then swaps the cached copy.
func (s *SettingService) Update(ctx context.Context, in SettingInput) (models.Setting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.Setting{}, ErrSettingsNotLoaded
	}

	next := *s.current
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	assign(&next.BlogName, in.BlogName)
	assign(&next.ContactEmail, in.ContactEmail)
	assign(&next.TwitterURL, in.TwitterURL)
	assign(&next.LinkedinURL, in.LinkedinURL)
	assign(&next.Bio, in.Bio)

	if err := next.Validate(); err != nil {
		return models.Setting{}, err
	}
	if err := s.db.WithContext(ctx).Save(&next).Error; err != nil {
		return models.Setting{}, fmt.Errorf("save settings: %w", err)
	}

	s.current = &next
	return next, nil
}
