package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/JerryLinyx/pilotts/global"
	"github.com/JerryLinyx/pilotts/models"
	"github.com/JerryLinyx/pilotts/utils"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type SeedAdmin struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type SeedSetting struct {
	BlogName     string `yaml:"blog_name"`
	ContactEmail string `yaml:"contact_email"`
	TwitterURL   string `yaml:"twitter_url"`
	LinkedinURL  string `yaml:"linkedin_url"`
	Bio          string `yaml:"bio"`
}

type SeedArticle struct {
	Title       string     `yaml:"title"`
	HTMLBody    string     `yaml:"html_body"`
	Status      string     `yaml:"status"`
	PublishedAt *time.Time `yaml:"published_at"`
}

// SeedFile is the on-disk layout of the bootstrap data.
type SeedFile struct {
	Admin    SeedAdmin     `yaml:"admin"`
	Setting  *SeedSetting  `yaml:"setting"`
	Articles []SeedArticle `yaml:"articles"`
}

func LoadSeedFile(path string) (*SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var seed SeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &seed, nil
}

// ApplySeed is safe to run on every start: the admin is matched by email,
// the setting row is only created when missing and sample articles are only
// added while the admin owns none.
func ApplySeed(ctx context.Context, db *gorm.DB, seed *SeedFile, now time.Time) error {
	email := strings.ToLower(strings.TrimSpace(seed.Admin.Email))
	if email == "" || seed.Admin.Password == "" {
		return errors.New("seed admin needs an email and a password")
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var admin models.User
		err := tx.Where("email = ?", email).First(&admin).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			digest, err := utils.HashPassword(seed.Admin.Password)
			if err != nil {
				return fmt.Errorf("hash seed password: %w", err)
			}
			admin = models.User{Email: email, PasswordDigest: digest}
			if err := tx.Create(&admin).Error; err != nil {
				return fmt.Errorf("create seed admin: %w", err)
			}
		case err != nil:
			return fmt.Errorf("load seed admin: %w", err)
		}

		if seed.Setting != nil {
			var setting models.Setting
			attrs := models.Setting{
				BlogName:     seed.Setting.BlogName,
				ContactEmail: seed.Setting.ContactEmail,
				TwitterURL:   seed.Setting.TwitterURL,
				LinkedinURL:  seed.Setting.LinkedinURL,
				Bio:          seed.Setting.Bio,
			}
			if err := tx.Order("id").Attrs(attrs).FirstOrCreate(&setting).Error; err != nil {
				return fmt.Errorf("seed settings: %w", err)
			}
		}

		var owned int64
		if err := tx.Model(&models.Article{}).Where("user_id = ?", admin.ID).Count(&owned).Error; err != nil {
			return fmt.Errorf("count seed articles: %w", err)
		}
		if owned > 0 {
			return nil
		}

		for i, item := range seed.Articles {
			article, err := seedArticle(admin.ID, item, now)
			if err != nil {
				return fmt.Errorf("seed article %d: %w", i, err)
			}
			if err := tx.Create(article).Error; err != nil {
				return fmt.Errorf("create seed article %d: %w", i, err)
			}
		}
		return nil
	})
}

func seedArticle(userID uint, item SeedArticle, now time.Time) (*models.Article, error) {
	raw := item.Status
	if raw == "" {
		raw = string(models.StatusDraft)
	}
	status, err := models.ParseArticleStatus(raw)
	if err != nil {
		return nil, err
	}

	article := &models.Article{
		UserID:   userID,
		Title:    item.Title,
		HTMLBody: item.HTMLBody,
		Status:   status,
	}
	if status == models.StatusPublished {
		article.PublishedAt = models.TransitionStatus(item.PublishedAt, status, now)
	}
	if err := article.Validate(); err != nil {
		return nil, err
	}
	return article, nil
}

// Seed applies the configured seed file, if any.
func Seed() {
	path := AppConfig.Seed.File
	if path == "" {
		return
	}
	seed, err := LoadSeedFile(path)
	if err != nil {
		log.Fatalf("Failed to load seed file: %v", err)
	}
	if err := ApplySeed(context.Background(), global.DB, seed, time.Now()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	global.Logger.Info("seed applied", "file", path, "admin", seed.Admin.Email)
}
