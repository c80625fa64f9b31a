package config

import (
	"context"
	"log"

	"github.com/JerryLinyx/pilotts/global"
	"github.com/JerryLinyx/pilotts/mailer"
	"github.com/JerryLinyx/pilotts/models"
	"github.com/JerryLinyx/pilotts/services"
)

// InitServices wires the application services onto the global handles.
// It must run after InitConfig and MigrateDB.
func InitServices() {
	cfg := AppConfig

	global.Articles = services.NewArticleService(global.DB)

	global.Settings = services.NewSettingService(global.DB, models.Setting{
		BlogName:     cfg.Blog.Name,
		ContactEmail: cfg.Blog.ContactEmail,
		TwitterURL:   cfg.Blog.TwitterURL,
		LinkedinURL:  cfg.Blog.LinkedinURL,
		Bio:          cfg.Blog.Bio,
	})
	if _, err := global.Settings.Load(context.Background()); err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	sessions := services.NewSessionStore(global.RedisDB, cfg.Auth.TokenTTL)
	global.Auth = services.NewAuthService(global.DB, sessions, services.AuthOptions{
		JWTSecret:         cfg.Auth.JWTSecret,
		AllowRegistration: cfg.Auth.AllowRegistration,
	})

	m, err := mailer.New(mailer.Options{
		Driver:    cfg.Mail.Driver,
		Host:      cfg.Mail.Host,
		Port:      cfg.Mail.Port,
		Username:  cfg.Mail.Username,
		Password:  cfg.Mail.Password,
		From:      cfg.Mail.From,
		TLSPolicy: cfg.Mail.TLSPolicy,
	}, global.Logger)
	if err != nil {
		log.Fatalf("Failed to configure mailer: %v", err)
	}
	global.Mailer = m
}
