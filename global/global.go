package global

import (
	"log/slog"

	"github.com/JerryLinyx/pilotts/mailer"
	"github.com/JerryLinyx/pilotts/services"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

var (
	DB      *gorm.DB
	RedisDB *redis.Client
	Logger  = slog.Default()

	Articles *services.ArticleService
	Settings *services.SettingService
	Auth     *services.AuthService
	Mailer   mailer.Mailer
)
