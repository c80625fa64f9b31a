package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/JerryLinyx/pilotts/global"
	"github.com/JerryLinyx/pilotts/logging"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

type AppSection struct {
	Name            string   `mapstructure:"name"`
	Port            string   `mapstructure:"port"`
	Mode            string   `mapstructure:"mode"`
	FrontendOrigins []string `mapstructure:"frontend_origins"`
}

type DatabaseSection struct {
	Driver       string `mapstructure:"driver"`
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	Sslmode      string `mapstructure:"sslmode"`
	Timezone     string `mapstructure:"timezone"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	DSN          string `mapstructure:"dsn"`
}

type RedisSection struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthSection struct {
	JWTSecret         string        `mapstructure:"jwt_secret"`
	TokenTTL          time.Duration `mapstructure:"token_ttl"`
	AllowRegistration bool          `mapstructure:"allow_registration"`
}

// BlogSection seeds the settings row the first time the blog starts.
type BlogSection struct {
	Name         string `mapstructure:"name"`
	ContactEmail string `mapstructure:"contact_email"`
	TwitterURL   string `mapstructure:"twitter_url"`
	LinkedinURL  string `mapstructure:"linkedin_url"`
	Bio          string `mapstructure:"bio"`
}

type MailSection struct {
	Driver    string `mapstructure:"driver"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	From      string `mapstructure:"from"`
	TLSPolicy string `mapstructure:"tls_policy"`
}

type LoggingSection struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SeedSection struct {
	File string `mapstructure:"file"`
}

type Config struct {
	App      AppSection      `mapstructure:"app"`
	Database DatabaseSection `mapstructure:"database"`
	Redis    RedisSection    `mapstructure:"redis"`
	Auth     AuthSection     `mapstructure:"auth"`
	Blog     BlogSection     `mapstructure:"blog"`
	Mail     MailSection     `mapstructure:"mail"`
	Logging  LoggingSection  `mapstructure:"logging"`
	Seed     SeedSection     `mapstructure:"seed"`
}

var AppConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pilotts")
	v.SetDefault("app.port", ":8080")
	v.SetDefault("app.mode", gin.DebugMode)
	v.SetDefault("app.frontend_origins", []string{"http://localhost:5173", "http://localhost:8080"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "pilotts")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.dsn", "")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 72*time.Hour)
	v.SetDefault("auth.allow_registration", false)

	v.SetDefault("blog.name", "My Blog")
	v.SetDefault("blog.contact_email", "admin@example.com")
	v.SetDefault("blog.twitter_url", "")
	v.SetDefault("blog.linkedin_url", "")
	v.SetDefault("blog.bio", "")

	v.SetDefault("mail.driver", "log")
	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "no-reply@example.com")
	v.SetDefault("mail.tls_policy", "opportunistic")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("seed.file", "")
}

// LoadConfig reads the YAML file at path (or ./config/config.yaml when path
// is empty) and applies PILOTTS_* environment overrides. A missing default
// file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PILOTTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth.jwt_secret must be set")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	switch c.App.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("app.mode %q is not one of debug, release, test", c.App.Mode)
	}
	return nil
}

func InitConfig() {
	cfg, err := LoadConfig("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg

	gin.SetMode(cfg.App.Mode)
	global.Logger = logging.New(cfg.Logging.Level, cfg.Logging.Format)

	initDB()
	initRedis()
}
