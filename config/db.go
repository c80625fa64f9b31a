package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/JerryLinyx/pilotts/global"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// BuildDSN returns the explicit dsn when set, otherwise assembles one for
// the configured driver.
func (d DatabaseSection) BuildDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	switch d.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			d.User, d.Password, d.Host, d.Port, d.Name)
	case "sqlite":
		return d.Name
	default:
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.Sslmode, d.Timezone,
		)
	}
}

func dialector(d DatabaseSection) (gorm.Dialector, error) {
	dsn := d.BuildDSN()
	switch strings.ToLower(d.Driver) {
	case "", "postgres", "postgresql":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			SkipInitializeWithVersion: false,
		}), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", d.Driver)
	}
}

// OpenDB connects with the configured driver and pool limits.
func OpenDB(d DatabaseSection) (*gorm.DB, error) {
	dial, err := dialector(d)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.Default.LogMode(logger.Warn)
	if gin.Mode() == gin.DebugMode {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dial, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("connect to %s database: %w", d.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("set up database pool: %w", err)
	}
	if d.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(d.MaxIdleConns)
	}
	if d.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(d.MaxOpenConns)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func initDB() {
	db, err := OpenDB(AppConfig.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	global.DB = db
}
