package config

import (
	"log"

	"github.com/JerryLinyx/pilotts/global"
	"github.com/JerryLinyx/pilotts/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the blog tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.Setting{},
	)
}

// MigrateDB runs database migrations
func MigrateDB() {
	if err := Migrate(global.DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	global.Logger.Info("database migration completed")
}
