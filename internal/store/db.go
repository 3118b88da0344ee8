// internal/store/db.go
package store

import (
	"fmt"
	"log"

	"mycorner-service/internal/config"
	"mycorner-service/pkg/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and migrates the mirror tables. The returned
// handle is passed explicitly to every store; nothing holds it as a global.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBSSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	// Auto-migrate (safe in dev; use migrations in prod)
	if err := db.AutoMigrate(&models.User{}, &models.UserSettings{}, &models.Recording{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	log.Println("✅ [DB] Connected & migrated")
	return db, nil
}
