// internal/database/connection.go
package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/fertiscan-backend/internal/config"
	"github.com/javajoker/fertiscan-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	var dialector gorm.Dialector
	if cfg.IsSQLite() {
		dialector = sqlite.Open(cfg.SQLitePath)
	} else {
		dialector = postgres.Open(cfg.DSN())
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool. SQLite serializes writers, so a single
	// connection avoids "database is locked" under concurrent requests.
	if cfg.IsSQLite() {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithField("driver", cfg.Driver).Info("Database connection established")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

// Models lists every table owned by the service, parents first.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Organization{},
		&models.PictureSet{},
		&models.Label{},
		&models.Inspection{},
		&models.Metric{},
		&models.SubLabel{},
		&models.GuaranteedAnalysis{},
		&models.Ingredient{},
		&models.Micronutrient{},
		&models.RegistrationNumber{},
		&models.Specification{},
		&models.Fertilizer{},
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// Child collections are always read and replaced per label, in order
		"CREATE INDEX IF NOT EXISTS idx_metrics_label_type ON metrics(label_id, metric_type, position)",
		"CREATE INDEX IF NOT EXISTS idx_sub_labels_label_type ON sub_labels(label_id, sub_type, language, position)",
		"CREATE INDEX IF NOT EXISTS idx_guaranteed_analyses_label ON guaranteed_analyses(label_id, language, position)",
		"CREATE INDEX IF NOT EXISTS idx_ingredients_label ON ingredients(label_id, language, position)",
		"CREATE INDEX IF NOT EXISTS idx_micronutrients_label ON micronutrients(label_id, language, position)",
		"CREATE INDEX IF NOT EXISTS idx_registration_numbers_label ON registration_numbers(label_id, position)",
		"CREATE INDEX IF NOT EXISTS idx_specifications_label ON specifications(label_id, language, position)",

		// Inspection listing
		"CREATE INDEX IF NOT EXISTS idx_inspections_inspector_created ON inspections(inspector_id, created_at DESC)",

		// Catalog lookup by product identity
		"CREATE INDEX IF NOT EXISTS idx_fertilizers_name_owner ON fertilizers(name, owner_id)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
