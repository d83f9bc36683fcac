package database

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"jobboard_backend/internal/logger"
	"jobboard_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormConfig is shared by production and test connections so both translate
// duplicate-key errors and stamp rows in UTC.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		Logger: GormLogger(os.Stdout),
	}
}

// GormLogger reports slow queries and failures. Lookups that find nothing are
// expected (404s, can-review checks) and stay quiet.
func GormLogger(w io.Writer) gormlogger.Interface {
	return gormlogger.New(log.New(w, "\r\n", log.LstdFlags), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// ConnectGorm opens the PostgreSQL connection.
func ConnectGorm(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}
	return db, nil
}

// AutoMigrate creates or updates every table and makes sure the role groups exist.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Group{},
		&models.User{},
		&models.JobCategory{},
		&models.Job{},
		&models.Application{},
		&models.EmployerReview{},
		&models.FeaturePayment{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, name := range models.RoleGroupNames() {
		group := models.Group{Name: name}
		if err := db.Where(models.Group{Name: name}).FirstOrCreate(&group).Error; err != nil {
			return fmt.Errorf("ensure group %q: %w", name, err)
		}
	}

	logger.Info("database migrated")
	return nil
}
