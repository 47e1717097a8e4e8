package database

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campus-connect-server/config"
	"campus-connect-server/models"
)

var (
	DB       *gorm.DB
	initOnce sync.Once
)

// Initialize opens the database connection exactly once and runs migrations.
// Repeated calls reuse the existing handle.
func Initialize() error {
	var initErr error
	initOnce.Do(func() {
		initErr = connect()
	})
	return initErr
}

func connect() error {
	connString := config.AppConfig.Database.URL
	if connString == "" {
		return fmt.Errorf("DB_URL is required. Set DB_URL to a valid Postgres URL")
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	var err error
	DB, err = gorm.Open(postgres.Open(connString), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Successfully connected to database")

	if err := Migrate(DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("✅ Database migrations completed successfully")

	return nil
}

// Migrate creates or updates all application tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Subject{},
		&models.AttendanceRecord{},
		&models.Notification{},
		&models.PushToken{},
		&models.ScheduledNotification{},
		&models.Community{},
		&models.CommunityMember{},
		&models.CommunityPost{},
		&models.PostComment{},
		&models.PostLike{},
		&models.ListingCategory{},
		&models.Listing{},
		&models.Ad{},
		&models.Message{},
	)
}

func GetDB() *gorm.DB {
	return DB
}
