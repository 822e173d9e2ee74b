package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/michaelfullmer/contentcreatorforbusiness/config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init initializes the database connection.
// It uses the DSN from the application config.
// For "memory", it uses an in-memory SQLite database.
// For other DSNs, it assumes a file-based SQLite database.
func Init() (*gorm.DB, error) {
	var err error
	dsn := config.AppConfig.Database.DSN

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	gormConfig := &gorm.Config{
		Logger: gormLogger,
	}

	if dsn == "memory" || dsn == "" { // treat empty DSN as in-memory for safety
		log.Println("INFO: [Database] Initializing in-memory SQLite database (DSN: 'memory' or empty).")
		DB, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), gormConfig)
	} else {
		log.Printf("INFO: [Database] Initializing file-based SQLite database at DSN: '%s'.", dsn)
		dbDir := filepath.Dir(dsn)
		if dbDir != "." && dbDir != "/" {
			if _, statErr := os.Stat(dbDir); os.IsNotExist(statErr) {
				log.Printf("INFO: [Database] Database directory '%s' does not exist, attempting to create.", dbDir)
				if mkdirErr := os.MkdirAll(dbDir, 0755); mkdirErr != nil {
					return nil, fmt.Errorf("failed to create database directory '%s': %w", dbDir, mkdirErr)
				}
			}
		}
		DB, err = gorm.Open(sqlite.Open(dsn), gormConfig)
	}

	if err != nil {
		log.Printf("ERROR: [Database] Failed to connect to database (DSN: '%s'): %v", dsn, err)
		return nil, fmt.Errorf("failed to connect to database (DSN: '%s'): %w", dsn, err)
	}

	log.Println("INFO: [Database] Database connection established successfully.")
	return DB, nil
}

// GetDB returns the global database instance.
// It panics if DB has not been initialized via Init().
func GetDB() *gorm.DB {
	if DB == nil {
		log.Fatal("FATAL: [Database] Database instance has not been initialized. Call database.Init() first.")
	}
	return DB
}
