package database

import (
	"fmt"
	"time"

	"meal-tracker/models"
	"meal-tracker/structs"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// DSN builds the connection string gorm expects for the configured client.
func DSN(config structs.EnviromentModel) (string, error) {
	db := config.Database
	switch db.Client {
	case "mysql":
		params := db.Params
		if params == "" {
			params = "charset=utf8mb4&parseTime=True&loc=Local"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", db.User, db.Password, db.Host, db.Port, db.Db, params), nil
	case "postgres":
		params := db.Params
		if params == "" {
			params = "sslmode=disable"
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s %s", db.Host, db.Port, db.User, db.Password, db.Db, params), nil
	case "sqlite3":
		return db.Db, nil
	default:
		return "", fmt.Errorf("unsupported database client %q", db.Client)
	}
}

// InitDatabasePool opens the pool and applies the pool limits from config.
func InitDatabasePool(config structs.EnviromentModel) (*gorm.DB, error) {
	dsn, err := DSN(config)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(config.Database.Client, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", config.Database.Client, err)
	}

	db.DB().SetMaxIdleConns(int(config.Database.MaxIdle))
	db.DB().SetMaxOpenConns(int(config.Database.MaxOpenConn))
	if lifeTime, err := time.ParseDuration(config.Database.MaxLifeTime); err == nil {
		db.DB().SetConnMaxLifetime(lifeTime)
	}
	db.LogMode(config.Database.LogEnable == 1)
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.DailyMealsRecord{},
		&models.Profile{},
		&models.ActivityLog{},
	).Error
}

// NewMemory opens a private in-memory sqlite database with every table migrated.
// A single connection keeps the database alive for the lifetime of the pool.
func NewMemory() (*gorm.DB, error) {
	db, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	db.DB().SetMaxOpenConns(1)
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
