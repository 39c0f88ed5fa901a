package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"flowershop-bot/internal/models"
)

type Config struct {
	LISTEN_ADDR     string
	OUTBOUND_URL    string
	DATABASE_URL    string
	SQLITE_PATH     string
	MANAGER_CHAT_ID int64
	ADMIN_IDS       []int64
	KAFKA_ADDRESS   string
	ES_URL          string
	ES_USER         string
	ES_PASSWORD     string
	LOG_LEVEL       string
	SESSION_TTL     time.Duration
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		LISTEN_ADDR:   os.Getenv("LISTEN_ADDR"),
		OUTBOUND_URL:  os.Getenv("OUTBOUND_URL"),
		DATABASE_URL:  os.Getenv("DATABASE_URL"),
		SQLITE_PATH:   os.Getenv("SQLITE_PATH"),
		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),
		ES_URL:        os.Getenv("ES_URL"),
		ES_USER:       os.Getenv("ES_USER"),
		ES_PASSWORD:   os.Getenv("ES_PASSWORD"),
		LOG_LEVEL:     os.Getenv("LOG_LEVEL"),
	}

	if raw := os.Getenv("MANAGER_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("MANAGER_CHAT_ID: %w", err)
		}
		config.MANAGER_CHAT_ID = id
	}

	for _, raw := range strings.Split(os.Getenv("ADMIN_IDS"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_IDS: %w", err)
		}
		config.ADMIN_IDS = append(config.ADMIN_IDS, id)
	}

	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("SESSION_TTL: %w", err)
		}
		config.SESSION_TTL = ttl
	}

	return config, nil
}

// IsAdmin checks the static allow-list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.ADMIN_IDS {
		if id == userID {
			return true
		}
	}
	return false
}

// InitDB opens postgres when DATABASE_URL is set and falls back to a local
// sqlite file otherwise. The schema is migrated idempotently on every start.
func InitDB(configuration *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if configuration.DATABASE_URL != "" {
		dialector = postgres.Open(configuration.DATABASE_URL)
	} else {
		path := configuration.SQLITE_PATH
		if path == "" {
			path = "flowers.db"
		}
		dialector = sqlite.Open(path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("не вдалося підключитися до БД: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates the six relations of the storefront schema.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.City{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.TermsContent{},
	)
	if err != nil {
		return fmt.Errorf("не вдалося виконати міграцію: %w", err)
	}
	return nil
}
