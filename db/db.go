package db

import (
	"fmt"

	"olilab/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresConfig 连接参数，来自 DB_HOST/DB_USER/DB_PASSWORD/DB_NAME/DB_PORT
type PostgresConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Name, c.Port,
	)
}

func ConnectDB(cfg PostgresConfig) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return conn, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Snapshot{})
}
