package database

import (
	"fmt"

	"github.com/snapit-app/server/pkg/internal/conf"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var C *gorm.DB

func NewGorm(cfg *conf.Config) error {
	var err error
	C, err = gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("unable to connect database: %w", err)
	}

	return nil
}
