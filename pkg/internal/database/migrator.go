package database

import (
	"github.com/snapit-app/server/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Account{},
	&models.Post{},
	&models.PostImage{},
	&models.Comment{},
	&models.Collection{},
	&models.CollectionPost{},
	&models.CollectionPostImage{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(
		append(
			AutoMaintainRange,
			&models.Relationship{},
			&models.PostLike{},
		)...,
	); err != nil {
		return err
	}

	return nil
}
