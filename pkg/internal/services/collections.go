package services

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/snapit-app/server/pkg/internal/conf"
	"github.com/snapit-app/server/pkg/internal/database"
	"github.com/snapit-app/server/pkg/internal/models"
	"github.com/snapit-app/server/pkg/internal/storage"
)

func NewCollection(account models.Account, name, description string) (models.Collection, error) {
	var collection models.Collection
	if len(name) == 0 {
		return collection, fmt.Errorf("%w: collection name is required", ErrValidation)
	}

	collection = models.Collection{
		Name:        name,
		Description: description,
		AccountID:   account.ID,
	}

	if err := database.C.Create(&collection).Error; err != nil {
		return collection, fmt.Errorf("unable to create collection: %w", err)
	}

	return collection, nil
}

func GetCollection(id uint) (models.Collection, error) {
	var collection models.Collection
	if err := database.C.
		Preload("Posts").
		Preload("Posts.Images").
		Where("id = ?", id).
		First(&collection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return collection, fmt.Errorf("%w: collection #%d", ErrNotFound, id)
		}
		return collection, fmt.Errorf("unable to get collection: %w", err)
	}
	return collection, nil
}

func ListCollection(accountID uint) ([]models.Collection, error) {
	var collections []models.Collection
	if err := database.C.
		Preload("Posts").
		Preload("Posts.Images").
		Where("account_id = ?", accountID).
		Find(&collections).Error; err != nil {
		return collections, fmt.Errorf("unable to list collections: %w", err)
	}
	return collections, nil
}

// CollectionFolder is the storage namespace for a collection's images.
func CollectionFolder(cfg *conf.Config, collection models.Collection) string {
	return fmt.Sprintf("%s/collections/%s", cfg.Storage.Folder, collection.Name)
}

// AddCollectionPost embeds a new post into the collection. Only the owner of
// the collection may add to it.
func AddCollectionPost(actor models.Account, collection models.Collection, images []storage.Artifact) (models.CollectionPost, error) {
	var post models.CollectionPost
	if err := AssertOwner(actor.ID, collection.AccountID); err != nil {
		return post, err
	}
	if len(images) == 0 {
		return post, fmt.Errorf("%w: at least one image is required", ErrValidation)
	}

	post = models.CollectionPost{
		CollectionID: collection.ID,
		AccountID:    actor.ID,
		Images: lo.Map(images, func(artifact storage.Artifact, _ int) models.CollectionPostImage {
			return models.CollectionPostImage{
				ArtifactID: artifact.ID,
				URL:        artifact.URL,
			}
		}),
	}

	if err := database.C.Create(&post).Error; err != nil {
		return post, fmt.Errorf("unable to create collection post: %w", err)
	}

	return post, nil
}

// RemoveCollectionPost drops one embedded post, releasing its artifacts
// best-effort. The collection owner check also covers this path.
func RemoveCollectionPost(actor models.Account, collection models.Collection, postID uint) error {
	if err := AssertOwner(actor.ID, collection.AccountID); err != nil {
		return err
	}

	var post models.CollectionPost
	if err := database.C.
		Preload("Images").
		Where("id = ? AND collection_id = ?", postID, collection.ID).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: post #%d in collection #%d", ErrNotFound, postID, collection.ID)
		}
		return fmt.Errorf("unable to get collection post: %w", err)
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_post_id = ?", post.ID).
			Delete(&models.CollectionPostImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		return fmt.Errorf("unable to remove collection post: %w", err)
	}

	ReleaseArtifacts(lo.Map(post.Images, func(image models.CollectionPostImage, _ int) string {
		return image.ArtifactID
	}))

	return nil
}

// DeleteCollection removes the collection with every embedded post, then
// releases all their artifacts best-effort.
func DeleteCollection(actor models.Account, collection models.Collection) error {
	if err := AssertOwner(actor.ID, collection.AccountID); err != nil {
		return err
	}

	var posts []models.CollectionPost
	if err := database.C.
		Preload("Images").
		Where("collection_id = ?", collection.ID).
		Find(&posts).Error; err != nil {
		return fmt.Errorf("unable to list collection posts: %w", err)
	}

	var artifacts []string
	for _, post := range posts {
		artifacts = append(artifacts, lo.Map(post.Images, func(image models.CollectionPostImage, _ int) string {
			return image.ArtifactID
		})...)
	}

	postIdx := lo.Map(posts, func(item models.CollectionPost, _ int) uint { return item.ID })

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if len(postIdx) > 0 {
			if err := tx.Where("collection_post_id IN ?", postIdx).
				Delete(&models.CollectionPostImage{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", postIdx).Delete(&models.CollectionPost{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&collection).Error
	})
	if err != nil {
		return fmt.Errorf("unable to delete collection: %w", err)
	}

	ReleaseArtifacts(artifacts)
	return nil
}
