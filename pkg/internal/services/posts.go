package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/snapit-app/server/pkg/internal/database"
	"github.com/snapit-app/server/pkg/internal/models"
	"github.com/snapit-app/server/pkg/internal/storage"
)

// AssertOwner is the single ownership gate. Every mutating operation on an
// owned entity goes through it before touching the store.
func AssertOwner(actorID, ownerID uint) error {
	if actorID != ownerID {
		return fmt.Errorf("%w: entity belongs to another account", ErrForbidden)
	}
	return nil
}

func FilterPostWithAuthor(tx *gorm.DB, accountID uint) *gorm.DB {
	return tx.Where("account_id = ?", accountID)
}

func PreloadPostGeneral(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Images").
		Preload("Account").
		Preload("Comments").
		Preload("Comments.Account")
}

func GetPost(tx *gorm.DB, id uint) (models.Post, error) {
	var item models.Post
	if err := PreloadPostGeneral(tx).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, fmt.Errorf("%w: post #%d", ErrNotFound, id)
		}
		return item, fmt.Errorf("unable to get post: %w", err)
	}

	item.LikeCount = CountPostLikes(item.ID)
	return item, nil
}

func CountPost(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Post{}).Count(&count).Error; err != nil {
		return count, err
	}
	return count, nil
}

func CountPostLikes(id uint) int64 {
	var count int64
	if err := database.C.Model(&models.PostLike{}).
		Where("post_id = ?", id).
		Count(&count).Error; err != nil {
		return 0
	}
	return count
}

func ListPost(tx *gorm.DB, take int, offset int, order any) ([]*models.Post, error) {
	if take <= 0 {
		take = 20
	}
	if take > 100 {
		take = 100
	}

	var items []*models.Post
	if err := PreloadPostGeneral(tx).
		Limit(take).Offset(offset).
		Order(order).
		Find(&items).Error; err != nil {
		return items, err
	}

	idx := lo.Map(items, func(item *models.Post, _ int) uint {
		return item.ID
	})
	if len(idx) == 0 {
		return items, nil
	}

	var likes []struct {
		PostID uint
		Count  int64
	}
	if err := database.C.Model(&models.PostLike{}).
		Select("post_id, COUNT(account_id) as count").
		Where("post_id IN ?", idx).
		Group("post_id").
		Scan(&likes).Error; err != nil {
		return items, err
	}

	itemMap := lo.SliceToMap(items, func(item *models.Post) (uint, *models.Post) {
		return item.ID, item
	})
	for _, info := range likes {
		if post, ok := itemMap[info.PostID]; ok {
			post.LikeCount = info.Count
		}
	}

	return items, nil
}

func NewPost(account models.Account, title, description string, tags []string, images []storage.Artifact) (models.Post, error) {
	var item models.Post
	if len(title) == 0 {
		return item, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if len(images) == 0 {
		return item, fmt.Errorf("%w: at least one image is required", ErrValidation)
	}

	item = models.Post{
		Title:       title,
		Description: description,
		Tags:        datatypes.NewJSONSlice(tags),
		AccountID:   account.ID,
		Images: lo.Map(images, func(artifact storage.Artifact, _ int) models.PostImage {
			return models.PostImage{
				ArtifactID: artifact.ID,
				URL:        artifact.URL,
			}
		}),
	}

	if err := database.C.Create(&item).Error; err != nil {
		return item, fmt.Errorf("unable to create post: %w", err)
	}

	return item, nil
}

// EditPost applies the non-empty fields, only the owner may call it.
func EditPost(actor models.Account, item models.Post, title, description string, tags []string) (models.Post, error) {
	if err := AssertOwner(actor.ID, item.AccountID); err != nil {
		return item, err
	}

	if len(title) > 0 {
		item.Title = title
	}
	if len(description) > 0 {
		item.Description = description
	}
	if len(tags) > 0 {
		item.Tags = datatypes.NewJSONSlice(tags)
	}

	if err := database.C.Save(&item).Error; err != nil {
		return item, fmt.Errorf("unable to update post: %w", err)
	}

	return item, nil
}

// DeletePost removes the post with its likes, comments and image rows, then
// releases the stored artifacts. Artifact release is best-effort and never
// blocks the deletion.
func DeletePost(actor models.Account, item models.Post) error {
	if err := AssertOwner(actor.ID, item.AccountID); err != nil {
		return err
	}

	var images []models.PostImage
	if err := database.C.Where("post_id = ?", item.ID).Find(&images).Error; err != nil {
		return fmt.Errorf("unable to list post images: %w", err)
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", item.ID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", item.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", item.ID).Delete(&models.PostImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		return fmt.Errorf("unable to delete post: %w", err)
	}

	ReleaseArtifacts(lo.Map(images, func(image models.PostImage, _ int) string {
		return image.ArtifactID
	}))

	return nil
}

// ReleaseArtifacts attempts to release every artifact, collects the failures
// into the log and never reports them upwards.
func ReleaseArtifacts(artifacts []string) {
	for _, artifact := range artifacts {
		if err := storage.C.Release(context.Background(), artifact); err != nil {
			log.Warn().Err(err).Str("artifact", artifact).Msg("Unable to release stored artifact...")
		}
	}
}

// ToggleLike flips the actor's like on the post and reports whether the post
// is now liked, together with the resulting count.
func ToggleLike(account models.Account, item models.Post) (bool, int64, error) {
	like := models.PostLike{
		AccountID: account.ID,
		PostID:    item.ID,
	}

	if err := database.C.Where(like).First(&like).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, fmt.Errorf("unable to check like: %w", err)
		}
		if err := database.C.Create(&like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return true, CountPostLikes(item.ID), nil
			}
			return false, 0, fmt.Errorf("unable to like post: %w", err)
		}
		return true, CountPostLikes(item.ID), nil
	}

	if err := database.C.
		Where("account_id = ? AND post_id = ?", account.ID, item.ID).
		Delete(&models.PostLike{}).Error; err != nil {
		return true, 0, fmt.Errorf("unable to unlike post: %w", err)
	}
	return false, CountPostLikes(item.ID), nil
}

func AddComment(account models.Account, item models.Post, content string) (models.Comment, error) {
	comment := models.Comment{
		PostID:    item.ID,
		AccountID: account.ID,
		Content:   content,
	}
	if len(content) == 0 {
		return comment, fmt.Errorf("%w: comment text is required", ErrValidation)
	}

	if err := database.C.Create(&comment).Error; err != nil {
		return comment, fmt.Errorf("unable to create comment: %w", err)
	}

	return comment, nil
}

// DeleteComment is permitted to the comment author and to the owner of the
// parent post, nobody else.
func DeleteComment(actor models.Account, postID, commentID uint) error {
	var item models.Post
	if err := database.C.Where("id = ?", postID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: post #%d", ErrNotFound, postID)
		}
		return fmt.Errorf("unable to get post: %w", err)
	}

	var comment models.Comment
	if err := database.C.
		Where("id = ? AND post_id = ?", commentID, postID).
		First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: comment #%d", ErrNotFound, commentID)
		}
		return fmt.Errorf("unable to get comment: %w", err)
	}

	if actor.ID != comment.AccountID && actor.ID != item.AccountID {
		return fmt.Errorf("%w: only the comment author or the post owner may delete a comment", ErrForbidden)
	}

	if err := database.C.Delete(&comment).Error; err != nil {
		return fmt.Errorf("unable to delete comment: %w", err)
	}
	return nil
}

// MarkLiked fills the per-viewer liked flag on already loaded posts.
func MarkLiked(items []*models.Post, viewerID uint) {
	idx := lo.Map(items, func(item *models.Post, _ int) uint { return item.ID })
	if len(idx) == 0 {
		return
	}

	var liked []uint
	if err := database.C.Model(&models.PostLike{}).
		Where("account_id = ? AND post_id IN ?", viewerID, idx).
		Pluck("post_id", &liked).Error; err != nil {
		return
	}

	likedSet := lo.SliceToMap(liked, func(id uint) (uint, bool) { return id, true })
	for _, item := range items {
		item.Liked = lo.ToPtr(likedSet[item.ID])
	}
}
