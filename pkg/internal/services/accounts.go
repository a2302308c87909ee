package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	localCache "github.com/snapit-app/server/pkg/internal/cache"
	"github.com/snapit-app/server/pkg/internal/database"
	"github.com/snapit-app/server/pkg/internal/models"
)

// Compared against when the account lookup fails so a miss costs roughly the
// same as a password mismatch.
var timingDecoyHash, _ = bcrypt.GenerateFromPassword([]byte("decoy"), bcrypt.DefaultCost)

func NewAccount(name, email, password, confirmPassword string) (models.Account, error) {
	var account models.Account
	if len(name) == 0 || len(email) == 0 || len(password) == 0 || len(confirmPassword) == 0 {
		return account, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if password != confirmPassword {
		return account, fmt.Errorf("%w: password and confirm password do not match", ErrValidation)
	}

	var probe models.Account
	if err := database.C.Where("email = ?", email).First(&probe).Error; err == nil {
		return account, fmt.Errorf("%w: email is already registered", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return account, fmt.Errorf("unable to check account existence: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return account, fmt.Errorf("unable to hash password: %w", err)
	}

	account = models.Account{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Avatar:   fmt.Sprintf("https://api.dicebear.com/5.x/initials/svg?seed=%s", url.QueryEscape(name)),
	}

	if err := database.C.Create(&account).Error; err != nil {
		// A concurrent registration may win between the probe and here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return account, fmt.Errorf("%w: email is already registered", ErrConflict)
		}
		return account, fmt.Errorf("unable to create account: %w", err)
	}

	account.Password = ""
	return account, nil
}

func GetAccount(id uint) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, fmt.Errorf("%w: account #%d", ErrNotFound, id)
		}
		return account, fmt.Errorf("unable to get account: %w", err)
	}
	return account, nil
}

// GetAccountWithCache resolves an account through the local cache. Used by
// the request gate where the same identity is looked up on every call.
func GetAccountWithCache(id uint) (models.Account, error) {
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	ctx := context.Background()

	key := accountCacheKey(id)
	if cached, err := marshal.Get(ctx, key, new(models.Account)); err == nil {
		return *cached.(*models.Account), nil
	}

	account, err := GetAccount(id)
	if err != nil {
		return account, err
	}
	account.Password = ""

	_ = marshal.Set(ctx, key, account,
		store.WithExpiration(5*time.Minute),
		store.WithTags([]string{"account", key}),
	)

	return account, nil
}

func InvalidateAccountCache(id uint) {
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	if err := marshal.Delete(context.Background(), accountCacheKey(id)); err != nil {
		log.Debug().Err(err).Uint("account", id).Msg("Unable to invalidate account cache...")
	}
}

func accountCacheKey(id uint) string {
	return fmt.Sprintf("account#%d", id)
}

// VerifyCredential checks an email and password pair and returns the matched
// account with the password hash stripped.
func VerifyCredential(email, password string) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(timingDecoyHash, []byte(password))
			return account, fmt.Errorf("%w: no account with this email", ErrNotFound)
		}
		return account, fmt.Errorf("unable to get account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return account, fmt.Errorf("%w: invalid password", ErrInvalidCredential)
	}

	account.Password = ""
	return account, nil
}

func ChangePassword(account models.Account, oldPassword, newPassword string) error {
	var current models.Account
	if err := database.C.Where("id = ?", account.ID).First(&current).Error; err != nil {
		return fmt.Errorf("unable to get account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(current.Password), []byte(oldPassword)); err != nil {
		return fmt.Errorf("%w: old password is incorrect", ErrInvalidCredential)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("unable to hash password: %w", err)
	}

	if err := database.C.Model(&current).Update("password", string(hash)).Error; err != nil {
		return fmt.Errorf("unable to update password: %w", err)
	}

	InvalidateAccountCache(account.ID)
	return nil
}

// UpdateProfile applies the non-empty fields onto the account, matching the
// partial-update semantics of the profile endpoint.
func UpdateProfile(account models.Account, name, email, bio, avatar string) (models.Account, error) {
	current, err := GetAccount(account.ID)
	if err != nil {
		return current, err
	}

	if len(name) > 0 {
		current.Name = name
	}
	if len(email) > 0 {
		current.Email = email
	}
	if len(bio) > 0 {
		current.Bio = bio
	}
	if len(avatar) > 0 {
		current.Avatar = avatar
	}

	if err := database.C.Save(&current).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return current, fmt.Errorf("%w: email is already registered", ErrConflict)
		}
		return current, fmt.Errorf("unable to update profile: %w", err)
	}

	InvalidateAccountCache(account.ID)
	current.Password = ""
	return current, nil
}

func UpdateAvatar(account models.Account, avatar string) (models.Account, error) {
	return UpdateProfile(account, "", "", "", avatar)
}

// DeleteAccount removes the account together with its follow edges, likes,
// comments, posts and collections. Stored image artifacts are released
// best-effort after the records are gone.
func DeleteAccount(account models.Account) error {
	var posts []models.Post
	if err := database.C.Where("account_id = ?", account.ID).Preload("Images").Find(&posts).Error; err != nil {
		return fmt.Errorf("unable to list account posts: %w", err)
	}
	var collections []models.Collection
	if err := database.C.Where("account_id = ?", account.ID).Preload("Posts.Images").Find(&collections).Error; err != nil {
		return fmt.Errorf("unable to list account collections: %w", err)
	}

	var artifacts []string
	for _, post := range posts {
		artifacts = append(artifacts, lo.Map(post.Images, func(image models.PostImage, _ int) string {
			return image.ArtifactID
		})...)
	}
	for _, collection := range collections {
		for _, post := range collection.Posts {
			artifacts = append(artifacts, lo.Map(post.Images, func(image models.CollectionPostImage, _ int) string {
				return image.ArtifactID
			})...)
		}
	}

	postIdx := lo.Map(posts, func(item models.Post, _ int) uint { return item.ID })
	collectionIdx := lo.Map(collections, func(item models.Collection, _ int) uint { return item.ID })

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("follower_id = ? OR following_id = ?", account.ID, account.ID).
			Delete(&models.Relationship{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", account.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if len(postIdx) > 0 {
			if err := tx.Where("post_id IN ?", postIdx).Delete(&models.PostLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIdx).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIdx).Delete(&models.PostImage{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", postIdx).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}
		if len(collectionIdx) > 0 {
			var embeddedIdx []uint
			if err := tx.Model(&models.CollectionPost{}).
				Where("collection_id IN ?", collectionIdx).
				Pluck("id", &embeddedIdx).Error; err != nil {
				return err
			}
			if len(embeddedIdx) > 0 {
				if err := tx.Where("collection_post_id IN ?", embeddedIdx).
					Delete(&models.CollectionPostImage{}).Error; err != nil {
					return err
				}
				if err := tx.Where("id IN ?", embeddedIdx).Delete(&models.CollectionPost{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("id IN ?", collectionIdx).Delete(&models.Collection{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&account).Error
	})
	if err != nil {
		return fmt.Errorf("unable to delete account: %w", err)
	}

	InvalidateAccountCache(account.ID)
	ReleaseArtifacts(artifacts)
	return nil
}

// ListFollowers returns accounts following the given one, as summaries fit
// for inline rendering.
func ListFollowers(accountID uint) ([]models.Account, error) {
	var accounts []models.Account
	if err := database.C.
		Joins("JOIN relationships ON relationships.follower_id = accounts.id").
		Where("relationships.following_id = ?", accountID).
		Select("accounts.id", "accounts.name", "accounts.avatar").
		Find(&accounts).Error; err != nil {
		return accounts, fmt.Errorf("unable to list followers: %w", err)
	}
	return accounts, nil
}

func ListFollowing(accountID uint) ([]models.Account, error) {
	var accounts []models.Account
	if err := database.C.
		Joins("JOIN relationships ON relationships.following_id = accounts.id").
		Where("relationships.follower_id = ?", accountID).
		Select("accounts.id", "accounts.name", "accounts.avatar").
		Find(&accounts).Error; err != nil {
		return accounts, fmt.Errorf("unable to list following: %w", err)
	}
	return accounts, nil
}
