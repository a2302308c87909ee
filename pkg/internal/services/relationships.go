package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/snapit-app/server/pkg/internal/database"
	"github.com/snapit-app/server/pkg/internal/models"
)

const (
	RelationFollowed   = "followed"
	RelationUnfollowed = "unfollowed"
)

func GetRelationship(followerID, followingID uint) (*models.Relationship, error) {
	var relationship models.Relationship
	if err := database.C.
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&relationship).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to get relationship: %w", err)
	}
	return &relationship, nil
}

// ToggleFollow flips the follow edge between actor and target. The current
// membership of the edge decides the direction, there is no explicit verb.
// The edge is one row, so follower and following views move together.
func ToggleFollow(actorID, targetID uint) (string, error) {
	if actorID == targetID {
		return "", fmt.Errorf("%w: cannot follow yourself", ErrInvalidOperation)
	}

	if _, err := GetAccount(targetID); err != nil {
		return "", err
	}

	relationship, err := GetRelationship(actorID, targetID)
	if err != nil {
		return "", err
	}

	if relationship != nil {
		if err := database.C.
			Where("follower_id = ? AND following_id = ?", actorID, targetID).
			Delete(&models.Relationship{}).Error; err != nil {
			return "", fmt.Errorf("unable to unfollow: %w", err)
		}
		return RelationUnfollowed, nil
	}

	err = database.C.Create(&models.Relationship{
		FollowerID:  actorID,
		FollowingID: targetID,
	}).Error
	if err != nil {
		// A concurrent toggle may have created the edge first; the resulting
		// state is still "followed".
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return RelationFollowed, nil
		}
		return "", fmt.Errorf("unable to follow: %w", err)
	}

	return RelationFollowed, nil
}

func CountFollowers(accountID uint) int64 {
	var count int64
	if err := database.C.Model(&models.Relationship{}).
		Where("following_id = ?", accountID).
		Count(&count).Error; err != nil {
		return 0
	}
	return count
}

func CountFollowing(accountID uint) int64 {
	var count int64
	if err := database.C.Model(&models.Relationship{}).
		Where("follower_id = ?", accountID).
		Count(&count).Error; err != nil {
		return 0
	}
	return count
}
