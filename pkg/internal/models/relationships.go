package models

import "time"

// Relationship is a single follow edge. One row encodes both directions of
// the relation, so the follower and following views can never disagree.
// Self edges are rejected before they reach the database.
type Relationship struct {
	FollowerID  uint      `json:"follower_id" gorm:"primaryKey;autoIncrement:false"`
	FollowingID uint      `json:"following_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  Account `json:"follower,omitempty" gorm:"foreignKey:FollowerID"`
	Following Account `json:"following,omitempty" gorm:"foreignKey:FollowingID"`
}
