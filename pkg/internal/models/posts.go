package models

import (
	"time"

	"gorm.io/datatypes"
)

type Post struct {
	BaseModel

	Title       string                      `json:"title"`
	Description string                      `json:"description"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`

	Images   []PostImage `json:"images"`
	Likes    []PostLike  `json:"likes,omitempty"`
	Comments []Comment   `json:"comments,omitempty"`

	AccountID uint    `json:"account_id"`
	Account   Account `json:"account"`

	LikeCount int64 `json:"like_count" gorm:"-"`
	Liked     *bool `json:"liked,omitempty" gorm:"-"`
}

// PostImage records one stored artifact of a post: the storage-side object
// name plus the public retrieval URL.
type PostImage struct {
	BaseModel

	PostID     uint   `json:"post_id"`
	ArtifactID string `json:"artifact_id"`
	URL        string `json:"url"`
}

// PostLike is an atomic set-membership row, a like is a toggle rather than a
// counter.
type PostLike struct {
	AccountID uint      `json:"account_id" gorm:"primaryKey;autoIncrement:false"`
	PostID    uint      `json:"post_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time `json:"created_at"`

	Account Account `json:"account,omitempty"`
}

type Comment struct {
	BaseModel

	PostID    uint    `json:"post_id"`
	AccountID uint    `json:"account_id"`
	Account   Account `json:"account"`
	Content   string  `json:"content"`
}
