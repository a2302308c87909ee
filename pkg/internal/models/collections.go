package models

type Collection struct {
	BaseModel

	Name        string `json:"name"`
	Description string `json:"description"`

	AccountID uint    `json:"account_id"`
	Account   Account `json:"account"`

	Posts []CollectionPost `json:"posts,omitempty"`
}

// CollectionPost is an embedded sub-record of a collection. It has its own
// identity and image list, it is not a reference to a top-level Post.
type CollectionPost struct {
	BaseModel

	CollectionID uint `json:"collection_id"`
	AccountID    uint `json:"account_id"`

	Images []CollectionPostImage `json:"images"`
}

type CollectionPostImage struct {
	BaseModel

	CollectionPostID uint   `json:"collection_post_id"`
	ArtifactID       string `json:"artifact_id"`
	URL              string `json:"url"`
}
