package models

// Account is a registered identity. The password hash never leaves the
// process: it is excluded from serialization and stripped from any account
// value returned by the services layer.
type Account struct {
	BaseModel

	Name string `json:"name"`
	// Unique among live rows only, so a soft-deleted account does not lock
	// its email for the retention window.
	Email  string `json:"email" gorm:"index:,unique,where:deleted_at IS NULL"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`

	Password string `json:"-"`

	Posts       []Post       `json:"posts,omitempty" gorm:"foreignKey:AccountID"`
	Collections []Collection `json:"collections,omitempty" gorm:"foreignKey:AccountID"`
}
