package models

import "time"

// User mirrors an identity managed by the external auth provider. Rows are
// upserted on login and only read by the listing code.
type User struct {
	ID              string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Email           *string   `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	FirstName       *string   `gorm:"type:varchar(128)" json:"firstName"`
	LastName        *string   `gorm:"type:varchar(128)" json:"lastName"`
	ProfileImageURL *string   `gorm:"type:text" json:"profileImageUrl"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}
