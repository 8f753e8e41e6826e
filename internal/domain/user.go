package domain

import "time"

// Username and Email stay unique across live rows. Deleting a user keeps
// the row but rewrites both into tombstoned values (see pkg/tombstone), so
// the unique indexes never block re-registration of the freed identity.
const (
	UserUsernameMaxLen = 128
	UserEmailMaxLen    = 255
)

type User struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username       string `gorm:"size:128;uniqueIndex;not null" json:"username"`
	Email          string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	HashedPassword string `gorm:"size:255;not null" json:"-"`

	Admin    bool `gorm:"not null;default:false" json:"admin"`
	Active   bool `gorm:"not null;default:true" json:"active"`
	Approved bool `gorm:"not null;default:false" json:"approved"`
	Locked   bool `gorm:"not null;default:false" json:"locked"`

	Department string `gorm:"size:255;not null" json:"department"`
	Unit       string `gorm:"size:255;not null" json:"unit"`

	FirstName  string  `gorm:"size:255;not null" json:"firstName"`
	MiddleName *string `gorm:"size:255" json:"middleName"`
	LastName   string  `gorm:"size:255;not null" json:"lastName"`

	RssToken *string `gorm:"size:255" json:"rssToken,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`

	IsDeleted bool       `gorm:"not null;default:false" json:"isDeleted"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

func (User) TableName() string {
	return "users"
}
