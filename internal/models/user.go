// Package models contains data structures for the application's domain models.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IDList is an ordered sequence of user ids stored as a JSON text column.
// Insertion order is preserved; membership is by exact value.
type IDList []string

// Value implements driver.Valuer for GORM serialization.
func (l IDList) Value() (driver.Value, error) {
	if l == nil {
		l = IDList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for GORM deserialization.
func (l *IDList) Scan(src interface{}) error {
	if src == nil {
		*l = IDList{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into IDList", src)
	}
	if len(data) == 0 {
		*l = IDList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Contains reports whether id is present in the list.
func (l IDList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

// Remove returns a copy of the list with the first occurrence of id removed.
// Order of the remaining elements is preserved.
func (l IDList) Remove(id string) IDList {
	out := make(IDList, 0, len(l))
	removed := false
	for _, v := range l {
		if !removed && v == id {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out
}

// User represents a registered account with its profile and follow state.
//
// FollowersCount and FollowingCount are denormalized mirrors of the two id
// lists and are updated at every mutation site, never recomputed on read.
type User struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Name            string    `json:"name"`
	Username        string    `gorm:"uniqueIndex;not null" json:"username"`
	Email           string    `gorm:"uniqueIndex;not null" json:"email"`
	Password        string    `gorm:"not null" json:"-"`
	Bio             string    `json:"bio"`
	AvatarURL       string    `json:"avatarUrl"`
	ProfileImageURL string    `json:"profileImageUrl"`
	IsPrivate       bool      `gorm:"default:false" json:"isPrivate"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Followers       IDList    `gorm:"type:text" json:"followers"`
	Following       IDList    `gorm:"type:text" json:"following"`
	FollowersCount  int       `json:"followersCount"`
	FollowingCount  int       `json:"followingCount"`
	// PostsCount is reserved for a future posts feature; no operation touches it.
	PostsCount int `json:"postsCount"`
}

// BeforeCreate assigns an opaque id when the store creates the record.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Sanitize clears credential fields before the record leaves the API.
func (u *User) Sanitize() *User {
	u.Password = ""
	return u
}
