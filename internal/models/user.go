package models

import (
	"time"
)

const (
	RoleAdmin     = "admin"
	RoleTreasurer = "treasurer"
	RoleMember    = "member"
)

// User is the member profile, keyed one-to-one by the auth account id.
type User struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	AccountID          uint      `json:"account_id" gorm:"uniqueIndex;not null"`
	Name               string    `json:"name" gorm:"not null"`
	Email              string    `json:"email" gorm:"not null"`
	Phone              *string   `json:"phone,omitempty"`
	Roles              []string  `json:"roles" gorm:"type:json;serializer:json"`
	FamilyBranch       *string   `json:"family_branch,omitempty"`
	City               *string   `json:"city,omitempty"`
	MustChangePassword bool      `json:"must_change_password" gorm:"default:false"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// HasAnyRole reports whether the user carries at least one of the given roles.
func (u *User) HasAnyRole(roles ...string) bool {
	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

type UpdateProfileRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	FamilyBranch *string `json:"family_branch"`
	City         *string `json:"city"`
}

// MemberResponse is the directory view of a profile.
type MemberResponse struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone,omitempty"`
	FamilyBranch *string `json:"family_branch,omitempty"`
	City         *string `json:"city,omitempty"`
}
