package model

import "time"

/*

User is an account on the platform, either a regular viewer or the owner of
a vendor profile.

Id: primary key
CreatedAt: time when entity is created
UpdatedAt: time when entity is updated

Username: unique handle
Email: unique login email
PasswordHash: never serialized, hashing happens in the auth service
FullName, ProfilePicture, Bio: public profile fields
IsVendor: true when the account owns a vendor profile
IsVerified: verified badge
*/
type User struct {
	Id             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string `gorm:"size:80;uniqueIndex;not null"`
	Email          string `gorm:"size:120;uniqueIndex;not null"`
	PasswordHash   string `gorm:"size:255;not null" json:"-"`
	FullName       string `gorm:"size:100"`
	ProfilePicture string `gorm:"size:255"`
	Bio            string
	IsVendor       bool `gorm:"not null;default:false"`
	IsVerified     bool `gorm:"not null;default:false"`
}

/*

Follow is a directed edge from FollowerID to FollowedID. A pair is unique.

*/
type Follow struct {
	Id         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	FollowerID uint `gorm:"not null;uniqueIndex:unique_follow;constraint:OnDelete:CASCADE;"`
	Follower   User `gorm:"constraint:OnDelete:CASCADE;"`
	FollowedID uint `gorm:"not null;uniqueIndex:unique_follow;index;constraint:OnDelete:CASCADE;"`
	Followed   User `gorm:"constraint:OnDelete:CASCADE;"`
}
