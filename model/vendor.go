package model

import (
	"time"

	"gorm.io/datatypes"
)

/*

Vendor is the business profile behind a user account: a restaurant, food
truck, street vendor or caterer.

Id: primary key
UserID: owning account, "belongs-to" relation

BusinessName, BusinessType, Description: display fields
CuisineType: free text classification, e.g. "italian"
Address, City, State, ZipCode, Latitude, Longitude: location, coordinates
are used by the local feed
BusinessHours: opening hours as a JSON document
IsActive: inactive vendors never appear in feeds or search
AverageRating, TotalReviews: denormalized from reviews
*/
type Vendor struct {
	Id            uint `gorm:"primaryKey"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	UserID        uint   `gorm:"not null;index;constraint:OnDelete:CASCADE;"`
	User          User   `gorm:"constraint:OnDelete:CASCADE;"`
	BusinessName  string `gorm:"size:100;not null"`
	BusinessType  string `gorm:"size:50;not null"`
	Description   string
	CuisineType   string `gorm:"size:100"`
	Address       string `gorm:"size:255"`
	City          string `gorm:"size:100"`
	State         string `gorm:"size:50"`
	ZipCode       string `gorm:"size:20"`
	Latitude      *float64
	Longitude     *float64
	Phone         string `gorm:"size:20"`
	Website       string `gorm:"size:255"`
	BusinessHours datatypes.JSON
	IsActive      bool `gorm:"not null"`
	IsVerified    bool `gorm:"not null;default:false"`
	AverageRating float64
	TotalReviews  int
	MenuItems     []MenuItem `gorm:"constraint:OnDelete:CASCADE;"`
}

/*

MenuItem is a dish sold by a vendor. Videos can feature menu items through
VideoMenuItem.

*/
type MenuItem struct {
	Id           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	VendorID     uint   `gorm:"not null;index;constraint:OnDelete:CASCADE;"`
	Name         string `gorm:"size:100;not null"`
	Description  string
	Price        float64 `gorm:"not null"`
	Category     string  `gorm:"size:50"`
	ImageUrl     string  `gorm:"size:255"`
	IsAvailable  bool    `gorm:"not null"`
	IsVegetarian bool
	IsVegan      bool
	IsGlutenFree bool
	IsSpicy      bool
}

// Review is a 1 to 5 star rating left by a user on a vendor.
type Review struct {
	Id        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	VendorID  uint `gorm:"not null;index;constraint:OnDelete:CASCADE;"`
	UserID    uint `gorm:"not null;constraint:OnDelete:CASCADE;"`
	Rating    int  `gorm:"not null"`
	Comment   string
}
