package entity

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Password    string `json:"-"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Site        string `json:"site"`
	Role        string `gorm:"not null;default:employee" json:"role"`

	// default service slot from the directory, advisory only
	DefaultPeriod ServicePeriod `gorm:"size:8;default:DAY" json:"defaultPeriod"`

	Orders []Order `json:"-"`
}
