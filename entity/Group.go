package entity

import (
	"gorm.io/gorm"
)

// Group is a collective client (a department, a site crew). Group
// instant orders draw on DailyAllowance instead of the per-menu
// Day/Night counters.
type Group struct {
	gorm.Model
	Name           string `gorm:"uniqueIndex;not null" json:"name"`
	ContactName    string `json:"contactName"`
	ContactPhone   string `json:"contactPhone"`
	DailyAllowance int    `json:"dailyAllowance"`

	Orders []Order `json:"-"`
}
