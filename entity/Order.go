package entity

import (
	"time"

	"gorm.io/gorm"
)

// Order is one reservation of one daily menu for one consumption date.
// Exactly one of UserID / GroupID / VisitorName is populated.
type Order struct {
	gorm.Model
	ConsumeOn time.Time     `gorm:"index;not null" json:"consumeOn"`
	Period    ServicePeriod `gorm:"size:8;not null" json:"period"`
	Quantity  int           `gorm:"not null" json:"quantity"`
	UnitPrice int64         `json:"unitPrice"`
	Total     int64         `json:"total"`

	// same-day order that went through the admission checks
	Instant bool `json:"instant"`

	OrderStatusID uint        `json:"orderStatusId"`
	OrderStatus   OrderStatus `json:"-"`

	DailyMenuID uint      `json:"dailyMenuId"`
	DailyMenu   DailyMenu `json:"-"`

	// client kind: individual user, group, or walk-in visitor
	UserID       *uint  `json:"userId,omitempty"`
	User         *User  `json:"-"`
	GroupID      *uint  `json:"groupId,omitempty"`
	Group        *Group `json:"-"`
	VisitorName  string `json:"visitorName,omitempty"`
	VisitorPhone string `json:"visitorPhone,omitempty"`

	ServedAt *time.Time `json:"servedAt,omitempty"`

	// set only by billing reconciliation, never by serving
	ChargedAmount *int64 `json:"chargedAmount,omitempty"`

	// "u:<uid>:<yyyy-mm-dd>:<period>" while an individual instant order
	// is active; cleared on cancel. The unique index is the commit-time
	// arbiter for the admission race.
	InstantKey *string `gorm:"uniqueIndex" json:"-"`

	Version uint `gorm:"not null;default:0" json:"-"`
}
