package entity

import (
	"gorm.io/gorm"
)

// Seeded status names. The set is closed: PreOrdered is the only
// non-terminal state.
const (
	StatusPreOrdered  = "PreOrdered"
	StatusServed      = "Served"
	StatusCancelled   = "Cancelled"
	StatusUnavailable = "Unavailable"
	StatusNotPickedUp = "NotPickedUp"
)

type OrderStatus struct {
	gorm.Model
	StatusName string `gorm:"uniqueIndex;not null" json:"statusName"`

	Orders []Order `json:"-"`
}
