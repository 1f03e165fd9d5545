package entity

import (
	"time"

	"gorm.io/gorm"
)

// Record origins: a meal that was actually served vs. a no-show that
// was billed at reconciliation.
const (
	RecordOriginServed  = "served"
	RecordOriginBilling = "billing"
)

// ConsumptionRecord is the append-only proof-of-service fact consumed
// by downstream reporting. At most one record exists per order.
type ConsumptionRecord struct {
	gorm.Model
	OrderID uint  `gorm:"uniqueIndex;not null" json:"orderId"`
	UserID  *uint `json:"userId,omitempty"`
	GroupID *uint `json:"groupId,omitempty"`

	EatenOn  time.Time `gorm:"index" json:"eatenOn"`
	DishName string    `json:"dishName"`
	Quantity int       `json:"quantity"`
	Origin   string    `gorm:"size:16;not null" json:"origin"`
}
