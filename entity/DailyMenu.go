package entity

import (
	"time"

	"gorm.io/gorm"
)

// DailyMenu is one published offering for one calendar date. The four
// quota counters are the quota ledger: they are only ever touched by
// the serve-time decrement and by admin margin edits, and never go
// negative. Version is the optimistic row-stamp guarding the decrement.
type DailyMenu struct {
	gorm.Model
	ServeOn time.Time `gorm:"index;not null" json:"serveOn"`

	MainDish string `json:"mainDish"`
	SideDish string `json:"sideDish"`
	Dessert  string `json:"dessert"`

	// price tier: Improved menus bill at ImprovedPrice
	Improved      bool  `json:"improved"`
	Price         int64 `json:"price"`
	ImprovedPrice int64 `json:"improvedPrice"`

	DayQuota    int `gorm:"not null;default:0" json:"dayQuota"`
	NightQuota  int `gorm:"not null;default:0" json:"nightQuota"`
	DayMargin   int `gorm:"not null;default:0" json:"dayMargin"`
	NightMargin int `gorm:"not null;default:0" json:"nightMargin"`

	Version uint `gorm:"not null;default:0" json:"-"`

	Orders []Order `json:"-"`
}

// UnitPrice returns the billing price for the menu's tier.
func (m *DailyMenu) UnitPrice() int64 {
	if m.Improved {
		return m.ImprovedPrice
	}
	return m.Price
}

// Counters returns the primary/margin pair for one bucket.
func (m *DailyMenu) Counters(p ServicePeriod) (primary, margin int) {
	if p == PeriodNight {
		return m.NightQuota, m.NightMargin
	}
	return m.DayQuota, m.DayMargin
}

// BeforeSave normalizes the counters: absent or negative values are
// written as zero so the decrement never has to null-check.
func (m *DailyMenu) BeforeSave(tx *gorm.DB) error {
	if m.DayQuota < 0 {
		m.DayQuota = 0
	}
	if m.NightQuota < 0 {
		m.NightQuota = 0
	}
	if m.DayMargin < 0 {
		m.DayMargin = 0
	}
	if m.NightMargin < 0 {
		m.NightMargin = 0
	}
	return nil
}
