package repository

import (
	"time"

	"backend/entity"

	"gorm.io/gorm"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

func (r *MenuRepository) Get(menuID uint) (*entity.DailyMenu, error) {
	var m entity.DailyMenu
	if err := r.DB.First(&m, menuID).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MenuRepository) GetTx(tx *gorm.DB, menuID uint) (*entity.DailyMenu, error) {
	var m entity.DailyMenu
	if err := tx.First(&m, menuID).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MenuRepository) ListByDate(date time.Time) ([]entity.DailyMenu, error) {
	var out []entity.DailyMenu
	err := r.DB.Where("serve_on = ?", date).Order("id ASC").Find(&out).Error
	return out, err
}

// ApplyCounters writes the post-decrement counter pair for one bucket,
// guarded by the row-stamp read at the start of the serve transaction.
func (r *MenuRepository) ApplyCounters(tx *gorm.DB, menuID, version uint, bucket entity.ServicePeriod, primary, margin int) (int64, error) {
	updates := map[string]any{"version": gorm.Expr("version + 1")}
	if bucket == entity.PeriodNight {
		updates["night_quota"] = primary
		updates["night_margin"] = margin
	} else {
		updates["day_quota"] = primary
		updates["day_margin"] = margin
	}
	res := tx.Model(&entity.DailyMenu{}).
		Where("id = ? AND version = ?", menuID, version).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// UpdateMargins is the administrative margin edit. Negative inputs are
// clamped by the entity hook semantics; we clamp here as well since
// this path bypasses the struct hook.
func (r *MenuRepository) UpdateMargins(menuID uint, dayMargin, nightMargin int) error {
	if dayMargin < 0 {
		dayMargin = 0
	}
	if nightMargin < 0 {
		nightMargin = 0
	}
	return r.DB.Model(&entity.DailyMenu{}).
		Where("id = ?", menuID).
		Updates(map[string]any{
			"day_margin":   dayMargin,
			"night_margin": nightMargin,
			"version":      gorm.Expr("version + 1"),
		}).Error
}
