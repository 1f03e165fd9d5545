package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

type ConsumptionRepository struct {
	DB *gorm.DB
}

func NewConsumptionRepository(db *gorm.DB) *ConsumptionRepository {
	return &ConsumptionRepository{DB: db}
}

// CreateIfAbsent appends the record unless one already exists for the
// order. The unique index on order_id is the hard backstop.
func (r *ConsumptionRepository) CreateIfAbsent(tx *gorm.DB, rec *entity.ConsumptionRecord) error {
	var cnt int64
	if err := tx.Model(&entity.ConsumptionRecord{}).
		Where("order_id = ?", rec.OrderID).Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return nil
	}
	return tx.Create(rec).Error
}

func (r *ConsumptionRepository) CountForOrder(orderID uint) (int64, error) {
	var cnt int64
	err := r.DB.Model(&entity.ConsumptionRecord{}).
		Where("order_id = ?", orderID).Count(&cnt).Error
	return cnt, err
}
