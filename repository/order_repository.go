package repository

import (
	"time"

	"backend/entity"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) Create(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) Get(orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := r.DB.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetTx(tx *gorm.DB, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := tx.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// GET /profile/orders
type OrderSummary struct {
	ID            uint                 `json:"id"`
	ConsumeOn     time.Time            `json:"consumeOn"`
	Period        entity.ServicePeriod `json:"period"`
	Quantity      int                  `json:"quantity"`
	Total         int64                `json:"total"`
	Instant       bool                 `json:"instant"`
	OrderStatusID uint                 `json:"orderStatusId"`
	CreatedAt     time.Time            `json:"createdAt"`
}

func (r *OrderRepository) ListForUser(userID uint, limit int) ([]OrderSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []OrderSummary
	err := r.DB.Model(&entity.Order{}).
		Select("id, consume_on, period, quantity, total, instant, order_status_id, created_at").
		Where("user_id = ?", userID).
		Order("id DESC").Limit(limit).
		Scan(&out).Error
	return out, err
}

// ---------------- Guarded updates ----------------

// UpdateStatusGuard flips the status only when the order is still in
// the expected state. Zero rows affected means somebody else won.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID, fromID, toID uint) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND order_status_id = ?", orderID, fromID).
		Updates(map[string]any{
			"order_status_id": toID,
			"version":         gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}

// MarkServedGuard is UpdateStatusGuard plus the served timestamp.
func (r *OrderRepository) MarkServedGuard(tx *gorm.DB, orderID, fromID, toID uint, servedAt time.Time) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND order_status_id = ?", orderID, fromID).
		Updates(map[string]any{
			"order_status_id": toID,
			"served_at":       servedAt,
			"version":         gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}

// BillGuard closes out a stale pre-order with its computed charge.
func (r *OrderRepository) BillGuard(tx *gorm.DB, orderID, fromID, toID uint, amount int64) (int64, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND order_status_id = ? AND charged_amount IS NULL", orderID, fromID).
		Updates(map[string]any{
			"order_status_id": toID,
			"charged_amount":  amount,
			"instant_key":     nil,
			"version":         gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}

// UpdateGuarded applies field edits only if the row-stamp still matches.
func (r *OrderRepository) UpdateGuarded(tx *gorm.DB, orderID uint, version uint, updates map[string]any) (int64, error) {
	updates["version"] = gorm.Expr("version + 1")
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND version = ?", orderID, version).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// ClearInstantKey releases the per-user/per-period uniqueness slot.
func (r *OrderRepository) ClearInstantKey(tx *gorm.DB, orderID uint) error {
	return tx.Model(&entity.Order{}).
		Where("id = ?", orderID).
		Update("instant_key", nil).Error
}

func (r *OrderRepository) SoftDelete(tx *gorm.DB, orderID uint) error {
	return tx.Delete(&entity.Order{}, orderID).Error
}

// ---------------- Admission / eligibility lookups ----------------

// HasActiveOrderOn: at most one non-cancelled order per user per
// consumption date for the individual client kind (advance rule).
func (r *OrderRepository) HasActiveOrderOn(userID uint, date time.Time, cancelledID uint) (bool, error) {
	var cnt int64
	err := r.DB.Model(&entity.Order{}).
		Where("user_id = ? AND consume_on = ? AND order_status_id <> ?", userID, date, cancelledID).
		Count(&cnt).Error
	return cnt > 0, err
}

// HasActiveInstantOrder: one instant meal per user per period per day.
func (r *OrderRepository) HasActiveInstantOrder(userID uint, date time.Time, period entity.ServicePeriod, cancelledID uint) (bool, error) {
	var cnt int64
	err := r.DB.Model(&entity.Order{}).
		Where("user_id = ? AND consume_on = ? AND period = ? AND instant = ? AND order_status_id <> ?",
			userID, date, period, true, cancelledID).
		Count(&cnt).Error
	return cnt > 0, err
}

// GroupQuantityOn sums the non-cancelled quantities a group has already
// reserved for one date, to check against its daily allowance.
func (r *OrderRepository) GroupQuantityOn(groupID uint, date time.Time, cancelledID uint) (int, error) {
	var row struct{ Qty *int }
	err := r.DB.Model(&entity.Order{}).
		Select("SUM(quantity) AS qty").
		Where("group_id = ? AND consume_on = ? AND order_status_id <> ?", groupID, date, cancelledID).
		Scan(&row).Error
	if err != nil || row.Qty == nil {
		return 0, err
	}
	return *row.Qty, nil
}

// ListStalePreOrdered returns pre-ordered orders whose consumption date
// is strictly before the given day — the reconciliation work list.
func (r *OrderRepository) ListStalePreOrdered(before time.Time, preOrderedID uint) ([]entity.Order, error) {
	var out []entity.Order
	err := r.DB.
		Where("order_status_id = ? AND consume_on < ?", preOrderedID, before).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

// GetStatusIDByName resolves a seeded status row.
func (r *OrderRepository) GetStatusIDByName(name string) (uint, error) {
	var row struct{ ID uint }
	err := r.DB.Model(&entity.OrderStatus{}).
		Select("id").Where("status_name = ?", name).First(&row).Error
	return row.ID, err
}
