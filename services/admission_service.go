package services

import (
	"errors"
	"fmt"
	"strings"

	"backend/entity"
	"backend/pkg/clock"
	"backend/repository"

	"gorm.io/gorm"
)

// AdmissionService gates same-day ("instant") orders: one meal per user
// per period per day, and only while the quota pre-check passes. The
// check-then-create sequence is not atomic; the unique instant_key
// column is the commit-time arbiter for the race.
type AdmissionService struct {
	Orders *OrderService
	Groups *repository.GroupRepository
}

func NewAdmissionService(orders *OrderService, groups *repository.GroupRepository) *AdmissionService {
	return &AdmissionService{Orders: orders, Groups: groups}
}

func instantKey(userID uint, date string, period entity.ServicePeriod) string {
	return fmt.Sprintf("u:%d:%s:%s", userID, date, period)
}

// isDuplicateKey covers both gorm's translated error and the raw sqlite
// message, since not every code path runs with translation enabled.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateInstantOrder admits a same-day order for an individual user.
// Quantity is always 1 for this client kind.
func (s *AdmissionService) CreateInstantOrder(userID, menuID uint, period entity.ServicePeriod) (*CreateOrderRes, error) {
	if !period.Valid() {
		return nil, errValidation("period must be DAY or NIGHT")
	}
	if userID == 0 {
		return nil, errValidation("userId is required")
	}

	now := s.Orders.Clock.Now()
	today := clock.DateOf(now)

	menu, err := s.Orders.MenuRepo.Get(menuID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("menu")
		}
		return nil, err
	}
	if !clock.SameDate(menu.ServeOn, today) {
		return nil, errNotEligible("menu is not published for today")
	}

	dup, err := s.Orders.Repo.HasActiveInstantOrder(userID, today, period, s.Orders.Status.Cancelled)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, errNotEligible("duplicate order for that period")
	}

	if err := s.Orders.VerifyQuotaAvailable(menuID, period); err != nil {
		return nil, err
	}

	key := instantKey(userID, today.Format("2006-01-02"), period)
	unit := menu.UnitPrice()
	order := entity.Order{
		ConsumeOn:     today,
		Period:        period,
		Quantity:      1,
		UnitPrice:     unit,
		Total:         unit,
		Instant:       true,
		OrderStatusID: s.Orders.Status.PreOrdered,
		DailyMenuID:   menu.ID,
		UserID:        &userID,
		InstantKey:    &key,
	}

	err = s.Orders.DB.Transaction(func(tx *gorm.DB) error {
		return s.Orders.Repo.Create(tx, &order)
	})
	if err != nil {
		if isDuplicateKey(err) {
			// lost the commit race: same outcome as the pre-check
			return nil, errNotEligible("duplicate order for that period")
		}
		return nil, err
	}

	notify(s.Orders.Notifier, fmt.Sprintf("instant order %d created (%s)", order.ID, period))
	return &CreateOrderRes{ID: order.ID, Total: order.Total}, nil
}

type GroupInstantOrderReq struct {
	GroupID  uint                 `json:"groupId"`
	MenuID   uint                 `json:"menuId"`
	Period   entity.ServicePeriod `json:"period"`
	Quantity int                  `json:"quantity"`
}

// CreateGroupInstantOrder admits a same-day group order with an
// explicit quantity, checked against the group's daily allowance
// instead of the per-menu Day/Night counters.
func (s *AdmissionService) CreateGroupInstantOrder(req *GroupInstantOrderReq) (*CreateOrderRes, error) {
	if !req.Period.Valid() {
		return nil, errValidation("period must be DAY or NIGHT")
	}
	if req.Quantity < 1 {
		return nil, errValidation("quantity must be at least 1")
	}

	now := s.Orders.Clock.Now()
	today := clock.DateOf(now)

	group, err := s.Groups.Get(req.GroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("group")
		}
		return nil, err
	}
	menu, err := s.Orders.MenuRepo.Get(req.MenuID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("menu")
		}
		return nil, err
	}
	if !clock.SameDate(menu.ServeOn, today) {
		return nil, errNotEligible("menu is not published for today")
	}

	used, err := s.Orders.Repo.GroupQuantityOn(group.ID, today, s.Orders.Status.Cancelled)
	if err != nil {
		return nil, err
	}
	if used+req.Quantity > group.DailyAllowance {
		return nil, errNotEligible("group daily allowance exhausted")
	}

	unit := menu.UnitPrice()
	order := entity.Order{
		ConsumeOn:     today,
		Period:        req.Period,
		Quantity:      req.Quantity,
		UnitPrice:     unit,
		Total:         unit * int64(req.Quantity),
		Instant:       true,
		OrderStatusID: s.Orders.Status.PreOrdered,
		DailyMenuID:   menu.ID,
		GroupID:       &group.ID,
	}

	err = s.Orders.DB.Transaction(func(tx *gorm.DB) error {
		return s.Orders.Repo.Create(tx, &order)
	})
	if err != nil {
		return nil, err
	}

	notify(s.Orders.Notifier, fmt.Sprintf("group %s instant order %d created", group.Name, order.ID))
	return &CreateOrderRes{ID: order.ID, Total: order.Total}, nil
}

type VisitorInstantOrderReq struct {
	VisitorName  string               `json:"visitorName"`
	VisitorPhone string               `json:"visitorPhone"`
	MenuID       uint                 `json:"menuId"`
	Period       entity.ServicePeriod `json:"period"`
	Quantity     int                  `json:"quantity"`
}

// CreateVisitorInstantOrder admits a walk-in visitor order with an
// explicit quantity, still subject to the live quota pre-check.
func (s *AdmissionService) CreateVisitorInstantOrder(req *VisitorInstantOrderReq) (*CreateOrderRes, error) {
	if req.VisitorName == "" {
		return nil, errValidation("visitorName is required")
	}
	if !req.Period.Valid() {
		return nil, errValidation("period must be DAY or NIGHT")
	}
	if req.Quantity < 1 {
		return nil, errValidation("quantity must be at least 1")
	}

	now := s.Orders.Clock.Now()
	today := clock.DateOf(now)

	menu, err := s.Orders.MenuRepo.Get(req.MenuID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("menu")
		}
		return nil, err
	}
	if !clock.SameDate(menu.ServeOn, today) {
		return nil, errNotEligible("menu is not published for today")
	}
	if err := s.Orders.VerifyQuotaAvailable(menu.ID, req.Period); err != nil {
		return nil, err
	}

	unit := menu.UnitPrice()
	order := entity.Order{
		ConsumeOn:     today,
		Period:        req.Period,
		Quantity:      req.Quantity,
		UnitPrice:     unit,
		Total:         unit * int64(req.Quantity),
		Instant:       true,
		OrderStatusID: s.Orders.Status.PreOrdered,
		DailyMenuID:   menu.ID,
		VisitorName:   req.VisitorName,
		VisitorPhone:  req.VisitorPhone,
	}

	err = s.Orders.DB.Transaction(func(tx *gorm.DB) error {
		return s.Orders.Repo.Create(tx, &order)
	})
	if err != nil {
		return nil, err
	}

	notify(s.Orders.Notifier, fmt.Sprintf("visitor instant order %d created", order.ID))
	return &CreateOrderRes{ID: order.ID, Total: order.Total}, nil
}
