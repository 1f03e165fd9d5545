package services

import (
	"errors"
	"fmt"
	"time"

	"backend/entity"
	"backend/pkg/clock"
	"backend/repository"

	"gorm.io/gorm"
)

// ErrForbidden: the actor does not own the order and is not an admin.
var ErrForbidden = errors.New("forbidden")

type StatusIDs struct {
	PreOrdered  uint
	Served      uint
	Cancelled   uint
	Unavailable uint
	NotPickedUp uint
}

// OrderService owns the order lifecycle: creation windows, the
// mutability rules, and the serve-time quota decrement (quota_ledger.go).
type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	MenuRepo *repository.MenuRepository
	ConsRepo *repository.ConsumptionRepository

	Clock    clock.Clock
	Notifier Notifier
	Status   StatusIDs
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	menuRepo *repository.MenuRepository,
	consRepo *repository.ConsumptionRepository,
	clk clock.Clock,
	notifier Notifier,
) *OrderService {
	s := &OrderService{DB: db, Repo: repo, MenuRepo: menuRepo, ConsRepo: consRepo, Clock: clk, Notifier: notifier}

	if id, err := repo.GetStatusIDByName(entity.StatusPreOrdered); err == nil { s.Status.PreOrdered = id }
	if id, err := repo.GetStatusIDByName(entity.StatusServed); err == nil { s.Status.Served = id }
	if id, err := repo.GetStatusIDByName(entity.StatusCancelled); err == nil { s.Status.Cancelled = id }
	if id, err := repo.GetStatusIDByName(entity.StatusUnavailable); err == nil { s.Status.Unavailable = id }
	if id, err := repo.GetStatusIDByName(entity.StatusNotPickedUp); err == nil { s.Status.NotPickedUp = id }

	return s
}

// ----- DTOs from Controller -----

type CreateAdvanceOrderReq struct {
	DailyMenuID uint                 `json:"dailyMenuId"`
	ConsumeOn   time.Time            `json:"consumeOn"`
	Period      entity.ServicePeriod `json:"period"`
	Quantity    int                  `json:"quantity"`

	// exactly one client kind
	UserID       *uint  `json:"userId"`
	GroupID      *uint  `json:"groupId"`
	VisitorName  string `json:"visitorName"`
	VisitorPhone string `json:"visitorPhone"`
}

type CreateOrderRes struct {
	ID    uint  `json:"id"`
	Total int64 `json:"total"`
}

func clientKindCount(userID, groupID *uint, visitorName string) int {
	n := 0
	if userID != nil {
		n++
	}
	if groupID != nil {
		n++
	}
	if visitorName != "" {
		n++
	}
	return n
}

// ----- Create (advance) -----

// CreateAdvanceOrder admits an order for the next-week window. This is
// stricter than CanModify on purpose: the date must land exactly inside
// the window, and an individual user gets one active order per date.
func (s *OrderService) CreateAdvanceOrder(req *CreateAdvanceOrderReq) (*CreateOrderRes, error) {
	if req.Quantity < 1 {
		return nil, errValidation("quantity must be at least 1")
	}
	if !req.Period.Valid() {
		return nil, errValidation("period must be DAY or NIGHT")
	}
	if clientKindCount(req.UserID, req.GroupID, req.VisitorName) != 1 {
		return nil, errValidation("exactly one of userId, groupId or visitorName is required")
	}

	now := s.Clock.Now()
	date := clock.DateOf(req.ConsumeOn)

	if !clock.InNextWeek(date, now) {
		return nil, errNotEligible("consumption date is outside the advance ordering window")
	}

	menu, err := s.MenuRepo.Get(req.DailyMenuID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("menu")
		}
		return nil, err
	}
	if !clock.SameDate(menu.ServeOn, date) {
		return nil, errValidation("menu is not published for that date")
	}

	if req.UserID != nil {
		dup, err := s.Repo.HasActiveOrderOn(*req.UserID, date, s.Status.Cancelled)
		if err != nil {
			return nil, err
		}
		if dup {
			return nil, errNotEligible("duplicate order for that date")
		}
	}

	unit := menu.UnitPrice()
	order := entity.Order{
		ConsumeOn:     date,
		Period:        req.Period,
		Quantity:      req.Quantity,
		UnitPrice:     unit,
		Total:         unit * int64(req.Quantity),
		OrderStatusID: s.Status.PreOrdered,
		DailyMenuID:   menu.ID,
		UserID:        req.UserID,
		GroupID:       req.GroupID,
		VisitorName:   req.VisitorName,
		VisitorPhone:  req.VisitorPhone,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		return s.Repo.Create(tx, &order)
	})
	if err != nil {
		return nil, err
	}

	notify(s.Notifier, fmt.Sprintf("order %d created for %s (%s)", order.ID, date.Format("2006-01-02"), order.Period))
	return &CreateOrderRes{ID: order.ID, Total: order.Total}, nil
}

// ----- Mutability (window rules) -----

// CanModify decides whether an order may still be changed or cancelled.
// A served order is locked forever, for every actor; admins bypass the
// cutoffs only.
func (s *OrderService) CanModify(o *entity.Order, role entity.ActorRole, now time.Time) bool {
	if o.OrderStatusID == s.Status.Served {
		return false
	}
	if role.IsAdministrator() {
		return true
	}

	if clock.InNextWeek(o.ConsumeOn, now) {
		// next-week orders share one cutoff: Sunday noon before the window
		return !now.After(clock.NextWeekCutoff(now))
	}

	// rolling cutoff: noon the day before consumption, and never for
	// dates already in the past
	if clock.DateOf(o.ConsumeOn).Before(clock.DateOf(now)) {
		return false
	}
	return !now.After(clock.DayBeforeNoon(o.ConsumeOn))
}

// CanModifyByID is the controller entry point.
func (s *OrderService) CanModifyByID(orderID uint, role entity.ActorRole) (bool, error) {
	o, err := s.Repo.Get(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, errNotFound("order")
		}
		return false, err
	}
	return s.CanModify(o, role, s.Clock.Now()), nil
}

// ownedBy: non-admin actors may only touch their own orders.
func ownedBy(o *entity.Order, actorID uint, role entity.ActorRole) bool {
	if role.IsAdministrator() {
		return true
	}
	return o.UserID != nil && *o.UserID == actorID
}

// ----- Edit -----

type UpdateOrderReq struct {
	Quantity *int                  `json:"quantity"`
	Period   *entity.ServicePeriod `json:"period"`
}

func (s *OrderService) Update(orderID, actorID uint, role entity.ActorRole, req *UpdateOrderReq) error {
	o, err := s.Repo.Get(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound("order")
		}
		return err
	}
	if !ownedBy(o, actorID, role) {
		return ErrForbidden
	}
	if !s.CanModify(o, role, s.Clock.Now()) {
		return errNotEligible("past cutoff")
	}

	updates := map[string]any{}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return errValidation("quantity must be at least 1")
		}
		updates["quantity"] = *req.Quantity
		updates["total"] = o.UnitPrice * int64(*req.Quantity)
	}
	if req.Period != nil {
		if !req.Period.Valid() {
			return errValidation("period must be DAY or NIGHT")
		}
		updates["period"] = *req.Period
	}
	if len(updates) == 0 {
		return errValidation("nothing to update")
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.UpdateGuarded(tx, o.ID, o.Version, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return errConflict("order was modified concurrently")
		}
		return nil
	})
	if err != nil {
		return err
	}

	notify(s.Notifier, fmt.Sprintf("order %d updated", o.ID))
	return nil
}

// ----- Cancel -----

func (s *OrderService) Cancel(orderID, actorID uint, role entity.ActorRole) error {
	o, err := s.Repo.Get(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound("order")
		}
		return err
	}
	if !ownedBy(o, actorID, role) {
		return ErrForbidden
	}
	if !s.CanModify(o, role, s.Clock.Now()) {
		return errNotEligible("past cutoff")
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		affected, err := s.Repo.UpdateStatusGuard(tx, o.ID, s.Status.PreOrdered, s.Status.Cancelled)
		if err != nil {
			return err
		}
		if affected == 0 {
			return errConflict("order is no longer pre-ordered")
		}
		// release the instant uniqueness slot
		return s.Repo.ClearInstantKey(tx, o.ID)
	})
	if err != nil {
		return err
	}

	notify(s.Notifier, fmt.Sprintf("order %d cancelled", o.ID))
	return nil
}

// MarkUnavailable closes an order the kitchen could not honor
// (manager/admin action, not subject to the user cutoffs).
func (s *OrderService) MarkUnavailable(orderID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		o, err := s.Repo.GetTx(tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound("order")
			}
			return err
		}
		affected, err := s.Repo.UpdateStatusGuard(tx, o.ID, s.Status.PreOrdered, s.Status.Unavailable)
		if err != nil {
			return err
		}
		if affected == 0 {
			return errConflict("order is no longer pre-ordered")
		}
		return s.Repo.ClearInstantKey(tx, o.ID)
	})
}

// ----- Delete (soft) -----

func (s *OrderService) Delete(orderID, actorID uint, role entity.ActorRole) error {
	o, err := s.Repo.Get(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errNotFound("order")
		}
		return err
	}
	if !ownedBy(o, actorID, role) {
		return ErrForbidden
	}
	if !s.CanModify(o, role, s.Clock.Now()) {
		return errNotEligible("past cutoff")
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.ClearInstantKey(tx, o.ID); err != nil {
			return err
		}
		return s.Repo.SoftDelete(tx, o.ID)
	})
}

// ----- List & Detail -----

func (s *OrderService) ListForUser(userID uint, limit int) ([]repository.OrderSummary, error) {
	return s.Repo.ListForUser(userID, limit)
}

func (s *OrderService) Detail(orderID, actorID uint, role entity.ActorRole) (*entity.Order, error) {
	o, err := s.Repo.Get(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("order")
		}
		return nil, err
	}
	if !ownedBy(o, actorID, role) {
		return nil, ErrForbidden
	}
	return o, nil
}
