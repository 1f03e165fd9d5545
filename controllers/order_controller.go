package controllers

import (
	"strconv"
	"time"

	"backend/entity"
	"backend/pkg/resp"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Orders    *services.OrderService
	Admission *services.AdmissionService
}

func NewOrderController(orders *services.OrderService, admission *services.AdmissionService) *OrderController {
	return &OrderController{Orders: orders, Admission: admission}
}

// ===== Create (advance) =====

type CreateAdvanceOrderIn struct {
	DailyMenuID  uint                 `json:"dailyMenuId" binding:"required"`
	ConsumeOn    string               `json:"consumeOn" binding:"required"`
	Period       entity.ServicePeriod `json:"period" binding:"required"`
	Quantity     int                  `json:"quantity" binding:"required,min=1"`
	GroupID      *uint                `json:"groupId"`
	VisitorName  string               `json:"visitorName"`
	VisitorPhone string               `json:"visitorPhone"`
}

// POST /orders — advance order for next week. Without groupId or
// visitorName the order is for the authenticated user.
func (oc *OrderController) Create(c *gin.Context) {
	var in CreateAdvanceOrderIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error()); return
	}

	date, err := time.ParseInLocation("2006-01-02", in.ConsumeOn, time.Local)
	if err != nil {
		resp.BadRequest(c, "consumeOn must be yyyy-mm-dd"); return
	}

	req := services.CreateAdvanceOrderReq{
		DailyMenuID:  in.DailyMenuID,
		ConsumeOn:    date,
		Period:       in.Period,
		Quantity:     in.Quantity,
		GroupID:      in.GroupID,
		VisitorName:  in.VisitorName,
		VisitorPhone: in.VisitorPhone,
	}
	if in.GroupID == nil && in.VisitorName == "" {
		uid := utils.CurrentUserID(c)
		req.UserID = &uid
	}

	out, err := oc.Orders.CreateAdvanceOrder(&req)
	if err != nil {
		fail(c, err); return
	}
	resp.Created(c, out)
}

// ===== Create (instant) =====

type CreateInstantOrderIn struct {
	MenuID uint                 `json:"menuId" binding:"required"`
	Period entity.ServicePeriod `json:"period" binding:"required"`
}

// POST /orders/instant — same-day order for the authenticated user
func (oc *OrderController) CreateInstant(c *gin.Context) {
	var in CreateInstantOrderIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error()); return
	}

	out, err := oc.Admission.CreateInstantOrder(utils.CurrentUserID(c), in.MenuID, in.Period)
	if err != nil {
		fail(c, err); return
	}
	resp.Created(c, out)
}

// POST /counter/orders/instant/group (manager/admin)
func (oc *OrderController) CreateGroupInstant(c *gin.Context) {
	var in services.GroupInstantOrderReq
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error()); return
	}
	out, err := oc.Admission.CreateGroupInstantOrder(&in)
	if err != nil {
		fail(c, err); return
	}
	resp.Created(c, out)
}

// POST /counter/orders/instant/visitor (manager/admin)
func (oc *OrderController) CreateVisitorInstant(c *gin.Context) {
	var in services.VisitorInstantOrderReq
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error()); return
	}
	out, err := oc.Admission.CreateVisitorInstantOrder(&in)
	if err != nil {
		fail(c, err); return
	}
	resp.Created(c, out)
}

// ===== My Orders =====

// GET /profile/orders
func (oc *OrderController) ListForMe(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := oc.Orders.ListForUser(utils.CurrentUserID(c), limit)
	if err != nil {
		resp.ServerError(c, err); return
	}
	resp.OK(c, gin.H{"items": items})
}

// GET /orders/:id
func (oc *OrderController) Detail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	o, err := oc.Orders.Detail(uint(id), utils.CurrentUserID(c), utils.CurrentRole(c))
	if err != nil {
		fail(c, err); return
	}
	resp.OK(c, o)
}

// GET /orders/:id/modifiable
func (oc *OrderController) Modifiable(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	ok, err := oc.Orders.CanModifyByID(uint(id), utils.CurrentRole(c))
	if err != nil {
		fail(c, err); return
	}
	resp.OK(c, gin.H{"modifiable": ok})
}

// ===== Mutations behind the window rule =====

// PATCH /orders/:id
func (oc *OrderController) Update(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var in services.UpdateOrderReq
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error()); return
	}

	if err := oc.Orders.Update(uint(id), utils.CurrentUserID(c), utils.CurrentRole(c), &in); err != nil {
		fail(c, err); return
	}
	resp.OK(c, gin.H{"id": id})
}

// POST /orders/:id/cancel
func (oc *OrderController) Cancel(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	if err := oc.Orders.Cancel(uint(id), utils.CurrentUserID(c), utils.CurrentRole(c)); err != nil {
		fail(c, err); return
	}
	resp.OK(c, gin.H{"id": id})
}

// DELETE /orders/:id (soft)
func (oc *OrderController) Delete(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	if err := oc.Orders.Delete(uint(id), utils.CurrentUserID(c), utils.CurrentRole(c)); err != nil {
		fail(c, err); return
	}
	resp.OK(c, gin.H{"id": id})
}

// ===== Service-side transitions (manager/admin) =====

// PATCH /counter/orders/:id/served
func (oc *OrderController) MarkServed(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	if err := oc.Orders.MarkServed(uint(id)); err != nil {
		fail(c, err); return
	}
	resp.OK(c, gin.H{"id": id})
}

// PATCH /counter/orders/:id/unavailable
func (oc *OrderController) MarkUnavailable(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	if err := oc.Orders.MarkUnavailable(uint(id)); err != nil {
		fail(c, err); return
	}
	resp.OK(c, gin.H{"id": id})
}

// GET /counter/quota?menuId=&period=DAY — serve-time pre-check
func (oc *OrderController) QuotaCheck(c *gin.Context) {
	menuID, _ := strconv.Atoi(c.Query("menuId"))
	period := entity.ServicePeriod(c.DefaultQuery("period", string(entity.PeriodDay)))

	if err := oc.Orders.VerifyQuotaAvailable(uint(menuID), period); err != nil {
		fail(c, err); return
	}
	resp.OK(c, gin.H{"available": true})
}
