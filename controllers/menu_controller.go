package controllers

import (
	"strconv"
	"time"

	"backend/pkg/clock"
	"backend/pkg/resp"
	"backend/repository"

	"github.com/gin-gonic/gin"
)

type MenuController struct {
	Repo *repository.MenuRepository
	Clk  clock.Clock
}

func NewMenuController(repo *repository.MenuRepository, clk clock.Clock) *MenuController {
	return &MenuController{Repo: repo, Clk: clk}
}

// GET /menus?date=2006-01-02 (defaults to today)
func (mc *MenuController) List(c *gin.Context) {
	date := clock.DateOf(mc.Clk.Now())
	if s := c.Query("date"); s != "" {
		parsed, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			resp.BadRequest(c, "date must be yyyy-mm-dd"); return
		}
		date = parsed
	}

	items, err := mc.Repo.ListByDate(date)
	if err != nil {
		resp.ServerError(c, err); return
	}
	resp.OK(c, gin.H{"items": items})
}

type UpdateMarginReq struct {
	DayMargin   *int `json:"dayMargin"`
	NightMargin *int `json:"nightMargin"`
}

// PATCH /admin/menus/:id/margin — administrative margin edit. Unset
// fields keep their current value; negatives clamp to zero.
func (mc *MenuController) UpdateMargin(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req UpdateMarginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error()); return
	}

	menu, err := mc.Repo.Get(uint(id))
	if err != nil {
		resp.NotFound(c, "menu not found"); return
	}

	day, night := menu.DayMargin, menu.NightMargin
	if req.DayMargin != nil {
		day = *req.DayMargin
	}
	if req.NightMargin != nil {
		night = *req.NightMargin
	}

	if err := mc.Repo.UpdateMargins(menu.ID, day, night); err != nil {
		resp.ServerError(c, err); return
	}
	resp.OK(c, gin.H{"id": menu.ID, "dayMargin": max(day, 0), "nightMargin": max(night, 0)})
}
