package controllers

import (
	"time"

	"backend/pkg/resp"
	"backend/services"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	Billing *services.BillingService
}

func NewAdminController(billing *services.BillingService) *AdminController {
	return &AdminController{Billing: billing}
}

type ReconcileIn struct {
	// end of the period to close out, yyyy-mm-dd; orders consumed
	// strictly before this day are candidates
	PeriodEnd string `json:"periodEnd" binding:"required"`
}

// POST /admin/reconcile
func (ac *AdminController) Reconcile(c *gin.Context) {
	var in ReconcileIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error()); return
	}

	periodEnd, err := time.ParseInLocation("2006-01-02", in.PeriodEnd, time.Local)
	if err != nil {
		resp.BadRequest(c, "periodEnd must be yyyy-mm-dd"); return
	}

	res, err := ac.Billing.ReconcileUnconsumed(periodEnd)
	if err != nil {
		resp.ServerError(c, err); return
	}
	resp.OK(c, res)
}
