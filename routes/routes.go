package routes

import (
	"backend/configs"
	"backend/controllers"
	"backend/entity"
	"backend/middlewares"
	"backend/pkg/clock"
	"backend/repository"
	"backend/services"
	"backend/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *configs.Config, hub *ws.NotifyHub) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	clk := clock.Real()

	// Repositories
	orderRepo := repository.NewOrderRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	consRepo := repository.NewConsumptionRepository(db)
	groupRepo := repository.NewGroupRepository(db)

	// Services
	orderSvc := services.NewOrderService(db, orderRepo, menuRepo, consRepo, clk, hub)
	admissionSvc := services.NewAdmissionService(orderSvc, groupRepo)
	billingSvc := services.NewBillingService(db, orderSvc)

	// Controllers
	authCtrl := controllers.NewAuthController(db, cfg)
	menuCtrl := controllers.NewMenuController(menuRepo, clk)
	orderCtrl := controllers.NewOrderController(orderSvc, admissionSvc)
	adminCtrl := controllers.NewAdminController(billingSvc)

	manager := string(entity.RoleManager)
	admin := string(entity.RoleAdmin)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
	}
	aAuth := a.Group("", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		aAuth.GET("/me", authCtrl.Me)
	}

	// Menus (any authenticated user)
	r.GET("/menus", middlewares.AuthMiddleware(cfg.JWTSecret), menuCtrl.List)

	// Orders (user)
	u := r.Group("/", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		u.POST("/orders", orderCtrl.Create)
		u.POST("/orders/instant", orderCtrl.CreateInstant)
		u.GET("/orders/:id", orderCtrl.Detail)
		u.GET("/orders/:id/modifiable", orderCtrl.Modifiable)
		u.PATCH("/orders/:id", orderCtrl.Update)
		u.POST("/orders/:id/cancel", orderCtrl.Cancel)
		u.DELETE("/orders/:id", orderCtrl.Delete)
	}

	// Profile
	profile := r.Group("/profile", middlewares.AuthMiddleware(cfg.JWTSecret))
	{
		profile.GET("/orders", orderCtrl.ListForMe)
	}

	// Counter staff (manager/admin)
	counter := r.Group("/counter", middlewares.AuthMiddleware(cfg.JWTSecret, manager, admin))
	{
		counter.GET("/quota", orderCtrl.QuotaCheck)
		counter.PATCH("/orders/:id/served", orderCtrl.MarkServed)
		counter.PATCH("/orders/:id/unavailable", orderCtrl.MarkUnavailable)
		counter.POST("/orders/instant/group", orderCtrl.CreateGroupInstant)
		counter.POST("/orders/instant/visitor", orderCtrl.CreateVisitorInstant)
	}

	// Admin (admin only)
	adm := r.Group("/admin", middlewares.AuthMiddleware(cfg.JWTSecret, admin))
	{
		adm.PATCH("/menus/:id/margin", menuCtrl.UpdateMargin)
		adm.POST("/reconcile", adminCtrl.Reconcile)
	}

	// Notification feed
	r.GET("/ws/orders", middlewares.WSAuthMiddleware(cfg.JWTSecret), hub.HandleWebSocket)
}
