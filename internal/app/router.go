// internal/app/router.go
package app

import (
	"net/http"

	analyticshandler "khidma-service/internal/handlers/analytics"
	authhandler "khidma-service/internal/handlers/auth"
	bidhandler "khidma-service/internal/handlers/bid"
	contenthandler "khidma-service/internal/handlers/content"
	invoicehandler "khidma-service/internal/handlers/invoice"
	jobhandler "khidma-service/internal/handlers/job"
	moderationhandler "khidma-service/internal/handlers/moderation"
	planhandler "khidma-service/internal/handlers/plan"
	userhandler "khidma-service/internal/handlers/user"
	wshandler "khidma-service/internal/handlers/websocket"
	"khidma-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type routeHandlers struct {
	auth       *authhandler.AuthHandler
	user       *userhandler.UserHandler
	job        *jobhandler.JobHandler
	bid        *bidhandler.BidHandler
	invoice    *invoicehandler.InvoiceHandler
	plan       *planhandler.PlanHandler
	moderation *moderationhandler.ModerationHandler
	content    *contenthandler.ContentHandler
	analytics  *analyticshandler.AnalyticsHandler
	ws         *wshandler.WSHandler
}

func buildRouter(logger *zap.Logger, authMW *middleware.AuthMiddleware, tracker *middleware.AdminActivity, h *routeHandlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	// ========== Public ==========
	api.POST("/auth/register", h.auth.Register)
	api.POST("/auth/login", h.auth.Login)
	api.POST("/auth/refresh", h.auth.Refresh)

	api.GET("/jobs", h.job.List)
	api.GET("/jobs/:id", h.job.Get)
	api.GET("/users/:id", h.user.GetProfile)
	api.GET("/plans", h.plan.PublicList)
	api.GET("/plans/:id", h.plan.Get)
	api.GET("/pages/:slug", h.content.GetPage)
	api.GET("/home-sections", h.content.HomeSections)

	// ========== Authenticated ==========
	authed := api.Group("")
	authed.Use(authMW.Auth())
	{
		authed.POST("/auth/logout", h.auth.Logout)
		authed.POST("/auth/logout-all", h.auth.LogoutAll)
		authed.POST("/auth/change-password", h.auth.ChangePassword)

		authed.GET("/users/me", h.user.Me)
		authed.PATCH("/users/me", h.user.UpdateMe)

		authed.GET("/invoices", h.invoice.List)
		authed.GET("/invoices/:id", h.invoice.Get)

		authed.GET("/conversations/:id/messages", h.moderation.Thread)
		authed.POST("/messages/:id/flag", h.moderation.Flag)
	}

	// Client-only
	clients := api.Group("")
	clients.Use(authMW.Auth(), authMW.RequireRole("client"))
	{
		clients.POST("/jobs", h.job.Create)
		clients.PATCH("/jobs/:id", h.job.Update)
		clients.POST("/jobs/:id/publish", h.job.Publish)
		clients.POST("/bids/:id/accept", h.bid.Accept)
		clients.POST("/invoices/:id/pay", h.invoice.MarkPaid)
	}

	// Consultant-only
	consultants := api.Group("")
	consultants.Use(authMW.Auth(), authMW.RequireRole("consultant"))
	{
		consultants.POST("/jobs/:id/bids", h.bid.Submit)
		consultants.POST("/bids/:id/withdraw", h.bid.Withdraw)
		consultants.POST("/plans/subscribe", h.plan.Subscribe)
		consultants.GET("/plans/subscription", h.plan.MySubscription)
	}

	// Participants (owner check happens in the service)
	parties := api.Group("")
	parties.Use(authMW.Auth(), authMW.RequireRole("client", "consultant"))
	{
		parties.GET("/bids", h.bid.List)
		parties.POST("/jobs/:id/close", h.job.Close)
		parties.POST("/jobs/:id/messages/:consultant_id", h.moderation.SendMessage)
	}

	// ========== Admin ==========
	// Every route in this group rides through the idle-activity tracker:
	// each request slides the admin's inactivity window, and the first
	// request past the deadline gets 401 ADMIN_SESSION_TIMEOUT.
	admin := api.Group("/admin")
	admin.Use(authMW.AdminOnly(tracker)...)
	{
		admin.GET("/users", h.user.List)
		admin.PATCH("/users/:id/status", h.user.SetStatus)
		admin.PATCH("/users/:id/verification", h.user.SetVerification)

		admin.POST("/jobs/:id/close", h.job.Close)

		admin.GET("/bids", h.bid.List)

		admin.GET("/invoices", h.invoice.List)
		admin.POST("/invoices/:id/void", h.invoice.Void)

		admin.GET("/plans", h.plan.AdminList)
		admin.POST("/plans", h.plan.Create)
		admin.PATCH("/plans/:id", h.plan.Update)

		admin.GET("/moderation/queue", h.moderation.Queue)
		admin.POST("/moderation/:id/resolve", h.moderation.Resolve)

		admin.GET("/settings", h.content.ListSettings)
		admin.PUT("/settings/:key", h.content.UpsertSetting)
		admin.GET("/pages", h.content.ListPages)
		admin.PUT("/pages", h.content.UpsertPage)
		admin.PUT("/home-sections/order", h.content.ReorderHomeSections)

		admin.GET("/analytics/dashboard", h.analytics.Dashboard)
		admin.GET("/analytics/revenue", h.analytics.Revenue)
		admin.GET("/analytics/categories", h.analytics.Categories)

		admin.GET("/feed", h.ws.AdminFeed)
	}

	return router
}
