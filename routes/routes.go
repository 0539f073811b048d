package routes

import (
	"net/http"

	"suretips/admin"
	"suretips/auth"
	"suretips/availability"
	"suretips/livewire"
	"suretips/middleware"
	"suretips/pay"
	"suretips/ratelim"
	"suretips/sms"
	"suretips/viewer"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/banners/*filepath", http.Dir("static/banners"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", ratelim.RateLimit(middleware.Authenticate(auth.RefreshToken)))
}

func AddViewerRoutes(router *httprouter.Router, reg *availability.Registry) {
	router.GET("/api/vip/today", ratelim.RateLimit(middleware.OptionalAuth(viewer.VIPToday(reg))))
	router.GET("/api/vip/history", ratelim.RateLimit(viewer.History))
	router.GET("/api/free", ratelim.RateLimit(viewer.FreeTips))
	router.GET("/api/others", ratelim.RateLimit(viewer.Others))
	router.GET("/api/plans", ratelim.RateLimit(viewer.Plans(reg)))
	router.GET("/api/bundles/:id/sharecode/qr", ratelim.RateLimit(viewer.ShareCodeQR))
}

func AddPayRoutes(router *httprouter.Router, svc *pay.PaymentService, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/payments/session", rateLimiter.Limit(middleware.Authenticate(svc.CreateSession)))
	router.POST("/api/payments/verify", rateLimiter.Limit(middleware.Authenticate(svc.VerifyPayment)))
	router.GET("/api/payments/receipt/:reference", rateLimiter.Limit(middleware.Authenticate(pay.DownloadReceipt)))
	router.GET("/api/payments/transactions", middleware.RequireAdmin(svc.ListTransactions))
}

func AddAdminRoutes(router *httprouter.Router, console *admin.Console, sender sms.Sender) {
	router.POST("/api/admin/booking/load", middleware.RequireAdmin(console.LoadBooking))
	router.POST("/api/admin/booking/codes", middleware.RequireAdmin(console.AttachCodes))
	router.POST("/api/admin/booking/price", middleware.RequireAdmin(console.SetPrice))
	router.POST("/api/admin/booking/deadline", middleware.RequireAdmin(console.SetDeadline))
	router.POST("/api/admin/booking/clear", middleware.RequireAdmin(console.ClearAll))
	router.GET("/api/admin/bookings/:category", middleware.RequireAdmin(console.Batch))
	router.DELETE("/api/admin/bookings/:category/games/:gameId", middleware.RequireAdmin(console.RemoveGame))
	router.POST("/api/admin/bookings/:category/upload", middleware.RequireAdmin(console.Upload))

	router.POST("/api/admin/results", middleware.RequireAdmin(console.UpdateResult))
	router.POST("/api/admin/plans/:id/toggle", middleware.RequireAdmin(console.TogglePlan))
	router.POST("/api/admin/bundles/:id/finalize", middleware.RequireAdmin(console.Finalize))
	router.POST("/api/admin/bundles/:id/archive", middleware.RequireAdmin(console.Archive))
	router.GET("/api/admin/slips", middleware.RequireAdmin(console.SlipHistory))

	router.POST("/api/admin/sms", middleware.RequireAdmin(admin.BroadcastSMS(sender)))
	router.GET("/api/admin/sms", middleware.RequireAdmin(admin.SMSHistory))
	router.POST("/api/admin/banners", middleware.RequireAdmin(admin.UploadBanner))
}

func AddLiveRoutes(router *httprouter.Router, hub *livewire.Hub) {
	router.GET("/ws/updates/:category", livewire.WebSocketHandler(hub))
}
