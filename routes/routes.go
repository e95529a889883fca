package routes

import (
	"log/slog"
	"net/http"

	"mocardapio-api/authz"
	"mocardapio-api/handlers"
	"mocardapio-api/metrics"
	"mocardapio-api/middleware"
	"mocardapio-api/models"

	"github.com/gin-gonic/gin"
)

// Deps is everything the router needs from main.
type Deps struct {
	Handler    *handlers.Handler
	Tokens     *middleware.Tokens
	Resolver   *authz.Resolver
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
	Production bool
	// UploadsDir is served at /uploads when blobs are stored on local disk.
	UploadsDir string
}

func SetupRoutes(r *gin.Engine, d Deps) {
	if err := RegisterValidators(); err != nil {
		panic(err)
	}

	r.Use(
		middleware.RequestID(d.Logger),
		middleware.AccessLog(),
		d.Metrics.Middleware(),
		middleware.Errors(d.Production),
		middleware.Recovery(),
	)

	h := d.Handler
	authRequired := middleware.AuthRequired(d.Tokens, d.Resolver)

	r.GET("/health", Health)
	r.GET("/metrics", d.Metrics.Handler())
	if d.UploadsDir != "" {
		r.Static("/uploads", d.UploadsDir)
	}

	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("")
	{
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)

		public.GET("/kitchens", h.ListKitchens)
		public.GET("/kitchens/:id/dishes", h.GetMenu)
		public.GET("/dishes", h.ListDishes)

		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes (any role) ────────────────────────────
	auth := r.Group("")
	auth.Use(authRequired)
	{
		auth.GET("/profile", h.GetProfile)
		auth.PUT("/profile", h.UpdateProfile)
		auth.POST("/uploads", h.Upload)

		auth.GET("/orders", h.ListOrders)
		auth.GET("/orders/:id", h.GetOrderDetail)
		auth.PATCH("/orders/:id/status", h.UpdateOrderStatus)

		auth.POST("/messages", h.SendMessage)
		auth.GET("/messages", h.ListMessages)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("")
	customer.Use(authRequired, middleware.RoleRequired(models.RoleCustomer))
	{
		customer.POST("/orders", h.PlaceOrder)
	}

	// ── Kitchen routes ─────────────────────────────────────────────
	kitchen := r.Group("")
	kitchen.Use(authRequired, middleware.RoleRequired(models.RoleKitchen))
	{
		kitchen.PATCH("/kitchens/me/availability", h.SetKitchenAvailability)

		kitchen.GET("/dishes/mine", h.MyDishes)
		kitchen.POST("/dishes", h.AddDish)
		kitchen.PUT("/dishes/:id", h.UpdateDish)
		kitchen.PATCH("/dishes/:id/availability", h.SetDishAvailability)
		kitchen.DELETE("/dishes/:id", h.DeleteDish)
		kitchen.POST("/dishes/:id/image", h.UploadDishImage)
	}

	// ── Courier routes ─────────────────────────────────────────────
	courier := r.Group("")
	courier.Use(authRequired, middleware.RoleRequired(models.RoleCourier))
	{
		courier.PATCH("/couriers/me/availability", h.SetCourierAvailability)
		courier.POST("/orders/:id/accept-delivery", h.AcceptDelivery)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/admin")
	admin.Use(authRequired, middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/users", h.AdminGetAllUsers)
		admin.GET("/orders/summary", h.AdminOrderSummary)
	}
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "mocardapio-api",
	})
}
