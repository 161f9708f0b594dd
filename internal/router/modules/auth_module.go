package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ecomstack/storefront-api/internal/container"
	repo "github.com/ecomstack/storefront-api/internal/domain/repository"
	handlers "github.com/ecomstack/storefront-api/internal/interface/http"
	"github.com/ecomstack/storefront-api/internal/interface/middleware"
	"github.com/ecomstack/storefront-api/pkg/helpers"
)

// AuthModule registers the account endpoints plus the order endpoints that
// live under /auth in the storefront client's API layout.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Orders  *handlers.OrderHandler
	JWT     *helpers.JWTManager
	Users   repo.UserRepository
}

func NewAuthModule(h *handlers.AuthHandler, o *handlers.OrderHandler, jwt *helpers.JWTManager, users repo.UserRepository) *AuthModule {
	return &AuthModule{Handler: h, Orders: o, JWT: jwt, Users: users}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	forgotLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/forgot-password", forgotLimiter, m.Handler.ForgotPassword)

	// Signed-in endpoints
	auth := rg.Group("/auth")
	auth.Use(middleware.RequireSignIn(m.JWT))
	{
		auth.GET("/user-auth", m.Handler.UserAuth)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.GET("/orders", m.Orders.ListMine)
	}

	// Admin endpoints re-check the stored role on every request
	admin := rg.Group("/auth")
	admin.Use(middleware.RequireSignIn(m.JWT), middleware.RequireAdmin(m.Users))
	{
		admin.GET("/admin-auth", m.Handler.AdminAuth)
		admin.GET("/all-orders", m.Orders.ListAll)
		admin.PUT("/order-status/:orderId", m.Orders.UpdateStatus)
	}
}
