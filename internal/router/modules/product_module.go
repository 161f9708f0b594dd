package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ecomstack/storefront-api/internal/container"
	handlers "github.com/ecomstack/storefront-api/internal/interface/http"
	"github.com/ecomstack/storefront-api/internal/interface/middleware"
)

// ProductModule registers the public catalog read endpoints. The static
// prefixes (single/, related/, search) keep them from colliding in the
// route tree.
type ProductModule struct {
	Handler *handlers.ProductHandler
}

func NewProductModule(h *handlers.ProductHandler) *ProductModule {
	return &ProductModule{Handler: h}
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.GET("/products/single/:slug", rl, m.Handler.GetBySlug)
	rg.GET("/products/related/:productId/:categoryId", rl, m.Handler.Related)
	rg.GET("/products/search", rl, m.Handler.Search)
}
