package router

import (
	"github.com/ecomstack/storefront-api/internal/application"
	"github.com/ecomstack/storefront-api/internal/container"
	repo "github.com/ecomstack/storefront-api/internal/domain/repository"
	pginfra "github.com/ecomstack/storefront-api/internal/infrastructure/postgres"
	handlers "github.com/ecomstack/storefront-api/internal/interface/http"
	"github.com/ecomstack/storefront-api/internal/router/modules"
)

type Deps struct {
	Users    repo.UserRepository
	Products repo.ProductRepository
	Orders   repo.OrderRepository

	AuthHandler    *handlers.AuthHandler
	OrderHandler   *handlers.OrderHandler
	ProductHandler *handlers.ProductHandler
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	products := pginfra.NewProductRepository(pool)
	orders := pginfra.NewOrderRepository(pool)
	audit := pginfra.NewAuditStore(pool)

	authSvc := application.NewAuthService(users, container.GetJWT(), logger)
	catalogSvc := application.NewCatalogService(products, container.GetRedis(), container.GetES(), cfg.ESProductsIndex, logger)
	orderSvc := application.NewOrderService(orders, logger)

	return Deps{
		Users:          users,
		Products:       products,
		Orders:         orders,
		AuthHandler:    handlers.NewAuthHandler(authSvc, audit, container.GetRabbitPub(), logger, cfg),
		OrderHandler:   handlers.NewOrderHandler(orderSvc, logger),
		ProductHandler: handlers.NewProductHandler(catalogSvc, logger),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildDeps()
	r.Add(modules.NewAuthModule(deps.AuthHandler, deps.OrderHandler, container.GetJWT(), deps.Users))
	r.Add(modules.NewProductModule(deps.ProductHandler))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
