package httpserver

import (
	"log"
	"time"

	"buildkit-store/internal/checkout"
	orderrepo "buildkit-store/internal/repository/order"
	sessionrepo "buildkit-store/internal/repository/session"
	"buildkit-store/internal/service/account"
	"buildkit-store/internal/service/catalog"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the wired services the routes depend on.
type Deps struct {
	CatalogSvc   *catalog.Service
	AccountSvc   *account.Service
	CheckoutSvc  *checkout.Service
	OrderRepo    orderrepo.Repository
	SessionRepo  sessionrepo.Repository
	AllowOrigins []string
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(deps.AllowOrigins) == 1 && deps.AllowOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = deps.AllowOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/categories", listCategories(deps.CatalogSvc))
	router.GET("/products", listProducts(deps.CatalogSvc))
	router.GET("/products/:slug", getProduct(deps.CatalogSvc))

	// Everything below works against the visitor's session.
	store := router.Group("/", sessionMiddleware(deps.SessionRepo, logger))

	store.GET("/cart", getCart(deps.CatalogSvc))
	store.POST("/cart/items/:productID", addCartItem(deps.CatalogSvc))
	store.DELETE("/cart/items/:productID", removeCartItem())
	store.POST("/cart/delivery", postDelivery(deps.CheckoutSvc, deps.AccountSvc))

	store.POST("/checkout", postCheckout(deps.CheckoutSvc, deps.AccountSvc))
	store.GET("/checkout/confirmation", getConfirmation())

	store.POST("/auth/register", postRegister(deps.AccountSvc))
	store.POST("/auth/register/resend", postResendCode(deps.AccountSvc))
	store.POST("/auth/verify", postVerify(deps.AccountSvc))
	store.POST("/auth/login", postLogin(deps.AccountSvc))

	store.GET("/account/orders", listAccountOrders(deps.AccountSvc, deps.OrderRepo))

	return router
}
