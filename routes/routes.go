package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Madhav-Gupta-28/marketplace-backend-go/handlers"
	customMiddleware "github.com/Madhav-Gupta-28/marketplace-backend-go/middleware"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Products *handlers.ProductHandler
	Events   *handlers.EventHandler
	Blogs    *handlers.BlogHandler
	Reviews  *handlers.ReviewHandler
	Orders   *handlers.OrderHandler
}

// SetupRoutes registers every route on e. Routes behind auth require a
// bearer token accepted by tokens.
func SetupRoutes(e *echo.Echo, h Handlers, tokens customMiddleware.TokenValidator, gatherer prometheus.Gatherer) {
	auth := customMiddleware.Auth(tokens)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := e.Group("/api")

	// Accounts
	api.POST("/auth/signup", h.Auth.SignUp)
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/users/me", h.Auth.Me, auth)
	api.PATCH("/users/me", h.Auth.UpdateMe, auth)

	// Products
	api.GET("/products", h.Products.List)
	api.GET("/products/:id", h.Products.Get)
	api.POST("/products", h.Products.Create, auth)
	api.POST("/products/:id/media", h.Products.AddMedia, auth)
	api.DELETE("/products/:id", h.Products.Delete, auth)
	api.GET("/products/:id/reviews", h.Reviews.ListProductReviews)
	api.POST("/products/:id/reviews", h.Reviews.SubmitProductReview, auth)

	// Events
	api.GET("/events", h.Events.List)
	api.GET("/events/:id", h.Events.Get)
	api.POST("/events", h.Events.Create, auth)
	api.POST("/events/:id/media", h.Events.AddMedia, auth)
	api.DELETE("/events/:id", h.Events.Delete, auth)

	// Blogs
	api.GET("/blogs", h.Blogs.List)
	api.GET("/blogs/:id", h.Blogs.Get)
	api.POST("/blogs", h.Blogs.Create, auth)
	api.POST("/blogs/:id/media", h.Blogs.AddMedia, auth)
	api.DELETE("/blogs/:id", h.Blogs.Delete, auth)

	// Public site reviews
	api.GET("/reviews/public", h.Reviews.ListPublicReviews)
	api.POST("/reviews/public", h.Reviews.SubmitPublicReview)
	api.POST("/reviews/public/:id/vote", h.Reviews.Vote)

	// Cart
	api.GET("/cart", h.Orders.GetCart, auth)
	api.POST("/cart", h.Orders.AddToCart, auth)
	api.PUT("/cart/:productId", h.Orders.UpdateCartItem, auth)
	api.DELETE("/cart/:productId", h.Orders.RemoveFromCart, auth)

	// Orders
	api.POST("/orders", h.Orders.CreateOrder, auth)
	api.GET("/orders/:id", h.Orders.GetOrder, auth)
	api.GET("/orders/:id/status", h.Orders.GetOrderStatus, auth)
}
