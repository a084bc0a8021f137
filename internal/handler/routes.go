package handler

import (
	"shop-service/internal/middleware"
	"shop-service/internal/model"
	"shop-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
)

// Handlers groups every route handler of the service
type Handlers struct {
	Auth     *AuthHandler
	User     *UserHandler
	Product  *ProductHandler
	Photo    *PhotoHandler
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Wishlist *WishlistHandler
	Order    *OrderHandler
}

// RegisterRoutes mounts the public, authenticated and admin route groups
func RegisterRoutes(e *echo.Echo, h *Handlers, j *jwtutil.JWTUtil) {
	authenticated := middleware.AuthMiddleware(j)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	e.GET("/health", HealthCheck)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/registration", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.GET("/refresh", h.Auth.Refresh)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout, authenticated)
	auth.GET("/me", h.Auth.Me, authenticated)
	auth.GET("/google", h.Auth.GoogleLogin)
	auth.GET("/google/callback", h.Auth.GoogleCallback)

	// Public catalog
	e.GET("/product/list", h.Product.List)
	e.GET("/product/:id", h.Product.Get)
	e.POST("/cart/products", h.Product.GetByIDs)
	e.GET("/category/list", h.Catalog.ListCategories)
	e.GET("/sub-category/list", h.Catalog.ListSubCategories)
	e.GET("/sizes/list", h.Catalog.ListSizes)

	// Signed-in users
	e.GET("/user/me", h.User.Me, authenticated)

	cart := e.Group("/cart", authenticated)
	cart.GET("/products", h.Cart.List)
	cart.POST("/add/:productId", h.Cart.Add)
	cart.PUT("/update/:cartProductId", h.Cart.Update)
	cart.DELETE("/remove/:cartProductId", h.Cart.Remove)
	cart.DELETE("/clear", h.Cart.Clear)
	cart.GET("/total", h.Cart.Total)
	cart.GET("/quantity", h.Cart.Quantity)
	cart.GET("/summary", h.Cart.Summary)

	wishlist := e.Group("/wishlist", authenticated)
	wishlist.GET("", h.Wishlist.Get)
	wishlist.POST("/add/:productId", h.Wishlist.Add)
	wishlist.DELETE("/remove/:productId", h.Wishlist.Remove)
	wishlist.DELETE("/clear", h.Wishlist.Clear)

	e.GET("/order/list", h.Order.ListMine, authenticated)

	// Admin routes
	e.POST("/upload/photo", h.Photo.Upload, authenticated, adminOnly)

	admin := e.Group("/admin", authenticated, adminOnly)
	admin.GET("/user/list", h.User.List)
	admin.GET("/user/:idOrEmail", h.User.Find)
	admin.PATCH("/user/:id/role", h.User.UpdateRole)
	admin.DELETE("/user/:id", h.User.Delete)

	admin.POST("/product", h.Product.Create)
	admin.PATCH("/product/:id", h.Product.Update)
	admin.DELETE("/product/:id", h.Product.Delete)
	admin.GET("/product/:id/configuration", h.Product.ListConfigurations)
	admin.POST("/product/:id/configuration", h.Product.CreateConfiguration)
	admin.PUT("/product/:id/configuration/:configurationId", h.Product.UpdateConfiguration)
	admin.DELETE("/product/:id/configuration/:configurationId", h.Product.DeleteConfiguration)
	admin.POST("/product/:id/info", h.Product.AddInfo)
	admin.DELETE("/product/:id/info/:infoId", h.Product.DeleteInfo)

	admin.POST("/product/:id/photo", h.Photo.Append)
	admin.PUT("/product/:id/photo/:photoId", h.Photo.Replace)
	admin.DELETE("/product/:id/photo/:photoId", h.Photo.Delete)
	admin.DELETE("/product/:id/photo", h.Photo.DeleteAll)

	admin.POST("/category", h.Catalog.CreateCategory)
	admin.PUT("/category/:id", h.Catalog.UpdateCategory)
	admin.DELETE("/category/:id", h.Catalog.DeleteCategory)
	admin.POST("/sub-category", h.Catalog.CreateSubCategory)
	admin.PUT("/sub-category/:id", h.Catalog.UpdateSubCategory)
	admin.DELETE("/sub-category/:id", h.Catalog.DeleteSubCategory)
	admin.POST("/sizes/:kind", h.Catalog.CreateSize)
	admin.DELETE("/sizes/:kind/:id", h.Catalog.DeleteSize)

	admin.GET("/order/list", h.Order.ListAll)
}
