package routes

import (
	"github.com/gin-gonic/gin"

	"storefront-service/controllers"
	"storefront-service/middleware"
)

func Register(
	r *gin.Engine,
	storefront *controllers.StorefrontController,
	cart *controllers.CartController,
	proxy *controllers.ProxyController,
) {
	r.GET("/health", storefront.Health)

	// Public storefront browsing
	r.GET("/storefront/home", storefront.Home)
	r.GET("/products", storefront.GetProducts)
	r.GET("/products/:id", storefront.GetProduct)
	r.GET("/categories", storefront.GetCategories)

	// Authenticated cart + wishlist
	authed := r.Group("/")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.GET("/cart", cart.GetCart)
		authed.POST("/cart/add", cart.AddToCart)
		authed.PATCH("/cart/items/:id/quantity", cart.UpdateQuantity)
		authed.DELETE("/cart/items/:id", cart.RemoveItem)
		authed.DELETE("/cart/clear", cart.ClearCart)
		authed.GET("/cart/notifications", cart.Notifications)
		authed.POST("/session/logout", cart.Logout)

		authed.GET("/wishlist", storefront.GetWishlist)
		authed.POST("/wishlist/toggle", storefront.ToggleWishlist)

		// Thin account/admin shells, proxied upstream
		authed.Any("/account/*path", proxy.Forward("/account"))
		authed.Any("/admin/*path", proxy.Forward("/admin"))
	}
}
