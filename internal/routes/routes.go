package routes

import (
	"louma_back_end/internal/handlers/admin"
	"louma_back_end/internal/handlers/auth"
	"louma_back_end/internal/handlers/cart"
	"louma_back_end/internal/handlers/catalog"
	"louma_back_end/internal/handlers/chat"
	"louma_back_end/internal/handlers/checkout"
	"louma_back_end/internal/handlers/freelance"
	"louma_back_end/internal/handlers/order"
	"louma_back_end/internal/handlers/vendor"
	"louma_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Auth
	r.POST("/auth/register", middleware.RegisterRateLimit(), auth.Register)
	r.POST("/auth/login", middleware.LoginRateLimit(), auth.Login)
	r.POST("/auth/guest", auth.GuestSession)
	r.GET("/auth/me", middleware.AuthRequired(), auth.Me)
	r.GET("/auth/:provider", auth.OAuthBegin)
	r.GET("/auth/:provider/callback", auth.OAuthCallback)
	r.POST("/auth/google/mobile", auth.GoogleMobileExchange)

	// Adresses
	addresses := r.Group("/addresses", middleware.AuthRequired())
	{
		addresses.GET("", auth.ListAddresses)
		addresses.POST("", auth.CreateAddress)
		addresses.PATCH("/:id", auth.UpdateAddress)
		addresses.DELETE("/:id", auth.DeleteAddress)
	}

	// Catalogue public
	r.GET("/products", catalog.ListProducts)
	r.GET("/products/:slug", catalog.GetProduct)
	r.GET("/products/:slug/reviews", catalog.ListReviews)
	r.GET("/categories", catalog.ListCategories)
	r.GET("/search/products", middleware.SearchRateLimit(), catalog.SearchProducts)
	r.GET("/search/gigs", middleware.SearchRateLimit(), catalog.SearchGigs)
	r.GET("/stores/:slug", vendor.Storefront)

	// Avis (acheteurs livrés uniquement)
	r.POST("/products/:slug/reviews", middleware.AuthRequired(), catalog.CreateReview)

	// Panier : utilisateur connecté ou invité
	cartGroup := r.Group("/cart", middleware.OptionalAuth(), middleware.CartRateLimit())
	{
		cartGroup.GET("", cart.GetCart)
		cartGroup.POST("/items", cart.AddItem)
		cartGroup.PATCH("/items", cart.UpdateItem)
		cartGroup.DELETE("/items/:variantId", cart.RemoveItem)
		cartGroup.DELETE("", cart.ClearCart)
	}
	r.GET("/ws/cart", middleware.OptionalAuth(), cart.CartWebSocket)

	// Wishlist (compte requis)
	wishlist := r.Group("/wishlist", middleware.AuthRequired())
	{
		wishlist.GET("", cart.GetWishlist)
		wishlist.POST("", cart.AddToWishlist)
		wishlist.DELETE("/:productId", cart.RemoveFromWishlist)
		wishlist.POST("/:productId/move-to-cart", cart.MoveToCart)
	}

	// Coupons
	r.POST("/coupons/validate", middleware.OptionalAuth(), checkout.ValidateCoupon)
	r.POST("/coupons/apply", middleware.OptionalAuth(), checkout.ApplyCoupon)
	r.DELETE("/coupons/apply", middleware.OptionalAuth(), checkout.RemoveCoupon)

	// Checkout + paiement
	r.POST("/checkout", middleware.OptionalAuth(), checkout.Checkout)
	r.GET("/checkout/confirmation/:number", middleware.OptionalAuth(), checkout.Confirmation)
	r.POST("/checkout/retry/:number", middleware.OptionalAuth(), checkout.RetryPayment)
	r.POST("/webhook/stripe", checkout.StripeWebhook)

	// Commandes
	orders := r.Group("/orders", middleware.AuthRequired())
	{
		orders.GET("", order.ListMyOrders)
		orders.GET("/:id", order.GetOrder)
		orders.PATCH("/:id/status", order.UpdateOrderStatus)
		orders.GET("/:id/invoice", order.DownloadInvoice)
		orders.GET("/:id/messages", chat.History)
	}
	r.GET("/ws/orders/:id/chat", middleware.AuthRequired(), chat.ChatWebSocket)

	// Freelance : gigs publics, contrats entre parties
	r.GET("/gigs", freelance.ListGigs)
	r.GET("/gigs/:slug", freelance.GetGig)

	proposals := r.Group("/proposals", middleware.AuthRequired())
	{
		proposals.POST("", freelance.CreateProposal)
		proposals.GET("", freelance.ListMyProposals)
		proposals.DELETE("/:id", freelance.WithdrawProposal)
	}

	contracts := r.Group("/contracts", middleware.AuthRequired())
	{
		contracts.GET("", freelance.ListMyContracts)
		contracts.GET("/:id", freelance.GetContract)
		contracts.POST("/:id/complete", freelance.Complete)
		contracts.POST("/:id/cancel", freelance.Cancel)
		contracts.POST("/:id/dispute", freelance.Dispute)
	}

	// Espace vendeur
	r.POST("/vendor/apply", middleware.AuthRequired(), vendor.Apply)

	vendorGroup := r.Group("/vendor", middleware.AuthRequired(), middleware.VendorRequired())
	{
		vendorGroup.GET("/profile", vendor.GetMyProfile)
		vendorGroup.PATCH("/profile", vendor.UpdateMyProfile)
		vendorGroup.PUT("/shipping-rates", vendor.UpsertShippingRate)
		vendorGroup.POST("/logo", vendor.UploadLogo)
		vendorGroup.GET("/orders", vendor.ListVendorOrders)
		vendorGroup.GET("/dashboard", vendor.Dashboard)
		vendorGroup.GET("/wallet", vendor.GetWallet)
		vendorGroup.POST("/wallet/payouts", vendor.CreatePayout)

		vendorGroup.POST("/products", catalog.CreateProduct)
		vendorGroup.PATCH("/products/:id", catalog.UpdateProduct)
		vendorGroup.DELETE("/products/:id", catalog.DeleteProduct)
		vendorGroup.POST("/products/:id/restock", catalog.RestockVariant)
		vendorGroup.POST("/products/:id/images", catalog.UploadProductImage)

		vendorGroup.POST("/gigs", freelance.CreateGig)
		vendorGroup.PATCH("/gigs/:id", freelance.UpdateGig)
		vendorGroup.POST("/gigs/:id/images", freelance.UploadGigImage)
		vendorGroup.GET("/proposals", freelance.ListReceivedProposals)
		vendorGroup.POST("/proposals/:id/accept", freelance.AcceptProposal)
		vendorGroup.POST("/proposals/:id/decline", freelance.DeclineProposal)
		vendorGroup.POST("/contracts/:id/deliver", freelance.MarkDelivered)
	}

	// Back-office admin
	adminGroup := r.Group("/admin", middleware.AuthRequired(), middleware.RequireAdmin())
	{
		adminGroup.GET("/vendors/pending", admin.ListPendingVendors)
		adminGroup.POST("/vendors/:id/approve", admin.ApproveVendor)
		adminGroup.POST("/vendors/:id/reject", admin.RejectVendor)
		adminGroup.PATCH("/vendors/:id/commission", admin.SetCommissionRate)
		adminGroup.GET("/users", admin.ListUsers)
		adminGroup.PATCH("/users/:id/active", admin.SetUserActive)
		adminGroup.GET("/audit-logs", admin.ListAuditLogs)

		adminGroup.POST("/coupons", checkout.CreateCoupon)
		adminGroup.GET("/coupons", checkout.GetAllCoupons)
		adminGroup.PATCH("/coupons/:id", checkout.UpdateCoupon)
		adminGroup.DELETE("/coupons/:id", checkout.DeleteCoupon)

		adminGroup.GET("/payouts/pending", vendor.ListPendingPayouts)
		adminGroup.POST("/payouts/:id/decide", vendor.DecidePayout)
		adminGroup.POST("/payouts/:id/paid", vendor.MarkPayoutPaid)

		adminGroup.POST("/categories", catalog.CreateCategory)
		adminGroup.DELETE("/categories/:id", catalog.DeleteCategory)
	}
}
