package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ecoshare/backend/internal/app/controllers"
	"github.com/ecoshare/backend/internal/middleware"
)

// multipartOverhead is added to the upload limit so boundaries and text
// fields do not eat into the image allowance.
const multipartOverhead = 1 << 20

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	donationController *controllers.DonationController,
	blogController *controllers.BlogController,
	uploadController *controllers.UploadController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
	maxUploadSize int64,
) {
	v1 := router.Group("/api/v1")
	requireAuth := authMiddleware.JWTAuth()
	limitBody := middleware.LimitBodySize(maxUploadSize + multipartOverhead)

	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", requireAuth, authController.Me)
	}

	donations := v1.Group("/food-donations")
	{
		donations.GET("", donationController.ListDonations)
		donations.GET("/available", donationController.ListAvailableDonations)

		donations.POST("", requireAuth, limitBody, donationController.CreateDonation)
		donations.PUT("/claim/:id", requireAuth, donationController.ClaimDonation)
		donations.DELETE("/:id", requireAuth, donationController.DeleteDonation)
	}

	blogs := v1.Group("/blogs")
	{
		blogs.GET("", blogController.ListPosts)
		blogs.GET("/:id", blogController.GetPost)

		blogs.POST("", requireAuth, limitBody, blogController.CreatePost)
		blogs.DELETE("/:id", requireAuth, blogController.DeletePost)
		blogs.POST("/:id/comments", requireAuth, blogController.AddComment)
		blogs.DELETE("/:id/comments/:commentId", requireAuth, blogController.RemoveComment)
	}

	v1.POST("/upload", requireAuth, limitBody, uploadController.UploadImage)

	v1.GET("/health", healthController.Health)
}
