package router

import (
	"github.com/foodierank/foodierank-backend/config"
	"github.com/foodierank/foodierank-backend/internal/app/controller"
	"github.com/foodierank/foodierank-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController       *controller.AuthController
	userController       *controller.UserController
	categoryController   *controller.CategoryController
	restaurantController *controller.RestaurantController
	dishController       *controller.DishController
	reviewController     *controller.ReviewController
	favoriteController   *controller.FavoriteController
	rankingController    *controller.RankingController
	uploadController     *controller.UploadController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	categoryController *controller.CategoryController,
	restaurantController *controller.RestaurantController,
	dishController *controller.DishController,
	reviewController *controller.ReviewController,
	favoriteController *controller.FavoriteController,
	rankingController *controller.RankingController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		userController:       userController,
		categoryController:   categoryController,
		restaurantController: restaurantController,
		dishController:       dishController,
		reviewController:     reviewController,
		favoriteController:   favoriteController,
		rankingController:    rankingController,
		uploadController:     uploadController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "FOODIERANK API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
		}

		restaurants := v1.Group("/restaurants")
		{
			restaurants.GET("", r.authMiddleware.OptionalAuthenticate(), r.restaurantController.ListRestaurants)
			restaurants.GET("/:id", r.authMiddleware.OptionalAuthenticate(), r.restaurantController.GetRestaurant)
			restaurants.POST("", r.authMiddleware.Authenticate(), r.restaurantController.ProposeRestaurant)

			restaurants.GET("/:id/dishes", r.dishController.ListDishes)
			restaurants.POST("/:id/dishes", r.authMiddleware.Authenticate(), r.dishController.CreateDish)
		}

		dishes := v1.Group("/dishes")
		{
			dishes.GET("/:id", r.dishController.GetDish)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.GET("", r.reviewController.ListResourceReviews)
			reviews.GET("/me", r.authMiddleware.Authenticate(), r.reviewController.ListMyReviews)
			reviews.POST("", r.authMiddleware.Authenticate(), r.reviewController.CreateReview)
			reviews.PUT("/:id", r.authMiddleware.Authenticate(), r.reviewController.UpdateReview)
			reviews.DELETE("/:id", r.authMiddleware.Authenticate(), r.reviewController.DeleteReview)
			reviews.POST("/:id/reaction", r.authMiddleware.Authenticate(), r.reviewController.React)
		}

		favorites := v1.Group("/favorites")
		favorites.Use(r.authMiddleware.Authenticate())
		{
			favorites.GET("", r.favoriteController.ListMyFavorites)
			favorites.POST("", r.favoriteController.AddFavorite)
			favorites.DELETE("", r.favoriteController.RemoveFavorite)
		}

		ranking := v1.Group("/ranking")
		{
			ranking.GET("/restaurants", r.rankingController.GetTopRestaurants)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.POST("/categories", r.categoryController.CreateCategory)
			admin.PUT("/categories/:id", r.categoryController.UpdateCategory)
			admin.DELETE("/categories/:id", r.categoryController.DeleteCategory)

			admin.POST("/restaurants/:id/approve", r.restaurantController.ApproveRestaurant)
			admin.PUT("/restaurants/:id", r.restaurantController.UpdateRestaurant)
			admin.DELETE("/restaurants/:id", r.restaurantController.DeleteRestaurant)

			admin.PUT("/dishes/:id", r.dishController.UpdateDish)
			admin.DELETE("/dishes/:id", r.dishController.DeleteDish)

			admin.PUT("/users/:id/role", r.userController.ChangeRole)
			admin.DELETE("/users/:id", r.userController.DeleteUser)

			admin.POST("/ranking/reconcile", r.rankingController.ReconcileAggregates)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
