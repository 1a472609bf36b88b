package router

import (
	"github.com/gin-gonic/gin"

	"github.com/nvolkov/brewhub-backend/config"
	"github.com/nvolkov/brewhub-backend/internal/app/controller"
	"github.com/nvolkov/brewhub-backend/internal/middleware"
	"github.com/nvolkov/brewhub-backend/internal/realtime"
)

type Router struct {
	authController    *controller.AuthController
	userController    *controller.UserController
	catalogController *controller.CatalogController
	cartController    *controller.CartController
	orderController   *controller.OrderController
	surveyController  *controller.SurveyController
	contactController *controller.ContactController
	uploadController  *controller.UploadController
	hub               *realtime.Hub
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	catalogController *controller.CatalogController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	surveyController *controller.SurveyController,
	contactController *controller.ContactController,
	uploadController *controller.UploadController,
	hub *realtime.Hub,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		userController:    userController,
		catalogController: catalogController,
		cartController:    cartController,
		orderController:   orderController,
		surveyController:  surveyController,
		contactController: contactController,
		uploadController:  uploadController,
		hub:               hub,
		authMiddleware:    authMiddleware,
		config:            cfg,
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
			"message": "BrewHub API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
			auth.PATCH("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
			auth.DELETE("/me", r.authMiddleware.Authenticate(), r.authController.DeleteAccount)
			auth.POST("/verify/send", r.authMiddleware.Authenticate(), r.authController.SendVerification)
			auth.POST("/verify", r.authMiddleware.Authenticate(), r.authController.VerifyEmail)
		}

		v1.GET("/categories", r.catalogController.ListCategories)
		v1.GET("/products", r.catalogController.ListProducts)
		v1.GET("/products/:id", r.catalogController.GetProduct)

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/items", r.cartController.AddToCart)
			cart.PATCH("/items/:id", r.cartController.UpdateCartItem)
			cart.DELETE("/items/:id", r.cartController.RemoveFromCart)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.POST("", r.orderController.Checkout)
			orders.GET("", r.orderController.ListMyOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("/:id/cancel", r.orderController.CancelOrder)
		}

		// The questionnaire is read-only for customers; staff edit it
		// through the admin group below.
		v1.GET("/questions", r.surveyController.ListQuestions)
		v1.GET("/questions/:id", r.surveyController.GetQuestion)

		v1.POST("/contact", r.contactController.Submit)

		// Order status push channel; token comes in as a query parameter
		v1.GET("/ws/orders", r.authMiddleware.Authenticate(), r.hub.HandleConnection)

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/users", r.userController.ListUsers)
			admin.GET("/users/:id", r.userController.GetUser)
			admin.PATCH("/users/:id", r.userController.UpdateUser)
			admin.DELETE("/users/:id", r.userController.DeleteUser)

			admin.POST("/categories", r.catalogController.CreateCategory)
			admin.PATCH("/categories/:id", r.catalogController.UpdateCategory)
			admin.DELETE("/categories/:id", r.catalogController.DeleteCategory)

			admin.POST("/products", r.catalogController.CreateProduct)
			admin.PATCH("/products/:id", r.catalogController.UpdateProduct)
			admin.DELETE("/products/:id", r.catalogController.DeleteProduct)

			admin.GET("/orders", r.orderController.ListByStatus)
			admin.PATCH("/orders/:id/status", r.orderController.UpdateStatus)

			admin.POST("/questions", r.surveyController.CreateQuestion)
			admin.PATCH("/questions/:id", r.surveyController.UpdateQuestion)
			admin.DELETE("/questions/:id", r.surveyController.DeleteQuestion)
			admin.POST("/questions/:id/answers", r.surveyController.CreateAnswer)
			admin.PATCH("/answers/:id", r.surveyController.UpdateAnswer)
			admin.DELETE("/answers/:id", r.surveyController.DeleteAnswer)

			admin.GET("/contact", r.contactController.ListMessages)

			admin.POST("/uploads/product-image", r.uploadController.PresignProductImage)
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
