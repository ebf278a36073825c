package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/deniz/communityevents/internal/app/controllers"
	"github.com/deniz/communityevents/internal/app/models/dto"
	"github.com/deniz/communityevents/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	communityController *controllers.CommunityController,
	eventController *controllers.EventController,
	commentController *controllers.CommentController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/logout", authController.Logout)
	}

	// --- Public browse routes ---
	v1.GET("/communities", communityController.GetAllCommunities)
	v1.GET("/communities/:id", communityController.GetCommunityByID)
	v1.GET("/communities/:id/members", communityController.GetCommunityMembers)
	v1.GET("/events", eventController.GetAllEvents)
	v1.GET("/events/nearby", eventController.GetNearbyEvents)
	v1.GET("/events/:id", eventController.GetEventByID)
	v1.GET("/events/:id/comments", eventController.GetEventComments)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout-all", authController.LogoutAll)

		users := authenticated.Group("/users")
		{
			users.GET("/me", userController.GetMyProfile)
			users.PUT("/me", userController.UpdateMyProfile)
			users.PUT("/me/password", userController.ChangePassword)
			users.GET("/me/registrations", userController.GetMyRegistrations)
			users.GET("/me/communities", userController.GetMyCommunities)
			users.GET("/:id", userController.GetUserByID)
		}

		communities := authenticated.Group("/communities")
		{
			communities.POST("", communityController.CreateCommunity)
			communities.PUT("/:id", communityController.UpdateCommunity)
			communities.DELETE("/:id", communityController.DeleteCommunity)
			communities.POST("/:id/join", communityController.JoinCommunity)
			communities.POST("/:id/leave", communityController.LeaveCommunity)
		}

		events := authenticated.Group("/events")
		{
			events.POST("", eventController.CreateEvent)
			events.PUT("/:id", eventController.UpdateEvent)
			events.PATCH("/:id/status", eventController.UpdateEventStatus)
			events.DELETE("/:id", eventController.DeleteEvent)
			events.POST("/:id/register", eventController.Register)
			events.DELETE("/:id/register", eventController.Unregister)
			events.GET("/:id/attendees", eventController.GetAttendees)
			events.POST("/:id/comments", eventController.CreateComment)
		}

		comments := authenticated.Group("/comments")
		{
			comments.PUT("/:id", commentController.UpdateComment)
			comments.DELETE("/:id", commentController.DeleteComment)
		}

		// Admin-only routes; the role is checked against the database
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.AdminRequired())
		{
			admin.GET("/stats", adminController.GetPlatformStats)
			admin.GET("/users", adminController.GetAllUsers)
			admin.PUT("/users/:id/role", adminController.UpdateUserRole)
			admin.PUT("/users/:id/status", adminController.UpdateUserStatus)
			admin.DELETE("/users/:id", adminController.DeleteUser)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewSuccessResponse(gin.H{"status": "ok"}, "OK"))
	})
}
