package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/internal/config"
	"github.com/projectdesk/projectdesk/internal/handlers"
	"github.com/projectdesk/projectdesk/internal/middleware"
)

func NewRouter(cfg config.Config) *gin.Engine {
	handlers.BaseURL = cfg.BaseURL
	if cfg.MaxUploadBytes > 0 {
		handlers.MaxUploadBytes = cfg.MaxUploadBytes
	}

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/refresh", handlers.RefreshToken)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.POST("/users/:id/password", handlers.ResetPassword)
		}

		protected := api.Group("", middleware.AuthMiddleware())

		users := protected.Group("/users")
		{
			users.POST("", handlers.CreateUser)
			users.GET("", handlers.ListUsers)
			users.PUT("/:id", handlers.UpdateUser)
			users.DELETE("/:id", handlers.DeleteUser)
			users.PATCH("/:id/status", handlers.SetUserStatus)
		}

		teams := protected.Group("/teams")
		{
			teams.POST("", handlers.CreateTeam)
			teams.GET("", handlers.ListTeams)
			teams.GET("/:id", handlers.GetTeam)
			teams.PATCH("/:id", handlers.UpdateTeam)
			teams.DELETE("/:id", handlers.DeleteTeam)
		}

		files := protected.Group("/files")
		{
			files.POST("", handlers.UploadFile)
			files.GET("", handlers.ListFiles)
			files.GET("/:id", handlers.GetFile)
			files.PATCH("/:id", handlers.UpdateFile)
			files.DELETE("/:id", handlers.DeleteFile)
		}

		projects := protected.Group("/projects")
		{
			projects.POST("", handlers.CreateProject)
			projects.GET("", handlers.ListProjects)
			projects.GET("/:id", handlers.GetProject)
			projects.PATCH("/:id", handlers.UpdateProject)
			projects.DELETE("/:id", handlers.DeleteProject)

			projects.POST("/:id/more-info", handlers.CreateMoreInfo)
			projects.GET("/:id/more-info", handlers.ListMoreInfo)

			projects.POST("/:id/rejections", handlers.CreateRejection)
			projects.GET("/:id/rejections", handlers.ListRejections)

			projects.POST("/:id/timelines", handlers.CreateTimeLine)
			projects.GET("/:id/timelines", handlers.ListTimeLines)

			projects.POST("/:id/estimation", handlers.CreateEstimation)
			projects.GET("/:id/estimation", handlers.GetEstimation)
			projects.PATCH("/:id/estimation", handlers.UpdateEstimation)
			projects.DELETE("/:id/estimation", handlers.DeleteEstimation)

			projects.POST("/:id/deliveries", handlers.CreateDelivery)
			projects.GET("/:id/deliveries", handlers.ListDeliveries)

			projects.POST("/:id/tasks", handlers.CreateTask)
			projects.GET("/:id/tasks", handlers.ListTasks)
		}

		protected.PATCH("/more-info/:id", handlers.UpdateMoreInfo)
		protected.DELETE("/more-info/:id", handlers.DeleteMoreInfo)

		protected.PATCH("/timelines/:id", handlers.UpdateTimeLine)
		protected.DELETE("/timelines/:id", handlers.DeleteTimeLine)

		protected.GET("/rejections/:id", handlers.GetRejection)

		protected.GET("/dashboard/cards", handlers.DashboardCards)

		protected.GET("/estimations", handlers.ListEstimations)

		protected.POST("/submissions", handlers.CreateSubmission)
		protected.GET("/submissions/:id", handlers.GetSubmission)

		deliveries := protected.Group("/deliveries")
		{
			deliveries.GET("/:id", handlers.GetDelivery)
			deliveries.PATCH("/:id", handlers.UpdateDelivery)
			deliveries.DELETE("/:id", handlers.DeleteDelivery)
			deliveries.POST("/:id/verifications", handlers.CreateVerification)
			deliveries.GET("/:id/verifications", handlers.ListVerifications)
		}

		tasks := protected.Group("/tasks")
		{
			tasks.GET("/mine", handlers.MyTasks)
			tasks.GET("/:id", handlers.GetTask)
			tasks.PATCH("/:id", handlers.UpdateTask)
			tasks.DELETE("/:id", handlers.DeleteTask)
			tasks.POST("/:id/activity", handlers.CreateActivity)
			tasks.GET("/:id/activity", handlers.ListActivity)
			tasks.POST("/:id/chat", handlers.CreateChat)
			tasks.GET("/:id/chat", handlers.ListChat)
		}
	}

	return r
}
