package server

import (
	"log"
	"strings"
	"time"

	"github.com/edulink-app/edulink-api/internal/config"
	"github.com/edulink-app/edulink-api/internal/handler"
	"github.com/edulink-app/edulink-api/internal/middleware"
	"github.com/edulink-app/edulink-api/internal/policy"
	"github.com/edulink-app/edulink-api/internal/repository"
	"github.com/edulink-app/edulink-api/internal/service"
	"github.com/edulink-app/edulink-api/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	downloadRepo := repository.NewDownloadRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	plannerRepo := repository.NewPlannerRepository(db)

	fileStorage, err := storage.NewCloudinaryStorage(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		log.Printf("file storage disabled: %v", err)
		fileStorage = nil
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	searchSvc := service.NewSearchService(meiliClient)

	notificationSvc := service.NewNotificationService(notificationRepo, redisClient)
	notificationHandler := handler.NewNotificationHandler(notificationSvc, redisClient)

	authSvc := service.NewAuthService(userRepo, notificationSvc, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := handler.NewAuthHandler(authSvc)

	limiter := service.NewRateLimiter(redisClient)
	questionSvc := service.NewQuestionService(questionRepo, answerRepo, userRepo,
		notificationSvc, searchSvc, limiter, cfg.RateLimitQuestion, cfg.RateLimitGlobal)
	answerSvc := service.NewAnswerService(answerRepo, questionRepo, userRepo,
		notificationSvc, limiter, cfg.RateLimitAnswer, cfg.RateLimitGlobal)
	questionHandler := handler.NewQuestionHandler(questionSvc, answerSvc)

	resourceSvc := service.NewResourceService(resourceRepo, downloadRepo, userRepo, notificationSvc, searchSvc)
	resourceHandler := handler.NewResourceHandler(resourceSvc)

	parentSvc := service.NewParentService(userRepo, questionRepo, answerRepo, notificationSvc)
	parentHandler := handler.NewParentHandler(parentSvc)

	plannerSvc := service.NewPlannerService(plannerRepo)
	plannerHandler := handler.NewPlannerHandler(plannerSvc)

	leaderboardSvc := service.NewLeaderboardService(userRepo)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardSvc)

	statSvc := service.NewStatService(userRepo)
	statHandler := handler.NewStatHandler(statSvc)

	uploadHandler := handler.NewUploadHandler(fileStorage)

	router := gin.New()
	setupCORS(router, cfg.AllowedOrigins)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}
	// Legacy mobile clients register through /api/user.
	api.POST("/user", authHandler.Register)

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/users/me", authHandler.Me)

		// Question routes
		protected.POST("/questions", questionHandler.CreateQuestion)
		protected.GET("/questions/feed", questionHandler.GetAnswerableFeed)
		protected.GET("/questions/id/:question_id", questionHandler.GetQuestion)
		protected.GET("/questions/:classroom", questionHandler.GetQuestionsByClassroom)
		protected.POST("/questions/:question_id/answers", questionHandler.SubmitAnswer)
		protected.POST("/questions/:question_id/upvote", questionHandler.Upvote)
		protected.POST("/answers/:answer_id/rating", questionHandler.RateAnswer)

		// Resource routes
		protected.POST("/resources", resourceHandler.CreateResource)
		protected.GET("/resources/:classroom", resourceHandler.GetResourcesByClassroom)
		protected.GET("/downloads", resourceHandler.GetDownloads)
		protected.POST("/downloads", resourceHandler.RecordDownload)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.DELETE("/notifications/:id", notificationHandler.Delete)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		// Parent routes
		parentGroup := protected.Group("/parent")
		parentGroup.Use(authMiddleware.RequireRole(policy.RoleParent))
		{
			parentGroup.GET("/dashboard", parentHandler.Dashboard)
			parentGroup.POST("/kudos", parentHandler.SendKudos)
		}

		// Study planner routes
		study := protected.Group("/study")
		{
			study.POST("/tasks", plannerHandler.CreateTask)
			study.GET("/tasks", plannerHandler.GetTasks)
			study.PUT("/tasks/:task_id", plannerHandler.UpdateTask)
			study.DELETE("/tasks/:task_id", plannerHandler.DeleteTask)
			study.POST("/sessions", plannerHandler.CreateSession)
			study.GET("/sessions", plannerHandler.GetSessions)
			study.PUT("/sessions/:session_id", plannerHandler.UpdateSession)
			study.DELETE("/sessions/:session_id", plannerHandler.DeleteSession)
		}

		// Other protected routes
		protected.GET("/users/count", statHandler.GetTotalUsers)
		protected.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
		protected.POST("/upload", uploadHandler.Upload)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
