package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/board-api/internal/auth"
	"github.com/yukikurage/board-api/internal/middleware"
	"github.com/yukikurage/board-api/internal/policy"
	"github.com/yukikurage/board-api/internal/repository"
	"github.com/yukikurage/board-api/internal/services"
	"gorm.io/gorm"
)

// Dependencies holds everything the routes need
type Dependencies struct {
	Issuer *auth.TokenIssuer

	UserRepo  repository.UserRepository
	BoardRepo repository.BoardRepository
	TaskRepo  repository.TaskRepository

	AuthService   *services.AuthService
	UserService   *services.UserService
	BoardService  *services.BoardService
	TaskService   *services.TaskService
	SearchService *services.SearchService
	StatsService  *services.StatsService
	AuditService  *services.AuditService
}

// NewDependencies wires repositories and services over db.
// suggester may be nil, in which case task generation reports the AI service as unavailable.
func NewDependencies(db *gorm.DB, issuer *auth.TokenIssuer, suggester services.TaskSuggester) Dependencies {
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	auditService := services.NewAuditService(repository.NewAuditLogRepository(db))

	return Dependencies{
		Issuer:        issuer,
		UserRepo:      userRepo,
		BoardRepo:     boardRepo,
		TaskRepo:      taskRepo,
		AuthService:   services.NewAuthService(userRepo, issuer, auditService),
		UserService:   services.NewUserService(userRepo, taskRepo, auditService),
		BoardService:  services.NewBoardService(boardRepo, userRepo, statsRepo, auditService),
		TaskService:   services.NewTaskService(taskRepo, boardRepo, suggester, auditService),
		SearchService: services.NewSearchService(boardRepo, taskRepo, userRepo),
		StatsService:  services.NewStatsService(statsRepo, userRepo),
		AuditService:  auditService,
	}
}

// SetupRouter registers every route on r
func SetupRouter(r *gin.Engine, deps Dependencies) {
	authHandler := NewAuthHandler(deps.AuthService)
	userHandler := NewUserHandler(deps.UserService)
	boardHandler := NewBoardHandler(deps.BoardService)
	taskHandler := NewTaskHandler(deps.TaskService)
	searchHandler := NewSearchHandler(deps.SearchService, deps.StatsService, deps.AuditService)

	boardAccess := func(action policy.Action) gin.HandlerFunc {
		return middleware.RequireBoardAccess(deps.BoardRepo, action)
	}
	taskAccess := func(action policy.Action) gin.HandlerFunc {
		return middleware.RequireTaskAccess(deps.TaskRepo, deps.BoardRepo, action)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Board API",
			"version": "1.0.0",
			"health":  "/health",
		})
	})

	// Public routes
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register-admin", authHandler.RegisterAdmin)
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/register-guest", authHandler.RegisterGuest)
		authGroup.POST("/login", authHandler.Login)
	}
	r.GET("/boards/public", boardHandler.ListPublicBoards)
	r.GET("/boards/public/:id", boardHandler.GetPublicBoard)
	r.GET("/users/public", userHandler.ListPublicUsers)

	// Everything below requires a bearer token
	api := r.Group("")
	api.Use(middleware.RequireAuth(deps.Issuer, deps.UserRepo))

	users := api.Group("/users")
	{
		users.GET("", userHandler.ListUsers)
		users.GET("/me", userHandler.GetCurrentUser)
		users.GET("/me/tasks", userHandler.ListMyTasks)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id/password", userHandler.UpdatePassword)
		users.PUT("/:id/avatar", userHandler.UpdateAvatar)
		users.GET("/:id/avatar", userHandler.GetAvatar)
	}

	boards := api.Group("/boards")
	{
		boards.GET("", boardHandler.ListBoards)
		boards.POST("", boardHandler.CreateBoard)
		boards.GET("/:id", boardAccess(policy.ActionRead), boardHandler.GetBoard)
		boards.PUT("/:id", boardAccess(policy.ActionWrite), boardHandler.UpdateBoard)
		boards.DELETE("/:id", boardAccess(policy.ActionDelete), boardHandler.DeleteBoard)
		boards.PUT("/:id/archive", boardAccess(policy.ActionWrite), boardHandler.ArchiveBoard)
		boards.GET("/:id/stats", boardAccess(policy.ActionRead), boardHandler.GetBoardStats)
		boards.GET("/:id/members", boardAccess(policy.ActionRead), boardHandler.ListMembers)
		boards.POST("/:id/members/:userId", boardAccess(policy.ActionWrite), boardHandler.AddMember)
		boards.DELETE("/:id/members/:userId", boardAccess(policy.ActionWrite), boardHandler.RemoveMember)

		boards.GET("/:id/tasks", boardAccess(policy.ActionRead), taskHandler.ListTasks)
		boards.POST("/:id/tasks", boardAccess(policy.ActionWrite), taskHandler.CreateTask)
		boards.PUT("/:id/tasks/bulk/status", boardAccess(policy.ActionWrite), taskHandler.BulkUpdateStatus)
		boards.POST("/:id/tasks/bulk/delete", boardAccess(policy.ActionWrite), taskHandler.BulkDeleteTasks)
		boards.PUT("/:id/tasks/reorder", boardAccess(policy.ActionWrite), taskHandler.ReorderTasks)
		boards.POST("/:id/tasks/generate", boardAccess(policy.ActionWrite), taskHandler.GenerateTasks)
		boards.GET("/:id/tasks/:taskId", boardAccess(policy.ActionRead), taskHandler.GetTask)
		boards.PUT("/:id/tasks/:taskId", boardAccess(policy.ActionWrite), taskHandler.UpdateTask)
		boards.DELETE("/:id/tasks/:taskId", boardAccess(policy.ActionWrite), taskHandler.DeleteTask)
		boards.PUT("/:id/tasks/:taskId/move-to/:targetId", boardAccess(policy.ActionWrite), taskHandler.MoveTask)
	}

	tasks := api.Group("/tasks")
	{
		tasks.GET("/search", taskHandler.SearchTasks)
		tasks.PUT("/:id/status/:status", taskAccess(policy.ActionWrite), taskHandler.SetStatus)
		tasks.PUT("/:id/next-status", taskAccess(policy.ActionWrite), taskHandler.NextStatus)
		tasks.PUT("/:id/priority/:priority", taskAccess(policy.ActionWrite), taskHandler.SetPriority)
		tasks.GET("/:id/comments", taskAccess(policy.ActionRead), taskHandler.ListComments)
		tasks.POST("/:id/comments", taskAccess(policy.ActionWrite), taskHandler.AddComment)
	}

	api.GET("/search", searchHandler.Search)
	api.GET("/stats/tasks", searchHandler.GlobalTaskStats)
	api.GET("/stats/users/:id/activity", searchHandler.UserActivity)
	api.GET("/logs", searchHandler.ListAuditLogs)
}
